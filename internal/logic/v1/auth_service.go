package v1

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/Tristan-Muggridge/pafin-code-challenge/internal/auth"
	"github.com/Tristan-Muggridge/pafin-code-challenge/internal/core/domain"
	"github.com/Tristan-Muggridge/pafin-code-challenge/middleware"
)

// AuthService implements the session lifecycle: credential verification and
// token issuance on login, deny-listing on logout.
// It depends on the repository interface and the auth primitives (injected
// via constructor) and MUST NOT access the database or SQL directly.
type AuthService struct {
	users   domain.UserRepository
	codec   *auth.TokenCodec
	revoked *auth.RevocationRegistry
}

// NewAuthService creates a new AuthService with the given dependencies.
func NewAuthService(users domain.UserRepository, codec *auth.TokenCodec, revoked *auth.RevocationRegistry) *AuthService {
	return &AuthService{
		users:   users,
		codec:   codec,
		revoked: revoked,
	}
}

// Login verifies the identifier/password pair against stored credentials and
// returns a signed session token on success. Unknown identifier and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (string, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	row, err := s.users.GetByEmail(ctx, identifier)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("query user: %w", err)
	}
	if row == nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return "", fmt.Errorf("authenticate %q: %w", identifier, ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return "", fmt.Errorf("authenticate %q: %w", identifier, ErrInvalidCredentials)
	}

	token, err := s.codec.Sign(row.ID)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("sign session token: %w", err)
	}

	span.SetAttributes(
		attribute.String("user.id", row.ID),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("user.authenticated")

	return token, nil
}

// Logout adds the presented token to the revocation registry. The token is
// deny-listed unconditionally: logout succeeds even for a token that was
// never issued, which keeps the operation idempotent for clients retrying
// with stale state. Only a missing token is an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	_, span := middleware.StartSpan(ctx, "auth.logout", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if token == "" {
		span.SetAttributes(attribute.Bool("logout.success", false))
		return fmt.Errorf("logout: %w", ErrNoToken)
	}

	s.revoked.Add(token)
	span.SetAttributes(attribute.Bool("logout.success", true))
	span.AddEvent("token.revoked")
	return nil
}

// CreateAdminUser seeds the fixed admin/admin account used by the test
// bootstrap route. It bypasses field validation on purpose; the route that
// calls it is never registered in production.
func (s *AuthService) CreateAdminUser(ctx context.Context) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.create_admin_user", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, domain.NewUser{
		Name:         "admin",
		Email:        "admin",
		PasswordHash: string(hash),
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("insert admin user: %w", err)
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	return user, nil
}
