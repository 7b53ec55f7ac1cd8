package v1

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/Tristan-Muggridge/pafin-code-challenge/internal/core/domain"
	"github.com/Tristan-Muggridge/pafin-code-challenge/middleware"
)

// UserCreate is the payload for creating a user. The same shape doubles as
// the partial-update payload, where empty fields mean "leave unchanged".
type UserCreate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// FieldErrors maps a field name to its failure detail: a []string of rule
// messages, or a plain string for uniqueness conflicts.
type FieldErrors map[string]any

// BatchResult is the outcome of a create-many request. Entries that failed
// validation or uniqueness are keyed by email (or input index when the email
// is missing); the rest are created and returned in input order.
type BatchResult struct {
	Created []domain.User
	Failed  map[string]FieldErrors
}

// UserService implements user CRUD business rules.
// It depends on the repository interface (injected via constructor) and
// MUST NOT access the database or SQL directly.
type UserService struct {
	users domain.UserRepository
}

// NewUserService creates a new UserService with the given repository.
func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

// List returns a page of users plus the total user count for pagination.
func (s *UserService) List(ctx context.Context, opts domain.ListOptions) ([]domain.User, int, error) {
	ctx, span := middleware.StartSpan(ctx, "users.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("list.skip", opts.Skip),
		attribute.Int("list.take", opts.Take),
	))
	defer span.End()

	users, err := s.users.List(ctx, opts)
	if err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	total, err := s.users.Count(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	span.SetAttributes(attribute.Int("list.count", len(users)))
	return users, total, nil
}

// Get returns the user with the given id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "users.get", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("get user %q: %w", id, ErrUserNotFound)
	}
	return user, nil
}

// Create inserts a single validated user after checking email uniqueness.
// The caller is responsible for field validation; Create only enforces the
// rules that need storage access.
func (s *UserService) Create(ctx context.Context, in UserCreate) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "users.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("check email uniqueness: %w", err)
	}
	if exists {
		span.SetAttributes(attribute.Bool("create.success", false))
		return nil, fmt.Errorf("create user %q: %w", in.Email, ErrEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, domain.NewUser{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("insert user: %w", err)
	}

	span.SetAttributes(
		attribute.String("user.id", user.ID),
		attribute.Bool("create.success", true),
	)
	span.AddEvent("user.created")
	return user, nil
}

// CreateMany validates each entry, checks the surviving emails against
// storage in one round trip, and inserts the rest as a batch. Per-entry
// failures never abort the batch; they are reported alongside the created
// records.
func (s *UserService) CreateMany(ctx context.Context, inputs []UserCreate) (*BatchResult, error) {
	ctx, span := middleware.StartSpan(ctx, "users.create_many", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("batch.size", len(inputs)),
	))
	defer span.End()

	result := &BatchResult{Failed: make(map[string]FieldErrors)}

	valid := make([]UserCreate, 0, len(inputs))
	emails := make([]string, 0, len(inputs))
	for i, in := range inputs {
		validation := ValidateUser(in.Name, in.Email, in.Password)
		if !validation.Valid() {
			key := in.Email
			if key == "" {
				key = strconv.Itoa(i)
			}
			result.Failed[key] = validation.FieldErrors()
			continue
		}
		valid = append(valid, in)
		emails = append(emails, in.Email)
	}

	taken, err := s.users.EmailsExist(ctx, emails)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("check email uniqueness: %w", err)
	}

	toCreate := make([]domain.NewUser, 0, len(valid))
	for _, in := range valid {
		if taken[in.Email] {
			result.Failed[in.Email] = FieldErrors{"email": "Email already exists."}
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("hash password: %w", err)
		}
		toCreate = append(toCreate, domain.NewUser{
			Name:         in.Name,
			Email:        in.Email,
			PasswordHash: string(hash),
		})
	}

	created, err := s.users.CreateMany(ctx, toCreate)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("insert users: %w", err)
	}
	result.Created = created

	span.SetAttributes(
		attribute.Int("batch.created", len(result.Created)),
		attribute.Int("batch.failed", len(result.Failed)),
	)
	return result, nil
}

// Update applies the provided fields to an existing user. A new password is
// hashed before it reaches storage.
func (s *UserService) Update(ctx context.Context, id string, in UserCreate) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "users.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	patch := domain.UserPatch{Name: in.Name, Email: in.Email}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("hash password: %w", err)
		}
		patch.PasswordHash = string(hash)
	}

	user, err := s.users.Update(ctx, id, patch)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update user: %w", err)
	}
	if user == nil {
		span.SetAttributes(attribute.Bool("update.success", false))
		return nil, fmt.Errorf("update user %q: %w", id, ErrUserNotFound)
	}

	span.SetAttributes(
		attribute.String("user.id", user.ID),
		attribute.Bool("update.success", true),
	)
	return user, nil
}

// Delete removes the user with the given id.
func (s *UserService) Delete(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "users.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	user, err := s.users.Delete(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("delete user: %w", err)
	}
	if user == nil {
		span.SetAttributes(attribute.Bool("delete.success", false))
		return nil, fmt.Errorf("delete user %q: %w", id, ErrUserNotFound)
	}

	span.SetAttributes(
		attribute.String("user.id", user.ID),
		attribute.Bool("delete.success", true),
	)
	return user, nil
}
