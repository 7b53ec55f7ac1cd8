package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Tristan-Muggridge/pafin-code-challenge/internal/auth"
	logicv1 "github.com/Tristan-Muggridge/pafin-code-challenge/internal/logic/v1"
	"github.com/Tristan-Muggridge/pafin-code-challenge/middleware"
)

// RegisterAuthRoutes registers the session routes on the root router.
// The admin bootstrap route exists for test setup only and must never be
// registered in production.
func (h *Handler) RegisterAuthRoutes(r gin.IRouter, withBootstrap bool) {
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	if withBootstrap {
		r.POST("/create-admin-user", h.CreateAdminUser)
	}
}

// Login handles POST /login with Basic credentials in the Authorization
// header. Every failure path returns the same generic message so the
// response never reveals whether the identifier exists.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	identifier, password, ok := auth.BasicCredentials(c.GetHeader("Authorization"))
	if !ok {
		span.SetAttributes(attribute.Bool("auth.credentials_present", false))
		c.JSON(http.StatusUnauthorized, gin.H{"status": statusFail, "message": "Invalid credentials"})
		return
	}

	token, err := h.auth.Login(ctx, identifier, password)
	if err != nil {
		if errors.Is(err, logicv1.ErrInvalidCredentials) {
			logger.Warn().Msg("Login rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"status": statusFail, "message": "Invalid credentials"})
			return
		}
		span.RecordError(err)
		logger.Error().Err(err).Msg("Login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": statusFail, "message": "Internal server error"})
		return
	}

	logger.Info().Msg("Login successful")
	c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "data": gin.H{"token": token}})
}

// Logout handles POST /logout. The Bearer token from the Authorization
// header is deny-listed; a token that was never issued is accepted all the
// same, so retried logouts cannot fail.
func (h *Handler) Logout(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	token := auth.BearerToken(c.GetHeader("Authorization"))

	if err := h.auth.Logout(ctx, token); err != nil {
		if errors.Is(err, logicv1.ErrNoToken) {
			c.JSON(http.StatusBadRequest, gin.H{"status": statusFail, "message": "Unable to logout. No token provided"})
			return
		}
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("Logout failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": statusFail, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "message": "Logged out successfully"})
}

// CreateAdminUser handles POST /create-admin-user, the non-production
// bootstrap that seeds the fixed admin account for test runs.
func (h *Handler) CreateAdminUser(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	user, err := h.auth.CreateAdminUser(ctx)
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Admin bootstrap failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": statusFail, "message": "Internal server error"})
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("Admin user created")
	c.JSON(http.StatusCreated, gin.H{"status": statusSuccess, "data": gin.H{"user": user}})
}
