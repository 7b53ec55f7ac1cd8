// Package v1 exposes the HTTP surface for API version 1: the session routes
// (login, logout) and the protected user CRUD routes.
//
// Every response uses the same envelope:
//
//	{"status": "success" | "fail", "data": ..., "message": ...}
//
// with absent fields omitted rather than sent as empty values.
package v1

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Tristan-Muggridge/pafin-code-challenge/internal/core/domain"
	logicv1 "github.com/Tristan-Muggridge/pafin-code-challenge/internal/logic/v1"
	"github.com/Tristan-Muggridge/pafin-code-challenge/middleware"
)

const (
	statusSuccess = "success"
	statusFail    = "fail"
)

// Pagination limits for GET /api/users, matching the documented API contract.
const (
	skipDefault = 0
	skipMin     = 0
	takeDefault = 25
	takeMin     = 1
	takeMax     = 100
)

// Handler groups HTTP handlers for API v1.
type Handler struct {
	auth  *logicv1.AuthService
	users *logicv1.UserService
}

// NewHandler creates a new Handler with the given services.
func NewHandler(auth *logicv1.AuthService, users *logicv1.UserService) *Handler {
	return &Handler{auth: auth, users: users}
}

// RegisterUserRoutes registers the user CRUD routes on the given group.
// The group is expected to carry the authentication gate.
func (h *Handler) RegisterUserRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.GetAllUsers)
	rg.GET("/:id", h.GetOneUser)
	rg.POST("", h.CreateUsers)
	rg.PUT("/:id", h.UpdateUser)
	rg.DELETE("/:id", h.DeleteUser)
}

// GetAllUsers handles GET /api/users with skip/take/sort/order query params.
func (h *Handler) GetAllUsers(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	skip := parseNumberOrDefault(c.Query("skip"), skipDefault)
	take := parseNumberOrDefault(c.Query("take"), takeDefault)
	sortBy := c.Query("sort")
	order := c.Query("order")

	switch {
	case skip < skipMin:
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFail, "data": gin.H{"skip": "Skip is less than 0."}})
		return
	case take < takeMin:
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFail, "data": gin.H{"take": "Take is less than 1."}})
		return
	case take > takeMax:
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFail, "data": gin.H{"take": "Take is greater than 100."}})
		return
	}
	if sortBy != "" && sortBy != domain.SortByID && sortBy != domain.SortByName && sortBy != domain.SortByEmail {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFail, "data": gin.H{"sort": "Sort is invalid."}})
		return
	}
	if order != "" && order != domain.OrderAsc && order != domain.OrderDesc {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFail, "data": gin.H{"order": "Order is invalid."}})
		return
	}

	if sortBy == "" {
		sortBy = domain.SortByID
	}
	if order != domain.OrderDesc {
		order = domain.OrderAsc
	}

	users, total, err := h.users.List(ctx, domain.ListOptions{
		Skip:  skip,
		Take:  take,
		Sort:  sortBy,
		Order: order,
	})
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("List users failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": statusFail, "message": "Internal server error"})
		return
	}

	totalPages := (total + take - 1) / take
	currentPage := skip/take + 1

	body := gin.H{
		"status":      statusSuccess,
		"data":        gin.H{"users": users},
		"totalPages":  totalPages,
		"currentPage": currentPage,
		"count":       len(users),
	}
	if len(users) == 0 {
		body["status"] = statusFail
		body["message"] = "No users found."
	}
	c.JSON(http.StatusOK, body)
}

// GetOneUser handles GET /api/users/:id.
func (h *Handler) GetOneUser(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	user, err := h.users.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, logicv1.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": statusFail, "data": nil, "message": "User not found."})
			return
		}
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("Get user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": statusFail, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "data": gin.H{"user": user}})
}

// CreateUsers handles POST /api/users. The body may be a single user object
// or an array of them; the array form creates what it can and reports
// per-entry failures instead of aborting.
func (h *Handler) CreateUsers(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFail, "data": gin.H{"body": "No body provided."}})
		return
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFail, "data": gin.H{"body": "No body provided."}})
		return
	}

	if body[0] == '[' {
		h.createMany(c, span, body)
		return
	}
	h.createOne(c, span, body)
}

func (h *Handler) createOne(c *gin.Context, span trace.Span, body []byte) {
	ctx := c.Request.Context()
	logger := zerolog.Ctx(ctx)

	var in logicv1.UserCreate
	if err := json.Unmarshal(body, &in); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFail, "data": gin.H{"body": "Invalid JSON body."}})
		return
	}

	validation := logicv1.ValidateUser(in.Name, in.Email, in.Password)
	if !validation.Valid() {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFail, "data": validation.FieldErrors()})
		return
	}

	user, err := h.users.Create(ctx, in)
	if err != nil {
		if errors.Is(err, logicv1.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"status": statusFail, "data": gin.H{"email": "Email already exists."}})
			return
		}
		span.RecordError(err)
		logger.Error().Err(err).Msg("Create user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": statusFail, "message": "Internal server error"})
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("User created")
	c.JSON(http.StatusCreated, gin.H{"status": statusSuccess, "data": gin.H{"user": user}})
}

func (h *Handler) createMany(c *gin.Context, span trace.Span, body []byte) {
	ctx := c.Request.Context()
	logger := zerolog.Ctx(ctx)

	var inputs []logicv1.UserCreate
	if err := json.Unmarshal(body, &inputs); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFail, "data": gin.H{"body": "Invalid JSON body."}})
		return
	}

	result, err := h.users.CreateMany(ctx, inputs)
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Create users failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": statusFail, "message": "Internal server error"})
		return
	}

	data := gin.H{}
	if len(result.Created) > 0 {
		data["success"] = result.Created
	}
	if len(result.Failed) > 0 {
		data["fail"] = result.Failed
	}

	status := statusSuccess
	if len(result.Failed) > 0 {
		status = statusFail
	}

	logger.Info().
		Int("created", len(result.Created)).
		Int("failed", len(result.Failed)).
		Msg("Batch user create")
	c.JSON(http.StatusCreated, gin.H{"status": status, "data": data})
}

// UpdateUser handles PUT /api/users/:id. Only the fields present in the
// payload are validated and applied.
func (h *Handler) UpdateUser(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	var in logicv1.UserCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFail, "data": gin.H{"body": "Invalid JSON body."}})
		return
	}

	validation := logicv1.ValidateUser(in.Name, in.Email, in.Password)
	fieldErrors := logicv1.FieldErrors{}
	if in.Name != "" && !validation.Name.Valid {
		fieldErrors["name"] = validation.Name.Messages
	}
	if in.Email != "" && !validation.Email.Valid {
		fieldErrors["email"] = validation.Email.Messages
	}
	if in.Password != "" && !validation.Password.Valid {
		fieldErrors["password"] = validation.Password.Messages
	}
	if len(fieldErrors) > 0 {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"status": statusFail, "data": fieldErrors})
		return
	}

	user, err := h.users.Update(ctx, c.Param("id"), in)
	if err != nil {
		if errors.Is(err, logicv1.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": statusFail, "data": nil, "message": "User not found."})
			return
		}
		span.RecordError(err)
		logger.Error().Err(err).Msg("Update user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": statusFail, "message": "Internal server error"})
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("User updated")
	c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "data": gin.H{"user": user}})
}

// DeleteUser handles DELETE /api/users/:id.
func (h *Handler) DeleteUser(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	user, err := h.users.Delete(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, logicv1.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": statusFail, "data": gin.H{"id": "User not found."}})
			return
		}
		span.RecordError(err)
		logger.Error().Err(err).Msg("Delete user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": statusFail, "message": "Internal server error"})
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("User deleted")
	c.Status(http.StatusNoContent)
}

// parseNumberOrDefault parses a query value, falling back to def for
// anything non-numeric. Out-of-range values are rejected separately so the
// client gets a specific message rather than a silent default.
func parseNumberOrDefault(value string, def int) int {
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return n
}
