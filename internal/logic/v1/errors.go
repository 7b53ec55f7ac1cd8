// Package v1 provides authentication and user-management business logic for
// API version 1.
//
// Error Handling:
// This package defines sentinel errors that represent common failures.
// These errors should be wrapped with context using fmt.Errorf("%w") when
// returned from business logic methods.
//
// Example Usage:
//
//	if row == nil {
//	    return "", fmt.Errorf("authenticate %q: %w", identifier, ErrInvalidCredentials)
//	}
//
// Error Checking (in handlers):
//
//	switch {
//	case errors.Is(err, logicv1.ErrInvalidCredentials):
//	    respondFail(c, http.StatusUnauthorized, nil, "Invalid credentials")
//	default:
//	    respondFail(c, http.StatusInternalServerError, nil, "Internal server error")
//	}
package v1

import "errors"

// Sentinel errors for auth and user operations.
// These errors should be wrapped with context using fmt.Errorf("%w") when returned.
var (
	// ErrInvalidCredentials indicates the presented identifier/password pair
	// did not match a stored credential. Deliberately covers both "no such
	// user" and "wrong password" so callers cannot enumerate accounts.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoToken indicates a request that requires a token arrived without one.
	// HTTP Status: 400 Bad Request
	ErrNoToken = errors.New("no token provided")

	// ErrUserNotFound indicates the requested user does not exist.
	// HTTP Status: 404 Not Found
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates the email is already registered to another user.
	// HTTP Status: 400 Bad Request
	ErrEmailTaken = errors.New("email already exists")
)
