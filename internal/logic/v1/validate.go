package v1

import "strings"

const (
	minNameLength     = 3
	minPasswordLength = 8
)

const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

// FieldResult accumulates the outcome of every rule applied to one field.
type FieldResult struct {
	Valid    bool
	Messages []string
}

// UserValidation holds per-field validation results for a user payload.
type UserValidation struct {
	Name     FieldResult
	Email    FieldResult
	Password FieldResult
}

// Valid reports whether every field passed all of its rules.
func (v UserValidation) Valid() bool {
	return v.Name.Valid && v.Email.Valid && v.Password.Valid
}

// FieldErrors converts the validation into the response shape, including
// only the fields that actually failed.
func (v UserValidation) FieldErrors() FieldErrors {
	errs := make(FieldErrors)
	if !v.Name.Valid {
		errs["name"] = v.Name.Messages
	}
	if !v.Email.Valid {
		errs["email"] = v.Email.Messages
	}
	if !v.Password.Valid {
		errs["password"] = v.Password.Messages
	}
	return errs
}

type rule struct {
	valid   bool
	message string
}

func applyRules(rules []rule) FieldResult {
	result := FieldResult{Valid: true}
	for _, r := range rules {
		if !r.valid {
			result.Valid = false
			result.Messages = append(result.Messages, r.message)
		}
	}
	return result
}

// ValidateUser checks a full user payload. All messages for every failed
// rule are collected so clients can fix a form in one round trip.
func ValidateUser(name, email, password string) UserValidation {
	return UserValidation{
		Name:     validateName(name),
		Email:    validateEmail(email),
		Password: validatePassword(password),
	}
}

func validateName(name string) FieldResult {
	name = strings.TrimSpace(name)
	return applyRules([]rule{
		{name != "", "Name is required."},
		{len(name) > minNameLength, "Name must be at least 3 characters long."},
	})
}

func validateEmail(email string) FieldResult {
	_, domainPart, hasAt := strings.Cut(email, "@")
	return applyRules([]rule{
		{email != "", "Email is required."},
		{hasAt, "Email must contain an @ symbol."},
		{strings.Contains(domainPart, "."), "Email must contain a domain. (e.g. @gmail.com)"},
	})
}

func validatePassword(password string) FieldResult {
	return applyRules([]rule{
		{password != "", "Password is required."},
		{len(password) >= minPasswordLength, "Password must be at least 8 characters long."},
		{strings.ContainsAny(password, "0123456789"), "Password must contain at least 1 number."},
		{strings.ContainsAny(password, passwordSpecials), "Password must contain at least 1 special character."},
	})
}
