package v1

import (
	"testing"
)

func TestValidateUser_AllValid(t *testing.T) {
	v := ValidateUser("Test User", "test.user@test.com", "Password123!")
	if !v.Valid() {
		t.Errorf("expected valid, got name=%v email=%v password=%v",
			v.Name.Messages, v.Email.Messages, v.Password.Messages)
	}
	if len(v.FieldErrors()) != 0 {
		t.Errorf("expected no field errors, got %v", v.FieldErrors())
	}
}

func TestValidateUser_Name(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		messages int
	}{
		{"empty fails both rules", "", 2},
		{"too short", "St", 1},
		{"whitespace only", "   ", 2},
		{"exactly three chars", "Abc", 1},
		{"four chars is the minimum that passes", "Test", 0},
		{"valid", "Tester", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateName(tt.input)
			if len(result.Messages) != tt.messages {
				t.Errorf("validateName(%q) messages = %v, want %d", tt.input, result.Messages, tt.messages)
			}
		})
	}
}

func TestValidateUser_Name_FourCharsPasses(t *testing.T) {
	if result := validateName("Abcd"); !result.Valid {
		t.Errorf("expected 4-char name to pass, got %v", result.Messages)
	}
	if result := validateName("Abc"); result.Valid {
		t.Error("expected 3-char name to fail")
	}
}

func TestValidateUser_Email(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"valid", "test.user@test.com", true},
		{"missing @", "something", false},
		{"missing domain", "test.user@test", false},
		{"empty domain", "user@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateEmail(tt.input)
			if result.Valid != tt.valid {
				t.Errorf("validateEmail(%q).Valid = %v, want %v (%v)", tt.input, result.Valid, tt.valid, result.Messages)
			}
		})
	}
}

func TestValidateUser_Password(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"valid", "Password123!", true},
		{"no number", "Password!", false},
		{"no special", "Password123", false},
		{"too short", "Pw1!", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validatePassword(tt.input)
			if result.Valid != tt.valid {
				t.Errorf("validatePassword(%q).Valid = %v, want %v (%v)", tt.input, result.Valid, tt.valid, result.Messages)
			}
		})
	}
}

func TestFieldErrors_OnlyFailedFields(t *testing.T) {
	v := ValidateUser("St", "test.user@test.com", "Password123!")
	errs := v.FieldErrors()

	if _, ok := errs["name"]; !ok {
		t.Error("expected name errors")
	}
	if _, ok := errs["email"]; ok {
		t.Error("did not expect email errors")
	}
	if _, ok := errs["password"]; ok {
		t.Error("did not expect password errors")
	}
}
