package forms

import (
	"errors"
	"testing"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"first.last@sub.example.co.uk", true},
		{"user+tag@example.io", true},
		{"", false},
		{"plainaddress", false},
		{"missing-domain@", false},
		{"@missing-local.com", false},
		{"no-tld@example", false},
		{"spaces in@example.com", false},
		{"user@exam ple.com", false},
		{"two@@example.com", false},
	}

	for _, tt := range tests {
		if got := ValidEmail(tt.email); got != tt.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestRequireField(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
		ok    bool
	}{
		{"plain value", "Ada", "Ada", true},
		{"trims whitespace", "  Ada Lovelace  ", "Ada Lovelace", true},
		{"empty", "", "", false},
		{"whitespace only", "   \t\n", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequireField(FieldName, tt.value)
			if tt.ok {
				if err != nil {
					t.Fatalf("RequireField(%q) error = %v", tt.value, err)
				}
				if got != tt.want {
					t.Errorf("RequireField(%q) = %q, want %q", tt.value, got, tt.want)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("RequireField(%q) error = %v, want ValidationError", tt.value, err)
			}
			if verr.Field != FieldName {
				t.Errorf("Field = %q, want %q", verr.Field, FieldName)
			}
			if verr.Kind != ValidationMissing {
				t.Errorf("Kind = %q, want %q", verr.Kind, ValidationMissing)
			}
		})
	}
}

func TestRequireEmail(t *testing.T) {
	got, err := RequireEmail(FieldEmail, " user@example.com ")
	if err != nil {
		t.Fatalf("RequireEmail error = %v", err)
	}
	if got != "user@example.com" {
		t.Errorf("RequireEmail = %q, want trimmed address", got)
	}

	_, err = RequireEmail(FieldEmail, "not-an-email")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if verr.Kind != ValidationInvalidEmail {
		t.Errorf("Kind = %q, want %q", verr.Kind, ValidationInvalidEmail)
	}

	// A missing value reports missing, not invalid
	_, err = RequireEmail(FieldEmail, "   ")
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if verr.Kind != ValidationMissing {
		t.Errorf("Kind = %q, want %q", verr.Kind, ValidationMissing)
	}
}
