package contact

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"local to international", "07896543210", "+447896543210"},
		{"already international", "+447896543210", "+447896543210"},
		{"local with spaces", "07123 456 789", "+447123456789"},
		{"local with dashes", "07123-456-789", "+447123456789"},
		{"landline unchanged", "01234567890", "01234567890"},
		{"too short unchanged", "0789654321", "0789654321"},
		{"empty unchanged", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidMobile(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"07123456789", true},
		{"+447123456789", true},
		{"07123 456 789", true},
		{"07123-456-789", true},
		{"01234567890", false},  // landline
		{"02012345678", false},  // landline
		{"123456789", false},    // wrong length
		{"071234567890", false}, // too long
		{"+441234567890", false},
		{"", false},
		{"not-a-number", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValidMobile(tt.input); got != tt.want {
				t.Errorf("IsValidMobile(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"user@example.com", true},
		{"first.last@sub.domain.co.uk", true},
		{"  user@example.com  ", true},
		{"", false},
		{"no-at-sign", false},
		{"@example.com", false},
		{"user@", false},
		{"user@nodot", false},
		{"user@domain.", false},
		{"two@@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValidEmail(tt.input); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		name      string
		alertType string
		phone     string
		email     string
		want      string
	}{
		{"sms normalizes phone", "sms", "07896543210", "", "+447896543210"},
		{"sms keeps international", "sms", "+447896543210", "", "+447896543210"},
		{"email as given", "email", "", "User@Example.com", "User@Example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Canonical(tt.alertType, tt.phone, tt.email); got != tt.want {
				t.Errorf("Canonical(%q, %q, %q) = %q, want %q", tt.alertType, tt.phone, tt.email, got, tt.want)
			}
		})
	}
}
