package mask

import "testing"

func TestPhone(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"+447896543210", "****3210"},
		{"07896543210", "****3210"},
		{"1234", "****"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Phone(tt.input); got != tt.want {
			t.Errorf("Phone(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"john.doe@example.com", "jo****@example.com"},
		{"ab@example.com", "ab****@example.com"},
		{"a@example.com", "a****@example.com"},
		{"not-an-email", "****"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Email(tt.input); got != tt.want {
			t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTemplateID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"73244097-acce-4e7b-84f2-3ddcd0e70fb5", "****0fb5"},
		{"short", "****"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := TemplateID(tt.input); got != tt.want {
			t.Errorf("TemplateID(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
