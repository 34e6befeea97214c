// Package contact canonicalizes and validates the contact values used as
// subscription keys: UK mobile numbers and email addresses.
package contact

import "strings"

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePhone rewrites a UK mobile number in local form (07 + 9 digits)
// to international form (+447...). Numbers already in international form, or
// anything that does not match the local mobile shape, are returned
// unchanged and left to validation.
func NormalizePhone(phone string) string {
	if phone == "" {
		return phone
	}

	clean := digitsOnly(phone)
	if strings.HasPrefix(clean, "07") && len(clean) == 11 {
		return "+44" + clean[1:]
	}

	return phone
}

// IsValidMobile accepts UK mobile numbers only, with or without separators:
// local 07XXXXXXXXX (11 digits) or international +447XXXXXXXXX. Landline
// prefixes (01, 02) and any other length are rejected.
func IsValidMobile(phone string) bool {
	if phone == "" {
		return false
	}

	clean := digitsOnly(phone)

	if strings.HasPrefix(phone, "+44") {
		return len(clean) == 12 && strings.HasPrefix(clean, "447")
	}

	return len(clean) == 11 && strings.HasPrefix(clean, "07")
}

// IsValidEmail performs a deliberately light check: non-empty local part,
// an @, and a domain containing a dot. Deliverability is the notification
// service's problem.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}

	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return false
	}

	local, domain := email[:at], email[at+1:]
	if strings.ContainsAny(local, " \t") || strings.ContainsAny(domain, " \t") {
		return false
	}

	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

// Canonical derives the subscription key for a validated request: the
// normalized phone number for sms alerts, the email address as given for
// email alerts. Emails are intentionally not case-normalized.
func Canonical(alertType, phone, email string) string {
	if alertType == "sms" {
		return NormalizePhone(phone)
	}
	return email
}
