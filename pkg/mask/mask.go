// Package mask redacts contact values for log output. Raw phone numbers,
// email addresses and notification template ids must never reach logs or
// telemetry; only these masked forms may.
package mask

import "strings"

// Phone keeps the last four digits: "+447896543210" -> "****3210".
func Phone(phone string) string {
	if phone == "" {
		return ""
	}
	if len(phone) > 4 {
		return "****" + phone[len(phone)-4:]
	}
	return "****"
}

// Email keeps the first two characters of the local part and the domain:
// "john.doe@example.com" -> "jo****@example.com".
func Email(email string) string {
	if email == "" {
		return ""
	}

	at := strings.Index(email, "@")
	if at < 0 {
		return "****"
	}

	local, domain := email[:at], email[at+1:]
	if len(local) > 2 {
		local = local[:2]
	}
	return local + "****@" + domain
}

// TemplateID keeps the last four characters of ids long enough to stay
// unguessable.
func TemplateID(id string) string {
	if id == "" {
		return ""
	}
	if len(id) > 8 {
		return "****" + id[len(id)-4:]
	}
	return "****"
}
