package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid does a DNS-level sanity check on an email's domain.
// Used at account registration only; booking-time contact validation is the
// domain validator's regex rules.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
