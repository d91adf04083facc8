package services

import (
	"fmt"
	"net"
	"strings"

	"pickaxeclub/wither/internal/dns/domain"
)

// DefaultTTL is the TTL applied when none is specified (matches Porkbun's minimum).
const DefaultTTL = 600

// normalizeDomain lowercases and strips any trailing dot from a domain name.
func normalizeDomain(d string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(d), "."))
}

// normalizeSubdomain strips the zone suffix from a subdomain if the caller
// passed a fully-qualified name (e.g. "survival.pickaxe.club" in zone
// "pickaxe.club"), and lowercases the result.
func normalizeSubdomain(sub, zone string) string {
	sub = strings.ToLower(strings.TrimRight(strings.TrimSpace(sub), "."))

	if suffix := "." + zone; strings.HasSuffix(sub, suffix) {
		sub = sub[:len(sub)-len(suffix)]
	}
	if sub == zone {
		sub = ""
	}
	return sub
}

// validateContent checks that the content value is appropriate for the record type.
func validateContent(t domain.RecordType, content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("record content cannot be empty")
	}

	switch t {
	case domain.RecordTypeA:
		ip := net.ParseIP(content)
		if ip == nil || ip.To4() == nil {
			return fmt.Errorf("A record content must be a valid IPv4 address, got %q", content)
		}
	case domain.RecordTypeAAAA:
		ip := net.ParseIP(content)
		if ip == nil || ip.To4() != nil {
			return fmt.Errorf("AAAA record content must be a valid IPv6 address, got %q", content)
		}
	}
	return nil
}
