package util

import (
	"fmt"
	"net"
	"regexp"
	"strings"
)

// hostLabelChars matches word characters and hyphens, the set accepted for
// the left-most label of a game hostname.
var hostLabelChars = regexp.MustCompile(`^[\w-]+$`)

// dottedQuad matches the literal shape of an IPv4 address before it is parsed.
var dottedQuad = regexp.MustCompile(`^[\d.]+$`)

// ValidateHostLabel checks that label can be prefixed to the zone as a single
// DNS label:
//   - Not empty
//   - Only letters, digits, underscores, and hyphens
//   - No leading or trailing hyphen
func ValidateHostLabel(label string) error {
	if label == "" {
		return fmt.Errorf("host label cannot be empty")
	}

	if !hostLabelChars.MatchString(label) {
		return fmt.Errorf("host label %q contains invalid characters (only letters, digits, underscores, and hyphens are allowed)", label)
	}

	if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
		return fmt.Errorf("host label %q must not start or end with a hyphen", label)
	}

	return nil
}

// ValidateIPv4 checks that s is a dotted IPv4 literal such as 203.0.113.5.
func ValidateIPv4(s string) error {
	if !dottedQuad.MatchString(s) {
		return fmt.Errorf("%q is not a dotted IPv4 address", s)
	}

	ip := net.ParseIP(s)
	if ip == nil || ip.To4() == nil {
		return fmt.Errorf("%q is not a valid IPv4 address", s)
	}

	return nil
}
