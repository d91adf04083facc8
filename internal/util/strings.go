package util

import "strings"

// NormalizeKey folds registry names and config keys so "DigitalOcean " and
// "digitalocean" resolve to the same entry.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
