// Package update changes the address a game hostname resolves to.
//
// Four back ends implement Updater: a shell script (the historical
// nsupdate wrapper), a native RFC 2136 update signed with TSIG, and the
// Porkbun and Cloudflare APIs through the DNS service layer.
package update

import (
	"context"
	"path/filepath"
	"strings"
)

// Updater points fqdn at address.
type Updater interface {
	Update(ctx context.Context, fqdn, address string) error
}

// KeyBase returns the BIND key file base name for zone, e.g.
// "Kpickaxe.+157+50170" for "pickaxe.club".
func KeyBase(zone string) string {
	label := strings.TrimSuffix(zone, ".")
	if i := strings.IndexByte(label, '.'); i >= 0 {
		label = label[:i]
	}
	return "K" + label + ".+157+50170"
}

// KeyFiles returns the .private and .key paths for zone inside dir.
func KeyFiles(dir, zone string) (privatePath, keyPath string) {
	base := filepath.Join(dir, KeyBase(zone))
	return base + ".private", base + ".key"
}
