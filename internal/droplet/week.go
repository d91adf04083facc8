package droplet

import (
	"errors"
	"regexp"
)

var weekPattern = regexp.MustCompile(`^\d{3}[a-z]?$`)

// ErrInvalidWeek is returned for restore week ids that are not three digits
// with an optional lowercase suffix.
var ErrInvalidWeek = errors.New("invalid restore week")

// ParseRestoreWeek validates a restore week id such as "042" or "042a".
func ParseRestoreWeek(s string) (string, error) {
	if !weekPattern.MatchString(s) {
		return "", ErrInvalidWeek
	}
	return s, nil
}

// ArchiveName returns the archive file name for week.
func ArchiveName(week string) string {
	return "week" + week + ".tar.gz"
}
