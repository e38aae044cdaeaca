package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/printcraft/backend/internal/apperrors"
)

var (
	slugStripRe    = regexp.MustCompile(`[^a-z0-9\s_-]+`)
	slugCollapseRe = regexp.MustCompile(`[\s-]+`)
)

// Slugify converts a display name into a lowercase, hyphen-separated token.
// Returns the empty string when nothing slug-worthy remains.
func Slugify(name string) string {
	slug := slugStripRe.ReplaceAllString(strings.ToLower(name), "")
	slug = slugCollapseRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// ResolveSlug derives a unique slug from name. taken reports whether a
// candidate slug is already in use; callers exclude the row being updated
// inside that closure. The probe runs per candidate so concurrent writers are
// caught by the database unique index, not by a stale cache.
func ResolveSlug(name string, taken func(slug string) (bool, error)) (string, error) {
	base := Slugify(name)
	if base == "" {
		return "", apperrors.Validationf("name %q does not contain valid characters", name)
	}

	slug := base
	for counter := 1; ; counter++ {
		inUse, err := taken(slug)
		if err != nil {
			return "", err
		}
		if !inUse {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}
