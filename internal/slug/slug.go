// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

const maxAttempts = 100

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Make lowercases name and joins its alphanumeric runs with hyphens.
func Make(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Unique returns base, or base-2, base-3 and so on, whichever taken reports free first.
func Unique(ctx context.Context, base, fallback string, taken func(ctx context.Context, candidate string) (bool, error)) (string, error) {
	if base == "" {
		base = fallback
	}
	candidate := base
	for i := 2; i <= maxAttempts+1; i++ {
		used, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", base, maxAttempts)
}
