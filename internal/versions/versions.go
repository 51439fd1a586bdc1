// Package versions offers helpers for checking release version strings.
package versions

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Check validates that v parses as a semantic version ("1.0.0", "v2.3.1",
// "1.4.0-rc.1"). The caller decides whether a failure is fatal; the
// release pipeline only warns.
func Check(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("empty version")
	}
	if _, err := semver.NewVersion(v); err != nil {
		return fmt.Errorf("version %q is not semver: %w", v, err)
	}
	return nil
}

// Normalize returns the canonical semver form of v ("v1.2" -> "1.2.0").
// If v is not semver it is returned unchanged.
func Normalize(v string) string {
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return v
	}
	return parsed.String()
}
