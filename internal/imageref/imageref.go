// Package imageref assembles and validates Docker image references.
package imageref

import (
	"strings"
)

// Docker rejects tags longer than 128 characters.
const maxTagLen = 128

// Versioned returns "<image>:<version>" for the given image reference and
// version tag. Both parts are used verbatim: the caller's version must
// end up on the registry exactly as requested, never rewritten. Use
// ValidTag to warn about versions the daemon will reject.
func Versioned(image, version string) string {
	return image + ":" + version
}

// ValidTag reports whether s is a valid Docker tag: at most 128
// characters from [A-Za-z0-9_.-], not starting with '.' or '-'.
func ValidTag(s string) bool {
	if s == "" || len(s) > maxTagLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		case c == '.' || c == '-':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Registry returns the host[:port] prefix of an image reference, or ""
// when the reference has no registry part (i.e. a Docker Hub shorthand).
func Registry(image string) string {
	slash := strings.IndexByte(image, '/')
	if slash < 0 {
		return ""
	}
	host := image[:slash]
	// a registry prefix contains a dot, a colon, or is "localhost"
	if strings.ContainsAny(host, ".:") || host == "localhost" {
		return host
	}
	return ""
}
