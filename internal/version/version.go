// Package version exposes the camship binary version.
package version

// version is overridden at build time:
//
//	go build -ldflags "-X github.com/paulscherrerinstitute/camship/internal/version.version=1.2.3"
var version = "local"

func Get() string {
	return version
}
