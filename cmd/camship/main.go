// camship is a release helper for the cam_server container image: it
// builds the image from a build context, tags it with a version, and
// pushes the versioned and rolling tags to the registry.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	camship "github.com/paulscherrerinstitute/camship/internal/apps/camship/cmds"
)

const helpHint = "Type 'camship help' to get help."

func main() {
	var execErr error
	defer finalize(&execErr)

	execErr = camship.Execute(context.Background())
}

// finalize handles both panic and normal exit.
// Called in a defer at the top of main.
func finalize(execErr *error) {
	if r := recover(); r != nil {
		fmt.Fprintf(os.Stderr, "camship panic: %v\n", r)
		fmt.Fprintf(os.Stderr, "%s\n", debug.Stack())
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, helpHint)
		os.Exit(2)
	}

	if *execErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", *execErr)
		fmt.Fprintln(os.Stderr, helpHint)
		os.Exit(1)
	}
}
