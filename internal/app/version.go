package app

import (
	"fmt"
	"io"
	"runtime"
	"slices"
)

// Build information, set with -ldflags "-X github.com/agbru/omnisum/internal/app.Version=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// HasVersionFlag reports whether args ask for the version. It is checked
// before flag parsing so that --version works with otherwise invalid flags.
func HasVersionFlag(args []string) bool {
	return slices.ContainsFunc(args, func(a string) bool {
		return a == "--version" || a == "-version" || a == "-V"
	})
}

// PrintVersion writes the build information to out.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "omnisum %s\n", Version)
	fmt.Fprintf(out, "  commit: %s\n", Commit)
	fmt.Fprintf(out, "  built:  %s\n", BuildDate)
	fmt.Fprintf(out, "  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
