package common

import (
	"fmt"
	"io"
	"runtime"
)

const ProjectVersion = "1.0.0"

// Build information, set during build via -ldflags
var (
	BuildDate   = "unknown"
	BuildCommit = "dev"
)

// PrintVersion writes the version banner for appName
func PrintVersion(w io.Writer, appName string) {
	fmt.Fprintf(w, "%s v%s\n", appName, ProjectVersion)
	fmt.Fprintf(w, "Build: %s (%s)\n", BuildCommit, BuildDate)
	fmt.Fprintf(w, "Go: %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
