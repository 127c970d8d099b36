package app

import (
	"fmt"
	"io"
)

// Version information (set by build flags)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// ShowVersion writes version information to w
func ShowVersion(w io.Writer) {
	fmt.Fprintf(w, "squitterlog ADS-B capture log analyzer\n")
	fmt.Fprintf(w, "Version: %s\n", Version)
	fmt.Fprintf(w, "Build Time: %s\n", BuildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", GitCommit)
}
