// Package buildinfo exposes build-time metadata injected via -ldflags:
//
//	-X github.com/dmitrijs2005/posvault/internal/buildinfo.Version=v1.0.0
//	-X github.com/dmitrijs2005/posvault/internal/buildinfo.Date=2025-11-03
//	-X github.com/dmitrijs2005/posvault/internal/buildinfo.Commit=abc1234
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version = "N/A"
	Date    = "N/A"
	Commit  = "N/A"
)

// PrintBuildData writes the build metadata to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", Date)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
}
