// Package main provides the entry point for the sumai CLI tool.
package main

import (
	"github.com/sumai-tools/sumai/cmd/sumai/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
