package main

import (
	"github.com/tacogips/autopilot/internal/cli"
)

// Version information is set with ldflags on the internal/version package.
func main() {
	cli.Execute()
}
