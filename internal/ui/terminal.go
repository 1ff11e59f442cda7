package ui

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ShouldUseColor reports whether gig should emit ANSI colors on stdout.
// Explicit env overrides win over TTY detection: NO_COLOR disables,
// CLICOLOR_FORCE=1 forces color even when piped, CLICOLOR=0 disables.
func ShouldUseColor() bool {
	// https://no-color.org convention: any non-empty value disables color.
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR")) == "0" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
