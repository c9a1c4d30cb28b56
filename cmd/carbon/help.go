package main

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/carbon/internal/ui"
)

var (
	// "Ledger:", "Flags:" and other unindented section titles.
	reSectionTitle = regexp.MustCompile(`(?m)^([A-Z][^\n]*:)[ \t]*$`)

	// Two-space indented command name followed by its description.
	reCommandName = regexp.MustCompile(`(?m)^(  )([a-z][\w-]*)(  +)`)

	// (default "...") and (default 500ms) annotations.
	reDefaultValue = regexp.MustCompile(`\(default [^)]*\)`)
)

// colorizedHelpFunc returns a cobra help function that styles the usage text
// when stdout supports color.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		orig := cmd.OutOrStdout()
		if !ui.ShouldUseColor() {
			_ = cmd.Usage()
			return
		}

		var buf bytes.Buffer
		cmd.SetOut(&buf)
		_ = cmd.Usage()
		cmd.SetOut(orig)
		fmt.Fprint(orig, colorizeHelp(buf.String()))
	}
}

func colorizeHelp(s string) string {
	s = reSectionTitle.ReplaceAllStringFunc(s, ui.RenderAccent)
	s = reCommandName.ReplaceAllString(s, "${1}"+ui.RenderCommand("${2}")+"${3}")
	s = reDefaultValue.ReplaceAllStringFunc(s, ui.RenderMuted)
	return s
}
