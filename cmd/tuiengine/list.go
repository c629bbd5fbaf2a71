package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-engine/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered scenes",
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	scenes := registry.List()
	out := cmd.OutOrStdout()

	if len(scenes) == 0 {
		fmt.Fprintln(out, "No scenes registered.")
		return
	}

	maxIDLen := 2 // "ID" header
	for _, s := range scenes {
		maxIDLen = max(maxIDLen, len(s.ID))
	}

	fmt.Fprintln(out, "Available scenes:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, s := range scenes {
		fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, s.ID, s.Title)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'tuiengine play <id>' to play a scene.")
}
