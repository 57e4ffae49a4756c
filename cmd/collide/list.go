package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/collide/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered scenarios",
	Long:  `Shows a list of all scenarios that view, serve and bench can build.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(cmd *cobra.Command, _ []string) {
	scenarios := registry.List()
	out := cmd.OutOrStdout()

	if len(scenarios) == 0 {
		fmt.Fprintln(out, "No scenarios available.")
		return
	}

	fmt.Fprintln(out, "Available scenarios:")
	fmt.Fprintln(out)

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, s := range scenarios {
		maxIDLen = max(maxIDLen, len(s.ID))
	}

	fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, s := range scenarios {
		fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, s.ID, s.Title)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'collide view <id>' to watch a scenario.")
}
