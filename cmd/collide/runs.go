package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/collide/internal/platform/tui"
	"github.com/vovakirdan/collide/internal/registry"
	"github.com/vovakirdan/collide/internal/storage"
)

var (
	flagRunsTUI   bool
	flagRunsLimit int
	flagRunsClear bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [scenario]",
	Short: "Show stored benchmark runs",
	Long: `Display stored benchmark runs, newest first, with a per-scenario summary.

Examples:
  collide runs
  collide runs grid --limit 5
  collide runs --tui
  collide runs rain --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().BoolVar(&flagRunsTUI, "tui", false, "Browse runs interactively")
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "Maximum runs to show")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete the stored runs instead")
}

func runRuns(cmd *cobra.Command, args []string) error {
	scenario := ""
	if len(args) == 1 {
		scenario = args[0]
		if !registry.Exists(scenario) {
			return fmt.Errorf("%w: %q (run 'collide list')", registry.ErrUnknownScenario, scenario)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagRunsClear {
		if err := store.ClearRuns(scenario); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "runs cleared")
		return nil
	}

	if flagRunsTUI {
		width, height := terminalSize()
		return tui.RunRuns(store, scenario, width, height)
	}

	runs, err := store.Runs(scenario, flagRunsLimit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run 'collide bench <scenario>' to add some.")
		return nil
	}

	stats, err := store.AllScenarioStats()
	if err != nil {
		return err
	}
	for _, info := range registry.List() {
		st, ok := stats[info.ID]
		if !ok || (scenario != "" && info.ID != scenario) {
			continue
		}
		fmt.Fprintf(out, "%-8s %3d runs  best %v/step  avg %v/step  last %s\n",
			info.ID, st.Runs, st.BestPerStep, st.AvgPerStep, st.LastRun.Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(out)

	printRuns(cmd, runs)
	return nil
}
