package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/mailgroom/internal/report"
)

var (
	historyLimit int
	historyCSV   string
)

// historyCmd lists past clean runs.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past clean runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := openHistory()
		if err != nil {
			return err
		}
		defer history.Close()

		runs, err := history.GetRuns(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return nil
		}

		for _, run := range runs {
			fmt.Printf("%s  %s  %s  %d -> %d (%d step(s))\n",
				run.ID,
				run.StartedAt.Local().Format("2006-01-02 15:04"),
				run.Source,
				run.TotalProcessed, run.TotalRemaining, run.StepsExecuted,
			)
		}

		return nil
	},
}

// historyShowCmd prints one run's action trail, optionally exporting it
// as CSV.
var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run's full action trail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := openHistory()
		if err != nil {
			return err
		}
		defer history.Close()

		run, err := history.GetRunByID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("no run with id %q", args[0])
		}

		if historyCSV != "" {
			f, err := os.Create(historyCSV)
			if err != nil {
				return fmt.Errorf("creating %s: %w", historyCSV, err)
			}
			defer f.Close()

			if err := report.WriteCSV(f, run.Actions); err != nil {
				return err
			}
			fmt.Println("Wrote", historyCSV)
			return nil
		}

		fmt.Printf("Run %s (%s, %s)\n", run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04"), run.Source)
		fmt.Printf("Steps: %s\n", strings.Join(run.Steps, ", "))
		fmt.Printf("Processed %d, remaining %d\n\n",
			run.TotalProcessed, run.TotalRemaining)

		for _, action := range run.Actions {
			state := fmt.Sprintf("processed %d, changed %d", action.Processed, action.Changed)
			if action.Skipped {
				state = "skipped"
			}
			fmt.Printf("%-20s %s\n", action.Step, state)
			for _, r := range action.Removed {
				fmt.Printf("    removed %s: %s (%s)\n", r.Field, r.Entry, r.Reason)
			}
		}

		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to list")
	historyShowCmd.Flags().StringVar(&historyCSV, "csv", "", "write the action trail to a CSV file")
	historyCmd.AddCommand(historyShowCmd)
}
