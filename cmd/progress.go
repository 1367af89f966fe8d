package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/vocabdaily/internal/challenge"
	"github.com/example/vocabdaily/pkg/models"
)

var (
	progressDate    string
	progressHistory int
)

var progressCmd = &cobra.Command{
	Use:   "progress <owner>",
	Short: "Show the owner's progress for a day and recent history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner := args[0]
		day, err := resolveDay(progressDate)
		if err != nil {
			return err
		}

		state, set, err := current.service.Status(cmd.Context(), owner, day)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if state == models.StateAbsent {
			fmt.Fprintf(out, "No practice set for %s on %s\n", owner, models.FormatDate(day))
		} else {
			p := challenge.GetProgress(set)
			fmt.Fprintf(out, "📊 %s on %s: %s, %d/%d (%.0f%%)\n",
				owner, models.FormatDate(day), state, p.Completed, p.Total, p.Percentage)
		}

		if progressHistory <= 0 {
			return nil
		}
		// history and estimate both end at the requested day
		until := day.AddDate(0, 0, 1)
		sets, err := current.challenges.FetchRecentSets(cmd.Context(), owner, until, progressHistory)
		if err != nil {
			return err
		}
		if len(sets) == 0 {
			return nil
		}
		recent, err := current.challenges.FetchRecentSets(cmd.Context(), owner, until, challenge.HistoryWindow)
		if err != nil {
			return err
		}

		fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tTIER\tDONE\tREVIEW\tSTATE")
		for _, s := range sets {
			p := challenge.GetProgress(s)
			fmt.Fprintf(w, "%s\t%d\t%d/%d\t%d\t%s\n",
				models.FormatDate(s.Date), s.DifficultyTier, p.Completed, p.Total, len(s.ReviewItemIDs), s.State())
		}
		fmt.Fprintf(w, "\nnext tier estimate: %d\n", challenge.EstimateDifficulty(recent))
		return w.Flush()
	},
}

func init() {
	progressCmd.Flags().StringVar(&progressDate, "date", "", "date as YYYY-MM-DD (default today)")
	progressCmd.Flags().IntVar(&progressHistory, "history", challenge.HistoryWindow, "number of recent sets to list, 0 to skip")
	rootCmd.AddCommand(progressCmd)
}
