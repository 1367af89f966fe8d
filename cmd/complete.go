package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/vocabdaily/internal/challenge"
)

var completeCmd = &cobra.Command{
	Use:   "complete <set-id> <item-id> <score>",
	Short: "Record a completed item with a mastery score between 0 and 1",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid score %q: %w", args[2], err)
		}

		set, err := current.service.RecordCompletion(cmd.Context(), args[0], args[1], score)
		if err != nil {
			return err
		}

		p := challenge.GetProgress(set)
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s recorded (%.2f). Progress: %d/%d (%.0f%%)\n",
			args[1], set.MasteryScores[args[1]], p.Completed, p.Total, p.Percentage)
		if set.IsCompleted {
			fmt.Fprintln(cmd.OutOrStdout(), "🎉 Set completed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completeCmd)
}
