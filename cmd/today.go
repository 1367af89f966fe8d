package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/vocabdaily/internal/challenge"
	"github.com/example/vocabdaily/pkg/models"
)

var todayDate string

var todayCmd = &cobra.Command{
	Use:   "today <owner>",
	Short: "Show the owner's practice set for today, creating it if needed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := resolveDay(todayDate)
		if err != nil {
			return err
		}

		set, err := current.service.GetOrCreateTodaysSet(cmd.Context(), args[0], day)
		if err != nil {
			return err
		}
		return printSet(cmd, set)
	},
}

// resolveDay parses a YYYY-MM-DD flag value, defaulting to now in the configured time zone
func resolveDay(value string) (time.Time, error) {
	if value == "" {
		return time.Now().In(current.cfg.Location()), nil
	}
	day, err := models.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
	}
	return day, nil
}

func printSet(cmd *cobra.Command, set *models.PracticeSet) error {
	words, err := current.words.GetByIDs(cmd.Context(), set.ItemIDs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p := challenge.GetProgress(set)
	fmt.Fprintf(out, "📅 %s  set %s\n", models.FormatDate(set.Date), set.ID)
	fmt.Fprintf(out, "Owner: %s  Tier: %d  State: %s  Progress: %d/%d (%.0f%%)\n\n",
		set.Owner, set.DifficultyTier, set.State(), p.Completed, p.Total, p.Percentage)
	writeItems(out, set, words)
	return nil
}

func writeItems(out io.Writer, set *models.PracticeSet, words map[string]models.VocabularyItem) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tWORD\tTRANSLATION\tREVIEW\tDONE\tSCORE")
	for i, id := range set.ItemIDs {
		word := words[id]
		review, done, score := "", "", ""
		if set.IsReviewItem(id) {
			review = "yes"
		}
		if set.IsItemCompleted(id) {
			done = "✓"
		}
		if s, ok := set.MasteryScores[id]; ok {
			score = fmt.Sprintf("%.2f", s)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", i+1, id, word.Word, word.Translation, review, done, score)
	}
	w.Flush()
}

func init() {
	todayCmd.Flags().StringVar(&todayDate, "date", "", "practice date as YYYY-MM-DD (default today)")
	rootCmd.AddCommand(todayCmd)
}
