package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/vocabdaily/pkg/models"
)

var corpusTier int

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Show vocabulary counts per tier, or list the words of one tier",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if corpusTier == 0 {
			counts, err := current.words.CountByTier(cmd.Context())
			if err != nil {
				return err
			}
			total := 0
			fmt.Fprintln(out, "📖 Vocabulary")
			for tier := models.MinTier; tier <= models.MaxTier; tier++ {
				fmt.Fprintf(out, "Tier %d: %d\n", tier, counts[tier])
				total += counts[tier]
			}
			fmt.Fprintf(out, "Total:  %d\n", total)
			return nil
		}

		words, err := current.words.ListByTier(cmd.Context(), corpusTier)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tWORD\tTRANSLATION")
		for _, word := range words {
			fmt.Fprintf(w, "%s\t%s\t%s\n", word.ID, word.Word, word.Translation)
		}
		return w.Flush()
	},
}

func init() {
	corpusCmd.Flags().IntVar(&corpusTier, "tier", 0, "list the words of this tier")
	rootCmd.AddCommand(corpusCmd)
}
