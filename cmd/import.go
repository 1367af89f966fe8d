package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/vocabdaily/internal/excel"
)

var importConfig = excel.DefaultImportConfig()

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import vocabulary from an .xlsx or .csv file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config := importConfig
		config.FilePath = args[0]

		result, err := excel.ImportWords(cmd.Context(), current.words, config)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "📥 Imported %s\n", args[0])
		fmt.Fprintf(out, "Processed: %d\nCreated:   %d\nUpdated:   %d\nSkipped:   %d\n",
			result.TotalProcessed, result.Created, result.Updated, result.Skipped)
		for _, msg := range result.Errors {
			fmt.Fprintln(out, "  ⚠️", msg)
		}
		return nil
	},
}

func init() {
	f := importCmd.Flags()
	f.StringVar(&importConfig.SheetName, "sheet", importConfig.SheetName, "sheet to import (first sheet when empty)")
	f.StringVar(&importConfig.WordColumn, "word-col", importConfig.WordColumn, "column with the word")
	f.StringVar(&importConfig.TranslationColumn, "translation-col", importConfig.TranslationColumn, "column with the translation")
	f.StringVar(&importConfig.DescriptionColumn, "description-col", importConfig.DescriptionColumn, "column with the description, empty to skip")
	f.StringVar(&importConfig.TierColumn, "tier-col", importConfig.TierColumn, "column with the proficiency tier, empty to skip")
	f.IntVar(&importConfig.DefaultTier, "default-tier", importConfig.DefaultTier, "tier for rows without a valid tier")
	f.IntVar(&importConfig.StartRow, "start-row", importConfig.StartRow, "first row to import (1-based)")
	rootCmd.AddCommand(importCmd)
}
