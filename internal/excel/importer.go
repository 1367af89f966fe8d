package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/example/vocabdaily/pkg/models"
)

// WordStore persists imported vocabulary
type WordStore interface {
	// Upsert reports whether a new word was created
	Upsert(ctx context.Context, item *models.VocabularyItem) (bool, error)
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath          string // Path to the Excel or CSV file
	WordColumn        string // Column with the word
	TranslationColumn string // Column with the translation
	DescriptionColumn string // Column with the description, optional
	TierColumn        string // Column with the proficiency tier, optional
	DefaultTier       int    // Tier used when the tier cell is empty
	SheetName         string // Name of the sheet to import, first sheet when empty
	StartRow          int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		WordColumn:        "A",
		TranslationColumn: "B",
		DescriptionColumn: "C",
		TierColumn:        "D",
		DefaultTier:       models.MinTier,
		StartRow:          2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// columns holds the zero-based indexes of the configured columns, -1 when unused
type columns struct {
	word, translation, description, tier int
}

// ImportWords imports words from an Excel or CSV file
func ImportWords(ctx context.Context, store WordStore, config ImportConfig) (*ImportResult, error) {
	cols, err := resolveColumns(config)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch strings.ToLower(filepath.Ext(config.FilePath)) {
	case ".csv":
		rows, err = readCSV(config.FilePath)
	default:
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		rowNum := i + 1
		if rowNum < config.StartRow {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if isBlank(row) || isSectionHeader(row, cols) {
			continue
		}

		result.TotalProcessed++
		item, err := parseRow(row, cols, config.DefaultTier)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}

		created, err := store.Upsert(ctx, item)
		switch {
		case errors.Is(err, models.ErrPersistenceUnavailable):
			return result, errors.Wrapf(err, "row %d", rowNum)
		case err != nil:
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		case created:
			result.Created++
		default:
			result.Updated++
		}
	}
	return result, nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get rows of sheet %q", sheet)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "error reading CSV")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func resolveColumns(config ImportConfig) (columns, error) {
	var cols columns
	var err error
	if cols.word, err = columnIndex(config.WordColumn, true); err != nil {
		return cols, errors.Wrap(err, "word column")
	}
	if cols.translation, err = columnIndex(config.TranslationColumn, true); err != nil {
		return cols, errors.Wrap(err, "translation column")
	}
	if cols.description, err = columnIndex(config.DescriptionColumn, false); err != nil {
		return cols, errors.Wrap(err, "description column")
	}
	if cols.tier, err = columnIndex(config.TierColumn, false); err != nil {
		return cols, errors.Wrap(err, "tier column")
	}
	return cols, nil
}

// columnIndex converts an Excel column name like "B" to a zero-based index
func columnIndex(name string, required bool) (int, error) {
	if name == "" {
		if required {
			return -1, errors.New("column is required")
		}
		return -1, nil
	}
	n, err := excelize.ColumnNameToNumber(strings.ToUpper(strings.TrimSpace(name)))
	if err != nil {
		return -1, err
	}
	return n - 1, nil
}

func parseRow(row []string, cols columns, defaultTier int) (*models.VocabularyItem, error) {
	item := &models.VocabularyItem{
		Word:        cleanWord(cell(row, cols.word)),
		Translation: strings.TrimSpace(cell(row, cols.translation)),
		Description: strings.TrimSpace(cell(row, cols.description)),
	}
	if item.Word == "" {
		return nil, errors.New("word cannot be empty")
	}
	if item.Translation == "" {
		return nil, errors.New("translation cannot be empty")
	}
	tier, err := parseTier(cell(row, cols.tier), defaultTier)
	if err != nil {
		return nil, err
	}
	item.ProficiencyTier = tier
	return item, nil
}

// jlptTiers maps JLPT levels onto proficiency tiers; N3 and above share the top tier
var jlptTiers = map[string]int{
	"N5": 1,
	"N4": 2,
	"N3": 3,
	"N2": 3,
	"N1": 3,
}

// parseTier reads a numeric tier or a JLPT level like "N4" and clamps it into
// the tier range. An empty cell yields defaultTier.
func parseTier(s string, defaultTier int) (int, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return models.ClampTier(defaultTier), nil
	}
	if tier, ok := jlptTiers[s]; ok {
		return tier, nil
	}
	tier, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Errorf("invalid tier %q", s)
	}
	return models.ClampTier(tier), nil
}

// cleanWord drops grammatical notes in parentheses, e.g. "go (went, gone)"
func cleanWord(word string) string {
	if i := strings.Index(word, "("); i > 0 {
		word = word[:i]
	}
	return strings.TrimSpace(word)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// isSectionHeader matches grouping rows like "Movement,," that only carry a title
func isSectionHeader(row []string, cols columns) bool {
	return strings.TrimSpace(cell(row, cols.word)) != "" && strings.TrimSpace(cell(row, cols.translation)) == "" &&
		strings.TrimSpace(cell(row, cols.description)) == "" && strings.TrimSpace(cell(row, cols.tier)) == ""
}
