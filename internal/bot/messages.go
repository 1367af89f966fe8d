package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/example/vocabdaily/internal/challenge"
	"github.com/example/vocabdaily/internal/mastery"
	"github.com/example/vocabdaily/pkg/models"
)

// Callback data for menu buttons. Card buttons use cardAction.
const (
	callbackToday    = "today"
	callbackProgress = "progress"
	callbackSettings = "settings"
)

// dayLayout keeps card callback data well under Telegram's 64-byte limit
const dayLayout = "20060102"

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// mainMenuButtons returns the buttons for the main menu
func mainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{{Text: "📚 Today's words", CallbackData: callbackToday}},
		{
			{Text: "📊 Progress", CallbackData: callbackProgress},
			{Text: "⚙️ Settings", CallbackData: callbackSettings},
		},
	}
}

// cardAction is the payload of a card button: reveal the answer or grade the recall
type cardAction struct {
	Reveal  bool
	Index   int
	Quality mastery.Quality
	Day     string // dayLayout, so yesterday's buttons can be told apart
}

func (a cardAction) encode() string {
	if a.Reveal {
		return fmt.Sprintf("r:%d:%s", a.Index, a.Day)
	}
	return fmt.Sprintf("g:%d:%d:%s", a.Index, a.Quality, a.Day)
}

// isCardAction reports whether callback data belongs to a card button
func isCardAction(data string) bool {
	return strings.HasPrefix(data, "r:") || strings.HasPrefix(data, "g:")
}

func parseCardAction(data string) (cardAction, error) {
	parts := strings.Split(data, ":")
	var action cardAction
	switch {
	case len(parts) == 3 && parts[0] == "r":
		action.Reveal = true
	case len(parts) == 4 && parts[0] == "g":
		q, err := mastery.ParseQuality(parts[2])
		if err != nil {
			return action, err
		}
		action.Quality = q
	default:
		return action, errors.Errorf("malformed card callback %q", data)
	}

	idx, err := strconv.Atoi(parts[1])
	if err != nil || idx < 0 {
		return action, errors.Errorf("bad card index in %q", data)
	}
	action.Index = idx
	action.Day = parts[len(parts)-1]
	if len(action.Day) != len(dayLayout) {
		return action, errors.Errorf("bad card day in %q", data)
	}
	return action, nil
}

// revealKeyboard offers the answer of a card
func revealKeyboard(idx int, day string) tgbotapi.InlineKeyboardMarkup {
	return createKeyboard([][]MenuButton{{
		{Text: "👀 Show answer", CallbackData: cardAction{Reveal: true, Index: idx, Day: day}.encode()},
	}})
}

// gradeKeyboard offers one button per grade
func gradeKeyboard(idx int, day string) tgbotapi.InlineKeyboardMarkup {
	row := make([]MenuButton, 0, len(mastery.Grades))
	for _, g := range mastery.Grades {
		row = append(row, MenuButton{
			Text:         g.Label,
			CallbackData: cardAction{Index: idx, Quality: g.Quality, Day: day}.encode(),
		})
	}
	return createKeyboard([][]MenuButton{row})
}

// formatCardFront shows the word only
func formatCardFront(set *models.PracticeSet, idx int, item models.VocabularyItem) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Word %d of %d", idx+1, len(set.ItemIDs))
	if set.IsReviewItem(item.ID) {
		sb.WriteString(" 🔁 review")
	}
	fmt.Fprintf(&sb, "\n\n%s", item.Word)
	return sb.String()
}

// formatCardBack shows the word with its translation and notes
func formatCardBack(set *models.PracticeSet, idx int, item models.VocabularyItem) string {
	var sb strings.Builder
	sb.WriteString(formatCardFront(set, idx, item))
	fmt.Fprintf(&sb, "\n➡️ %s", item.Translation)
	if item.Description != "" {
		fmt.Fprintf(&sb, "\n\n%s", item.Description)
	}
	sb.WriteString("\n\nHow well did you remember it?")
	return sb.String()
}

// formatGraded replaces a graded card with its answer and the chosen grade
func formatGraded(item models.VocabularyItem, q mastery.Quality) string {
	mark := "❌"
	if q.Passed() {
		mark = "✅"
	}
	return fmt.Sprintf("%s %s ➡️ %s · %s", mark, item.Word, item.Translation, q.Label())
}

// formatProgress renders a progress line with a text bar
func formatProgress(p challenge.Progress) string {
	const width = 10
	filled := 0
	if p.Total > 0 {
		filled = p.Completed * width / p.Total
	}
	bar := strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
	return fmt.Sprintf("%s %d/%d (%.0f%%)", bar, p.Completed, p.Total, p.Percentage)
}

// formatSetSummary describes a whole set, including the per-word grades so far
func formatSetSummary(set *models.PracticeSet, words map[string]models.VocabularyItem) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 %s · level %d\n", models.FormatDate(set.Date), set.DifficultyTier)
	sb.WriteString(formatProgress(challenge.GetProgress(set)))
	sb.WriteString("\n")
	for _, id := range set.ItemIDs {
		word := id
		if w, ok := words[id]; ok {
			word = w.Word
		}
		mark := "▫️"
		if set.IsItemCompleted(id) {
			mark = "✅"
		}
		fmt.Fprintf(&sb, "\n%s %s", mark, word)
		if score, ok := set.MasteryScores[id]; ok {
			fmt.Fprintf(&sb, " (%.0f%%)", score*100)
		}
	}
	return sb.String()
}

// formatReminder builds the reminder text for a set with pending items
func formatReminder(set *models.PracticeSet) string {
	p := challenge.GetProgress(set)
	left := p.Total - p.Completed
	noun := "words"
	if left == 1 {
		noun = "word"
	}
	if p.Completed == 0 {
		return fmt.Sprintf("⏰ Your daily practice is ready: %d %s waiting.", left, noun)
	}
	return fmt.Sprintf("⏰ %d %s left in today's practice. %s", left, noun, formatProgress(p))
}

// userMessage turns an error into text safe to show a learner
func userMessage(err error) string {
	switch {
	case errors.Is(err, challenge.ErrNoVocabularyAvailable), errors.Is(err, models.ErrPersistenceUnavailable):
		return "Couldn't prepare your practice set. Please try again in a moment."
	case errors.Is(err, challenge.ErrItemNotInSet), errors.Is(err, models.ErrNotFound):
		return "This card is no longer part of today's practice. Send /today to continue."
	default:
		return "Something went wrong. Please try again."
	}
}
