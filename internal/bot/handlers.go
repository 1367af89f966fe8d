package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/example/vocabdaily/internal/challenge"
	"github.com/example/vocabdaily/internal/excel"
	"github.com/example/vocabdaily/pkg/models"
)

const helpText = `Every day you get a short set of words picked for your level, with a few words you found hard before.

/today - practice today's words
/progress - show today's progress
/notify on|off - turn daily reminders on or off
/time <hour> - set the reminder hour (0-23)
/help - show this message`

// handleCommand handles bot commands
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	if message.From == nil {
		return errors.New("invalid message: sender is missing")
	}
	switch message.Command() {
	case "start":
		return b.handleStart(ctx, message)
	case "help":
		return b.reply(message.Chat.ID, helpText, true)
	case "today":
		return b.handleToday(ctx, message.Chat.ID, message.From.ID)
	case "progress":
		return b.handleProgress(ctx, message.Chat.ID, message.From.ID)
	case "notify":
		return b.handleNotifyCommand(ctx, message)
	case "time":
		return b.handleTimeCommand(ctx, message)
	case "corpus":
		if !b.cfg.IsAdmin(message.From.ID) {
			return b.reply(message.Chat.ID, "This command is only available for administrators.", true)
		}
		return b.handleCorpusCommand(ctx, message)
	default:
		return b.reply(message.Chat.ID, "Unknown command. Use /help to see what I can do.", true)
	}
}

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) error {
	learner := &models.Learner{
		ID:                  message.From.ID,
		Username:            message.From.UserName,
		FirstName:           message.From.FirstName,
		NotificationEnabled: true,
		NotificationHour:    b.cfg.NotificationStartHour + 1,
	}
	if err := b.learners.Register(ctx, learner); err != nil {
		b.logger.Error("failed to register learner", "learner", learner.ID, "error", err)
		return b.reply(message.Chat.ID, userMessage(err), false)
	}

	name := message.From.FirstName
	if name == "" {
		name = "there"
	}
	return b.reply(message.Chat.ID, fmt.Sprintf("Welcome, %s! 🎓\n\n%s", name, helpText), true)
}

// handleToday sends the next pending card of today's set
func (b *Bot) handleToday(ctx context.Context, chatID, userID int64) error {
	set, err := b.challenges.GetOrCreateTodaysSet(ctx, models.OwnerFromTelegramID(userID), b.today())
	if err != nil {
		b.logger.Error("failed to get today's set", "learner", userID, "error", err)
		return b.reply(chatID, userMessage(err), false)
	}
	return b.sendNextCard(ctx, chatID, set)
}

// sendNextCard shows the first pending word of set, or a summary when all are done
func (b *Bot) sendNextCard(ctx context.Context, chatID int64, set *models.PracticeSet) error {
	idx := set.NextPendingItem()
	if idx < 0 {
		words, err := b.words.GetByIDs(ctx, set.ItemIDs)
		if err != nil {
			return b.reply(chatID, userMessage(err), false)
		}
		return b.reply(chatID, "🎉 All done for today!\n\n"+formatSetSummary(set, words), true)
	}

	item, err := b.item(ctx, set.ItemIDs[idx])
	if err != nil {
		return b.reply(chatID, userMessage(err), false)
	}
	msg := tgbotapi.NewMessage(chatID, formatCardFront(set, idx, item))
	msg.ReplyMarkup = revealKeyboard(idx, set.Date.Format(dayLayout))
	return b.sendMessage(msg)
}

func (b *Bot) handleProgress(ctx context.Context, chatID, userID int64) error {
	set, err := b.challenges.GetOrCreateTodaysSet(ctx, models.OwnerFromTelegramID(userID), b.today())
	if err != nil {
		return b.reply(chatID, userMessage(err), false)
	}
	words, err := b.words.GetByIDs(ctx, set.ItemIDs)
	if err != nil {
		return b.reply(chatID, userMessage(err), false)
	}
	return b.reply(chatID, formatSetSummary(set, words), true)
}

func (b *Bot) handleNotifyCommand(ctx context.Context, message *tgbotapi.Message) error {
	learner, err := b.learner(ctx, message.From)
	if err != nil {
		return b.reply(message.Chat.ID, userMessage(err), false)
	}

	switch strings.ToLower(strings.TrimSpace(message.CommandArguments())) {
	case "on":
		learner.NotificationEnabled = true
	case "off":
		learner.NotificationEnabled = false
	default:
		return b.reply(message.Chat.ID, "Please use /notify on or /notify off", false)
	}

	if err := b.learners.SetNotification(ctx, learner.ID, learner.NotificationEnabled, learner.NotificationHour); err != nil {
		return b.reply(message.Chat.ID, userMessage(err), false)
	}
	return b.reply(message.Chat.ID, fmt.Sprintf("✅ Reminders %s", enabledString(learner.NotificationEnabled)), false)
}

func (b *Bot) handleTimeCommand(ctx context.Context, message *tgbotapi.Message) error {
	hour, err := strconv.Atoi(strings.TrimSpace(message.CommandArguments()))
	if err != nil || hour < 0 || hour > 23 {
		return b.reply(message.Chat.ID, "Please give an hour between 0 and 23: /time <hour>", false)
	}
	if hour < b.cfg.NotificationStartHour || hour > b.cfg.NotificationEndHour {
		return b.reply(message.Chat.ID, fmt.Sprintf("Reminders are only sent between %d:00 and %d:00.",
			b.cfg.NotificationStartHour, b.cfg.NotificationEndHour), false)
	}

	learner, err := b.learner(ctx, message.From)
	if err != nil {
		return b.reply(message.Chat.ID, userMessage(err), false)
	}
	if err := b.learners.SetNotification(ctx, learner.ID, learner.NotificationEnabled, hour); err != nil {
		return b.reply(message.Chat.ID, userMessage(err), false)
	}
	return b.reply(message.Chat.ID, fmt.Sprintf("✅ Reminder time set to %d:00", hour), false)
}

func (b *Bot) handleCorpusCommand(ctx context.Context, message *tgbotapi.Message) error {
	counts, err := b.words.CountByTier(ctx)
	if err != nil {
		return b.reply(message.Chat.ID, userMessage(err), false)
	}
	var sb strings.Builder
	sb.WriteString("📖 Vocabulary by level\n")
	total := 0
	for tier := models.MinTier; tier <= models.MaxTier; tier++ {
		fmt.Fprintf(&sb, "\nLevel %d: %d", tier, counts[tier])
		total += counts[tier]
	}
	fmt.Fprintf(&sb, "\n\nTotal: %d\n\nSend an .xlsx or .csv file to import more words.", total)
	return b.reply(message.Chat.ID, sb.String(), false)
}

// handleDocument imports a vocabulary file sent by an administrator
func (b *Bot) handleDocument(ctx context.Context, message *tgbotapi.Message) error {
	if message.From == nil || !b.cfg.IsAdmin(message.From.ID) {
		return b.reply(message.Chat.ID, "Only administrators can import words.", true)
	}
	ext := strings.ToLower(filepath.Ext(message.Document.FileName))
	if ext != ".xlsx" && ext != ".csv" {
		return b.reply(message.Chat.ID, "Please send an .xlsx or .csv file.", false)
	}
	if b.client == nil {
		return errors.New("file download needs a telegram connection")
	}

	url, err := b.client.GetFileDirectURL(message.Document.FileID)
	if err != nil {
		return errors.Wrap(err, "get file url")
	}
	path, err := download(ctx, url, ext)
	if err != nil {
		return b.reply(message.Chat.ID, "Couldn't download the file. Please try again.", false)
	}
	defer os.Remove(path)

	importConfig := excel.DefaultImportConfig()
	importConfig.FilePath = path
	result, err := excel.ImportWords(ctx, b.words, importConfig)
	if err != nil {
		b.logger.Error("import failed", "file", message.Document.FileName, "error", err)
		return b.reply(message.Chat.ID, fmt.Sprintf("Import failed: %v", err), false)
	}
	b.logger.Info("words imported", "file", message.Document.FileName,
		"created", result.Created, "updated", result.Updated, "skipped", result.Skipped)
	return b.reply(message.Chat.ID, formatImportResult(result), false)
}

// handleCallback handles button presses
func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	if callback.Message == nil || callback.From == nil {
		return errors.New("invalid callback: message or sender is missing")
	}
	// Acknowledge so the client stops the spinner
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Warn("failed to answer callback", "error", err)
	}

	chatID := callback.Message.Chat.ID
	userID := callback.From.ID
	switch {
	case callback.Data == callbackToday:
		return b.handleToday(ctx, chatID, userID)
	case callback.Data == callbackProgress:
		return b.handleProgress(ctx, chatID, userID)
	case callback.Data == callbackSettings:
		return b.handleSettings(ctx, chatID, callback.From)
	case isCardAction(callback.Data):
		action, err := parseCardAction(callback.Data)
		if err != nil {
			return err
		}
		return b.handleCardAction(ctx, callback, action)
	default:
		return errors.Errorf("unknown callback %q", callback.Data)
	}
}

func (b *Bot) handleSettings(ctx context.Context, chatID int64, user *tgbotapi.User) error {
	learner, err := b.learner(ctx, user)
	if err != nil {
		return b.reply(chatID, userMessage(err), false)
	}
	text := fmt.Sprintf("⚙️ Settings\n\nReminders: %s\nReminder time: %d:00\n\nChange them with /notify on|off and /time <hour>.",
		enabledString(learner.NotificationEnabled), learner.NotificationHour)
	return b.reply(chatID, text, false)
}

// handleCardAction reveals a card or records its grade, then moves on to the next card
func (b *Bot) handleCardAction(ctx context.Context, callback *tgbotapi.CallbackQuery, action cardAction) error {
	chatID := callback.Message.Chat.ID
	set, err := b.challenges.GetOrCreateTodaysSet(ctx, models.OwnerFromTelegramID(callback.From.ID), b.today())
	if err != nil {
		return b.reply(chatID, userMessage(err), false)
	}
	if action.Day != set.Date.Format(dayLayout) {
		return b.reply(chatID, "This card is from an earlier day. Send /today for today's words.", false)
	}
	if action.Index >= len(set.ItemIDs) {
		return b.reply(chatID, userMessage(challenge.ErrItemNotInSet), false)
	}

	itemID := set.ItemIDs[action.Index]
	item, err := b.item(ctx, itemID)
	if err != nil {
		return b.reply(chatID, userMessage(err), false)
	}

	if action.Reveal {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, callback.Message.MessageID,
			formatCardBack(set, action.Index, item), gradeKeyboard(action.Index, action.Day))
		return b.sendMessage(edit)
	}

	updated, err := b.challenges.RecordCompletion(ctx, set.ID, itemID, action.Quality.Score())
	if err != nil {
		b.logger.Error("failed to record completion", "set_id", set.ID, "item", itemID, "error", err)
		return b.reply(chatID, userMessage(err), false)
	}

	graded := formatGraded(item, action.Quality)
	if err := b.sendMessage(tgbotapi.NewEditMessageText(chatID, callback.Message.MessageID, graded)); err != nil {
		b.logger.Warn("failed to update graded card", "error", err)
	}
	return b.sendNextCard(ctx, chatID, updated)
}

// learner returns the stored learner, registering unknown users with defaults
func (b *Bot) learner(ctx context.Context, user *tgbotapi.User) (*models.Learner, error) {
	learner, err := b.learners.GetByID(ctx, user.ID)
	if err == nil {
		return learner, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	learner = &models.Learner{
		ID:                  user.ID,
		Username:            user.UserName,
		FirstName:           user.FirstName,
		NotificationEnabled: true,
		NotificationHour:    b.cfg.NotificationStartHour + 1,
	}
	if err := b.learners.Register(ctx, learner); err != nil {
		return nil, err
	}
	return learner, nil
}

// item looks up a single vocabulary item
func (b *Bot) item(ctx context.Context, id string) (models.VocabularyItem, error) {
	words, err := b.words.GetByIDs(ctx, []string{id})
	if err != nil {
		return models.VocabularyItem{}, err
	}
	item, ok := words[id]
	if !ok {
		return models.VocabularyItem{}, errors.Wrapf(models.ErrNotFound, "word %s", id)
	}
	return item, nil
}

func enabledString(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

func formatImportResult(result *excel.ImportResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📥 Import finished\n\nProcessed: %d\nCreated: %d\nUpdated: %d\nSkipped: %d",
		result.TotalProcessed, result.Created, result.Updated, result.Skipped)
	const maxErrors = 10
	for i, msg := range result.Errors {
		if i == maxErrors {
			fmt.Fprintf(&sb, "\n... and %d more", len(result.Errors)-maxErrors)
			break
		}
		fmt.Fprintf(&sb, "\n%s", msg)
	}
	return sb.String()
}

// download saves a Telegram file to a temporary file with the given extension
func download(ctx context.Context, url, ext string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("download failed: %s", resp.Status)
	}

	f, err := os.CreateTemp("", "vocabdaily-import-*"+ext)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
