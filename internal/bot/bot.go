package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/example/vocabdaily/internal/config"
	"github.com/example/vocabdaily/internal/excel"
	"github.com/example/vocabdaily/pkg/models"
)

// ChallengeService creates daily practice sets and records answers
type ChallengeService interface {
	GetOrCreateTodaysSet(ctx context.Context, owner string, today time.Time) (*models.PracticeSet, error)
	RecordCompletion(ctx context.Context, setID, itemID string, masteryScore float64) (*models.PracticeSet, error)
}

// WordStore looks up and imports vocabulary
type WordStore interface {
	excel.WordStore
	GetByIDs(ctx context.Context, ids []string) (map[string]models.VocabularyItem, error)
	CountByTier(ctx context.Context) (map[int]int, error)
}

// LearnerStore persists learners and their reminder settings
type LearnerStore interface {
	Register(ctx context.Context, learner *models.Learner) error
	GetByID(ctx context.Context, id int64) (*models.Learner, error)
	SetNotification(ctx context.Context, id int64, enabled bool, hour int) error
}

// sender is the part of the Telegram API the handlers use
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot represents the Telegram bot application
type Bot struct {
	api        sender
	client     *tgbotapi.BotAPI // nil when running without a Telegram connection
	challenges ChallengeService
	words      WordStore
	learners   LearnerStore
	cfg        *config.Config
	loc        *time.Location
	logger     *slog.Logger
	now        func() time.Time

	wg sync.WaitGroup
}

// New connects to Telegram and creates a bot instance
func New(cfg *config.Config, challenges ChallengeService, words WordStore, learners LearnerStore, logger *slog.Logger) (*Bot, error) {
	if cfg.BotToken == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN environment variable is not set")
	}
	client, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create bot")
	}
	b := newBot(client, cfg, challenges, words, learners, logger)
	b.client = client
	b.logger.Info("authorized on telegram", "account", client.Self.UserName)
	return b, nil
}

func newBot(api sender, cfg *config.Config, challenges ChallengeService, words WordStore, learners LearnerStore, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		api:        api,
		challenges: challenges,
		words:      words,
		learners:   learners,
		cfg:        cfg,
		loc:        cfg.Location(),
		logger:     logger,
		now:        time.Now,
	}
}

// Start receives updates until ctx is done. Each update is handled in its own goroutine.
func (b *Bot) Start(ctx context.Context) error {
	if b.client == nil {
		return errors.New("bot is not connected to telegram")
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.client.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			b.client.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.handleUpdate(ctx, update)
			}()
		}
	}
}

// Stop waits for in-flight updates to finish or ctx to expire
func (b *Bot) Stop(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		b.logger.Info("bot stopped")
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "waiting for handlers")
	}
}

// today returns the current time in the configured time zone
func (b *Bot) today() time.Time {
	return b.now().In(b.loc)
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var err error
	switch {
	case update.Message != nil && update.Message.IsCommand():
		err = b.handleCommand(ctx, update.Message)
	case update.Message != nil && update.Message.Document != nil:
		err = b.handleDocument(ctx, update.Message)
	case update.Message != nil:
		err = b.reply(update.Message.Chat.ID, "I don't understand. Send /today to practice or /help for the commands.", true)
	case update.CallbackQuery != nil:
		err = b.handleCallback(ctx, update.CallbackQuery)
	}
	if err != nil {
		b.logger.Error("failed to handle update", "update_id", update.UpdateID, "error", err)
	}
}

// reply sends a plain text message, optionally with the main menu
func (b *Bot) reply(chatID int64, text string, withMenu bool) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if withMenu {
		msg.ReplyMarkup = createKeyboard(mainMenuButtons())
	}
	return b.sendMessage(msg)
}

func (b *Bot) sendMessage(c tgbotapi.Chattable) error {
	if _, err := b.api.Send(c); err != nil {
		return errors.Wrap(err, "send message")
	}
	return nil
}

// SendReminder implements the scheduler.Notifier interface
func (b *Bot) SendReminder(ctx context.Context, learner models.Learner, set *models.PracticeSet) error {
	msg := tgbotapi.NewMessage(learner.ID, formatReminder(set))
	msg.ReplyMarkup = createKeyboard([][]MenuButton{{{Text: "📚 Practice now", CallbackData: callbackToday}}})
	if err := b.sendMessage(msg); err != nil {
		return err
	}
	b.logger.Debug("reminder sent", "learner", learner.ID, "set_id", set.ID)
	return nil
}
