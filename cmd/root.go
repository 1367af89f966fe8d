package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/vocabdaily/internal/challenge"
	"github.com/example/vocabdaily/internal/config"
	"github.com/example/vocabdaily/internal/database"
)

var envFile string

// app holds the components shared by the subcommands
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	challenges *database.ChallengeRepository
	words      *database.WordRepository
	learners   *database.LearnerRepository
	service    *challenge.Service
}

var current *app

var rootCmd = &cobra.Command{
	Use:   "vocabdaily",
	Short: "Adaptive daily vocabulary practice",
	Long: `vocabdaily prepares a short vocabulary practice set for every learner each day.
The set adapts to how much of the recent sets the learner finished and brings back
words they struggled with. Learners practice through a Telegram bot.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
		slog.SetDefault(logger)

		if err := database.Connect(cfg.Driver(), cfg.DBDSN); err != nil {
			return err
		}

		a := &app{
			cfg:        cfg,
			logger:     logger,
			challenges: database.NewChallengeRepository(database.DB),
			words:      database.NewWordRepository(database.DB),
			learners:   database.NewLearnerRepository(database.DB),
		}
		a.service = challenge.NewService(a.challenges, a.words, challenge.WithLogger(logger))
		current = a
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return database.Close()
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to an optional .env file")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
