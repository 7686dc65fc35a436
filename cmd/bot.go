package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"damage-dashboard/internal/api/telegram"
	"damage-dashboard/internal/container"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run only the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Telegram.Token == "" {
			return eris.New("TELEGRAM_TOKEN is required")
		}

		bot, err := telegram.NewBot(cfg.Telegram.Token, container.Build(cfg))
		if err != nil {
			return err
		}

		zap.L().Info("bot is running")
		return bot.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(botCmd)
}
