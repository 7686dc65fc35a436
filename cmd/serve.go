package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"damage-dashboard/internal/api/rest"
	"damage-dashboard/internal/api/telegram"
	"damage-dashboard/internal/container"
)

var (
	servePort int
	serveBot  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API (and optionally the Telegram bot)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		c := container.Build(cfg)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		router := rest.NewRouter(c.AnalysisService, rest.Options{
			CORSOrigins:    cfg.Server.CORSOrigins,
			MaxUploadBytes: cfg.Server.MaxUploadBytes(),
		})

		var bot *telegram.Bot
		if serveBot {
			if cfg.Telegram.Token == "" {
				return eris.New("telegram token is required for --bot (TELEGRAM_TOKEN)")
			}
			b, err := telegram.NewBot(cfg.Telegram.Token, c)
			if err != nil {
				return err
			}
			bot = b
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return rest.Serve(ctx, port, router)
		})

		if bot != nil {
			g.Go(func() error {
				return bot.Run(ctx)
			})
		}

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().BoolVar(&serveBot, "bot", false, "also run the Telegram bot")
	rootCmd.AddCommand(serveCmd)
}
