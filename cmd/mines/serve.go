package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vancomm/minefield/internal/app"
	"github.com/vancomm/minefield/internal/session"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve games over HTTP and websockets",
	Long: `Serve games over HTTP.

Endpoints:
  POST /v1/game?row_size=&mine_ratio=   - Start a game
  GET  /v1/game/{id}                     - Fetch a game
  POST /v1/game/{id}/reveal?index=       - Reveal a cell
  GET  /v1/game/{id}/connect             - Play over a websocket

Examples:
  mines serve
  mines serve --addr 127.0.0.1:8000
  mines serve -c ./config.json`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	a := app.New(log, cfg, session.Options{Rand: newRand(cfg.Game.Seed)})
	if err := a.Start(ctx); err != nil {
		log.WithError(err).Error("server stopped")
		return err
	}
	log.Info("server stopped")
	return nil
}
