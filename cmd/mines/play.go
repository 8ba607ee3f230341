package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vancomm/minefield/internal/console"
	"github.com/vancomm/minefield/internal/minefield"
)

var (
	flagSize  int
	flagRatio float64
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Play a game in the terminal, one command per line.

Commands:
  r <index>  - Reveal a cell by index (row-major, from 0)
  o <y> <x>  - Reveal a cell by row and column
  p          - Print the board
  n          - New game
  q          - Quit

Examples:
  mines play
  mines play --size 16 --ratio 0.15
  mines play --seed 42`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagSize, "size", 0, "side length of the grid (default from config)")
	playCmd.Flags().Float64Var(&flagRatio, "ratio", 0, "share of cells holding a mine (default from config)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("size") {
		cfg.Game.RowSize = flagSize
	}
	if cmd.Flags().Changed("ratio") {
		cfg.Game.MineRatio = flagRatio
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	r := newRand(cfg.Game.Seed)
	newGame := func() (*minefield.MineField, error) {
		return minefield.New(cfg.Game.RowSize, cfg.Game.MineRatio, r)
	}

	err = console.New(log, cmd.OutOrStdout(), newGame).Run(ctx, cmd.InOrStdin())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
