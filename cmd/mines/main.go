// mines is a mine-deduction puzzle played in the terminal or over HTTP.
//
// Usage:
//
//	mines play [--size N] [--ratio R]   - Play in the terminal
//	mines serve [--addr ADDR]           - Serve games over HTTP and websockets
//
// Global flags:
//
//	--config, -c <path>  - JSON config file (default: /run/config.json)
//	--seed <value>       - RNG seed for reproducible boards (0 = random)
package main

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/logging"
	"github.com/vancomm/minefield/internal/minefield"
)

const defaultConfigPath = "/run/config.json"

var (
	flagConfig string
	flagSeed   uint64
)

var rootCmd = &cobra.Command{
	Use:   "mines",
	Short: "Reveal every safe cell without hitting a mine",
	Long: `mines is a grid-based mine-deduction puzzle.

Reveal a cell to see how many of its neighbors hide a mine. Cells with no
neighboring mines open up their whole neighborhood. Your first reveal is
never a mine. Reveal every safe cell to win.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", defaultConfigPath, "config file path")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "RNG seed (0 = random)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the config and builds the logger shared by all subcommands.
func setup(cmd *cobra.Command) (*config.Config, *logrus.Logger, error) {
	required := cmd.Flags().Changed("config")
	cfg, err := config.Load(flagConfig, required)
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Game.Seed = flagSeed
	}

	log, err := logging.New(os.Stderr, cfg)
	if err != nil {
		return nil, nil, err
	}
	minefield.Log = log

	log.Info("starting up, mode = ", cfg.Mode)
	log.WithFields(cfg.Fields()).Debug("config")
	return cfg, log, nil
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return minefield.NewRand()
	}
	return rand.New(rand.NewPCG(seed, seed))
}
