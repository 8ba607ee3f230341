// Package console drives a minefield from a line-oriented terminal session.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minefield/internal/command"
	"github.com/vancomm/minefield/internal/minefield"
)

const (
	newGame = "n"
	quit    = "q"
)

const help = `commands:
  r <index>  reveal cell by index
  o <y> <x>  reveal cell by row and column
  p          print the board
  n          new game
  q          quit
`

type NewGameFunc func() (*minefield.MineField, error)

type Console struct {
	log     *logrus.Logger
	out     io.Writer
	newGame NewGameFunc
	field   *minefield.MineField
}

func New(log *logrus.Logger, out io.Writer, newGame NewGameFunc) *Console {
	return &Console{log: log, out: out, newGame: newGame}
}

// Run starts a game and reads commands from in until EOF, "q", or ctx is
// done.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	if err := c.restart(); err != nil {
		return err
	}
	fmt.Fprint(c.out, help)
	c.render()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				scanErr <- ctx.Err()
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			done, err := c.handle(strings.TrimSpace(line))
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

func (c *Console) restart() error {
	field, err := c.newGame()
	if err != nil {
		return fmt.Errorf("unable to start a game: %w", err)
	}
	c.field = field
	c.log.WithFields(logrus.Fields{
		"row_size": field.RowSize(),
		"mines":    field.MineCount(),
	}).Debug("new game")
	return nil
}

func (c *Console) handle(line string) (done bool, err error) {
	switch line {
	case "":
		return false, nil
	case quit:
		return true, nil
	case newGame:
		if err := c.restart(); err != nil {
			return false, err
		}
		c.render()
		return false, nil
	}

	cmd, err := command.Parse(line)
	if err != nil {
		fmt.Fprintf(c.out, "error: %s\n", err)
		return false, nil
	}
	if err := cmd.Execute(c.field); err != nil {
		fmt.Fprintf(c.out, "error: %s\n", err)
		return false, nil
	}
	c.log.WithField("command", cmd.String()).Debug("executed")
	c.render()
	return false, nil
}

func (c *Console) render() {
	f := c.field
	fmt.Fprint(c.out, f.Grid().ToString(f.RowSize()))
	switch {
	case f.IsWon():
		fmt.Fprintln(c.out, "you won! (n: new game, q: quit)")
	case f.IsLost():
		cell, _ := f.LosingCell()
		fmt.Fprintf(c.out, "boom! mine at %d %v (n: new game, q: quit)\n",
			cell, f.CoordinateOf(cell))
	default:
		fmt.Fprintf(c.out, "%d mines, %d cells revealed\n",
			f.MineCount(), f.RevealedCells())
	}
}
