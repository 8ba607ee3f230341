package command

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/vancomm/minefield/internal/minefield"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrArgCount       = errors.New("invalid number of arguments")
	ErrBadArgument    = errors.New("arguments must be integers")
)

const (
	Reveal   = "r"
	RevealYX = "o"
	Print    = "p"
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	Reveal:   1,
	RevealYX: 2,
	Print:    0,
}

type Command struct {
	Name string
	Args []int
}

func (c Command) String() string {
	parts := []string{c.Name}
	for _, a := range c.Args {
		parts = append(parts, strconv.Itoa(a))
	}
	return strings.Join(parts, " ")
}

func Parse(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, ErrUnknownCommand
	}
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return Command{}, fmt.Errorf("%w %q", ErrUnknownCommand, parts[0])
	}
	if nargs != len(parts)-1 {
		return Command{}, fmt.Errorf(
			"%w: %s takes %d", ErrArgCount, parts[0], nargs,
		)
	}
	args := make([]int, nargs)
	for i, s := range parts[1:] {
		v, err := strconv.Atoi(s)
		if err != nil {
			return Command{}, fmt.Errorf("%w: %q", ErrBadArgument, s)
		}
		args[i] = v
	}
	return Command{Name: parts[0], Args: args}, nil
}

func (c Command) Execute(f *minefield.MineField) error {
	switch c.Name {
	case Reveal:
		return f.Reveal(c.Args[0])
	case RevealYX:
		yx := minefield.Coord{Y: c.Args[0], X: c.Args[1]}
		if !f.Contains(yx) {
			return fmt.Errorf("%w: %v", minefield.ErrOutOfRange, yx)
		}
		return f.Reveal(f.IndexOf(yx))
	case Print:
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownCommand, c.Name)
}

// Lines yields the non-blank lines of text, trimmed.
func Lines(text string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, text, found = strings.Cut(text, "\n")
			piece = strings.TrimSpace(piece)
			if piece == "" {
				continue
			}
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}
