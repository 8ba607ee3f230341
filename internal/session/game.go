package session

import (
	"sync"
	"time"

	"github.com/vancomm/minefield/internal/minefield"
)

// Game owns one MineField and serializes every access to it.
type Game struct {
	ID        string
	StartedAt time.Time

	mu       sync.Mutex
	field    *minefield.MineField
	endedAt  time.Time
	lastSeen time.Time
	now      func() time.Time
}

type Snapshot struct {
	ID         string
	Grid       minefield.Grid
	RowSize    int
	GridSize   int
	MineCount  int
	Revealed   int
	Won        bool
	Lost       bool
	LosingCell *int
	StartedAt  time.Time
	EndedAt    *time.Time
}

// Do runs fn with exclusive access to the game's field and records the end
// time the first time the game finishes.
func (g *Game) Do(fn func(f *minefield.MineField) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.lastSeen = g.now()
	err := fn(g.field)
	if g.field.Terminal() && g.endedAt.IsZero() {
		g.endedAt = g.lastSeen
	}
	return err
}

func (g *Game) Reveal(index int) error {
	return g.Do(func(f *minefield.MineField) error {
		return f.Reveal(index)
	})
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

func (g *Game) snapshot() Snapshot {
	f := g.field
	s := Snapshot{
		ID:        g.ID,
		Grid:      f.Grid(),
		RowSize:   f.RowSize(),
		GridSize:  f.GridSize(),
		MineCount: f.MineCount(),
		Revealed:  f.RevealedCells(),
		Won:       f.IsWon(),
		Lost:      f.IsLost(),
		StartedAt: g.StartedAt,
	}
	if cell, ok := f.LosingCell(); ok {
		s.LosingCell = &cell
	}
	if !g.endedAt.IsZero() {
		e := g.endedAt
		s.EndedAt = &e
	}
	return s
}

func (g *Game) idleSince() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastSeen
}
