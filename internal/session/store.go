// Package session keeps the games currently being played in memory.
package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minefield/internal/minefield"
)

var (
	ErrNotFound = errors.New("game not found")
	ErrCapacity = errors.New("too many games in progress")
)

type Options struct {
	TTL           time.Duration
	SweepInterval time.Duration
	MaxGames      int
	Rand          *rand.Rand
	Now           func() time.Time
}

type Store struct {
	log  *logrus.Logger
	opts Options

	mu     sync.RWMutex
	games  map[string]*Game
	nextID int64

	// rand.Rand is not safe for concurrent use.
	randMu sync.Mutex
}

func NewStore(log *logrus.Logger, opts Options) *Store {
	if opts.Rand == nil {
		opts.Rand = minefield.NewRand()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		log:   log,
		opts:  opts,
		games: make(map[string]*Game),
	}
}

func (s *Store) full() bool {
	return s.opts.MaxGames > 0 && len(s.games) >= s.opts.MaxGames
}

// Create builds a new field and registers it. Mine placement runs without
// holding the store lock.
func (s *Store) Create(rowSize int, mineRatio float64) (*Game, error) {
	s.mu.RLock()
	full := s.full()
	s.mu.RUnlock()
	if full {
		return nil, ErrCapacity
	}

	s.randMu.Lock()
	field, err := minefield.New(rowSize, mineRatio, s.opts.Rand)
	s.randMu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.Adopt(field)
}

// Adopt registers an already built field, e.g. one with a fixed layout.
func (s *Store) Adopt(field *minefield.MineField) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.full() {
		return nil, ErrCapacity
	}
	return s.add(field), nil
}

func (s *Store) add(field *minefield.MineField) *Game {
	s.nextID++
	now := s.opts.Now().UTC()
	g := &Game{
		ID:        strconv.FormatInt(s.nextID, 10),
		StartedAt: now,
		field:     field,
		lastSeen:  now,
		now:       func() time.Time { return s.opts.Now().UTC() },
	}
	s.games[g.ID] = g

	s.log.WithFields(logrus.Fields{
		"game_session_id": g.ID,
		"row_size":        field.RowSize(),
		"mines":           field.MineCount(),
	}).Debug("game created")
	return g
}

func (s *Store) Get(id string) (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return g, nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// Sweep drops games untouched for longer than the TTL and returns how many
// were removed.
func (s *Store) Sweep(now time.Time) int {
	if s.opts.TTL <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, g := range s.games {
		if now.Sub(g.idleSince()) > s.opts.TTL {
			delete(s.games, id)
			removed++
		}
	}
	if removed > 0 {
		s.log.WithFields(logrus.Fields{
			"removed": removed, "remaining": len(s.games),
		}).Info("swept idle games")
	}
	return removed
}

// Run sweeps on every SweepInterval tick until ctx is done.
func (s *Store) Run(ctx context.Context) error {
	if s.opts.SweepInterval <= 0 || s.opts.TTL <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep(s.opts.Now())
		}
	}
}
