package minefield

import (
	"hash/maphash"
	"math"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

// Largest accepted side length. Keeps rowSize² well inside int and the
// reveal map at a sane size.
const MaxRowSize = 1 << 12

var Log = logrus.New()

// MineField is a square board of hidden mines and the player's progress on
// it. It is not safe for concurrent use.
type MineField struct {
	rowSize  int
	gridSize int

	mines   map[int]struct{}
	reveals map[int]int

	lost            bool
	losingCell      int
	won             bool
	firstGuessTaken bool
}

func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func validateRowSize(rowSize int, mineRatio float64) error {
	if rowSize <= 0 {
		return &ConfigError{rowSize, mineRatio, "row size must be positive"}
	}
	if rowSize > MaxRowSize {
		return &ConfigError{rowSize, mineRatio, "row size too large"}
	}
	return nil
}

func newMineField(rowSize int, mines map[int]struct{}) *MineField {
	return &MineField{
		rowSize:    rowSize,
		gridSize:   rowSize * rowSize,
		mines:      mines,
		reveals:    make(map[int]int),
		losingCell: -1,
	}
}

// New places floor(rowSize² * mineRatio) mines uniformly at random using r.
// A nil r is replaced with a randomly seeded source.
func New(rowSize int, mineRatio float64, r *rand.Rand) (*MineField, error) {
	if err := validateRowSize(rowSize, mineRatio); err != nil {
		return nil, err
	}
	if !(mineRatio >= 0) { // also catches NaN
		return nil, &ConfigError{rowSize, mineRatio, "mine ratio must not be negative"}
	}

	gridSize := rowSize * rowSize
	// Compare before converting: an oversized product does not fit in int.
	product := math.Floor(float64(gridSize) * mineRatio)
	if product >= float64(gridSize) {
		return nil, &ConfigError{rowSize, mineRatio, "no room left for safe cells"}
	}
	numMines := int(product)

	if r == nil {
		r = NewRand()
	}
	mines := make(map[int]struct{}, numMines)
	for len(mines) < numMines {
		mines[r.IntN(gridSize)] = struct{}{}
	}

	return newMineField(rowSize, mines), nil
}

// NewWithMines builds a board with a fixed mine layout.
func NewWithMines(rowSize int, mines []int) (*MineField, error) {
	ratio := math.NaN()
	if rowSize > 0 {
		ratio = float64(len(mines)) / float64(rowSize*rowSize)
	}
	if err := validateRowSize(rowSize, ratio); err != nil {
		return nil, err
	}

	gridSize := rowSize * rowSize
	if len(mines) >= gridSize {
		return nil, &ConfigError{rowSize, ratio, "no room left for safe cells"}
	}
	set := make(map[int]struct{}, len(mines))
	for _, m := range mines {
		if m < 0 || m >= gridSize {
			return nil, &ConfigError{rowSize, ratio, "mine outside the grid"}
		}
		if _, ok := set[m]; ok {
			return nil, &ConfigError{rowSize, ratio, "duplicate mine"}
		}
		set[m] = struct{}{}
	}

	return newMineField(rowSize, set), nil
}

func (f *MineField) RowSize() int  { return f.rowSize }
func (f *MineField) GridSize() int { return f.gridSize }

// MineCount is the current number of mines, one less than generated if the
// first reveal landed on a mine.
func (f *MineField) MineCount() int { return len(f.mines) }

func (f *MineField) IsWon() bool           { return f.won }
func (f *MineField) IsLost() bool          { return f.lost }
func (f *MineField) Terminal() bool        { return f.won || f.lost }
func (f *MineField) FirstGuessTaken() bool { return f.firstGuessTaken }
func (f *MineField) RevealedCells() int    { return len(f.reveals) }

// LosingCell returns the mine that ended the game, if any.
func (f *MineField) LosingCell() (int, bool) {
	return f.losingCell, f.lost
}

func (f *MineField) HasMine(index int) bool {
	_, ok := f.mines[index]
	return ok
}

// RevealedCount returns the adjacent mine count of a revealed cell.
func (f *MineField) RevealedCount(index int) (int, bool) {
	n, ok := f.reveals[index]
	return n, ok
}

// Reveal opens the cell at index. Reveals on a finished game or on an
// already revealed cell do nothing.
func (f *MineField) Reveal(index int) error {
	if index < 0 || index >= f.gridSize {
		return &OutOfRangeError{Index: index, GridSize: f.gridSize}
	}
	if f.Terminal() {
		return nil
	}
	if _, ok := f.reveals[index]; ok {
		return nil
	}

	if !f.firstGuessTaken {
		if f.HasMine(index) {
			delete(f.mines, index)
			Log.WithField("cell", index).Debug("moved mine away from first guess")
		}
		f.firstGuessTaken = true
	}

	if f.HasMine(index) {
		f.lost = true
		f.losingCell = index
		Log.WithField("cell", index).Debug("mine hit, game lost")
		return nil
	}

	f.open(index)

	if len(f.reveals)+len(f.mines) == f.gridSize {
		f.won = true
		Log.WithFields(logrus.Fields{
			"revealed": len(f.reveals), "mines": len(f.mines),
		}).Debug("all safe cells revealed, game won")
	}
	return nil
}

/*
open reveals index and floods outward from every zero cell it uncovers.
Neighbors are pushed in reverse so cells come off the stack in the same
depth-first order a recursive walk would visit them. Each cell enters
reveals at most once, so the loop ends after at most gridSize reveals.
*/
func (f *MineField) open(index int) {
	stack := []int{index}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := f.reveals[i]; ok {
			continue
		}

		c := f.CoordinateOf(i)
		n := f.AdjacentMineCount(c)
		f.reveals[i] = n
		if n != 0 {
			continue
		}

		adj := f.AdjacentCells(c)
		for k := len(adj) - 1; k >= 0; k-- {
			j := f.IndexOf(adj[k])
			if _, ok := f.reveals[j]; !ok {
				stack = append(stack, j)
			}
		}
	}
}
