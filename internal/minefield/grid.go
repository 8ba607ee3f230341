package minefield

import (
	"strconv"
	"strings"
)

type CellState int8

const (
	Unknown       CellState = -2
	ExplodedMine  CellState = 65
	UnflaggedMine CellState = 67
	/*
	 * Each item of a Grid is one of the following values:
	 *
	 * 	- 0 to 8 mean the cell is revealed and has a surrounding mine
	 * 	  count.
	 *
	 * 	- -2 means the cell is covered.
	 *
	 * 	- 65 means the cell is the mine the player hit.
	 *
	 * 	- 67 means the cell is a mine shown after the game was lost.
	 */
)

func (s CellState) String() string {
	switch {
	case s == Unknown:
		return "?"
	case s == ExplodedMine:
		return "X"
	case s == UnflaggedMine:
		return "*"
	case 0 <= s && s <= 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

func (s CellState) Revealed() bool {
	return 0 <= s && s <= 8
}

type Grid []CellState

// ToString lays the grid out in rows of width cells. A non-positive width
// yields an empty string.
func (g Grid) ToString(width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			if x > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(g[y*width+x].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Grid snapshots every cell for rendering. Mines stay covered unless the
// game is lost.
func (f *MineField) Grid() Grid {
	grid := make(Grid, f.gridSize)
	for i := range grid {
		grid[i] = Unknown
		if n, ok := f.reveals[i]; ok {
			grid[i] = CellState(n)
		} else if f.lost && f.HasMine(i) {
			grid[i] = UnflaggedMine
		}
	}
	if f.lost {
		grid[f.losingCell] = ExplodedMine
	}
	return grid
}
