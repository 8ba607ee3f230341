package minefield

import "fmt"

// Coord addresses a cell by row (Y) and column (X).
type Coord struct {
	Y, X int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.Y, c.X)
}

/*
Neighbor offsets in enumeration order. Counts and cascades do not depend
on it, but tests do.
*/
var neighborOffsets = [8]Coord{
	{+1, 0},
	{+1, +1},
	{0, +1},
	{-1, +1},
	{-1, 0},
	{-1, -1},
	{0, -1},
	{+1, -1},
}

func (f *MineField) CoordinateOf(index int) Coord {
	return Coord{Y: index / f.rowSize, X: index % f.rowSize}
}

func (f *MineField) IndexOf(c Coord) int {
	return c.Y*f.rowSize + c.X
}

func (f *MineField) Contains(c Coord) bool {
	return 0 <= c.Y && c.Y < f.rowSize && 0 <= c.X && c.X < f.rowSize
}

// AdjacentCells returns the up to 8 king-move neighbors of c that lie on
// the grid.
func (f *MineField) AdjacentCells(c Coord) []Coord {
	adj := make([]Coord, 0, len(neighborOffsets))
	for _, d := range neighborOffsets {
		n := Coord{Y: c.Y + d.Y, X: c.X + d.X}
		if f.Contains(n) {
			adj = append(adj, n)
		}
	}
	return adj
}

func (f *MineField) AdjacentMineCount(c Coord) int {
	count := 0
	for _, n := range f.AdjacentCells(c) {
		if f.HasMine(f.IndexOf(n)) {
			count++
		}
	}
	return count
}
