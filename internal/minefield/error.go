package minefield

import (
	"errors"
	"fmt"
)

var ErrOutOfRange = errors.New("cell index out of range")

// ConfigError reports a rowSize/mineRatio combination that cannot produce
// a playable board.
type ConfigError struct {
	RowSize   int
	MineRatio float64
	Reason    string
}

// [ConfigError] implements [error]
func (e *ConfigError) Error() string {
	return fmt.Sprintf(
		"invalid minefield configuration (row size %d, mine ratio %g): %s",
		e.RowSize, e.MineRatio, e.Reason,
	)
}

type OutOfRangeError struct {
	Index    int
	GridSize int
}

// [OutOfRangeError] implements [error]
func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("cell %d is outside [0, %d)", e.Index, e.GridSize)
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
