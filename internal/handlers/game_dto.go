package handlers

import (
	"github.com/gorilla/schema"

	"github.com/vancomm/minefield/internal/minefield"
	"github.com/vancomm/minefield/internal/session"
)

type CreateNewGameDTO struct {
	RowSize   int     `schema:"row_size"`
	MineRatio float64 `schema:"mine_ratio"`
}

type RevealDTO struct {
	Index int `schema:"index,required"`
}

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type GameSessionDTO struct {
	GameSessionId string         `json:"game_session_id"`
	Grid          minefield.Grid `json:"grid"`
	RowSize       int            `json:"row_size"`
	GridSize      int            `json:"grid_size"`
	MineCount     int            `json:"mine_count"`
	Revealed      int            `json:"revealed"`
	Won           bool           `json:"won"`
	Lost          bool           `json:"lost"`
	LosingCell    *int           `json:"losing_cell,omitempty"`
	StartedAt     int64          `json:"started_at"`
	EndedAt       *int64         `json:"ended_at,omitempty"`
}

func NewGameSessionDTO(s session.Snapshot) *GameSessionDTO {
	var endedAt *int64
	if s.EndedAt != nil {
		e := s.EndedAt.UnixMilli()
		endedAt = &e
	}
	return &GameSessionDTO{
		GameSessionId: s.ID,
		Grid:          s.Grid,
		RowSize:       s.RowSize,
		GridSize:      s.GridSize,
		MineCount:     s.MineCount,
		Revealed:      s.Revealed,
		Won:           s.Won,
		Lost:          s.Lost,
		LosingCell:    s.LosingCell,
		StartedAt:     s.StartedAt.UnixMilli(),
		EndedAt:       endedAt,
	}
}

type CommandErrorDTO struct {
	Error string          `json:"error"`
	Game  *GameSessionDTO `json:"game,omitempty"`
}
