package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/minefield"
	"github.com/vancomm/minefield/internal/session"
)

type GameHandler struct {
	log      *logrus.Logger
	store    *session.Store
	defaults config.GameConfig
	dec      *schema.Decoder
	upgrader websocket.Upgrader
}

func NewGameHandler(
	log *logrus.Logger,
	store *session.Store,
	defaults config.GameConfig,
	upgrader websocket.Upgrader,
) *GameHandler {
	return &GameHandler{
		log:      log,
		store:    store,
		defaults: defaults,
		dec:      newDecoder(),
		upgrader: upgrader,
	}
}

// status maps domain errors to HTTP status codes.
func status(err error) int {
	var (
		cfgErr   *minefield.ConfigError
		rangeErr *minefield.OutOfRangeError
	)
	switch {
	case errors.As(err, &cfgErr), errors.As(err, &rangeErr):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrCapacity):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto := CreateNewGameDTO{
		RowSize:   g.defaults.RowSize,
		MineRatio: g.defaults.MineRatio,
	}
	if err := g.dec.Decode(&dto, r.URL.Query()); err != nil {
		sendErrorOrLog(w, g.log, http.StatusBadRequest, err)
		return
	}
	if limit := g.defaults.MaxRowSize; limit > 0 && dto.RowSize > limit {
		sendErrorOrLog(w, g.log, http.StatusBadRequest, &minefield.ConfigError{
			RowSize:   dto.RowSize,
			MineRatio: dto.MineRatio,
			Reason:    fmt.Sprintf("row size above the limit of %d", limit),
		})
		return
	}

	game, err := g.store.Create(dto.RowSize, dto.MineRatio)
	if err != nil {
		code := status(err)
		if code == http.StatusInternalServerError {
			g.log.WithError(err).Error("unable to create a game")
		}
		sendErrorOrLog(w, g.log, code, err)
		return
	}

	sendJSONOrLog(w, g.log, NewGameSessionDTO(game.Snapshot()))
}

func (g GameHandler) game(w http.ResponseWriter, r *http.Request) (*session.Game, bool) {
	game, err := g.store.Get(r.PathValue("id"))
	if err != nil {
		sendErrorOrLog(w, g.log, status(err), err)
		return nil, false
	}
	return game, true
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	game, ok := g.game(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, g.log, NewGameSessionDTO(game.Snapshot()))
}

func (g GameHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	var dto RevealDTO
	if err := g.dec.Decode(&dto, r.URL.Query()); err != nil {
		sendErrorOrLog(w, g.log, http.StatusBadRequest, err)
		return
	}

	game, ok := g.game(w, r)
	if !ok {
		return
	}

	var ended bool
	err := game.Do(func(f *minefield.MineField) error {
		wasOver := f.Terminal()
		err := f.Reveal(dto.Index)
		ended = !wasOver && f.Terminal()
		return err
	})
	if err != nil {
		sendErrorOrLog(w, g.log, status(err), err)
		return
	}

	snap := game.Snapshot()
	if ended {
		g.log.WithFields(logrus.Fields{
			"game_session_id": snap.ID,
			"won":             snap.Won,
			"revealed":        snap.Revealed,
		}).Info("game over")
	}
	sendJSONOrLog(w, g.log, NewGameSessionDTO(snap))
}
