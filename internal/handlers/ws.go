package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minefield/internal/command"
	"github.com/vancomm/minefield/internal/minefield"
	"github.com/vancomm/minefield/internal/session"
)

func NewUpgrader(origins []string) websocket.Upgrader {
	if len(origins) == 0 {
		return websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		}
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
	}
}

// ConnectWS streams a game over a websocket. Every text frame holds one or
// more newline separated commands, answered with the resulting game state.
// A failed frame is answered with a [CommandErrorDTO] that carries the
// state too if any command ran.
func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	game, ok := g.game(w, r)
	if !ok {
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	log := g.log.WithField("game_session_id", game.ID)
	log.Debug("websocket connected")

	if err := conn.WriteJSON(NewGameSessionDTO(game.Snapshot())); err != nil {
		log.WithError(err).Warn("write")
		return
	}

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("read")
			}
			break
		}
		if mt != websocket.TextMessage {
			break
		}

		if executed, err := g.apply(game, string(message), log); err != nil {
			reply := CommandErrorDTO{Error: err.Error()}
			if executed {
				reply.Game = NewGameSessionDTO(game.Snapshot())
			}
			if err := conn.WriteJSON(reply); err != nil {
				log.WithError(err).Warn("write")
				break
			}
			continue
		}

		if err := conn.WriteJSON(NewGameSessionDTO(game.Snapshot())); err != nil {
			log.WithError(err).Warn("write")
			break
		}
	}
}

// apply parses every command of a frame and runs them in order under the
// game lock, stopping at the first failure or once the game ends. A parse
// error rejects the frame before anything runs; executed reports whether
// the commands were run, in which case the ones before a failure stay
// applied.
func (g GameHandler) apply(
	game *session.Game, text string, log *logrus.Entry,
) (executed bool, err error) {
	var cmds []command.Command
	for _, line := range command.Lines(text) {
		cmd, err := command.Parse(line)
		if err != nil {
			return false, err
		}
		cmds = append(cmds, cmd)
	}

	return true, game.Do(func(f *minefield.MineField) error {
		for _, cmd := range cmds {
			log.WithField("command", cmd.String()).Debug("<")
			if err := cmd.Execute(f); err != nil {
				return err
			}
			if f.Terminal() {
				break
			}
		}
		return nil
	})
}
