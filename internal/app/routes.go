package app

import (
	"github.com/vancomm/minefield/internal/handlers"
)

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(
		a.log, a.store, a.cfg.Game, handlers.NewUpgrader(a.cfg.CorsOrigins),
	)

	a.router.HandleFunc("POST /v1/game", game.NewGame)
	a.router.HandleFunc("GET /v1/game/{id}", game.Fetch)
	a.router.HandleFunc("POST /v1/game/{id}/reveal", game.Reveal)
	a.router.HandleFunc("GET /v1/game/{id}/connect", game.ConnectWS)
}
