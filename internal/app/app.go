package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/middleware"
	"github.com/vancomm/minefield/internal/session"
)

type App struct {
	log    *logrus.Logger
	cfg    *config.Config
	router *http.ServeMux
	store  *session.Store
}

func New(log *logrus.Logger, cfg *config.Config, opts session.Options) *App {
	if opts.TTL == 0 {
		opts.TTL = cfg.Session.TTL.Duration
	}
	if opts.SweepInterval == 0 {
		opts.SweepInterval = cfg.Session.SweepInterval.Duration
	}
	if opts.MaxGames == 0 {
		opts.MaxGames = cfg.Session.MaxGames
	}

	a := &App{
		log:    log,
		cfg:    cfg,
		router: http.NewServeMux(),
		store:  session.NewStore(log, opts),
	}
	a.loadRoutes()
	return a
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Cors(a.cfg.CorsOrigins...),
		middleware.Logging(a.log),
	)
}

// Start serves on the configured address until ctx is done.
func (a *App) Start(ctx context.Context) error {
	l, err := net.Listen("tcp", a.cfg.Addr)
	if err != nil {
		return fmt.Errorf("unable to listen on %s: %w", a.cfg.Addr, err)
	}
	return a.Serve(ctx, l)
}

func (a *App) Serve(ctx context.Context, l net.Listener) error {
	server := &http.Server{
		Handler: a.Handler(),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	a.log.Infof("ready to serve @ %s", l.Addr())

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.Serve(l)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return a.store.Run(gCtx)
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
