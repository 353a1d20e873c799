package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/hogwarts/internal/bootstrap"
)

const shutdownTimeout = 10 * time.Second

// Server owns the HTTP listener and everything bootstrap built for it.
type Server struct {
	http   *http.Server
	dbPool *pgxpool.Pool
	deps   *bootstrap.Dependencies
	logger zerolog.Logger
}

// NewServer loads configuration, prepares the database and wires the router.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	dbPool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, dbPool, lgr)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	router, err := bootstrap.SetupRouter(cfg, deps, lgr)
	if err != nil {
		deps.Close()
		dbPool.Close()
		return nil, fmt.Errorf("failed to setup router: %w", err)
	}

	return &Server{
		http: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second, // sync-threads holds the response for several print delays
			IdleTimeout:  120 * time.Second,
		},
		dbPool: dbPool,
		deps:   deps,
		logger: lgr,
	}, nil
}

// Run serves until ctx is cancelled or the listener fails, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info().Msg("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	s.close()
	return err
}

func (s *Server) close() {
	s.deps.Close()
	s.dbPool.Close()
	s.logger.Info().Msg("Server shutdown process complete.")
}
