// Package server is the composition root: it opens the stores named by the
// configuration, wires services and handlers, mounts the routes and runs
// the HTTP server until a shutdown signal arrives.
//
// ROUTES:
//
//	GET    /                       intro page
//	GET    /home                   profile form
//	GET    /portfolio/{id}         rendered portfolio (?template= preview)
//	GET    /portfolio/{id}/spy     websocket, active-section tracking
//	GET    /static/*               embedded assets
//	GET    /api/users/{id}         fetch a profile (ETag aware)
//	GET    /api/templates          template catalog
//	POST   /api/users              submit a profile     ┐
//	GET    /api/draft              the browser's draft  │
//	PUT    /api/draft              save it              ├ session cookie
//	DELETE /api/draft              clear it             ┘
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/genfolio/internal/config"
	"github.com/sakif/genfolio/internal/draft"
	"github.com/sakif/genfolio/internal/handler"
	"github.com/sakif/genfolio/internal/middleware"
	"github.com/sakif/genfolio/internal/render"
	"github.com/sakif/genfolio/internal/repository"
	"github.com/sakif/genfolio/internal/repository/postgres"
	sqliteRepo "github.com/sakif/genfolio/internal/repository/sqlite"
	"github.com/sakif/genfolio/internal/service"
	"github.com/sakif/genfolio/internal/session"
)

// Server owns the router and every resource that must be released on
// shutdown.
type Server struct {
	router  *chi.Mux
	config  *config.Config
	logger  *slog.Logger
	spy     *handler.SpyHandler
	closers []io.Closer
}

// New opens the configured stores and wires the routes. On error anything
// already opened is closed again.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}

	if err := s.setup(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Server) setup(ctx context.Context) error {
	repo, err := s.openRepository(ctx)
	if err != nil {
		return err
	}
	store, err := s.openDraftStore(ctx)
	if err != nil {
		return err
	}

	catalog, err := render.LoadCatalog(s.config.TemplateCatalog)
	if err != nil {
		return fmt.Errorf("loading template catalog: %w", err)
	}
	renderer, err := render.New(catalog, s.logger)
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	secret := s.config.Session.Secret
	if secret == "" {
		secret = randomSecret()
		s.logger.Warn("SESSION_SECRET not set, using a random one; draft sessions end on restart")
	}
	tokens, err := session.NewTokenService(secret, s.config.Session.TTL)
	if err != nil {
		return fmt.Errorf("creating session tokens: %w", err)
	}

	profiles := service.NewProfileService(repo, catalog, s.logger)
	drafts := service.NewDraftService(store, s.logger)

	s.spy = handler.NewSpyHandler(profiles, catalog, s.logger)
	s.routes(routeDeps{
		pages:     handler.NewPageHandler(renderer, profiles, s.logger),
		spy:       s.spy,
		profiles:  handler.NewProfileHandler(profiles, drafts, s.logger),
		drafts:    handler.NewDraftHandler(drafts, s.logger),
		templates: handler.NewTemplateHandler(catalog),
		sessions:  session.Middleware(tokens, s.config.Server.SecureCookies, s.logger),
	})
	return nil
}

func (s *Server) openRepository(ctx context.Context) (repository.ProfileRepository, error) {
	switch s.config.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, s.config.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		s.closers = append(s.closers, db)
		s.logger.Info("profile store ready", slog.String("driver", "postgres"))
		return db, nil
	default:
		if dir := filepath.Dir(s.config.Database.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		db, err := sqliteRepo.New(s.config.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		s.closers = append(s.closers, db)
		s.logger.Info("profile store ready",
			slog.String("driver", "sqlite"),
			slog.String("path", s.config.Database.Path),
		)
		return db, nil
	}
}

func (s *Server) openDraftStore(ctx context.Context) (draft.Store, error) {
	switch s.config.Draft.Backend {
	case config.DraftRedis:
		store, err := draft.NewRedisStore(ctx, draft.RedisConfig{
			Addr:     s.config.Redis.Addr,
			Password: s.config.Redis.Password,
			DB:       s.config.Redis.DB,
			TTL:      s.config.Draft.TTL,
		}, s.logger)
		if err != nil {
			return nil, fmt.Errorf("opening redis draft store: %w", err)
		}
		s.closers = append(s.closers, store)
		return store, nil
	case config.DraftMemory:
		return draft.NewMemoryStore(), nil
	default:
		store, err := draft.NewFileStore(s.config.Draft.Dir, s.logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}

type routeDeps struct {
	pages     *handler.PageHandler
	spy       *handler.SpyHandler
	profiles  *handler.ProfileHandler
	drafts    *handler.DraftHandler
	templates *handler.TemplateHandler
	sessions  func(http.Handler) http.Handler
}

// routes mounts middleware and handlers. Middleware runs in the order it is
// added: request id first so every log line carries it, Recoverer last so
// it sits closest to the handlers.
func (s *Server) routes(d routeDeps) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(render.Static()))))

	s.router.Get("/", d.pages.HandleIntro)
	s.router.Get("/home", d.pages.HandleForm)
	s.router.Get("/portfolio/{id}", d.pages.HandlePortfolio)
	s.router.Get("/portfolio/{id}/spy", d.spy.HandleSpy)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/users/{id}", d.profiles.HandleGet)
		r.Get("/templates", d.templates.HandleList)

		r.Group(func(r chi.Router) {
			r.Use(d.sessions)
			r.Post("/users", d.profiles.HandleCreate)
			r.Get("/draft", d.drafts.HandleGet)
			r.Put("/draft", d.drafts.HandlePut)
			r.Delete("/draft", d.drafts.HandleDelete)
		})
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the stores. It is safe to call more than once.
func (s *Server) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests and
// open spy sockets for up to 30 seconds and closes the stores.
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	// Hijacked spy sockets are not tracked by Shutdown.
	srv.RegisterOnShutdown(s.spy.CloseSessions)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Server.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Server.Port)),
			slog.String("db", s.config.Database.Driver),
			slog.String("drafts", s.config.Draft.Backend),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		if err := s.spy.Wait(ctx); err != nil {
			s.logger.Warn("spy sessions still open at shutdown", slog.String("error", err.Error()))
		}
		s.logger.Info("server stopped gracefully")
	}
	return nil
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
