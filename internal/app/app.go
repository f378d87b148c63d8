package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"result-service/internal/app/middleware"
	"result-service/internal/config"
	"result-service/internal/db"
	"result-service/internal/handler"
	"result-service/internal/logger"
	"result-service/internal/metrics"
	"result-service/internal/repository"
	"result-service/internal/service/note"
	"result-service/internal/telemetry"
	"result-service/internal/validation"
)

const serviceName = "result-service"

// Version is set at build time
var Version = "dev"

// App is the main application structure
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	pool          *pgxpool.Pool
	server        *http.Server
	shutdownTrace func(context.Context) error
}

// Handlers groups the HTTP handlers mounted by NewRouter
type Handlers struct {
	Notes  *handler.NoteHandler
	Health *handler.HealthHandler
	Docs   *handler.DocsHandler
}

// NewApp creates and configures the application
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.NewLogger(serviceName, cfg.Logger.Level, cfg.Logger.Encoding, cfg.Logger.Development)

	shutdownTrace, err := telemetry.InitTraceProvider(ctx, cfg.Tracing.Endpoint, serviceName, Version)
	if err != nil {
		log.Error("Failed to initialize tracing", zap.Error(err))
		return nil, err
	}

	a := &App{
		cfg:           cfg,
		logger:        log,
		shutdownTrace: shutdownTrace,
	}

	repo, transactor, err := a.openStorage(ctx)
	if err != nil {
		return nil, err
	}

	validator := validation.NewSchemaValidator()
	if err := handler.RegisterSchemas(validator); err != nil {
		log.Error("Failed to register request schemas", zap.Error(err))
		return nil, err
	}

	noteService := note.NewService(repo, transactor)

	handlers := Handlers{
		Notes:  handler.NewNoteHandler(noteService, validator, cfg.Validation.IncludeMetadata, log),
		Health: handler.NewHealthHandler(log),
		Docs:   handler.NewDocsHandler(validator, log),
	}

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      NewRouter(handlers, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return a, nil
}

func (a *App) openStorage(ctx context.Context) (repository.NoteRepository, db.Transactioner, error) {
	if a.cfg.Storage.Driver == config.StorageMemory {
		a.logger.Info("Using in-memory storage")
		return repository.NewMemoryNoteRepository(), db.NoopTransactor{}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(a.cfg.Database.DSN())
	if err != nil {
		a.logger.Error("Failed to parse DB config", zap.Error(err))
		return nil, nil, err
	}

	poolCfg.MaxConns = int32(a.cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(a.cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = a.cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		a.logger.Error("Failed to connect to database", zap.Error(err))
		return nil, nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		a.logger.Error("Failed to ping database", zap.Error(err))
		return nil, nil, err
	}
	a.pool = pool
	a.logger.Info("Successfully connected to database")

	ctxManager := db.NewContextManager(pool, a.logger)
	if err := repository.EnsureSchema(ctx, ctxManager); err != nil {
		a.logger.Error("Failed to prepare database schema", zap.Error(err))
		return nil, nil, err
	}

	return repository.NewNoteRepository(ctxManager), ctxManager, nil
}

// NewRouter mounts the routes and wraps them in the middleware chain:
// RequestID, Tracing, Logging, Recovery, then the routes.
func NewRouter(h Handlers, log *zap.Logger, opts ...middleware.RecoveryOption) http.Handler {
	mux := http.NewServeMux()

	// Note routes
	mux.HandleFunc("POST /notes", h.Notes.CreateNote)
	mux.HandleFunc("GET /notes", h.Notes.ListNotes)
	mux.HandleFunc("GET /notes/{id}", h.Notes.GetNote)
	mux.HandleFunc("PUT /notes/{id}", h.Notes.UpdateNote)
	mux.HandleFunc("DELETE /notes/{id}", h.Notes.DeleteNote)
	mux.HandleFunc("POST /notes/{id}/archive", h.Notes.ArchiveNote)
	mux.HandleFunc("POST /notes/{id}/share", h.Notes.ShareNote)

	// Schema routes
	mux.HandleFunc("GET /schemas", h.Docs.ListSchemas)
	mux.HandleFunc("GET /schemas/{name}", h.Docs.ServeSchema)

	// Operational routes
	mux.HandleFunc("GET /health", h.Health.Check)
	mux.Handle("GET /metrics", metrics.Handler())

	var root http.Handler = mux
	root = middleware.Recovery(log, opts...)(root)
	root = middleware.Logging(log)(root)
	root = middleware.Tracing()(root)
	root = middleware.RequestID()(root)
	return root
}

// Run starts the application and blocks until an interrupt signal
func (a *App) Run() error {
	defer func() {
		_ = a.logger.Sync()
	}()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("address", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-errCh:
		a.logger.Error("HTTP server error", zap.Error(err))
		a.close(context.Background())
		return err
	}

	a.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("Server forced to shutdown", zap.Error(err))
		a.close(ctx)
		return err
	}

	a.close(ctx)
	a.logger.Info("Server exited gracefully")
	return nil
}

func (a *App) close(ctx context.Context) {
	if a.pool != nil {
		a.pool.Close()
		a.logger.Info("Database connection pool closed")
	}
	if err := a.shutdownTrace(ctx); err != nil {
		a.logger.Error("Failed to flush traces", zap.Error(err))
	}
}
