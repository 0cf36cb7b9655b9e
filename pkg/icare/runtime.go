package icare

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Mathieu1704/icare-mvp/internal/adapters/intent"
	"github.com/Mathieu1704/icare-mvp/internal/adapters/llm"
	"github.com/Mathieu1704/icare-mvp/internal/adapters/observability"
	"github.com/Mathieu1704/icare-mvp/internal/adapters/store"
	"github.com/Mathieu1704/icare-mvp/internal/app/api"
	"github.com/Mathieu1704/icare-mvp/internal/app/config"
	"github.com/Mathieu1704/icare-mvp/internal/app/pipeline"
	"github.com/Mathieu1704/icare-mvp/internal/domain"
	"github.com/Mathieu1704/icare-mvp/internal/ports"
)

// RuntimeOption customizes the dependencies used by Runtime.
type RuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	store         ports.SensorStore
	extractor     ports.IntentExtractor
	llmClient     ports.LLMClient
	observability ports.Observability
}

// WithStore injects a custom sensor store (in-memory fakes, alternate databases).
func WithStore(s ports.SensorStore) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.store = s
	}
}

// WithExtractor injects a custom intent extractor, bypassing strategy selection.
func WithExtractor(e ports.IntentExtractor) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.extractor = e
	}
}

// WithLLMClient injects a custom completion backend for the llm strategy.
func WithLLMClient(c ports.LLMClient) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.llmClient = c
	}
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs ports.Observability) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.observability = obs
	}
}

// Runtime wires the chat pipeline behind the HTTP surface and owns the
// process-wide singletons: the database handle and the completion client.
// Both are built once here and shared read-only across requests.
type Runtime struct {
	cfg      *config.Config
	obs      ports.Observability
	store    ports.SensorStore
	pipeline *pipeline.ChatPipeline
	db       *sql.DB
	srv      *http.Server
	serveErr chan error
}

// NewRuntime bootstraps the default adapters (Postgres store, configured
// intent strategy, Prometheus observability). RuntimeOption values override
// any dependency for embedding or testing.
func NewRuntime(cfg *config.Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	obs := overrides.observability
	if obs == nil {
		logger, err := zap.NewProduction()
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		obs = observability.NewPromObs(logger)
	}

	var db *sql.DB
	st := overrides.store
	if st == nil {
		var err error
		db, err = sql.Open("postgres", cfg.Postgres.ConnString)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		st = store.NewPostgresStore(db, cfg.Postgres.Table, cfg.Postgres.QueryTimeout)
	}

	extractor := overrides.extractor
	if extractor == nil {
		switch cfg.Intent.Strategy {
		case config.StrategyLLM:
			client := overrides.llmClient
			if client == nil {
				var err error
				client, err = llm.NewClient(context.Background(), cfg.LLM.ClientConfig())
				if err != nil {
					if db != nil {
						db.Close()
					}
					return nil, fmt.Errorf("build llm client: %w", err)
				}
			}
			extractor = intent.NewLLMExtractor(client, cfg.LLM.Timeout)
		default:
			extractor = intent.NewPatternExtractor()
		}
	}

	p := pipeline.New(extractor, st, obs, pipeline.Config{
		DefaultOrganization: cfg.Chat.DefaultOrganization,
		StalenessThreshold:  cfg.Chat.StalenessThreshold(),
		DefaultLocale:       domain.Locale(cfg.Chat.DefaultLocale),
		StrictExtraction:    cfg.Chat.StrictExtraction,
	})

	router := api.NewRouter(p, obs)
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handlers.LoggingHandler(os.Stdout, router),
	}

	return &Runtime{
		cfg:      cfg,
		obs:      obs,
		store:    st,
		pipeline: p,
		db:       db,
		srv:      srv,
		serveErr: make(chan error, 1),
	}, nil
}

// Start verifies the store is reachable and begins serving. Boot fails hard
// when the store is down: every answer depends on it, so the service never
// runs degraded.
func (r *Runtime) Start() error {
	if r == nil {
		return fmt.Errorf("runtime is nil")
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.store.Ping(pingCtx); err != nil {
		r.obs.LogCritical("store_unreachable_at_boot", err)
		return fmt.Errorf("sensor store not reachable: %w", err)
	}

	r.obs.LogInfo("serving",
		ports.Field{Key: "addr", Value: r.cfg.Server.Addr},
		ports.Field{Key: "strategy", Value: r.cfg.Intent.Strategy})

	go func() {
		if err := r.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.serveErr <- err
		}
		close(r.serveErr)
	}()

	return nil
}

// Run starts the runtime and blocks until the provided context is cancelled
// or the server fails. Upon cancellation it attempts a graceful shutdown.
func (r *Runtime) Run(ctx context.Context) error {
	if err := r.Start(); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case err, ok := <-r.serveErr:
		if ok && err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.Shutdown(shutdownCtx)
}

// Shutdown stops the HTTP server and closes the database handle.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error

	if r.srv != nil {
		if err := r.srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Handle answers one chat request through the pipeline without going over
// HTTP; useful for embedding the service in another process.
func (r *Runtime) Handle(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	return r.pipeline.Handle(ctx, req)
}

// Conf loads YAML from disk and builds a Runtime.
func Conf(path string, opts ...RuntimeOption) (*Runtime, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewRuntime(cfg, opts...)
}
