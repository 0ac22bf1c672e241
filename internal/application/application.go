package application

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/wadewooldridge/coin-calculator/internal/api"
	"github.com/wadewooldridge/coin-calculator/internal/calculator"
	"github.com/wadewooldridge/coin-calculator/internal/config"
	"github.com/wadewooldridge/coin-calculator/internal/metrics"
	"github.com/wadewooldridge/coin-calculator/internal/storage"
)

//go:embed web
var webFS embed.FS

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage storage.Storage
	metrics *metrics.Recorder
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store, err := storage.NewMemoryStorage(cfg.Denominations, calculator.WithLimits(cfg.Limits))
	if err != nil {
		return nil, fmt.Errorf("failed to apply initial denominations: %w", err)
	}

	engine, err := store.Engine()
	if err != nil {
		return nil, fmt.Errorf("failed to read initial engine: %w", err)
	}
	logger.Info("denominations loaded",
		zap.Ints("denominations", engine.Denominations()),
		zap.Stringer("algorithm", engine.Algorithm()),
		zap.Int("max_total", engine.Limits().MaxTotal),
	)

	var recorder *metrics.Recorder
	routerOpts := []api.RouterOption{
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}
	if cfg.EnableMetrics {
		recorder, err = metrics.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics: %w", err)
		}
		routerOpts = append(routerOpts, api.WithMetricsHandler(recorder.Handler()))
	}

	handler := api.NewHandler(store, api.WithMetrics(recorder), api.WithHandlerLogger(logger))
	apiRouter := api.NewRouter(handler, logger, routerOpts...)

	rootHandler, err := BuildRootHandler(apiRouter)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP handler: %w", err)
	}

	return &App{
		storage: store,
		metrics: recorder,
		handler: handler,
		router:  apiRouter,
		logger:  logger,
		server:  NewServer(cfg, rootHandler),
	}, nil
}

// BuildRootHandler constructs the root HTTP handler that serves the embedded
// calculator page and routes API and metrics requests.
func BuildRootHandler(apiHandler http.Handler) (http.Handler, error) {
	index, err := fs.ReadFile(webFS, "web/index.html")
	if err != nil {
		return nil, fmt.Errorf("read index page: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/metrics", apiHandler)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(index)
	}))

	return mux, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
