package api

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Harshitk-cp/frontdesk/internal/access"
	"github.com/Harshitk-cp/frontdesk/internal/api/handlers"
	mw "github.com/Harshitk-cp/frontdesk/internal/api/middleware"
	"github.com/Harshitk-cp/frontdesk/internal/buildconfig"
	"github.com/Harshitk-cp/frontdesk/internal/config"
	"github.com/Harshitk-cp/frontdesk/internal/domain"
	"github.com/Harshitk-cp/frontdesk/internal/intent"
	"github.com/Harshitk-cp/frontdesk/internal/notify"
	"github.com/Harshitk-cp/frontdesk/internal/registry"
	"github.com/Harshitk-cp/frontdesk/internal/store"
)

const (
	limiterSweepInterval = 5 * time.Minute
	limiterIdleTTL       = 15 * time.Minute
)

// Deps are the collaborators served over HTTP. Assistant may be nil when the
// profile has the utterance path turned off. Health may be nil.
type Deps struct {
	Dispatcher handlers.Dispatcher
	Assistant  handlers.Assistant
	Audit      domain.AuditStore
	Health     func(ctx context.Context) error

	Profile        config.Profile
	Voice          string
	APIKey         string
	RateLimitRPS   float64
	RateLimitBurst int
}

// App holds the router and the rate limiter janitor for lifecycle management.
type App struct {
	Router    *chi.Mux
	Metrics   *mw.Metrics
	limiter   *mw.RateLimiter
	logger    *zap.Logger
	startTime time.Time

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewApp(deps Deps, logger *zap.Logger) *App {
	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Metrics:   mw.NewMetrics(),
		limiter:   mw.NewRateLimiter(deps.RateLimitRPS, deps.RateLimitBurst),
		logger:    logger,
		startTime: time.Now(),
		stopCh:    make(chan struct{}),
	}

	toolHandler := handlers.NewToolHandler(deps.Dispatcher, app.Metrics)
	sessionHandler := handlers.NewSessionHandler(deps.Profile, deps.Voice, deps.Dispatcher)
	auditHandler := handlers.NewAuditHandler(deps.Audit)

	// Global middleware (order matters)
	r.Use(mw.RequestID(logger))
	r.Use(middleware.RealIP)
	r.Use(app.Metrics.Middleware)
	r.Use(mw.Logging)
	r.Use(middleware.Recoverer)
	r.Use(app.limiter.Middleware)

	r.Get("/health", healthHandler(deps.Health))
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(deps.APIKey))

		r.Route("/tools", func(r chi.Router) {
			r.Get("/", toolHandler.List)
			r.Post("/{name}", toolHandler.Invoke)
		})
		if deps.Assistant != nil {
			r.Post("/utterances", handlers.NewUtteranceHandler(deps.Assistant).Handle)
		}
		r.Get("/session", sessionHandler.Get)
		r.Get("/audit", auditHandler.List)
	})

	return app
}

// Start runs the rate limiter janitor in a background goroutine.
func (app *App) Start() {
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		ticker := time.NewTicker(limiterSweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := app.limiter.Cleanup(limiterIdleTTL); n > 0 {
					app.logger.Debug("dropped idle rate limiters", zap.Int("count", n))
				}
			case <-app.stopCh:
				return
			}
		}
	}()
}

func (app *App) Stop() {
	close(app.stopCh)
	app.wg.Wait()
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if check != nil {
			if err := check(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.Metrics.Requests(),
			"error_count":    app.Metrics.Errors(),
			"tool_outcomes":  app.Metrics.ToolCounts(),
			"rate_limiters":  app.limiter.Len(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"build":      buildconfig.VersionInfo(),
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure adapters satisfy interfaces at compile time.
var (
	_ domain.VisitorRegistry  = (*registry.Client)(nil)
	_ domain.Authorizer       = (*access.Gate)(nil)
	_ domain.Notifier         = (*notify.Fanout)(nil)
	_ domain.Notifier         = notify.NoopNotifier{}
	_ domain.AuditStore       = (*store.AuditStore)(nil)
	_ domain.AuditStore       = (*store.MongoAuditStore)(nil)
	_ domain.AuditStore       = store.NoopAuditStore{}
	_ domain.IntentClassifier = (*intent.Rules)(nil)
	_ domain.IntentClassifier = (*intent.ModelClassifier)(nil)
)
