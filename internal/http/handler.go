package http

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"git-repository-analyzer/internal/config"
	"git-repository-analyzer/internal/evaluation"
	"git-repository-analyzer/internal/metrics"
	"git-repository-analyzer/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Handler struct {
	router      chi.Router
	cfg         config.DashboardConfig
	sessionCfg  config.SessionConfig
	exclusions  []string
	location    *time.Location
	sessions    *session.Manager
	evaluations evaluation.Store
	metrics     *metrics.Metrics
	logger      *zap.Logger
	pages       *template.Template
	now         func() time.Time
	checks      map[string]func(context.Context) error
}

// readinessTimeout bounds each dependency check of /ready
const readinessTimeout = 2 * time.Second

func NewHandler(cfg *config.Config, sessions *session.Manager, evaluations evaluation.Store, m *metrics.Metrics, logger *zap.Logger) (*Handler, error) {
	loc, err := time.LoadLocation(cfg.Dashboard.Timezone)
	if err != nil {
		return nil, err
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	h := &Handler{
		router:      chi.NewRouter(),
		cfg:         cfg.Dashboard,
		sessionCfg:  cfg.Session,
		exclusions:  config.ExclusionPatterns(),
		location:    loc,
		sessions:    sessions,
		evaluations: evaluations,
		metrics:     m,
		logger:      logger,
		pages:       pages,
		now:         time.Now,
		checks:      make(map[string]func(context.Context) error),
	}
	h.registerRoutes()
	return h, nil
}

func (h *Handler) registerRoutes() {
	r := h.router
	r.Use(middleware.Recoverer)
	r.Use(Logger(h.logger))
	r.Use(Instrument(h.metrics))
	r.Use(CORS)

	// Health check
	r.Get("/ping", h.Ping)
	r.Get("/ready", h.Ready)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	// Dashboard pages
	r.Get("/", h.Index)
	r.Post("/session/end", h.EndSession)
	r.Post("/evaluation", h.SubmitEvaluation)

	// API routes
	r.Route("/api/v1/repositories", func(r chi.Router) {
		r.Get("/", h.ListRepositories)
		r.Route("/{group}/{name}", func(r chi.Router) {
			r.Get("/report", h.GetReport)
			r.Get("/evaluation", h.GetEvaluation)
			r.Put("/evaluation", h.PutEvaluation)
			r.Delete("/evaluation", h.DeleteEvaluation)
		})
	})
}

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{
		"message": "pong",
	})
}

// AddReadinessCheck registers a backing service checked by /ready. Register
// checks before serving.
func (h *Handler) AddReadinessCheck(name string, check func(context.Context) error) {
	h.checks[name] = check
}

// Ready reports 503 while any registered backing service fails its check
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	results := make(map[string]string, len(h.checks))

	for name, check := range h.checks {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		err := check(ctx)
		cancel()

		if err != nil {
			status = http.StatusServiceUnavailable
			results[name] = err.Error()
			h.logger.Warn("Readiness check failed", zap.String("check", name), zap.Error(err))
			continue
		}
		results[name] = "ok"
	}

	JSON(w, status, map[string]any{
		"ready":  status == http.StatusOK,
		"checks": results,
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}
