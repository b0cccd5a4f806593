package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"nexus/internal/config"
	"nexus/internal/log"
	"nexus/internal/metrics"
	"nexus/internal/middleware/ratelimit"
	"nexus/internal/middleware/security"
	"nexus/internal/middleware/trace"
	"nexus/internal/ports"
	"nexus/internal/services"
	appweb "nexus/web"
)

// Services are the application services the handlers delegate to.
// Screenshots may be nil when no object store is configured.
type Services struct {
	Ready       ports.Pinger
	Launcher    *services.LauncherService
	Habits      *services.HabitService
	Ledger      *services.LedgerService
	Notes       *services.NotesService
	Screenshots *services.ScreenshotService
}

type Server struct {
	http.Server
	templates *template.Template
	svc       Services
	logger    *log.Logger
	devTools  bool
	started   time.Time

	detector     *security.Detector
	rateLimiter  *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(cfg *config.Config, svc Services, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		Server: http.Server{
			Addr:              ":" + cfg.Port,
			ReadHeaderTimeout: 10 * time.Second,
		},
		svc:      svc,
		logger:   logger,
		devTools: cfg.DevTools,
		started:  time.Now(),
		detector: security.NewDetector(),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
			MutatingOnly:      true,
		}),
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	headers := security.DefaultHeadersConfig()
	filesPrefix := "/" + strings.Trim(cfg.PublicFilesPrefix, "/")
	headers.SharedPrefixes = []string{filesPrefix + "/"}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(log.Middleware(logger))
	r.Use(s.detector.Middleware)
	r.Use(trace.NewMiddleware(logger, s.detector.ExtractClientIP).Middleware)
	r.Use(security.NewHeadersMiddleware(headers).Middleware)
	// rs/cors treats an empty origin list as "*", so only mount it when
	// sibling apps are configured.
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowedHeaders: []string{"Content-Type", "HX-Request", "HX-Target", "HX-Current-URL", trace.HeaderRequestID},
			ExposedHeaders: []string{"HX-Trigger", trace.HeaderRequestID},
		}).Handler)
	}
	r.Use(metrics.Middleware)
	r.Use(s.rateLimiter.Middleware(s.detector.ExtractClientIP))

	r.Get("/", s.handleIndex)
	r.Get("/ui/shortcuts", s.handleShortcutsPartial)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.With(security.StaticAssetMiddleware(3600)).Handle("/static/*", static)
	} else {
		logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	if svc.Screenshots != nil && cfg.ObjectStoreDir != "" {
		files := http.StripPrefix(filesPrefix+"/", http.FileServer(http.Dir(cfg.ObjectStoreDir)))
		r.With(security.StaticAssetMiddleware(86400)).Handle(filesPrefix+"/*", files)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/shortcuts", func(r chi.Router) {
			r.Use(log.ComponentMiddleware("http." + log.ComponentLauncher))
			r.Get("/", s.handleListShortcuts)
			r.Post("/", s.handleSaveShortcut)
			r.Post("/reorder", s.handleReorderShortcuts)
			r.Put("/{id}", s.handleSaveShortcut)
			r.Delete("/{id}", s.handleDeleteShortcut)
		})
		r.Route("/habits", func(r chi.Router) {
			r.Use(log.ComponentMiddleware("http." + log.ComponentHabits))
			r.Get("/", s.handleListHabits)
			r.Post("/", s.handleCreateHabit)
			r.Delete("/{id}", s.handleDeleteHabit)
			r.Post("/{id}/toggle", s.handleToggleHabit)
		})
		r.Route("/split", func(r chi.Router) {
			r.Use(log.ComponentMiddleware("http." + log.ComponentLedger))
			r.Get("/", s.handleListSplit)
			r.Post("/", s.handleAddSplit)
			r.Get("/balances", s.handleBalances)
			r.Delete("/{id}", s.handleDeleteSplit)
		})
		if s.devTools {
			r.Route("/notes", func(r chi.Router) {
				r.Use(log.ComponentMiddleware("http." + log.ComponentNotes))
				r.Get("/", s.handleListNotes)
				r.Post("/", s.handleAddNote)
				r.Get("/export", s.handleExportNotes)
				r.Delete("/{id}", s.handleDeleteNote)
			})
		}
		if svc.Screenshots != nil {
			r.Route("/screenshots", func(r chi.Router) {
				r.Use(log.ComponentMiddleware("http." + log.ComponentScreenshots))
				r.Post("/", s.handleUploadScreenshot)
				r.Delete("/{path}", s.handleDeleteScreenshot)
			})
		}
	})

	s.Handler = r
	return s
}

// Shutdown stops the rate limiter and drains the HTTP server. It runs once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
