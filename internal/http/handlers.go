package http

import (
	"context"
	"net/http"
	"time"

	"nexus/internal/core"
	"nexus/internal/log"
)

// tile is a shortcut with its presentation resolved.
type tile struct {
	core.Shortcut
	Style core.TileStyle
}

type launchpadView struct {
	Tiles      []tile
	SyncStatus string
	Defaults   bool
	DevTools   bool
	Year       int
}

func (s *Server) launchpadView(ctx context.Context) launchpadView {
	lp := s.svc.Launcher.Launchpad(ctx)
	v := launchpadView{
		SyncStatus: lp.SyncStatus,
		Defaults:   lp.Defaults,
		DevTools:   s.devTools,
		Year:       time.Now().Year(),
	}
	for _, sc := range lp.Shortcuts {
		v.Tiles = append(v.Tiles, tile{Shortcut: sc, Style: core.StyleFor(sc.URL)})
	}
	return v
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", "template", name)
		HTMLErrorResponse(http.StatusInternalServerError, "templates not loaded").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.NewStructuredLogger(log.FromContext(r.Context())).
			LogError(r.Context(), "Template execution failed", err, log.OpRender, log.ErrorTypeInternal, nil)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "index.html", s.launchpadView(r.Context()))
}

// handleShortcutsPartial renders the tile grid for htmx swaps.
func (s *Server) handleShortcutsPartial(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "shortcuts.html", s.launchpadView(r.Context()))
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewHTMXResponse().JSON(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady checks templates and the backing store.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]any{}

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.svc.Ready != nil {
		if err := s.svc.Ready.Ping(ctx); err != nil {
			checks["store"] = "failed: " + err.Error()
			status, httpStatus = "not_ready", http.StatusServiceUnavailable
		} else {
			checks["store"] = "ok"
		}
	}

	checks["rate_limiter"] = map[string]int{"active_clients": s.rateLimiter.ActiveClients()}

	NewHTMXResponse().Status(httpStatus).JSON(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}
