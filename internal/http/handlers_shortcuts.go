package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"nexus/internal/log"
)

func (s *Server) handleListShortcuts(w http.ResponseWriter, r *http.Request) {
	NewHTMXResponse().JSON(s.svc.Launcher.Launchpad(r.Context())).Write(w)
}

// handleSaveShortcut creates a tile on POST and replaces one on PUT.
func (s *Server) handleSaveShortcut(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if resp := ParseBodyOrFail(p); resp != nil {
		resp.Write(w)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		id = p.Get("id")
	}
	created := id == "" || id == "null"

	sc, err := s.svc.Launcher.Save(r.Context(), id, p.Get("name"), p.Get("url"))
	if err != nil {
		writeServiceError(w, r, log.OpCreate, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	NewHTMXResponse().
		Status(status).
		TriggerChanged(EventShortcutsChanged, sc.ID).
		JSON(sc).
		Write(w)
}

func (s *Server) handleDeleteShortcut(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.svc.Launcher.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, log.OpDelete, err)
		return
	}
	NewHTMXResponse().
		Status(http.StatusNoContent).
		TriggerChanged(EventShortcutsChanged, id).
		Write(w)
}

// handleReorderShortcuts takes the tile IDs in their new display order.
func (s *Server) handleReorderShortcuts(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if resp := ParseBodyOrFail(p); resp != nil {
		resp.Write(w)
		return
	}
	ids := p.GetList("ids")
	if err := s.svc.Launcher.Reorder(r.Context(), ids); err != nil {
		writeServiceError(w, r, log.OpReorder, err)
		return
	}
	NewHTMXResponse().
		Status(http.StatusNoContent).
		TriggerChanged(EventShortcutsChanged, "").
		Write(w)
}
