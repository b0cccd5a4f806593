package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"nexus/internal/core"
	"nexus/internal/log"
)

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.svc.Notes.List(r.Context())
	if err != nil {
		writeServiceError(w, r, log.OpList, err)
		return
	}
	NewHTMXResponse().JSON(orEmpty(notes)).Write(w)
}

func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if resp := ParseBodyOrFail(p); resp != nil {
		resp.Write(w)
		return
	}
	page := p.Get("page")
	if page == "" {
		page = r.Referer()
	}
	n, err := s.svc.Notes.Add(r.Context(), p.Get("text"), core.NoteType(p.Get("type")), page)
	if err != nil {
		writeServiceError(w, r, log.OpCreate, err)
		return
	}
	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerChanged(EventNotesChanged, n.ID).
		TriggerSuccessNotification("Note saved").
		JSON(n).
		Write(w)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.svc.Notes.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, log.OpDelete, err)
		return
	}
	NewHTMXResponse().
		Status(http.StatusNoContent).
		TriggerChanged(EventNotesChanged, id).
		Write(w)
}

// handleExportNotes serves the Markdown digest as a download.
func (s *Server) handleExportNotes(w http.ResponseWriter, r *http.Request) {
	md, err := s.svc.Notes.ExportMarkdown(r.Context())
	if err != nil {
		writeServiceError(w, r, log.OpExport, err)
		return
	}
	NewHTMXResponse().
		Header("Content-Type", "text/markdown; charset=utf-8").
		Header("Content-Disposition", `attachment; filename="dev-notes.md"`).
		BodyString(md).
		Write(w)
}
