package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"nexus/internal/log"
)

// handleUploadScreenshot stores a base64 data URL sent as "data" under
// "file_name" and returns its public URL and path.
func (s *Server) handleUploadScreenshot(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if resp := ParseBodyOrFail(p); resp != nil {
		resp.Write(w)
		return
	}
	shot, err := s.svc.Screenshots.Upload(r.Context(), p.GetRaw("data"), p.Get("file_name"))
	if err != nil {
		writeServiceError(w, r, log.OpUpload, err)
		return
	}
	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerChanged(EventScreenshotsChanged, shot.Path).
		TriggerSuccessNotification("Screenshot uploaded").
		JSON(shot).
		Write(w)
}

func (s *Server) handleDeleteScreenshot(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "path")
	if err := s.svc.Screenshots.Delete(r.Context(), key); err != nil {
		writeServiceError(w, r, log.OpDelete, err)
		return
	}
	NewHTMXResponse().
		Status(http.StatusNoContent).
		TriggerChanged(EventScreenshotsChanged, key).
		Write(w)
}
