package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"nexus/internal/log"
)

func (s *Server) handleListHabits(w http.ResponseWriter, r *http.Request) {
	habits, err := s.svc.Habits.List(r.Context())
	if err != nil {
		writeServiceError(w, r, log.OpList, err)
		return
	}
	NewHTMXResponse().JSON(orEmpty(habits)).Write(w)
}

func (s *Server) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if resp := ParseBodyOrFail(p); resp != nil {
		resp.Write(w)
		return
	}
	st, err := s.svc.Habits.Create(r.Context(), p.Get("name"))
	if err != nil {
		writeServiceError(w, r, log.OpCreate, err)
		return
	}
	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerChanged(EventHabitsChanged, st.ID).
		JSON(st).
		Write(w)
}

func (s *Server) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.svc.Habits.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, log.OpDelete, err)
		return
	}
	NewHTMXResponse().
		Status(http.StatusNoContent).
		TriggerChanged(EventHabitsChanged, id).
		Write(w)
}

// handleToggleHabit flips one day, today unless the body names a "day" index.
func (s *Server) handleToggleHabit(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if resp := ParseBodyOrFail(p); resp != nil {
		resp.Write(w)
		return
	}
	day, err := p.GetOptionalInt("day")
	if err != nil {
		BadRequestError("day must be an integer").Write(w)
		return
	}
	id := chi.URLParam(r, "id")
	st, err := s.svc.Habits.Toggle(r.Context(), id, day)
	if err != nil {
		writeServiceError(w, r, log.OpToggle, err)
		return
	}
	NewHTMXResponse().
		TriggerChanged(EventHabitsChanged, id).
		JSON(st).
		Write(w)
}
