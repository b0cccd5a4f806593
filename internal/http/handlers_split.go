package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"nexus/internal/core"
	"nexus/internal/log"
)

func (s *Server) handleListSplit(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.svc.Ledger.List(r.Context())
	if err != nil {
		writeServiceError(w, r, log.OpList, err)
		return
	}
	NewHTMXResponse().JSON(orEmpty(expenses)).Write(w)
}

// handleAddSplit accepts payer, amount, participants (array or
// comma-separated) and an optional description.
func (s *Server) handleAddSplit(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if resp := ParseBodyOrFail(p); resp != nil {
		resp.Write(w)
		return
	}

	amount, err := core.ParseAmount(p.Get("amount"))
	if err != nil {
		BadRequestError("invalid amount").Write(w)
		return
	}

	e, err := s.svc.Ledger.Add(r.Context(), p.Get("payer"), amount, p.GetList("participants"), p.Get("description"))
	if err != nil {
		writeServiceError(w, r, log.OpCreate, err)
		return
	}
	log.NewStructuredLogger(log.FromContext(r.Context())).LogExpenseAdded(r.Context(), e)

	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerChanged(EventLedgerChanged, e.ID).
		JSON(e).
		Write(w)
}

func (s *Server) handleDeleteSplit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.svc.Ledger.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, log.OpDelete, err)
		return
	}
	NewHTMXResponse().
		Status(http.StatusNoContent).
		TriggerChanged(EventLedgerChanged, id).
		Write(w)
}

type balanceRow struct {
	core.ParticipantBalance
	Display string `json:"display"`
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := s.svc.Ledger.Balances(r.Context())
	if err != nil {
		writeServiceError(w, r, log.OpList, err)
		return
	}
	rows := make([]balanceRow, len(balances))
	for i, b := range balances {
		rows[i] = balanceRow{ParticipantBalance: b, Display: core.FormatAmount(b.Amount)}
	}
	NewHTMXResponse().JSON(rows).Write(w)
}
