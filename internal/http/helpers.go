package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"nexus/internal/core"
	"nexus/internal/log"
	"nexus/internal/objstore"
)

var validationErrors = []error{
	core.ErrInvalidAmount,
	core.ErrEmptyPayer,
	core.ErrNoParticipants,
	core.ErrBadParticipant,
	core.ErrDescTooLong,
	core.ErrEmptyName,
	core.ErrNameTooLong,
	core.ErrInvalidURL,
	core.ErrEmptyNoteText,
	core.ErrInvalidNoteType,
	core.ErrInvalidUpload,
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, objstore.ErrExists):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// writeServiceError logs unexpected failures and answers with the mapped
// status. Client errors carry the error text; server errors do not.
func writeServiceError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.NewStructuredLogger(log.FromContext(r.Context())).
			LogError(r.Context(), "Request failed", err, operation, log.ErrorTypeInternal, nil)
		InternalServerError("internal error").Status(status).Write(w)
		return
	}
	ErrorResponse(status, err.Error()).Write(w)
}

// orEmpty keeps empty collections encoding as [] rather than null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// sanitizeInput removes control characters except tab and newlines, and
// trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
