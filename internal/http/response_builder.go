// Package http provides HTTP server and handler implementations.
//
// This file implements the Builder Pattern for constructing API responses.
// Every mutation answers with JSON and an HX-Trigger header naming the
// collection that changed, so htmx fragments on the page can refresh.

package http

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
)

// Change events fired after successful mutations.
const (
	EventShortcutsChanged   = "shortcuts:changed"
	EventHabitsChanged      = "habits:changed"
	EventLedgerChanged      = "ledger:changed"
	EventNotesChanged       = "notes:changed"
	EventScreenshotsChanged = "screenshots:changed"
)

// HTMXResponseBuilder provides a fluent API for building responses.
type HTMXResponseBuilder struct {
	triggers   map[string]any
	statusCode int
	body       []byte
	headers    map[string]string
}

// NewHTMXResponse creates a new response builder with default 200 status.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds a named event with optional data to the HX-Trigger header.
func (b *HTMXResponseBuilder) Trigger(name string, data any) *HTMXResponseBuilder {
	b.triggers[name] = data
	return b
}

// TriggerChanged fires a change event carrying the affected ID, if any.
func (b *HTMXResponseBuilder) TriggerChanged(event, id string) *HTMXResponseBuilder {
	if id == "" {
		return b.Trigger(event, struct{}{})
	}
	return b.Trigger(event, map[string]string{"id": id})
}

// NotificationType represents the type of notification to display.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// TriggerNotification adds a show-notification event.
func (b *HTMXResponseBuilder) TriggerNotification(notifType NotificationType, message string, durationMs int) *HTMXResponseBuilder {
	return b.Trigger("show-notification", map[string]any{
		"type":     string(notifType),
		"message":  message,
		"duration": durationMs,
	})
}

func (b *HTMXResponseBuilder) TriggerSuccessNotification(message string) *HTMXResponseBuilder {
	return b.TriggerNotification(NotificationSuccess, message, 3000)
}

func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.headers[name] = value
	return b
}

func (b *HTMXResponseBuilder) BodyString(content string) *HTMXResponseBuilder {
	b.body = []byte(content)
	return b
}

func (b *HTMXResponseBuilder) BodyHTML(html string) *HTMXResponseBuilder {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = []byte(html)
	return b
}

// JSON encodes v as the response body. Encoding failures become a 500.
func (b *HTMXResponseBuilder) JSON(v any) *HTMXResponseBuilder {
	raw, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to encode response body", "error", err)
		b.statusCode = http.StatusInternalServerError
		raw = []byte(`{"error":"internal error"}`)
	}
	b.headers["Content-Type"] = "application/json"
	b.body = append(raw, '\n')
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if len(b.triggers) > 0 {
		triggerJSON, err := json.Marshal(b.triggers)
		if err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}

	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// ErrorResponse creates a JSON error response.
func ErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(statusCode).
		JSON(errorBody{Error: message})
}

// HTMLErrorResponse renders an escaped error fragment for page partials.
func HTMLErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(statusCode).
		BodyHTML(`<div class="error">` + template.HTMLEscapeString(message) + `</div>`)
}

func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func NotFoundError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func InternalServerError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}
