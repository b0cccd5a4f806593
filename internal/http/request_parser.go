// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.
// Handlers accept JSON bodies from API clients and form-encoded bodies from
// htmx, so both go through one parser.

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// maxBodyBytes bounds request bodies; screenshots arrive base64-encoded.
const maxBodyBytes = 10 << 20

var errBodyTooLarge = errors.New("request body too large")

// RequestBodyParser handles different content types for request body parsing.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the body once and stores it for parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body == nil {
		return p
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if p.err == nil && len(p.body) > maxBodyBytes {
		p.err = errBodyTooLarge
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}

	if trimmed[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(trimmed)
	return p.err
}

// Get returns a sanitized string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// GetRaw returns the value without sanitizing, for payloads such as
// base64 data that must pass through untouched.
func (p *RequestBodyParser) GetRaw(key string) string {
	if p.jsonData != nil {
		if s, ok := p.jsonData[key].(string); ok {
			return s
		}
		return ""
	}
	if p.formData != nil {
		return p.formData.Get(key)
	}
	return ""
}

// GetList returns a list value. JSON arrays are used as-is; a single
// string, in JSON or form data, is split on commas. Blank entries are
// dropped.
func (p *RequestBodyParser) GetList(key string) []string {
	var raw []string
	switch {
	case p.jsonData != nil:
		switch v := p.jsonData[key].(type) {
		case []any:
			for _, item := range v {
				raw = append(raw, stringValue(item))
			}
		case string:
			raw = strings.Split(v, ",")
		}
	case p.formData != nil:
		values := p.formData[key]
		if len(values) == 1 {
			values = strings.Split(values[0], ",")
		}
		raw = values
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = sanitizeInput(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// GetOptionalInt returns nil when key is absent or blank.
func (p *RequestBodyParser) GetOptionalInt(key string) (*int, error) {
	s := p.Get(key)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (p *RequestBodyParser) ContentType() string {
	return p.contentType
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// stringValue converts a decoded JSON value to string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseBodyOrFail parses the request body and returns an error response on
// failure. Returns nil on success.
func ParseBodyOrFail(p *RequestBodyParser) *HTMXResponseBuilder {
	if err := p.Parse(); err != nil {
		if errors.Is(err, errBodyTooLarge) {
			return ErrorResponse(http.StatusRequestEntityTooLarge, "request body too large")
		}
		return BadRequestError("malformed request body")
	}
	return nil
}
