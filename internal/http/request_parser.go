// Package http provides the HTTP API server and its handlers.
//
// This file implements parsing of query parameters and request bodies. The
// registration endpoint accepts JSON as well as form-encoded bodies.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gofinances/internal/apperrors"
	"gofinances/internal/services"
)

const maxBodyBytes = 64 << 10

// ParsePeriod reads year and month from query, falling back to the fields
// of def that are absent. Values present but not numeric are rejected.
func ParsePeriod(query url.Values, def services.Period) (services.Period, error) {
	p := def
	if v := strings.TrimSpace(query.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return services.Period{}, apperrors.Wrap(apperrors.ErrInvalidPeriod, fmt.Errorf("year %q: %w", v, err))
		}
		p.Year = y
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return services.Period{}, apperrors.Wrap(apperrors.ErrInvalidPeriod, fmt.Errorf("month %q: %w", v, err))
		}
		p.Month = time.Month(m)
	}
	if !p.Valid() {
		return services.Period{}, apperrors.Wrap(apperrors.ErrInvalidPeriod, fmt.Errorf("period %d-%d", p.Year, int(p.Month)))
	}
	return p, nil
}

// RequestBodyParser reads a JSON or form-encoded body once and exposes its
// top-level values as trimmed strings.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{contentType: r.Header.Get("Content-Type")}
	if r.Body == nil {
		return p
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if p.err == nil && len(p.body) > maxBodyBytes {
		p.err = errors.New("request body too large")
	}
	return p
}

func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}
	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.looksLikeJSON() {
		p.jsonData = make(map[string]any)
		p.err = json.Unmarshal(p.body, &p.jsonData)
		return p.err
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

func (p *RequestBodyParser) looksLikeJSON() bool {
	if mt, _, err := mime.ParseMediaType(p.contentType); err == nil && mt == "application/json" {
		return true
	}
	trimmed := strings.TrimSpace(string(p.body))
	return strings.HasPrefix(trimmed, "{")
}

// Get returns the value of key, or "" if absent.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(sanitizeInput(stringValue(val)))
		}
		return ""
	}
	if p.formData != nil {
		return strings.TrimSpace(sanitizeInput(p.formData.Get(key)))
	}
	return ""
}

func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// RegisterInput builds the registration form from the parsed body.
func (p *RequestBodyParser) RegisterInput() services.RegisterInput {
	return services.RegisterInput{
		Name:     p.Get("name"),
		Amount:   p.Get("amount"),
		Type:     p.Get("type"),
		Category: p.Get("category"),
	}
}

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
