package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/esmeraldas/zoosanitario/internal/credentials"
	"github.com/esmeraldas/zoosanitario/internal/infrastructure/api/models"
	json "github.com/goccy/go-json"
)

// Error is a non-2xx answer from the API.
type Error struct {
	Method           string
	Path             string
	Status           int
	Message          string
	NeedsCredentials bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("api %s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

// CredentialsRequired implements credentials.Flagged.
func (e *Error) CredentialsRequired() bool {
	return e.NeedsCredentials || credentials.MatchesCredentialsFailure(e.Status, e.Message)
}

var _ credentials.Flagged = (*Error)(nil)

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func parseError(method, path string, status int, body []byte) *Error {
	e := &Error{Method: method, Path: path, Status: status}

	var payload models.ErrorPayload
	if len(bytes.TrimSpace(body)) > 0 && json.Unmarshal(body, &payload) == nil {
		e.NeedsCredentials = payload.NeedsCredentials
		e.Message = payloadMessage(payload)
	} else if text := strings.TrimSpace(string(body)); text != "" && len(text) < 512 {
		e.Message = text
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

func payloadMessage(p models.ErrorPayload) string {
	raw := bytes.TrimSpace(p.Message)
	if len(raw) > 0 {
		var s string
		if json.Unmarshal(raw, &s) == nil && s != "" {
			return s
		}
		var list []string
		if json.Unmarshal(raw, &list) == nil && len(list) > 0 {
			return strings.Join(list, "; ")
		}
	}
	return p.Error
}
