// Package notify turns operation outcomes into short user-facing
// notifications.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/esmeraldas/zoosanitario/internal/credentials"
	"github.com/esmeraldas/zoosanitario/internal/infrastructure/api"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
	SeverityInfo    Severity = "info"
)

type Notification struct {
	Severity Severity
	Summary  string
	Detail   string
}

func (n Notification) String() string {
	if n.Detail == "" {
		return fmt.Sprintf("[%s] %s", n.Severity, n.Summary)
	}
	return fmt.Sprintf("[%s] %s: %s", n.Severity, n.Summary, n.Detail)
}

func Success(detail string) Notification {
	return Notification{Severity: SeveritySuccess, Summary: "Éxito", Detail: detail}
}

// FromError classifies err. Errors without an HTTP status are treated as
// transport failures.
func FromError(err error) Notification {
	if err == nil {
		return Success("")
	}

	var apiErr *api.Error
	hasStatus := errors.As(err, &apiErr)

	switch {
	case credentials.IsCancelled(err):
		return Notification{Severity: SeverityWarning, Summary: "Credenciales no configuradas", Detail: message(apiErr, err)}
	case credentials.IsCredentialsError(err):
		return Notification{Severity: SeverityWarning, Summary: "Credenciales requeridas", Detail: message(apiErr, err)}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Notification{Severity: SeverityDanger, Summary: "Operación interrumpida", Detail: err.Error()}
	case !hasStatus:
		return Notification{Severity: SeverityDanger, Summary: "Error", Detail: err.Error()}
	case apiErr.Status == http.StatusNotFound:
		return Notification{Severity: SeverityInfo, Summary: "No encontrado", Detail: apiErr.Message}
	case apiErr.Status >= 400 && apiErr.Status < 500:
		return Notification{Severity: SeverityWarning, Summary: "Advertencia", Detail: apiErr.Message}
	default:
		return Notification{Severity: SeverityDanger, Summary: "Error del servidor", Detail: apiErr.Message}
	}
}

func message(apiErr *api.Error, err error) string {
	if apiErr != nil && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
