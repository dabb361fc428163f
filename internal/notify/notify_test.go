package notify_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/esmeraldas/zoosanitario/internal/credentials"
	"github.com/esmeraldas/zoosanitario/internal/infrastructure/api"
	"github.com/esmeraldas/zoosanitario/internal/notify"
	"github.com/stretchr/testify/assert"
)

func TestFromError(t *testing.T) {
	needsCreds := &api.Error{Method: "GET", Path: "/invoices", Status: 401, Message: "Credenciales de Oracle no configuradas"}

	tests := map[string]struct {
		err      error
		severity notify.Severity
		detail   string
	}{
		"credentials": {fmt.Errorf("list: %w", needsCreds), notify.SeverityWarning, "Credenciales de Oracle no configuradas"},
		"cancelled":   {errors.Join(credentials.ErrCancelled, needsCreds), notify.SeverityWarning, "Credenciales de Oracle no configuradas"},
		"not found":   {&api.Error{Status: 404, Message: "Registro no encontrado"}, notify.SeverityInfo, "Registro no encontrado"},
		"bad request": {&api.Error{Status: 400, Message: "cantidad inválida"}, notify.SeverityWarning, "cantidad inválida"},
		"server":      {&api.Error{Status: 502, Message: "Bad Gateway"}, notify.SeverityDanger, "Bad Gateway"},
		"transport":   {errors.New("dial tcp: connection refused"), notify.SeverityDanger, "dial tcp: connection refused"},
		"deadline":    {context.DeadlineExceeded, notify.SeverityDanger, context.DeadlineExceeded.Error()},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			n := notify.FromError(tt.err)
			assert.Equal(t, tt.severity, n.Severity)
			assert.Equal(t, tt.detail, n.Detail)
			assert.NotEmpty(t, n.Summary)
		})
	}
}

func TestNotification_String(t *testing.T) {
	assert.Equal(t, "[success] Éxito: factura FAC-000001 creada", notify.Success("factura FAC-000001 creada").String())
	assert.Equal(t, "[success] Éxito", notify.FromError(nil).String())
}
