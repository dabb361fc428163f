package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/esmeraldas/zoosanitario/internal/infrastructure/api/models"
)

type OracleCredentials = models.OracleCredentials

// SubmitCredentials stores the Oracle service account on the API. It is
// never gated: it is the call that unblocks the gate.
func (c *Client) SubmitCredentials(ctx context.Context, creds OracleCredentials) error {
	if creds.User == "" || creds.Password == "" {
		return errors.New("oracle user and password are required")
	}
	return c.send(ctx, http.MethodPost, "/oracle/credentials", nil, creds, nil)
}

// CredentialsStatus reports whether the API currently holds credentials.
func (c *Client) CredentialsStatus(ctx context.Context) (models.OracleStatus, error) {
	var out models.OracleStatus
	err := c.send(ctx, http.MethodGet, "/oracle/status", nil, nil, &out)
	return out, err
}
