package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/esmeraldas/zoosanitario/internal/app"
	"github.com/esmeraldas/zoosanitario/internal/credentials"
	"github.com/esmeraldas/zoosanitario/internal/testutil/fakeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type run struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, srv *fakeapi.Server, stdin string, args ...string) run {
	t.Helper()
	for _, k := range []string{"ZOO_API_URL", "ZOO_ORACLE_USER", "ZOO_ORACLE_PASSWORD", "ZOO_KAFKA_BROKERS", "ZOO_KAFKA_TOPIC"} {
		t.Setenv(k, "")
	}
	c := &cli{build: func(cfg *app.Config, opts app.Options) (*app.Wire, error) {
		opts.Logger = zap.NewNop()
		return app.NewWire(cfg, opts)
	}}
	root := newRootCmd(c)

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))

	if !hasFlag(args, "--config") {
		args = append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}, args...)
	}
	root.SetArgs(append([]string{"--api", srv.URL}, args...))
	err := root.ExecuteContext(context.Background())
	require.NoError(t, c.teardown())
	return run{stdout: out.String(), stderr: errOut.String(), err: err}
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func seed(srv *fakeapi.Server) (intro, rate string) {
	rate = srv.Seed("rates", fakeapi.Record{"codigo": "BOV-01", "nombre": "Faenamiento bovino", "especie": "BOVINO", "valorUnitario": "12.50", "activo": true})
	intro = srv.Seed("introducers", fakeapi.Record{"cedulaRuc": "0801234567", "tipoPersona": "NATURAL", "nombres": "Rosa", "apellidos": "Quiñónez", "estado": "ACTIVO"})
	return intro, rate
}

func TestRatesList(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	seed(srv)

	r := execute(t, srv, "", "rates", "list")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "BOV-01")
	assert.Contains(t, r.stdout, "12.50")
}

func TestInvoiceLifecycle(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	intro, rate := seed(srv)

	r := execute(t, srv, "", "invoices", "create", "--introducer", intro, "--line", rate+":2")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "25.00")
	m := invoiceNumber.FindStringSubmatch(r.stdout)
	require.Len(t, m, 2)
	id, err := strconv.Atoi(m[1])
	require.NoError(t, err)

	r = execute(t, srv, "", "invoices", "pay", strconv.Itoa(id))
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "pagada")

	r = execute(t, srv, "", "invoices", "list", "--status", "paid")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, m[0])

	r = execute(t, srv, "", "invoices", "pay", strconv.Itoa(id))
	assert.Error(t, r.err)
}

// The fake API numbers invoices after their id.
var invoiceNumber = regexp.MustCompile(`FAC-(\d+)`)

func TestInvoiceCreate_BadLine(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()

	r := execute(t, srv, "", "invoices", "create", "--introducer", "1", "--line", "3x")
	assert.ErrorContains(t, r.err, "RATE:QTY")
}

func TestPromptAnswersCredentialsRound(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	seed(srv)
	srv.RequireCredentials()

	r := execute(t, srv, "svc_zoo\nsecret\n", "introducers", "list")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Rosa Quiñónez")
	assert.Contains(t, r.stderr, "Usuario")
	assert.True(t, srv.Configured())
	assert.Equal(t, 2, srv.Requests("GET", "/introducers"))
}

func TestPromptDismissedCancelsRound(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	srv.RequireCredentials()

	r := execute(t, srv, "\n", "rates", "list")
	require.Error(t, r.err)
	assert.True(t, credentials.IsCancelled(r.err))
	assert.True(t, credentials.IsCredentialsError(r.err))
	assert.Equal(t, 1, srv.Requests("GET", "/rates"))
}

func TestConfiguredCredentialsAnswerWithoutPrompt(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	seed(srv)
	srv.RequireCredentials()

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := app.DefaultConfig()
	cfg.Oracle = app.OracleConfig{User: "svc_zoo", Password: "secret"}
	require.NoError(t, cfg.Save(path))

	r := execute(t, srv, "", "--config", path, "rates", "list")
	require.NoError(t, r.err)
	assert.NotContains(t, r.stderr, "Usuario")
	assert.Contains(t, r.stdout, "BOV-01")
}

func TestCredentialsSetAndStatus(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	path := filepath.Join(t.TempDir(), "config.yaml")

	r := execute(t, srv, "", "--config", path, "credentials", "set", "--user", "svc_zoo", "--password", "secret", "--save")
	require.NoError(t, r.err)

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(saved), "svc_zoo")

	r = execute(t, srv, "", "credentials", "status")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "svc_zoo")
}

func TestStats(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	seed(srv)
	srv.Seed("invoices", fakeapi.Record{"estado": "PAGADA", "total": "40.00"})

	r := execute(t, srv, "", "stats")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "cobrado 40.00")
	assert.Contains(t, r.stdout, "Introductores: 1")
}

func TestEventsTailRequiresBrokers(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()

	r := execute(t, srv, "", "events", "tail")
	assert.ErrorContains(t, r.err, "events are disabled")
}
