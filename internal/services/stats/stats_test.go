package stats_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/esmeraldas/zoosanitario/internal/credentials"
	domain "github.com/esmeraldas/zoosanitario/internal/domain/entities"
	"github.com/esmeraldas/zoosanitario/internal/infrastructure/api"
	"github.com/esmeraldas/zoosanitario/internal/services/stats"
	"github.com/esmeraldas/zoosanitario/internal/testutil/fakeapi"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestPercentage(t *testing.T) {
	assert.Equal(t, "33.33", stats.Percentage(1, 3).StringFixed(2))
	assert.Equal(t, "66.67", stats.Percentage(2, 3).StringFixed(2))
	assert.Equal(t, "100.00", stats.Percentage(4, 4).StringFixed(2))
	assert.True(t, stats.Percentage(3, 0).IsZero())
}

func TestInvoices(t *testing.T) {
	got := stats.Invoices([]domain.Invoice{
		{Status: domain.InvoiceStatusPaid, Total: dec("25.00")},
		{Status: domain.InvoiceStatusPaid, Total: dec("10.50")},
		{Status: domain.InvoiceStatusPending, Total: dec("4.50")},
		{Status: domain.InvoiceStatusCancelled, Total: dec("99")},
	})

	want := stats.InvoiceSummary{
		Total: 4,
		ByStatus: []stats.Bucket{
			{Label: "pending", Count: 1, Percent: dec("25")},
			{Label: "paid", Count: 2, Percent: dec("50")},
			{Label: "cancelled", Count: 1, Percent: dec("25")},
		},
		Billed:    dec("40"),
		Collected: dec("35.5"),
		Pending:   dec("4.5"),
	}
	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Errorf("Invoices() mismatch (-want +got):\n%s", diff)
	}
}

func TestInvoices_Empty(t *testing.T) {
	got := stats.Invoices(nil)
	assert.Zero(t, got.Total)
	for _, b := range got.ByStatus {
		assert.True(t, b.Percent.IsZero(), b.Label)
	}
	assert.True(t, got.Billed.IsZero())
}

func TestCertificates_ExpiredIssuedCounted(t *testing.T) {
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	got := stats.Certificates([]domain.ZoosanitaryCertificate{
		{Species: domain.SpeciesBovine, AnimalCount: 10, Status: domain.CertificateStatusIssued, ValidUntil: now.Add(time.Hour)},
		{Species: domain.SpeciesBovine, AnimalCount: 5, Status: domain.CertificateStatusIssued, ValidUntil: now.Add(-time.Hour)},
		{Species: domain.SpeciesPorcine, AnimalCount: 20, Status: domain.CertificateStatusUsed},
	}, now)

	want := stats.CertificateSummary{
		Total: 3,
		ByStatus: []stats.Bucket{
			{Label: "issued", Count: 1, Percent: dec("33.33")},
			{Label: "used", Count: 1, Percent: dec("33.33")},
			{Label: "expired", Count: 1, Percent: dec("33.33")},
			{Label: "annulled", Count: 0, Percent: decimal.Zero},
		},
		BySpecies: []stats.Bucket{
			{Label: "bovino", Count: 2, Percent: dec("66.67")},
			{Label: "porcino", Count: 1, Percent: dec("33.33")},
		},
		Animals: 35,
	}
	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Errorf("Certificates() mismatch (-want +got):\n%s", diff)
	}
}

func TestIntroducers(t *testing.T) {
	got := stats.Introducers([]domain.Introducer{
		{Active: true, Kind: domain.IntroducerKindNatural},
		{Active: true, Kind: domain.IntroducerKindLegal},
		{Active: false, Kind: domain.IntroducerKindNatural},
	})
	assert.Equal(t, 2, got.Active.Count)
	assert.Equal(t, "66.67", got.Active.Percent.StringFixed(2))
	assert.Equal(t, "33.33", got.Inactive.Percent.StringFixed(2))
	assert.Equal(t, 2, got.ByKind[0].Count)
	assert.Equal(t, 1, got.ByKind[1].Count)
}

func TestService_Dashboard(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	srv.Seed("invoices", fakeapi.Record{"estado": "PAGADA", "total": "12.00"})
	srv.Seed("invoices", fakeapi.Record{"estado": "PENDIENTE", "total": "8.00"})
	srv.Seed("certificates", fakeapi.Record{"estado": "UTILIZADO", "especie": "BOVINO", "cantidadAnimales": 4})
	srv.Seed("introducers", fakeapi.Record{"estado": "ACTIVO", "tipoPersona": "NATURAL"})

	client, err := api.NewClient(api.ClientParams{BaseURL: srv.URL})
	require.NoError(t, err)
	svc := stats.New(api.NewInvoices(client), api.NewCertificates(client), api.NewIntroducers(client))

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, d.Invoices.Total)
	assert.Equal(t, "12.00", d.Invoices.Collected.StringFixed(2))
	assert.EqualValues(t, 4, d.Certificates.Animals)
	assert.Equal(t, 1, d.Introducers.Active.Count)
}

func TestService_DashboardSharesOneCredentialsRound(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	srv.RequireCredentials()

	gate := credentials.NewGate(nil)
	client, err := api.NewClient(api.ClientParams{BaseURL: srv.URL, Gate: gate})
	require.NoError(t, err)
	svc := stats.New(api.NewInvoices(client), api.NewCertificates(client), api.NewIntroducers(client))

	var opened atomic.Int32
	seen, cancel := gate.DialogVisible().Watch()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for v := range seen {
			if v {
				opened.Add(1)
			}
		}
	}()

	done := make(chan error, 1)
	go func() {
		_, err := svc.Dashboard(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool {
		return srv.Requests("GET", "/invoices") == 1 &&
			srv.Requests("GET", "/certificates") == 1 &&
			srv.Requests("GET", "/introducers") == 1
	}, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return opened.Load() == 1 }, time.Second, time.Millisecond)
	// Let every fetch join the round before configuring.
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, client.SubmitCredentials(context.Background(), api.OracleCredentials{User: "zoo", Password: "pw"}))
	require.True(t, gate.Configure())
	require.NoError(t, <-done)

	cancel()
	wg.Wait()
	assert.EqualValues(t, 1, opened.Load())
}
