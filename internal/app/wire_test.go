package app

import (
	"context"
	"testing"

	"github.com/esmeraldas/zoosanitario/internal/testutil/fakeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWire(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	srv.Seed("rates", fakeapi.Record{"codigo": "BOV-01", "nombre": "Faenamiento bovino", "valorUnitario": "12.50", "activo": true})

	cfg := DefaultConfig()
	cfg.API.BaseURL = srv.URL
	w, err := NewWire(cfg, Options{Logger: zap.NewNop()})
	require.NoError(t, err)
	assert.Nil(t, w.Queue)
	assert.Same(t, w.Gate, w.Client.Gate())

	rates, err := w.Rates.Paginate(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, "Faenamiento bovino", rates[0].Name)

	assert.NoError(t, w.Close(context.Background()))
}

func TestNewWire_WithEvents(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Events.Brokers = []string{"127.0.0.1:1"}
	w, err := NewWire(cfg, Options{Logger: zap.NewNop()})
	require.NoError(t, err)
	require.NotNil(t, w.Queue)
	assert.NoError(t, w.Close(context.Background()))
}

func TestNewWire_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.BaseURL = ""
	_, err := NewWire(cfg, Options{Logger: zap.NewNop()})
	assert.Error(t, err)
}
