package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/esmeraldas/zoosanitario/internal/credentials"
	"github.com/esmeraldas/zoosanitario/internal/domain/repositories"
	"github.com/esmeraldas/zoosanitario/internal/infrastructure/api"
	kafka "github.com/esmeraldas/zoosanitario/internal/infrastructure/messaging/kafka/repositories/repository"
	"github.com/esmeraldas/zoosanitario/internal/services/certificate"
	"github.com/esmeraldas/zoosanitario/internal/services/events"
	"github.com/esmeraldas/zoosanitario/internal/services/invoice"
	"github.com/esmeraldas/zoosanitario/internal/services/stats"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Wire bundles the gate, repositories, and services for the CLI.
type Wire struct {
	Logger *zap.Logger
	Gate   *credentials.Gate
	Client *api.Client

	Rates        repositories.RateRepository
	Introducers  repositories.IntroducerRepository
	Invoices     repositories.InvoiceRepository
	Certificates repositories.CertificateRepository

	// Queue is nil unless events are enabled.
	Queue  *kafka.KafkaMessageQueue
	Events *events.Publisher

	InvoiceService     *invoice.Service
	CertificateService *certificate.Service
	Stats              *stats.Service
}

// Options tweak NewWire for a single invocation.
type Options struct {
	Verbose bool
	HTTP    *http.Client
	Logger  *zap.Logger
}

// NewLogger builds a production zap logger at level, or debug when
// verbose is set.
func NewLogger(level string, verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg *Config, opts Options) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		var err error
		if logger, err = NewLogger(cfg.Logging.Level, opts.Verbose); err != nil {
			return nil, err
		}
	}

	gate := credentials.NewGate(logger.Named("gate"))
	client, err := api.NewClient(api.ClientParams{
		BaseURL: cfg.API.BaseURL,
		HTTP:    opts.HTTP,
		Gate:    gate,
		Logger:  logger.Named("api"),
		Timeout: cfg.GetAPITimeout(),
	})
	if err != nil {
		return nil, err
	}

	w := &Wire{
		Logger:       logger,
		Gate:         gate,
		Client:       client,
		Rates:        api.NewRates(client),
		Introducers:  api.NewIntroducers(client),
		Invoices:     api.NewInvoices(client),
		Certificates: api.NewCertificates(client),
	}

	// A nil *KafkaMessageQueue must not reach the publisher as a non-nil
	// interface.
	var producer repositories.MessageQueueProducer
	if cfg.EventsEnabled() {
		mq, err := kafka.InitializeKafkaMessageQueue(kafka.KafkaMessageQueueParams{
			Brokers: cfg.Events.Brokers,
			Topic:   cfg.Events.Topic,
			Produce: true,
		})
		if err != nil {
			return nil, fmt.Errorf("events: %w", err)
		}
		w.Queue = mq.(*kafka.KafkaMessageQueue)
		producer = w.Queue
	}
	w.Events = events.NewPublisher(producer, logger.Named("events"))

	w.InvoiceService = invoice.New(w.Rates, w.Introducers, w.Invoices, w.Events, logger.Named("invoice"))
	w.CertificateService = certificate.New(certificate.Params{
		Certificates: w.Certificates,
		Invoices:     w.Invoices,
		Introducers:  w.Introducers,
		Events:       w.Events,
		Logger:       logger.Named("certificate"),
		Validity:     cfg.GetCertificateValidity(),
	})
	w.Stats = stats.New(w.Invoices, w.Certificates, w.Introducers)
	return w, nil
}

// Close flushes pending events and releases the event bus.
func (w *Wire) Close(ctx context.Context) error {
	if w.Queue == nil {
		return nil
	}
	err := w.Queue.Flush(ctx)
	w.Queue.Close()
	return err
}
