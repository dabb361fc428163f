package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/esmeraldas/zoosanitario/internal/domain/entities"
	"github.com/esmeraldas/zoosanitario/internal/domain/repositories"
	"github.com/esmeraldas/zoosanitario/internal/services/events"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrNoLines            = errors.New("invoice needs at least one line")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrUnknownRate        = errors.New("unknown rate")
	ErrInactiveRate       = errors.New("rate is not active")
	ErrInactiveIntroducer = errors.New("introducer is not active")
	ErrNotPending         = errors.New("invoice is not pending")
)

// Line requests Quantity units of the rate with RateID.
type Line struct {
	RateID   domain.ID
	Quantity int64
}

type Service struct {
	rates       repositories.RateRepository
	introducers repositories.IntroducerRepository
	invoices    repositories.InvoiceRepository
	events      *events.Publisher
	logger      *zap.Logger
	now         func() time.Time
}

func New(
	rates repositories.RateRepository,
	introducers repositories.IntroducerRepository,
	invoices repositories.InvoiceRepository,
	publisher *events.Publisher,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		rates:       rates,
		introducers: introducers,
		invoices:    invoices,
		events:      publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// Quote prices lines against rates. Subtotals and the total are rounded
// to cents.
func Quote(rates []domain.Rate, lines []Line) ([]domain.InvoiceLine, domain.Amount, error) {
	if len(lines) == 0 {
		return nil, decimal.Zero, ErrNoLines
	}
	byID := make(map[domain.ID]domain.Rate, len(rates))
	for _, r := range rates {
		byID[r.ID] = r
	}

	out := make([]domain.InvoiceLine, 0, len(lines))
	total := decimal.Zero
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, decimal.Zero, fmt.Errorf("%w: rate %s", ErrInvalidQuantity, l.RateID)
		}
		rate, ok := byID[l.RateID]
		if !ok {
			return nil, decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownRate, l.RateID)
		}
		if !rate.Active {
			return nil, decimal.Zero, fmt.Errorf("%w: %s", ErrInactiveRate, rate.Code)
		}
		subtotal := rate.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)).Round(2)
		total = total.Add(subtotal)
		out = append(out, domain.InvoiceLine{
			RateID:      rate.ID,
			Description: rate.Name,
			Quantity:    l.Quantity,
			UnitPrice:   rate.UnitPrice,
			Subtotal:    subtotal,
		})
	}
	return out, total.Round(2), nil
}

// Create bills an active introducer for lines and stores the invoice as
// pending.
func (s *Service) Create(ctx context.Context, introducerID domain.ID, lines []Line) (domain.Invoice, error) {
	introducer, err := s.introducers.Get(ctx, introducerID)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("get introducer %s: %w", introducerID, err)
	}
	if !introducer.Active {
		return domain.Invoice{}, fmt.Errorf("%w: %s", ErrInactiveIntroducer, introducer.DisplayName())
	}

	rates, err := s.rates.Paginate(ctx, repositories.All)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("list rates: %w", err)
	}
	priced, total, err := Quote(rates, lines)
	if err != nil {
		return domain.Invoice{}, err
	}

	created, err := s.invoices.Create(ctx, domain.Invoice{
		IntroducerID: introducer.ID,
		Lines:        priced,
		Total:        total,
		Status:       domain.InvoiceStatusPending,
		IssuedAt:     s.now(),
	})
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("create invoice: %w", err)
	}

	s.logger.Info("invoice created",
		zap.String("id", created.ID.String()),
		zap.String("number", created.Number),
		zap.String("total", created.Total.StringFixed(2)))
	s.events.Publish(ctx, domain.EventInvoiceCreated, created.ID, map[string]string{
		"number":     created.Number,
		"introducer": introducer.ID.String(),
		"total":      created.Total.StringFixed(2),
	})
	return created, nil
}

// MarkPaid moves a pending invoice to paid.
func (s *Service) MarkPaid(ctx context.Context, id domain.ID) (domain.Invoice, error) {
	inv, err := s.invoices.Get(ctx, id)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("get invoice %s: %w", id, err)
	}
	if inv.Status != domain.InvoiceStatusPending {
		return inv, fmt.Errorf("%w: %s is %s", ErrNotPending, inv.Number, inv.Status)
	}

	paidAt := s.now()
	inv.Status = domain.InvoiceStatusPaid
	inv.PaidAt = &paidAt
	updated, err := s.invoices.UpdateMapped().UpdateMapped(ctx, inv, &repositories.MappedModel{"Status": nil, "PaidAt": nil})
	if err != nil {
		return inv, fmt.Errorf("mark invoice %s paid: %w", id, err)
	}

	s.logger.Info("invoice paid", zap.String("id", updated.ID.String()), zap.String("number", updated.Number))
	s.events.Publish(ctx, domain.EventInvoicePaid, updated.ID, map[string]string{
		"number": updated.Number,
		"total":  updated.Total.StringFixed(2),
	})
	return updated, nil
}
