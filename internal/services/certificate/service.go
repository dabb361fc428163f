package certificate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/esmeraldas/zoosanitario/internal/domain/entities"
	"github.com/esmeraldas/zoosanitario/internal/domain/repositories"
	"github.com/esmeraldas/zoosanitario/internal/services/events"
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"
)

// DefaultValidity is how long an issued certificate covers a transport.
const DefaultValidity = 72 * time.Hour

var (
	ErrInvoiceNotPaid     = errors.New("invoice is not paid")
	ErrInvoiceMismatch    = errors.New("invoice belongs to another introducer")
	ErrInactiveIntroducer = errors.New("introducer is not active")
	ErrNoAnimals          = errors.New("animal count must be positive")
	ErrNoDestination      = errors.New("destination is required")
	ErrNotIssued          = errors.New("certificate is not in issued state")
	ErrUnknownCode        = errors.New("unknown verification code")
)

type IssueRequest struct {
	IntroducerID domain.ID
	InvoiceID    domain.ID
	Species      domain.Species
	AnimalCount  int64
	Origin       string
	Destination  string
	VehiclePlate domain.VehiclePlate
}

type Params struct {
	Certificates repositories.CertificateRepository
	Invoices     repositories.InvoiceRepository
	Introducers  repositories.IntroducerRepository
	Events       *events.Publisher
	Logger       *zap.Logger
	Validity     time.Duration
}

type Service struct {
	certificates repositories.CertificateRepository
	invoices     repositories.InvoiceRepository
	introducers  repositories.IntroducerRepository
	events       *events.Publisher
	logger       *zap.Logger
	validity     time.Duration
	now          func() time.Time
}

func New(p Params) *Service {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.Validity <= 0 {
		p.Validity = DefaultValidity
	}
	return &Service{
		certificates: p.Certificates,
		invoices:     p.Invoices,
		introducers:  p.Introducers,
		events:       p.Events,
		logger:       p.Logger,
		validity:     p.Validity,
		now:          time.Now,
	}
}

// NewVerificationCode returns a short, unambiguous code printed on the
// certificate for roadside checks.
func NewVerificationCode() domain.VerificationCode {
	id := uuid.New()
	return domain.VerificationCode(base58.Encode(id[:]))
}

func (s *Service) Issue(ctx context.Context, req IssueRequest) (domain.ZoosanitaryCertificate, error) {
	if req.AnimalCount <= 0 {
		return domain.ZoosanitaryCertificate{}, ErrNoAnimals
	}
	if strings.TrimSpace(req.Destination) == "" {
		return domain.ZoosanitaryCertificate{}, ErrNoDestination
	}

	introducer, err := s.introducers.Get(ctx, req.IntroducerID)
	if err != nil {
		return domain.ZoosanitaryCertificate{}, fmt.Errorf("get introducer %s: %w", req.IntroducerID, err)
	}
	if !introducer.Active {
		return domain.ZoosanitaryCertificate{}, fmt.Errorf("%w: %s", ErrInactiveIntroducer, introducer.DisplayName())
	}

	inv, err := s.invoices.Get(ctx, req.InvoiceID)
	if err != nil {
		return domain.ZoosanitaryCertificate{}, fmt.Errorf("get invoice %s: %w", req.InvoiceID, err)
	}
	if inv.IntroducerID != introducer.ID {
		return domain.ZoosanitaryCertificate{}, fmt.Errorf("%w: %s", ErrInvoiceMismatch, inv.Number)
	}
	if inv.Status != domain.InvoiceStatusPaid {
		return domain.ZoosanitaryCertificate{}, fmt.Errorf("%w: %s is %s", ErrInvoiceNotPaid, inv.Number, inv.Status)
	}

	issuedAt := s.now()
	created, err := s.certificates.Create(ctx, domain.ZoosanitaryCertificate{
		IntroducerID:     introducer.ID,
		InvoiceID:        inv.ID,
		Species:          req.Species,
		AnimalCount:      req.AnimalCount,
		Origin:           req.Origin,
		Destination:      strings.TrimSpace(req.Destination),
		VehiclePlate:     domain.VehiclePlate(strings.ToUpper(string(req.VehiclePlate))),
		Status:           domain.CertificateStatusIssued,
		IssuedAt:         issuedAt,
		ValidUntil:       issuedAt.Add(s.validity),
		VerificationCode: NewVerificationCode(),
	})
	if err != nil {
		return domain.ZoosanitaryCertificate{}, fmt.Errorf("create certificate: %w", err)
	}

	s.logger.Info("certificate issued",
		zap.String("id", created.ID.String()),
		zap.String("number", created.Number),
		zap.Int64("animals", created.AnimalCount))
	s.events.Publish(ctx, domain.EventCertificateIssued, created.ID, map[string]any{
		"number":      created.Number,
		"invoice":     inv.ID.String(),
		"species":     string(created.Species),
		"animals":     created.AnimalCount,
		"destination": created.Destination,
	})
	return created, nil
}

// Annul voids an issued certificate.
func (s *Service) Annul(ctx context.Context, id domain.ID, reason string) (domain.ZoosanitaryCertificate, error) {
	cert, err := s.certificates.Get(ctx, id)
	if err != nil {
		return domain.ZoosanitaryCertificate{}, fmt.Errorf("get certificate %s: %w", id, err)
	}
	if cert.Status != domain.CertificateStatusIssued {
		return cert, fmt.Errorf("%w: %s is %s", ErrNotIssued, cert.Number, cert.Status)
	}

	cert.Status = domain.CertificateStatusAnnulled
	cert.AnnulReason = strings.TrimSpace(reason)
	updated, err := s.certificates.UpdateMapped().UpdateMapped(ctx, cert, &repositories.MappedModel{"Status": nil, "AnnulReason": nil})
	if err != nil {
		return cert, fmt.Errorf("annul certificate %s: %w", id, err)
	}

	s.logger.Info("certificate annulled", zap.String("id", updated.ID.String()), zap.String("reason", updated.AnnulReason))
	s.events.Publish(ctx, domain.EventCertificateAnnulled, updated.ID, map[string]string{
		"number": updated.Number,
		"reason": updated.AnnulReason,
	})
	return updated, nil
}

type Verification struct {
	Certificate domain.ZoosanitaryCertificate
	Status      domain.CertificateStatus
	Valid       bool
}

// Verify looks code up among certificates as of now.
func Verify(code domain.VerificationCode, certificates []domain.ZoosanitaryCertificate, now time.Time) (Verification, error) {
	code = domain.VerificationCode(strings.TrimSpace(string(code)))
	for _, c := range certificates {
		if c.VerificationCode != code || code == "" {
			continue
		}
		status := c.EffectiveStatus(now)
		return Verification{Certificate: c, Status: status, Valid: status == domain.CertificateStatusIssued}, nil
	}
	return Verification{}, fmt.Errorf("%w: %s", ErrUnknownCode, code)
}

// VerifyRemote fetches the certificate list and verifies code against it.
func (s *Service) VerifyRemote(ctx context.Context, code domain.VerificationCode) (Verification, error) {
	list, err := s.certificates.Paginate(ctx, repositories.All)
	if err != nil {
		return Verification{}, fmt.Errorf("list certificates: %w", err)
	}
	return Verify(code, list, s.now())
}
