package stats

import (
	"context"
	"fmt"
	"time"

	domain "github.com/esmeraldas/zoosanitario/internal/domain/entities"
	"github.com/esmeraldas/zoosanitario/internal/domain/repositories"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var hundred = decimal.NewFromInt(100)

// Percentage returns part/total as a percentage rounded to two decimals,
// or zero for an empty total.
func Percentage(part, total int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(total))).Round(2)
}

// Bucket is one row of a breakdown.
type Bucket struct {
	Label   string
	Count   int
	Percent decimal.Decimal
}

func breakdown(labels []string, counts map[string]int, total int) []Bucket {
	out := make([]Bucket, 0, len(labels))
	for _, l := range labels {
		out = append(out, Bucket{Label: l, Count: counts[l], Percent: Percentage(counts[l], total)})
	}
	return out
}

type InvoiceSummary struct {
	Total     int
	ByStatus  []Bucket
	Billed    decimal.Decimal
	Collected decimal.Decimal
	Pending   decimal.Decimal
}

// Invoices summarises a list of invoices. Cancelled invoices are counted
// but not billed.
func Invoices(list []domain.Invoice) InvoiceSummary {
	s := InvoiceSummary{Total: len(list), Billed: decimal.Zero, Collected: decimal.Zero, Pending: decimal.Zero}
	counts := map[string]int{}
	for _, inv := range list {
		counts[string(inv.Status)]++
		switch inv.Status {
		case domain.InvoiceStatusPaid:
			s.Billed = s.Billed.Add(inv.Total)
			s.Collected = s.Collected.Add(inv.Total)
		case domain.InvoiceStatusPending:
			s.Billed = s.Billed.Add(inv.Total)
			s.Pending = s.Pending.Add(inv.Total)
		}
	}
	labels := make([]string, 0, len(domain.InvoiceStatuses))
	for _, st := range domain.InvoiceStatuses {
		labels = append(labels, string(st))
	}
	s.ByStatus = breakdown(labels, counts, s.Total)
	return s
}

type CertificateSummary struct {
	Total     int
	ByStatus  []Bucket
	BySpecies []Bucket
	Animals   int64
}

// Certificates summarises certificates as of now, counting issued
// certificates past their validity as expired.
func Certificates(list []domain.ZoosanitaryCertificate, now time.Time) CertificateSummary {
	s := CertificateSummary{Total: len(list)}
	byStatus := map[string]int{}
	bySpecies := map[string]int{}
	var species []string
	for _, c := range list {
		byStatus[string(c.EffectiveStatus(now))]++
		sp := string(c.Species)
		if _, seen := bySpecies[sp]; !seen {
			species = append(species, sp)
		}
		bySpecies[sp]++
		s.Animals += c.AnimalCount
	}
	labels := make([]string, 0, len(domain.CertificateStatuses))
	for _, st := range domain.CertificateStatuses {
		labels = append(labels, string(st))
	}
	s.ByStatus = breakdown(labels, byStatus, s.Total)
	s.BySpecies = breakdown(species, bySpecies, s.Total)
	return s
}

type IntroducerSummary struct {
	Total    int
	Active   Bucket
	Inactive Bucket
	ByKind   []Bucket
}

func Introducers(list []domain.Introducer) IntroducerSummary {
	s := IntroducerSummary{Total: len(list)}
	active := 0
	byKind := map[string]int{}
	for _, i := range list {
		if i.Active {
			active++
		}
		byKind[string(i.Kind)]++
	}
	s.Active = Bucket{Label: "active", Count: active, Percent: Percentage(active, s.Total)}
	s.Inactive = Bucket{Label: "inactive", Count: s.Total - active, Percent: Percentage(s.Total-active, s.Total)}
	s.ByKind = breakdown([]string{string(domain.IntroducerKindNatural), string(domain.IntroducerKindLegal)}, byKind, s.Total)
	return s
}

type Dashboard struct {
	Invoices     InvoiceSummary
	Certificates CertificateSummary
	Introducers  IntroducerSummary
	GeneratedAt  time.Time
}

type Service struct {
	invoices     repositories.InvoiceRepository
	certificates repositories.CertificateRepository
	introducers  repositories.IntroducerRepository
	now          func() time.Time
}

func New(invoices repositories.InvoiceRepository, certificates repositories.CertificateRepository, introducers repositories.IntroducerRepository) *Service {
	return &Service{invoices: invoices, certificates: certificates, introducers: introducers, now: time.Now}
}

// Dashboard fetches the three collections concurrently and summarises
// them. The first failure cancels the other fetches.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var (
		invoices     []domain.Invoice
		certificates []domain.ZoosanitaryCertificate
		introducers  []domain.Introducer
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		invoices, err = s.invoices.Paginate(ctx, repositories.All)
		if err != nil {
			err = fmt.Errorf("list invoices: %w", err)
		}
		return err
	})
	g.Go(func() (err error) {
		certificates, err = s.certificates.Paginate(ctx, repositories.All)
		if err != nil {
			err = fmt.Errorf("list certificates: %w", err)
		}
		return err
	})
	g.Go(func() (err error) {
		introducers, err = s.introducers.Paginate(ctx, repositories.All)
		if err != nil {
			err = fmt.Errorf("list introducers: %w", err)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	now := s.now()
	return Dashboard{
		Invoices:     Invoices(invoices),
		Certificates: Certificates(certificates, now),
		Introducers:  Introducers(introducers),
		GeneratedAt:  now,
	}, nil
}
