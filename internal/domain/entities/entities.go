package entities

import (
	"time"

	"github.com/esmeraldas/zoosanitario/pkg/shared/domain/entities"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

type (
	ID     = entities.ID
	Amount = decimal.Decimal
)

type (
	RateCode string
	Species  string
	Unit     string
)

const (
	SpeciesBovine  Species = "bovino"
	SpeciesPorcine Species = "porcino"
	SpeciesOvine   Species = "ovino"
	SpeciesCaprine Species = "caprino"
	SpeciesPoultry Species = "aves"
)

type Rate struct {
	ID          ID
	Code        RateCode
	Name        string
	Description string
	Species     Species
	Unit        Unit
	UnitPrice   Amount
	Active      bool
	ValidFrom   time.Time
}

func (r Rate) Key() ID { return r.ID }

type (
	IDCard         string
	IntroducerKind string
)

const (
	IntroducerKindNatural IntroducerKind = "natural"
	IntroducerKindLegal   IntroducerKind = "juridica"
)

type Introducer struct {
	ID           ID
	IDCard       IDCard
	Kind         IntroducerKind
	FirstName    string
	LastName     string
	BusinessName string
	Phone        string
	Email        string
	Address      string
	Active       bool
	RegisteredAt time.Time
}

func (i Introducer) Key() ID { return i.ID }

// DisplayName prefers the business name for legal persons.
func (i Introducer) DisplayName() string {
	if i.BusinessName != "" {
		return i.BusinessName
	}
	if i.LastName == "" {
		return i.FirstName
	}
	return i.FirstName + " " + i.LastName
}

type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// InvoiceStatuses lists statuses in display order.
var InvoiceStatuses = []InvoiceStatus{InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusCancelled}

type InvoiceLine struct {
	RateID      ID
	Description string
	Quantity    int64
	UnitPrice   Amount
	Subtotal    Amount
}

type Invoice struct {
	ID           ID
	Number       string
	IntroducerID ID
	Lines        []InvoiceLine
	Total        Amount
	Status       InvoiceStatus
	IssuedAt     time.Time
	PaidAt       *time.Time
}

func (i Invoice) Key() ID { return i.ID }

type (
	CertificateStatus string
	VerificationCode  string
	VehiclePlate      string
)

const (
	CertificateStatusIssued   CertificateStatus = "issued"
	CertificateStatusUsed     CertificateStatus = "used"
	CertificateStatusExpired  CertificateStatus = "expired"
	CertificateStatusAnnulled CertificateStatus = "annulled"
)

var CertificateStatuses = []CertificateStatus{
	CertificateStatusIssued,
	CertificateStatusUsed,
	CertificateStatusExpired,
	CertificateStatusAnnulled,
}

type ZoosanitaryCertificate struct {
	ID               ID
	Number           string
	IntroducerID     ID
	InvoiceID        ID
	Species          Species
	AnimalCount      int64
	Origin           string
	Destination      string
	VehiclePlate     VehiclePlate
	Status           CertificateStatus
	IssuedAt         time.Time
	ValidUntil       time.Time
	VerificationCode VerificationCode
	AnnulReason      string
}

func (c ZoosanitaryCertificate) Key() ID { return c.ID }

// EffectiveStatus reports issued certificates past their validity as expired.
func (c ZoosanitaryCertificate) EffectiveStatus(now time.Time) CertificateStatus {
	if c.Status == CertificateStatusIssued && !c.ValidUntil.IsZero() && now.After(c.ValidUntil) {
		return CertificateStatusExpired
	}
	return c.Status
}

type EventType string

const (
	EventInvoiceCreated      EventType = "invoice.created"
	EventInvoicePaid         EventType = "invoice.paid"
	EventCertificateIssued   EventType = "certificate.issued"
	EventCertificateAnnulled EventType = "certificate.annulled"
)

type Event struct {
	Type       EventType       `json:"type"`
	Subject    ID              `json:"subject"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

func (e Event) Key() ID { return e.Subject }

// NewEvent serializes payload into a new event for subject.
func NewEvent(kind EventType, subject ID, payload any, at time.Time) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: kind, Subject: subject, OccurredAt: at.UTC(), Payload: raw}, nil
}

var (
	_ entities.Entity = Rate{}
	_ entities.Entity = Introducer{}
	_ entities.Entity = Invoice{}
	_ entities.Entity = ZoosanitaryCertificate{}
	_ entities.Entity = Event{}
)
