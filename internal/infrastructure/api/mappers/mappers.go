package mappers

import (
	"strings"
	"time"

	entities "github.com/esmeraldas/zoosanitario/internal/domain/entities"
	"github.com/esmeraldas/zoosanitario/internal/infrastructure/api/models"
)

var (
	invoiceStatusToWire = map[entities.InvoiceStatus]string{
		entities.InvoiceStatusPending:   "PENDIENTE",
		entities.InvoiceStatusPaid:      "PAGADA",
		entities.InvoiceStatusCancelled: "ANULADA",
	}
	certificateStatusToWire = map[entities.CertificateStatus]string{
		entities.CertificateStatusIssued:   "EMITIDO",
		entities.CertificateStatusUsed:     "UTILIZADO",
		entities.CertificateStatusExpired:  "CADUCADO",
		entities.CertificateStatusAnnulled: "ANULADO",
	}
	invoiceStatusFromWire     = invert(invoiceStatusToWire)
	certificateStatusFromWire = invert(certificateStatusToWire)
)

func invert[K ~string](m map[K]string) map[string]K {
	out := make(map[string]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// fromWire maps a wire status, accepting the domain spelling as well.
func fromWire[K ~string](m map[string]K, s string) K {
	if k, ok := m[strings.ToUpper(s)]; ok {
		return k
	}
	return K(strings.ToLower(s))
}

func toWire[K ~string](m map[K]string, k K) string {
	if s, ok := m[k]; ok {
		return s
	}
	return strings.ToUpper(string(k))
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeVal(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func ToRate(entity entities.Rate) models.Rate {
	return models.Rate{
		ID:          entity.ID,
		Code:        string(entity.Code),
		Name:        entity.Name,
		Description: entity.Description,
		Species:     string(entity.Species),
		Unit:        string(entity.Unit),
		UnitPrice:   entity.UnitPrice,
		Active:      entity.Active,
		ValidFrom:   timePtr(entity.ValidFrom),
	}
}

func FromRate(model models.Rate) entities.Rate {
	return entities.Rate{
		ID:          model.ID,
		Code:        entities.RateCode(model.Code),
		Name:        model.Name,
		Description: model.Description,
		Species:     entities.Species(strings.ToLower(model.Species)),
		Unit:        entities.Unit(model.Unit),
		UnitPrice:   model.UnitPrice,
		Active:      model.Active,
		ValidFrom:   timeVal(model.ValidFrom),
	}
}

const (
	introducerActive   = "ACTIVO"
	introducerInactive = "INACTIVO"
)

func ToIntroducer(entity entities.Introducer) models.Introducer {
	status := introducerInactive
	if entity.Active {
		status = introducerActive
	}
	return models.Introducer{
		ID:           entity.ID,
		IDCard:       string(entity.IDCard),
		PersonType:   strings.ToUpper(string(entity.Kind)),
		FirstName:    entity.FirstName,
		LastName:     entity.LastName,
		BusinessName: entity.BusinessName,
		Phone:        entity.Phone,
		Email:        entity.Email,
		Address:      entity.Address,
		Status:       status,
		RegisteredAt: timePtr(entity.RegisteredAt),
	}
}

func FromIntroducer(model models.Introducer) entities.Introducer {
	return entities.Introducer{
		ID:           model.ID,
		IDCard:       entities.IDCard(model.IDCard),
		Kind:         entities.IntroducerKind(strings.ToLower(model.PersonType)),
		FirstName:    model.FirstName,
		LastName:     model.LastName,
		BusinessName: model.BusinessName,
		Phone:        model.Phone,
		Email:        model.Email,
		Address:      model.Address,
		Active:       strings.EqualFold(model.Status, introducerActive),
		RegisteredAt: timeVal(model.RegisteredAt),
	}
}

func ToInvoice(entity entities.Invoice) models.Invoice {
	details := make([]models.InvoiceDetail, 0, len(entity.Lines))
	for _, l := range entity.Lines {
		details = append(details, models.InvoiceDetail{
			RateID:      l.RateID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
	}
	return models.Invoice{
		ID:           entity.ID,
		Number:       entity.Number,
		IntroducerID: entity.IntroducerID,
		Details:      details,
		Total:        entity.Total,
		Status:       toWire(invoiceStatusToWire, entity.Status),
		IssuedAt:     timePtr(entity.IssuedAt),
		PaidAt:       entity.PaidAt,
	}
}

func FromInvoice(model models.Invoice) entities.Invoice {
	lines := make([]entities.InvoiceLine, 0, len(model.Details))
	for _, d := range model.Details {
		lines = append(lines, entities.InvoiceLine{
			RateID:      d.RateID,
			Description: d.Description,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			Subtotal:    d.Subtotal,
		})
	}
	return entities.Invoice{
		ID:           model.ID,
		Number:       model.Number,
		IntroducerID: model.IntroducerID,
		Lines:        lines,
		Total:        model.Total,
		Status:       fromWire(invoiceStatusFromWire, model.Status),
		IssuedAt:     timeVal(model.IssuedAt),
		PaidAt:       model.PaidAt,
	}
}

func ToCertificate(entity entities.ZoosanitaryCertificate) models.Certificate {
	return models.Certificate{
		ID:               entity.ID,
		Number:           entity.Number,
		IntroducerID:     entity.IntroducerID,
		InvoiceID:        entity.InvoiceID,
		Species:          string(entity.Species),
		AnimalCount:      entity.AnimalCount,
		Origin:           entity.Origin,
		Destination:      entity.Destination,
		VehiclePlate:     string(entity.VehiclePlate),
		Status:           toWire(certificateStatusToWire, entity.Status),
		IssuedAt:         timePtr(entity.IssuedAt),
		ValidUntil:       timePtr(entity.ValidUntil),
		VerificationCode: string(entity.VerificationCode),
		AnnulReason:      entity.AnnulReason,
	}
}

func FromCertificate(model models.Certificate) entities.ZoosanitaryCertificate {
	return entities.ZoosanitaryCertificate{
		ID:               model.ID,
		Number:           model.Number,
		IntroducerID:     model.IntroducerID,
		InvoiceID:        model.InvoiceID,
		Species:          entities.Species(strings.ToLower(model.Species)),
		AnimalCount:      model.AnimalCount,
		Origin:           model.Origin,
		Destination:      model.Destination,
		VehiclePlate:     entities.VehiclePlate(model.VehiclePlate),
		Status:           fromWire(certificateStatusFromWire, model.Status),
		IssuedAt:         timeVal(model.IssuedAt),
		ValidUntil:       timeVal(model.ValidUntil),
		VerificationCode: entities.VerificationCode(model.VerificationCode),
		AnnulReason:      model.AnnulReason,
	}
}
