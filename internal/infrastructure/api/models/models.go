package models

import (
	"time"

	"github.com/esmeraldas/zoosanitario/pkg/shared/domain/entities"
	"github.com/shopspring/decimal"
)

// Wire representations use the field names of the municipal API.

type Rate struct {
	ID          entities.ID     `json:"id,omitempty"`
	Code        string          `json:"codigo"`
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion,omitempty"`
	Species     string          `json:"especie"`
	Unit        string          `json:"unidad"`
	UnitPrice   decimal.Decimal `json:"valorUnitario"`
	Active      bool            `json:"activo"`
	ValidFrom   *time.Time      `json:"vigenciaDesde,omitempty"`
}

type Introducer struct {
	ID           entities.ID `json:"id,omitempty"`
	IDCard       string      `json:"cedulaRuc"`
	PersonType   string      `json:"tipoPersona"`
	FirstName    string      `json:"nombres"`
	LastName     string      `json:"apellidos,omitempty"`
	BusinessName string      `json:"razonSocial,omitempty"`
	Phone        string      `json:"telefono,omitempty"`
	Email        string      `json:"email,omitempty"`
	Address      string      `json:"direccion,omitempty"`
	Status       string      `json:"estado"`
	RegisteredAt *time.Time  `json:"fechaRegistro,omitempty"`
}

type InvoiceDetail struct {
	RateID      entities.ID     `json:"tarifaId"`
	Description string          `json:"descripcion,omitempty"`
	Quantity    int64           `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"valorUnitario"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type Invoice struct {
	ID           entities.ID     `json:"id,omitempty"`
	Number       string          `json:"numeroFactura,omitempty"`
	IntroducerID entities.ID     `json:"introductorId"`
	Details      []InvoiceDetail `json:"detalles"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"estado"`
	IssuedAt     *time.Time      `json:"fechaEmision,omitempty"`
	PaidAt       *time.Time      `json:"fechaPago,omitempty"`
}

type Certificate struct {
	ID               entities.ID `json:"id,omitempty"`
	Number           string      `json:"numeroCertificado,omitempty"`
	IntroducerID     entities.ID `json:"introductorId"`
	InvoiceID        entities.ID `json:"facturaId"`
	Species          string      `json:"especie"`
	AnimalCount      int64       `json:"cantidadAnimales"`
	Origin           string      `json:"origen,omitempty"`
	Destination      string      `json:"destino"`
	VehiclePlate     string      `json:"placaVehiculo,omitempty"`
	Status           string      `json:"estado"`
	IssuedAt         *time.Time  `json:"fechaEmision,omitempty"`
	ValidUntil       *time.Time  `json:"fechaValidez,omitempty"`
	VerificationCode string      `json:"codigoVerificacion,omitempty"`
	AnnulReason      string      `json:"motivoAnulacion,omitempty"`
}
