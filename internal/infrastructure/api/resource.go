package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	domain "github.com/esmeraldas/zoosanitario/internal/domain/entities"
	"github.com/esmeraldas/zoosanitario/internal/domain/repositories"
	"github.com/esmeraldas/zoosanitario/internal/infrastructure/api/mappers"
	"github.com/esmeraldas/zoosanitario/internal/infrastructure/api/models"
	shared "github.com/esmeraldas/zoosanitario/pkg/shared/domain/entities"
	json "github.com/goccy/go-json"
)

var ErrMissingID = errors.New("entity has no id")

// Resource exposes one REST collection as a repositories.CRUD. T is the
// domain entity and M its wire model.
type Resource[T shared.Entity, M any] struct {
	client    *Client
	path      string
	toModel   func(T) M
	fromModel func(M) T
	// fields maps domain field names accepted by UpdateMapped to wire names.
	fields map[string]string
}

func NewResource[T shared.Entity, M any](c *Client, path string, to func(T) M, from func(M) T, fields map[string]string) *Resource[T, M] {
	return &Resource[T, M]{client: c, path: path, toModel: to, fromModel: from, fields: fields}
}

func NewRates(c *Client) *Resource[domain.Rate, models.Rate] {
	return NewResource(c, "/rates", mappers.ToRate, mappers.FromRate, map[string]string{
		"Name":      "nombre",
		"UnitPrice": "valorUnitario",
		"Active":    "activo",
	})
}

func NewIntroducers(c *Client) *Resource[domain.Introducer, models.Introducer] {
	return NewResource(c, "/introducers", mappers.ToIntroducer, mappers.FromIntroducer, map[string]string{
		"Phone":   "telefono",
		"Email":   "email",
		"Address": "direccion",
		"Active":  "estado",
	})
}

func NewInvoices(c *Client) *Resource[domain.Invoice, models.Invoice] {
	return NewResource(c, "/invoices", mappers.ToInvoice, mappers.FromInvoice, map[string]string{
		"Status": "estado",
		"PaidAt": "fechaPago",
	})
}

func NewCertificates(c *Client) *Resource[domain.ZoosanitaryCertificate, models.Certificate] {
	return NewResource(c, "/certificates", mappers.ToCertificate, mappers.FromCertificate, map[string]string{
		"Status":      "estado",
		"AnnulReason": "motivoAnulacion",
		"ValidUntil":  "fechaValidez",
	})
}

func (r *Resource[T, M]) itemPath(id shared.ID) string {
	return r.path + "/" + url.PathEscape(id.String())
}

func (r *Resource[T, M]) Create(ctx context.Context, entity T) (T, error) {
	var out M
	if err := r.client.do(ctx, http.MethodPost, r.path, nil, r.toModel(entity), &out); err != nil {
		var zero T
		return zero, err
	}
	return r.fromModel(out), nil
}

func (r *Resource[T, M]) Get(ctx context.Context, id shared.ID) (T, error) {
	var out M
	if id.IsZero() {
		var zero T
		return zero, ErrMissingID
	}
	if err := r.client.do(ctx, http.MethodGet, r.itemPath(id), nil, nil, &out); err != nil {
		var zero T
		return zero, err
	}
	return r.fromModel(out), nil
}

func (r *Resource[T, M]) Update(ctx context.Context, entity T) (T, error) {
	var out M
	if entity.Key().IsZero() {
		return entity, ErrMissingID
	}
	if err := r.client.do(ctx, http.MethodPut, r.itemPath(entity.Key()), nil, r.toModel(entity), &out); err != nil {
		return entity, err
	}
	return r.fromModel(out), nil
}

func (r *Resource[T, M]) Delete(ctx context.Context, entity T) error {
	if entity.Key().IsZero() {
		return ErrMissingID
	}
	return r.client.do(ctx, http.MethodDelete, r.itemPath(entity.Key()), nil, nil, nil)
}

// Paginate lists the collection. A zero limit fetches every record.
func (r *Resource[T, M]) Paginate(ctx context.Context, page repositories.Pagination) ([]T, error) {
	query := url.Values{}
	if page != nil && page.Limit() > 0 {
		query.Set("limit", strconv.FormatInt(page.Limit(), 10))
		query.Set("offset", strconv.FormatInt(page.Offset(), 10))
	}

	raw, err := r.client.getRaw(ctx, r.path, query)
	if err != nil {
		return nil, err
	}
	items, err := decodeList[M](raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}

	out := make([]T, 0, len(items))
	for _, m := range items {
		out = append(out, r.fromModel(m))
	}
	return out, nil
}

func (r *Resource[T, M]) UpdateMapped() repositories.UpdateMapped[T] {
	return patcher[T, M]{r}
}

func decodeList[M any](raw []byte) ([]M, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	if raw[0] == '[' {
		var items []M
		return items, json.Unmarshal(raw, &items)
	}
	var env models.ListEnvelope[M]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

type patcher[T shared.Entity, M any] struct{ r *Resource[T, M] }

// UpdateMapped sends a PATCH with the fields named in model. A nil value
// takes the field from entity; any other value is sent as is.
func (p patcher[T, M]) UpdateMapped(ctx context.Context, entity T, model *repositories.MappedModel) (T, error) {
	if entity.Key().IsZero() {
		return entity, ErrMissingID
	}
	if model == nil || len(*model) == 0 {
		return entity, errors.New("no fields to update")
	}

	encoded, err := json.Marshal(p.r.toModel(entity))
	if err != nil {
		return entity, err
	}
	var wire map[string]any
	if err := json.Unmarshal(encoded, &wire); err != nil {
		return entity, err
	}

	body := make(map[string]any, len(*model))
	for field, value := range *model {
		name, ok := p.r.fields[field]
		if !ok {
			return entity, fmt.Errorf("field %q cannot be patched on %s", field, p.r.path)
		}
		if value == nil {
			value = wire[name]
		}
		body[name] = value
	}

	var out M
	if err := p.r.client.do(ctx, http.MethodPatch, p.r.itemPath(entity.Key()), nil, body, &out); err != nil {
		return entity, err
	}
	return p.r.fromModel(out), nil
}

var (
	_ repositories.RateRepository        = (*Resource[domain.Rate, models.Rate])(nil)
	_ repositories.IntroducerRepository  = (*Resource[domain.Introducer, models.Introducer])(nil)
	_ repositories.InvoiceRepository     = (*Resource[domain.Invoice, models.Invoice])(nil)
	_ repositories.CertificateRepository = (*Resource[domain.ZoosanitaryCertificate, models.Certificate])(nil)
)
