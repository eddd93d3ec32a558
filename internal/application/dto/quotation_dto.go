package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuotationItemRequest línea de cotización tal como la envía el cliente.
// Amount no se acepta: el servidor lo recalcula siempre.
type QuotationItemRequest struct {
	ItemDesc  string          `json:"item_desc"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateQuotationRequest entrada para crear una cotización sobre un trabajo.
type CreateQuotationRequest struct {
	JobNo       string                 `json:"job_no"`
	ProjectName string                 `json:"project_name"`
	Currency    string                 `json:"currency"`
	DateIssued  string                 `json:"date_issued"` // YYYY-MM-DD; vacío = hoy
	Items       []QuotationItemRequest `json:"items"`
}

// UpdateQuotationRequest entrada para editar una cotización existente.
// Si (quo_no base, cliente, proyecto) coinciden con lo guardado, la revisión
// sube una décima; si algo difiere, el caso de uso crea una cotización nueva.
type UpdateQuotationRequest struct {
	ProjectName string                 `json:"project_name"`
	Currency    string                 `json:"currency"`
	Status      string                 `json:"status"`
	Items       []QuotationItemRequest `json:"items"`
}

// QuotationItemResponse línea de cotización en respuestas.
type QuotationItemResponse struct {
	Seq       int             `json:"seq"`
	ItemDesc  string          `json:"item_desc"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// QuotationResponse representación HTTP de una cotización.
type QuotationResponse struct {
	ID          string                  `json:"id"`
	QuoNo       string                  `json:"quo_no"`
	JobNo       string                  `json:"job_no"`
	ClientID    string                  `json:"client_id"`
	ProjectName string                  `json:"project_name"`
	DateIssued  time.Time               `json:"date_issued"`
	Status      string                  `json:"status"`
	Currency    string                  `json:"currency"`
	Revision    string                  `json:"revision"` // etiqueta "1.0"
	TotalAmount decimal.Decimal         `json:"total_amount"`
	Items       []QuotationItemResponse `json:"items,omitempty"`
}

// QuotationListResponse listado paginado de cotizaciones.
type QuotationListResponse struct {
	Items []QuotationResponse `json:"items"`
	Count int                 `json:"count"`
}
