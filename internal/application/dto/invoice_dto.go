package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItemRequest línea facturable directa.
type InvoiceItemRequest struct {
	ItemDesc  string          `json:"item_desc"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateInvoiceRequest entrada para facturar un trabajo.
// Si QuoNo no está vacío y Items viene vacío, las líneas se copian de la cotización.
type CreateInvoiceRequest struct {
	JobNo string               `json:"job_no"`
	QuoNo string               `json:"quo_no"`
	Items []InvoiceItemRequest `json:"items"`
}

// InvoiceResponse representación HTTP de una línea de factura.
type InvoiceResponse struct {
	ID         string          `json:"id"`
	InvoiceNo  string          `json:"invoice_no"`
	ClientID   string          `json:"client_id"`
	JobNo      string          `json:"job_no"`
	QuoNo      string          `json:"quo_no,omitempty"`
	ItemDesc   string          `json:"item_desc"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	DateIssued time.Time       `json:"date_issued"`
}

// InvoiceListResponse listado de líneas de factura con el total agregado.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Total decimal.Decimal   `json:"total"`
	Count int               `json:"count"`
}
