package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura.
const (
	InvoiceStatusDraft     = "DRAFT"
	InvoiceStatusSent      = "SENT"
	InvoiceStatusPaid      = "PAID"
	InvoiceStatusOverdue   = "OVERDUE"
	InvoiceStatusCancelled = "CANCELLED"
)

// Invoice es una línea facturable. Cada fila referencia al cliente, al trabajo y a
// la cotización de origen, pero su ciclo de vida es independiente del de la cotización.
type Invoice struct {
	ID         string
	InvoiceNo  string // INV-{job_no}
	ClientID   string
	JobNo      string
	QuoNo      string
	ItemDesc   string
	Quantity   decimal.Decimal
	Unit       string
	UnitPrice  decimal.Decimal
	Amount     decimal.Decimal
	Status     string
	DateIssued time.Time
	CreatedAt  time.Time
}
