package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una cotización.
const (
	QuoStatusDrafted  = "DRAFTED"
	QuoStatusSent     = "SENT"
	QuoStatusAccepted = "ACCEPTED"
	QuoStatusRejected = "REJECTED"
	QuoStatusExpired  = "EXPIRED"
)

// Unidades permitidas para líneas de cotización y factura (CHECK en la tabla).
const (
	UnitLot   = "Lot"
	UnitDay   = "day"
	UnitHour  = "hour"
	UnitPiece = "piece"
	UnitSet   = "set"
	UnitSqm   = "sqm"
	UnitLm    = "lm"
)

// ValidUnit indica si la unidad pertenece al catálogo permitido.
func ValidUnit(u string) bool {
	switch u {
	case UnitLot, UnitDay, UnitHour, UnitPiece, UnitSet, UnitSqm, UnitLm:
		return true
	}
	return false
}

// Quotation representa la cabecera de una cotización.
// Revision se guarda en décimas enteras (10 = "1.0", 11 = "1.1"); el formato con
// un decimal solo existe en la etiqueta y en QuoNo.
type Quotation struct {
	ID          string
	QuoNo       string // {job_no}-R{revision}, ej. JCP-CLC-25-08-3-R1.0
	JobNo       string
	ClientID    string
	ProjectName string
	DateIssued  time.Time
	Status      string // DRAFTED | SENT | ACCEPTED | REJECTED | EXPIRED
	Currency    string // MOP, HKD, USD...
	Revision    int    // décimas: 10 = 1.0
	TotalAmount decimal.Decimal
	Items       []QuotationItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// QuotationItem es una línea de cotización. Amount siempre se recalcula en el
// servidor como Quantity × UnitPrice; nunca se persiste un valor del cliente.
type QuotationItem struct {
	ID          string
	QuotationID string
	Seq         int
	ItemDesc    string
	Quantity    decimal.Decimal // > 0
	Unit        string          // ver constantes Unit*
	UnitPrice   decimal.Decimal // >= 0
	Amount      decimal.Decimal
}

// ComputeAmount recalcula Amount a partir de Quantity y UnitPrice (2 decimales).
func (it *QuotationItem) ComputeAmount() {
	it.Amount = it.Quantity.Mul(it.UnitPrice).Round(2)
}

// ComputeTotal recalcula el importe de cada línea y devuelve la suma (2 decimales).
// Es la única fuente del total: el valor enviado por el cliente se ignora.
func (q *Quotation) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range q.Items {
		q.Items[i].ComputeAmount()
		total = total.Add(q.Items[i].Amount)
	}
	q.TotalAmount = total.Round(2)
	return q.TotalAmount
}
