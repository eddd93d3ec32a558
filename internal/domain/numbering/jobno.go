package numbering

import (
	"fmt"
	"strings"
	"time"
)

// Prefijos por tipo de trabajo.
const (
	PrefixDesign     = "JCP"
	PrefixInspection = "JICP"
)

// PrefixFor devuelve el prefijo del número de trabajo según el tipo.
// Cualquier valor distinto de DESIGN se trata como INSPECTION.
func PrefixFor(jobType string) string {
	if strings.ToUpper(strings.TrimSpace(jobType)) == "DESIGN" {
		return PrefixDesign
	}
	return PrefixInspection
}

// Period devuelve el periodo "YY-MM" al que pertenece una fecha.
// El contador de índices de trabajo es independiente por periodo.
func Period(t time.Time) string {
	return t.Format("06-01")
}

// FormatJobNo arma el número de trabajo completo.
// El índice lo calcula el repositorio como max(existentes)+1 dentro de la misma
// transacción; aquí solo se formatea.
func FormatJobNo(jobType, companyCode string, t time.Time, index int) string {
	return fmt.Sprintf("%s-%s-%s-%d", PrefixFor(jobType), companyCode, Period(t), index)
}

// QuotationNo deriva el número de cotización del número de trabajo y la revisión.
func QuotationNo(jobNo string, rev Revision) string {
	return fmt.Sprintf("%s-R%s", jobNo, rev.Label())
}

// InvoiceNo deriva el número de factura del número de trabajo.
func InvoiceNo(jobNo string) string {
	return "INV-" + jobNo
}
