package entity

import "time"

// QuotationDraft es una cotización generada por chat y guardada por el usuario
// antes de confirmarla como registro definitivo. El payload completo se conserva
// como JSON tal cual lo editó el usuario; los campos sueltos existen solo para
// búsqueda por subcadena.
type QuotationDraft struct {
	ID          string
	QuoNo       string
	ClientName  string
	ProjectName string
	Payload     string // JSON de la cotización editable
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
