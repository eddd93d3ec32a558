package entity

import "time"

// Tipos de trabajo. El tipo decide el prefijo del número de trabajo.
const (
	JobTypeDesign     = "DESIGN"     // prefijo JCP
	JobTypeInspection = "INSPECTION" // prefijo JICP
)

// Estados de un trabajo (la tabla los refuerza con CHECK).
const (
	JobStatusNew        = "NEW"
	JobStatusInProgress = "IN_PROGRESS"
	JobStatusCompleted  = "COMPLETED"
	JobStatusCancelled  = "CANCELLED"
)

// Estado de cotización asociado al trabajo.
const (
	QuotationNotCreated = "NOT_CREATED"
	QuotationCreated    = "CREATED"
)

// Job representa un encargo de diseño o inspección para una empresa cliente.
// JobNo se genera dentro de la transacción de creación; Seq y Period respaldan
// la unicidad del número por empresa, tipo y mes.
type Job struct {
	ID              string
	JobNo           string // ej. JCP-CLC-25-08-3
	Type            string // DESIGN | INSPECTION
	CompanyID       string
	Title           string
	Status          string // NEW | IN_PROGRESS | COMPLETED | CANCELLED
	QuotationStatus string // NOT_CREATED | CREATED
	Seq             int    // índice dentro de (empresa, tipo, periodo)
	Period          string // "YY-MM" del momento de creación
	DateCreated     time.Time
	UpdatedAt       time.Time
}
