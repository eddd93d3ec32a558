package entity

import "time"

// Estados de una ejecución del orquestador.
const (
	FlowStatusSuccess   = "success"
	FlowStatusInterrupt = "interrupt"
	FlowStatusFail      = "fail"
)

// Flow registra una ejecución del orquestador de agentes: qué pidió el usuario,
// qué intenciones detectó el clasificador y cómo terminó. Sirve de traza auditable
// por sesión; no participa en la lógica de negocio.
type Flow struct {
	FlowUUID  string
	SessionID string
	UserInput string
	Intents   []string
	Status    string // success | interrupt | fail
	Result    string // JSON serializado del resultado agregado
	CreatedAt time.Time
}
