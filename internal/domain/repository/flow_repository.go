package repository

import "github.com/jhoicas/Cotizador-api/internal/domain/entity"

// FlowRepository persiste las trazas de ejecución del orquestador.
type FlowRepository interface {
	Create(flow *entity.Flow) error
	ListBySession(sessionID string, limit int) ([]*entity.Flow, error)
}
