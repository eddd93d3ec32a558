package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

var _ repository.FlowRepository = (*FlowRepo)(nil)

// FlowRepo persistencia de trazas del orquestador.
type FlowRepo struct {
	q Querier
}

// NewFlowRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFlowRepository(q Querier) *FlowRepo {
	return &FlowRepo{q: q}
}

// Create registra una ejecución del orquestador.
func (r *FlowRepo) Create(flow *entity.Flow) error {
	query := `
		INSERT INTO flows (flow_uuid, session_id, user_input, intents, status, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		flow.FlowUUID, flow.SessionID, flow.UserInput, flow.Intents,
		flow.Status, nullIfEmpty(flow.Result), flow.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert flow: %w", err)
	}
	return nil
}

// ListBySession devuelve las últimas ejecuciones de una sesión.
func (r *FlowRepo) ListBySession(sessionID string, limit int) ([]*entity.Flow, error) {
	const query = `
		SELECT flow_uuid, session_id, user_input, intents, status, COALESCE(result,''), created_at
		FROM flows WHERE session_id = $1
		ORDER BY created_at DESC LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list flows: %w", err)
	}
	defer rows.Close()

	var list []*entity.Flow
	for rows.Next() {
		var f entity.Flow
		if err := rows.Scan(&f.FlowUUID, &f.SessionID, &f.UserInput, &f.Intents,
			&f.Status, &f.Result, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan flow: %w", err)
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}
