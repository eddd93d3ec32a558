package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

var _ repository.DraftRepository = (*DraftRepo)(nil)

// DraftRepo almacena borradores de cotización generados por chat.
// El payload editado se guarda como JSONB; los campos de búsqueda van aparte.
type DraftRepo struct {
	q Querier
}

// NewDraftRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDraftRepository(q Querier) *DraftRepo {
	return &DraftRepo{q: q}
}

// Save inserta o reemplaza (upsert por id) un borrador.
func (r *DraftRepo) Save(d *entity.QuotationDraft) error {
	query := `
		INSERT INTO quotation_drafts (id, quo_no, client_name, project_name, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET quo_no       = EXCLUDED.quo_no,
		    client_name  = EXCLUDED.client_name,
		    project_name = EXCLUDED.project_name,
		    payload      = EXCLUDED.payload,
		    updated_at   = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.QuoNo, d.ClientName, d.ProjectName, d.Payload, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

const draftColumns = `id, quo_no, client_name, project_name, payload::text, created_at, updated_at`

func scanDraft(row interface{ Scan(...any) error }) (*entity.QuotationDraft, error) {
	var d entity.QuotationDraft
	err := row.Scan(&d.ID, &d.QuoNo, &d.ClientName, &d.ProjectName, &d.Payload, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetByID obtiene un borrador por ID.
func (r *DraftRepo) GetByID(id string) (*entity.QuotationDraft, error) {
	query := `SELECT ` + draftColumns + ` FROM quotation_drafts WHERE id = $1`
	d, err := scanDraft(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return d, nil
}

// List lista borradores, los más recientes primero.
func (r *DraftRepo) List(limit, offset int) ([]*entity.QuotationDraft, error) {
	query := `SELECT ` + draftColumns + `
		FROM quotation_drafts ORDER BY updated_at DESC LIMIT $1 OFFSET $2`
	return r.queryDrafts(query, limit, offset)
}

// Search busca por subcadena en número de cotización, cliente o proyecto.
func (r *DraftRepo) Search(queryStr string, limit int) ([]*entity.QuotationDraft, error) {
	query := `SELECT ` + draftColumns + `
		FROM quotation_drafts
		WHERE quo_no ILIKE '%' || $1 || '%'
		   OR client_name ILIKE '%' || $1 || '%'
		   OR project_name ILIKE '%' || $1 || '%'
		ORDER BY updated_at DESC LIMIT $2`
	return r.queryDrafts(query, queryStr, limit)
}

func (r *DraftRepo) queryDrafts(query string, args ...any) ([]*entity.QuotationDraft, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var list []*entity.QuotationDraft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Delete elimina un borrador.
func (r *DraftRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM quotation_drafts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
