package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

var _ repository.QuotationRepository = (*QuotationRepo)(nil)

// QuotationRepo implementación de QuotationRepository (usable con pool o tx).
// Las líneas viven en quotation_items; Create inserta cabecera y líneas, por lo
// que debe ejecutarse con un Querier transaccional.
type QuotationRepo struct {
	q Querier
}

// NewQuotationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuotationRepository(q Querier) *QuotationRepo {
	return &QuotationRepo{q: q}
}

// Create persiste cabecera y líneas.
func (r *QuotationRepo) Create(q *entity.Quotation) error {
	ctx := context.Background()
	query := `
		INSERT INTO quotations (id, quo_no, job_no, client_id, project_name, date_issued, status, currency, revision_tenths, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		q.ID, q.QuoNo, q.JobNo, q.ClientID, q.ProjectName, q.DateIssued,
		q.Status, q.Currency, q.Revision, q.TotalAmount, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("quo_no ya existe: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert quotation: %w", err)
	}
	return r.insertItems(ctx, q)
}

func (r *QuotationRepo) insertItems(ctx context.Context, q *entity.Quotation) error {
	const query = `
		INSERT INTO quotation_items (id, quotation_id, seq, item_desc, quantity, unit, unit_price, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i := range q.Items {
		it := &q.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.QuotationID = q.ID
		if _, err := r.q.Exec(ctx, query,
			it.ID, it.QuotationID, it.Seq, it.ItemDesc, it.Quantity, it.Unit, it.UnitPrice, it.Amount,
		); err != nil {
			return fmt.Errorf("insert quotation item %d: %w", it.Seq, err)
		}
	}
	return nil
}

const quotationColumns = `id, quo_no, job_no, client_id, project_name, date_issued, status, currency, revision_tenths, total_amount, created_at, updated_at`

func scanQuotation(row interface{ Scan(...any) error }) (*entity.Quotation, error) {
	var q entity.Quotation
	err := row.Scan(&q.ID, &q.QuoNo, &q.JobNo, &q.ClientID, &q.ProjectName, &q.DateIssued,
		&q.Status, &q.Currency, &q.Revision, &q.TotalAmount, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuotationRepo) loadItems(ctx context.Context, q *entity.Quotation) error {
	const query = `
		SELECT id, quotation_id, seq, item_desc, quantity, unit, unit_price, amount
		FROM quotation_items WHERE quotation_id = $1 ORDER BY seq`
	rows, err := r.q.Query(ctx, query, q.ID)
	if err != nil {
		return fmt.Errorf("load quotation items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it entity.QuotationItem
		if err := rows.Scan(&it.ID, &it.QuotationID, &it.Seq, &it.ItemDesc,
			&it.Quantity, &it.Unit, &it.UnitPrice, &it.Amount); err != nil {
			return fmt.Errorf("scan quotation item: %w", err)
		}
		q.Items = append(q.Items, it)
	}
	return rows.Err()
}

// GetByID obtiene una cotización completa (cabecera + líneas).
func (r *QuotationRepo) GetByID(id string) (*entity.Quotation, error) {
	ctx := context.Background()
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE id = $1`
	q, err := scanQuotation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	if err := r.loadItems(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// GetByQuoNo obtiene una cotización completa por número.
func (r *QuotationRepo) GetByQuoNo(quoNo string) (*entity.Quotation, error) {
	ctx := context.Background()
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE quo_no = $1`
	q, err := scanQuotation(r.q.QueryRow(ctx, query, quoNo))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quotation by quo_no: %w", err)
	}
	if err := r.loadItems(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// LatestByJobNo devuelve la cotización de mayor revisión para un trabajo, o nil.
func (r *QuotationRepo) LatestByJobNo(jobNo string) (*entity.Quotation, error) {
	ctx := context.Background()
	query := `SELECT ` + quotationColumns + `
		FROM quotations WHERE job_no = $1
		ORDER BY revision_tenths DESC LIMIT 1`
	q, err := scanQuotation(r.q.QueryRow(ctx, query, jobNo))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest quotation by job_no: %w", err)
	}
	if err := r.loadItems(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// ListByClient lista cotizaciones de un cliente (solo cabeceras).
func (r *QuotationRepo) ListByClient(clientID string, limit, offset int) ([]*entity.Quotation, error) {
	query := `SELECT ` + quotationColumns + `
		FROM quotations WHERE client_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryQuotations(query, clientID, limit, offset)
}

// List lista cotizaciones con paginación (solo cabeceras).
func (r *QuotationRepo) List(limit, offset int) ([]*entity.Quotation, error) {
	query := `SELECT ` + quotationColumns + `
		FROM quotations ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.queryQuotations(query, limit, offset)
}

func (r *QuotationRepo) queryQuotations(query string, args ...any) ([]*entity.Quotation, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()

	var list []*entity.Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quotation: %w", err)
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// UpdateStatus cambia solo el estado de la cotización.
func (r *QuotationRepo) UpdateStatus(id, status string) error {
	query := `UPDATE quotations SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update quotation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
