package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

var _ repository.JobRepository = (*JobRepo)(nil)

// JobRepo implementación de JobRepository (usable con pool o tx).
type JobRepo struct {
	q Querier
}

// NewJobRepository construye el adaptador. Pasar pool o tx (Querier).
func NewJobRepository(q Querier) *JobRepo {
	return &JobRepo{q: q}
}

// Create persiste un nuevo trabajo con su número ya asignado.
func (r *JobRepo) Create(job *entity.Job) error {
	query := `
		INSERT INTO jobs (id, job_no, job_type, company_id, title, status, quotation_status, seq, period, date_created, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), $10)`
	_, err := r.q.Exec(context.Background(), query,
		job.ID, job.JobNo, job.Type, job.CompanyID, job.Title,
		job.Status, job.QuotationStatus, job.Seq, job.Period, job.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("job_no ya existe: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// NextSeq calcula max(seq)+1 para (empresa, tipo, periodo).
// Llamar solo dentro de la tx de creación con el advisory lock tomado.
func (r *JobRepo) NextSeq(companyID, jobType, period string) (int, error) {
	const query = `
		SELECT COALESCE(MAX(seq), 0) + 1
		FROM jobs
		WHERE company_id = $1 AND job_type = $2 AND period = $3`
	var next int
	if err := r.q.QueryRow(context.Background(), query, companyID, jobType, period).Scan(&next); err != nil {
		return 0, fmt.Errorf("next job seq: %w", err)
	}
	return next, nil
}

const jobColumns = `id, job_no, job_type, company_id, title, status, quotation_status, seq, period, date_created, updated_at`

func scanJob(row interface{ Scan(...any) error }) (*entity.Job, error) {
	var j entity.Job
	err := row.Scan(&j.ID, &j.JobNo, &j.Type, &j.CompanyID, &j.Title,
		&j.Status, &j.QuotationStatus, &j.Seq, &j.Period, &j.DateCreated, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// GetByID obtiene un trabajo por ID.
func (r *JobRepo) GetByID(id string) (*entity.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	j, err := scanJob(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

// GetByJobNo obtiene un trabajo por número.
func (r *JobRepo) GetByJobNo(jobNo string) (*entity.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE job_no = $1`
	j, err := scanJob(r.q.QueryRow(context.Background(), query, jobNo))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job by job_no: %w", err)
	}
	return j, nil
}

// ListByCompany lista trabajos de una empresa, los más recientes primero.
func (r *JobRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Job, error) {
	query := `SELECT ` + jobColumns + `
		FROM jobs WHERE company_id = $1
		ORDER BY date_created DESC, id DESC LIMIT $2 OFFSET $3`
	return r.queryJobs(query, companyID, limit, offset)
}

// List lista todos los trabajos con paginación.
func (r *JobRepo) List(limit, offset int) ([]*entity.Job, error) {
	query := `SELECT ` + jobColumns + `
		FROM jobs ORDER BY date_created DESC, id DESC LIMIT $1 OFFSET $2`
	return r.queryJobs(query, limit, offset)
}

func (r *JobRepo) queryJobs(query string, args ...any) ([]*entity.Job, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var list []*entity.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		list = append(list, j)
	}
	return list, rows.Err()
}

// Update actualiza título y estados del trabajo.
func (r *JobRepo) Update(job *entity.Job) error {
	query := `
		UPDATE jobs
		SET title            = $2,
		    status           = $3,
		    quotation_status = $4,
		    updated_at       = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		job.ID, job.Title, job.Status, job.QuotationStatus, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetQuotationStatus marca el estado de cotización de un trabajo por número.
func (r *JobRepo) SetQuotationStatus(jobNo, status string) error {
	query := `UPDATE jobs SET quotation_status = $2, updated_at = now() WHERE job_no = $1`
	tag, err := r.q.Exec(context.Background(), query, jobNo, status)
	if err != nil {
		return fmt.Errorf("set quotation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
