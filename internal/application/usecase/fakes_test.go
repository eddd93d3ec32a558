package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
	"github.com/jhoicas/Cotizador-api/pkg/textnorm"
)

// Fakes en memoria compartidos por los tests del paquete.

type fakeCompanyRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.Company
}

func newFakeCompanyRepo(companies ...*entity.Company) *fakeCompanyRepo {
	r := &fakeCompanyRepo{rows: make(map[string]*entity.Company)}
	for _, c := range companies {
		cp := *c
		r.rows[c.ID] = &cp
	}
	return r
}

func (r *fakeCompanyRepo) Create(c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if textnorm.Normalize(existing.Name) == textnorm.Normalize(c.Name) {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

func (r *fakeCompanyRepo) GetByID(id string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCompanyRepo) GetByNormalizedName(normName string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if textnorm.Normalize(c.Name) == normName {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Company
	for _, c := range r.rows {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeCompanyRepo) Search(query string, limit int) ([]*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Company
	q := strings.ToLower(query)
	for _, c := range r.rows {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Alias), q) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCompanyRepo) Update(c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

type fakeJobRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.Job
}

func newFakeJobRepo(jobs ...*entity.Job) *fakeJobRepo {
	r := &fakeJobRepo{rows: make(map[string]*entity.Job)}
	for _, j := range jobs {
		cp := *j
		r.rows[j.JobNo] = &cp
	}
	return r
}

func (r *fakeJobRepo) Create(job *entity.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[job.JobNo]; ok {
		return domain.ErrDuplicate
	}
	cp := *job
	r.rows[job.JobNo] = &cp
	return nil
}

func (r *fakeJobRepo) NextSeq(companyID, jobType, period string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, j := range r.rows {
		if j.CompanyID == companyID && j.Type == jobType && j.Period == period && j.Seq > max {
			max = j.Seq
		}
	}
	return max + 1, nil
}

func (r *fakeJobRepo) GetByID(id string) (*entity.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.rows {
		if j.ID == id {
			cp := *j
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeJobRepo) GetByJobNo(jobNo string) (*entity.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.rows[jobNo]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (r *fakeJobRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Job
	for _, j := range r.rows {
		if j.CompanyID == companyID {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) List(limit, offset int) ([]*entity.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Job
	for _, j := range r.rows {
		cp := *j
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeJobRepo) Update(job *entity.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *job
	r.rows[job.JobNo] = &cp
	return nil
}

func (r *fakeJobRepo) SetQuotationStatus(jobNo, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.rows[jobNo]
	if !ok {
		return domain.ErrNotFound
	}
	j.QuotationStatus = status
	return nil
}

type fakeInvoiceRepo struct {
	mu     sync.Mutex
	rows   []*entity.Invoice
	failAt int // si > 0, la inserción número failAt falla
}

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAt > 0 && len(r.rows)+1 == r.failAt {
		return errInsertFailed
	}
	cp := *inv
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.rows {
		if inv.ID == id {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) ListByJobNo(jobNo string) ([]*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range r.rows {
		if inv.JobNo == jobNo {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) ListByClient(clientID string, limit, offset int) ([]*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range r.rows {
		if inv.ClientID == clientID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) ExistsByInvoiceNo(invoiceNo string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.rows {
		if inv.InvoiceNo == invoiceNo {
			return true, nil
		}
	}
	return false, nil
}

type fakeQuotationRepo struct {
	mu   sync.Mutex
	rows []*entity.Quotation
}

func (r *fakeQuotationRepo) Create(q *entity.Quotation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *q
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *fakeQuotationRepo) GetByID(id string) (*entity.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.rows {
		if q.ID == id {
			cp := *q
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeQuotationRepo) GetByQuoNo(quoNo string) (*entity.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.rows {
		if q.QuoNo == quoNo {
			cp := *q
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeQuotationRepo) LatestByJobNo(jobNo string) (*entity.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *entity.Quotation
	for _, q := range r.rows {
		if q.JobNo == jobNo && (latest == nil || q.Revision > latest.Revision) {
			latest = q
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeQuotationRepo) ListByClient(string, int, int) ([]*entity.Quotation, error) {
	return nil, nil
}

func (r *fakeQuotationRepo) List(int, int) ([]*entity.Quotation, error) { return nil, nil }

func (r *fakeQuotationRepo) UpdateStatus(string, string) error { return nil }

var errInsertFailed = errors.New("insert fallido")

// fakeInvoiceTxRunner simula la transacción: si fn falla, restaura el estado
// previo del repositorio (rollback).
type fakeInvoiceTxRunner struct {
	repo *fakeInvoiceRepo
}

func (r *fakeInvoiceTxRunner) RunInvoice(_ context.Context, fn func(repository.InvoiceRepository) error) error {
	r.repo.mu.Lock()
	snapshot := append([]*entity.Invoice(nil), r.repo.rows...)
	r.repo.mu.Unlock()

	if err := fn(r.repo); err != nil {
		r.repo.mu.Lock()
		r.repo.rows = snapshot
		r.repo.mu.Unlock()
		return err
	}
	return nil
}

// fakeJobTxRunner invoca el callback directamente, sin transacción real.
type fakeJobTxRunner struct {
	jobRepo     repository.JobRepository
	companyRepo repository.CompanyRepository
}

func (r *fakeJobTxRunner) RunJob(_ context.Context, _ string, fn func(
	jobRepo repository.JobRepository,
	companyRepo repository.CompanyRepository,
) error) error {
	return fn(r.jobRepo, r.companyRepo)
}
