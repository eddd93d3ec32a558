package quotation

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeQuotationRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.Quotation // por ID
}

func newFakeQuotationRepo() *fakeQuotationRepo {
	return &fakeQuotationRepo{rows: make(map[string]*entity.Quotation)}
}

func (r *fakeQuotationRepo) Create(q *entity.Quotation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.QuoNo == q.QuoNo {
			return domain.ErrDuplicate
		}
	}
	cp := *q
	r.rows[q.ID] = &cp
	return nil
}

func (r *fakeQuotationRepo) GetByID(id string) (*entity.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
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
		if q.JobNo != jobNo {
			continue
		}
		if latest == nil || q.Revision > latest.Revision {
			latest = q
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeQuotationRepo) ListByClient(clientID string, limit, offset int) ([]*entity.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Quotation
	for _, q := range r.rows {
		if q.ClientID == clientID {
			cp := *q
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeQuotationRepo) List(limit, offset int) ([]*entity.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Quotation
	for _, q := range r.rows {
		cp := *q
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeQuotationRepo) UpdateStatus(id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	q.Status = status
	return nil
}

type fakeJobRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.Job // por JobNo
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
		if strings.ToLower(c.Name) == normName {
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
	for _, c := range r.rows {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(query)) {
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

// fakeTxRunner invoca el callback directamente, sin transacción real.
type fakeTxRunner struct {
	quoRepo repository.QuotationRepository
	jobRepo repository.JobRepository
}

func (r *fakeTxRunner) RunQuotation(_ context.Context, fn func(
	quoRepo repository.QuotationRepository,
	jobRepo repository.JobRepository,
) error) error {
	return fn(r.quoRepo, r.jobRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

const testJobNo = "JCP-ACM-25-08-1"

func newTestQuotationUC() (*QuotationUseCase, *fakeQuotationRepo, *fakeJobRepo) {
	job := &entity.Job{
		ID:              "job-1",
		JobNo:           testJobNo,
		Type:            entity.JobTypeDesign,
		CompanyID:       "company-1",
		Status:          entity.JobStatusNew,
		QuotationStatus: entity.QuotationNotCreated,
		Seq:             1,
		Period:          "25-08",
	}
	quoRepo := newFakeQuotationRepo()
	jobRepo := newFakeJobRepo(job)
	companyRepo := newFakeCompanyRepo(&entity.Company{ID: "company-1", Name: "ACME Corp", Code: "ACM"})
	uc := NewQuotationUseCase(&fakeTxRunner{quoRepo: quoRepo, jobRepo: jobRepo}, quoRepo, companyRepo)
	return uc, quoRepo, jobRepo
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// La primera cotización de un trabajo sale como R1.0 y marca el trabajo CREATED.
func TestCreate_PrimeraCotizacionRevision10(t *testing.T) {
	uc, _, jobRepo := newTestQuotationUC()

	resp, err := uc.Create(context.Background(), dto.CreateQuotationRequest{
		JobNo:       testJobNo,
		ProjectName: "Roof Inspection",
		Currency:    "MOP",
		Items: []dto.QuotationItemRequest{
			{ItemDesc: "Site survey", Quantity: dec("2"), Unit: entity.UnitDay, UnitPrice: dec("500")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "1.0", resp.Revision)
	assert.Equal(t, testJobNo+"-R1.0", resp.QuoNo)

	job, _ := jobRepo.GetByJobNo(testJobNo)
	assert.Equal(t, entity.QuotationCreated, job.QuotationStatus,
		"crear la cotización debe marcar el trabajo")
}

// El total siempre se recalcula de las líneas: cantidad × precio, nunca el
// valor que diga el cliente.
func TestCreate_TotalRecalculadoDeLasLineas(t *testing.T) {
	uc, _, _ := newTestQuotationUC()

	resp, err := uc.Create(context.Background(), dto.CreateQuotationRequest{
		JobNo: testJobNo,
		Items: []dto.QuotationItemRequest{
			{ItemDesc: "Drone survey", Quantity: dec("2"), Unit: entity.UnitDay, UnitPrice: dec("125")},
			{ItemDesc: "Report", Quantity: dec("1"), Unit: entity.UnitLot, UnitPrice: dec("100")},
		},
	})
	require.NoError(t, err)

	assert.True(t, resp.TotalAmount.Equal(dec("350")), "total esperado 350, obtenido %s", resp.TotalAmount)
	assert.True(t, resp.Items[0].Amount.Equal(dec("250")))
	assert.True(t, resp.Items[1].Amount.Equal(dec("100")))
}

// Una segunda emisión sobre el mismo trabajo avanza la revisión una décima.
func TestCreate_SegundaCotizacionAvanzaRevision(t *testing.T) {
	uc, _, _ := newTestQuotationUC()
	items := []dto.QuotationItemRequest{
		{ItemDesc: "Inspection", Quantity: dec("1"), Unit: entity.UnitLot, UnitPrice: dec("1000")},
	}

	first, err := uc.Create(context.Background(), dto.CreateQuotationRequest{JobNo: testJobNo, Items: items})
	require.NoError(t, err)
	second, err := uc.Create(context.Background(), dto.CreateQuotationRequest{JobNo: testJobNo, Items: items})
	require.NoError(t, err)

	assert.Equal(t, "1.0", first.Revision)
	assert.Equal(t, "1.1", second.Revision)
	assert.Equal(t, testJobNo+"-R1.1", second.QuoNo)
}

// Editar líneas emite una revisión nueva y conserva la fila anterior.
func TestUpdate_EmiteRevisionNuevaYConservaAnterior(t *testing.T) {
	uc, quoRepo, _ := newTestQuotationUC()

	first, err := uc.Create(context.Background(), dto.CreateQuotationRequest{
		JobNo: testJobNo,
		Items: []dto.QuotationItemRequest{
			{ItemDesc: "Inspection", Quantity: dec("1"), Unit: entity.UnitLot, UnitPrice: dec("1000")},
		},
	})
	require.NoError(t, err)

	updated, err := uc.Update(context.Background(), first.ID, dto.UpdateQuotationRequest{
		Items: []dto.QuotationItemRequest{
			{ItemDesc: "Inspection", Quantity: dec("2"), Unit: entity.UnitLot, UnitPrice: dec("1000")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "1.1", updated.Revision)
	assert.NotEqual(t, first.ID, updated.ID, "la revisión nueva es una fila propia")
	assert.True(t, updated.TotalAmount.Equal(dec("2000")))

	// La fila original sigue accesible con su revisión.
	original, err := quoRepo.GetByQuoNo(first.QuoNo)
	require.NoError(t, err)
	require.NotNil(t, original, "la revisión anterior no debe desaparecer")
}

// Un cambio de estado solo no genera revisión nueva.
func TestUpdate_SoloEstadoNoGeneraRevision(t *testing.T) {
	uc, _, _ := newTestQuotationUC()

	first, err := uc.Create(context.Background(), dto.CreateQuotationRequest{
		JobNo: testJobNo,
		Items: []dto.QuotationItemRequest{
			{ItemDesc: "Inspection", Quantity: dec("1"), Unit: entity.UnitLot, UnitPrice: dec("1000")},
		},
	})
	require.NoError(t, err)

	updated, err := uc.Update(context.Background(), first.ID, dto.UpdateQuotationRequest{
		Status: entity.QuoStatusSent,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, "1.0", updated.Revision)
	assert.Equal(t, entity.QuoStatusSent, updated.Status)
}

// Validaciones de entrada: unidad fuera de catálogo y cantidad no positiva.
func TestCreate_ValidaUnidadYCantidad(t *testing.T) {
	uc, _, _ := newTestQuotationUC()

	_, err := uc.Create(context.Background(), dto.CreateQuotationRequest{
		JobNo: testJobNo,
		Items: []dto.QuotationItemRequest{
			{ItemDesc: "x", Quantity: dec("1"), Unit: "furlong", UnitPrice: dec("10")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), dto.CreateQuotationRequest{
		JobNo: testJobNo,
		Items: []dto.QuotationItemRequest{
			{ItemDesc: "x", Quantity: dec("0"), Unit: entity.UnitLot, UnitPrice: dec("10")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Trabajo inexistente → ErrNotFound.
func TestCreate_TrabajoInexistente(t *testing.T) {
	uc, _, _ := newTestQuotationUC()

	_, err := uc.Create(context.Background(), dto.CreateQuotationRequest{
		JobNo: "JCP-XXX-25-08-99",
		Items: []dto.QuotationItemRequest{
			{ItemDesc: "x", Quantity: dec("1"), Unit: entity.UnitLot, UnitPrice: dec("10")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
