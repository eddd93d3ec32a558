package quotation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/numbering"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// QuotationUseCase casos de uso de cotizaciones persistidas.
//
// La identidad de la serie es el número de trabajo: toda cotización nueva o
// editada sobre el mismo trabajo avanza la revisión (1.0, 1.1, ...) y recibe un
// número {job_no}-R{revisión}; las revisiones anteriores se conservan como filas
// propias, nunca se sobreescriben.
type QuotationUseCase struct {
	txRunner    QuotationTxRunner
	quoRepo     repository.QuotationRepository
	companyRepo repository.CompanyRepository
}

// NewQuotationUseCase construye el caso de uso.
func NewQuotationUseCase(txRunner QuotationTxRunner, quoRepo repository.QuotationRepository, companyRepo repository.CompanyRepository) *QuotationUseCase {
	return &QuotationUseCase{txRunner: txRunner, quoRepo: quoRepo, companyRepo: companyRepo}
}

// Create emite una cotización sobre un trabajo existente. La primera del
// trabajo sale como R1.0; si ya había, la revisión avanza una décima. En la
// misma transacción el trabajo queda marcado con cotización CREATED.
func (uc *QuotationUseCase) Create(ctx context.Context, in dto.CreateQuotationRequest) (*dto.QuotationResponse, error) {
	jobNo := strings.TrimSpace(in.JobNo)
	if jobNo == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	items, err := buildItems(in.Items)
	if err != nil {
		return nil, err
	}
	dateIssued, err := parseDateOrToday(in.DateIssued)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "MOP"
	}

	var quo *entity.Quotation
	err = uc.txRunner.RunQuotation(ctx, func(
		quoRepo repository.QuotationRepository,
		jobRepo repository.JobRepository,
	) error {
		job, err := jobRepo.GetByJobNo(jobNo)
		if err != nil {
			return err
		}
		if job == nil {
			return domain.ErrNotFound
		}

		rev := numbering.RevisionInitial
		latest, err := quoRepo.LatestByJobNo(jobNo)
		if err != nil {
			return err
		}
		if latest != nil {
			rev = numbering.Revision(latest.Revision).Bump()
		}

		now := time.Now()
		quo = &entity.Quotation{
			ID:          uuid.New().String(),
			QuoNo:       numbering.QuotationNo(jobNo, rev),
			JobNo:       jobNo,
			ClientID:    job.CompanyID,
			ProjectName: strings.TrimSpace(in.ProjectName),
			DateIssued:  dateIssued,
			Status:      entity.QuoStatusDrafted,
			Currency:    currency,
			Revision:    int(rev),
			Items:       items,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		quo.ComputeTotal()

		if err := quoRepo.Create(quo); err != nil {
			return err
		}
		return jobRepo.SetQuotationStatus(jobNo, entity.QuotationCreated)
	})
	if err != nil {
		return nil, err
	}
	return toQuotationResponse(quo, true), nil
}

// Update edita una cotización. Si cambian líneas o proyecto se emite una
// revisión nueva (décima siguiente a la última del trabajo) con su propio
// número; la fila editada no se toca. Un cambio de estado sin otros campos se
// aplica en sitio, sin nueva revisión.
func (uc *QuotationUseCase) Update(ctx context.Context, id string, in dto.UpdateQuotationRequest) (*dto.QuotationResponse, error) {
	current, err := uc.quoRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}

	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if status != "" && !validQuoStatus(status) {
		return nil, domain.ErrInvalidInput
	}

	// Solo estado: no hay revisión nueva.
	if len(in.Items) == 0 && strings.TrimSpace(in.ProjectName) == "" && strings.TrimSpace(in.Currency) == "" {
		if status == "" {
			return nil, domain.ErrInvalidInput
		}
		if err := uc.quoRepo.UpdateStatus(id, status); err != nil {
			return nil, err
		}
		current.Status = status
		return toQuotationResponse(current, true), nil
	}

	items := current.Items
	if len(in.Items) > 0 {
		items, err = buildItems(in.Items)
		if err != nil {
			return nil, err
		}
	}
	projectName := current.ProjectName
	if s := strings.TrimSpace(in.ProjectName); s != "" {
		projectName = s
	}
	currency := current.Currency
	if s := strings.ToUpper(strings.TrimSpace(in.Currency)); s != "" {
		currency = s
	}
	if status == "" {
		status = entity.QuoStatusDrafted
	}

	var next *entity.Quotation
	err = uc.txRunner.RunQuotation(ctx, func(
		quoRepo repository.QuotationRepository,
		jobRepo repository.JobRepository,
	) error {
		latest, err := quoRepo.LatestByJobNo(current.JobNo)
		if err != nil {
			return err
		}
		rev := numbering.RevisionInitial
		if latest != nil {
			rev = numbering.Revision(latest.Revision).Bump()
		}

		now := time.Now()
		next = &entity.Quotation{
			ID:          uuid.New().String(),
			QuoNo:       numbering.QuotationNo(current.JobNo, rev),
			JobNo:       current.JobNo,
			ClientID:    current.ClientID,
			ProjectName: projectName,
			DateIssued:  now,
			Status:      status,
			Currency:    currency,
			Revision:    int(rev),
			Items:       cloneItems(items),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		next.ComputeTotal()
		return quoRepo.Create(next)
	})
	if err != nil {
		return nil, err
	}
	return toQuotationResponse(next, true), nil
}

// GetByID obtiene una cotización con sus líneas.
func (uc *QuotationUseCase) GetByID(id string) (*dto.QuotationResponse, error) {
	quo, err := uc.quoRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if quo == nil {
		return nil, domain.ErrNotFound
	}
	return toQuotationResponse(quo, true), nil
}

// GetByQuoNo obtiene una cotización por número completo (con revisión).
func (uc *QuotationUseCase) GetByQuoNo(quoNo string) (*dto.QuotationResponse, error) {
	quo, err := uc.quoRepo.GetByQuoNo(quoNo)
	if err != nil {
		return nil, err
	}
	if quo == nil {
		return nil, domain.ErrNotFound
	}
	return toQuotationResponse(quo, true), nil
}

// List devuelve cotizaciones paginadas (solo cabeceras), opcionalmente por cliente.
func (uc *QuotationUseCase) List(clientID string, page dto.PageRequest) (*dto.QuotationListResponse, error) {
	page.DefaultPage()
	var (
		quos []*entity.Quotation
		err  error
	)
	if clientID != "" {
		quos, err = uc.quoRepo.ListByClient(clientID, page.Limit, page.Offset)
	} else {
		quos, err = uc.quoRepo.List(page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	out := &dto.QuotationListResponse{Items: make([]dto.QuotationResponse, 0, len(quos))}
	for _, q := range quos {
		out.Items = append(out.Items, *toQuotationResponse(q, false))
	}
	out.Count = len(out.Items)
	return out, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func buildItems(in []dto.QuotationItemRequest) ([]entity.QuotationItem, error) {
	items := make([]entity.QuotationItem, 0, len(in))
	for i, it := range in {
		if strings.TrimSpace(it.ItemDesc) == "" {
			return nil, domain.ErrInvalidInput
		}
		if !it.Quantity.IsPositive() || it.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		if !entity.ValidUnit(it.Unit) {
			return nil, domain.ErrInvalidInput
		}
		items = append(items, entity.QuotationItem{
			ID:        uuid.New().String(),
			Seq:       i + 1,
			ItemDesc:  strings.TrimSpace(it.ItemDesc),
			Quantity:  it.Quantity,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
		})
	}
	return items, nil
}

// cloneItems copia las líneas con IDs nuevos para la revisión nueva.
func cloneItems(items []entity.QuotationItem) []entity.QuotationItem {
	out := make([]entity.QuotationItem, 0, len(items))
	for i, it := range items {
		out = append(out, entity.QuotationItem{
			ID:        uuid.New().String(),
			Seq:       i + 1,
			ItemDesc:  it.ItemDesc,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
		})
	}
	return out
}

func parseDateOrToday(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", s)
}

func validQuoStatus(s string) bool {
	switch s {
	case entity.QuoStatusDrafted, entity.QuoStatusSent, entity.QuoStatusAccepted,
		entity.QuoStatusRejected, entity.QuoStatusExpired:
		return true
	}
	return false
}

func toQuotationResponse(q *entity.Quotation, withItems bool) *dto.QuotationResponse {
	resp := &dto.QuotationResponse{
		ID:          q.ID,
		QuoNo:       q.QuoNo,
		JobNo:       q.JobNo,
		ClientID:    q.ClientID,
		ProjectName: q.ProjectName,
		DateIssued:  q.DateIssued,
		Status:      q.Status,
		Currency:    q.Currency,
		Revision:    numbering.Revision(q.Revision).Label(),
		TotalAmount: q.TotalAmount,
	}
	if withItems {
		resp.Items = make([]dto.QuotationItemResponse, 0, len(q.Items))
		for _, it := range q.Items {
			resp.Items = append(resp.Items, dto.QuotationItemResponse{
				Seq:       it.Seq,
				ItemDesc:  it.ItemDesc,
				Quantity:  it.Quantity,
				Unit:      it.Unit,
				UnitPrice: it.UnitPrice,
				Amount:    it.Amount,
			})
		}
	}
	return resp
}
