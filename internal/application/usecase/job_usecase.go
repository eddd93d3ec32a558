package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/numbering"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// JobTxRunner ejecuta una función dentro de una transacción con los repos de
// trabajos y empresas. seqKey identifica la secuencia (empresa+tipo+periodo);
// la implementación debe serializar las transacciones que compartan seqKey
// para que max(seq)+1 no se duplique bajo concurrencia.
type JobTxRunner interface {
	RunJob(ctx context.Context, seqKey string, fn func(
		jobRepo repository.JobRepository,
		companyRepo repository.CompanyRepository,
	) error) error
}

// JobUseCase casos de uso de trabajos numerados.
type JobUseCase struct {
	txRunner    JobTxRunner
	jobRepo     repository.JobRepository
	companyRepo repository.CompanyRepository
}

// NewJobUseCase construye el caso de uso.
func NewJobUseCase(txRunner JobTxRunner, jobRepo repository.JobRepository, companyRepo repository.CompanyRepository) *JobUseCase {
	return &JobUseCase{txRunner: txRunner, jobRepo: jobRepo, companyRepo: companyRepo}
}

// Create crea un trabajo con número {PREFIJO}-{CODIGO}-{YY}-{MM}-{INDICE}.
//
// Todo ocurre en una sola transacción: resolver (o crear) la empresa, leer el
// índice siguiente de la secuencia y persistir el trabajo. El número nunca se
// reserva fuera de la transacción, así que no quedan huecos por peticiones
// fallidas y dos peticiones concurrentes no comparten índice.
func (uc *JobUseCase) Create(ctx context.Context, in dto.CreateJobRequest) (*dto.JobResponse, error) {
	jobType := strings.ToUpper(strings.TrimSpace(in.Type))
	if jobType != entity.JobTypeDesign && jobType != entity.JobTypeInspection {
		return nil, domain.ErrInvalidInput
	}
	if in.CompanyID == "" && strings.TrimSpace(in.CompanyName) == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	period := numbering.Period(now)
	var job *entity.Job

	// La clave de secuencia se conoce solo tras resolver la empresa; cuando
	// viene company_name se usa el nombre normalizado como aproximación (la
	// misma empresa produce la misma clave, que es lo que importa para el lock).
	seqKey := seqKeyFor(in, jobType, period)

	err := uc.txRunner.RunJob(ctx, seqKey, func(
		jobRepo repository.JobRepository,
		companyRepo repository.CompanyRepository,
	) error {
		company, err := uc.resolveCompany(companyRepo, in)
		if err != nil {
			return err
		}

		seq, err := jobRepo.NextSeq(company.ID, jobType, period)
		if err != nil {
			return err
		}

		job = &entity.Job{
			ID:              uuid.New().String(),
			JobNo:           numbering.FormatJobNo(jobType, company.Code, now, seq),
			Type:            jobType,
			CompanyID:       company.ID,
			Title:           strings.TrimSpace(in.Title),
			Status:          entity.JobStatusNew,
			QuotationStatus: entity.QuotationNotCreated,
			Seq:             seq,
			Period:          period,
			DateCreated:     now,
			UpdatedAt:       now,
		}
		return jobRepo.Create(job)
	})
	if err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

func (uc *JobUseCase) resolveCompany(companyRepo repository.CompanyRepository, in dto.CreateJobRequest) (*entity.Company, error) {
	if in.CompanyID != "" {
		company, err := companyRepo.GetByID(in.CompanyID)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, domain.ErrNotFound
		}
		return company, nil
	}
	return GetOrCreateByName(companyRepo, in.CompanyName)
}

func seqKeyFor(in dto.CreateJobRequest, jobType, period string) string {
	companyKey := in.CompanyID
	if companyKey == "" {
		companyKey = strings.ToLower(strings.TrimSpace(in.CompanyName))
	}
	return fmt.Sprintf("job-seq:%s:%s:%s", companyKey, jobType, period)
}

// GetByID obtiene un trabajo por ID.
func (uc *JobUseCase) GetByID(id string) (*dto.JobResponse, error) {
	job, err := uc.jobRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	return toJobResponse(job), nil
}

// GetByJobNo obtiene un trabajo por su número.
func (uc *JobUseCase) GetByJobNo(jobNo string) (*dto.JobResponse, error) {
	job, err := uc.jobRepo.GetByJobNo(jobNo)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	return toJobResponse(job), nil
}

// List devuelve trabajos paginados, opcionalmente filtrados por empresa.
func (uc *JobUseCase) List(companyID string, page dto.PageRequest) (*dto.JobListResponse, error) {
	page.DefaultPage()
	var (
		jobs []*entity.Job
		err  error
	)
	if companyID != "" {
		jobs, err = uc.jobRepo.ListByCompany(companyID, page.Limit, page.Offset)
	} else {
		jobs, err = uc.jobRepo.List(page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	out := &dto.JobListResponse{Items: make([]dto.JobResponse, 0, len(jobs))}
	for _, j := range jobs {
		out.Items = append(out.Items, *toJobResponse(j))
	}
	out.Count = len(out.Items)
	return out, nil
}

// Update modifica título y estado de un trabajo. El número de trabajo es
// inmutable: no se renumera aunque cambien los demás campos.
func (uc *JobUseCase) Update(id string, in dto.UpdateJobRequest) (*dto.JobResponse, error) {
	job, err := uc.jobRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	if s := strings.TrimSpace(in.Title); s != "" {
		job.Title = s
	}
	if s := strings.ToUpper(strings.TrimSpace(in.Status)); s != "" {
		switch s {
		case entity.JobStatusNew, entity.JobStatusInProgress, entity.JobStatusCompleted, entity.JobStatusCancelled:
			job.Status = s
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	job.UpdatedAt = time.Now()
	if err := uc.jobRepo.Update(job); err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

func toJobResponse(j *entity.Job) *dto.JobResponse {
	return &dto.JobResponse{
		ID:              j.ID,
		JobNo:           j.JobNo,
		Type:            j.Type,
		CompanyID:       j.CompanyID,
		Title:           j.Title,
		Status:          j.Status,
		QuotationStatus: j.QuotationStatus,
		DateCreated:     j.DateCreated,
	}
}
