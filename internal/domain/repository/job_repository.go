package repository

import "github.com/jhoicas/Cotizador-api/internal/domain/entity"

// JobRepository define el puerto de persistencia para Job.
//
// NextSeq devuelve max(seq)+1 para (empresa, tipo, periodo). Solo es seguro
// llamarlo dentro de la transacción de creación, con el lock advisory del
// periodo ya tomado; fuera de ella el valor puede quedar obsoleto.
type JobRepository interface {
	Create(job *entity.Job) error
	NextSeq(companyID, jobType, period string) (int, error)
	GetByID(id string) (*entity.Job, error)
	GetByJobNo(jobNo string) (*entity.Job, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Job, error)
	List(limit, offset int) ([]*entity.Job, error)
	Update(job *entity.Job) error
	SetQuotationStatus(jobNo, status string) error
}
