package repository

import "github.com/jhoicas/Cotizador-api/internal/domain/entity"

// QuotationRepository define el puerto de persistencia para Quotation y sus líneas.
type QuotationRepository interface {
	Create(q *entity.Quotation) error
	GetByID(id string) (*entity.Quotation, error)
	GetByQuoNo(quoNo string) (*entity.Quotation, error)
	// LatestByJobNo devuelve la cotización con mayor revisión para un trabajo, o nil.
	LatestByJobNo(jobNo string) (*entity.Quotation, error)
	ListByClient(clientID string, limit, offset int) ([]*entity.Quotation, error)
	List(limit, offset int) ([]*entity.Quotation, error)
	UpdateStatus(id, status string) error
}
