package repository

import "github.com/jhoicas/Cotizador-api/internal/domain/entity"

// DraftRepository almacena cotizaciones generadas por chat y guardadas por el
// usuario. Search hace coincidencia por subcadena sobre número de cotización,
// cliente y proyecto.
type DraftRepository interface {
	Save(draft *entity.QuotationDraft) error
	GetByID(id string) (*entity.QuotationDraft, error)
	List(limit, offset int) ([]*entity.QuotationDraft, error)
	Search(query string, limit int) ([]*entity.QuotationDraft, error)
	Delete(id string) error
}
