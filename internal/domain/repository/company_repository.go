package repository

import "github.com/jhoicas/Cotizador-api/internal/domain/entity"

// CompanyRepository define el puerto de persistencia para Company.
// GetByNormalizedName busca por el nombre ya normalizado (NFKC + plegado de ancho);
// la normalización la aplica el caso de uso, no el repositorio.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	GetByNormalizedName(normName string) (*entity.Company, error)
	List(limit, offset int) ([]*entity.Company, error)
	Search(query string, limit int) ([]*entity.Company, error)
	Update(company *entity.Company) error
}
