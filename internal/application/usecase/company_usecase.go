package usecase

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
	"github.com/jhoicas/Cotizador-api/pkg/textnorm"
)

// CompanyUseCase casos de uso de empresas cliente.
type CompanyUseCase struct {
	companyRepo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(companyRepo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{companyRepo: companyRepo}
}

// Create registra una empresa. El código de numeración se deriva del alias o
// del nombre si no viene en la petición. Devuelve ErrDuplicate si el nombre
// normalizado ya existe.
func (uc *CompanyUseCase) Create(in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Alias:     strings.TrimSpace(in.Alias),
		Code:      deriveCode(in.Code, in.Alias, in.Name),
		Address:   strings.TrimSpace(in.Address),
		Phone:     strings.TrimSpace(in.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.companyRepo.Create(company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// GetByID obtiene una empresa.
func (uc *CompanyUseCase) GetByID(id string) (*dto.CompanyResponse, error) {
	company, err := uc.companyRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return toCompanyResponse(company), nil
}

// List devuelve empresas paginadas.
func (uc *CompanyUseCase) List(page dto.PageRequest) (*dto.CompanyListResponse, error) {
	page.DefaultPage()
	companies, err := uc.companyRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.CompanyListResponse{Items: make([]dto.CompanyResponse, 0, len(companies))}
	for _, c := range companies {
		out.Items = append(out.Items, *toCompanyResponse(c))
	}
	out.Count = len(out.Items)
	return out, nil
}

// Search busca por subcadena sobre nombre y alias.
func (uc *CompanyUseCase) Search(query string, limit int) (*dto.CompanyListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	companies, err := uc.companyRepo.Search(query, limit)
	if err != nil {
		return nil, err
	}
	out := &dto.CompanyListResponse{Items: make([]dto.CompanyResponse, 0, len(companies))}
	for _, c := range companies {
		out.Items = append(out.Items, *toCompanyResponse(c))
	}
	out.Count = len(out.Items)
	return out, nil
}

// Update modifica una empresa; los campos vacíos de la petición se conservan.
func (uc *CompanyUseCase) Update(id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.companyRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if s := strings.TrimSpace(in.Name); s != "" {
		company.Name = s
	}
	if s := strings.TrimSpace(in.Alias); s != "" {
		company.Alias = s
	}
	if s := strings.TrimSpace(in.Code); s != "" {
		company.Code = strings.ToUpper(s)
	}
	if s := strings.TrimSpace(in.Address); s != "" {
		company.Address = s
	}
	if s := strings.TrimSpace(in.Phone); s != "" {
		company.Phone = s
	}
	company.UpdatedAt = time.Now()
	if err := uc.companyRepo.Update(company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// GetOrCreateByName busca la empresa por nombre normalizado y la crea si no
// existe. Se usa desde la creación de trabajos, que acepta nombre libre; la
// normalización (NFKC + plegado de ancho + minúsculas) hace que "ACME Corp" y
// "ＡＣＭＥ  corp" resuelvan a la misma fila. Funciona con cualquier repo, por
// lo que puede llamarse dentro de una transacción con el repo transaccional.
func GetOrCreateByName(repo repository.CompanyRepository, name string) (*entity.Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := repo.GetByNormalizedName(textnorm.Normalize(name))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      name,
		Code:      deriveCode("", "", name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(company); err != nil {
		return nil, err
	}
	return company, nil
}

// deriveCode produce la sigla para numeración: el código explícito en
// mayúsculas; si falta, las iniciales ASCII del alias o del nombre (máx 4);
// si tampoco hay letras ASCII, la sigla genérica "GEN".
func deriveCode(code, alias, name string) string {
	if c := strings.TrimSpace(code); c != "" {
		return strings.ToUpper(c)
	}
	for _, src := range []string{alias, name} {
		if c := initialsOf(src); c != "" {
			return c
		}
	}
	return "GEN"
}

func initialsOf(s string) string {
	var b strings.Builder
	for _, w := range strings.Fields(s) {
		r := rune(w[0])
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
		if b.Len() >= 4 {
			break
		}
	}
	return b.String()
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Alias:     c.Alias,
		Code:      c.Code,
		Address:   c.Address,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}
