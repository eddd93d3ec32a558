package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa.
// Code es opcional: si falta se deriva del alias o del nombre.
type CreateCompanyRequest struct {
	Name    string `json:"name"`
	Alias   string `json:"alias"`
	Code    string `json:"code"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// UpdateCompanyRequest entrada para actualizar una empresa (campos vacíos se conservan).
type UpdateCompanyRequest struct {
	Name    string `json:"name"`
	Alias   string `json:"alias"`
	Code    string `json:"code"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// CompanyResponse representación HTTP de una empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Alias     string    `json:"alias,omitempty"`
	Code      string    `json:"code"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CompanyListResponse listado paginado de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Count int               `json:"count"`
}
