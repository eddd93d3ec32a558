package dto

import "time"

// CreateJobRequest entrada para crear un trabajo numerado.
// Se acepta company_id o company_name; con company_name el caso de uso hace
// get-or-create de la empresa antes de numerar.
type CreateJobRequest struct {
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name"`
	Type        string `json:"type"` // DESIGN | INSPECTION
	Title       string `json:"title"`
}

// UpdateJobRequest entrada para actualizar un trabajo (campos vacíos se conservan).
type UpdateJobRequest struct {
	Title  string `json:"title"`
	Status string `json:"status"`
}

// JobResponse representación HTTP de un trabajo.
type JobResponse struct {
	ID              string    `json:"id"`
	JobNo           string    `json:"job_no"`
	Type            string    `json:"type"`
	CompanyID       string    `json:"company_id"`
	Title           string    `json:"title"`
	Status          string    `json:"status"`
	QuotationStatus string    `json:"quotation_status"`
	DateCreated     time.Time `json:"date_created"`
}

// JobListResponse listado paginado de trabajos.
type JobListResponse struct {
	Items []JobResponse `json:"items"`
	Count int           `json:"count"`
}
