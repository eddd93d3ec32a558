package entity

import "time"

// Company representa un cliente del estudio (empresas de construcción e ingeniería).
// Name es único; Code es la sigla corta que se incrusta en los números de trabajo.
type Company struct {
	ID        string
	Name      string
	Alias     string // nombre corto o en otro idioma (ej. 長聯建築)
	Code      string // sigla para numeración, ej. "CLC"; derivada del alias si no se indica
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
