package entity

import "time"

// User es una cuenta de acceso a la API.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}
