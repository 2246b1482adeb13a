package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is a signed-in principal. Diagnosis history is keyed by Id.
type User struct {
	Id           uuid.UUID
	Email        string
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
