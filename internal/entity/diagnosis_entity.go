package entity

import (
	"time"

	"github.com/google/uuid"
)

// DiagnosisRecord is a saved history entry. It is never mutated after creation.
type DiagnosisRecord struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Disease     string
	Description string
	Symptoms    []string
	Severity    string
	Medicines   []string
	Urgency     string
	AiScore     float64
	RuleScore   float64
	Notes       *string
	CreatedAt   time.Time
}

// DiagnosisStats summarises one user's history.
type DiagnosisStats struct {
	Total   int64
	Mild    int64
	NonMild int64
}
