package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateDiagnosisRecord is everything needed to persist one selected candidate.
type CreateDiagnosisRecord struct {
	Disease     string
	Description string
	Symptoms    []string
	Severity    string
	Medicines   []string
	Urgency     string
	AiScore     float64
	Notes       string
}

type DiagnosisRecordResponse struct {
	Id             uuid.UUID `json:"id"`
	Disease        string    `json:"disease"`
	Description    string    `json:"description"`
	Symptoms       []string  `json:"symptoms"`
	Severity       string    `json:"severity"`
	Medicines      []string  `json:"medicines"`
	Urgency        string    `json:"urgency,omitempty"`
	AiScore        float64   `json:"ai_score"`
	RuleScore      float64   `json:"rule_score"`
	ConfidenceBand string    `json:"confidence_band"`
	Notes          *string   `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type HistoryStatsResponse struct {
	Total   int64 `json:"total"`
	Mild    int64 `json:"mild"`
	NonMild int64 `json:"non_mild"`
}
