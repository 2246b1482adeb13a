package dto

import (
	"time"

	"github.com/google/uuid"
)

type AnalyzeRequest struct {
	Symptoms []string `json:"symptoms" validate:"required,min=1,max=30,dive,max=100"`
	Severity string   `json:"severity" validate:"required,oneof=mild moderate severe"`
	Notes    string   `json:"notes" validate:"max=2000"`
}

type SelectCandidateRequest struct {
	Rank int `json:"rank" validate:"required,min=1"`
}

type CandidateResponse struct {
	Rank           int      `json:"rank"`
	Tier           string   `json:"tier"`
	Disease        string   `json:"disease"`
	Description    string   `json:"description"`
	CommonSymptoms []string `json:"common_symptoms"`
	Medicines      []string `json:"medicines"`
	Confidence     float64  `json:"confidence"`
	ConfidenceBand string   `json:"confidence_band"`
	Urgency        string   `json:"urgency"`
	SaveState      string   `json:"save_state,omitempty"`
}

type SessionResponse struct {
	RequestId         uuid.UUID           `json:"request_id"`
	Symptoms          []string            `json:"symptoms"`
	Severity          string              `json:"severity"`
	Notes             string              `json:"notes,omitempty"`
	InFlight          bool                `json:"in_flight"`
	SelectedRank      int                 `json:"selected_rank,omitempty"`
	ConfidenceOrdered bool                `json:"confidence_ordered"`
	Candidates        []CandidateResponse `json:"candidates"`
}

type PendingSelectionResponse struct {
	RequestId uuid.UUID         `json:"request_id"`
	Candidate CandidateResponse `json:"candidate"`
	Symptoms  []string          `json:"symptoms"`
	Severity  string            `json:"severity"`
	Notes     string            `json:"notes,omitempty"`
	StagedAt  time.Time         `json:"staged_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

type SaveResponse struct {
	State   string                    `json:"state"`
	Rank    int                       `json:"rank"`
	Record  *DiagnosisRecordResponse  `json:"record,omitempty"`
	Pending *PendingSelectionResponse `json:"pending,omitempty"`
}

type SymptomVocabularyResponse struct {
	Symptoms []string `json:"symptoms"`
}
