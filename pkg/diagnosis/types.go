package diagnosis

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

// SymptomSet is an ordered list of symptom labels without duplicates.
type SymptomSet []string

// NewSymptomSet trims labels, drops blanks and removes case-insensitive
// duplicates, keeping the first spelling seen.
func NewSymptomSet(labels ...string) SymptomSet {
	seen := make(map[string]struct{}, len(labels))
	set := make(SymptomSet, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		key := strings.ToLower(l)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		set = append(set, l)
	}
	return set
}

func (s SymptomSet) Contains(label string) bool {
	for _, l := range s {
		if strings.EqualFold(l, label) {
			return true
		}
	}
	return false
}

// InferenceRequest is immutable once handed to the gateway; RequestID is its identity.
type InferenceRequest struct {
	RequestID uuid.UUID
	Symptoms  SymptomSet
	Severity  Severity
	Notes     string
}

type Candidate struct {
	Disease        string   `json:"disease"`
	Description    string   `json:"description"`
	CommonSymptoms []string `json:"commonSymptoms"`
	Medicines      []string `json:"medicines"`
	Confidence     float64  `json:"confidence"`
	Urgency        Urgency  `json:"urgency"`
	Rank           int      `json:"rank"`
}

// RawCompletion is the function-call payload as returned by the backend.
type RawCompletion struct {
	Arguments json.RawMessage
	Model     string
}
