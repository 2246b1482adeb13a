package diagnosis

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
)

// Normalize validates a function-call payload and turns it into ranked candidates.
// Rank follows array order; the backend's ordering is never re-sorted.
// A single malformed element fails the whole payload.
func Normalize(raw RawCompletion) ([]Candidate, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw.Arguments, &envelope); err != nil {
		return nil, &ValidationError{Kind: KindInvalidType, Index: -1, Field: "diagnoses"}
	}

	field, ok := envelope["diagnoses"]
	if !ok || isNull(field) {
		return nil, &ValidationError{Kind: KindMissingField, Index: -1, Field: "diagnoses"}
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(field, &items); err != nil {
		return nil, &ValidationError{Kind: KindInvalidType, Index: -1, Field: "diagnoses"}
	}
	if len(items) == 0 {
		return nil, &ValidationError{Kind: KindEmptyResult, Index: -1}
	}

	candidates := make([]Candidate, 0, len(items))
	for i, item := range items {
		c, err := normalizeItem(i, item)
		if err != nil {
			return nil, err
		}
		c.Rank = i + 1
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func normalizeItem(i int, item map[string]json.RawMessage) (Candidate, error) {
	var c Candidate
	var err error

	if item == nil {
		return c, &ValidationError{Kind: KindInvalidType, Index: i, Field: "diagnoses"}
	}
	if c.Disease, err = requiredString(i, item, "disease"); err != nil {
		return c, err
	}
	if c.Description, err = requiredString(i, item, "description"); err != nil {
		return c, err
	}
	if c.CommonSymptoms, err = requiredStrings(i, item, "commonSymptoms"); err != nil {
		return c, err
	}
	if c.Medicines, err = requiredStrings(i, item, "medicines"); err != nil {
		return c, err
	}

	raw, ok := item["confidence"]
	if !ok || isNull(raw) {
		return c, &ValidationError{Kind: KindMissingField, Index: i, Field: "confidence"}
	}
	var confidence float64
	if err := json.Unmarshal(raw, &confidence); err != nil || math.IsNaN(confidence) {
		return c, &ValidationError{Kind: KindInvalidType, Index: i, Field: "confidence", Value: string(raw)}
	}
	c.Confidence = clamp01(confidence)

	urgency, err := requiredString(i, item, "urgency")
	if err != nil {
		return c, err
	}
	c.Urgency = Urgency(urgency)
	if !c.Urgency.Valid() {
		return c, &ValidationError{Kind: KindInvalidEnum, Index: i, Field: "urgency", Value: urgency}
	}

	return c, nil
}

func requiredString(i int, item map[string]json.RawMessage, field string) (string, error) {
	raw, ok := item[field]
	if !ok || isNull(raw) {
		return "", &ValidationError{Kind: KindMissingField, Index: i, Field: field}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &ValidationError{Kind: KindInvalidType, Index: i, Field: field, Value: string(raw)}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &ValidationError{Kind: KindMissingField, Index: i, Field: field}
	}
	return s, nil
}

func requiredStrings(i int, item map[string]json.RawMessage, field string) ([]string, error) {
	raw, ok := item[field]
	if !ok || isNull(raw) {
		return nil, &ValidationError{Kind: KindMissingField, Index: i, Field: field}
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &ValidationError{Kind: KindInvalidType, Index: i, Field: field}
	}
	return out, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
