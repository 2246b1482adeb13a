package diagnosis

import (
	"fmt"
	"strings"

	"symptom-checker-be/pkg/llm"

	"github.com/google/uuid"
)

const ToolName = "return_diagnoses"

const systemPrompt = `You are a medical symptom analyzer AI. Based on the symptoms provided, analyze and suggest possible conditions.

IMPORTANT: You are NOT providing medical diagnosis. You are providing educational information about possible conditions that match the symptoms.
Always recommend consulting a healthcare professional for proper diagnosis and treatment.

Analyze the symptoms and return 3-5 possible conditions ranked by likelihood.`

// Build turns the user's input into an inference request. Callers must have
// checked that symptoms is non-empty and severity is valid.
func Build(symptoms SymptomSet, severity Severity, notes string) InferenceRequest {
	cp := make(SymptomSet, len(symptoms))
	copy(cp, symptoms)
	return InferenceRequest{
		RequestID: uuid.New(),
		Symptoms:  cp,
		Severity:  severity,
		Notes:     strings.TrimSpace(notes),
	}
}

// Messages renders the system and user instructions for a request.
func Messages(req InferenceRequest) []llm.Message {
	var b strings.Builder
	b.WriteString("Analyze these symptoms and suggest possible conditions:\n\n")
	fmt.Fprintf(&b, "Symptoms: %s\n", strings.Join(req.Symptoms, ", "))
	fmt.Fprintf(&b, "Severity: %s\n", req.Severity)
	if req.Notes != "" {
		fmt.Fprintf(&b, "Additional Notes: %s\n", req.Notes)
	}
	b.WriteString("\nProvide 3-5 possible conditions that match these symptoms, ranked by likelihood.")

	return []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: b.String()},
	}
}

// CandidateFields lists the fields every diagnoses element must carry.
var CandidateFields = []string{"disease", "description", "commonSymptoms", "medicines", "confidence", "urgency"}

// DiagnosisTool is the fixed function-call declaration the backend must answer through.
// It does not depend on the request.
func DiagnosisTool() llm.Tool {
	required := make([]interface{}, len(CandidateFields))
	for i, f := range CandidateFields {
		required[i] = f
	}

	item := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"disease": map[string]interface{}{
				"type":        "string",
				"description": "Name of the condition/disease",
			},
			"description": map[string]interface{}{
				"type":        "string",
				"description": "Brief description of the condition (2-3 sentences)",
			},
			"commonSymptoms": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Common symptoms associated with this condition",
			},
			"medicines": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Common treatments or medications (OTC or general categories)",
			},
			"confidence": map[string]interface{}{
				"type":        "number",
				"description": "Confidence score between 0 and 1 based on symptom match",
			},
			"urgency": map[string]interface{}{
				"type":        "string",
				"enum":        []interface{}{string(UrgencyLow), string(UrgencyMedium), string(UrgencyHigh)},
				"description": "How urgently the person should seek medical care",
			},
		},
		"required":             required,
		"additionalProperties": false,
	}

	return llm.Tool{
		Type: "function",
		Function: llm.FunctionDef{
			Name:        ToolName,
			Description: "Return a list of possible medical conditions based on the symptoms",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"diagnoses": map[string]interface{}{
						"type":  "array",
						"items": item,
					},
				},
				"required":             []interface{}{"diagnoses"},
				"additionalProperties": false,
			},
		},
	}
}
