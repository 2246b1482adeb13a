package service

import (
	"context"
	"errors"
	"time"

	"symptom-checker-be/internal/dto"
	"symptom-checker-be/internal/pkg/logger"
	"symptom-checker-be/internal/pkg/metrics"
	"symptom-checker-be/internal/repository/memory"
	"symptom-checker-be/internal/tracer"
	"symptom-checker-be/pkg/diagnosis"
	"symptom-checker-be/pkg/llm"
	"symptom-checker-be/pkg/staging"
	"symptom-checker-be/pkg/store"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const (
	inferenceModule = "INFERENCE"
	stagingModule   = "STAGING"
)

// Inferer is the completion backend as seen by the inference service.
type Inferer interface {
	Infer(ctx context.Context, req diagnosis.InferenceRequest) (diagnosis.RawCompletion, error)
}

type IDiagnosisService interface {
	RunInference(ctx context.Context, deviceID string, req dto.AnalyzeRequest) (*dto.SessionResponse, error)
	GetSession(deviceID string) (*dto.SessionResponse, error)
	SelectCandidate(deviceID string, rank int) (*dto.SessionResponse, error)
	GetSelected(deviceID string) (*dto.CandidateResponse, error)
	SaveSelected(ctx context.Context, deviceID string, principal uuid.UUID) (*dto.SaveResponse, error)
	AbandonSession(deviceID string)
	GetPending(ctx context.Context, deviceID string) (*dto.PendingSelectionResponse, error)
	ClearPending(ctx context.Context, deviceID string)
	SymptomVocabulary() dto.SymptomVocabularyResponse
}

type diagnosisService struct {
	gateway  Inferer
	sessions *memory.SessionRepository
	staging  *staging.Store
	history  IHistoryService
	logger   logger.ILogger
}

func NewDiagnosisService(
	gateway Inferer,
	sessions *memory.SessionRepository,
	stagingStore *staging.Store,
	history IHistoryService,
	logger logger.ILogger,
) IDiagnosisService {
	return &diagnosisService{
		gateway:  gateway,
		sessions: sessions,
		staging:  stagingStore,
		history:  history,
		logger:   logger,
	}
}

// RunInference supersedes whatever the device had in flight. The response is
// kept only if no newer request started while the backend was working.
func (s *diagnosisService) RunInference(ctx context.Context, deviceID string, req dto.AnalyzeRequest) (res *dto.SessionResponse, err error) {
	if deviceID == "" {
		return nil, ErrDeviceRequired
	}
	symptoms := diagnosis.NewSymptomSet(req.Symptoms...)
	if len(symptoms) == 0 {
		return nil, diagnosis.ErrNoSymptoms
	}
	severity := diagnosis.Severity(req.Severity)
	if !severity.Valid() {
		return nil, diagnosis.ErrInvalidSeverity
	}

	request := diagnosis.Build(symptoms, severity, req.Notes)
	ctx, span := tracer.Start(ctx, "diagnosis.infer",
		attribute.String("diagnosis.request_id", request.RequestID.String()),
		attribute.Int("diagnosis.symptoms", len(symptoms)),
		attribute.String("diagnosis.severity", string(severity)),
	)
	defer func() { tracer.End(span, err) }()

	session := s.sessions.GetOrCreate(deviceID)
	session.Begin(request)

	details := map[string]interface{}{
		"device_id":  deviceID,
		"request_id": request.RequestID.String(),
		"symptoms":   len(symptoms),
		"severity":   string(severity),
	}
	s.logger.Info(inferenceModule, "Inference started", details)

	start := time.Now()
	raw, err := s.gateway.Infer(ctx, request)
	if err != nil {
		metrics.RecordInference(string(llm.KindOf(err)), time.Since(start))
		return nil, s.fail(session, request.RequestID, "Completion backend call failed", err, details)
	}

	candidates, err := diagnosis.Normalize(raw)
	if err != nil {
		metrics.RecordInference("invalid_response", time.Since(start))
		return nil, s.fail(session, request.RequestID, "Completion backend returned an invalid payload", err, details)
	}
	ranking, err := diagnosis.NewRanking(candidates)
	if err != nil {
		metrics.RecordInference("invalid_response", time.Since(start))
		return nil, s.fail(session, request.RequestID, "Candidates could not be ranked", err, details)
	}

	snap, err := session.Complete(request.RequestID, ranking)
	if err != nil {
		metrics.RecordInference("stale", time.Since(start))
		s.logger.Info(inferenceModule, "Discarded response of superseded request", details)
		return nil, err
	}

	metrics.RecordInference("ok", time.Since(start))
	metrics.RecordCandidates(ranking.Len())
	span.SetAttributes(attribute.Int("diagnosis.candidates", ranking.Len()))
	details["candidates"] = ranking.Len()
	details["model"] = raw.Model
	details["confidence_ordered"] = ranking.IsConfidenceOrdered()
	s.logger.Info(inferenceModule, "Inference completed", details)

	return toSessionResponse(snap), nil
}

func (s *diagnosisService) fail(session *store.Session, requestID uuid.UUID, msg string, err error, details map[string]interface{}) error {
	if staleErr := session.Fail(requestID); staleErr != nil {
		// nobody is waiting for this request anymore
		return staleErr
	}
	details["error"] = err.Error()
	s.logger.Warn(inferenceModule, msg, details)
	return err
}

func (s *diagnosisService) session(deviceID string) (*store.Session, error) {
	if deviceID == "" {
		return nil, ErrDeviceRequired
	}
	session, ok := s.sessions.Get(deviceID)
	if !ok {
		return nil, store.ErrNoResults
	}
	return session, nil
}

func (s *diagnosisService) GetSession(deviceID string) (*dto.SessionResponse, error) {
	session, err := s.session(deviceID)
	if err != nil {
		return nil, err
	}

	snap, err := session.Snapshot()
	if err != nil && !(errors.Is(err, store.ErrNoResults) && snap.InFlight) {
		return nil, err
	}
	return toSessionResponse(snap), nil
}

func (s *diagnosisService) SelectCandidate(deviceID string, rank int) (*dto.SessionResponse, error) {
	session, err := s.session(deviceID)
	if err != nil {
		return nil, err
	}
	if err := session.Select(rank); err != nil {
		return nil, err
	}
	return s.GetSession(deviceID)
}

func (s *diagnosisService) GetSelected(deviceID string) (*dto.CandidateResponse, error) {
	session, err := s.session(deviceID)
	if err != nil {
		return nil, err
	}
	candidate, _, err := session.Selected()
	if err != nil {
		return nil, err
	}
	res := toCandidateResponse(candidate, session.StateOf(candidate.Rank))
	return &res, nil
}

// SaveSelected persists the selected candidate for an authenticated principal.
// Without a principal the candidate is staged for the device instead and
// flushed once the device signs in.
func (s *diagnosisService) SaveSelected(ctx context.Context, deviceID string, principal uuid.UUID) (*dto.SaveResponse, error) {
	session, err := s.session(deviceID)
	if err != nil {
		return nil, err
	}
	candidate, request, err := session.Selected()
	if err != nil {
		return nil, err
	}

	if principal == uuid.Nil {
		return s.stage(ctx, session, deviceID, candidate, request)
	}

	if err := session.BeginSave(request.RequestID, candidate.Rank); err != nil {
		return nil, err
	}

	record, err := s.history.Create(ctx, principal, recordFrom(candidate, request.Symptoms, request.Severity, request.Notes))
	if err != nil {
		session.FailSave(request.RequestID, candidate.Rank)
		metrics.RecordSave("failed")
		return nil, err
	}
	session.FinishSave(request.RequestID, candidate.Rank, record.Id)
	metrics.RecordSave("saved")

	if pending, ok := s.staging.Read(ctx, deviceID); ok &&
		pending.RequestID == request.RequestID && pending.Candidate.Rank == candidate.Rank {
		s.staging.ClearIf(ctx, deviceID, pending.StagedAt)
	}

	return &dto.SaveResponse{
		State:  string(store.SaveSaved),
		Rank:   candidate.Rank,
		Record: record,
	}, nil
}

func (s *diagnosisService) stage(ctx context.Context, session *store.Session, deviceID string, candidate diagnosis.Candidate, request diagnosis.InferenceRequest) (*dto.SaveResponse, error) {
	switch session.StateOf(candidate.Rank) {
	case store.SaveSaved:
		return nil, store.ErrAlreadySaved
	case store.SaveSaving:
		return nil, store.ErrSaveInProgress
	}

	pending, err := s.staging.Stage(ctx, deviceID, staging.PendingSelection{
		RequestID: request.RequestID,
		Candidate: candidate,
		Symptoms:  request.Symptoms,
		Severity:  request.Severity,
		Notes:     request.Notes,
	})
	if err != nil {
		// staging is best effort; the user can still sign in and save again
		s.logger.Warn(stagingModule, "Failed to stage selection", map[string]interface{}{
			"device_id": deviceID,
			"error":     err.Error(),
		})
		metrics.RecordSave("failed")
		return &dto.SaveResponse{State: string(session.StateOf(candidate.Rank)), Rank: candidate.Rank}, nil
	}

	if err := session.MarkStaged(request.RequestID, candidate.Rank); err != nil {
		return nil, err
	}
	metrics.RecordSave("staged")
	s.logger.Info(stagingModule, "Selection staged until sign in", map[string]interface{}{
		"device_id":  deviceID,
		"request_id": request.RequestID.String(),
		"rank":       candidate.Rank,
	})

	res := s.toPendingResponse(pending)
	return &dto.SaveResponse{
		State:   string(store.SaveStagingPending),
		Rank:    candidate.Rank,
		Pending: &res,
	}, nil
}

func (s *diagnosisService) AbandonSession(deviceID string) {
	if session, ok := s.sessions.Get(deviceID); ok {
		session.Abandon()
	}
	s.sessions.Delete(deviceID)
}

func (s *diagnosisService) GetPending(ctx context.Context, deviceID string) (*dto.PendingSelectionResponse, error) {
	if deviceID == "" {
		return nil, ErrDeviceRequired
	}
	pending, ok := s.staging.Read(ctx, deviceID)
	if !ok {
		return nil, ErrNoPending
	}
	res := s.toPendingResponse(*pending)
	return &res, nil
}

func (s *diagnosisService) ClearPending(ctx context.Context, deviceID string) {
	if deviceID == "" {
		return
	}
	s.staging.Clear(ctx, deviceID)
}

func (s *diagnosisService) SymptomVocabulary() dto.SymptomVocabularyResponse {
	symptoms := make([]string, len(diagnosis.CommonSymptoms))
	copy(symptoms, diagnosis.CommonSymptoms)
	return dto.SymptomVocabularyResponse{Symptoms: symptoms}
}

func (s *diagnosisService) toPendingResponse(p staging.PendingSelection) dto.PendingSelectionResponse {
	return dto.PendingSelectionResponse{
		RequestId: p.RequestID,
		Candidate: toCandidateResponse(p.Candidate, store.SaveStagingPending),
		Symptoms:  p.Symptoms,
		Severity:  string(p.Severity),
		Notes:     p.Notes,
		StagedAt:  p.StagedAt,
		ExpiresAt: p.StagedAt.Add(s.staging.TTL()),
	}
}

func recordFrom(c diagnosis.Candidate, symptoms []string, severity diagnosis.Severity, notes string) dto.CreateDiagnosisRecord {
	return dto.CreateDiagnosisRecord{
		Disease:     c.Disease,
		Description: c.Description,
		Symptoms:    append([]string(nil), symptoms...),
		Severity:    string(severity),
		Medicines:   append([]string(nil), c.Medicines...),
		Urgency:     string(c.Urgency),
		AiScore:     c.Confidence,
		Notes:       notes,
	}
}

func toCandidateResponse(c diagnosis.Candidate, state store.SaveState) dto.CandidateResponse {
	return dto.CandidateResponse{
		Rank:           c.Rank,
		Tier:           string(diagnosis.TierOf(c.Rank)),
		Disease:        c.Disease,
		Description:    c.Description,
		CommonSymptoms: c.CommonSymptoms,
		Medicines:      c.Medicines,
		Confidence:     c.Confidence,
		ConfidenceBand: string(diagnosis.BandOf(c.Confidence)),
		Urgency:        string(c.Urgency),
		SaveState:      string(state),
	}
}

func toSessionResponse(snap store.Snapshot) *dto.SessionResponse {
	res := &dto.SessionResponse{
		RequestId:    snap.Request.RequestID,
		Symptoms:     snap.Request.Symptoms,
		Severity:     string(snap.Request.Severity),
		Notes:        snap.Request.Notes,
		InFlight:     snap.InFlight,
		SelectedRank: snap.SelectedRank,
		Candidates:   make([]dto.CandidateResponse, 0, len(snap.Candidates)),
	}
	ordered := true
	for i, c := range snap.Candidates {
		res.Candidates = append(res.Candidates, toCandidateResponse(c, snap.SaveStates[c.Rank]))
		if i > 0 && c.Confidence > snap.Candidates[i-1].Confidence {
			ordered = false
		}
	}
	res.ConfidenceOrdered = ordered
	return res
}
