package store

import (
	"errors"
	"sync"

	"symptom-checker-be/pkg/diagnosis"

	"github.com/google/uuid"
)

// SaveState tracks the save lifecycle of one candidate of one response.
type SaveState string

const (
	SaveUnsaved        SaveState = "UNSAVED"
	SaveStagingPending SaveState = "STAGING_PENDING"
	SaveSaving         SaveState = "SAVING"
	SaveSaved          SaveState = "SAVED"
	SaveFailed         SaveState = "SAVE_FAILED"
)

var (
	ErrStaleResponse  = errors.New("response belongs to a superseded request")
	ErrNoResults      = errors.New("no inference results for this session")
	ErrAlreadySaved   = errors.New("candidate already saved")
	ErrSaveInProgress = errors.New("candidate save already in progress")
)

// Session is the inference state of one client device: the active request,
// the ranked candidates it produced and the save state of each candidate.
// All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	DeviceID string

	activeRequest uuid.UUID
	inFlight      bool
	request       diagnosis.InferenceRequest
	ranking       *diagnosis.Ranking
	saveStates    map[int]SaveState
	savedRecords  map[int]uuid.UUID
}

func NewSession(deviceID string) *Session {
	return &Session{DeviceID: deviceID}
}

// Snapshot is a consistent read of a session.
type Snapshot struct {
	Request      diagnosis.InferenceRequest
	Candidates   []diagnosis.Candidate
	SelectedRank int
	InFlight     bool
	SaveStates   map[int]SaveState
}

// Begin makes req the active request and drops previous results. Any
// response still in flight for an older request becomes stale.
func (s *Session) Begin(req diagnosis.InferenceRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeRequest = req.RequestID
	s.inFlight = true
	s.request = req
	s.ranking = nil
	s.saveStates = map[int]SaveState{}
	s.savedRecords = map[int]uuid.UUID{}
}

// Complete stores the ranking only if requestID is still the active request
// and returns the state it produced.
func (s *Session) Complete(requestID uuid.UUID, ranking *diagnosis.Ranking) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current(requestID) {
		return Snapshot{}, ErrStaleResponse
	}
	s.inFlight = false
	s.ranking = ranking
	snap, _ := s.snapshot()
	return snap, nil
}

// Fail ends the in-flight state of requestID without results.
func (s *Session) Fail(requestID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current(requestID) {
		return ErrStaleResponse
	}
	s.inFlight = false
	return nil
}

// Abandon discards everything; in-flight responses become stale.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeRequest = uuid.Nil
	s.inFlight = false
	s.ranking = nil
	s.saveStates = nil
	s.savedRecords = nil
}

func (s *Session) IsActive(requestID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(requestID)
}

func (s *Session) current(requestID uuid.UUID) bool {
	return requestID != uuid.Nil && requestID == s.activeRequest
}

func (s *Session) Select(rank int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ranking == nil {
		return ErrNoResults
	}
	return s.ranking.Select(rank)
}

// Selected returns the selected candidate together with the request that produced it.
func (s *Session) Selected() (diagnosis.Candidate, diagnosis.InferenceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ranking == nil {
		return diagnosis.Candidate{}, diagnosis.InferenceRequest{}, ErrNoResults
	}
	c, _ := s.ranking.Selected()
	return c, s.request, nil
}

func (s *Session) Snapshot() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() (Snapshot, error) {
	snap := Snapshot{Request: s.request, InFlight: s.inFlight}
	if s.ranking == nil {
		return snap, ErrNoResults
	}
	snap.Candidates = s.ranking.Candidates()
	snap.SelectedRank = s.ranking.SelectedRank()
	snap.SaveStates = make(map[int]SaveState, len(snap.Candidates))
	for _, c := range snap.Candidates {
		snap.SaveStates[c.Rank] = s.stateOf(c.Rank)
	}
	return snap, nil
}

func (s *Session) StateOf(rank int) SaveState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateOf(rank)
}

func (s *Session) stateOf(rank int) SaveState {
	if st, ok := s.saveStates[rank]; ok {
		return st
	}
	return SaveUnsaved
}

// BeginSave moves the candidate to Saving. Saved is terminal; a save already
// in progress is not started twice.
func (s *Session) BeginSave(requestID uuid.UUID, rank int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current(requestID) {
		return ErrStaleResponse
	}
	switch s.stateOf(rank) {
	case SaveSaved:
		return ErrAlreadySaved
	case SaveSaving:
		return ErrSaveInProgress
	}
	s.saveStates[rank] = SaveSaving
	return nil
}

func (s *Session) FinishSave(requestID uuid.UUID, rank int, recordID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current(requestID) {
		return
	}
	s.saveStates[rank] = SaveSaved
	s.savedRecords[rank] = recordID
}

func (s *Session) FailSave(requestID uuid.UUID, rank int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current(requestID) {
		return
	}
	s.saveStates[rank] = SaveFailed
}

// MarkStaged records that the candidate waits in staging for authentication.
func (s *Session) MarkStaged(requestID uuid.UUID, rank int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current(requestID) {
		return ErrStaleResponse
	}
	switch s.stateOf(rank) {
	case SaveSaved:
		return ErrAlreadySaved
	case SaveSaving:
		return ErrSaveInProgress
	}
	s.saveStates[rank] = SaveStagingPending
	return nil
}

func (s *Session) SavedRecord(rank int) (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.savedRecords[rank]
	return id, ok
}
