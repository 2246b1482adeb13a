package service

import (
	"context"
	"testing"
	"time"

	"symptom-checker-be/internal/dto"
	"symptom-checker-be/internal/pkg/logger"
	"symptom-checker-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistory(t *testing.T) (*historyService, *fakeDB, *recordingPublisher) {
	t.Helper()
	db := &fakeDB{}
	pub := &recordingPublisher{}
	svc := NewHistoryService(fakeFactory{db: db}, pub, logger.NewNopLogger()).(*historyService)
	return svc, db, pub
}

func influenza() dto.CreateDiagnosisRecord {
	return dto.CreateDiagnosisRecord{
		Disease:     "Influenza",
		Description: "Viral infection of the respiratory tract",
		Symptoms:    []string{"Headache", "Fever"},
		Severity:    "moderate",
		Medicines:   []string{"Rest", "Fluids"},
		Urgency:     "medium",
		AiScore:     0.85,
		Notes:       "  started yesterday ",
	}
}

func TestHistoryService_Create(t *testing.T) {
	svc, db, pub := newHistory(t)
	user := uuid.New()

	start := time.Now()
	rec, err := svc.Create(context.Background(), user, influenza())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, rec.Id)
	assert.Equal(t, "Influenza", rec.Disease)
	assert.Equal(t, 0.85, rec.AiScore)
	assert.Equal(t, 0.78, rec.RuleScore)
	assert.Equal(t, "high", rec.ConfidenceBand)
	require.NotNil(t, rec.Notes)
	assert.Equal(t, "started yesterday", *rec.Notes)
	assert.False(t, rec.CreatedAt.Before(start))

	require.Len(t, db.diagnoses, 1)
	assert.Equal(t, user, db.diagnoses[0].UserId)
	assert.Equal(t, []string{events.TypeDiagnosisSaved}, pub.types())
}

func TestHistoryService_RequiresPrincipal(t *testing.T) {
	svc, db, _ := newHistory(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, uuid.Nil, influenza())
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Empty(t, db.diagnoses)

	_, err = svc.List(ctx, uuid.Nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	assert.ErrorIs(t, svc.Delete(ctx, uuid.Nil, uuid.New()), ErrUnauthenticated)

	_, err = svc.Stats(ctx, uuid.Nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestHistoryService_ListNewestFirstAndOwned(t *testing.T) {
	svc, _, _ := newHistory(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, disease := range []string{"Cold", "Migraine", "Influenza"} {
		at := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return at }
		req := influenza()
		req.Disease = disease
		_, err := svc.Create(ctx, alice, req)
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, bob, influenza())
	require.NoError(t, err)

	list, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Influenza", list[0].Disease)
	assert.Equal(t, "Migraine", list[1].Disease)
	assert.Equal(t, "Cold", list[2].Disease)

	empty, err := svc.List(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestHistoryService_Delete(t *testing.T) {
	svc, _, pub := newHistory(t)
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()

	rec, err := svc.Create(ctx, owner, influenza())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, stranger, rec.Id), ErrNotFound)

	require.NoError(t, svc.Delete(ctx, owner, rec.Id))
	assert.ErrorIs(t, svc.Delete(ctx, owner, rec.Id), ErrNotFound)

	list, err := svc.List(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, []string{events.TypeDiagnosisSaved, events.TypeDiagnosisDeleted}, pub.types())
}

func TestHistoryService_Stats(t *testing.T) {
	svc, _, _ := newHistory(t)
	ctx := context.Background()
	user := uuid.New()

	for _, sev := range []string{"mild", "mild", "moderate", "severe"} {
		req := influenza()
		req.Severity = sev
		_, err := svc.Create(ctx, user, req)
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, &dto.HistoryStatsResponse{Total: 4, Mild: 2, NonMild: 2}, stats)
}

func TestHistoryService_StorageFailure(t *testing.T) {
	svc, db, pub := newHistory(t)
	ctx := context.Background()
	db.fail = true

	_, err := svc.Create(ctx, uuid.New(), influenza())
	assert.ErrorIs(t, err, ErrStorageFailure)

	_, err = svc.List(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrStorageFailure)

	assert.ErrorIs(t, svc.Delete(ctx, uuid.New(), uuid.New()), ErrStorageFailure)
	assert.Empty(t, pub.types())
}
