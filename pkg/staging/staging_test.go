package staging

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"symptom-checker-be/pkg/diagnosis"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func samplePending() PendingSelection {
	return PendingSelection{
		Candidate: diagnosis.Candidate{
			Disease:        "Migraine",
			Description:    "A headache disorder.",
			CommonSymptoms: []string{"Headache"},
			Medicines:      []string{"Ibuprofen"},
			Confidence:     0.6,
			Urgency:        diagnosis.UrgencyLow,
			Rank:           2,
		},
		Symptoms: []string{"Headache", "Fever"},
		Severity: diagnosis.SeverityModerate,
		Notes:    "worse at night",
	}
}

func newMemoryStore(clock *fakeClock) (*Store, *MemoryBackend) {
	backend := NewMemoryBackend()
	return New(backend, WithClock(clock.Now)), backend
}

func TestStore_ReadableUntilExpiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)}
	store, backend := newMemoryStore(clock)

	staged, err := store.Stage(ctx, "device-1", samplePending())
	require.NoError(t, err)
	assert.Equal(t, clock.t, staged.StagedAt)

	clock.Advance(29 * time.Minute)
	got, ok := store.Read(ctx, "device-1")
	require.True(t, ok)
	assert.Equal(t, staged, *got)
	assert.True(t, store.Exists(ctx, "device-1"))

	clock.Advance(2 * time.Minute)
	got, ok = store.Read(ctx, "device-1")
	assert.False(t, ok)
	assert.Nil(t, got)

	// purged, not just hidden
	_, found, _ := backend.Get(ctx, key("device-1"))
	assert.False(t, found)
}

func TestStore_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Now()}
	store, _ := newMemoryStore(clock)

	first := samplePending()
	_, err := store.Stage(ctx, "device-1", first)
	require.NoError(t, err)

	second := samplePending()
	second.Candidate.Disease = "Influenza"
	second.Candidate.Rank = 1
	clock.Advance(time.Minute)
	_, err = store.Stage(ctx, "device-1", second)
	require.NoError(t, err)

	got, ok := store.Read(ctx, "device-1")
	require.True(t, ok)
	assert.Equal(t, "Influenza", got.Candidate.Disease)
	assert.Equal(t, clock.t.UTC(), got.StagedAt)
}

func TestStore_SlotsAreIndependent(t *testing.T) {
	ctx := context.Background()
	store, _ := newMemoryStore(&fakeClock{t: time.Now()})

	_, err := store.Stage(ctx, "device-1", samplePending())
	require.NoError(t, err)

	assert.True(t, store.Exists(ctx, "device-1"))
	assert.False(t, store.Exists(ctx, "device-2"))
}

func TestStore_CorruptValueIsPurged(t *testing.T) {
	ctx := context.Background()
	store, backend := newMemoryStore(&fakeClock{t: time.Now()})

	require.NoError(t, backend.Set(ctx, key("device-1"), []byte("{not json"), time.Hour))

	got, ok := store.Read(ctx, "device-1")
	assert.False(t, ok)
	assert.Nil(t, got)

	_, found, _ := backend.Get(ctx, key("device-1"))
	assert.False(t, found)
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, _ := newMemoryStore(&fakeClock{t: time.Now()})

	_, err := store.Stage(ctx, "device-1", samplePending())
	require.NoError(t, err)

	store.Clear(ctx, "device-1")
	store.Clear(ctx, "device-1")
	assert.False(t, store.Exists(ctx, "device-1"))
}

func TestStore_ClearIfKeepsNewerValue(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)}
	store, _ := newMemoryStore(clock)

	older, err := store.Stage(ctx, "device-1", samplePending())
	require.NoError(t, err)

	clock.Advance(time.Minute)
	newer := samplePending()
	newer.Candidate.Disease = "Influenza"
	_, err = store.Stage(ctx, "device-1", newer)
	require.NoError(t, err)

	assert.False(t, store.ClearIf(ctx, "device-1", older.StagedAt))
	got, ok := store.Read(ctx, "device-1")
	require.True(t, ok)
	assert.Equal(t, "Influenza", got.Candidate.Disease)

	assert.True(t, store.ClearIf(ctx, "device-1", got.StagedAt))
	assert.False(t, store.Exists(ctx, "device-1"))
	assert.False(t, store.ClearIf(ctx, "device-1", got.StagedAt))
}

type failingBackend struct{}

func (failingBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}
func (failingBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.New("connection refused")
}
func (failingBackend) Delete(ctx context.Context, key string) error {
	return errors.New("connection refused")
}
func (failingBackend) DeleteIf(ctx context.Context, key string, match func([]byte) bool) (bool, error) {
	return false, errors.New("connection refused")
}

func TestStore_BackendFailureReadsAsAbsent(t *testing.T) {
	store := New(failingBackend{})

	_, ok := store.Read(context.Background(), "device-1")
	assert.False(t, ok)
	assert.NotPanics(t, func() { store.Clear(context.Background(), "device-1") })
	assert.False(t, store.ClearIf(context.Background(), "device-1", time.Now()))
}

func TestRedisBackend(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping integration test: REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("Skipping integration test: redis unreachable: %v", err)
	}

	clock := &fakeClock{t: time.Now()}
	store := New(NewRedisBackend(rdb), WithClock(clock.Now))
	slot := "test-" + time.Now().Format("150405.000000")

	_, err = store.Stage(ctx, slot, samplePending())
	require.NoError(t, err)
	assert.True(t, store.Exists(ctx, slot))

	older, ok := store.Read(ctx, slot)
	require.True(t, ok)
	clock.Advance(time.Second)
	_, err = store.Stage(ctx, slot, samplePending())
	require.NoError(t, err)
	assert.False(t, store.ClearIf(ctx, slot, older.StagedAt))
	assert.True(t, store.Exists(ctx, slot))

	clock.Advance(31 * time.Minute)
	assert.False(t, store.Exists(ctx, slot))

	n, err := rdb.Exists(ctx, key(slot)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
