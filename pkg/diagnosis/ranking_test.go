package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioRanking(t *testing.T) *Ranking {
	t.Helper()
	candidates, err := Normalize(raw(twoCandidates))
	require.NoError(t, err)
	r, err := NewRanking(candidates)
	require.NoError(t, err)
	return r
}

func TestRanking_DefaultSelectionIsMostLikely(t *testing.T) {
	r := scenarioRanking(t)

	sel, ok := r.Selected()
	require.True(t, ok)
	assert.Equal(t, 1, sel.Rank)
	assert.Equal(t, 0.85, sel.Confidence)
	assert.Equal(t, TierMostLikely, TierOf(sel.Rank))

	second, err := r.Get(2)
	require.NoError(t, err)
	assert.Equal(t, 0.6, second.Confidence)
	assert.Equal(t, TierPossible, TierOf(second.Rank))
}

func TestRanking_SingleSelection(t *testing.T) {
	r := scenarioRanking(t)

	require.NoError(t, r.Select(2))
	assert.Equal(t, 2, r.Current().Rank)
	assert.Equal(t, 2, r.SelectedRank())

	require.NoError(t, r.Select(1))
	assert.Equal(t, 1, r.Current().Rank)

	// Exactly one candidate is ever selected.
	selected := 0
	for _, c := range r.Candidates() {
		if c.Rank == r.SelectedRank() {
			selected++
		}
	}
	assert.Equal(t, 1, selected)
}

func TestRanking_SelectOutOfRange(t *testing.T) {
	r := scenarioRanking(t)

	assert.ErrorIs(t, r.Select(0), ErrOutOfRange)
	assert.ErrorIs(t, r.Select(3), ErrOutOfRange)
	assert.Equal(t, 1, r.SelectedRank())
}

func TestTierOf(t *testing.T) {
	assert.Equal(t, TierMostLikely, TierOf(1))
	assert.Equal(t, TierPossible, TierOf(2))
	assert.Equal(t, TierLessLikely, TierOf(3))
	assert.Equal(t, TierLessLikely, TierOf(5))
}

func TestNewRanking_RejectsGaps(t *testing.T) {
	_, err := NewRanking([]Candidate{{Disease: "A", Rank: 1}, {Disease: "B", Rank: 3}})
	assert.Error(t, err)

	_, err = NewRanking(nil)
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestRanking_ConfidenceOrder(t *testing.T) {
	r, err := NewRanking([]Candidate{
		{Disease: "A", Rank: 1, Confidence: 0.4},
		{Disease: "B", Rank: 2, Confidence: 0.9},
		{Disease: "C", Rank: 3, Confidence: 0.4},
	})
	require.NoError(t, err)

	assert.False(t, r.IsConfidenceOrdered())

	sorted := r.SortedByConfidence()
	assert.Equal(t, []string{"B", "A", "C"}, []string{sorted[0].Disease, sorted[1].Disease, sorted[2].Disease})
	// Re-deriving the order does not touch ranks or the backend order.
	assert.Equal(t, 2, sorted[0].Rank)
	assert.Equal(t, "A", r.Candidates()[0].Disease)

	ordered := scenarioRanking(t)
	assert.True(t, ordered.IsConfidenceOrdered())
}

func TestRuleScoreAndBand(t *testing.T) {
	assert.Equal(t, 0.78, RuleScore(0.85))
	assert.Equal(t, 0.0, RuleScore(0))
	assert.Equal(t, 0.92, RuleScore(1.5))

	assert.Equal(t, BandHigh, BandOf(0.8))
	assert.Equal(t, BandMedium, BandOf(0.5))
	assert.Equal(t, BandLow, BandOf(0.49))
}
