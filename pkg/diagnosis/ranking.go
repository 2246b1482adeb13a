package diagnosis

import (
	"fmt"
	"sort"
)

type RankTier string

const (
	TierMostLikely RankTier = "Most Likely"
	TierPossible   RankTier = "Possible"
	TierLessLikely RankTier = "Less Likely"
)

// TierOf buckets a rank into its display tier.
func TierOf(rank int) RankTier {
	switch {
	case rank <= 1:
		return TierMostLikely
	case rank == 2:
		return TierPossible
	default:
		return TierLessLikely
	}
}

// Ranking holds the candidates of one inference response and the single
// active selection. Exactly one candidate is selected at any time, rank 1
// until the user picks another. Not safe for concurrent use.
type Ranking struct {
	candidates []Candidate
	selected   int
}

func NewRanking(candidates []Candidate) (*Ranking, error) {
	if len(candidates) == 0 {
		return nil, ErrEmptyResult
	}
	cp := make([]Candidate, len(candidates))
	for i, c := range candidates {
		if c.Rank != i+1 {
			return nil, fmt.Errorf("candidate %q has rank %d at position %d: ranks must be contiguous from 1", c.Disease, c.Rank, i)
		}
		cp[i] = c
	}
	return &Ranking{candidates: cp, selected: 1}, nil
}

func (r *Ranking) Len() int {
	return len(r.candidates)
}

// Candidates returns a copy in rank order.
func (r *Ranking) Candidates() []Candidate {
	cp := make([]Candidate, len(r.candidates))
	copy(cp, r.candidates)
	return cp
}

func (r *Ranking) Select(rank int) error {
	if rank < 1 || rank > len(r.candidates) {
		return ErrOutOfRange
	}
	r.selected = rank
	return nil
}

// Current returns the selected candidate.
func (r *Ranking) Current() Candidate {
	return r.candidates[r.selected-1]
}

func (r *Ranking) Selected() (Candidate, bool) {
	if r == nil || len(r.candidates) == 0 {
		return Candidate{}, false
	}
	return r.Current(), true
}

func (r *Ranking) SelectedRank() int {
	return r.selected
}

// Get returns the candidate with the given rank.
func (r *Ranking) Get(rank int) (Candidate, error) {
	if rank < 1 || rank > len(r.candidates) {
		return Candidate{}, ErrOutOfRange
	}
	return r.candidates[rank-1], nil
}

// SortedByConfidence re-derives a total order by confidence, highest first,
// with rank breaking ties. Ranks are left untouched; rank stays the order of truth.
func (r *Ranking) SortedByConfidence() []Candidate {
	out := r.Candidates()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Rank < out[j].Rank
	})
	return out
}

// IsConfidenceOrdered reports whether the backend order is non-increasing in confidence.
func (r *Ranking) IsConfidenceOrdered() bool {
	for i := 1; i < len(r.candidates); i++ {
		if r.candidates[i].Confidence > r.candidates[i-1].Confidence {
			return false
		}
	}
	return true
}
