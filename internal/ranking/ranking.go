package ranking

import (
	"fmt"
	"slices"

	"github.com/spigell/roommate-matcher/internal/profile"
	"github.com/spigell/roommate-matcher/internal/scoring"
)

const DefaultTopK = 5

// MatchResult is one scored candidate for a requester.
type MatchResult struct {
	RoommateID string            `json:"roommate_id"`
	Score      int               `json:"score"`
	Mode       scoring.Mode      `json:"mode"`
	Profile    profile.Snapshot  `json:"profile"`
	RedFlags   []scoring.RedFlag `json:"red_flags"`
	Breakdown  []scoring.Factor  `json:"breakdown,omitempty"`
}

// Ranker ranks candidates using a conflict detector. The zero value uses
// the default detector.
type Ranker struct {
	Detector scoring.Detector
}

func New(detector scoring.Detector) *Ranker {
	return &Ranker{Detector: detector}
}

// Rank runs the default ranker.
func Rank(p *profile.Profile, population []profile.Profile, topK int) ([]MatchResult, error) {
	return (&Ranker{}).Rank(p, population, topK)
}

// Rank scores every candidate except the requester, sorts by score
// descending keeping population order for ties and returns at most topK
// results. topK <= 0 means DefaultTopK.
func (r *Ranker) Rank(p *profile.Profile, population []profile.Profile, topK int) ([]MatchResult, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("requester: %w", err)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	results := make([]MatchResult, 0, len(population))
	for i := range population {
		candidate := &population[i]
		if candidate.ID == p.ID {
			continue
		}
		results = append(results, r.match(p, candidate))
	}

	slices.SortStableFunc(results, func(a, b MatchResult) int {
		return b.Score - a.Score
	})

	if len(results) > topK {
		results = results[:topK]
	}

	return results, nil
}

// Match scores a single candidate against the requester.
func (r *Ranker) Match(p, candidate *profile.Profile) MatchResult {
	return r.match(p, candidate)
}

func (r *Ranker) match(p, candidate *profile.Profile) MatchResult {
	res := scoring.Auto(p, candidate)
	return MatchResult{
		RoommateID: candidate.ID,
		Score:      res.Score,
		Mode:       res.Mode,
		Profile:    candidate.Snapshot(),
		RedFlags:   r.Detector.Detect(p, candidate),
		Breakdown:  res.Breakdown,
	}
}
