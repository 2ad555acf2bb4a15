package ranking

import (
	"context"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/spigell/roommate-matcher/internal/profile"
	"github.com/spigell/roommate-matcher/internal/scoring"
)

// PairResult is the outcome of scoring one unordered pair of the population.
type PairResult struct {
	IDA       string            `json:"id_a"`
	IDB       string            `json:"id_b"`
	Score     int               `json:"score"`
	Mode      scoring.Mode      `json:"mode"`
	Conflicts []scoring.RedFlag `json:"conflicts"`
}

// ScoreAllPairs runs the default ranker over the population matrix.
func ScoreAllPairs(ctx context.Context, population []profile.Profile, workers int) ([]PairResult, error) {
	return (&Ranker{}).ScoreAllPairs(ctx, population, workers)
}

// ScoreAllPairs scores every i<j pair exactly once. Results are returned in
// i<j order. Rows are spread over at most workers goroutines (GOMAXPROCS
// when workers <= 0). When ctx is cancelled the pairs computed so far are
// returned together with the context error.
func (r *Ranker) ScoreAllPairs(ctx context.Context, population []profile.Profile, workers int) ([]PairResult, error) {
	n := len(population)
	if n < 2 {
		return []PairResult{}, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	rows := make([][]PairResult, n-1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < n-1; i++ {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			row := make([]PairResult, 0, n-i-1)
			a := &population[i]
			for j := i + 1; j < n; j++ {
				if err := gctx.Err(); err != nil {
					rows[i] = row
					return err
				}
				b := &population[j]
				res := scoring.Auto(a, b)
				row = append(row, PairResult{
					IDA:       a.ID,
					IDB:       b.ID,
					Score:     res.Score,
					Mode:      res.Mode,
					Conflicts: r.Detector.Detect(a, b),
				})
			}
			rows[i] = row
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	total := 0
	for _, row := range rows {
		total += len(row)
	}

	out := make([]PairResult, 0, total)
	for _, row := range rows {
		out = append(out, row...)
	}

	return out, err
}

// Best returns the pair results sorted by score descending, keeping matrix
// order for ties, truncated to limit when limit > 0.
func Best(pairs []PairResult, limit int) []PairResult {
	sorted := slices.Clone(pairs)
	slices.SortStableFunc(sorted, func(a, b PairResult) int {
		return b.Score - a.Score
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
