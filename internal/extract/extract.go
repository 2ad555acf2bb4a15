// Package extract runs the extraction collaborator over a list of raw
// population records.
package extract

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/roommate-matcher/internal/logger"
	"github.com/spigell/roommate-matcher/internal/profile"
	"github.com/spigell/roommate-matcher/internal/utils"
)

// Extractor turns one raw record into a structured one.
type Extractor interface {
	Extract(ctx context.Context, r profile.RawRecord) (profile.RawRecord, error)
}

// Summary counts the outcome of a run.
type Summary struct {
	Total     int
	Extracted int
	Skipped   int
	Failed    int
}

type Runner struct {
	extractor Extractor
	delay     time.Duration
	logger    *zap.Logger
}

// NewRunner creates a runner pausing delay between extraction requests.
func NewRunner(extractor Extractor, delay time.Duration, log *zap.Logger) *Runner {
	return &Runner{
		extractor: extractor,
		delay:     delay,
		logger:    logger.WithFields(log),
	}
}

// Run extracts every record that carries raw profile text. Records without
// text, and records the extractor fails on, are kept as they are. Only
// context cancellation aborts the run; the records processed so far are
// returned with the error.
func (r *Runner) Run(ctx context.Context, records []profile.RawRecord) ([]profile.RawRecord, Summary, error) {
	out := make([]profile.RawRecord, 0, len(records))
	sum := Summary{Total: len(records)}
	requested := false

	for _, rec := range records {
		if strings.TrimSpace(rec.RawProfileText) == "" || r.extractor == nil {
			out = append(out, rec)
			sum.Skipped++
			continue
		}

		if requested {
			if err := utils.WaitFor(ctx, r.delay); err != nil {
				return out, sum, err
			}
		}
		requested = true

		extracted, err := r.extractor.Extract(ctx, rec)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return out, sum, err
			}
			r.logger.Warn("extraction failed; keeping record fields",
				zap.String("profile_id", rec.ID),
				zap.Error(err),
			)
			out = append(out, rec)
			sum.Failed++
			continue
		}

		r.logger.Info("profile extracted", zap.String("profile_id", extracted.ID))
		out = append(out, extracted)
		sum.Extracted++
	}

	r.logger.Info("extraction completed",
		zap.Int("total", sum.Total),
		zap.Int("extracted", sum.Extracted),
		zap.Int("skipped", sum.Skipped),
		zap.Int("failed", sum.Failed),
	)

	return out, sum, nil
}
