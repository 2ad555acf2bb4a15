package advice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/roommate-matcher/internal/profile"
	"github.com/spigell/roommate-matcher/internal/ranking"
	"github.com/spigell/roommate-matcher/internal/scoring"
)

func requester() *profile.Profile {
	return &profile.Profile{
		ID:            "R-1",
		City:          "Karachi",
		Area:          "Gulshan",
		Budget:        profile.Budget(20000),
		SleepSchedule: profile.SleepEarly,
		Cleanliness:   profile.CleanlinessHigh,
	}
}

func match(score int, snap profile.Snapshot, flags ...scoring.FlagType) ranking.MatchResult {
	m := ranking.MatchResult{RoommateID: "R-2", Score: score, Profile: snap}
	for _, f := range flags {
		m.RedFlags = append(m.RedFlags, scoring.RedFlag{Type: f, Severity: scoring.SeverityHigh, Confidence: 80})
	}
	return m
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		m      ranking.MatchResult
		expect []string
	}{
		{
			name: "great match all positives",
			m: match(100, profile.Snapshot{
				City:          "karachi",
				Area:          " Gulshan ",
				Budget:        profile.Budget(21000),
				SleepSchedule: profile.SleepEarly,
				Cleanliness:   profile.CleanlinessHigh,
			}),
			expect: []string{openingGreat, sameCityAndArea, closeBudgets, sameSleep, sameCleanliness, closingOptimistic},
		},
		{
			name:   "promising same city only",
			m:      match(65, profile.Snapshot{City: "Karachi", Area: "DHA", Budget: profile.Budget(23000)}),
			expect: []string{openingPromising, sameCity, closingNeutral},
		},
		{
			name: "flags in fixed order with cautious closing",
			m: match(30, profile.Snapshot{City: "Lahore", SleepSchedule: profile.SleepNightOwl},
				scoring.FlagCleanlinessMismatch,
				scoring.FlagLifestyleMismatch,
				scoring.FlagSleepMismatch,
				scoring.FlagBudgetDisparity,
			),
			expect: []string{openingChallenging, sleepAdvice, budgetAdvice, cleanlinessAdvice, closingCautious},
		},
		{
			name:   "flag without sentence still turns closing cautious",
			m:      match(85, profile.Snapshot{}, scoring.FlagGuestPolicy),
			expect: []string{openingGreat, closingCautious},
		},
		{
			name:   "tier boundaries",
			m:      match(80, profile.Snapshot{}),
			expect: []string{openingGreat, closingOptimistic},
		},
		{
			name:   "optimistic needs 70",
			m:      match(69, profile.Snapshot{}),
			expect: []string{openingPromising, closingNeutral},
		},
		{
			name:   "just below promising",
			m:      match(59, profile.Snapshot{}),
			expect: []string{openingChallenging, closingNeutral},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, strings.Join(tt.expect, " "), Generate(requester(), tt.m))
		})
	}
}

func TestGenerateBudgetGapBoundary(t *testing.T) {
	t.Parallel()

	at := Generate(requester(), match(50, profile.Snapshot{Budget: profile.Budget(23000)}))
	assert.NotContains(t, at, closeBudgets)

	under := Generate(requester(), match(50, profile.Snapshot{Budget: profile.Budget(17001)}))
	assert.Contains(t, under, closeBudgets)

	missing := Generate(&profile.Profile{ID: "R-3"}, match(50, profile.Snapshot{Budget: profile.Budget(20000)}))
	assert.NotContains(t, missing, closeBudgets)
}

func TestGenerateDeterministic(t *testing.T) {
	t.Parallel()

	m := match(72, profile.Snapshot{City: "Karachi", SleepSchedule: profile.SleepEarly}, scoring.FlagBudgetDisparity)
	first := Generate(requester(), m)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Generate(requester(), m))
	}
}

func TestReport(t *testing.T) {
	t.Parallel()

	m := match(90, profile.Snapshot{})
	r := Report(requester(), m)
	assert.Equal(t, "R-1", r.ProfileID)
	assert.Equal(t, "R-2", r.MatchID)
	assert.Equal(t, Generate(requester(), m), r.Text)

	assert.Equal(t, "", Report(nil, m).ProfileID)
}
