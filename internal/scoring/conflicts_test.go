package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/roommate-matcher/internal/profile"
)

func TestLifestyleMismatchExample(t *testing.T) {
	t.Parallel()

	a := &profile.Profile{ID: "R-387", SleepSchedule: profile.SleepFlexible, NoiseTolerance: profile.NoiseMedium}
	b := &profile.Profile{ID: "R-388", SleepSchedule: profile.SleepNightOwl, NoiseTolerance: profile.NoiseHigh}

	require.Equal(t, LifestyleRelaxed, DeriveLifestyle(a))
	require.Equal(t, LifestyleSocial, DeriveLifestyle(b))

	ded, ok := LifestyleDeductionFor(a, b)
	require.True(t, ok)
	assert.Equal(t, 30, ded)

	flags := DetectConflicts(a, b)
	assert.Equal(t, []RedFlag{{Type: FlagLifestyleMismatch, Severity: SeverityHigh, Confidence: 85}}, flags)
}

func TestDetectRuleOrder(t *testing.T) {
	t.Parallel()

	a := &profile.Profile{
		ID:                  "A",
		Budget:              profile.Budget(10000),
		SleepSchedule:       profile.SleepEarly,
		Cleanliness:         profile.CleanlinessHigh,
		SecurityRequirement: "female_only_high_security",
	}
	b := &profile.Profile{
		ID:                  "B",
		Budget:              profile.Budget(40000),
		SleepSchedule:       profile.SleepNightOwl,
		Cleanliness:         profile.CleanlinessLow,
		SecurityRequirement: "flexible_mixed_housing_ok",
	}

	flags := DetectConflicts(a, b)
	require.Len(t, flags, 5)

	types := make([]FlagType, 0, len(flags))
	for _, f := range flags {
		types = append(types, f.Type)
	}
	assert.Equal(t, []FlagType{
		FlagSleepMismatch,
		FlagBudgetDisparity,
		FlagCleanlinessMismatch,
		FlagLifestyleMismatch,
		FlagGuestPolicy,
	}, types)

	assert.Equal(t, RedFlag{Type: FlagBudgetDisparity, Severity: SeverityCritical, Confidence: 88}, flags[1])
	assert.Equal(t, RedFlag{Type: FlagGuestPolicy, Severity: SeverityHigh, Confidence: 80}, flags[4])

	// Same flags in the same order when the pair is swapped.
	assert.Equal(t, flags, DetectConflicts(b, a))
}

func TestDetectIsDeterministic(t *testing.T) {
	t.Parallel()

	pop := population()
	for i := 0; i+1 < len(pop); i += 7 {
		first := DetectConflicts(pop[i], pop[i+1])
		for n := 0; n < 3; n++ {
			require.Equal(t, first, DetectConflicts(pop[i], pop[i+1]))
		}
		for _, f := range first {
			require.GreaterOrEqual(t, f.Confidence, 0)
			require.LessOrEqual(t, f.Confidence, 100)
		}
	}
}

func TestSleepAndCleanlinessRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		a, b   profile.Profile
		expect []FlagType
	}{
		{
			name:   "night owl vs early",
			a:      profile.Profile{ID: "a", SleepSchedule: profile.SleepNightOwl},
			b:      profile.Profile{ID: "b", SleepSchedule: profile.SleepEarly},
			expect: []FlagType{FlagSleepMismatch, FlagLifestyleMismatch},
		},
		{
			name:   "night owl vs flexible",
			a:      profile.Profile{ID: "a", SleepSchedule: profile.SleepNightOwl, NoiseTolerance: profile.NoiseHigh},
			b:      profile.Profile{ID: "b", SleepSchedule: profile.SleepFlexible, NoiseTolerance: profile.NoiseHigh},
			expect: nil,
		},
		{
			name:   "high vs low cleanliness",
			a:      profile.Profile{ID: "a", Cleanliness: profile.CleanlinessLow},
			b:      profile.Profile{ID: "b", Cleanliness: profile.CleanlinessHigh},
			expect: []FlagType{FlagCleanlinessMismatch},
		},
		{
			name:   "medium never conflicts",
			a:      profile.Profile{ID: "a", Cleanliness: profile.CleanlinessMedium},
			b:      profile.Profile{ID: "b", Cleanliness: profile.CleanlinessHigh},
			expect: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got []FlagType
			for _, f := range DetectConflicts(&tt.a, &tt.b) {
				got = append(got, f.Type)
			}
			assert.Equal(t, tt.expect, got)
		})
	}
}

func TestBudgetRules(t *testing.T) {
	t.Parallel()

	pair := func(x, y int, security string) (*profile.Profile, *profile.Profile) {
		return &profile.Profile{ID: "a", Budget: profile.Budget(x), SecurityRequirement: security},
			&profile.Profile{ID: "b", Budget: profile.Budget(y), SecurityRequirement: security}
	}

	tests := []struct {
		name     string
		rule     BudgetRule
		x, y     int
		security string
		fires    bool
		severity Severity
	}{
		{name: "absolute just above gap", rule: BudgetAbsolute, x: 10000, y: 20001, fires: true, severity: SeverityCritical},
		{name: "absolute at gap", rule: BudgetAbsolute, x: 10000, y: 20000, fires: false},
		{name: "absolute large budgets low severity", rule: BudgetAbsolute, x: 189000, y: 200000, fires: true, severity: SeverityLow},
		{name: "relative under half cap", rule: BudgetRelative, x: 20000, y: 22000, fires: false},
		{name: "relative above half cap", rule: BudgetRelative, x: 20000, y: 23000, fires: true, severity: SeverityHigh},
		{name: "relative ignores absolute gap", rule: BudgetRelative, x: 189000, y: 200000, fires: false},
		{name: "auto fast pair uses absolute", rule: BudgetAuto, x: 20000, y: 23000, fires: false},
		{name: "auto detailed pair uses relative", rule: BudgetAuto, x: 20000, y: 23000, security: "any", fires: true, severity: SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a, b := pair(tt.x, tt.y, tt.security)
			flags := NewDetector(tt.rule).Detect(a, b)

			var budget *RedFlag
			for i := range flags {
				if flags[i].Type == FlagBudgetDisparity {
					budget = &flags[i]
				}
			}

			if !tt.fires {
				assert.Nil(t, budget)
				return
			}
			require.NotNil(t, budget)
			assert.Equal(t, tt.severity, budget.Severity)
			assert.Equal(t, 88, budget.Confidence)
		})
	}
}

func TestBudgetRuleSkipsMissingBudget(t *testing.T) {
	t.Parallel()

	a := &profile.Profile{ID: "a", Budget: profile.Budget(5000)}
	b := &profile.Profile{ID: "b"}
	for _, rule := range []BudgetRule{BudgetAuto, BudgetAbsolute, BudgetRelative} {
		assert.False(t, HasFlag(NewDetector(rule).Detect(a, b), FlagBudgetDisparity))
	}
}

func TestSeverityFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SeverityLow, severityFor(6, 20))
	assert.Equal(t, SeverityHigh, severityFor(7, 20))
	assert.Equal(t, SeverityHigh, severityFor(13, 20))
	assert.Equal(t, SeverityCritical, severityFor(14, 20))
	assert.Equal(t, SeverityHigh, severityFor(30, 75))
	assert.Equal(t, SeverityHigh, severityFor(25, 75))
	assert.Equal(t, SeverityLow, severityFor(5, 0))
}

func TestParseBudgetRule(t *testing.T) {
	t.Parallel()

	rule, err := ParseBudgetRule("")
	require.NoError(t, err)
	assert.Equal(t, BudgetAuto, rule)

	rule, err = ParseBudgetRule(" Relative ")
	require.NoError(t, err)
	assert.Equal(t, BudgetRelative, rule)

	_, err = ParseBudgetRule("both")
	assert.Error(t, err)
}
