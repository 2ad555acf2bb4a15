package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/roommate-matcher/internal/profile"
)

func baseProfile(id string) *profile.Profile {
	return &profile.Profile{
		ID:             id,
		City:           "Karachi",
		Area:           "Gulshan",
		Budget:         profile.Budget(20000),
		SleepSchedule:  profile.SleepNormal,
		Cleanliness:    profile.CleanlinessMedium,
		NoiseTolerance: profile.NoiseMedium,
	}
}

// population enumerates a spread of profiles covering every enum value,
// missing fields and both scoring modes.
func population() []*profile.Profile {
	sleeps := []profile.SleepSchedule{"", profile.SleepEarly, profile.SleepNormal, profile.SleepNightOwl, profile.SleepFlexible}
	cleans := []profile.Cleanliness{"", profile.CleanlinessHigh, profile.CleanlinessMedium, profile.CleanlinessLow}
	noises := []profile.NoiseTolerance{"", profile.NoiseLow, profile.NoiseMedium, profile.NoiseHigh}
	budgets := []*int{nil, profile.Budget(0), profile.Budget(12000), profile.Budget(24000), profile.Budget(30000), profile.Budget(55000)}
	cities := [][2]string{{"", ""}, {"Karachi", "Gulshan"}, {"karachi ", "DHA"}, {"Lahore", "Gulberg"}}
	security := []string{"", "female_only_high_security", "flexible_mixed_housing_ok", "any"}

	var out []*profile.Profile
	i := 0
	for _, s := range sleeps {
		for _, c := range cleans {
			for _, n := range noises {
				city := cities[i%len(cities)]
				out = append(out, &profile.Profile{
					ID:                  fmt.Sprintf("P-%d", i),
					City:                city[0],
					Area:                city[1],
					Budget:              budgets[i%len(budgets)],
					SleepSchedule:       s,
					Cleanliness:         c,
					NoiseTolerance:      n,
					SecurityRequirement: security[i%len(security)],
				})
				i++
			}
		}
	}
	return out
}

func TestScoreSymmetricAndBounded(t *testing.T) {
	t.Parallel()

	pop := population()
	for _, mode := range []Mode{ModeFast, ModeDetailed} {
		for i := range pop {
			for j := range pop {
				ab := Score(pop[i], pop[j], mode)
				ba := Score(pop[j], pop[i], mode)
				require.Equal(t, ab.Score, ba.Score, "%s: score(%s,%s) asymmetric", mode, pop[i].ID, pop[j].ID)
				require.GreaterOrEqual(t, ab.Score, 0)
				require.LessOrEqual(t, ab.Score, 100)
			}
		}
	}
}

func TestFastModeIdentity(t *testing.T) {
	t.Parallel()

	a := baseProfile("A")
	b := baseProfile("B")

	res := Score(a, b, ModeFast)
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, ModeFast, res.Mode)
	assert.Empty(t, DetectConflicts(a, b))
}

func TestFastModeFactors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(b *profile.Profile)
		expect int
	}{
		{name: "different area", mutate: func(b *profile.Profile) { b.Area = "DHA" }, expect: 90},
		{name: "different city keeps no area points", mutate: func(b *profile.Profile) { b.City = "Lahore" }, expect: 60},
		{name: "city match ignores case and spaces", mutate: func(b *profile.Profile) { b.City = " KARACHI " }, expect: 100},
		{name: "budget gap under 5000", mutate: func(b *profile.Profile) { b.Budget = profile.Budget(23000) }, expect: 90},
		{name: "budget gap under 8000", mutate: func(b *profile.Profile) { b.Budget = profile.Budget(27999) }, expect: 85},
		{name: "budget gap 8000", mutate: func(b *profile.Profile) { b.Budget = profile.Budget(28000) }, expect: 80},
		{name: "missing budget skipped", mutate: func(b *profile.Profile) { b.Budget = nil }, expect: 80},
		{name: "sleep differs", mutate: func(b *profile.Profile) { b.SleepSchedule = profile.SleepEarly }, expect: 85},
		{name: "cleanliness differs", mutate: func(b *profile.Profile) { b.Cleanliness = profile.CleanlinessHigh }, expect: 85},
		{name: "noise differs", mutate: func(b *profile.Profile) { b.NoiseTolerance = profile.NoiseLow }, expect: 90},
		{name: "absent enums never match", mutate: func(b *profile.Profile) {
			b.SleepSchedule = ""
			b.Cleanliness = ""
			b.NoiseTolerance = ""
		}, expect: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := baseProfile("A")
			b := baseProfile("B")
			tt.mutate(b)
			assert.Equal(t, tt.expect, Score(a, b, ModeFast).Score)
		})
	}
}

func TestFastModeBothEnumsAbsent(t *testing.T) {
	t.Parallel()

	a := &profile.Profile{ID: "A"}
	b := &profile.Profile{ID: "B"}
	res := Score(a, b, ModeFast)
	assert.Equal(t, 0, res.Score)

	var budget Factor
	for _, f := range res.Breakdown {
		if f.Name == FactorBudget {
			budget = f
		}
	}
	assert.True(t, budget.Skipped)
}

func TestBudgetDeduction(t *testing.T) {
	t.Parallel()

	a := &profile.Profile{ID: "A", Budget: profile.Budget(24000)}
	b := &profile.Profile{ID: "B", Budget: profile.Budget(30000)}

	d, ok := BudgetDeduction(a, b)
	require.True(t, ok)
	assert.Equal(t, 20, d)

	c := &profile.Profile{ID: "C", Budget: profile.Budget(28000)}
	d, ok = BudgetDeduction(c, b)
	require.True(t, ok)
	assert.Equal(t, 7, d) // round(2000/30000*100) = round(6.67)

	_, ok = BudgetDeduction(a, &profile.Profile{ID: "D"})
	assert.False(t, ok)

	_, ok = BudgetDeduction(&profile.Profile{ID: "E", Budget: profile.Budget(0)}, &profile.Profile{ID: "F", Budget: profile.Budget(0)})
	assert.False(t, ok)
}

func TestDetailedMode(t *testing.T) {
	t.Parallel()

	a := &profile.Profile{
		ID:                  "R-387",
		Budget:              profile.Budget(24000),
		SleepSchedule:       profile.SleepFlexible,
		NoiseTolerance:      profile.NoiseMedium,
		SecurityRequirement: "female_only_high_security",
	}
	b := &profile.Profile{
		ID:                  "R-388",
		Budget:              profile.Budget(30000),
		SleepSchedule:       profile.SleepNightOwl,
		NoiseTolerance:      profile.NoiseHigh,
		SecurityRequirement: "flexible_mixed_housing_ok",
	}

	require.Equal(t, ModeDetailed, SelectMode(a, b))

	res := Auto(a, b)
	assert.Equal(t, ModeDetailed, res.Mode)
	assert.Equal(t, 25, res.Score)
	assert.Equal(t, []Factor{
		{Name: FactorBudget, Points: -20},
		{Name: FactorLifestyle, Points: -30},
		{Name: FactorGuestPolicy, Points: -25},
	}, res.Breakdown)

	same := Score(a, a, ModeDetailed)
	assert.Equal(t, 100, same.Score)
}

func TestDetailedModeSkipsMissingInputs(t *testing.T) {
	t.Parallel()

	a := &profile.Profile{ID: "A"}
	b := &profile.Profile{ID: "B", SleepSchedule: profile.SleepNightOwl}

	res := Score(a, b, ModeDetailed)
	assert.Equal(t, 100, res.Score)
	for _, f := range res.Breakdown {
		assert.True(t, f.Skipped, "factor %s should be skipped", f.Name)
	}
}

func TestSelectMode(t *testing.T) {
	t.Parallel()

	withSecurity := &profile.Profile{ID: "A", SecurityRequirement: "female_only_high_security"}
	without := &profile.Profile{ID: "B", SecurityRequirement: "  "}

	assert.Equal(t, ModeFast, SelectMode(withSecurity, without))
	assert.Equal(t, ModeFast, SelectMode(without, withSecurity))
	assert.Equal(t, ModeDetailed, SelectMode(withSecurity, withSecurity))
}

func TestDeriveLifestyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sleep  profile.SleepSchedule
		noise  profile.NoiseTolerance
		expect Lifestyle
	}{
		{sleep: profile.SleepNightOwl, noise: profile.NoiseLow, expect: LifestyleSocial},
		{sleep: profile.SleepEarly, noise: profile.NoiseHigh, expect: LifestyleQuiet},
		{sleep: profile.SleepFlexible, noise: profile.NoiseHigh, expect: LifestyleSocial},
		{sleep: profile.SleepNormal, noise: profile.NoiseLow, expect: LifestyleQuiet},
		{sleep: profile.SleepFlexible, noise: profile.NoiseMedium, expect: LifestyleRelaxed},
		{sleep: "", noise: profile.NoiseMedium, expect: LifestyleRelaxed},
		{sleep: profile.SleepEarly, noise: "", expect: LifestyleQuiet},
		{sleep: "", noise: "", expect: ""},
	}

	for _, tt := range tests {
		p := &profile.Profile{ID: "x", SleepSchedule: tt.sleep, NoiseTolerance: tt.noise}
		assert.Equal(t, tt.expect, DeriveLifestyle(p), "sleep=%q noise=%q", tt.sleep, tt.noise)
	}
}

func TestDeriveGuestPolicy(t *testing.T) {
	t.Parallel()

	tests := map[string]GuestPolicy{
		"":                                 "",
		"Female_Only_High_Security please": GuestsNoOvernight,
		"flexible_mixed_housing_ok":        GuestsOpen,
		"gated building":                   GuestsModerate,
	}

	for text, expect := range tests {
		p := &profile.Profile{ID: "x", SecurityRequirement: text}
		assert.Equal(t, expect, DeriveGuestPolicy(p), "security %q", text)
	}
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	a := &profile.Profile{ID: "R-1", Budget: profile.Budget(24000), SleepSchedule: profile.SleepEarly, SecurityRequirement: "female_only_high_security"}
	b := &profile.Profile{ID: "R-2", Budget: profile.Budget(24000), SleepSchedule: profile.SleepEarly, SecurityRequirement: "female_only_high_security"}

	an := Analyze(a, b)
	assert.Equal(t, "R-1", an.ProfileAID)
	assert.Equal(t, "R-2", an.ProfileBID)
	assert.Equal(t, 100, an.Result.Score)
	assert.Equal(t, "Student R-1", an.ProfileA.Name)
	assert.Equal(t, LifestyleQuiet, an.ProfileA.Lifestyle)
	assert.Equal(t, GuestsNoOvernight, an.ProfileB.GuestsPolicy)
	assert.Equal(t, "not_applicable", an.ProfileB.SubstanceUse)
	assert.Empty(t, an.Conflicts)

	assert.Equal(t, "Unknown", Summarize(nil).Name)
}

func TestOversizedBudgetIsSkipped(t *testing.T) {
	t.Parallel()

	parsed, err := profile.FromRecord(profile.RawRecord{
		ID:     "R-big",
		City:   "Karachi",
		Area:   "Gulshan",
		Budget: "99999999999999999999",
	})
	require.NoError(t, err)
	require.Nil(t, parsed.Budget)

	me := baseProfile("ME")
	me.Budget = profile.Budget(22000)

	res := Score(me, &parsed, ModeFast)
	for _, f := range res.Breakdown {
		if f.Name == FactorBudget {
			assert.True(t, f.Skipped)
			assert.Zero(t, f.Points)
		}
	}

	_, ok := BudgetDeduction(me, &parsed)
	assert.False(t, ok)
	assert.False(t, HasFlag(DetectConflicts(me, &parsed), FlagBudgetDisparity))
}
