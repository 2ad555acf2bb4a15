package scoring

import (
	"math"

	"github.com/spigell/roommate-matcher/internal/profile"
)

// Mode selects the scoring rubric.
type Mode string

const (
	// ModeFast adds points for direct attribute equality. Used for bulk ranking.
	ModeFast Mode = "fast"
	// ModeDetailed starts at 100 and subtracts deductions. Used for pairwise reports.
	ModeDetailed Mode = "detailed"
)

const (
	MaxScore = 100

	cityPoints        = 30
	areaPoints        = 10
	sleepPoints       = 15
	cleanlinessPoints = 15
	noisePoints       = 10

	BudgetDeductionCap   = 20
	LifestyleDeduction   = 30
	GuestPolicyDeduction = 25
	// OtherMismatchCap is reserved for comparators that do not exist yet.
	OtherMismatchCap = 25
)

// Budget proximity tiers for fast mode, checked in order.
var budgetTiers = []struct {
	below  int
	points int
}{
	{below: 2000, points: 20},
	{below: 5000, points: 10},
	{below: 8000, points: 5},
}

const (
	FactorCity        = "city"
	FactorArea        = "area"
	FactorBudget      = "budget"
	FactorSleep       = "sleep_schedule"
	FactorCleanliness = "cleanliness"
	FactorNoise       = "noise_tolerance"
	FactorLifestyle   = "lifestyle"
	FactorGuestPolicy = "guest_policy"
)

// Factor is one line of the score breakdown. Points are positive in fast
// mode and negative (deductions) in detailed mode. Skipped factors had
// missing inputs and did not take part in the score.
type Factor struct {
	Name    string `json:"name"`
	Points  int    `json:"points"`
	Skipped bool   `json:"skipped,omitempty"`
}

type Result struct {
	Score     int      `json:"score"`
	Mode      Mode     `json:"mode"`
	Breakdown []Factor `json:"breakdown"`
}

// SelectMode returns ModeDetailed only when both profiles carry security
// requirement data.
func SelectMode(a, b *profile.Profile) Mode {
	if a.HasSecurityData() && b.HasSecurityData() {
		return ModeDetailed
	}
	return ModeFast
}

// Auto scores the pair in the mode chosen by SelectMode.
func Auto(a, b *profile.Profile) Result {
	return Score(a, b, SelectMode(a, b))
}

// Score computes the compatibility of a and b in the given mode. Unknown
// modes fall back to fast mode.
func Score(a, b *profile.Profile, mode Mode) Result {
	if a == nil || b == nil {
		return Result{Score: 0, Mode: mode}
	}
	if mode == ModeDetailed {
		return detailed(a, b)
	}
	return fast(a, b)
}

func fast(a, b *profile.Profile) Result {
	breakdown := make([]Factor, 0, 6)
	sum := 0

	add := func(name string, points int, skipped bool) {
		breakdown = append(breakdown, Factor{Name: name, Points: points, Skipped: skipped})
		sum += points
	}

	sameCity := profile.SameText(a.City, b.City)
	add(FactorCity, pointsIf(sameCity, cityPoints), false)
	add(FactorArea, pointsIf(sameCity && profile.SameText(a.Area, b.Area), areaPoints), false)

	if x, y, ok := budgets(a, b); ok {
		add(FactorBudget, budgetProximity(absDiff(x, y)), false)
	} else {
		add(FactorBudget, 0, true)
	}

	add(FactorSleep, pointsIf(a.SleepSchedule != "" && a.SleepSchedule == b.SleepSchedule, sleepPoints), false)
	add(FactorCleanliness, pointsIf(a.Cleanliness != "" && a.Cleanliness == b.Cleanliness, cleanlinessPoints), false)
	add(FactorNoise, pointsIf(a.NoiseTolerance != "" && a.NoiseTolerance == b.NoiseTolerance, noisePoints), false)

	return Result{Score: clamp(sum), Mode: ModeFast, Breakdown: breakdown}
}

func detailed(a, b *profile.Profile) Result {
	breakdown := make([]Factor, 0, 3)
	total := 0

	if d, ok := BudgetDeduction(a, b); ok {
		breakdown = append(breakdown, Factor{Name: FactorBudget, Points: -d})
		total += d
	} else {
		breakdown = append(breakdown, Factor{Name: FactorBudget, Skipped: true})
	}

	if d, ok := LifestyleDeductionFor(a, b); ok {
		breakdown = append(breakdown, Factor{Name: FactorLifestyle, Points: -d})
		total += d
	} else {
		breakdown = append(breakdown, Factor{Name: FactorLifestyle, Skipped: true})
	}

	if d, ok := GuestPolicyDeductionFor(a, b); ok {
		breakdown = append(breakdown, Factor{Name: FactorGuestPolicy, Points: -d})
		total += d
	} else {
		breakdown = append(breakdown, Factor{Name: FactorGuestPolicy, Skipped: true})
	}

	if total > MaxScore {
		total = MaxScore
	}

	return Result{Score: clamp(MaxScore - total), Mode: ModeDetailed, Breakdown: breakdown}
}

// BudgetDeduction is min(round(|Δ| / max × 100), 20). It reports false when
// a budget is missing or both budgets are zero.
func BudgetDeduction(a, b *profile.Profile) (int, bool) {
	x, y, ok := budgets(a, b)
	if !ok {
		return 0, false
	}

	top := max(x, y)
	if top <= 0 {
		return 0, false
	}

	d := int(math.Round(float64(absDiff(x, y)) / float64(top) * 100))
	return min(d, BudgetDeductionCap), true
}

// LifestyleDeductionFor reports the lifestyle deduction, or false when a
// derived lifestyle is missing.
func LifestyleDeductionFor(a, b *profile.Profile) (int, bool) {
	la, lb := DeriveLifestyle(a), DeriveLifestyle(b)
	if la == "" || lb == "" {
		return 0, false
	}
	return pointsIf(la != lb, LifestyleDeduction), true
}

// GuestPolicyDeductionFor reports the guest policy deduction, or false when a
// derived policy is missing.
func GuestPolicyDeductionFor(a, b *profile.Profile) (int, bool) {
	ga, gb := DeriveGuestPolicy(a), DeriveGuestPolicy(b)
	if ga == "" || gb == "" {
		return 0, false
	}
	return pointsIf(ga != gb, GuestPolicyDeduction), true
}

func budgetProximity(diff int) int {
	for _, tier := range budgetTiers {
		if diff < tier.below {
			return tier.points
		}
	}
	return 0
}

func pointsIf(cond bool, points int) int {
	if cond {
		return points
	}
	return 0
}

func clamp(score int) int {
	return max(0, min(score, MaxScore))
}
