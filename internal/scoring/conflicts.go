package scoring

import (
	"fmt"
	"strings"

	"github.com/spigell/roommate-matcher/internal/profile"
)

type FlagType string

const (
	FlagSleepMismatch       FlagType = "sleep_mismatch"
	FlagBudgetDisparity     FlagType = "budget_disparity"
	FlagCleanlinessMismatch FlagType = "cleanliness_mismatch"
	FlagLifestyleMismatch   FlagType = "lifestyle_mismatch"
	FlagGuestPolicy         FlagType = "guest_policy"
	FlagOtherMismatch       FlagType = "other_mismatch"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// RedFlag is a detected potential roommate conflict.
type RedFlag struct {
	Type       FlagType `json:"type"`
	Severity   Severity `json:"severity"`
	Confidence int      `json:"confidence"`
}

// BudgetRule selects which budget disparity threshold the detector applies.
type BudgetRule string

const (
	// BudgetAuto uses BudgetRelative for pairs eligible for detailed scoring
	// and BudgetAbsolute otherwise.
	BudgetAuto BudgetRule = "auto"
	// BudgetAbsolute fires when the budgets differ by more than 10,000 PKR.
	BudgetAbsolute BudgetRule = "absolute"
	// BudgetRelative fires when the detailed budget deduction exceeds half its cap.
	BudgetRelative BudgetRule = "relative"
)

const (
	absoluteBudgetGap = 10000

	sleepConfidence       = 90
	budgetConfidence      = 88
	cleanlinessConfidence = 82
	lifestyleConfidence   = 85
	guestConfidence       = 80
)

// Lifestyle and guest deductions are binary, so their severity is measured
// against the sum of every implemented deduction cap.
const implementedDeductionCeiling = BudgetDeductionCap + LifestyleDeduction + GuestPolicyDeduction

// ParseBudgetRule resolves a configured rule name. Blank means BudgetAuto.
func ParseBudgetRule(name string) (BudgetRule, error) {
	switch rule := BudgetRule(strings.ToLower(strings.TrimSpace(name))); rule {
	case "", BudgetAuto:
		return BudgetAuto, nil
	case BudgetAbsolute, BudgetRelative:
		return rule, nil
	default:
		return "", fmt.Errorf("unknown budget rule %q", name)
	}
}

// Detector evaluates the conflict rules. The zero value uses BudgetAuto.
type Detector struct {
	Budget BudgetRule
}

func NewDetector(rule BudgetRule) Detector {
	return Detector{Budget: rule}
}

// DetectConflicts runs the default detector over a pair.
func DetectConflicts(a, b *profile.Profile) []RedFlag {
	return Detector{}.Detect(a, b)
}

// Detect returns the red flags for the pair in fixed rule order. Each rule
// contributes at most one flag.
func (d Detector) Detect(a, b *profile.Profile) []RedFlag {
	flags := make([]RedFlag, 0, 5)
	if a == nil || b == nil {
		return flags
	}

	if sleepConflict(a.SleepSchedule, b.SleepSchedule) {
		flags = append(flags, RedFlag{Type: FlagSleepMismatch, Severity: SeverityHigh, Confidence: sleepConfidence})
	}

	if flag, ok := d.budgetFlag(a, b); ok {
		flags = append(flags, flag)
	}

	if cleanlinessConflict(a.Cleanliness, b.Cleanliness) {
		flags = append(flags, RedFlag{Type: FlagCleanlinessMismatch, Severity: SeverityHigh, Confidence: cleanlinessConfidence})
	}

	if ded, ok := LifestyleDeductionFor(a, b); ok && ded > 0 {
		flags = append(flags, RedFlag{
			Type:       FlagLifestyleMismatch,
			Severity:   severityFor(ded, implementedDeductionCeiling),
			Confidence: lifestyleConfidence,
		})
	}

	if ded, ok := GuestPolicyDeductionFor(a, b); ok && ded > 0 {
		flags = append(flags, RedFlag{
			Type:       FlagGuestPolicy,
			Severity:   severityFor(ded, implementedDeductionCeiling),
			Confidence: guestConfidence,
		})
	}

	return flags
}

func (d Detector) budgetFlag(a, b *profile.Profile) (RedFlag, bool) {
	x, y, ok := budgets(a, b)
	if !ok {
		return RedFlag{}, false
	}

	ded, _ := BudgetDeduction(a, b)

	rule := d.Budget
	if rule == "" || rule == BudgetAuto {
		rule = BudgetAbsolute
		if SelectMode(a, b) == ModeDetailed {
			rule = BudgetRelative
		}
	}

	var fires bool
	switch rule {
	case BudgetRelative:
		fires = ded*2 > BudgetDeductionCap
	default:
		fires = absDiff(x, y) > absoluteBudgetGap
	}

	if !fires {
		return RedFlag{}, false
	}

	return RedFlag{
		Type:       FlagBudgetDisparity,
		Severity:   severityFor(ded, BudgetDeductionCap),
		Confidence: budgetConfidence,
	}, true
}

func sleepConflict(a, b profile.SleepSchedule) bool {
	return (a == profile.SleepNightOwl && b == profile.SleepEarly) ||
		(a == profile.SleepEarly && b == profile.SleepNightOwl)
}

func cleanlinessConflict(a, b profile.Cleanliness) bool {
	return (a == profile.CleanlinessHigh && b == profile.CleanlinessLow) ||
		(a == profile.CleanlinessLow && b == profile.CleanlinessHigh)
}

// severityFor bands deduction/of as a percentage rounded up:
// up to 33 low, up to 66 high, above that critical.
func severityFor(deduction, of int) Severity {
	if of <= 0 {
		return SeverityLow
	}

	pct := (deduction*100 + of - 1) / of
	switch {
	case pct <= 33:
		return SeverityLow
	case pct <= 66:
		return SeverityHigh
	default:
		return SeverityCritical
	}
}

// HasFlag reports whether flags contains a flag of type t.
func HasFlag(flags []RedFlag, t FlagType) bool {
	for _, f := range flags {
		if f.Type == t {
			return true
		}
	}
	return false
}
