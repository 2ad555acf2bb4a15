package scoring

import (
	"strings"

	"github.com/spigell/roommate-matcher/internal/profile"
)

type Lifestyle string

const (
	LifestyleSocial  Lifestyle = "social"
	LifestyleQuiet   Lifestyle = "quiet"
	LifestyleRelaxed Lifestyle = "relaxed"
)

type GuestPolicy string

const (
	GuestsNoOvernight GuestPolicy = "no_overnight_guests"
	GuestsOpen        GuestPolicy = "open_to_guests"
	GuestsModerate    GuestPolicy = "moderate"
)

const (
	securityFemaleOnly    = "female_only_high_security"
	securityFlexibleMixed = "flexible_mixed_housing_ok"
)

// DeriveLifestyle summarizes sleep schedule and noise tolerance. The sleep
// verdict is taken before the noise one. It returns "" only when both inputs
// are absent.
func DeriveLifestyle(p *profile.Profile) Lifestyle {
	if p == nil || (p.SleepSchedule == "" && p.NoiseTolerance == "") {
		return ""
	}

	switch p.SleepSchedule {
	case profile.SleepNightOwl:
		return LifestyleSocial
	case profile.SleepEarly:
		return LifestyleQuiet
	}

	switch p.NoiseTolerance {
	case profile.NoiseHigh:
		return LifestyleSocial
	case profile.NoiseLow:
		return LifestyleQuiet
	}

	return LifestyleRelaxed
}

// DeriveGuestPolicy reads the guest policy out of the security requirement
// text. It returns "" when there is no security data.
func DeriveGuestPolicy(p *profile.Profile) GuestPolicy {
	if !p.HasSecurityData() {
		return ""
	}

	v := strings.ToLower(p.SecurityRequirement)
	switch {
	case strings.Contains(v, securityFemaleOnly):
		return GuestsNoOvernight
	case strings.Contains(v, securityFlexibleMixed):
		return GuestsOpen
	default:
		return GuestsModerate
	}
}

func budgets(a, b *profile.Profile) (int, int, bool) {
	if !a.HasBudget() || !b.HasBudget() {
		return 0, 0, false
	}
	return *a.Budget, *b.Budget, true
}

func absDiff(x, y int) int {
	if x > y {
		return x - y
	}
	return y - x
}
