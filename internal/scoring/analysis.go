package scoring

import (
	"fmt"

	"github.com/spigell/roommate-matcher/internal/profile"
)

const substanceUseNotApplicable = "not_applicable"

// PersonaSummary is the derived view of one side of a pair analysis.
type PersonaSummary struct {
	Name         string      `json:"name"`
	Budget       *int        `json:"budget,omitempty"`
	Lifestyle    Lifestyle   `json:"lifestyle,omitempty"`
	GuestsPolicy GuestPolicy `json:"guests_policy,omitempty"`
	SubstanceUse string      `json:"substance_use"`
}

// Analysis is a pairwise compatibility report.
type Analysis struct {
	ProfileAID string         `json:"profile_a_id"`
	ProfileBID string         `json:"profile_b_id"`
	Result     Result         `json:"result"`
	ProfileA   PersonaSummary `json:"profile_a"`
	ProfileB   PersonaSummary `json:"profile_b"`
	Conflicts  []RedFlag      `json:"detected_conflicts"`
}

func Summarize(p *profile.Profile) PersonaSummary {
	s := PersonaSummary{
		Name:         "Unknown",
		Lifestyle:    DeriveLifestyle(p),
		GuestsPolicy: DeriveGuestPolicy(p),
		SubstanceUse: substanceUseNotApplicable,
	}
	if p == nil {
		return s
	}
	if p.ID != "" {
		s.Name = fmt.Sprintf("Student %s", p.ID)
	}
	if p.Budget != nil {
		b := *p.Budget
		s.Budget = &b
	}
	return s
}

// Analyze scores the pair in the selected mode with the given detector and
// summarizes both sides.
func (d Detector) Analyze(a, b *profile.Profile) Analysis {
	an := Analysis{
		Result:    Auto(a, b),
		ProfileA:  Summarize(a),
		ProfileB:  Summarize(b),
		Conflicts: d.Detect(a, b),
	}
	if a != nil {
		an.ProfileAID = a.ID
	}
	if b != nil {
		an.ProfileBID = b.ID
	}
	return an
}

// Analyze runs the default detector analysis.
func Analyze(a, b *profile.Profile) Analysis {
	return Detector{}.Analyze(a, b)
}
