// Package advice composes plain-language guidance for a ranked match.
package advice

import (
	"strings"

	"github.com/spigell/roommate-matcher/internal/profile"
	"github.com/spigell/roommate-matcher/internal/ranking"
	"github.com/spigell/roommate-matcher/internal/scoring"
)

const (
	greatMatchScore     = 80
	promisingMatchScore = 60
	optimisticScore     = 70
	closeBudgetGap      = 3000
)

const (
	openingGreat       = "This looks like a great match: your everyday habits line up well."
	openingPromising   = "This match is promising, with a few caveats worth talking through first."
	openingChallenging = "This match could be challenging and will need open, regular communication to work."

	sleepAdvice       = "Your sleep schedules clash, so agree on quiet hours such as 11pm to 7am and keep calls and music on headphones outside them."
	budgetAdvice      = "Your budgets are far apart, so settle up front how rent and shared bills are split, for example in proportion to each budget."
	cleanlinessAdvice = "Your cleanliness standards differ, so set up a weekly cleaning rota for the kitchen, bathroom and shared spaces."

	sameCityAndArea = "You are both looking in the same city and area, which keeps the house hunt and commutes simple."
	sameCity        = "You are both looking in the same city."
	closeBudgets    = "Your budgets are close, so splitting rent should be straightforward."
	sameSleep       = "You keep the same sleep schedule."
	sameCleanliness = "You share the same standard of cleanliness."

	closingOptimistic = "Arrange an in-person meeting soon to confirm the fit."
	closingCautious   = "If you decide to go ahead, write down a roommate agreement that covers these points."
	closingNeutral    = "Take some time to talk through expectations before you decide."
)

// flagAdvice lists the flags that carry a mitigation sentence, in output order.
var flagAdvice = []struct {
	flag     scoring.FlagType
	sentence string
}{
	{flag: scoring.FlagSleepMismatch, sentence: sleepAdvice},
	{flag: scoring.FlagBudgetDisparity, sentence: budgetAdvice},
	{flag: scoring.FlagCleanlinessMismatch, sentence: cleanlinessAdvice},
}

// AdviceReport is the advice returned for one requester and match.
type AdviceReport struct {
	ProfileID string `json:"profile_id"`
	MatchID   string `json:"match_id"`
	Text      string `json:"text"`
}

// Report builds the advice report for the requester and match.
func Report(p *profile.Profile, m ranking.MatchResult) AdviceReport {
	r := AdviceReport{MatchID: m.RoommateID, Text: Generate(p, m)}
	if p != nil {
		r.ProfileID = p.ID
	}
	return r
}

// Generate composes the advice text. Output depends only on its inputs.
func Generate(p *profile.Profile, m ranking.MatchResult) string {
	sentences := []string{opening(m.Score)}

	for _, fa := range flagAdvice {
		if scoring.HasFlag(m.RedFlags, fa.flag) {
			sentences = append(sentences, fa.sentence)
		}
	}

	if p == nil {
		p = &profile.Profile{}
	}
	sentences = append(sentences, positives(p, m.Profile)...)
	sentences = append(sentences, closing(m))

	return strings.Join(sentences, " ")
}

func opening(score int) string {
	switch {
	case score >= greatMatchScore:
		return openingGreat
	case score >= promisingMatchScore:
		return openingPromising
	default:
		return openingChallenging
	}
}

func positives(p *profile.Profile, match profile.Snapshot) []string {
	var out []string

	if profile.SameText(p.City, match.City) {
		if profile.SameText(p.Area, match.Area) {
			out = append(out, sameCityAndArea)
		} else {
			out = append(out, sameCity)
		}
	}

	if p.Budget != nil && match.Budget != nil {
		gap := *p.Budget - *match.Budget
		if gap < 0 {
			gap = -gap
		}
		if gap < closeBudgetGap {
			out = append(out, closeBudgets)
		}
	}

	if p.SleepSchedule != "" && p.SleepSchedule == match.SleepSchedule {
		out = append(out, sameSleep)
	}
	if p.Cleanliness != "" && p.Cleanliness == match.Cleanliness {
		out = append(out, sameCleanliness)
	}

	return out
}

func closing(m ranking.MatchResult) string {
	switch {
	case len(m.RedFlags) > 0:
		return closingCautious
	case m.Score >= optimisticScore:
		return closingOptimistic
	default:
		return closingNeutral
	}
}
