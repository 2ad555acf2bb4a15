package profile

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RawRecord is a loosely typed profile entry as it comes from a population
// file or from the extraction collaborator. Every field is free text.
type RawRecord struct {
	ID                  string `mapstructure:"id" json:"id"`
	City                string `mapstructure:"city" json:"city,omitempty"`
	Area                string `mapstructure:"area" json:"area,omitempty"`
	Budget              string `mapstructure:"budget_PKR" json:"budget_PKR,omitempty"`
	SleepSchedule       string `mapstructure:"sleep_schedule" json:"sleep_schedule,omitempty"`
	Cleanliness         string `mapstructure:"cleanliness" json:"cleanliness,omitempty"`
	NoiseTolerance      string `mapstructure:"noise_tolerance" json:"noise_tolerance,omitempty"`
	StudyHabits         string `mapstructure:"study_habits" json:"study_habits,omitempty"`
	FoodPref            string `mapstructure:"food_pref" json:"food_pref,omitempty"`
	SecurityRequirement string `mapstructure:"security_requirement" json:"security_requirement,omitempty"`
	LocationPriority    string `mapstructure:"location_priority" json:"location_priority,omitempty"`
	RawProfileText      string `mapstructure:"raw_profile_text" json:"raw_profile_text,omitempty"`
}

// FromRecord builds a normalized Profile out of a raw record.
func FromRecord(r RawRecord) (Profile, error) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return Profile{}, fmt.Errorf("%w: id is required", ErrInvalidProfile)
	}

	p := Profile{
		ID:                  id,
		City:                strings.TrimSpace(r.City),
		Area:                strings.TrimSpace(r.Area),
		SleepSchedule:       NormalizeSleep(r.SleepSchedule),
		Cleanliness:         NormalizeCleanliness(r.Cleanliness),
		NoiseTolerance:      NormalizeNoise(r.NoiseTolerance),
		StudyHabits:         strings.TrimSpace(r.StudyHabits),
		FoodPref:            strings.TrimSpace(r.FoodPref),
		SecurityRequirement: strings.TrimSpace(r.SecurityRequirement),
		LocationPriority:    strings.TrimSpace(r.LocationPriority),
	}

	if budget, ok := ParseBudget(r.Budget); ok {
		p.Budget = &budget
	}

	return p, nil
}

// Merge fills empty fields of r with the values from fallback.
func (r RawRecord) Merge(fallback RawRecord) RawRecord {
	pick := func(v, fb string) string {
		if strings.TrimSpace(v) == "" {
			return fb
		}
		return v
	}

	return RawRecord{
		ID:                  pick(r.ID, fallback.ID),
		City:                pick(r.City, fallback.City),
		Area:                pick(r.Area, fallback.Area),
		Budget:              pick(r.Budget, fallback.Budget),
		SleepSchedule:       pick(r.SleepSchedule, fallback.SleepSchedule),
		Cleanliness:         pick(r.Cleanliness, fallback.Cleanliness),
		NoiseTolerance:      pick(r.NoiseTolerance, fallback.NoiseTolerance),
		StudyHabits:         pick(r.StudyHabits, fallback.StudyHabits),
		FoodPref:            pick(r.FoodPref, fallback.FoodPref),
		SecurityRequirement: pick(r.SecurityRequirement, fallback.SecurityRequirement),
		LocationPriority:    pick(r.LocationPriority, fallback.LocationPriority),
		RawProfileText:      pick(r.RawProfileText, fallback.RawProfileText),
	}
}

// MaxBudget is the largest budget ParseBudget accepts.
const MaxBudget = math.MaxInt32

// ParseBudget reads budgets written as "22000", "PKR 22,000", "Rs. 15000/-"
// or "18k". Anything else, including negative amounts and amounts above
// MaxBudget, is reported as absent.
func ParseBudget(raw string) (int, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return 0, false
	}

	for _, token := range []string{"pkr", "rs.", "rs", "/-", ",", " ", "_"} {
		v = strings.ReplaceAll(v, token, "")
	}

	multiplier := 1
	if strings.HasSuffix(v, "k") {
		multiplier = 1000
		v = strings.TrimSuffix(v, "k")
	}

	if v == "" || strings.Trim(v, "0123456789.") != "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}

	amount := math.Round(f * float64(multiplier))
	if amount < 0 || amount > MaxBudget {
		return 0, false
	}

	return int(amount), true
}
