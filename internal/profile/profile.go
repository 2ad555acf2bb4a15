package profile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidProfile is returned when a profile has no usable id.
var ErrInvalidProfile = errors.New("invalid profile")

type SleepSchedule string

const (
	SleepEarly    SleepSchedule = "early"
	SleepNormal   SleepSchedule = "normal"
	SleepNightOwl SleepSchedule = "night_owl"
	SleepFlexible SleepSchedule = "flexible"
)

type Cleanliness string

const (
	CleanlinessHigh   Cleanliness = "high"
	CleanlinessMedium Cleanliness = "medium"
	CleanlinessLow    Cleanliness = "low"
)

type NoiseTolerance string

const (
	NoiseLow    NoiseTolerance = "low"
	NoiseMedium NoiseTolerance = "medium"
	NoiseHigh   NoiseTolerance = "high"
)

// Profile is a structured record of one person's housing and lifestyle
// preferences. Empty enum values mean the attribute is absent.
type Profile struct {
	ID                  string         `json:"id" yaml:"id"`
	City                string         `json:"city,omitempty" yaml:"city,omitempty"`
	Area                string         `json:"area,omitempty" yaml:"area,omitempty"`
	Budget              *int           `json:"budget_PKR,omitempty" yaml:"budget_PKR,omitempty"`
	SleepSchedule       SleepSchedule  `json:"sleep_schedule,omitempty" yaml:"sleep_schedule,omitempty"`
	Cleanliness         Cleanliness    `json:"cleanliness,omitempty" yaml:"cleanliness,omitempty"`
	NoiseTolerance      NoiseTolerance `json:"noise_tolerance,omitempty" yaml:"noise_tolerance,omitempty"`
	StudyHabits         string         `json:"study_habits,omitempty" yaml:"study_habits,omitempty"`
	FoodPref            string         `json:"food_pref,omitempty" yaml:"food_pref,omitempty"`
	SecurityRequirement string         `json:"security_requirement,omitempty" yaml:"security_requirement,omitempty"`
	LocationPriority    string         `json:"location_priority,omitempty" yaml:"location_priority,omitempty"`
}

// Validate reports ErrInvalidProfile for a missing or blank id, for a budget
// outside [0, MaxBudget] and for enum values outside their fixed sets.
func (p *Profile) Validate() error {
	if p == nil || strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidProfile)
	}
	if p.Budget != nil && (*p.Budget < 0 || *p.Budget > MaxBudget) {
		return fmt.Errorf("%w: %s: budget %d out of range", ErrInvalidProfile, p.ID, *p.Budget)
	}
	if p.SleepSchedule != "" && !isCanonical(SleepScheduleCategory, string(p.SleepSchedule)) {
		return fmt.Errorf("%w: %s: unknown sleep_schedule %q", ErrInvalidProfile, p.ID, p.SleepSchedule)
	}
	if p.Cleanliness != "" && !isCanonical(CleanlinessCategory, string(p.Cleanliness)) {
		return fmt.Errorf("%w: %s: unknown cleanliness %q", ErrInvalidProfile, p.ID, p.Cleanliness)
	}
	if p.NoiseTolerance != "" && !isCanonical(NoiseToleranceCategory, string(p.NoiseTolerance)) {
		return fmt.Errorf("%w: %s: unknown noise_tolerance %q", ErrInvalidProfile, p.ID, p.NoiseTolerance)
	}
	return nil
}

// HasBudget reports whether a budget is present.
func (p *Profile) HasBudget() bool { return p != nil && p.Budget != nil }

// HasSecurityData reports whether the profile carries security requirement text.
func (p *Profile) HasSecurityData() bool {
	return p != nil && strings.TrimSpace(p.SecurityRequirement) != ""
}

// Snapshot is the subset of profile fields shown next to a match.
type Snapshot struct {
	City           string         `json:"city,omitempty"`
	Area           string         `json:"area,omitempty"`
	Budget         *int           `json:"budget_PKR,omitempty"`
	SleepSchedule  SleepSchedule  `json:"sleep_schedule,omitempty"`
	Cleanliness    Cleanliness    `json:"cleanliness,omitempty"`
	NoiseTolerance NoiseTolerance `json:"noise_tolerance,omitempty"`
	FoodPref       string         `json:"food_pref,omitempty"`
}

func (p *Profile) Snapshot() Snapshot {
	s := Snapshot{
		City:           p.City,
		Area:           p.Area,
		SleepSchedule:  p.SleepSchedule,
		Cleanliness:    p.Cleanliness,
		NoiseTolerance: p.NoiseTolerance,
		FoodPref:       p.FoodPref,
	}
	if p.Budget != nil {
		b := *p.Budget
		s.Budget = &b
	}
	return s
}

// Budget returns a pointer to n, handy for building profiles in code.
func Budget(n int) *int { return &n }

// SameText compares two free-text values case-insensitively after trimming.
// Empty values never match.
func SameText(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}
