package profile

import "strings"

// Category names a normalizable profile attribute.
type Category string

const (
	SleepScheduleCategory  Category = "sleep_schedule"
	CleanlinessCategory    Category = "cleanliness"
	NoiseToleranceCategory Category = "noise_tolerance"
)

// Categories lists every normalizable category.
var Categories = []Category{SleepScheduleCategory, CleanlinessCategory, NoiseToleranceCategory}

type keywordRule struct {
	value    string
	keywords []string
}

type categoryTable struct {
	canonical []string
	rules     []keywordRule
	fallback  string
}

// Rules are evaluated top to bottom and the first hit wins.
var tables = map[Category]categoryTable{
	SleepScheduleCategory: {
		canonical: []string{string(SleepEarly), string(SleepNormal), string(SleepNightOwl), string(SleepFlexible)},
		rules: []keywordRule{
			{value: string(SleepNightOwl), keywords: []string{"night", "late", "raat", "1am", "owl"}},
			{value: string(SleepEarly), keywords: []string{"early", "subah", "riser", "morning"}},
			{value: string(SleepFlexible), keywords: []string{"flexible", "chill"}},
			{value: string(SleepNormal), keywords: []string{"normal"}},
		},
		fallback: string(SleepNormal),
	},
	CleanlinessCategory: {
		canonical: []string{string(CleanlinessHigh), string(CleanlinessMedium), string(CleanlinessLow)},
		rules: []keywordRule{
			{value: string(CleanlinessHigh), keywords: []string{"high", "tidy", "saaf", "clean", "neat"}},
			{value: string(CleanlinessLow), keywords: []string{"low", "messy", "ganda", "gandey"}},
			{value: string(CleanlinessMedium), keywords: []string{"medium", "moderate", "average"}},
		},
		fallback: string(CleanlinessMedium),
	},
	NoiseToleranceCategory: {
		canonical: []string{string(NoiseLow), string(NoiseMedium), string(NoiseHigh)},
		rules: []keywordRule{
			{value: string(NoiseLow), keywords: []string{"low", "quiet", "shor kam"}},
			{value: string(NoiseMedium), keywords: []string{"medium", "moderate", "average"}},
			{value: string(NoiseHigh), keywords: []string{"high", "loud", "shor zyada"}},
		},
		fallback: string(NoiseMedium),
	},
}

// Normalize maps a free-text attribute value to the canonical value of the
// category. Only the empty string yields "". Any other value that matches no
// keyword, whitespace included, yields the category default. Unknown
// categories yield "".
func Normalize(raw string, category Category) string {
	if raw == "" {
		return ""
	}
	v := strings.ToLower(strings.TrimSpace(raw))

	table, ok := tables[category]
	if !ok {
		return ""
	}

	for _, c := range table.canonical {
		if v == c {
			return c
		}
	}

	for _, rule := range table.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(v, kw) {
				return rule.value
			}
		}
	}

	return table.fallback
}

func NormalizeSleep(raw string) SleepSchedule {
	return SleepSchedule(Normalize(raw, SleepScheduleCategory))
}

func NormalizeCleanliness(raw string) Cleanliness {
	return Cleanliness(Normalize(raw, CleanlinessCategory))
}

func NormalizeNoise(raw string) NoiseTolerance {
	return NoiseTolerance(Normalize(raw, NoiseToleranceCategory))
}

// ParseCategory resolves a category name, accepting a few spellings used in
// profile templates.
func ParseCategory(name string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(strings.ReplaceAll(name, "-", "_"))) {
	case "sleep_schedule", "sleep":
		return SleepScheduleCategory, true
	case "cleanliness", "cleanliness_level":
		return CleanlinessCategory, true
	case "noise_tolerance", "noise":
		return NoiseToleranceCategory, true
	default:
		return "", false
	}
}

func isCanonical(category Category, value string) bool {
	for _, c := range tables[category].canonical {
		if value == c {
			return true
		}
	}
	return false
}
