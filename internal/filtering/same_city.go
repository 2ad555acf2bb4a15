package filtering

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/roommate-matcher/internal/population"
	"github.com/spigell/roommate-matcher/internal/profile"
)

type sameCityFilter struct {
	disabled bool
	reason   string
	active   bool
}

// NewSameCity creates a filter that keeps only candidates looking in the requester's city.
func NewSameCity() Filter {
	return &sameCityFilter{}
}

func (f *sameCityFilter) Name() string { return "same_city" }

func (f *sameCityFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *sameCityFilter) IsEnabled() bool { return !f.disabled }

// Validate activates the filter only when the config asks for it.
func (f *sameCityFilter) Validate(cfg *Config) error {
	f.active = cfg != nil && cfg.SameCity
	return nil
}

func (f *sameCityFilter) Apply(_ context.Context, deps Deps, p *population.Population) (*population.Population, Step, error) {
	initial := p.Len()
	if !f.active {
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}
	if deps.Requester == nil {
		return p, Step{}, errors.New("requester profile is required")
	}

	city := deps.Requester.City
	if city == "" {
		if deps.Logger != nil {
			deps.Logger.Warn("requester has no city; keeping every candidate",
				zap.String("profile_id", deps.Requester.ID),
			)
		}
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}

	removed := p.Remove(func(c *profile.Profile) bool {
		return c.ID != deps.Requester.ID && !profile.SameText(c.City, city)
	})
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding profiles from other cities",
			zap.String("city", city),
			zap.Strings("excluded_profiles", removed),
			zap.Int("profiles_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(removed), Left: p.Len()}, nil
}

func (f *sameCityFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"same_city": strconv.FormatBool(f.active)},
	}
}
