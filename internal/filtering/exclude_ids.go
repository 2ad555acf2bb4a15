package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/roommate-matcher/internal/population"
)

type excludeIDsFilter struct {
	ids []string
}

// NewExcludeIDs creates a filter that removes candidates by ids configured in the config.
func NewExcludeIDs() Filter {
	return &excludeIDsFilter{}
}

func (f *excludeIDsFilter) Name() string { return "exclude_ids" }

func (f *excludeIDsFilter) Disable(string) {}

func (f *excludeIDsFilter) IsEnabled() bool { return true }

func (f *excludeIDsFilter) Validate(cfg *Config) error {
	f.ids = nil
	if cfg != nil {
		f.ids = append(f.ids, cfg.ExcludeIDs...)
	}
	return nil
}

func (f *excludeIDsFilter) Apply(_ context.Context, deps Deps, p *population.Population) (*population.Population, Step, error) {
	initial := p.Len()
	if len(f.ids) == 0 {
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}

	removed := p.Exclude(f.ids)
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding profiles by configured ids",
			zap.Strings("excluded_profiles", removed),
			zap.Int("profiles_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(removed), Left: p.Len()}, nil
}

func (f *excludeIDsFilter) Status() Status {
	details := map[string]string{}
	if len(f.ids) > 0 {
		details["ids"] = strings.Join(f.ids, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
