package population

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"
)

type ExcludedProfiles struct {
	Items []*ExcludedProfile
}

type ExcludedProfile struct {
	ID         string
	City       string
	Area       string
	ExcludedAt time.Time
}

// ExcludedFromFile reads an exclude file. A missing or empty file yields an
// empty list.
func ExcludedFromFile(path string) (*ExcludedProfiles, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ExcludedProfiles{}, nil
		}
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedProfiles{}, nil
	}

	var excluded ExcludedProfiles
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

// ToExcluded builds exclude entries for the given ids. Unknown ids are
// recorded without location.
func (p *Population) ToExcluded(ids []string) *ExcludedProfiles {
	excluded := &ExcludedProfiles{}
	now := time.Now().UTC()
	for _, id := range ids {
		entry := &ExcludedProfile{ID: id, ExcludedAt: now}
		if pr := p.FindByID(id); pr != nil {
			entry.City = pr.City
			entry.Area = pr.Area
		}
		excluded.Items = append(excluded.Items, entry)
	}
	return excluded
}

// Append adds the entries of s that are not already listed.
func (e *ExcludedProfiles) Append(s *ExcludedProfiles) {
	seen := make(map[string]struct{}, len(e.Items))
	for _, item := range e.Items {
		seen[item.ID] = struct{}{}
	}
	for _, item := range s.Items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		e.Items = append(e.Items, item)
	}
}

func (e *ExcludedProfiles) IDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func (e *ExcludedProfiles) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
