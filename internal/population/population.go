// Package population reads and writes the profile population files used by
// the CLI.
package population

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/spigell/roommate-matcher/internal/profile"
)

var ErrDuplicateID = errors.New("duplicate profile id")

type Population struct {
	Items []profile.Profile
}

// LoadRecords reads a JSON or YAML list of loosely typed records. YAML is
// chosen by the .yaml/.yml extension, JSON otherwise.
func LoadRecords(path string) ([]profile.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var items []map[string]any
	if isYAML(path) {
		err = yaml.Unmarshal(data, &items)
	} else {
		err = json.Unmarshal(data, &items)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return DecodeRecords(items)
}

// DecodeRecords converts loosely typed items into raw records. Numbers and
// booleans are accepted wherever text is expected.
func DecodeRecords(items []map[string]any) ([]profile.RawRecord, error) {
	records := make([]profile.RawRecord, 0, len(items))
	for i, item := range items {
		var r profile.RawRecord
		if err := DecodeRecord(item, &r); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// DecodeRecord decodes one loosely typed item into out.
func DecodeRecord(item map[string]any, out *profile.RawRecord) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(item)
}

// Load reads a population file and normalizes every record into a Profile.
func Load(path string) (*Population, error) {
	records, err := LoadRecords(path)
	if err != nil {
		return nil, err
	}
	return FromRecords(records)
}

// FromRecords builds a population keeping the record order. Ids must be
// present and unique.
func FromRecords(records []profile.RawRecord) (*Population, error) {
	p := &Population{Items: make([]profile.Profile, 0, len(records))}
	seen := make(map[string]struct{}, len(records))

	for i, r := range records {
		pr, err := profile.FromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if err := pr.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if _, ok := seen[pr.ID]; ok {
			return nil, fmt.Errorf("record %d: %w: %s", i, ErrDuplicateID, pr.ID)
		}
		seen[pr.ID] = struct{}{}
		p.Items = append(p.Items, pr)
	}

	return p, nil
}

func (p *Population) Len() int {
	return len(p.Items)
}

func (p *Population) FindByID(id string) *profile.Profile {
	id = strings.TrimSpace(id)
	for i := range p.Items {
		if p.Items[i].ID == id {
			return &p.Items[i]
		}
	}
	return nil
}

func (p *Population) IDs() []string {
	ids := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

// Exclude removes the profiles with the given ids, keeping the order of the
// rest, and returns the removed ids.
func (p *Population) Exclude(ids []string) []string {
	targets := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		targets[strings.TrimSpace(id)] = struct{}{}
	}
	return p.Remove(func(pr *profile.Profile) bool {
		_, ok := targets[pr.ID]
		return ok
	})
}

// Remove drops every profile drop reports true for, keeping the order of the
// rest, and returns the removed ids.
func (p *Population) Remove(drop func(*profile.Profile) bool) []string {
	var removed []string
	kept := p.Items[:0]
	for i := range p.Items {
		if drop(&p.Items[i]) {
			removed = append(removed, p.Items[i].ID)
			continue
		}
		kept = append(kept, p.Items[i])
	}
	p.Items = kept
	return removed
}

// ToFile writes the population as a JSON or YAML list depending on the
// extension of path.
func (p *Population) ToFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if isYAML(path) {
		enc := yaml.NewEncoder(file)
		enc.SetIndent(2)
		if err := enc.Encode(p.Items); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(p.Items)
}

// DumpToTmpFile writes v as indented JSON into a new temporary file and
// returns its name.
func DumpToTmpFile(pattern string, v any) (string, error) {
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
