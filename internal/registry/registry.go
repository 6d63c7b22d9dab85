package registry

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Range is an inclusive normal range for a test value.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// String renders the range the way abnormality records expose it,
// e.g. "13.8-17.2".
func (r Range) String() string {
	return strconv.FormatFloat(r.Min, 'f', -1, 64) + "-" + strconv.FormatFloat(r.Max, 'f', -1, 64)
}

// Entry is one threshold definition: a canonical test name, the alias
// strings it is recognized by, its unit, and the normal range, either
// flat or gender-qualified.
type Entry struct {
	CanonicalName string
	Aliases       []string
	Unit          string

	flat   *Range
	male   *Range
	female *Range
}

// GenderQualified reports whether the entry defines per-gender ranges.
func (e *Entry) GenderQualified() bool {
	return e.flat == nil
}

// RangeFor resolves the applicable range for a gender string. For a
// gender-qualified entry and an unknown gender it returns the union of
// the male and female ranges, so only unambiguously out-of-range values
// get flagged.
func (e *Entry) RangeFor(gender string) Range {
	if e.flat != nil {
		return *e.flat
	}
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "male", "m":
		return *e.male
	case "female", "f":
		return *e.female
	default:
		union := Range{Min: e.male.Min, Max: e.male.Max}
		if e.female.Min < union.Min {
			union.Min = e.female.Min
		}
		if e.female.Max > union.Max {
			union.Max = e.female.Max
		}
		return union
	}
}

// Registry is the immutable threshold table. Loaded once at startup and
// read-only afterwards.
type Registry struct {
	entries []Entry
	byName  map[string]*Entry
}

type rawEntry struct {
	Aliases     []string       `yaml:"aliases"`
	Unit        string         `yaml:"unit"`
	NormalRange rawNormalRange `yaml:"normalRange"`
}

type rawNormalRange struct {
	Min    *float64 `yaml:"min"`
	Max    *float64 `yaml:"max"`
	Male   *Range   `yaml:"male"`
	Female *Range   `yaml:"female"`
}

// Load reads a threshold document from disk.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read threshold config: %w", err)
	}
	return Parse(data)
}

// Parse builds a registry from a YAML document keyed by canonical test
// name.
func Parse(data []byte) (*Registry, error) {
	var raw map[string]rawEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse threshold config: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("threshold config is empty")
	}

	reg := &Registry{
		entries: make([]Entry, 0, len(raw)),
		byName:  make(map[string]*Entry, len(raw)),
	}

	for name, re := range raw {
		entry, err := buildEntry(name, re)
		if err != nil {
			return nil, err
		}
		reg.entries = append(reg.entries, entry)
	}

	// Stable order so parsing output is deterministic across loads.
	sort.Slice(reg.entries, func(i, j int) bool {
		return reg.entries[i].CanonicalName < reg.entries[j].CanonicalName
	})
	for i := range reg.entries {
		reg.byName[strings.ToLower(reg.entries[i].CanonicalName)] = &reg.entries[i]
	}

	return reg, nil
}

func buildEntry(name string, re rawEntry) (Entry, error) {
	if len(re.Aliases) == 0 {
		return Entry{}, fmt.Errorf("threshold %q has no aliases", name)
	}

	entry := Entry{
		CanonicalName: name,
		Aliases:       re.Aliases,
		Unit:          re.Unit,
	}

	nr := re.NormalRange
	switch {
	case nr.Min != nil && nr.Max != nil:
		entry.flat = &Range{Min: *nr.Min, Max: *nr.Max}
	case nr.Male != nil && nr.Female != nil:
		entry.male = nr.Male
		entry.female = nr.Female
	default:
		return Entry{}, fmt.Errorf("threshold %q needs either min/max or male+female ranges", name)
	}

	for _, r := range []*Range{entry.flat, entry.male, entry.female} {
		if r != nil && r.Min >= r.Max {
			return Entry{}, fmt.Errorf("threshold %q has invalid range %s", name, r)
		}
	}

	return entry, nil
}

// Lookup resolves an entry by canonical name, case-insensitively.
func (r *Registry) Lookup(canonicalName string) (*Entry, bool) {
	e, ok := r.byName[strings.ToLower(canonicalName)]
	return e, ok
}

// Entries returns a copy of the registry entries in stable
// canonical-name order.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}
