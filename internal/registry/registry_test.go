package registry

import (
	"strings"
	"testing"
)

const testThresholds = `
Hemoglobin:
  aliases: [hemoglobin, hgb, hb]
  unit: g/dL
  normalRange:
    male: {min: 13.8, max: 17.2}
    female: {min: 12.1, max: 15.1}
Glucose:
  aliases: [glucose, fasting glucose]
  unit: mg/dL
  normalRange: {min: 70, max: 100}
`

func TestParseAndLookup(t *testing.T) {
	reg, err := Parse([]byte(testThresholds))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", reg.Len())
	}

	entry, ok := reg.Lookup("hemoglobin")
	if !ok {
		t.Fatal("expected case-insensitive lookup to find Hemoglobin")
	}
	if entry.CanonicalName != "Hemoglobin" {
		t.Errorf("canonical name = %q", entry.CanonicalName)
	}
	if !entry.GenderQualified() {
		t.Error("Hemoglobin should be gender-qualified")
	}

	entry, ok = reg.Lookup("Glucose")
	if !ok {
		t.Fatal("expected Glucose entry")
	}
	if entry.GenderQualified() {
		t.Error("Glucose should have a flat range")
	}

	if _, ok := reg.Lookup("Ferritin"); ok {
		t.Error("unexpected entry for unknown test")
	}
}

func TestEntriesAreSorted(t *testing.T) {
	reg, err := Parse([]byte(testThresholds))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	entries := reg.Entries()
	for i := 1; i < len(entries); i++ {
		if entries[i-1].CanonicalName > entries[i].CanonicalName {
			t.Fatalf("entries out of order: %q before %q",
				entries[i-1].CanonicalName, entries[i].CanonicalName)
		}
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	reg, err := Parse([]byte(testThresholds))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	entries := reg.Entries()
	entries[0].CanonicalName = "Clobbered"
	entries[0].Aliases = nil

	name := reg.Entries()[0].CanonicalName
	if name != "Glucose" {
		t.Errorf("registry mutated through Entries(): %q", name)
	}
	if entry, ok := reg.Lookup("Glucose"); !ok || len(entry.Aliases) == 0 {
		t.Error("lookup table mutated through Entries()")
	}
}

func TestRangeFor(t *testing.T) {
	reg, err := Parse([]byte(testThresholds))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	entry, _ := reg.Lookup("Hemoglobin")

	tests := []struct {
		gender   string
		min, max float64
	}{
		{"male", 13.8, 17.2},
		{"M", 13.8, 17.2},
		{"female", 12.1, 15.1},
		{" F ", 12.1, 15.1},
		// unknown gender resolves to the union of both ranges
		{"", 12.1, 17.2},
		{"other", 12.1, 17.2},
	}
	for _, tt := range tests {
		r := entry.RangeFor(tt.gender)
		if r.Min != tt.min || r.Max != tt.max {
			t.Errorf("RangeFor(%q) = %v-%v, want %v-%v",
				tt.gender, r.Min, r.Max, tt.min, tt.max)
		}
	}

	flat, _ := reg.Lookup("Glucose")
	r := flat.RangeFor("male")
	if r.Min != 70 || r.Max != 100 {
		t.Errorf("flat RangeFor = %v-%v, want 70-100", r.Min, r.Max)
	}
}

func TestRangeString(t *testing.T) {
	r := Range{Min: 13.8, Max: 17.2}
	if got := r.String(); got != "13.8-17.2" {
		t.Errorf("String() = %q, want %q", got, "13.8-17.2")
	}
	r = Range{Min: 70, Max: 100}
	if got := r.String(); got != "70-100" {
		t.Errorf("String() = %q, want %q", got, "70-100")
	}
}

func TestParseRejectsMalformedEntries(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "empty document",
			doc:  "",
			want: "empty",
		},
		{
			name: "no aliases",
			doc: `
Hemoglobin:
  aliases: []
  unit: g/dL
  normalRange: {min: 13.8, max: 17.2}
`,
			want: "no aliases",
		},
		{
			name: "missing range",
			doc: `
Hemoglobin:
  aliases: [hgb]
  unit: g/dL
  normalRange: {}
`,
			want: "needs either",
		},
		{
			name: "inverted range",
			doc: `
Hemoglobin:
  aliases: [hgb]
  unit: g/dL
  normalRange: {min: 17.2, max: 13.8}
`,
			want: "invalid range",
		},
		{
			name: "only one gender",
			doc: `
Hemoglobin:
  aliases: [hgb]
  unit: g/dL
  normalRange:
    male: {min: 13.8, max: 17.2}
`,
			want: "needs either",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
