package flagging

import (
	"testing"

	"github.com/harshitnub077/SynapticCare-sub000/internal/models"
	"github.com/harshitnub077/SynapticCare-sub000/internal/registry"
	"github.com/harshitnub077/SynapticCare-sub000/pkg/logger"
)

const testThresholds = `
Hemoglobin:
  aliases: [hemoglobin, hgb]
  unit: g/dL
  normalRange:
    male: {min: 13.8, max: 17.2}
    female: {min: 12.1, max: 15.1}
Glucose:
  aliases: [glucose]
  unit: mg/dL
  normalRange: {min: 70, max: 100}
`

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	reg, err := registry.Parse([]byte(testThresholds))
	if err != nil {
		t.Fatalf("registry.Parse: %v", err)
	}
	return NewEngine(reg, logger.NewTestLogger())
}

func TestFlagLowValue(t *testing.T) {
	e := newTestEngine(t)

	got := e.Flag([]models.Measurement{
		{Test: "Hemoglobin", Value: 10.2, Unit: "g/dL"},
	}, "male")
	if len(got) != 1 {
		t.Fatalf("expected 1 abnormality, got %d", len(got))
	}

	a := got[0]
	if a.Status != models.AbnormalLow {
		t.Errorf("Status = %q, want low", a.Status)
	}
	if a.NormalRange != "13.8-17.2" {
		t.Errorf("NormalRange = %q, want 13.8-17.2", a.NormalRange)
	}
	if a.Message != "Hemoglobin is below normal range" {
		t.Errorf("Message = %q", a.Message)
	}
	if a.Value != 10.2 || a.Unit != "g/dL" {
		t.Errorf("value/unit not carried: %+v", a)
	}
}

func TestFlagHighValue(t *testing.T) {
	e := newTestEngine(t)

	got := e.Flag([]models.Measurement{
		{Test: "Glucose", Value: 140, Unit: "mg/dL"},
	}, "")
	if len(got) != 1 {
		t.Fatalf("expected 1 abnormality, got %d", len(got))
	}
	if got[0].Status != models.AbnormalHigh {
		t.Errorf("Status = %q, want high", got[0].Status)
	}
	if got[0].Message != "Glucose is above normal range" {
		t.Errorf("Message = %q", got[0].Message)
	}
}

func TestFlagInRangeValue(t *testing.T) {
	e := newTestEngine(t)

	got := e.Flag([]models.Measurement{
		{Test: "Glucose", Value: 85, Unit: "mg/dL"},
		// boundary values are in range
		{Test: "Glucose", Value: 70, Unit: "mg/dL"},
		{Test: "Glucose", Value: 100, Unit: "mg/dL"},
	}, "")
	if len(got) != 0 {
		t.Fatalf("expected no abnormalities, got %+v", got)
	}
}

func TestFlagGenderedRanges(t *testing.T) {
	e := newTestEngine(t)
	m := []models.Measurement{{Test: "Hemoglobin", Value: 12.5, Unit: "g/dL"}}

	// below male minimum
	if got := e.Flag(m, "male"); len(got) != 1 || got[0].Status != models.AbnormalLow {
		t.Errorf("male: %+v", got)
	}
	// within female range
	if got := e.Flag(m, "female"); len(got) != 0 {
		t.Errorf("female: %+v", got)
	}
	// unknown gender: union range, only unambiguous outliers flagged
	if got := e.Flag(m, ""); len(got) != 0 {
		t.Errorf("unknown gender: %+v", got)
	}

	low := []models.Measurement{{Test: "Hemoglobin", Value: 11.0, Unit: "g/dL"}}
	got := e.Flag(low, "")
	if len(got) != 1 {
		t.Fatalf("unknown gender low: %+v", got)
	}
	if got[0].NormalRange != "12.1-17.2" {
		t.Errorf("union NormalRange = %q, want 12.1-17.2", got[0].NormalRange)
	}
}

func TestFlagSkipsUnknownTests(t *testing.T) {
	e := newTestEngine(t)

	got := e.Flag([]models.Measurement{
		{Test: "Ferritin", Value: 1000, Unit: "ng/mL"},
		{Test: "Glucose", Value: 140, Unit: "mg/dL"},
	}, "")
	if len(got) != 1 || got[0].Test != "Glucose" {
		t.Fatalf("expected only Glucose flagged, got %+v", got)
	}
}

func TestFlagNoMeasurements(t *testing.T) {
	e := newTestEngine(t)

	if got := e.Flag(nil, "male"); len(got) != 0 {
		t.Fatalf("expected no abnormalities, got %+v", got)
	}
}
