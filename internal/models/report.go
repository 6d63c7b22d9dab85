package models

import (
	"time"
)

// ReportStatus is the lifecycle state of a report. Transitions are
// one-directional: pending -> processing -> done|error.
type ReportStatus string

const (
	StatusPending    ReportStatus = "pending"
	StatusProcessing ReportStatus = "processing"
	StatusDone       ReportStatus = "done"
	StatusError      ReportStatus = "error"
)

// Terminal reports whether no further transition is allowed from s.
func (s ReportStatus) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// Report is one processing unit: an uploaded medical document plus
// everything the pipeline derived from it.
type Report struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Filename   string    `json:"filename"`
	MediaType  string    `json:"mediaType"`
	FileSize   int64     `json:"fileSize"`
	FileRef    string    `json:"fileRef"`
	Gender     string    `json:"gender,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`

	Status ReportStatus `json:"status"`
	// ExtractedText carries the raw extracted text on success and the
	// failure message on error status. The overload is part of the
	// outward contract; ProcessingError keeps the message separately so
	// the field can eventually be split without a migration.
	ExtractedText   string        `json:"extractedText"`
	ProcessingError string        `json:"-"`
	ParsedData      []Measurement `json:"parsedData"`
	Flags           *Flags        `json:"flags"`
}

// Measurement is one parsed lab value. Immutable once created.
type Measurement struct {
	Test    string  `json:"test"`
	Value   float64 `json:"value"`
	Unit    string  `json:"unit"`
	RawLine string  `json:"rawLine"`
}

// Flags holds the pipeline verdict for a report. It is written once,
// whole, when processing completes.
type Flags struct {
	Abnormalities []Abnormality `json:"abnormalities"`
	AIInsights    *Insight      `json:"aiInsights"`
}

// AbnormalStatus marks which side of the normal range a value fell on.
type AbnormalStatus string

const (
	AbnormalLow  AbnormalStatus = "low"
	AbnormalHigh AbnormalStatus = "high"
)

// Abnormality is one out-of-range measurement.
type Abnormality struct {
	Test        string         `json:"test"`
	Value       float64        `json:"value"`
	Unit        string         `json:"unit"`
	Status      AbnormalStatus `json:"status"`
	NormalRange string         `json:"normalRange"`
	Message     string         `json:"message"`
}

// Urgency is the triage level of an insight. Always one of the three
// values below, never free text.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Insight is the patient-facing narrative produced from a report.
// Disclaimer is always non-empty.
type Insight struct {
	Summary         string   `json:"summary"`
	Concerns        []string `json:"concerns"`
	Recommendations []string `json:"recommendations"`
	Urgency         Urgency  `json:"urgency"`
	Disclaimer      string   `json:"disclaimer"`
}
