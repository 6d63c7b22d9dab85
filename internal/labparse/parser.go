// Package labparse scans raw report text against the threshold
// registry's alias tables and produces structured measurements.
package labparse

import (
	"fmt"
	"strings"

	"github.com/harshitnub077/SynapticCare-sub000/internal/models"
	"github.com/harshitnub077/SynapticCare-sub000/internal/registry"
	"github.com/harshitnub077/SynapticCare-sub000/pkg/logger"
)

// Parser turns extracted text into measurements. Parsing is
// deterministic: the same text always yields the same ordered list
// (line order, then registry canonical-name order within a line).
//
// The value is the first numeric token after the matched alias. Lines
// that carry the reference range next to the value keep that ambiguity;
// lab reports put the measured value first, so this is accepted as a
// known limitation rather than worked around.
type Parser struct {
	matchers []Matcher
	logger   logger.Logger
}

// NewParser builds one matcher per registry entry.
func NewParser(reg *registry.Registry, log logger.Logger) (*Parser, error) {
	matchers := make([]Matcher, 0, reg.Len())
	for _, entry := range reg.Entries() {
		m, err := newAliasMatcher(entry)
		if err != nil {
			return nil, fmt.Errorf("failed to build matcher: %w", err)
		}
		matchers = append(matchers, m)
	}

	return &Parser{matchers: matchers, logger: log}, nil
}

// Parse scans every line against every matcher. A line that literally
// contains several distinct aliases produces one measurement per
// matched test; a line with an alias but no number is skipped silently.
func (p *Parser) Parse(text string) []models.Measurement {
	var measurements []models.Measurement

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		for _, m := range p.matchers {
			if meas, ok := m.Match(line); ok {
				measurements = append(measurements, meas)
			}
		}
	}

	p.logger.Debug("parsed lab values",
		logger.Int("measurements", len(measurements)),
	)

	return measurements
}
