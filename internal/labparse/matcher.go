package labparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/harshitnub077/SynapticCare-sub000/internal/models"
	"github.com/harshitnub077/SynapticCare-sub000/internal/registry"
)

// Matcher recognizes one test on a line of report text. The alias-table
// implementation below can be swapped for a smarter tokenizer without
// touching the parser's control flow.
type Matcher interface {
	Match(line string) (models.Measurement, bool)
}

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// aliasMatcher matches a line against the case-insensitive alternation
// of one registry entry's aliases and pulls the first numeric token
// after the alias as the value. Scanning from the end of the alias
// keeps digits inside the alias itself (b12, hba1c) out of the value.
type aliasMatcher struct {
	entry   registry.Entry
	pattern *regexp.Regexp
}

func newAliasMatcher(entry registry.Entry) (*aliasMatcher, error) {
	quoted := make([]string, 0, len(entry.Aliases))
	for _, alias := range entry.Aliases {
		quoted = append(quoted, regexp.QuoteMeta(alias))
	}

	pattern, err := regexp.Compile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("failed to compile alias pattern for %s: %w", entry.CanonicalName, err)
	}

	return &aliasMatcher{entry: entry, pattern: pattern}, nil
}

func (m *aliasMatcher) Match(line string) (models.Measurement, bool) {
	loc := m.pattern.FindStringIndex(line)
	if loc == nil {
		return models.Measurement{}, false
	}

	token := numberPattern.FindString(line[loc[1]:])
	if token == "" {
		// Alias mentioned without a value, e.g. a section header.
		return models.Measurement{}, false
	}

	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return models.Measurement{}, false
	}

	return models.Measurement{
		Test:    m.entry.CanonicalName,
		Value:   value,
		Unit:    m.entry.Unit,
		RawLine: line,
	}, true
}
