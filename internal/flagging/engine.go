// Package flagging compares parsed measurements against the threshold
// registry and emits abnormality records for out-of-range values.
package flagging

import (
	"fmt"

	"github.com/harshitnub077/SynapticCare-sub000/internal/models"
	"github.com/harshitnub077/SynapticCare-sub000/internal/registry"
	"github.com/harshitnub077/SynapticCare-sub000/pkg/logger"
)

// Engine resolves the applicable normal range per measurement and
// flags values outside it.
type Engine struct {
	registry *registry.Registry
	logger   logger.Logger
}

func NewEngine(reg *registry.Registry, log logger.Logger) *Engine {
	return &Engine{registry: reg, logger: log}
}

// Flag returns one abnormality per out-of-range measurement.
// Measurements whose test has no registry entry are skipped silently;
// the registry is the single source of truth and drift is tolerated.
func (e *Engine) Flag(measurements []models.Measurement, gender string) []models.Abnormality {
	var abnormalities []models.Abnormality

	for _, m := range measurements {
		entry, ok := e.registry.Lookup(m.Test)
		if !ok {
			continue
		}

		r := entry.RangeFor(gender)

		var status models.AbnormalStatus
		var direction string
		switch {
		case m.Value < r.Min:
			status = models.AbnormalLow
			direction = "below"
		case m.Value > r.Max:
			status = models.AbnormalHigh
			direction = "above"
		default:
			continue
		}

		abnormalities = append(abnormalities, models.Abnormality{
			Test:        m.Test,
			Value:       m.Value,
			Unit:        m.Unit,
			Status:      status,
			NormalRange: r.String(),
			Message:     fmt.Sprintf("%s is %s normal range", m.Test, direction),
		})
	}

	if len(abnormalities) > 0 {
		e.logger.Debug("flagged abnormal values",
			logger.Int("abnormalities", len(abnormalities)),
		)
	}

	return abnormalities
}
