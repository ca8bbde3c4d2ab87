// Package quality implements the quality score engine: aggregation of LQA
// and QS scores into a combined score and the QualityReport lifecycle.
package quality

import (
	"fmt"

	"github.com/okian/linguist/internal/domain/model"
)

// Default tenant settings.
const (
	DefaultLQAWeight         = 4.0
	DefaultQSMultiplier      = 20.0
	DefaultDisputePeriodDays = 7
)

// Settings are the knobs the engine reads. They are always passed in.
type Settings struct {
	LQAWeight         float64
	QSMultiplier      float64
	DisputePeriodDays int
}

// DefaultSettings returns {4, 20, 7}.
func DefaultSettings() Settings {
	return Settings{
		LQAWeight:         DefaultLQAWeight,
		QSMultiplier:      DefaultQSMultiplier,
		DisputePeriodDays: DefaultDisputePeriodDays,
	}
}

// WithDefaults fills zero or negative fields from DefaultSettings.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.LQAWeight <= 0 {
		s.LQAWeight = d.LQAWeight
	}
	if s.QSMultiplier <= 0 {
		s.QSMultiplier = d.QSMultiplier
	}
	if s.DisputePeriodDays <= 0 {
		s.DisputePeriodDays = d.DisputePeriodDays
	}
	return s
}

// FromModel converts the stored record, applying defaults.
func FromModel(m model.QualitySettings) Settings {
	return Settings{
		LQAWeight:         m.LQAWeight,
		QSMultiplier:      m.QSMultiplier,
		DisputePeriodDays: m.DisputePeriodDays,
	}.WithDefaults()
}

// ToModel converts settings into the stored record shape.
func (s Settings) ToModel(id string) model.QualitySettings {
	return model.QualitySettings{
		ID:                id,
		LQAWeight:         s.LQAWeight,
		QSMultiplier:      s.QSMultiplier,
		DisputePeriodDays: s.DisputePeriodDays,
	}
}

// Validate rejects settings an admin must not store.
func (s Settings) Validate() error {
	if s.LQAWeight <= 0 {
		return fmt.Errorf("lqa_weight %v: %w", s.LQAWeight, ErrInvalidSettings)
	}
	if s.QSMultiplier <= 0 {
		return fmt.Errorf("qs_multiplier %v: %w", s.QSMultiplier, ErrInvalidSettings)
	}
	if s.DisputePeriodDays <= 0 || s.DisputePeriodDays > 365 {
		return fmt.Errorf("dispute_period_days %d: %w", s.DisputePeriodDays, ErrInvalidSettings)
	}
	return nil
}
