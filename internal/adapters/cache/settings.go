// Package cache provides the quality settings providers: a store-backed
// record with defaults and a Redis read-through cache in front of it.
package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/linguist/internal/adapters/repository"
	"github.com/okian/linguist/internal/domain/model"
	"github.com/okian/linguist/internal/domain/quality"
)

// SettingsID is the id of the single QualitySettings record.
const SettingsID = "quality"

// SettingsProvider reads the current quality settings.
type SettingsProvider interface {
	Get(ctx context.Context) (quality.Settings, error)
}

// SettingsStore reads and writes quality settings.
type SettingsStore interface {
	SettingsProvider
	Put(ctx context.Context, s quality.Settings) error
}

// StoreSettings keeps settings as one entity in the repository.
type StoreSettings struct {
	coll     *repository.Collection[model.QualitySettings]
	defaults quality.Settings
}

// NewStoreSettings creates a store-backed provider. Missing or zero fields
// fall back to defaults, which themselves fall back to {4, 20, 7}.
func NewStoreSettings(coll *repository.Collection[model.QualitySettings], defaults quality.Settings) *StoreSettings {
	return &StoreSettings{coll: coll, defaults: defaults.WithDefaults()}
}

// Get implements SettingsProvider.
func (s *StoreSettings) Get(ctx context.Context) (quality.Settings, error) {
	rec, err := s.coll.Get(ctx, SettingsID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.defaults, nil
	}
	if err != nil {
		return quality.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	out := quality.Settings{
		LQAWeight:         rec.LQAWeight,
		QSMultiplier:      rec.QSMultiplier,
		DisputePeriodDays: rec.DisputePeriodDays,
	}
	if out.LQAWeight <= 0 {
		out.LQAWeight = s.defaults.LQAWeight
	}
	if out.QSMultiplier <= 0 {
		out.QSMultiplier = s.defaults.QSMultiplier
	}
	if out.DisputePeriodDays <= 0 {
		out.DisputePeriodDays = s.defaults.DisputePeriodDays
	}
	return out, nil
}

// Put validates and persists settings.
func (s *StoreSettings) Put(ctx context.Context, in quality.Settings) error {
	if err := in.Validate(); err != nil {
		return err
	}
	rec := in.ToModel(SettingsID)
	err := s.coll.Save(ctx, rec)
	if errors.Is(err, repository.ErrNotFound) {
		err = s.coll.Create(ctx, &rec)
	}
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
