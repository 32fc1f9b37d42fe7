package matchups

import (
	"errors"
	"fmt"

	"nhl-travel-service/internal/timeutil"
)

const (
	StrictThresholdKm   = 100.0
	RelaxedThresholdKm  = 1000.0
	DefaultNightStart   = 18
	DefaultLookbackDays = 3
)

// Params controls one ranking pass.
type Params struct {
	TargetDate        string
	LookbackDays      int
	TravelThreshold   float64
	NightStartHour    int
	RequireBackToBack bool
}

// Validate reports malformed parameters.
func (p Params) Validate() error {
	var errs []error
	if _, err := timeutil.ParseDate(p.TargetDate); err != nil {
		errs = append(errs, fmt.Errorf("target date %q: %w", p.TargetDate, err))
	}
	if p.LookbackDays < 0 {
		errs = append(errs, fmt.Errorf("lookback days must be non-negative, got %d", p.LookbackDays))
	}
	if p.NightStartHour < 0 || p.NightStartHour > 23 {
		errs = append(errs, fmt.Errorf("night start hour must be 0-23, got %d", p.NightStartHour))
	}
	if p.TravelThreshold < 0 {
		errs = append(errs, fmt.Errorf("travel threshold must be non-negative, got %g", p.TravelThreshold))
	}
	return errors.Join(errs...)
}

// Preset names a threshold and rest requirement.
type Preset struct {
	Name              string
	TravelThreshold   float64
	RequireBackToBack bool
}

// Strict favors tired road teams: any travel over 100 km on the second night of a back-to-back.
func Strict() Preset {
	return Preset{Name: "strict", TravelThreshold: StrictThresholdKm, RequireBackToBack: true}
}

// Relaxed drops the back-to-back requirement but asks for long trips.
func Relaxed() Preset {
	return Preset{Name: "relaxed", TravelThreshold: RelaxedThresholdKm}
}

// WithThreshold returns a copy using km when km is positive.
func (p Preset) WithThreshold(km float64) Preset {
	if km > 0 {
		p.TravelThreshold = km
	}
	return p
}

// Params builds ranking parameters for a date.
func (p Preset) Params(target string, lookbackDays, nightStartHour int) Params {
	return Params{
		TargetDate:        target,
		LookbackDays:      lookbackDays,
		TravelThreshold:   p.TravelThreshold,
		NightStartHour:    nightStartHour,
		RequireBackToBack: p.RequireBackToBack,
	}
}
