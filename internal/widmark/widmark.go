// Package widmark computes a point estimate of blood alcohol concentration
// and time-to-sober with the Widmark formula.
package widmark

import (
	"math"
	"time"

	"github.com/Tiliavir/promille/internal/model"
	"github.com/Tiliavir/promille/internal/timecalc"
)

const (
	// EthanolDensity is the density of ethanol in g/ml.
	EthanolDensity = 0.79
	// BloodDensity converts ‰ by mass to ‰ by volume.
	BloodDensity = 1.055
	// PlasmaRatio approximates the plasma/whole-blood concentration ratio.
	PlasmaRatio = 1.2
	// BreathRatio approximates breath alcohol in mg/l from blood ‰.
	BreathRatio = 0.45
	// PeakCorrectionBeta is the elimination rate (‰/h) assumed while drinking.
	PeakCorrectionBeta = 0.15
)

// Profile is an assumed metabolism: hours until absorption completes and
// elimination rate beta in ‰ per hour.
type Profile struct {
	ResorptionHours float64
	Beta            float64
}

var (
	Fast    = Profile{ResorptionHours: 0.5, Beta: 0.20}
	Average = Profile{ResorptionHours: 0.75, Beta: 0.15}
	Slow    = Profile{ResorptionHours: 1.0, Beta: 0.10}
)

// SoberTime is the estimated time until BAC returns to zero.
type SoberTime struct {
	Hours   int
	Minutes int
	SoberAt time.Time
}

// Result is the full estimate for one drinking session.
type Result struct {
	AlcoholGrams float64
	// Permille is the theoretical maximum concentration C0 in ‰ by mass.
	Permille float64
	// EstimatedPeakPermille is C0 less what was eliminated while drinking.
	EstimatedPeakPermille float64

	PermilleByVolume float64 // ‰ BAC by volume
	PercentByVolume  float64 // % BAC by volume
	Plasma           float64 // g/l
	Breath           float64 // mg/l

	MinTime SoberTime // fast metabolism
	AvgTime SoberTime // average metabolism
	MaxTime SoberTime // slow metabolism
}

// AlcoholGrams returns the pure alcohol in grams across drinks.
func AlcoholGrams(drinks []model.Drink) float64 {
	var grams float64
	for _, d := range drinks {
		grams += d.Volume * float64(d.Count) * (d.Percentage / 100) * EthanolDensity
	}
	return grams
}

// Estimate applies the Widmark formula to drinks consumed between start and
// end by a person of the given weight (kg) and gender. Inputs are assumed to
// be finite and validated by the caller.
func Estimate(drinks []model.Drink, weight float64, gender model.Gender, start, end time.Time) Result {
	r := gender.DistributionRatio()
	grams := AlcoholGrams(drinks)
	permille := grams / (weight * r)
	byVolume := permille * BloodDensity

	durationHours := math.Max(0, timecalc.HoursBetween(start, end))
	peak := math.Max(0, permille-PeakCorrectionBeta*durationHours)

	return Result{
		AlcoholGrams:          grams,
		Permille:              permille,
		EstimatedPeakPermille: peak,
		PermilleByVolume:      byVolume,
		PercentByVolume:       byVolume / 10,
		Plasma:                permille * PlasmaRatio,
		Breath:                permille * BreathRatio,
		MinTime:               soberTime(permille, Fast, start, end),
		AvgTime:               soberTime(permille, Average, start, end),
		MaxTime:               soberTime(permille, Slow, start, end),
	}
}

// soberTime projects the sober moment for one profile. The result is never
// earlier than end plus the profile's resorption time: someone who drank
// slower than they eliminate is sober shortly after the last drink.
func soberTime(permille float64, p Profile, start, end time.Time) SoberTime {
	var elimination float64
	if permille > 0 {
		elimination = permille / p.Beta
	}

	totalHours := p.ResorptionHours + elimination
	soberAt := timecalc.AddHours(start, totalHours)

	floor := timecalc.AddHours(end, p.ResorptionHours)
	if soberAt.Before(floor) {
		soberAt = floor
		totalHours = timecalc.HoursBetween(start, soberAt)
	}

	hours, minutes := timecalc.SplitHours(totalHours)
	return SoberTime{Hours: hours, Minutes: minutes, SoberAt: soberAt}
}
