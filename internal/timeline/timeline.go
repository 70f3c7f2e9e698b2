// Package timeline simulates blood alcohol concentration minute by minute
// from individually timed drinks.
package timeline

import (
	"math"
	"sort"
	"time"

	"github.com/Tiliavir/promille/internal/model"
	"github.com/Tiliavir/promille/internal/timecalc"
	"github.com/Tiliavir/promille/internal/widmark"
)

const (
	// Beta is the elimination rate in ‰ per hour.
	Beta = 0.15
	// AbsorptionMinutes is how long a single drink takes to be fully absorbed.
	AbsorptionMinutes = 45
	// SampleEvery is the output interval in simulated minutes.
	SampleEvery = 10
	// MaxMinutes caps the simulation at 48 hours.
	MaxMinutes = 48 * 60
)

// Point is one sample of the simulated curve.
type Point struct {
	Time     time.Time `json:"time"`
	Permille float64   `json:"permille"`
}

type absorption struct {
	grams  float64
	offset int // minutes after the first drink
}

// Simulate runs the absorption/elimination model for drinks and returns a
// sample every SampleEvery minutes, starting at the earliest drink. It
// returns nil when there are no drinks.
func Simulate(drinks []model.TimedDrink, user model.UserStats) []Point {
	if len(drinks) == 0 {
		return nil
	}

	sorted := make([]model.TimedDrink, len(drinks))
	copy(sorted, drinks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})
	startTime := sorted[0].Time
	lastDrinkTime := sorted[len(sorted)-1].Time

	r := user.Gender.DistributionRatio()
	eliminationPerMinute := (Beta * user.Weight * r) / 60

	absorptions := make([]absorption, len(sorted))
	for i, d := range sorted {
		absorptions[i] = absorption{
			grams:  d.Volume * (d.Percentage / 100) * widmark.EthanolDensity,
			offset: timecalc.MinutesBetween(startTime, d.Time),
		}
	}

	var (
		points      []Point
		grams       float64
		currentTime = startTime
	)
	for minute := 0; minute < MaxMinutes; minute++ {
		for _, a := range absorptions {
			since := minute - a.offset
			if since >= 0 && since < AbsorptionMinutes {
				grams += a.grams / AbsorptionMinutes
			}
		}

		if grams > 0 {
			grams -= math.Min(grams, eliminationPerMinute)
		}

		if minute%SampleEvery == 0 {
			points = append(points, Point{
				Time:     currentTime,
				Permille: math.Max(0, grams/(user.Weight*r)),
			})

			absorbed := timecalc.MinutesBetween(lastDrinkTime, currentTime) > AbsorptionMinutes
			if grams <= 0 && absorbed && minute > 0 {
				break
			}
		}

		currentTime = currentTime.Add(time.Minute)
	}

	return points
}

// Peak returns the sample with the highest concentration. The zero Point is
// returned for an empty curve.
func Peak(points []Point) Point {
	var peak Point
	for i, p := range points {
		if i == 0 || p.Permille > peak.Permille {
			peak = p
		}
	}
	return peak
}

// SoberAt returns the time of the first zero sample after the peak, and false
// if the curve never returns to zero.
func SoberAt(points []Point) (time.Time, bool) {
	peak := Peak(points)
	for _, p := range points {
		if p.Time.After(peak.Time) && p.Permille <= 0 {
			return p.Time, true
		}
	}
	return time.Time{}, false
}
