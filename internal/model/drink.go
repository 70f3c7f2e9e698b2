package model

import "time"

// Gender selects the Widmark distribution ratio.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// DistributionRatio returns the Widmark factor r: 0.7 for men, 0.6 otherwise.
func (g Gender) DistributionRatio() float64 {
	if g == GenderMale {
		return 0.7
	}
	return 0.6
}

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// UserStats holds the body attributes used by the estimator and simulator.
// Age and Height are collected for display only.
type UserStats struct {
	Weight float64 `json:"weight" yaml:"weight"` // kg
	Gender Gender  `json:"gender" yaml:"gender"`
	Age    int     `json:"age,omitempty" yaml:"age,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"` // cm
}

// Drink is a point-estimate input: Count servings of Volume ml at Percentage %.
type Drink struct {
	Count      int
	Volume     float64
	Percentage float64
}

// TimedDrink is a single serving consumed at Time. IDs are unique per entry;
// times may repeat and are not assumed to be sorted.
type TimedDrink struct {
	ID         string
	Volume     float64
	Percentage float64
	Time       time.Time
}
