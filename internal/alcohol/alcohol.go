package alcohol

import (
	"fmt"
	"slices"
	"strings"
)

// Type is a kind of alcoholic drink.
type Type string

const (
	Absent    Type = "Absent"
	Beer      Type = "Beer"
	Wine      Type = "Wine"
	Vodka     Type = "Vodka"
	Whiskey   Type = "Whiskey"
	Rum       Type = "Rum"
	Tequila   Type = "Tequila"
	Gin       Type = "Gin"
	Champagne Type = "Champagne"
	Brandy    Type = "Brandy"
	Other     Type = "Other"
)

// Bottle is a serving container.
type Bottle string

const (
	BottleBottle Bottle = "Bottle"
	BottlePint   Bottle = "Pint"
	BottleGlass  Bottle = "Glass"
	BottleShot   Bottle = "Shot"
	BottleOther  Bottle = "Other"
)

var types = []Type{Absent, Beer, Wine, Vodka, Whiskey, Rum, Tequila, Gin, Champagne, Brandy, Other}

var bottles = []Bottle{BottleBottle, BottlePint, BottleGlass, BottleShot, BottleOther}

// The first size of each list is the default for that bottle.
var bottleSizes = map[Bottle][]float64{
	BottleBottle: {330, 500, 750, 1000},
	BottlePint:   {330, 500, 568},
	BottleGlass:  {100, 150, 200, 250},
	BottleShot:   {25, 30, 44, 50, 100},
	BottleOther:  {0},
}

var defaultStrength = map[Type]float64{
	Absent:    50,
	Beer:      5,
	Wine:      12,
	Vodka:     40,
	Whiskey:   40,
	Rum:       40,
	Tequila:   40,
	Gin:       40,
	Champagne: 12,
	Brandy:    40,
	Other:     0,
}

// The first bottle of each list is the default for that alcohol.
var allowedBottles = map[Type][]Bottle{
	Absent:    {BottleOther},
	Beer:      {BottlePint, BottleBottle, BottleGlass},
	Wine:      {BottleBottle, BottleGlass},
	Vodka:     {BottleBottle, BottleShot, BottleGlass},
	Whiskey:   {BottleBottle, BottleShot, BottleGlass},
	Rum:       {BottleBottle, BottleShot, BottleGlass},
	Tequila:   {BottleBottle, BottleShot, BottleGlass},
	Gin:       {BottleBottle, BottleShot, BottleGlass},
	Champagne: {BottleBottle, BottleGlass},
	Brandy:    {BottleBottle, BottleShot, BottleGlass},
	Other:     {BottleOther},
}

// Types returns all alcohol types in display order.
func Types() []Type {
	return slices.Clone(types)
}

// BottleTypes returns all bottle types in display order.
func BottleTypes() []Bottle {
	return slices.Clone(bottles)
}

// Sizes returns the allowed sizes in ml for b, or nil if b is unknown.
func Sizes(b Bottle) []float64 {
	return slices.Clone(bottleSizes[b])
}

// DefaultSize returns the first allowed size of b.
func DefaultSize(b Bottle) float64 {
	sizes := bottleSizes[b]
	if len(sizes) == 0 {
		return 0
	}
	return sizes[0]
}

// DefaultStrength returns the default percentage for t.
func DefaultStrength(t Type) float64 {
	return defaultStrength[t]
}

// Bottles returns the bottle types allowed for t, or nil if t is unknown.
func Bottles(t Type) []Bottle {
	return slices.Clone(allowedBottles[t])
}

// DefaultBottle returns the first bottle type allowed for t.
func DefaultBottle(t Type) Bottle {
	list := allowedBottles[t]
	if len(list) == 0 {
		return BottleOther
	}
	return list[0]
}

// Allows reports whether b is an allowed bottle for t.
func Allows(t Type, b Bottle) bool {
	return slices.Contains(allowedBottles[t], b)
}

// ParseType resolves a case-insensitive alcohol name.
func ParseType(s string) (Type, error) {
	for _, t := range types {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown alcohol type %q", s)
}

// ParseBottle resolves a case-insensitive bottle name.
func ParseBottle(s string) (Bottle, error) {
	for _, b := range bottles {
		if strings.EqualFold(string(b), strings.TrimSpace(s)) {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown bottle type %q", s)
}
