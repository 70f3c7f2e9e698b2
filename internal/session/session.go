// Package session reads drinking-session files and turns them into inputs
// for the estimator and the timeline simulator.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/promille/internal/alcohol"
	"github.com/Tiliavir/promille/internal/model"
	"github.com/Tiliavir/promille/internal/timecalc"
)

// Load reads a session from a .json, .yaml or .yml file.
func Load(path string) (model.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Session{}, fmt.Errorf("reading session file: %w", err)
	}

	var s model.Session
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &s)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	default:
		return model.Session{}, fmt.Errorf("unsupported session file type %q: want .json, .yaml or .yml", ext)
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("corrupt session file %s: %w", path, err)
	}
	return s, nil
}

// FillUser copies weight, gender, age and height from def into s where the
// session leaves them unset.
func FillUser(s model.Session, def model.UserStats) model.Session {
	if s.User.Weight == 0 {
		s.User.Weight = def.Weight
	}
	if s.User.Gender == "" {
		s.User.Gender = def.Gender
	}
	if s.User.Age == 0 {
		s.User.Age = def.Age
	}
	if s.User.Height == 0 {
		s.User.Height = def.Height
	}
	return s
}

// Resolve fills every drink's missing bottle, size, strength and count from
// the reference tables and validates the result. The returned session has
// canonical alcohol and bottle names and a non-nil Percentage on every drink.
// A zero End is set to Start.
func Resolve(s model.Session) (model.Session, error) {
	var errs []error

	if s.User.Weight <= 0 {
		errs = append(errs, errors.New("user weight must be greater than 0"))
	}
	if !s.User.Gender.Valid() {
		errs = append(errs, fmt.Errorf("unknown gender %q: want male or female", s.User.Gender))
	}
	if s.Start.IsZero() {
		errs = append(errs, errors.New("session start time is missing"))
	}
	if s.End.IsZero() {
		s.End = s.Start
	}
	if s.End.Before(s.Start) {
		errs = append(errs, errors.New("session end is before start"))
	}

	drinks := make([]model.SessionDrink, len(s.Drinks))
	for i, d := range s.Drinks {
		resolved, err := resolveDrink(d)
		if err != nil {
			errs = append(errs, fmt.Errorf("drink %d: %w", i+1, err))
		}
		drinks[i] = resolved
	}
	s.Drinks = drinks

	if len(errs) > 0 {
		return model.Session{}, errors.Join(errs...)
	}
	return s, nil
}

func resolveDrink(d model.SessionDrink) (model.SessionDrink, error) {
	t, err := alcohol.ParseType(d.Alcohol)
	if err != nil {
		return d, err
	}
	d.Alcohol = string(t)

	b := alcohol.DefaultBottle(t)
	if d.Bottle != "" {
		if b, err = alcohol.ParseBottle(d.Bottle); err != nil {
			return d, err
		}
	}
	if !alcohol.Allows(t, b) {
		return d, fmt.Errorf("%s is not served in a %s", t, b)
	}
	d.Bottle = string(b)

	if d.SizeML == 0 {
		d.SizeML = alcohol.DefaultSize(b)
	}
	if d.SizeML <= 0 {
		return d, fmt.Errorf("size_ml is required for %s", b)
	}

	if d.Percentage == nil {
		pct := alcohol.DefaultStrength(t)
		d.Percentage = &pct
	}
	if *d.Percentage < 0 || *d.Percentage > 100 {
		return d, fmt.Errorf("percentage %v out of range 0-100", *d.Percentage)
	}

	if d.Count == 0 {
		d.Count = 1
	}
	if d.Count < 0 {
		return d, fmt.Errorf("count %d must be at least 1", d.Count)
	}
	return d, nil
}

// EstimateDrinks converts a resolved session into estimator input.
func EstimateDrinks(s model.Session) []model.Drink {
	drinks := make([]model.Drink, 0, len(s.Drinks))
	for _, d := range s.Drinks {
		drinks = append(drinks, model.Drink{
			Count:      d.Count,
			Volume:     d.SizeML,
			Percentage: percentage(d),
		})
	}
	return drinks
}

// TimedDrinks converts a resolved session into simulator input. Each counted
// serving becomes its own drink; drinks without a time are placed at the
// session start.
func TimedDrinks(s model.Session) []model.TimedDrink {
	var drinks []model.TimedDrink
	for _, d := range s.Drinks {
		at := s.Start
		if d.Time != nil {
			at = *d.Time
		}
		for i := 0; i < d.Count; i++ {
			drinks = append(drinks, model.TimedDrink{
				ID:         timecalc.GenerateID(at),
				Volume:     d.SizeML,
				Percentage: percentage(d),
				Time:       at,
			})
		}
	}
	return drinks
}

func percentage(d model.SessionDrink) float64 {
	if d.Percentage == nil {
		return 0
	}
	return *d.Percentage
}
