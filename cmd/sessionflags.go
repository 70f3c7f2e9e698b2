package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/promille/internal/model"
	"github.com/Tiliavir/promille/internal/session"
	"github.com/Tiliavir/promille/internal/timecalc"
)

// sessionFlags are the flags shared by commands that read a session file.
type sessionFlags struct {
	file   string
	weight float64
	gender string
	start  string
	end    string
	format string
}

func (f *sessionFlags) register(c *cobra.Command, formats string) {
	c.Flags().StringVarP(&f.file, "file", "f", "", "Session file (.json, .yaml, .yml)")
	c.Flags().Float64Var(&f.weight, "weight", 0, "Body weight in kg (overrides session and profile)")
	c.Flags().StringVar(&f.gender, "gender", "", "male or female (overrides session and profile)")
	c.Flags().StringVar(&f.start, "start", "", "Drinking start, HH:MM or RFC 3339 (overrides session)")
	c.Flags().StringVar(&f.end, "end", "", "Drinking end, HH:MM or RFC 3339 (overrides session)")
	c.Flags().StringVar(&f.format, "format", "md", "Output format: "+formats)
	_ = c.MarkFlagRequired("file")
}

// load reads the session file and applies the profile defaults and flag
// overrides before resolving it.
func (f *sessionFlags) load(profile model.UserStats, now time.Time) (model.Session, error) {
	s, err := session.Load(f.file)
	if err != nil {
		return model.Session{}, err
	}
	return f.apply(s, profile, now)
}

func (f *sessionFlags) apply(s model.Session, profile model.UserStats, now time.Time) (model.Session, error) {
	s = session.FillUser(s, profile)
	if f.weight > 0 {
		s.User.Weight = f.weight
	}
	if f.gender != "" {
		s.User.Gender = model.Gender(strings.ToLower(strings.TrimSpace(f.gender)))
	}

	if f.start != "" {
		ref := s.Start
		if ref.IsZero() {
			ref = now
		}
		t, err := timecalc.ParseClock(f.start, ref)
		if err != nil {
			return model.Session{}, fmt.Errorf("invalid --start: %w", err)
		}
		s.Start = t
	}
	if f.end != "" {
		t, err := timecalc.ParseClock(f.end, s.Start)
		if err != nil {
			return model.Session{}, fmt.Errorf("invalid --end: %w", err)
		}
		// A wall-clock end earlier than the start means after midnight.
		if !strings.Contains(f.end, "T") && t.Before(s.Start) {
			t = t.AddDate(0, 0, 1)
		}
		s.End = t
	}

	return session.Resolve(s)
}

// profileUser returns the default user from the config profile section.
func profileUser() model.UserStats {
	return model.UserStats{
		Weight: cfg.Profile.Weight,
		Gender: model.Gender(strings.ToLower(cfg.Profile.Gender)),
		Age:    cfg.Profile.Age,
		Height: cfg.Profile.Height,
	}
}
