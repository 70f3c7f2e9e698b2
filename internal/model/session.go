package model

import "time"

// SessionDrink is a drink as written in a session file. Empty fields are
// filled from the reference tables when the session is resolved.
type SessionDrink struct {
	Alcohol    string     `json:"alcohol" yaml:"alcohol"`
	Bottle     string     `json:"bottle,omitempty" yaml:"bottle,omitempty"`
	SizeML     float64    `json:"size_ml,omitempty" yaml:"size_ml,omitempty"`
	Percentage *float64   `json:"percentage,omitempty" yaml:"percentage,omitempty"`
	Count      int        `json:"count,omitempty" yaml:"count,omitempty"`
	Time       *time.Time `json:"time,omitempty" yaml:"time,omitempty"`
}

// Session is the top-level structure of a session file: who drank, when the
// drinking window was, and what was consumed.
type Session struct {
	User   UserStats      `json:"user" yaml:"user"`
	Start  time.Time      `json:"start" yaml:"start"`
	End    time.Time      `json:"end" yaml:"end"`
	Drinks []SessionDrink `json:"drinks" yaml:"drinks"`
}
