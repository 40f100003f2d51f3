package service

import (
	"strings"

	"github.com/maxviazov/basketball-stat-tracker/internal/model"
)

func requireName(field, v string) (string, []FieldError) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", []FieldError{{Field: field, Message: "must not be empty"}}
	}
	return v, nil
}

// counters resolves optional counters, defaulting absent ones to zero and rejecting negatives.
func (in GameStatInput) counters() (model.Counters, []FieldError) {
	var ferrs []FieldError
	get := func(field string, v *int) int {
		if v == nil {
			return 0
		}
		if *v < 0 {
			ferrs = append(ferrs, FieldError{Field: field, Message: "must be >= 0"})
		}
		return *v
	}
	c := model.Counters{
		Points:    get("points", in.Points),
		Rebounds:  get("rebounds", in.Rebounds),
		Assists:   get("assists", in.Assists),
		Steals:    get("steals", in.Steals),
		Blocks:    get("blocks", in.Blocks),
		Turnovers: get("turnovers", in.Turnovers),
	}
	return c, ferrs
}
