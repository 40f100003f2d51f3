package model

import "strings"

// Metric names one of the six counters.
type Metric string

const (
	MetricPoints    Metric = "points"
	MetricRebounds  Metric = "rebounds"
	MetricAssists   Metric = "assists"
	MetricSteals    Metric = "steals"
	MetricBlocks    Metric = "blocks"
	MetricTurnovers Metric = "turnovers"
)

// Metrics lists every known counter in display order.
var Metrics = []Metric{MetricPoints, MetricRebounds, MetricAssists, MetricSteals, MetricBlocks, MetricTurnovers}

// ParseMetric normalizes s and reports whether it names a known counter.
func ParseMetric(s string) (Metric, bool) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	return m, m.Valid()
}

// Valid reports whether m is one of the known counters.
func (m Metric) Valid() bool {
	switch m {
	case MetricPoints, MetricRebounds, MetricAssists, MetricSteals, MetricBlocks, MetricTurnovers:
		return true
	default:
		return false
	}
}

// Value returns the counter selected by m, or 0 for an unknown metric.
func (c Counters) Value(m Metric) int {
	switch m {
	case MetricPoints:
		return c.Points
	case MetricRebounds:
		return c.Rebounds
	case MetricAssists:
		return c.Assists
	case MetricSteals:
		return c.Steals
	case MetricBlocks:
		return c.Blocks
	case MetricTurnovers:
		return c.Turnovers
	default:
		return 0
	}
}
