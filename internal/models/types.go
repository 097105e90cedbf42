package models

import (
	"fmt"
	"strings"
)

// Metric names a tracked startup statistic
type Metric string

const (
	Cash       Metric = "cash"
	Revenue    Metric = "revenue"
	Expenses   Metric = "expenses"
	Users      Metric = "users"
	Morale     Metric = "morale"
	Reputation Metric = "reputation"
	Product    Metric = "product"
	Valuation  Metric = "valuation"
)

// AllMetrics returns all metrics in deterministic order
func AllMetrics() []Metric {
	return []Metric{Cash, Revenue, Expenses, Users, Morale, Reputation, Product, Valuation}
}

// legacyMetricNames maps older document keys onto current metrics
var legacyMetricNames = map[string]Metric{
	"balance":          Cash,
	"monthly_revenue":  Revenue,
	"monthly_expenses": Expenses,
	"team_morale":      Morale,
	"brand_awareness":  Reputation,
	"product_quality":  Product,
	"company_value":    Valuation,
}

// ParseMetric resolves a metric name, accepting legacy aliases
func ParseMetric(name string) (Metric, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, m := range AllMetrics() {
		if string(m) == key {
			return m, nil
		}
	}
	if m, ok := legacyMetricNames[key]; ok {
		return m, nil
	}
	return "", fmt.Errorf("unknown metric %q", name)
}

// Metrics holds one value per metric
type Metrics struct {
	Cash       float64 `json:"cash" yaml:"cash"`
	Revenue    float64 `json:"revenue" yaml:"revenue"`
	Expenses   float64 `json:"expenses" yaml:"expenses"`
	Users      float64 `json:"users" yaml:"users"`
	Morale     float64 `json:"morale" yaml:"morale"`
	Reputation float64 `json:"reputation" yaml:"reputation"`
	Product    float64 `json:"product" yaml:"product"`
	Valuation  float64 `json:"valuation" yaml:"valuation"`
}

// Get returns the value of a metric
func (m *Metrics) Get(metric Metric) float64 {
	switch metric {
	case Cash:
		return m.Cash
	case Revenue:
		return m.Revenue
	case Expenses:
		return m.Expenses
	case Users:
		return m.Users
	case Morale:
		return m.Morale
	case Reputation:
		return m.Reputation
	case Product:
		return m.Product
	case Valuation:
		return m.Valuation
	}
	return 0
}

// Set stores the value of a metric
func (m *Metrics) Set(metric Metric, value float64) {
	switch metric {
	case Cash:
		m.Cash = value
	case Revenue:
		m.Revenue = value
	case Expenses:
		m.Expenses = value
	case Users:
		m.Users = value
	case Morale:
		m.Morale = value
	case Reputation:
		m.Reputation = value
	case Product:
		m.Product = value
	case Valuation:
		m.Valuation = value
	}
}

// Deltas maps metrics to signed changes
type Deltas map[Metric]float64

// Negate returns a copy with every amount sign-flipped
func (d Deltas) Negate() Deltas {
	if len(d) == 0 {
		return nil
	}
	out := make(Deltas, len(d))
	for m, v := range d {
		out[m] = -v
	}
	return out
}

// Merge returns the sum of d and other
func (d Deltas) Merge(other Deltas) Deltas {
	out := make(Deltas, len(d)+len(other))
	for m, v := range d {
		out[m] += v
	}
	for m, v := range other {
		out[m] += v
	}
	return out
}

// Each visits non-zero deltas in AllMetrics order
func (d Deltas) Each(fn func(Metric, float64)) {
	for _, m := range AllMetrics() {
		if v, ok := d[m]; ok && v != 0 {
			fn(m, v)
		}
	}
}

// Clone returns an independent copy
func (d Deltas) Clone() Deltas {
	if d == nil {
		return nil
	}
	out := make(Deltas, len(d))
	for m, v := range d {
		out[m] = v
	}
	return out
}

// String renders deltas as "cash -500, morale +5"
func (d Deltas) String() string {
	var parts []string
	d.Each(func(m Metric, v float64) {
		parts = append(parts, fmt.Sprintf("%s %+g", m, v))
	})
	return strings.Join(parts, ", ")
}
