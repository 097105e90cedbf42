// Package ui renders the game in a terminal and reads the player's choices.
package ui

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/napolitain/startup-sim/internal/models"
	"github.com/napolitain/startup-sim/internal/sim"
)

// Formatter turns metric values into display strings
type Formatter struct {
	printer *message.Printer
	title   cases.Caser
}

// NewFormatter creates a formatter for the given language
func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{
		printer: message.NewPrinter(tag),
		title:   cases.Title(tag),
	}
}

// DefaultFormatter formats for American English
func DefaultFormatter() *Formatter {
	return NewFormatter(language.AmericanEnglish)
}

func isMoney(m models.Metric) bool {
	switch m {
	case models.Cash, models.Revenue, models.Expenses, models.Valuation:
		return true
	}
	return false
}

// Label returns the display name of a metric or identifier
func (f *Formatter) Label(name string) string {
	return f.title.String(strings.ReplaceAll(name, "_", " "))
}

// Integer formats a whole number with grouping separators
func (f *Formatter) Integer(v float64) string {
	return f.printer.Sprintf("%d", int64(math.Round(v)))
}

// Money formats v as dollars
func (f *Formatter) Money(v float64) string {
	if v < 0 {
		return "-$" + f.Integer(-v)
	}
	return "$" + f.Integer(v)
}

// Value formats a metric reading
func (f *Formatter) Value(m models.Metric, v float64) string {
	if isMoney(m) {
		return f.Money(v)
	}
	return f.Integer(v)
}

// Delta formats a signed change of a metric
func (f *Formatter) Delta(m models.Metric, v float64) string {
	sign := "+"
	if v < 0 {
		sign = "-"
		v = -v
	}
	if isMoney(m) {
		return sign + "$" + f.Integer(v)
	}
	return sign + f.Integer(v)
}

// Deltas formats every non-zero change, in metric order
func (f *Formatter) Deltas(d models.Deltas) string {
	var parts []string
	d.Each(func(m models.Metric, v float64) {
		parts = append(parts, f.Label(string(m))+" "+f.Delta(m, v))
	})
	if len(parts) == 0 {
		return "no change"
	}
	return strings.Join(parts, ", ")
}

// Runway formats a runway in turns
func (f *Formatter) Runway(turns int) string {
	if turns == sim.InfiniteRunway {
		return "∞ (profitable)"
	}
	if turns == 1 {
		return "1 turn"
	}
	return f.printer.Sprintf("%d turns", turns)
}

// Outcome formats how a game ended
func (f *Formatter) Outcome(o models.Outcome) string {
	if !o.Over() {
		return "in progress"
	}
	return f.Label(string(o.Kind)) + " (" + f.Label(o.Reason) + ")"
}
