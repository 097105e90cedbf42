package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"github.com/olekukonko/tablewriter"

	"github.com/napolitain/startup-sim/internal/history"
	"github.com/napolitain/startup-sim/internal/models"
	"github.com/napolitain/startup-sim/internal/sim"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Foreground(lipgloss.Color("14")).
			Bold(true).
			Padding(0, 2)

	titleColor   = color.New(color.FgCyan, color.Bold)
	infoColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	dimColor     = color.New(color.Faint)
)

// SetColor disables ANSI colour for both colour libraries when enabled is
// false. Enabling keeps terminal detection.
func SetColor(enabled bool) {
	if enabled {
		return
	}
	color.NoColor = true
	lipgloss.SetColorProfile(termenv.Ascii)
}

// Renderer writes game screens to out
type Renderer struct {
	out io.Writer
	fmt *Formatter
}

// NewRenderer creates a renderer. A nil formatter uses DefaultFormatter.
func NewRenderer(out io.Writer, f *Formatter) *Renderer {
	if f == nil {
		f = DefaultFormatter()
	}
	return &Renderer{out: out, fmt: f}
}

// Formatter returns the renderer's formatter
func (r *Renderer) Formatter() *Formatter { return r.fmt }

// Banner prints the title box
func (r *Renderer) Banner(profile string) {
	lines := []string{"Startup Simulator"}
	if profile != "" {
		lines = append(lines, "Profile: "+r.fmt.Label(profile))
	}
	fmt.Fprintln(r.out, bannerStyle.Render(strings.Join(lines, "\n")))
	fmt.Fprintln(r.out)
}

// Dashboard prints the metric table for the turn about to be played
func (r *Renderer) Dashboard(g *sim.Game) {
	titleColor.Fprintf(r.out, "\n📊 Turn %d\n", g.Turn())

	m := g.Metrics()
	table := tablewriter.NewTable(r.out,
		tablewriter.WithHeader([]string{"Metric", "Value"}),
	)
	for _, metric := range models.AllMetrics() {
		_ = table.Append([]string{r.fmt.Label(string(metric)), r.fmt.Value(metric, m.Get(metric))})
	}
	_ = table.Append([]string{"Burn", r.fmt.Money(sim.Burn(m))})
	_ = table.Append([]string{"Runway", r.fmt.Runway(g.Runway())})
	_ = table.Render()

	if active := g.ActiveEvents(); len(active) > 0 {
		infoColor.Fprintln(r.out, "\n⏳ Active events:")
		for _, inst := range active {
			name := inst.EventID
			if ev, ok := g.Catalog().Event(inst.EventID); ok {
				name = ev.Name
			}
			fmt.Fprintf(r.out, "   • %s (%d more)\n", name, inst.RemainingDuration)
		}
	}
}

// Events prints the event changes at the start of a turn
func (r *Renderer) Events(results []sim.EventResult) {
	for _, ev := range results {
		switch ev.Phase {
		case sim.EventTriggered:
			infoColor.Fprintf(r.out, "⚡ %s: %s\n", ev.Event.Name, ev.Event.Narrative)
			fmt.Fprintf(r.out, "   %s\n", r.fmt.Deltas(ev.Applied))
		case sim.EventOngoing:
			dimColor.Fprintf(r.out, "   %s continues (%d left): %s\n", ev.Event.Name, ev.Remaining, r.fmt.Deltas(ev.Applied))
		case sim.EventExpired:
			dimColor.Fprintf(r.out, "   %s has passed: %s\n", ev.Event.Name, r.fmt.Deltas(ev.Applied))
		}
	}
}

// ActionMenu prints the numbered catalog. Actions that cannot be taken are marked.
func (r *Renderer) ActionMenu(g *sim.Game) {
	available := make(map[string]bool)
	for _, a := range g.AvailableActions() {
		available[a.ID] = true
	}

	infoColor.Fprintf(r.out, "\n🛠  Choose up to %d actions:\n", g.RemainingActions())
	table := tablewriter.NewTable(r.out,
		tablewriter.WithHeader([]string{"#", "Action", "Cost", "Effect", "Risk", ""}),
	)
	for i, a := range g.Catalog().Actions {
		risk := ""
		if a.Risk != nil {
			risk = r.fmt.Integer(a.Risk.SuccessChance*100) + "%"
		}
		mark := "✓"
		if !available[a.ID] {
			mark = "✗"
		}
		_ = table.Append([]string{
			fmt.Sprintf("%d", i+1),
			a.Name,
			r.fmt.Deltas(a.Costs),
			r.fmt.Deltas(a.Effects),
			risk,
			mark,
		})
	}
	_ = table.Render()
	dimColor.Fprintln(r.out, "Enter numbers or ids (e.g. 1,3). Empty line skips, 'save' saves and exits, 'quit' exits.")
}

// TurnReport prints what the player's actions and the month did
func (r *Renderer) TurnReport(rep *sim.TurnReport) {
	for _, a := range rep.Actions {
		switch {
		case !a.Risky:
			successColor.Fprintf(r.out, "✓ %s\n", a.Action.Name)
		case a.Succeeded:
			successColor.Fprintf(r.out, "✓ %s paid off\n", a.Action.Name)
		default:
			errorColor.Fprintf(r.out, "✗ %s fell through\n", a.Action.Name)
		}
		if a.Narrative != "" {
			fmt.Fprintf(r.out, "   %s\n", a.Narrative)
		}
		fmt.Fprintf(r.out, "   %s\n", r.fmt.Deltas(a.Applied))
	}
	for _, rej := range rep.Rejected {
		r.Error(rej.Err)
	}
	if s := rep.Settlement; s.Applied != nil {
		fmt.Fprintf(r.out, "💵 Month closed: net %s, valuation %s\n",
			r.fmt.Money(s.Net), r.fmt.Delta(models.Valuation, s.ValuationDrift))
	}
}

// Outcome prints the final result
func (r *Renderer) Outcome(g *sim.Game) {
	o := g.Outcome()
	line := fmt.Sprintf("\n🏁 %s after %d turns. Valuation %s",
		r.fmt.Outcome(o), max(0, g.Turn()-1), r.fmt.Money(g.Metrics().Valuation))
	switch o.Kind {
	case models.OutcomeWin:
		successColor.Fprintln(r.out, line)
	case models.OutcomeLoss:
		errorColor.Fprintln(r.out, line)
	default:
		infoColor.Fprintln(r.out, line)
	}
}

// Error prints a user-facing error
func (r *Renderer) Error(err error) {
	var msg string
	switch {
	case errors.Is(err, sim.ErrInsufficientFunds):
		msg = "Not enough cash: " + err.Error()
	case errors.Is(err, sim.ErrActionLimit):
		msg = "Too many actions: " + err.Error()
	default:
		msg = err.Error()
	}
	errorColor.Fprintf(r.out, "✗ %s\n", msg)
}

// Info prints a neutral status line
func (r *Renderer) Info(format string, args ...any) {
	infoColor.Fprintf(r.out, format+"\n", args...)
}

// Scores prints the history table
func (r *Renderer) Scores(runs []history.Run) {
	if len(runs) == 0 {
		infoColor.Fprintln(r.out, "No finished runs recorded yet.")
		return
	}
	table := tablewriter.NewTable(r.out,
		tablewriter.WithHeader([]string{"#", "Profile", "Seed", "Turns", "Outcome", "Valuation", "Cash", "Finished"}),
	)
	for i, run := range runs {
		profile := run.Profile
		if profile == "" {
			profile = "default"
		}
		_ = table.Append([]string{
			fmt.Sprintf("%d", i+1),
			profile,
			fmt.Sprintf("%d", run.Seed),
			fmt.Sprintf("%d", run.Turns),
			r.fmt.Outcome(run.Outcome),
			r.fmt.Money(run.Metrics.Valuation),
			r.fmt.Money(run.Metrics.Cash),
			run.FinishedAt.Format("2006-01-02 15:04"),
		})
	}
	_ = table.Render()
}
