package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/napolitain/startup-sim/internal/models"
	"github.com/napolitain/startup-sim/internal/sim"
)

var (
	pickerTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	pickerCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	pickerDisabled = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	pickerHelp     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

// Picker is a bubbletea model for choosing this turn's actions
type Picker struct {
	actions   []*models.Action
	available map[string]bool
	chosen    map[string]int
	order     []string
	limit     int
	cursor    int
	fmt       *Formatter
	result    Command
	done      bool
}

// NewPicker lists the game's catalog for the current turn
func NewPicker(g *sim.Game, f *Formatter) Picker {
	if f == nil {
		f = DefaultFormatter()
	}
	p := Picker{
		actions:   g.Catalog().Actions,
		available: make(map[string]bool),
		chosen:    make(map[string]int),
		limit:     g.RemainingActions(),
		fmt:       f,
		result:    Command{Kind: CommandQuit},
	}
	for _, a := range g.AvailableActions() {
		p.available[a.ID] = true
	}
	return p
}

// Result returns the command the picker ended with
func (p Picker) Result() Command { return p.result }

// Done reports whether the player confirmed, saved or quit
func (p Picker) Done() bool { return p.done }

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch key.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.actions)-1 {
			p.cursor++
		}
	case " ", "space", "x":
		p.toggle()
	case "enter":
		p.result = Command{Kind: CommandPlay, Actions: append([]string(nil), p.order...)}
		p.done = true
		return p, tea.Quit
	case "s":
		p.result = Command{Kind: CommandSave}
		p.done = true
		return p, tea.Quit
	case "q", "esc", "ctrl+c":
		p.result = Command{Kind: CommandQuit}
		p.done = true
		return p, tea.Quit
	}
	return p, nil
}

// toggle adds one more of the action under the cursor while the action and
// turn limits allow it, otherwise clears every pick of that action
func (p *Picker) toggle() {
	if len(p.actions) == 0 {
		return
	}
	a := p.actions[p.cursor]
	n := p.chosen[a.ID]
	if p.available[a.ID] && n < a.Limit() && len(p.order) < p.limit {
		p.chosen[a.ID] = n + 1
		p.order = append(p.order, a.ID)
		return
	}
	if n == 0 {
		return
	}
	delete(p.chosen, a.ID)
	var kept []string
	for _, id := range p.order {
		if id != a.ID {
			kept = append(kept, id)
		}
	}
	p.order = kept
}

func (p Picker) View() string {
	var b strings.Builder
	b.WriteString(pickerTitle.Render(fmt.Sprintf("Pick up to %d actions (%d chosen)", p.limit, len(p.order))))
	b.WriteString("\n\n")
	for i, a := range p.actions {
		cursor := "  "
		if i == p.cursor {
			cursor = pickerCursor.Render("> ")
		}
		box := "[ ]"
		switch n := p.chosen[a.ID]; {
		case n == 1:
			box = "[x]"
		case n > 1:
			box = fmt.Sprintf("[%d]", n)
		}
		line := fmt.Sprintf("%s %s  %s", box, a.Name, p.fmt.Deltas(a.NetDelta()))
		if !p.available[a.ID] && p.chosen[a.ID] == 0 {
			line = pickerDisabled.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}
	b.WriteString("\n")
	b.WriteString(pickerHelp.Render("↑/↓ move • space add/clear • enter play • s save & exit • q quit"))
	b.WriteString("\n")
	return b.String()
}

// PickerChooser asks through the interactive picker
type PickerChooser struct {
	r    *Renderer
	opts []tea.ProgramOption
}

// NewPickerChooser creates a chooser running a bubbletea program per turn
func NewPickerChooser(r *Renderer, opts ...tea.ProgramOption) *PickerChooser {
	return &PickerChooser{r: r, opts: opts}
}

// Choose runs the picker until it returns a valid selection
func (c *PickerChooser) Choose(g *sim.Game) (Command, error) {
	for {
		final, err := tea.NewProgram(NewPicker(g, c.r.fmt), c.opts...).Run()
		if err != nil {
			return Command{}, fmt.Errorf("picker failed: %w", err)
		}
		cmd := final.(Picker).Result()
		if cmd.Kind == CommandPlay {
			if err := g.CheckSelection(cmd.Actions); err != nil {
				c.r.Error(err)
				continue
			}
		}
		return cmd, nil
	}
}
