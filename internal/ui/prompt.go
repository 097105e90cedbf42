package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/napolitain/startup-sim/internal/models"
	"github.com/napolitain/startup-sim/internal/sim"
)

// CommandKind is what the player asked for at the prompt
type CommandKind int

const (
	// CommandPlay plays the listed actions (possibly none) and ends the turn
	CommandPlay CommandKind = iota
	// CommandSave saves the game and exits
	CommandSave
	// CommandQuit exits without saving
	CommandQuit
)

// Command is one parsed prompt answer
type Command struct {
	Kind    CommandKind
	Actions []string
}

// ErrBadSelection is returned for input that names no action
var ErrBadSelection = errors.New("bad selection")

// Chooser asks the player what to do this turn. The game is mid-turn when called.
type Chooser interface {
	Choose(g *sim.Game) (Command, error)
}

// ParseSelection reads comma or space separated action numbers (1-based,
// catalog order) or ids. Ids match exactly, then case-insensitively.
func ParseSelection(line string, catalog *models.Catalog) (Command, error) {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "":
		return Command{Kind: CommandPlay}, nil
	case "save":
		return Command{Kind: CommandSave}, nil
	case "quit", "exit", "q":
		return Command{Kind: CommandQuit}, nil
	}

	tokens := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	cmd := Command{Kind: CommandPlay}
	for _, tok := range tokens {
		if n, err := strconv.Atoi(tok); err == nil {
			if n < 1 || n > len(catalog.Actions) {
				return Command{}, fmt.Errorf("%w: no action numbered %d", ErrBadSelection, n)
			}
			cmd.Actions = append(cmd.Actions, catalog.Actions[n-1].ID)
			continue
		}
		id, ok := lookupID(tok, catalog)
		if !ok {
			return Command{}, fmt.Errorf("%w: %s", sim.ErrUnknownAction, tok)
		}
		cmd.Actions = append(cmd.Actions, id)
	}
	return cmd, nil
}

func lookupID(tok string, catalog *models.Catalog) (string, bool) {
	if _, ok := catalog.Action(tok); ok {
		return tok, true
	}
	for _, a := range catalog.Actions {
		if strings.EqualFold(a.ID, tok) {
			return a.ID, true
		}
	}
	return "", false
}

// Prompter reads selections from a line-oriented input
type Prompter struct {
	in *bufio.Reader
	r  *Renderer
}

// NewPrompter creates a prompter reading from in and reporting through r
func NewPrompter(in io.Reader, r *Renderer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), r: r}
}

// Choose prompts until the input parses and the selection is valid for
// the current turn. End of input quits.
func (p *Prompter) Choose(g *sim.Game) (Command, error) {
	for {
		fmt.Fprint(p.r.out, "> ")
		line, err := p.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return Command{}, fmt.Errorf("failed to read selection: %w", err)
		}
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) == "" {
			fmt.Fprintln(p.r.out)
			return Command{Kind: CommandQuit}, nil
		}

		cmd, perr := ParseSelection(line, g.Catalog())
		if perr == nil && cmd.Kind == CommandPlay {
			perr = g.CheckSelection(cmd.Actions)
		}
		if perr != nil {
			p.r.Error(perr)
			if errors.Is(err, io.EOF) {
				return Command{Kind: CommandQuit}, nil
			}
			continue
		}
		return cmd, nil
	}
}
