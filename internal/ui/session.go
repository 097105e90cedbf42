package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/napolitain/startup-sim/internal/history"
	"github.com/napolitain/startup-sim/internal/models"
	"github.com/napolitain/startup-sim/internal/platform/logger"
	"github.com/napolitain/startup-sim/internal/save"
	"github.com/napolitain/startup-sim/internal/sim"
)

// Exit says why a session stopped
type Exit int

const (
	ExitFinished Exit = iota
	ExitSaved
	ExitQuit
)

var errNoSaveFile = errors.New("no save file configured")

// Session drives one game from the console
type Session struct {
	game     *sim.Game
	r        *Renderer
	chooser  Chooser
	savePath string
	autosave bool
	history  *history.Store
	now      func() time.Time
	log      *logger.Logger
}

// SessionOption customizes a Session
type SessionOption func(*Session)

// WithSaveFile sets where saves go and whether every turn is saved
func WithSaveFile(path string, autosave bool) SessionOption {
	return func(s *Session) {
		s.savePath = path
		s.autosave = autosave
	}
}

// WithHistory records the finished run in store
func WithHistory(store *history.Store) SessionOption {
	return func(s *Session) { s.history = store }
}

// WithClock replaces time.Now for save timestamps
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithSessionLogger sets the diagnostics logger
func WithSessionLogger(l *logger.Logger) SessionOption {
	return func(s *Session) { s.log = l }
}

// NewSession creates a session for g
func NewSession(g *sim.Game, r *Renderer, chooser Chooser, opts ...SessionOption) *Session {
	s := &Session{
		game:    g,
		r:       r,
		chooser: chooser,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	return s
}

// Run plays turns until the game ends or the player saves or quits
func (s *Session) Run(ctx context.Context) (Exit, error) {
	g := s.game
	s.r.Banner(g.Profile())

	played := false
	for !g.Over() {
		if err := ctx.Err(); err != nil {
			return ExitQuit, err
		}

		// A save made during this turn resumes at its start
		before, err := g.Snapshot(s.now())
		if err != nil {
			return ExitQuit, err
		}

		rep, err := g.BeginTurn()
		if err != nil {
			return ExitQuit, err
		}
		s.r.Events(rep.Events)
		s.r.Dashboard(g)
		s.r.ActionMenu(g)

		cmd, err := s.chooser.Choose(g)
		if err != nil {
			s.log.Errorf("turn %d: selection failed: %v", g.Turn(), err)
			return ExitQuit, err
		}
		switch cmd.Kind {
		case CommandSave:
			if err := s.write(before); err != nil {
				s.log.Errorf("save to %q failed: %v", s.savePath, err)
				return ExitQuit, err
			}
			s.r.Info("💾 Saved to %s", s.savePath)
			return ExitSaved, nil
		case CommandQuit:
			s.r.Info("Bye.")
			return ExitQuit, nil
		}

		for _, id := range cmd.Actions {
			if _, err := g.TakeAction(id); err != nil {
				rep.Rejected = append(rep.Rejected, sim.Rejection{ActionID: id, Err: err})
			}
		}
		rep, err = g.EndTurn()
		if err != nil {
			return ExitQuit, err
		}
		played = true
		s.r.TurnReport(rep)

		if s.autosave {
			s.autosaveTurn()
		}
	}

	s.r.Outcome(g)
	if played {
		s.record(ctx)
	}
	return ExitFinished, nil
}

func (s *Session) write(state models.SaveState) error {
	if s.savePath == "" {
		return errNoSaveFile
	}
	return save.Save(s.savePath, state)
}

func (s *Session) autosaveTurn() {
	snap, err := s.game.Snapshot(s.now())
	if err == nil {
		err = s.write(snap)
	}
	if err != nil {
		s.log.Warnf("autosave failed: %v", err)
		s.r.Error(fmt.Errorf("autosave failed: %w", err))
		return
	}
	s.log.Debugf("autosaved turn %d to %s", snap.Turn, s.savePath)
}

func (s *Session) record(ctx context.Context) {
	if s.history == nil {
		return
	}
	run, err := s.history.Record(ctx, history.FromGame(s.game, s.now()))
	if err != nil {
		s.log.Warnf("could not record run: %v", err)
		return
	}
	s.log.Infof("recorded run %s", run.ID)
}
