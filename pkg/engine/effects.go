package engine

import (
	"context"

	"github.com/jwebster45206/badge-adventure/pkg/world"
)

// applyMode controls when an effect's message is printed.
type applyMode int

const (
	// applyAction defers the message to the end-of-turn display.
	applyAction applyMode = iota
	// applyImmediate prints the message right away, as entry rules,
	// sequences and resolvers do.
	applyImmediate
)

// apply executes one effect against the session.
func (e *Engine) apply(ctx context.Context, eff world.Effect, mode applyMode) {
	s := e.sess
	guarded := eff.Once != "" && s.Flags.IsSet(eff.Once)

	for _, id := range eff.Remove {
		s.Inventory.Remove(id)
	}
	if !guarded {
		for _, id := range eff.Add {
			s.Inventory.Add(id)
		}
		for _, id := range eff.Grant {
			s.Inventory.Grant(id)
		}
		for _, f := range eff.Set {
			if s.Flags.Set(f) {
				e.logger.Debug("flag set", "flag", f)
			} else if !s.Flags.Known(f) {
				e.logger.Warn("effect sets undeclared flag", "flag", f)
			}
		}
	}
	if eff.Beacon {
		s.Player.Beacon = s.Player.Room
	}

	if eff.Message != "" {
		if mode == applyImmediate || eff.Teleport != nil || eff.Talk != nil {
			e.write(eff.Message)
		} else {
			e.say(eff.Message)
		}
	}
	if eff.Code != "" && !guarded {
		e.reward(eff.Code)
	}
	if eff.Once != "" && !guarded {
		s.Flags.Set(eff.Once)
	}

	if eff.Save {
		if err := e.save(ctx); err != nil {
			e.logger.Error("failed to save after effect", "error", err)
		}
	}

	if eff.Talk != nil {
		e.talk(*eff.Talk)
	}
	if eff.Teleport != nil {
		e.enter(ctx, *eff.Teleport)
	}
}

// reward prints a reward code and records it in the notebook once.
func (e *Engine) reward(code string) {
	line := "Flag: " + code
	e.write(line)
	if e.sess.Note(line) {
		e.logger.Info("reward recorded", "room", e.sess.Player.Room)
	}
}
