package engine

import (
	"context"
	"slices"

	"github.com/jwebster45206/badge-adventure/pkg/conditionals"
	"github.com/jwebster45206/badge-adventure/pkg/world"
)

// roomAction handles sequences, directions and room keywords. It reports
// whether the line was consumed.
func (e *Engine) roomAction(ctx context.Context, line string) bool {
	if e.advanceSequence(ctx, line) {
		return true
	}

	if world.IsDirection(line) {
		e.move(ctx, line)
		return true
	}

	room, err := e.sess.World.Room(e.sess.Player.Room)
	if err != nil {
		return false
	}
	action, ok := room.Action(line)
	if !ok {
		return false
	}

	e.sess.Player.PreviousRoom = e.sess.Player.Room
	e.logger.Debug("room action",
		"room", room.ID,
		"keyword", line)
	e.apply(ctx, action.Resolve(e.sess), applyAction)
	return true
}

// advanceSequence tracks the input pattern of the current room. A matching
// line is consumed even when it is also a direction.
func (e *Engine) advanceSequence(ctx context.Context, line string) bool {
	seq, ok := e.sess.World.Sequence(e.sess.Player.Room)
	if !ok || len(seq.Steps) == 0 {
		return false
	}

	step := e.sess.SequenceStep
	if step < 0 || step >= len(seq.Steps) || seq.Steps[step] != line {
		e.sess.SequenceStep = 0
		return false
	}

	e.sess.SequenceStep++
	if e.sess.SequenceStep < len(seq.Steps) {
		return true
	}

	e.sess.SequenceStep = 0
	e.logger.Debug("sequence completed", "room", seq.Room)
	e.apply(ctx, seq.Reward, applyImmediate)
	if e.display == DisplayNone {
		e.display = DisplayRoom
	}
	return true
}

func (e *Engine) move(ctx context.Context, dir string) {
	w := e.sess.World
	room, err := w.Room(e.sess.Player.Room)
	if err != nil {
		e.logger.Warn("move from unknown room, using fallback",
			"room", e.sess.Player.Room,
			"fallback", w.FallbackRoom)
		if w.FallbackMessage != "" {
			e.write(w.FallbackMessage)
		}
		e.sess.Player.Room = w.FallbackRoom
		e.enter(ctx, w.FallbackRoom)
		return
	}
	target, ok := room.Exit(dir)
	if !ok {
		e.say("You can't go that way.")
		return
	}
	e.enter(ctx, target)
}

// enter moves the player into target if every gate allows it and arms the
// room display. A vetoed move leaves the player where they were.
func (e *Engine) enter(ctx context.Context, target world.RoomID) {
	w := e.sess.World
	from := e.sess.Player.Room

	if !w.HasRoom(target) {
		e.logger.Warn("move to unknown room, using fallback",
			"room", target,
			"fallback", w.FallbackRoom)
		if w.FallbackMessage != "" {
			e.write(w.FallbackMessage)
		}
		target = w.FallbackRoom
	}

	e.sess.Player.PreviousRoom = from
	if msg, ok := e.gate(target, from); !ok {
		e.logger.Debug("entry vetoed",
			"from", from,
			"room", target)
		e.say(msg)
		return
	}

	e.sess.Player.Room = target
	e.sess.SequenceStep = 0
	for _, rule := range w.Gates.OnEnter {
		if rule.Room != target {
			continue
		}
		if len(rule.From) > 0 && !slices.Contains(rule.From, from) {
			continue
		}
		if !conditionals.EvaluatePtr(rule.When, e.sess) {
			continue
		}
		e.apply(ctx, rule.Effect, applyImmediate)
	}

	e.logger.Debug("entered room",
		"from", from,
		"room", target)
	e.display = DisplayRoom
}

// gate runs locks, world gates and item doors in that order.
func (e *Engine) gate(target, from world.RoomID) (string, bool) {
	w := e.sess.World

	for _, l := range w.Gates.Locks {
		if l.Room != target {
			continue
		}
		if len(l.From) > 0 && !slices.Contains(l.From, from) {
			continue
		}
		if l.Open == nil || !conditionals.Evaluate(*l.Open, e.sess) {
			return l.Message, false
		}
	}

	for _, g := range w.Gates.World {
		if slices.Contains(g.Rooms, target) && !e.sess.StorylinesComplete() {
			return g.Message, false
		}
	}

	for _, d := range w.Gates.Items {
		if d.Room != target {
			continue
		}
		if !e.sess.HasItem(d.Item) {
			return d.Message, false
		}
		if d.Granted != "" {
			e.write(d.Granted)
		}
	}

	return "", true
}
