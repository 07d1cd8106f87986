package world

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/jwebster45206/badge-adventure/pkg/conditionals"
)

var idPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// IsValidID reports whether s is a lowercase snake_case identifier.
func IsValidID(s string) bool {
	return idPattern.MatchString(s)
}

type validator struct {
	w    *World
	errs []error
}

func (v *validator) addError(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

// Validate checks every cross reference in the world. All problems are
// reported together.
func (w *World) Validate() error {
	if w.rooms == nil {
		if err := w.index(); err != nil {
			return err
		}
	}

	v := &validator{w: w}

	v.room("start_room", w.StartRoom)
	v.room("fallback_room", w.FallbackRoom)
	v.room("game_start_room", w.GameStartRoom)
	v.room("default_beacon", w.DefaultBeacon)

	for _, it := range w.Items {
		if !IsValidID(it.ID) {
			v.addError("item id %q must be lowercase snake_case", it.ID)
		}
		if it.Name == "" {
			v.addError("item %q has no name", it.ID)
		}
	}
	for _, f := range w.Flags {
		if !IsValidID(f) {
			v.addError("flag %q must be lowercase snake_case", f)
		}
	}
	for _, id := range w.StartingItems {
		v.item("starting_items", id)
	}
	for _, f := range w.Quests {
		v.flag("quests", f)
	}
	for _, f := range w.Storylines {
		v.flag("storylines", f)
	}
	for _, f := range w.Indicators {
		v.flag("indicators", f)
	}
	if w.AmbientFlag != "" {
		v.flag("ambient_flag", w.AmbientFlag)
	}
	if w.LegacyFlag != "" {
		v.flag("legacy_flag", w.LegacyFlag)
	}

	for i := range w.Rooms {
		v.validateRoom(&w.Rooms[i])
	}
	for i := range w.NPCs {
		v.validateNPC(&w.NPCs[i])
	}
	v.validateGates(&w.Gates)
	for i := range w.Resolvers {
		v.validateResolver(&w.Resolvers[i])
	}

	v.flag("completion", w.Completion.Flag)
	v.when("completion", w.Completion.Requires)

	for _, s := range w.Sequences {
		ctx := fmt.Sprintf("sequence in room %d", s.Room)
		v.room(ctx, s.Room)
		if len(s.Steps) == 0 {
			v.addError("%s has no steps", ctx)
		}
		v.effect(ctx, &s.Reward)
	}

	return errors.Join(v.errs...)
}

func (v *validator) validateRoom(r *Room) {
	ctx := fmt.Sprintf("room %d", r.ID)
	if r.Title == "" {
		v.addError("%s has no title", ctx)
	}
	for dir, target := range r.Exits {
		if !IsDirection(dir) {
			v.addError("%s has invalid exit direction %q", ctx, dir)
		}
		v.room(fmt.Sprintf("%s exit %s", ctx, dir), target)
	}

	seen := make(map[string]bool)
	for i := range r.Actions {
		a := &r.Actions[i]
		actx := fmt.Sprintf("%s action %q", ctx, a.Keyword)
		if a.Keyword == "" {
			v.addError("%s has an action without a keyword", ctx)
			continue
		}
		if seen[a.Keyword] {
			v.addError("%s is declared twice", actx)
		}
		seen[a.Keyword] = true
		if IsDirection(a.Keyword) {
			v.addError("%s shadows a direction", actx)
		}
		v.effect(actx, &a.Effect)
		for j := range a.Cases {
			cctx := fmt.Sprintf("%s case %d", actx, j)
			v.when(cctx, a.Cases[j].When)
			v.effect(cctx, &a.Cases[j].Effect)
		}
	}
}

func (v *validator) validateNPC(n *NPC) {
	ctx := fmt.Sprintf("npc %d", n.ID)
	if n.Name == "" {
		v.addError("%s has no name", ctx)
	}
	if len(n.Dialog) == 0 {
		v.addError("%s has no dialog", ctx)
		return
	}
	for i, node := range n.Dialog {
		for slot, resp := range []Response{node.Response1, node.Response2} {
			rctx := fmt.Sprintf("%s node %d response %d", ctx, i, slot+1)
			switch resp.Target.Kind() {
			case TargetNode:
				if resp.Target.Index() >= len(n.Dialog) {
					v.addError("%s targets missing node %d", rctx, resp.Target.Index())
				}
			case TargetQuestCheck:
				if i+2 >= len(n.Dialog) {
					v.addError("%s checks a quest but nodes %d and %d are not both defined", rctx, i+1, i+2)
				}
				if _, ok := v.w.Resolver(n.ID); !ok {
					v.addError("%s checks a quest but the npc has no resolver", rctx)
				}
			}
			if !resp.Target.IsEnd() && resp.Label == "" {
				v.addError("%s has a target but no label", rctx)
			}
			if resp.Target.IsEnd() && resp.Label != "" {
				v.addError("%s has a label but no target", rctx)
			}
		}
	}
}

func (v *validator) validateGates(g *Gates) {
	for i, l := range g.Locks {
		ctx := fmt.Sprintf("lock %d", i)
		v.room(ctx, l.Room)
		for _, from := range l.From {
			v.room(ctx+" from", from)
		}
		v.when(ctx, l.Open)
		if l.Message == "" {
			v.addError("%s has no message", ctx)
		}
	}
	for i, wg := range g.World {
		ctx := fmt.Sprintf("world gate %d", i)
		for _, id := range wg.Rooms {
			v.room(ctx, id)
		}
		if len(v.w.Storylines) == 0 {
			v.addError("%s requires storylines but none are declared", ctx)
		}
	}
	for i, d := range g.Items {
		ctx := fmt.Sprintf("item door %d", i)
		v.room(ctx, d.Room)
		v.item(ctx, d.Item)
	}
	for i := range g.OnEnter {
		e := &g.OnEnter[i]
		ctx := fmt.Sprintf("on_enter %d", i)
		v.room(ctx, e.Room)
		for _, from := range e.From {
			v.room(ctx+" from", from)
		}
		v.when(ctx, e.When)
		v.effect(ctx, &e.Effect)
	}
}

func (v *validator) validateResolver(r *Resolver) {
	ctx := fmt.Sprintf("resolver for npc %d", r.NPC)
	if _, err := v.w.NPC(r.NPC); err != nil {
		v.addError("%s: %v", ctx, err)
	}
	if len(r.Stages) == 0 {
		v.addError("%s has no stages", ctx)
	}
	for i := range r.Stages {
		sctx := fmt.Sprintf("%s stage %d", ctx, i)
		v.when(sctx, r.Stages[i].When)
		v.effect(sctx, &r.Stages[i].Effect)
	}
	for i := range r.Otherwise {
		octx := fmt.Sprintf("%s otherwise %d", ctx, i)
		v.when(octx, r.Otherwise[i].When)
		v.effect(octx, &r.Otherwise[i].Effect)
	}
}

func (v *validator) effect(ctx string, e *Effect) {
	for _, id := range e.Add {
		v.item(ctx, id)
	}
	for _, id := range e.Grant {
		v.item(ctx, id)
	}
	for _, id := range e.Remove {
		v.item(ctx, id)
	}
	for _, f := range e.Set {
		v.flag(ctx, f)
	}
	if e.Once != "" {
		v.flag(ctx+" once", e.Once)
	}
	if e.Talk != nil {
		if _, err := v.w.NPC(*e.Talk); err != nil {
			v.addError("%s: %v", ctx, err)
		}
	}
	if e.Teleport != nil {
		v.room(ctx+" teleport", *e.Teleport)
	}
}

func (v *validator) when(ctx string, w *conditionals.When) {
	if w == nil {
		return
	}
	items, flags := w.References()
	for _, id := range items {
		v.item(ctx, id)
	}
	for _, f := range flags {
		v.flag(ctx, f)
	}
	for _, id := range w.From {
		v.room(ctx+" from", RoomID(id))
	}
}

func (v *validator) room(ctx string, id RoomID) {
	if !v.w.HasRoom(id) {
		v.addError("%s references room %d: %w", ctx, id, ErrUnknownRoom)
	}
}

func (v *validator) item(ctx, id string) {
	if !v.w.HasItem(id) {
		v.addError("%s references unknown item %q", ctx, id)
	}
}

func (v *validator) flag(ctx, name string) {
	if !v.w.HasFlag(name) {
		v.addError("%s references unknown flag %q", ctx, name)
	}
}
