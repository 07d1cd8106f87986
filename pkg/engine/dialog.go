package engine

import (
	"context"

	"github.com/jwebster45206/badge-adventure/pkg/conditionals"
	"github.com/jwebster45206/badge-adventure/pkg/state"
	"github.com/jwebster45206/badge-adventure/pkg/world"
)

func (e *Engine) currentNPC() (*world.NPC, error) {
	id := e.sess.Player.TalkingTo
	if id == state.NoNPC {
		return nil, world.ErrUnknownNPC
	}
	return e.sess.World.NPC(id)
}

// talk opens a conversation at the first node.
func (e *Engine) talk(id world.NPCID) {
	e.sess.Player.TalkingTo = id
	e.sess.Player.Cursor = 0
	e.display = DisplayDialog
	e.prompt = PromptDialog
	e.logger.Debug("conversation started", "npc", id)
}

// respond handles a line typed while a dialog is open.
func (e *Engine) respond(ctx context.Context, line string) {
	npc, err := e.currentNPC()
	if err != nil {
		e.sess.EndConversation()
		e.say("You're not talking to anyone.")
		return
	}

	if line == "0" {
		e.write("")
		e.writef("%s: Thanks for talking to me! Bye!", npc.Name)
		e.sess.EndConversation()
		return
	}

	node, ok := npc.Node(e.sess.Player.Cursor)
	if !ok {
		e.sess.EndConversation()
		e.say("You're not talking to anyone.")
		return
	}

	var resp world.Response
	switch line {
	case "1":
		resp = node.Response1
	case "2":
		resp = node.Response2
	}

	switch resp.Target.Kind() {
	case world.TargetNode:
		e.sess.Player.Cursor = resp.Target.Index()
	case world.TargetQuestCheck:
		if e.checkQuest(ctx, npc.ID) {
			e.sess.Player.Cursor += 2
		} else {
			e.sess.Player.Cursor++
		}
	case world.TargetEnd:
		e.write("Invalid response. Please try again.")
	}

	e.display = DisplayDialog
	e.prompt = PromptDialog
}

// checkQuest runs the npc's resolver and reports success.
func (e *Engine) checkQuest(ctx context.Context, id world.NPCID) bool {
	r, ok := e.sess.World.Resolver(id)
	if !ok {
		e.logger.Warn("quest check without resolver", "npc", id)
		return false
	}

	for _, st := range r.Stages {
		if !conditionals.EvaluatePtr(st.When, e.sess) {
			continue
		}
		e.apply(ctx, st.Effect, applyImmediate)
		if st.Aggregate {
			e.checkCompletion()
		}
		e.logger.Debug("quest check passed", "npc", id)
		return true
	}

	if c, ok := world.FirstCase(r.Otherwise, e.sess); ok {
		e.apply(ctx, c.Effect, applyImmediate)
	}
	e.logger.Debug("quest check failed", "npc", id)
	return false
}

// checkCompletion grants the master reward once every storyline is done.
func (e *Engine) checkCompletion() {
	c := e.sess.World.Completion
	if c.Flag == "" || e.sess.Flags.IsSet(c.Flag) {
		return
	}
	if !e.sess.StorylinesComplete() || !conditionals.EvaluatePtr(c.Requires, e.sess) {
		return
	}

	if c.Message != "" {
		e.write(c.Message)
	}
	if c.Code != "" {
		e.reward(c.Code)
	}
	e.sess.Flags.Set(c.Flag)
	e.logger.Info("game completed", "flag", c.Flag)
}
