package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/badge-adventure/pkg/state"
	"github.com/jwebster45206/badge-adventure/pkg/storage"
	"github.com/jwebster45206/badge-adventure/pkg/world"
)

func TestTalkShowsFirstNode(t *testing.T) {
	s := newScript(t)
	s.place(2)

	got := s.send("talk")
	assert.Equal(t, world.NPCID(1), s.player().TalkingTo)
	assert.Equal(t, 0, s.player().Cursor)
	assert.Equal(t, PromptDialog, s.eng.Prompt())
	assert.Equal(t, []string{
		"",
		"Bob: Hi! I'm Bob.",
		"--",
		"1> Hi, Bob.",
		"2> I'm ready to leave, Bob.",
		"0> Bye.",
	}, s.out.lines)
	assert.NotContains(t, got, "The Great Outdoors")
}

func TestDialogNodeTransitions(t *testing.T) {
	s := newScript(t)
	s.place(2)
	s.send("talk")

	got := s.send("1")
	assert.Equal(t, 1, s.player().Cursor)
	assert.Contains(t, got, "Bob: Would you like a flag?")

	got = s.send("2")
	assert.Equal(t, 3, s.player().Cursor)
	assert.Contains(t, got, "Bob: Have a great day!")
	assert.NotContains(t, got, "1>")
	assert.Contains(t, got, "0> Bye.")
}

func TestInvalidResponseKeepsCursor(t *testing.T) {
	s := newScript(t)
	s.place(2)
	s.send("talk", "1", "2")
	require.Equal(t, 3, s.player().Cursor)

	for _, line := range []string{"1", "2", "7", "yes"} {
		got := s.send(line)
		assert.Contains(t, got, "Invalid response. Please try again.", "line %q", line)
		assert.Contains(t, got, "Bob: Have a great day!", "line %q", line)
		assert.Equal(t, 3, s.player().Cursor, "line %q", line)
		assert.Equal(t, PromptDialog, s.eng.Prompt())
	}
}

const deadEndWorld = `
start_room: 1
fallback_room: 1
game_start_room: 1
default_beacon: 1
default_name: User
rooms:
  - id: 1
    title: Hall
    actions:
      - keyword: talk
        talk: 0
npcs:
  - id: 0
    name: Ghost
    dialog:
      - text: Boo
        response1: { label: "Where to?", target: 1 }
        response2: { label: "Dead end" }
      - text: Nowhere.
`

func TestResponseWithoutTargetIsHidden(t *testing.T) {
	w, err := world.Load(strings.NewReader(deadEndWorld))
	require.NoError(t, err)
	s := newScriptForWorld(t, w, storage.NewMemoryStore())

	got := s.send("talk")
	assert.Contains(t, got, "Ghost: Boo")
	assert.Contains(t, got, "1> Where to?")
	assert.NotContains(t, got, "Dead end")
	assert.Contains(t, got, "0> Bye.")

	got = s.send("2")
	assert.Contains(t, got, "Invalid response. Please try again.")
	assert.NotContains(t, got, "2>")
	assert.Equal(t, 0, s.player().Cursor)
}

func TestByeEndsConversation(t *testing.T) {
	s := newScript(t)
	s.place(2)
	s.send("talk")

	got := s.send("0")
	assert.Equal(t, "\nBob: Thanks for talking to me! Bye!", got)
	assert.Equal(t, state.NoNPC, s.player().TalkingTo)
	assert.Equal(t, 0, s.player().Cursor)
	assert.Equal(t, PromptNone, s.eng.Prompt())

	// Back to normal dispatch.
	assert.Equal(t, "Unknown command.", s.send("1"))
}

func TestQuestCheckCursor(t *testing.T) {
	tests := []struct {
		name       string
		room       world.RoomID
		flags      []string
		lines      []string
		wantCursor int
		wantText   string
	}{
		{
			name:       "airport not fixed",
			room:       486,
			lines:      []string{"talk", "2"},
			wantCursor: 1,
			wantText:   "Not yet, there's still some PC's",
		},
		{
			name:       "airport fixed",
			room:       486,
			flags:      []string{"ictair1", "ictair2", "ictair3", "ictair4", "ictair5"},
			lines:      []string{"talk", "2"},
			wantCursor: 2,
			wantText:   "My monitoring is showing everything back online",
		},
		{
			name:       "bob always lets you leave",
			room:       2,
			lines:      []string{"talk", "2", "2"},
			wantCursor: 6,
			wantText:   "you can now press that button",
		},
		{
			name:       "reporter without sign",
			room:       118,
			lines:      []string{"talk", "1", "2"},
			wantCursor: 2,
			wantText:   "I don't think you found what I am looking for.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScript(t)
			s.place(tt.room)
			s.set(tt.flags...)

			got := s.send(tt.lines...)
			assert.Equal(t, tt.wantCursor, s.player().Cursor)
			assert.Contains(t, got, tt.wantText)
		})
	}
}

func TestBobCompletesTraining(t *testing.T) {
	s := newScript(t)
	s.place(2)
	s.send("talk", "2", "2", "0")
	assert.True(t, s.eng.sess.Flags.IsSet("training"))

	saved, ok, err := s.store.Get(s.ctx, "game-data", "training")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "true", saved)

	got := s.send("button")
	assert.Contains(t, got, "teleported away from the training area")
	assert.Contains(t, got, "Kansas Crossroads")
	assert.Equal(t, world.RoomID(4), s.player().Room)
}

func TestQuestRewardIdempotent(t *testing.T) {
	s := newScript(t)
	s.place(122)
	s.send("sign")
	require.True(t, s.eng.sess.Inventory.Has("chanoogle_sign"))

	s.place(118)
	got := s.send("talk", "1", "2")
	assert.Equal(t, 3, s.player().Cursor)
	assert.Contains(t, got, "Flag: OzSecCTF{1-800-CHAN00G-411}")
	assert.True(t, s.eng.sess.Flags.IsSet("chanute"))

	s.send("0")
	inventory := s.eng.sess.Inventory.Held()
	notebook := append([]string(nil), s.player().Notebook...)

	got = s.send("talk", "1", "2")
	assert.Equal(t, 3, s.player().Cursor)
	assert.NotContains(t, got, "Flag:")
	assert.Equal(t, inventory, s.eng.sess.Inventory.Held())
	assert.Equal(t, notebook, s.player().Notebook)
	assert.Equal(t, []string{"Flag: OzSecCTF{1-800-CHAN00G-411}"}, s.player().Notebook)
}

func fixAirport(s *script) {
	s.place(486)
	s.send("drive")
	for _, room := range []world.RoomID{485, 488, 491, 492, 495} {
		s.place(room)
		s.send("reboot")
	}
	s.place(486)
}

func TestAirportAggregate(t *testing.T) {
	s := newScript(t)
	fixAirport(s)
	for _, f := range []string{"ictair1", "ictair2", "ictair3", "ictair4", "ictair5"} {
		require.True(t, s.eng.sess.Flags.IsSet(f), f)
	}

	got := s.send("talk", "2")
	assert.Equal(t, 1, strings.Count(got, "Flag: OzSecCTF{CRWD_S0urc3d_R3B00t_0verthym3}"))
	assert.True(t, s.eng.sess.Flags.IsSet("ictairport"))
	assert.False(t, s.eng.sess.Flags.IsSet("wichita"))
	assert.NotContains(t, got, "Congratulations!")

	got = s.send("0", "talk", "2")
	assert.NotContains(t, got, "Flag:")
	assert.Equal(t, 2, s.player().Cursor)
}

func TestCompletionRewardOnce(t *testing.T) {
	s := newScript(t)
	s.set(s.eng.sess.World.Storylines...)
	s.set("ictwater")
	fixAirport(s)

	got := s.send("talk", "2")
	assert.Contains(t, got, "Congratulations! You have completed all of the main quests in the game.")
	assert.Equal(t, 1, strings.Count(got, "Flag: OzSecCTF{Kan5@s_1s_s@f3_4_n0w}"))
	assert.True(t, s.eng.sess.Flags.IsSet("wichita"))

	got = s.send("0", "talk", "2")
	assert.NotContains(t, got, "Congratulations!")

	var completions int
	for _, line := range s.player().Notebook {
		if line == "Flag: OzSecCTF{Kan5@s_1s_s@f3_4_n0w}" {
			completions++
		}
	}
	assert.Equal(t, 1, completions)
}

func TestCompletionWaitsForStorylines(t *testing.T) {
	s := newScript(t)
	s.set("ictwater")
	fixAirport(s)

	s.send("talk", "2")
	assert.True(t, s.eng.sess.Flags.IsSet("ictairport"))
	assert.False(t, s.eng.sess.Flags.IsSet("wichita"))
}

func TestResolverFallbackCases(t *testing.T) {
	s := newScript(t)
	npcRoom := roomTalkingTo(t, s, 12)
	s.place(npcRoom)

	s.send("talk")
	node, ok := questNode(t, s, 12)
	require.True(t, ok)
	s.eng.sess.Player.Cursor = node

	got := s.send(questResponse(t, s, 12, node))
	assert.Contains(t, got, "Here's a firmware flash drive")
	assert.True(t, s.eng.sess.Inventory.Has("firmware_drive"))
	assert.Equal(t, node+1, s.player().Cursor)

	s.eng.sess.Player.Cursor = node
	got = s.send(questResponse(t, s, 12, node))
	assert.Contains(t, got, "still showing some taxi's in the field that are stuck")
	assert.Equal(t, 1, s.eng.sess.Inventory.Count("firmware_drive"))
}

// roomTalkingTo finds the room whose talk action opens npc.
func roomTalkingTo(t *testing.T, s *script, npc world.NPCID) world.RoomID {
	t.Helper()
	for _, r := range s.eng.sess.World.Rooms {
		for _, a := range r.Actions {
			if a.Talk != nil && *a.Talk == npc {
				return r.ID
			}
		}
	}
	t.Fatalf("no room talks to npc %d", npc)
	return 0
}

func questNode(t *testing.T, s *script, npc world.NPCID) (int, bool) {
	t.Helper()
	n, err := s.eng.sess.World.NPC(npc)
	require.NoError(t, err)
	for i, node := range n.Dialog {
		if node.Response1.Target.Kind() == world.TargetQuestCheck ||
			node.Response2.Target.Kind() == world.TargetQuestCheck {
			return i, true
		}
	}
	return 0, false
}

func questResponse(t *testing.T, s *script, npc world.NPCID, node int) string {
	t.Helper()
	n, err := s.eng.sess.World.NPC(npc)
	require.NoError(t, err)
	if n.Dialog[node].Response1.Target.Kind() == world.TargetQuestCheck {
		return "1"
	}
	return "2"
}
