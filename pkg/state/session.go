package state

import (
	"slices"

	"github.com/jwebster45206/badge-adventure/pkg/world"
)

// NoNPC means the player is not in a conversation.
const NoNPC world.NPCID = -1

// Player holds the persisted player record plus the dialog cursor.
type Player struct {
	Name         string
	Room         world.RoomID
	PreviousRoom world.RoomID
	Beacon       world.RoomID
	Notebook     []string

	// Not persisted.
	TalkingTo world.NPCID
	Cursor    int
}

// Session is the single owned game state threaded through the engine.
type Session struct {
	World     *world.World
	Player    Player
	Flags     *Flags
	Inventory *Inventory

	// Transients, reset on every load.
	Cheats         bool
	PendingMessage string
	ShowMessage    bool
	SequenceStep   int
}

// NewSession builds a first-boot session for w.
func NewSession(w *world.World) *Session {
	s := &Session{
		World:     w,
		Flags:     NewFlags(w.Flags),
		Inventory: NewInventory(w.ItemIDs()),
	}
	s.Player = Player{
		Name:         w.DefaultName,
		Room:         w.StartRoom,
		PreviousRoom: w.StartRoom,
		Beacon:       w.DefaultBeacon,
	}
	s.ResetTransients()
	return s
}

// ResetTransients restores every field that is never persisted.
func (s *Session) ResetTransients() {
	s.Player.TalkingTo = NoNPC
	s.Player.Cursor = 0
	s.Cheats = false
	s.PendingMessage = ""
	s.ShowMessage = false
	s.SequenceStep = 0
}

func (s *Session) HasItem(id string) bool { return s.Inventory.Has(id) }

func (s *Session) IsSet(flag string) bool { return s.Flags.IsSet(flag) }

func (s *Session) PreviousRoomID() int { return int(s.Player.PreviousRoom) }

// Talking reports whether a conversation is open.
func (s *Session) Talking() bool { return s.Player.TalkingTo != NoNPC }

// EndConversation clears the dialog target and cursor.
func (s *Session) EndConversation() {
	s.Player.TalkingTo = NoNPC
	s.Player.Cursor = 0
}

// Note appends a notebook line unless it is already recorded.
func (s *Session) Note(line string) bool {
	if slices.Contains(s.Player.Notebook, line) {
		return false
	}
	s.Player.Notebook = append(s.Player.Notebook, line)
	return true
}

// StorylinesComplete reports whether every storyline flag is set.
func (s *Session) StorylinesComplete() bool {
	for _, f := range s.World.Storylines {
		if !s.Flags.IsSet(f) {
			return false
		}
	}
	return true
}
