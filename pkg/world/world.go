package world

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jwebster45206/badge-adventure/pkg/conditionals"
)

var (
	ErrUnknownRoom = errors.New("unknown room")
	ErrUnknownNPC  = errors.New("unknown npc")
)

type RoomID int

type NPCID int

// Compass directions accepted by the dispatcher.
const (
	North = "n"
	East  = "e"
	West  = "w"
	South = "s"
)

// DisplayOrder is the order exits are listed when a room is shown.
var DisplayOrder = []string{North, East, West, South}

// IsDirection reports whether s is one of the four direction letters.
func IsDirection(s string) bool {
	return slices.Contains(DisplayOrder, s)
}

// Item is an inventory entry. ID is the storage key; Name is what the player sees.
type Item struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Room is one node of the map.
type Room struct {
	ID          RoomID            `yaml:"id"`
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	Exits       map[string]RoomID `yaml:"exits,omitempty"`
	Actions     []Action          `yaml:"actions,omitempty"`
}

// Exit returns the neighbor in direction dir.
func (r *Room) Exit(dir string) (RoomID, bool) {
	id, ok := r.Exits[dir]
	return id, ok
}

// Action looks up a keyword in the room's own action list.
func (r *Room) Action(keyword string) (*Action, bool) {
	for i := range r.Actions {
		if r.Actions[i].Keyword == keyword {
			return &r.Actions[i], true
		}
	}
	return nil, false
}

// Action is a keyword the player can type while standing in a room.
// When Cases is populated the first matching case wins and the action's
// own effect is the fallback.
type Action struct {
	Keyword string `yaml:"keyword"`
	Hint    string `yaml:"hint,omitempty"`
	Hidden  bool   `yaml:"hidden,omitempty"`
	Cases   []Case `yaml:"cases,omitempty"`
	Effect  `yaml:",inline"`
}

// Resolve picks the effect to apply for the given state.
func (a *Action) Resolve(view conditionals.StateView) Effect {
	if c, ok := FirstCase(a.Cases, view); ok {
		return c.Effect
	}
	return a.Effect
}

// Case is a conditional branch of an action or resolver fallback.
type Case struct {
	When   *conditionals.When `yaml:"when,omitempty"`
	Effect `yaml:",inline"`
}

// FirstCase returns the first case whose condition holds.
func FirstCase(cases []Case, view conditionals.StateView) (*Case, bool) {
	for i := range cases {
		if conditionals.EvaluatePtr(cases[i].When, view) {
			return &cases[i], true
		}
	}
	return nil, false
}

// Effect describes a state change plus the narration that goes with it.
type Effect struct {
	Message  string   `yaml:"message,omitempty"`
	Add      []string `yaml:"add,omitempty"`   // increment count
	Grant    []string `yaml:"grant,omitempty"` // add only if not already held
	Remove   []string `yaml:"remove,omitempty"`
	Set      []string `yaml:"set,omitempty"`
	Code     string   `yaml:"code,omitempty"`
	Talk     *NPCID   `yaml:"talk,omitempty"`
	Teleport *RoomID  `yaml:"teleport,omitempty"`
	Beacon   bool     `yaml:"beacon,omitempty"`
	Save     bool     `yaml:"save,omitempty"`
	// Once names a guard flag. When it is already set, item grants, flag
	// sets and codes are skipped; otherwise they apply and the guard is set.
	Once string `yaml:"once,omitempty"`
}

// Empty reports whether the effect does nothing at all.
func (e Effect) Empty() bool {
	return e.Message == "" && len(e.Add) == 0 && len(e.Grant) == 0 &&
		len(e.Remove) == 0 && len(e.Set) == 0 && e.Code == "" &&
		e.Talk == nil && e.Teleport == nil && !e.Beacon && !e.Save && e.Once == ""
}

// NPC is a conversation partner.
type NPC struct {
	ID     NPCID        `yaml:"id"`
	Name   string       `yaml:"name"`
	Dialog []DialogNode `yaml:"dialog"`
}

// Node returns dialog node i.
func (n *NPC) Node(i int) (*DialogNode, bool) {
	if i < 0 || i >= len(n.Dialog) {
		return nil, false
	}
	return &n.Dialog[i], true
}

type DialogNode struct {
	Text      string   `yaml:"text"`
	Response1 Response `yaml:"response1,omitempty"`
	Response2 Response `yaml:"response2,omitempty"`
}

type Response struct {
	Label  string `yaml:"label,omitempty"`
	Target Target `yaml:"target,omitempty"`
}

// Gates are evaluated on every room change in field order.
type Gates struct {
	Locks   []Lock      `yaml:"locks,omitempty"`
	World   []WorldGate `yaml:"world,omitempty"`
	Items   []ItemDoor  `yaml:"items,omitempty"`
	OnEnter []EntryRule `yaml:"on_enter,omitempty"`
}

// Lock vetoes entry to Room unless Open holds. A nil Open means the door
// never opens. When From is set the lock only applies to those transitions.
type Lock struct {
	Room    RoomID             `yaml:"room"`
	From    []RoomID           `yaml:"from,omitempty"`
	Open    *conditionals.When `yaml:"open,omitempty"`
	Message string             `yaml:"message"`
}

// WorldGate blocks far rooms until every storyline is complete.
type WorldGate struct {
	Rooms   []RoomID `yaml:"rooms"`
	Message string   `yaml:"message"`
}

// ItemDoor admits the player only while Item is held. Nothing is consumed.
type ItemDoor struct {
	Room    RoomID `yaml:"room"`
	Item    string `yaml:"item"`
	Message string `yaml:"message"`
	Granted string `yaml:"granted,omitempty"`
}

// EntryRule fires a side effect when the player arrives in Room.
type EntryRule struct {
	Room   RoomID             `yaml:"room"`
	From   []RoomID           `yaml:"from,omitempty"`
	When   *conditionals.When `yaml:"when,omitempty"`
	Effect `yaml:",inline"`
}

// Resolver decides the outcome of an NPC quest check. Stages are tried in
// order and the first whose condition holds succeeds.
type Resolver struct {
	NPC       NPCID   `yaml:"npc"`
	Stages    []Stage `yaml:"stages"`
	Otherwise []Case  `yaml:"otherwise,omitempty"`
}

type Stage struct {
	When *conditionals.When `yaml:"when,omitempty"`
	// Aggregate stages also test for game completion after applying.
	Aggregate bool `yaml:"aggregate,omitempty"`
	Effect    `yaml:",inline"`
}

// Completion is the master reward granted by an aggregate stage.
type Completion struct {
	Flag     string             `yaml:"flag"`
	Requires *conditionals.When `yaml:"requires,omitempty"`
	Message  string             `yaml:"message"`
	Code     string             `yaml:"code"`
}

// Sequence is an input pattern tracked in one room.
type Sequence struct {
	Room   RoomID   `yaml:"room"`
	Steps  []string `yaml:"steps"`
	Reward Effect   `yaml:"reward"`
}

// World is the complete, read-only game content.
type World struct {
	Name            string   `yaml:"name"`
	StartRoom       RoomID   `yaml:"start_room"`
	FallbackRoom    RoomID   `yaml:"fallback_room"`
	FallbackMessage string   `yaml:"fallback_message"`
	GameStartRoom   RoomID   `yaml:"game_start_room"`
	DefaultBeacon   RoomID   `yaml:"default_beacon"`
	DefaultName     string   `yaml:"default_name"`
	StartingItems   []string `yaml:"starting_items"`
	NotebookHeader  string   `yaml:"notebook_header"`

	Items       []Item   `yaml:"items"`
	Flags       []string `yaml:"flags"`
	Quests      []string `yaml:"quests"`
	Storylines  []string `yaml:"storylines"`
	Indicators  []string `yaml:"indicators"`
	AmbientFlag string   `yaml:"ambient_flag"`
	LegacyFlag  string   `yaml:"legacy_flag"`

	Rooms      []Room     `yaml:"rooms"`
	NPCs       []NPC      `yaml:"npcs"`
	Gates      Gates      `yaml:"gates"`
	Resolvers  []Resolver `yaml:"resolvers"`
	Completion Completion `yaml:"completion"`
	Sequences  []Sequence `yaml:"sequences,omitempty"`

	rooms     map[RoomID]*Room
	npcs      map[NPCID]*NPC
	items     map[string]*Item
	flags     map[string]bool
	resolvers map[NPCID]*Resolver
	sequences map[RoomID]*Sequence
}

// index builds the lookup tables. Duplicate ids are reported.
func (w *World) index() error {
	var errs []error

	w.rooms = make(map[RoomID]*Room, len(w.Rooms))
	for i := range w.Rooms {
		r := &w.Rooms[i]
		if _, dup := w.rooms[r.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate room id %d", r.ID))
			continue
		}
		w.rooms[r.ID] = r
	}

	w.npcs = make(map[NPCID]*NPC, len(w.NPCs))
	for i := range w.NPCs {
		n := &w.NPCs[i]
		if _, dup := w.npcs[n.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate npc id %d", n.ID))
			continue
		}
		w.npcs[n.ID] = n
	}

	w.items = make(map[string]*Item, len(w.Items))
	for i := range w.Items {
		it := &w.Items[i]
		if _, dup := w.items[it.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate item id %q", it.ID))
			continue
		}
		w.items[it.ID] = it
	}

	w.flags = make(map[string]bool, len(w.Flags))
	for _, f := range w.Flags {
		if w.flags[f] {
			errs = append(errs, fmt.Errorf("duplicate flag %q", f))
		}
		w.flags[f] = true
	}

	w.resolvers = make(map[NPCID]*Resolver, len(w.Resolvers))
	for i := range w.Resolvers {
		r := &w.Resolvers[i]
		if _, dup := w.resolvers[r.NPC]; dup {
			errs = append(errs, fmt.Errorf("duplicate resolver for npc %d", r.NPC))
			continue
		}
		w.resolvers[r.NPC] = r
	}

	w.sequences = make(map[RoomID]*Sequence, len(w.Sequences))
	for i := range w.Sequences {
		s := &w.Sequences[i]
		if _, dup := w.sequences[s.Room]; dup {
			errs = append(errs, fmt.Errorf("duplicate sequence in room %d", s.Room))
			continue
		}
		w.sequences[s.Room] = s
	}

	return errors.Join(errs...)
}

// Room returns the room with the given id.
func (w *World) Room(id RoomID) (*Room, error) {
	r, ok := w.rooms[id]
	if !ok {
		return nil, fmt.Errorf("room %d: %w", id, ErrUnknownRoom)
	}
	return r, nil
}

// HasRoom reports whether id resolves to a room.
func (w *World) HasRoom(id RoomID) bool {
	_, ok := w.rooms[id]
	return ok
}

// NPC returns the npc with the given id.
func (w *World) NPC(id NPCID) (*NPC, error) {
	n, ok := w.npcs[id]
	if !ok {
		return nil, fmt.Errorf("npc %d: %w", id, ErrUnknownNPC)
	}
	return n, nil
}

func (w *World) Resolver(id NPCID) (*Resolver, bool) {
	r, ok := w.resolvers[id]
	return r, ok
}

func (w *World) Sequence(room RoomID) (*Sequence, bool) {
	s, ok := w.sequences[room]
	return s, ok
}

// ItemName returns the display name for an item id, or the id itself.
func (w *World) ItemName(id string) string {
	if it, ok := w.items[id]; ok {
		return it.Name
	}
	return id
}

func (w *World) HasItem(id string) bool {
	_, ok := w.items[id]
	return ok
}

func (w *World) HasFlag(name string) bool {
	return w.flags[name]
}

// ItemIDs returns item ids in declaration order.
func (w *World) ItemIDs() []string {
	ids := make([]string, len(w.Items))
	for i, it := range w.Items {
		ids[i] = it.ID
	}
	return ids
}

// RoomsWithActions lists rooms that offer at least one keyword, ordered by id.
func (w *World) RoomsWithActions() []*Room {
	var out []*Room
	for i := range w.Rooms {
		if len(w.Rooms[i].Actions) > 0 {
			out = append(out, &w.Rooms[i])
		}
	}
	slices.SortFunc(out, func(a, b *Room) int { return int(a.ID) - int(b.ID) })
	return out
}
