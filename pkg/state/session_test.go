package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/badge-adventure/pkg/world"
)

func TestFlags(t *testing.T) {
	f := NewFlags([]string{"training", "chanute"})

	assert.False(t, f.IsSet("training"))
	assert.True(t, f.Set("training"))
	assert.False(t, f.Set("training"), "second set reports no change")
	assert.True(t, f.IsSet("training"))

	assert.False(t, f.Set("unknown"))
	assert.False(t, f.IsSet("unknown"))
	assert.False(t, f.Known("unknown"))

	assert.True(t, f.Clear("training"))
	assert.False(t, f.Clear("training"))

	f.Store("chanute", true)
	assert.Equal(t, map[string]bool{"training": false, "chanute": true}, f.Snapshot())

	f.Reset()
	assert.False(t, f.IsSet("chanute"))
	assert.Equal(t, []string{"training", "chanute"}, f.Names())
}

func TestFlagsConcurrentReaders(t *testing.T) {
	f := NewFlags([]string{"a", "b", "c"})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			_ = f.Snapshot()
		}
	}()
	for i := 0; i < 1000; i++ {
		f.Store("b", i%2 == 0)
	}
	wg.Wait()
}

func TestInventory(t *testing.T) {
	inv := NewInventory([]string{"lantern", "map", "soda"})

	assert.Equal(t, 1, inv.Add("soda"))
	assert.Equal(t, 2, inv.Add("soda"))
	assert.True(t, inv.Grant("map"))
	assert.False(t, inv.Grant("map"))

	assert.Equal(t, []Entry{{ID: "map", Count: 1}, {ID: "soda", Count: 2}}, inv.Held())

	assert.True(t, inv.Remove("map"))
	assert.False(t, inv.Remove("map"), "removing at zero is a no-op")
	assert.Equal(t, 0, inv.Count("map"))

	inv.Set("lantern", -4)
	assert.Equal(t, 0, inv.Count("lantern"))

	inv.Reset()
	assert.Empty(t, inv.Held())
	assert.Equal(t, []string{"lantern", "map", "soda"}, inv.IDs())
}

func TestNewSession(t *testing.T) {
	w, err := world.Default()
	require.NoError(t, err)

	s := NewSession(w)
	assert.Equal(t, w.StartRoom, s.Player.Room)
	assert.Equal(t, w.StartRoom, s.Player.PreviousRoom)
	assert.Equal(t, w.DefaultBeacon, s.Player.Beacon)
	assert.Equal(t, "User", s.Player.Name)
	assert.False(t, s.Talking())
	assert.Empty(t, s.Inventory.Held())
	assert.False(t, s.StorylinesComplete())

	for _, f := range w.Storylines {
		s.Flags.Set(f)
	}
	assert.True(t, s.StorylinesComplete())
}

func TestSessionTransients(t *testing.T) {
	w, err := world.Default()
	require.NoError(t, err)
	s := NewSession(w)

	s.Player.TalkingTo = 3
	s.Player.Cursor = 4
	s.Cheats = true
	s.PendingMessage = "hi"
	s.ShowMessage = true
	s.SequenceStep = 2
	assert.True(t, s.Talking())

	s.ResetTransients()
	assert.Equal(t, NoNPC, s.Player.TalkingTo)
	assert.Zero(t, s.Player.Cursor)
	assert.False(t, s.Cheats)
	assert.Empty(t, s.PendingMessage)
	assert.False(t, s.ShowMessage)
	assert.Zero(t, s.SequenceStep)
}

func TestNoteDeduplicates(t *testing.T) {
	w, err := world.Default()
	require.NoError(t, err)
	s := NewSession(w)

	assert.True(t, s.Note("Flag: A"))
	assert.False(t, s.Note("Flag: A"))
	assert.True(t, s.Note("Flag: B"))
	assert.Equal(t, []string{"Flag: A", "Flag: B"}, s.Player.Notebook)
}

func TestSessionStateView(t *testing.T) {
	w, err := world.Default()
	require.NoError(t, err)
	s := NewSession(w)

	s.Inventory.Add("ladder")
	s.Flags.Set("training")
	s.Player.PreviousRoom = 192

	assert.True(t, s.HasItem("ladder"))
	assert.True(t, s.IsSet("training"))
	assert.Equal(t, 192, s.PreviousRoomID())
}
