package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/badge-adventure/pkg/storage"
	"github.com/jwebster45206/badge-adventure/pkg/world"
)

type fakeLights struct {
	modes  []LightMode
	states []bool
}

func (f *fakeLights) SetMode(m LightMode) { f.modes = append(f.modes, m) }

func (f *fakeLights) Set(i int, on bool) error {
	if i < 0 || i >= len(f.states) {
		return errInvalidLight
	}
	f.states[i] = on
	return nil
}

func (f *fakeLights) Toggle(i int) (bool, error) {
	if i < 0 || i >= len(f.states) {
		return false, errInvalidLight
	}
	f.states[i] = !f.states[i]
	return f.states[i], nil
}

func (f *fakeLights) States() []bool { return append([]bool(nil), f.states...) }

type fakeScanner struct {
	found bool
	err   error
}

func (f fakeScanner) ScanForLegacyBadge(context.Context) (bool, error) { return f.found, f.err }

func TestUnknownCommand(t *testing.T) {
	s := newScript(t)
	for _, line := range []string{"dance", "HELP", "Look", "north"} {
		assert.Equal(t, "Unknown command.", s.send(line), line)
	}
}

func TestHelpListsLEDs(t *testing.T) {
	s := newScript(t)
	got := s.send("help")
	assert.Contains(t, got, "Available commands:")
	assert.Contains(t, got, "LED's: 0, 1, 2, 3, 4, 5, 6, 7, 8")
}

func TestInventoryCommand(t *testing.T) {
	s := newScript(t)
	assert.Equal(t, "Lantern x 1\nMap x 1", s.send("inventory"))

	s.give("red_keycard", "red_keycard")
	assert.Equal(t, "Lantern x 1\nMap x 1\nRed Keycard x 2", s.send("i"))
}

func TestCheatGatedCommands(t *testing.T) {
	for _, line := range []string{"debug", "goto 4", "toggle 1", "complete 0"} {
		t.Run(line, func(t *testing.T) {
			s := newScript(t)
			assert.Equal(t, "Cheat code required to use this command.", s.send(line))
			assert.Equal(t, world.RoomID(3), s.player().Room)
		})
	}
}

func TestCheatCode(t *testing.T) {
	s := newScript(t)
	assert.Equal(t, "Invalid cheat code.", s.send("cheat nope"))
	assert.False(t, s.eng.sess.Cheats)

	assert.Equal(t, "Cheats mode enabled.", s.send("cheat "+testCheatCode))
	assert.True(t, s.eng.sess.Cheats)

	assert.Equal(t, "Invalid cheat code.", s.send("cheat"))
	assert.False(t, s.eng.sess.Cheats)
}

func TestCheatCommands(t *testing.T) {
	lights := &fakeLights{states: make([]bool, 9)}
	s := newScript(t, WithLights(lights))
	s.send("cheat " + testCheatCode)

	t.Run("goto respects gates", func(t *testing.T) {
		got := s.send("goto 0")
		assert.Contains(t, got, "The door is locked.")
		assert.Equal(t, world.RoomID(3), s.player().Room)

		got = s.send("goto 4")
		assert.Contains(t, got, "Kansas Crossroads")
		assert.Equal(t, world.RoomID(4), s.player().Room)

		assert.Equal(t, "Invalid room number.", s.send("goto north"))
	})

	t.Run("toggle", func(t *testing.T) {
		got := s.send("toggle 2")
		lines := strings.Split(got, "\n")
		require.Len(t, lines, 10)
		assert.Equal(t, "LED 2 turned on.", lines[0])
		assert.Equal(t, "LED 0: OFF", lines[1])
		assert.Equal(t, "LED 2: ON", lines[3])
		assert.True(t, lights.states[2])

		assert.Equal(t, "LED 2 turned off.", strings.Split(s.send("toggle 2"), "\n")[0])
		assert.Equal(t, "Invalid LED number.", s.send("toggle 9"))
		assert.Equal(t, "Invalid LED number.", s.send("toggle x"))
	})

	t.Run("complete", func(t *testing.T) {
		assert.Equal(t, "Quest chanute completed.", s.send("complete 2"))
		assert.True(t, s.eng.sess.Flags.IsSet("chanute"))
		assert.Equal(t, "Invalid quest number.", s.send("complete 11"))
		assert.Equal(t, "Invalid quest number.", s.send("complete -1"))
	})

	t.Run("debug", func(t *testing.T) {
		got := s.send("debug")
		assert.Contains(t, got, "Inventory:\n  a cup of coffee x 0")
		assert.Contains(t, got, "  Lantern x 1")
		assert.Contains(t, got, "Current Room: 4")
		assert.Contains(t, got, "Name: User")
		assert.Contains(t, got, "chanute: true")
		assert.Contains(t, got, "training: false")
		assert.Contains(t, got, "Rooms with actions:\n0: The Vault")
		assert.Contains(t, got, "Badge serial: "+s.eng.Serial())
	})
}

func TestTwinkleCycle(t *testing.T) {
	lights := &fakeLights{states: make([]bool, 9)}
	s := newScript(t, WithLights(lights))
	require.Equal(t, Adventure, s.eng.LightMode())

	for _, want := range []string{"TWINKLE 1", "TWINKLE 2", "TWINKLE 3", "ADVENTURE", "TWINKLE 1"} {
		assert.Equal(t, "LED mode set to "+want+".", s.send("twinkle"))
	}
	assert.Equal(t, Twinkle1, lights.modes[len(lights.modes)-1])
}

func TestExitAndReactivate(t *testing.T) {
	lights := &fakeLights{states: make([]bool, 9)}
	s := newScript(t, WithLights(lights))
	s.send("twinkle", "twinkle", "twinkle", "twinkle")
	require.Equal(t, Adventure, s.eng.LightMode())

	got := s.send("exit")
	assert.Equal(t, "Thanks for playing!", got)
	assert.False(t, s.eng.Playing())
	assert.Zero(t, s.out.prompts)
	assert.Equal(t, Twinkle3, s.eng.LightMode())

	got = s.send("look")
	assert.True(t, s.eng.Playing())
	assert.True(t, strings.HasPrefix(got, "Starting serial console..."))
	assert.Contains(t, got, "Training Tent")
	assert.Equal(t, 1, s.out.prompts)
	assert.Equal(t, Adventure, s.eng.LightMode())
}

func TestExitDuringConversation(t *testing.T) {
	s := newScript(t)
	s.place(2)
	s.send("talk")

	// The open dialog owns the next line.
	got := s.send("exit")
	assert.Contains(t, got, "Invalid response. Please try again.")
	assert.True(t, s.eng.Playing())
	assert.True(t, s.eng.sess.Talking())
	assert.Equal(t, PromptDialog, s.eng.Prompt())

	got = s.send("0", "exit")
	assert.Contains(t, got, "Thanks for playing!")
	assert.False(t, s.eng.Playing())
	assert.False(t, s.eng.sess.Talking())
	assert.Equal(t, PromptNone, s.eng.Prompt())
}

func TestScan(t *testing.T) {
	tests := []struct {
		name      string
		scanner   fakeScanner
		preset    bool
		wantText  string
		wantFlag  bool
		wantBadge string
	}{
		{
			name:      "legacy badge nearby",
			scanner:   fakeScanner{found: true},
			wantText:  "The badge you are carrying chirps and a green light has illuminated.",
			wantFlag:  true,
			wantBadge: "You look down at your badge and see a green light.",
		},
		{
			name:      "nothing nearby",
			scanner:   fakeScanner{},
			wantText:  "The badge you are holding beeps and a red light illuminates.",
			wantBadge: "You look down at your badge and see a red light.",
		},
		{
			name:      "badge no longer nearby",
			scanner:   fakeScanner{},
			preset:    true,
			wantText:  "The badge you are holding beeps and a red light illuminates.",
			wantBadge: "You look down at your badge and see a red light.",
		},
		{
			name:      "scanner error",
			scanner:   fakeScanner{found: true, err: errors.New("radio off")},
			wantText:  "The badge you are holding beeps and a red light illuminates.",
			wantBadge: "You look down at your badge and see a red light.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lights := &fakeLights{states: make([]bool, 9)}
			s := newScript(t, WithLights(lights), WithScanner(tt.scanner))
			if tt.preset {
				s.set("model2023")
			}

			assert.Equal(t, tt.wantText, s.send("scan"))
			assert.Equal(t, tt.wantFlag, s.eng.sess.Flags.IsSet("model2023"))
			assert.Equal(t, tt.wantFlag, lights.states[0])

			stored, ok, err := s.store.Get(s.ctx, storage.NamespaceGame, "model2023")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.wantFlag, stored == "true")

			assert.Equal(t, tt.wantBadge, s.send("badge"))
		})
	}
}

func TestNicknameAndWhoami(t *testing.T) {
	s := newScript(t, WithNameFilter(func(in string) string {
		return strings.ToUpper(strings.TrimSpace(in))
	}))

	assert.Equal(t, "You are User.", s.send("whoami"))

	got := s.send("nickname")
	assert.Equal(t, "Your current nickname is User.\nEnter your new nickname:", got)
	assert.Equal(t, PromptNickname, s.eng.Prompt())

	assert.Equal(t, "Your nickname is now ACE.", s.send("ace"))
	assert.Equal(t, "You are ACE.", s.send("whoami"))

	stored, ok, err := s.store.Get(s.ctx, storage.NamespaceGame, "playername")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ACE", stored)
}

func TestNicknameRejectsEmpty(t *testing.T) {
	s := newScript(t, WithNameFilter(func(string) string { return "" }))
	s.send("nickname")
	assert.Equal(t, "Your nickname was not changed.", s.send("!!!"))
	assert.Equal(t, "User", s.player().Name)
}

func TestWiFiSettings(t *testing.T) {
	s := newScript(t, WithWiFiDefaults("OzSec", "hunter2"))

	got := s.send("wifi")
	assert.Equal(t, "Your current SSID: 'OzSec'\nWould you like to change it? (y/n)", got)
	assert.Equal(t, "WiFi settings not changed.", s.send("n"))

	s.send("wifi")
	assert.Equal(t, "Please enter the new SSID:", s.send("y"))
	assert.Equal(t, "WiFi SSID set to 'Badge-Net'\nPlease enter the password:", s.send("Badge-Net"))
	assert.Equal(t, "WiFi Password set.", s.send("s3cret"))
	assert.Equal(t, PromptNone, s.eng.Prompt())

	ssid, pass, err := s.eng.WiFi(s.ctx)
	require.NoError(t, err)
	assert.Equal(t, "Badge-Net", ssid)
	assert.Equal(t, "s3cret", pass)

	assert.Contains(t, s.send("wifi"), "'Badge-Net'")
}

func TestNotebook(t *testing.T) {
	s := newScript(t)
	assert.Equal(t, "You write 'meet at the depot' in your notebook.", s.send("write meet at the depot"))
	assert.Equal(t, "What would you like to write?", s.send("write"))

	s.place(0)
	s.send("flag", "flag")

	got := s.send("notebook")
	assert.Equal(t, strings.Join([]string{
		"Your notebook has the following entries:",
		"",
		"meet at the depot",
		"Flag: OzSecCTF{V4u1t_hunt3r_h@cke2}",
	}, "\n"), got)
}

func TestRewardPrintedBeforeMessage(t *testing.T) {
	s := newScript(t)
	s.place(0)
	s.send("flag")
	require.Len(t, s.out.lines, 2)
	assert.Equal(t, "Flag: OzSecCTF{V4u1t_hunt3r_h@cke2}", s.out.lines[0])
	assert.Equal(t, "You inspect the pennant and find a CTF flag written on the back.", s.out.lines[1])
}

func TestBeacon(t *testing.T) {
	s := newScript(t)
	s.place(103)
	s.send("beacon")
	assert.Equal(t, world.RoomID(103), s.player().Beacon)

	s.place(4)
	got := s.send("beacon")
	assert.True(t, strings.HasPrefix(got, "You call a BEACON taxi service and are dropped off."))
	assert.Contains(t, got, "Coffee Connection")
	assert.Equal(t, world.RoomID(103), s.player().Room)
}

func TestSaveFailure(t *testing.T) {
	mem := storage.NewMemoryStore()
	s := newScriptWithStore(t, mem)
	require.NoError(t, mem.Close())

	assert.Equal(t, "Game failed to save.", s.send("save"))
	assert.Equal(t, "Game state failed to load.", s.send("load"))
	assert.True(t, s.eng.Playing())
}
