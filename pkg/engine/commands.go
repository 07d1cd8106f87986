package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jwebster45206/badge-adventure/pkg/world"
)

type commandFunc func(e *Engine, ctx context.Context, arg string)

type command struct {
	run   commandFunc
	cheat bool
}

// commands maps the first token of a line to its handler. Lookups are
// case-sensitive.
var commands = map[string]command{
	"help":      {run: (*Engine).cmdHelp},
	"save":      {run: (*Engine).cmdSave},
	"load":      {run: (*Engine).cmdLoad},
	"exit":      {run: (*Engine).cmdExit},
	"wifi":      {run: (*Engine).cmdWiFi},
	"inventory": {run: (*Engine).cmdInventory},
	"i":         {run: (*Engine).cmdInventory},
	"look":      {run: (*Engine).cmdLook},
	"l":         {run: (*Engine).cmdLook},
	"nickname":  {run: (*Engine).cmdNickname},
	"whoami":    {run: (*Engine).cmdWhoami},
	"reset":     {run: (*Engine).cmdReset},
	"twinkle":   {run: (*Engine).cmdTwinkle},
	"badge":     {run: (*Engine).cmdBadge},
	"scan":      {run: (*Engine).cmdScan},
	"notebook":  {run: (*Engine).cmdNotebook},
	"write":     {run: (*Engine).cmdWrite},
	"beacon":    {run: (*Engine).cmdBeacon},
	"cheat":     {run: (*Engine).cmdCheat},
	"debug":     {run: (*Engine).cmdDebug, cheat: true},
	"goto":      {run: (*Engine).cmdGoto, cheat: true},
	"toggle":    {run: (*Engine).cmdToggle, cheat: true},
	"complete":  {run: (*Engine).cmdComplete, cheat: true},
}

func (e *Engine) command(ctx context.Context, line string) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	cmd, ok := commands[name]
	if !ok {
		e.say("Unknown command.")
		return
	}
	if cmd.cheat && !e.sess.Cheats {
		e.say("Cheat code required to use this command.")
		return
	}
	e.logger.Debug("command", "name", name)
	cmd.run(e, ctx, arg)
}

func (e *Engine) cmdHelp(_ context.Context, _ string) {
	leds := make([]string, len(e.lights.States()))
	for i := range leds {
		leds[i] = strconv.Itoa(i)
	}
	e.write(strings.Join([]string{
		"",
		"Available commands:",
		"  help - Display this help message.",
		"  n, e, s, w - Move in a direction.",
		"  look, l - Look around the current room.",
		"  inventory, i - Display your inventory.",
		"  save - Save your game.",
		"  reset - Reset your game progress.",
		"  nickname - Change your nickname.",
		"  whoami - Display your nickname.",
		"  wifi - Configure the badge WiFi settings.",
		"  notebook - Read your notebook.",
		"  write <text> - Write a note in your notebook.",
		"  beacon - Return to your BEACON.",
		"  badge - Look at your badge.",
		"  scan - Scan for nearby badges.",
		"  twinkle - Change the LED mode.",
		"  exit - Exit the serial console.",
		"",
		"LED's: " + strings.Join(leds, ", "),
	}, "\n"))
}

func (e *Engine) cmdSave(ctx context.Context, _ string) {
	if err := e.save(ctx); err != nil {
		e.logger.Error("save command failed", "error", err)
		e.say("Game failed to save.")
		return
	}
	e.say("Game saved.")
}

func (e *Engine) cmdLoad(ctx context.Context, _ string) {
	if err := e.load(ctx); err != nil {
		e.say("Game state failed to load.")
		return
	}
	e.say("Game state loaded.")
}

func (e *Engine) cmdExit(_ context.Context, _ string) {
	e.write("Thanks for playing!")
	e.playing = false
	e.setMode(e.twinkle)
	e.sess.EndConversation()
	e.prompt = PromptNone
	e.sess.PendingMessage = ""
	e.sess.ShowMessage = false
	e.display = DisplayRoom
}

func (e *Engine) cmdInventory(_ context.Context, _ string) {
	for _, it := range e.sess.Inventory.Held() {
		e.writef("%s x %d", e.sess.World.ItemName(it.ID), it.Count)
	}
}

func (e *Engine) cmdLook(_ context.Context, _ string) {
	e.display = DisplayRoom
}

func (e *Engine) cmdNickname(_ context.Context, _ string) {
	e.say(fmt.Sprintf("Your current nickname is %s.\nEnter your new nickname:", e.sess.Player.Name))
	e.prompt = PromptNickname
}

func (e *Engine) setNickname(ctx context.Context, line string) {
	name := e.filter(line)
	if name == "" {
		e.say("Your nickname was not changed.")
		return
	}
	e.sess.Player.Name = name
	if err := e.game.PutString(ctx, keyPlayerName, name); err != nil {
		e.logger.Error("failed to store nickname", "error", err)
	}
	e.say(fmt.Sprintf("Your nickname is now %s.", name))
}

func (e *Engine) cmdWhoami(_ context.Context, _ string) {
	e.say(fmt.Sprintf("You are %s.", e.sess.Player.Name))
}

func (e *Engine) cmdReset(ctx context.Context, _ string) {
	if err := e.reset(ctx); err != nil {
		e.logger.Error("reset failed", "error", err)
		e.say("Game state failed to reset.")
		return
	}
	if i := e.legacyIndicator(); i >= 0 {
		_ = e.lights.Set(i, false)
	}
	e.say("Game state has been reset.")
}

func (e *Engine) cmdTwinkle(_ context.Context, _ string) {
	e.setMode(e.mode.Next())
	e.say(fmt.Sprintf("LED mode set to %s.", e.mode))
}

func (e *Engine) cmdBadge(_ context.Context, _ string) {
	color := "red"
	if e.sess.Flags.IsSet(e.sess.World.LegacyFlag) {
		color = "green"
	}
	e.say(fmt.Sprintf("You look down at your badge and see a %s light.", color))
}

func (e *Engine) cmdScan(ctx context.Context, _ string) {
	found, err := e.scanner.ScanForLegacyBadge(ctx)
	if err != nil {
		e.logger.Warn("badge scan failed", "error", err)
		found = false
	}

	legacy := e.sess.World.LegacyFlag
	if found {
		e.say("The badge you are carrying chirps and a green light has illuminated.")
	} else {
		e.say("The badge you are holding beeps and a red light illuminates.")
	}
	var changed bool
	if found {
		changed = e.sess.Flags.Set(legacy)
	} else {
		changed = e.sess.Flags.Clear(legacy)
	}
	if changed {
		e.logger.Debug("legacy badge flag changed", "flag", legacy, "value", found)
	}
	if i := e.legacyIndicator(); i >= 0 {
		if err := e.lights.Set(i, found); err != nil {
			e.logger.Warn("failed to set indicator", "index", i, "error", err)
		}
	}
	if err := e.save(ctx); err != nil {
		e.logger.Error("failed to save after scan", "error", err)
	}
}

func (e *Engine) legacyIndicator() int {
	return slices.Index(e.sess.World.Indicators, e.sess.World.LegacyFlag)
}

func (e *Engine) cmdNotebook(_ context.Context, _ string) {
	header := strings.TrimRight(e.sess.World.NotebookHeader, "\n")
	lines := append([]string{header, ""}, e.sess.Player.Notebook...)
	e.say(strings.Join(lines, "\n"))
}

func (e *Engine) cmdWrite(_ context.Context, arg string) {
	text := e.filter(arg)
	if text == "" {
		e.say("What would you like to write?")
		return
	}
	e.sess.Player.Notebook = append(e.sess.Player.Notebook, text)
	e.say(fmt.Sprintf("You write '%s' in your notebook.", text))
}

func (e *Engine) cmdBeacon(ctx context.Context, _ string) {
	e.write("You call a BEACON taxi service and are dropped off.")
	e.enter(ctx, e.sess.Player.Beacon)
}

func (e *Engine) cmdCheat(_ context.Context, arg string) {
	if e.cheatCode != "" && arg == e.cheatCode {
		e.sess.Cheats = true
		e.say("Cheats mode enabled.")
		return
	}
	e.sess.Cheats = false
	e.say("Invalid cheat code.")
}

func (e *Engine) cmdDebug(_ context.Context, _ string) {
	s := e.sess
	w := s.World
	var b strings.Builder

	b.WriteString("Inventory:\n")
	for _, id := range s.Inventory.IDs() {
		fmt.Fprintf(&b, "  %s x %d\n", w.ItemName(id), s.Inventory.Count(id))
	}
	fmt.Fprintf(&b, "Current Room: %d\n", s.Player.Room)
	b.WriteString("Game state:\n")
	fmt.Fprintf(&b, "Name: %s\n", s.Player.Name)
	fmt.Fprintf(&b, "Room: %d\n", s.Player.Room)
	fmt.Fprintf(&b, "Previous Room: %d\n", s.Player.PreviousRoom)
	fmt.Fprintf(&b, "Beacon: %d\n", s.Player.Beacon)
	b.WriteString("\nQuests:\n")
	for _, f := range s.Flags.Names() {
		fmt.Fprintf(&b, "%s: %t\n", f, s.Flags.IsSet(f))
	}
	b.WriteString("\nRooms with actions:\n")
	for _, r := range w.RoomsWithActions() {
		fmt.Fprintf(&b, "%d: %s\n", r.ID, r.Title)
	}
	fmt.Fprintf(&b, "\nBadge serial: %s", e.serial)

	e.say(b.String())
}

func (e *Engine) cmdGoto(ctx context.Context, arg string) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		e.say("Invalid room number.")
		return
	}
	e.enter(ctx, world.RoomID(id))
}

func (e *Engine) cmdToggle(_ context.Context, arg string) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		e.say("Invalid LED number.")
		return
	}
	on, err := e.lights.Toggle(i)
	if err != nil {
		e.say("Invalid LED number.")
		return
	}

	lines := []string{fmt.Sprintf("LED %d turned %s.", i, onOff(on, "on", "off"))}
	for j, state := range e.lights.States() {
		lines = append(lines, fmt.Sprintf("LED %d: %s", j, onOff(state, "ON", "OFF")))
	}
	e.say(strings.Join(lines, "\n"))
}

func (e *Engine) cmdComplete(_ context.Context, arg string) {
	quests := e.sess.World.Quests
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 || n >= len(quests) {
		e.say("Invalid quest number.")
		return
	}
	e.sess.Flags.Set(quests[n])
	e.say(fmt.Sprintf("Quest %s completed.", quests[n]))
}

func (e *Engine) cmdWiFi(ctx context.Context, _ string) {
	ssid, err := e.badge.String(ctx, keyWiFiSSID, e.wifiSSID)
	if err != nil {
		e.logger.Warn("failed to read wifi ssid", "error", err)
	}
	e.say(fmt.Sprintf("Your current SSID: '%s'\nWould you like to change it? (y/n)", ssid))
	e.prompt = PromptWiFiConfirm
}

func (e *Engine) confirmWiFi(line string) {
	if line != "y" {
		e.say("WiFi settings not changed.")
		return
	}
	e.say("Please enter the new SSID:")
	e.prompt = PromptWiFiSSID
}

func (e *Engine) setWiFiSSID(ctx context.Context, line string) {
	if err := e.badge.PutString(ctx, keyWiFiSSID, line); err != nil {
		e.logger.Error("failed to store wifi ssid", "error", err)
	}
	e.say(fmt.Sprintf("WiFi SSID set to '%s'\nPlease enter the password:", line))
	e.prompt = PromptWiFiPassword
}

func (e *Engine) setWiFiPassword(ctx context.Context, line string) {
	if err := e.badge.PutString(ctx, keyWiFiPassword, line); err != nil {
		e.logger.Error("failed to store wifi password", "error", err)
	}
	e.say("WiFi Password set.")
}

// WiFi returns the stored credentials, falling back to the configured ones.
func (e *Engine) WiFi(ctx context.Context) (ssid, password string, err error) {
	ssid, errSSID := e.badge.String(ctx, keyWiFiSSID, e.wifiSSID)
	password, errPass := e.badge.String(ctx, keyWiFiPassword, e.wifiPassword)
	return ssid, password, errors.Join(errSSID, errPass)
}

func onOff(v bool, on, off string) string {
	if v {
		return on
	}
	return off
}
