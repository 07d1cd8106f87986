package engine

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

// Display is what gets shown at the end of the current turn.
type Display int

const (
	DisplayNone Display = iota
	DisplayRoom
	DisplayMessage
	DisplayDialog
)

func (d Display) String() string {
	switch d {
	case DisplayNone:
		return "none"
	case DisplayRoom:
		return "room"
	case DisplayMessage:
		return "message"
	case DisplayDialog:
		return "dialog"
	default:
		return "unknown"
	}
}

// Prompt decides who consumes the next input line.
type Prompt int

const (
	PromptNone Prompt = iota
	PromptDialog
	PromptNickname
	PromptWiFiConfirm
	PromptWiFiSSID
	PromptWiFiPassword
)

func (p Prompt) String() string {
	switch p {
	case PromptNone:
		return "none"
	case PromptDialog:
		return "dialog"
	case PromptNickname:
		return "nickname"
	case PromptWiFiConfirm:
		return "wifi_confirm"
	case PromptWiFiSSID:
		return "wifi_ssid"
	case PromptWiFiPassword:
		return "wifi_password"
	default:
		return "unknown"
	}
}

const (
	promptMarker = "> "
	rule         = "=================="
)

// write word-wraps text and emits it line by line. Explicit newlines are kept.
func (e *Engine) write(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if e.wrapWidth > 0 {
		text = wordwrap.String(text, e.wrapWidth)
	}
	for _, line := range strings.Split(text, "\n") {
		e.out.WriteLine(strings.TrimRight(line, " "))
	}
}

func (e *Engine) writef(format string, args ...any) {
	e.write(fmt.Sprintf(format, args...))
}

// say queues a message for the end-of-turn display.
func (e *Engine) say(msg string) {
	if e.sess.ShowMessage && e.sess.PendingMessage != "" {
		msg = e.sess.PendingMessage + "\n" + msg
	}
	e.sess.PendingMessage = msg
	e.sess.ShowMessage = true
	e.display = DisplayMessage
}

// flush renders the armed display once and disarms it.
func (e *Engine) flush() {
	d := e.display
	e.display = DisplayNone

	switch d {
	case DisplayNone:
	case DisplayRoom:
		e.showPendingMessage()
		e.renderRoom()
	case DisplayMessage:
		e.showPendingMessage()
	case DisplayDialog:
		e.showPendingMessage()
		e.renderDialog()
	}
}

func (e *Engine) showPendingMessage() {
	if !e.sess.ShowMessage {
		return
	}
	msg := e.sess.PendingMessage
	e.sess.PendingMessage = ""
	e.sess.ShowMessage = false
	if msg != "" {
		e.write(msg)
	}
}

func (e *Engine) renderRoom() {
	w := e.sess.World
	room, err := w.Room(e.sess.Player.Room)
	if err != nil {
		e.logger.Warn("player in unknown room, using fallback",
			"room", e.sess.Player.Room,
			"fallback", w.FallbackRoom)
		if w.FallbackMessage != "" {
			e.write(w.FallbackMessage)
		}
		e.sess.Player.Room = w.FallbackRoom
		e.sess.Player.PreviousRoom = w.FallbackRoom
		if room, err = w.Room(w.FallbackRoom); err != nil {
			e.logger.Error("fallback room missing", "error", err)
			return
		}
	}

	e.write("")
	e.write(room.Title)
	e.write(rule)
	if room.Description != "" {
		e.write(room.Description)
	}
	e.write(rule)

	for _, dir := range worldDirections {
		id, ok := room.Exit(dir)
		if !ok {
			continue
		}
		title := fmt.Sprintf("room %d", id)
		if next, err := w.Room(id); err == nil {
			title = next.Title
		}
		e.writef("[%s] %s", dir, title)
	}
	for _, a := range room.Actions {
		if a.Hidden {
			continue
		}
		if a.Hint != "" {
			e.write(a.Hint)
		} else {
			e.writef("[%s]", a.Keyword)
		}
	}
}

func (e *Engine) renderDialog() {
	npc, err := e.currentNPC()
	if err != nil {
		e.logger.Debug("dialog display without a conversation", "error", err)
		e.sess.EndConversation()
		e.write("You're not talking to anyone.")
		return
	}
	node, ok := npc.Node(e.sess.Player.Cursor)
	if !ok {
		e.logger.Warn("dialog cursor out of range",
			"npc", npc.ID,
			"cursor", e.sess.Player.Cursor)
		e.sess.EndConversation()
		e.write("You're not talking to anyone.")
		return
	}

	e.write("")
	e.writef("%s: %s", npc.Name, node.Text)
	e.write("--")
	if !node.Response1.Target.IsEnd() {
		e.writef("1> %s", node.Response1.Label)
	}
	if !node.Response2.Target.IsEnd() {
		e.writef("2> %s", node.Response2.Label)
	}
	e.write("0> Bye.")
	e.prompt = PromptDialog
}
