// Package engine runs the badge adventure: it classifies each input line,
// applies its effect to the session and renders the result.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jwebster45206/badge-adventure/pkg/state"
	"github.com/jwebster45206/badge-adventure/pkg/storage"
	"github.com/jwebster45206/badge-adventure/pkg/world"
)

const DefaultWrapWidth = 100

var (
	errInvalidLight = errors.New("invalid indicator index")

	worldDirections = world.DisplayOrder
)

// Option configures an Engine.
type Option func(*Engine)

// WithSession runs the engine on a session built by the caller, so observers
// such as the indicator strip can hold its flags before the engine exists.
func WithSession(s *state.Session) Option {
	return func(e *Engine) {
		if s != nil {
			e.sess = s
		}
	}
}

func WithLights(l Lights) Option {
	return func(e *Engine) {
		if l != nil {
			e.lights = l
		}
	}
}

func WithScanner(s Scanner) Option {
	return func(e *Engine) {
		if s != nil {
			e.scanner = s
		}
	}
}

// WithWrapWidth sets the console width. Zero disables wrapping.
func WithWrapWidth(n int) Option {
	return func(e *Engine) { e.wrapWidth = n }
}

func WithCheatCode(code string) Option {
	return func(e *Engine) { e.cheatCode = code }
}

func WithNameFilter(f NameFilter) Option {
	return func(e *Engine) {
		if f != nil {
			e.filter = f
		}
	}
}

func WithBadgeInfo(info BadgeInfo) Option {
	return func(e *Engine) { e.badgeInfo = info }
}

// WithWiFiDefaults sets the credentials reported before the player changes them.
func WithWiFiDefaults(ssid, password string) Option {
	return func(e *Engine) {
		e.wifiSSID = ssid
		e.wifiPassword = password
	}
}

// Engine owns one session and advances it one line at a time. It is not safe
// for concurrent use; the indicator loop only reads the session's flags.
type Engine struct {
	sess      *state.Session
	store     storage.Store
	game      *storage.Preferences
	inventory *storage.Preferences
	badge     *storage.Preferences
	out       Output
	logger    *slog.Logger

	lights    Lights
	scanner   Scanner
	filter    NameFilter
	wrapWidth int
	cheatCode string
	badgeInfo BadgeInfo

	wifiSSID     string
	wifiPassword string
	serial       string

	display Display
	prompt  Prompt
	playing bool
	mode    LightMode
	twinkle LightMode
}

// New builds an engine over w. Call Start before the first Turn.
func New(w *world.World, store storage.Store, out Output, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		sess:      state.NewSession(w),
		store:     store,
		game:      storage.NewPreferences(store, storage.NamespaceGame),
		inventory: storage.NewPreferences(store, storage.NamespaceInventory),
		badge:     storage.NewPreferences(store, storage.NamespaceBadge),
		out:       out,
		logger:    logger,
		lights:    &noLights{states: make([]bool, len(w.Indicators))},
		scanner:   noScanner{},
		filter:    strings.TrimSpace,
		wrapWidth: DefaultWrapWidth,
		mode:      Twinkle1,
		twinkle:   Twinkle1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Session exposes the owned state. Callers other than the game loop may
// only read its flags.
func (e *Engine) Session() *state.Session { return e.sess }

func (e *Engine) Playing() bool { return e.playing }

func (e *Engine) Display() Display { return e.display }

func (e *Engine) Prompt() Prompt { return e.prompt }

func (e *Engine) LightMode() LightMode { return e.mode }

// Serial is the badge serial number assigned on first boot.
func (e *Engine) Serial() string { return e.serial }

// Start loads the saved game and badge identity, arms the room display and
// prints the boot banner. Storage failures are returned but the engine stays
// usable on in-memory state.
func (e *Engine) Start(ctx context.Context) error {
	var errs []error
	if err := e.ensureIdentity(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := e.load(ctx); err != nil {
		errs = append(errs, err)
	}
	e.lights.SetMode(e.twinkle)
	e.mode = e.twinkle
	e.display = DisplayRoom
	e.Banner()

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}
	return nil
}

// Banner prints the activation hint shown while the console is idle.
func (e *Engine) Banner() {
	e.write("\n\nHold BOOT to start OTA firmware update.")
	e.write("")
	e.write("Press enter to activate the serial console.")
}

// Turn consumes one completed input line.
func (e *Engine) Turn(ctx context.Context, line string) {
	if !e.playing {
		e.activate()
		e.flush()
		e.out.WriteRaw(promptMarker)
		return
	}

	line = strings.TrimSpace(line)
	if line != "" {
		e.dispatch(ctx, line)
	}
	// After exit the armed display waits for the next activation.
	if e.playing {
		e.flush()
		e.out.WriteRaw(promptMarker)
	}
}

func (e *Engine) activate() {
	e.playing = true
	e.write("Starting serial console...")
	e.write("")
	e.write("")
	e.setMode(Adventure)
	e.logger.Debug("console activated", "room", e.sess.Player.Room)
}

func (e *Engine) setMode(m LightMode) {
	if m.Twinkling() {
		e.twinkle = m
	}
	e.mode = m
	e.lights.SetMode(m)
}

// dispatch routes a line to the pending prompt, the room or the command table.
func (e *Engine) dispatch(ctx context.Context, line string) {
	if p := e.prompt; p != PromptNone {
		e.prompt = PromptNone
		e.answer(ctx, p, line)
		return
	}
	if e.roomAction(ctx, line) {
		return
	}
	e.command(ctx, line)
}

// answer hands line to the handler that armed the prompt.
func (e *Engine) answer(ctx context.Context, p Prompt, line string) {
	switch p {
	case PromptDialog:
		e.respond(ctx, line)
	case PromptNickname:
		e.setNickname(ctx, line)
	case PromptWiFiConfirm:
		e.confirmWiFi(line)
	case PromptWiFiSSID:
		e.setWiFiSSID(ctx, line)
	case PromptWiFiPassword:
		e.setWiFiPassword(ctx, line)
	case PromptNone:
	}
}
