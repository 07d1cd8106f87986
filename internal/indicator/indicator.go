// Package indicator renders the badge LEDs from the session's quest flags.
package indicator

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/jwebster45206/badge-adventure/pkg/engine"
)

var ErrInvalidIndex = errors.New("invalid indicator index")

// FlagReader is the read-only view the render loop needs. state.Flags
// satisfies it without locking.
type FlagReader interface {
	IsSet(flag string) bool
}

type Color struct {
	R, G, B uint8
}

var (
	Off   = Color{}
	Red   = Color{R: 255}
	Green = Color{G: 255}
)

// Frame is one rendered state of the strip.
type Frame struct {
	Mode       string `json:"mode"`
	LEDs       []bool `json:"leds"`
	Ambient    Color  `json:"ambient"`
	Brightness uint8  `json:"brightness"`
}

// Driver pushes frames to hardware or wherever they are shown.
type Driver interface {
	Render(f Frame)
}

const ambientBrightness = 32

// Strip owns the LED state. It implements engine.Lights.
type Strip struct {
	mu         sync.Mutex
	flags      FlagReader
	indicators []string
	ambient    string
	mode       engine.LightMode
	overrides  map[int]bool
	tick       int
	rng        *rand.Rand
	last       Frame
	logger     *slog.Logger
}

var _ engine.Lights = (*Strip)(nil)

// New creates a strip with one LED per indicator flag.
func New(flags FlagReader, indicators []string, ambientFlag string, logger *slog.Logger) *Strip {
	if logger == nil {
		logger = slog.Default()
	}
	return &Strip{
		flags:      flags,
		indicators: slices.Clone(indicators),
		ambient:    ambientFlag,
		mode:       engine.Twinkle1,
		overrides:  make(map[int]bool),
		rng:        rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x0b5ec)),
		logger:     logger,
	}
}

func (s *Strip) Len() int { return len(s.indicators) }

// SetMode switches the pattern and drops manual overrides.
func (s *Strip) SetMode(m engine.LightMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
	s.tick = 0
	clear(s.overrides)
	s.logger.Debug("indicator mode changed", "mode", m.String())
}

func (s *Strip) Mode() engine.LightMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Set forces one LED until the next mode change.
func (s *Strip) Set(index int, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.indicators) {
		return ErrInvalidIndex
	}
	s.overrides[index] = on
	return nil
}

func (s *Strip) Toggle(index int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.indicators) {
		return false, ErrInvalidIndex
	}
	on := !s.stateLocked(index)
	s.overrides[index] = on
	return on, nil
}

// States reports the adventure view of every LED: overrides first, then flags.
func (s *Strip) States() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]bool, len(s.indicators))
	for i := range out {
		out[i] = s.stateLocked(i)
	}
	return out
}

func (s *Strip) stateLocked(i int) bool {
	if v, ok := s.overrides[i]; ok {
		return v
	}
	return s.flags.IsSet(s.indicators[i])
}

// Next advances the animation by one step and returns the frame.
func (s *Strip) Next() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.indicators)
	leds := make([]bool, n)
	switch s.mode {
	case engine.Twinkle1:
		for i := range leds {
			leds[i] = s.rng.IntN(4) == 0
		}
	case engine.Twinkle2:
		if n > 0 {
			leds[s.tick%n] = true
		}
	case engine.Twinkle3:
		for i := range leds {
			leds[i] = (i+s.tick)%2 == 0
		}
	default:
		for i := range leds {
			leds[i] = s.stateLocked(i)
		}
	}
	s.tick++

	ambient := Red
	if s.ambient != "" && s.flags.IsSet(s.ambient) {
		ambient = Green
	}

	s.last = Frame{
		Mode:       s.mode.String(),
		LEDs:       leds,
		Ambient:    ambient,
		Brightness: ambientBrightness,
	}
	return s.last
}

// Last returns the most recently rendered frame.
func (s *Strip) Last() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.last
	f.LEDs = slices.Clone(f.LEDs)
	return f
}

// Run renders a frame every interval until ctx is done.
func (s *Strip) Run(ctx context.Context, interval time.Duration, d Driver) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("indicator loop started", "interval", interval, "leds", len(s.indicators))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("indicator loop stopped")
			return
		case <-ticker.C:
			f := s.Next()
			if d != nil {
				d.Render(f)
			}
		}
	}
}

// LogDriver logs every frame that differs from the previous one.
type LogDriver struct {
	Logger *slog.Logger
	prev   Frame
}

func (l *LogDriver) Render(f Frame) {
	if f.Mode == l.prev.Mode && f.Ambient == l.prev.Ambient && slices.Equal(f.LEDs, l.prev.LEDs) {
		return
	}
	l.prev = f
	l.Logger.Debug("indicator frame",
		"mode", f.Mode,
		"leds", f.LEDs,
		"ambient", f.Ambient)
}
