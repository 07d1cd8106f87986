package serial

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// ErrPortClosed is returned when submitting to a closed port.
var ErrPortClosed = errors.New("serial port closed")

// Button is one of the badge's physical buttons.
type Button int

const (
	Boot Button = iota + 1
	Select
	Up
	Down
	Left
	Right
)

var buttonNames = map[string]Button{
	"boot":   Boot,
	"select": Select,
	"up":     Up,
	"down":   Down,
	"left":   Left,
	"right":  Right,
}

// ParseButton maps a button name to a Button.
func ParseButton(name string) (Button, error) {
	b, ok := buttonNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown button %q", name)
	}
	return b, nil
}

func (b Button) String() string {
	for name, v := range buttonNames {
		if v == b {
			return name
		}
	}
	return "unknown"
}

// Line is the game input a short press stands for.
func (b Button) Line() string {
	switch b {
	case Up:
		return "n"
	case Down:
		return "s"
	case Left:
		return "w"
	case Right:
		return "e"
	case Boot:
		return "boot"
	case Select:
		return "select"
	default:
		return ""
	}
}

// Press is a button event that is not plain input: a long press.
type Press struct {
	Button Button
	Long   bool
}

// Port collects lines from any number of sources and hands them to a single
// consumer. ReadLine never blocks, so the game loop can keep polling.
type Port struct {
	lines   chan string
	presses chan Press
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewPort buffers up to depth lines before Submit starts dropping input.
func NewPort(depth int, logger *slog.Logger) *Port {
	if depth <= 0 {
		depth = 16
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Port{
		lines:   make(chan string, depth),
		presses: make(chan Press, 4),
		logger:  logger,
	}
}

// Submit queues a complete line. A full queue drops the line the way the
// badge UART overruns.
func (p *Port) Submit(line string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPortClosed
	}
	select {
	case p.lines <- line:
	default:
		p.logger.Warn("serial input overrun, dropping line", "length", len(line))
	}
	return nil
}

// Press routes a button event. Short presses become their input line.
func (p *Port) Press(ev Press) error {
	if !ev.Long {
		return p.Submit(ev.Button.Line())
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPortClosed
	}
	select {
	case p.presses <- ev:
	default:
		p.logger.Debug("long press ignored, previous one pending", "button", ev.Button)
	}
	return nil
}

// ReadLine returns the next available line without blocking.
func (p *Port) ReadLine() (string, bool) {
	select {
	case l, ok := <-p.lines:
		return l, ok
	default:
		return "", false
	}
}

// Lines exposes the queue for consumers that prefer to select on it.
func (p *Port) Lines() <-chan string { return p.lines }

// LongPresses delivers long button presses.
func (p *Port) LongPresses() <-chan Press { return p.presses }

// Close stops accepting input and closes both channels.
func (p *Port) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.lines)
	close(p.presses)
}

// ReadFrom runs the line discipline over r until it fails or ctx ends.
// Echo is disabled because the terminal echoes locally.
func (p *Port) ReadFrom(ctx context.Context, r io.Reader) error {
	ed := NewEditor(nil, DefaultMaxLine)
	buf := make([]byte, 256)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(buf)
		for _, line := range ed.Feed(buf[:n]) {
			if serr := p.Submit(line); serr != nil {
				return serr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read serial input: %w", err)
		}
	}
}
