package serial

import (
	"io"
	"sync"
)

// Sink receives console output in addition to the local writer.
type Sink interface {
	Send(text string) error
}

// Console is the engine's output. Lines end in CRLF like the badge UART.
type Console struct {
	mu   sync.Mutex
	w    io.Writer
	sink Sink
}

// NewConsole writes to w, which may be nil when only a websocket is attached.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = io.Discard
	}
	return &Console{w: w}
}

// Attach mirrors output to s. A nil s detaches.
func (c *Console) Attach(s Sink) {
	c.mu.Lock()
	c.sink = s
	c.mu.Unlock()
}

func (c *Console) WriteLine(s string) { c.emit(s + "\r\n") }

func (c *Console) WriteRaw(s string) { c.emit(s) }

// Write lets the console stand in for an io.Writer, e.g. for update progress.
func (c *Console) Write(p []byte) (int, error) {
	c.emit(string(p))
	return len(p), nil
}

func (c *Console) emit(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.w, text)
	if c.sink != nil {
		if err := c.sink.Send(text); err != nil {
			c.sink = nil
		}
	}
}
