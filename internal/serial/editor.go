// Package serial turns raw console bytes into game lines and carries engine
// output back to whoever is attached: the process terminal, a websocket
// client, or both.
package serial

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DefaultMaxLine matches the largest line the badge UART buffer accepted.
const DefaultMaxLine = 256

const (
	backspace = 0x08
	del       = 0x7f
)

// Editor performs the line discipline of a dumb serial terminal: it echoes
// typed bytes, handles backspace, and folds CR, LF and CRLF into one line end.
// An Editor is not safe for concurrent use.
type Editor struct {
	buf    []byte
	max    int
	echo   io.Writer
	lastCR bool
}

// NewEditor returns an Editor that echoes to w. A nil w disables echo.
func NewEditor(w io.Writer, maxLine int) *Editor {
	if maxLine <= 0 {
		maxLine = DefaultMaxLine
	}
	if w == nil {
		w = io.Discard
	}
	return &Editor{max: maxLine, echo: w}
}

// Feed consumes p and returns every line it completed, normalized and trimmed.
// Blank lines are returned as "" so callers can treat enter as input.
func (e *Editor) Feed(p []byte) []string {
	var lines []string
	for _, b := range p {
		switch b {
		case '\r':
			lines = append(lines, e.finish())
			e.lastCR = true
			continue
		case '\n':
			if e.lastCR {
				e.lastCR = false
				continue
			}
			lines = append(lines, e.finish())
		case backspace, del:
			if len(e.buf) > 0 {
				_, size := utf8.DecodeLastRune(e.buf)
				e.buf = e.buf[:len(e.buf)-size]
				_, _ = io.WriteString(e.echo, "\b \b")
			}
		default:
			if b < 0x20 && b != '\t' {
				break
			}
			if len(e.buf) >= e.max {
				break
			}
			e.buf = append(e.buf, b)
			_, _ = e.echo.Write([]byte{b})
		}
		e.lastCR = false
	}
	return lines
}

// Pending reports the partially typed line.
func (e *Editor) Pending() string { return string(e.buf) }

func (e *Editor) finish() string {
	_, _ = io.WriteString(e.echo, "\r\n")
	line := Normalize(string(e.buf))
	e.buf = e.buf[:0]
	return line
}

// Normalize applies NFC, drops invalid UTF-8 and trims surrounding space.
func Normalize(s string) string {
	s = string(bytes.ToValidUTF8([]byte(s), nil))
	return strings.TrimSpace(norm.NFC.String(s))
}
