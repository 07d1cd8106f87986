package main

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

// transcript collects engine output the way a serial terminal would show it.
// The prompt marker stays on the partial line so the echoed input lands
// next to it.
type transcript struct {
	lines   []string
	partial string
}

func (t *transcript) WriteLine(s string) {
	t.lines = append(t.lines, t.partial+s)
	t.partial = ""
}

func (t *transcript) WriteRaw(s string) { t.partial += s }

// echo completes the prompt line with what the player typed.
func (t *transcript) echo(input string) { t.WriteLine(input) }

// render wraps and styles every line for width.
func (t *transcript) render(width int) string {
	var b strings.Builder
	for _, line := range t.lines {
		b.WriteString(styleLine(line, width))
		b.WriteByte('\n')
	}
	if t.partial != "" {
		b.WriteString(userStyle.Render(t.partial))
	}
	return b.String()
}

func styleLine(line string, width int) string {
	if width > 0 {
		line = wordwrap.String(line, width)
	}
	switch {
	case strings.HasPrefix(line, promptMarker):
		return userStyle.Render(line)
	case strings.HasPrefix(line, "Flag: "):
		return flagStyle.Render(line)
	case strings.Trim(line, "=") == "" && line != "":
		return separatorStyle.Render(line)
	}

	// Dialog lines read "Speaker: text".
	if idx := strings.Index(line, ":"); idx > 0 && idx <= 20 {
		speaker := line[:idx]
		if len(strings.Fields(speaker)) <= 2 && !strings.ContainsAny(speaker, "[]'") {
			return speakerStyle.Render(speaker+":") + line[idx+1:]
		}
	}
	return line
}
