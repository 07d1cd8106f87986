package serial

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLineDoesNotBlock(t *testing.T) {
	p := NewPort(4, nil)
	_, ok := p.ReadLine()
	assert.False(t, ok)

	require.NoError(t, p.Submit("look"))
	line, ok := p.ReadLine()
	assert.True(t, ok)
	assert.Equal(t, "look", line)
}

func TestSubmitDropsOnOverrun(t *testing.T) {
	p := NewPort(1, nil)
	require.NoError(t, p.Submit("first"))
	require.NoError(t, p.Submit("second"))

	line, _ := p.ReadLine()
	assert.Equal(t, "first", line)
	_, ok := p.ReadLine()
	assert.False(t, ok)
}

func TestButtonPresses(t *testing.T) {
	tests := []struct {
		button string
		want   string
	}{
		{"up", "n"},
		{"down", "s"},
		{"left", "w"},
		{"right", "e"},
		{"boot", "boot"},
		{"select", "select"},
	}
	for _, tt := range tests {
		t.Run(tt.button, func(t *testing.T) {
			p := NewPort(4, nil)
			b, err := ParseButton(tt.button)
			require.NoError(t, err)
			assert.Equal(t, tt.button, b.String())

			require.NoError(t, p.Press(Press{Button: b}))
			line, ok := p.ReadLine()
			assert.True(t, ok)
			assert.Equal(t, tt.want, line)
		})
	}

	_, err := ParseButton("start")
	assert.Error(t, err)
}

func TestLongPressIsNotInput(t *testing.T) {
	p := NewPort(4, nil)
	require.NoError(t, p.Press(Press{Button: Boot, Long: true}))

	_, ok := p.ReadLine()
	assert.False(t, ok)
	select {
	case ev := <-p.LongPresses():
		assert.Equal(t, Press{Button: Boot, Long: true}, ev)
	default:
		t.Fatal("long press not delivered")
	}
}

func TestClosedPort(t *testing.T) {
	p := NewPort(4, nil)
	p.Close()
	p.Close()
	assert.True(t, errors.Is(p.Submit("look"), ErrPortClosed))
	assert.True(t, errors.Is(p.Press(Press{Button: Boot, Long: true}), ErrPortClosed))
}

func TestReadFrom(t *testing.T) {
	p := NewPort(8, nil)
	err := p.ReadFrom(context.Background(), strings.NewReader("\r\nlook\r\ntalk 3\n"))
	require.NoError(t, err)

	var got []string
	for {
		line, ok := p.ReadLine()
		if !ok {
			break
		}
		got = append(got, line)
	}
	assert.Equal(t, []string{"", "look", "talk 3"}, got)
}

func TestReadFromCancelled(t *testing.T) {
	p := NewPort(8, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.ReadFrom(ctx, strings.NewReader("look\n"))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestConsoleWritesCRLF(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(&out)
	c.WriteLine("You can't go that way.")
	c.WriteRaw("> ")
	assert.Equal(t, "You can't go that way.\r\n> ", out.String())
}

type failingSink struct{ calls int }

func (f *failingSink) Send(string) error {
	f.calls++
	return errors.New("gone")
}

func TestConsoleDetachesFailedSink(t *testing.T) {
	c := NewConsole(nil)
	s := &failingSink{}
	c.Attach(s)
	c.WriteLine("one")
	c.WriteLine("two")
	assert.Equal(t, 1, s.calls)
}
