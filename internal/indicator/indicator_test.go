package indicator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/badge-adventure/pkg/engine"
	"github.com/jwebster45206/badge-adventure/pkg/state"
)

var testIndicators = []string{"model2023", "chanute", "pittsburg"}

func newStrip(t *testing.T) (*Strip, *state.Flags) {
	t.Helper()
	flags := state.NewFlags(append(testIndicators, "wichita"))
	return New(flags, testIndicators, "wichita", nil), flags
}

func TestAdventureFramesFollowFlags(t *testing.T) {
	s, flags := newStrip(t)
	s.SetMode(engine.Adventure)

	f := s.Next()
	assert.Equal(t, []bool{false, false, false}, f.LEDs)
	assert.Equal(t, Red, f.Ambient)
	assert.Equal(t, "ADVENTURE", f.Mode)

	flags.Set("pittsburg")
	flags.Set("wichita")
	f = s.Next()
	assert.Equal(t, []bool{false, false, true}, f.LEDs)
	assert.Equal(t, Green, f.Ambient)
	assert.Equal(t, f, s.Last())
}

func TestOverridesUntilModeChange(t *testing.T) {
	s, flags := newStrip(t)
	s.SetMode(engine.Adventure)
	flags.Set("chanute")

	on, err := s.Toggle(1)
	require.NoError(t, err)
	assert.False(t, on)
	require.NoError(t, s.Set(0, true))
	assert.Equal(t, []bool{true, false, false}, s.States())

	s.SetMode(engine.Adventure)
	assert.Equal(t, []bool{false, true, false}, s.States())
}

func TestInvalidIndex(t *testing.T) {
	s, _ := newStrip(t)
	for _, i := range []int{-1, 3, 42} {
		_, err := s.Toggle(i)
		assert.True(t, errors.Is(err, ErrInvalidIndex))
		assert.True(t, errors.Is(s.Set(i, true), ErrInvalidIndex))
	}
}

func TestTwinklePatterns(t *testing.T) {
	s, _ := newStrip(t)

	s.SetMode(engine.Twinkle2)
	assert.Equal(t, []bool{true, false, false}, s.Next().LEDs)
	assert.Equal(t, []bool{false, true, false}, s.Next().LEDs)
	assert.Equal(t, []bool{false, false, true}, s.Next().LEDs)
	assert.Equal(t, []bool{true, false, false}, s.Next().LEDs)

	s.SetMode(engine.Twinkle3)
	assert.Equal(t, []bool{true, false, true}, s.Next().LEDs)
	assert.Equal(t, []bool{false, true, false}, s.Next().LEDs)

	s.SetMode(engine.Twinkle1)
	f := s.Next()
	assert.Len(t, f.LEDs, 3)
	assert.Equal(t, "TWINKLE 1", f.Mode)
}

type recordingDriver struct {
	mu     sync.Mutex
	frames []Frame
}

func (r *recordingDriver) Render(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
}

func (r *recordingDriver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func TestRunReadsFlagsConcurrently(t *testing.T) {
	s, flags := newStrip(t)
	s.SetMode(engine.Adventure)

	ctx, cancel := context.WithCancel(context.Background())
	d := &recordingDriver{}
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond, d)
		close(done)
	}()

	for i := 0; i < 100; i++ {
		flags.Store("chanute", i%2 == 0)
	}
	assert.Eventually(t, func() bool { return d.count() > 2 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("render loop did not stop")
	}
}
