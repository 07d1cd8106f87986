package state

import "sync/atomic"

// Flags is the fixed set of named quest booleans. Names are fixed at
// construction; bits are atomic so the indicator goroutine can read them
// while the game goroutine writes.
type Flags struct {
	names []string
	index map[string]int
	bits  []atomic.Bool
}

func NewFlags(names []string) *Flags {
	f := &Flags{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
		bits:  make([]atomic.Bool, len(names)),
	}
	for i, n := range f.names {
		f.index[n] = i
	}
	return f
}

// Known reports whether name is a declared flag.
func (f *Flags) Known(name string) bool {
	_, ok := f.index[name]
	return ok
}

func (f *Flags) IsSet(name string) bool {
	i, ok := f.index[name]
	if !ok {
		return false
	}
	return f.bits[i].Load()
}

// Set turns a flag on and reports whether it changed. Unknown names are ignored.
func (f *Flags) Set(name string) bool {
	i, ok := f.index[name]
	if !ok {
		return false
	}
	return !f.bits[i].Swap(true)
}

// Clear turns a flag off and reports whether it changed.
func (f *Flags) Clear(name string) bool {
	i, ok := f.index[name]
	if !ok {
		return false
	}
	return f.bits[i].Swap(false)
}

// Store sets a flag to v.
func (f *Flags) Store(name string, v bool) {
	if i, ok := f.index[name]; ok {
		f.bits[i].Store(v)
	}
}

// Reset clears every flag.
func (f *Flags) Reset() {
	for i := range f.bits {
		f.bits[i].Store(false)
	}
}

// Names returns flag names in declaration order.
func (f *Flags) Names() []string {
	return append([]string(nil), f.names...)
}

// Snapshot copies the current values. Each read is atomic; the snapshot as a
// whole is not.
func (f *Flags) Snapshot() map[string]bool {
	out := make(map[string]bool, len(f.names))
	for i, n := range f.names {
		out[n] = f.bits[i].Load()
	}
	return out
}
