package conditionals

import "slices"

// When describes a predicate over the player's inventory, quest flags and
// recent movement. Every populated field must hold for the clause to hold.
type When struct {
	Items    []string `yaml:"items,omitempty"`     // Every item held at least once
	AnyItems []string `yaml:"any_items,omitempty"` // At least one of these items held
	NotItems []string `yaml:"not_items,omitempty"` // None of these items held
	Flags    []string `yaml:"flags,omitempty"`     // Every flag set
	NotFlags []string `yaml:"not_flags,omitempty"` // No flag set
	From     []int    `yaml:"from,omitempty"`      // Previous room is one of these
}

// StateView provides the minimal interface needed to evaluate conditions.
// This avoids import cycles with the state package.
type StateView interface {
	HasItem(item string) bool
	IsSet(flag string) bool
	PreviousRoomID() int
}

// IsEmpty reports whether the clause names no conditions at all.
func (w When) IsEmpty() bool {
	return len(w.Items) == 0 &&
		len(w.AnyItems) == 0 &&
		len(w.NotItems) == 0 &&
		len(w.Flags) == 0 &&
		len(w.NotFlags) == 0 &&
		len(w.From) == 0
}

// Evaluate checks if all conditions in a When clause are met.
// An empty clause always holds.
func Evaluate(w When, view StateView) bool {
	for _, item := range w.Items {
		if !view.HasItem(item) {
			return false
		}
	}

	if len(w.AnyItems) > 0 {
		found := false
		for _, item := range w.AnyItems {
			if view.HasItem(item) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for _, item := range w.NotItems {
		if view.HasItem(item) {
			return false
		}
	}

	for _, flag := range w.Flags {
		if !view.IsSet(flag) {
			return false
		}
	}

	for _, flag := range w.NotFlags {
		if view.IsSet(flag) {
			return false
		}
	}

	if len(w.From) > 0 && !slices.Contains(w.From, view.PreviousRoomID()) {
		return false
	}

	return true
}

// EvaluatePtr treats a nil clause as always true.
func EvaluatePtr(w *When, view StateView) bool {
	if w == nil {
		return true
	}
	return Evaluate(*w, view)
}

// References returns every item and flag name the clause mentions, for
// content validation.
func (w When) References() (items []string, flags []string) {
	items = append(items, w.Items...)
	items = append(items, w.AnyItems...)
	items = append(items, w.NotItems...)
	flags = append(flags, w.Flags...)
	flags = append(flags, w.NotFlags...)
	return items, flags
}
