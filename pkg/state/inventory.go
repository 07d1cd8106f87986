package state

// Entry is one held item.
type Entry struct {
	ID    string
	Count int
}

// Inventory tracks item counts. Counts never go negative.
type Inventory struct {
	order  []string
	counts map[string]int
}

// NewInventory creates an empty inventory that lists items in the given order.
func NewInventory(order []string) *Inventory {
	return &Inventory{
		order:  append([]string(nil), order...),
		counts: make(map[string]int, len(order)),
	}
}

func (inv *Inventory) Count(id string) int { return inv.counts[id] }

func (inv *Inventory) Has(id string) bool { return inv.counts[id] > 0 }

// Add increments the count and returns the new value.
func (inv *Inventory) Add(id string) int {
	inv.counts[id]++
	return inv.counts[id]
}

// Grant adds id only when none is held. It reports whether anything changed.
func (inv *Inventory) Grant(id string) bool {
	if inv.Has(id) {
		return false
	}
	inv.counts[id] = 1
	return true
}

// Remove decrements the count. Removing an item that isn't held is a no-op.
func (inv *Inventory) Remove(id string) bool {
	if inv.counts[id] <= 0 {
		return false
	}
	inv.counts[id]--
	return true
}

// Set overwrites a count, clamping at zero.
func (inv *Inventory) Set(id string, n int) {
	if n < 0 {
		n = 0
	}
	inv.counts[id] = n
}

// IDs returns every known item id in display order.
func (inv *Inventory) IDs() []string {
	return append([]string(nil), inv.order...)
}

// Held lists items with a positive count in display order.
func (inv *Inventory) Held() []Entry {
	var out []Entry
	for _, id := range inv.order {
		if n := inv.counts[id]; n > 0 {
			out = append(out, Entry{ID: id, Count: n})
		}
	}
	return out
}

// Reset drops every count to zero.
func (inv *Inventory) Reset() {
	clear(inv.counts)
}
