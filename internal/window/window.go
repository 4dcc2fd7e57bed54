// Package window keeps a bounded rolling buffer of recently translated
// dialogue lines. The buffer conditions each new translation on the ones
// that came before it, so entries are appended strictly in processing order.
package window

// Entry is a snapshot of one translated line. It is immutable once pushed.
type Entry struct {
	Speaker string
	Source  string
	Target  string
}

// Window is a fixed-capacity FIFO of Entry. A capacity of zero disables the
// window entirely: Push becomes a no-op and Snapshot always returns nil.
type Window struct {
	capacity int
	entries  []Entry
}

func New(capacity int) *Window {
	if capacity < 0 {
		capacity = 0
	}
	return &Window{capacity: capacity}
}

// Push appends e, evicting the oldest entry when the window is full.
func (w *Window) Push(e Entry) {
	if w.capacity == 0 {
		return
	}
	w.entries = append(w.entries, e)
	if len(w.entries) > w.capacity {
		w.entries = w.entries[1:]
	}
}

// Snapshot returns the current entries oldest-to-newest. The returned slice
// is a copy; mutating it does not affect the window.
func (w *Window) Snapshot() []Entry {
	if len(w.entries) == 0 {
		return nil
	}
	out := make([]Entry, len(w.entries))
	copy(out, w.entries)
	return out
}

func (w *Window) Len() int {
	return len(w.entries)
}

func (w *Window) Capacity() int {
	return w.capacity
}
