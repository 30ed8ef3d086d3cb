// Package state holds the view state of a note list: the filtered rows, the
// cursor, and the viewport offset.
package state

// Entry is one row of a List.
type Entry struct {
	ID    string
	Label string // text the filter matches against
	Index int    // position in the caller's backing slice
}

// List tracks cursor, filter, and viewport for a set of entries.
type List struct {
	ID             string
	Full           []Entry
	Items          []Entry
	Filter         string
	Cursor         int
	LastCursor     int
	ViewportOffset int
}

// NewList returns an empty list.
func NewList(id string) *List {
	return &List{ID: id, LastCursor: -1}
}

// CloneEntries produces a shallow copy of entries.
func CloneEntries(entries []Entry) []Entry {
	dup := make([]Entry, len(entries))
	copy(dup, entries)
	return dup
}

// IndexOf returns the visible index of id, or -1.
func (l *List) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, entry := range l.Items {
		if entry.ID == id {
			return i
		}
	}
	return -1
}

// Current returns the entry under the cursor.
func (l *List) Current() (Entry, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return Entry{}, false
	}
	return l.Items[l.Cursor], true
}

// SetEntries replaces the entries. The cursor follows the entry it was on
// when that entry is still visible.
func (l *List) SetEntries(entries []Entry) {
	var keep string
	if current, ok := l.Current(); ok {
		keep = current.ID
	}
	prevOffset := l.ViewportOffset
	l.Full = CloneEntries(entries)
	l.applyFilter()
	if idx := l.IndexOf(keep); idx >= 0 {
		l.Cursor = idx
	}
	if len(l.Items) == 0 || prevOffset < 0 || prevOffset > len(l.Items)-1 {
		l.ViewportOffset = 0
		return
	}
	l.ViewportOffset = prevOffset
}

// Len reports the number of visible entries.
func (l *List) Len() int {
	return len(l.Items)
}
