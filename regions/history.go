package regions

// DefaultHistoryLimit is the number of undo steps kept by the tools.
const DefaultHistoryLimit = 50

// History is a bounded undo stack of region lists. Pushing beyond the limit
// discards the oldest entry.
type History struct {
	limit int
	stack []List
}

// NewHistory returns a History holding at most limit lists. A limit below 1
// is treated as 1.
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = 1
	}
	return &History{limit: limit}
}

// Push records l as the state to return to on the next Undo.
func (h *History) Push(l List) {
	if len(h.stack) == h.limit {
		copy(h.stack, h.stack[1:])
		h.stack = h.stack[:len(h.stack)-1]
	}
	h.stack = append(h.stack, l)
}

// Undo pops the most recent list. ok is false when nothing is recorded.
func (h *History) Undo() (l List, ok bool) {
	if len(h.stack) == 0 {
		return List{}, false
	}
	l = h.stack[len(h.stack)-1]
	h.stack = h.stack[:len(h.stack)-1]
	return l, true
}

// Len returns the number of recorded states.
func (h *History) Len() int { return len(h.stack) }
