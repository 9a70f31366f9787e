package game

// History holds the undo and redo stacks of full BoardState snapshots plus
// the occurrence count of every reduced position reached so far.
type History struct {
	undo        []BoardState
	redo        []BoardState
	occurrences map[string]int
}

func NewHistory() *History {
	return &History{occurrences: make(map[string]int)}
}

// Reset drops both stacks and all counts, then counts initial once.
func (h *History) Reset(initial *BoardState) {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
	clear(h.occurrences)
	h.record(initial)
}

func (h *History) record(st *BoardState) {
	h.occurrences[st.Key()]++
}

func (h *History) forget(st *BoardState) {
	key := st.Key()
	if h.occurrences[key] <= 1 {
		delete(h.occurrences, key)
		return
	}
	h.occurrences[key]--
}

// Occurrences is how many times st's reduced position has been reached on
// the current line of play.
func (h *History) Occurrences(st *BoardState) int { return h.occurrences[st.Key()] }

// push stores the pre-move snapshot. A new move invalidates the redo line.
func (h *History) push(pre BoardState) {
	h.undo = append(h.undo, pre)
	h.redo = h.redo[:0]
}

// popUndo returns the previous state and parks current on the redo stack.
func (h *History) popUndo(current BoardState) (BoardState, bool) {
	n := len(h.undo)
	if n == 0 {
		return BoardState{}, false
	}
	prev := h.undo[n-1]
	h.undo = h.undo[:n-1]
	h.redo = append(h.redo, current)
	return prev, true
}

// popRedo returns the next state and parks current on the undo stack.
func (h *History) popRedo(current BoardState) (BoardState, bool) {
	n := len(h.redo)
	if n == 0 {
		return BoardState{}, false
	}
	next := h.redo[n-1]
	h.redo = h.redo[:n-1]
	h.undo = append(h.undo, current)
	return next, true
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }
