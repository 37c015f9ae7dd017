package engine

// edit is one undoable step. Interactions that touch the same target are
// grouped into a single edit when they commit.
type edit struct {
	label string
	undo  func()
	redo  func()
}

type history struct {
	done   []edit
	undone []edit
	limit  int
}

func newHistory(limit int) *history { return &history{limit: limit} }

func (h *history) push(e edit) {
	h.done = append(h.done, e)
	if h.limit > 0 && len(h.done) > h.limit {
		h.done = h.done[len(h.done)-h.limit:]
	}
	h.undone = h.undone[:0]
}

func (h *history) undo() (string, bool) {
	if len(h.done) == 0 {
		return "", false
	}
	e := h.done[len(h.done)-1]
	h.done = h.done[:len(h.done)-1]
	e.undo()
	h.undone = append(h.undone, e)
	return e.label, true
}

func (h *history) redo() (string, bool) {
	if len(h.undone) == 0 {
		return "", false
	}
	e := h.undone[len(h.undone)-1]
	h.undone = h.undone[:len(h.undone)-1]
	e.redo()
	h.done = append(h.done, e)
	return e.label, true
}
