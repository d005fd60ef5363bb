package nav

// history is a bounded position stack with a cursor for back/forward replay.
type history struct {
	positions []int
	cursor    int // index into positions, -1 when empty
	max       int
}

func newHistory(max int) *history {
	if max <= 0 {
		max = 50
	}
	return &history{cursor: -1, max: max}
}

// add records a position. Moving after going back truncates the forward tail,
// and the oldest entry is dropped once the cap is reached.
func (h *history) add(position int) {
	if h.cursor >= 0 {
		h.positions = h.positions[:h.cursor+1]
	}
	h.positions = append(h.positions, position)
	if len(h.positions) > h.max {
		h.positions = h.positions[1:]
	}
	h.cursor = len(h.positions) - 1
}

func (h *history) canGoBack() bool {
	return h.cursor > 0
}

func (h *history) canGoForward() bool {
	return h.cursor >= 0 && h.cursor+1 < len(h.positions)
}

// goBack steps the cursor backward and returns that position.
func (h *history) goBack() (int, bool) {
	if !h.canGoBack() {
		return 0, false
	}
	h.cursor--
	return h.positions[h.cursor], true
}

// goForward steps the cursor forward and returns that position.
func (h *history) goForward() (int, bool) {
	if !h.canGoForward() {
		return 0, false
	}
	h.cursor++
	return h.positions[h.cursor], true
}

func (h *history) clear() {
	h.positions = nil
	h.cursor = -1
}

func (h *history) len() int {
	return len(h.positions)
}
