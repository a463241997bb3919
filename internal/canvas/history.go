package canvas

// history is a bounded, append-only record of mutations. When full, the
// oldest entry is discarded.
type history struct {
	max int
	ops []Operation
}

func newHistory(max int) *history {
	if max <= 0 {
		max = 1
	}
	return &history{max: max}
}

func (h *history) add(op Operation) {
	h.ops = append(h.ops, op)
	if len(h.ops) > h.max {
		h.ops = h.ops[len(h.ops)-h.max:]
	}
}

func (h *history) list() []Operation {
	out := make([]Operation, len(h.ops))
	copy(out, h.ops)
	return out
}

func (h *history) len() int { return len(h.ops) }
