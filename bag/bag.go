// Package bag tracks the 7-bag randomizer reservoir and the ordered
// queue of known upcoming pieces (spec.md §4.4).
package bag

import "github.com/MinusKelvin/cold-clear/piece"

// State is a 7-bit set of the piece kinds remaining in the current bag.
type State uint8

// Full returns a bag containing all seven kinds.
func Full() State { return State(1<<piece.NumKinds - 1) }

// Contains reports whether k is still in the bag.
func (s State) Contains(k piece.Kind) bool { return s&(1<<uint(k)) != 0 }

// Remove clears k from the bag.
func (s State) Remove(k piece.Kind) State { return s &^ (1 << uint(k)) }

// IsEmpty reports whether the bag has been fully drawn.
func (s State) IsEmpty() bool { return s == 0 }

// Remaining lists the kinds still in the bag, in Kind order.
func (s State) Remaining() []piece.Kind {
	out := make([]piece.Kind, 0, piece.NumKinds)
	for k := piece.Kind(0); k < piece.NumKinds; k++ {
		if s.Contains(k) {
			out = append(out, k)
		}
	}
	return out
}

// Queue is an ordered sequence of known upcoming pieces together with the
// bag state consistent with everything appended to it so far (spec.md §3:
// "every piece added to the queue is removed from the bag ... or, if
// absent, triggers a bag refill then removal").
type Queue struct {
	Pieces []piece.Kind
	Bag    State
}

// New returns an empty queue with a freshly-filled bag.
func New() Queue {
	return Queue{Bag: Full()}
}

// Add appends k to the queue, consuming it from the bag. When speculate is
// true and k is not currently in the bag, the bag is refilled to all seven
// kinds before removal (the policy resolved for spec.md §7's open
// question about client misuse: refill-on-mismatch rather than reject, to
// avoid undefined behaviour). When speculate is false, k is accepted
// unconditionally and only removed from the bag if present (spec.md §9,
// open question (c): non-speculative adds are permissive).
func (q Queue) Add(k piece.Kind, speculate bool) Queue {
	b := q.Bag
	if b.IsEmpty() {
		b = Full()
	}
	if speculate && !b.Contains(k) {
		b = Full()
	}
	b = b.Remove(k)
	pieces := make([]piece.Kind, len(q.Pieces)+1)
	copy(pieces, q.Pieces)
	pieces[len(q.Pieces)] = k
	return Queue{Pieces: pieces, Bag: b}
}

// Advance pops the front piece, returning it along with the queue that
// results (a cheap slice re-view; the popped piece's contribution to Bag
// was already applied when it was Added). Returns ok=false on an empty
// queue.
func (q Queue) Advance() (k piece.Kind, rest Queue, ok bool) {
	if len(q.Pieces) == 0 {
		return 0, q, false
	}
	return q.Pieces[0], Queue{Pieces: q.Pieces[1:], Bag: q.Bag}, true
}

// Peek returns the front piece without consuming it.
func (q Queue) Peek() (k piece.Kind, ok bool) {
	if len(q.Pieces) == 0 {
		return 0, false
	}
	return q.Pieces[0], true
}

// Len returns the number of known upcoming pieces.
func (q Queue) Len() int { return len(q.Pieces) }
