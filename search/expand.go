package search

import (
	"sort"

	"github.com/MinusKelvin/cold-clear/bag"
	"github.com/MinusKelvin/cold-clear/board"
	"github.com/MinusKelvin/cold-clear/eval"
	"github.com/MinusKelvin/cold-clear/movegen"
	"github.com/MinusKelvin/cold-clear/piece"
)

// builtEdge is an edge whose child node has been constructed but not
// yet assigned an arena index; expansion work (move generation,
// evaluation) happens without holding the tree's lock, so new nodes are
// staged here and only spliced into the arena under lock afterward.
type builtEdge struct {
	Move movegen.Move
	Hold bool
	Lock board.LockResult
	Node *node
}

// expansion is the result of expanding one leaf: either a flat list of
// placement children (a decision node) or a per-next-piece branch map
// (a chance node), grounded on original_source/bot/src/tree.rs's
// new_children/speculate split.
type expansion struct {
	dead        bool
	children    []builtEdge
	speculation map[piece.Kind][]builtEdge
}

// buildChildren computes the expansion for a leaf without mutating the
// tree, so it is safe to call concurrently from multiple goroutines on
// different leaves.
func (t *Tree) buildChildren(b board.Board, q bag.Queue, hold *piece.Kind) expansion {
	holdKnown := hold != nil
	needsSpeculation := (holdKnown && q.Len() == 0) || (!holdKnown && q.Len() < 2)

	if !needsSpeculation {
		edges := t.buildKnownEdges(b, q, hold)
		if len(edges) == 0 {
			return expansion{dead: true}
		}
		return expansion{children: edges}
	}

	possibilities := specPossibilities(q, t.opts.Weights.UseBag)
	spec := map[piece.Kind][]builtEdge{}
	total := 0
	for _, k := range possibilities {
		qk := q.Add(k, t.opts.Speculate)
		edges := t.buildKnownEdges(b, qk, hold)
		spec[k] = edges
		total += len(edges)
	}
	if total == 0 {
		return expansion{dead: true}
	}
	return expansion{speculation: spec}
}

// specPossibilities determines which piece kinds could fill the next
// unresolved slot: if the queue already has one known piece, that slot
// is the one after it; otherwise it is the very next piece. Grounded on
// original_source/bot/src/tree.rs's Tree::speculate possibility lookup.
//
// When useBag is false the search speculates uniformly over all seven
// kinds regardless of what the 7-bag says is still available, trading
// away bag-order inference (eval.Weights.UseBag, spec.md §6) for
// correctness against a non-bag-randomized randomizer.
func specPossibilities(q bag.Queue, useBag bool) []piece.Kind {
	if !useBag {
		return bag.Full().Remaining()
	}
	if _, ok := q.Peek(); ok {
		_, rest, _ := q.Advance()
		q = rest
	}
	b := q.Bag
	if b.IsEmpty() {
		b = bag.Full()
	}
	return b.Remaining()
}

// buildKnownEdges generates every legal placement for the next piece,
// plus every legal placement reachable by holding first, assuming both
// pieces involved are already known (original_source/bot/src/tree.rs's
// new_children).
func (t *Tree) buildKnownEdges(b board.Board, q bag.Queue, hold *piece.Kind) []builtEdge {
	next, rest, ok := q.Advance()
	if !ok {
		return nil
	}

	edges := t.movesFor(b, next, rest, hold, false)

	var holdPiece piece.Kind
	var afterHold bag.Queue
	if hold != nil {
		holdPiece = *hold
		afterHold = rest
	} else {
		p, rest2, ok2 := rest.Advance()
		if !ok2 {
			// The piece after next isn't known yet; skip the hold branch
			// this round rather than speculating a second missing slot.
			return edges
		}
		holdPiece = p
		afterHold = rest2
	}
	newHold := next
	edges = append(edges, t.movesFor(b, holdPiece, afterHold, &newHold, true)...)
	return edges
}

// movesFor enumerates every reachable placement of kind k on b and
// builds a child node for each, skipping placements that lock out
// (spec.md §4.1: all four cells above the visible field).
func (t *Tree) movesFor(b board.Board, k piece.Kind, restQueue bag.Queue, holdAfter *piece.Kind, isHold bool) []builtEdge {
	var out []builtEdge
	for _, mv := range movegen.Generate(b, k, t.opts.Mode, t.opts.SpawnRule) {
		mv.Hold = isHold
		lockedOut := true
		for _, c := range mv.Final.Cells() {
			if c[1] < board.VisibleHeight {
				lockedOut = false
				break
			}
		}
		if lockedOut {
			continue
		}
		nb, lock := b.ApplyPlacement(mv.Final, mv.Spin)
		ev := eval.Evaluate(t.opts.Weights, lock, nb, moveTimeFor(mv), k, t.IncomingGarbage())
		child := &node{board: nb, queue: restQueue, hold: holdAfter, rawEval: ev}
		child.value = child.backedUpValue(nil)
		out = append(out, builtEdge{Move: mv, Hold: isHold, Lock: lock, Node: child})
	}
	return out
}

// moveTimeFor approximates the number of frames a placement takes to
// execute, as a function of its input path length. The original
// implementation drives this from a finesse-aware DAS/ARR simulation;
// this is a deliberately simplified stand-in (see DESIGN.md).
func moveTimeFor(mv movegen.Move) int {
	return len(mv.Path) * 2
}

// installChildren splices a computed expansion into the arena under the
// tree's lock, turning leaf from unexpanded into a decision or chance
// node.
func (t *Tree) installChildren(leaf int, exp expansion) {
	n := t.nodes[leaf]
	if exp.speculation != nil {
		n.kind = chance
		n.speculation = make(map[piece.Kind][]edge, len(exp.speculation))
		count := 0
		for k, built := range exp.speculation {
			es := installEdges(&t.nodes, built)
			n.speculation[k] = es
			count += len(es)
		}
		n.childNodes = count
		return
	}

	n.kind = decision
	n.children = installEdges(&t.nodes, exp.children)
	n.childNodes = len(n.children)
}

// installEdges appends built's nodes to the arena and returns their
// edges tagged with OriginalRank: rank 0 is the edge whose raw
// evaluation (before any backed-up search) is highest among its
// siblings, ties broken by build order.
func installEdges(arena *[]*node, built []builtEdge) []edge {
	order := make([]int, len(built))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return built[order[a]].Node.rawEval.Total() > built[order[b]].Node.rawEval.Total()
	})
	rank := make([]int, len(built))
	for r, i := range order {
		rank[i] = r
	}

	es := make([]edge, len(built))
	for i, be := range built {
		idx := len(*arena)
		*arena = append(*arena, be.Node)
		es[i] = edge{Move: be.Move, Hold: be.Hold, Lock: be.Lock, Child: idx, OriginalRank: rank[i]}
	}
	return es
}
