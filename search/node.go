package search

import (
	"github.com/samber/lo"

	"github.com/MinusKelvin/cold-clear/bag"
	"github.com/MinusKelvin/cold-clear/board"
	"github.com/MinusKelvin/cold-clear/eval"
	"github.com/MinusKelvin/cold-clear/movegen"
	"github.com/MinusKelvin/cold-clear/piece"
)

// kind distinguishes an unexpanded leaf, a decision node (children are
// alternative placements the bot can choose between), and a chance node
// (children are branches over which unknown next piece the bag will
// yield), grounded on original_source/bot/src/tree.rs's
// TreeKind::{Known, Unknown}.
type kind int

const (
	unexpanded kind = iota
	decision
	chance
)

// edge is one placement out of a decision node, or one branch of a
// speculative next-piece guess out of a chance node.
type edge struct {
	Move  movegen.Move
	Hold  bool
	Lock  board.LockResult
	Child int

	// OriginalRank is this edge's position (0 = best) among its
	// siblings by raw evaluation at the moment they were installed,
	// fixed for the edge's lifetime. Commit reports it so a caller can
	// tell which of several currently-tied-max children was originally
	// favoured, per spec.md §3's original_rank field.
	OriginalRank int
}

// node is an arena-indexed tree entry. Nodes never hold pointers to each
// other directly (children are referenced by arena index) so that the
// tree can be pruned and the backing slice reused without worrying about
// cross-node cycles, per SPEC_FULL.md's arena/handle note.
type node struct {
	board board.Board
	queue bag.Queue
	hold  *piece.Kind

	rawEval eval.Evaluation
	value   int
	depth   int

	kind    kind
	claimed bool // an expansion for this leaf is in flight

	children    []edge
	speculation map[piece.Kind][]edge
	childNodes  int
}

// isDeadEnd reports whether this node has been fully expanded and found
// to have no legal children (a topped-out position).
func (n *node) isDeadEnd() bool {
	switch n.kind {
	case decision:
		return len(n.children) == 0
	case chance:
		for _, edges := range n.speculation {
			if len(edges) > 0 {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// backedUpValue computes a node's backed-up value from its own raw
// evaluation and its children: for a decision node, the best (max)
// child; for a chance node, the mean of each next-piece branch's best
// child (original_source/bot/src/tree.rs's TreeKind::evaluation).
func (n *node) backedUpValue(nodes []*node) int {
	base := n.rawEval.Total()
	branchBest := func(edges []edge) int {
		return lo.Max(lo.Map(edges, func(e edge, _ int) int { return nodes[e.Child].value }))
	}
	switch n.kind {
	case decision:
		if len(n.children) == 0 {
			return base
		}
		return base + branchBest(n.children)
	case chance:
		branches := lo.Filter(lo.Values(n.speculation), func(edges []edge, _ int) bool { return len(edges) > 0 })
		if len(branches) == 0 {
			return base
		}
		sum := lo.SumBy(branches, branchBest)
		return base + sum/len(branches)
	default:
		return base
	}
}
