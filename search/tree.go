// Package search implements the best-first search tree that backs the
// asynchronous worker: an arena of decision and chance nodes expanded
// one leaf at a time, with values backed up toward the root after every
// expansion. Grounded on the recursive Tree/TreeKind design in
// original_source/bot/src/tree.rs, adapted to an arena so many
// goroutines can expand different leaves concurrently.
package search

import (
	"sort"
	"sync"
	"sync/atomic"

	"lukechampine.com/frand"

	"gonum.org/v1/gonum/stat"

	"github.com/MinusKelvin/cold-clear/bag"
	"github.com/MinusKelvin/cold-clear/board"
	"github.com/MinusKelvin/cold-clear/eval"
	"github.com/MinusKelvin/cold-clear/movegen"
	"github.com/MinusKelvin/cold-clear/piece"
)

// Options configures how the tree explores and generates moves.
type Options struct {
	Weights   eval.Weights
	Mode      movegen.Mode
	SpawnRule movegen.SpawnRule
	Speculate bool
}

// Tree is a single search tree rooted at the current game state.
// Selection (picking which leaf to expand next) is serialized under mu;
// the expensive move generation and evaluation for a claimed leaf run
// without holding the lock, which is where concurrent workers overlap.
type Tree struct {
	mu    sync.Mutex
	nodes []*node
	root  int
	opts  Options

	// generation counts every compaction/reset of the arena. Expand
	// captures it before releasing the lock to run the expensive,
	// unlocked buildChildren step; if it has changed by the time Expand
	// re-acquires the lock, the leaf it claimed may have been pruned or
	// reindexed out from under it, so the result is discarded rather
	// than spliced into whatever node now sits at that stale index.
	generation int

	// incomingGarbage is the most recently reported pending attack
	// against this board (spec.md §6's request_next_move(incoming_garbage)
	// argument), read by the jeopardy evaluator feature. buildChildren
	// runs unlocked, so this is accessed atomically rather than under mu.
	incomingGarbage atomic.Int64
}

// New starts a tree at the given board/queue/hold state.
func New(b board.Board, q bag.Queue, hold *piece.Kind, opts Options) *Tree {
	root := &node{board: b, queue: q, hold: hold}
	root.value = root.backedUpValue(nil)
	return &Tree{nodes: []*node{root}, root: 0, opts: opts}
}

// RootReady reports whether the root has been expanded at least once,
// i.e. it is safe to ask Commit for a move (spec.md §4.6(i): "at least
// one legal child of the root exists" is only knowable once the root
// itself has been turned from an unexpanded leaf into a decision node).
func (t *Tree) RootReady() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nodes[t.root].kind == decision
}

// RootDead reports whether the root has been expanded and found to have
// no legal continuations (the position is a forced topout).
func (t *Tree) RootDead() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	r := t.nodes[t.root]
	return r.kind != unexpanded && r.isDeadEnd()
}

// NodeCount returns the number of nodes reachable from the current
// root, used against min_nodes/max_nodes budgets (spec.md §4.6(ii):
// "total nodes expanded in the current root's subtree"). Commit and
// AddNextPiece compact the arena as the root advances, so this is not
// a lifetime total — ancestors and pruned siblings don't linger in it.
func (t *Tree) NodeCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.nodes)
}

// SetIncomingGarbage records the attack currently pending against this
// board, read by future evaluations for the jeopardy feature. It takes
// effect for children built by any Expand that hasn't yet finished its
// unlocked evaluation step; it never retroactively rescores nodes
// already in the arena.
func (t *Tree) SetIncomingGarbage(n int) {
	t.incomingGarbage.Store(int64(n))
}

// IncomingGarbage returns the value most recently set by
// SetIncomingGarbage, defaulting to 0.
func (t *Tree) IncomingGarbage() int {
	return int(t.incomingGarbage.Load())
}

// RootSignature returns a board fingerprint for the current root,
// suitable for correlating log lines (board.Board.Signature).
func (t *Tree) RootSignature() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nodes[t.root].board.Signature()
}

// Depth returns the root's backed-up search depth.
func (t *Tree) Depth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nodes[t.root].depth
}

// RootChildStats summarizes the value spread across the root's children,
// for CLI/log diagnostics of how confidently the search favors its best
// move over the runner-up. ok is false if the root isn't a decision node
// yet or has fewer than two children to compare. Grounded on
// domino14-macondo/stats/z.go's use of the gonum stat package for
// descriptive statistics over a sample.
func (t *Tree) RootChildStats() (mean, stddev float64, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r := t.nodes[t.root]
	if r.kind != decision || len(r.children) < 2 {
		return 0, 0, false
	}
	values := make([]float64, len(r.children))
	for i, e := range r.children {
		values[i] = float64(t.nodes[e.Child].value)
	}
	mean = stat.Mean(values, nil)
	stddev = stat.StdDev(values, nil)
	return mean, stddev, true
}

// Expand performs one iteration: descend from the root to an unclaimed
// leaf via weighted-random best-first selection, expand that leaf, and
// back the resulting value up to the root. Returns true if the root was
// discovered to be a dead end (no legal moves at all).
func (t *Tree) Expand() bool {
	t.mu.Lock()
	path, leaf, ok := t.selectLeaf()
	if !ok {
		dead := t.nodes[t.root].isDeadEnd()
		t.mu.Unlock()
		return dead
	}
	n := t.nodes[leaf]
	b, q, hold := n.board, n.queue, n.hold
	gen := t.generation
	t.mu.Unlock()

	result := t.buildChildren(b, q, hold)

	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.generation {
		// The root advanced (Commit/AddNextPiece/Reset) while this leaf
		// was being expanded unlocked: the arena was compacted and leaf
		// no longer names the node we claimed, or that node is gone
		// entirely. Drop the work rather than install it at whatever
		// now sits at that index.
		return false
	}
	n.claimed = false
	if result.dead {
		n.kind = decision // expanded, with no legal children
		return t.pruneDeadLeaf(path)
	}
	t.installChildren(leaf, result)
	t.backup(path)
	return false
}

// selectLeaf walks from the root through decision/chance nodes using
// weighted-random selection, claiming and returning the first
// unexpanded, unclaimed node it reaches. ok is false if the walk reaches
// a leaf already claimed by another goroutine, or a node with no
// children to descend into.
func (t *Tree) selectLeaf() (path []int, leaf int, ok bool) {
	cur := t.root
	path = []int{cur}
	for {
		n := t.nodes[cur]
		switch n.kind {
		case unexpanded:
			if n.claimed {
				return nil, 0, false
			}
			n.claimed = true
			return path, cur, true
		case decision:
			if len(n.children) == 0 {
				return nil, 0, false
			}
			idx := t.weightedPick(n.children)
			cur = n.children[idx].Child
		case chance:
			k, edges, ok := pickChanceBranch(n.speculation)
			if !ok {
				return nil, 0, false
			}
			_ = k
			idx := t.weightedPick(edges)
			cur = edges[idx].Child
		}
		path = append(path, cur)
	}
}

// weightedPick samples a child index with a bias toward higher-value,
// lower-rank children, mirroring the (value-min)^2/(rank+1)+1 weighting
// scheme in original_source/bot/src/tree.rs's TreeKind::expand, sampled
// via cumulative weights in the style of
// domino14-macondo/montecarlo/montecarlo.go's weightedChoice. Randomness
// comes from lukechampine.com/frand, matching
// domino14-macondo/endgame/negamax/solver.go and zobrist/hash.go's use
// of frand for this same move-ordering/weighted-selection concern.
func (t *Tree) weightedPick(edges []edge) int {
	order := make([]int, len(edges))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return t.nodes[edges[order[a]].Child].value > t.nodes[edges[order[b]].Child].value
	})
	min := t.nodes[edges[order[len(order)-1]].Child].value
	cumulative := make([]float64, len(order))
	total := 0.0
	for rank, i := range order {
		diff := float64(t.nodes[edges[i].Child].value - min)
		w := diff*diff/float64(rank+1) + 1
		total += w
		cumulative[rank] = total
	}
	r := frand.Float64() * total
	for rank, cw := range cumulative {
		if r < cw {
			return order[rank]
		}
	}
	return order[len(order)-1]
}

func pickChanceBranch(spec map[piece.Kind][]edge) (piece.Kind, []edge, bool) {
	var candidates []piece.Kind
	for k, edges := range spec {
		if len(edges) > 0 {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		return 0, nil, false
	}
	sort.Slice(candidates, func(a, b int) bool { return candidates[a] < candidates[b] })
	k := candidates[frand.Intn(len(candidates))]
	return k, spec[k], true
}

// backup recomputes value/depth for every node on path, from the leaf
// back to the root.
func (t *Tree) backup(path []int) {
	for i := len(path) - 1; i >= 0; i-- {
		n := t.nodes[path[i]]
		n.value = n.backedUpValue(t.nodes)
		maxChildDepth := 0
		for _, e := range n.children {
			if d := t.nodes[e.Child].depth; d > maxChildDepth {
				maxChildDepth = d
			}
		}
		for _, edges := range n.speculation {
			for _, e := range edges {
				if d := t.nodes[e.Child].depth; d > maxChildDepth {
					maxChildDepth = d
				}
			}
		}
		if len(n.children) > 0 || len(n.speculation) > 0 {
			n.depth = maxChildDepth + 1
		}
	}
}

// AddNextPiece informs every reachable node of a newly-revealed piece,
// resolving one level of chance-node speculation where it exists.
// Returns true if the tree has no legal continuation left. Grounded on
// original_source/bot/src/tree.rs's Tree::add_next_piece.
func (t *Tree) AddNextPiece(k piece.Kind) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	dead := t.addNextPiece(t.root, k)
	if !dead {
		// addNextPiece prunes chance branches and dead children in
		// place but never removes them from the arena; compact so
		// NodeCount keeps reflecting only the current root's subtree
		// rather than accumulating every pruned branch's nodes.
		t.compact(t.root)
	}
	return dead
}

func (t *Tree) addNextPiece(idx int, k piece.Kind) bool {
	n := t.nodes[idx]
	n.queue = n.queue.Add(k, t.opts.Speculate)
	switch n.kind {
	case decision:
		kept := n.children[:0]
		for _, e := range n.children {
			if !t.addNextPiece(e.Child, k) {
				kept = append(kept, e)
			}
		}
		n.children = kept
		n.value = n.backedUpValue(t.nodes)
		return len(n.children) == 0
	case chance:
		edges, ok := n.speculation[k]
		if !ok || len(edges) == 0 {
			return true
		}
		n.kind = decision
		n.children = edges
		n.speculation = nil
		n.value = n.backedUpValue(t.nodes)
		return false
	default:
		return false
	}
}

// Commit picks the root's single best child, advances the root to it
// (pruning every sibling), and returns the placement that led there.
// Children with equal values are ordered by OriginalRank (lowest wins).
// ok is false unless the root is an expanded decision node with at least
// one child: an unexpanded root, a chance root still waiting on its next
// piece, and a root with no children all report false.
func (t *Tree) Commit() (mv movegen.Move, isHold bool, lock board.LockResult, rank int, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.nodes[t.root]
	if n.kind != decision || len(n.children) == 0 {
		return movegen.Move{}, false, board.LockResult{}, 0, false
	}
	best := 0
	for i := range n.children {
		cv, bv := t.nodes[n.children[i].Child].value, t.nodes[n.children[best].Child].value
		if cv > bv || (cv == bv && n.children[i].OriginalRank < n.children[best].OriginalRank) {
			best = i
		}
	}
	chosen := n.children[best]
	t.compact(chosen.Child)
	return chosen.Move, chosen.Hold, chosen.Lock, chosen.OriginalRank, true
}

// compact rebuilds the arena to contain only newRoot and the nodes
// still reachable from it, discarding every ancestor, sibling, and
// unreachable descendant so their memory can be reclaimed by the
// garbage collector — spec.md's "advancing the root is destructive:
// siblings of the chosen child become unreachable and their memory is
// reclaimed". Called with t.mu held.
func (t *Tree) compact(newRoot int) {
	oldToNew := map[int]int{newRoot: 0}
	order := []int{newRoot}
	for i := 0; i < len(order); i++ {
		n := t.nodes[order[i]]
		visit := func(child int) {
			if _, seen := oldToNew[child]; !seen {
				oldToNew[child] = len(order)
				order = append(order, child)
			}
		}
		for _, e := range n.children {
			visit(e.Child)
		}
		for _, edges := range n.speculation {
			for _, e := range edges {
				visit(e.Child)
			}
		}
	}

	compacted := make([]*node, len(order))
	for newIdx, oldIdx := range order {
		n := t.nodes[oldIdx]
		for i := range n.children {
			n.children[i].Child = oldToNew[n.children[i].Child]
		}
		for k, edges := range n.speculation {
			for i := range edges {
				edges[i].Child = oldToNew[edges[i].Child]
			}
			n.speculation[k] = edges
		}
		compacted[newIdx] = n
	}

	t.nodes = compacted
	t.root = 0
	t.generation++
}

// PlanStep is one placement along a principal variation returned by
// BestLine.
type PlanStep struct {
	Move movegen.Move
	Hold bool
	Lock board.LockResult
}

// BestLine walks the tree from the root through decision nodes only,
// following the highest-value child at each step, up to maxLen
// placements. It stops early at a chance node (an unresolved next
// piece) or an unexpanded leaf, since neither commits to a single
// placement. Used to answer the client boundary's optional Plan
// (spec.md §6).
func (t *Tree) BestLine(maxLen int) []PlanStep {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []PlanStep
	cur := t.root
	for len(out) < maxLen {
		n := t.nodes[cur]
		if n.kind != decision || len(n.children) == 0 {
			break
		}
		best := 0
		for i := range n.children {
			if t.nodes[n.children[i].Child].value > t.nodes[n.children[best].Child].value {
				best = i
			}
		}
		e := n.children[best]
		out = append(out, PlanStep{Move: e.Move, Hold: e.Hold, Lock: e.Lock})
		cur = e.Child
	}
	return out
}

// Reset discards the entire tree and starts fresh from the given state,
// preserving the tree's Options (spec.md §6's reset barrier keeps
// options/weights but clears search progress).
func (t *Tree) Reset(b board.Board, q bag.Queue, hold *piece.Kind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	root := &node{board: b, queue: q, hold: hold}
	root.value = root.backedUpValue(nil)
	t.nodes = []*node{root}
	t.root = 0
	t.generation++
}

// pruneDeadLeaf removes the leaf at the end of path from its parent's
// edge list (it can never be legally reached) and re-backs-up the
// remainder of the path. Returns true if that leaves the root dead.
func (t *Tree) pruneDeadLeaf(path []int) bool {
	if len(path) == 1 {
		return true
	}
	leaf := path[len(path)-1]
	parent := t.nodes[path[len(path)-2]]
	switch parent.kind {
	case decision:
		for i, e := range parent.children {
			if e.Child == leaf {
				parent.children = append(parent.children[:i], parent.children[i+1:]...)
				break
			}
		}
	case chance:
		for k, edges := range parent.speculation {
			for i, e := range edges {
				if e.Child == leaf {
					parent.speculation[k] = append(edges[:i], edges[i+1:]...)
					break
				}
			}
		}
	}
	t.backup(path[:len(path)-1])
	return t.nodes[t.root].isDeadEnd()
}
