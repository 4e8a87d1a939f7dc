// Package client is the narrow, stable command/poll surface exposed to
// host applications (spec.md §6): launch a bot, feed it pieces, ask for
// a move, and destroy it. Everything else — the search tree, the
// worker's goroutines, the evaluator — is an implementation detail
// behind this boundary.
//
// Grounded on domino14-macondo/bot/bot.go's Handle-style wrapper around
// a long-running engine, and on shell.go's use of that Handle as the
// sole entry point for outside callers.
package client

import (
	"context"
	"fmt"

	"github.com/MinusKelvin/cold-clear/bag"
	"github.com/MinusKelvin/cold-clear/board"
	"github.com/MinusKelvin/cold-clear/config"
	"github.com/MinusKelvin/cold-clear/eval"
	"github.com/MinusKelvin/cold-clear/piece"
	"github.com/MinusKelvin/cold-clear/search"
	"github.com/MinusKelvin/cold-clear/worker"
)

// Handle is a running bot instance: one worker goroutine pool plus the
// bookkeeping needed to translate its results across the boundary.
type Handle struct {
	w      *worker.Worker
	cancel context.CancelFunc
	opts   config.Options
}

// Launch creates a worker with an empty board, empty queue, full bag,
// and hold empty.
func Launch(opts config.Options, weights eval.Weights) *Handle {
	return LaunchWithBoard(opts, weights, [board.Width * board.VisibleHeight]bool{}, 0, nil, false, -1)
}

// LaunchWithBoard creates a worker seeded with a supplied starting
// state. bagBits is a 7-bit mask of remaining bag pieces (bit k set
// means piece.Kind(k) is still available); a zero mask is treated as a
// freshly-filled bag, matching bag.New's convention.
func LaunchWithBoard(opts config.Options, weights eval.Weights, field [board.Width * board.VisibleHeight]bool, bagBits uint8, hold *piece.Kind, b2b bool, combo int) *Handle {
	b := board.FromVisibleField(field)
	b.B2B = b2b
	b.Combo = combo

	q := bag.Queue{Bag: bag.State(bagBits)}
	if q.Bag.IsEmpty() {
		q.Bag = bag.Full()
	}

	treeOpts := search.Options{
		Weights:   biasForPCLoop(weights, opts.PCLoop),
		Mode:      opts.Mode,
		SpawnRule: opts.SpawnRule,
		Speculate: opts.Speculate,
	}
	if !opts.UseHold {
		hold = nil
	}

	w := worker.New(b, q, hold, treeOpts, worker.Options{
		Threads:  opts.Threads,
		MinNodes: opts.MinNodes,
		MaxNodes: opts.MaxNodes,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)

	return &Handle{w: w, cancel: cancel, opts: opts}
}

// biasForPCLoop folds options.pcloop into the weights handed to the
// search tree. There is no separate PC-loop solver (SPEC_FULL.md's
// Non-goals); instead pcloop reweights the ordinary evaluator so the
// bot leans toward perfect clears, scaled by how aggressively the
// caller wants to chase them.
func biasForPCLoop(w eval.Weights, mode config.PCLoop) eval.Weights {
	switch mode {
	case config.PCLoopFastest:
		w.StackPCDamage = true
		w.PerfectClear *= 2
	case config.PCLoopAttack:
		w.StackPCDamage = true
		w.PerfectClear *= 3
		w.ComboGarbage *= 2
	}
	return w
}

// Reset is a barrier: it discards the tree entirely and starts fresh
// from the supplied field/b2b/combo, keeping options and weights
// (spec.md §9(a)'s resolved variant). The queue and hold are cleared,
// since a client performing a full-board reset has no basis for
// assuming the old queue still applies.
func (h *Handle) Reset(field [board.Width * board.VisibleHeight]bool, b2b bool, combo int) {
	b := board.FromVisibleField(field)
	b.B2B = b2b
	b.Combo = combo
	h.w.Reset(b, bag.New(), nil)
}

// AddNextPiece appends one known piece to the queue.
func (h *Handle) AddNextPiece(k piece.Kind) {
	h.w.AddNextPiece(k)
}

// RequestNextMove signals the worker to commit a move once enough of
// the tree has been searched. incomingGarbage (spec.md §6) feeds the
// evaluator's jeopardy feature, penalizing a high stack in proportion to
// the attack the client reports is on its way.
func (h *Handle) RequestNextMove(incomingGarbage int) error {
	err := h.w.RequestNextMove(incomingGarbage)
	if err != nil {
		return fmt.Errorf("client: request_next_move: %w", err)
	}
	return nil
}

// PollNextMove is the non-blocking query variant: it never blocks,
// returning Waiting if no request has resolved yet.
func (h *Handle) PollNextMove() PollResult {
	res, ok := h.w.Poll()
	if !ok {
		if h.w.Dead() {
			return PollResult{State: Dead}
		}
		return PollResult{State: Waiting}
	}
	return h.toPollResult(res)
}

// BlockNextMove waits until the pending request resolves or ctx is
// cancelled.
func (h *Handle) BlockNextMove(ctx context.Context) PollResult {
	res, err := h.w.Block(ctx)
	if err != nil {
		return PollResult{State: Waiting}
	}
	return h.toPollResult(res)
}

func (h *Handle) toPollResult(res worker.MoveResult) PollResult {
	if res.Err != nil {
		return PollResult{State: Dead}
	}
	cells := res.Move.Final.Cells()
	var xs, ys [4]int
	for i, c := range cells {
		xs[i], ys[i] = c[0], c[1]
	}
	mv := Move{
		Hold:          res.Move.Hold,
		ExpectedX:     xs,
		ExpectedY:     ys,
		Movements:     res.Move.Path,
		MovementCount: len(res.Move.Path),
		Nodes:         h.w.NodeCount(),
		Depth:         h.w.Depth(),
		OriginalRank:  res.OriginalRank,
		Spin:          res.Move.Spin,
		Cleared:       len(res.Lock.Cleared),
	}
	return PollResult{State: Provided, Move: mv, Plan: h.plan()}
}

// plan reads up to 8 placements of the current principal variation off
// the underlying tree (spec.md §6's optional Plan).
func (h *Handle) plan() Plan {
	const maxPlanLen = 8
	steps := h.w.BestLine(maxPlanLen)
	if len(steps) == 0 {
		return nil
	}
	out := make(Plan, len(steps))
	for i, s := range steps {
		var rows [4]int
		for j := range rows {
			if j < len(s.Lock.Cleared) {
				rows[j] = s.Lock.Cleared[j]
			} else {
				rows[j] = -1
			}
		}
		out[i] = PlanStep{
			Kind:        s.Move.Kind,
			Spin:        s.Move.Spin,
			Cells:       s.Move.Final.Cells(),
			ClearedRows: rows,
		}
	}
	return out
}

// RootChildStats exposes the mean/stddev of the root's children's
// backed-up values, for a CLI "stats" diagnostic of how decisively the
// search favors its top move over the field.
func (h *Handle) RootChildStats() (mean, stddev float64, ok bool) {
	return h.w.RootChildStats()
}

// Destroy terminates the worker's goroutines and releases the tree.
// Safe to call more than once.
func (h *Handle) Destroy() {
	h.w.Destroy()
	h.cancel()
}
