// Package worker drives a search.Tree with a pool of expansion
// goroutines and a small command inbox, matching the asynchronous
// worker described in spec.md §5: the tree grows continuously in the
// background, node-count budgets throttle how much work happens between
// moves, and a client thread asks for the next move without blocking
// the expansion goroutines against each other.
//
// Grounded on domino14-macondo/montecarlo/montecarlo.go's errgroup-driven
// simulation loop (goroutine pool, context cancellation, an atomic
// iteration counter) and macondo's worker/ package's job/config/client
// split.
package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/pbnjay/memory"

	"github.com/MinusKelvin/cold-clear/bag"
	"github.com/MinusKelvin/cold-clear/board"
	"github.com/MinusKelvin/cold-clear/piece"
	"github.com/MinusKelvin/cold-clear/search"
)

// ErrDead is returned when the tree has been fully searched and found to
// have no legal continuation (a forced topout).
var ErrDead = errors.New("worker: tree has no legal moves")

// ErrAlreadyRequested is returned by RequestNextMove when a request is
// already pending and hasn't been collected yet.
var ErrAlreadyRequested = errors.New("worker: a move request is already pending")

// approxNodeBytes estimates the memory footprint of one search.Tree node
// (board + queue slice header + evaluation + edge slices), used to size
// a default MaxNodes budget the way
// domino14-macondo/endgame/negamax/transposition_table.go's Reset sizes
// its table against memory.TotalMemory().
const approxNodeBytes = 256

// defaultMaxNodesFraction is the share of total system memory the
// worker is willing to spend on tree nodes when the caller doesn't pick
// an explicit MaxNodes.
const defaultMaxNodesFraction = 0.05

// Options configures a Worker's resource budget, matching the
// `options` fields of spec.md §6 that govern search rather than move
// generation (those live in search.Options).
type Options struct {
	Threads  int
	MinNodes int
	MaxNodes int
}

func (o Options) normalized() Options {
	if o.Threads <= 0 {
		o.Threads = 1
	}
	if o.MinNodes <= 0 {
		o.MinNodes = 1
	}
	if o.MaxNodes <= 0 {
		total := memory.TotalMemory()
		o.MaxNodes = int(float64(total) * defaultMaxNodesFraction / approxNodeBytes)
		if o.MaxNodes < o.MinNodes {
			o.MaxNodes = o.MinNodes * 100
		}
	}
	return o
}

// Worker owns a search.Tree and a pool of goroutines that repeatedly
// call Tree.Expand. Clients interact with it through AddNextPiece,
// Reset, RequestNextMove, Poll and Block; every mutation is serialized
// through a single inbox goroutine so expansion never races a client
// call.
type Worker struct {
	opts Options
	tree *search.Tree

	inbox chan inboxEntry

	mu        sync.Mutex
	cond      *sync.Cond
	dead      bool
	requested bool // a move request is pending, not yet resolved
	resolved  bool // lastResult holds an answer to the most recent request
	lastResult MoveResult

	cancel context.CancelFunc
	group  *errgroup.Group
}

// New creates a Worker over a fresh tree rooted at the given state. It
// does not start expanding until Start is called.
func New(b board.Board, q bag.Queue, hold *piece.Kind, treeOpts search.Options, opts Options) *Worker {
	w := &Worker{
		opts:  opts.normalized(),
		tree:  search.New(b, q, hold, treeOpts),
		inbox: make(chan inboxEntry, 64),
	}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// Start launches the command processor and Threads expansion goroutines.
// It returns once every goroutine has exited (on ctx cancellation, on
// Destroy, or on an unrecoverable panic in one of them); callers
// typically run it in its own goroutine.
func (w *Worker) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	g, gctx := errgroup.WithContext(ctx)
	w.group = g

	g.Go(func() error { return w.runInbox(gctx) })
	for i := 0; i < w.opts.Threads; i++ {
		thread := i
		g.Go(func() error { return w.runExpander(gctx, thread) })
	}

	err := g.Wait()
	log.Debug().Err(err).Msg("worker stopped")
	return err
}

// Destroy stops every goroutine and releases the worker. Safe to call
// more than once.
func (w *Worker) Destroy() {
	if w.cancel != nil {
		w.cancel()
	}
	w.mu.Lock()
	w.dead = true
	w.cond.Broadcast()
	w.mu.Unlock()
	if w.group != nil {
		w.group.Wait()
	}
}

// runExpander is one of the Threads goroutines that grows the tree. It
// suspends (via the condition variable) whenever the tree is dead or
// already at the MaxNodes budget, resuming after a Reset or once
// commits shrink the tree — matching spec.md §5's requirement that the
// worker not spin uselessly. It exits when the worker's context ends.
//
// A panic inside a single expansion is isolated here rather than
// crashing the pool, mirroring the panic-isolation comment style around
// macondo's background game-runner workers: the tree is marked dead and
// the goroutine exits cleanly instead of taking the whole errgroup down
// with an unrelated stack trace.
func (w *Worker) runExpander(ctx context.Context, thread int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Int("thread", thread).Msg("expansion panic; marking tree dead")
			w.mu.Lock()
			w.dead = true
			w.cond.Broadcast()
			w.mu.Unlock()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		w.mu.Lock()
		for (w.dead || w.tree.NodeCount() >= w.opts.MaxNodes) && ctx.Err() == nil {
			w.cond.Wait()
		}
		if ctx.Err() != nil {
			w.mu.Unlock()
			return nil
		}
		w.mu.Unlock()

		dead := w.tree.Expand()
		if dead {
			w.mu.Lock()
			w.dead = true
			w.deliverLocked(MoveResult{Err: ErrDead})
			w.cond.Broadcast()
			w.mu.Unlock()
			continue
		}

		w.mu.Lock()
		if w.requested && w.readyToResolve() {
			w.resolveRequestLocked()
		}
		w.cond.Broadcast()
		w.mu.Unlock()
	}
}

// readyToResolve reports whether the tree has been expanded past its
// root and has met the MinNodes budget, i.e. RequestNextMove is allowed
// to try Commit now (spec.md §4.6(i)-(ii)). Checking RootReady first
// avoids reporting a fresh, not-yet-expanded root as "dead" just
// because Commit can't find a decision node yet.
func (w *Worker) readyToResolve() bool {
	return w.tree.RootReady() && w.tree.NodeCount() >= w.opts.MinNodes
}

// resolveRequestLocked commits the tree's current best root child and
// delivers it to the pending request. Called with w.mu held.
func (w *Worker) resolveRequestLocked() {
	log.Debug().Uint64("board_sig", w.tree.RootSignature()).Msg("resolving move request")
	mv, isHold, lock, rank, ok := w.tree.Commit()
	if !ok {
		w.deliverLocked(MoveResult{Err: ErrDead})
		return
	}
	w.deliverLocked(MoveResult{Move: mv, Hold: isHold, Lock: lock, OriginalRank: rank})
}

// deliverLocked records res as the answer to the pending request. It
// stays available to any number of Poll/Block calls (idempotent reads)
// until superseded by the next RequestNextMove. Called with w.mu held.
func (w *Worker) deliverLocked(res MoveResult) {
	if !w.requested {
		return
	}
	w.requested = false
	w.resolved = true
	w.lastResult = res
	w.cond.Broadcast()
}

// runInbox is the sole goroutine that mutates the tree in response to
// client commands, so AddNextPiece/Reset never race an in-flight Expand
// selection or a concurrent resolveRequestLocked.
func (w *Worker) runInbox(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-w.inbox:
			w.applyEntry(e)
		}
	}
}

func (w *Worker) applyEntry(e inboxEntry) {
	switch e.kind {
	case cmdAddPiece:
		dead := w.tree.AddNextPiece(e.piece)
		w.mu.Lock()
		if dead {
			w.dead = true
			w.deliverLocked(MoveResult{Err: ErrDead})
		} else if w.requested && w.readyToResolve() {
			w.resolveRequestLocked()
		}
		w.cond.Broadcast()
		w.mu.Unlock()
	case cmdReset:
		w.mu.Lock()
		w.tree.Reset(e.board, e.queue, e.hold)
		w.dead = false
		// A request against the old tree can never be satisfied now.
		w.deliverLocked(MoveResult{Err: ErrDead})
		w.cond.Broadcast()
		w.mu.Unlock()
	}
	if e.done != nil {
		close(e.done)
	}
}

// AddNextPiece queues a newly-revealed piece for the search tree.
func (w *Worker) AddNextPiece(k piece.Kind) {
	done := make(chan struct{})
	w.inbox <- inboxEntry{kind: cmdAddPiece, piece: k, done: done}
	<-done
}

// Reset discards the tree's progress and starts fresh from the given
// state, acting as a barrier: every command queued before it is applied
// first, and the reset itself completes before this call returns.
func (w *Worker) Reset(b board.Board, q bag.Queue, hold *piece.Kind) {
	done := make(chan struct{})
	w.inbox <- inboxEntry{kind: cmdReset, board: b, queue: q, hold: hold, done: done}
	<-done
}

// RequestNextMove asks the worker to produce the best move once at
// least MinNodes have been searched. incomingGarbage is the attack
// currently pending against this board (spec.md §6), fed to the
// evaluator's jeopardy feature for every evaluation from here on. Only
// one request may be pending at a time.
func (w *Worker) RequestNextMove(incomingGarbage int) error {
	w.tree.SetIncomingGarbage(incomingGarbage)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dead {
		return ErrDead
	}
	if w.requested {
		return ErrAlreadyRequested
	}
	w.requested = true
	w.resolved = false
	if w.readyToResolve() {
		w.resolveRequestLocked()
	}
	w.cond.Broadcast()
	return nil
}

// Poll returns the most recently resolved request's result without
// blocking (spec.md §5: "the client thread never blocks in poll").
// Reads are idempotent — calling Poll again before the next
// RequestNextMove keeps returning the same answer. ok is false if no
// request has resolved yet.
func (w *Worker) Poll() (res MoveResult, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.resolved {
		return MoveResult{}, false
	}
	return w.lastResult, true
}

// Block waits on the worker's condition variable for the pending
// request to resolve, or for ctx to be cancelled, per spec.md §5's
// "blocking poll waits on move-ready/death" design.
func (w *Worker) Block(ctx context.Context) (MoveResult, error) {
	watchDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			w.cond.Broadcast()
			w.mu.Unlock()
		case <-watchDone:
		}
	}()
	defer close(watchDone)

	w.mu.Lock()
	defer w.mu.Unlock()
	for !w.resolved && ctx.Err() == nil {
		w.cond.Wait()
	}
	if w.resolved {
		return w.lastResult, nil
	}
	return MoveResult{}, ctx.Err()
}

// Dead reports whether the tree has been found to have no legal moves.
func (w *Worker) Dead() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dead
}

// NodeCount exposes the current tree size, mainly for tests and
// diagnostics.
func (w *Worker) NodeCount() int { return w.tree.NodeCount() }

// Depth exposes the root's backed-up search depth, reported to the
// client boundary as Move.Depth (spec.md §3).
func (w *Worker) Depth() int { return w.tree.Depth() }

// BestLine exposes the tree's current principal variation, for the
// client boundary's optional Plan (spec.md §6).
func (w *Worker) BestLine(maxLen int) []search.PlanStep { return w.tree.BestLine(maxLen) }

// RootChildStats exposes the mean/stddev of the root's children's
// backed-up values, for diagnostics of how decisively the search
// favors its top move.
func (w *Worker) RootChildStats() (mean, stddev float64, ok bool) {
	return w.tree.RootChildStats()
}
