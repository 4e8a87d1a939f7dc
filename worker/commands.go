package worker

import (
	"github.com/MinusKelvin/cold-clear/bag"
	"github.com/MinusKelvin/cold-clear/board"
	"github.com/MinusKelvin/cold-clear/movegen"
	"github.com/MinusKelvin/cold-clear/piece"
)

// commandKind distinguishes the operations that can be queued to a
// Worker's command inbox. Grounded on macondo's worker/ job split: every
// externally-triggered mutation goes through one FIFO channel so the
// expansion goroutines never race with client calls.
type commandKind int

const (
	cmdAddPiece commandKind = iota
	cmdReset
)

// MoveResult is what a resolved RequestNextMove eventually produces.
type MoveResult struct {
	Move movegen.Move
	Hold bool
	Lock board.LockResult
	// OriginalRank is the committed root child's rank (0 = best) among
	// its siblings by raw evaluation at install time, per
	// search.Tree.Commit.
	OriginalRank int
	Err          error
}

// inboxEntry is one entry in the worker's command inbox. Reset acts as a
// barrier: the command processor applies it before anything queued after
// it runs, and any move request that was still pending against the old
// tree is answered with ErrDead (spec.md §9(a): reset clears search
// progress).
type inboxEntry struct {
	kind commandKind

	piece piece.Kind // cmdAddPiece

	board board.Board // cmdReset
	queue bag.Queue
	hold  *piece.Kind

	done chan struct{} // closed once applied, for callers that must block on it
}
