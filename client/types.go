package client

import (
	"github.com/MinusKelvin/cold-clear/board"
	"github.com/MinusKelvin/cold-clear/movegen"
	"github.com/MinusKelvin/cold-clear/piece"
)

// Move is what a resolved request_next_move returns across the boundary
// (spec.md §6's "Move returned"): the four locked cell coordinates, the
// input sequence that reaches them, whether hold was used, and a few
// diagnostic counters.
type Move struct {
	Hold          bool
	ExpectedX     [4]int
	ExpectedY     [4]int
	Movements     []movegen.Token
	MovementCount int
	Nodes         int
	Depth         int
	// OriginalRank is the committed child's rank (0 = best) among its
	// siblings by raw evaluation at the moment they were installed,
	// fixed for the child's lifetime rather than recomputed from its
	// current backed-up value. Ties in backed-up value at commit time
	// are broken by this rank (spec.md §3's original_rank field).
	OriginalRank int
	Spin         board.SpinStatus
	Cleared      int
}

// PlanStep is one placement of the returned Plan's principal variation.
type PlanStep struct {
	Kind        piece.Kind
	Spin        board.SpinStatus
	Cells       [4][2]int
	ClearedRows [4]int // -1 padded past the actual clear count
}

// Plan is the optional principal-variation preview (spec.md §6).
type Plan []PlanStep

// PollState distinguishes the three outcomes of poll_next_move /
// block_next_move.
type PollState int

const (
	Waiting PollState = iota
	Provided
	Dead
)

// PollResult is the tagged result of a non-blocking or blocking move
// query.
type PollResult struct {
	State PollState
	Move  Move
	Plan  Plan
}
