package eval

import (
	"testing"

	"github.com/matryer/is"

	"github.com/MinusKelvin/cold-clear/board"
	"github.com/MinusKelvin/cold-clear/piece"
)

func TestPerfectClearDominatesOtherBonuses(t *testing.T) {
	is := is.New(t)
	w := StandardWeights()
	res := board.LockResult{PerfectClear: true, Combo: 3, B2B: true, PlacementKind: board.PlacementClear4}
	e := Evaluate(w, res, board.New(), 0, piece.I, 0)
	is.Equal(e.Accumulated, w.PerfectClear+w.MoveTime*(0+10+45))
}

func TestWastedTPenalizesNonSpinTPlacement(t *testing.T) {
	is := is.New(t)
	w := StandardWeights()
	res := board.LockResult{Combo: -1, PlacementKind: board.PlacementNone}
	e := Evaluate(w, res, board.New(), 0, piece.T, 0)
	is.True(e.Accumulated < 0) // wasted_t is negative in the standard weights
}

func TestTallStackPenalized(t *testing.T) {
	is := is.New(t)
	w := StandardWeights()
	low := board.New()
	high := board.New()
	for y := 0; y < 16; y++ {
		high.Rows[y] = 0b1111111110
	}
	lowScore := transientScore(w, low, 0)
	highScore := transientScore(w, high, 0)
	is.True(highScore < lowScore)
}

func TestRowTransitionsCountsBorderAndInteriorGaps(t *testing.T) {
	is := is.New(t)
	b := board.New()
	b.Rows[0] = 0b1010101010 // columns alternate empty/occupied starting empty
	is.Equal(rowTransitions(b, 1), 10)
}

func TestRowTransitionsIgnoresRowsAboveTheStack(t *testing.T) {
	is := is.New(t)
	b := board.New()
	b.Rows[0] = 0b1111111111
	is.Equal(rowTransitions(b, 0), 0)
}

func TestStackPCDamageAddsExtraPerfectClearBonus(t *testing.T) {
	is := is.New(t)
	w := StandardWeights()
	res := board.LockResult{PerfectClear: true, PlacementKind: board.PlacementClear4}

	w.StackPCDamage = false
	plain := Evaluate(w, res, board.New(), 0, piece.I, 0)

	w.StackPCDamage = true
	boosted := Evaluate(w, res, board.New(), 0, piece.I, 0)

	is.True(boosted.Accumulated > plain.Accumulated)
}

func TestJeopardyPenalizesIncomingGarbageOnlyWhenEnabledAndStackHigh(t *testing.T) {
	is := is.New(t)
	w := StandardWeights()
	w.Jeopardy = -10
	w.TimedJeopardy = true

	low := board.New()
	high := board.New()
	for y := 0; y < 16; y++ {
		high.Rows[y] = 0b1111111110
	}

	// Low stack: jeopardy never kicks in regardless of incoming garbage.
	is.Equal(transientScore(w, low, 4), transientScore(w, low, 0))

	// High stack: more incoming garbage is worse.
	is.True(transientScore(w, high, 4) < transientScore(w, high, 0))

	// Disabled: no penalty even with a high stack and incoming garbage.
	w.TimedJeopardy = false
	is.Equal(transientScore(w, high, 4), transientScore(w, high, 0))
}

func TestWellRewardsDeepestShallowColumn(t *testing.T) {
	is := is.New(t)
	w := StandardWeights()
	b := board.New()
	for y := 0; y < 5; y++ {
		b.Rows[y] = 0b1111111110 // column 0 open, rest filled: a well
	}
	heights := b.ColumnHeights()
	wc := well(heights)
	is.Equal(wc, 0)
	depth := wellDepth(b, heights, wc, w.MaxWellDepth)
	is.Equal(depth, 5)
}
