package worker

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/stretchr/testify/require"

	"github.com/MinusKelvin/cold-clear/bag"
	"github.com/MinusKelvin/cold-clear/board"
	"github.com/MinusKelvin/cold-clear/eval"
	"github.com/MinusKelvin/cold-clear/movegen"
	"github.com/MinusKelvin/cold-clear/piece"
	"github.com/MinusKelvin/cold-clear/search"
)

func testTreeOpts() search.Options {
	return search.Options{
		Weights:   eval.StandardWeights(),
		Mode:      movegen.Mode0G,
		SpawnRule: movegen.SpawnRow19Or20,
		Speculate: true,
	}
}

func queueOf(kinds ...piece.Kind) bag.Queue {
	q := bag.New()
	for _, k := range kinds {
		q = q.Add(k, true)
	}
	return q
}

func TestRequestNextMoveResolvesOnceBudgetMet(t *testing.T) {
	is := is.New(t)
	w := New(board.New(), queueOf(piece.T, piece.O, piece.S, piece.L, piece.J), nil, testTreeOpts(), Options{Threads: 2, MinNodes: 3, MaxNodes: 1000})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	is.NoErr(w.RequestNextMove(0))

	require.Eventually(t, func() bool {
		_, ok := w.Poll()
		return ok
	}, 2*time.Second, time.Millisecond)

	res, ok := w.Poll()
	is.True(ok)
	is.NoErr(res.Err)
}

// TestSecondRequestSearchesFreshSubtreeAfterCommit pins the fix for a
// regression where Commit never reclaimed the old root's ancestors and
// siblings: NodeCount was a whole-lifetime total, so readyToResolve
// compared MinNodes against stale history from earlier moves and every
// request after the first resolved near-instantly regardless of how
// little of the new subtree had actually been searched. MinNodes is
// set high enough, and Threads low enough, that a background expander
// cannot plausibly cross it in the brief window between issuing the
// second request and polling it — if it does resolve immediately, the
// arena wasn't actually compacted.
func TestSecondRequestSearchesFreshSubtreeAfterCommit(t *testing.T) {
	is := is.New(t)
	w := New(board.New(), queueOf(piece.T, piece.O, piece.S, piece.L, piece.J, piece.I, piece.Z), nil, testTreeOpts(), Options{Threads: 1, MinNodes: 20000, MaxNodes: 200000})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	is.NoErr(w.RequestNextMove(0))
	require.Eventually(t, func() bool {
		_, ok := w.Poll()
		return ok
	}, 10*time.Second, time.Millisecond)
	res1, ok := w.Poll()
	is.True(ok)
	is.NoErr(res1.Err)

	w.AddNextPiece(piece.T)
	is.NoErr(w.RequestNextMove(0))
	_, immediatelyOk := w.Poll()
	is.True(!immediatelyOk)

	require.Eventually(t, func() bool {
		_, ok := w.Poll()
		return ok
	}, 10*time.Second, time.Millisecond)
	res2, ok := w.Poll()
	is.True(ok)
	is.NoErr(res2.Err)
}

func TestRequestNextMoveRejectsDoubleRequest(t *testing.T) {
	is := is.New(t)
	w := New(board.New(), queueOf(piece.T, piece.O), nil, testTreeOpts(), Options{Threads: 1, MinNodes: 1000000, MaxNodes: 2000000})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	is.NoErr(w.RequestNextMove(0))
	is.Equal(w.RequestNextMove(0), ErrAlreadyRequested)
}

func TestResetDropsPendingRequest(t *testing.T) {
	is := is.New(t)
	w := New(board.New(), queueOf(piece.T), nil, testTreeOpts(), Options{Threads: 1, MinNodes: 1000000, MaxNodes: 2000000})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	is.NoErr(w.RequestNextMove(0))
	w.Reset(board.New(), queueOf(piece.O), nil)

	require.Eventually(t, func() bool {
		_, ok := w.Poll()
		return ok
	}, 2*time.Second, time.Millisecond)

	res, ok := w.Poll()
	is.True(ok)
	is.Equal(res.Err, ErrDead)
}

func TestDeadTreeReportsRootDead(t *testing.T) {
	b := board.New()
	for y := 17; y <= 22; y++ {
		b.Rows[y] = 0b1111111111
	}
	hold := piece.O
	w := New(b, queueOf(piece.T), &hold, testTreeOpts(), Options{Threads: 1, MinNodes: 1, MaxNodes: 100})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.Eventually(t, func() bool {
		return w.Dead()
	}, 2*time.Second, time.Millisecond)
}
