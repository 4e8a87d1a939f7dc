package client

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/stretchr/testify/require"

	"github.com/MinusKelvin/cold-clear/board"
	"github.com/MinusKelvin/cold-clear/config"
	"github.com/MinusKelvin/cold-clear/eval"
	"github.com/MinusKelvin/cold-clear/piece"
)

func testOptions() config.Options {
	opts := config.DefaultOptions()
	opts.MinNodes = 1
	opts.MaxNodes = 2000
	opts.Threads = 2
	return opts
}

func TestFreshLaunchSinglePiece(t *testing.T) {
	is := is.New(t)
	h := Launch(testOptions(), eval.StandardWeights())
	defer h.Destroy()

	h.AddNextPiece(piece.T)
	is.NoErr(h.RequestNextMove(0))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	res := h.BlockNextMove(ctx)
	is.Equal(res.State, Provided)
	is.True(res.Move.MovementCount <= 32)
}

func TestResetBarrierMovesToNewBoard(t *testing.T) {
	is := is.New(t)
	h := Launch(testOptions(), eval.StandardWeights())
	defer h.Destroy()

	h.AddNextPiece(piece.T)
	is.NoErr(h.RequestNextMove(0))

	var full [board.Width * board.VisibleHeight]bool
	for x := 0; x < board.Width; x++ {
		full[x] = true // bottom row filled
	}
	h.Reset(full, true, 0)
	h.AddNextPiece(piece.O)
	is.NoErr(h.RequestNextMove(0))

	require.Eventually(t, func() bool {
		return h.PollNextMove().State != Waiting
	}, 2*time.Second, time.Millisecond)

	res := h.PollNextMove()
	is.True(res.State == Provided || res.State == Dead)
}

func TestDeadPositionReportsDead(t *testing.T) {
	is := is.New(t)
	var field [board.Width * board.VisibleHeight]bool
	for y := 15; y < board.VisibleHeight; y++ {
		for x := 0; x < board.Width; x++ {
			field[y*board.Width+x] = true
		}
	}
	opts := testOptions()
	h := LaunchWithBoard(opts, eval.StandardWeights(), field, 0, nil, true, -1)
	defer h.Destroy()

	h.AddNextPiece(piece.T)
	is.NoErr(h.RequestNextMove(0))

	require.Eventually(t, func() bool {
		return h.PollNextMove().State == Dead
	}, 2*time.Second, time.Millisecond)
}

func TestBiasForPCLoopScalesPerfectClearBonus(t *testing.T) {
	is := is.New(t)
	base := eval.StandardWeights()

	off := biasForPCLoop(base, config.PCLoopOff)
	is.Equal(off.PerfectClear, base.PerfectClear)
	is.Equal(off.StackPCDamage, false)

	fastest := biasForPCLoop(base, config.PCLoopFastest)
	is.Equal(fastest.PerfectClear, base.PerfectClear*2)
	is.True(fastest.StackPCDamage)

	attack := biasForPCLoop(base, config.PCLoopAttack)
	is.Equal(attack.PerfectClear, base.PerfectClear*3)
	is.Equal(attack.ComboGarbage, base.ComboGarbage*2)
	is.True(attack.StackPCDamage)
}

func TestPollNeverBlocksBeforeRequest(t *testing.T) {
	is := is.New(t)
	h := Launch(testOptions(), eval.StandardWeights())
	defer h.Destroy()
	res := h.PollNextMove()
	is.Equal(res.State, Waiting)
}
