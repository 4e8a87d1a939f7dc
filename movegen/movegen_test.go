package movegen

import (
	"testing"

	"github.com/matryer/is"

	"github.com/MinusKelvin/cold-clear/board"
	"github.com/MinusKelvin/cold-clear/piece"
)

// Empty-board placement counts are a well known SRS invariant, restated
// as a boundary property in spec.md §8.
func TestEmptyBoardPlacementCounts(t *testing.T) {
	is := is.New(t)
	cases := []struct {
		kind piece.Kind
		want int
	}{
		{piece.O, 9},
		{piece.I, 17},
		{piece.S, 17},
		{piece.Z, 17},
		{piece.T, 34},
		{piece.L, 34},
		{piece.J, 34},
	}
	b := board.New()
	for _, c := range cases {
		moves := Generate(b, c.kind, Mode0G, SpawnRow19Or20)
		is.Equal(len(moves), c.want)
	}
}

func TestPathsRespectMaxTokens(t *testing.T) {
	is := is.New(t)
	b := board.New()
	for _, m := range Generate(b, piece.T, Mode0G, SpawnRow19Or20) {
		is.True(len(m.Path) <= MaxTokens)
		is.True(len(m.Path) >= 1) // always ends in a Drop token
		is.Equal(m.Path[len(m.Path)-1], Drop)
	}
}

func TestHardDropOnlyPathsAreRotationsThenDrop(t *testing.T) {
	is := is.New(t)
	b := board.New()
	for _, m := range Generate(b, piece.T, ModeHardDropOnly, SpawnRow19Or20) {
		for _, tok := range m.Path[:len(m.Path)-1] {
			is.True(tok == CW || tok == CCW)
		}
		is.Equal(m.Path[len(m.Path)-1], Drop)
	}
}

func TestNoPlacementsWhenSpawnBlocked(t *testing.T) {
	is := is.New(t)
	b := board.New()
	spawn := piece.Spawn(piece.T, 19)
	for _, c := range spawn.Cells() {
		x, y := c[0], c[1]
		b.Rows[y] |= 1 << uint(x)
	}
	moves := Generate(b, piece.T, Mode0G, SpawnRow19Or20)
	is.Equal(len(moves), 0)
}

// TestGenerateDistinguishesSpinFromShiftAtSameCells constructs a T-slot
// (floor-level walls at x0-1/x0+1 plus an overhang at x0-1 two rows up)
// that a T can only fill by rotating into it from directly above:
// shifting or falling into the South-facing resting position collides
// with the walls or the overhang. The placement must come out of the BFS
// tagged as a full T-spin, since `frontierState` carries the spin status
// set by that last rotation through to the recorded lock.
func TestGenerateDistinguishesSpinFromShiftAtSameCells(t *testing.T) {
	is := is.New(t)
	const x0 = 6
	b := board.New()
	b.Rows[0] |= 1 << uint(x0-1)
	b.Rows[0] |= 1 << uint(x0+1)
	b.Rows[2] |= 1 << uint(x0-1)

	moves := Generate(b, piece.T, Mode0G, SpawnRow19Or20)
	want := [4][2]int{{x0, 0}, {x0 - 1, 1}, {x0, 1}, {x0 + 1, 1}}
	found := false
	for _, m := range moves {
		if m.Cells == want && m.Spin == board.FullSpin {
			found = true
		}
	}
	is.True(found)
}

func TestReachesFarColumnFromSpawn(t *testing.T) {
	is := is.New(t)
	b := board.New()
	found := false
	for _, m := range Generate(b, piece.O, Mode0G, SpawnRow19Or20) {
		if m.Final.X == 0 && m.Final.Y == 0 {
			found = true
		}
	}
	is.True(found)
}
