package board

import (
	"testing"

	"github.com/matryer/is"

	"github.com/MinusKelvin/cold-clear/piece"
)

func TestEmptyBoardNoCollision(t *testing.T) {
	is := is.New(t)
	b := New()
	s := piece.Spawn(piece.T, 20)
	is.True(b.Fits(s))
}

func TestFloorCollision(t *testing.T) {
	is := is.New(t)
	b := New()
	s := piece.State{Kind: piece.O, Rotation: piece.North, X: 4, Y: -1}
	is.True(b.Collides(s))
}

func TestLockClearsFullRow(t *testing.T) {
	is := is.New(t)
	b := New()
	b.Rows[0] = fullRow &^ (1 << 4) &^ (1 << 5) // everything but where O will land
	s := piece.State{Kind: piece.O, Rotation: piece.North, X: 4, Y: 0}
	nb, cleared := b.Lock(s)
	is.Equal(len(cleared), 1)
	is.Equal(cleared[0], 0)
	is.Equal(nb.Rows[0], uint16(1<<4|1<<5)) // the O's upper half falls into row 0
}

func TestSignatureDistinguishesBoardsAndIsStable(t *testing.T) {
	is := is.New(t)
	a := New()
	a.Rows[0] = 0b1111111110

	b := New()
	b.Rows[0] = 0b1111111110

	c := New()
	c.Rows[0] = 0b0111111110

	is.Equal(a.Signature(), b.Signature())
	is.True(a.Signature() != c.Signature())
}

func TestLockNoClear(t *testing.T) {
	is := is.New(t)
	b := New()
	s := piece.State{Kind: piece.O, Rotation: piece.North, X: 0, Y: 0}
	nb, cleared := b.Lock(s)
	is.Equal(len(cleared), 0)
	is.True(nb.Rows[0] != 0)
}

func TestColumnHeights(t *testing.T) {
	is := is.New(t)
	b := New()
	s := piece.State{Kind: piece.O, Rotation: piece.North, X: 0, Y: 0}
	b, _ = b.Lock(s)
	h := b.ColumnHeights()
	is.Equal(h[0], 2)
	is.Equal(h[1], 2)
	is.Equal(h[2], 0)
}

func TestPerfectClear(t *testing.T) {
	is := is.New(t)
	b := New()
	is.True(b.IsPerfectClear())
	b.Rows[0] = 1
	is.True(!b.IsPerfectClear())
}

func TestClassifyTSpinRequiresRotation(t *testing.T) {
	is := is.New(t)
	b := New()
	// Wall a T into a slot with 3 corners filled but arrived via shift, not rotation.
	b.Rows[6] |= 1<<3 | 1<<5
	b.Rows[4] |= 1 << 3
	s := piece.State{Kind: piece.T, Rotation: piece.North, X: 4, Y: 5}
	is.Equal(b.ClassifyTSpin(s, false, 0), NoSpin)
}

func TestApplyPlacementTracksCombo(t *testing.T) {
	is := is.New(t)
	b := New()
	b.Rows[0] = fullRow &^ (1 << 4) &^ (1 << 5)
	s := piece.State{Kind: piece.O, Rotation: piece.North, X: 4, Y: 0}
	b, res := b.ApplyPlacement(s, NoSpin)
	is.Equal(res.PlacementKind, PlacementClear1)
	is.Equal(res.Combo, 0)
	is.True(!b.B2B) // a single-line clear is not a "hard" clear, so it breaks b2b
	is.True(!res.B2B)
}

func TestApplyPlacementBreaksComboOnNoClear(t *testing.T) {
	is := is.New(t)
	b := New()
	b.Combo = 3
	s := piece.State{Kind: piece.O, Rotation: piece.North, X: 0, Y: 0}
	_, res := b.ApplyPlacement(s, NoSpin)
	is.Equal(res.PlacementKind, PlacementNone)
	is.Equal(res.Combo, -1)
}

func TestVisibleFieldRoundTrip(t *testing.T) {
	is := is.New(t)
	var field [Width * VisibleHeight]bool
	field[5] = true
	field[Width*VisibleHeight-1] = true
	b := FromVisibleField(field)
	got := b.ToVisibleField()
	is.Equal(got, field)
}
