package board

import "github.com/MinusKelvin/cold-clear/piece"

// SpinStatus classifies a placement's spin, per spec.md §4.1.
type SpinStatus int

const (
	NoSpin SpinStatus = iota
	MiniSpin
	FullSpin
)

func (s SpinStatus) String() string {
	switch s {
	case MiniSpin:
		return "mini"
	case FullSpin:
		return "full"
	default:
		return "none"
	}
}

// ClassifyTSpin implements the guideline T-spin rule from
// original_source/libtetris/src/piece.rs (FallingPiece::rotate): after a
// rotation of a T piece that succeeded via kickIndex (0 = no kick needed,
// 4 = the last of the five rotation points), inspect the two "mini"
// corners (on the side the T points toward) and the two other corners of
// the final state's 3x3 bounding box. If fewer than three of the four are
// filled (or out of bounds), it's not a T-spin. Otherwise it's full if the
// last kick was used, or if both mini corners are filled; mini otherwise.
func (b Board) ClassifyTSpin(s piece.State, wasRotation bool, kickIndex int) SpinStatus {
	if !wasRotation || s.Kind != piece.T {
		return NoSpin
	}
	mini, front := piece.TSpinCorners(s.Rotation)
	miniCount := 0
	for _, c := range mini {
		if b.Occupied(s.X+c[0], s.Y+c[1]) {
			miniCount++
		}
	}
	frontCount := 0
	for _, c := range front {
		if b.Occupied(s.X+c[0], s.Y+c[1]) {
			frontCount++
		}
	}
	if miniCount+frontCount < 3 {
		return NoSpin
	}
	if kickIndex == 4 {
		// Rotation point 5 (the "rescue" kick) is never a mini T-spin.
		return FullSpin
	}
	if miniCount == 2 {
		return FullSpin
	}
	return MiniSpin
}
