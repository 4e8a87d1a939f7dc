package board

import "github.com/MinusKelvin/cold-clear/piece"

// PlacementKind classifies a completed placement for scoring purposes,
// grounded on original_source/libtetris/src/lock_data.rs's PlacementKind.
type PlacementKind int

const (
	PlacementNone PlacementKind = iota
	PlacementMiniTspinNoClear
	PlacementTspinNoClear
	PlacementClear1
	PlacementMiniTspin1
	PlacementTspin1
	PlacementClear2
	PlacementMiniTspin2
	PlacementTspin2
	PlacementClear3
	PlacementTspin3
	PlacementClear4
)

// IsClear reports whether the placement cleared at least one line. A
// T-spin or mini T-spin that clears no lines is not a clear: it neither
// extends the combo nor touches back-to-back.
func (k PlacementKind) IsClear() bool {
	return k != PlacementNone && k != PlacementMiniTspinNoClear && k != PlacementTspinNoClear
}

// isHard reports whether the clear preserves or grants back-to-back.
func (k PlacementKind) isHard() bool {
	switch k {
	case PlacementClear4, PlacementMiniTspin1, PlacementMiniTspin2,
		PlacementTspin1, PlacementTspin2, PlacementTspin3:
		return true
	default:
		return false
	}
}

// baseGarbage is the normal garbage sent for a clear kind, ignoring b2b
// and combo bonuses.
func (k PlacementKind) baseGarbage() int {
	switch k {
	case PlacementClear2, PlacementMiniTspin2:
		return 1
	case PlacementClear3, PlacementTspin1:
		return 2
	case PlacementClear4, PlacementTspin2:
		return 4
	case PlacementTspin3:
		return 6
	default:
		return 0
	}
}

// placementKindFor mirrors PlacementKind::get in
// original_source/libtetris/src/lock_data.rs.
func placementKindFor(cleared int, spin SpinStatus) PlacementKind {
	switch {
	case cleared == 0 && spin == NoSpin:
		return PlacementNone
	case cleared == 0 && spin == MiniSpin:
		return PlacementMiniTspinNoClear
	case cleared == 0:
		return PlacementTspinNoClear
	case cleared == 1 && spin == NoSpin:
		return PlacementClear1
	case cleared == 1 && spin == MiniSpin:
		return PlacementMiniTspin1
	case cleared == 1:
		return PlacementTspin1
	case cleared == 2 && spin == NoSpin:
		return PlacementClear2
	case cleared == 2 && spin == MiniSpin:
		return PlacementMiniTspin2
	case cleared == 2:
		return PlacementTspin2
	case cleared == 3 && spin == NoSpin:
		return PlacementClear3
	case cleared == 3:
		return PlacementTspin3
	default:
		return PlacementClear4
	}
}

// ComboGarbage mirrors original_source/libtetris/src/lock_data.rs's
// COMBO_GARBAGE table: garbage lines added per consecutive-clear count.
var ComboGarbage = [12]int{0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 4, 5}

// LockResult summarizes the outcome of committing a placement, matching
// spec.md §3's Placement contract and §4.1's scoring rules.
type LockResult struct {
	Cleared       []int
	PlacementKind PlacementKind
	B2B           bool // true if this clear both required and preserved b2b
	Combo         int  // -1 when the combo is broken; spec.md §3
	PerfectClear  bool
	GarbageSent   int
}

// ApplyPlacement locks s onto the board, updates the board's b2b/combo
// state, and classifies the placement, mirroring
// original_source/libtetris/src/board.rs's Board::lock_piece.
func (b Board) ApplyPlacement(s piece.State, spin SpinStatus) (Board, LockResult) {
	nb, cleared := b.Lock(s)
	kind := placementKindFor(len(cleared), spin)

	res := LockResult{
		Cleared:       cleared,
		PlacementKind: kind,
		Combo:         -1,
		GarbageSent:   kind.baseGarbage(),
	}

	if kind.IsClear() {
		if kind.isHard() {
			if nb.B2B {
				res.GarbageSent++
				res.B2B = true
			}
			nb.B2B = true
		} else {
			nb.B2B = false
		}

		comboIdx := b.Combo + 1
		if comboIdx < 0 {
			comboIdx = 0
		}
		nb.Combo = comboIdx
		res.Combo = nb.Combo
		idx := comboIdx
		if idx >= len(ComboGarbage) {
			idx = len(ComboGarbage) - 1
		}
		res.GarbageSent += ComboGarbage[idx]
	} else {
		nb.Combo = -1
	}

	res.PerfectClear = nb.IsPerfectClear()
	if res.PerfectClear {
		res.GarbageSent = 10
	}

	return nb, res
}
