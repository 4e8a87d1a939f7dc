package eval

import (
	"github.com/samber/lo"

	"github.com/MinusKelvin/cold-clear/board"
	"github.com/MinusKelvin/cold-clear/piece"
)

// Evaluation splits a board's score into an accumulated component (tied
// to the placement that produced it — line clears, T-spin bonuses,
// simulated move time) and a transient component (a pure function of
// the resulting board shape). Search nodes back up the sum; the split
// exists only so per-move bonuses don't get re-added when a node is
// revisited (spec.md §4.3).
type Evaluation struct {
	Accumulated int
	Transient   int
}

// Total is the value used for search comparisons and backup.
func (e Evaluation) Total() int { return e.Accumulated + e.Transient }

// Evaluate scores a completed placement, grounded on Standard::evaluate
// in original_source/bot/src/evaluation/standard.rs. moveTime is the
// simulated number of frames the move took to execute (spec.md §4.3);
// placedKind is the kind of piece that was just locked (used for the
// wasted_t penalty); incomingGarbage is the attack the client last
// reported as pending against this board, feeding the jeopardy feature.
func Evaluate(w Weights, res board.LockResult, b board.Board, moveTime int, placedKind piece.Kind, incomingGarbage int) Evaluation {
	acc := 0

	if res.PerfectClear {
		acc += w.PerfectClear
		if w.StackPCDamage {
			acc += w.PerfectClear * board.ComboGarbage[len(board.ComboGarbage)-1] / 10
		}
	} else {
		if res.B2B {
			acc += w.B2BClear
		}
		if res.Combo >= 0 {
			idx := res.Combo
			if idx > 11 {
				idx = 11
			}
			acc += w.ComboGarbage * board.ComboGarbage[idx]
		}
		switch res.PlacementKind {
		case board.PlacementClear1:
			acc += w.Clear1
		case board.PlacementClear2:
			acc += w.Clear2
		case board.PlacementClear3:
			acc += w.Clear3
		case board.PlacementClear4:
			acc += w.Clear4
		case board.PlacementTspin1:
			acc += w.Tspin1
		case board.PlacementTspin2:
			acc += w.Tspin2
		case board.PlacementTspin3:
			acc += w.Tspin3
		case board.PlacementMiniTspin1:
			acc += w.MiniTspin1
		case board.PlacementMiniTspin2:
			acc += w.MiniTspin2
		}
	}

	if placedKind == piece.T {
		switch res.PlacementKind {
		case board.PlacementTspin1, board.PlacementTspin2, board.PlacementTspin3:
		default:
			acc += w.WastedT
		}
	}

	if res.PlacementKind.IsClear() {
		acc += w.MoveTime * (moveTime + 10 + 45)
	} else {
		acc += w.MoveTime * (moveTime + 10)
	}

	transient := transientScore(w, b, incomingGarbage)

	return Evaluation{Accumulated: acc, Transient: transient}
}

// transientScore is a pure function of board shape plus the pending
// incoming garbage reported at the client boundary: height penalties,
// well depth/bumpiness, cavities/overhangs, coverage, a simplified
// single-pass T-slot bonus, and jeopardy.
func transientScore(w Weights, b board.Board, incomingGarbage int) int {
	score := 0
	if b.B2B {
		score += w.BackToBack
	}

	heights := b.ColumnHeights()
	highest := lo.Max(heights[:])
	if d := highest - 15; d > 0 {
		score += w.TopQuarter * d
	}
	if d := highest - 10; d > 0 {
		score += w.TopHalf * d
	}

	if w.TimedJeopardy && incomingGarbage > 0 {
		if d := highest - 10; d > 0 {
			score += w.Jeopardy * incomingGarbage * d
		}
	}

	if x, y, ok := skyTslot(b, heights); ok {
		lines := simulateTslotCutoutLines(b, x, y)
		if lines >= 0 && lines < len(w.Tslot) {
			score += w.Tslot[lines]
		}
	}

	score += w.Height * highest

	wellCol := well(heights)
	depth := wellDepth(b, heights, wellCol, w.MaxWellDepth)
	score += w.WellDepth * depth
	if depth != 0 {
		score += w.WellColumn[wellCol]
	}

	if w.Bumpiness != 0 || w.BumpinessSq != 0 {
		bump, bumpSq := bumpiness(heights, wellCol)
		score += w.Bumpiness * bump
		score += w.BumpinessSq * bumpSq
	}

	if w.CavityCells != 0 || w.CavityCellsSq != 0 || w.OverhangCells != 0 || w.OverhangCellsSq != 0 {
		cavity, overhang := cavitiesAndOverhangs(b, heights)
		score += w.CavityCells * cavity
		score += w.CavityCellsSq * cavity * cavity
		score += w.OverhangCells * overhang
		score += w.OverhangCellsSq * overhang * overhang
	}

	if w.CoveredCells != 0 || w.CoveredCellsSq != 0 {
		covered, coveredSq := coveredCells(b, heights)
		score += w.CoveredCells * covered
		score += w.CoveredCellsSq * coveredSq
	}

	if w.RowTransitions != 0 {
		score += w.RowTransitions * rowTransitions(b, highest) / 10
	}

	return score
}

// skyTslot looks for a T-spin-shaped notch open to the sky: a column at
// least one row shorter than both neighbours, whose lowest empty cell
// lies in a row that is otherwise completely filled. The returned (x, y)
// is the anchor of a South-facing T whose stem fills that cell. This is a
// deliberately simplified, single-candidate stand-in for the repeated
// cutout search in original_source/bot/src/evaluation/standard.rs's
// sky_tslot/tst_twist machinery (see DESIGN.md).
func skyTslot(b board.Board, heights [board.Width]int) (x, y int, ok bool) {
	for cx := 1; cx < board.Width-1; cx++ {
		cy := heights[cx]
		if heights[cx-1] <= cy || heights[cx+1] <= cy {
			continue
		}
		rowFilled := true
		for x2 := 0; x2 < board.Width; x2++ {
			if x2 == cx {
				continue
			}
			if !b.Occupied(x2, cy) {
				rowFilled = false
				break
			}
		}
		if rowFilled {
			return cx, cy + 1, true
		}
	}
	return 0, 0, false
}

// simulateTslotCutoutLines drops a South-facing T into the notch found
// by skyTslot and reports how many lines it would clear, or -1 if it
// doesn't actually fit.
func simulateTslotCutoutLines(b board.Board, x, y int) int {
	s := piece.State{Kind: piece.T, Rotation: piece.South, X: x, Y: y}
	if b.Collides(s) {
		return -1
	}
	_, cleared := b.Lock(s)
	return len(cleared)
}
