package eval

import (
	"github.com/samber/lo"

	"github.com/MinusKelvin/cold-clear/board"
)

// well returns the index of the shallowest-height column, ties broken
// toward the highest index — the same linear scan as
// original_source/bot/src/evaluation/standard.rs's evaluate().
func well(heights [board.Width]int) int {
	return lo.Reduce(lo.Range(board.Width), func(w, x, _ int) int {
		if heights[x] <= heights[w] {
			return x
		}
		return w
	}, 0)
}

// wellDepth counts the consecutive rows, starting at the well column's
// height, in which every other column is filled, capped at maxDepth (0
// when there is no well).
func wellDepth(b board.Board, heights [board.Width]int, wellCol, maxDepth int) int {
	depth := 0
yloop:
	for y := heights[wellCol]; y < board.VisibleHeight; y++ {
		for x := 0; x < board.Width; x++ {
			if x != wellCol && !b.Occupied(x, y) {
				break yloop
			}
		}
		depth++
	}
	if depth > maxDepth {
		depth = maxDepth
	}
	return depth
}

// bumpiness sums the absolute height difference between adjacent
// columns, skipping the well column (it is expected to be low), and
// also returns the sum of squares. Grounded on the bumpiness() helper in
// original_source/bot/src/evaluation/standard.rs.
func bumpiness(heights [board.Width]int, wellCol int) (int, int) {
	sum, sumSq := 0, 0
	prev := lo.Ternary(wellCol == 0, 1, 0)
	for i := 1; i < board.Width; i++ {
		if i == wellCol {
			continue
		}
		dh := heights[prev] - heights[i]
		if dh < 0 {
			dh = -dh
		}
		sum += dh
		sumSq += dh * dh
		prev = i
	}
	return sum, sumSq
}

// rowTransitions counts, across every row up to the stack's highest
// point, the transitions between occupied and empty cells scanning
// left to right, treating both the left and right borders as solid
// (so a row that starts or ends empty always contributes at least one
// transition at that edge). Grounded on in_row_transitions in
// original_source/bot/src/evaluation/misalike.rs.
func rowTransitions(b board.Board, highest int) int {
	transitions := 0
	for y := 0; y < highest; y++ {
		last := true
		for x := 0; x < board.Width; x++ {
			occ := b.Occupied(x, y)
			if occ != last {
				transitions++
				last = occ
			}
		}
		if !last {
			transitions++
		}
	}
	return transitions
}

// cavitiesAndOverhangs flood-fills every unreachable empty region below
// each column's stack top and classifies it as a sealed cavity (no
// opening to a shorter neighbour) or an overhang (open to one side),
// mirroring cavities_and_overhangs() in
// original_source/bot/src/evaluation/standard.rs.
func cavitiesAndOverhangs(b board.Board, heights [board.Width]int) (int, int) {
	var checked [board.Height][board.Width]bool
	cavityCells, overhangCells := 0, 0

	for y := 0; y < board.Height; y++ {
		for x := 0; x < board.Width; x++ {
			if b.Occupied(x, y) || checked[y][x] || y >= heights[x] {
				continue
			}

			isOverhang := false
			size := 0
			type cell struct{ x, y int }
			queue := []cell{{x, y}}

			for len(queue) > 0 {
				c := queue[0]
				queue = queue[1:]
				if c.x < 0 || c.y < 0 || c.x >= board.Width || c.y >= board.Height {
					continue
				}
				if b.Occupied(c.x, c.y) || checked[c.y][c.x] {
					continue
				}
				if c.y >= heights[c.x] {
					if c.x >= 1 && c.y >= heights[c.x-1] {
						isOverhang = true
					}
					if c.x < board.Width-1 && c.y >= heights[c.x+1] {
						isOverhang = true
					}
					continue
				}
				checked[c.y][c.x] = true
				size++
				queue = append(queue, cell{c.x - 1, c.y}, cell{c.x, c.y - 1}, cell{c.x + 1, c.y}, cell{c.x, c.y + 1})
			}

			if isOverhang {
				overhangCells += size
			} else {
				cavityCells += size
			}
		}
	}

	return cavityCells, overhangCells
}

// coveredCells sums, for every empty cell at least two rows below its
// column's top filled cell, how many cells cover it (capped at 6), plus the sum
// of squares. Grounded on covered_cells() in
// original_source/bot/src/evaluation/standard.rs.
func coveredCells(b board.Board, heights [board.Width]int) (int, int) {
	covered, coveredSq := 0, 0
	for x := 0; x < board.Width; x++ {
		for y := heights[x] - 3; y >= 0; y-- {
			if !b.Occupied(x, y) {
				cells := heights[x] - y - 1
				if cells > 6 {
					cells = 6
				}
				covered += cells
				coveredSq += cells * cells
			}
		}
	}
	return covered, coveredSq
}
