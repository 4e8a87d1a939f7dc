// Package movegen enumerates the unique final placements reachable for a
// piece on a board, together with a canonical input path for each,
// grounded on the BFS structure of original_source/bot/src/moves.rs
// (find_moves/lock_check).
package movegen

import (
	"sort"

	"github.com/MinusKelvin/cold-clear/board"
	"github.com/MinusKelvin/cold-clear/piece"
)

// Token is one of the movement alphabet symbols from spec.md §3.
type Token int

const (
	Left Token = iota
	Right
	CW
	CCW
	Drop
)

func (t Token) String() string {
	switch t {
	case Left:
		return "Left"
	case Right:
		return "Right"
	case CW:
		return "CW"
	case CCW:
		return "CCW"
	case Drop:
		return "Drop"
	default:
		return "?"
	}
}

// MaxTokens is the movement-sequence cap from spec.md §3/§4.2.
const MaxTokens = 32

// Mode selects the permitted movement alphabet and gravity model used
// while exploring reachable placements (spec.md §4.2).
type Mode int

const (
	Mode0G Mode = iota
	Mode20G
	ModeHardDropOnly
)

// SpawnRule controls where a piece first appears (spec.md §4.2).
type SpawnRule int

const (
	SpawnRow19Or20 SpawnRule = iota
	SpawnRow21AndFall
)

// spawnY returns the anchor row a piece appears on for a given rule.
// Row indices are 0-based from the bottom of the hidden 40-row board;
// row 19 in the visible field corresponds to board row 19 here.
func spawnY(rule SpawnRule) int {
	if rule == SpawnRow21AndFall {
		return 21
	}
	return 19
}

// Move is a placement plus the canonical path that reaches it, matching
// spec.md §3's Move type. Hold is set by the caller (the search tree),
// not by Generate, since it is not a property of a single-piece BFS.
type Move struct {
	Kind  piece.Kind
	Final piece.State
	Cells [4][2]int
	Spin  board.SpinStatus
	Path  []Token
	Hold  bool
}

type frontierState struct {
	state piece.State
	spin  board.SpinStatus
}

type lockKey struct {
	cells [4][2]int
	spin  board.SpinStatus
}

// canonicalCells sorts a piece's occupied cells so that two rotation
// labels covering the same absolute cell set collapse to one key (e.g.
// I-north and I-south both resting flat on an empty floor).
func canonicalCells(cells [4][2]int) [4][2]int {
	sort.Slice(cells[:], func(i, j int) bool {
		if cells[i][1] != cells[j][1] {
			return cells[i][1] < cells[j][1]
		}
		return cells[i][0] < cells[j][0]
	})
	return cells
}

// Generate returns every unique final placement reachable for kind on b,
// tagged with a canonical (shortest-first) input path. Uniqueness is by
// (final cell set, spin status); see spec.md §4.2.
func Generate(b board.Board, kind piece.Kind, mode Mode, spawnRule SpawnRule) []Move {
	spawn := piece.Spawn(kind, spawnY(spawnRule))
	if b.Collides(spawn) {
		return nil
	}

	if mode == ModeHardDropOnly {
		return generateHardDropOnly(b, spawn)
	}

	type item struct {
		path []Token
		fs   frontierState
	}

	visited := map[frontierState]bool{}
	locks := map[lockKey]Move{}

	start := frontierState{state: spawn, spin: board.NoSpin}
	visited[start] = true
	queue := []item{{path: nil, fs: start}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		recordCandidate(b, kind, cur.path, cur.fs, locks)

		if len(cur.path) > MaxTokens-2 {
			// No room left for another token plus the trailing Drop.
			continue
		}

		for _, mv := range []Token{Left, Right, CW, CCW} {
			if kind == piece.O && (mv == CW || mv == CCW) {
				continue
			}
			ns, spin, ok := step(b, cur.fs.state, cur.fs.spin, mv)
			if !ok {
				continue
			}
			ns, spin = applyGravityTick(b, ns, spin, mode)
			nfs := frontierState{state: ns, spin: spin}
			if visited[nfs] {
				continue
			}
			visited[nfs] = true
			path := make([]Token, len(cur.path)+1)
			copy(path, cur.path)
			path[len(cur.path)] = mv
			queue = append(queue, item{path: path, fs: nfs})
		}
	}

	out := make([]Move, 0, len(locks))
	for _, m := range locks {
		out = append(out, m)
	}
	return out
}

// step applies a single movement token to state s, returning the
// resulting state and its updated spin flag (reset to NoSpin on any
// successful shift, or re-classified on a successful rotation), per
// original_source/libtetris/src/piece.rs shift()/rotate().
func step(b board.Board, s piece.State, spin board.SpinStatus, mv Token) (piece.State, board.SpinStatus, bool) {
	switch mv {
	case Left, Right:
		dx := -1
		if mv == Right {
			dx = 1
		}
		ns := s
		ns.X += dx
		if b.Collides(ns) {
			return s, spin, false
		}
		return ns, board.NoSpin, true
	case CW, CCW:
		target := s.Rotation.CW()
		if mv == CCW {
			target = s.Rotation.CCW()
		}
		from := piece.RotationPoints(s.Kind, s.Rotation)
		to := piece.RotationPoints(s.Kind, target)
		for i := 0; i < 5; i++ {
			ns := s
			ns.Rotation = target
			ns.X = s.X + from[i][0] - to[i][0]
			ns.Y = s.Y + from[i][1] - to[i][1]
			if b.Collides(ns) {
				continue
			}
			newSpin := board.NoSpin
			if ns.Kind == piece.T {
				newSpin = b.ClassifyTSpin(ns, true, i)
			}
			return ns, newSpin, true
		}
		return s, spin, false
	}
	return s, spin, false
}

// applyGravityTick advances s under the mode's gravity model between
// player inputs: a single row under 0g (enabling tucks and spins under
// overhangs, spec.md §4.2), or a full sonic drop under 20g. Any actual
// downward movement resets a pending T-spin flag, matching sonic_drop()
// in original_source/libtetris/src/piece.rs.
func applyGravityTick(b board.Board, s piece.State, spin board.SpinStatus, mode Mode) (piece.State, board.SpinStatus) {
	switch mode {
	case Mode20G:
		dropped := b.SonicDrop(s)
		if dropped.Y != s.Y {
			return dropped, board.NoSpin
		}
		return dropped, spin
	default: // Mode0G
		down := s
		down.Y--
		if b.Collides(down) {
			return s, spin
		}
		return down, board.NoSpin
	}
}

// recordCandidate sonic-drops fs.state to its resting position and, if
// the (cell set, spin) pair is new or reached by a shorter path, records
// it keyed by that pair.
func recordCandidate(b board.Board, kind piece.Kind, path []Token, fs frontierState, locks map[lockKey]Move) {
	if len(path) > MaxTokens-1 {
		return
	}
	dropped := b.SonicDrop(fs.state)
	spin := fs.spin
	if dropped.Y != fs.state.Y {
		spin = board.NoSpin
	}
	key := lockKey{cells: canonicalCells(dropped.Cells()), spin: spin}
	full := make([]Token, len(path)+1)
	copy(full, path)
	full[len(path)] = Drop
	if existing, ok := locks[key]; ok && len(existing.Path) <= len(full) {
		return
	}
	locks[key] = Move{
		Kind:  kind,
		Final: dropped,
		Cells: key.cells,
		Spin:  spin,
		Path:  full,
	}
}

// generateHardDropOnly enumerates rotations reachable directly from
// spawn (no horizontal motion) followed by exactly one Drop token, per
// spec.md §4.2/§8's hard_drop_only contract.
func generateHardDropOnly(b board.Board, spawn piece.State) []Move {
	locks := map[lockKey]Move{}
	visited := map[piece.Rotation]bool{spawn.Rotation: true}
	type item struct {
		path  []Token
		state piece.State
		spin  board.SpinStatus
	}
	queue := []item{{state: spawn, spin: board.NoSpin}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		recordCandidate(b, spawn.Kind, cur.path, frontierState{state: cur.state, spin: cur.spin}, locks)
		if spawn.Kind == piece.O || len(cur.path) >= MaxTokens-1 {
			continue
		}
		for _, mv := range []Token{CW, CCW} {
			ns, spin, ok := step(b, cur.state, cur.spin, mv)
			if !ok || visited[ns.Rotation] {
				continue
			}
			visited[ns.Rotation] = true
			path := make([]Token, len(cur.path)+1)
			copy(path, cur.path)
			path[len(cur.path)] = mv
			queue = append(queue, item{path: path, state: ns, spin: spin})
		}
	}
	out := make([]Move, 0, len(locks))
	for _, m := range locks {
		out = append(out, m)
	}
	return out
}
