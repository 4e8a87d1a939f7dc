// Package piece defines the seven guideline piece kinds, their four
// rotation states, the cell shapes they occupy, and the SRS kick and
// T-spin corner tables used by movegen and board when a piece rotates.
package piece

// Kind is one of the seven guideline piece kinds.
type Kind int

const (
	I Kind = iota
	O
	T
	L
	J
	S
	Z
	NumKinds
)

func (k Kind) String() string {
	if k < 0 || k >= NumKinds {
		return "?"
	}
	return "IOTLJSZ"[k : k+1]
}

// ParseKind maps a single upper-case letter to its Kind.
func ParseKind(c byte) (Kind, bool) {
	switch c {
	case 'I':
		return I, true
	case 'O':
		return O, true
	case 'T':
		return T, true
	case 'L':
		return L, true
	case 'J':
		return J, true
	case 'S':
		return S, true
	case 'Z':
		return Z, true
	}
	return 0, false
}

// Rotation is one of the four SRS rotation states.
type Rotation int

const (
	North Rotation = iota
	East
	South
	West
	NumRotations
)

// CW returns the rotation state reached by a clockwise turn.
func (r Rotation) CW() Rotation { return (r + 1) % NumRotations }

// CCW returns the rotation state reached by a counter-clockwise turn.
func (r Rotation) CCW() Rotation { return (r + NumRotations - 1) % NumRotations }

// Cell is a relative (dx, dy) offset from a piece state's anchor.
type Cell struct{ DX, DY int }

// State is a piece's kind, rotation and anchor position. (X, Y) is the
// anchor cell used by Cells to compute the four occupied board cells;
// it does not need to itself be a filled cell.
type State struct {
	Kind     Kind
	Rotation Rotation
	X, Y     int
}

// Cells returns the four absolute (x, y) cells this state occupies.
func (s State) Cells() [4][2]int {
	shape := cellTable[s.Kind][s.Rotation]
	var out [4][2]int
	for i, c := range shape {
		out[i] = [2]int{s.X + c.DX, s.Y + c.DY}
	}
	return out
}

// Spawn returns the default spawn state for kind, anchored at (4, y).
func Spawn(k Kind, y int) State {
	return State{Kind: k, Rotation: North, X: 4, Y: y}
}

// RotationPoints returns the five SRS rotation points (dx, dy) of kind k
// at rotation r. The i'th kick tried when rotating from a to b is
// RotationPoints(k, a)[i] minus RotationPoints(k, b)[i]. The first entry
// is always (0, 0). O never rotates and returns five (0, 0) points.
func RotationPoints(k Kind, r Rotation) [5][2]int {
	if k == O {
		return [5][2]int{}
	}
	if k == I {
		return iRotationPoints[r]
	}
	return jlstzRotationPoints[r]
}

// TSpinCorners returns the two "mini" corners and two "non-mini" (front)
// corners relative to a T piece's anchor at rotation r, per the guideline
// T-spin detection rule described in original_source/libtetris/src/piece.rs.
func TSpinCorners(r Rotation) (mini, front [2][2]int) {
	return tMiniCorners[r], tFrontCorners[r]
}
