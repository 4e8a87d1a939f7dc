package piece

import (
	"testing"

	"github.com/matryer/is"
)

func TestCellsFourDistinctCells(t *testing.T) {
	is := is.New(t)
	for k := Kind(0); k < NumKinds; k++ {
		for r := Rotation(0); r < NumRotations; r++ {
			s := State{Kind: k, Rotation: r, X: 4, Y: 20}
			cells := s.Cells()
			seen := map[[2]int]bool{}
			for _, c := range cells {
				is.True(!seen[c]) // no duplicate cells within a piece
				seen[c] = true
			}
		}
	}
}

func TestORotationIsIdentity(t *testing.T) {
	is := is.New(t)
	for r := Rotation(0); r < NumRotations; r++ {
		pts := RotationPoints(O, r)
		for _, p := range pts {
			is.Equal(p, [2]int{0, 0})
		}
	}
}

func TestParseKindRoundTrip(t *testing.T) {
	is := is.New(t)
	for k := Kind(0); k < NumKinds; k++ {
		parsed, ok := ParseKind(k.String()[0])
		is.True(ok)
		is.Equal(parsed, k)
	}
}

func TestCWCCWAreInverses(t *testing.T) {
	is := is.New(t)
	for r := Rotation(0); r < NumRotations; r++ {
		is.Equal(r.CW().CCW(), r)
	}
}
