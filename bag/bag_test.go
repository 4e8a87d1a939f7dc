package bag

import (
	"testing"

	"github.com/matryer/is"

	"github.com/MinusKelvin/cold-clear/piece"
)

func TestAddRemovesFromBag(t *testing.T) {
	is := is.New(t)
	q := New()
	q = q.Add(piece.T, true)
	is.True(!q.Bag.Contains(piece.T))
	is.True(q.Bag.Contains(piece.I))
}

func TestBagRefillsWhenEmpty(t *testing.T) {
	is := is.New(t)
	q := New()
	order := []piece.Kind{piece.I, piece.O, piece.T, piece.L, piece.J, piece.S, piece.Z}
	for _, k := range order {
		q = q.Add(k, true)
	}
	is.True(q.Bag.IsEmpty())
	q = q.Add(piece.I, true)
	is.True(!q.Bag.IsEmpty())
	is.Equal(len(q.Bag.Remaining()), 6)
}

func TestSpeculativeMismatchRefills(t *testing.T) {
	is := is.New(t)
	q := New()
	q = q.Add(piece.I, true) // bag now missing I
	// Adding I again while speculating (I not in bag) triggers a refill.
	q = q.Add(piece.I, true)
	is.Equal(len(q.Bag.Remaining()), 6)
}

func TestNonSpeculativeAcceptsAnything(t *testing.T) {
	is := is.New(t)
	q := New()
	q = q.Add(piece.I, false)
	q = q.Add(piece.I, false) // not in bag, but speculate=false is permissive
	is.Equal(q.Len(), 2)
}

func TestAdvancePreservesLaterEntries(t *testing.T) {
	is := is.New(t)
	q := New()
	q = q.Add(piece.T, true).Add(piece.S, true)
	first, rest, ok := q.Advance()
	is.True(ok)
	is.Equal(first, piece.T)
	is.Equal(rest.Len(), 1)
	next, ok := rest.Peek()
	is.True(ok)
	is.Equal(next, piece.S)
}

func TestAdvanceEmptyQueue(t *testing.T) {
	is := is.New(t)
	q := New()
	_, _, ok := q.Advance()
	is.True(!ok)
}
