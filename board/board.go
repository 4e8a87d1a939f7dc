// Package board implements the 10x40 guideline playfield: collision
// checks, line clears, column heights and T-spin corner classification.
// Row and cell layout are grounded on original_source/libtetris/src/board.rs.
package board

import (
	"encoding/binary"
	"math/bits"

	"github.com/cespare/xxhash"

	"github.com/MinusKelvin/cold-clear/piece"
)

const (
	// Width is the number of playfield columns.
	Width = 10
	// Height is the total number of rows, including the hidden rows
	// above the visible 20-row field that pieces spawn and rotate into.
	Height = 40
	// VisibleHeight is the number of rows exposed across the client
	// boundary (spec.md §6: a 400-bool field is 10x20).
	VisibleHeight = 20

	fullRow = uint16(1<<Width - 1)
)

// Board is a 10-wide, 40-tall bitboard together with scoring state that
// travels with it (back-to-back flag, combo counter).
type Board struct {
	Rows  [Height]uint16
	B2B   bool
	Combo int
}

// New returns an empty board with combo broken (-1, per spec.md §3: the
// combo counter is -1 or 0 when broken).
func New() Board {
	return Board{Combo: -1}
}

// FromVisibleField decodes the 400-bool, row-major, index-0-bottom-left
// encoding used across the client boundary (spec.md §6) into the hidden
// 40-row board, placing the visible field at the bottom.
func FromVisibleField(field [Width * VisibleHeight]bool) Board {
	b := New()
	for y := 0; y < VisibleHeight; y++ {
		var row uint16
		for x := 0; x < Width; x++ {
			if field[y*Width+x] {
				row |= 1 << uint(x)
			}
		}
		b.Rows[y] = row
	}
	return b
}

// ToVisibleField encodes the bottom VisibleHeight rows back across the
// client boundary. Rows above VisibleHeight are dropped, matching the
// guideline convention that only the bottom 20 rows are ever shown.
func (b Board) ToVisibleField() [Width * VisibleHeight]bool {
	var out [Width * VisibleHeight]bool
	for y := 0; y < VisibleHeight; y++ {
		for x := 0; x < Width; x++ {
			out[y*Width+x] = b.Rows[y]&(1<<uint(x)) != 0
		}
	}
	return out
}

// Signature returns a compact fingerprint of the occupied cells, for
// correlating log lines across concurrent workers touching the same
// position. It is not a cache key: transposition detection is outside
// this package's scope (spec.md §4.5).
func (b Board) Signature() uint64 {
	var buf [Height * 2]byte
	for i, row := range b.Rows {
		binary.LittleEndian.PutUint16(buf[i*2:], row)
	}
	return xxhash.Sum64(buf[:])
}

// Occupied reports whether (x, y) is filled, out of the playfield's
// horizontal bounds, or below the floor; cells above the top row are
// empty. Out-of-bounds columns count as occupied so that
// T-spin corner checks against the walls behave like the guideline rule
// ("or out of bounds").
func (b Board) Occupied(x, y int) bool {
	if x < 0 || x >= Width {
		return true
	}
	if y < 0 {
		return true
	}
	if y >= Height {
		return false
	}
	return b.Rows[y]&(1<<uint(x)) != 0
}

// Collides reports whether s overlaps a filled cell or leaves the
// playfield's horizontal bounds or floor. The ceiling (y >= Height) is
// also a collision: pieces may not extend above the hidden buffer.
func (b Board) Collides(s piece.State) bool {
	for _, c := range s.Cells() {
		x, y := c[0], c[1]
		if x < 0 || x >= Width || y < 0 || y >= Height {
			return true
		}
		if b.Rows[y]&(1<<uint(x)) != 0 {
			return true
		}
	}
	return false
}

// Fits is the negation of Collides.
func (b Board) Fits(s piece.State) bool { return !b.Collides(s) }

// ColumnHeights returns, for each column, one plus the row index of its
// highest filled cell (0 if the column is empty).
func (b Board) ColumnHeights() [Width]int {
	var h [Width]int
	for y := Height - 1; y >= 0; y-- {
		row := b.Rows[y]
		if row == 0 {
			continue
		}
		for x := 0; x < Width; x++ {
			if h[x] == 0 && row&(1<<uint(x)) != 0 {
				h[x] = y + 1
			}
		}
		full := true
		for x := 0; x < Width; x++ {
			if h[x] == 0 {
				full = false
				break
			}
		}
		if full {
			break
		}
	}
	return h
}

// IsSupported reports whether s would collide if moved down one row,
// i.e. it is resting on something (floor or a filled cell).
func (b Board) IsSupported(s piece.State) bool {
	s.Y--
	return b.Collides(s)
}

// SonicDrop returns the state reached by moving s down as far as
// possible without colliding (a maximal soft drop / hard drop path).
func (b Board) SonicDrop(s piece.State) piece.State {
	for {
		next := s
		next.Y--
		if b.Collides(next) {
			return s
		}
		s = next
	}
}

// Lock merges s's cells into the board and clears any resulting full
// rows, returning the new board and the cleared row indices in
// bottom-up order (spec.md §4.1). Rows above cleared rows collapse down.
func (b Board) Lock(s piece.State) (Board, []int) {
	for _, c := range s.Cells() {
		x, y := c[0], c[1]
		if y >= 0 && y < Height {
			b.Rows[y] |= 1 << uint(x)
		}
	}
	var cleared []int
	for y := 0; y < Height; y++ {
		if b.Rows[y] == fullRow {
			cleared = append(cleared, y)
		}
	}
	if len(cleared) == 0 {
		return b, nil
	}
	write := 0
	for read := 0; read < Height; read++ {
		if b.Rows[read] == fullRow {
			continue
		}
		b.Rows[write] = b.Rows[read]
		write++
	}
	for ; write < Height; write++ {
		b.Rows[write] = 0
	}
	return b, cleared
}

// IsPerfectClear reports whether the board has no filled cells at all.
func (b Board) IsPerfectClear() bool {
	for _, r := range b.Rows {
		if r != 0 {
			return false
		}
	}
	return true
}

// Summit returns the highest occupied row index, or -1 if the board is
// empty.
func (b Board) Summit() int {
	for y := Height - 1; y >= 0; y-- {
		if b.Rows[y] != 0 {
			return y
		}
	}
	return -1
}

// PopCount returns the number of filled cells in row y.
func (b Board) PopCount(y int) int {
	if y < 0 || y >= Height {
		return 0
	}
	return bits.OnesCount16(b.Rows[y])
}
