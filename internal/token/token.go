// Package token derives order tokens and the fixed bit matrix painted as a
// pickup scan code.
package token

import (
	"encoding/binary"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/google/uuid"
)

const (
	Prefix = "AGR-"
	// Length of the random part of an order token.
	Length = 6
	// DefaultSize is the side of the matrix rendered next to an order token.
	DefaultSize = 5
)

// New returns a fresh order token such as "AGR-K3Z9Q1". Tokens are not
// derived from order content; uniqueness is enforced by storage.
func New() string {
	id := uuid.New()
	v := binary.BigEndian.Uint64(id[:8]) ^ binary.BigEndian.Uint64(id[8:])
	s := strings.ToUpper(strconv.FormatUint(v, 36))
	if len(s) < Length {
		s = strings.Repeat("0", Length-len(s)) + s
	}
	return Prefix + s[len(s)-Length:]
}

// Valid reports whether s has the shape of a token produced by New.
func Valid(s string) bool {
	if !strings.HasPrefix(s, Prefix) || len(s) != len(Prefix)+Length {
		return false
	}
	for _, r := range s[len(Prefix):] {
		if !(r >= '0' && r <= '9' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

// Line is the part of a cart line that feeds a preview token.
type Line struct {
	ProductID string
	Qty       int
}

// Preview renders the content-derived display token shown in the cart
// drawer, e.g. "AGR-v1:2|e1:1". Empty input yields "".
func Preview(lines []Line) string {
	if len(lines) == 0 {
		return ""
	}
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, l.ProductID+":"+strconv.Itoa(l.Qty))
	}
	return Prefix + strings.Join(parts, "|")
}

// Matrix is a square grid of bits in row-major order.
type Matrix struct {
	size int
	bits []bool
}

// NewMatrix derives an n×n matrix from payload. It is a pure function and the
// mixing below must never change: a uint32 accumulator starts at zero and
// folds every UTF-16 code unit as h = h*31 + c; then, for each cell in
// row-major order, h is mixed with xorshift (<<13, >>17, <<5) and the low bit
// becomes the cell. n < 1 yields an empty matrix.
func NewMatrix(payload string, n int) Matrix {
	if n < 1 {
		return Matrix{}
	}
	var h uint32
	for _, c := range utf16.Encode([]rune(payload)) {
		h = h*31 + uint32(c)
	}
	bits := make([]bool, n*n)
	for i := range bits {
		h ^= h << 13
		h ^= h >> 17
		h ^= h << 5
		bits[i] = h&1 == 1
	}
	return Matrix{size: n, bits: bits}
}

func (m Matrix) Size() int { return m.size }

// At reports the cell at row r, column c. Out-of-range cells are false.
func (m Matrix) At(r, c int) bool {
	if r < 0 || c < 0 || r >= m.size || c >= m.size {
		return false
	}
	return m.bits[r*m.size+c]
}

// Rows returns the grid as 0/1 rows for rendering collaborators.
func (m Matrix) Rows() [][]int {
	rows := make([][]int, m.size)
	for r := range rows {
		row := make([]int, m.size)
		for c := range row {
			if m.bits[r*m.size+c] {
				row[c] = 1
			}
		}
		rows[r] = row
	}
	return rows
}

func (m Matrix) Equal(o Matrix) bool {
	if m.size != o.size {
		return false
	}
	for i := range m.bits {
		if m.bits[i] != o.bits[i] {
			return false
		}
	}
	return true
}
