package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Shape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		tok := New()
		require.True(t, Valid(tok), "bad token %q", tok)
		seen[tok] = true
	}
	// 36^6 codes; a thousand draws colliding more than a couple of times means the source is broken.
	assert.Greater(t, len(seen), 995)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("AGR-ABC123"))
	assert.False(t, Valid("AGR-abc123"))
	assert.False(t, Valid("AGR-ABC12"))
	assert.False(t, Valid("XYZ-ABC123"))
	assert.False(t, Valid(""))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "", Preview(nil))
	assert.Equal(t, "AGR-v1:2|e1:1", Preview([]Line{{ProductID: "v1", Qty: 2}, {ProductID: "e1", Qty: 1}}))
}

// Golden vectors: these pin the hash and mixing sequence. They must never change.
func TestNewMatrix_Golden(t *testing.T) {
	cases := []struct {
		payload string
		rows    [][]int
	}{
		{"AGR-v1:2", [][]int{{1, 0, 1, 0, 0}, {0, 1, 1, 0, 0}, {0, 1, 0, 1, 0}, {0, 0, 0, 1, 1}, {0, 0, 0, 1, 0}}},
		{"AGR-ABC123", [][]int{{0, 1, 0, 0, 0}, {0, 1, 0, 1, 1}, {0, 0, 1, 1, 1}, {1, 1, 1, 0, 1}, {1, 0, 0, 0, 1}}},
		{"a", [][]int{{1, 1, 1, 0, 1}, {1, 0, 0, 1, 1}, {1, 0, 0, 0, 1}, {1, 0, 0, 1, 1}, {1, 1, 0, 0, 0}}},
		{"AGR-v1:2|e1:1", [][]int{{0, 1, 0, 0, 0}, {0, 0, 1, 1, 1}, {1, 1, 0, 1, 0}, {0, 0, 1, 1, 0}, {0, 1, 0, 1, 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.payload, func(t *testing.T) {
			assert.Equal(t, tc.rows, NewMatrix(tc.payload, DefaultSize).Rows())
		})
	}
}

func TestNewMatrix_EmptyPayload(t *testing.T) {
	m := NewMatrix("", DefaultSize)
	require.Equal(t, DefaultSize, m.Size())
	for _, row := range m.Rows() {
		assert.Equal(t, []int{0, 0, 0, 0, 0}, row)
	}
}

func TestNewMatrix_Pure(t *testing.T) {
	long := strings.Repeat("harvest|", 10000)
	a := NewMatrix(long, 8)
	b := NewMatrix(long, 8)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(NewMatrix(long+"x", 8)))
	assert.False(t, NewMatrix("AGR-AAAAAA", 5).Equal(NewMatrix("AGR-AAAAAB", 5)))
}

func TestNewMatrix_SizeAndBounds(t *testing.T) {
	assert.Equal(t, 0, NewMatrix("x", 0).Size())
	assert.Empty(t, NewMatrix("x", -3).Rows())

	m := NewMatrix("AGR-v1:2", 5)
	assert.True(t, m.At(0, 0))
	assert.False(t, m.At(0, 1))
	assert.False(t, m.At(5, 0))
	assert.False(t, m.At(-1, 2))

	// A larger grid starts with the same cells since mixing is sequential.
	big := NewMatrix("AGR-v1:2", 6).Rows()
	assert.Equal(t, []int{1, 0, 1, 0, 0}, big[0][:5])
}
