package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectColumns(t *testing.T) {
	header := []string{"source_id", "ra", "dec", "parallax"}

	tests := []struct {
		name      string
		request   []string
		names     []string
		positions []int
		missing   []string
	}{
		{
			name:      "request order wins over header order",
			request:   []string{"dec", "source_id"},
			names:     []string{"dec", "source_id"},
			positions: []int{2, 0},
		},
		{
			name:      "unknown names are dropped",
			request:   []string{"ra", "nope", "dec"},
			names:     []string{"ra", "dec"},
			positions: []int{1, 2},
			missing:   []string{"nope"},
		},
		{
			name:      "empty request",
			request:   []string{},
			names:     []string{},
			positions: []int{},
		},
		{
			name:      "nothing matches",
			request:   []string{"a", "b"},
			names:     []string{},
			positions: []int{},
			missing:   []string{"a", "b"},
		},
		{
			name:      "duplicate request yields one column",
			request:   []string{"ra", "ra", "dec"},
			names:     []string{"ra", "dec"},
			positions: []int{1, 2},
		},
		{
			name:      "match is exact and case sensitive",
			request:   []string{"RA", " ra", "ra"},
			names:     []string{"ra"},
			positions: []int{1},
			missing:   []string{"RA", " ra"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := ProjectColumns(header, tt.request)
			assert.Equal(t, tt.names, set.Names())
			assert.Equal(t, tt.positions, set.Positions())
			assert.Equal(t, len(tt.names), set.Len())
			assert.Equal(t, tt.missing, set.Missing())
		})
	}
}

func TestProjectColumnsDuplicateHeaderFirstWins(t *testing.T) {
	set := ProjectColumns([]string{"a", "b", "a"}, []string{"a"})
	assert.Equal(t, []int{0}, set.Positions())
}

func TestProjectColumnsEmptyHeader(t *testing.T) {
	set := ProjectColumns(nil, []string{"a"})
	assert.Equal(t, 0, set.Len())
	assert.Equal(t, []string{"a"}, set.Missing())
}
