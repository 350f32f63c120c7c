package retrieval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name   string
		a, b   []float64
		want   float64
		wantOK bool
	}{
		{
			name:   "identical vectors",
			a:      []float64{0.3, -1.2, 4.5, 0.01},
			b:      []float64{0.3, -1.2, 4.5, 0.01},
			want:   1,
			wantOK: true,
		},
		{
			name:   "scaled vectors",
			a:      []float64{1, 2, 3},
			b:      []float64{2, 4, 6},
			want:   1,
			wantOK: true,
		},
		{
			name:   "orthogonal vectors",
			a:      []float64{1, 0, 0},
			b:      []float64{0, 1, 0},
			want:   0,
			wantOK: true,
		},
		{
			name:   "opposite vectors",
			a:      []float64{1, -1},
			b:      []float64{-1, 1},
			want:   -1,
			wantOK: true,
		},
		{
			name:   "zero magnitude",
			a:      []float64{0, 0, 0},
			b:      []float64{1, 2, 3},
			wantOK: false,
		},
		{
			name:   "length mismatch",
			a:      []float64{1, 2},
			b:      []float64{1, 2, 3},
			wantOK: false,
		},
		{
			name:   "empty vectors",
			a:      nil,
			b:      nil,
			wantOK: false,
		},
		{
			name:   "NaN component",
			a:      []float64{math.NaN(), 1},
			b:      []float64{1, 1},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CosineSimilarity(tt.a, tt.b)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestCosineSimilarity_IsSymmetric(t *testing.T) {
	a := []float64{0.12, 0.5, -0.33, 0.9}
	b := []float64{-0.4, 0.2, 0.7, 0.05}

	ab, okAB := CosineSimilarity(a, b)
	ba, okBA := CosineSimilarity(b, a)

	assert.True(t, okAB)
	assert.True(t, okBA)
	assert.InDelta(t, ab, ba, 1e-12)
	assert.GreaterOrEqual(t, ab, -1.0)
	assert.LessOrEqual(t, ab, 1.0)
}
