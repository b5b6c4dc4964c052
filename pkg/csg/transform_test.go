package csg

import (
	"testing"

	"github.com/deadsy/sdfx/sdf"
	"github.com/stretchr/testify/require"
)

func TestMatrixApply(t *testing.T) {
	tests := []struct {
		name   string
		m      Matrix
		in     [3]float64
		want   [3]float64
		mirror bool
	}{
		{"identity", Identity(), [3]float64{1, 2, 3}, [3]float64{1, 2, 3}, false},
		{"translate", Translate(vec(1, -1, 2)), [3]float64{1, 2, 3}, [3]float64{2, 1, 5}, false},
		{"scale", Scale(vec(2, 3, 4)), [3]float64{1, 1, 1}, [3]float64{2, 3, 4}, false},
		{"mirror", Scale(vec(1, 1, -1)), [3]float64{1, 2, 3}, [3]float64{1, 2, -3}, true},
		{"rotate z", RotateEuler(0, 0, 90), [3]float64{1, 0, 0}, [3]float64{0, 1, 0}, false},
		{"rotate y", RotateEuler(0, 90, 0), [3]float64{0, 0, 1}, [3]float64{1, 0, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.Apply(vec(tt.in[0], tt.in[1], tt.in[2]))
			require.InDelta(t, tt.want[0], got.X, 1e-12)
			require.InDelta(t, tt.want[1], got.Y, 1e-12)
			require.InDelta(t, tt.want[2], got.Z, 1e-12)
			require.Equal(t, tt.mirror, tt.m.IsMirror())
		})
	}
}

func TestRotateEulerOrder(t *testing.T) {
	// X first: (0,1,0) -> (0,0,1); then Z leaves it alone.
	got := RotateEuler(90, 0, 90).Apply(vec(0, 1, 0))
	require.InDelta(t, 0.0, got.X, 1e-12)
	require.InDelta(t, 0.0, got.Y, 1e-12)
	require.InDelta(t, 1.0, got.Z, 1e-12)
}

func TestMatrixThen(t *testing.T) {
	m := Scale(vec(2, 2, 2)).Then(Translate(vec(1, 0, 0)))
	got := m.Apply(vec(1, 1, 1))
	require.InDelta(t, 3.0, got.X, 1e-12)
	require.InDelta(t, 2.0, got.Y, 1e-12)

	back := Translate(vec(1, 0, 0)).Then(Scale(vec(2, 2, 2)))
	got = back.Apply(vec(1, 1, 1))
	require.InDelta(t, 4.0, got.X, 1e-12)

	require.Equal(t, m.M44(), FromM44(m.M44()).M44())
}

func TestTransformAll(t *testing.T) {
	cube := unitCube()
	moved, err := TransformAll(cube, Translate(vec(0, 0, 10)).Then(Scale(vec(1, 2, 3))))
	require.NoError(t, err)
	require.Len(t, moved, 6)
	require.InDelta(t, 6.0, Volume(moved), 1e-9)

	box, ok := Bounds(moved)
	require.True(t, ok)
	require.InDelta(t, 28.5, box.Min.Z, 1e-9)
	require.InDelta(t, 31.5, box.Max.Z, 1e-9)

	_, err = TransformAll(cube, Scale(vec(0, 1, 1)))
	require.ErrorIs(t, err, ErrConstruction)
}

func TestTransformBox(t *testing.T) {
	b := sdf.Box3{Min: vec(-1, -1, -1), Max: vec(1, 1, 1)}
	got := TransformBox(b, RotateEuler(0, 0, 45))
	require.InDelta(t, -1.4142135623730951, got.Min.X, 1e-12)
	require.InDelta(t, 1.4142135623730951, got.Max.Y, 1e-12)
	require.InDelta(t, 1.0, got.Max.Z, 1e-12)

	got = TransformBox(b, Translate(vec(5, 0, 0)))
	require.InDelta(t, 4.0, got.Min.X, 1e-12)
	require.InDelta(t, 6.0, got.Max.X, 1e-12)
}
