package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewport_SetScale_Clamped(t *testing.T) {
	tests := []struct {
		name      string
		requested float64
		want      float64
	}{
		{"below minimum", 0.01, 0.1},
		{"at minimum", 0.1, 0.1},
		{"in range", 1.5, 1.5},
		{"at maximum", 4, 4},
		{"above maximum", 10, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViewport(800, 600)
			v.SetScale(tt.requested)
			assert.Equal(t, tt.want, v.Scale)
		})
	}
}

func TestViewport_ZoomBy_KeepsPointStationary(t *testing.T) {
	v := NewViewport(800, 600)
	v.Pan(40, -20)

	wx, wy := v.ToWorld(400, 300)
	v.ZoomBy(1.5, 400, 300)

	wx2, wy2 := v.ToWorld(400, 300)
	assert.InDelta(t, wx, wx2, 1e-9)
	assert.InDelta(t, wy, wy2, 1e-9)
	assert.InDelta(t, 1.5, v.Scale, 1e-9)
}

func TestViewport_ZoomBy_ClampedAtBounds(t *testing.T) {
	v := NewViewport(800, 600)

	for i := 0; i < 20; i++ {
		v.ZoomBy(2, 400, 300)
	}
	assert.Equal(t, MaxScale, v.Scale)

	for i := 0; i < 40; i++ {
		v.ZoomBy(0.5, 400, 300)
	}
	assert.Equal(t, MinScale, v.Scale)
}

func TestViewport_Reset(t *testing.T) {
	v := NewViewport(800, 600)
	v.Pan(100, 50)
	v.SetScale(2)

	v.Reset()

	assert.Equal(t, 0.0, v.TranslateX)
	assert.Equal(t, 0.0, v.TranslateY)
	assert.Equal(t, 1.0, v.Scale)
}

func TestViewport_Transform(t *testing.T) {
	v := NewViewport(800, 600)
	v.Pan(10, 20)
	v.SetScale(2)

	assert.Equal(t, "translate(10.00,20.00) scale(2.000)", v.Transform())
}
