package common

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(5, 1, 10))
	assert.Equal(t, 1, Clamp(-3, 1, 10))
	assert.Equal(t, 10, Clamp(42, 1, 10))
	assert.Equal(t, float32(100), Clamp(float32(0.1), 100, 500))
}

func TestWrapAngle(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{math.Pi, -math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{4*math.Pi + 0.25, 0.25},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, WrapAngle(float32(c.in)), 1e-5, "WrapAngle(%v)", c.in)
	}
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(1, 2, -3))
	assert.False(t, IsFinite(1, float32(math.NaN())))
	assert.False(t, IsFinite(float32(math.Inf(-1))))
}

func TestRectIntersectAndContains(t *testing.T) {
	surface := Rect{Width: 800, Height: 600}
	minimap := Rect{X: 630, Y: 20, Width: 150, Height: 150}

	assert.Equal(t, minimap, surface.Intersect(minimap))
	assert.True(t, minimap.Contains(700, 100))
	assert.False(t, minimap.Contains(780, 100))

	clipped := Rect{Width: 100, Height: 100}.Intersect(Rect{X: 90, Y: 90, Width: 50, Height: 50})
	assert.Equal(t, Rect{X: 90, Y: 90, Width: 10, Height: 10}, clipped)
	assert.True(t, Rect{Width: 10}.Intersect(Rect{X: 20, Width: 5, Height: 5}).Empty())
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#666666")
	require.NoError(t, err)
	assert.InDelta(t, 0.4, c.R, 1e-6)
	assert.Equal(t, float32(1), c.A)

	_, err = ParseHexColor("#12345")
	assert.Error(t, err)
	_, err = ParseHexColor("zzzzzz")
	assert.Error(t, err)
}

func TestColorLinearAndSolidTexture(t *testing.T) {
	lin := ColorFromHex(0xffffff, 0.5).Linear()
	assert.InDelta(t, 1, lin.R, 1e-6)
	assert.Equal(t, float32(0.5), lin.A)

	mid := ColorFromHex(0x808080, 1).Linear()
	assert.InDelta(t, 0.2158, mid.G, 1e-3)

	tex := SolidTexture(ColorFromHex(0xff0000, 1))
	assert.True(t, tex.Valid())
	assert.Equal(t, []byte{255, 0, 0, 255}, tex.Pixels)
}

func TestDefaultLoggerLevels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWriterLogger("viewer", false, &out, &errOut)

	l.Debugf("hidden %d", 1)
	assert.Empty(t, out.String())

	l.SetDebug(true)
	l.Debugf("shown %d", 2)
	l.Infof("mounted")
	l.Warnf("texture %q failed", "a.jpg")

	assert.Contains(t, out.String(), "[viewer] DEBUG: shown 2")
	assert.Contains(t, out.String(), "[viewer] INFO: mounted")
	assert.Contains(t, errOut.String(), `[viewer] WARN: texture "a.jpg" failed`)
}
