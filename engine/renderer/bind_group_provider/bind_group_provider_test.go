package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProvider(t *testing.T) {
	a := NewBindGroupProvider("Sphere Material")
	b := NewBindGroupProvider("Sphere Material")

	assert.Equal(t, "Sphere Material", a.Label())
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.False(t, a.Initialized())
	assert.Nil(t, a.Buffer(0))
	assert.Nil(t, a.TextureView(1))
}

func TestReleaseOnEmptyProviderIsSafe(t *testing.T) {
	p := NewBindGroupProvider("empty")
	p.SetIndexCount(6)

	p.Release()
	p.Release()

	assert.Zero(t, p.IndexCount())
	assert.False(t, p.Initialized())
}
