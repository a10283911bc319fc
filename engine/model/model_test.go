package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func faceOrientation(mesh *Mesh, tri int) float32 {
	pos := func(i uint32) mgl32.Vec3 {
		p := mesh.Vertices[i].Position
		return mgl32.Vec3{p[0], p[1], p[2]}
	}
	a := pos(mesh.Indices[tri*3])
	b := pos(mesh.Indices[tri*3+1])
	c := pos(mesh.Indices[tri*3+2])
	normal := b.Sub(a).Cross(c.Sub(a))
	centroid := a.Add(b).Add(c).Mul(1.0 / 3)
	return normal.Dot(centroid)
}

func TestSphereMeshTopology(t *testing.T) {
	mesh := NewSphereMesh(500, 60, 40, true)

	assert.Len(t, mesh.Vertices, 61*41)
	// Two triangles per quad, minus one per segment on each pole row.
	assert.Equal(t, (60*40*2-2*60)*3, mesh.IndexCount())
	for _, idx := range mesh.Indices {
		require.Less(t, int(idx), len(mesh.Vertices))
	}
	for _, v := range mesh.Vertices {
		p := mgl32.Vec3{v.Position[0], v.Position[1], v.Position[2]}
		assert.InDelta(t, 500, p.Len(), 1e-2)
		assert.GreaterOrEqual(t, v.TexCoord[0], float32(0))
		assert.LessOrEqual(t, v.TexCoord[1], float32(1))
	}
}

func TestSphereMeshInversionFacesInward(t *testing.T) {
	outward := NewSphereMesh(10, 16, 8, false)
	inward := NewSphereMesh(10, 16, 8, true)

	for tri := 0; tri < outward.IndexCount()/3; tri++ {
		assert.Positive(t, faceOrientation(outward, tri), "triangle %d", tri)
		assert.Negative(t, faceOrientation(inward, tri), "triangle %d", tri)
	}
}

func TestSphereMeshClampsSegments(t *testing.T) {
	mesh := NewSphereMesh(1, 0, 0, false)
	assert.Len(t, mesh.Vertices, 4*3)
}

func TestFlatMeshesFacePositiveZ(t *testing.T) {
	for name, mesh := range map[string]*Mesh{
		"circle":   NewCircleMesh(1, 32),
		"triangle": NewTriangleMesh(),
		"quad":     NewQuadMesh(),
	} {
		for tri := 0; tri < mesh.IndexCount()/3; tri++ {
			a := mesh.Vertices[mesh.Indices[tri*3]].Position
			b := mesh.Vertices[mesh.Indices[tri*3+1]].Position
			c := mesh.Vertices[mesh.Indices[tri*3+2]].Position
			z := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
			assert.Positive(t, z, "%s triangle %d", name, tri)
		}
	}
}

func TestMeshData(t *testing.T) {
	mesh := NewQuadMesh()

	vertices := mesh.VertexData()
	require.Len(t, vertices, 4*vertexStride)
	assert.Equal(t, vertexStride, (&GPUVertex{}).Size())
	// Third vertex: position (1, 1, 0), uv (1, 1).
	off := 2 * vertexStride
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(vertices[off+4:off+8])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(vertices[off+16:off+20])))

	indices := mesh.IndexData()
	require.Len(t, indices, 6*4)
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(indices[20:24]))
}

func TestModelMatrix(t *testing.T) {
	m := NewModel(NewTriangleMesh(), material.NewMaterial(),
		WithLabel("indicator"),
		WithPosition(mgl32.Vec3{10, 20, 0}),
		WithScale(mgl32.Vec3{2, 2, 1}),
		WithRotationZ(math.Pi/2),
	)

	assert.Equal(t, "indicator", m.Label())
	assert.True(t, m.Visible())

	// Apex (0, 0.3) scales to (0, 0.6), rotates to (-0.6, 0), then translates.
	apex := m.ModelMatrix().Mul4x1(mgl32.Vec4{0, 0.3, 0, 1})
	assert.InDelta(t, 9.4, apex.X(), 1e-5)
	assert.InDelta(t, 20, apex.Y(), 1e-5)

	m.SetVisible(false)
	assert.False(t, m.Visible())
}
