package model

import (
	"encoding/binary"
	"math"
)

// vertexStride is the byte size of one marshalled GPUVertex.
const vertexStride = 20

// Mesh is an indexed triangle list in model space.
type Mesh struct {
	Vertices []GPUVertex
	Indices  []uint32
}

// VertexData packs every vertex into a single buffer for GPU upload.
//
// Returns:
//   - []byte: the tightly packed vertex buffer
func (m *Mesh) VertexData() []byte {
	buf := make([]byte, len(m.Vertices)*vertexStride)
	for i := range m.Vertices {
		m.Vertices[i].marshalInto(buf[i*vertexStride : (i+1)*vertexStride])
	}
	return buf
}

// IndexData packs the indices as little-endian uint32 values for GPU upload.
//
// Returns:
//   - []byte: the index buffer
func (m *Mesh) IndexData() []byte {
	buf := make([]byte, len(m.Indices)*4)
	for i, idx := range m.Indices {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], idx)
	}
	return buf
}

// IndexCount returns the number of indices to draw.
func (m *Mesh) IndexCount() int {
	return len(m.Indices)
}

// NewSphereMesh generates a UV sphere centred on the origin. Longitude u runs from 0 to 1 around
// the Y axis and latitude v runs from 0 at the north pole to 1 at the south pole, so an
// equirectangular image maps onto it without distortion at the seams.
//
// When inverted is true the X axis is mirrored. This flips the winding of every triangle so the
// front faces point at the centre of the sphere, and the image reads correctly (not mirrored)
// when viewed from inside.
//
// Parameters:
//   - radius: the sphere radius
//   - widthSegments: the number of longitudinal segments, at least 3
//   - heightSegments: the number of latitudinal segments, at least 2
//   - inverted: whether to mirror the sphere for viewing from the inside
//
// Returns:
//   - *Mesh: the generated sphere
func NewSphereMesh(radius float32, widthSegments, heightSegments int, inverted bool) *Mesh {
	widthSegments = max(3, widthSegments)
	heightSegments = max(2, heightSegments)

	mesh := &Mesh{
		Vertices: make([]GPUVertex, 0, (widthSegments+1)*(heightSegments+1)),
	}
	r := float64(radius)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		theta := v * math.Pi
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			phi := u * 2 * math.Pi

			x := -r * math.Cos(phi) * math.Sin(theta)
			if inverted {
				x = -x
			}
			mesh.Vertices = append(mesh.Vertices, GPUVertex{
				Position: [3]float32{float32(x), float32(r * math.Cos(theta)), float32(r * math.Sin(phi) * math.Sin(theta))},
				TexCoord: [2]float32{float32(u), float32(v)},
			})
		}
	}

	row := uint32(widthSegments + 1)
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			y, x := uint32(iy), uint32(ix)
			a := y*row + x + 1
			b := y*row + x
			c := (y+1)*row + x
			d := (y+1)*row + x + 1
			// The pole rows collapse to a point, so each contributes a single triangle per segment.
			if iy != 0 {
				mesh.Indices = append(mesh.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				mesh.Indices = append(mesh.Indices, b, c, d)
			}
		}
	}
	return mesh
}

// NewCircleMesh generates a filled disk in the XY plane facing +Z, built as a triangle fan
// around the origin. Texture coordinates map the disk into the unit square.
//
// Parameters:
//   - radius: the disk radius
//   - segments: the number of rim segments, at least 3
//
// Returns:
//   - *Mesh: the generated disk
func NewCircleMesh(radius float32, segments int) *Mesh {
	segments = max(3, segments)
	mesh := &Mesh{
		Vertices: make([]GPUVertex, 0, segments+2),
		Indices:  make([]uint32, 0, segments*3),
	}
	mesh.Vertices = append(mesh.Vertices, GPUVertex{TexCoord: [2]float32{0.5, 0.5}})
	for i := 0; i <= segments; i++ {
		angle := float64(i) / float64(segments) * 2 * math.Pi
		cos, sin := float32(math.Cos(angle)), float32(math.Sin(angle))
		mesh.Vertices = append(mesh.Vertices, GPUVertex{
			Position: [3]float32{radius * cos, radius * sin, 0},
			TexCoord: [2]float32{(cos + 1) / 2, (1 - sin) / 2},
		})
	}
	for i := uint32(1); i <= uint32(segments); i++ {
		mesh.Indices = append(mesh.Indices, 0, i, i+1)
	}
	return mesh
}

// NewTriangleMesh generates the minimap direction indicator: an isosceles triangle in the XY
// plane pointing up along +Y.
//
// Returns:
//   - *Mesh: the generated triangle
func NewTriangleMesh() *Mesh {
	return &Mesh{
		Vertices: []GPUVertex{
			{Position: [3]float32{0, 0.3, 0}, TexCoord: [2]float32{0.5, 0}},
			{Position: [3]float32{-0.2, -0.2, 0}, TexCoord: [2]float32{0, 1}},
			{Position: [3]float32{0.2, -0.2, 0}, TexCoord: [2]float32{1, 1}},
		},
		Indices: []uint32{0, 1, 2},
	}
}

// NewQuadMesh generates a unit square covering [0, 1] on X and Y. Scaled and translated it
// forms a screen-space rectangle, with UV (0, 0) at the origin corner.
//
// Returns:
//   - *Mesh: the generated quad
func NewQuadMesh() *Mesh {
	return &Mesh{
		Vertices: []GPUVertex{
			{Position: [3]float32{0, 0, 0}, TexCoord: [2]float32{0, 0}},
			{Position: [3]float32{1, 0, 0}, TexCoord: [2]float32{1, 0}},
			{Position: [3]float32{1, 1, 0}, TexCoord: [2]float32{1, 1}},
			{Position: [3]float32{0, 1, 0}, TexCoord: [2]float32{0, 1}},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}
