package mesh

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// Mesh is an indexed triangle mesh with per-vertex attributes. It is used both
// for single primitives (one atom sphere, one bond cylinder) and for the merged
// geometry of a whole structure.
//
// Positions, Normals and Colors always have the same length. Every value
// in Indices is less than that length and len(Indices) is a multiple of 3.
type Mesh struct {
	Positions []ms3.Vec
	Normals   []ms3.Vec
	Colors    []Color
	Indices   []uint32
}

// Empty returns a mesh with no vertices and no triangles.
func Empty() Mesh {
	return Mesh{
		Positions: []ms3.Vec{},
		Normals:   []ms3.Vec{},
		Colors:    []Color{},
		Indices:   []uint32{},
	}
}

// NumVertices returns the number of vertices in the mesh.
func (m *Mesh) NumVertices() int { return len(m.Positions) }

// NumTriangles returns the number of indexed triangles in the mesh.
func (m *Mesh) NumTriangles() int { return len(m.Indices) / 3 }

// IsEmpty reports whether the mesh has no vertices.
func (m *Mesh) IsEmpty() bool { return len(m.Positions) == 0 }

// Validate checks the attribute length and index range invariants.
func (m *Mesh) Validate() error {
	nv := len(m.Positions)
	if len(m.Normals) != nv || len(m.Colors) != nv {
		return fmt.Errorf("attribute length mismatch: %d positions, %d normals, %d colors", nv, len(m.Normals), len(m.Colors))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index count %d not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= nv {
			return fmt.Errorf("index %d at position %d out of range for %d vertices", idx, i, nv)
		}
	}
	for i, p := range m.Positions {
		if bad3F32(p) {
			return fmt.Errorf("inf/NaN vertex position at %d", i)
		}
	}
	return nil
}

// Triangles returns the triangle list of the mesh.
func (m *Mesh) Triangles() []ms3.Triangle {
	tris := make([]ms3.Triangle, 0, m.NumTriangles())
	for i := 0; i+2 < len(m.Indices); i += 3 {
		tris = append(tris, ms3.Triangle{
			m.Positions[m.Indices[i]],
			m.Positions[m.Indices[i+1]],
			m.Positions[m.Indices[i+2]],
		})
	}
	return tris
}

// Bounds returns the axis aligned bounding box of the vertex positions.
// The zero Box is returned for an empty mesh.
func (m *Mesh) Bounds() ms3.Box {
	if len(m.Positions) == 0 {
		return ms3.Box{}
	}
	bb := ms3.Box{Min: m.Positions[0], Max: m.Positions[0]}
	for _, p := range m.Positions[1:] {
		bb.Min = ms3.MinElem(bb.Min, p)
		bb.Max = ms3.MaxElem(bb.Max, p)
	}
	return bb
}

// fill returns a slice of n copies of c.
func fill(c Color, n int) []Color {
	colors := make([]Color, n)
	for i := range colors {
		colors[i] = c
	}
	return colors
}

func bad3F32(v ms3.Vec) bool {
	return math32.IsNaN(v.X) || math32.IsInf(v.X, 0) ||
		math32.IsNaN(v.Y) || math32.IsInf(v.Y, 0) ||
		math32.IsNaN(v.Z) || math32.IsInf(v.Z, 0)
}

// DegenerateGeometryError is returned when a primitive cannot be built
// because its defining dimensions collapse, such as a zero length cylinder.
// It is local to one primitive; callers may skip it and continue.
type DegenerateGeometryError struct {
	Primitive string
	Length    float32
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("degenerate %s: length %g", e.Primitive, e.Length)
}

var errEmptyMesh = errors.New("empty mesh")
