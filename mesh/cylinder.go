package mesh

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// minCylinderLength is the shortest axis a cylinder may have.
const minCylinderLength = 1e-6

// CylinderSize returns the number of vertices and indices of a cylinder
// built with the given number of segments.
func CylinderSize(segments int) (nVtx, nIdx int) {
	return 2 * (segments + 1), 6 * segments
}

// Cylinder returns an open tube of the given radius running from p0 to p1.
// Normals point radially outward and every vertex has color c.
// A *DegenerateGeometryError is returned when p0 and p1 coincide.
func Cylinder(p0, p1 ms3.Vec, radius float32, segments int, c Color) (Mesh, error) {
	if radius <= 0 {
		panic("radius <= 0")
	}
	if segments < 3 {
		panic("cylinder segments < 3")
	}
	axis := ms3.Sub(p1, p0)
	length := ms3.Norm(axis)
	if !(length > minCylinderLength) || math32.IsInf(length, 0) {
		return Mesh{}, &DegenerateGeometryError{Primitive: "cylinder", Length: length}
	}
	d := ms3.Scale(1/length, axis)
	u, v := orthonormalBasis(d)

	nVtx, nIdx := CylinderSize(segments)
	m := Mesh{
		Positions: make([]ms3.Vec, 0, nVtx),
		Normals:   make([]ms3.Vec, 0, nVtx),
		Colors:    fill(c, nVtx),
		Indices:   make([]uint32, 0, nIdx),
	}
	for _, base := range [2]ms3.Vec{p0, p1} {
		for k := 0; k <= segments; k++ {
			var s, co float32 = 0, 1
			if k != segments {
				s, co = math32.Sincos(float32(k) * 2 * math32.Pi / float32(segments))
			}
			n := ms3.Add(ms3.Scale(co, u), ms3.Scale(s, v))
			m.Positions = append(m.Positions, ms3.Add(base, ms3.Scale(radius, n)))
			m.Normals = append(m.Normals, n)
		}
	}
	ring := uint32(segments + 1)
	for k := uint32(0); k < uint32(segments); k++ {
		b0, b1 := k, k+1
		t0, t1 := k+ring, k+1+ring
		m.Indices = append(m.Indices, b0, b1, t0, t0, b1, t1)
	}
	return m, nil
}

// orthonormalBasis returns two unit vectors perpendicular to the unit
// vector d and to each other, such that (u, v, d) is right handed.
func orthonormalBasis(d ms3.Vec) (u, v ms3.Vec) {
	ref := ms3.Vec{Z: 1}
	if math32.Abs(ms3.Dot(d, ref)) > 0.9 {
		ref = ms3.Vec{Y: 1}
	}
	u = ms3.Unit(ms3.Cross(d, ref))
	v = ms3.Cross(d, u)
	return u, v
}
