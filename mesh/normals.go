package mesh

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// SmoothNormals recomputes Normals as angle weighted pseudo normals.
// Vertices whose positions quantize to the same point with tolerance tol
// share a single normal, so seams and poles of a primitive shade smoothly.
// Degenerate triangles do not contribute.
func (m *Mesh) SmoothNormals(tol float32) {
	if tol <= 0 {
		panic("tolerance <= 0")
	}
	// vertex index cache
	cache := make(map[[3]int64]int, len(m.Positions))
	welded := make([]int, len(m.Positions))
	ri := 1 / tol
	for i, p := range m.Positions {
		key := [3]int64{
			int64(math32.Floor(p.X*ri + 0.5)),
			int64(math32.Floor(p.Y*ri + 0.5)),
			int64(math32.Floor(p.Z*ri + 0.5)),
		}
		idx, ok := cache[key]
		if !ok {
			idx = i
			cache[key] = i
		}
		welded[i] = idx
	}

	accum := make([]ms3.Vec, len(m.Positions))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		tri := [3]ms3.Vec{
			m.Positions[m.Indices[i]],
			m.Positions[m.Indices[i+1]],
			m.Positions[m.Indices[i+2]],
		}
		cross := ms3.Cross(ms3.Sub(tri[1], tri[0]), ms3.Sub(tri[2], tri[0]))
		area2 := ms3.Norm(cross)
		if area2 < 1e-12 || math32.IsNaN(area2) {
			continue
		}
		norm := ms3.Scale(1/area2, cross)
		for j := 0; j < 3; j++ {
			s1 := ms3.Sub(tri[(j+1)%3], tri[j])
			s2 := ms3.Sub(tri[(j+2)%3], tri[j])
			alpha := openingAngle(s1, s2)
			w := welded[m.Indices[i+j]]
			accum[w] = ms3.Add(accum[w], ms3.Scale(alpha, norm))
		}
	}

	if len(m.Normals) != len(m.Positions) {
		m.Normals = make([]ms3.Vec, len(m.Positions))
	}
	for i := range m.Normals {
		n := accum[welded[i]]
		l := ms3.Norm(n)
		if l == 0 {
			m.Normals[i] = ms3.Vec{}
			continue
		}
		m.Normals[i] = ms3.Scale(1/l, n)
	}
}

// openingAngle returns the angle between a and b in radians.
func openingAngle(a, b ms3.Vec) float32 {
	la, lb := ms3.Norm(a), ms3.Norm(b)
	if la == 0 || lb == 0 {
		return 0
	}
	c := ms3.Dot(a, b) / (la * lb)
	return math32.Acos(math32.Max(-1, math32.Min(1, c)))
}
