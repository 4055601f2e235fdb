package mesh

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// SphereResolution is the angular subdivision of a UV sphere.
type SphereResolution struct {
	// Latitude is the number of rings from pole to pole. Must be at least 2.
	Latitude int
	// Longitude is the number of segments around the polar axis. Must be at least 3.
	Longitude int
}

// SphereSize returns the number of vertices and indices of a UV sphere
// built with resolution res.
func SphereSize(res SphereResolution) (nVtx, nIdx int) {
	nVtx = (res.Latitude + 1) * (res.Longitude + 1)
	// Quads touching the poles have one collapsed edge and emit one triangle.
	nIdx = 3 * res.Longitude * (2*res.Latitude - 2)
	return nVtx, nIdx
}

// UVSphere returns a sphere of the given radius centered at center.
// The polar axis is Z. Every vertex is assigned color c and normals are
// smoothed across coincident vertices after the sphere is positioned.
func UVSphere(center ms3.Vec, radius float32, res SphereResolution, c Color) Mesh {
	if radius <= 0 {
		panic("radius <= 0")
	}
	if res.Latitude < 2 || res.Longitude < 3 {
		panic("sphere resolution too low")
	}
	lat, lon := res.Latitude, res.Longitude
	nVtx, nIdx := SphereSize(res)

	// Trig tables. Seam and pole values are set exactly so that coincident
	// vertices are bit-identical and weld when normals are smoothed.
	sinPhi := make([]float32, lon+1)
	cosPhi := make([]float32, lon+1)
	for j := 0; j < lon; j++ {
		phi := float32(j) * 2 * math32.Pi / float32(lon)
		sinPhi[j], cosPhi[j] = math32.Sincos(phi)
	}
	sinPhi[lon], cosPhi[lon] = sinPhi[0], cosPhi[0]

	m := Mesh{
		Positions: make([]ms3.Vec, 0, nVtx),
		Colors:    fill(c, nVtx),
		Indices:   make([]uint32, 0, nIdx),
	}
	for i := 0; i <= lat; i++ {
		var sinTheta, cosTheta float32
		switch i {
		case 0:
			sinTheta, cosTheta = 0, 1
		case lat:
			sinTheta, cosTheta = 0, -1
		default:
			theta := float32(i) * math32.Pi / float32(lat)
			sinTheta, cosTheta = math32.Sincos(theta)
		}
		for j := 0; j <= lon; j++ {
			p := ms3.Vec{
				X: radius * sinTheta * cosPhi[j],
				Y: radius * sinTheta * sinPhi[j],
				Z: radius * cosTheta,
			}
			m.Positions = append(m.Positions, ms3.Add(center, p))
		}
	}

	stride := uint32(lon + 1)
	for i := 0; i < lat; i++ {
		for j := 0; j < lon; j++ {
			topLeft := uint32(i)*stride + uint32(j)
			topRight := topLeft + 1
			bottomLeft := topLeft + stride
			bottomRight := bottomLeft + 1
			if i != 0 {
				m.Indices = append(m.Indices, topLeft, bottomLeft, topRight)
			}
			if i != lat-1 {
				m.Indices = append(m.Indices, topRight, bottomLeft, bottomRight)
			}
		}
	}
	if len(m.Positions) != nVtx || len(m.Indices) != nIdx {
		panic("bug: sphere size mismatch")
	}
	m.SmoothNormals(weldTolerance(radius))
	return m
}

// weldTolerance returns a position tolerance for welding vertices of a
// primitive of characteristic size size.
func weldTolerance(size float32) float32 {
	return math32.Max(size*1e-4, 1e-6)
}
