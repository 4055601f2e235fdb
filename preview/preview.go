// Package preview renders meshes to images with a software rasterizer.
// It is meant for quick visual checks of generated geometry, not for
// production rendering.
package preview

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/molmesh/internal/d3"
	"github.com/soypat/molmesh/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// Config controls the camera and shading of a preview.
// The camera always looks at the center of the mesh bounds from direction
// ViewDir at a distance at which the whole mesh fits in the frame.
type Config struct {
	Width, Height int
	// Supersample renders at Supersample times the output size and
	// downsamples for antialiasing.
	Supersample int
	// ViewDir points from the mesh center toward the camera.
	ViewDir r3.Vec
	Up      r3.Vec
	// FovY is the vertical field of view in degrees.
	FovY float64
	// Light points toward the light source.
	Light      r3.Vec
	Background mesh.Color
	// Ambient is the fraction of the color visible on unlit faces.
	Ambient float64
}

// DefaultConfig returns a 640x480 isometric view.
func DefaultConfig() Config {
	return Config{
		Width:       640,
		Height:      480,
		Supersample: 2,
		ViewDir:     d3.Elem(1),
		Up:          r3.Vec{Z: 1},
		FovY:        30,
		Light:       r3.Vec{X: -0.75, Y: 1, Z: 0.25},
		Background:  mesh.RGB(1, 0.97, 0.89),
		Ambient:     0.25,
	}
}

func (cfg Config) validate() error {
	switch {
	case cfg.Width <= 0 || cfg.Height <= 0:
		return fmt.Errorf("invalid preview size %dx%d", cfg.Width, cfg.Height)
	case cfg.Supersample < 1:
		return errors.New("supersample must be at least 1")
	case !(cfg.FovY > 0 && cfg.FovY < 180):
		return fmt.Errorf("invalid field of view %g", cfg.FovY)
	case r3.Norm(cfg.ViewDir) == 0 || r3.Norm(cfg.Up) == 0 || r3.Norm(cfg.Light) == 0:
		return errors.New("zero view, up or light direction")
	}
	return nil
}

// Render rasterizes m with per vertex colors and smooth normals.
func Render(m mesh.Mesh, cfg Config) (image.Image, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.NumTriangles() == 0 {
		return nil, errors.New("nothing to render: mesh has no triangles")
	}
	bb := m.Bounds()
	box := d3.Box{Min: d3.Vec64(bb.Min), Max: d3.Vec64(bb.Max)}
	center := box.Center()
	radius := math.Max(r3.Norm(box.Size())/2, 1e-6)
	aspect := float64(cfg.Width) / float64(cfg.Height)
	halfFov := cfg.FovY * math.Pi / 360
	if aspect < 1 {
		// Fit the horizontal extent.
		halfFov = math.Atan(math.Tan(halfFov) * aspect)
	}
	dist := 1.05 * radius / math.Sin(halfFov)
	eyePos := r3.Add(center, r3.Scale(dist, r3.Unit(cfg.ViewDir)))

	var (
		eye    = fauxglVec(eyePos)
		lookAt = fauxglVec(center)
		up     = fauxglVec(cfg.Up)
		near   = math.Max(dist-radius, dist*1e-3)
		far    = dist + radius
	)
	w, h := cfg.Width*cfg.Supersample, cfg.Height*cfg.Supersample
	context := fauxgl.NewContext(w, h)
	context.ClearColorBufferWith(fauxglColor(cfg.Background))
	context.Cull = fauxgl.CullNone
	matrix := fauxgl.LookAt(eye, lookAt, up).Perspective(cfg.FovY, aspect, near, far)
	context.Shader = &vertexColorShader{
		matrix:  matrix,
		light:   fauxglVec(r3.Unit(cfg.Light)),
		ambient: cfg.Ambient,
	}
	context.DrawMesh(fauxglMesh(m))
	img := context.Image()
	if cfg.Supersample > 1 {
		img = resize.Resize(uint(cfg.Width), uint(cfg.Height), img, resize.Bilinear)
	}
	return img, nil
}

// SavePNG renders m and writes the result to a PNG file at path.
func SavePNG(path string, m mesh.Mesh, cfg Config) error {
	img, err := Render(m, cfg)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

func fauxglMesh(m mesh.Mesh) *fauxgl.Mesh {
	tris := make([]*fauxgl.Triangle, 0, m.NumTriangles())
	vertex := func(i uint32) fauxgl.Vertex {
		return fauxgl.Vertex{
			Position: fauxglVec(d3.Vec64(m.Positions[i])),
			Normal:   fauxglVec(d3.Vec64(m.Normals[i])),
			Color:    fauxglColor(m.Colors[i]),
		}
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		tris = append(tris, fauxgl.NewTriangle(
			vertex(m.Indices[i]),
			vertex(m.Indices[i+1]),
			vertex(m.Indices[i+2]),
		))
	}
	return fauxgl.NewTriangleMesh(tris)
}

func fauxglVec(v r3.Vec) fauxgl.Vector {
	return fauxgl.V(v.X, v.Y, v.Z)
}

func fauxglColor(c mesh.Color) fauxgl.Color {
	return fauxgl.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
}

// vertexColorShader is a Lambert shader that takes the surface color from
// the interpolated vertex color.
type vertexColorShader struct {
	matrix  fauxgl.Matrix
	light   fauxgl.Vector
	ambient float64
}

func (s *vertexColorShader) Vertex(v fauxgl.Vertex) fauxgl.Vertex {
	v.Output = s.matrix.MulPositionW(v.Position)
	return v
}

func (s *vertexColorShader) Fragment(v fauxgl.Vertex) fauxgl.Color {
	diffuse := 0.0
	if n := v.Normal; n.Length() > 0 {
		diffuse = math.Max(n.Normalize().Dot(s.light), 0)
	}
	k := s.ambient + (1-s.ambient)*diffuse
	c := v.Color
	return fauxgl.Color{
		R: math.Min(c.R*k, 1),
		G: math.Min(c.G*k, 1),
		B: math.Min(c.B*k, 1),
		A: c.A,
	}
}
