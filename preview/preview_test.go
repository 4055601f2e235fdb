package preview

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/molmesh/mesh"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/cmpimg"
)

// imgDelta is a normalized tolerance for image comparison
// (0: perfect match, 1: loose match).
const imgDelta = 0.05

func TestRenderSphere(t *testing.T) {
	m := mesh.UVSphere(ms3.Vec{X: 3, Y: -1, Z: 2}, 1.5, mesh.SphereResolution{Latitude: 16, Longitude: 32}, mesh.RGB(1, 0, 0))
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 160, 120
	img, err := Render(m, cfg)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	if b.Dx() != cfg.Width || b.Dy() != cfg.Height {
		t.Fatalf("got image size %dx%d, want %dx%d", b.Dx(), b.Dy(), cfg.Width, cfg.Height)
	}
	r, g, bl, _ := img.At(b.Min.X+b.Dx()/2, b.Min.Y+b.Dy()/2).RGBA()
	if r <= g || r <= bl || r < 0x1000 {
		t.Errorf("center pixel should show the red sphere, got %x %x %x", r, g, bl)
	}
	br, bg, bb, _ := cfg.Background.RGBA()
	cr, cg, cb, _ := img.At(b.Min.X, b.Min.Y).RGBA()
	if absDiff(cr, br) > 0x200 || absDiff(cg, bg) > 0x200 || absDiff(cb, bb) > 0x200 {
		t.Errorf("corner pixel should show the background, got %x %x %x want %x %x %x", cr, cg, cb, br, bg, bb)
	}
}

func TestSavePNG(t *testing.T) {
	cyl, err := mesh.Cylinder(ms3.Vec{}, ms3.Vec{X: 2, Y: 1}, 0.3, 12, mesh.RGB(0.6, 0.6, 0.6))
	if err != nil {
		t.Fatal(err)
	}
	m := mesh.Merge(
		mesh.UVSphere(ms3.Vec{}, 0.5, mesh.SphereResolution{Latitude: 10, Longitude: 20}, mesh.RGB(0, 0, 1)),
		mesh.UVSphere(ms3.Vec{X: 2, Y: 1}, 0.5, mesh.SphereResolution{Latitude: 10, Longitude: 20}, mesh.RGB(1, 0, 0)),
		cyl,
	)
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 120, 90
	cfg.Supersample = 1
	path := filepath.Join(t.TempDir(), "preview.png")
	if err := SavePNG(path, m, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	img, err := Render(m, cfg)
	if err != nil {
		t.Fatal(err)
	}
	var want bytes.Buffer
	if err := png.Encode(&want, img); err != nil {
		t.Fatal(err)
	}
	equal, err := cmpimg.EqualApprox("png", got, want.Bytes(), imgDelta)
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Error("saved PNG differs from rendered image")
	}
}

func TestRenderErrors(t *testing.T) {
	if _, err := Render(mesh.Empty(), DefaultConfig()); err == nil {
		t.Error("expected error rendering empty mesh")
	}
	m := mesh.UVSphere(ms3.Vec{}, 1, mesh.SphereResolution{Latitude: 4, Longitude: 6}, mesh.White)
	cfg := DefaultConfig()
	cfg.Width = 0
	if _, err := Render(m, cfg); err == nil {
		t.Error("expected error for zero width")
	}
	cfg = DefaultConfig()
	cfg.ViewDir = r3.Vec{}
	if _, err := Render(m, cfg); err == nil {
		t.Error("expected error for zero view direction")
	}
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
