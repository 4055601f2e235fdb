package mesh

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/soypat/glgl/math/ms3"
)

func TestSTLWriteReadback(t *testing.T) {
	sphere := UVSphere(ms3.Vec{X: 1}, 1.2, SphereResolution{Latitude: 10, Longitude: 20}, White)
	cyl, err := Cylinder(ms3.Vec{X: 1}, ms3.Vec{X: 4, Y: 1}, 0.1, 12, White)
	if err != nil {
		t.Fatal(err)
	}
	m := Merge(sphere, cyl)
	var b bytes.Buffer
	n, err := WriteBinarySTL(&b, m)
	if err != nil {
		t.Fatal(err)
	}
	if n != b.Len() || n != stlHeaderSize+stlTriangleSize*m.NumTriangles() {
		t.Fatalf("wrote %d bytes, buffer holds %d, want %d", n, b.Len(), stlHeaderSize+stlTriangleSize*m.NumTriangles())
	}
	got, err := readBinarySTL(&b)
	if err != nil {
		t.Fatal(err)
	}
	want := m.Triangles()
	if len(got) != len(want) {
		t.Fatalf("read %d triangles, wrote %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("triangle %d mismatch: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSTLEmpty(t *testing.T) {
	var b bytes.Buffer
	_, err := WriteBinarySTL(&b, Empty())
	if !errors.Is(err, errEmptyMesh) {
		t.Fatalf("expected empty mesh error, got %v", err)
	}
	if b.Len() != 0 {
		t.Error("nothing should be written for an empty mesh")
	}
}

func readBinarySTL(r io.Reader) ([]ms3.Triangle, error) {
	var header [stlHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	count := binary.LittleEndian.Uint32(header[80:])
	if count == 0 {
		return nil, errors.New("STL header indicates 0 triangles present")
	}
	var buf [stlTriangleSize]byte
	output := make([]ms3.Triangle, 0, count)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		var tri ms3.Triangle
		for j := range tri {
			tri[j] = get3F32(buf[12*(j+1):])
		}
		output = append(output, tri)
	}
	return output, nil
}

func get3F32(b []byte) ms3.Vec {
	_ = b[11] // early bounds check
	return ms3.Vec{
		X: math.Float32frombits(binary.LittleEndian.Uint32(b)),
		Y: math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		Z: math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}
}
