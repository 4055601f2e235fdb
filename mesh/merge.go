package mesh

import (
	"fmt"
	"math"

	"github.com/soypat/glgl/math/ms3"
)

// Merge concatenates meshes into a single mesh. Vertex attributes are
// appended in argument order and each mesh's indices are offset by the
// number of vertices that precede it. Merge with no arguments returns
// an empty mesh.
//
// Merge panics if an input mesh does not satisfy its own invariants, if
// the total vertex count overflows a uint32 index or if the merged mesh
// does not satisfy the invariants.
func Merge(meshes ...Mesh) Mesh {
	if len(meshes) == 0 {
		return Empty()
	}
	var nv, ni int
	for i := range meshes {
		if err := meshes[i].Validate(); err != nil {
			panic(fmt.Sprintf("bug: merge input %d: %s", i, err))
		}
		nv += len(meshes[i].Positions)
		ni += len(meshes[i].Indices)
	}
	if uint64(nv) > math.MaxUint32 {
		panic("merged vertex count overflows uint32 index")
	}
	out := Mesh{
		Positions: make([]ms3.Vec, 0, nv),
		Normals:   make([]ms3.Vec, 0, nv),
		Colors:    make([]Color, 0, nv),
		Indices:   make([]uint32, 0, ni),
	}
	for i := range meshes {
		offset := uint32(len(out.Positions))
		out.Positions = append(out.Positions, meshes[i].Positions...)
		out.Normals = append(out.Normals, meshes[i].Normals...)
		out.Colors = append(out.Colors, meshes[i].Colors...)
		for _, idx := range meshes[i].Indices {
			out.Indices = append(out.Indices, idx+offset)
		}
	}
	if err := out.Validate(); err != nil {
		panic("bug: merge output: " + err.Error())
	}
	return out
}
