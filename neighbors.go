package molmesh

import (
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ kdtree.Interface  = kdAtoms{}
	_ kdtree.Comparable = kdAtom{}
)

// neighborIndex answers fixed radius queries over atom centers.
type neighborIndex struct {
	tree *kdtree.Tree
}

func newNeighborIndex(atoms []Atom) neighborIndex {
	pts := make(kdAtoms, len(atoms))
	for i := range atoms {
		pts[i] = kdAtom{pos: atoms[i].Pos, idx: i}
	}
	return neighborIndex{tree: kdtree.New(pts, false)}
}

// within appends to dst the indices of all atoms whose center lies at most
// radius away from p. Order is unspecified.
func (n neighborIndex) within(dst []int, p r3.Vec, radius float64) []int {
	keep := kdtree.NewDistKeeper(radius * radius)
	n.tree.NearestSet(keep, kdAtom{pos: p, idx: -1})
	for _, c := range keep.Heap {
		if c.Comparable == nil {
			// Sentinel holding the query radius.
			continue
		}
		dst = append(dst, c.Comparable.(kdAtom).idx)
	}
	return dst
}

type kdAtoms []kdAtom

type kdAtom struct {
	pos r3.Vec
	idx int
}

func (k kdAtoms) Index(i int) kdtree.Comparable { return k[i] }

func (k kdAtoms) Len() int { return len(k) }

// Pivot partitions the slice about its median along dimension d.
func (k kdAtoms) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: int(d), atoms: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

func (k kdAtoms) Slice(start, end int) kdtree.Interface { return k[start:end] }

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
func (a kdAtom) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return kdComp(a, b.(kdAtom), int(d))
}

// Dims returns the number of dimensions described in the Comparable.
func (a kdAtom) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between the receiver and
// the parameter.
func (a kdAtom) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.pos, b.(kdAtom).pos))
}

// c = a.dim - b.dim
func kdComp(a, b kdAtom, dim int) (c float64) {
	switch dim {
	case 0:
		c = a.pos.X - b.pos.X
	case 1:
		c = a.pos.Y - b.pos.Y
	case 2:
		c = a.pos.Z - b.pos.Z
	default:
		panic("bug: kd dimension out of range")
	}
	return c
}

type kdPlane struct {
	dim   int
	atoms kdAtoms
}

func (p kdPlane) Less(i, j int) bool {
	return kdComp(p.atoms[i], p.atoms[j], p.dim) < 0
}

func (p kdPlane) Swap(i, j int) {
	p.atoms[i], p.atoms[j] = p.atoms[j], p.atoms[i]
}

func (p kdPlane) Len() int {
	return len(p.atoms)
}

func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.atoms = p.atoms[start:end]
	return p
}
