package molmesh

import (
	"github.com/soypat/molmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Atom is a single atom of a structure. Positions are in Ångström.
type Atom struct {
	Pos r3.Vec
	// Element is the chemical symbol, case insensitive. Empty means the
	// element could not be determined by the loader.
	Element string
	// Residue is the residue sequence number the atom belongs to.
	Residue int
	Chain   string
	// Name is the atom name within its residue, i.e. "CA" or "SG".
	Name string
	// ResidueName is the three letter residue code, i.e. "CYS".
	ResidueName string
}

// Symbol returns the normalized element symbol of the atom.
func (a Atom) Symbol() string { return NormalizeElement(a.Element) }

// VdWRadius returns the van der Waals radius of the atom's element.
// A *MissingPropertyError is returned if the element is empty or has no
// known radius.
func (a Atom) VdWRadius() (float64, error) {
	sym := a.Symbol()
	if sym == "" {
		return 0, &MissingPropertyError{Atom: -1, Property: "element"}
	}
	r, ok := VdWRadius(sym)
	if !ok {
		return 0, &MissingPropertyError{Atom: -1, Property: "van der Waals radius", Element: sym}
	}
	return r, nil
}

// Structure is an ordered list of atoms supplied by a structure loader.
// It is never modified by this package.
type Structure struct {
	Atoms []Atom
}

// Bounds returns the bounding box of all atom centers.
// The zero Box is returned for a structure without atoms.
func (s Structure) Bounds() r3.Box {
	if len(s.Atoms) == 0 {
		return r3.Box{}
	}
	bb := d3.Box{Min: s.Atoms[0].Pos, Max: s.Atoms[0].Pos}
	for _, a := range s.Atoms[1:] {
		bb = bb.Include(a.Pos)
	}
	return r3.Box(bb)
}
