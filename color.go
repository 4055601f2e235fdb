package molmesh

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/soypat/molmesh/mesh"
)

// ColorKind selects the coloring strategy of a ColorScheme.
type ColorKind uint8

const (
	// ColorSolid colors every atom the same.
	ColorSolid ColorKind = iota
	// ColorByElement colors atoms by their chemical element.
	ColorByElement
	// ColorByChain colors atoms by the chain they belong to.
	ColorByChain
	// ColorByResidue colors atoms by the chemical class of their residue.
	ColorByResidue
	numColorKinds
)

var colorKindNames = [numColorKinds]string{
	ColorSolid:     "solid",
	ColorByElement: "element",
	ColorByChain:   "chain",
	ColorByResidue: "residue",
}

func (k ColorKind) String() string {
	if k >= numColorKinds {
		return fmt.Sprintf("ColorKind(%d)", uint8(k))
	}
	return colorKindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k ColorKind) MarshalText() ([]byte, error) {
	if k >= numColorKinds {
		return nil, fmt.Errorf("invalid color kind %d", uint8(k))
	}
	return []byte(colorKindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ColorKind) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range colorKindNames {
		if n == name {
			*k = ColorKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown color scheme %q", text)
}

// ColorScheme maps an atom to the color of its primitive.
// The zero value colors every atom transparent black.
type ColorScheme struct {
	Kind ColorKind
	// Solid is the color used by the ColorSolid strategy.
	Solid mesh.Color
}

// SolidColor returns a scheme that colors every atom c.
func SolidColor(c mesh.Color) ColorScheme {
	return ColorScheme{Kind: ColorSolid, Solid: c}
}

// ByElementType returns a scheme coloring carbon gray, nitrogen blue,
// oxygen red, sulfur yellow and any other element white.
func ByElementType() ColorScheme { return ColorScheme{Kind: ColorByElement} }

// ByChain returns a scheme coloring atoms by chain identifier from a fixed palette.
func ByChain() ColorScheme { return ColorScheme{Kind: ColorByChain} }

// ByResidueType returns a scheme coloring atoms by residue class:
// hydrophobic, polar, acidic, basic and cysteine.
func ByResidueType() ColorScheme { return ColorScheme{Kind: ColorByResidue} }

// colorFunc is a coloring strategy. It returns an error only if the atom
// lacks the property the strategy needs.
type colorFunc func(cs ColorScheme, a Atom) (mesh.Color, error)

var colorStrategies = [numColorKinds]colorFunc{
	ColorSolid:     colorSolid,
	ColorByElement: colorByElement,
	ColorByChain:   colorByChain,
	ColorByResidue: colorByResidue,
}

// Color returns the color of atom a. A *MissingPropertyError is returned
// if the scheme depends on a property a does not have.
func (cs ColorScheme) Color(a Atom) (mesh.Color, error) {
	if cs.Kind >= numColorKinds {
		return mesh.Color{}, fmt.Errorf("invalid color kind %d", uint8(cs.Kind))
	}
	return colorStrategies[cs.Kind](cs, a)
}

func colorSolid(cs ColorScheme, _ Atom) (mesh.Color, error) {
	return cs.Solid, nil
}

var elementColors = map[string]mesh.Color{
	"C": mesh.RGB(0.5, 0.5, 0.5),
	"N": mesh.RGB(0, 0, 1),
	"O": mesh.RGB(1, 0, 0),
	"S": mesh.RGB(1, 1, 0),
}

func colorByElement(_ ColorScheme, a Atom) (mesh.Color, error) {
	sym := a.Symbol()
	if sym == "" {
		return mesh.Color{}, &MissingPropertyError{Atom: -1, Property: "element"}
	}
	if c, ok := elementColors[sym]; ok {
		return c, nil
	}
	return mesh.White, nil
}

var chainPalette = [...]mesh.Color{
	mesh.RGB(0.12, 0.47, 0.71),
	mesh.RGB(1.00, 0.50, 0.05),
	mesh.RGB(0.17, 0.63, 0.17),
	mesh.RGB(0.84, 0.15, 0.16),
	mesh.RGB(0.58, 0.40, 0.74),
	mesh.RGB(0.55, 0.34, 0.29),
	mesh.RGB(0.89, 0.47, 0.76),
	mesh.RGB(0.74, 0.74, 0.13),
}

func colorByChain(_ ColorScheme, a Atom) (mesh.Color, error) {
	chain := strings.TrimSpace(a.Chain)
	if chain == "" {
		return mesh.Color{}, &MissingPropertyError{Atom: -1, Property: "chain", Element: a.Symbol()}
	}
	if len(chain) == 1 && chain[0] >= 'A' && chain[0] <= 'Z' {
		return chainPalette[int(chain[0]-'A')%len(chainPalette)], nil
	}
	h := fnv.New32a()
	h.Write([]byte(chain))
	return chainPalette[h.Sum32()%uint32(len(chainPalette))], nil
}

type residueClass uint8

const (
	residueOther residueClass = iota
	residueHydrophobic
	residuePolar
	residueAcidic
	residueBasic
	residueCysteine
)

var residueClasses = map[string]residueClass{
	"ALA": residueHydrophobic, "VAL": residueHydrophobic, "LEU": residueHydrophobic,
	"ILE": residueHydrophobic, "MET": residueHydrophobic, "PHE": residueHydrophobic,
	"TRP": residueHydrophobic, "PRO": residueHydrophobic, "GLY": residueHydrophobic,
	"SER": residuePolar, "THR": residuePolar, "ASN": residuePolar,
	"GLN": residuePolar, "TYR": residuePolar,
	"ASP": residueAcidic, "GLU": residueAcidic,
	"LYS": residueBasic, "ARG": residueBasic, "HIS": residueBasic,
	"CYS": residueCysteine,
}

var residueColors = map[residueClass]mesh.Color{
	residueOther:       mesh.White,
	residueHydrophobic: mesh.RGB(1, 0.8, 0.4),
	residuePolar:       mesh.RGB(0.4, 0.9, 0.4),
	residueAcidic:      mesh.RGB(0.9, 0.2, 0.2),
	residueBasic:       mesh.RGB(0.2, 0.4, 1),
	residueCysteine:    mesh.RGB(1, 1, 0),
}

func colorByResidue(_ ColorScheme, a Atom) (mesh.Color, error) {
	name := strings.ToUpper(strings.TrimSpace(a.ResidueName))
	if name == "" {
		return mesh.Color{}, &MissingPropertyError{Atom: -1, Property: "residue name", Element: a.Symbol()}
	}
	return residueColors[residueClasses[name]], nil
}
