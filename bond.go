package molmesh

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
)

// Bond is an inferred bond between the atoms at indices I and J of a
// structure. I is always less than J.
type Bond struct {
	I, J int
}

// NewBond returns the bond between atoms a and b with its indices ordered.
// It panics if a == b.
func NewBond(a, b int) Bond {
	if a == b {
		panic("bond between atom and itself")
	}
	if a > b {
		a, b = b, a
	}
	return Bond{I: a, J: b}
}

// ElementPair is an unordered pair of element symbols.
type ElementPair [2]string

// MakeElementPair returns the normalized pair of elements a and b with its
// symbols in lexical order, so that MakeElementPair(a,b) == MakeElementPair(b,a).
func MakeElementPair(a, b string) ElementPair {
	a, b = NormalizeElement(a), NormalizeElement(b)
	if a > b {
		a, b = b, a
	}
	return ElementPair{a, b}
}

// BondRules is the chemistry configuration used to decide whether two atoms
// are bonded. DefaultBondRules returns the standard configuration.
type BondRules struct {
	// MaxLength is the maximum bond length in Ångström for an element pair.
	// Pairs are looked up in both orders.
	MaxLength map[ElementPair]float64
	// DefaultMaxLength is used for element pairs absent from MaxLength.
	DefaultMaxLength float64
	// Metals is the set of normalized element symbols for which the distance
	// table and residue filter are replaced by MetalCutoff.
	Metals map[string]bool
	// MetalCutoff is the exclusive distance below which an atom pair
	// involving a metal is bonded.
	MetalCutoff float64
	// DisulfideCutoff is the exclusive distance below which two sulfur atoms
	// are bonded regardless of the residues they belong to.
	DisulfideCutoff float64
	// MaxResidueGap is the largest residue number difference for which
	// non-metal atoms may be bonded.
	MaxResidueGap int
}

// DefaultBondRules returns the distance table, metal set and cutoffs
// commonly used to infer covalent and coordination bonds of proteins.
func DefaultBondRules() BondRules {
	return BondRules{
		MaxLength: map[ElementPair]float64{
			MakeElementPair("C", "C"): 1.9,
			MakeElementPair("C", "N"): 1.7,
			MakeElementPair("C", "O"): 1.6,
			MakeElementPair("C", "S"): 1.8,
			MakeElementPair("N", "N"): 1.6,
			MakeElementPair("N", "O"): 1.5,
			MakeElementPair("O", "O"): 1.5,
			MakeElementPair("S", "S"): 2.5,
		},
		DefaultMaxLength: 1.9,
		Metals: map[string]bool{
			"Na": true, "Mg": true, "K": true, "Ca": true, "Mn": true,
			"Fe": true, "Co": true, "Ni": true, "Cu": true, "Zn": true,
		},
		MetalCutoff:     3.5,
		DisulfideCutoff: 2.5,
		MaxResidueGap:   1,
	}
}

// Validate returns an error if r cannot infer bonds. The zero value is
// invalid: start from DefaultBondRules and modify the copy.
func (r BondRules) Validate() error {
	if !(r.DefaultMaxLength > 0) || math.IsInf(r.DefaultMaxLength, 0) {
		return fmt.Errorf("default maximum bond length must be positive and finite, got %g", r.DefaultMaxLength)
	}
	for pair, length := range r.MaxLength {
		if !(length > 0) || math.IsInf(length, 0) {
			return fmt.Errorf("maximum bond length of %s-%s must be positive and finite, got %g", pair[0], pair[1], length)
		}
	}
	switch {
	case !(r.MetalCutoff >= 0) || math.IsInf(r.MetalCutoff, 0):
		return fmt.Errorf("invalid metal cutoff %g", r.MetalCutoff)
	case !(r.DisulfideCutoff >= 0) || math.IsInf(r.DisulfideCutoff, 0):
		return fmt.Errorf("invalid disulfide cutoff %g", r.DisulfideCutoff)
	case r.MaxResidueGap < 0:
		return fmt.Errorf("negative maximum residue gap %d", r.MaxResidueGap)
	}
	return nil
}

// BondStats are diagnostics gathered during bond inference.
type BondStats struct {
	// Candidates is the number of atom pairs within the search cutoff that
	// were tested.
	Candidates int
	// Fallbacks counts, per element pair, the candidate pairs that used
	// DefaultMaxLength because the pair is absent from the table.
	Fallbacks map[ElementPair]int
}

// IsBond reports whether atoms a and b are bonded. It is symmetric in its
// arguments.
func (r BondRules) IsBond(a, b Atom) bool {
	bonded, _ := r.classify(a, b)
	return bonded
}

// classify decides whether a and b are bonded and reports whether the
// default maximum length was used to decide.
func (r BondRules) classify(a, b Atom) (bonded, usedDefault bool) {
	d := r3.Norm(r3.Sub(a.Pos, b.Pos))
	if math.IsNaN(d) {
		return false, false
	}
	ea, eb := a.Symbol(), b.Symbol()
	if r.Metals[ea] || r.Metals[eb] {
		return d < r.MetalCutoff, false
	}
	maxLen, ok := r.maxLength(ea, eb)
	if !ok {
		maxLen = r.DefaultMaxLength
		usedDefault = true
	}
	if d > maxLen {
		return false, usedDefault
	}
	if ea == "S" && eb == "S" && d < r.DisulfideCutoff {
		return true, usedDefault
	}
	gap := a.Residue - b.Residue
	if gap < 0 {
		gap = -gap
	}
	return gap <= r.MaxResidueGap, usedDefault
}

func (r BondRules) maxLength(ea, eb string) (float64, bool) {
	if l, ok := r.MaxLength[ElementPair{ea, eb}]; ok {
		return l, true
	}
	l, ok := r.MaxLength[ElementPair{eb, ea}]
	return l, ok
}

// searchCutoff returns a distance beyond which no pair can be bonded.
func (r BondRules) searchCutoff() float64 {
	cutoff := math.Max(r.DefaultMaxLength, r.DisulfideCutoff)
	if len(r.Metals) > 0 {
		cutoff = math.Max(cutoff, r.MetalCutoff)
	}
	for _, l := range r.MaxLength {
		cutoff = math.Max(cutoff, l)
	}
	return cutoff
}

// InferPairwise tests every unordered atom pair and returns the bonds sorted
// by (I, J). It runs in O(n²) time and is kept as the reference for Infer.
func (r BondRules) InferPairwise(atoms []Atom) []Bond {
	bonds, _ := r.inferPairwise(atoms)
	return bonds
}

func (r BondRules) inferPairwise(atoms []Atom) ([]Bond, BondStats) {
	stats := BondStats{Fallbacks: make(map[ElementPair]int)}
	bonds := make([]Bond, 0, len(atoms))
	cutoff := r.searchCutoff()
	for i := range atoms {
		for j := i + 1; j < len(atoms); j++ {
			r.test(&bonds, &stats, atoms, i, j, cutoff)
		}
	}
	return bonds, stats
}

// Infer returns the bonds of atoms sorted by (I, J). The result is the same
// as InferPairwise but candidate pairs are found with a kd-tree over atom
// centers, so large structures are processed in O(n log n) time.
func (r BondRules) Infer(atoms []Atom) []Bond {
	bonds, _ := r.InferStats(atoms)
	return bonds
}

// InferStats is Infer that also returns inference diagnostics.
func (r BondRules) InferStats(atoms []Atom) ([]Bond, BondStats) {
	stats := BondStats{Fallbacks: make(map[ElementPair]int)}
	bonds := make([]Bond, 0, len(atoms))
	if len(atoms) < 2 {
		return bonds, stats
	}
	cutoff := r.searchCutoff()
	// Slack so pairs exactly at the cutoff survive the squared distance query.
	radius := cutoff*(1+1e-9) + 1e-9
	index := newNeighborIndex(atoms)
	var neighbors []int
	for i := range atoms {
		neighbors = index.within(neighbors[:0], atoms[i].Pos, radius)
		for _, j := range neighbors {
			if j <= i {
				continue
			}
			r.test(&bonds, &stats, atoms, i, j, cutoff)
		}
	}
	slices.SortFunc(bonds, func(a, b Bond) int {
		if a.I != b.I {
			return a.I - b.I
		}
		return a.J - b.J
	})
	return bonds, stats
}

// test classifies the pair i < j and records the result.
func (r BondRules) test(bonds *[]Bond, stats *BondStats, atoms []Atom, i, j int, cutoff float64) {
	if !(r3.Norm(r3.Sub(atoms[i].Pos, atoms[j].Pos)) <= cutoff) {
		return
	}
	stats.Candidates++
	bonded, usedDefault := r.classify(atoms[i], atoms[j])
	if usedDefault {
		stats.Fallbacks[MakeElementPair(atoms[i].Element, atoms[j].Element)]++
	}
	if bonded {
		*bonds = append(*bonds, Bond{I: i, J: j})
	}
}

// InferBonds returns the bonds of atoms under DefaultBondRules.
func InferBonds(atoms []Atom) []Bond {
	return DefaultBondRules().Infer(atoms)
}
