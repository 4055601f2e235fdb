package molmesh

import (
	"math"
	"math/rand"
	"slices"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func atomAt(element string, residue int, x float64) Atom {
	return Atom{Element: element, Residue: residue, Pos: r3.Vec{X: x}}
}

func TestIsBond(t *testing.T) {
	rules := DefaultBondRules()
	for _, test := range []struct {
		desc string
		a, b Atom
		want bool
	}{
		{desc: "C-C 1.5 same residue", a: atomAt("C", 1, 0), b: atomAt("C", 1, 1.5), want: true},
		{desc: "C-C 2.0", a: atomAt("C", 1, 0), b: atomAt("C", 1, 2.0), want: false},
		{desc: "C-C at max length", a: atomAt("C", 1, 0), b: atomAt("C", 1, 1.9), want: true},
		{desc: "C-N 1.3 adjacent residues", a: atomAt("C", 4, 0), b: atomAt("N", 5, 1.3), want: true},
		{desc: "C-N 1.3 distant residues", a: atomAt("C", 4, 0), b: atomAt("N", 7, 1.3), want: false},
		{desc: "C-N 1.8 over table length", a: atomAt("C", 1, 0), b: atomAt("N", 1, 1.8), want: false},
		{desc: "N-O 1.55", a: atomAt("N", 1, 0), b: atomAt("O", 1, 1.55), want: false},
		{desc: "S-S 2.3 residues 10 and 50", a: atomAt("S", 10, 0), b: atomAt("S", 50, 2.3), want: true},
		{desc: "S-S 2.6", a: atomAt("S", 10, 0), b: atomAt("S", 10, 2.6), want: false},
		{desc: "S-S 2.5 residues 10 and 50", a: atomAt("S", 10, 0), b: atomAt("S", 50, 2.5), want: false},
		{desc: "lowercase S-S 2.05", a: atomAt("s", 3, 0), b: atomAt(" S ", 90, 2.05), want: true},
		{desc: "Fe-O 3.0", a: atomAt("Fe", 1, 0), b: atomAt("O", 1, 3.0), want: true},
		{desc: "FE-O 3.0 distant residues", a: atomAt("FE", 1, 0), b: atomAt("O", 200, 3.0), want: true},
		{desc: "Zn-S 3.5", a: atomAt("Zn", 1, 0), b: atomAt("S", 2, 3.5), want: false},
		{desc: "Zn-N 3.49", a: atomAt("Zn", 1, 0), b: atomAt("N", 2, 3.49), want: true},
		{desc: "Na-Na 0.5", a: atomAt("Na", 1, 0), b: atomAt("Na", 9, 0.5), want: true},
		{desc: "P-O 1.6 default length", a: atomAt("P", 1, 0), b: atomAt("O", 1, 1.6), want: true},
		{desc: "P-O 1.95 default length", a: atomAt("P", 1, 0), b: atomAt("O", 1, 1.95), want: false},
		{desc: "unknown element 1.0", a: atomAt("", 1, 0), b: atomAt("C", 1, 1.0), want: true},
	} {
		got := rules.IsBond(test.a, test.b)
		if got != test.want {
			t.Errorf("%s: got bonded=%v, want %v", test.desc, got, test.want)
		}
		if rev := rules.IsBond(test.b, test.a); rev != got {
			t.Errorf("%s: IsBond not symmetric", test.desc)
		}
	}
}

func TestInferBondsProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		atoms := randomStructure(rng, 60+trial*10, 6)
		bonds := InferBonds(atoms)
		seen := make(map[Bond]bool)
		for _, b := range bonds {
			if b.I >= b.J {
				t.Fatalf("bond %v not ordered", b)
			}
			if seen[b] {
				t.Fatalf("duplicate bond %v", b)
			}
			seen[b] = true
		}
		// Every bonded pair is reported and no other.
		rules := DefaultBondRules()
		for i := range atoms {
			for j := range atoms {
				if i == j {
					continue
				}
				want := rules.IsBond(atoms[i], atoms[j])
				if got := seen[NewBond(i, j)]; got != want {
					t.Fatalf("trial %d: pair %d,%d reported=%v, IsBond=%v", trial, i, j, got, want)
				}
			}
		}
	}
}

func TestInferMatchesPairwise(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	rules := DefaultBondRules()
	for trial := 0; trial < 30; trial++ {
		atoms := randomStructure(rng, 1+trial*17, 4+float64(trial%5))
		want, wantStats := rules.inferPairwise(atoms)
		got, gotStats := rules.InferStats(atoms)
		if !slices.Equal(got, want) {
			t.Fatalf("trial %d: kd-tree inference found %d bonds, pairwise %d", trial, len(got), len(want))
		}
		if gotStats.Candidates != wantStats.Candidates {
			t.Errorf("trial %d: candidates got %d, want %d", trial, gotStats.Candidates, wantStats.Candidates)
		}
		for pair, n := range wantStats.Fallbacks {
			if gotStats.Fallbacks[pair] != n {
				t.Errorf("trial %d: fallbacks for %v got %d, want %d", trial, pair, gotStats.Fallbacks[pair], n)
			}
		}
	}
}

func TestInferSmall(t *testing.T) {
	if bonds := InferBonds(nil); len(bonds) != 0 {
		t.Fatal("expected no bonds for empty structure")
	}
	if bonds := InferBonds([]Atom{atomAt("C", 1, 0)}); len(bonds) != 0 {
		t.Fatal("expected no bonds for single atom")
	}
	atoms := []Atom{
		atomAt("C", 1, 0),
		atomAt("C", 1, 1.5),
		atomAt("C", 1, 3.0),
	}
	got := InferBonds(atoms)
	want := []Bond{{0, 1}, {1, 2}}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestInferStatsFallbacks(t *testing.T) {
	atoms := []Atom{
		atomAt("P", 1, 0),
		atomAt("O", 1, 1.5),
		atomAt("C", 1, 3.0),
		atomAt("Fe", 1, 5.0),
	}
	_, stats := DefaultBondRules().InferStats(atoms)
	if n := stats.Fallbacks[MakeElementPair("O", "P")]; n != 1 {
		t.Errorf("O-P fallbacks got %d, want 1", n)
	}
	if n := stats.Fallbacks[MakeElementPair("C", "P")]; n != 1 {
		t.Errorf("C-P fallbacks got %d, want 1", n)
	}
	for pair := range stats.Fallbacks {
		if pair[0] == "Fe" || pair[1] == "Fe" {
			t.Errorf("metal pair %v should not use the default length", pair)
		}
	}
}

func TestNewBond(t *testing.T) {
	if b := NewBond(5, 2); b != (Bond{I: 2, J: 5}) {
		t.Errorf("got %v", b)
	}
	if MakeElementPair("o", "C") != MakeElementPair("C", "O") {
		t.Error("element pair not normalized")
	}
}

func TestBondRulesValidate(t *testing.T) {
	if err := DefaultBondRules().Validate(); err != nil {
		t.Fatal(err)
	}
	for _, modify := range []func(*BondRules){
		func(r *BondRules) { *r = BondRules{} },
		func(r *BondRules) { r.DefaultMaxLength = math.Inf(1) },
		func(r *BondRules) { r.MaxLength[MakeElementPair("C", "C")] = 0 },
		func(r *BondRules) { r.MetalCutoff = math.NaN() },
		func(r *BondRules) { r.DisulfideCutoff = -1 },
		func(r *BondRules) { r.MaxResidueGap = -1 },
	} {
		r := DefaultBondRules()
		modify(&r)
		if err := r.Validate(); err == nil {
			t.Errorf("expected error for invalid rules %+v", r)
		}
	}
}

// randomStructure returns n atoms scattered in a cube with the given side,
// with elements and residues drawn so that every rule is exercised.
func randomStructure(rng *rand.Rand, n int, side float64) []Atom {
	elements := []string{"C", "C", "C", "N", "O", "S", "H", "P", "Fe", "Zn", "Se", ""}
	atoms := make([]Atom, n)
	for i := range atoms {
		atoms[i] = Atom{
			Pos: r3.Vec{
				X: rng.Float64() * side,
				Y: rng.Float64() * side,
				Z: rng.Float64() * side,
			},
			Element: elements[rng.Intn(len(elements))],
			Residue: rng.Intn(5),
		}
	}
	return atoms
}

func BenchmarkInferPairwise(b *testing.B) {
	atoms := randomStructure(rand.New(rand.NewSource(1)), 2000, 30)
	rules := DefaultBondRules()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rules.InferPairwise(atoms)
	}
}

func BenchmarkInferKDTree(b *testing.B) {
	atoms := randomStructure(rand.New(rand.NewSource(1)), 2000, 30)
	rules := DefaultBondRules()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rules.Infer(atoms)
	}
}
