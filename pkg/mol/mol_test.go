package mol

import (
	"errors"
	"reflect"
	"testing"
)

func mustAtom(t *testing.T, m *Molecule, symbol string) int {
	t.Helper()
	id, err := m.AddAtom(Atom{Symbol: symbol})
	if err != nil {
		t.Fatalf("AddAtom(%s): %v", symbol, err)
	}
	return id
}

func TestAddAtomAssignsIDs(t *testing.T) {
	m := New()
	for i, sym := range []string{"C", "O", "N"} {
		id := mustAtom(t, m, sym)
		if id != i {
			t.Errorf("AddAtom #%d returned id %d", i, id)
		}
	}
	if m.NumAtoms() != 3 {
		t.Errorf("NumAtoms() = %d, want 3", m.NumAtoms())
	}
	if got := m.Atom(1).AtomicNum; got != 8 {
		t.Errorf("oxygen AtomicNum = %d, want 8", got)
	}
}

func TestAddAtomUnknownElement(t *testing.T) {
	m := New()
	if _, err := m.AddAtom(Atom{Symbol: "Xx"}); !errors.Is(err, ErrUnknownElement) {
		t.Errorf("AddAtom(Xx) error = %v, want ErrUnknownElement", err)
	}
}

func TestAddBondErrors(t *testing.T) {
	m := New()
	a := mustAtom(t, m, "C")
	b := mustAtom(t, m, "C")

	if err := m.AddBond(Bond{From: a, To: 99, Order: BondSingle}); !errors.Is(err, ErrUnknownAtom) {
		t.Errorf("out-of-range endpoint: got %v, want ErrUnknownAtom", err)
	}
	if err := m.AddBond(Bond{From: a, To: a, Order: BondSingle}); !errors.Is(err, ErrSelfBond) {
		t.Errorf("self bond: got %v, want ErrSelfBond", err)
	}
	if err := m.AddBond(Bond{From: a, To: b, Order: BondSingle}); err != nil {
		t.Fatalf("AddBond: %v", err)
	}
	if err := m.AddBond(Bond{From: b, To: a, Order: BondDouble}); !errors.Is(err, ErrDuplicateBond) {
		t.Errorf("reversed duplicate: got %v, want ErrDuplicateBond", err)
	}
}

func TestNeighborsOrder(t *testing.T) {
	// Star around atom 0: bonds added in the order 0-1, 0-2, 0-3.
	m := New()
	c := mustAtom(t, m, "C")
	var want []int
	for _, sym := range []string{"O", "N", "F"} {
		id := mustAtom(t, m, sym)
		if err := m.AddBond(Bond{From: c, To: id, Order: BondSingle}); err != nil {
			t.Fatal(err)
		}
		want = append(want, id)
	}

	if got := m.Neighbors(c); !reflect.DeepEqual(got, want) {
		t.Errorf("Neighbors(%d) = %v, want %v", c, got, want)
	}
	if got := m.Degree(c); got != 3 {
		t.Errorf("Degree(%d) = %d, want 3", c, got)
	}
}

func TestBondBetween(t *testing.T) {
	m := New()
	a := mustAtom(t, m, "C")
	b := mustAtom(t, m, "O")
	mustAtom(t, m, "N")
	if err := m.AddBond(Bond{From: a, To: b, Order: BondDouble}); err != nil {
		t.Fatal(err)
	}

	bd, ok := m.BondBetween(b, a)
	if !ok || bd.Order != BondDouble {
		t.Errorf("BondBetween(%d, %d) = %+v, %v", b, a, bd, ok)
	}
	if _, ok := m.BondBetween(a, 2); ok {
		t.Error("BondBetween should report false for unbonded atoms")
	}
	if idx := m.BondIndexBetween(a, b); idx != 0 {
		t.Errorf("BondIndexBetween = %d, want 0", idx)
	}
}

func TestTwiceBondOrderSum(t *testing.T) {
	// Acetate carbon: one single bond, one double bond -> 2 + 4 = 6.
	m := New()
	c := mustAtom(t, m, "C")
	o1 := mustAtom(t, m, "O")
	o2 := mustAtom(t, m, "O")
	if err := m.AddBond(Bond{From: c, To: o1, Order: BondDouble}); err != nil {
		t.Fatal(err)
	}
	if err := m.AddBond(Bond{From: c, To: o2, Order: BondSingle}); err != nil {
		t.Fatal(err)
	}
	if got := m.TwiceBondOrderSum(c); got != 6 {
		t.Errorf("TwiceBondOrderSum = %d, want 6", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := New()
	a := mustAtom(t, m, "C")
	b := mustAtom(t, m, "C")
	if err := m.AddBond(Bond{From: a, To: b, Order: BondSingle}); err != nil {
		t.Fatal(err)
	}
	atom := m.Atom(a)
	atom.Chirality = ChiralityCCW
	atom.ChiralRef = []int{b, ImplicitHCount}
	if err := m.SetAtom(a, atom); err != nil {
		t.Fatal(err)
	}

	c := m.Clone()
	cloned := c.Atom(a)
	cloned.ChiralRef[0] = 99
	if err := c.SetAtom(a, cloned); err != nil {
		t.Fatal(err)
	}

	if m.Atom(a).ChiralRef[0] != b {
		t.Error("mutating the clone's ChiralRef changed the original")
	}
}

func TestComponents(t *testing.T) {
	// Two ethane fragments plus an isolated atom.
	m := New()
	a := mustAtom(t, m, "C")
	b := mustAtom(t, m, "C")
	x := mustAtom(t, m, "C")
	y := mustAtom(t, m, "C")
	mustAtom(t, m, "O")
	if err := m.AddBond(Bond{From: a, To: b, Order: BondSingle}); err != nil {
		t.Fatal(err)
	}
	if err := m.AddBond(Bond{From: x, To: y, Order: BondSingle}); err != nil {
		t.Fatal(err)
	}

	want := [][]int{{0, 1}, {2, 3}, {4}}
	if got := m.Components(); !reflect.DeepEqual(got, want) {
		t.Errorf("Components() = %v, want %v", got, want)
	}
}

func TestValidate(t *testing.T) {
	m := New()
	a := mustAtom(t, m, "C")
	b := mustAtom(t, m, "C")
	if err := m.AddBond(Bond{From: a, To: b, Order: BondSingle}); err != nil {
		t.Fatal(err)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	if err := m.SetBond(0, Bond{From: a, To: b, Order: BondOrder(9)}); err != nil {
		t.Fatal(err)
	}
	if err := m.Validate(); !errors.Is(err, ErrInvalidBondOrder) {
		t.Errorf("Validate() = %v, want ErrInvalidBondOrder", err)
	}
}

func TestBondStereoInvert(t *testing.T) {
	if StereoUp.Invert() != StereoDown || StereoDown.Invert() != StereoUp {
		t.Error("Invert should swap up and down")
	}
	if StereoNone.Invert() != StereoNone || StereoEither.Invert() != StereoEither {
		t.Error("Invert should leave none and either unchanged")
	}
}

func TestChirality(t *testing.T) {
	if ChiralityCCW.Invert() != ChiralityCW || ChiralityAlleneCW.Invert() != ChiralityAlleneCCW {
		t.Error("Invert should swap handedness")
	}
	if !ChiralityCW.Tetrahedral() || ChiralityAlleneCW.Tetrahedral() {
		t.Error("Tetrahedral should be true only for @/@@")
	}
	if got := ChiralityCW.SMILES(); got != "@@" {
		t.Errorf("ChiralityCW.SMILES() = %q, want %q", got, "@@")
	}
}

func TestImplicitHydrogens(t *testing.T) {
	tests := []struct {
		symbol string
		twice  int
		want   int
	}{
		{"C", 2, 3},  // methyl carbon
		{"C", 8, 0},  // fully substituted
		{"N", 2, 2},  // amine nitrogen
		{"N", 8, 1},  // N with bond order sum 4 steps to valence 5
		{"O", 4, 0},  // carbonyl oxygen
		{"S", 10, 1}, // hypervalent sulfur moves to valence 6
		{"c", 2, 0},  // unknown symbol, brackets carry their own count
		{"C", 3, 2},  // aromatic carbon with one extra single bond rounds up
	}
	for _, tt := range tests {
		if got := ImplicitHydrogens(tt.symbol, tt.twice); got != tt.want {
			t.Errorf("ImplicitHydrogens(%q, %d) = %d, want %d", tt.symbol, tt.twice, got, tt.want)
		}
	}
}

func TestDefaultHydrogens(t *testing.T) {
	if !DefaultHydrogens("C", 2, 3) {
		t.Error("CH3 should match the default count")
	}
	if DefaultHydrogens("C", 2, 2) {
		t.Error("CH2 with one single bond should not match the default")
	}
	if DefaultHydrogens("Fe", 2, 0) {
		t.Error("elements outside the organic subset never match")
	}
}
