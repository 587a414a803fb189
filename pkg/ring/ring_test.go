package ring

import (
	"testing"

	"github.com/rajeshg/openchem/pkg/mol"
)

// chain builds a molecule of n carbons bonded in a path.
func chain(t *testing.T, n int) *mol.Molecule {
	t.Helper()
	m := mol.New()
	for i := 0; i < n; i++ {
		if _, err := m.AddAtom(mol.Atom{Symbol: "C"}); err != nil {
			t.Fatal(err)
		}
		if i > 0 {
			if err := m.AddBond(mol.Bond{From: i - 1, To: i, Order: mol.BondSingle}); err != nil {
				t.Fatal(err)
			}
		}
	}
	return m
}

// cycle builds a single carbon ring of n atoms.
func cycle(t *testing.T, n int) *mol.Molecule {
	t.Helper()
	m := chain(t, n)
	if err := m.AddBond(mol.Bond{From: n - 1, To: 0, Order: mol.BondSingle}); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestDetectAcyclic(t *testing.T) {
	info := Detect(chain(t, 5))
	if info.NumRings() != 0 {
		t.Errorf("NumRings() = %d, want 0", info.NumRings())
	}
	if got := info.SmallestSize(2); got != NoRingSize {
		t.Errorf("SmallestSize(2) = %d, want NoRingSize", got)
	}
	if info.SameRing(0, 1) {
		t.Error("SameRing should be false in an acyclic molecule")
	}
}

func TestDetectSingleRing(t *testing.T) {
	info := Detect(cycle(t, 6))
	if info.NumRings() != 1 {
		t.Fatalf("NumRings() = %d, want 1", info.NumRings())
	}
	if got := len(info.Ring(0)); got != 6 {
		t.Errorf("ring size = %d, want 6", got)
	}
	for a := 0; a < 6; a++ {
		if info.SmallestSize(a) != 6 {
			t.Errorf("SmallestSize(%d) = %d, want 6", a, info.SmallestSize(a))
		}
		if info.Count(a) != 1 {
			t.Errorf("Count(%d) = %d, want 1", a, info.Count(a))
		}
	}
	if !info.SameRing(0, 3) {
		t.Error("opposite ring atoms should share the ring")
	}
	if !info.BondInRing(5, 0) {
		t.Error("closure bond should be in the ring")
	}
}

func TestDetectRingWithTail(t *testing.T) {
	// Methylcyclopropane: 3-ring plus an exocyclic carbon.
	m := cycle(t, 3)
	id, err := m.AddAtom(mol.Atom{Symbol: "C"})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.AddBond(mol.Bond{From: 0, To: id, Order: mol.BondSingle}); err != nil {
		t.Fatal(err)
	}

	info := Detect(m)
	if info.NumRings() != 1 {
		t.Fatalf("NumRings() = %d, want 1", info.NumRings())
	}
	if info.Count(id) != 0 {
		t.Errorf("exocyclic atom should be in no ring, Count = %d", info.Count(id))
	}
	if info.BondInRing(0, id) {
		t.Error("exocyclic bond should not be in a ring")
	}
	if info.SameRing(0, id) {
		t.Error("exocyclic atom shares no ring")
	}
}

func TestDetectNaphthalene(t *testing.T) {
	// Two fused six-rings sharing the 0-1 bond. Atoms 0..9, ring one is
	// 0-1-2-3-4-5, ring two is 0-1-6-7-8-9.
	m := mol.New()
	for i := 0; i < 10; i++ {
		if _, err := m.AddAtom(mol.Atom{Symbol: "C", Aromatic: true}); err != nil {
			t.Fatal(err)
		}
	}
	edges := [][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0},
		{1, 6}, {6, 7}, {7, 8}, {8, 9}, {9, 0},
	}
	for _, e := range edges {
		if err := m.AddBond(mol.Bond{From: e[0], To: e[1], Order: mol.BondAromatic}); err != nil {
			t.Fatal(err)
		}
	}

	info := Detect(m)
	if info.NumRings() != 2 {
		t.Fatalf("NumRings() = %d, want 2", info.NumRings())
	}
	for i := 0; i < 2; i++ {
		if got := len(info.Ring(i)); got != 6 {
			t.Errorf("ring %d size = %d, want 6", i, got)
		}
	}

	// Fusion atoms sit in both rings.
	for _, a := range []int{0, 1} {
		if info.Count(a) != 2 {
			t.Errorf("Count(%d) = %d, want 2", a, info.Count(a))
		}
		if got := len(info.RingsContaining(a)); got != 2 {
			t.Errorf("RingsContaining(%d) returned %d rings", a, got)
		}
	}
	// Peripheral atoms sit in exactly one.
	if info.Count(3) != 1 || info.Count(8) != 1 {
		t.Error("peripheral atoms should be in exactly one ring")
	}
	if !info.SameRing(2, 5) {
		t.Error("atoms 2 and 5 share the first ring")
	}
	if info.SameRing(3, 8) {
		t.Error("atoms 3 and 8 are in different rings")
	}
	if !info.BondInRing(0, 1) {
		t.Error("fusion bond belongs to both rings")
	}
}

func TestDetectSpiro(t *testing.T) {
	// Spiro[4.4]nonane: two five-rings sharing a single atom.
	m := mol.New()
	for i := 0; i < 9; i++ {
		if _, err := m.AddAtom(mol.Atom{Symbol: "C"}); err != nil {
			t.Fatal(err)
		}
	}
	edges := [][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 0},
		{0, 5}, {5, 6}, {6, 7}, {7, 8}, {8, 0},
	}
	for _, e := range edges {
		if err := m.AddBond(mol.Bond{From: e[0], To: e[1], Order: mol.BondSingle}); err != nil {
			t.Fatal(err)
		}
	}

	info := Detect(m)
	if info.NumRings() != 2 {
		t.Fatalf("NumRings() = %d, want 2", info.NumRings())
	}
	if info.Count(0) != 2 {
		t.Errorf("spiro atom Count = %d, want 2", info.Count(0))
	}
	if info.SameRing(1, 5) {
		t.Error("atoms of different spiro rings share no ring")
	}
	if got := info.SmallestSize(0); got != 5 {
		t.Errorf("SmallestSize(0) = %d, want 5", got)
	}
}

func TestDetectBicycloPrefersSmallRings(t *testing.T) {
	// Bicyclo[2.2.1]heptane (norbornane): SSSR is two five-rings, never the
	// six-ring perimeter.
	m := mol.New()
	for i := 0; i < 7; i++ {
		if _, err := m.AddAtom(mol.Atom{Symbol: "C"}); err != nil {
			t.Fatal(err)
		}
	}
	edges := [][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0}, // six-ring perimeter
		{0, 6}, {6, 3}, // one-carbon bridge
	}
	for _, e := range edges {
		if err := m.AddBond(mol.Bond{From: e[0], To: e[1], Order: mol.BondSingle}); err != nil {
			t.Fatal(err)
		}
	}

	info := Detect(m)
	if info.NumRings() != 2 {
		t.Fatalf("NumRings() = %d, want 2", info.NumRings())
	}
	for i := 0; i < 2; i++ {
		if got := len(info.Ring(i)); got != 5 {
			t.Errorf("ring %d size = %d, want 5", i, got)
		}
	}
	// Bridgeheads belong to both rings, the bridge carbon too.
	for _, a := range []int{0, 3, 6} {
		if info.Count(a) != 2 {
			t.Errorf("Count(%d) = %d, want 2", a, info.Count(a))
		}
	}
}

func TestDetectDisconnected(t *testing.T) {
	// A ring and a separate chain in one molecule.
	m := cycle(t, 4)
	a, err := m.AddAtom(mol.Atom{Symbol: "C"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := m.AddAtom(mol.Atom{Symbol: "C"})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.AddBond(mol.Bond{From: a, To: b, Order: mol.BondSingle}); err != nil {
		t.Fatal(err)
	}

	info := Detect(m)
	if info.NumRings() != 1 {
		t.Errorf("NumRings() = %d, want 1", info.NumRings())
	}
	if info.Count(a) != 0 {
		t.Error("chain atoms are in no ring")
	}
}
