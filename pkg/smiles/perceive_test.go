package smiles

import (
	"errors"
	"testing"

	"github.com/rajeshg/openchem/pkg/mol"
)

func countAromaticAtoms(m *mol.Molecule) int {
	n := 0
	for _, a := range m.Atoms() {
		if a.Aromatic {
			n++
		}
	}
	return n
}

func countBonds(m *mol.Molecule, order mol.BondOrder) int {
	n := 0
	for _, b := range m.Bonds() {
		if b.Order == order {
			n++
		}
	}
	return n
}

func TestPerceiveKekuleBenzene(t *testing.T) {
	m := Perceive(mustParse(t, "C1=CC=CC=C1"))
	if got := countAromaticAtoms(m); got != 6 {
		t.Errorf("aromatic atoms = %d, want 6", got)
	}
	if got := countBonds(m, mol.BondAromatic); got != 6 {
		t.Errorf("aromatic bonds = %d, want 6", got)
	}
}

func TestPerceiveCyclohexane(t *testing.T) {
	m := Perceive(mustParse(t, "C1CCCCC1"))
	if got := countAromaticAtoms(m); got != 0 {
		t.Errorf("aromatic atoms = %d, want 0", got)
	}
}

func TestPerceiveCyclobutadiene(t *testing.T) {
	// 4 pi electrons, fails the 4n+2 rule.
	m := Perceive(mustParse(t, "C1=CC=C1"))
	if got := countAromaticAtoms(m); got != 0 {
		t.Errorf("aromatic atoms = %d, want 0", got)
	}
}

func TestPerceivePyrrole(t *testing.T) {
	// The NH lone pair completes the sextet.
	m := Perceive(mustParse(t, "C1=CC=CN1"))
	if got := countAromaticAtoms(m); got != 5 {
		t.Errorf("aromatic atoms = %d, want 5", got)
	}
}

func TestPerceiveFuran(t *testing.T) {
	m := Perceive(mustParse(t, "C1=CC=CO1"))
	if got := countAromaticAtoms(m); got != 5 {
		t.Errorf("aromatic atoms = %d, want 5", got)
	}
}

func TestPerceivePyridine(t *testing.T) {
	m := Perceive(mustParse(t, "C1=CC=CC=N1"))
	if got := countAromaticAtoms(m); got != 6 {
		t.Errorf("aromatic atoms = %d, want 6", got)
	}
}

func TestPerceiveIdempotent(t *testing.T) {
	m := Perceive(mustParse(t, "c1ccccc1"))
	again := Perceive(m)
	if got := countAromaticAtoms(again); got != 6 {
		t.Errorf("aromatic atoms after second pass = %d, want 6", got)
	}
	if got := countBonds(again, mol.BondAromatic); got != 6 {
		t.Errorf("aromatic bonds after second pass = %d, want 6", got)
	}
}

func TestPerceiveDoesNotMutateInput(t *testing.T) {
	in := mustParse(t, "C1=CC=CC=C1")
	_ = Perceive(in)
	if got := countAromaticAtoms(in); got != 0 {
		t.Error("input molecule was mutated")
	}
}

func TestPerceiveSp3BreaksRing(t *testing.T) {
	// Cyclohexadiene has an sp3 corner, so no aromatic system forms.
	m := Perceive(mustParse(t, "C1=CC=CCC1"))
	if got := countAromaticAtoms(m); got != 0 {
		t.Errorf("aromatic atoms = %d, want 0", got)
	}
}

func TestSanitizeStereoDropsBadTetrahedral(t *testing.T) {
	// Three substituent positions cannot carry a tetrahedral tag.
	m := SanitizeStereo(mustParse(t, "[C@](F)(Cl)Br"))
	if got := m.Atom(0).Chirality; got != mol.ChiralityNone {
		t.Errorf("chirality = %v, want none", got)
	}
	if m.Atom(0).ChiralRef != nil {
		t.Error("ChiralRef should be cleared with the tag")
	}
}

func TestSanitizeStereoKeepsValidTetrahedral(t *testing.T) {
	m := SanitizeStereo(mustParse(t, "N[C@@H](C)C(=O)O"))
	if got := m.Atom(1).Chirality; got != mol.ChiralityCW {
		t.Errorf("chirality = %v, want CW", got)
	}
}

func TestSanitizeStereoDropsLoneDirectional(t *testing.T) {
	// No double bond anywhere near the marker.
	m := SanitizeStereo(mustParse(t, "F/CC"))
	if got := m.Bond(0).Stereo; got != mol.StereoNone {
		t.Errorf("stereo = %v, want none", got)
	}
}

func TestSanitizeStereoKeepsCisTrans(t *testing.T) {
	m := SanitizeStereo(mustParse(t, "F/C=C/F"))
	if got := m.Bond(0).Stereo; got != mol.StereoUp {
		t.Errorf("bond 0 stereo = %v, want up", got)
	}
	if got := m.Bond(2).Stereo; got != mol.StereoUp {
		t.Errorf("bond 2 stereo = %v, want up", got)
	}
}

func TestSanitizeStereoDropsNonAlleneTag(t *testing.T) {
	m := SanitizeStereo(mustParse(t, "C[C@AL1](C)C"))
	if got := m.Atom(1).Chirality; got != mol.ChiralityNone {
		t.Errorf("chirality = %v, want none", got)
	}
}

func TestKekulizeBenzene(t *testing.T) {
	m, err := Kekulize(Perceive(mustParse(t, "c1ccccc1")))
	if err != nil {
		t.Fatalf("Kekulize: %v", err)
	}
	if got := countAromaticAtoms(m); got != 0 {
		t.Errorf("aromatic atoms = %d, want 0", got)
	}
	if got := countBonds(m, mol.BondDouble); got != 3 {
		t.Errorf("double bonds = %d, want 3", got)
	}
	if got := countBonds(m, mol.BondSingle); got != 3 {
		t.Errorf("single bonds = %d, want 3", got)
	}
	// Alternation: no atom carries two double bonds.
	for id := 0; id < m.NumAtoms(); id++ {
		doubles := 0
		for _, b := range m.BondsOf(id) {
			if b.Order == mol.BondDouble {
				doubles++
			}
		}
		if doubles != 1 {
			t.Errorf("atom %d carries %d double bonds, want 1", id, doubles)
		}
	}
}

func TestKekulizePyrrole(t *testing.T) {
	m, err := Kekulize(Perceive(mustParse(t, "c1cc[nH]c1")))
	if err != nil {
		t.Fatalf("Kekulize: %v", err)
	}
	if got := countBonds(m, mol.BondDouble); got != 2 {
		t.Errorf("double bonds = %d, want 2", got)
	}
	// The pyrrole nitrogen keeps single bonds.
	for id := 0; id < m.NumAtoms(); id++ {
		if m.Atom(id).Symbol != "N" {
			continue
		}
		for _, b := range m.BondsOf(id) {
			if b.Order == mol.BondDouble {
				t.Error("pyrrole nitrogen should not carry a double bond")
			}
		}
	}
}

func TestKekulizeNoAromaticSystem(t *testing.T) {
	in := mustParse(t, "CCO")
	m, err := Kekulize(in)
	if err != nil {
		t.Fatalf("Kekulize: %v", err)
	}
	if m.NumAtoms() != in.NumAtoms() {
		t.Error("molecule should pass through unchanged")
	}
}

func TestKekulizeImpossible(t *testing.T) {
	// An odd aromatic chain of carbons has no perfect matching.
	m := mol.New()
	for i := 0; i < 3; i++ {
		if _, err := m.AddAtom(mol.Atom{Symbol: "C", Aromatic: true}); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 2; i++ {
		if err := m.AddBond(mol.Bond{From: i, To: i + 1, Order: mol.BondAromatic}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := Kekulize(m); !errors.Is(err, ErrKekulize) {
		t.Errorf("Kekulize error = %v, want ErrKekulize", err)
	}
}
