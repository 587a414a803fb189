package smiles

import (
	"github.com/rajeshg/openchem/pkg/mol"
	"github.com/rajeshg/openchem/pkg/ring"
)

// Perceive marks aromatic rings on a copy of the molecule and returns it.
// A ring is aromatic when every member can participate in the delocalized
// system and the pi-electron count satisfies the 4n+2 rule. Rings are
// revisited until a fixed point so that fused systems stabilize. The input
// molecule is not modified; calling Perceive on an already-perceived
// molecule is a no-op copy.
func Perceive(m *mol.Molecule) *mol.Molecule {
	out := m.Clone()
	rings := ring.Detect(out)
	if rings.NumRings() == 0 {
		return out
	}

	// Fused systems can need a neighbor ring's verdict before their own
	// settles; ring count bounds the rounds.
	for round := 0; round < rings.NumRings(); round++ {
		changed := false
		for i := 0; i < rings.NumRings(); i++ {
			if markAromatic(out, rings.Ring(i)) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return out
}

// markAromatic tests one ring and, when aromatic, flags its atoms and
// in-ring bonds. Reports whether anything changed.
func markAromatic(m *mol.Molecule, atoms []int) bool {
	pi := 0
	for _, id := range atoms {
		c, ok := piContribution(m, id, atoms)
		if !ok {
			return false
		}
		pi += c
	}
	if pi%4 != 2 {
		return false
	}

	changed := false
	for i, id := range atoms {
		a := m.Atom(id)
		if !a.Aromatic {
			a.Aromatic = true
			_ = m.SetAtom(id, a)
			changed = true
		}
		next := atoms[(i+1)%len(atoms)]
		bi := m.BondIndexBetween(id, next)
		b := m.Bond(bi)
		if b.Order != mol.BondAromatic {
			b.Order = mol.BondAromatic
			_ = m.SetBond(bi, b)
			changed = true
		}
	}
	return changed
}

// piContribution returns the number of pi electrons the atom donates to the
// ring, or ok=false when the atom cannot be part of an aromatic system.
func piContribution(m *mol.Molecule, id int, ringAtoms []int) (int, bool) {
	a := m.Atom(id)
	if a.Aromatic {
		return 1, true
	}
	if m.Degree(id)+a.Hydrogens > 3 {
		return 0, false // sp3 center breaks the system
	}

	inRing := func(x int) bool {
		for _, r := range ringAtoms {
			if r == x {
				return true
			}
		}
		return false
	}

	hasRingDouble, hasExoDouble := false, false
	for _, b := range m.BondsOf(id) {
		switch b.Order {
		case mol.BondDouble:
			if inRing(b.Other(id)) {
				hasRingDouble = true
			} else {
				hasExoDouble = true
			}
		case mol.BondTriple:
			return 0, false
		}
	}

	switch {
	case hasRingDouble:
		return 1, true
	case hasExoDouble:
		// Carbonyl-style member (e.g. pyranone carbon): in the system but
		// donates nothing.
		return 0, true
	case mol.IsHeteroatom(a.Symbol):
		// Saturated N, O, or S donates its lone pair (pyrrole, furan,
		// thiophene).
		switch a.Symbol {
		case "N", "O", "S", "P":
			return 2, true
		}
		return 0, false
	default:
		return 0, false
	}
}
