package smiles

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rajeshg/openchem/pkg/mol"
)

// ErrKekulize is returned when no alternating single/double assignment
// exists for an aromatic system.
var ErrKekulize = errors.New("no kekule structure")

// Kekulize converts aromatic bonds of a copy of the molecule into
// alternating single and double bonds and clears aromatic flags. Every
// aromatic atom that needs a double bond (carbons and pyridine-type
// nitrogens) must receive exactly one; pyrrole-type nitrogens, oxygen, and
// sulfur keep single bonds. Returns ErrKekulize when the constraint cannot
// be satisfied.
func Kekulize(m *mol.Molecule) (*mol.Molecule, error) {
	out := m.Clone()

	var aromAtoms []int
	for id := 0; id < out.NumAtoms(); id++ {
		if out.Atom(id).Aromatic {
			aromAtoms = append(aromAtoms, id)
		}
	}
	if len(aromAtoms) == 0 {
		return out, nil
	}
	sort.Ints(aromAtoms)

	needs := make(map[int]bool, len(aromAtoms))
	for _, id := range aromAtoms {
		needs[id] = needsDouble(out, id)
	}

	matched := make(map[int]bool, len(aromAtoms))
	assign := make(map[int]bool) // bond index -> double
	if !match(out, aromAtoms, 0, needs, matched, assign) {
		return nil, fmt.Errorf("%w: %d aromatic atoms", ErrKekulize, len(aromAtoms))
	}

	for bi := 0; bi < out.NumBonds(); bi++ {
		b := out.Bond(bi)
		if b.Order != mol.BondAromatic {
			continue
		}
		if assign[bi] {
			b.Order = mol.BondDouble
		} else {
			b.Order = mol.BondSingle
		}
		_ = out.SetBond(bi, b)
	}
	for _, id := range aromAtoms {
		a := out.Atom(id)
		a.Aromatic = false
		_ = out.SetAtom(id, a)
	}
	return out, nil
}

// needsDouble reports whether the aromatic atom must carry one double bond
// in the Kekule structure.
func needsDouble(m *mol.Molecule, id int) bool {
	a := m.Atom(id)
	for _, b := range m.BondsOf(id) {
		if b.Order == mol.BondDouble {
			return false // exocyclic double bond already satisfies sp2
		}
	}
	switch a.Symbol {
	case "O", "S":
		return false
	case "N", "P":
		// Pyrrole-type: three connections or an explicit hydrogen donates
		// the lone pair instead.
		return m.Degree(id)+a.Hydrogens < 3
	default:
		return true
	}
}

// match assigns double bonds by backtracking over the aromatic atoms in id
// order. Atom i must be satisfied before moving to i+1.
func match(m *mol.Molecule, atoms []int, i int, needs, matched map[int]bool, assign map[int]bool) bool {
	if i == len(atoms) {
		return true
	}
	id := atoms[i]
	if !needs[id] || matched[id] {
		return match(m, atoms, i+1, needs, matched, assign)
	}
	for _, nb := range m.Neighbors(id) {
		bi := m.BondIndexBetween(id, nb)
		if m.Bond(bi).Order != mol.BondAromatic {
			continue
		}
		if !needs[nb] || matched[nb] {
			continue
		}
		matched[id], matched[nb] = true, true
		assign[bi] = true
		if match(m, atoms, i+1, needs, matched, assign) {
			return true
		}
		delete(assign, bi)
		matched[id], matched[nb] = false, false
	}
	return false
}
