package smiles

import (
	"github.com/rajeshg/openchem/pkg/mol"
)

// SanitizeStereo returns a copy of the molecule with chemically impossible
// stereo markers downgraded to none: tetrahedral tags on atoms without four
// substituent positions, allene tags on atoms that are not cumulated-diene
// centers, and directional bond markers with no adjacent double bond.
// Downgrading is silent - a marker the geometry cannot support carries no
// information worth failing over.
func SanitizeStereo(m *mol.Molecule) *mol.Molecule {
	out := m.Clone()

	for id := 0; id < out.NumAtoms(); id++ {
		a := out.Atom(id)
		switch {
		case a.Chirality == mol.ChiralityNone:
			continue
		case a.Chirality.Tetrahedral():
			if out.Degree(id)+a.Hydrogens != 4 {
				a.Chirality = mol.ChiralityNone
				a.ChiralRef = nil
				_ = out.SetAtom(id, a)
			}
		default:
			if !alleneCenter(out, id) {
				a.Chirality = mol.ChiralityNone
				a.ChiralRef = nil
				_ = out.SetAtom(id, a)
			}
		}
	}

	for bi := 0; bi < out.NumBonds(); bi++ {
		b := out.Bond(bi)
		if b.Stereo == mol.StereoNone || b.Order != mol.BondSingle {
			if b.Order != mol.BondSingle && b.Stereo != mol.StereoNone && b.Stereo != mol.StereoEither {
				b.Stereo = mol.StereoNone
				_ = out.SetBond(bi, b)
			}
			continue
		}
		if !adjacentToDouble(out, b.From) && !adjacentToDouble(out, b.To) {
			b.Stereo = mol.StereoNone
			_ = out.SetBond(bi, b)
		}
	}
	return out
}

// alleneCenter reports whether the atom is the middle of a cumulated diene
// (two double bonds, no other connections).
func alleneCenter(m *mol.Molecule, id int) bool {
	if m.Degree(id) != 2 {
		return false
	}
	for _, b := range m.BondsOf(id) {
		if b.Order != mol.BondDouble {
			return false
		}
	}
	return true
}

// adjacentToDouble reports whether the atom carries a non-aromatic double
// bond.
func adjacentToDouble(m *mol.Molecule, id int) bool {
	for _, b := range m.BondsOf(id) {
		if b.Order == mol.BondDouble {
			return true
		}
	}
	return false
}
