package canon

import (
	"fmt"
	"strings"

	"github.com/rajeshg/openchem/pkg/mol"
	"github.com/rajeshg/openchem/pkg/ring"
)

// Canonical encodes the molecule as its canonical SMILES string. The input
// is expected to be aromaticity-perceived and stereo-sanitized; Canonical
// itself never mutates it. The empty molecule encodes to "".
//
// Canonical is deterministic and pure: the same molecule, and any
// relabeling of it, always yields the same string. Disconnected fragments
// are encoded independently and joined with "." in the order their first
// atoms appear - the one place input order shows in the output, which is
// chemically meaningless and accepted.
//
// Canonical panics on molecules violating the structural invariants of the
// data model (dangling bond references and the like). Such molecules are a
// precondition violation that upstream parsing should have rejected; a
// quietly wrong canonical string would poison every cache and dedup layer
// trusting it.
func Canonical(m *mol.Molecule) string {
	if m.NumAtoms() == 0 {
		return ""
	}
	if err := m.Validate(); err != nil {
		panic(fmt.Sprintf("canon: molecule violates structural invariants: %v", err))
	}

	work := m.Clone()
	bracketMinimize(work)
	rings := ring.Detect(work)

	comps := work.Components()
	parts := make([]string, 0, len(comps))
	for _, atoms := range comps {
		labels := ComputeLabels(work, atoms, rings)
		normalizeDirectional(work, atoms, labels)
		flipAllDown(work)
		plan := PlanComponent(work, atoms, labels)
		raw := serializeComponent(work, plan)
		parts = append(parts, normalizeStereoString(raw))
	}
	return strings.Join(parts, ".")
}

// CanonicalAll encodes each molecule and joins the results with ".".
// Empty molecules contribute nothing.
func CanonicalAll(ms ...*mol.Molecule) string {
	parts := make([]string, 0, len(ms))
	for _, m := range ms {
		if s := Canonical(m); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ".")
}

// bracketMinimize recomputes the bracket-required flag of every atom: an
// atom can be written bare only when it is in the organic subset with the
// default implicit-hydrogen count and carries no isotope, charge, class,
// or chirality. Parsers set the flag for whatever the input wrote in
// brackets; canonical output keeps only the brackets that carry
// information.
func bracketMinimize(m *mol.Molecule) {
	for id := 0; id < m.NumAtoms(); id++ {
		a := m.Atom(id)
		needed := a.Isotope > 0 ||
			a.Charge != 0 ||
			a.Class > 0 ||
			a.Chirality != mol.ChiralityNone ||
			!mol.DefaultHydrogens(a.Symbol, m.TwiceBondOrderSum(id), a.Hydrogens)
		if a.Bracket != needed {
			a.Bracket = needed
			_ = m.SetAtom(id, a)
		}
	}
}
