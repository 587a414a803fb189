package canon

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rajeshg/openchem/pkg/mol"
)

// closureRef is a ring closure as seen from one of its endpoints.
type closureRef struct {
	digit int
	other int
	bond  mol.Bond
	first bool // this endpoint emits the bond symbol
}

// serializeComponent turns one planned component into its raw SMILES
// string. The output may still contain non-canonical directional markers;
// the string-level stereo normalizer runs afterwards.
func serializeComponent(m *mol.Molecule, plan *Plan) string {
	atomClosures := assignDigits(plan)

	// Emission works off an explicit item stack; literal items carry
	// parentheses, atom items carry the bond-symbol-plus-token emission.
	type item struct {
		literal string
		atom    int
		parent  int
	}

	var sb strings.Builder
	stack := []item{{atom: plan.Root, parent: -1, literal: ""}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if it.literal != "" {
			sb.WriteString(it.literal)
			continue
		}

		if it.parent >= 0 {
			b, _ := m.BondBetween(it.parent, it.atom)
			sb.WriteString(bondSymbol(m, b, it.parent))
		}
		sb.WriteString(atomToken(m, it.atom, it.parent, plan, atomClosures[it.atom]))
		for _, ref := range atomClosures[it.atom] {
			if ref.first {
				sb.WriteString(bondSymbol(m, ref.bond, it.atom))
			}
			sb.WriteString(digitToken(ref.digit))
		}

		kids := plan.Children(it.atom)
		if len(kids) == 0 {
			continue
		}
		// Push in reverse so the first child is emitted first; all but the
		// last child are wrapped in parentheses.
		last := len(kids) - 1
		stack = append(stack, item{atom: kids[last], parent: it.atom})
		for i := last - 1; i >= 0; i-- {
			stack = append(stack,
				item{literal: ")"},
				item{atom: kids[i], parent: it.atom},
				item{literal: "("},
			)
		}
	}
	return sb.String()
}

// assignDigits orders the component's back edges by the traversal position
// of their endpoints, opening endpoint first, and numbers them from 1.
// Digit order follows the output string rather than raw atom ids, so it
// survives relabeling of the input. Digits are never recycled within a
// component; the two-digit escape keeps numbers above nine representable.
// Returns the per-atom closure lists, sorted by digit.
func assignDigits(plan *Plan) map[int][]closureRef {
	closures := append([]Closure(nil), plan.Closures()...)
	sort.Slice(closures, func(i, j int) bool {
		pi, pj := plan.visitPos[closures[i].First], plan.visitPos[closures[j].First]
		if pi != pj {
			return pi < pj
		}
		return plan.visitPos[closures[i].Second] < plan.visitPos[closures[j].Second]
	})

	out := make(map[int][]closureRef)
	for i, c := range closures {
		d := i + 1
		out[c.First] = append(out[c.First], closureRef{digit: d, other: c.Second, bond: c.Bond, first: true})
		out[c.Second] = append(out[c.Second], closureRef{digit: d, other: c.First, bond: c.Bond})
	}
	for _, refs := range out {
		sort.Slice(refs, func(i, j int) bool { return refs[i].digit < refs[j].digit })
	}
	return out
}

func digitToken(d int) string {
	if d < 10 {
		return fmt.Sprintf("%d", d)
	}
	return fmt.Sprintf("%%%02d", d)
}

// bondSymbol returns the symbol emitted for a bond when written from the
// given endpoint: nothing for aromatic bonds, "=" and "#" for double and
// triple, "-" for a single bond between two aromatic atoms (to
// disambiguate from an implicit aromatic bond), a directional mark for
// stereo singles, and nothing otherwise. Directional markers are stored in
// the bond's From->To direction and inverted when emitted from the other
// endpoint.
func bondSymbol(m *mol.Molecule, b mol.Bond, from int) string {
	switch b.Order {
	case mol.BondAromatic:
		return ""
	case mol.BondDouble:
		return "="
	case mol.BondTriple:
		return "#"
	}
	switch b.Stereo {
	case mol.StereoUp, mol.StereoDown:
		s := b.Stereo
		if b.From != from {
			s = s.Invert()
		}
		if s == mol.StereoUp {
			return "/"
		}
		return "\\"
	}
	if m.Atom(b.From).Aromatic && m.Atom(b.To).Aromatic {
		return "-"
	}
	return ""
}

// atomToken renders one atom: bare organic-subset symbol (lower-cased when
// aromatic) or the full bracket form with isotope, chirality, hydrogens,
// charge, and atom class.
func atomToken(m *mol.Molecule, id, parent int, plan *Plan, closures []closureRef) string {
	a := m.Atom(id)
	sym := a.Symbol
	if a.Aromatic {
		sym = strings.ToLower(sym)
	}
	if !a.Bracket {
		return sym
	}

	var sb strings.Builder
	sb.WriteByte('[')
	if a.Isotope > 0 {
		fmt.Fprintf(&sb, "%d", a.Isotope)
	}
	sb.WriteString(sym)
	if a.Chirality != mol.ChiralityNone {
		sb.WriteString(chiralToken(a, emissionOrder(a, parent, plan.Children(id), closures)))
	}
	if a.Hydrogens > 0 {
		sb.WriteByte('H')
		if a.Hydrogens > 1 {
			fmt.Fprintf(&sb, "%d", a.Hydrogens)
		}
	}
	switch {
	case a.Charge == 1:
		sb.WriteByte('+')
	case a.Charge == -1:
		sb.WriteByte('-')
	case a.Charge > 1:
		fmt.Fprintf(&sb, "+%d", a.Charge)
	case a.Charge < -1:
		fmt.Fprintf(&sb, "-%d", -a.Charge)
	}
	if a.Class > 0 {
		fmt.Fprintf(&sb, ":%d", a.Class)
	}
	sb.WriteByte(']')
	return sb.String()
}

// emissionOrder lists the neighbor positions of an atom as they appear in
// the output: traversal parent, implicit-hydrogen slot, ring-closure
// partners in digit order, then tree children in emission order. This is
// the order a tetrahedral descriptor written here refers to.
func emissionOrder(a mol.Atom, parent int, children []int, closures []closureRef) []int {
	order := make([]int, 0, len(children)+len(closures)+2)
	if parent >= 0 {
		order = append(order, parent)
	}
	if a.Hydrogens == 1 {
		order = append(order, mol.ImplicitHCount)
	}
	for _, ref := range closures {
		order = append(order, ref.other)
	}
	return append(order, children...)
}

// chiralToken re-derives the tetrahedral descriptor for the emission order.
// The parser records the neighbor order the input descriptor referred to;
// when the canonical traversal emits neighbors in a different order, the
// descriptor flips on an odd permutation. Descriptors without a usable
// reference order, and extended (allene) forms, are emitted as stored.
func chiralToken(a mol.Atom, emitted []int) string {
	if !a.Chirality.Tetrahedral() || len(a.ChiralRef) == 0 {
		return a.Chirality.SMILES()
	}
	odd, ok := permutationOdd(a.ChiralRef, emitted)
	if !ok {
		return a.Chirality.SMILES()
	}
	if odd {
		return a.Chirality.Invert().SMILES()
	}
	return a.Chirality.SMILES()
}

// permutationOdd reports whether rearranging ref into emitted is an odd
// permutation. ok is false when the two lists are not the same multiset.
func permutationOdd(ref, emitted []int) (odd, ok bool) {
	n := len(ref)
	if len(emitted) != n {
		return false, false
	}
	perm := make([]int, n)
	used := make([]bool, n)
	for i, v := range emitted {
		found := -1
		for j, r := range ref {
			if !used[j] && r == v {
				found = j
				break
			}
		}
		if found < 0 {
			return false, false
		}
		used[found] = true
		perm[i] = found
	}
	seen := make([]bool, n)
	for i := 0; i < n; i++ {
		if seen[i] {
			continue
		}
		length := 0
		for j := i; !seen[j]; j = perm[j] {
			seen[j] = true
			length++
		}
		if length%2 == 0 {
			odd = !odd
		}
	}
	return odd, true
}
