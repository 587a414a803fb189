package canon

import (
	"regexp"
	"strings"

	"github.com/rajeshg/openchem/pkg/mol"
)

// normalizeDirectional enforces the substituent-priority rule for
// directional markers around double bonds, mutating the working copy in
// place. When a double-bond atom has more than one single-bond substituent,
// only the substituent ranked first by canonical label may carry a marker;
// if that substituent lacks one, it is inferred from a marked sibling on
// the same atom (the two sit on opposite sides of the double bond, so the
// inferred marker is the sibling's inverse).
func normalizeDirectional(m *mol.Molecule, atoms []int, labels *Labels) {
	inComponent := make(map[int]bool, len(atoms))
	for _, id := range atoms {
		inComponent[id] = true
	}

	for bi := 0; bi < m.NumBonds(); bi++ {
		db := m.Bond(bi)
		if db.Order != mol.BondDouble || !inComponent[db.From] {
			continue
		}
		normalizeEnd(m, labels, db.From, db.To)
		normalizeEnd(m, labels, db.To, db.From)
	}
}

// normalizeEnd handles the substituents of one double-bond endpoint.
func normalizeEnd(m *mol.Molecule, labels *Labels, end, partner int) {
	type sub struct {
		idx  int
		far  int
		bond mol.Bond
	}
	var subs []sub
	for _, nb := range m.Neighbors(end) {
		if nb == partner {
			continue
		}
		i := m.BondIndexBetween(end, nb)
		b := m.Bond(i)
		if b.Order == mol.BondSingle {
			subs = append(subs, sub{idx: i, far: nb, bond: b})
		}
	}
	if len(subs) < 2 {
		return
	}
	if labels.Order(subs[1].far) < labels.Order(subs[0].far) {
		subs[0], subs[1] = subs[1], subs[0]
	}
	primary, sibling := subs[0], subs[1]

	if outward(primary.bond, end) == mol.StereoNone {
		if s := outward(sibling.bond, end); s == mol.StereoUp || s == mol.StereoDown {
			b := primary.bond
			b.Stereo = s.Invert()
			if b.From != end {
				b.Stereo = b.Stereo.Invert()
			}
			_ = m.SetBond(primary.idx, b)
		}
	}
	if sibling.bond.Stereo != mol.StereoNone {
		b := sibling.bond
		b.Stereo = mol.StereoNone
		_ = m.SetBond(sibling.idx, b)
	}
}

// outward returns the bond's marker read from the given atom toward the
// other endpoint.
func outward(b mol.Bond, from int) mol.BondStereo {
	if b.From == from {
		return b.Stereo
	}
	return b.Stereo.Invert()
}

// flipAllDown collapses one pair of equivalent encodings at the molecule
// level: when every directional marker around a double bond is "down", the
// identical geometry written with "up" markers is chosen instead. Bonds
// adjacent to two double bonds are flipped at most once.
func flipAllDown(m *mol.Molecule) {
	toFlip := make(map[int]bool)
	for bi := 0; bi < m.NumBonds(); bi++ {
		db := m.Bond(bi)
		if db.Order != mol.BondDouble {
			continue
		}
		var marked []int
		allDown := true
		for _, end := range [2]int{db.From, db.To} {
			for _, nb := range m.Neighbors(end) {
				i := m.BondIndexBetween(end, nb)
				b := m.Bond(i)
				if b.Order != mol.BondSingle || b.Stereo == mol.StereoNone || b.Stereo == mol.StereoEither {
					continue
				}
				marked = append(marked, i)
				if b.Stereo != mol.StereoDown {
					allDown = false
				}
			}
		}
		if allDown {
			for _, i := range marked {
				toFlip[i] = true
			}
		}
	}
	for i := range toFlip {
		b := m.Bond(i)
		b.Stereo = b.Stereo.Invert()
		_ = m.SetBond(i, b)
	}
}

// normalizeStereoString is the string-level stereo pass over one
// component. A double-bond configuration can legally be written with either
// marker set depending on the traversal direction, so the fully flipped
// variant is computed and the lexicographically smaller of the two wins.
// Strings without directional markers pass through untouched.
func normalizeStereoString(s string) string {
	if strings.ContainsAny(s, "/\\") {
		flipped := flipMarkers(s)
		if flipped < s {
			s = flipped
		}
	}
	return fixRingClosureDouble(s)
}

func flipMarkers(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '/':
			sb.WriteByte('\\')
		case '\\':
			sb.WriteByte('/')
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// reClosureDouble matches a double-bond symbol attached to a ring-closure
// digit (single-digit or %nn escape form).
var reClosureDouble = regexp.MustCompile(`=(%\d\d|\d)`)

// fixRingClosureDouble corrects a ring double-bond anomaly: when the
// closure bond of a small ring is itself the double bond, rotation of the
// traversal can leave the "=" attached to both occurrences of the digit.
// The symbol belongs to the opening endpoint only; the duplicate at the
// closing digit is stripped. This fix-up is deliberately narrow - general
// rotation-invariant placement of ring double bonds is not attempted.
func fixRingClosureDouble(s string) string {
	matches := reClosureDouble.FindAllStringSubmatchIndex(s, -1)
	if len(matches) < 2 {
		return s
	}
	seen := make(map[string]bool)
	drop := make(map[int]bool) // offsets of "=" bytes to remove
	for _, mt := range matches {
		digit := s[mt[2]:mt[3]]
		if seen[digit] {
			drop[mt[0]] = true
			continue
		}
		seen[digit] = true
	}
	if len(drop) == 0 {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if drop[i] {
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
