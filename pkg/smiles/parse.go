package smiles

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rajeshg/openchem/pkg/mol"
)

var (
	// ErrSyntax is returned for any token-level parse failure.
	ErrSyntax = errors.New("invalid SMILES syntax")

	// ErrUnclosedBranch is returned when input ends inside an open "(".
	ErrUnclosedBranch = errors.New("unclosed branch")

	// ErrUnmatchedBranch is returned for a ")" with no matching "(".
	ErrUnmatchedBranch = errors.New("unmatched branch close")

	// ErrUnclosedRing is returned when a ring-closure digit is opened but
	// never closed.
	ErrUnclosedRing = errors.New("unclosed ring bond")

	// ErrRingBondConflict is returned when both endpoints of a ring closure
	// specify incompatible bond symbols.
	ErrRingBondConflict = errors.New("conflicting ring bond symbols")

	// ErrBracket is returned for malformed bracket atoms.
	ErrBracket = errors.New("malformed bracket atom")
)

// ringRefBase encodes an open ring-closure digit inside a chiral reference
// list until the partner atom is known. Digit d is stored as -(ringRefBase+d)
// and patched to the partner id when the ring closes.
const ringRefBase = 100

// pendingBond holds a bond symbol waiting for its second atom.
type pendingBond struct {
	order  mol.BondOrder
	stereo mol.BondStereo
	set    bool
}

// ringOpen records the first endpoint of a ring-closure digit.
type ringOpen struct {
	atom   int
	bond   pendingBond // symbol written at the opening endpoint, if any
	pos    int         // input offset, for error reporting
}

type parser struct {
	src     string
	pos     int
	atoms   []mol.Atom
	bonds   []mol.Bond
	prev    int // most recent atom, -1 after "." or at start
	stack   []int
	pending pendingBond
	rings   map[int]*ringOpen
}

// Parse reads a SMILES string into a molecule. The empty string parses to
// an empty molecule. Atom ids follow input order; implicit hydrogen counts
// are filled in for organic-subset atoms from default valences.
func Parse(s string) (*mol.Molecule, error) {
	p := &parser{src: s, prev: -1, rings: make(map[int]*ringOpen)}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.assemble()
}

func (p *parser) run() error {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 {
				return p.errf("branch must follow an atom")
			}
			if p.pending.set {
				return p.errf("bond symbol before branch open")
			}
			p.stack = append(p.stack, p.prev)
			p.pos++
		case c == ')':
			if len(p.stack) == 0 {
				return fmt.Errorf("%w at offset %d", ErrUnmatchedBranch, p.pos)
			}
			if p.pending.set {
				return p.errf("dangling bond symbol before branch close")
			}
			p.prev = p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			p.pos++
		case c == '.':
			if p.pending.set {
				return p.errf("bond symbol before fragment separator")
			}
			p.prev = -1
			p.pos++
		case c == '-' || c == '=' || c == '#' || c == ':' || c == '/' || c == '\\':
			if p.pending.set {
				return p.errf("repeated bond symbol")
			}
			p.pending = bondSymbol(c)
			p.pos++
		case c >= '0' && c <= '9':
			if err := p.ringClosure(int(c - '0')); err != nil {
				return err
			}
			p.pos++
		case c == '%':
			if p.pos+2 >= len(p.src) || !isDigit(p.src[p.pos+1]) || !isDigit(p.src[p.pos+2]) {
				return p.errf("%% must be followed by two digits")
			}
			n := int(p.src[p.pos+1]-'0')*10 + int(p.src[p.pos+2]-'0')
			if err := p.ringClosure(n); err != nil {
				return err
			}
			p.pos += 3
		case c == '[':
			a, err := p.bracketAtom()
			if err != nil {
				return err
			}
			p.add(a)
		case isLetter(c):
			a, err := p.organicAtom()
			if err != nil {
				return err
			}
			p.add(a)
		default:
			return p.errf("unexpected character %q", c)
		}
	}
	if len(p.stack) > 0 {
		return ErrUnclosedBranch
	}
	if p.pending.set {
		return p.errf("trailing bond symbol")
	}
	for d, r := range p.rings {
		return fmt.Errorf("%w: digit %d opened at offset %d", ErrUnclosedRing, d, r.pos)
	}
	return nil
}

// add appends the atom, creating the chain bond to the previous atom and
// maintaining chiral reference orders on both endpoints.
func (p *parser) add(a mol.Atom) {
	id := len(p.atoms)
	a.ID = id
	if a.Chirality != mol.ChiralityNone {
		if p.prev >= 0 {
			a.ChiralRef = append(a.ChiralRef, p.prev)
		}
		if a.Hydrogens == 1 {
			a.ChiralRef = append(a.ChiralRef, mol.ImplicitHCount)
		}
	}
	p.atoms = append(p.atoms, a)

	if p.prev >= 0 {
		b := mol.Bond{From: p.prev, To: id}
		switch {
		case p.pending.set:
			b.Order = p.pending.order
			b.Stereo = p.pending.stereo
		case p.atoms[p.prev].Aromatic && a.Aromatic:
			b.Order = mol.BondAromatic
		default:
			b.Order = mol.BondSingle
		}
		p.bonds = append(p.bonds, b)
		if p.atoms[p.prev].Chirality != mol.ChiralityNone {
			p.atoms[p.prev].ChiralRef = append(p.atoms[p.prev].ChiralRef, id)
		}
	}
	p.pending = pendingBond{}
	p.prev = id
}

// ringClosure opens or closes the given ring digit on the current atom.
func (p *parser) ringClosure(digit int) error {
	if p.prev < 0 {
		return p.errf("ring closure digit must follow an atom")
	}
	open, ok := p.rings[digit]
	if !ok {
		p.rings[digit] = &ringOpen{atom: p.prev, bond: p.pending, pos: p.pos}
		if p.atoms[p.prev].Chirality != mol.ChiralityNone {
			p.atoms[p.prev].ChiralRef = append(p.atoms[p.prev].ChiralRef, -(ringRefBase + digit))
		}
		p.pending = pendingBond{}
		return nil
	}
	delete(p.rings, digit)
	if open.atom == p.prev {
		return p.errf("ring digit %d closes on its own atom", digit)
	}

	b, err := p.ringBond(open, digit)
	if err != nil {
		return err
	}
	p.bonds = append(p.bonds, b)

	// The closing atom gains the opener as a neighbor at the digit's
	// position; the opener's placeholder is patched with the closer id.
	if p.atoms[p.prev].Chirality != mol.ChiralityNone {
		p.atoms[p.prev].ChiralRef = append(p.atoms[p.prev].ChiralRef, open.atom)
	}
	ref := p.atoms[open.atom].ChiralRef
	for i, v := range ref {
		if v == -(ringRefBase + digit) {
			ref[i] = p.prev
		}
	}
	p.pending = pendingBond{}
	return nil
}

// ringBond reconciles the bond symbols written at the two endpoints of a
// ring closure. A directional marker is always stored in the direction of
// the endpoint that wrote it.
func (p *parser) ringBond(open *ringOpen, digit int) (mol.Bond, error) {
	closing := p.pending
	if open.bond.set && closing.set {
		if open.bond.order != closing.order {
			return mol.Bond{}, fmt.Errorf("%w: digit %d", ErrRingBondConflict, digit)
		}
		// Directional markers are read away from their own endpoint, so the
		// two sides agree when one is the inverse of the other.
		if open.bond.stereo != mol.StereoNone && closing.stereo != open.bond.stereo.Invert() {
			return mol.Bond{}, fmt.Errorf("%w: digit %d", ErrRingBondConflict, digit)
		}
	}
	switch {
	case open.bond.set:
		return mol.Bond{From: open.atom, To: p.prev, Order: open.bond.order, Stereo: open.bond.stereo}, nil
	case closing.set:
		return mol.Bond{From: p.prev, To: open.atom, Order: closing.order, Stereo: closing.stereo}, nil
	case p.atoms[open.atom].Aromatic && p.atoms[p.prev].Aromatic:
		return mol.Bond{From: open.atom, To: p.prev, Order: mol.BondAromatic}, nil
	default:
		return mol.Bond{From: open.atom, To: p.prev, Order: mol.BondSingle}, nil
	}
}

// organicAtom reads a bare (non-bracket) atom from the organic subset.
func (p *parser) organicAtom() (mol.Atom, error) {
	rest := p.src[p.pos:]
	// Two-letter symbols first so "Cl" is not read as carbon.
	for _, sym := range []string{"Cl", "Br"} {
		if strings.HasPrefix(rest, sym) {
			p.pos += 2
			return mol.Atom{Symbol: sym}, nil
		}
	}
	c := rest[0]
	if upper := strings.ToUpper(string(c)); mol.InOrganicSubset(upper) {
		p.pos++
		aromatic := c >= 'a' && c <= 'z'
		if aromatic && !isAromaticSymbol(upper) {
			return mol.Atom{}, p.errf("element %s cannot be aromatic", upper)
		}
		return mol.Atom{Symbol: upper, Aromatic: aromatic}, nil
	}
	return mol.Atom{}, p.errf("unknown atom symbol starting with %q", c)
}

// bracketAtom reads "[" isotope? symbol chiral? hcount? charge? class? "]".
func (p *parser) bracketAtom() (mol.Atom, error) {
	start := p.pos
	p.pos++ // consume "["
	a := mol.Atom{Bracket: true}

	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		a.Isotope = a.Isotope*10 + int(p.src[p.pos]-'0')
		p.pos++
	}

	sym, aromatic, err := p.bracketSymbol()
	if err != nil {
		return a, err
	}
	a.Symbol = sym
	a.Aromatic = aromatic

	a.Chirality = p.chiralTag()

	if p.pos < len(p.src) && p.src[p.pos] == 'H' && sym != "H" {
		p.pos++
		a.Hydrogens = 1
		if p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			a.Hydrogens = int(p.src[p.pos] - '0')
			p.pos++
		}
	}

	a.Charge = p.chargeTag()

	if p.pos < len(p.src) && p.src[p.pos] == ':' {
		p.pos++
		if p.pos >= len(p.src) || !isDigit(p.src[p.pos]) {
			return a, fmt.Errorf("%w at offset %d: atom class needs digits", ErrBracket, start)
		}
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			a.Class = a.Class*10 + int(p.src[p.pos]-'0')
			p.pos++
		}
	}

	if p.pos >= len(p.src) || p.src[p.pos] != ']' {
		return a, fmt.Errorf("%w at offset %d: missing ]", ErrBracket, start)
	}
	p.pos++
	return a, nil
}

// bracketSymbol reads the element symbol inside a bracket atom.
func (p *parser) bracketSymbol() (string, bool, error) {
	if p.pos >= len(p.src) {
		return "", false, fmt.Errorf("%w: truncated", ErrBracket)
	}
	c := p.src[p.pos]
	if c >= 'a' && c <= 'z' {
		// Aromatic symbols: single letters plus se/as.
		for _, two := range []string{"se", "as"} {
			if strings.HasPrefix(p.src[p.pos:], two) {
				p.pos += 2
				return strings.ToUpper(two[:1]) + two[1:], true, nil
			}
		}
		sym := strings.ToUpper(string(c))
		if !isAromaticSymbol(sym) {
			return "", false, p.errf("element %q cannot be aromatic", c)
		}
		p.pos++
		return sym, true, nil
	}
	if c < 'A' || c > 'Z' {
		return "", false, fmt.Errorf("%w at offset %d: expected element symbol", ErrBracket, p.pos)
	}
	if p.pos+1 < len(p.src) {
		two := p.src[p.pos : p.pos+2]
		if two[1] >= 'a' && two[1] <= 'z' {
			if _, ok := mol.AtomicNumber(two); ok {
				p.pos += 2
				return two, false, nil
			}
		}
	}
	p.pos++
	return string(c), false, nil
}

// chiralTag reads "@", "@@", "@AL1", "@AL2", "@TH1", or "@TH2".
func (p *parser) chiralTag() mol.Chirality {
	if p.pos >= len(p.src) || p.src[p.pos] != '@' {
		return mol.ChiralityNone
	}
	p.pos++
	rest := p.src[p.pos:]
	switch {
	case strings.HasPrefix(rest, "@"):
		p.pos++
		return mol.ChiralityCW
	case strings.HasPrefix(rest, "AL1"):
		p.pos += 3
		return mol.ChiralityAlleneCCW
	case strings.HasPrefix(rest, "AL2"):
		p.pos += 3
		return mol.ChiralityAlleneCW
	case strings.HasPrefix(rest, "TH1"):
		p.pos += 3
		return mol.ChiralityCCW
	case strings.HasPrefix(rest, "TH2"):
		p.pos += 3
		return mol.ChiralityCW
	}
	return mol.ChiralityCCW
}

// chargeTag reads "+", "-", repeated signs, or a sign with digits.
func (p *parser) chargeTag() int {
	if p.pos >= len(p.src) {
		return 0
	}
	sign := 0
	switch p.src[p.pos] {
	case '+':
		sign = 1
	case '-':
		sign = -1
	default:
		return 0
	}
	mark := p.src[p.pos]
	p.pos++
	if p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		n := 0
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			n = n*10 + int(p.src[p.pos]-'0')
			p.pos++
		}
		return sign * n
	}
	n := 1
	for p.pos < len(p.src) && p.src[p.pos] == mark {
		n++
		p.pos++
	}
	return sign * n
}

// assemble builds the molecule and fills implicit hydrogen counts for
// non-bracket atoms.
func (p *parser) assemble() (*mol.Molecule, error) {
	m := mol.New()
	for _, a := range p.atoms {
		if _, err := m.AddAtom(a); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
	}
	for _, b := range p.bonds {
		if err := m.AddBond(b); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
	}
	for id := 0; id < m.NumAtoms(); id++ {
		a := m.Atom(id)
		if a.Bracket {
			continue
		}
		a.Hydrogens = mol.ImplicitHydrogens(a.Symbol, m.TwiceBondOrderSum(id))
		if err := m.SetAtom(id, a); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (p *parser) errf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, p.pos, msg)
}

func bondSymbol(c byte) pendingBond {
	switch c {
	case '-':
		return pendingBond{order: mol.BondSingle, set: true}
	case '=':
		return pendingBond{order: mol.BondDouble, set: true}
	case '#':
		return pendingBond{order: mol.BondTriple, set: true}
	case ':':
		return pendingBond{order: mol.BondAromatic, set: true}
	case '/':
		return pendingBond{order: mol.BondSingle, stereo: mol.StereoUp, set: true}
	case '\\':
		return pendingBond{order: mol.BondSingle, stereo: mol.StereoDown, set: true}
	}
	return pendingBond{}
}

func isAromaticSymbol(upper string) bool {
	switch upper {
	case "B", "C", "N", "O", "P", "S":
		return true
	}
	return false
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') }
