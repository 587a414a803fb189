// Package mol defines the molecular graph data model shared by the parser,
// perception passes, and the canonical encoder.
//
// A Molecule is a set of atoms plus a set of bonds, not necessarily
// connected. Atoms are value records identified by a stable integer id that
// is unique within the molecule; bonds reference atoms by id and keep their
// stored endpoint order (the order matters for directional stereo bonds).
//
// The model is immutable by convention: transformation passes clone a
// molecule and modify the copy rather than mutating their input. Ring
// membership is deliberately not stored here - it is computed on demand by
// the ring package.
package mol

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownAtom is returned by [Molecule.AddBond], [Molecule.SetAtom],
	// and [Molecule.SetBond] when a referenced atom id does not exist.
	ErrUnknownAtom = errors.New("unknown atom id")

	// ErrSelfBond is returned by [Molecule.AddBond] when both endpoints are
	// the same atom.
	ErrSelfBond = errors.New("bond endpoints must differ")

	// ErrDuplicateBond is returned by [Molecule.AddBond] when a bond between
	// the same pair of atoms already exists.
	ErrDuplicateBond = errors.New("duplicate bond")

	// ErrUnknownElement is returned by [Molecule.AddAtom] when the element
	// symbol is not in the periodic table.
	ErrUnknownElement = errors.New("unknown element symbol")

	// ErrInvalidBondOrder is returned by [Molecule.Validate] when a bond
	// carries an order outside the defined enum values.
	ErrInvalidBondOrder = errors.New("invalid bond order")
)

// BondOrder is the bond multiplicity.
type BondOrder int

const (
	// BondSingle is a single bond.
	BondSingle BondOrder = iota + 1
	// BondDouble is a double bond.
	BondDouble
	// BondTriple is a triple bond.
	BondTriple
	// BondAromatic is a delocalized aromatic bond.
	BondAromatic
)

// Twice returns twice the conventional bond-order contribution: 2 for
// single, 4 for double, 6 for triple, and 3 for aromatic (order 1.5).
// Doubling keeps valence arithmetic in integers.
func (o BondOrder) Twice() int {
	switch o {
	case BondSingle:
		return 2
	case BondDouble:
		return 4
	case BondTriple:
		return 6
	case BondAromatic:
		return 3
	}
	return 0
}

// String returns the conventional name of the bond order.
func (o BondOrder) String() string {
	switch o {
	case BondSingle:
		return "single"
	case BondDouble:
		return "double"
	case BondTriple:
		return "triple"
	case BondAromatic:
		return "aromatic"
	}
	return fmt.Sprintf("BondOrder(%d)", int(o))
}

// BondStereo marks the up/down orientation of a single bond adjacent to a
// double bond, used to express cis/trans configuration.
type BondStereo int

const (
	// StereoNone means the bond carries no directional marker.
	StereoNone BondStereo = iota
	// StereoUp is the "/" marker, read in the bond's stored From->To direction.
	StereoUp
	// StereoDown is the "\" marker, read in the bond's stored From->To direction.
	StereoDown
	// StereoEither marks an explicitly unspecified configuration.
	StereoEither
)

// Invert swaps up and down. None and either are returned unchanged.
func (s BondStereo) Invert() BondStereo {
	switch s {
	case StereoUp:
		return StereoDown
	case StereoDown:
		return StereoUp
	}
	return s
}

// Chirality is the tagged chirality descriptor of an atom.
type Chirality int

const (
	// ChiralityNone means the atom has no chirality descriptor.
	ChiralityNone Chirality = iota
	// ChiralityCCW is simple tetrahedral anticlockwise ("@").
	ChiralityCCW
	// ChiralityCW is simple tetrahedral clockwise ("@@").
	ChiralityCW
	// ChiralityAlleneCCW is the extended allene-like form "@AL1".
	ChiralityAlleneCCW
	// ChiralityAlleneCW is the extended allene-like form "@AL2".
	ChiralityAlleneCW
)

// Tetrahedral reports whether the descriptor is a simple tetrahedral tag.
func (c Chirality) Tetrahedral() bool {
	return c == ChiralityCCW || c == ChiralityCW
}

// Invert swaps the handedness of the descriptor. None is returned unchanged.
func (c Chirality) Invert() Chirality {
	switch c {
	case ChiralityCCW:
		return ChiralityCW
	case ChiralityCW:
		return ChiralityCCW
	case ChiralityAlleneCCW:
		return ChiralityAlleneCW
	case ChiralityAlleneCW:
		return ChiralityAlleneCCW
	}
	return c
}

// SMILES returns the SMILES token for the descriptor, or "" for none.
func (c Chirality) SMILES() string {
	switch c {
	case ChiralityCCW:
		return "@"
	case ChiralityCW:
		return "@@"
	case ChiralityAlleneCCW:
		return "@AL1"
	case ChiralityAlleneCW:
		return "@AL2"
	}
	return ""
}

// Atom is an immutable value record describing one atom.
//
// The zero value is not usable - at minimum Symbol must be set before
// passing the atom to [Molecule.AddAtom], which assigns the ID.
type Atom struct {
	ID        int       // stable id, unique within the molecule
	Symbol    string    // element symbol with conventional capitalization
	AtomicNum int       // atomic number, filled in by AddAtom when zero
	Charge    int       // formal charge
	Hydrogens int       // implicit hydrogen count
	Isotope   int       // mass number, 0 for natural abundance
	Aromatic  bool      // member of a perceived aromatic system
	Chirality Chirality // chirality descriptor, ChiralityNone if absent
	Bracket   bool      // must be written as a bracket atom
	Class     int       // atom-class number for reaction mapping, 0 if unset

	// ChiralRef records the neighbor order the chirality descriptor refers
	// to: neighbor atom ids in the order they appeared around this atom in
	// the input, with -1 marking the implicit-hydrogen slot. Empty unless
	// Chirality is set.
	ChiralRef []int
}

// ImplicitHCount is the marker used in [Atom.ChiralRef] for the
// implicit-hydrogen position.
const ImplicitHCount = -1

// Bond connects two atoms. The chemical pair is unordered, but From/To
// order is preserved because directional stereo markers are read in the
// From->To direction.
type Bond struct {
	From   int
	To     int
	Order  BondOrder
	Stereo BondStereo
}

// Other returns the endpoint opposite to id. It panics when id is not an
// endpoint of the bond; calling it with a foreign atom id is a programming
// error, not a recoverable condition.
func (b Bond) Other(id int) int {
	switch id {
	case b.From:
		return b.To
	case b.To:
		return b.From
	}
	panic(fmt.Sprintf("mol: atom %d is not an endpoint of bond %d-%d", id, b.From, b.To))
}

// Key returns the unordered endpoint pair with the smaller id first.
func (b Bond) Key() [2]int {
	if b.From <= b.To {
		return [2]int{b.From, b.To}
	}
	return [2]int{b.To, b.From}
}

// Molecule is a molecular graph. The zero value is not usable - use [New].
// Molecule is not safe for concurrent mutation; concurrent reads are fine.
type Molecule struct {
	atoms []Atom
	bonds []Bond
	adj   [][]int // atom id -> indices into bonds, in insertion order
}

// New creates an empty molecule.
func New() *Molecule {
	return &Molecule{}
}

// AddAtom appends an atom and returns its assigned id. The ID field of the
// argument is ignored; ids are assigned sequentially. AtomicNum is filled
// in from the symbol when zero. Returns ErrUnknownElement for symbols not
// in the element table.
func (m *Molecule) AddAtom(a Atom) (int, error) {
	if a.AtomicNum == 0 {
		num, ok := AtomicNumber(a.Symbol)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownElement, a.Symbol)
		}
		a.AtomicNum = num
	}
	a.ID = len(m.atoms)
	m.atoms = append(m.atoms, a)
	m.adj = append(m.adj, nil)
	return a.ID, nil
}

// AddBond appends a bond between two existing atoms. The stored From/To
// order is preserved. Returns ErrUnknownAtom, ErrSelfBond, or
// ErrDuplicateBond on structural violations.
func (m *Molecule) AddBond(b Bond) error {
	if !m.has(b.From) {
		return fmt.Errorf("%w: %d", ErrUnknownAtom, b.From)
	}
	if !m.has(b.To) {
		return fmt.Errorf("%w: %d", ErrUnknownAtom, b.To)
	}
	if b.From == b.To {
		return fmt.Errorf("%w: atom %d", ErrSelfBond, b.From)
	}
	if _, ok := m.BondBetween(b.From, b.To); ok {
		return fmt.Errorf("%w: %d-%d", ErrDuplicateBond, b.From, b.To)
	}
	idx := len(m.bonds)
	m.bonds = append(m.bonds, b)
	m.adj[b.From] = append(m.adj[b.From], idx)
	m.adj[b.To] = append(m.adj[b.To], idx)
	return nil
}

// NumAtoms returns the number of atoms.
func (m *Molecule) NumAtoms() int { return len(m.atoms) }

// NumBonds returns the number of bonds.
func (m *Molecule) NumBonds() int { return len(m.bonds) }

// Atom returns a copy of the atom with the given id.
// It panics on an out-of-range id.
func (m *Molecule) Atom(id int) Atom {
	m.check(id)
	return m.atoms[id]
}

// SetAtom replaces the atom with the given id, keeping the id itself.
// Used by transformation passes working on a clone.
func (m *Molecule) SetAtom(id int, a Atom) error {
	if !m.has(id) {
		return fmt.Errorf("%w: %d", ErrUnknownAtom, id)
	}
	a.ID = id
	m.atoms[id] = a
	return nil
}

// Atoms returns a copy of the atom list in id order.
func (m *Molecule) Atoms() []Atom {
	out := make([]Atom, len(m.atoms))
	copy(out, m.atoms)
	return out
}

// Bond returns a copy of the bond at the given index.
func (m *Molecule) Bond(i int) Bond { return m.bonds[i] }

// SetBond replaces the bond at index i. Endpoints must stay the same pair of
// atoms; only order and stereo are meant to change between passes.
func (m *Molecule) SetBond(i int, b Bond) error {
	old := m.bonds[i]
	if old.Key() != b.Key() {
		return fmt.Errorf("%w: bond %d endpoints changed", ErrUnknownAtom, i)
	}
	m.bonds[i] = b
	return nil
}

// Bonds returns a copy of the bond list in insertion order.
func (m *Molecule) Bonds() []Bond {
	out := make([]Bond, len(m.bonds))
	copy(out, m.bonds)
	return out
}

// BondBetween returns the bond connecting atoms a and b in either stored
// direction, and whether one exists.
func (m *Molecule) BondBetween(a, b int) (Bond, bool) {
	if !m.has(a) || !m.has(b) {
		return Bond{}, false
	}
	for _, i := range m.adj[a] {
		bd := m.bonds[i]
		if bd.Other(a) == b {
			return bd, true
		}
	}
	return Bond{}, false
}

// BondIndexBetween returns the index of the bond connecting a and b, or -1.
func (m *Molecule) BondIndexBetween(a, b int) int {
	if !m.has(a) || !m.has(b) {
		return -1
	}
	for _, i := range m.adj[a] {
		if m.bonds[i].Other(a) == b {
			return i
		}
	}
	return -1
}

// BondsOf returns the bonds incident to the atom, in insertion order.
func (m *Molecule) BondsOf(id int) []Bond {
	m.check(id)
	out := make([]Bond, 0, len(m.adj[id]))
	for _, i := range m.adj[id] {
		out = append(out, m.bonds[i])
	}
	return out
}

// Neighbors returns the ids of atoms bonded to id, in bond insertion order.
func (m *Molecule) Neighbors(id int) []int {
	m.check(id)
	out := make([]int, 0, len(m.adj[id]))
	for _, i := range m.adj[id] {
		out = append(out, m.bonds[i].Other(id))
	}
	return out
}

// Degree returns the number of explicit bonds of the atom.
func (m *Molecule) Degree(id int) int {
	m.check(id)
	return len(m.adj[id])
}

// TwiceBondOrderSum returns twice the sum of bond orders around the atom
// (aromatic bonds count 1.5). See [BondOrder.Twice].
func (m *Molecule) TwiceBondOrderSum(id int) int {
	m.check(id)
	sum := 0
	for _, i := range m.adj[id] {
		sum += m.bonds[i].Order.Twice()
	}
	return sum
}

// Clone returns a deep copy of the molecule.
func (m *Molecule) Clone() *Molecule {
	c := &Molecule{
		atoms: make([]Atom, len(m.atoms)),
		bonds: make([]Bond, len(m.bonds)),
		adj:   make([][]int, len(m.adj)),
	}
	copy(c.atoms, m.atoms)
	copy(c.bonds, m.bonds)
	for i, a := range m.atoms {
		if len(a.ChiralRef) > 0 {
			c.atoms[i].ChiralRef = append([]int(nil), a.ChiralRef...)
		}
	}
	for i, adj := range m.adj {
		c.adj[i] = append([]int(nil), adj...)
	}
	return c
}

// Components returns the connected components as groups of atom ids. Groups
// appear in the order their first atom appears in the molecule, and ids
// within a group are in traversal order from that first atom.
func (m *Molecule) Components() [][]int {
	seen := make([]bool, len(m.atoms))
	var out [][]int
	for start := range m.atoms {
		if seen[start] {
			continue
		}
		comp := []int{start}
		seen[start] = true
		for i := 0; i < len(comp); i++ {
			for _, nb := range m.Neighbors(comp[i]) {
				if !seen[nb] {
					seen[nb] = true
					comp = append(comp, nb)
				}
			}
		}
		out = append(out, comp)
	}
	return out
}

// Validate checks structural invariants: every bond references existing,
// distinct atoms, bond orders are within the enum, and no pair of atoms is
// connected twice. A molecule built exclusively through AddAtom/AddBond
// always validates; this exists for molecules deserialized from external
// formats.
func (m *Molecule) Validate() error {
	seen := make(map[[2]int]bool, len(m.bonds))
	for i, b := range m.bonds {
		if !m.has(b.From) || !m.has(b.To) {
			return fmt.Errorf("%w: bond %d references %d-%d", ErrUnknownAtom, i, b.From, b.To)
		}
		if b.From == b.To {
			return fmt.Errorf("%w: bond %d", ErrSelfBond, i)
		}
		if b.Order < BondSingle || b.Order > BondAromatic {
			return fmt.Errorf("%w: bond %d order %d", ErrInvalidBondOrder, i, b.Order)
		}
		k := b.Key()
		if seen[k] {
			return fmt.Errorf("%w: %d-%d", ErrDuplicateBond, k[0], k[1])
		}
		seen[k] = true
	}
	return nil
}

func (m *Molecule) has(id int) bool {
	return id >= 0 && id < len(m.atoms)
}

func (m *Molecule) check(id int) {
	if !m.has(id) {
		panic(fmt.Sprintf("mol: atom id %d out of range [0,%d)", id, len(m.atoms)))
	}
}
