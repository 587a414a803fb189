package canon

import (
	"sort"

	"github.com/rajeshg/openchem/pkg/mol"
)

// Closure is a ring-closure back edge. First is the endpoint visited
// earlier in DFS order; it is the endpoint responsible for emitting the
// bond symbol of the closure.
type Closure struct {
	First  int
	Second int
	Bond   mol.Bond
}

// Plan is the deterministic traversal of one connected component: a DFS
// spanning tree rooted at the canonical root plus the back-edge set.
// Every bond of the component appears exactly once, either as a tree edge
// or as a closure; the closure count equals the component's cycle rank.
type Plan struct {
	Root     int
	parent   map[int]int
	children map[int][]int // ordered per the traversal comparator
	visitPos map[int]int
	closures []Closure
}

// Parent returns the tree parent of the atom, or -1 for the root.
func (p *Plan) Parent(id int) int {
	if id == p.Root {
		return -1
	}
	return p.parent[id]
}

// Children returns the ordered tree children of the atom.
func (p *Plan) Children(id int) []int { return p.children[id] }

// Closures returns the back edges in discovery order.
func (p *Plan) Closures() []Closure { return p.closures }

// PlanComponent selects the canonical root of the component and builds its
// spanning tree. The DFS uses an explicit frame stack so that traversal
// depth is bounded by heap, not goroutine stack - long unbranched chains
// recurse to a depth equal to chain length otherwise.
func PlanComponent(m *mol.Molecule, atoms []int, labels *Labels) *Plan {
	p := &Plan{
		Root:     selectRoot(m, atoms, labels),
		parent:   make(map[int]int, len(atoms)),
		children: make(map[int][]int, len(atoms)),
		visitPos: make(map[int]int, len(atoms)),
	}

	type frame struct {
		atom int
		nbs  []int
		next int
	}

	closureSeen := make(map[[2]int]bool)
	visited := map[int]bool{p.Root: true}
	p.visitPos[p.Root] = 0
	pos := 1

	stack := []frame{{atom: p.Root, nbs: orderedNeighbors(m, p.Root, -1, labels)}}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.next >= len(f.nbs) {
			stack = stack[:len(stack)-1]
			continue
		}
		nb := f.nbs[f.next]
		f.next++

		if visited[nb] {
			b, _ := m.BondBetween(f.atom, nb)
			key := b.Key()
			if closureSeen[key] {
				continue
			}
			closureSeen[key] = true
			// The endpoint reached earlier owns the closure.
			first, second := nb, f.atom
			if p.visitPos[f.atom] < p.visitPos[nb] {
				first, second = f.atom, nb
			}
			p.closures = append(p.closures, Closure{First: first, Second: second, Bond: b})
			continue
		}

		visited[nb] = true
		p.visitPos[nb] = pos
		pos++
		p.parent[nb] = f.atom
		p.children[f.atom] = append(p.children[f.atom], nb)
		stack = append(stack, frame{atom: nb, nbs: orderedNeighbors(m, nb, f.atom, labels)})
	}
	return p
}

// selectRoot applies the root tie-break cascade: lowest canonical label,
// heteroatom before carbon, terminal before internal, lower degree, lower
// absolute charge, lower explicit-hydrogen count, lowest discrete canonical
// order. Raw atom ids never reach the comparison, so the root survives
// relabeling of the input.
func selectRoot(m *mol.Molecule, atoms []int, labels *Labels) int {
	best := atoms[0]
	for _, id := range atoms[1:] {
		if rootLess(m, labels, id, best) {
			best = id
		}
	}
	return best
}

func rootLess(m *mol.Molecule, labels *Labels, a, b int) bool {
	if la, lb := labels.Rank(a), labels.Rank(b); la != lb {
		return la < lb
	}
	aa, ab := m.Atom(a), m.Atom(b)
	if ha, hb := mol.IsHeteroatom(aa.Symbol), mol.IsHeteroatom(ab.Symbol); ha != hb {
		return ha
	}
	da, db := m.Degree(a), m.Degree(b)
	if ta, tb := da == 1, db == 1; ta != tb {
		return ta
	}
	if da != db {
		return da < db
	}
	if ca, cb := abs(aa.Charge), abs(ab.Charge); ca != cb {
		return ca < cb
	}
	if aa.Hydrogens != ab.Hydrogens {
		return aa.Hydrogens < ab.Hydrogens
	}
	return labels.Order(a) < labels.Order(b)
}

// orderedNeighbors returns the atom's neighbors, parent excluded, sorted by
// the traversal comparator: canonical label, bond priority (aromatic,
// triple, double, single), atomic number, neighbor degree, descending
// bond-order sum (atoms carrying multiple bonds visited first, for stable
// kekulized rings), aromatic before aliphatic, lower absolute charge,
// discrete canonical order.
func orderedNeighbors(m *mol.Molecule, id, parent int, labels *Labels) []int {
	var nbs []int
	for _, nb := range m.Neighbors(id) {
		if nb != parent {
			nbs = append(nbs, nb)
		}
	}
	sort.Slice(nbs, func(i, j int) bool {
		return neighborLess(m, labels, id, nbs[i], nbs[j])
	})
	return nbs
}

func neighborLess(m *mol.Molecule, labels *Labels, from, a, b int) bool {
	if la, lb := labels.Rank(a), labels.Rank(b); la != lb {
		return la < lb
	}
	ba, _ := m.BondBetween(from, a)
	bb, _ := m.BondBetween(from, b)
	if pa, pb := bondPriority(ba.Order), bondPriority(bb.Order); pa != pb {
		return pa < pb
	}
	aa, ab := m.Atom(a), m.Atom(b)
	if aa.AtomicNum != ab.AtomicNum {
		return aa.AtomicNum < ab.AtomicNum
	}
	if da, db := m.Degree(a), m.Degree(b); da != db {
		return da < db
	}
	if sa, sb := m.TwiceBondOrderSum(a), m.TwiceBondOrderSum(b); sa != sb {
		return sa > sb
	}
	if aa.Aromatic != ab.Aromatic {
		return aa.Aromatic
	}
	if ca, cb := abs(aa.Charge), abs(ab.Charge); ca != cb {
		return ca < cb
	}
	return labels.Order(a) < labels.Order(b)
}
