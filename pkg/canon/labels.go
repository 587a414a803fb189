package canon

import (
	"sort"

	"github.com/rajeshg/openchem/pkg/mol"
	"github.com/rajeshg/openchem/pkg/ring"
)

// refineRounds bounds the neighbor-refinement iteration. Eight rounds
// settle every realistic molecule; a partition that has not converged by
// then is simply treated as still-symmetric, which costs canonicality
// nothing because the traversal tie-breaks stay deterministic.
const refineRounds = 8

// invariant is the static per-atom key that seeds the refinement. Fields
// are compared in declaration order; earlier fields dominate.
type invariant struct {
	elemClass    int // carbon first, then generic heteroatoms, P, S, O, N
	charge       int // absolute formal charge, neutral first
	ringCount    int // number of SSSR rings containing the atom
	smallestRing int // size of smallest such ring, ring.NoRingSize outside rings
	degree       int
	invBondSum   int // inverted bond-order sum: multiple bonds sort earlier
	atomicNum    int
	isotope      int // natural abundance first
	hydrogens    int
	aliphatic    int // aromatic atoms first
}

// invBondSumBase inverts the doubled bond-order sum. No atom exceeds eight
// bonds of order three (twice-sum 48), so 64 keeps the field positive.
const invBondSumBase = 64

func staticInvariant(m *mol.Molecule, rings *ring.Info, id int) invariant {
	a := m.Atom(id)
	inv := invariant{
		elemClass:    elementClass(a.Symbol),
		charge:       abs(a.Charge),
		ringCount:    rings.Count(id),
		smallestRing: rings.SmallestSize(id),
		degree:       m.Degree(id),
		invBondSum:   invBondSumBase - m.TwiceBondOrderSum(id),
		atomicNum:    a.AtomicNum,
		isotope:      a.Isotope,
		hydrogens:    a.Hydrogens,
		aliphatic:    1,
	}
	if a.Aromatic {
		inv.aliphatic = 0
	}
	return inv
}

// elementClass orders elements for the leading invariant field: carbon
// sorts before every heteroatom, and among heteroatoms nitrogen carries the
// highest class (sorts last), preceded by oxygen, sulfur, and phosphorus.
func elementClass(symbol string) int {
	switch symbol {
	case "C":
		return 0
	case "P":
		return 2
	case "S":
		return 3
	case "O":
		return 4
	case "N":
		return 5
	default:
		return 1
	}
}

// key flattens the invariant into the slice form consumed by denseRank.
// Element order matches the field declaration order.
func (a invariant) key() []int {
	return []int{
		a.elemClass, a.charge, a.ringCount, a.smallestRing,
		a.degree, a.invBondSum, a.atomicNum, a.isotope,
		a.hydrogens, a.aliphatic,
	}
}

// Labels maps a component's atoms to dense canonical ranks. Two atoms share
// a rank iff the refinement could not distinguish them, which makes equal
// ranks the symmetry classes of the component. Alongside the ranks, Labels
// carries a discrete canonical order used wherever ties between symmetric
// atoms must be broken without consulting raw atom ids.
type Labels struct {
	rank  map[int]int
	order map[int]int
}

// Rank returns the canonical rank of the atom (1-based, dense). Atoms
// outside the component the labels were computed for return 0.
func (l *Labels) Rank(id int) int { return l.rank[id] }

// Order returns the discrete canonical position of the atom (1-based).
// Positions are unique within the component: refinement ties are broken by
// repeatedly distinguishing one member of the lowest tied class and
// re-refining. Atoms a refinement leaves tied are structurally
// interchangeable, so the serialized output does not depend on which member
// is distinguished. Atoms outside the component return 0.
func (l *Labels) Order(id int) int { return l.order[id] }

// Symmetric reports whether the atom shares its rank with another atom.
func (l *Labels) Symmetric(id int) bool {
	r, ok := l.rank[id]
	if !ok {
		return false
	}
	n := 0
	for _, other := range l.rank {
		if other == r {
			n++
			if n > 1 {
				return true
			}
		}
	}
	return false
}

// SymmetryClasses returns the groups of atoms sharing a rank, smallest rank
// first, with at least two members each.
func (l *Labels) SymmetryClasses() [][]int {
	byRank := make(map[int][]int)
	for id, r := range l.rank {
		byRank[r] = append(byRank[r], id)
	}
	var ranks []int
	for r, ids := range byRank {
		if len(ids) > 1 {
			ranks = append(ranks, r)
		}
	}
	sort.Ints(ranks)
	out := make([][]int, 0, len(ranks))
	for _, r := range ranks {
		ids := byRank[r]
		sort.Ints(ids)
		out = append(out, ids)
	}
	return out
}

// ComputeLabels computes canonical ranks for one connected component given
// by its atom ids. Ranks depend only on molecular structure: two runs over
// the same molecule, or over relabeled isomorphic copies, produce matching
// rank partitions. Refinement runs a fixed number of rounds per pass and
// always terminates; non-convergence is not an error.
func ComputeLabels(m *mol.Molecule, atoms []int, rings *ring.Info) *Labels {
	keys := make(map[int][]int, len(atoms))
	for _, id := range atoms {
		keys[id] = staticInvariant(m, rings, id).key()
	}
	rank := refineRanks(m, atoms, denseRank(atoms, keys))

	// Break remaining ties into a discrete order. Distinguishing one member
	// of the lowest tied class and re-refining propagates the distinction
	// through the component; every pass splits at least one class, so the
	// loop runs at most once per atom.
	order := rank
	for {
		id, ok := lowestTied(atoms, order)
		if !ok {
			break
		}
		next := make(map[int][]int, len(atoms))
		for _, a := range atoms {
			next[a] = []int{2 * order[a]}
		}
		next[id] = []int{2*order[id] - 1}
		order = refineRanks(m, atoms, denseRank(atoms, next))
	}

	return &Labels{rank: rank, order: order}
}

// refineRanks iterates neighbor refinement until the partition stabilizes
// or the round bound is hit.
func refineRanks(m *mol.Molecule, atoms []int, rank map[int]int) map[int]int {
	for round := 0; round < refineRounds; round++ {
		next := make(map[int][]int, len(atoms))
		for _, id := range atoms {
			key := []int{rank[id]}
			for _, p := range neighborPairs(m, id, rank) {
				key = append(key, p[0], p[1])
			}
			next[id] = key
		}
		newRank := denseRank(atoms, next)
		if sameRanking(atoms, rank, newRank) {
			break
		}
		rank = newRank
	}
	return rank
}

// lowestTied returns the lowest-id member of the lowest rank still shared
// by more than one atom.
func lowestTied(atoms []int, rank map[int]int) (int, bool) {
	count := make(map[int]int, len(atoms))
	for _, id := range atoms {
		count[rank[id]]++
	}
	best, found := -1, false
	for _, id := range atoms {
		if count[rank[id]] < 2 {
			continue
		}
		if !found || rank[id] < rank[best] || (rank[id] == rank[best] && id < best) {
			best, found = id, true
		}
	}
	return best, found
}

// neighborPairs returns the sorted (bond priority, neighbor rank) pairs of
// the atom. Bond priority is inverted so aromatic sorts first, then triple,
// double, single - this keeps kekulized ring traversal consistent with the
// aromatic form.
func neighborPairs(m *mol.Molecule, id int, rank map[int]int) [][2]int {
	bonds := m.BondsOf(id)
	pairs := make([][2]int, 0, len(bonds))
	for _, b := range bonds {
		pairs = append(pairs, [2]int{bondPriority(b.Order), rank[b.Other(id)]})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs
}

// bondPriority ranks bond orders for refinement and traversal ordering:
// aromatic highest (0), then triple, double, single.
func bondPriority(o mol.BondOrder) int {
	switch o {
	case mol.BondAromatic:
		return 0
	case mol.BondTriple:
		return 1
	case mol.BondDouble:
		return 2
	default:
		return 3
	}
}

// denseRank sorts the distinct keys and assigns 1..k.
func denseRank(atoms []int, keys map[int][]int) map[int]int {
	sorted := append([]int(nil), atoms...)
	sort.Slice(sorted, func(i, j int) bool {
		return compareInts(keys[sorted[i]], keys[sorted[j]]) < 0
	})
	rank := make(map[int]int, len(atoms))
	r := 0
	for i, id := range sorted {
		if i == 0 || compareInts(keys[id], keys[sorted[i-1]]) != 0 {
			r++
		}
		rank[id] = r
	}
	return rank
}

func sameRanking(atoms []int, a, b map[int]int) bool {
	for _, id := range atoms {
		if a[id] != b[id] {
			return false
		}
	}
	return true
}

func compareInts(a, b []int) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
