// Package ring computes the smallest set of smallest rings (SSSR) of a
// molecular graph and answers ring-membership queries.
//
// The canonical encoder consumes this package through three queries: the
// rings containing an atom, whether two atoms share a ring, and the size of
// the smallest ring an atom belongs to. All answers are deterministic for a
// given molecule, which the encoder relies on for stable output.
//
// # Algorithm
//
// For every bond, the shortest cycle through that bond is found by
// breadth-first search in the graph with the bond removed. Candidate cycles
// are deduplicated, sorted smallest-first with a canonical key as the tie
// break, and selected greedily until every cycle of the ring basis is
// covered (cycle rank = bonds - atoms + components).
package ring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rajeshg/openchem/pkg/mol"
)

// NoRingSize is the sentinel returned by [Info.SmallestSize] for atoms
// outside any ring. It is larger than any real ring so that sorting by
// smallest ring size puts acyclic atoms last.
const NoRingSize = 1 << 16

// Info holds the perceived ring system of one molecule.
type Info struct {
	rings     [][]int          // atom ids in cycle order
	atomRings [][]int          // atom id -> ring indices, smallest ring first
	bondRings map[[2]int][]int // unordered bond key -> ring indices
}

// Detect perceives the SSSR of the molecule.
func Detect(m *mol.Molecule) *Info {
	in := &Info{
		atomRings: make([][]int, m.NumAtoms()),
		bondRings: make(map[[2]int][]int),
	}

	rank := cycleRank(m)
	if rank == 0 {
		return in
	}

	candidates := candidateRings(m)
	sort.Slice(candidates, func(i, j int) bool {
		if len(candidates[i].atoms) != len(candidates[j].atoms) {
			return len(candidates[i].atoms) < len(candidates[j].atoms)
		}
		return candidates[i].key < candidates[j].key
	})

	covered := make(map[[2]int]bool)
	for _, c := range candidates {
		if len(in.rings) == rank {
			break
		}
		fresh := false
		for _, bk := range c.bondKeys() {
			if !covered[bk] {
				fresh = true
				break
			}
		}
		if !fresh {
			continue
		}
		idx := len(in.rings)
		in.rings = append(in.rings, c.atoms)
		for _, a := range c.atoms {
			in.atomRings[a] = append(in.atomRings[a], idx)
		}
		for _, bk := range c.bondKeys() {
			covered[bk] = true
			in.bondRings[bk] = append(in.bondRings[bk], idx)
		}
	}
	return in
}

// NumRings returns the number of SSSR rings.
func (in *Info) NumRings() int { return len(in.rings) }

// Ring returns the atoms of ring i in cycle order.
func (in *Info) Ring(i int) []int {
	return append([]int(nil), in.rings[i]...)
}

// RingsContaining returns the rings the atom belongs to, smallest first.
func (in *Info) RingsContaining(atom int) [][]int {
	idxs := in.atomRings[atom]
	out := make([][]int, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, in.Ring(i))
	}
	sort.Slice(out, func(a, b int) bool { return len(out[a]) < len(out[b]) })
	return out
}

// Count returns the number of SSSR rings containing the atom.
func (in *Info) Count(atom int) int {
	if atom < 0 || atom >= len(in.atomRings) {
		return 0
	}
	return len(in.atomRings[atom])
}

// SmallestSize returns the size of the smallest ring containing the atom,
// or NoRingSize for acyclic atoms.
func (in *Info) SmallestSize(atom int) int {
	if in.Count(atom) == 0 {
		return NoRingSize
	}
	best := NoRingSize
	for _, i := range in.atomRings[atom] {
		if len(in.rings[i]) < best {
			best = len(in.rings[i])
		}
	}
	return best
}

// SameRing reports whether atoms a and b belong to at least one common ring.
func (in *Info) SameRing(a, b int) bool {
	if a < 0 || b < 0 || a >= len(in.atomRings) || b >= len(in.atomRings) {
		return false
	}
	for _, ra := range in.atomRings[a] {
		for _, rb := range in.atomRings[b] {
			if ra == rb {
				return true
			}
		}
	}
	return false
}

// BondInRing reports whether the bond between a and b is part of a ring.
func (in *Info) BondInRing(a, b int) bool {
	k := [2]int{a, b}
	if a > b {
		k = [2]int{b, a}
	}
	return len(in.bondRings[k]) > 0
}

// cycleRank returns bonds - atoms + components, the size of the ring basis.
func cycleRank(m *mol.Molecule) int {
	return m.NumBonds() - m.NumAtoms() + len(m.Components())
}

type candidate struct {
	atoms []int
	key   string
}

// bondKeys returns the unordered endpoint pairs of the ring's bonds.
func (c candidate) bondKeys() [][2]int {
	out := make([][2]int, 0, len(c.atoms))
	for i, a := range c.atoms {
		b := c.atoms[(i+1)%len(c.atoms)]
		if a > b {
			a, b = b, a
		}
		out = append(out, [2]int{a, b})
	}
	return out
}

// candidateRings finds, for every bond, the shortest cycle through it.
func candidateRings(m *mol.Molecule) []candidate {
	seen := make(map[string]bool)
	var out []candidate
	for i := 0; i < m.NumBonds(); i++ {
		b := m.Bond(i)
		path := shortestPathAvoiding(m, b.From, b.To, i)
		if path == nil {
			continue // bridge bond, no cycle
		}
		c := candidate{atoms: path, key: ringKey(path)}
		if !seen[c.key] {
			seen[c.key] = true
			out = append(out, c)
		}
	}
	return out
}

// shortestPathAvoiding returns the shortest path from src to dst that does
// not use the bond at index skip, as a cycle starting at src. Returns nil
// when src and dst are disconnected without that bond.
func shortestPathAvoiding(m *mol.Molecule, src, dst, skip int) []int {
	prev := make([]int, m.NumAtoms())
	for i := range prev {
		prev[i] = -1
	}
	prev[src] = src
	queue := []int{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == dst {
			break
		}
		for _, bi := range bondIndices(m, cur) {
			if bi == skip {
				continue
			}
			nb := m.Bond(bi).Other(cur)
			if prev[nb] == -1 {
				prev[nb] = cur
				queue = append(queue, nb)
			}
		}
	}
	if prev[dst] == -1 {
		return nil
	}
	var rev []int
	for at := dst; at != src; at = prev[at] {
		rev = append(rev, at)
	}
	path := []int{src}
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, rev[i])
	}
	return path
}

// bondIndices lists the bond indices incident to the atom.
func bondIndices(m *mol.Molecule, atom int) []int {
	var out []int
	for _, nb := range m.Neighbors(atom) {
		out = append(out, m.BondIndexBetween(atom, nb))
	}
	return out
}

// ringKey builds a canonical identity for a cycle: the sorted atom ids.
// Two traversals of the same cycle produce the same key regardless of
// starting atom or direction.
func ringKey(atoms []int) string {
	sorted := append([]int(nil), atoms...)
	sort.Ints(sorted)
	var sb strings.Builder
	for i, a := range sorted {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", a)
	}
	return sb.String()
}
