// Package canon produces the canonical SMILES string of a molecule: a
// deterministic textual form that is identical for any two structurally
// isomorphic molecular graphs, independent of atom input order.
//
// # Stages
//
// Encoding runs in five stages, each feeding the next:
//
//  1. Label engine: per-atom canonical ranks from static invariants refined
//     by iterative neighbor relabeling (labels.go).
//  2. Traversal planner: one root per connected component and a
//     deterministic DFS spanning tree with its ring-closure back edges
//     (traverse.go).
//  3. Serializer: atom tokens, bond symbols, and ring-closure digits from
//     the spanning tree (write.go).
//  4. Stereo normalizer: molecule-level directional-marker passes before
//     serialization and a string-level pass after it, collapsing equivalent
//     stereo encodings to one winner (stereo.go).
//  5. Combiner: disconnected fragments encoded independently and joined
//     with "." (canon.go).
//
// The encoder is pure: it clones its input and never mutates the caller's
// molecule. It is total over structurally valid molecules (the empty
// molecule encodes to "") and panics on molecules that violate the data
// model, since a silently wrong canonical string would poison any
// deduplication built on top of it.
package canon
