package mol

// atomicNumbers maps element symbols to atomic numbers. Coverage is the set
// of elements that occur in drug-like and common inorganic structures; rare
// earths and synthetic elements are omitted on purpose - extend the table
// when a real input needs them.
var atomicNumbers = map[string]int{
	"H": 1, "He": 2,
	"Li": 3, "Be": 4, "B": 5, "C": 6, "N": 7, "O": 8, "F": 9, "Ne": 10,
	"Na": 11, "Mg": 12, "Al": 13, "Si": 14, "P": 15, "S": 16, "Cl": 17, "Ar": 18,
	"K": 19, "Ca": 20, "Ti": 22, "V": 23, "Cr": 24, "Mn": 25, "Fe": 26,
	"Co": 27, "Ni": 28, "Cu": 29, "Zn": 30, "Ga": 31, "Ge": 32, "As": 33,
	"Se": 34, "Br": 35, "Kr": 36,
	"Rb": 37, "Sr": 38, "Zr": 40, "Mo": 42, "Ru": 44, "Rh": 45, "Pd": 46,
	"Ag": 47, "Cd": 48, "In": 49, "Sn": 50, "Sb": 51, "Te": 52, "I": 53, "Xe": 54,
	"Cs": 55, "Ba": 56, "W": 74, "Pt": 78, "Au": 79, "Hg": 80, "Tl": 81,
	"Pb": 82, "Bi": 83,
}

// organicSubset is the set of elements that may be written without brackets
// in SMILES, with implicit hydrogens filled to default valence.
var organicSubset = map[string]bool{
	"B": true, "C": true, "N": true, "O": true, "P": true, "S": true,
	"F": true, "Cl": true, "Br": true, "I": true,
}

// defaultValences lists the normal valences per organic-subset element,
// lowest first. Implicit hydrogen counts are computed against the smallest
// valence that accommodates the atom's bond-order sum.
var defaultValences = map[string][]int{
	"B":  {3},
	"C":  {4},
	"N":  {3, 5},
	"O":  {2},
	"P":  {3, 5},
	"S":  {2, 4, 6},
	"F":  {1},
	"Cl": {1},
	"Br": {1},
	"I":  {1},
}

// AtomicNumber returns the atomic number for an element symbol.
func AtomicNumber(symbol string) (int, bool) {
	n, ok := atomicNumbers[symbol]
	return n, ok
}

// InOrganicSubset reports whether the element may be written without
// brackets in SMILES.
func InOrganicSubset(symbol string) bool {
	return organicSubset[symbol]
}

// IsHeteroatom reports whether the symbol is neither carbon nor hydrogen.
func IsHeteroatom(symbol string) bool {
	return symbol != "C" && symbol != "H"
}

// ImplicitHydrogens returns the implicit hydrogen count for an
// organic-subset atom given twice its bond-order sum (see
// [Molecule.TwiceBondOrderSum]). Aromatic atoms surrender one valence slot
// to the delocalized system, which falls out of the arithmetic because an
// aromatic bond counts 1.5 and the half-integer sum is rounded up.
// Returns 0 for elements outside the organic subset - bracket atoms state
// their hydrogens explicitly.
func ImplicitHydrogens(symbol string, twiceBondOrderSum int) int {
	valences, ok := defaultValences[symbol]
	if !ok {
		return 0
	}
	used := (twiceBondOrderSum + 1) / 2
	for _, v := range valences {
		if used <= v {
			return v - used
		}
	}
	return 0
}

// DefaultHydrogens reports whether h is the implicit hydrogen count an
// organic-subset atom with the given bond-order sum would receive. Used by
// the bracket-minimization pass: an atom whose hydrogen count matches the
// default can be written without brackets.
func DefaultHydrogens(symbol string, twiceBondOrderSum, h int) bool {
	if !InOrganicSubset(symbol) {
		return false
	}
	return ImplicitHydrogens(symbol, twiceBondOrderSum) == h
}
