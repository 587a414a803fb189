package smiles_test

import (
	"fmt"

	"github.com/rajeshg/openchem/pkg/smiles"
)

func ExampleParse() {
	m, _ := smiles.Parse("CC(=O)O")
	fmt.Println("Atoms:", m.NumAtoms())
	fmt.Println("Bonds:", m.NumBonds())
	fmt.Println("Methyl hydrogens:", m.Atom(0).Hydrogens)
	// Output:
	// Atoms: 4
	// Bonds: 3
	// Methyl hydrogens: 3
}

func ExamplePerceive() {
	m, _ := smiles.Parse("C1=CC=CC=C1")
	p := smiles.Perceive(m)

	aromatic := 0
	for _, a := range p.Atoms() {
		if a.Aromatic {
			aromatic++
		}
	}
	fmt.Println("Aromatic atoms:", aromatic)
	// Output:
	// Aromatic atoms: 6
}
