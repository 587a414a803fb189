// Package smiles reads SMILES strings into molecules and provides the
// perception passes that prepare a molecule for canonical encoding.
//
// # Pipeline
//
// A typical flow from input text to canonical output:
//
//	m, err := smiles.Parse("C1=CC=CC=C1")
//	if err != nil {
//	    return err
//	}
//	m = smiles.Perceive(m)       // aromaticity perception
//	m = smiles.SanitizeStereo(m) // downgrade impossible stereo markers
//	s := canon.Canonical(m)      // "c1ccccc1"
//
// All perception passes consume a molecule and return a new one; the input
// is never mutated.
//
// # Supported grammar
//
// Organic-subset atoms (B, C, N, O, P, S, F, Cl, Br, I and their aromatic
// lowercase forms), bracket atoms with isotope, chirality, hydrogen count,
// charge, and atom class, bond symbols "-", "=", "#", ":", "/", "\",
// branches, ring closures with single-digit and %nn forms, and
// "."-separated fragments.
package smiles
