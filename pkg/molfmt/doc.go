// Package molfmt provides JSON import and export for molecules.
//
// # Overview
//
// This package enables serialization of molecular graphs to and from a
// simple JSON format. The format is designed for:
//
//   - Inspection of parsed structures without reading SMILES
//   - Integration with external tools that produce or consume molecule data
//   - Round-trip preservation: import, canonicalize, export, and re-import
//
// # JSON Format
//
// The format has two required top-level arrays:
//
//	{
//	  "atoms": [
//	    {"id": 0, "symbol": "C"},
//	    {"id": 1, "symbol": "O"}
//	  ],
//	  "bonds": [
//	    {"from": 0, "to": 1, "order": "single"}
//	  ]
//	}
//
// # Atom Fields
//
// Required:
//   - id: Index of the atom (must match its position in the array)
//   - symbol: Element symbol
//
// Optional:
//   - charge: Formal charge (defaults to 0)
//   - hydrogens: Implicit hydrogen count (defaults to 0)
//   - isotope: Mass number (defaults to unspecified)
//   - aromatic: Whether the atom is part of an aromatic system
//   - chirality: "@", "@@", "@AL1" or "@AL2"
//   - class: Atom-map class number
//
// # Bond Fields
//
// Required:
//   - from, to: Atom ids of the endpoints
//   - order: "single", "double", "triple" or "aromatic"
//
// Optional:
//   - stereo: "up" or "down" directional marker (single bonds only)
//
// # Import
//
// Use [ImportJSON] to read a molecule from a file path, or [ReadJSON] to
// read from any io.Reader:
//
//	m, err := molfmt.ImportJSON("mol.json")
package molfmt
