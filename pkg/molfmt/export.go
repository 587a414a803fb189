package molfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rajeshg/openchem/pkg/mol"
)

var orderToString = map[mol.BondOrder]string{
	mol.BondSingle:   "single",
	mol.BondDouble:   "double",
	mol.BondTriple:   "triple",
	mol.BondAromatic: "aromatic",
}

var stereoToString = map[mol.BondStereo]string{
	mol.StereoUp:   "up",
	mol.StereoDown: "down",
}

type molecule struct {
	Atoms []atom `json:"atoms"`
	Bonds []bond `json:"bonds"`
}

type atom struct {
	ID        int    `json:"id"`
	Symbol    string `json:"symbol"`
	Charge    int    `json:"charge,omitempty"`
	Hydrogens int    `json:"hydrogens,omitempty"`
	Isotope   int    `json:"isotope,omitempty"`
	Aromatic  bool   `json:"aromatic,omitempty"`
	Chirality string `json:"chirality,omitempty"`
	Class     int    `json:"class,omitempty"`
}

type bond struct {
	From   int    `json:"from"`
	To     int    `json:"to"`
	Order  string `json:"order"`
	Stereo string `json:"stereo,omitempty"`
}

// WriteJSON encodes a molecule as JSON and writes it to w.
// The output includes all atoms (with charge, hydrogens and stereo
// descriptors) and bonds. This format can be re-imported with [ReadJSON]
// for round-trip processing.
func WriteJSON(m *mol.Molecule, w io.Writer) error {
	out := molecule{
		Atoms: make([]atom, m.NumAtoms()),
		Bonds: make([]bond, m.NumBonds()),
	}

	for i, a := range m.Atoms() {
		out.Atoms[i] = atom{
			ID:        a.ID,
			Symbol:    a.Symbol,
			Charge:    a.Charge,
			Hydrogens: a.Hydrogens,
			Isotope:   a.Isotope,
			Aromatic:  a.Aromatic,
			Chirality: a.Chirality.SMILES(),
			Class:     a.Class,
		}
	}
	for i, b := range m.Bonds() {
		out.Bonds[i] = bond{
			From:   b.From,
			To:     b.To,
			Order:  orderToString[b.Order],
			Stereo: stereoToString[b.Stereo],
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a molecule to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(m *mol.Molecule, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(m, f)
}
