package molfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rajeshg/openchem/pkg/mol"
)

var orderFromString = map[string]mol.BondOrder{
	"single":   mol.BondSingle,
	"double":   mol.BondDouble,
	"triple":   mol.BondTriple,
	"aromatic": mol.BondAromatic,
}

var stereoFromString = map[string]mol.BondStereo{
	"":     mol.StereoNone,
	"up":   mol.StereoUp,
	"down": mol.StereoDown,
}

var chiralityFromString = map[string]mol.Chirality{
	"":     mol.ChiralityNone,
	"@":    mol.ChiralityCCW,
	"@@":   mol.ChiralityCW,
	"@AL1": mol.ChiralityAlleneCCW,
	"@AL2": mol.ChiralityAlleneCW,
}

// ReadJSON decodes a JSON molecule from r.
//
// The input must be a JSON object with "atoms" and "bonds" arrays:
//
//	{
//	  "atoms": [{"id": 0, "symbol": "C"}, {"id": 1, "symbol": "O"}],
//	  "bonds": [{"from": 0, "to": 1, "order": "single"}]
//	}
//
// Atom ids must be sequential from zero in array order. Bond "from" and
// "to" must reference existing atom ids, and "order" must be one of
// "single", "double", "triple" or "aromatic".
//
// ReadJSON returns an error if:
//   - The JSON is malformed or invalid
//   - An atom id does not match its array position
//   - An atom symbol is not a known element
//   - A bond references an unknown atom id or repeats an atom pair
//
// Errors are wrapped with context describing which atom or bond caused
// the problem.
//
// The returned molecule is independent of r and can be modified safely
// after ReadJSON returns. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*mol.Molecule, error) {
	var data molecule
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	m := mol.New()
	for i, a := range data.Atoms {
		if a.ID != i {
			return nil, fmt.Errorf("atom %d: id %d out of sequence", i, a.ID)
		}
		chir, ok := chiralityFromString[a.Chirality]
		if !ok {
			return nil, fmt.Errorf("atom %d: unknown chirality %q", i, a.Chirality)
		}
		if _, err := m.AddAtom(mol.Atom{
			Symbol:    a.Symbol,
			Charge:    a.Charge,
			Hydrogens: a.Hydrogens,
			Isotope:   a.Isotope,
			Aromatic:  a.Aromatic,
			Chirality: chir,
			Class:     a.Class,
		}); err != nil {
			return nil, fmt.Errorf("atom %d: %w", i, err)
		}
	}
	for _, b := range data.Bonds {
		order, ok := orderFromString[b.Order]
		if !ok {
			return nil, fmt.Errorf("bond %d-%d: unknown order %q", b.From, b.To, b.Order)
		}
		stereo, ok := stereoFromString[b.Stereo]
		if !ok {
			return nil, fmt.Errorf("bond %d-%d: unknown stereo %q", b.From, b.To, b.Stereo)
		}
		if err := m.AddBond(mol.Bond{From: b.From, To: b.To, Order: order, Stereo: stereo}); err != nil {
			return nil, fmt.Errorf("bond %d-%d: %w", b.From, b.To, err)
		}
	}

	return m, nil
}

// ImportJSON reads a JSON file at path and returns the decoded molecule.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes the
// file. If the file cannot be opened, or if decoding fails, ImportJSON
// returns an error describing the failure. The error wraps the underlying
// cause with the file path for context.
func ImportJSON(path string) (*mol.Molecule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
