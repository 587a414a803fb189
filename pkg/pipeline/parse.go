package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rajeshg/openchem/pkg/errors"
	"github.com/rajeshg/openchem/pkg/mol"
	"github.com/rajeshg/openchem/pkg/observability"
	"github.com/rajeshg/openchem/pkg/smiles"
)

// Parse reads a SMILES string into a molecular graph.
//
// Parsing runs the full perception sequence: syntax parsing, aromaticity
// perception (so Kekulé and aromatic inputs of the same molecule converge
// on one internal form), and stereo sanitization (so descriptors that
// cannot carry stereochemical information are dropped).
func Parse(ctx context.Context, opts Options) (*mol.Molecule, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, err
	}

	observability.Pipeline().OnParseStart(ctx, opts.Input)
	start := time.Now()

	m, err := parse(opts)

	atomCount := 0
	if m != nil {
		atomCount = m.NumAtoms()
	}
	observability.Pipeline().OnParseComplete(ctx, opts.Input, atomCount, time.Since(start), err)
	return m, err
}

func parse(opts Options) (*mol.Molecule, error) {
	if err := errors.ValidateSMILES(opts.Input); err != nil {
		return nil, err
	}

	m, err := smiles.Parse(opts.Input)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSMILES, err, "parse %q", opts.Input)
	}

	m = smiles.Perceive(m)
	m = smiles.SanitizeStereo(m)

	if opts.Kekulize {
		m, err = smiles.Kekulize(m)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeKekulize, err, "kekulize %q", opts.Input)
		}
	}

	if opts.Plain {
		stripStereo(m)
	}

	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMolecule, err, "validate %q", opts.Input)
	}

	return m, nil
}

// stripStereo removes all stereo descriptors in place.
func stripStereo(m *mol.Molecule) {
	for _, a := range m.Atoms() {
		if a.Chirality != mol.ChiralityNone {
			a.Chirality = mol.ChiralityNone
			a.ChiralRef = nil
			if err := m.SetAtom(a.ID, a); err != nil {
				panic(fmt.Sprintf("pipeline: strip stereo atom %d: %v", a.ID, err))
			}
		}
	}
	for i, b := range m.Bonds() {
		if b.Stereo != mol.StereoNone {
			b.Stereo = mol.StereoNone
			if err := m.SetBond(i, b); err != nil {
				panic(fmt.Sprintf("pipeline: strip stereo bond %d: %v", i, err))
			}
		}
	}
}
