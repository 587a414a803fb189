package molfmt

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rajeshg/openchem/pkg/mol"
)

func ethanol(t *testing.T) *mol.Molecule {
	t.Helper()
	m := mol.New()
	c1, _ := m.AddAtom(mol.Atom{Symbol: "C", Hydrogens: 3})
	c2, _ := m.AddAtom(mol.Atom{Symbol: "C", Hydrogens: 2})
	o, _ := m.AddAtom(mol.Atom{Symbol: "O", Hydrogens: 1})
	if err := m.AddBond(mol.Bond{From: c1, To: c2, Order: mol.BondSingle}); err != nil {
		t.Fatalf("AddBond: %v", err)
	}
	if err := m.AddBond(mol.Bond{From: c2, To: o, Order: mol.BondSingle}); err != nil {
		t.Fatalf("AddBond: %v", err)
	}
	return m
}

func TestWriteReadRoundTrip(t *testing.T) {
	m := ethanol(t)

	var buf bytes.Buffer
	if err := WriteJSON(m, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if got.NumAtoms() != m.NumAtoms() {
		t.Errorf("NumAtoms = %d, want %d", got.NumAtoms(), m.NumAtoms())
	}
	if got.NumBonds() != m.NumBonds() {
		t.Errorf("NumBonds = %d, want %d", got.NumBonds(), m.NumBonds())
	}
	for i, want := range m.Atoms() {
		a := got.Atom(i)
		if a.Symbol != want.Symbol || a.Hydrogens != want.Hydrogens {
			t.Errorf("atom %d = %+v, want %+v", i, a, want)
		}
	}
}

func TestReadJSONStereo(t *testing.T) {
	input := `{
	  "atoms": [
	    {"id": 0, "symbol": "F"},
	    {"id": 1, "symbol": "C", "hydrogens": 1},
	    {"id": 2, "symbol": "C", "hydrogens": 1},
	    {"id": 3, "symbol": "F"}
	  ],
	  "bonds": [
	    {"from": 0, "to": 1, "order": "single", "stereo": "up"},
	    {"from": 1, "to": 2, "order": "double"},
	    {"from": 2, "to": 3, "order": "single", "stereo": "up"}
	  ]
	}`

	m, err := ReadJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	b, ok := m.BondBetween(0, 1)
	if !ok {
		t.Fatal("bond 0-1 missing")
	}
	if b.Stereo != mol.StereoUp {
		t.Errorf("bond 0-1 stereo = %v, want StereoUp", b.Stereo)
	}
	b, _ = m.BondBetween(1, 2)
	if b.Order != mol.BondDouble {
		t.Errorf("bond 1-2 order = %v, want BondDouble", b.Order)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{`},
		{"id out of sequence", `{"atoms": [{"id": 1, "symbol": "C"}], "bonds": []}`},
		{"unknown element", `{"atoms": [{"id": 0, "symbol": "Xx"}], "bonds": []}`},
		{"unknown order", `{"atoms": [{"id": 0, "symbol": "C"}, {"id": 1, "symbol": "C"}], "bonds": [{"from": 0, "to": 1, "order": "quadruple"}]}`},
		{"unknown atom in bond", `{"atoms": [{"id": 0, "symbol": "C"}], "bonds": [{"from": 0, "to": 5, "order": "single"}]}`},
		{"self bond", `{"atoms": [{"id": 0, "symbol": "C"}], "bonds": [{"from": 0, "to": 0, "order": "single"}]}`},
		{"unknown chirality", `{"atoms": [{"id": 0, "symbol": "C", "chirality": "@TB7"}], "bonds": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadJSON(strings.NewReader(tt.input)); err == nil {
				t.Error("ReadJSON should fail")
			}
		})
	}
}

func TestExportImportJSON(t *testing.T) {
	m := ethanol(t)
	path := filepath.Join(t.TempDir(), "mol.json")

	if err := ExportJSON(m, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if got.NumAtoms() != 3 || got.NumBonds() != 2 {
		t.Errorf("imported %d atoms / %d bonds, want 3 / 2", got.NumAtoms(), got.NumBonds())
	}
}

func TestImportJSONMissingFile(t *testing.T) {
	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ImportJSON should fail for missing file")
	}
}
