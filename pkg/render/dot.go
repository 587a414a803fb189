package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rajeshg/openchem/pkg/mol"
)

// Options configures molecule rendering.
type Options struct {
	// ShowIDs includes atom ids in node labels.
	// When false, only the element symbol (with charge) is shown.
	ShowIDs bool

	// Layout selects the Graphviz layout engine. Defaults to "neato",
	// which tends to place rings sensibly.
	Layout string
}

// cpkColors maps element symbols to conventional depiction colors.
var cpkColors = map[string]string{
	"O":  "red",
	"N":  "blue",
	"S":  "goldenrod",
	"P":  "darkorange",
	"F":  "green",
	"Cl": "green",
	"Br": "darkred",
	"I":  "purple",
}

// ToDOT converts a molecule to Graphviz DOT format.
// The resulting DOT string can be rendered using [SVG] or [PNG].
//
// Bonds are styled by order: double bonds draw two parallel lines, triple
// bonds three, and aromatic bonds are dashed.
func ToDOT(m *mol.Molecule, opts Options) string {
	layout := opts.Layout
	if layout == "" {
		layout = "neato"
	}

	var buf bytes.Buffer
	buf.WriteString("graph mol {\n")
	fmt.Fprintf(&buf, "  layout=%s;\n", layout)
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=18, fixedsize=true, width=0.5];\n")
	buf.WriteString("  edge [penwidth=1.5];\n")
	buf.WriteString("\n")

	for _, a := range m.Atoms() {
		label := atomLabel(a, opts.ShowIDs)
		attrs := atomAttrs(a, label)
		fmt.Fprintf(&buf, "  %d [%s];\n", a.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, b := range m.Bonds() {
		fmt.Fprintf(&buf, "  %d -- %d [%s];\n", b.From, b.To, strings.Join(bondAttrs(b), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func atomLabel(a mol.Atom, showIDs bool) string {
	label := a.Symbol
	if a.Isotope > 0 {
		label = fmt.Sprintf("%d%s", a.Isotope, a.Symbol)
	}
	switch {
	case a.Charge > 1:
		label += fmt.Sprintf("+%d", a.Charge)
	case a.Charge == 1:
		label += "+"
	case a.Charge == -1:
		label += "-"
	case a.Charge < -1:
		label += fmt.Sprintf("%d", a.Charge)
	}
	if showIDs {
		label += fmt.Sprintf("\n%d", a.ID)
	}
	return label
}

func atomAttrs(a mol.Atom, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if color, ok := cpkColors[a.Symbol]; ok {
		attrs = append(attrs, fmt.Sprintf("fontcolor=%s", color), fmt.Sprintf("color=%s", color))
	}
	return attrs
}

func bondAttrs(b mol.Bond) []string {
	switch b.Order {
	case mol.BondDouble:
		// A color list draws one line per entry
		return []string{`color="black:black"`}
	case mol.BondTriple:
		return []string{`color="black:black:black"`}
	case mol.BondAromatic:
		return []string{"style=dashed"}
	}
	return []string{"color=black"}
}
