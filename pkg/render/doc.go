// Package render converts molecules to Graphviz DOT and rasterized
// depictions.
//
// # Overview
//
// The renderer draws the molecular graph as a node-link diagram: atoms
// become nodes labeled with their element symbol (plus charge and isotope
// where present), bonds become edges styled by order. This is a structural
// depiction, not a 2D coordinate layout - Graphviz places the atoms.
//
// # Usage
//
//	dot := render.ToDOT(m, render.Options{})
//	svg, err := render.SVG(ctx, dot)
//	png, err := render.PNG(ctx, dot)
//
// SVG output has its viewBox normalized to origin so it embeds cleanly
// in web pages.
package render
