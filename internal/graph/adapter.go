package graph

import "fileranker/internal/ir"

// FromFacts builds a linked graph over one file's facts.
// The facts slice is referenced, not copied.
func FromFacts(facts []ir.DeclarationFact) *Graph {
	g := NewGraph()
	for i := range facts {
		g.AddFact(&facts[i])
	}
	g.LinkParents()
	return g
}
