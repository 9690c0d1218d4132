package graph

import (
	"strings"

	"fileranker/internal/ir"
)

// Node represents a vertex in the declaration graph.
type Node struct {
	Fact *ir.DeclarationFact
}

// Edge represents a directed relationship between two nodes.
type Edge struct {
	From string // Child fact ID
	To   string // Parent fact ID
	Kind RelationKind
}

// Graph holds the facts of one file and their nesting.
type Graph struct {
	Nodes      map[string]*Node
	Edges      []Edge
	Unresolved []Unresolved

	order    []string
	children map[string][]string

	// Index for faster lookup: binary or simple name -> []ID
	nameIndex map[string][]string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes:     make(map[string]*Node),
		Edges:     []Edge{},
		children:  make(map[string][]string),
		nameIndex: make(map[string][]string),
	}
}

// AddFact adds a fact as a node and indexes it.
func (g *Graph) AddFact(fact *ir.DeclarationFact) {
	if fact == nil {
		return
	}
	if _, dup := g.Nodes[fact.ID]; dup {
		g.Unresolved = append(g.Unresolved, Unresolved{FactID: fact.ID, Reason: ReasonDuplicateID})
		return
	}
	g.Nodes[fact.ID] = &Node{Fact: fact}
	g.order = append(g.order, fact.ID)

	g.nameIndex[fact.QualifiedBinaryName] = append(g.nameIndex[fact.QualifiedBinaryName], fact.ID)
	if simple := simpleBinaryName(fact.QualifiedBinaryName); simple != fact.QualifiedBinaryName {
		g.nameIndex[simple] = append(g.nameIndex[simple], fact.ID)
	}
}

// LinkParents resolves ParentID references into edges.
func (g *Graph) LinkParents() {
	g.Edges = []Edge{}
	g.children = make(map[string][]string)
	g.Unresolved = filterReason(g.Unresolved, ReasonDuplicateID)

	for _, id := range g.order {
		fact := g.Nodes[id].Fact
		if fact.ParentID == "" {
			continue
		}
		if _, ok := g.Nodes[fact.ParentID]; !ok {
			g.Unresolved = append(g.Unresolved, Unresolved{FactID: id, ParentID: fact.ParentID, Reason: ReasonMissingParent})
			continue
		}
		kind := RelationNestedIn
		if fact.Kind == ir.KindLambda || fact.Kind == ir.KindPropertyDelegateAccessor {
			kind = RelationLoweredInto
		}
		g.Edges = append(g.Edges, Edge{From: id, To: fact.ParentID, Kind: kind})
		g.children[fact.ParentID] = append(g.children[fact.ParentID], id)
	}
}

// Facts returns the facts in insertion order.
func (g *Graph) Facts() []*ir.DeclarationFact {
	out := make([]*ir.DeclarationFact, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.Nodes[id].Fact)
	}
	return out
}

// ByBinaryName returns the facts whose binary name (or simple binary name) is name.
func (g *Graph) ByBinaryName(name string) []*ir.DeclarationFact {
	var out []*ir.DeclarationFact
	for _, id := range g.nameIndex[name] {
		out = append(out, g.Nodes[id].Fact)
	}
	return out
}

// Parent returns the enclosing fact, or nil for roots.
func (g *Graph) Parent(id string) *ir.DeclarationFact {
	node, ok := g.Nodes[id]
	if !ok || node.Fact.ParentID == "" {
		return nil
	}
	if parent, ok := g.Nodes[node.Fact.ParentID]; ok {
		return parent.Fact
	}
	return nil
}

// Children returns the facts directly nested in id, in source order.
func (g *Graph) Children(id string) []*ir.DeclarationFact {
	var out []*ir.DeclarationFact
	for _, cid := range g.children[id] {
		out = append(out, g.Nodes[cid].Fact)
	}
	return out
}

// LoweredMembers returns the synthetic descendants of id that compile into
// id's own class or next to it: lambdas and delegate accessors reached without
// crossing a nested class or object.
func (g *Graph) LoweredMembers(id string) []*ir.DeclarationFact {
	var out []*ir.DeclarationFact
	var walk func(string)
	walk = func(parent string) {
		for _, child := range g.Children(parent) {
			switch child.Kind {
			case ir.KindLambda, ir.KindPropertyDelegateAccessor:
				out = append(out, child)
				walk(child.ID)
			}
		}
	}
	walk(id)
	return out
}

func simpleBinaryName(binary string) string {
	if i := strings.LastIndexAny(binary, ".$"); i >= 0 {
		return binary[i+1:]
	}
	return binary
}

func filterReason(in []Unresolved, keep UnresolvedReason) []Unresolved {
	out := in[:0]
	for _, u := range in {
		if u.Reason == keep {
			out = append(out, u)
		}
	}
	return out
}
