package graph

import "fileranker/internal/ir"

func (g *Graph) UnresolvedReasonCounts() map[UnresolvedReason]int {
	counts := make(map[UnresolvedReason]int)
	if g == nil {
		return counts
	}
	for _, u := range g.Unresolved {
		reason := u.Reason
		if reason == "" {
			reason = ReasonMissingParent
		}
		counts[reason]++
	}
	return counts
}

// KindCounts tallies nodes per declaration kind.
func (g *Graph) KindCounts() map[ir.Kind]int {
	counts := make(map[ir.Kind]int)
	if g == nil {
		return counts
	}
	for _, n := range g.Nodes {
		counts[n.Fact.Kind]++
	}
	return counts
}
