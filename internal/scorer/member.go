package scorer

import (
	"strings"

	"fileranker/internal/graph"
	"fileranker/internal/ir"
)

// Member is the method of a fact (or of a synthetic unit lowered into it)
// that the observed method resolved to.
type Member struct {
	Signature ir.MethodSignature
	Owner     *ir.DeclarationFact
	// ArityMatch is false when only the name agreed.
	ArityMatch bool
}

type memberCandidate struct {
	sig   ir.MethodSignature
	owner *ir.DeclarationFact
}

// memberPool lists the signatures the fact's binary class can expose: its own,
// plus those of lambdas and delegate accessors lowered into it. Lambda
// invoke methods live in the lambda's own class and are left out.
func memberPool(g *graph.Graph, fact *ir.DeclarationFact) []memberCandidate {
	pool := make([]memberCandidate, 0, len(fact.MethodSignatures))
	for _, s := range fact.MethodSignatures {
		pool = append(pool, memberCandidate{sig: s, owner: fact})
	}
	if g == nil {
		return pool
	}
	for _, child := range g.LoweredMembers(fact.ID) {
		for _, s := range child.MethodSignatures {
			if child.Kind == ir.KindLambda && s.Name == "invoke" {
				continue
			}
			pool = append(pool, memberCandidate{sig: s, owner: child})
		}
	}
	return pool
}

func arityMatches(sig ir.MethodSignature, m ir.ObservedMethod) bool {
	return sig.Arity < 0 || m.Arity < 0 || sig.Arity == m.Arity
}

// matchMember picks the pool entry that best explains the observed method.
// Preference: arity agreement, then a span holding a window line, then the
// narrower span, then pool order.
func matchMember(g *graph.Graph, fact *ir.DeclarationFact, d ir.BinaryDescriptor) *Member {
	lines := windowLines(d)

	var best *Member
	bestHit := false
	for _, c := range memberPool(g, fact) {
		if c.sig.Name != d.ObservedMethod.Name {
			continue
		}
		if compilerGenerated(c.sig.Name) && c.owner.QualifiedBinaryName != d.BinaryClassName {
			continue
		}
		m := &Member{Signature: c.sig, Owner: c.owner, ArityMatch: arityMatches(c.sig, d.ObservedMethod)}
		hit := spanHolds(c.sig.Span, lines)
		if best == nil || better(m, hit, best, bestHit) {
			best, bestHit = m, hit
		}
	}
	return best
}

// compilerGenerated reports methods that every class, object, lambda or data
// class of a given shape carries. They only identify a member of the observed
// class itself.
func compilerGenerated(name string) bool {
	switch name {
	case "<init>", "<clinit>", "invoke", "toString", "hashCode", "equals", "copy", "copy$default":
		return true
	}
	if rest, ok := strings.CutPrefix(name, "component"); ok && rest != "" {
		for _, r := range rest {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}
	return false
}

func better(m *Member, hit bool, cur *Member, curHit bool) bool {
	if m.ArityMatch != cur.ArityMatch {
		return m.ArityMatch
	}
	if hit != curHit {
		return hit
	}
	return m.Signature.Span.Len() < cur.Signature.Span.Len()
}

func spanHolds(s ir.LineSpan, lines []int) bool {
	for _, l := range lines {
		if s.Contains(l) {
			return true
		}
	}
	return false
}

// windowLines returns the descriptor's table lines plus the current line.
func windowLines(d ir.BinaryDescriptor) []int {
	lines := d.Lines()
	if d.CurrentLine <= 0 {
		return lines
	}
	for _, l := range lines {
		if l == d.CurrentLine {
			return lines
		}
	}
	return append(lines, d.CurrentLine)
}
