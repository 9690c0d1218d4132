package scorer

import (
	"fmt"
	"math/bits"

	"fileranker/internal/graph"
	"fileranker/internal/ir"
)

// Input is everything a signal sees for one (fact, descriptor) pair.
type Input struct {
	Graph         *graph.Graph
	Fact          *ir.DeclarationFact
	Descriptor    ir.BinaryDescriptor
	Member        *Member
	LineTolerance int
}

// Signal is one named scoring function. Evaluate returns a value in [0,1]
// and a short diagnostic.
type Signal interface {
	Name() string
	Evaluate(in *Input) (float64, string)
}

// NameSignal checks exact binary-name equality.
type NameSignal struct{}

func (NameSignal) Name() string { return SignalName }

func (NameSignal) Evaluate(in *Input) (float64, string) {
	if in.Fact.QualifiedBinaryName == in.Descriptor.BinaryClassName {
		return 1, "exact"
	}
	return 0, in.Fact.QualifiedBinaryName
}

// MethodSignal checks the observed method against the fact's member pool.
type MethodSignal struct{}

func (MethodSignal) Name() string { return SignalMethods }

func (MethodSignal) Evaluate(in *Input) (float64, string) {
	m := in.Member
	switch {
	case m == nil:
		return 0, "no member " + in.Descriptor.ObservedMethod.Name
	case m.ArityMatch:
		return 1, fmt.Sprintf("%s/%d", m.Signature.Name, m.Signature.Arity)
	default:
		return 0.5, fmt.Sprintf("%s name only", m.Signature.Name)
	}
}

// LineSignal checks the line window against the spans the fact owns.
// Lines in the matched member, a constructor or an init block score 1, lines
// only inside the declaration body score 0.5. Near misses within the
// tolerance get linear partial credit.
type LineSignal struct{}

func (LineSignal) Name() string { return SignalLines }

func (LineSignal) Evaluate(in *Input) (float64, string) {
	strong := strongSpans(in)
	body := []ir.LineSpan{in.Fact.BodySpan}
	best, detail := 0.0, "outside"
	for _, line := range windowLines(in.Descriptor) {
		if v, d := lineScore(line, strong, 1, in.LineTolerance); v > best {
			best, detail = v, d
		}
		if v, d := lineScore(line, body, 0.5, in.LineTolerance); v > best {
			best, detail = v, d
		}
	}
	return clamp(best, 0, 1), detail
}

func strongSpans(in *Input) []ir.LineSpan {
	var strong []ir.LineSpan
	if in.Member != nil {
		strong = append(strong, in.Member.Signature.Span)
	}
	for _, c := range in.Fact.Constructors {
		strong = append(strong, c.Params, c.Body)
	}
	strong = append(strong, in.Fact.InitBlockLineSpans...)
	return strong
}

func lineScore(line int, spans []ir.LineSpan, full float64, tolerance int) (float64, string) {
	nearest := -1
	var at ir.LineSpan
	for _, s := range spans {
		d := s.Distance(line)
		if d < 0 {
			continue
		}
		if nearest < 0 || d < nearest {
			nearest, at = d, s
		}
	}
	switch {
	case nearest == 0:
		return full, fmt.Sprintf("line %d in %s", line, at)
	case nearest > 0 && nearest <= tolerance:
		credit := full * (1 - float64(nearest)/float64(tolerance+1))
		return credit, fmt.Sprintf("line %d near %s", line, at)
	default:
		return 0, ""
	}
}

// FlagSignal is the Jaccard similarity of the comparable flags.
type FlagSignal struct{}

func (FlagSignal) Name() string { return SignalFlags }

func (FlagSignal) Evaluate(in *Input) (float64, string) {
	source := in.Fact.Flags
	if in.Member != nil {
		source = in.Member.Signature.Flags
	}
	a := uint32(source & ir.Comparable)
	b := uint32(in.Descriptor.DeclaredFlags & ir.Comparable)
	union := bits.OnesCount32(a | b)
	if union == 0 {
		return 1, "none"
	}
	shared := bits.OnesCount32(a & b)
	return float64(shared) / float64(union), fmt.Sprintf("%s vs %s", ir.Flags(a), ir.Flags(b))
}

// KindSignal rewards facts whose kind fits the naming convention of the
// observed class and method.
type KindSignal struct{}

func (KindSignal) Name() string { return SignalKind }

func (KindSignal) Evaluate(in *Input) (float64, string) {
	kind := in.Fact.Kind
	if in.Member != nil {
		kind = in.Member.Owner.Kind
	}
	implied := impliedKinds(in.Descriptor)
	if len(implied) == 0 {
		return 0.5, "no convention"
	}
	for _, k := range implied {
		if k == kind {
			return 1, string(kind)
		}
	}
	return 0, fmt.Sprintf("%s, want %v", kind, implied)
}
