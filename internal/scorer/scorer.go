package scorer

import (
	"errors"
	"fmt"

	"fileranker/internal/graph"
	"fileranker/internal/ir"
)

// WeightedSignal pairs a signal with its multiplier.
type WeightedSignal struct {
	Signal Signal
	Weight float64
}

// Options configure a Scorer.
type Options struct {
	Weights       Weights
	LineTolerance int
	// Extra signals are evaluated after the built-in ones.
	Extra []WeightedSignal
}

func DefaultOptions() Options {
	return Options{Weights: DefaultWeights(), LineTolerance: 1}
}

// Scorer evaluates a fixed, ordered chain of signals and sums their weighted values.
type Scorer struct {
	chain     []WeightedSignal
	weights   Weights
	tolerance int
}

// DefaultSignals is the built-in chain in evaluation order.
func DefaultSignals() []Signal {
	return []Signal{NameSignal{}, MethodSignal{}, LineSignal{}, FlagSignal{}, KindSignal{}}
}

func New(opts Options) (*Scorer, error) {
	if err := opts.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring weights: %w", err)
	}
	if opts.LineTolerance < 0 {
		return nil, fmt.Errorf("line tolerance must not be negative, got %d", opts.LineTolerance)
	}
	for _, e := range opts.Extra {
		if e.Signal == nil || e.Weight < 0 {
			return nil, errors.New("extra signals need a signal and a non-negative weight")
		}
	}

	s := &Scorer{weights: opts.Weights, tolerance: opts.LineTolerance}
	for _, sig := range DefaultSignals() {
		s.chain = append(s.chain, WeightedSignal{Signal: sig, Weight: opts.Weights.For(sig.Name())})
	}
	s.chain = append(s.chain, opts.Extra...)
	return s, nil
}

// NewDefault builds a scorer with the default weights and tolerance.
func NewDefault() *Scorer {
	s, err := New(DefaultOptions())
	if err != nil {
		panic(err)
	}
	return s
}

// Score evaluates one fact. g may be nil, in which case lowered members are not pooled.
func (s *Scorer) Score(g *graph.Graph, fact *ir.DeclarationFact, d ir.BinaryDescriptor) ir.CandidateScore {
	in := &Input{
		Graph:         g,
		Fact:          fact,
		Descriptor:    d,
		Member:        matchMember(g, fact, d),
		LineTolerance: s.tolerance,
	}

	out := ir.CandidateScore{
		SourceFile: fact.SourceFile,
		Signals:    make([]ir.SignalScore, 0, len(s.chain)),
		Location:   locate(fact, in.Member),
	}
	for _, ws := range s.chain {
		v, detail := ws.Signal.Evaluate(in)
		sig := ir.SignalScore{Name: ws.Signal.Name(), Weight: ws.Weight, Value: clamp(v, 0, 1), Detail: detail}
		out.Signals = append(out.Signals, sig)
		out.Total += sig.Weighted()
	}
	return out
}

// ScoreFile scores every fact of a file and keeps the best one.
// Equal totals prefer the narrower location, then the earlier fact.
// A file without facts scores zero on every signal.
func (s *Scorer) ScoreFile(ff ir.FileFacts, d ir.BinaryDescriptor) ir.CandidateScore {
	g := graph.FromFacts(ff.Facts)

	var best ir.CandidateScore
	found := false
	for _, fact := range g.Facts() {
		cs := s.Score(g, fact, d)
		if !found || betterInFile(cs, best) {
			best, found = cs, true
		}
	}
	if !found {
		best = s.empty()
	}
	best.SourceFile = ff.File
	best.Order = ff.Order
	return best
}

func (s *Scorer) empty() ir.CandidateScore {
	out := ir.CandidateScore{}
	for _, ws := range s.chain {
		out.Signals = append(out.Signals, ir.SignalScore{Name: ws.Signal.Name(), Weight: ws.Weight, Detail: "no facts"})
	}
	return out
}

func betterInFile(a, b ir.CandidateScore) bool {
	if diff := a.Total - b.Total; diff > Epsilon || diff < -Epsilon {
		return diff > 0
	}
	return a.Location.Span.Len() < b.Location.Span.Len()
}

// Better orders candidates across files: higher total, then earlier candidate
// order, then narrower location, then file path.
func Better(a, b ir.CandidateScore) bool {
	if diff := a.Total - b.Total; diff > Epsilon || diff < -Epsilon {
		return diff > 0
	}
	if a.Order != b.Order {
		return a.Order < b.Order
	}
	if la, lb := a.Location.Span.Len(), b.Location.Span.Len(); la != lb {
		return la < lb
	}
	return a.SourceFile < b.SourceFile
}

func locate(fact *ir.DeclarationFact, m *Member) ir.Location {
	if m == nil {
		return ir.Location{
			FactID:              fact.ID,
			Kind:                fact.Kind,
			QualifiedBinaryName: fact.QualifiedBinaryName,
			Span:                fact.BodySpan,
		}
	}
	return ir.Location{
		FactID:              m.Owner.ID,
		Kind:                m.Owner.Kind,
		QualifiedBinaryName: m.Owner.QualifiedBinaryName,
		Member:              m.Signature.Name,
		Span:                m.Signature.Span,
	}
}
