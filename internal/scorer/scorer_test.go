package scorer

import (
	"math"
	"testing"

	"fileranker/internal/graph"
	"fileranker/internal/ir"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func descriptor(class, method string, arity int, flags ir.Flags, lines ...int) ir.BinaryDescriptor {
	d := ir.BinaryDescriptor{
		BinaryClassName: class,
		ObservedMethod:  ir.ObservedMethod{Name: method, Arity: arity},
		DeclaredFlags:   flags,
	}
	for i, l := range lines {
		d.LineNumberTableWindow = append(d.LineNumberTableWindow, ir.LineEntry{Offset: i * 4, Line: l})
	}
	if len(lines) > 0 {
		d.CurrentLine = lines[0]
	}
	return d
}

func fooFact() ir.DeclarationFact {
	return ir.DeclarationFact{
		ID:                  "class:Foo:1",
		QualifiedBinaryName: "pkg.Foo",
		Name:                "Foo",
		Kind:                ir.KindClass,
		BodySpan:            ir.Lines(3, 20),
		Flags:               ir.FlagFinal,
		SourceFile:          "a/Foo.kt",
		Constructors:        []ir.ConstructorSpan{{Primary: true, Params: ir.Lines(3, 5), Arity: 2}},
		InitBlockLineSpans:  []ir.LineSpan{ir.Lines(7, 9)},
		MethodSignatures: []ir.MethodSignature{
			{Name: "bar", Arity: 1, Span: ir.Lines(11, 13), Flags: ir.FlagFinal},
			{Name: "baz", Arity: 0, Span: ir.Lines(15, 18), Flags: ir.FlagFinal | ir.FlagPrivate},
		},
	}
}

func signal(t *testing.T, cs ir.CandidateScore, name string) float64 {
	t.Helper()
	s, ok := cs.Signal(name)
	require.True(t, ok, "signal %s missing", name)
	return s.Value
}

func TestScore_Signals(t *testing.T) {
	s := NewDefault()
	fact := fooFact()

	t.Run("Full match", func(t *testing.T) {
		cs := s.Score(nil, &fact, descriptor("pkg.Foo", "bar", 1, ir.FlagFinal, 12))
		assert.Equal(t, 1.0, signal(t, cs, SignalName))
		assert.Equal(t, 1.0, signal(t, cs, SignalMethods))
		assert.Equal(t, 1.0, signal(t, cs, SignalLines))
		assert.Equal(t, 1.0, signal(t, cs, SignalFlags))
		assert.Equal(t, 0.5, signal(t, cs, SignalKind))
		assert.InDelta(t, 0.975, cs.Total, 1e-9)
		assert.Equal(t, "bar", cs.Location.Member)
		assert.Equal(t, ir.Lines(11, 13), cs.Location.Span)

		names := make([]string, 0, len(cs.Signals))
		for _, sig := range cs.Signals {
			names = append(names, sig.Name)
		}
		assert.Equal(t, []string{SignalName, SignalMethods, SignalLines, SignalFlags, SignalKind}, names)
	})

	t.Run("Name only method", func(t *testing.T) {
		cs := s.Score(nil, &fact, descriptor("pkg.Foo", "bar", 3, 0, 12))
		assert.Equal(t, 0.5, signal(t, cs, SignalMethods))
	})

	t.Run("Unknown arity matches", func(t *testing.T) {
		cs := s.Score(nil, &fact, descriptor("pkg.Foo", "baz", -1, 0, 16))
		assert.Equal(t, 1.0, signal(t, cs, SignalMethods))
	})

	t.Run("Missing method", func(t *testing.T) {
		cs := s.Score(nil, &fact, descriptor("pkg.Other", "qux", 0, 0, 12))
		assert.Equal(t, 0.0, signal(t, cs, SignalName))
		assert.Equal(t, 0.0, signal(t, cs, SignalMethods))
		assert.Equal(t, fact.BodySpan, cs.Location.Span)
	})

	t.Run("Lines", func(t *testing.T) {
		cases := []struct {
			name   string
			method string
			line   int
			want   float64
		}{
			{"constructor params", "<init>", 4, 1},
			{"init block", "<init>", 8, 1},
			{"matched member", "baz", 16, 1},
			{"body only", "nope", 19, 0.5},
			{"near miss", "nope", 21, 0.25},
			{"far away", "nope", 40, 0},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				cs := s.Score(nil, &fact, descriptor("pkg.Foo", tc.method, -1, 0, tc.line))
				assert.InDelta(t, tc.want, signal(t, cs, SignalLines), 1e-9)
			})
		}
	})

	t.Run("Flags", func(t *testing.T) {
		cs := s.Score(nil, &fact, descriptor("pkg.Foo", "baz", 0, ir.FlagFinal, 16))
		assert.InDelta(t, 0.5, signal(t, cs, SignalFlags), 1e-9)

		cs = s.Score(nil, &fact, descriptor("pkg.Foo", "baz", 0, ir.FlagStatic|ir.FlagSynthetic, 16))
		assert.Equal(t, 0.0, signal(t, cs, SignalFlags))
	})
}

func TestScore_LoweredMembers(t *testing.T) {
	host := fooFact()
	lambda := ir.DeclarationFact{
		ID:                  "lambda:bar:2",
		ParentID:            host.ID,
		QualifiedBinaryName: "pkg.Foo$bar$1",
		Name:                "bar",
		Kind:                ir.KindLambda,
		BodySpan:            ir.Lines(12, 12),
		Flags:               ir.FlagFinal | ir.FlagSynthetic,
		SourceFile:          host.SourceFile,
		MethodSignatures: []ir.MethodSignature{
			{Name: "invoke", Arity: 1, Span: ir.Lines(12, 12), Flags: ir.FlagFinal},
			{Name: "bar$lambda$0", Arity: -1, Span: ir.Lines(12, 12), Flags: ir.FlagPrivate | ir.FlagStatic | ir.FlagFinal | ir.FlagSynthetic},
		},
	}
	facts := []ir.DeclarationFact{host, lambda}
	g := graph.FromFacts(facts)
	s := NewDefault()

	t.Run("Indy lambda resolves through the host", func(t *testing.T) {
		d := descriptor("pkg.Foo", "bar$lambda$0", 1, ir.FlagPrivate|ir.FlagStatic|ir.FlagFinal|ir.FlagSynthetic, 12)
		cs := s.Score(g, &facts[0], d)
		assert.Equal(t, 1.0, signal(t, cs, SignalMethods))
		assert.Equal(t, 1.0, signal(t, cs, SignalKind))
		assert.Equal(t, lambda.ID, cs.Location.FactID)
		assert.Equal(t, ir.KindLambda, cs.Location.Kind)
	})

	t.Run("Invoke stays with the lambda class", func(t *testing.T) {
		d := descriptor("pkg.Foo$bar$1", "invoke", 1, ir.FlagFinal, 12)
		hostScore := s.Score(g, &facts[0], d)
		assert.Equal(t, 0.0, signal(t, hostScore, SignalMethods))

		best := s.ScoreFile(ir.FileFacts{File: "a/Foo.kt", Facts: facts}, d)
		assert.Equal(t, lambda.ID, best.Location.FactID)
		assert.Equal(t, 1.0, signal(t, best, SignalName))
	})
}

func TestScore_CompilerGeneratedMembers(t *testing.T) {
	s := NewDefault()
	host := fooFact()
	host.MethodSignatures = append(host.MethodSignatures,
		ir.MethodSignature{Name: "<init>", Arity: 2, Span: ir.Lines(3, 5)},
		ir.MethodSignature{Name: "toString", Arity: 0, Span: ir.Lines(3, 5)},
		ir.MethodSignature{Name: "component1", Arity: 0, Span: ir.Lines(3, 5), Flags: ir.FlagFinal},
	)
	lambda := ir.DeclarationFact{
		ID:                  "lambda:top:2",
		QualifiedBinaryName: "pkg.FooKt$top$1",
		Kind:                ir.KindLambda,
		BodySpan:            ir.Lines(22, 22),
		Flags:               ir.FlagFinal | ir.FlagSynthetic,
		MethodSignatures:    []ir.MethodSignature{{Name: "invoke", Arity: -1, Span: ir.Lines(22, 22), Flags: ir.FlagFinal}},
	}

	tests := []struct {
		name string
		fact *ir.DeclarationFact
		d    ir.BinaryDescriptor
	}{
		{"constructor of another class", &host, descriptor("other.Unrelated", "<init>", 2, 0, 40)},
		{"data member of another class", &host, descriptor("other.Unrelated", "component1", 0, ir.FlagFinal, 40)},
		{"toString of another class", &host, descriptor("other.Unrelated", "toString", 0, 0, 40)},
		{"invoke of another lambda", &lambda, descriptor("other.Unrelated$x$1", "invoke", -1, ir.FlagFinal, 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := s.Score(nil, tt.fact, tt.d)
			assert.Equal(t, 0.0, signal(t, cs, SignalMethods))
			assert.Empty(t, cs.Location.Member)
			assert.LessOrEqual(t, cs.Total, 0.15+Epsilon)
		})
	}

	t.Run("Own constructor still matches", func(t *testing.T) {
		cs := s.Score(nil, &host, descriptor("pkg.Foo", "<init>", 2, 0, 4))
		assert.Equal(t, 1.0, signal(t, cs, SignalMethods))
		assert.Equal(t, "<init>", cs.Location.Member)
	})

	assert.True(t, compilerGenerated("component12"))
	assert.False(t, compilerGenerated("component"))
	assert.False(t, compilerGenerated("componentX"))
	assert.False(t, compilerGenerated("getName"))
}

func TestScoreFile_Empty(t *testing.T) {
	s := NewDefault()
	cs := s.ScoreFile(ir.FileFacts{File: "empty.kt", Order: 3}, descriptor("pkg.Foo", "bar", 0, 0, 1))
	assert.Equal(t, "empty.kt", cs.SourceFile)
	assert.Equal(t, 3, cs.Order)
	assert.Zero(t, cs.Total)
	assert.Len(t, cs.Signals, 5)
}

func TestBetter(t *testing.T) {
	a := ir.CandidateScore{SourceFile: "b.kt", Order: 0, Total: 0.5, Location: ir.Location{Span: ir.Lines(1, 10)}}
	b := ir.CandidateScore{SourceFile: "a.kt", Order: 1, Total: 0.5 + Epsilon/2, Location: ir.Location{Span: ir.Lines(1, 2)}}

	assert.True(t, Better(a, b), "equal totals fall back to candidate order")
	assert.False(t, Better(b, a))

	b.Order = 0
	assert.True(t, Better(b, a), "then the narrower span")

	b.Location.Span = a.Location.Span
	assert.True(t, Better(b, a), "then the file path")

	b.Total = 0.4
	assert.True(t, Better(a, b))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{Weights: Weights{Name: -1}})
	assert.Error(t, err)

	_, err = New(Options{Weights: Weights{}})
	assert.Error(t, err)

	_, err = New(Options{Weights: DefaultWeights(), LineTolerance: -1})
	assert.Error(t, err)

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		w := DefaultWeights()
		w.Flags = v
		_, err = New(Options{Weights: w})
		assert.Error(t, err, "weight %v", v)
	}

	s, err := New(Options{Weights: Weights{Name: 1}})
	require.NoError(t, err)
	cs := s.Score(nil, &ir.DeclarationFact{QualifiedBinaryName: "X"}, descriptor("X", "m", 0, 0, 1))
	assert.InDelta(t, 1.0, cs.Total, 1e-9)
}

func TestImpliedKinds(t *testing.T) {
	assert.Equal(t, []ir.Kind{ir.KindLambda}, impliedKinds(descriptor("a.Foo$bar$1", "invoke", 1, 0)))
	assert.Equal(t, []ir.Kind{ir.KindPropertyDelegateAccessor}, impliedKinds(descriptor("a.Foo", "getX$delegate", 0, 0)))
	assert.Equal(t, []ir.Kind{ir.KindClass, ir.KindObject}, impliedKinds(descriptor("a.Foo", "<init>", 0, 0)))
	assert.Equal(t, []ir.Kind{ir.KindFileFacade}, impliedKinds(descriptor("a.MainKt", "<clinit>", 0, 0)))
	assert.Nil(t, impliedKinds(descriptor("a.Foo", "bar", 0, 0)))
}
