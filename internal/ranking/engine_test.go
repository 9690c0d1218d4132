package ranking

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fileranker/internal/extractor"
	"fileranker/internal/index"
	"fileranker/internal/ir"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileFacts(file string, order int, binary string, methods ...string) ir.FileFacts {
	fact := ir.DeclarationFact{
		ID:                  "class:" + file,
		QualifiedBinaryName: binary,
		Name:                binary,
		Kind:                ir.KindClass,
		BodySpan:            ir.Lines(1, 10),
		Flags:               ir.FlagFinal,
		SourceFile:          file,
	}
	for i, m := range methods {
		fact.MethodSignatures = append(fact.MethodSignatures, ir.MethodSignature{
			Name: m, Arity: 0, Span: ir.Lines(2+i*2, 3+i*2), Flags: ir.FlagFinal,
		})
	}
	return ir.FileFacts{File: file, Order: order, Facts: []ir.DeclarationFact{fact}}
}

func stop(class, method string, line int) ir.BinaryDescriptor {
	return ir.BinaryDescriptor{
		BinaryClassName:       class,
		ObservedMethod:        ir.ObservedMethod{Name: method, Arity: 0},
		LineNumberTableWindow: []ir.LineEntry{{Offset: 0, Line: line}},
		DeclaredFlags:         ir.FlagFinal,
		CurrentLine:           line,
	}
}

func TestRankFacts(t *testing.T) {
	e := NewEngine(Options{})

	t.Run("Method set decides same-named classes", func(t *testing.T) {
		files := []ir.FileFacts{
			fileFacts("a.kt", 0, "pkg.Foo", "first"),
			fileFacts("b.kt", 1, "pkg.Foo", "second"),
		}
		ranked := e.RankFacts(files, stop("pkg.Foo", "second", 2))
		require.Len(t, ranked, 2)
		assert.Equal(t, "b.kt", ranked[0].SourceFile)
		assert.Greater(t, ranked[0].Total, ranked[1].Total)

		m := e.Best(ranked)
		assert.True(t, m.Confident)
		assert.Equal(t, "b.kt", m.File)
	})

	t.Run("Ties keep candidate order", func(t *testing.T) {
		files := []ir.FileFacts{
			fileFacts("z.kt", 0, "pkg.Foo", "run"),
			fileFacts("a.kt", 1, "pkg.Foo", "run"),
		}
		d := stop("pkg.Foo", "run", 2)
		first := e.RankFacts(files, d)
		assert.Equal(t, "z.kt", first[0].SourceFile)

		for i := 0; i < 5; i++ {
			assert.Equal(t, first, e.RankFacts(files, d))
		}
	})

	t.Run("Nothing clears the floor", func(t *testing.T) {
		ranked := e.RankFacts([]ir.FileFacts{fileFacts("a.kt", 0, "pkg.Other")}, stop("pkg.Foo", "run", 50))
		m := e.Best(ranked)
		assert.False(t, m.Confident)
		assert.Empty(t, m.File)
		assert.LessOrEqual(t, m.Score.Total, DefaultMinConfidence+1e-9)
	})

	t.Run("Unrelated class in a compiler-generated method", func(t *testing.T) {
		ff := fileFacts("simple/Foo.kt", 0, "simple.Foo", "<init>", "bar")
		ff.Facts = append(ff.Facts, ir.DeclarationFact{
			ID:                  "lambda:top",
			QualifiedBinaryName: "simple.FooKt$top$1",
			Kind:                ir.KindLambda,
			BodySpan:            ir.Lines(9, 11),
			Flags:               ir.FlagFinal | ir.FlagSynthetic,
			SourceFile:          "simple/Foo.kt",
			MethodSignatures:    []ir.MethodSignature{{Name: "invoke", Arity: 0, Span: ir.Lines(9, 11), Flags: ir.FlagFinal}},
		})
		files := []ir.FileFacts{ff}

		for _, d := range []ir.BinaryDescriptor{
			stop("other.Unrelated", "<init>", 40),
			stop("other.Unrelated$x$1", "invoke", 40),
		} {
			m := e.Best(e.RankFacts(files, d))
			assert.False(t, m.Confident, "%s#%s", d.BinaryClassName, d.ObservedMethod.Name)
		}

		m := e.Best(e.RankFacts(files, stop("simple.Foo", "<init>", 2)))
		assert.True(t, m.Confident)
		assert.Equal(t, "<init>", m.Score.Location.Member)
	})

	t.Run("Floor", func(t *testing.T) {
		assert.Equal(t, DefaultMinConfidence, e.MinConfidence())

		strict := NewEngine(Options{MinConfidence: 0.99})
		assert.Equal(t, 0.99, strict.MinConfidence())
		files := []ir.FileFacts{fileFacts("a.kt", 0, "pkg.Foo", "run")}
		d := stop("pkg.Foo", "run", 2)
		assert.True(t, e.Best(e.RankFacts(files, d)).Confident)
		assert.False(t, strict.Best(strict.RankFacts(files, d)).Confident)
	})

	t.Run("Empty ordering", func(t *testing.T) {
		assert.False(t, e.Best(nil).Confident)
	})
}

func newFileEngine(t *testing.T) *Engine {
	t.Helper()
	ext, err := extractor.NewExtractor("kotlin")
	require.NoError(t, err)
	return NewEngine(Options{Indexer: index.NewIndexer(ext, index.Options{Workers: 2})})
}

func TestRank(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "Good.kt")
	other := filepath.Join(dir, "Other.kt")
	broken := filepath.Join(dir, "Broken.kt")
	require.NoError(t, os.WriteFile(good, []byte("package p\n\nclass Foo {\n    fun run() {\n        println()\n    }\n}\n"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("package p\n\nclass Foo {\n    fun walk() {\n    }\n}\n"), 0o644))
	require.NoError(t, os.WriteFile(broken, []byte("package p\n\nclass Foo( {\n"), 0o644))

	e := newFileEngine(t)
	d := stop("p.Foo", "run", 5)

	t.Run("Skips unparseable candidates", func(t *testing.T) {
		res, err := e.Rank(context.Background(), []string{broken, other, good, good}, d)
		require.NoError(t, err)
		require.Len(t, res.Ranked, 2)
		assert.Equal(t, good, res.Ranked[0].SourceFile)
		require.Len(t, res.Skipped, 1)
		assert.Equal(t, broken, res.Skipped[0].File)
		var extractionErr *extractor.ExtractionError
		assert.True(t, errors.As(res.Skipped[0].Err, &extractionErr))
	})

	t.Run("All candidates fail", func(t *testing.T) {
		m, err := e.BestMatch(context.Background(), []string{broken}, d)
		require.NoError(t, err)
		assert.False(t, m.Confident)
	})

	t.Run("No candidates", func(t *testing.T) {
		_, err := e.BestMatch(context.Background(), nil, d)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoCandidates)
		var noCandidates *NoCandidatesError
		require.ErrorAs(t, err, &noCandidates)
		assert.Equal(t, "p.Foo", noCandidates.BinaryClassName)
	})
}
