package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"fileranker/internal/ir"
	"fileranker/internal/logging"

	sitter "github.com/smacker/go-tree-sitter"
)

var (
	packageLineRe = regexp.MustCompile(`(?m)^\s*package\s+([\w.]+)`)
	jvmNameRe     = regexp.MustCompile(`JvmName\s*\(\s*"([^"]+)"\s*\)`)
	fileJvmNameRe = regexp.MustCompile(`@file\s*:\s*(?:kotlin\.jvm\.)?JvmName\s*\(\s*"([^"]+)"\s*\)`)
)

// Options tune extraction behaviour.
type Options struct {
	// TolerateSyntaxErrors extracts whatever the error-recovering parse tree
	// still contains instead of failing the file.
	TolerateSyntaxErrors bool
	Logger               *slog.Logger
}

// Extractor orchestrates the extraction process using language-specific extractors.
type Extractor struct {
	langExtractor LanguageExtractor
	langName      string
	opts          Options
	logger        *slog.Logger
}

// NewExtractor creates a new extractor for a given language.
func NewExtractor(lang string, opts ...Options) (*Extractor, error) {
	var langExt LanguageExtractor
	switch lang {
	case "kotlin", "kt":
		langExt = &KotlinExtractor{}
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}

	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	logger := o.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Extractor{langExtractor: langExt, langName: "kotlin", opts: o, logger: logger}, nil
}

// Language is the canonical name of the extractor's language.
func (e *Extractor) Language() string {
	return e.langName
}

// ExtractFromFile reads and extracts a single source file.
func (e *Extractor) ExtractFromFile(path string) ([]ir.DeclarationFact, error) {
	sourceCode, err := os.ReadFile(path)
	if err != nil {
		return nil, &ExtractionError{File: path, Err: fmt.Errorf("failed to read file: %w", err)}
	}
	return e.ExtractSource(context.Background(), path, sourceCode)
}

// ExtractSource parses sourceCode and returns its declaration facts in source order.
// A file without declarations yields an empty slice and no error.
func (e *Extractor) ExtractSource(ctx context.Context, path string, sourceCode []byte) ([]ir.DeclarationFact, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(e.langExtractor.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, sourceCode)
	if err != nil {
		return nil, &ExtractionError{File: path, Err: fmt.Errorf("failed to parse: %w", err)}
	}

	root := tree.RootNode()
	if root == nil {
		return nil, &ExtractionError{File: path, Err: ErrSyntax}
	}
	if root.HasError() {
		if !e.opts.TolerateSyntaxErrors {
			return nil, &ExtractionError{File: path, Err: ErrSyntax}
		}
		e.logger.Warn("extracting from tree with syntax errors", "file", path)
	}

	unit := &SourceUnit{
		Path:   path,
		Source: sourceCode,
		Root:   root,
	}
	unit.Package, unit.JvmName = e.detectHeader(root, sourceCode)

	facts := e.langExtractor.ExtractFacts(unit)
	if facts == nil {
		facts = []ir.DeclarationFact{}
	}
	e.logger.Debug("extracted facts", "file", path, "package", unit.Package, "facts", len(facts))
	return facts, nil
}

// detectHeader finds the package name and an explicit facade name.
// Queries are tried first; a textual scan covers grammars that name the nodes differently.
func (e *Extractor) detectHeader(root *sitter.Node, sourceCode []byte) (pkg string, jvmName string) {
	queries := e.langExtractor.GetHeaderQueries()

	if q, ok := queries["package"]; ok {
		for _, n := range e.runQuery(q, root) {
			pkg = n.Content(sourceCode)
			break
		}
	}
	if pkg == "" {
		if m := packageLineRe.FindSubmatch(sourceCode); m != nil {
			pkg = string(m[1])
		}
	}

	if q, ok := queries["file_annotation"]; ok {
		for _, n := range e.runQuery(q, root) {
			if m := jvmNameRe.FindStringSubmatch(n.Content(sourceCode)); m != nil {
				jvmName = m[1]
				break
			}
		}
	}
	if jvmName == "" {
		if m := fileJvmNameRe.FindSubmatch(sourceCode); m != nil {
			jvmName = string(m[1])
		}
	}
	return pkg, jvmName
}

func (e *Extractor) runQuery(pattern string, root *sitter.Node) []*sitter.Node {
	query, err := sitter.NewQuery([]byte(pattern), e.langExtractor.GetLanguage())
	if err != nil {
		e.logger.Debug("header query rejected", "query", pattern, "error", err)
		return nil
	}

	qc := sitter.NewQueryCursor()
	qc.Exec(query, root)

	var nodes []*sitter.Node
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			nodes = append(nodes, c.Node)
		}
	}
	return nodes
}
