package extractor

import (
	"fileranker/internal/ir"

	sitter "github.com/smacker/go-tree-sitter"
)

// SourceUnit is a parsed file handed to a LanguageExtractor.
type SourceUnit struct {
	Path    string
	Source  []byte
	Root    *sitter.Node
	Package string
	// JvmName is the explicit facade class name from a @file:JvmName annotation, if any.
	JvmName string
}

// LanguageExtractor defines the interface that each language parser must implement.
type LanguageExtractor interface {
	GetLanguage() *sitter.Language
	// GetHeaderQueries returns tree-sitter queries keyed by the header item they capture
	// ("package", "file_annotation").
	GetHeaderQueries() map[string]string
	ExtractFacts(unit *SourceUnit) []ir.DeclarationFact
}
