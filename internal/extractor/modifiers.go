package extractor

import (
	"strings"

	"fileranker/internal/ir"

	sitter "github.com/smacker/go-tree-sitter"
)

// modifierSet holds the modifier keywords and annotations attached to a declaration.
type modifierSet struct {
	words       map[string]bool
	annotations []string
}

func (m modifierSet) has(word string) bool {
	return m.words[word]
}

// annotated matches an annotation by simple or qualified name.
func (m modifierSet) annotated(name string) bool {
	for _, a := range m.annotations {
		a = strings.TrimPrefix(strings.TrimSpace(a), "@")
		if i := strings.IndexAny(a, "( "); i >= 0 {
			a = a[:i]
		}
		if a == name || strings.HasSuffix(a, "."+name) {
			return true
		}
	}
	return false
}

func (w *kotlinWalker) modifiersOf(n *sitter.Node) modifierSet {
	ms := modifierSet{words: map[string]bool{}}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "modifiers", "parameter_modifiers":
			for j := 0; j < int(c.ChildCount()); j++ {
				m := c.Child(j)
				if m.Type() == "annotation" {
					ms.annotations = append(ms.annotations, w.text(m))
					continue
				}
				for _, f := range strings.Fields(w.text(m)) {
					ms.words[f] = true
				}
			}
		case "annotation":
			ms.annotations = append(ms.annotations, w.text(c))
		case "companion", "data", "enum", "sealed", "inner", "inline", "value", "suspend":
			ms.words[c.Type()] = true
		}
	}
	return ms
}

func classFlags(mods modifierSet, isInterface bool) ir.Flags {
	var f ir.Flags
	if isInterface {
		f |= ir.FlagInterface | ir.FlagAbstract
	}
	if mods.has("abstract") || mods.has("sealed") {
		f |= ir.FlagAbstract
	}
	if isInterface || mods.has("open") || mods.has("abstract") || mods.has("sealed") {
		f |= ir.FlagOpen
	} else {
		f |= ir.FlagFinal
	}
	if mods.has("private") {
		f |= ir.FlagPrivate
	}
	if mods.has("inline") || mods.has("value") {
		f |= ir.FlagInline
	}
	return f
}

// memberFlags derives the binary modifiers of a function or accessor.
// Members are final unless declared open, abstract or an override inside an open owner.
// constructorFlags carries a constructor's visibility; JVM constructors are
// never final or static.
func constructorFlags(mods modifierSet) ir.Flags {
	if mods.has("private") {
		return ir.FlagPrivate
	}
	return 0
}

func memberFlags(mods modifierSet, inInterface, ownerOpen, static bool) ir.Flags {
	var f ir.Flags
	if mods.has("private") {
		f |= ir.FlagPrivate
	}
	if mods.has("abstract") {
		f |= ir.FlagAbstract
	}
	if static {
		f |= ir.FlagStatic
	}
	open := inInterface || mods.has("open") || mods.has("abstract") ||
		(mods.has("override") && ownerOpen && !mods.has("final"))
	if open && !mods.has("private") {
		f |= ir.FlagOpen
	} else {
		f |= ir.FlagFinal
	}
	return f
}
