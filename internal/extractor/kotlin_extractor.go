package extractor

import (
	"strconv"
	"strings"

	"fileranker/internal/ir"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/kotlin"
)

// KotlinExtractor implements LanguageExtractor for Kotlin.
type KotlinExtractor struct{}

func (k *KotlinExtractor) GetLanguage() *sitter.Language {
	return kotlin.GetLanguage()
}

func (k *KotlinExtractor) GetHeaderQueries() map[string]string {
	return map[string]string{
		"package":         `(package_header (identifier) @package)`,
		"file_annotation": `(file_annotation) @annotation`,
	}
}

// ExtractFacts lowers the file's declarations into a flat fact list.
// Nested units (lambdas, delegate accessors, nested classes) follow their parent
// and point back to it through ParentID.
func (k *KotlinExtractor) ExtractFacts(unit *SourceUnit) []ir.DeclarationFact {
	w := &kotlinWalker{unit: unit, facade: -1}
	w.walkFile()
	return w.facts
}

type kotlinWalker struct {
	unit   *SourceUnit
	facts  []ir.DeclarationFact
	facade int
	clinit ir.LineSpan
}

// classScope describes where a class declaration is nested.
type classScope struct {
	outerBinary string
	parentID    string
	outerIdx    int
}

// memberScope describes the fact that receives a member's binary methods.
type memberScope struct {
	factIdx     int
	binary      string
	static      bool
	inInterface bool
	ownerOpen   bool
	// jvmStaticIdx is the fact that also receives @JvmStatic copies, -1 when none.
	jvmStaticIdx int
}

// lambdaOwner numbers the lambdas and local functions created inside one callable.
type lambdaOwner struct {
	factIdx     int
	parentID    string
	classPrefix string
	indyPrefix  string
	classSeq    int
	indySeq     int
}

func (w *kotlinWalker) newLambdaOwner(factIdx int, classPrefix, indyPrefix string) *lambdaOwner {
	return &lambdaOwner{factIdx: factIdx, parentID: w.facts[factIdx].ID, classPrefix: classPrefix, indyPrefix: indyPrefix}
}

func (w *kotlinWalker) walkFile() {
	root := w.unit.Root
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		switch n.Type() {
		case "class_declaration", "object_declaration":
			w.walkClass(n, classScope{outerIdx: -1})
		case "function_declaration":
			idx := w.ensureFacade(n)
			w.walkFunction(n, w.facadeScope(idx))
		case "property_declaration":
			idx := w.ensureFacade(n)
			init := w.walkProperty(n, w.facadeScope(idx))
			w.clinit = w.clinit.Union(init)
		}
	}

	if w.facade >= 0 {
		w.addStaticInitializer(w.facade, w.clinit)
	}
}

func (w *kotlinWalker) facadeScope(idx int) memberScope {
	return memberScope{
		factIdx:      idx,
		binary:       w.facts[idx].QualifiedBinaryName,
		static:       true,
		jvmStaticIdx: -1,
	}
}

// ensureFacade returns the file facade fact, creating it on the first top-level member.
func (w *kotlinWalker) ensureFacade(member *sitter.Node) int {
	span := w.span(member)
	if w.facade >= 0 {
		w.facts[w.facade].BodySpan = w.facts[w.facade].BodySpan.Union(span)
		return w.facade
	}

	binary := FacadeClassName(w.unit.Package, w.unit.Path, w.unit.JvmName)
	name := binary
	if i := strings.LastIndex(binary, "."); i >= 0 {
		name = binary[i+1:]
	}
	w.facade = w.addFact(ir.DeclarationFact{
		QualifiedBinaryName: binary,
		Name:                name,
		Kind:                ir.KindFileFacade,
		BodySpan:            span,
		Flags:               ir.FlagFinal,
	})
	return w.facade
}

func (w *kotlinWalker) addFact(f ir.DeclarationFact) int {
	f.SourceFile = w.unit.Path
	f.ID = BuildStableFactID(w.unit.Path, f.Kind, f.QualifiedBinaryName, f.Name)
	w.facts = append(w.facts, f)
	return len(w.facts) - 1
}

func (w *kotlinWalker) walkClass(n *sitter.Node, scope classScope) {
	mods := w.modifiersOf(n)

	kind := ir.KindClass
	name := ""
	companion := false
	switch n.Type() {
	case "object_declaration":
		kind = ir.KindObject
	case "companion_object":
		kind = ir.KindObject
		name = "Companion"
		companion = true
	}
	if id := childOfType(n, "type_identifier", "simple_identifier"); id != nil {
		name = w.text(id)
	}
	if name == "" {
		return
	}

	isInterface := childOfType(n, "interface") != nil
	binary := qualify(w.unit.Package, scope.outerBinary, name)
	flags := classFlags(mods, isInterface)
	idx := w.addFact(ir.DeclarationFact{
		ParentID:            scope.parentID,
		QualifiedBinaryName: binary,
		Name:                name,
		Kind:                kind,
		BodySpan:            w.span(n),
		Flags:               flags,
	})
	id := w.facts[idx].ID
	header := ir.Lines(lineOf(n.StartPoint()), lineOf(n.StartPoint()))

	// Extra leading constructor parameters the compiler adds.
	implicitParams := 0
	if mods.has("enum") {
		implicitParams += 2
	}
	if mods.has("inner") {
		implicitParams++
	}

	initOwner := w.newLambdaOwner(idx, binary, initLambdaPrefix)

	var primary *ir.ConstructorSpan
	var primaryFlags ir.Flags
	primaryDefaults := false
	var dataComponents []string
	if kind == ir.KindClass && !isInterface {
		primary = &ir.ConstructorSpan{Primary: true, Params: header, Arity: implicitParams}
		if pc := childOfType(n, "primary_constructor"); pc != nil {
			primary.Params = w.span(pc)
			primaryFlags = constructorFlags(w.modifiersOf(pc))
			for _, p := range childrenOfType(pc, "class_parameter") {
				primary.Arity++
				if childOfType(p, "=") != nil {
					primaryDefaults = true
				}
				if prop := w.classParameter(idx, p, flags.Has(ir.FlagOpen)); prop != "" {
					dataComponents = append(dataComponents, prop)
				}
				w.walkLambdas(p, initOwner)
			}
		}
	}

	jvmStaticIdx := -1
	if companion {
		jvmStaticIdx = scope.outerIdx
	} else if kind == ir.KindObject {
		jvmStaticIdx = idx
	}
	members := memberScope{
		factIdx:      idx,
		binary:       binary,
		inInterface:  isInterface,
		ownerOpen:    flags.Has(ir.FlagOpen),
		jvmStaticIdx: jvmStaticIdx,
	}

	var initializer, clinit ir.LineSpan
	var secondary []ir.ConstructorSpan
	var secondaryFlags []ir.Flags
	if body := childOfType(n, "class_body", "enum_class_body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			m := body.NamedChild(i)
			switch m.Type() {
			case "function_declaration":
				w.walkFunction(m, members)
			case "property_declaration":
				init := w.walkProperty(m, members)
				if kind == ir.KindObject {
					clinit = clinit.Union(init)
				} else {
					initializer = initializer.Union(init)
				}
			case "anonymous_initializer":
				s := w.span(m)
				w.facts[idx].InitBlockLineSpans = append(w.facts[idx].InitBlockLineSpans, s)
				initializer = initializer.Union(s)
				w.walkLambdas(m, initOwner)
			case "secondary_constructor":
				ctor := w.secondaryConstructor(m, implicitParams)
				secondary = append(secondary, ctor)
				secondaryFlags = append(secondaryFlags, constructorFlags(w.modifiersOf(m)))
				w.walkLambdas(m, initOwner)
			case "class_declaration", "object_declaration", "companion_object":
				w.walkClass(m, classScope{outerBinary: binary, parentID: id, outerIdx: idx})
			}
		}
	}

	fact := &w.facts[idx]
	switch {
	case kind == ir.KindObject:
		ctor := ir.ConstructorSpan{Primary: true, Params: header, Body: initializer}
		fact.Constructors = append(fact.Constructors, ctor)
		fact.MethodSignatures = append(fact.MethodSignatures,
			ir.MethodSignature{Name: constructorName, Arity: 0, Span: header.Union(initializer), Flags: ir.FlagPrivate})
		if companion && scope.outerIdx >= 0 {
			// Companion state is initialized by the outer class.
			w.addStaticInitializer(scope.outerIdx, clinit)
		} else {
			w.addStaticInitializer(idx, header.Union(clinit))
		}
	case primary != nil && (len(secondary) == 0 || childOfType(n, "primary_constructor") != nil):
		primary.Body = initializer
		fact.Constructors = append(fact.Constructors, *primary)
		fact.MethodSignatures = append(fact.MethodSignatures, ir.MethodSignature{
			Name:  constructorName,
			Arity: primary.Arity,
			Span:  primary.Params.Union(primary.Body),
			Flags: primaryFlags,
		})
		if primaryDefaults {
			fact.MethodSignatures = append(fact.MethodSignatures, ir.MethodSignature{
				Name:  constructorName,
				Arity: primary.Arity + 2,
				Span:  primary.Params,
				Flags: primaryFlags | ir.FlagSynthetic,
			})
		}
	}
	for i, ctor := range secondary {
		fact.Constructors = append(fact.Constructors, ctor)
		fact.MethodSignatures = append(fact.MethodSignatures, ir.MethodSignature{
			Name:  constructorName,
			Arity: ctor.Arity,
			Span:  ctor.Params.Union(ctor.Body),
			Flags: secondaryFlags[i],
		})
	}

	if mods.has("data") && primary != nil {
		w.addDataMembers(idx, primary, dataComponents)
	}
}

// addStaticInitializer merges span into the fact's <clinit>, creating it on first use.
func (w *kotlinWalker) addStaticInitializer(idx int, span ir.LineSpan) {
	if span.IsZero() {
		return
	}
	fact := &w.facts[idx]
	for i := range fact.MethodSignatures {
		if sig := &fact.MethodSignatures[i]; sig.Name == staticInitializerName {
			sig.Span = sig.Span.Union(span)
			return
		}
	}
	fact.MethodSignatures = append(fact.MethodSignatures,
		ir.MethodSignature{Name: staticInitializerName, Arity: 0, Span: span, Flags: ir.FlagStatic})
}

// addDataMembers adds the methods a data class gets generated.
func (w *kotlinWalker) addDataMembers(idx int, primary *ir.ConstructorSpan, components []string) {
	span := primary.Params
	fact := &w.facts[idx]
	for i := range components {
		fact.MethodSignatures = append(fact.MethodSignatures, ir.MethodSignature{
			Name: "component" + strconv.Itoa(i+1), Arity: 0, Span: span, Flags: ir.FlagFinal,
		})
	}
	fact.MethodSignatures = append(fact.MethodSignatures,
		ir.MethodSignature{Name: "copy", Arity: primary.Arity, Span: span, Flags: ir.FlagFinal},
		ir.MethodSignature{Name: "copy" + defaultSuffix, Arity: primary.Arity + 3, Span: span, Flags: ir.FlagStatic | ir.FlagSynthetic},
		ir.MethodSignature{Name: "toString", Arity: 0, Span: span},
		ir.MethodSignature{Name: "hashCode", Arity: 0, Span: span},
		ir.MethodSignature{Name: "equals", Arity: 1, Span: span},
	)
}

// classParameter registers accessors for val/var constructor parameters and
// returns the property name, or "" for plain parameters.
func (w *kotlinWalker) classParameter(idx int, p *sitter.Node, ownerOpen bool) string {
	if !hasBinding(p) {
		return ""
	}
	nameNode := childOfType(p, "simple_identifier")
	if nameNode == nil {
		return ""
	}
	name := w.text(nameNode)
	mods := w.modifiersOf(p)
	if mods.has("private") || mods.annotated("JvmField") {
		return name
	}

	flags := memberFlags(mods, false, ownerOpen, false)
	span := w.span(p)
	fact := &w.facts[idx]
	fact.MethodSignatures = append(fact.MethodSignatures, ir.MethodSignature{
		Name: getterName(name), Arity: 0, Span: span, Flags: flags,
	})
	if isVar(w, p) {
		fact.MethodSignatures = append(fact.MethodSignatures, ir.MethodSignature{
			Name: setterName(name), Arity: 1, Span: span, Flags: flags,
		})
	}
	return name
}

func (w *kotlinWalker) secondaryConstructor(m *sitter.Node, implicitParams int) ir.ConstructorSpan {
	params := childOfType(m, "function_value_parameters")
	arity, _, _ := w.parameters(params)

	ctor := ir.ConstructorSpan{Arity: arity + implicitParams}
	if params != nil {
		ctor.Params = w.span(params)
	} else {
		ctor.Params = ir.Lines(lineOf(m.StartPoint()), lineOf(m.StartPoint()))
	}
	ctor.Body = w.blockSpan(m)
	return ctor
}

// blockSpan returns the span of a braces block that is a direct part of n.
func (w *kotlinWalker) blockSpan(n *sitter.Node) ir.LineSpan {
	if b := childOfType(n, "block", "function_body"); b != nil {
		return w.span(b)
	}
	var open, closing *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "{":
			if open == nil {
				open = c
			}
		case "}":
			closing = c
		}
	}
	if open == nil || closing == nil {
		return ir.LineSpan{}
	}
	return ir.Lines(lineOf(open.StartPoint()), lineOf(closing.StartPoint()))
}

func (w *kotlinWalker) walkFunction(fn *sitter.Node, scope memberScope) {
	nameNode := childOfType(fn, "simple_identifier")
	if nameNode == nil {
		return
	}
	name := w.text(nameNode)
	mods := w.modifiersOf(fn)

	arity, hasDefault, vararg := w.parameters(childOfType(fn, "function_value_parameters"))
	if hasReceiverBefore(fn, "simple_identifier") {
		arity++
	}

	hasBody := childOfType(fn, "function_body") != nil
	flags := memberFlags(mods, scope.inInterface, scope.ownerOpen, scope.static)
	if scope.inInterface && !hasBody {
		flags |= ir.FlagAbstract
	}
	if mods.has("suspend") {
		arity++
		flags |= ir.FlagSuspend
	}
	if mods.has("inline") {
		flags |= ir.FlagInline
	}
	if vararg {
		flags |= ir.FlagVarargs
	}
	if mods.annotated("Synchronized") {
		flags |= ir.FlagSynchronized
	}

	span := w.span(fn)
	sigs := []ir.MethodSignature{{Name: name, Arity: arity, Span: span, Flags: flags}}
	if hasDefault {
		extra := 2
		if !scope.static {
			extra++
		}
		sigs = append(sigs, ir.MethodSignature{
			Name:  name + defaultSuffix,
			Arity: arity + extra,
			Span:  span,
			Flags: ir.FlagStatic | ir.FlagSynthetic,
		})
	}
	w.facts[scope.factIdx].MethodSignatures = append(w.facts[scope.factIdx].MethodSignatures, sigs...)

	if mods.annotated("JvmStatic") && scope.jvmStaticIdx >= 0 {
		static := ir.MethodSignature{Name: name, Arity: arity, Span: span, Flags: flags | ir.FlagStatic}
		if scope.jvmStaticIdx == scope.factIdx {
			w.facts[scope.factIdx].MethodSignatures[len(w.facts[scope.factIdx].MethodSignatures)-len(sigs)] = static
		} else {
			w.facts[scope.jvmStaticIdx].MethodSignatures = append(w.facts[scope.jvmStaticIdx].MethodSignatures, static)
		}
	}

	owner := w.newLambdaOwner(scope.factIdx, scope.binary+"$"+name, name)
	w.walkLambdas(fn, owner)
}

// walkProperty registers accessors and delegate facts for a property and
// returns the span of code it contributes to the enclosing initializer.
func (w *kotlinWalker) walkProperty(p *sitter.Node, scope memberScope) ir.LineSpan {
	vd := childOfType(p, "variable_declaration")
	if vd == nil {
		return ir.LineSpan{}
	}
	nameNode := childOfType(vd, "simple_identifier")
	if nameNode == nil {
		return ir.LineSpan{}
	}
	name := w.text(nameNode)
	mods := w.modifiersOf(p)
	span := w.span(p)

	arity := 0
	if hasReceiverBefore(p, "variable_declaration") {
		arity++
	}
	flags := memberFlags(mods, scope.inInterface, scope.ownerOpen, scope.static)
	delegate := childOfType(p, "property_delegate")
	hasAccessorBody := childOfType(p, "getter") != nil || childOfType(p, "setter") != nil

	var accessors []ir.MethodSignature
	skip := mods.has("const") || mods.annotated("JvmField") ||
		(mods.has("private") && !hasAccessorBody && delegate == nil)
	if !skip {
		accessors = append(accessors, ir.MethodSignature{Name: getterName(name), Arity: arity, Span: span, Flags: flags})
		if isVar(w, p) {
			accessors = append(accessors, ir.MethodSignature{Name: setterName(name), Arity: arity + 1, Span: span, Flags: flags})
		}
	}

	if delegate != nil {
		delegateSpan := w.span(delegate)
		accessors = append(accessors, ir.MethodSignature{
			Name:  delegateAccessorName(name),
			Arity: -1,
			Span:  delegateSpan,
			Flags: ir.FlagStatic | ir.FlagSynthetic,
		})
		accIdx := w.addFact(ir.DeclarationFact{
			ParentID:            w.facts[scope.factIdx].ID,
			QualifiedBinaryName: scope.binary,
			Name:                name,
			Kind:                ir.KindPropertyDelegateAccessor,
			MethodSignatures:    accessors,
			BodySpan:            span,
			Flags:               flags | ir.FlagSynthetic,
		})
		owner := w.newLambdaOwner(accIdx, scope.binary+"$"+name, delegateLambdaPrefix(name))
		w.walkLambdas(delegate, owner)
		return ir.Lines(span.Start, delegateSpan.End-1)
	}

	w.facts[scope.factIdx].MethodSignatures = append(w.facts[scope.factIdx].MethodSignatures, accessors...)

	owner := w.newLambdaOwner(scope.factIdx, scope.binary+"$"+name, name)
	for _, acc := range []string{"getter", "setter"} {
		if a := childOfType(p, acc); a != nil {
			w.walkLambdas(a, owner)
		}
	}

	if expr := initializerOf(p); expr != nil {
		w.walkLambdas(expr, owner)
		return ir.Lines(span.Start, w.span(expr).End-1)
	}
	return ir.LineSpan{}
}

// walkLambdas emits a Lambda fact for every function literal under n and a
// host method for every local function. Local classes and object literals get
// their own binary class and are not descended.
func (w *kotlinWalker) walkLambdas(n *sitter.Node, owner *lambdaOwner) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "lambda_literal", "anonymous_function":
			w.addLambda(c, owner)
		case "function_declaration":
			w.addLocalFunction(c, owner)
		case "object_literal":
			owner.classSeq++
		case "class_declaration", "object_declaration":
			continue
		default:
			w.walkLambdas(c, owner)
		}
	}
}

func (w *kotlinWalker) addLambda(c *sitter.Node, owner *lambdaOwner) {
	owner.classSeq++
	binary := lambdaClassName(owner.classPrefix, owner.classSeq)
	indy := lambdaMethodName(owner.indyPrefix, owner.indySeq)
	owner.indySeq++

	span := w.span(c)
	idx := w.addFact(ir.DeclarationFact{
		ParentID:            owner.parentID,
		QualifiedBinaryName: binary,
		Name:                owner.indyPrefix,
		Kind:                ir.KindLambda,
		BodySpan:            span,
		Flags:               ir.FlagFinal | ir.FlagSynthetic,
		MethodSignatures: []ir.MethodSignature{
			{Name: "invoke", Arity: w.lambdaArity(c), Span: span, Flags: ir.FlagFinal},
			{Name: indy, Arity: -1, Span: span, Flags: ir.FlagPrivate | ir.FlagStatic | ir.FlagFinal | ir.FlagSynthetic},
		},
	})
	w.walkLambdas(c, w.newLambdaOwner(idx, binary, indy))
}

// addLocalFunction records a local function as the static method
// callable$name of the owner's class. Captured variables become leading
// parameters, so the arity is left unknown.
func (w *kotlinWalker) addLocalFunction(fn *sitter.Node, owner *lambdaOwner) {
	nameNode := childOfType(fn, "simple_identifier")
	if nameNode == nil {
		return
	}
	name := w.text(nameNode)
	method := localFunctionName(owner.indyPrefix, name)
	fact := &w.facts[owner.factIdx]
	fact.MethodSignatures = append(fact.MethodSignatures, ir.MethodSignature{
		Name:  method,
		Arity: -1,
		Span:  w.span(fn),
		Flags: ir.FlagPrivate | ir.FlagStatic | ir.FlagFinal,
	})
	w.walkLambdas(fn, w.newLambdaOwner(owner.factIdx, owner.classPrefix+"$"+name, method))
}

// lambdaArity counts declared lambda parameters; -1 when the literal relies on
// an implicit parameter list.
func (w *kotlinWalker) lambdaArity(c *sitter.Node) int {
	if c.Type() == "anonymous_function" {
		arity, _, _ := w.parameters(childOfType(c, "function_value_parameters"))
		return arity
	}
	if childOfType(c, "->") == nil {
		return -1
	}
	params := childOfType(c, "lambda_parameters")
	if params == nil {
		return 0
	}
	arity := 0
	for i := 0; i < int(params.NamedChildCount()); i++ {
		switch params.NamedChild(i).Type() {
		case "variable_declaration", "multi_variable_declaration":
			arity++
		}
	}
	return arity
}

// parameters counts value parameters and reports default values and varargs.
func (w *kotlinWalker) parameters(params *sitter.Node) (arity int, hasDefault bool, vararg bool) {
	if params == nil {
		return 0, false, false
	}
	for i := 0; i < int(params.ChildCount()); i++ {
		c := params.Child(i)
		switch c.Type() {
		case "parameter", "parameter_with_optional_type":
			arity++
		case "=":
			hasDefault = true
		case "parameter_modifiers":
			if strings.Contains(w.text(c), "vararg") {
				vararg = true
			}
		}
	}
	return arity, hasDefault, vararg
}

func (w *kotlinWalker) text(n *sitter.Node) string {
	return n.Content(w.unit.Source)
}

func (w *kotlinWalker) span(n *sitter.Node) ir.LineSpan {
	if n == nil {
		return ir.LineSpan{}
	}
	first := lineOf(n.StartPoint())
	end := n.EndPoint()
	last := lineOf(end)
	if end.Column == 0 && last > first {
		last--
	}
	return ir.Lines(first, last)
}

func lineOf(p sitter.Point) int {
	row, err := safecast.Conv[int](p.Row)
	if err != nil {
		return 0
	}
	return row + 1
}

// initializerOf returns the expression after '=' in a property declaration.
func initializerOf(p *sitter.Node) *sitter.Node {
	count := int(p.ChildCount())
	for i := 0; i < count; i++ {
		if p.Child(i).Type() == "=" && i+1 < count {
			return p.Child(i + 1)
		}
	}
	return nil
}

// hasReceiverBefore reports an extension receiver: a '.' ahead of the name node.
func hasReceiverBefore(n *sitter.Node, nameType string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		switch n.Child(i).Type() {
		case nameType:
			return false
		case ".":
			return true
		}
	}
	return false
}

func childOfType(n *sitter.Node, types ...string) *sitter.Node {
	if n == nil {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		for _, t := range types {
			if c.Type() == t {
				return c
			}
		}
	}
	return nil
}

func childrenOfType(n *sitter.Node, typ string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == typ {
			out = append(out, c)
		}
	}
	return out
}

func hasBinding(n *sitter.Node) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		switch n.Child(i).Type() {
		case "val", "var", "binding_pattern_kind":
			return true
		}
	}
	return false
}

func isVar(w *kotlinWalker, n *sitter.Node) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "var":
			return true
		case "binding_pattern_kind":
			if strings.TrimSpace(w.text(c)) == "var" {
				return true
			}
		}
	}
	return false
}
