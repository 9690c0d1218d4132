package ir

// Kind tags the source construct a fact was lowered from.
type Kind string

const (
	KindClass                    Kind = "class"
	KindObject                   Kind = "object"
	KindFileFacade               Kind = "file_facade"
	KindLambda                   Kind = "lambda"
	KindPropertyDelegateAccessor Kind = "property_delegate_accessor"
)

// MethodSignature is one binary method a declaration is expected to produce.
// Arity is the JVM parameter count; -1 means unknown and matches any arity.
type MethodSignature struct {
	Name  string   `json:"name"`
	Arity int      `json:"arity"`
	Span  LineSpan `json:"span"`
	Flags Flags    `json:"flags"`
}

// ConstructorSpan records the lines a constructor occupies.
// Params covers the whole parameter list, Body is set only when the
// constructor carries executable code.
type ConstructorSpan struct {
	Params  LineSpan `json:"params"`
	Body    LineSpan `json:"body"`
	Arity   int      `json:"arity"`
	Primary bool     `json:"primary,omitempty"`
}

// DeclarationFact is a single declaration candidate derived from a source file.
type DeclarationFact struct {
	ID                  string            `json:"id"`
	ParentID            string            `json:"parent_id,omitempty"`
	QualifiedBinaryName string            `json:"qualified_binary_name"`
	Name                string            `json:"name"`
	Kind                Kind              `json:"kind"`
	MethodSignatures    []MethodSignature `json:"method_signatures,omitempty"`
	BodySpan            LineSpan          `json:"body_span"`
	Constructors        []ConstructorSpan `json:"constructors,omitempty"`
	InitBlockLineSpans  []LineSpan        `json:"init_block_line_spans,omitempty"`
	Flags               Flags             `json:"flags"`
	SourceFile          string            `json:"source_file"`
}

// FileFacts is the extracted fact sequence of one candidate file.
// Order is the position the caller supplied the file in.
type FileFacts struct {
	File  string            `json:"file"`
	Order int               `json:"order"`
	Facts []DeclarationFact `json:"facts"`
}

// LineEntry is one row of a method's line-number table.
type LineEntry struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
}

// ObservedMethod is the method the stopped frame is executing.
type ObservedMethod struct {
	Name       string `json:"name"`
	Descriptor string `json:"descriptor,omitempty"`
	Arity      int    `json:"arity"`
}

// BinaryDescriptor is the normalized view of a debugger stop event.
type BinaryDescriptor struct {
	BinaryClassName       string         `json:"binary_class_name"`
	ObservedMethod        ObservedMethod `json:"observed_method"`
	LineNumberTableWindow []LineEntry    `json:"line_number_table_window"`
	DeclaredFlags         Flags          `json:"declared_flags"`
	CurrentLine           int            `json:"current_line"`
}

// Lines returns the source lines of the window in table order.
func (d BinaryDescriptor) Lines() []int {
	lines := make([]int, 0, len(d.LineNumberTableWindow))
	for _, e := range d.LineNumberTableWindow {
		lines = append(lines, e.Line)
	}
	return lines
}

// SignalScore is one named contribution to a candidate's total.
type SignalScore struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Value  float64 `json:"value"`
	Detail string  `json:"detail,omitempty"`
}

// Weighted is the signal's contribution to the total.
func (s SignalScore) Weighted() float64 {
	return s.Weight * s.Value
}

// Location is the declaration inside a file that produced a score.
type Location struct {
	FactID              string   `json:"fact_id"`
	Kind                Kind     `json:"kind"`
	QualifiedBinaryName string   `json:"qualified_binary_name"`
	Member              string   `json:"member,omitempty"`
	Span                LineSpan `json:"span"`
}

// CandidateScore is the transient result of scoring one candidate.
type CandidateScore struct {
	SourceFile string        `json:"source_file"`
	Order      int           `json:"order"`
	Total      float64       `json:"total"`
	Signals    []SignalScore `json:"signals"`
	Location   Location      `json:"location"`
}

// Signal returns the named signal and whether it was present.
func (c CandidateScore) Signal(name string) (SignalScore, bool) {
	for _, s := range c.Signals {
		if s.Name == name {
			return s, true
		}
	}
	return SignalScore{}, false
}
