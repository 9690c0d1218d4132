package frame

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"fileranker/internal/ir"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed frame.schema.json
var frameSchema []byte

const frameSchemaURL = "mem://fileranker/frame.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// JVM access flags as they appear on a method_info structure.
const (
	accPrivate      = 0x0002
	accStatic       = 0x0008
	accFinal        = 0x0010
	accSynchronized = 0x0020
	accVarargs      = 0x0080
	accAbstract     = 0x0400
	accSynthetic    = 0x1000
)

var accessFlags = []struct {
	bit  int
	flag ir.Flags
}{
	{accPrivate, ir.FlagPrivate},
	{accStatic, ir.FlagStatic},
	{accFinal, ir.FlagFinal},
	{accSynchronized, ir.FlagSynchronized},
	{accVarargs, ir.FlagVarargs},
	{accAbstract, ir.FlagAbstract},
	{accSynthetic, ir.FlagSynthetic},
}

// RawMethod is the method part of a stop frame.
type RawMethod struct {
	Name      string   `json:"name"`
	Signature string   `json:"signature,omitempty"`
	Modifiers *int     `json:"modifiers,omitempty"`
	Flags     []string `json:"flags,omitempty"`
}

// RawFrame is the frame info reported by the VM bridge.
type RawFrame struct {
	Class       string         `json:"class"`
	Method      RawMethod      `json:"method"`
	LineTable   []ir.LineEntry `json:"lineTable"`
	CurrentLine int            `json:"currentLine,omitempty"`
}

// Options tune normalization.
type Options struct {
	// Radius keeps only line-table entries within Radius lines of the current
	// line. Zero keeps the whole table.
	Radius int
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(frameSchemaURL, bytes.NewReader(frameSchema)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile(frameSchemaURL)
	})
	return schema, schemaErr
}

// Decode reads one JSON frame, validating it against the frame schema first.
func Decode(r io.Reader) (RawFrame, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return RawFrame{}, fmt.Errorf("failed to read frame: %w", err)
	}

	s, err := compiledSchema()
	if err != nil {
		return RawFrame{}, fmt.Errorf("failed to compile frame schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return RawFrame{}, &AdapterError{Field: "frame", Reason: err.Error()}
	}
	if err := s.Validate(v); err != nil {
		return RawFrame{}, &AdapterError{Field: "frame", Reason: err.Error()}
	}

	var raw RawFrame
	if err := json.Unmarshal(data, &raw); err != nil {
		return RawFrame{}, &AdapterError{Field: "frame", Reason: err.Error()}
	}
	return raw, nil
}

// Adapt normalizes raw frame info into a descriptor.
func Adapt(raw RawFrame) (ir.BinaryDescriptor, error) {
	return AdaptWithOptions(raw, Options{})
}

// AdaptWithOptions is Adapt with an explicit line window.
func AdaptWithOptions(raw RawFrame, opts Options) (ir.BinaryDescriptor, error) {
	className := strings.TrimSpace(raw.Class)
	if className == "" {
		return ir.BinaryDescriptor{}, fieldError("class", "missing")
	}
	className = strings.ReplaceAll(className, "/", ".")

	name := strings.TrimSpace(raw.Method.Name)
	if name == "" {
		return ir.BinaryDescriptor{}, fieldError("method.name", "missing")
	}

	method := ir.ObservedMethod{Name: name, Descriptor: raw.Method.Signature, Arity: -1}
	if raw.Method.Signature != "" {
		arity, err := methodArity(raw.Method.Signature)
		if err != nil {
			return ir.BinaryDescriptor{}, err
		}
		method.Arity = arity
	}

	flags, err := declaredFlags(raw.Method)
	if err != nil {
		return ir.BinaryDescriptor{}, err
	}

	table, err := normalizeTable(raw.LineTable)
	if err != nil {
		return ir.BinaryDescriptor{}, err
	}

	current := raw.CurrentLine
	if current < 0 {
		return ir.BinaryDescriptor{}, fieldError("currentLine", "negative line %d", current)
	}
	if current == 0 {
		current = table[0].Line
	}
	if opts.Radius > 0 {
		table = window(table, current, opts.Radius)
	}

	return ir.BinaryDescriptor{
		BinaryClassName:       className,
		ObservedMethod:        method,
		LineNumberTableWindow: table,
		DeclaredFlags:         flags,
		CurrentLine:           current,
	}, nil
}

func declaredFlags(m RawMethod) (ir.Flags, error) {
	var flags ir.Flags
	if m.Modifiers != nil {
		for _, af := range accessFlags {
			if *m.Modifiers&af.bit != 0 {
				flags |= af.flag
			}
		}
	}
	named, err := ir.ParseFlags(m.Flags)
	if err != nil {
		return 0, fieldError("method.flags", "%v", err)
	}
	return flags | named, nil
}

// normalizeTable orders entries by bytecode offset and drops exact duplicates.
func normalizeTable(entries []ir.LineEntry) ([]ir.LineEntry, error) {
	if len(entries) == 0 {
		return nil, fieldError("lineTable", "missing or empty")
	}

	out := make([]ir.LineEntry, 0, len(entries))
	for i, e := range entries {
		if e.Line <= 0 {
			return nil, fieldError("lineTable", "entry %d has non-positive line %d", i, e.Line)
		}
		if e.Offset < 0 {
			return nil, fieldError("lineTable", "entry %d has negative offset %d", i, e.Offset)
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Offset == out[j].Offset {
			return out[i].Line < out[j].Line
		}
		return out[i].Offset < out[j].Offset
	})

	deduped := out[:1]
	for _, e := range out[1:] {
		if e != deduped[len(deduped)-1] {
			deduped = append(deduped, e)
		}
	}
	return deduped, nil
}

func window(entries []ir.LineEntry, current, radius int) []ir.LineEntry {
	var out []ir.LineEntry
	for _, e := range entries {
		d := e.Line - current
		if d < 0 {
			d = -d
		}
		if d <= radius {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return []ir.LineEntry{{Line: current}}
	}
	return out
}
