package oracle

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"fileranker/internal/frame"
	"fileranker/internal/ir"
)

const (
	fileDirective  = "// FILE:"
	frameDirective = "// FRAME:"
	expectNone     = "none"
)

// SourceFile is one candidate file embedded in a fixture.
type SourceFile struct {
	Path    string
	Content []byte
}

// Frame is a stop event together with the expected ordering.
// An empty Expect means no candidate should be reported with confidence.
type Frame struct {
	Raw    frame.RawFrame
	Expect []string
	Line   int // fixture line of the directive
}

// Fixture is a parsed ranking scenario.
type Fixture struct {
	Name   string
	Files  []SourceFile
	Frames []Frame
}

// Load parses a fixture file. FRAME directives may appear anywhere and are
// not part of any file's content; FILE directives start a new candidate file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}

	fx := &Fixture{Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	var current *bytes.Buffer
	flush := func() {
		if current != nil {
			fx.Files[len(fx.Files)-1].Content = current.Bytes()
		}
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, frameDirective):
			f, err := parseFrame(strings.TrimPrefix(trimmed, frameDirective))
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
			}
			f.Line = lineNo
			fx.Frames = append(fx.Frames, f)
		case strings.HasPrefix(trimmed, fileDirective):
			flush()
			name := strings.TrimSpace(strings.TrimPrefix(trimmed, fileDirective))
			if name == "" {
				return nil, fmt.Errorf("%s:%d: FILE directive without a path", path, lineNo)
			}
			fx.Files = append(fx.Files, SourceFile{Path: filepath.ToSlash(name)})
			current = &bytes.Buffer{}
		case current != nil:
			current.WriteString(line)
			current.WriteByte('\n')
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	if len(fx.Files) == 0 {
		return nil, fmt.Errorf("%s: no FILE directives", path)
	}
	if len(fx.Frames) == 0 {
		return nil, fmt.Errorf("%s: no FRAME directives", path)
	}
	return fx, nil
}

// parseFrame reads "class=… method=… [descriptor=…] [flags=a,b] lines=N[,M] expect=…".
func parseFrame(directive string) (Frame, error) {
	var f Frame
	expectSeen := false
	for _, field := range strings.Fields(directive) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return Frame{}, fmt.Errorf("malformed frame field %q", field)
		}
		switch key {
		case "class":
			f.Raw.Class = value
		case "method":
			f.Raw.Method.Name = value
		case "descriptor":
			f.Raw.Method.Signature = value
		case "flags":
			f.Raw.Method.Flags = strings.Split(value, ",")
		case "lines":
			for i, part := range strings.Split(value, ",") {
				n, err := strconv.Atoi(part)
				if err != nil {
					return Frame{}, fmt.Errorf("bad line %q: %w", part, err)
				}
				f.Raw.LineTable = append(f.Raw.LineTable, ir.LineEntry{Offset: i * 4, Line: n})
			}
		case "expect":
			expectSeen = true
			if value != expectNone {
				f.Expect = strings.Split(value, ",")
			}
		default:
			return Frame{}, fmt.Errorf("unknown frame field %q", key)
		}
	}
	if !expectSeen {
		return Frame{}, fmt.Errorf("frame without expect")
	}
	if len(f.Raw.LineTable) > 0 {
		f.Raw.CurrentLine = f.Raw.LineTable[0].Line
	}
	return f, nil
}

// AllFixtures lists every fixture file in dir, sorted by name.
func AllFixtures(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.kt"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
