package ir

import "fmt"

// LineSpan is a half-open range of 1-based source lines: [Start, End).
// The zero value is the empty span.
type LineSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Lines builds the span covering first..last inclusive.
func Lines(first, last int) LineSpan {
	if last < first {
		last = first
	}
	return LineSpan{Start: first, End: last + 1}
}

func (s LineSpan) IsZero() bool {
	return s.End <= s.Start
}

// Len is the number of lines in the span.
func (s LineSpan) Len() int {
	if s.IsZero() {
		return 0
	}
	return s.End - s.Start
}

func (s LineSpan) Contains(line int) bool {
	return !s.IsZero() && line >= s.Start && line < s.End
}

// Distance is how many lines separate line from the span; 0 when inside.
// An empty span is infinitely far away and reports -1.
func (s LineSpan) Distance(line int) int {
	switch {
	case s.IsZero():
		return -1
	case line < s.Start:
		return s.Start - line
	case line >= s.End:
		return line - (s.End - 1)
	default:
		return 0
	}
}

// Union returns the smallest span covering both.
func (s LineSpan) Union(o LineSpan) LineSpan {
	if s.IsZero() {
		return o
	}
	if o.IsZero() {
		return s
	}
	out := s
	if o.Start < out.Start {
		out.Start = o.Start
	}
	if o.End > out.End {
		out.End = o.End
	}
	return out
}

func (s LineSpan) String() string {
	if s.IsZero() {
		return "[]"
	}
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}
