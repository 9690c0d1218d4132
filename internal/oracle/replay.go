package oracle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fileranker/internal/frame"
	"fileranker/internal/ranking"
)

// Outcome is the result of replaying one frame.
type Outcome struct {
	Frame     Frame
	Got       []string // ranked fixture paths, best first
	Confident bool
	Err       error
}

// Passed reports whether the ranking agrees with the expectation: the
// expected paths must form a prefix of the ranking, or, for "none", the head
// must not be confident.
func (o Outcome) Passed() bool {
	if o.Err != nil {
		return false
	}
	if len(o.Frame.Expect) == 0 {
		return !o.Confident
	}
	if !o.Confident || len(o.Got) < len(o.Frame.Expect) {
		return false
	}
	for i, want := range o.Frame.Expect {
		if o.Got[i] != want {
			return false
		}
	}
	return true
}

func (o Outcome) String() string {
	want := "none"
	if len(o.Frame.Expect) > 0 {
		want = strings.Join(o.Frame.Expect, ",")
	}
	if o.Err != nil {
		return fmt.Sprintf("%s#%s line %d: %v", o.Frame.Raw.Class, o.Frame.Raw.Method.Name, o.Frame.Line, o.Err)
	}
	return fmt.Sprintf("%s#%s line %d: want %s, got %s (confident=%t)",
		o.Frame.Raw.Class, o.Frame.Raw.Method.Name, o.Frame.Line, want, strings.Join(o.Got, ","), o.Confident)
}

// Materialize writes the fixture's files under dir and returns their paths
// in fixture order.
func Materialize(fx *Fixture, dir string) ([]string, error) {
	paths := make([]string, 0, len(fx.Files))
	for _, f := range fx.Files {
		p := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(p, f.Content, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// Replay materializes the fixture under dir and ranks every frame through engine.
// A frame that cannot be adapted yields an Outcome carrying the error.
func Replay(ctx context.Context, engine *ranking.Engine, fx *Fixture, dir string) ([]Outcome, error) {
	paths, err := Materialize(fx, dir)
	if err != nil {
		return nil, err
	}
	rel := make(map[string]string, len(paths))
	for i, p := range paths {
		rel[p] = fx.Files[i].Path
	}

	outcomes := make([]Outcome, 0, len(fx.Frames))
	for _, f := range fx.Frames {
		out := Outcome{Frame: f}

		d, err := frame.Adapt(f.Raw)
		if err != nil {
			out.Err = err
			outcomes = append(outcomes, out)
			continue
		}

		res, err := engine.Rank(ctx, paths, d)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fx.Name, err)
		}
		for _, s := range res.Skipped {
			out.Err = fmt.Errorf("candidate %s skipped: %w", rel[s.File], s.Err)
		}
		for _, c := range res.Ranked {
			out.Got = append(out.Got, rel[c.SourceFile])
		}
		out.Confident = engine.Best(res.Ranked).Confident
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}
