package ranking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"fileranker/internal/index"
	"fileranker/internal/ir"
	"fileranker/internal/logging"
	"fileranker/internal/scorer"
)

// DefaultMinConfidence is the floor a best total must exceed to count as a match.
// It equals the combined default weight of the flags and kind signals.
const DefaultMinConfidence = 0.15

// Skipped is a candidate dropped because its facts could not be extracted.
type Skipped struct {
	File string
	Err  error
}

// Result is the full ordering of one ranking request.
type Result struct {
	Ranked  []ir.CandidateScore
	Skipped []Skipped
}

// Match is the head of a ranking. Confident is false for the designated
// no-match outcome, in which case File is empty.
type Match struct {
	File      string
	Score     ir.CandidateScore
	Confident bool
}

// Options configure an Engine.
type Options struct {
	Scorer        *scorer.Scorer
	Indexer       *index.Indexer
	// MinConfidence of zero selects DefaultMinConfidence.
	MinConfidence float64
	Logger        *slog.Logger
}

// Engine ranks candidate files against a binary descriptor.
type Engine struct {
	scorer        *scorer.Scorer
	indexer       *index.Indexer
	minConfidence float64
	logger        *slog.Logger
}

func NewEngine(opts Options) *Engine {
	s := opts.Scorer
	if s == nil {
		s = scorer.NewDefault()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	floor := opts.MinConfidence
	if floor == 0 {
		floor = DefaultMinConfidence
	}
	return &Engine{
		scorer:        s,
		indexer:       opts.Indexer,
		minConfidence: floor,
		logger:        logger,
	}
}

func (e *Engine) MinConfidence() float64 {
	return e.minConfidence
}

// Rank extracts every candidate and orders them best first.
// Files that fail extraction are reported in Skipped; duplicates keep their
// first position.
func (e *Engine) Rank(ctx context.Context, candidates []string, d ir.BinaryDescriptor) (*Result, error) {
	if len(candidates) == 0 {
		return nil, &NoCandidatesError{BinaryClassName: d.BinaryClassName}
	}
	if e.indexer == nil {
		return nil, errors.New("ranking files requires an indexer")
	}

	files := dedupe(candidates)
	facts, failures, err := e.indexer.Index(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("failed to index candidates: %w", err)
	}

	res := &Result{Ranked: e.RankFacts(facts, d)}
	for _, f := range failures {
		res.Skipped = append(res.Skipped, Skipped{File: f.File, Err: f.Err})
	}
	if len(res.Skipped) > 0 {
		e.logger.Warn("candidates skipped", "class", d.BinaryClassName, "skipped", len(res.Skipped), "ranked", len(res.Ranked))
	}
	return res, nil
}

// BestMatch returns the head of Rank, or a no-match when nothing clears the floor.
func (e *Engine) BestMatch(ctx context.Context, candidates []string, d ir.BinaryDescriptor) (Match, error) {
	res, err := e.Rank(ctx, candidates, d)
	if err != nil {
		return Match{}, err
	}
	m := e.Best(res.Ranked)
	e.logger.Debug("best match", "class", d.BinaryClassName, "method", d.ObservedMethod.Name,
		"file", m.File, "confident", m.Confident, "total", m.Score.Total)
	return m, nil
}

// RankFacts scores already extracted files and sorts them best first.
// It is pure: the same input always yields the same order.
func (e *Engine) RankFacts(files []ir.FileFacts, d ir.BinaryDescriptor) []ir.CandidateScore {
	ranked := make([]ir.CandidateScore, 0, len(files))
	for _, ff := range files {
		ranked = append(ranked, e.scorer.ScoreFile(ff, d))
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return scorer.Better(ranked[i], ranked[j])
	})
	return ranked
}

// Best picks the head of an ordering, applying the confidence floor.
func (e *Engine) Best(ranked []ir.CandidateScore) Match {
	if len(ranked) == 0 {
		return Match{}
	}
	head := ranked[0]
	if head.Total <= e.minConfidence+scorer.Epsilon {
		return Match{Score: head}
	}
	return Match{File: head.SourceFile, Score: head, Confident: true}
}

func dedupe(files []string) []string {
	seen := make(map[string]bool, len(files))
	out := make([]string, 0, len(files))
	for _, f := range files {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
