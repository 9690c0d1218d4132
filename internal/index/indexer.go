package index

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"fileranker/internal/ir"
	"fileranker/internal/logging"
	"fileranker/internal/storage"

	"golang.org/x/sync/errgroup"
)

// SourceExtractor turns one source file into declaration facts.
type SourceExtractor interface {
	ExtractSource(ctx context.Context, path string, src []byte) ([]ir.DeclarationFact, error)
}

// Failure is a candidate file that could not be indexed.
type Failure struct {
	File  string
	Order int
	Err   error
}

// Options tune an Indexer.
type Options struct {
	// Workers bounds parallel extraction; <= 0 uses GOMAXPROCS.
	Workers int
	Cache   storage.FactCache
	Logger  *slog.Logger
}

// Indexer extracts candidate files in parallel, consulting the fact cache first.
type Indexer struct {
	ext     SourceExtractor
	cache   storage.FactCache
	workers int
	logger  *slog.Logger
}

// NewIndexer creates a new indexer.
func NewIndexer(ext SourceExtractor, opts Options) *Indexer {
	cache := opts.Cache
	if cache == nil {
		cache = storage.NopCache{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Indexer{ext: ext, cache: cache, workers: workers, logger: logger}
}

type slot struct {
	facts []ir.DeclarationFact
	err   error
}

// Index returns the facts of every file that could be extracted, in input
// order, plus the files that failed. Only context cancellation is an error.
func (i *Indexer) Index(ctx context.Context, files []string) ([]ir.FileFacts, []Failure, error) {
	if len(files) == 0 {
		return nil, nil, nil
	}

	// Each goroutine owns its slot; no locking needed.
	results := make([]slot, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(i.workers, len(files)))

	for idx, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			facts, err := i.indexFile(gctx, path)
			results[idx] = slot{facts: facts, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var out []ir.FileFacts
	var failures []Failure
	for idx, r := range results {
		if r.err != nil {
			i.logger.Warn("skipping candidate", "file", files[idx], "error", r.err)
			failures = append(failures, Failure{File: files[idx], Order: idx, Err: r.err})
			continue
		}
		out = append(out, ir.FileFacts{File: files[idx], Order: idx, Facts: r.facts})
	}
	return out, failures, nil
}

func (i *Indexer) indexFile(ctx context.Context, path string) ([]ir.DeclarationFact, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	hash := ContentHash(src)

	if facts, ok, err := i.cache.Get(ctx, path, hash); err != nil {
		i.logger.Debug("fact cache read failed", "file", path, "error", err)
	} else if ok {
		i.logger.Debug("fact cache hit", "file", path)
		return facts, nil
	}

	facts, err := i.ext.ExtractSource(ctx, path, src)
	if err != nil {
		return nil, err
	}
	if err := i.cache.Put(ctx, path, hash, facts); err != nil {
		i.logger.Debug("fact cache write failed", "file", path, "error", err)
	}
	return facts, nil
}

// ContentHash is the cache key component derived from file content.
func ContentHash(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}
