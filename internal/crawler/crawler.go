package crawler

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"fileranker/internal/extractor"
	"fileranker/internal/logging"

	"github.com/bmatcuk/doublestar/v4"
)

var packageRe = regexp.MustCompile(`(?m)^\s*package\s+([\w.]+)`)

// Crawler scans source roots for candidate files.
type Crawler struct {
	includes []string
	excludes []string
	ignored  []string
	logger   *slog.Logger
}

// NewCrawler creates a new crawler instance.
// Patterns are doublestar globs matched against root-relative, slash-separated paths.
func NewCrawler(includes, excludes []string, logger *slog.Logger) *Crawler {
	if len(includes) == 0 {
		includes = []string{"**/*.kt"}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Crawler{
		includes: includes,
		excludes: excludes,
		ignored:  []string{".git", ".gradle", ".idea", "build", "out", "node_modules"},
		logger:   logger,
	}
}

// Walk lists matching files under every root, sorted and without duplicates.
func (c *Crawler) Walk(roots ...string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)

			// Skip ignored directories
			if d.IsDir() {
				if path != root {
					for _, ign := range c.ignored {
						if d.Name() == ign {
							return filepath.SkipDir
						}
					}
					if c.matchAny(c.excludes, rel) || c.matchAny(c.excludes, rel+"/") {
						return filepath.SkipDir
					}
				}
				return nil
			}

			if !c.matchAny(c.includes, rel) || c.matchAny(c.excludes, rel) {
				return nil
			}
			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

func (c *Crawler) matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// FindCandidates keeps the files under roots that can plausibly declare
// binaryClassName: same package, and either a mention of the outermost class
// name or a facade of that name.
func (c *Crawler) FindCandidates(binaryClassName string, roots ...string) ([]string, error) {
	files, err := c.Walk(roots...)
	if err != nil {
		return nil, err
	}

	pkg, outer := splitBinaryName(binaryClassName)
	word := regexp.MustCompile(`\b` + regexp.QuoteMeta(outer) + `\b`)

	var out []string
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			// Log and continue instead of failing the whole scan
			c.logger.Warn("skipping unreadable candidate", "file", path, "error", err)
			continue
		}

		filePkg := ""
		if m := packageRe.FindSubmatch(src); m != nil {
			filePkg = string(m[1])
		}
		if filePkg != pkg {
			continue
		}
		if word.Match(src) || isFacade(path, filePkg, outer) {
			out = append(out, path)
		}
	}
	c.logger.Debug("candidate files", "class", binaryClassName, "scanned", len(files), "kept", len(out))
	return out, nil
}

// isFacade reports whether the file's default facade class is named outer.
// An explicit @file:JvmName is covered by the textual mention check.
func isFacade(path, pkg, outer string) bool {
	facade := extractor.FacadeClassName(pkg, path, "")
	if i := strings.LastIndex(facade, "."); i >= 0 {
		facade = facade[i+1:]
	}
	return facade == outer
}

// splitBinaryName returns the package and the outermost simple class name.
func splitBinaryName(binary string) (pkg, outer string) {
	outer = binary
	if i := strings.LastIndex(binary, "."); i >= 0 {
		pkg, outer = binary[:i], binary[i+1:]
	}
	if i := strings.Index(outer, "$"); i >= 0 {
		outer = outer[:i]
	}
	return pkg, outer
}
