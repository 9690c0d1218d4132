package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"fileranker/internal/config"
	"fileranker/internal/crawler"
	"fileranker/internal/extractor"
	"fileranker/internal/frame"
	"fileranker/internal/graph"
	"fileranker/internal/index"
	"fileranker/internal/ir"
	"fileranker/internal/logging"
	"fileranker/internal/oracle"
	"fileranker/internal/ranking"
	"fileranker/internal/scorer"
	"fileranker/internal/storage"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:           "fileranker",
		Short:         "Rank Kotlin source files against a JVM stop frame",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	configPath string
	logLevel   string

	matchColor   = color.New(color.FgGreen, color.Bold)
	noMatchColor = color.New(color.FgYellow, color.Bold)
	failColor    = color.New(color.FgRed, color.Bold)
	dimColor     = color.New(color.Faint)
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "fileranker.yaml", "Path to the configuration file (yaml or toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	rankCmd.Flags().StringVarP(&framePath, "frame", "f", "", "Frame JSON file, '-' for stdin")
	rankCmd.Flags().StringArrayVarP(&roots, "root", "r", nil, "Source root to search for candidates (repeatable)")
	rankCmd.Flags().IntVar(&radius, "radius", 0, "Keep only line table entries this close to the current line")
	rankCmd.Flags().BoolVar(&asJSON, "json", false, "Print the full ranking as JSON")
	_ = rankCmd.MarkFlagRequired("frame")
	extractCmd.Flags().StringVar(&extractClass, "class", "", "Only print facts of this binary class")

	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(replayCmd)
}

// app holds the components shared by every command.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	ext     *extractor.Extractor
	cache   storage.FactCache
	engine  *ranking.Engine
	crawler *crawler.Crawler
}

func setup() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	logger := logging.New(level, cfg.Log.Format, os.Stderr)

	cache, err := storage.Open(cfg.Cache.Driver, cfg.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fact cache: %w", err)
	}

	ext, err := extractor.NewExtractor("kotlin", extractor.Options{
		TolerateSyntaxErrors: cfg.Extraction.TolerateSyntaxErrors,
		Logger:               logger,
	})
	if err != nil {
		cache.Close()
		return nil, err
	}

	sc, err := scorer.New(cfg.ScorerOptions())
	if err != nil {
		cache.Close()
		return nil, fmt.Errorf("invalid scoring config: %w", err)
	}

	idx := index.NewIndexer(ext, index.Options{
		Workers: cfg.Extraction.Workers,
		Cache:   cache,
		Logger:  logger,
	})
	engine := ranking.NewEngine(ranking.Options{
		Scorer:        sc,
		Indexer:       idx,
		MinConfidence: cfg.Scoring.MinConfidence,
		Logger:        logger,
	})

	return &app{
		cfg:     cfg,
		logger:  logger,
		ext:     ext,
		cache:   cache,
		engine:  engine,
		crawler: crawler.NewCrawler(cfg.Crawler.Include, cfg.Crawler.Exclude, logger),
	}, nil
}

func (a *app) Close() error {
	return a.cache.Close()
}

var (
	framePath string
	roots     []string
	radius    int
	asJSON    bool
)

var rankCmd = &cobra.Command{
	Use:   "rank --frame frame.json [--root dir]... [files...]",
	Short: "Rank candidate files for a stop frame",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := readFrame(framePath, cmd.InOrStdin())
		if err != nil {
			return err
		}

		candidates := append([]string{}, args...)
		if len(roots) > 0 {
			found, err := a.crawler.FindCandidates(d.BinaryClassName, roots...)
			if err != nil {
				return err
			}
			candidates = append(candidates, found...)
		}

		res, err := a.engine.Rank(cmd.Context(), candidates, d)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), res)
		}
		printRanking(cmd.OutOrStdout(), d, a.engine.Best(res.Ranked), a.engine.MinConfidence(), res)
		return nil
	},
}

func readFrame(path string, stdin io.Reader) (ir.BinaryDescriptor, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return ir.BinaryDescriptor{}, err
		}
		defer f.Close()
		r = f
	}
	raw, err := frame.Decode(r)
	if err != nil {
		return ir.BinaryDescriptor{}, err
	}
	return frame.AdaptWithOptions(raw, frame.Options{Radius: radius})
}

func printRanking(w io.Writer, d ir.BinaryDescriptor, best ranking.Match, floor float64, res *ranking.Result) {
	if best.Confident {
		matchColor.Fprintf(w, "%s#%s -> %s", d.BinaryClassName, d.ObservedMethod.Name, best.File)
		fmt.Fprintf(w, " (%.3f, %s)\n", best.Score.Total, best.Score.Location.Span)
	} else {
		noMatchColor.Fprintf(w, "%s#%s -> no confident match (best %.3f, floor %.2f)\n",
			d.BinaryClassName, d.ObservedMethod.Name, best.Score.Total, floor)
	}

	for i, c := range res.Ranked {
		fmt.Fprintf(w, "%2d. %.3f  %s\n", i+1, c.Total, c.SourceFile)
		for _, s := range c.Signals {
			dimColor.Fprintf(w, "      %-8s %.2f x %.2f  %s\n", s.Name, s.Value, s.Weight, s.Detail)
		}
	}
	for _, s := range res.Skipped {
		failColor.Fprintf(w, "skipped %s: %v\n", s.File, s.Err)
	}
}

var extractClass string

var extractCmd = &cobra.Command{
	Use:   "extract file.kt...",
	Short: "Print the declaration facts of Kotlin files as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		out := make([]ir.FileFacts, 0, len(args))
		for i, path := range args {
			facts, err := a.ext.ExtractFromFile(path)
			if err != nil {
				return err
			}
			g := graph.FromFacts(facts)
			a.logger.Info("extracted", "file", path, "facts", len(facts),
				"kinds", g.KindCounts(), "unresolved", g.UnresolvedReasonCounts())
			if extractClass != "" {
				facts = selectClass(g, extractClass)
			}
			out = append(out, ir.FileFacts{File: path, Order: i, Facts: facts})
		}
		return writeJSON(cmd.OutOrStdout(), out)
	},
}

// selectClass keeps the facts compiled into the named class, together with
// their enclosing declarations and lowered members.
func selectClass(g *graph.Graph, binary string) []ir.DeclarationFact {
	seen := make(map[string]bool)
	var out []ir.DeclarationFact
	add := func(f *ir.DeclarationFact) {
		if f != nil && !seen[f.ID] {
			seen[f.ID] = true
			out = append(out, *f)
		}
	}
	for _, f := range g.ByBinaryName(binary) {
		add(g.Parent(f.ID))
		add(f)
		for _, m := range g.LoweredMembers(f.ID) {
			add(m)
		}
	}
	return out
}

var replayCmd = &cobra.Command{
	Use:   "replay fixture.kt|dir...",
	Short: "Replay ranking fixtures and report mismatches",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		paths, err := fixturePaths(args)
		if err != nil {
			return err
		}
		return replay(cmd.Context(), cmd.OutOrStdout(), a.engine, paths)
	},
}

func fixturePaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		found, err := oracle.AllFixtures(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

func replay(ctx context.Context, w io.Writer, engine *ranking.Engine, paths []string) error {
	failed := 0
	for _, p := range paths {
		fx, err := oracle.Load(p)
		if err != nil {
			return err
		}
		dir, err := os.MkdirTemp("", "fileranker-"+fx.Name+"-")
		if err != nil {
			return err
		}
		outcomes, err := oracle.Replay(ctx, engine, fx, dir)
		os.RemoveAll(dir)
		if err != nil {
			return err
		}

		for _, o := range outcomes {
			if o.Passed() {
				matchColor.Fprint(w, "PASS ")
			} else {
				failed++
				failColor.Fprint(w, "FAIL ")
			}
			fmt.Fprintf(w, "%s: %s\n", filepath.Base(p), o)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d frame(s) ranked unexpectedly", failed)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
