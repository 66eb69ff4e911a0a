package validate

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/c360studio/tmplvet/registry"
	"github.com/c360studio/tmplvet/template"
)

// LoadFailure is a file that could not be parsed or registered.
// Failures are recorded as structural fails, never thrown: the
// validator always finishes and reports.
type LoadFailure struct {
	// DocID is the best identifier available for the file: the parsed
	// document ID for registration failures, the file stem otherwise.
	DocID string

	// Path is the file path relative to the scan root.
	Path string

	// Err is the parse or registration error.
	Err error
}

// LoadResult holds the outcome of scanning and parsing one directory.
type LoadResult struct {
	Registry *registry.Registry
	Failures []LoadFailure
}

// LoadOptions configures Load.
type LoadOptions struct {
	// Include and Exclude are doublestar glob patterns relative to
	// the scan root. Include defaults to "**/*.md".
	Include []string
	Exclude []string

	// Workers caps the parse worker pool. Defaults to NumCPU.
	Workers int

	// GlobalNamespace makes commands and components share one
	// identifier namespace.
	GlobalNamespace bool

	Logger *slog.Logger
}

// parsed pairs a file's discovery index with its parse outcome so the
// single-writer aggregator can restore discovery order.
type parsed struct {
	index int
	doc   *template.Document
	err   error
}

// Load discovers template files under root and parses them on a worker
// pool. Each file is independent input, so parsing is embarrassingly
// parallel; results flow through a channel into a single-writer
// aggregator that registers documents in discovery order, keeping the
// registry's insertion order, and therefore every report, deterministic.
func Load(ctx context.Context, root string, opts LoadOptions) (*LoadResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	files, err := template.Discover(root, opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered template files", slog.Int("count", len(files)))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan parsed, len(files))
	parser := template.NewParser()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for i, file := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(file.Path)))
			if err != nil {
				results <- parsed{index: i, err: &template.ParseError{Path: file.Path, Err: err}}
				return nil
			}

			doc, err := parser.Parse(file.Path, file.Category, content)
			results <- parsed{index: i, doc: doc, err: err}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	close(results)

	// Single writer: restore discovery order before registering.
	ordered := make([]parsed, len(files))
	for p := range results {
		ordered[p.index] = p
	}

	var regOpts []registry.Option
	if opts.GlobalNamespace {
		regOpts = append(regOpts, registry.WithGlobalNamespace())
	}
	reg := registry.New(regOpts...)

	var failures []LoadFailure
	for i, p := range ordered {
		if p.err != nil {
			failures = append(failures, LoadFailure{
				DocID: fileStem(files[i].Path),
				Path:  files[i].Path,
				Err:   p.err,
			})
			continue
		}
		if err := reg.Register(p.doc); err != nil {
			// The first-registered document is unaffected; only the
			// later registration is recorded as a failure.
			failures = append(failures, LoadFailure{
				DocID: p.doc.ID,
				Path:  p.doc.Path,
				Err:   err,
			})
		}
	}

	logger.Debug("Loaded template library",
		slog.Int("documents", reg.Len()),
		slog.Int("failures", len(failures)))

	return &LoadResult{Registry: reg, Failures: failures}, nil
}

// fileStem returns the base filename without its extension.
func fileStem(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
