package validate

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/c360studio/tmplvet/graph"
	"github.com/c360studio/tmplvet/template"
)

// Pipeline runs the four validation stages over a loaded template
// library. Stages are strictly ordered for the whole batch; within a
// batch each document advances independently, so one bad file never
// blocks the rest.
type Pipeline struct {
	profile    Profile
	thresholds Thresholds
	workers    int
	logger     *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithWorkers caps the per-document worker pool. Values below one are
// ignored, leaving the pool sized to available cores.
func WithWorkers(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = logger }
}

// NewPipeline creates a Pipeline for the given profile and thresholds.
func NewPipeline(profile Profile, thresholds Thresholds, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		profile:    profile,
		thresholds: thresholds,
		workers:    runtime.NumCPU(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Outcome is the complete set of validation results for one run.
type Outcome struct {
	// Results holds every stage result, sorted by stage order then
	// document order (graph-level results last within a stage).
	Results []Result

	// Stats holds the aggregate corpus metrics.
	Stats graph.Stats

	// TimedOut reports that the run deadline expired. The outcome
	// then reflects only completed work and the verdict is forced to
	// rejected by the report layer.
	TimedOut bool
}

// Run executes the pipeline. Per-document structural and functional
// checks run on a worker pool; graph construction is the barrier
// between per-document and whole-graph work. Run never fails on
// document defects, only when ctx is cancelled before completion.
func (p *Pipeline) Run(ctx context.Context, load *LoadResult) *Outcome {
	outcome := &Outcome{}
	docs := load.Registry.All()

	// Document order for deterministic result sorting: registered
	// documents first, then load failures, graph results last.
	docIndex := make(map[string]int, len(docs)+len(load.Failures))
	for i, doc := range docs {
		docIndex[doc.ID] = i
	}
	for i, f := range load.Failures {
		if _, ok := docIndex[f.DocID]; !ok {
			docIndex[f.DocID] = len(docs) + i
		}
	}
	docIndex[GraphDocID] = math.MaxInt

	// Structural stage.
	for _, f := range load.Failures {
		outcome.Results = append(outcome.Results, structuralFailure(f))
	}

	structResults, err := p.runDocStage(ctx, docs, func(doc *template.Document) Result {
		return structuralDoc(doc)
	})
	if err != nil {
		return p.timedOut(outcome, docIndex)
	}

	g := graph.Build(load.Registry)
	analysis := g.Analyze()
	outcome.Stats = g.Metrics(analysis)

	graphResult, perDoc := structuralGraph(g, analysis)

	structuralPassed := make(map[string]bool, len(docs))
	for i, doc := range docs {
		result := structResults[i]
		if extra := perDoc[doc.ID]; len(extra) > 0 {
			result = newResult(StageStructural, doc.ID, append(result.Issues, extra...))
		}
		outcome.Results = append(outcome.Results, result)
		structuralPassed[doc.ID] = result.Status != StatusFail
	}
	outcome.Results = append(outcome.Results, graphResult)

	p.logger.Debug("Structural stage complete",
		slog.Int("documents", len(docs)),
		slog.Int("graph_issues", len(graphResult.Issues)))

	if ctx.Err() != nil {
		return p.timedOut(outcome, docIndex)
	}

	// Functional stage, for documents that passed structural.
	functionalPassed := make(map[string]bool, len(docs))
	funcResults, err := p.runDocStage(ctx, docs, func(doc *template.Document) Result {
		if !structuralPassed[doc.ID] {
			return Result{}
		}
		return functionalDoc(doc, load.Registry, p.profile)
	})
	if err != nil {
		return p.timedOut(outcome, docIndex)
	}
	for i, doc := range docs {
		if !structuralPassed[doc.ID] {
			continue
		}
		outcome.Results = append(outcome.Results, funcResults[i])
		functionalPassed[doc.ID] = funcResults[i].Status != StatusFail
	}

	p.logger.Debug("Functional stage complete", slog.String("profile", string(p.profile)))

	if ctx.Err() != nil {
		return p.timedOut(outcome, docIndex)
	}

	// Integration stage, in topological order over the acyclic graph.
	integrationResults, _ := runIntegration(g, analysis, functionalPassed)
	outcome.Results = append(outcome.Results, integrationResults...)

	if ctx.Err() != nil {
		return p.timedOut(outcome, docIndex)
	}

	// Performance stage: aggregate corpus metrics, warnings only.
	outcome.Results = append(outcome.Results, runPerformance(outcome.Stats, p.thresholds))

	p.sortResults(outcome.Results, docIndex)
	return outcome
}

// runDocStage evaluates one stage for every document on the worker
// pool. Each document is independent input; results land in an indexed
// slice so no ordering nondeterminism leaks out of the pool.
func (p *Pipeline) runDocStage(ctx context.Context, docs []*template.Document, check func(*template.Document) Result) ([]Result, error) {
	results := make([]Result, len(docs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.workers)

	for i, doc := range docs {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			results[i] = check(doc)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// timedOut finalizes a partial outcome after the run deadline expired.
// The partial report is explicit about the abort rather than silently
// truncated.
func (p *Pipeline) timedOut(outcome *Outcome, docIndex map[string]int) *Outcome {
	p.logger.Warn("Validation run deadline exceeded; reporting partial results")
	outcome.TimedOut = true
	outcome.Results = append(outcome.Results, Result{
		Stage:  StageStructural,
		DocID:  GraphDocID,
		Status: StatusFail,
		Issues: []Issue{{
			Severity: SeverityError,
			Message:  "timeout: validation run exceeded its deadline; results are partial",
			Location: GraphDocID,
		}},
	})
	p.sortResults(outcome.Results, docIndex)
	return outcome
}

// sortResults orders results by stage, then document order, with
// graph-level results last within each stage.
func (p *Pipeline) sortResults(results []Result, docIndex map[string]int) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Stage != results[j].Stage {
			return results[i].Stage.Rank() < results[j].Stage.Rank()
		}
		return docIndex[results[i].DocID] < docIndex[results[j].DocID]
	})
}
