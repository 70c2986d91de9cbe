package worker

import (
	"context"
	"fmt"
	"sort"

	"github.com/bainum-project/talkscore/internal/ingest"
	"github.com/bainum-project/talkscore/internal/model"
)

// Analyzer defines the interface for assessing one transcript.
type Analyzer interface {
	Analyze(ctx context.Context, transcript string, withSegments bool) *model.AssessmentReport
}

// ClassifyJob represents one transcript file to assess.
type ClassifyJob struct {
	Path         string
	Analyzer     Analyzer
	WithSegments bool
}

// Execute reads the transcript and runs the full assessment.
func (j *ClassifyJob) Execute(ctx context.Context) Result {
	transcript, err := ingest.ReadTranscript(j.Path)
	if err != nil {
		return &ClassifyResult{Path: j.Path, Error: err}
	}

	report := j.Analyzer.Analyze(ctx, transcript, j.WithSegments)
	report.Source = j.Path
	return &ClassifyResult{Path: j.Path, Report: report}
}

// ClassifyResult represents the result of one transcript assessment.
type ClassifyResult struct {
	Path   string
	Report *model.AssessmentReport
	Error  error
}

// GetError returns the error from the assessment, if any.
func (r *ClassifyResult) GetError() error {
	return r.Error
}

// BatchProcessor assesses multiple transcript files concurrently.
type BatchProcessor struct {
	analyzer     Analyzer
	concurrency  int
	withSegments bool
}

// NewBatchProcessor creates a batch processor running at the given
// concurrency.
func NewBatchProcessor(analyzer Analyzer, concurrency int, withSegments bool) *BatchProcessor {
	return &BatchProcessor{
		analyzer:     analyzer,
		concurrency:  concurrency,
		withSegments: withSegments,
	}
}

// ProcessPaths assesses the given transcript files concurrently.
// Results come back sorted by path; per-file failures are carried in
// the result, never aborting the batch.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*ClassifyResult {
	if len(paths) == 0 {
		return []*ClassifyResult{}
	}

	pool := NewPoolWithContext(ctx, b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&ClassifyJob{
			Path:         path,
			Analyzer:     b.analyzer,
			WithSegments: b.withSegments,
		})
	}

	results := pool.Wait()

	classifyResults := make([]*ClassifyResult, len(results))
	for i, result := range results {
		classifyResults[i] = result.(*ClassifyResult)
	}

	sort.Slice(classifyResults, func(i, j int) bool {
		return classifyResults[i].Path < classifyResults[j].Path
	})

	return classifyResults
}

// ProcessDir assesses every transcript file directly under dir.
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) ([]*ClassifyResult, error) {
	paths, err := ingest.ListTranscripts(dir)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	return b.ProcessPaths(ctx, paths), nil
}

// ProcessManifest reads transcript paths from a manifest file (one per
// line) and assesses them concurrently.
func (b *BatchProcessor) ProcessManifest(ctx context.Context, manifestPath string) ([]*ClassifyResult, error) {
	paths, err := ingest.ReadPathsFromFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return b.ProcessPaths(ctx, paths), nil
}
