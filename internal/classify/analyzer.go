package classify

import (
	"context"
	"strings"
	"time"

	"github.com/bainum-project/talkscore/internal/keyword"
	"github.com/bainum-project/talkscore/internal/model"
)

// Analyzer is the invocation surface the rest of the application uses:
// keyword scoring, RAG classification, hybrid combination, and the
// end-to-end Analyze workflow that labels how a result was produced.
type Analyzer struct {
	keyword *keyword.Scorer
	rag     *Classifier // nil when the RAG path is disabled
	hybrid  *Hybrid
}

// NewAnalyzer assembles the facade. rag may be nil; keyword scoring
// then carries every assessment alone.
func NewAnalyzer(kw *keyword.Scorer, rag *Classifier, hybrid *Hybrid) *Analyzer {
	if kw == nil {
		kw = keyword.NewScorer(0)
	}
	if hybrid == nil {
		hybrid = NewHybrid(DefaultRAGWeight, DefaultKeywordWeight)
	}
	return &Analyzer{
		keyword: kw,
		rag:     rag,
		hybrid:  hybrid,
	}
}

// KeywordScore runs the deterministic keyword scorer.
func (a *Analyzer) KeywordScore(transcript string) model.ScoreVector {
	return a.keyword.Score(transcript)
}

// RAGClassify runs the RAG pipeline; the zero vector when RAG is
// disabled or fails.
func (a *Analyzer) RAGClassify(ctx context.Context, transcript string) model.ScoreVector {
	if a.rag == nil {
		return model.ScoreVector{}
	}
	return a.rag.Classify(ctx, transcript)
}

// RAGClassifyWithSegments runs the RAG pipeline in segment mode.
func (a *Analyzer) RAGClassifyWithSegments(ctx context.Context, transcript string) model.ClassificationResult {
	if a.rag == nil {
		return model.ClassificationResult{Segments: []model.Segment{}}
	}
	return a.rag.ClassifyWithSegments(ctx, transcript)
}

// HybridCombine merges two score sources with the current weights.
func (a *Analyzer) HybridCombine(ragScores, keywordScores *model.ScoreVector) model.ScoreVector {
	return a.hybrid.Combine(ragScores, keywordScores)
}

// Weights returns the current normalized weight split.
func (a *Analyzer) Weights() (ragWeight, keywordWeight float64) {
	return a.hybrid.Weights()
}

// SetWeights reconfigures the weight split for subsequent assessments.
func (a *Analyzer) SetWeights(ragWeight, keywordWeight float64) {
	a.hybrid.SetWeights(ragWeight, keywordWeight)
}

// Analyze runs the complete assessment workflow on one transcript:
// keyword scoring always, the RAG pipeline when available, and the
// hybrid combination. The report's method label records whether RAG
// genuinely contributed ("hybrid") or the assessment rests on keyword
// scores alone ("keyword-only"); when RAG fails, the keyword scores
// carry the assessment at full weight rather than being scaled down by
// a split computed for two sources.
func (a *Analyzer) Analyze(ctx context.Context, transcript string, withSegments bool) *model.AssessmentReport {
	started := time.Now()

	report := &model.AssessmentReport{
		AnalyzedAt: started.UTC(),
		WordCount:  len(strings.Fields(transcript)),
	}

	kwStart := time.Now()
	kwScores, detail := a.keyword.ScoreDetail(transcript)
	report.KeywordScores = kwScores
	report.KeywordDetail = detail
	report.Timing.KeywordMs = time.Since(kwStart).Milliseconds()

	ragWeight, keywordWeight := a.hybrid.Weights()
	report.Weights = model.WeightSnapshot{RAG: ragWeight, Keyword: keywordWeight}

	ragOK := false
	var ragScores model.ScoreVector
	var segments []model.Segment

	if a.rag != nil && strings.TrimSpace(transcript) != "" {
		ragStart := time.Now()
		scores, segs, err := a.rag.run(ctx, transcript, withSegments)
		if err != nil && withSegments {
			// Segment mode failed; scores may still be recoverable
			// without segments.
			a.rag.warn(err)
			scores, segs, err = a.rag.run(ctx, transcript, false)
		}
		report.Timing.RAGMs = time.Since(ragStart).Milliseconds()
		if err != nil {
			a.rag.warn(err)
		} else {
			ragOK = true
			ragScores = scores
			segments = segs
		}
	}

	if ragOK {
		report.Method = model.MethodHybrid
		report.RAGScores = &ragScores
		report.Combined = a.hybrid.Combine(&ragScores, &kwScores)
		report.Segments = segments
	} else {
		report.Method = model.MethodKeywordOnly
		report.Combined = kwScores
	}

	report.Timing.TotalMs = time.Since(started).Milliseconds()
	return report
}
