// Package cascade resolves a query through the retrieval cascade: rule
// shortcuts, the curated tier, the document tier, grounded synthesis, and
// finally a fixed rejection. Every path ends in a user-displayable string.
package cascade

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusqa/prashna/internal/config"
	"github.com/campusqa/prashna/internal/models"
	"github.com/campusqa/prashna/internal/querylog"
	"github.com/campusqa/prashna/internal/rules"
	"github.com/campusqa/prashna/internal/synth"
	"github.com/campusqa/prashna/pkg/utils"
)

// EmptyQueryResponse is returned before any tier runs when the query is blank.
const EmptyQueryResponse = "Please type a question and I will do my best to help."

// RejectionResponse is the fixed no-hallucination rejection. It must stay
// byte-stable: nothing dynamic is ever interpolated into it.
const RejectionResponse = "I could not find information about this topic in my knowledge base.\n\n" +
	"This may be because:\n" +
	"- The topic is not related to NIT Jalandhar\n" +
	"- The specific information is not available in our current database\n\n" +
	"For more details, please:\n" +
	"• Visit the official website: https://www.nitj.ac.in\n" +
	"• Contact the Registrar's Office\n" +
	"• Reach out to the relevant department\n\n" +
	"Is there anything else I can help you with?"

// ProvenanceNote is appended to every synthesized answer so generated text
// is never mistaken for a retrieved record.
const ProvenanceNote = "*(Generated from retrieved knowledge base)*"

const contextSeparator = "\n\n---\n\n"

// Searcher is the tier contract the orchestrator depends on.
type Searcher interface {
	Search(ctx context.Context, query string, topK int, threshold float64) ([]models.SearchResult, float64)
}

// Suggester proposes related curated questions for rejected queries.
type Suggester interface {
	Suggest(query string, limit int) []string
}

// Engine runs one query at a time through the cascade. It is safe for
// concurrent use as long as its collaborators are.
type Engine struct {
	rules     *rules.Engine
	curated   Searcher
	documents Searcher
	cfg       config.CascadeConfig
	synth     synth.Synthesizer
	log       querylog.Logger
	suggester Suggester
	suggestN  int
	logger    *zap.Logger
}

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithSuggestions appends related curated questions to rejections.
func WithSuggestions(s Suggester, limit int) Option {
	return func(e *Engine) {
		e.suggester = s
		e.suggestN = limit
	}
}

// NewEngine wires the cascade. Pass querylog.Nop{} to disable logging.
func NewEngine(ruleEngine *rules.Engine, curated, documents Searcher, cfg config.CascadeConfig,
	synthesizer synth.Synthesizer, log querylog.Logger, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		rules:     ruleEngine,
		curated:   curated,
		documents: documents,
		cfg:       cfg,
		synth:     synthesizer,
		log:       log,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Answer resolves query and returns the user-facing text. It never fails.
func (e *Engine) Answer(ctx context.Context, query string) string {
	return e.Resolve(ctx, query).Text
}

// Resolve runs the cascade and returns the terminal outcome. Transitions
// run strictly in order, short-circuiting on the first match: empty-query
// check, rule shortcuts, curated tier, document tier, synthesis, rejection.
func (e *Engine) Resolve(ctx context.Context, query string) models.Outcome {
	normalized := utils.NormalizeQuery(query)
	if normalized == "" {
		return models.Outcome{Kind: models.OutcomeShortcut, Text: EmptyQueryResponse}
	}

	if response, ok := e.rules.Apply(normalized); ok {
		return models.Outcome{Kind: models.OutcomeShortcut, Text: response}
	}

	var contexts []string

	curatedResults, curatedConfidence := e.curated.Search(ctx, query,
		e.cfg.Curated.TopK, e.cfg.Curated.RetrievalThreshold)
	if curatedConfidence >= e.cfg.Curated.DirectThreshold && len(curatedResults) > 0 {
		e.logger.Debug("curated direct hit", zap.Float64("confidence", curatedConfidence))
		text := FormatDirect(curatedResults, models.TierCurated, curatedConfidence)
		e.record(ctx, query, string(models.TierCurated), curatedConfidence, models.StatusSuccess)
		return models.Outcome{
			Kind:       models.OutcomeDirect,
			Text:       text,
			Tier:       models.TierCurated,
			Confidence: curatedConfidence,
		}
	}
	for _, r := range curatedResults {
		contexts = append(contexts, contextBlock(r.Item))
	}

	documentResults, documentConfidence := e.documents.Search(ctx, query,
		e.cfg.Documents.TopK, e.cfg.Documents.RetrievalThreshold)
	if documentConfidence >= e.cfg.Documents.DirectThreshold && len(documentResults) > 0 {
		e.logger.Debug("document direct hit", zap.Float64("confidence", documentConfidence))
		text := FormatDirect(documentResults, models.TierDocument, documentConfidence)
		e.record(ctx, query, string(models.TierDocument), documentConfidence, models.StatusSuccess)
		return models.Outcome{
			Kind:       models.OutcomeDirect,
			Text:       text,
			Tier:       models.TierDocument,
			Confidence: documentConfidence,
		}
	}
	for _, r := range documentResults {
		contexts = append(contexts, contextBlock(r.Item))
	}

	bestConfidence := curatedConfidence
	if documentConfidence > bestConfidence {
		bestConfidence = documentConfidence
	}

	if len(contexts) > 0 {
		e.logger.Debug("synthesizing from retrieved context",
			zap.Int("blocks", len(contexts)),
			zap.Float64("confidence", bestConfidence))
		answer := e.synth.Synthesize(ctx, strings.Join(contexts, contextSeparator), query)
		e.record(ctx, query, "SYNTHESIZED", bestConfidence, models.StatusGenerated)
		return models.Outcome{
			Kind:       models.OutcomeSynthesized,
			Text:       answer + "\n\n" + ProvenanceNote,
			Confidence: bestConfidence,
			Contexts:   contexts,
		}
	}

	// No evidence anywhere. The synthesizer is never invoked without
	// retrieved grounding.
	e.logger.Debug("no qualifying evidence, rejecting",
		zap.Float64("curated_confidence", curatedConfidence),
		zap.Float64("document_confidence", documentConfidence))
	e.record(ctx, query, "REJECTED", bestConfidence, models.StatusRejected)

	text := RejectionResponse
	if e.suggester != nil {
		if suggestions := e.suggester.Suggest(query, e.suggestN); len(suggestions) > 0 {
			var b strings.Builder
			b.WriteString(text)
			b.WriteString("\n\nYou could also try asking:\n")
			for _, q := range suggestions {
				b.WriteString("- ")
				b.WriteString(q)
				b.WriteString("\n")
			}
			text = strings.TrimRight(b.String(), "\n")
		}
	}
	return models.Outcome{Kind: models.OutcomeRejected, Text: text, Confidence: bestConfidence}
}

func (e *Engine) record(ctx context.Context, query, tier string, confidence float64, status string) {
	e.log.Append(ctx, models.QueryLogRecord{
		ID:         uuid.NewString(),
		Query:      query,
		Tier:       tier,
		Confidence: confidence,
		Status:     status,
		CreatedAt:  time.Now(),
	})
}
