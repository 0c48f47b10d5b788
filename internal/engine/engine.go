package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eduassist/internal/contextutil"
	"eduassist/internal/corpus"
	"eduassist/internal/langdetect"
	"eduassist/internal/speech"
	"eduassist/internal/vectorstore"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks eduassist/internal/engine Engine

// Embedder turns text into a fixed-length vector. Must be backed by the same
// model that embedded the corpus at build time.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces a deterministic bounded completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Policy holds the retrieval policy constants. These are deployment tuning
// knobs, not code: see config.
type Policy struct {
	// TopK is the number of nearest neighbors fetched per question.
	TopK int
	// MinScore is the hard relevance floor; candidates below it are never
	// visible.
	MinScore float64
	// FallbackThreshold triggers the generative fallback when the rank-0
	// score falls below it, even if a primary answer is shown.
	FallbackThreshold float64
	// FallbackMaxTokens bounds the generated answer length.
	FallbackMaxTokens int
	// FallbackLang is the speech language for generated answers.
	FallbackLang string
	// GenerationTimeout bounds the fallback call. Zero means no timeout.
	GenerationTimeout time.Duration
}

// fallbackPrompt instructs the model to answer simply and clearly without
// repeating the question.
const fallbackPrompt = "Réponds à la question suivante de manière simple et claire, sans répéter la question.\n\nQuestion: %s\nRéponse:"

// Engine is the retrieval-and-fallback decision pipeline.
type Engine interface {
	// Ask answers a question by similarity retrieval over the corpus,
	// falling back to the generative model when retrieval confidence is
	// insufficient.
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)
}

type queryEngine struct {
	embedder    Embedder
	index       vectorstore.SimilarityIndex
	metadata    []corpus.Entry
	detector    langdetect.Detector
	generator   Generator
	synthesizer speech.Synthesizer
	policy      Policy
	logger      *slog.Logger
}

// New creates a query engine over a loaded index and its position-aligned
// metadata.
func New(
	embedder Embedder,
	index vectorstore.SimilarityIndex,
	metadata []corpus.Entry,
	detector langdetect.Detector,
	generator Generator,
	synthesizer speech.Synthesizer,
	policy Policy,
) (Engine, error) {
	if index.Len() != len(metadata) {
		return nil, fmt.Errorf("index has %d vectors but metadata has %d entries", index.Len(), len(metadata))
	}
	return &queryEngine{
		embedder:    embedder,
		index:       index,
		metadata:    metadata,
		detector:    detector,
		generator:   generator,
		synthesizer: synthesizer,
		policy:      policy,
		logger:      slog.Default(),
	}, nil
}

// Ask runs the retrieval policy for one question.
func (e *queryEngine) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return AskResponse{}, ErrEmptyQuestion
	}

	resp := AskResponse{DetectedLang: langdetect.Unknown}
	if code, ok := e.detector.Detect(question); ok {
		resp.DetectedLang = code
		resp.LangDetected = true
	} else {
		logger.WarnContext(ctx, "language detection failed", "question_length", len(question))
	}

	queryVector, err := e.embedder.Embed(ctx, question)
	if err != nil {
		logger.ErrorContext(ctx, "failed to embed question", "error", err)
		return AskResponse{}, fmt.Errorf("%w: embedding failed: %w", ErrRetrievalUnavailable, err)
	}

	hits, err := e.index.Search(ctx, queryVector, e.policy.TopK)
	if err != nil {
		logger.ErrorContext(ctx, "index search failed", "error", err)
		return AskResponse{}, fmt.Errorf("%w: index search failed: %w", ErrRetrievalUnavailable, err)
	}

	var visible []Candidate
	for rank, hit := range hits {
		if hit.Position < 0 || hit.Position >= len(e.metadata) {
			return AskResponse{}, fmt.Errorf("%w: hit position %d outside metadata range", ErrRetrievalUnavailable, hit.Position)
		}
		// Linear mapping calibrated for squared-L2 over unit-norm
		// embeddings. A different metric or normalization needs a
		// different divisor.
		score := 1 - float64(hit.Distance)/2

		if rank == 0 {
			resp.BestScore = score
		}
		if score < e.policy.MinScore {
			continue
		}
		entry := e.metadata[hit.Position]
		if !req.Filter.Matches(entry) {
			continue
		}
		visible = append(visible, Candidate{
			Entry:    entry,
			Rank:     rank,
			Distance: hit.Distance,
			Score:    score,
		})
	}

	if len(visible) > 0 {
		primary := visible[0]
		resp.Primary = &primary
		resp.Suggestions = visible[1:]

		if req.History != nil {
			req.History.Append(question, primary.Entry.Answer)
		}
		if req.WantAudio {
			resp.QuestionAudio = e.synthesize(ctx, question, resp.DetectedLang)
			resp.AnswerAudio = e.synthesize(ctx, primary.Entry.Answer, primary.Entry.Lang)
		}
	}

	logger.InfoContext(ctx, "retrieval completed",
		"hits", len(hits),
		"visible", len(visible),
		"best_score", resp.BestScore,
		"detected_lang", resp.DetectedLang,
	)

	// Fallback fires when nothing is visible, or when even the globally
	// closest candidate scored low. A low-confidence primary is shown AND
	// supplemented by a generated answer; both go to history.
	if len(visible) == 0 || resp.BestScore < e.policy.FallbackThreshold {
		fallback, err := e.generateFallback(ctx, question)
		if err != nil {
			logger.ErrorContext(ctx, "fallback generation failed", "error", err)
			if resp.Primary == nil {
				return AskResponse{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
			}
			resp.FallbackFailed = true
			return resp, nil
		}
		resp.Fallback = fallback
		if req.History != nil {
			req.History.Append(question, fallback.Text)
		}
		if req.WantAudio {
			resp.Fallback.Audio = e.synthesize(ctx, fallback.Text, e.policy.FallbackLang)
		}
	}

	return resp, nil
}

func (e *queryEngine) generateFallback(ctx context.Context, question string) (*GeneratedAnswer, error) {
	if e.policy.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.policy.GenerationTimeout)
		defer cancel()
	}

	prompt := fmt.Sprintf(fallbackPrompt, question)
	text, err := e.generator.Generate(ctx, prompt, e.policy.FallbackMaxTokens)
	if err != nil {
		return nil, err
	}
	return &GeneratedAnswer{Text: strings.TrimSpace(text)}, nil
}

// synthesize is soft-failing: any synthesis error drops the audio and keeps
// the answer.
func (e *queryEngine) synthesize(ctx context.Context, text, langCode string) []byte {
	audio, err := e.synthesizer.Synthesize(ctx, text, langCode)
	if err != nil {
		if !errors.Is(err, speech.ErrDisabled) {
			contextutil.LoggerFromContext(ctx).WarnContext(ctx, "speech synthesis failed", "lang", langCode, "error", err)
		}
		return nil
	}
	return audio
}
