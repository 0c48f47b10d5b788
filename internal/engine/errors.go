package engine

import "errors"

var (
	// ErrEmptyQuestion is returned for empty or whitespace-only questions.
	// No history entry is recorded for such questions.
	ErrEmptyQuestion = errors.New("empty question")
	// ErrRetrievalUnavailable is returned when the embedding service or the
	// similarity index fails. Fatal for the single query, not for the
	// process.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
	// ErrGenerationFailed is returned when the generative fallback fails and
	// no retrieved answer could be shown instead.
	ErrGenerationFailed = errors.New("generation failed")
)
