package engine

import (
	"eduassist/internal/corpus"
	"eduassist/internal/session"
)

// AskRequest is a single question from one user session.
type AskRequest struct {
	// Question is the user's free-text question.
	Question string
	// Filter narrows visible candidates by corpus metadata. Zero value
	// matches everything.
	Filter corpus.Filter
	// WantAudio asks for synthesized speech alongside the text answers.
	WantAudio bool
	// History is the caller's session history; answered turns are appended
	// to it.
	History *session.History
}

// Candidate is a corpus entry retrieved for a question. Rank is the
// candidate's position in the raw index result (rank 0 is the globally
// closest match); filtered-out candidates leave gaps rather than shifting
// ranks.
type Candidate struct {
	Entry    corpus.Entry `json:"entry"`
	Rank     int          `json:"rank"`
	Distance float32      `json:"distance"`
	Score    float64      `json:"score"`
}

// GeneratedAnswer is a fallback answer produced by the generative model.
type GeneratedAnswer struct {
	Text  string `json:"text"`
	Audio []byte `json:"audio,omitempty"`
}

// AskResponse is the structured outcome the presentation layer renders.
// Primary and Fallback may both be set: a low-confidence retrieved answer is
// shown and supplemented by a generated one.
type AskResponse struct {
	// DetectedLang is the detected question language, or
	// langdetect.Unknown when detection failed.
	DetectedLang string `json:"detected_lang"`
	// LangDetected is false when language detection failed (non-fatal).
	LangDetected bool `json:"lang_detected"`
	// BestScore is the rank-0 similarity score, recorded whether or not
	// that candidate passed any filter. Zero when the index returned
	// nothing.
	BestScore float64 `json:"best_score"`
	// Primary is the first retrieved candidate that passed the relevance
	// floor and the filter, or nil.
	Primary *Candidate `json:"primary,omitempty"`
	// Suggestions are the remaining visible candidates in rank order.
	Suggestions []Candidate `json:"suggestions,omitempty"`
	// Fallback is the generated answer, set when retrieval was rejected or
	// low-confidence.
	Fallback *GeneratedAnswer `json:"fallback,omitempty"`
	// FallbackFailed is set when the fallback was triggered and failed but
	// a primary answer could still be shown.
	FallbackFailed bool `json:"fallback_failed,omitempty"`
	// QuestionAudio and AnswerAudio carry synthesized speech for the
	// question (in its detected language) and the primary answer (in the
	// entry's language). Empty when audio was not requested or synthesis
	// failed.
	QuestionAudio []byte `json:"question_audio,omitempty"`
	AnswerAudio   []byte `json:"answer_audio,omitempty"`
}

// FallbackUsed reports whether a generated answer was produced.
func (r *AskResponse) FallbackUsed() bool {
	return r.Fallback != nil
}
