// Package langdetect identifies the language of a question so the answer
// pipeline can report it and pick a speech voice. Detection is best-effort:
// a failed detection never fails the query.
package langdetect

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Unknown is reported when the detector cannot identify a language.
const Unknown = "unknown"

// Detector identifies the language of a text.
type Detector interface {
	// Detect returns the ISO 639-1 code of the text's language. ok is false
	// when no language could be determined.
	Detect(text string) (code string, ok bool)
}

// LinguaDetector implements Detector with the lingua statistical models.
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLinguaDetector builds a detector over all languages lingua supports.
func NewLinguaDetector() *LinguaDetector {
	return &LinguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build(),
	}
}

// Detect returns the lowercased ISO 639-1 code of the detected language.
func (d *LinguaDetector) Detect(text string) (string, bool) {
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return Unknown, false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
