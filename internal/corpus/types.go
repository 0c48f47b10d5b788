package corpus

// Entry is a single question/answer pair from the curated corpus.
// An entry's identity is its position in the similarity index; the metadata
// sequence and the embedding matrix must stay aligned by that position.
type Entry struct {
	Lang     string `json:"lang"`
	Subject  string `json:"subject"`
	Level    string `json:"level"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// All is the sentinel filter value matching any field value.
const All = ""

// Filter narrows candidates by corpus metadata. An empty field matches
// everything.
type Filter struct {
	Lang    string `json:"lang,omitempty"`
	Subject string `json:"subject,omitempty"`
	Level   string `json:"level,omitempty"`
}

// Matches reports whether the entry satisfies every non-empty field of the
// filter.
func (f Filter) Matches(e Entry) bool {
	if f.Lang != All && e.Lang != f.Lang {
		return false
	}
	if f.Subject != All && e.Subject != f.Subject {
		return false
	}
	if f.Level != All && e.Level != f.Level {
		return false
	}
	return true
}

// Facets lists the distinct values present in the corpus, used by the
// presentation layer to populate filter choices.
type Facets struct {
	Langs    []string `json:"langs"`
	Subjects []string `json:"subjects"`
	Levels   []string `json:"levels"`
}
