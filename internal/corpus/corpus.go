package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Nested is the corpus authoring structure: language -> subject -> level ->
// {question key -> answer}. Question keys use underscores in place of spaces.
type Nested map[string]map[string]map[string]map[string]string

// LoadNested reads a nested corpus file.
func LoadNested(path string) (Nested, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}
	var n Nested
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("failed to parse corpus file: %w", err)
	}
	return n, nil
}

// Flatten converts the nested corpus into an ordered entry sequence. The
// traversal is sorted at every nesting depth (language, subject, level,
// question key) so that rebuilding from the same corpus always assigns the
// same index position to the same entry.
func Flatten(n Nested) []Entry {
	var entries []Entry
	for _, lang := range sortedKeys(n) {
		subjects := n[lang]
		for _, subject := range sortedKeys(subjects) {
			levels := subjects[subject]
			for _, level := range sortedKeys(levels) {
				pairs := levels[level]
				for _, key := range sortedKeys(pairs) {
					entries = append(entries, Entry{
						Lang:     lang,
						Subject:  subject,
						Level:    level,
						Question: strings.ReplaceAll(key, "_", " "),
						Answer:   pairs[key],
					})
				}
			}
		}
	}
	return entries
}

// Questions returns the question texts of the entries, in order.
func Questions(entries []Entry) []string {
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Question
	}
	return texts
}

// CollectFacets returns the distinct sorted languages, subjects and levels
// present in the entries.
func CollectFacets(entries []Entry) Facets {
	langs := make(map[string]struct{})
	subjects := make(map[string]struct{})
	levels := make(map[string]struct{})
	for _, e := range entries {
		langs[e.Lang] = struct{}{}
		subjects[e.Subject] = struct{}{}
		levels[e.Level] = struct{}{}
	}
	return Facets{
		Langs:    sortedKeys(langs),
		Subjects: sortedKeys(subjects),
		Levels:   sortedKeys(levels),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
