package corpus

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func testNested() Nested {
	return Nested{
		"fr": {
			"math": {
				"CP": {
					"combien_font_deux_plus_deux": "quatre",
					"combien_font_un_plus_un":     "deux",
				},
			},
			"histoire": {
				"CE1": {
					"qui_etait_napoleon": "un empereur français",
				},
			},
		},
		"en": {
			"science": {
				"grade1": {
					"what_is_water_made_of": "hydrogen and oxygen",
				},
			},
		},
	}
}

func TestFlattenDeterministicOrder(t *testing.T) {
	first := Flatten(testNested())
	for i := 0; i < 5; i++ {
		again := Flatten(testNested())
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Flatten() order not stable: run %d differs", i)
		}
	}
}

func TestFlattenNormalizesQuestionKeys(t *testing.T) {
	entries := Flatten(testNested())
	for _, e := range entries {
		for _, c := range e.Question {
			if c == '_' {
				t.Fatalf("question %q still contains underscores", e.Question)
			}
		}
	}

	// Sorted traversal: "en" before "fr", then subject, level, key.
	if entries[0].Lang != "en" || entries[0].Question != "what is water made of" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Lang != "fr" || entries[1].Subject != "histoire" {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
	if entries[2].Question != "combien font deux plus deux" || entries[2].Answer != "quatre" {
		t.Fatalf("unexpected third entry: %+v", entries[2])
	}
}

func TestFilterMatches(t *testing.T) {
	entry := Entry{Lang: "fr", Subject: "math", Level: "CP", Question: "q", Answer: "a"}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"no filter", Filter{}, true},
		{"lang match", Filter{Lang: "fr"}, true},
		{"lang mismatch", Filter{Lang: "en"}, false},
		{"subject mismatch", Filter{Subject: "physics"}, false},
		{"all fields match", Filter{Lang: "fr", Subject: "math", Level: "CP"}, true},
		{"level mismatch only", Filter{Lang: "fr", Subject: "math", Level: "CM2"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(entry); got != tt.want {
				t.Fatalf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	entries := Flatten(testNested())
	path := filepath.Join(t.TempDir(), "educ_metadata.json")

	if err := SaveMetadata(path, entries); err != nil {
		t.Fatalf("SaveMetadata() error = %v", err)
	}
	loaded, err := LoadMetadata(path)
	if err != nil {
		t.Fatalf("LoadMetadata() error = %v", err)
	}
	if !reflect.DeepEqual(entries, loaded) {
		t.Fatalf("metadata changed across round trip:\nsaved  %+v\nloaded %+v", entries, loaded)
	}
}

func TestSaveMetadataLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "educ_metadata.json")
	if err := SaveMetadata(path, Flatten(testNested())); err != nil {
		t.Fatalf("SaveMetadata() error = %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind after save")
	}
}

func TestCollectFacets(t *testing.T) {
	facets := CollectFacets(Flatten(testNested()))

	if !reflect.DeepEqual(facets.Langs, []string{"en", "fr"}) {
		t.Fatalf("unexpected langs: %v", facets.Langs)
	}
	if !reflect.DeepEqual(facets.Subjects, []string{"histoire", "math", "science"}) {
		t.Fatalf("unexpected subjects: %v", facets.Subjects)
	}
	if !reflect.DeepEqual(facets.Levels, []string{"CE1", "CP", "grade1"}) {
		t.Fatalf("unexpected levels: %v", facets.Levels)
	}
}
