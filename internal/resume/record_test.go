package resume

import (
	"encoding/json"
	"fmt"
	"sort"
	"testing"
)

// keySet recursively collects the key paths of a decoded JSON object.
// Array elements are descended but not counted, since entry counts vary.
func keySet(prefix string, v any, out map[string]bool) {
	switch n := v.(type) {
	case map[string]any:
		for k, child := range n {
			path := k
			if prefix != "" {
				path = prefix + "." + k
			}
			out[path] = true
			keySet(path, child, out)
		}
	case []any:
		for _, child := range n {
			keySet(prefix+"[]", child, out)
		}
	}
}

func recordKeySet(t *testing.T, rec Record) map[string]bool {
	t.Helper()
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	keys := make(map[string]bool)
	keySet("", doc, keys)
	return keys
}

func TestEmptyRecord_KeySetMatchesPopulatedRecord(t *testing.T) {
	empty := recordKeySet(t, EmptyRecord())

	populated := EmptyRecord()
	populated.Basics.Name = "Jane Doe"
	populated.Work = []Work{{Company: "Acme", Highlights: []string{"x"}}}
	populated.Education = []Education{{Institution: "MIT"}}
	pop := recordKeySet(t, populated)

	// Top-level structure is identical in both directions; populated
	// records may add array-element keys which the empty record's empty
	// arrays cannot carry.
	for key := range empty {
		if !pop[key] {
			t.Errorf("key %q present in empty record but missing in populated", key)
		}
	}

	var topLevel []string
	for key := range empty {
		topLevel = append(topLevel, key)
	}
	sort.Strings(topLevel)
	want := []string{
		"awards", "basics", "basics.email", "basics.linkedin", "basics.location",
		"basics.name", "basics.phone", "basics.summary", "basics.website",
		"certificates", "education", "interests", "languages", "publications",
		"references", "skills", "skills.languages_programming", "skills.professional",
		"skills.technical", "skills.tools", "volunteer", "work",
		"projects",
	}
	sort.Strings(want)
	if fmt.Sprint(topLevel) != fmt.Sprint(want) {
		t.Errorf("empty record keys = %v\nwant %v", topLevel, want)
	}
}

func TestEmptyRecord_SerializesWithNoNulls(t *testing.T) {
	data, err := json.Marshal(EmptyRecord())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for key, val := range doc {
		if val == nil {
			t.Errorf("key %q serialized as null; lists must be empty, never absent", key)
		}
	}
}

func TestEmptyRecord_ValidatesAgainstSchema(t *testing.T) {
	data, err := json.Marshal(EmptyRecord())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := Validate(data); err != nil {
		t.Errorf("empty record should satisfy the canonical schema: %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Run("missing sections rejected", func(t *testing.T) {
		if err := Validate([]byte(`{"basics": {}}`)); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("missing leaf fields accepted", func(t *testing.T) {
		rec := EmptyRecord()
		data, _ := json.Marshal(rec)
		var doc map[string]any
		json.Unmarshal(data, &doc)
		basics := doc["basics"].(map[string]any)
		delete(basics, "website")
		skills := doc["skills"].(map[string]any)
		delete(skills, "tools")
		mutated, _ := json.Marshal(doc)

		if err := Validate(mutated); err != nil {
			t.Errorf("missing leaf fields should pass validation: %v", err)
		}
	})

	t.Run("wrong types rejected", func(t *testing.T) {
		rec := EmptyRecord()
		data, _ := json.Marshal(rec)
		var doc map[string]any
		json.Unmarshal(data, &doc)
		doc["work"] = "not an array"
		mutated, _ := json.Marshal(doc)

		if err := Validate(mutated); err == nil {
			t.Error("expected validation error for non-array work")
		}
	})

	t.Run("invalid JSON rejected", func(t *testing.T) {
		if err := Validate([]byte(`{`)); err == nil {
			t.Error("expected error for malformed JSON")
		}
	})
}

func TestRecord_Normalize(t *testing.T) {
	var rec Record
	if err := json.Unmarshal([]byte(`{"basics":{"name":"Jane"},"work":[{"company":"Acme"}]}`), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	rec.Normalize()

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for key, val := range doc {
		if val == nil {
			t.Errorf("key %q is null after Normalize", key)
		}
	}

	work := doc["work"].([]any)[0].(map[string]any)
	if work["highlights"] == nil {
		t.Error("work highlights should normalize to empty list")
	}
}

func TestRecord_SectionCounts(t *testing.T) {
	rec := EmptyRecord()
	rec.Work = []Work{{}, {}}
	rec.Languages = []Language{{Language: "English"}}

	counts := rec.SectionCounts()
	if counts["work"] != 2 {
		t.Errorf("work count = %d", counts["work"])
	}
	if counts["languages"] != 1 {
		t.Errorf("languages count = %d", counts["languages"])
	}
	if counts["awards"] != 0 {
		t.Errorf("awards count = %d", counts["awards"])
	}
}
