package session

import (
	"encoding/json"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func openTemp(t *testing.T) *History {
	t.Helper()
	h, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHistoryAppendAndEntries(t *testing.T) {
	h := openTemp(t)
	inputs := []string{"let x = 1", "x + 1", `println("hi")`}
	for _, in := range inputs {
		if err := h.Append(in); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := h.Entries()
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if !reflect.DeepEqual(got, inputs) {
		t.Errorf("entries = %v, want %v", got, inputs)
	}
}

func TestHistoryLast(t *testing.T) {
	h := openTemp(t)
	for _, in := range []string{"a", "b", "c", "d"} {
		if err := h.Append(in); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := h.Last(2)
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"c", "d"}) {
		t.Errorf("last(2) = %v", got)
	}

	got, err = h.Last(10)
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("last(10) returned %d entries", len(got))
	}
}

func TestHistoryClear(t *testing.T) {
	h := openTemp(t)
	if err := h.Append("let x = 1"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := h.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err := h.Entries()
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty history, got %v", got)
	}

	// The bucket survives a clear.
	if err := h.Append("y"); err != nil {
		t.Fatalf("append after clear: %v", err)
	}
}

func TestProofRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proof.json")
	proof := &SavedProof{
		Goal:        "forall n. n + 0 == n",
		Steps:       []string{"intro n", "rewrite add_zero", "reflexivity"},
		DurationMS:  1250,
		TacticsUsed: []string{"intro", "rewrite", "reflexivity"},
		Confidence:  0.98,
	}
	if err := WriteProof(path, proof); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadProof(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(got, proof) {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestRecordFieldNames(t *testing.T) {
	data, err := json.Marshal(&SavedProof{Goal: "g"})
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"goal"`, `"steps"`, `"duration_ms"`, `"tactics_used"`, `"confidence"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("proof JSON missing %s: %s", key, data)
		}
	}

	data, err = json.Marshal(&LintIssue{Line: 3, Column: 7, Severity: "warning",
		Rule: "unused_variable", Message: "x is never read", Type: "variable", Name: "x"})
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"line"`, `"column"`, `"severity"`, `"rule"`, `"message"`, `"type"`, `"name"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("lint JSON missing %s: %s", key, data)
		}
	}
}
