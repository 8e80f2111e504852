package dictionary

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultContainsCommonWords(t *testing.T) {
	dict := Default()
	if dict.Len() < 500 {
		t.Fatalf("expected a few hundred words, got %d", dict.Len())
	}
	for _, word := range []string{"release", "Export", "TEXT", "window"} {
		if !dict.Contains(word) {
			t.Fatalf("expected %q in the default dictionary", word)
		}
	}
	if dict.Contains("viet") {
		t.Fatalf("did not expect viet in the default dictionary")
	}
}

func TestLoadAndMerge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.tsv")
	if err := os.WriteFile(path, []byte("# extra\nkubernetes\tcontainer orchestrator\n\ngolang\n"), 0o644); err != nil {
		t.Fatalf("write dict: %v", err)
	}

	extra, err := Load(path)
	if err != nil {
		t.Fatalf("load dict: %v", err)
	}
	if extra.Len() != 2 {
		t.Fatalf("expected 2 words, got %d", extra.Len())
	}

	dict := Default()
	before := dict.Len()
	dict.Merge(extra)
	if !dict.Contains("kubernetes") || dict.Len() != before+2 {
		t.Fatalf("expected merged words to be present")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestNilDictionary(t *testing.T) {
	var dict *Dictionary
	if dict.Contains("anything") || dict.Len() != 0 {
		t.Fatalf("nil dictionary should be empty")
	}
}
