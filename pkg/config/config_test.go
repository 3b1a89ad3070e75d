package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validGraphJSON = `{
	"center_id": "a",
	"nodes": [
		{"id": "a", "label": "a", "kind": "CLASS", "depth": 0},
		{"id": "b", "label": "b", "kind": "CLASS", "depth": 1}
	],
	"edges": [
		{"id": "e1", "source": "a", "target": "b", "kind": "CALL"}
	]
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadGraphResponseValidFile(t *testing.T) {
	path := writeTemp(t, "graph.json", validGraphJSON)
	resp, err := LoadGraphResponse(path)
	if err != nil {
		t.Fatalf("LoadGraphResponse returned error: %v", err)
	}
	if resp.CenterID != "a" {
		t.Fatalf("CenterID = %q, want %q", resp.CenterID, "a")
	}
	if len(resp.Nodes) != 2 || len(resp.Edges) != 1 {
		t.Fatalf("unexpected node/edge counts: %d/%d", len(resp.Nodes), len(resp.Edges))
	}
}

func TestLoadGraphResponseMissingFile(t *testing.T) {
	_, err := LoadGraphResponse(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestLoadGraphResponseMalformedJSON(t *testing.T) {
	path := writeTemp(t, "bad.json", `{not valid json`)
	_, err := LoadGraphResponse(path)
	if err == nil {
		t.Fatalf("expected an error for malformed JSON")
	}
}

func TestLoadGraphResponseFailsBoundaryValidation(t *testing.T) {
	path := writeTemp(t, "no-center.json", `{
		"center_id": "missing",
		"nodes": [{"id": "a", "label": "a", "kind": "CLASS", "depth": 0}],
		"edges": []
	}`)
	_, err := LoadGraphResponse(path)
	if err == nil {
		t.Fatalf("expected a validation error when center_id is absent from nodes")
	}
}

func TestLoadGraphResponseDuplicateNodeID(t *testing.T) {
	path := writeTemp(t, "dup.json", `{
		"center_id": "a",
		"nodes": [
			{"id": "a", "label": "a", "kind": "CLASS", "depth": 0},
			{"id": "a", "label": "a2", "kind": "CLASS", "depth": 0}
		],
		"edges": []
	}`)
	_, err := LoadGraphResponse(path)
	if err == nil {
		t.Fatalf("expected a validation error for duplicate node ids")
	}
}
