package registry

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"composegen/internal/compose"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadCluster_JSONKeepsOrder(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cluster.json", `{
  "zeta": {"cuda:3": "m2", "cuda:0-1": "m1"},
  "alpha": {"cuda:0": "m1"}
}`)
	spec, err := LoadCluster(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := compose.ClusterSpec{
		{Name: "zeta", Assignments: compose.HostAssignment{{Selector: "cuda:3", Model: "m2"}, {Selector: "cuda:0-1", Model: "m1"}}},
		{Name: "alpha", Assignments: compose.HostAssignment{{Selector: "cuda:0", Model: "m1"}}},
	}
	if !reflect.DeepEqual(spec, want) {
		t.Fatalf("unexpected spec: %+v", spec)
	}
}

func TestParseCluster_YAML(t *testing.T) {
	spec, err := ParseCluster([]byte("gpu-1:\n  cuda:0-3: org/Model-7B\n  \"cuda:4\": m1\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(spec) != 1 || spec[0].Name != "gpu-1" || len(spec[0].Assignments) != 2 {
		t.Fatalf("unexpected spec: %+v", spec)
	}
	if spec[0].Assignments[0] != (compose.Assignment{Selector: "cuda:0-3", Model: "org/Model-7B"}) {
		t.Fatalf("first assignment: %+v", spec[0].Assignments[0])
	}
}

func TestParseCluster_BadSelectorIsNotASchemaError(t *testing.T) {
	spec, err := ParseCluster([]byte(`{"a": {"cuda:x": "m"}, "b": {"cuda:0": "m"}}`))
	if err != nil {
		t.Fatalf("selector syntax must be left to the assembler: %v", err)
	}
	if len(spec) != 2 {
		t.Fatalf("unexpected spec: %+v", spec)
	}
}

func TestParseCluster_SchemaViolations(t *testing.T) {
	cases := map[string]string{
		"array root":     `["a"]`,
		"empty":          `{}`,
		"host not map":   `{"a": "cuda:0"}`,
		"model not str":  `{"a": {"cuda:0": 7}}`,
		"empty model":    `{"a": {"cuda:0": ""}}`,
		"nested objects": `{"a": {"cuda:0": {"m": "x"}}}`,
	}
	for name, doc := range cases {
		_, err := ParseCluster([]byte(doc))
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if _, ok := err.(*SchemaError); !ok {
			t.Fatalf("%s: expected *SchemaError, got %T %v", name, err, err)
		}
	}
}

func TestParseCluster_DuplicateHost(t *testing.T) {
	_, err := ParseCluster([]byte("a:\n  cuda:0: m\na:\n  cuda:1: m\n"))
	if err == nil || !strings.Contains(err.Error(), "defined twice") {
		t.Fatalf("expected duplicate host error, got %v", err)
	}
}

func TestParseCluster_Malformed(t *testing.T) {
	if _, err := ParseCluster([]byte(`{"a": {"cuda:0": "m"`)); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadCluster_MissingFileIsIOFailure(t *testing.T) {
	_, err := LoadCluster(filepath.Join(t.TempDir(), "nope.json"))
	if !compose.IsIOFailure(err) {
		t.Fatalf("expected io failure, got %v", err)
	}
}

func TestLoadImages(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "images.yaml", "m1: img:latest\norg/Model-7B: registry.local/vllm:0.6\n")
	images, err := LoadImages(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := compose.ImageCatalog{"m1": "img:latest", "org/Model-7B": "registry.local/vllm:0.6"}
	if !reflect.DeepEqual(images, want) {
		t.Fatalf("images=%v", images)
	}
}

func TestParseImages_Errors(t *testing.T) {
	if _, err := ParseImages([]byte(`{"m1": 3}`)); err == nil {
		t.Fatalf("expected schema error for non-string image")
	}
	if _, err := ParseImages([]byte("- a\n- b\n")); err == nil {
		t.Fatalf("expected schema error for list")
	}
	if _, err := LoadImages(filepath.Join(t.TempDir(), "missing.yaml")); !compose.IsIOFailure(err) {
		t.Fatalf("expected io failure, got %v", err)
	}
}

func TestParseImages_EmptyObject(t *testing.T) {
	images, err := ParseImages([]byte("{}"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if images == nil || len(images) != 0 {
		t.Fatalf("images=%v", images)
	}
}
