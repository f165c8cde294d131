package types

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestLabels_DecodeShapes(t *testing.T) {
	var req ClassifyRequest
	if err := json.Unmarshal([]byte(`{"texts":["a","b"],"labels":["x","y"],"batch_size":5}`), &req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.Labels.Kind() != SharedLabels || !reflect.DeepEqual(req.Labels.For(1), []string{"x", "y"}) || req.BatchSize != 5 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	req = ClassifyRequest{}
	if err := json.Unmarshal([]byte(`{"texts":["a","b"],"labels":[["x"],["y","z"]]}`), &req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.Labels.Kind() != PerItemLabels || !reflect.DeepEqual(req.Labels.For(1), []string{"y", "z"}) {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.Labels.For(5) != nil {
		t.Fatalf("out of range index should have no labels")
	}
}

func TestLabels_DecodeErrors(t *testing.T) {
	for _, doc := range []string{`[]`, `"x"`, `[1,2]`, `[["x"], "y"]`, `{"a":1}`} {
		var l Labels
		if err := json.Unmarshal([]byte(doc), &l); err == nil {
			t.Fatalf("%s: expected error, got %+v", doc, l)
		}
	}
}

func TestLabels_MarshalKeepsShape(t *testing.T) {
	b, err := json.Marshal(ClassifyRequest{Texts: []string{"t"}, Labels: Shared("a", "b")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"texts":["t"],"labels":["a","b"]}` {
		t.Fatalf("shared: %s", b)
	}
	b, err = json.Marshal(PerItem([][]string{{"a"}, {"b", "c"}}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `[["a"],["b","c"]]` {
		t.Fatalf("per item: %s", b)
	}
}

func TestClassifyRequest_Validate(t *testing.T) {
	cases := []ClassifyRequest{
		{Labels: Shared("a")},
		{Texts: []string{"t"}},
		{Texts: []string{"t"}, Labels: Shared()},
		{Texts: []string{"t", "u"}, Labels: PerItem([][]string{{"a"}})},
		{Texts: []string{"t"}, Labels: PerItem([][]string{{}})},
		{Texts: []string{"t"}, Labels: Shared("a"), BatchSize: -1},
	}
	for i, c := range cases {
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}
