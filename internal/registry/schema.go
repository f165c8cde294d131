package registry

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"sigs.k8s.io/yaml"
)

// clusterSchema checks structure only. Selector syntax is left to the
// parser so a bad selector fails its host instead of the whole run.
const clusterSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "cluster",
  "type": "object",
  "minProperties": 1,
  "additionalProperties": {
    "type": "object",
    "additionalProperties": {"type": "string", "minLength": 1}
  }
}`

const imagesSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "images",
  "type": "object",
  "additionalProperties": {"type": "string"}
}`

var (
	clusterSchemaLoader = gojsonschema.NewStringLoader(clusterSchema)
	imagesSchemaLoader  = gojsonschema.NewStringLoader(imagesSchema)
)

// SchemaError lists every violation found in one input document.
type SchemaError struct {
	Document string
	Errors   []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: schema validation failed: %s", e.Document, strings.Join(e.Errors, "; "))
}

// validate converts a YAML or JSON document to JSON and checks it against schema.
func validate(doc string, schema gojsonschema.JSONLoader, data []byte) error {
	raw, err := yaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("%s: parse: %w", doc, err)
	}
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%s: schema validation error: %w", doc, err)
	}
	if result.Valid() {
		return nil
	}
	se := &SchemaError{Document: doc}
	for _, e := range result.Errors() {
		se.Errors = append(se.Errors, e.String())
	}
	return se
}
