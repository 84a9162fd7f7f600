package manifest

import "github.com/santhosh-tekuri/jsonschema/v5"

// schemaJSON is the structural contract for manifest files. Validation
// happens before unmarshalling so malformed manifests fail with a
// descriptive error instead of surfacing as zero values downstream.
const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "topology", "weights", "shards"],
  "properties": {
    "version": {"type": "string"},
    "topology": {
      "type": "object",
      "required": ["format", "input_name", "output_name", "input_size", "class_count"],
      "properties": {
        "format": {"type": "string", "minLength": 1},
        "input_name": {"type": "string", "minLength": 1},
        "output_name": {"type": "string", "minLength": 1},
        "input_size": {"type": "integer", "minimum": 1},
        "class_count": {"type": "integer", "minimum": 1}
      }
    },
    "weights": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "shape", "dtype"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "shape": {
            "type": "array",
            "minItems": 1,
            "items": {"type": "integer", "minimum": 1}
          },
          "dtype": {"enum": ["float32", "int32", "uint8"]}
        }
      }
    },
    "shards": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string", "minLength": 1}
    }
  }
}`

var schema = jsonschema.MustCompileString("leafsense.manifest.v1.schema.json", schemaJSON)
