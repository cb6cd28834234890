// Package jsonschema generates JSON Schema documents from Go types via
// reflection. The schemas are embedded into provider requests (or prompts,
// for providers without a native structured-output mode) to steer the model
// toward the canonical course structures.
package jsonschema
