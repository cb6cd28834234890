package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Schema is a minimal JSON Schema representation, sufficient for describing
// the request/response structures exchanged with LLM providers.
type Schema struct {
	Type                 string             `json:"type,omitempty"`
	Description          string             `json:"description,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	Required             []string           `json:"required,omitempty"`
	Enum                 []any              `json:"enum,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
}

// GenerateJSONSchema builds a Schema by reflecting over the type parameter T.
// Struct fields are mapped through their json tags; the jsonschema struct tag
// adds descriptions, enums, and required markers:
//
//	type Chapter struct {
//	    Title   string   `json:"title" jsonschema:"description=Chapter title,required"`
//	    Lessons []string `json:"lessons" jsonschema:"required"`
//	}
func GenerateJSONSchema[T any]() (*Schema, error) {
	t := reflect.TypeFor[T]()
	schema := generate(t)
	if schema == nil {
		return nil, fmt.Errorf("jsonschema: unsupported type %s", t.Kind())
	}
	return schema, nil
}

func generate(t reflect.Type) *Schema {
	switch t.Kind() {
	case reflect.Pointer:
		return generate(t.Elem())
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}
	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: generate(t.Elem())}
	case reflect.Map:
		// Map values share one schema; keys must be strings in JSON anyway.
		return &Schema{Type: "object"}
	case reflect.Struct:
		return generateStruct(t)
	case reflect.Interface:
		// No constraint can be expressed for any/interface{} values.
		return &Schema{}
	default:
		return nil
	}
}

func generateStruct(t reflect.Type) *Schema {
	schema := &Schema{
		Type:       "object",
		Properties: map[string]*Schema{},
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := fieldName(field)
		if name == "-" {
			continue
		}

		fieldSchema := generate(field.Type)
		if fieldSchema == nil {
			continue
		}

		required := applyTag(field.Tag.Get("jsonschema"), fieldSchema)
		schema.Properties[name] = fieldSchema
		if required {
			schema.Required = append(schema.Required, name)
		}
	}

	return schema
}

// fieldName resolves the JSON property name of a struct field, honoring the
// json tag and falling back to the Go field name.
func fieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}

// applyTag parses the jsonschema struct tag into the field schema. Supported
// directives: description=..., enum=... (repeatable), required. Returns true
// when the field is marked required.
func applyTag(tag string, schema *Schema) bool {
	if tag == "" {
		return false
	}

	required := false
	for _, part := range strings.Split(tag, ",") {
		switch {
		case part == "required":
			required = true
		case strings.HasPrefix(part, "description="):
			schema.Description = strings.TrimPrefix(part, "description=")
		case strings.HasPrefix(part, "enum="):
			raw := strings.TrimPrefix(part, "enum=")
			schema.Enum = append(schema.Enum, coerceEnumValue(raw, schema.Type))
		}
	}
	return required
}

// coerceEnumValue converts an enum tag literal to the field's JSON type so the
// emitted schema carries typed enum members rather than strings.
func coerceEnumValue(raw, schemaType string) any {
	switch schemaType {
	case "integer":
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return v
		}
	case "number":
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	case "boolean":
		if v, err := strconv.ParseBool(raw); err == nil {
			return v
		}
	}
	return raw
}

// JsonString serializes the schema to JSON. When the optional indent argument
// is true the output is pretty-printed with two-space indentation.
func (s *Schema) JsonString(indent ...bool) (string, error) {
	var encoded []byte
	var err error
	if len(indent) > 0 && indent[0] {
		encoded, err = json.MarshalIndent(s, "", "  ")
	} else {
		encoded, err = json.Marshal(s)
	}
	if err != nil {
		return "", fmt.Errorf("jsonschema: marshal: %w", err)
	}
	return string(encoded), nil
}

// String implements fmt.Stringer; marshalling failures are reported inline so
// the result is always safe to embed in prompts and logs.
func (s *Schema) String() string {
	out, err := s.JsonString()
	if err != nil {
		return "{\"error\": \"" + err.Error() + "\"}"
	}
	return out
}
