// Package normalize reconciles the many shapes an LLM may answer in into the
// canonical course schema. It is deliberately forgiving: a strict decode is
// attempted first, then a permissive decode that maps dozens of field aliases
// onto the canonical names, and finally a deterministic synthetic stub, so
// callers never receive an error or an empty tree. Lesson normalization
// additionally bridges the legacy text-plus-quiz lesson shape into the
// card-based schema, and is idempotent over already-canonical input.
package normalize
