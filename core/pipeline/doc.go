// Package pipeline orchestrates course generation end to end: context
// retrieval, table-of-contents generation, and parallel per-chapter content
// generation, with chapter-level caching and fault isolation.
//
// A run threads an immutable-per-stage [State] through three stages. The
// context stage gathers reference material. The TOC stage asks the model for
// a course skeleton and normalizes whatever comes back into a guaranteed
// non-degenerate document. The content stage fans out over sub-topics,
// expanding each chapter into full lessons; individual chapter failures are
// captured as placeholder lessons instead of failing the run.
package pipeline
