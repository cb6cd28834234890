// Package course holds the canonical course-content data model: the table of
// contents ([TocDocument]) produced by the TOC stage and the fully expanded
// [ContentTree] produced by the content stage. All heterogeneous model output
// is coerced into these types by package normalize before anything else sees it.
package course
