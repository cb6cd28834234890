// Package parse extracts structured data from raw LLM text output. Because
// language models frequently wrap JSON in narrative prose or markdown code
// fences, this package applies a layered recovery strategy — candidate
// extraction, then automatic JSON repair — before falling back to a clear
// error. The main entry point is the generic [As] function.
package parse
