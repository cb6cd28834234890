// Package retriever defines the Provider interface for semantic context
// retrieval and the [Chunk] unit it returns. The bundled implementations are
// [github.com/opencampus/coursegen/providers/retriever/static], an in-memory
// keyword matcher for tests and offline use, and
// [github.com/opencampus/coursegen/providers/retriever/rest], a client for
// HTTP vector-search services.
package retriever
