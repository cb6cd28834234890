package observability

// Shared attribute and event names used across the generation pipeline, so
// spans and metrics stay queryable regardless of which Provider backs them.
const (
	AttrRunID        = "pipeline.run_id"
	AttrTopic        = "pipeline.topic"
	AttrStage        = "pipeline.stage"
	AttrSubTopic     = "pipeline.subtopic"
	AttrChapter      = "pipeline.chapter"
	AttrCacheKey     = "pipeline.cache_key"
	AttrChunkCount   = "pipeline.chunk_count"
	AttrLessonCount  = "pipeline.lesson_count"
	AttrModel        = "llm.model"
	AttrFinishReason = "llm.finish_reason"
	AttrStatus       = "status"

	EventCacheHit    = "cache.hit"
	EventCacheMiss   = "cache.miss"
	EventNormalized  = "normalize.applied"
	EventStubApplied = "normalize.stub_applied"

	MetricStageDuration = "pipeline.stage.duration_seconds"
	MetricCacheHits     = "pipeline.cache.hits"
	MetricCacheMisses   = "pipeline.cache.misses"
	MetricChapterErrors = "pipeline.chapter.errors"
	MetricLLMCalls      = "llm.calls"
	MetricLLMTokens     = "llm.tokens.total"
)
