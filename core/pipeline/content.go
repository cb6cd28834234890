package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/opencampus/coursegen/core/course"
	"github.com/opencampus/coursegen/core/parse"
	"github.com/opencampus/coursegen/providers/ai"
	"github.com/opencampus/coursegen/providers/observability"
	"github.com/opencampus/coursegen/providers/retriever"
)

// ErrorLessonTitle marks a lesson standing in for a chapter whose generation
// failed. Consumers can filter on it to find chapters worth regenerating.
const ErrorLessonTitle = "Error generating content"

// stageContent expands every chapter of the TOC into full lesson content.
// Sub-topics fan out in parallel (bounded by the configured concurrency);
// chapters within a sub-topic run sequentially. A chapter failure never fails
// the run or its siblings: it yields a single error lesson in place.
func (p *Pipeline) stageContent(ctx context.Context, state *State) *State {
	next := state.clone()

	if next.Toc == nil {
		next.Toc = p.recoverToc(ctx, next)
	}
	if next.Toc == nil {
		next.Error = "TOC data missing; run the TOC stage first"
		return next
	}
	toc := next.Toc

	// Results are written by index so the output order matches the TOC
	// regardless of completion order.
	results := make([]course.SubTopicContent, len(toc.SubTopics))
	usage := &usageCollector{}
	history := next.History
	base := next.ContextChunks

	group, groupCtx := errgroup.WithContext(ctx)
	if p.concurrency > 0 {
		group.SetLimit(p.concurrency)
	}

	for i, subTopic := range toc.SubTopics {
		group.Go(func() error {
			// Always nil: chapter failures are captured inline, so one
			// bad sub-topic never cancels its siblings.
			results[i] = p.generateSubTopic(groupCtx, toc, subTopic, base, history, usage)
			return nil
		})
	}
	_ = group.Wait()

	next.Usage.Add(usage.total)
	next.GeneratedContent = &course.ContentTree{
		MainTopic:   toc.MainTopic,
		Description: toc.Description,
		SubTopics:   results,
	}
	return next
}

// generateSubTopic expands one sub-topic chapter by chapter.
func (p *Pipeline) generateSubTopic(ctx context.Context, toc *course.TocDocument, subTopic course.SubTopic, base []retriever.Chunk, history []ai.Message, usage *usageCollector) course.SubTopicContent {
	ctx, span := p.startSpan(ctx, "pipeline.subtopic",
		observability.String(observability.AttrSubTopic, subTopic.Title))

	out := course.SubTopicContent{
		Title:       subTopic.Title,
		Description: subTopic.Description,
		Chapters:    make([]course.ChapterContent, 0, len(subTopic.Chapters)),
	}
	for _, chapter := range subTopic.Chapters {
		out.Chapters = append(out.Chapters, p.generateChapter(ctx, toc, subTopic, chapter, base, history, usage))
	}

	if span != nil {
		span.End()
	}
	return out
}

// generateChapter produces the lesson content for one chapter: cache lookup,
// then retrieval, then one LLM call, then normalization and write-back. Every
// failure path degrades to an error chapter so the sub-topic keeps its shape.
func (p *Pipeline) generateChapter(ctx context.Context, toc *course.TocDocument, subTopic course.SubTopic, chapter course.Chapter, base []retriever.Chunk, history []ai.Message, usage *usageCollector) (out course.ChapterContent) {
	key := cacheKey(subTopic.Title, chapter.Title)

	ctx, span := p.startSpan(ctx, "pipeline.chapter",
		observability.String(observability.AttrChapter, chapter.Title),
		observability.String(observability.AttrCacheKey, key))
	defer func() {
		if r := recover(); r != nil {
			p.count(ctx, observability.MetricChapterErrors)
			out = errorChapter(chapter, fmt.Errorf("panic: %v", r))
		}
		if span != nil {
			span.SetAttributes(observability.Int(observability.AttrLessonCount, len(out.Lessons)))
			span.End()
		}
	}()

	if cached, ok := p.cachedChapter(ctx, key, chapter); ok {
		if span != nil {
			span.AddEvent(observability.EventCacheHit)
		}
		p.count(ctx, observability.MetricCacheHits)
		return cached
	}
	if span != nil {
		span.AddEvent(observability.EventCacheMiss)
	}
	p.count(ctx, observability.MetricCacheMisses)

	// The run's base context always rides along; the chapter-scoped search
	// results follow it, with contextText enforcing the overall budget.
	fresh := p.chapterContext(ctx, toc.MainTopic, subTopic.Title, chapter.Title)
	chunks := make([]retriever.Chunk, 0, len(base)+len(fresh))
	chunks = append(chunks, base...)
	chunks = append(chunks, fresh...)
	userPrompt := chapterUserPrompt(toc.MainTopic, subTopic, chapter, contextText(chunks, p.contextBudget))

	resp, err := p.client.CompleteJSON(ctx, contentSystemPrompt, history, userPrompt, p.chapterSchema)
	if err != nil {
		p.warn(ctx, "chapter generation failed",
			observability.Error(err),
			observability.String(observability.AttrChapter, chapter.Title))
		p.count(ctx, observability.MetricChapterErrors)
		return errorChapter(chapter, err)
	}
	usage.add(resp.Usage)

	raw, err := parse.As[any](resp.Content)
	if err != nil {
		p.warn(ctx, "chapter response is not valid json, normalizing sentinel",
			observability.Error(err),
			observability.String(observability.AttrChapter, chapter.Title))
		raw = parseFailureSentinel
	}

	content := p.normalizer.ChapterLessons(ctx, raw, chapter)
	p.persistChapter(ctx, key, content)
	return content
}

// cacheKey identifies a chapter in the store. Keys are distinct per
// (sub-topic, chapter) pair, so concurrent sub-topic tasks never contend on
// the same key.
func cacheKey(subTopic, chapter string) string {
	return subTopic + "-" + chapter
}

// cachedChapter attempts a cache lookup. Lookup errors and undecodable
// entries are both treated as misses; a corrupt entry must never poison a run.
func (p *Pipeline) cachedChapter(ctx context.Context, key string, chapter course.Chapter) (course.ChapterContent, bool) {
	if p.store == nil {
		return course.ChapterContent{}, false
	}

	raw, exists, err := p.store.Get(ctx, key)
	if err != nil {
		p.warn(ctx, "cache lookup failed, regenerating",
			observability.Error(err),
			observability.String(observability.AttrCacheKey, key))
		return course.ChapterContent{}, false
	}
	if !exists {
		return course.ChapterContent{}, false
	}

	var cached course.ChapterLessons
	if err := json.Unmarshal([]byte(raw), &cached); err != nil || len(cached.Lessons) == 0 {
		p.warn(ctx, "cache entry is corrupt, regenerating",
			observability.String(observability.AttrCacheKey, key))
		return course.ChapterContent{}, false
	}

	// The chapter heading always comes from the TOC, matching the
	// normalizer's contract for fresh generations.
	return course.ChapterContent{
		Title:       chapter.Title,
		Description: chapter.Description,
		Lessons:     cached.Lessons,
	}, true
}

// persistChapter writes a generated chapter back to the store. Failures are
// logged only; the content is already in hand.
func (p *Pipeline) persistChapter(ctx context.Context, key string, content course.ChapterContent) {
	if p.store == nil {
		return
	}

	payload, err := json.Marshal(course.ChapterLessons{
		Title:       content.Title,
		Description: content.Description,
		Lessons:     content.Lessons,
	})
	if err != nil {
		p.warn(ctx, "failed to encode chapter for persistence", observability.Error(err))
		return
	}

	if err := p.store.Set(ctx, key, string(payload)); err != nil {
		p.warn(ctx, "failed to persist chapter",
			observability.Error(err),
			observability.String(observability.AttrCacheKey, key))
	}
}

// chapterContext retrieves reference chunks scoped to one chapter. Retrieval
// failure degrades to no context.
func (p *Pipeline) chapterContext(ctx context.Context, mainTopic, subTopic, chapter string) []retriever.Chunk {
	if p.retriever == nil {
		return nil
	}

	query := mainTopic + " " + subTopic + " " + chapter
	chunks, err := p.retriever.Search(ctx, query, chapterTopK)
	if err != nil {
		p.warn(ctx, "chapter retrieval failed, proceeding without context",
			observability.Error(err),
			observability.String(observability.AttrChapter, chapter))
		return nil
	}
	return chunks
}

// recoverToc rebuilds the table of contents when a caller re-enters the
// content stage without one: first from the last assistant message in the
// history, then from the persisted copy in the store.
func (p *Pipeline) recoverToc(ctx context.Context, state *State) *course.TocDocument {
	for i := len(state.History) - 1; i >= 0; i-- {
		if state.History[i].Role != ai.RoleAssistant {
			continue
		}
		raw, err := parse.As[any](state.History[i].Content)
		if err != nil {
			continue
		}
		doc := p.normalizer.TOC(ctx, raw, state.Topic)
		p.info(ctx, "recovered toc from conversation history",
			observability.String(observability.AttrTopic, state.Topic))
		return &doc
	}

	if p.store != nil {
		if raw, exists, err := p.store.Get(ctx, tocKeyPrefix+state.Topic); err == nil && exists {
			var doc course.TocDocument
			if json.Unmarshal([]byte(raw), &doc) == nil && len(doc.SubTopics) > 0 {
				p.info(ctx, "recovered toc from store",
					observability.String(observability.AttrTopic, state.Topic))
				return &doc
			}
		}
	}

	return nil
}

// errorChapter is the placeholder emitted when a chapter cannot be generated.
func errorChapter(chapter course.Chapter, err error) course.ChapterContent {
	return course.ChapterContent{
		Title:       chapter.Title,
		Description: chapter.Description,
		Lessons: []course.LessonContent{
			{
				LessonInfo: course.LessonInfo{
					Title:       ErrorLessonTitle,
					Description: "This chapter could not be generated.",
				},
				MemoryCards: []course.MemoryCard{
					{
						Title:       ErrorLessonTitle,
						Description: fmt.Sprintf("Generation failed: %v. Run the pipeline again to retry this chapter.", err),
					},
				},
			},
		},
	}
}

// usageCollector aggregates token usage across concurrent chapter tasks.
type usageCollector struct {
	mu    sync.Mutex
	total ai.Usage
}

func (u *usageCollector) add(usage *ai.Usage) {
	if usage == nil {
		return
	}
	u.mu.Lock()
	u.total.Add(*usage)
	u.mu.Unlock()
}
