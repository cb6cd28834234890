package normalize

import (
	"context"

	"github.com/opencampus/coursegen/core/course"
	"github.com/opencampus/coursegen/providers/observability"
)

// TOC normalizes an arbitrary JSON value into a canonical [course.TocDocument].
// The topic parameter seeds the synthetic stub when the input is unusable.
// TOC never fails; in the worst case the returned document is the stub.
func (n *Normalizer) TOC(ctx context.Context, raw any, topic string) (doc course.TocDocument) {
	defer func() {
		if r := recover(); r != nil {
			n.warn(ctx, "toc normalization panicked, falling back to stub",
				observability.String(observability.AttrTopic, topic))
			doc = stubToc(topic)
		}
	}()

	raw = decodeValue(raw)

	if strict, ok := strictTOC(raw); ok {
		return strict
	}

	doc = n.permissiveTOC(raw)

	base := doc.MainTopic
	if base == "" {
		base = topic
	}
	if doc.MainTopic == "" {
		doc.MainTopic = mainTopicOrDefault(base)
	}

	if len(doc.SubTopics) == 0 {
		n.warn(ctx, "toc has no sub-topics after normalization, applying stub",
			observability.String(observability.AttrTopic, topic))
		if span := observability.SpanFromContext(ctx); span != nil {
			span.AddEvent(observability.EventStubApplied)
		}
		doc.SubTopics = []course.SubTopic{stubSubTopic(base)}
	}

	if doc.Description == "" {
		doc.Description = "A structured course about " + doc.MainTopic + "."
	}

	ensureLessonTitles(&doc)
	return doc
}

// strictTOC attempts a direct decode against the canonical schema. It only
// succeeds when the result satisfies every structural invariant, so no
// fix-ups are needed on this path.
func strictTOC(raw any) (course.TocDocument, bool) {
	doc, ok := remarshal[course.TocDocument](raw)
	if !ok {
		return course.TocDocument{}, false
	}
	if doc.MainTopic == "" || len(doc.SubTopics) == 0 {
		return course.TocDocument{}, false
	}
	for _, st := range doc.SubTopics {
		if st.Title == "" || len(st.Chapters) == 0 {
			return course.TocDocument{}, false
		}
		for _, ch := range st.Chapters {
			if ch.Title == "" || len(ch.Lessons) == 0 {
				return course.TocDocument{}, false
			}
		}
	}
	return doc, true
}

// permissiveTOC resolves the document through the alias tables. A mainTopic
// alias holding a nested object (e.g. {"MainTopic": {"Title": ..., "Subtopics":
// [...]}}) is unwrapped so its fields feed the canonical top level.
func (n *Normalizer) permissiveTOC(raw any) course.TocDocument {
	var doc course.TocDocument

	m := asMap(raw)
	if m == nil {
		return doc
	}

	if v, ok := pick(m, mainTopicAliases); ok {
		if nested := asMap(v); nested != nil {
			doc.MainTopic = pickString(nested, titleAliases)
			if doc.MainTopic == "" {
				doc.MainTopic = pickString(nested, mainTopicAliases)
			}
			doc.Description = pickString(nested, descriptionAliases)
			if subs, ok := pick(nested, subTopicsAliases); ok {
				doc.SubTopics = parseSubTopics(subs)
			}
		} else {
			doc.MainTopic = asString(v)
		}
	}

	if doc.Description == "" {
		doc.Description = pickString(m, descriptionAliases)
	}

	if doc.SubTopics == nil {
		if subs, ok := pick(m, subTopicsAliases); ok {
			doc.SubTopics = parseSubTopics(subs)
		}
	}

	return doc
}

// parseSubTopics resolves a sub-topic list element by element. Elements that
// resolve to empty titles are retained with empty strings, not dropped.
func parseSubTopics(v any) []course.SubTopic {
	items := asSlice(v)
	subTopics := make([]course.SubTopic, 0, len(items))

	for _, item := range items {
		if s, ok := item.(string); ok {
			subTopics = append(subTopics, course.SubTopic{Title: s})
			continue
		}
		m := asMap(item)
		if m == nil {
			continue
		}
		subTopic := course.SubTopic{
			Title:       pickString(m, titleAliases),
			Description: pickString(m, descriptionAliases),
		}
		if chapters, ok := pick(m, chaptersAliases); ok {
			subTopic.Chapters = parseChapters(chapters)
		}
		subTopics = append(subTopics, subTopic)
	}

	return subTopics
}

func parseChapters(v any) []course.Chapter {
	items := asSlice(v)
	chapters := make([]course.Chapter, 0, len(items))

	for _, item := range items {
		if s, ok := item.(string); ok {
			chapters = append(chapters, course.Chapter{Title: s})
			continue
		}
		m := asMap(item)
		if m == nil {
			continue
		}
		chapter := course.Chapter{
			Title:       pickString(m, titleAliases),
			Description: pickString(m, descriptionAliases),
		}
		if lessons, ok := pick(m, lessonsAliases); ok {
			chapter.Lessons = parseLessonTitles(lessons)
		}
		chapters = append(chapters, chapter)
	}

	return chapters
}

// parseLessonTitles accepts lesson entries as plain strings or as objects
// carrying a title alias.
func parseLessonTitles(v any) []string {
	items := asSlice(v)
	titles := make([]string, 0, len(items))

	for _, item := range items {
		if s, ok := item.(string); ok {
			titles = append(titles, s)
			continue
		}
		if m := asMap(item); m != nil {
			titles = append(titles, pickString(m, titleAliases))
		}
	}

	return titles
}

/*
	##### SYNTHETIC STUB #####
*/

func mainTopicOrDefault(base string) string {
	if base == "" {
		return "General Topic"
	}
	return base
}

// stubSubTopic is the last-resort one-subtopic/one-chapter/one-lesson
// structure. Its shape is part of the package contract: downstream stages and
// tests rely on the "Understanding <topic>" title.
func stubSubTopic(base string) course.SubTopic {
	base = mainTopicOrDefault(base)
	return course.SubTopic{
		Title:       "Understanding " + base,
		Description: "An introduction to " + base + ".",
		Chapters: []course.Chapter{
			{
				Title:       "Introduction to " + base,
				Description: "Core concepts and terminology.",
				Lessons:     []string{"What is " + base + "?"},
			},
		},
	}
}

func stubToc(topic string) course.TocDocument {
	base := mainTopicOrDefault(topic)
	return course.TocDocument{
		MainTopic:   base,
		Description: "A structured course about " + base + ".",
		SubTopics:   []course.SubTopic{stubSubTopic(base)},
	}
}

// ensureLessonTitles enforces the invariant that every chapter carries at
// least one lesson title.
func ensureLessonTitles(doc *course.TocDocument) {
	for si := range doc.SubTopics {
		for ci := range doc.SubTopics[si].Chapters {
			chapter := &doc.SubTopics[si].Chapters[ci]
			if len(chapter.Lessons) == 0 {
				title := chapter.Title
				if title == "" {
					title = doc.MainTopic
				}
				chapter.Lessons = []string{"Overview of " + title}
			}
		}
	}
}
