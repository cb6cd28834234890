package normalize

import (
	"context"

	"github.com/opencampus/coursegen/core/course"
	"github.com/opencampus/coursegen/providers/observability"
)

// FeedbackQuestion is the fixed open-ended question attached to lessons
// bridged from the minimal text-plus-quiz shape, which carries no reflective
// question of its own.
const FeedbackQuestion = "What part of this lesson was hardest to follow, and what would you like to revisit?"

// FallbackLessonNote is the body used when a response yields no usable
// lessons at all and placeholders are synthesized from the lesson titles.
const FallbackLessonNote = "This lesson could not be generated automatically. Regenerate the chapter to fill it in."

// ChapterLessons normalizes a raw LLM response into the lessons of one
// chapter. The chapter's canonical title and description always come from the
// TOC, never from the response, so a confused model cannot rename a chapter.
// Like TOC, this never fails: an unusable response degrades to placeholder
// lessons derived from the chapter's lesson titles.
func (n *Normalizer) ChapterLessons(ctx context.Context, raw any, chapter course.Chapter) (out course.ChapterContent) {
	out = course.ChapterContent{
		Title:       chapter.Title,
		Description: chapter.Description,
	}

	defer func() {
		if r := recover(); r != nil {
			n.warn(ctx, "lesson normalization panicked, falling back to placeholders",
				observability.String(observability.AttrChapter, chapter.Title))
			out.Lessons = fallbackLessons(chapter)
		}
	}()

	out.Lessons = n.lessons(ctx, decodeValue(raw))
	if len(out.Lessons) == 0 {
		n.warn(ctx, "response yielded no lessons, synthesizing placeholders",
			observability.String(observability.AttrChapter, chapter.Title))
		out.Lessons = fallbackLessons(chapter)
	}
	return out
}

// lessons resolves the lesson array out of raw and normalizes each element.
func (n *Normalizer) lessons(ctx context.Context, raw any) []course.LessonContent {
	items := asSlice(raw)
	if items == nil {
		m := asMap(raw)
		if m == nil {
			return nil
		}
		if wrapped, ok := pick(m, lessonsAliases); ok {
			items = asSlice(wrapped)
		} else if isLessonShaped(m) {
			// A single lesson object instead of an array.
			items = []any{raw}
		}
	}

	lessons := make([]course.LessonContent, 0, len(items))
	for _, item := range items {
		if lesson, ok := n.lesson(ctx, item); ok {
			lessons = append(lessons, lesson)
		}
	}
	return lessons
}

// lesson normalizes one lesson element. Already-rich lessons pass through
// unchanged so normalization is idempotent; minimal and string-shaped lessons
// are bridged into the rich schema.
func (n *Normalizer) lesson(ctx context.Context, item any) (course.LessonContent, bool) {
	if s, ok := item.(string); ok {
		return bridgeMinimal(course.MinimalLesson{Title: s}), true
	}

	m := asMap(item)
	if m == nil {
		return course.LessonContent{}, false
	}

	if _, rich := pick(m, lessonInfoAliases); rich {
		if lesson, ok := remarshal[course.LessonContent](m); ok {
			return lesson, true
		}
	}

	minimal := course.MinimalLesson{
		Title:   pickString(m, titleAliases),
		Content: pickString(m, contentAliases),
	}
	if quiz, ok := pick(m, quizAliases); ok {
		minimal.Quiz = n.quiz(ctx, quiz)
	}
	return bridgeMinimal(minimal), true
}

// isLessonShaped reports whether a map plausibly describes a single lesson
// rather than a wrapper object.
func isLessonShaped(m map[string]any) bool {
	if _, ok := pick(m, lessonInfoAliases); ok {
		return true
	}
	if _, ok := pick(m, contentAliases); ok {
		return true
	}
	_, ok := pick(m, titleAliases)
	return ok
}

// bridgeMinimal converts the minimal text-plus-quiz lesson shape into the
// canonical card-based shape: the content becomes a single memory card, the
// quiz becomes quiz cards, and the fixed feedback question is attached.
func bridgeMinimal(minimal course.MinimalLesson) course.LessonContent {
	return course.LessonContent{
		LessonInfo: course.LessonInfo{
			Title: minimal.Title,
		},
		MemoryCards: []course.MemoryCard{
			{Title: minimal.Title, Description: minimal.Content},
		},
		QuizCards:         minimal.Quiz,
		OpenEndedQuestion: FeedbackQuestion,
	}
}

// quiz normalizes a quiz array. Items without any options are dropped; a
// missing, non-numeric, or out-of-range correct-answer index defaults to 0.
// The default is a known data-quality risk (it fabricates a plausible answer
// key), so every occurrence is surfaced through the observer.
func (n *Normalizer) quiz(ctx context.Context, raw any) []course.QuizItem {
	items := asSlice(raw)
	quiz := make([]course.QuizItem, 0, len(items))

	for _, item := range items {
		m := asMap(item)
		if m == nil {
			continue
		}

		options := parseOptions(m)
		if len(options) == 0 {
			continue
		}

		quizItem := course.QuizItem{
			Question: pickString(m, questionAliases),
			Options:  options,
		}

		answer, numeric := 0, false
		if v, ok := pick(m, correctAnswerAliases); ok {
			answer, numeric = asIndex(v)
		}
		if !numeric || answer < 0 || answer >= len(options) {
			n.warn(ctx, "quiz correct-answer index missing or invalid, defaulting to 0",
				observability.String("quiz.question", quizItem.Question))
			answer = 0
		}
		quizItem.CorrectAnswer = answer

		quiz = append(quiz, quizItem)
	}

	return quiz
}

func parseOptions(m map[string]any) []string {
	v, ok := pick(m, optionsAliases)
	if !ok {
		return nil
	}
	items := asSlice(v)
	options := make([]string, 0, len(items))
	for _, item := range items {
		options = append(options, asString(item))
	}
	return options
}

// fallbackLessons synthesizes one placeholder lesson per planned lesson title
// so a chapter is never rendered empty.
func fallbackLessons(chapter course.Chapter) []course.LessonContent {
	titles := chapter.Lessons
	if len(titles) == 0 {
		titles = []string{"Overview of " + chapter.Title}
	}

	lessons := make([]course.LessonContent, 0, len(titles))
	for _, title := range titles {
		lessons = append(lessons, bridgeMinimal(course.MinimalLesson{
			Title:   title,
			Content: FallbackLessonNote,
		}))
	}
	return lessons
}
