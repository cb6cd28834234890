package normalize

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/opencampus/coursegen/providers/observability"
)

// Normalizer coerces heterogeneous LLM responses into the canonical course
// types. It never returns an error: each tier that fails to match hands over
// to a more permissive one, ending in a deterministic synthetic stub, so the
// pipeline always has a non-degenerate tree to iterate.
//
// Tiers, in order:
//  1. strict decode against the canonical schema
//  2. permissive decode with per-field alias resolution
//  3. synthetic stub derived from the run's topic
type Normalizer struct {
	obs observability.Provider
}

// Option configures optional Normalizer behavior.
type Option func(*Normalizer)

// WithObserver attaches an observer used to surface data-quality warnings
// (defaulted quiz answers, stub fallbacks). A nil observer disables them.
func WithObserver(obs observability.Provider) Option {
	return func(n *Normalizer) {
		n.obs = obs
	}
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Normalizer) warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	if n.obs != nil {
		n.obs.Warn(ctx, msg, attrs...)
	}
}

/*
	##### ALIAS TABLES #####

	Priority order is fixed: the first alias present in the input wins.
*/

var (
	mainTopicAliases = []string{
		"mainTopic", "MainTopic", "Main Topic", "main_topic",
		"courseTitle", "CourseTitle", "Course Title", "course_title",
		"title", "Title", "topic", "Topic",
	}
	descriptionAliases = []string{
		"description", "Description", "summary", "Summary", "overview", "Overview",
	}
	subTopicsAliases = []string{
		"subTopics", "SubTopics", "subtopics", "Subtopics", "sub_topics",
		"modules", "Modules", "units", "Units",
	}
	chaptersAliases = []string{
		"chapters", "Chapters", "sections", "Sections", "parts", "Parts",
	}
	lessonsAliases = []string{
		"lessons", "Lessons", "lessonTitles", "LessonTitles", "lesson_titles",
		"topics", "items",
	}
	titleAliases = []string{
		"title", "Title", "name", "Name", "heading", "Heading",
	}
	contentAliases = []string{
		"content", "Content", "text", "Text", "body", "Body",
	}
	lessonInfoAliases = []string{
		"lessonInfo", "LessonInfo", "lesson_info",
	}
	quizAliases = []string{
		"quiz", "Quiz", "quizCards", "QuizCards", "questions", "Questions",
	}
	questionAliases = []string{
		"question", "Question",
	}
	optionsAliases = []string{
		"options", "Options", "choices", "Choices", "answers", "Answers",
	}
	correctAnswerAliases = []string{
		"correctAnswer", "CorrectAnswer", "correct_answer", "correct", "answer",
	}
)

/*
	##### VALUE COERCION HELPERS #####
*/

// pick returns the value of the first alias present in m.
func pick(m map[string]any, aliases []string) (any, bool) {
	for _, alias := range aliases {
		if v, ok := m[alias]; ok {
			return v, true
		}
	}
	return nil, false
}

// pickString resolves the first alias present in m to a string.
func pickString(m map[string]any, aliases []string) string {
	v, ok := pick(m, aliases)
	if !ok {
		return ""
	}
	return asString(v)
}

// asString coerces a scalar JSON value to a string. Non-scalar values yield
// an empty string rather than a serialized blob.
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// asMap returns v as a JSON object, or nil.
func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// asSlice returns v as a JSON array, or nil.
func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// asIndex coerces a correct-answer value to a non-negative index. Numeric
// strings are accepted; anything else reports ok=false.
func asIndex(v any) (int, bool) {
	switch i := v.(type) {
	case float64:
		return int(i), true
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(i)); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

// remarshal decodes an arbitrary JSON-shaped value into T via an
// encode/decode roundtrip. ok is false when either direction fails.
func remarshal[T any](v any) (T, bool) {
	var out T
	raw, err := json.Marshal(v)
	if err != nil {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, false
	}
	return out, true
}

// decodeValue converts string input into a generic JSON value so the alias
// machinery always works on maps/slices. Non-string input passes through.
func decodeValue(raw any) any {
	s, ok := raw.(string)
	if !ok {
		return raw
	}
	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return raw
	}
	return decoded
}
