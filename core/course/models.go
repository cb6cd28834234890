package course

/*
	##### TABLE OF CONTENTS #####
*/

// TocDocument is the canonical table of contents: the hierarchical skeleton
// of a course before any lesson bodies exist. After normalization it is
// guaranteed non-degenerate: MainTopic is non-empty, SubTopics holds at least
// one element, and every chapter carries at least one lesson title.
type TocDocument struct {
	MainTopic   string     `json:"mainTopic" jsonschema:"description=Title of the whole course,required"`
	Description string     `json:"description" jsonschema:"description=One-paragraph course summary,required"`
	SubTopics   []SubTopic `json:"subTopics" jsonschema:"description=Top-level course units,required"`
}

// SubTopic is one top-level unit of a course.
type SubTopic struct {
	Title       string    `json:"title" jsonschema:"required"`
	Description string    `json:"description"`
	Chapters    []Chapter `json:"chapters" jsonschema:"required"`
}

// Chapter groups lesson titles inside a sub-topic. At the TOC stage Lessons
// holds titles only; bodies are produced later by the content stage.
type Chapter struct {
	Title       string   `json:"title" jsonschema:"required"`
	Description string   `json:"description"`
	Lessons     []string `json:"lessons" jsonschema:"description=Lesson titles for this chapter,required"`
}

/*
	##### GENERATED CONTENT #####
*/

// ContentTree mirrors TocDocument, with chapters carrying full lesson bodies.
type ContentTree struct {
	MainTopic   string            `json:"mainTopic"`
	Description string            `json:"description"`
	SubTopics   []SubTopicContent `json:"subTopics"`
}

// SubTopicContent is a sub-topic whose chapters have been expanded.
type SubTopicContent struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Chapters    []ChapterContent `json:"chapters"`
}

// ChapterContent is a chapter whose lesson titles have been expanded into
// full lesson bodies.
type ChapterContent struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Lessons     []LessonContent `json:"lessons"`
}

// LessonContent is the canonical, card-based lesson body. Models sometimes
// answer in an older minimal shape instead ([MinimalLesson]); the normalizer
// bridges that shape into this one, so downstream consumers only ever see
// LessonContent.
type LessonContent struct {
	LessonInfo         LessonInfo   `json:"lessonInfo" jsonschema:"required"`
	VideoScript        string       `json:"videoScript,omitempty" jsonschema:"description=Optional narration script for a lesson video"`
	MemoryCards        []MemoryCard `json:"memoryCards,omitempty"`
	QuizCards          []QuizItem   `json:"quizCards,omitempty"`
	OpenEndedQuestion  string       `json:"openEndedQuestion,omitempty"`
	OpenEndedQuestions []string     `json:"openEndedQuestions,omitempty"`
}

// LessonInfo carries the lesson heading.
type LessonInfo struct {
	Title       string `json:"title" jsonschema:"required"`
	Description string `json:"description"`
}

// MemoryCard is a single learning card. The Situation/Response pair is used
// by scenario-style cards; plain explanatory cards fill Title/Description only.
type MemoryCard struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Situation   string `json:"situation,omitempty"`
	Response    string `json:"response,omitempty"`
}

// QuizItem is a four-option multiple-choice question. CorrectAnswer indexes
// into Options.
type QuizItem struct {
	Question      string   `json:"question" jsonschema:"required"`
	Options       []string `json:"options" jsonschema:"description=Exactly four answer options,required"`
	CorrectAnswer int      `json:"correctAnswer" jsonschema:"description=Zero-based index of the correct option,required"`
}

// MinimalLesson is the legacy text-plus-quiz lesson shape. It only appears on
// the input side of normalization; it is never stored.
type MinimalLesson struct {
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Quiz    []QuizItem `json:"quiz,omitempty"`
}

// ChapterLessons is the wire shape the content stage requests from the model
// and persists to the cache: one chapter with expanded lessons.
type ChapterLessons struct {
	Title       string          `json:"title" jsonschema:"required"`
	Description string          `json:"description"`
	Lessons     []LessonContent `json:"lessons" jsonschema:"required"`
}
