package normalize

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/opencampus/coursegen/core/course"
)

var testChapter = course.Chapter{
	Title:       "Goroutines",
	Description: "Concurrency basics",
	Lessons:     []string{"Starting goroutines", "Channels"},
}

func TestChapterLessons_RichPassthrough(t *testing.T) {
	n := New()
	raw := mustDecode(t, `{
		"title": "Renamed By Model",
		"lessons": [
			{
				"lessonInfo": {"title": "Starting goroutines", "description": "go keyword"},
				"videoScript": "Today we look at goroutines.",
				"memoryCards": [{"title": "go", "description": "starts a goroutine"}],
				"quizCards": [{"question": "Which keyword?", "options": ["go", "run", "spawn", "fork"], "correctAnswer": 0}],
				"openEndedQuestion": "When would you use a goroutine?"
			}
		]
	}`)

	out := n.ChapterLessons(context.Background(), raw, testChapter)

	// Headings always come from the TOC, not the response.
	if out.Title != "Goroutines" || out.Description != "Concurrency basics" {
		t.Errorf("heading = %q / %q", out.Title, out.Description)
	}

	if len(out.Lessons) != 1 {
		t.Fatalf("lessons = %+v", out.Lessons)
	}
	lesson := out.Lessons[0]
	if lesson.LessonInfo.Title != "Starting goroutines" {
		t.Errorf("lesson title = %q", lesson.LessonInfo.Title)
	}
	if lesson.VideoScript != "Today we look at goroutines." {
		t.Errorf("video script = %q", lesson.VideoScript)
	}
	if lesson.OpenEndedQuestion != "When would you use a goroutine?" {
		t.Errorf("open-ended question = %q", lesson.OpenEndedQuestion)
	}
}

func TestChapterLessons_Idempotent(t *testing.T) {
	n := New()
	raw := mustDecode(t, `{
		"lessons": [
			{"title": "Channels", "content": "Channels carry values between goroutines.",
			 "quiz": [{"question": "Operator?", "options": ["<-", "->", "=>", "::"], "correctAnswer": 0}]}
		]
	}`)

	first := n.ChapterLessons(context.Background(), raw, testChapter)

	encoded, err := json.Marshal(first)
	if err != nil {
		t.Fatal(err)
	}
	var roundTripped any
	if err := json.Unmarshal(encoded, &roundTripped); err != nil {
		t.Fatal(err)
	}

	second := n.ChapterLessons(context.Background(), roundTripped, testChapter)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second pass changed the content:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestChapterLessons_MinimalBridge(t *testing.T) {
	n := New()
	raw := mustDecode(t, `[
		{
			"title": "Starting goroutines",
			"content": "Use the go keyword before a function call.",
			"quiz": [{"question": "Which keyword starts a goroutine?", "options": ["go", "run", "async", "start"], "correctAnswer": 0}]
		}
	]`)

	out := n.ChapterLessons(context.Background(), raw, testChapter)

	if len(out.Lessons) != 1 {
		t.Fatalf("lessons = %+v", out.Lessons)
	}
	lesson := out.Lessons[0]

	if lesson.LessonInfo.Title != "Starting goroutines" {
		t.Errorf("title = %q", lesson.LessonInfo.Title)
	}
	if len(lesson.MemoryCards) != 1 {
		t.Fatalf("memory cards = %+v", lesson.MemoryCards)
	}
	if lesson.MemoryCards[0].Description != "Use the go keyword before a function call." {
		t.Errorf("card body = %q", lesson.MemoryCards[0].Description)
	}
	if len(lesson.QuizCards) != 1 || lesson.QuizCards[0].CorrectAnswer != 0 {
		t.Errorf("quiz cards = %+v", lesson.QuizCards)
	}
	if lesson.OpenEndedQuestion != FeedbackQuestion {
		t.Errorf("open-ended question = %q, want the fixed feedback question", lesson.OpenEndedQuestion)
	}
}

func TestChapterLessons_SingleLessonObject(t *testing.T) {
	n := New()
	raw := mustDecode(t, `{"title": "Channels", "content": "A channel is a typed conduit."}`)

	out := n.ChapterLessons(context.Background(), raw, testChapter)

	if len(out.Lessons) != 1 {
		t.Fatalf("lessons = %+v", out.Lessons)
	}
	if out.Lessons[0].LessonInfo.Title != "Channels" {
		t.Errorf("title = %q", out.Lessons[0].LessonInfo.Title)
	}
}

func TestChapterLessons_StringLessons(t *testing.T) {
	n := New()
	raw := mustDecode(t, `{"lessons": ["Just a title"]}`)

	out := n.ChapterLessons(context.Background(), raw, testChapter)

	if len(out.Lessons) != 1 {
		t.Fatalf("lessons = %+v", out.Lessons)
	}
	if out.Lessons[0].LessonInfo.Title != "Just a title" {
		t.Errorf("title = %q", out.Lessons[0].LessonInfo.Title)
	}
}

func TestChapterLessons_FallbackPlaceholders(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{name: "nil", raw: nil},
		{name: "error sentinel", raw: map[string]any{"error": "Failed to parse response"}},
		{name: "empty lesson array", raw: map[string]any{"lessons": []any{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := New().ChapterLessons(context.Background(), tt.raw, testChapter)

			if len(out.Lessons) != len(testChapter.Lessons) {
				t.Fatalf("got %d placeholder lessons, want %d", len(out.Lessons), len(testChapter.Lessons))
			}
			for i, lesson := range out.Lessons {
				if lesson.LessonInfo.Title != testChapter.Lessons[i] {
					t.Errorf("lesson %d title = %q, want %q", i, lesson.LessonInfo.Title, testChapter.Lessons[i])
				}
				if len(lesson.MemoryCards) != 1 || lesson.MemoryCards[0].Description != FallbackLessonNote {
					t.Errorf("lesson %d is not a placeholder: %+v", i, lesson)
				}
			}
		})
	}
}

func TestQuiz_Normalization(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantLen     int
		wantAnswers []int
	}{
		{
			name:        "valid index kept",
			raw:         `[{"question": "q", "options": ["a", "b", "c", "d"], "correctAnswer": 2}]`,
			wantLen:     1,
			wantAnswers: []int{2},
		},
		{
			name:        "missing index defaults to zero",
			raw:         `[{"question": "q", "options": ["a", "b"]}]`,
			wantLen:     1,
			wantAnswers: []int{0},
		},
		{
			name:        "out of range defaults to zero",
			raw:         `[{"question": "q", "options": ["a", "b"], "correctAnswer": 7}]`,
			wantLen:     1,
			wantAnswers: []int{0},
		},
		{
			name:        "negative defaults to zero",
			raw:         `[{"question": "q", "options": ["a", "b"], "correctAnswer": -1}]`,
			wantLen:     1,
			wantAnswers: []int{0},
		},
		{
			name:        "numeric string accepted",
			raw:         `[{"question": "q", "options": ["a", "b", "c"], "correctAnswer": "1"}]`,
			wantLen:     1,
			wantAnswers: []int{1},
		},
		{
			name:        "option-less item dropped",
			raw:         `[{"question": "q"}, {"question": "kept", "options": ["a", "b"], "correctAnswer": 1}]`,
			wantLen:     1,
			wantAnswers: []int{1},
		},
		{
			name:        "answer alias resolved",
			raw:         `[{"question": "q", "options": ["a", "b"], "answer": 1}]`,
			wantLen:     1,
			wantAnswers: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiz := New().quiz(context.Background(), mustDecode(t, tt.raw))

			if len(quiz) != tt.wantLen {
				t.Fatalf("quiz = %+v, want %d items", quiz, tt.wantLen)
			}
			for i, item := range quiz {
				if item.CorrectAnswer != tt.wantAnswers[i] {
					t.Errorf("item %d CorrectAnswer = %d, want %d", i, item.CorrectAnswer, tt.wantAnswers[i])
				}
				if item.CorrectAnswer < 0 || item.CorrectAnswer >= len(item.Options) {
					t.Errorf("item %d CorrectAnswer %d out of range for %d options", i, item.CorrectAnswer, len(item.Options))
				}
			}
		})
	}
}
