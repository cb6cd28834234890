package pipeline

import (
	"fmt"
	"strings"

	"github.com/opencampus/coursegen/core/course"
	"github.com/opencampus/coursegen/providers/retriever"
)

const tocSystemPrompt = `You are an experienced curriculum designer. ` +
	`You design well-structured online courses: a course has a main topic, a short description, ` +
	`and several sub-topics, each split into chapters, each chapter listing its lesson titles. ` +
	`Ground the structure in the provided reference material when it is relevant. ` +
	`Respond with JSON only.`

const contentSystemPrompt = `You are an experienced online course author. ` +
	`You write the full content of one chapter at a time: for every planned lesson you produce ` +
	`a lesson heading, memory cards that teach the material in small steps, multiple-choice quiz ` +
	`cards with exactly four options each, and an open-ended reflection question. ` +
	`Ground the content in the provided reference material when it is relevant. ` +
	`Respond with JSON only.`

// tocUserPrompt builds the TOC request. Context may be empty.
func tocUserPrompt(topic, context string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a complete table of contents for a course about %q.\n", topic)
	b.WriteString("Aim for 3 to 6 sub-topics, each with 2 to 4 chapters, each chapter with 2 to 5 lesson titles.\n")

	if context != "" {
		b.WriteString("\nReference material:\n")
		b.WriteString(context)
		b.WriteString("\n")
	}

	return b.String()
}

// chapterUserPrompt builds the content request for one chapter.
func chapterUserPrompt(mainTopic string, subTopic course.SubTopic, chapter course.Chapter, context string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write the full content for the chapter %q of the course %q (sub-topic %q).\n",
		chapter.Title, mainTopic, subTopic.Title)
	if chapter.Description != "" {
		fmt.Fprintf(&b, "Chapter description: %s\n", chapter.Description)
	}

	b.WriteString("Planned lessons:\n")
	for _, lesson := range chapter.Lessons {
		fmt.Fprintf(&b, "- %s\n", lesson)
	}
	b.WriteString("Produce one entry per planned lesson, in order.\n")

	if context != "" {
		b.WriteString("\nReference material:\n")
		b.WriteString(context)
		b.WriteString("\n")
	}

	return b.String()
}

// contextText flattens chunks into prompt text, stopping before the character
// budget is exceeded. Later chunks are never split; only a first chunk that is
// alone too large is cut down to the budget, so the output never exceeds it.
func contextText(chunks []retriever.Chunk, budget int) string {
	if len(chunks) == 0 {
		return ""
	}

	var b strings.Builder
	for _, chunk := range chunks {
		text := strings.TrimSpace(chunk.Text)
		if text == "" {
			continue
		}
		if b.Len() == 0 && len(text) > budget {
			return text[:budget]
		}
		if b.Len() > 0 && b.Len()+len(text)+2 > budget {
			break
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(text)
	}
	return b.String()
}
