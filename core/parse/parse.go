package parse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// As attempts to parse LLM output text into the specified type T.
//
// LLM responses rarely arrive as clean JSON: they come wrapped in markdown
// code fences, prefixed with prose ("Here is the course structure you
// requested:"), or with trailing commentary. As applies a layered recovery
// strategy:
//
//  1. Direct unmarshal of the raw content.
//  2. Unmarshal of the extracted JSON candidate (fences and surrounding
//     prose stripped, see [ExtractJSON]).
//  3. Automatic repair of the candidate via jsonrepair (single quotes,
//     unquoted keys, trailing commas, truncated output) and a final retry.
//
// Only when all three tiers fail is an error returned.
func As[T any](content string) (T, error) {
	var result T

	if err := json.Unmarshal([]byte(content), &result); err == nil {
		return result, nil
	}

	candidate := ExtractJSON(content)
	if err := json.Unmarshal([]byte(candidate), &result); err == nil {
		return result, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(candidate)
	if repairErr != nil {
		return result, fmt.Errorf("content is not valid JSON and could not be repaired: %w", repairErr)
	}

	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		return result, fmt.Errorf("failed to unmarshal repaired JSON as %T: %w", result, err)
	}
	return result, nil
}

// ExtractJSON returns the most plausible JSON document embedded in content.
//
// It first looks for a fenced code block (```json ... ``` or plain ``` ... ```)
// and returns its body. Failing that, it returns the substring between the
// first opening brace/bracket and the matching region's last closing
// counterpart. If no JSON-like region is found, content is returned unchanged
// so the caller's own error reporting still sees the original text.
func ExtractJSON(content string) string {
	trimmed := strings.TrimSpace(content)

	if fenced, ok := extractFenced(trimmed); ok {
		return fenced
	}

	start := strings.IndexAny(trimmed, "{[")
	if start < 0 {
		return content
	}

	var closer byte
	if trimmed[start] == '{' {
		closer = '}'
	} else {
		closer = ']'
	}

	end := strings.LastIndexByte(trimmed, closer)
	if end <= start {
		// Truncated output; return the open region and let repair close it.
		return trimmed[start:]
	}
	return trimmed[start : end+1]
}

// extractFenced returns the body of the first fenced code block, if any.
func extractFenced(content string) (string, bool) {
	open := strings.Index(content, "```")
	if open < 0 {
		return "", false
	}

	body := content[open+3:]
	// Skip an optional language tag on the fence line ("json", "JSON", ...).
	if newline := strings.IndexByte(body, '\n'); newline >= 0 {
		firstLine := strings.TrimSpace(body[:newline])
		if len(firstLine) <= 10 && !strings.ContainsAny(firstLine, "{[") {
			body = body[newline+1:]
		}
	}

	if closing := strings.Index(body, "```"); closing >= 0 {
		body = body[:closing]
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return "", false
	}
	return body, true
}
