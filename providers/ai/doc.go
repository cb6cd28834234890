// Package ai defines the provider-agnostic contract for LLM backends: the
// [Provider] interface plus the request/response models shared by every
// implementation. Concrete providers live in the subpackages
// [github.com/opencampus/coursegen/providers/ai/openai] and
// [github.com/opencampus/coursegen/providers/ai/anthropic].
package ai
