package llm

import "strings"

const DefaultMaxOutputTokens = 4096

var knownMaxOutputTokens = map[string]int{
	"gpt-4o":                           16384,
	"gpt-4o-mini":                      16384,
	"gpt-4.1":                          32768,
	"gpt-4.1-mini":                     32768,
	"o3-mini":                          100000,
	"claude-3-5-sonnet-20241022":       8192,
	"claude-3-5-haiku-20241022":        8192,
	"claude-3-haiku-20240307":          4096,
	"claude-3-opus-20240229":           4096,
	"claude-3-7-sonnet-20250219":       64000,
	"anthropic/claude-3.5-sonnet":      8192,
	"anthropic/claude-3.7-sonnet":      64000,
	"meta-llama/llama-3.1-8b-instruct": 4096,
	"llama3":                           2048,
	"llama3.1":                         4096,
	"qwen2.5":                          8192,
}

// MaxOutputTokens returns the known output limit for a model id, falling
// back to DefaultMaxOutputTokens. Ollama-style tags ("llama3:8b") match on
// the base name.
func MaxOutputTokens(modelID string) int {
	if n, ok := knownMaxOutputTokens[modelID]; ok {
		return n
	}
	if base, _, found := strings.Cut(modelID, ":"); found {
		if n, ok := knownMaxOutputTokens[base]; ok {
			return n
		}
	}
	return DefaultMaxOutputTokens
}
