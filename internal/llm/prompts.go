package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abelbrown/glossia/internal/types"
)

const simplifyTemplate = `
You are a language assistant helping advanced English learners (3+ years experience) understand sophisticated text.

Simplify the sentence below using clear and modern English, without losing important meaning.

Then identify words AND phrases that would be challenging for learners with intermediate-advanced English (C1/C2 level). Focus ONLY on:
- Advanced academic vocabulary (sophisticated, nuanced terms)
- Professional/technical terminology
- Literary and formal expressions
- Complex idioms and phrasal verbs
- Sophisticated collocations
- Words rarely used in everyday conversation

DO NOT include basic or intermediate words that 3+ year learners already know (common verbs, everyday adjectives, basic prepositions, etc.).

For each challenging word or phrase, provide a clear definition using simpler English.

Respond ONLY in this exact JSON format:
{
  "original": "%[1]s",
  "simplified": "the simplified version",
  "words": [
    { "word": "sophisticated_word", "meaning": "simple explanation", "is_phrase": false },
    { "word": "complex phrasal expression", "meaning": "simple explanation", "is_phrase": true }
  ]
}

Sentence to analyze: "%[1]s"
`

const wordMeaningTemplate = `Define the word "%s" in simple English using maximum 15 words.

Context: "%s"

Provide a clear, concise definition that helps someone understand the word's meaning in this context.

Respond with ONLY the definition, no extra formatting or quotes.`

const imageQueryTemplate = `Generate an image search query for the word '%[1]s' based on its contextual meaning.

Context: "%[2]s"
Definition: %[3]s

RULES:
1. If the word itself is already visually descriptive (e.g., "hermit", "lighthouse", "castle"), use it directly
2. Output ONLY valid JSON: {"optimized_query": "your query"}
3. Maximum 4 words
4. Add context words that enhance, not distract
5. AVOID extracting unrelated or inappropriate descriptors from context
6. Focus on the PRIMARY subject and its relevant setting

PROHIBITED:
- NO nudity, body parts, or clothing state descriptors (naked, nude, bare, etc.)
- NO sexual or suggestive content
- NO inappropriate physical descriptions

Examples:
- "hermits" + "sea hermits issuing from" → {"optimized_query": "hermit on sea"}
- "lighthouse" + "the old lighthouse keeper" → {"optimized_query": "lighthouse coastal tower"}
- "crown" + "heavy crown of responsibility" → {"optimized_query": "royal crown gold"}
- "bank" + "river bank was muddy" → {"optimized_query": "river bank shore"}

Word: '%[1]s'
Context: '%[2]s'
Meaning: %[3]s`

// escapeQuotes protects injected content embedded inside JSON-shaped prompts.
func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func buildSimplifyPrompt(sentence string) string {
	return fmt.Sprintf(simplifyTemplate, escapeQuotes(sentence))
}

func buildWordMeaningPrompt(word, context string) string {
	return fmt.Sprintf(wordMeaningTemplate, word, context)
}

func buildImageQueryPrompt(req types.ImageQueryRequest) string {
	return fmt.Sprintf(imageQueryTemplate, req.Word, req.SentenceContext, req.WordMeaning)
}

// parseSimplification decodes the model's JSON completion. A completion that
// is not valid JSON is treated as the simplified text itself, with no word
// list; the simplify path never fails on malformed output.
func parseSimplification(content, original string) *types.SimplificationResponse {
	var parsed struct {
		Simplified string `json:"simplified"`
		Words      []struct {
			Word     string `json:"word"`
			Meaning  string `json:"meaning"`
			IsPhrase bool   `json:"is_phrase"`
		} `json:"words"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return &types.SimplificationResponse{
			Original:   original,
			Simplified: content,
			Words:      []types.WordMeaning{},
		}
	}

	simplified := parsed.Simplified
	if simplified == "" {
		simplified = original
	}
	words := make([]types.WordMeaning, 0, len(parsed.Words))
	for _, w := range parsed.Words {
		if w.Word == "" || w.Meaning == "" {
			continue
		}
		words = append(words, types.WordMeaning{Word: w.Word, Meaning: w.Meaning, IsPhrase: w.IsPhrase})
	}

	return &types.SimplificationResponse{
		Original:   original,
		Simplified: simplified,
		Words:      words,
	}
}
