// Package types holds the domain types shared across the reading pipeline.
package types

// WordMeaning is one difficult word or phrase with its plain-English meaning.
// Timestamp is set (unix milliseconds) only for entries the user selected
// manually; it orders displayed lists newest-first and distinguishes manual
// entries from LLM-provided ones.
type WordMeaning struct {
	Word      string `json:"word"`
	Meaning   string `json:"meaning"`
	IsPhrase  bool   `json:"is_phrase"`
	Timestamp *int64 `json:"timestamp,omitempty"`
}

// NewWord builds an LLM-origin single-word entry.
func NewWord(word, meaning string) WordMeaning {
	return WordMeaning{Word: word, Meaning: meaning}
}

// NewManualWord builds a user-selected entry carrying its insertion time.
func NewManualWord(word, meaning string, ts int64) WordMeaning {
	return WordMeaning{Word: word, Meaning: meaning, Timestamp: &ts}
}

// SimplificationResponse is the LLM's rewrite of one sentence.
// Original always equals the sentence that was submitted.
type SimplificationResponse struct {
	Original   string        `json:"original"`
	Simplified string        `json:"simplified"`
	Words      []WordMeaning `json:"words"`
}

// ImageResult is one image-search hit. Width and Height are zero when the
// provider did not report dimensions.
type ImageResult struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Title        string `json:"title"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
}

// ImageQueryRequest asks the LLM for a visual search query describing word
// as used in SentenceContext.
type ImageQueryRequest struct {
	Word            string
	SentenceContext string
	WordMeaning     string
}
