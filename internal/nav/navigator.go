// Package nav tracks reading position through a loaded text. The navigator
// is a pure data structure; callers own concurrency and I/O.
package nav

import (
	"github.com/abelbrown/glossia/internal/textparse"
)

// Navigator holds the sentence list, the current position, and a bounded
// back/forward history.
type Navigator struct {
	sentences []string
	position  int
	history   *history
}

// New builds an empty navigator.
func New() *Navigator {
	return &Navigator{history: newHistory(50)}
}

// LoadText replaces the loaded text, resetting position and history.
func (n *Navigator) LoadText(text string) {
	n.sentences = textparse.SplitIntoSentences(text)
	n.position = 0
	n.history.clear()
}

// CurrentSentence returns the sentence at the current position; ok is false
// when no text is loaded.
func (n *Navigator) CurrentSentence() (string, bool) {
	if len(n.sentences) == 0 {
		return "", false
	}
	return n.sentences[n.position], true
}

// Sentences returns the loaded sentence list.
func (n *Navigator) Sentences() []string {
	return n.sentences
}

// Position returns the current 0-based position.
func (n *Navigator) Position() int {
	return n.position
}

// TotalSentences returns how many sentences are loaded.
func (n *Navigator) TotalSentences() int {
	return len(n.sentences)
}

// Advance moves one sentence forward, recording the old position in history.
// Returns false at the end of the text.
func (n *Navigator) Advance() bool {
	if n.position >= len(n.sentences)-1 {
		return false
	}
	n.history.add(n.position)
	n.position++
	return true
}

// Previous moves one sentence back, recording the old position in history.
// Returns false at the beginning.
func (n *Navigator) Previous() bool {
	if n.position == 0 {
		return false
	}
	n.history.add(n.position)
	n.position--
	return true
}

// Goto jumps to position i when it is a valid index.
func (n *Navigator) Goto(i int) bool {
	if i < 0 || i >= len(n.sentences) || i == n.position {
		return false
	}
	n.history.add(n.position)
	n.position = i
	return true
}

// CanGoBack reports whether history holds an earlier position.
func (n *Navigator) CanGoBack() bool { return n.history.canGoBack() }

// CanGoForward reports whether history holds a later position.
func (n *Navigator) CanGoForward() bool { return n.history.canGoForward() }

// GoBack replays the previous history entry.
func (n *Navigator) GoBack() bool {
	pos, ok := n.history.goBack()
	if !ok || pos < 0 || pos >= len(n.sentences) {
		return false
	}
	n.position = pos
	return true
}

// GoForward replays the next history entry.
func (n *Navigator) GoForward() bool {
	pos, ok := n.history.goForward()
	if !ok || pos < 0 || pos >= len(n.sentences) {
		return false
	}
	n.position = pos
	return true
}

// IsAtBeginning reports whether the position is the first sentence.
func (n *Navigator) IsAtBeginning() bool { return n.position == 0 }

// IsAtEnd reports whether the position is the last sentence (or no text is
// loaded).
func (n *Navigator) IsAtEnd() bool {
	return len(n.sentences) == 0 || n.position >= len(n.sentences)-1
}

// Progress returns position / max(1, len-1), in [0, 1].
func (n *Navigator) Progress() float64 {
	if len(n.sentences) <= 1 {
		if len(n.sentences) == 0 {
			return 0
		}
		return 1
	}
	return float64(n.position) / float64(len(n.sentences)-1)
}
