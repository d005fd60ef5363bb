package textparse

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitIntoSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty input",
			text: "",
			want: nil,
		},
		{
			name: "single sentence with period",
			text: "The sea was calm.",
			want: []string{"The sea was calm."},
		},
		{
			name: "two sentences",
			text: "Alpha beta gamma. Delta epsilon.",
			want: []string{"Alpha beta gamma.", "Delta epsilon."},
		},
		{
			name: "mixed terminators",
			text: "Really? Yes! Fine; moving on | done.",
			want: []string{"Really?", "Yes!", "Fine;", "moving on |", "done."},
		},
		{
			name: "trailing fragment without punctuation",
			text: "First sentence. and then it just stops",
			want: []string{"First sentence.", "and then it just stops"},
		},
		{
			name: "terminator without following whitespace does not split",
			text: "Version 2.5 shipped today.",
			want: []string{"Version 2.5 shipped today."},
		},
		{
			name: "newlines count as whitespace",
			text: "One.\nTwo.\n\nThree.",
			want: []string{"One.", "Two.", "Three."},
		},
		{
			name: "only whitespace",
			text: "   \n\t  ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitIntoSentences(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitIntoSentences(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

// Rejoining the sentences with single spaces reproduces the input modulo
// the consumed inter-sentence whitespace.
func TestSplitReassembles(t *testing.T) {
	text := "The old hermit lived by the sea. He spoke to no one! Why would he? Nobody knew"
	sentences := SplitIntoSentences(text)

	rejoined := strings.Join(sentences, " ")
	if rejoined != text {
		t.Errorf("rejoined = %q, want %q", rejoined, text)
	}
}

func TestExtractWords(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"The Lighthouse stood.", []string{"the", "lighthouse", "stood"}},
		{"don't stop", []string{"don't", "stop"}},
		{"", nil},
		{"123 456", nil},
		{"Mixed-case Words, punctuation!", []string{"mixed", "case", "words", "punctuation"}},
	}

	for _, tt := range tests {
		got := ExtractWords(tt.text)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ExtractWords(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
