package nav

import (
	"fmt"
	"strings"
	"testing"
)

func loadedNavigator(t *testing.T, text string) *Navigator {
	t.Helper()
	n := New()
	n.LoadText(text)
	return n
}

func TestNavigatorAdvanceAndClamp(t *testing.T) {
	n := loadedNavigator(t, "One. Two. Three.")

	if s, _ := n.CurrentSentence(); s != "One." {
		t.Errorf("start = %q", s)
	}
	if !n.IsAtBeginning() || n.IsAtEnd() {
		t.Error("fresh load should be at beginning, not end")
	}

	if !n.Advance() || !n.Advance() {
		t.Fatal("two advances should succeed")
	}
	if s, _ := n.CurrentSentence(); s != "Three." {
		t.Errorf("after advances = %q", s)
	}
	if !n.IsAtEnd() {
		t.Error("should be at end")
	}
	if n.Advance() {
		t.Error("advance past the end must clamp")
	}

	if !n.Previous() {
		t.Fatal("previous should succeed")
	}
	n.Previous()
	if n.Previous() {
		t.Error("previous past the beginning must clamp")
	}
}

func TestNavigatorGoto(t *testing.T) {
	n := loadedNavigator(t, "One. Two. Three. Four.")

	if !n.Goto(3) {
		t.Fatal("goto valid index should succeed")
	}
	if s, _ := n.CurrentSentence(); s != "Four." {
		t.Errorf("after goto = %q", s)
	}
	if n.Goto(4) || n.Goto(-1) {
		t.Error("goto out of range must fail")
	}
}

func TestNavigatorProgress(t *testing.T) {
	n := New()
	if n.Progress() != 0 {
		t.Error("empty navigator progress should be 0")
	}

	n.LoadText("Only one.")
	if n.Progress() != 1 {
		t.Error("single-sentence progress should be 1")
	}

	n.LoadText("One. Two. Three.")
	if n.Progress() != 0 {
		t.Error("progress at start should be 0")
	}
	n.Advance()
	if got := n.Progress(); got != 0.5 {
		t.Errorf("progress = %v, want 0.5", got)
	}
	n.Advance()
	if n.Progress() != 1 {
		t.Error("progress at end should be 1")
	}
}

func TestNavigatorHistoryReplay(t *testing.T) {
	n := loadedNavigator(t, "One. Two. Three. Four.")

	n.Advance() // 1
	n.Advance() // 2
	n.Goto(0)   // history: 0,1,2

	if !n.CanGoBack() {
		t.Fatal("should be able to go back")
	}
	if !n.GoBack() {
		t.Fatal("go back failed")
	}
	if n.Position() != 1 {
		t.Errorf("position after back = %d, want 1", n.Position())
	}
	if !n.CanGoForward() {
		t.Fatal("should be able to go forward")
	}
	n.GoForward()
	if n.Position() != 2 {
		t.Errorf("position after forward = %d, want 2", n.Position())
	}
}

func TestNavigatorHistoryCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 120; i++ {
		fmt.Fprintf(&b, "Sentence %d. ", i)
	}
	n := loadedNavigator(t, b.String())

	for i := 0; i < 100; i++ {
		n.Advance()
	}
	if got := n.history.len(); got != 50 {
		t.Errorf("history length = %d, want capped at 50", got)
	}
}

func TestNavigatorLoadResetsHistory(t *testing.T) {
	n := loadedNavigator(t, "One. Two.")
	n.Advance()
	n.LoadText("Fresh. Text.")
	if n.CanGoBack() || n.Position() != 0 {
		t.Error("load must clear history and reset position")
	}
}

func TestLinearStrategy(t *testing.T) {
	s := NewLinear()
	s.LoadText("First sentence. Second sentence. Third sentence.")

	if c, _ := s.CurrentContent(); c != "First sentence." {
		t.Errorf("start = %q", c)
	}
	if !s.Next() || !s.Next() {
		t.Fatal("two nexts should succeed")
	}
	if s.Next() {
		t.Error("next at end must fail")
	}
	if s.UnitsProcessed() != 2 {
		t.Errorf("UnitsProcessed = %d, want 2", s.UnitsProcessed())
	}

	s.Reset()
	if !s.IsAtBeginning() || s.UnitsProcessed() != 0 {
		t.Error("reset should rewind and zero the counter")
	}
}

func TestParagraphStrategy(t *testing.T) {
	s := NewParagraph()
	s.LoadText("Para one, first. Still one.\n\nPara two.\n\n\n\nPara three.")

	if c, _ := s.CurrentContent(); c != "Para one, first. Still one." {
		t.Errorf("first paragraph = %q", c)
	}
	s.Next()
	if c, _ := s.CurrentContent(); c != "Para two." {
		t.Errorf("second paragraph = %q", c)
	}
	s.Next()
	if !s.IsAtEnd() {
		t.Error("three paragraphs, should be at end")
	}
	if s.RecommendedWPM() != 200 {
		t.Errorf("RecommendedWPM = %d", s.RecommendedWPM())
	}
}

func TestSpeedReadingStrategy(t *testing.T) {
	s := NewSpeedReading().WithChunkSize(3).WithWPM(300)
	s.LoadText("one two three four five six seven")

	if c, _ := s.CurrentContent(); c != "one two three" {
		t.Errorf("first chunk = %q", c)
	}
	s.Next()
	s.Next()
	if c, _ := s.CurrentContent(); c != "seven" {
		t.Errorf("last chunk = %q", c)
	}

	// 300 wpm = 200ms per word, 3 words per chunk.
	if got := s.RecommendedPause(); got != 600 {
		t.Errorf("RecommendedPause = %d, want 600", got)
	}
}

func TestGotoProgress(t *testing.T) {
	s := NewLinear()
	s.LoadText("A. B. C. D. E.")

	if !s.GotoProgress(0.5) {
		t.Fatal("goto progress failed")
	}
	if c, _ := s.CurrentContent(); c != "C." {
		t.Errorf("midpoint = %q", c)
	}

	s.GotoProgress(2.0) // clamped to 1
	if !s.IsAtEnd() {
		t.Error("progress above 1 should clamp to the end")
	}
	s.GotoProgress(-1)
	if !s.IsAtBeginning() {
		t.Error("progress below 0 should clamp to the start")
	}

	empty := NewLinear()
	if empty.GotoProgress(0.5) {
		t.Error("goto progress on empty text must fail")
	}
}
