package nav

import (
	"math"
	"strings"

	"github.com/abelbrown/glossia/internal/textparse"
)

// Strategy defines what one "content unit" is for a reading mode and how to
// move through the units.
type Strategy interface {
	// LoadText splits text into this strategy's units and resets position.
	LoadText(text string)

	// CurrentContent returns the unit at the current position; ok is false
	// when nothing is loaded.
	CurrentContent() (string, bool)

	// Next moves one unit forward; false at the end.
	Next() bool

	// Previous moves one unit back; false at the beginning.
	Previous() bool

	// GotoProgress jumps to the unit nearest progress p in [0, 1].
	GotoProgress(p float64) bool

	// Progress returns position / max(1, len-1).
	Progress() float64

	IsAtBeginning() bool
	IsAtEnd() bool

	// StrategyName identifies the mode in logs.
	StrategyName() string

	// RecommendedWPM suggests a reading speed, 0 when the mode has none.
	RecommendedWPM() int

	// RecommendedPause suggests a per-unit dwell in milliseconds, 0 when
	// the mode has none.
	RecommendedPause() int

	// UnitsProcessed counts forward moves since the last load or reset.
	UnitsProcessed() int

	// Reset returns to the first unit and zeroes the processed counter.
	Reset()
}

// stepper is the position arithmetic shared by all strategies.
type stepper struct {
	units     []string
	position  int
	processed int
}

func (s *stepper) CurrentContent() (string, bool) {
	if s.position >= len(s.units) {
		return "", false
	}
	return s.units[s.position], true
}

func (s *stepper) Next() bool {
	if s.position >= len(s.units)-1 {
		return false
	}
	s.position++
	s.processed++
	return true
}

func (s *stepper) Previous() bool {
	if s.position == 0 {
		return false
	}
	s.position--
	return true
}

func (s *stepper) GotoProgress(p float64) bool {
	if len(s.units) == 0 {
		return false
	}
	p = math.Max(0, math.Min(1, p))
	s.position = int(math.Round(p * float64(len(s.units)-1)))
	return true
}

func (s *stepper) Progress() float64 {
	if len(s.units) <= 1 {
		if len(s.units) == 0 {
			return 0
		}
		return 1
	}
	return float64(s.position) / float64(len(s.units)-1)
}

func (s *stepper) IsAtBeginning() bool { return s.position == 0 }

func (s *stepper) IsAtEnd() bool {
	return len(s.units) == 0 || s.position >= len(s.units)-1
}

func (s *stepper) UnitsProcessed() int { return s.processed }

func (s *stepper) Reset() {
	s.position = 0
	s.processed = 0
}

func (s *stepper) load(units []string) {
	s.units = units
	s.position = 0
	s.processed = 0
}

// Linear reads sentence by sentence. This is the default mode.
type Linear struct {
	stepper
}

// NewLinear builds the sentence-unit strategy.
func NewLinear() *Linear { return &Linear{} }

func (l *Linear) LoadText(text string) {
	l.load(textparse.SplitIntoSentences(text))
}

func (l *Linear) StrategyName() string  { return "Linear" }
func (l *Linear) RecommendedWPM() int   { return 0 }
func (l *Linear) RecommendedPause() int { return 0 }

// Paragraph reads paragraph by paragraph, split on blank lines.
type Paragraph struct {
	stepper
}

// NewParagraph builds the paragraph-unit strategy.
func NewParagraph() *Paragraph { return &Paragraph{} }

func (p *Paragraph) LoadText(text string) {
	var paragraphs []string
	for _, block := range strings.Split(text, "\n\n") {
		if trimmed := strings.TrimSpace(block); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	p.load(paragraphs)
}

func (p *Paragraph) StrategyName() string  { return "Paragraph" }
func (p *Paragraph) RecommendedWPM() int   { return 200 }
func (p *Paragraph) RecommendedPause() int { return 0 }

// SpeedReading flashes fixed-size word chunks at a configured pace.
type SpeedReading struct {
	stepper
	chunkSize int
	wpm       int
}

// NewSpeedReading builds the chunked strategy with the default 5-word chunks
// at 300 wpm.
func NewSpeedReading() *SpeedReading {
	return &SpeedReading{chunkSize: 5, wpm: 300}
}

// WithChunkSize sets the words-per-chunk, minimum 1.
func (s *SpeedReading) WithChunkSize(n int) *SpeedReading {
	if n < 1 {
		n = 1
	}
	s.chunkSize = n
	return s
}

// WithWPM sets the pace, minimum 100.
func (s *SpeedReading) WithWPM(wpm int) *SpeedReading {
	if wpm < 100 {
		wpm = 100
	}
	s.wpm = wpm
	return s
}

func (s *SpeedReading) LoadText(text string) {
	words := textparse.ExtractWords(text)
	var chunks []string
	for i := 0; i < len(words); i += s.chunkSize {
		end := i + s.chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	s.load(chunks)
}

func (s *SpeedReading) StrategyName() string { return "SpeedReading" }
func (s *SpeedReading) RecommendedWPM() int  { return s.wpm }

// RecommendedPause derives the per-chunk dwell from the pace.
func (s *SpeedReading) RecommendedPause() int {
	msPerWord := 60_000 / s.wpm
	return msPerWord * s.chunkSize
}
