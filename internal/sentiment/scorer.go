// Package sentiment labels free text with the VADER compound score.
package sentiment

import (
	"strings"
	"sync"

	"github.com/jonreiter/govader"
)

// Label is the three-way sentiment band.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// PositiveThreshold and NegativeThreshold bound the neutral band of the compound score.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// Result is a scored text.
type Result struct {
	Compound float64 `json:"compound"`
	Label    Label   `json:"label"`
}

// The analyzer parses its embedded lexicon on construction and is read-only afterwards.
var sharedAnalyzer = sync.OnceValue(govader.NewSentimentIntensityAnalyzer)

// Scorer is safe for concurrent use.
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// New returns a Scorer over the full VADER lexicon.
func New() *Scorer {
	return &Scorer{analyzer: sharedAnalyzer()}
}

// LabelFor maps a compound score to its band.
func LabelFor(compound float64) Label {
	switch {
	case compound >= PositiveThreshold:
		return Positive
	case compound <= NegativeThreshold:
		return Negative
	default:
		return Neutral
	}
}

// Score computes the compound score of text. Empty text is neutral with score 0.
func (s *Scorer) Score(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Compound: 0, Label: Neutral}
	}
	compound := s.analyzer.PolarityScores(text).Compound
	return Result{Compound: compound, Label: LabelFor(compound)}
}

// Label is shorthand for Score(text).Label.
func (s *Scorer) Label(text string) Label {
	return s.Score(text).Label
}
