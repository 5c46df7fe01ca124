package librarian

import (
	"strings"

	"github.com/wonny/capengine/internal/contracts"
)

// Lexicon weights for headline scoring. Weights are asymmetric:
// strongly directional words count double.
var (
	bullishTerms = map[string]float64{
		"beat": 1, "beats": 1, "record": 1, "surge": 2, "surges": 2,
		"soar": 2, "soars": 2, "rally": 1, "growth": 1, "strong": 1,
		"upgrade": 2, "upgraded": 2, "outperform": 1, "buy": 1,
		"raise": 1, "raises": 1, "profit": 1, "gains": 1, "jump": 1,
		"jumps": 1, "bullish": 2, "breakthrough": 2, "expansion": 1,
	}

	bearishTerms = map[string]float64{
		"miss": 1, "misses": 1, "fall": 1, "falls": 1, "drop": 1,
		"drops": 1, "plunge": 2, "plunges": 2, "crash": 2, "weak": 1,
		"downgrade": 2, "downgraded": 2, "underperform": 1, "sell": 1,
		"cut": 1, "cuts": 1, "loss": 1, "losses": 1, "lawsuit": 2,
		"recall": 2, "bearish": 2, "layoffs": 2, "warning": 1,
	}
)

// neutralBand is the score band classified as neutral
const neutralBand = 0.15

// SentimentScorer classifies headlines with a weighted keyword lexicon.
// Deliberately simple: no model downloads, deterministic, fast.
type SentimentScorer struct {
	bullish map[string]float64
	bearish map[string]float64
}

// NewSentimentScorer creates a scorer with the default lexicon
func NewSentimentScorer() *SentimentScorer {
	return &SentimentScorer{
		bullish: bullishTerms,
		bearish: bearishTerms,
	}
}

// Score rates a piece of text in [-1, 1] and labels it.
// Text with no lexicon hits is neutral with score 0.
func (s *SentimentScorer) Score(text string) contracts.Sentiment {
	var bull, bear float64
	for _, token := range tokenize(text) {
		bull += s.bullish[token]
		bear += s.bearish[token]
	}

	total := bull + bear
	if total == 0 {
		return contracts.Sentiment{Label: contracts.SentimentNeutral, Score: 0}
	}

	score := (bull - bear) / total

	label := contracts.SentimentNeutral
	switch {
	case score > neutralBand:
		label = contracts.SentimentBullish
	case score < -neutralBand:
		label = contracts.SentimentBearish
	}

	return contracts.Sentiment{Label: label, Score: score}
}

// ScoreArticle scores title and summary together, title counted twice
func (s *SentimentScorer) ScoreArticle(a *contracts.NewsArticle) contracts.Sentiment {
	return s.Score(a.Title + " " + a.Title + " " + a.Summary)
}

// tokenize lowercases and splits on non-letter runs
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z')
	})
}
