package contracts

import "time"

// NewsArticle is one headline collected by the Librarian.
type NewsArticle struct {
	Symbol    string    `json:"symbol"`
	Source    string    `json:"source"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Published time.Time `json:"published"`
	Summary   string    `json:"summary,omitempty"`

	Sentiment Sentiment `json:"sentiment"`
}

// SentimentLabel classifies a headline.
type SentimentLabel string

const (
	SentimentBullish SentimentLabel = "bullish"
	SentimentBearish SentimentLabel = "bearish"
	SentimentNeutral SentimentLabel = "neutral"
)

// Sentiment is a keyword-lexicon score for a piece of text.
type Sentiment struct {
	Label SentimentLabel `json:"label"`
	Score float64        `json:"score"` // -1.0 ~ 1.0
}

// NewsSet groups collected articles for a run.
type NewsSet struct {
	Articles []NewsArticle `json:"articles"`
}

// ForSymbol returns articles mentioning the given ticker.
func (n *NewsSet) ForSymbol(symbol string) []NewsArticle {
	var out []NewsArticle
	for _, a := range n.Articles {
		if a.Symbol == symbol {
			out = append(out, a)
		}
	}
	return out
}

// SentimentCounts returns bullish/bearish/neutral tallies.
func (n *NewsSet) SentimentCounts() (bullish, bearish, neutral int) {
	for _, a := range n.Articles {
		switch a.Sentiment.Label {
		case SentimentBullish:
			bullish++
		case SentimentBearish:
			bearish++
		default:
			neutral++
		}
	}
	return
}
