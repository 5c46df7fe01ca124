package librarian

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/capengine/internal/contracts"
)

func TestSentimentScorer(t *testing.T) {
	scorer := NewSentimentScorer()

	tests := []struct {
		name  string
		text  string
		label contracts.SentimentLabel
	}{
		{"clearly bullish", "NVDA surges to record high after earnings beat", contracts.SentimentBullish},
		{"clearly bearish", "Shares plunge after downgrade and weak guidance", contracts.SentimentBearish},
		{"no lexicon hits", "Company schedules annual shareholder meeting", contracts.SentimentNeutral},
		{"mixed signals", "Profit beat offset by weak guidance miss", contracts.SentimentNeutral},
		{"case insensitive", "ANALYSTS UPGRADE STOCK TO BUY", contracts.SentimentBullish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(tt.text)
			assert.Equal(t, tt.label, got.Label)
		})
	}
}

func TestSentimentScoreBounds(t *testing.T) {
	scorer := NewSentimentScorer()

	pure := scorer.Score("surge surge rally gains")
	assert.InDelta(t, 1.0, pure.Score, 1e-9)

	empty := scorer.Score("")
	assert.Zero(t, empty.Score)
	assert.Equal(t, contracts.SentimentNeutral, empty.Label)
}

func TestScoreArticleWeighsTitle(t *testing.T) {
	scorer := NewSentimentScorer()

	// Bullish title outweighs a mildly bearish summary
	article := &contracts.NewsArticle{
		Title:   "Record surge in quarterly profit",
		Summary: "Some analysts note a weak segment",
	}
	got := scorer.ScoreArticle(article)
	assert.Equal(t, contracts.SentimentBullish, got.Label)
}
