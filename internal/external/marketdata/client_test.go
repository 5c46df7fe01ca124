package marketdata

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/capengine/pkg/httputil"
	"github.com/wonny/capengine/pkg/logger"
)

const sampleQuoteSummary = `{
  "quoteSummary": {
    "result": [{
      "price": {"regularMarketPrice": {"raw": 182.5, "fmt": "182.50"}, "currency": "USD"},
      "summaryDetail": {
        "dividendYield": {"raw": 0.0153, "fmt": "1.53%"},
        "payoutRatio": {"raw": 0.4, "fmt": "40.00%"}
      },
      "financialData": {"revenueGrowth": {"raw": 0.12, "fmt": "12.00%"}},
      "assetProfile": {"sector": "Technology", "industry": "Semiconductors"},
      "cashflowStatementHistory": {
        "cashflowStatements": [
          {
            "endDate": {"raw": 1735603200},
            "totalCashFromOperatingActivities": {"raw": 100.0},
            "capitalExpenditures": {"raw": -30.0}
          },
          {
            "endDate": {"raw": 1704067200},
            "totalCashFromOperatingActivities": {"raw": 80.0},
            "capitalExpenditures": {"raw": -20.0}
          }
        ]
      },
      "incomeStatementHistory": {
        "incomeStatementHistory": [
          {"endDate": {"raw": 1735603200}, "researchDevelopment": {"raw": 10.0}}
        ]
      }
    }],
    "error": null
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := logger.NewForWriter(io.Discard)
	return NewClient(httputil.New(log).DisableRetry(), log, server.URL), server
}

func TestFetchFundamentals(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v10/finance/quoteSummary/NVDA")
		assert.Contains(t, r.URL.Query().Get("modules"), "cashflowStatementHistory")
		w.Write([]byte(sampleQuoteSummary))
	})

	fin, err := client.FetchFundamentals(context.Background(), "NVDA")
	require.NoError(t, err)

	require.NotNil(t, fin.CashFlowFromOps)
	assert.InDelta(t, 100.0, *fin.CashFlowFromOps, 1e-9)

	require.NotNil(t, fin.RDExpense)
	assert.InDelta(t, 10.0, *fin.RDExpense, 1e-9)

	// Capex is normalized from the provider's negative outflow
	require.NotNil(t, fin.Capex)
	assert.InDelta(t, 30.0, *fin.Capex, 1e-9)

	// Provider ratios converted to percent points
	require.NotNil(t, fin.DividendYield)
	assert.InDelta(t, 1.53, *fin.DividendYield, 1e-9)
	require.NotNil(t, fin.RevenueGrowth)
	assert.InDelta(t, 12.0, *fin.RevenueGrowth, 1e-9)

	// Payout stays a ratio
	require.NotNil(t, fin.PayoutRatio)
	assert.InDelta(t, 0.4, *fin.PayoutRatio, 1e-9)

	// FCF per period = cfo - |capex|
	require.NotNil(t, fin.FCFCurrentPeriod)
	assert.InDelta(t, 70.0, *fin.FCFCurrentPeriod, 1e-9)
	require.NotNil(t, fin.FCFPriorPeriod)
	assert.InDelta(t, 60.0, *fin.FCFPriorPeriod, 1e-9)

	assert.Equal(t, "Technology", fin.Sector)
	require.NotNil(t, fin.Price)
	assert.InDelta(t, 182.5, *fin.Price, 1e-9)

	assert.True(t, fin.Complete())
}

func TestFetchFundamentalsMissingModules(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary":{"result":[{"price":{"regularMarketPrice":{"raw":50.0}}}],"error":null}}`))
	})

	fin, err := client.FetchFundamentals(context.Background(), "XYZ")
	require.NoError(t, err)

	assert.False(t, fin.Complete())
	assert.Nil(t, fin.CashFlowFromOps)
	assert.Nil(t, fin.DividendYield)
	require.NotNil(t, fin.Price)
	assert.InDelta(t, 50.0, *fin.Price, 1e-9)
}

func TestFetchFundamentalsProviderError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary":{"result":[],"error":{"code":"Not Found","description":"No data found"}}}`))
	})

	_, err := client.FetchFundamentals(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No data found")
}

func TestFetchFundamentalsBadStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.FetchFundamentals(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestParseStatsDocument(t *testing.T) {
	html := `<html><body><table>
	  <tr><td>Forward Annual Dividend Yield</td><td>4.35%</td></tr>
	  <tr><td>Payout Ratio</td><td>60.00%</td></tr>
	  <tr><td>Beta (5Y Monthly)</td><td>1.20</td></tr>
	</table></body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	log := logger.NewForWriter(io.Discard)
	scraper := NewScraper(httputil.New(log), log)
	stats := scraper.parseStatsDocument(doc)

	require.NotNil(t, stats.DividendYield)
	assert.InDelta(t, 4.35, *stats.DividendYield, 1e-9)

	require.NotNil(t, stats.PayoutRatio)
	assert.InDelta(t, 0.6, *stats.PayoutRatio, 1e-9)
}

func TestParsePercentCell(t *testing.T) {
	tests := []struct {
		input string
		want  *float64
	}{
		{"4.35%", f(4.35)},
		{"1,234.5%", f(1234.5)},
		{"N/A", nil},
		{"--", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := parsePercentCell(tt.input)
		if tt.want == nil {
			assert.Nil(t, got, "input %q", tt.input)
		} else {
			require.NotNil(t, got, "input %q", tt.input)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		}
	}
}

func f(v float64) *float64 { return &v }
