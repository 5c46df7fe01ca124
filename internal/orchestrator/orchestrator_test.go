package orchestrator

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/capengine/internal/architect"
	"github.com/wonny/capengine/internal/external/marketdata"
	"github.com/wonny/capengine/internal/librarian"
	"github.com/wonny/capengine/internal/trader"
	"github.com/wonny/capengine/pkg/httputil"
	"github.com/wonny/capengine/pkg/logger"
)

const quoteSummaryFixture = `{"quoteSummary":{"result":[{
	"price":{"regularMarketPrice":{"raw":100}},
	"summaryDetail":{"dividendYield":{"raw":0.01},"payoutRatio":{"raw":0.5}},
	"financialData":{"revenueGrowth":{"raw":0.2}},
	"assetProfile":{"sector":"Technology"},
	"cashflowStatementHistory":{"cashflowStatements":[
		{"totalCashFromOperatingActivities":{"raw":100},"capitalExpenditures":{"raw":-30}},
		{"totalCashFromOperatingActivities":{"raw":80},"capitalExpenditures":{"raw":-20}}
	]},
	"incomeStatementHistory":{"incomeStatementHistory":[{"researchDevelopment":{"raw":10}}]}
}],"error":null}}`

func newOrchestratorFixture(t *testing.T) *Orchestrator {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(quoteSummaryFixture))
	}))
	t.Cleanup(server.Close)

	log := logger.NewForWriter(io.Discard)
	market := marketdata.NewClient(httputil.New(log).DisableRetry(), log, server.URL)
	collector := librarian.NewCollector(market, nil, nil, nil, log)

	return NewOrchestrator(collector, architect.New(nil, log), trader.New(nil, log), nil, log)
}

func TestRunFullPipeline(t *testing.T) {
	o := newOrchestratorFixture(t)

	result, err := o.Run(context.Background(), RunConfig{
		RunID:    "20260826",
		Symbols:  []string{"NVDA", "PLTR"},
		Budget:   10000,
		Workers:  2,
		SkipNews: true,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, []string{"LIBRARIAN", "ARCHITECT", "TRADER"}, result.CompletedStages)
	assert.Equal(t, 2, result.Financials.Count())
	require.NotNil(t, result.Report)
	assert.Len(t, result.Report.Ranked, 2)
	require.NotNil(t, result.Plan)
	assert.NotEmpty(t, result.Plan.Plans)
}

func TestRunDryRunStopsBeforeTrader(t *testing.T) {
	o := newOrchestratorFixture(t)

	result, err := o.Run(context.Background(), RunConfig{
		RunID:    "20260826",
		Symbols:  []string{"NVDA"},
		Budget:   10000,
		SkipNews: true,
		DryRun:   true,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, []string{"LIBRARIAN", "ARCHITECT"}, result.CompletedStages)
	assert.Nil(t, result.Plan)
}

func TestRunEmitsEvents(t *testing.T) {
	o := newOrchestratorFixture(t)

	var events []Event
	o.WithEventHandler(func(e Event) { events = append(events, e) })

	_, err := o.Run(context.Background(), RunConfig{
		RunID:    "20260826",
		Symbols:  []string{"NVDA"},
		Budget:   10000,
		SkipNews: true,
	})
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, "LIBRARIAN", events[0].Stage)
	assert.Equal(t, "20260826", events[0].RunID)
	assert.False(t, events[0].At.IsZero())
}

func TestRunEmptyWatchlistYieldsEmptyBatch(t *testing.T) {
	o := newOrchestratorFixture(t)

	result, err := o.Run(context.Background(), RunConfig{
		RunID:    "20260826",
		Budget:   10000,
		SkipNews: true,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.True(t, result.Report.EmptyBatch)
	assert.Empty(t, result.Plan.Plans)
}

func TestNewRunID(t *testing.T) {
	ts := time.Date(2026, 8, 26, 12, 5, 0, 0, time.UTC)
	assert.Equal(t, "20260826", NewRunID(ts))
}
