package marketdata

// rawValue is the {raw, fmt} wrapper the quote-summary API uses for
// every numeric field. Absent fields unmarshal with Raw == nil.
type rawValue struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

// quoteSummaryResponse is the top-level envelope
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *apiError            `json:"error"`
	} `json:"quoteSummary"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type quoteSummaryResult struct {
	Price                    *priceModule           `json:"price"`
	SummaryDetail            *summaryDetailModule   `json:"summaryDetail"`
	FinancialData            *financialDataModule   `json:"financialData"`
	AssetProfile             *assetProfileModule    `json:"assetProfile"`
	CashflowStatementHistory *cashflowHistoryModule `json:"cashflowStatementHistory"`
	IncomeStatementHistory   *incomeHistoryModule   `json:"incomeStatementHistory"`
}

type priceModule struct {
	RegularMarketPrice rawValue `json:"regularMarketPrice"`
	Currency           string   `json:"currency"`
}

type summaryDetailModule struct {
	DividendYield rawValue `json:"dividendYield"`
	PayoutRatio   rawValue `json:"payoutRatio"`
}

type financialDataModule struct {
	RevenueGrowth rawValue `json:"revenueGrowth"`
}

type assetProfileModule struct {
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}

type cashflowHistoryModule struct {
	// Most recent period first
	CashflowStatements []cashflowStatement `json:"cashflowStatements"`
}

type cashflowStatement struct {
	EndDate                          rawValue `json:"endDate"`
	TotalCashFromOperatingActivities rawValue `json:"totalCashFromOperatingActivities"`
	CapitalExpenditures              rawValue `json:"capitalExpenditures"`
}

type incomeHistoryModule struct {
	IncomeStatementHistory []incomeStatement `json:"incomeStatementHistory"`
}

type incomeStatement struct {
	EndDate             rawValue `json:"endDate"`
	ResearchDevelopment rawValue `json:"researchDevelopment"`
}
