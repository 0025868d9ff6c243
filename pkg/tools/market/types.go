package market

import "context"

// NewsItem is one scraped headline with its summary
type NewsItem struct {
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
}

// NewsSource fetches the latest financial news headlines
type NewsSource interface {
	Fetch(ctx context.Context) ([]NewsItem, error)
}

// Quote is a snapshot of one index or FX symbol
type Quote struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
}

// Mover is one entry of a top gainers or losers list
type Mover struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ChangePct float64 `json:"change_pct"`
}

// Listing is one stock found by a name search
type Listing struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Price is the latest trading snapshot for one stock
type Price struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Close     float64 `json:"close"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
	Volume    int64   `json:"volume"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
}

// Company is the fundamental profile of one listed company
type Company struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Industry      string  `json:"industry,omitempty"`
	MarketCap     int64   `json:"market_cap,omitempty"`
	PER           float64 `json:"per,omitempty"`
	PBR           float64 `json:"pbr,omitempty"`
	DividendYield float64 `json:"dividend_yield,omitempty"`
}

// Candle is one daily OHLCV bar, oldest first in any series
type Candle struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// QuoteService provides market data lookups. Implementations own all
// network access so the tool handlers stay hermetic in tests.
type QuoteService interface {
	Indicators(ctx context.Context, symbols []string) ([]Quote, error)
	Movers(ctx context.Context, direction string, limit int) ([]Mover, error)
	Search(ctx context.Context, name string) ([]Listing, error)
	Price(ctx context.Context, code string) (*Price, error)
	Company(ctx context.Context, code string) (*Company, error)
	Candles(ctx context.Context, code string, days int) ([]Candle, error)
}
