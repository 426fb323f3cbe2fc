// Package stocks fetches index prices from Alpha Vantage.
package stocks

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/samgozman/fin-dashboard/refdata"
	"github.com/samgozman/fin-dashboard/scavenger/fetcher"
	"github.com/shopspring/decimal"
)

const DefaultBaseURL = "https://www.alphavantage.co/query"

// QuoteClient requests GLOBAL_QUOTE prices for the index quote plan.
type QuoteClient struct {
	fetcher *fetcher.Client
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

// QuoteOption configures the QuoteClient.
type QuoteOption func(*QuoteClient)

// WithBaseURL replaces the Alpha Vantage endpoint.
func WithBaseURL(baseURL string) QuoteOption {
	return func(c *QuoteClient) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) QuoteOption {
	return func(c *QuoteClient) {
		c.logger = logger
	}
}

// NewQuoteClient creates a QuoteClient. An empty apiKey makes every quote fail.
func NewQuoteClient(f *fetcher.Client, apiKey string, opts ...QuoteOption) *QuoteClient {
	c := &QuoteClient{
		fetcher: f,
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Quote returns the latest price of the symbol.
func (c *QuoteClient) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if c.apiKey == "" {
		return decimal.Zero, newError(symbol, errMissingAPIKey)
	}

	q := url.Values{}
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", symbol)
	q.Set("apikey", c.apiKey)

	var resp globalQuoteResponse
	if err := c.fetcher.Get(ctx, fmt.Sprintf("%s?%s", c.baseURL, q.Encode()), &resp); err != nil {
		return decimal.Zero, newError(symbol, err)
	}

	// Alpha Vantage answers throttled or unknown symbols with 200 and an empty quote
	if resp.Quote.Price == "" {
		return decimal.Zero, newError(symbol, errNoQuote)
	}

	price, err := decimal.NewFromString(resp.Quote.Price)
	if err != nil {
		return decimal.Zero, newError(symbol, fmt.Errorf("%w: %w", errBadPrice, err))
	}

	return price, nil
}

// Indices quotes every entry of the plan and returns the indices object
// ({key: {price, ytd}}). A failed quote uses the entry's fallback price, or
// drops the entry when it has none. Returns false when no entry is left.
func (c *QuoteClient) Indices(ctx context.Context, plan []refdata.IndexQuote) (map[string]any, bool) {
	indices := make(map[string]any, len(plan))

	for _, entry := range plan {
		price, err := c.Quote(ctx, entry.Symbol)
		if err != nil {
			if entry.FallbackPrice == nil {
				c.logger.Warn("quote failed, index skipped", "key", entry.Key, "error", err)
				continue
			}
			c.logger.Warn("quote failed, using fallback price", "key", entry.Key, "price", *entry.FallbackPrice, "error", err)
			price = decimal.NewFromFloat(*entry.FallbackPrice)
		}

		indices[entry.Key] = map[string]any{
			"price": price.InexactFloat64(),
			"ytd":   entry.YTD,
		}
	}

	if len(indices) == 0 {
		return nil, false
	}

	return indices, true
}

type globalQuoteResponse struct {
	Quote struct {
		Symbol        string `json:"01. symbol"`
		Price         string `json:"05. price"`
		LatestDay     string `json:"07. latest trading day"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
}
