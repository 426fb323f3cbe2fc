// Package crypto fetches cryptocurrency prices from CoinGecko or the CoinMarketCap ticker.
package crypto

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/samber/lo"
	"github.com/samgozman/fin-dashboard/scavenger/fetcher"
	"github.com/shopspring/decimal"
)

type Provider string

const (
	ProviderCoinGecko     Provider = "coingecko"
	ProviderCoinMarketCap Provider = "coinmarketcap"
)

// DefaultURL returns the public endpoint of the provider.
func DefaultURL(p Provider) string {
	switch p {
	case ProviderCoinMarketCap:
		return "https://api.coinmarketcap.com/v1/ticker/"
	default:
		return "https://api.coingecko.com/api/v3/simple/price"
	}
}

// Client fetches the crypto object of the snapshot: {id: {currency: price, ...}}.
type Client struct {
	fetcher    *fetcher.Client
	provider   Provider
	url        string
	ids        []string
	currencies []string
	logger     *slog.Logger
}

type ClientOption func(*Client)

// WithURL replaces the provider endpoint.
func WithURL(u string) ClientOption {
	return func(c *Client) {
		if u != "" {
			c.url = u
		}
	}
}

func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for the provider. ids and currencies narrow the
// CoinGecko query; the CoinMarketCap ticker always returns its full list.
func NewClient(f *fetcher.Client, provider Provider, ids, currencies []string, opts ...ClientOption) *Client {
	c := &Client{
		fetcher:    f,
		provider:   provider,
		url:        DefaultURL(provider),
		ids:        ids,
		currencies: currencies,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Prices returns the crypto object, or an error when the provider failed or returned nothing.
func (c *Client) Prices(ctx context.Context) (map[string]any, error) {
	var (
		prices map[string]any
		err    error
	)

	switch c.provider {
	case ProviderCoinGecko:
		prices, err = c.coinGecko(ctx)
	case ProviderCoinMarketCap:
		prices, err = c.coinMarketCap(ctx)
	default:
		return nil, newError(c.provider, errUnknownProvider)
	}
	if err != nil {
		return nil, newError(c.provider, err)
	}

	if len(prices) == 0 {
		return nil, newError(c.provider, errEmptyResponse)
	}

	return prices, nil
}

func (c *Client) coinGecko(ctx context.Context) (map[string]any, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(c.ids, ","))
	q.Set("vs_currencies", strings.Join(c.currencies, ","))
	q.Set("include_24hr_change", "true")

	var resp map[string]map[string]float64
	if err := c.fetcher.Get(ctx, fmt.Sprintf("%s?%s", c.url, q.Encode()), &resp); err != nil {
		return nil, err
	}

	return lo.MapValues(resp, func(quote map[string]float64, _ string) any {
		return lo.MapValues(quote, func(v float64, _ string) any { return v })
	}), nil
}

// coinMarketCap converts the ticker list into {id: {usd, krw}}. Entries with an
// unparseable USD price are skipped; a missing KRW price becomes 0.
func (c *Client) coinMarketCap(ctx context.Context) (map[string]any, error) {
	var resp []tickerItem
	if err := c.fetcher.Get(ctx, c.url, &resp); err != nil {
		return nil, err
	}

	prices := make(map[string]any, len(resp))
	for _, item := range resp {
		if item.ID == "" {
			continue
		}

		usd, err := decimal.NewFromString(item.PriceUSD)
		if err != nil {
			c.logger.Warn("skipping ticker entry", "id", item.ID, "price_usd", item.PriceUSD, "error", err)
			continue
		}

		krw := decimal.Zero
		if item.PriceKRW != "" {
			if krw, err = decimal.NewFromString(item.PriceKRW); err != nil {
				krw = decimal.Zero
			}
		}

		prices[item.ID] = map[string]any{
			"usd": usd.InexactFloat64(),
			"krw": krw.InexactFloat64(),
		}
	}

	return prices, nil
}

type tickerItem struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Symbol           string `json:"symbol"`
	PriceUSD         string `json:"price_usd"`
	PriceKRW         string `json:"price_krw"`
	PercentChange24h string `json:"percent_change_24h"`
}
