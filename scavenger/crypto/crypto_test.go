package crypto

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samgozman/fin-dashboard/pkg/errlvl"
	"github.com/samgozman/fin-dashboard/scavenger/fetcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Prices_coinGecko(t *testing.T) {
	srv := newServer(t, http.StatusOK,
		`{"bitcoin":{"usd":72300,"krw":96500000,"usd_24h_change":2.5},"solana":{"usd":180.4,"krw":240000}}`,
		func(r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "bitcoin,ethereum,solana", q.Get("ids"))
			assert.Equal(t, "usd,krw", q.Get("vs_currencies"))
			assert.Equal(t, "true", q.Get("include_24hr_change"))
		})

	c := NewClient(fetcher.NewClient(fetcher.WithRateLimit(0)), ProviderCoinGecko,
		[]string{"bitcoin", "ethereum", "solana"}, []string{"usd", "krw"}, WithURL(srv.URL))

	got, err := c.Prices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"bitcoin": map[string]any{"usd": 72300.0, "krw": 96500000.0, "usd_24h_change": 2.5},
		"solana":  map[string]any{"usd": 180.4, "krw": 240000.0},
	}, got)
}

func TestClient_Prices_coinMarketCap(t *testing.T) {
	body := `[
		{"id":"bitcoin","symbol":"BTC","price_usd":"72300.15","price_krw":"96500000.5"},
		{"id":"ethereum","symbol":"ETH","price_usd":"3800.0"},
		{"id":"broken","symbol":"BRK","price_usd":"n/a"},
		{"symbol":"NOID","price_usd":"1"}
	]`
	srv := newServer(t, http.StatusOK, body, nil)

	c := NewClient(fetcher.NewClient(fetcher.WithRateLimit(0)), ProviderCoinMarketCap, nil, nil, WithURL(srv.URL))

	got, err := c.Prices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"bitcoin":  map[string]any{"usd": 72300.15, "krw": 96500000.5},
		"ethereum": map[string]any{"usd": 3800.0, "krw": 0.0},
	}, got)
}

func TestClient_Prices_errors(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		status   int
		body     string
		wantErr  error
	}{
		{name: "coingecko server error", provider: ProviderCoinGecko, status: http.StatusServiceUnavailable, body: `{}`, wantErr: fetcher.ErrStatus},
		{name: "coingecko empty object", provider: ProviderCoinGecko, status: http.StatusOK, body: `{}`, wantErr: errEmptyResponse},
		{name: "coinmarketcap not a list", provider: ProviderCoinMarketCap, status: http.StatusOK, body: `{"error":"gone"}`, wantErr: fetcher.ErrDecode},
		{name: "coinmarketcap nothing parseable", provider: ProviderCoinMarketCap, status: http.StatusOK, body: `[{"id":"x","price_usd":""}]`, wantErr: errEmptyResponse},
		{name: "unknown provider", provider: Provider("binance"), status: http.StatusOK, body: `{}`, wantErr: errUnknownProvider},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.status, tt.body, nil)
			c := NewClient(fetcher.NewClient(fetcher.WithRateLimit(0)), tt.provider,
				[]string{"bitcoin"}, []string{"usd"}, WithURL(srv.URL))

			got, err := c.Prices(context.Background())
			assert.Nil(t, got)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, errlvl.WARN, errlvl.Of(err))
		})
	}
}

func TestDefaultURL(t *testing.T) {
	assert.Equal(t, "https://api.coingecko.com/api/v3/simple/price", DefaultURL(ProviderCoinGecko))
	assert.Equal(t, "https://api.coinmarketcap.com/v1/ticker/", DefaultURL(ProviderCoinMarketCap))
}
