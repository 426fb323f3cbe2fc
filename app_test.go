package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samgozman/fin-dashboard/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T, upstream string) *Env {
	t.Helper()
	return &Env{
		OutputPath:        filepath.Join(t.TempDir(), "data", "dashboard_data.json"),
		ThemesKey:         "korea_themes",
		CryptoProvider:    "coingecko",
		CryptoURL:         upstream + "/simple/price",
		AlphaVantageKey:   "demo",
		AlphaVantageURL:   upstream + "/query",
		RealEstateURL:     upstream + "/real-estate",
		HTTPTimeout:       time.Second,
		RequestsPerSecond: 0,
		SanitizeStrings:   true,
		LogLevel:          "info",
	}
}

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/simple/price":
			_, _ = w.Write([]byte(`{"bitcoin":{"usd":70000,"krw":95000000,"usd_24h_change":-1.2}}`))
		case "/query":
			_, _ = w.Write([]byte(`{"Global Quote":{"05. price":"600.0000"}}`))
		case "/real-estate":
			_, _ = w.Write([]byte(`{"seoul":{"apartment_index":<b>101.2</b>}}`))
		case "/gici":
			_, _ = w.Write([]byte(`{"components":{"inflation_trend":"high"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestApp_Run_once(t *testing.T) {
	srv := newUpstream(t)
	env := testEnv(t, srv.URL)

	app, err := NewApp(NewConfig(env), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	app.job.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, app.Run(context.Background()))

	data, err := os.ReadFile(env.OutputPath)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Contains(t, doc, "korea_themes")
	assert.Equal(t, map[string]any{
		"sp500":       map[string]any{"price": 600.0, "ytd": 22.3},
		"kospi_proxy": map[string]any{"price": 600.0, "ytd": -9.6},
	}, doc["indices"])
	assert.Equal(t, 70000.0, doc["crypto"].(map[string]any)["bitcoin"].(map[string]any)["usd"])
	// malformed real estate payload falls back to an empty object
	assert.Equal(t, map[string]any{}, doc["real_estate"])
	assert.Equal(t, 66.0, doc["gici"].(map[string]any)["current_score"])
}

func TestApp_Run_malformedGICI(t *testing.T) {
	srv := newUpstream(t)
	env := testEnv(t, srv.URL)
	env.GICIURL = srv.URL + "/gici"

	app, err := NewApp(NewConfig(env), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	app.job.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	err = app.Run(context.Background())
	require.ErrorIs(t, err, snapshot.ErrBuild)
	assert.ErrorIs(t, err, snapshot.ErrMalformedComponent)
	assert.NoFileExists(t, env.OutputPath)
}

func TestNewApp_invalidReference(t *testing.T) {
	env := testEnv(t, "http://127.0.0.1:0")
	env.ReferenceDataPath = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := NewApp(NewConfig(env), slog.Default())
	assert.Error(t, err)
}

func TestApp_Run_scheduled(t *testing.T) {
	srv := newUpstream(t)
	env := testEnv(t, srv.URL)
	env.Schedule = "0 0 1 1 *"

	app, err := NewApp(NewConfig(env), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	// the first run happens before the scheduler waits for its next tick
	require.Eventually(t, func() bool {
		_, err := os.Stat(env.OutputPath)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestApp_Run_invalidSchedule(t *testing.T) {
	env := testEnv(t, "http://127.0.0.1:0")
	env.Schedule = "every now and then"

	app, err := NewApp(NewConfig(env), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	assert.Error(t, app.Run(context.Background()))
	assert.NoFileExists(t, env.OutputPath)
}
