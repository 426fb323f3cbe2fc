package scavenger

import (
	"context"
	"log/slog"
	"time"

	"github.com/samgozman/fin-dashboard/refdata"
	"github.com/samgozman/fin-dashboard/scavenger/crypto"
	"github.com/samgozman/fin-dashboard/scavenger/fetcher"
	"github.com/samgozman/fin-dashboard/scavenger/stocks"
	"github.com/samgozman/fin-dashboard/snapshot"
)

// Sources holds the optional upstream URLs. An empty URL selects the built-in
// source of the domain (reference data, Alpha Vantage quotes) or leaves it absent.
type Sources struct {
	CountriesURL   string
	IndicesURL     string
	StockThemesURL string
	RealEstateURL  string
	GICIURL        string
}

// Scavenger collects the raw per-domain inputs of a dashboard snapshot.
//
// Domains are fetched one after another. A failed domain is reported as absent
// and never aborts the collection: the snapshot builder substitutes its fallback.
type Scavenger struct {
	fetcher   *fetcher.Client
	quotes    *stocks.QuoteClient
	crypto    *crypto.Client
	reference *refdata.Reference
	sources   Sources
	logger    *slog.Logger
}

// NewScavenger creates a new Scavenger.
func NewScavenger(
	f *fetcher.Client,
	quotes *stocks.QuoteClient,
	cryptoClient *crypto.Client,
	reference *refdata.Reference,
	sources Sources,
) *Scavenger {
	return &Scavenger{
		fetcher:   f,
		quotes:    quotes,
		crypto:    cryptoClient,
		reference: reference,
		sources:   sources,
		logger:    slog.Default(),
	}
}

// WithLogger sets the logger used for progress lines.
func (s *Scavenger) WithLogger(logger *slog.Logger) *Scavenger {
	s.logger = logger
	return s
}

type collector struct {
	domain snapshot.Domain
	fetch  func(ctx context.Context) (any, bool)
}

// Collect runs every domain collector and returns the inputs that were obtained.
func (s *Scavenger) Collect(ctx context.Context) snapshot.Inputs {
	collectors := []collector{
		{snapshot.DomainCountries, s.countries},
		{snapshot.DomainIndices, s.indices},
		{snapshot.DomainStockThemes, s.stockThemes},
		{snapshot.DomainCrypto, s.cryptoPrices},
		{snapshot.DomainRealEstate, s.fromURL(s.sources.RealEstateURL)},
		{snapshot.DomainGICI, s.fromURL(s.sources.GICIURL)},
	}

	in := make(snapshot.Inputs, len(collectors))
	for _, c := range collectors {
		start := time.Now()
		v, ok := c.fetch(ctx)
		if !ok || v == nil {
			s.logger.Info("domain unavailable, using fallback", "domain", c.domain, "elapsed", time.Since(start))
			continue
		}

		s.logger.Info("fetched domain", "domain", c.domain, "elapsed", time.Since(start))
		in[c.domain] = v
	}

	return in
}

// fromURL returns a collector that fetches url, or reports absence when url is empty.
func (s *Scavenger) fromURL(url string) func(ctx context.Context) (any, bool) {
	return func(ctx context.Context) (any, bool) {
		if url == "" {
			return nil, false
		}
		return s.fetcher.FetchJSON(ctx, url)
	}
}

func (s *Scavenger) countries(ctx context.Context) (any, bool) {
	if s.sources.CountriesURL != "" {
		return s.fetcher.FetchJSON(ctx, s.sources.CountriesURL)
	}
	if len(s.reference.Countries) == 0 {
		return nil, false
	}
	return s.reference.Countries, true
}

func (s *Scavenger) indices(ctx context.Context) (any, bool) {
	if s.sources.IndicesURL != "" {
		return s.fetcher.FetchJSON(ctx, s.sources.IndicesURL)
	}
	return s.quotes.Indices(ctx, s.reference.Indices)
}

func (s *Scavenger) stockThemes(ctx context.Context) (any, bool) {
	if s.sources.StockThemesURL != "" {
		return s.fetcher.FetchJSON(ctx, s.sources.StockThemesURL)
	}
	if len(s.reference.Themes) == 0 {
		return nil, false
	}
	return s.reference.Themes, true
}

func (s *Scavenger) cryptoPrices(ctx context.Context) (any, bool) {
	prices, err := s.crypto.Prices(ctx)
	if err != nil {
		s.logger.Warn("crypto prices unavailable", "error", err)
		return nil, false
	}
	return prices, true
}
