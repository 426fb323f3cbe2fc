package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/samgozman/fin-dashboard/pkg/errlvl"
)

const (
	ThemesKeyStock = "stock_themes" // default variant
	ThemesKeyKorea = "korea_themes" // extended variant
)

// Constants are the process-wide values stamped into every snapshot.
type Constants struct {
	Version       string
	Year          int
	DataSource    string
	ThemesKey     string            // ThemesKeyStock or ThemesKeyKorea, empty means ThemesKeyStock
	Components    map[Component]int // reference component scores, used when no gici input overrides them
	PreviousScore int
	Signals       map[string]string // recommendation per asset class
}

// Snapshot is the complete document of one run. It is never mutated after Build returns.
type Snapshot struct {
	Version     string
	LastUpdated time.Time
	Year        int
	DataSource  string
	ThemesKey   string
	Countries   any
	Indices     any
	Themes      any
	Crypto      any
	RealEstate  any
	GICI        CompositeScore
}

// Keys returns the top-level JSON keys in output order.
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, 11)
	for _, f := range s.fields() {
		keys = append(keys, f.key)
	}
	return keys
}

type field struct {
	key   string
	value any
}

func (s Snapshot) fields() []field {
	return []field{
		{"version", s.Version},
		{"last_updated", Timestamp(s.LastUpdated)},
		{"last_updated_display", DisplayTime(s.LastUpdated)},
		{"year", s.Year},
		{"data_source", s.DataSource},
		{"countries", s.Countries},
		{"indices", s.Indices},
		{s.ThemesKey, s.Themes},
		{"crypto", s.Crypto},
		{"real_estate", s.RealEstate},
		{"gici", s.GICI},
	}
}

// MarshalJSON writes the keys in a fixed order. Both timestamps are rendered from LastUpdated.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s.fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encode(&buf, f.key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encode(&buf, f.value); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", f.key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encode writes v without HTML escaping so Korean text and symbols stay readable.
func encode(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode always terminates with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Builder assembles snapshots from resolved inputs.
type Builder struct {
	constants Constants
	fallbacks FallbackPolicy
	clock     func() time.Time
}

// NewBuilder creates a Builder with the given constants and fallback policy.
// A nil policy means DefaultFallbacks.
func NewBuilder(constants Constants, fallbacks FallbackPolicy) *Builder {
	if fallbacks == nil {
		fallbacks = DefaultFallbacks()
	}
	return &Builder{
		constants: constants,
		fallbacks: fallbacks,
		clock:     time.Now,
	}
}

// WithClock replaces the time source. Tests use it to freeze time.
func (b *Builder) WithClock(clock func() time.Time) *Builder {
	b.clock = clock
	return b
}

// Build resolves every domain, computes the composite score and stamps the time.
// It performs no I/O and fails only on malformed component input or an unknown themes key.
func (b *Builder) Build(in Inputs) (*Snapshot, error) {
	themesKey := b.constants.ThemesKey
	switch themesKey {
	case "":
		themesKey = ThemesKeyStock
	case ThemesKeyStock, ThemesKeyKorea:
	default:
		return nil, newError(errlvl.FATAL, fmt.Errorf("%w: %q", errUnknownThemesKey, themesKey))
	}

	raw, previous, err := giciInputs(in[DomainGICI], b.constants.Components, b.constants.PreviousScore)
	if err != nil {
		return nil, newError(errlvl.FATAL, err)
	}

	gici, err := NewCompositeScore(raw, previous, b.constants.Signals)
	if err != nil {
		return nil, newError(errlvl.FATAL, err)
	}

	// sampled once, both timestamp fields render this value
	now := b.clock()

	return &Snapshot{
		Version:     b.constants.Version,
		LastUpdated: now,
		Year:        b.constants.Year,
		DataSource:  b.constants.DataSource,
		ThemesKey:   themesKey,
		Countries:   b.fallbacks.Resolve(DomainCountries, in),
		Indices:     b.fallbacks.Resolve(DomainIndices, in),
		Themes:      b.fallbacks.Resolve(DomainStockThemes, in),
		Crypto:      b.fallbacks.Resolve(DomainCrypto, in),
		RealEstate:  b.fallbacks.Resolve(DomainRealEstate, in),
		GICI:        gici,
	}, nil
}
