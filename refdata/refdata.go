// Package refdata holds the process-wide reference data of the dashboard: static country
// and theme lists, the index quote plan, the GICI constants and per-domain fallback
// literals. It is loaded once at startup and treated as immutable afterwards.
package refdata

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/samgozman/fin-dashboard/pkg/errlvl"
	"github.com/samgozman/fin-dashboard/snapshot"
	"gopkg.in/yaml.v3"
)

//go:embed reference.yaml
var defaultReference []byte

type Company struct {
	Icon   string `yaml:"icon" json:"icon"`
	Name   string `yaml:"name" json:"name" validate:"required"`
	Sector string `yaml:"sector" json:"sector"`
}

type Country struct {
	Rank      int       `yaml:"rank" json:"rank" validate:"gte=1"`
	Country   string    `yaml:"country" json:"country" validate:"required"`
	Flag      string    `yaml:"flag" json:"flag"`
	Sentiment string    `yaml:"sentiment" json:"sentiment" validate:"omitempty,oneof=positive mixed negative"`
	GDP       float64   `yaml:"gdp" json:"gdp"`
	Companies []Company `yaml:"companies" json:"companies" validate:"dive"`
}

type Theme struct {
	Name   string  `yaml:"name" json:"name" validate:"required"`
	YTD    float64 `yaml:"ytd" json:"ytd"`
	Signal string  `yaml:"signal" json:"signal"`
}

// IndexQuote is one entry of the index quote plan.
type IndexQuote struct {
	Key           string   `yaml:"key" validate:"required"`    // key in the indices object (e.g. "sp500")
	Symbol        string   `yaml:"symbol" validate:"required"` // quoted ticker (e.g. "SPY")
	YTD           float64  `yaml:"ytd"`                        // year-to-date change reported with the price
	FallbackPrice *float64 `yaml:"fallback_price"`             // used when the quote fails; nil skips the index
}

type GICI struct {
	PreviousScore int               `yaml:"previous_score" validate:"gte=0,lte=100"`
	Components    map[string]int    `yaml:"components" validate:"len=6,dive,gte=0,lte=100"`
	Signals       map[string]string `yaml:"signals"`
}

type Crypto struct {
	IDs        []string `yaml:"ids" validate:"required,dive,required"`
	Currencies []string `yaml:"currencies" validate:"required,dive,required"`
}

// Reference is the whole reference payload.
type Reference struct {
	Version    string         `yaml:"version" validate:"required"`
	Year       int            `yaml:"year" validate:"gte=1900"`
	DataSource string         `yaml:"data_source" validate:"required"`
	GICI       GICI           `yaml:"gici"`
	Countries  []Country      `yaml:"countries" validate:"dive"`
	Themes     []Theme        `yaml:"themes" validate:"dive"`
	Indices    []IndexQuote   `yaml:"indices" validate:"dive"`
	Crypto     Crypto         `yaml:"crypto"`
	Fallbacks  map[string]any `yaml:"fallbacks"`
}

// Load reads the reference data from path, or the embedded default when path is empty.
func Load(path string) (*Reference, error) {
	if path == "" {
		return Parse(defaultReference)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(errlvl.FATAL, errReadFile, err)
	}

	return Parse(data)
}

// Default returns the embedded reference data.
func Default() *Reference {
	r, err := Parse(defaultReference)
	if err != nil {
		panic(fmt.Errorf("embedded reference data is invalid: %w", err))
	}
	return r
}

// Parse decodes and validates a YAML reference payload.
func Parse(data []byte) (*Reference, error) {
	var r Reference
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, newError(errlvl.FATAL, errDecode, err)
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return &r, nil
}

// Validate checks struct constraints plus the cross-field rules the tags cannot express.
func (r *Reference) Validate() error {
	if err := validator.New().Struct(r); err != nil {
		return newError(errlvl.FATAL, errValidation, err)
	}

	for name := range r.GICI.Components {
		if !lo.Contains(snapshot.Components, snapshot.Component(name)) {
			return newError(errlvl.FATAL, errValidation, fmt.Errorf("%w: %s", errUnknownComponent, name))
		}
	}

	domains := lo.Map(snapshot.Domains, func(d snapshot.Domain, _ int) string { return string(d) })
	for name := range r.Fallbacks {
		if !lo.Contains(domains, name) || name == string(snapshot.DomainGICI) {
			return newError(errlvl.FATAL, errValidation, fmt.Errorf("%w: %s", errUnknownDomain, name))
		}
	}

	keys := lo.Map(r.Indices, func(q IndexQuote, _ int) string { return q.Key })
	if dup := lo.FindDuplicates(keys); len(dup) > 0 {
		return newError(errlvl.FATAL, errValidation, fmt.Errorf("%w: %v", errDuplicateIndexKey, dup))
	}

	return nil
}

// Constants converts the reference into the values stamped into every snapshot.
func (r *Reference) Constants(themesKey string) snapshot.Constants {
	components := lo.MapKeys(r.GICI.Components, func(_ int, name string) snapshot.Component {
		return snapshot.Component(name)
	})

	return snapshot.Constants{
		Version:       r.Version,
		Year:          r.Year,
		DataSource:    r.DataSource,
		ThemesKey:     themesKey,
		Components:    components,
		PreviousScore: r.GICI.PreviousScore,
		Signals:       lo.Assign(r.GICI.Signals),
	}
}

// FallbackPolicy returns the default policy with the reference literals applied.
func (r *Reference) FallbackPolicy() snapshot.FallbackPolicy {
	overrides := lo.MapKeys(r.Fallbacks, func(_ any, name string) snapshot.Domain {
		return snapshot.Domain(name)
	})
	return snapshot.DefaultFallbacks().With(overrides)
}
