package snapshot

// Domain is one category of external data aggregated into the snapshot.
type Domain string

const (
	DomainCountries   Domain = "countries"
	DomainIndices     Domain = "indices"
	DomainStockThemes Domain = "stock_themes"
	DomainCrypto      Domain = "crypto"
	DomainRealEstate  Domain = "real_estate"
	DomainGICI        Domain = "gici" // composite index inputs, not the computed score
)

// Domains lists every domain in the order the collectors run.
var Domains = []Domain{
	DomainCountries,
	DomainIndices,
	DomainStockThemes,
	DomainCrypto,
	DomainRealEstate,
	DomainGICI,
}

// Inputs holds raw per-domain values. A missing key or a nil value means the
// upstream fetch failed.
type Inputs map[Domain]any

// Get returns the value for the domain and whether it is present.
func (in Inputs) Get(d Domain) (any, bool) {
	v, ok := in[d]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// FallbackPolicy maps a domain to the value substituted when its input is absent.
// Values are shared between builds and must not be mutated.
type FallbackPolicy map[Domain]any

// DefaultFallbacks returns type-appropriate empty values for every data domain.
// DomainGICI has no entry: its fallback is the reference component set.
func DefaultFallbacks() FallbackPolicy {
	return FallbackPolicy{
		DomainCountries:   []any{},
		DomainIndices:     map[string]any{},
		DomainStockThemes: []any{},
		DomainCrypto:      map[string]any{},
		DomainRealEstate:  map[string]any{},
	}
}

// With returns a copy of the policy where non-nil overrides replace the defaults.
func (p FallbackPolicy) With(overrides map[Domain]any) FallbackPolicy {
	merged := make(FallbackPolicy, len(p)+len(overrides))
	for d, v := range p {
		merged[d] = v
	}
	for d, v := range overrides {
		if v != nil {
			merged[d] = v
		}
	}
	return merged
}

// Resolve returns the input value when present, the domain default otherwise.
// A domain without a default resolves to an empty mapping, so the result is never nil.
func (p FallbackPolicy) Resolve(d Domain, in Inputs) any {
	if v, ok := in.Get(d); ok {
		return v
	}
	if v, ok := p[d]; ok && v != nil {
		return v
	}
	return map[string]any{}
}
