package snapshot

import (
	"encoding/json"
	"math"
	"slices"

	"github.com/samber/lo"
)

// Component is one of the six named inputs of the composite index.
type Component string

const (
	ComponentEconomicGrowth    Component = "economic_growth"
	ComponentMonetaryPolicy    Component = "monetary_policy"
	ComponentInflationTrend    Component = "inflation_trend"
	ComponentMarketVolatility  Component = "market_volatility"
	ComponentCorporateEarnings Component = "corporate_earnings"
	ComponentGeopoliticalRisk  Component = "geopolitical_risk"
)

// Components is the fixed component set. The score is the truncated mean over all of them.
var Components = []Component{
	ComponentEconomicGrowth,
	ComponentMonetaryPolicy,
	ComponentInflationTrend,
	ComponentMarketVolatility,
	ComponentCorporateEarnings,
	ComponentGeopoliticalRisk,
}

const (
	MinScore = 0
	MaxScore = 100
)

// CompositeScore is the derived GICI indicator.
type CompositeScore struct {
	CurrentScore  int               `json:"current_score"`
	PreviousScore int               `json:"previous_score"`
	Change        int               `json:"change"`
	Components    map[Component]int `json:"components"`
	Signals       map[string]string `json:"signals"`
}

// NewCompositeScore validates the raw components and computes the score.
//
// current_score is sum/len with integer division: {63,75,70,80,58,50} gives 66, not 67.
func NewCompositeScore(raw map[Component]any, previous int, signals map[string]string) (CompositeScore, error) {
	scores := make(map[Component]int, len(Components))

	// report problems in a stable order
	names := lo.Keys(raw)
	slices.Sort(names)
	for _, name := range names {
		if !lo.Contains(Components, name) {
			return CompositeScore{}, &componentError{component: name, err: errUnknownComponent}
		}
	}

	for _, c := range Components {
		v, ok := raw[c]
		if !ok || v == nil {
			return CompositeScore{}, &componentError{component: c, err: errMissingComponent}
		}
		score, err := parseScore(v)
		if err != nil {
			return CompositeScore{}, &componentError{component: c, value: v, err: err}
		}
		scores[c] = score
	}

	current := lo.Sum(lo.Values(scores)) / len(Components)

	if signals == nil {
		signals = map[string]string{}
	}

	return CompositeScore{
		CurrentScore:  current,
		PreviousScore: previous,
		Change:        current - previous,
		Components:    scores,
		Signals:       signals,
	}, nil
}

// parseScore accepts integral numbers in [MinScore, MaxScore] from Go literals, YAML or JSON.
func parseScore(v any) (int, error) {
	n, err := toInt(v)
	if err != nil {
		return 0, err
	}
	if n < MinScore || n > MaxScore {
		return 0, errScoreOutOfRange
	}
	return n, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		if n > math.MaxInt32 {
			return 0, errScoreOutOfRange
		}
		return int(n), nil
	case uint64:
		if n > math.MaxInt32 {
			return 0, errScoreOutOfRange
		}
		return int(n), nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, errScoreNotNumeric
		}
		if n != math.Trunc(n) {
			return 0, errScoreNotInteger
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, errScoreOutOfRange
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			if _, ferr := n.Float64(); ferr == nil {
				return 0, errScoreNotInteger
			}
			return 0, errScoreNotNumeric
		}
		if i < math.MinInt32 || i > math.MaxInt32 {
			return 0, errScoreOutOfRange
		}
		return int(i), nil
	default:
		return 0, errScoreNotNumeric
	}
}

// giciInputs merges a fetched gici payload over the reference components.
//
// The payload may carry a "components" object and a "previous_score" number;
// anything else in it is ignored.
func giciInputs(payload any, components map[Component]int, previous int) (map[Component]any, int, error) {
	raw := make(map[Component]any, len(components))
	for c, v := range components {
		raw[c] = v
	}

	m, ok := payload.(map[string]any)
	if !ok {
		return raw, previous, nil
	}

	if remote, ok := m["components"].(map[string]any); ok {
		for name, v := range remote {
			raw[Component(name)] = v
		}
	}

	if p, ok := m["previous_score"]; ok && p != nil {
		n, err := toInt(p)
		if err != nil {
			return nil, 0, errMalformedPrevious
		}
		previous = n
	}

	return raw, previous, nil
}
