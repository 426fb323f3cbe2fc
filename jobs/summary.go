package jobs

import (
	"fmt"
	"strings"

	"github.com/samgozman/fin-dashboard/snapshot"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Korean)

// formatSummary renders the human-readable report of a run. Lines for values
// missing from the snapshot are left out.
func formatSummary(path string, s *snapshot.Snapshot) string {
	var lines []string

	if path != "" {
		lines = append(lines, fmt.Sprintf("✅ 데이터 저장 완료: %s", path))
	} else {
		lines = append(lines, "✅ 데이터 생성 완료 (저장 안 함)")
	}

	lines = append(lines, fmt.Sprintf("📊 GICI: %d/100 (%+d)", s.GICI.CurrentScore, s.GICI.Change))

	if usd, ok := lookupNumber(s.Crypto, "bitcoin", "usd"); ok {
		line := printer.Sprintf("₿ Bitcoin: $%.0f", usd)
		if krw, ok := lookupNumber(s.Crypto, "bitcoin", "krw"); ok && krw > 0 {
			line += printer.Sprintf(" (₩%.0f)", krw)
		}
		lines = append(lines, line)
	}

	if ytd, ok := lookupNumber(s.Indices, "kospi_proxy", "ytd"); ok {
		lines = append(lines, fmt.Sprintf("🇰🇷 코스피: %+.1f%% YTD", ytd))
	}
	if ytd, ok := lookupNumber(s.Indices, "sp500", "ytd"); ok {
		lines = append(lines, fmt.Sprintf("🇺🇸 S&P 500: %+.1f%% YTD", ytd))
	}

	return strings.Join(lines, "\n")
}

// lookupNumber walks nested JSON-like objects and returns the number at path.
func lookupNumber(v any, path ...string) (float64, bool) {
	for _, key := range path {
		m, ok := v.(map[string]any)
		if !ok {
			return 0, false
		}
		if v, ok = m[key]; !ok {
			return 0, false
		}
	}

	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
