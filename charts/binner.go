// Package charts turns statistics into renderer-agnostic chart descriptions
// and renders them with go-echarts.
package charts

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/histtext/insights/consts"
	"github.com/histtext/insights/stats"
)

// Kind is the suggested chart type for a statistic.
type Kind string

const (
	KindBar  Kind = "bar"
	KindPie  Kind = "pie"
	KindLine Kind = "line"
)

// Description is a complete, renderer-agnostic chart: parallel label/value
// sequences plus display metadata. It is built fresh per statistic and never
// mutated afterwards.
type Description struct {
	Labels        []string  `json:"labels"`
	Values        []float64 `json:"values"`
	Title         string    `json:"title"`
	Colors        []string  `json:"colors"`
	ChartKindHint Kind      `json:"chartKindHint"`
}

// chartableKeys is the fixed allow-list of chartable statistics outside the
// distribution_over_ prefix.
var chartableKeys = map[string]bool{
	stats.StatWordLengths:          true,
	stats.StatLanguages:            true,
	stats.StatPunctuation:          true,
	stats.StatFieldCompleteness:    true,
	stats.StatMostFrequentWords:    true,
	stats.StatMostFrequentBigrams:  true,
	stats.StatMostFrequentTrigrams: true,
}

// lineKinds and pieKinds drive RecommendKind; everything else is a bar.
var lineKinds = map[string]bool{
	stats.StatTimeDistribution:   true,
	stats.StatDecadeDistribution: true,
	stats.StatWordLengths:        true,
}

var pieKinds = map[string]bool{
	stats.StatLanguages:   true,
	stats.StatPunctuation: true,
}

// displayNames overrides the derived title for keys whose mechanical
// expansion reads poorly.
var displayNames = map[string]string{
	stats.StatWordLengths:        "Word Lengths",
	stats.StatPunctuation:        "Punctuation Marks",
	stats.StatLanguages:          "Detected Languages",
	stats.StatFieldCompleteness:  "Field Completeness (%)",
	stats.StatTimeDistribution:   "Documents per Year",
	stats.StatDecadeDistribution: "Documents per Decade",
}

// Chartable reports whether key matches one of the recognized binning rules.
// The value still has to yield non-empty data for a chart to be produced.
func Chartable(key string) bool {
	return chartableKeys[key] || strings.HasPrefix(key, stats.DistributionPrefix)
}

// RecommendKind suggests the chart type for a statistic key.
func RecommendKind(key string) Kind {
	switch {
	case lineKinds[key]:
		return KindLine
	case pieKinds[key]:
		return KindPie
	default:
		return KindBar
	}
}

// Bin extracts chart data for the selected statistic. It returns nil when the
// key is not chartable, the value is missing or has the wrong shape, or
// extraction yields no entries.
func Bin(bag stats.Bag, key string, kind Kind) *Description {
	if !Chartable(key) || !bag.Has(key) {
		return nil
	}
	pairs := extract(bag[key], key)
	if len(pairs) == 0 {
		return nil
	}

	labels := make([]string, len(pairs))
	values := make([]float64, len(pairs))
	colors := make([]string, len(pairs))
	for i, p := range pairs {
		labels[i] = p.Label
		values[i] = p.Count
		colors[i] = consts.ChartPalette[i%len(consts.ChartPalette)]
	}
	return &Description{
		Labels:        labels,
		Values:        values,
		Title:         Title(key),
		Colors:        colors,
		ChartKindHint: kind,
	}
}

// extract applies the per-key binning rule. Exact-key rules take precedence
// over the prefix rules.
func extract(v stats.Value, key string) []stats.Pair {
	switch {
	case key == stats.StatWordLengths:
		return wordLengthPairs(v)
	case key == stats.StatFieldCompleteness:
		return completenessPairs(v)
	case key == stats.StatLanguages:
		return languagePairs(v)
	case key == stats.StatPunctuation:
		return punctuationPairs(v)
	case strings.HasPrefix(key, stats.MostFrequentPrefix):
		return frequentTokenPairs(v)
	case strings.HasPrefix(key, stats.DistributionPrefix):
		return distributionPairs(v, key)
	default:
		return nil
	}
}

// wordLengthPairs sorts length/count pairs ascending by length and labels
// them "N char(s)". Pairs with non-numeric lengths are dropped.
func wordLengthPairs(v stats.Value) []stats.Pair {
	if v.Kind != stats.KindPairs {
		return nil
	}
	type lengthCount struct {
		length int
		count  float64
	}
	entries := make([]lengthCount, 0, len(v.Pairs))
	for _, p := range v.Pairs {
		length, err := strconv.Atoi(p.Label)
		if err != nil {
			continue
		}
		entries = append(entries, lengthCount{length, p.Count})
	}
	slices.SortFunc(entries, func(a, b lengthCount) int {
		return cmp.Compare(a.length, b.length)
	})
	pairs := make([]stats.Pair, len(entries))
	for i, e := range entries {
		label := strconv.Itoa(e.length) + " char"
		if e.length != 1 {
			label += "s"
		}
		pairs[i] = stats.Pair{Label: label, Count: e.count}
	}
	return pairs
}

// completenessPairs sorts field/percentage entries descending by percentage
// and replaces underscores in field names with spaces.
func completenessPairs(v stats.Value) []stats.Pair {
	if v.Kind != stats.KindCounts {
		return nil
	}
	pairs := slices.Clone(v.Pairs)
	slices.SortStableFunc(pairs, func(a, b stats.Pair) int {
		return cmp.Compare(b.Count, a.Count)
	})
	for i := range pairs {
		pairs[i].Label = strings.ReplaceAll(pairs[i].Label, "_", " ")
	}
	return pairs
}

// languagePairs keeps the mapping's natural order and uppercases the codes.
func languagePairs(v stats.Value) []stats.Pair {
	if v.Kind != stats.KindCounts {
		return nil
	}
	pairs := slices.Clone(v.Pairs)
	for i := range pairs {
		pairs[i].Label = strings.ToUpper(pairs[i].Label)
	}
	return pairs
}

// punctuationPairs takes the first entries as stored, without re-sorting, and
// quotes the symbols.
func punctuationPairs(v stats.Value) []stats.Pair {
	if v.Kind != stats.KindPairs {
		return nil
	}
	pairs := slices.Clone(v.Pairs)
	if len(pairs) > consts.TopPunctuationMarks {
		pairs = pairs[:consts.TopPunctuationMarks]
	}
	for i := range pairs {
		pairs[i].Label = `"` + pairs[i].Label + `"`
	}
	return pairs
}

// frequentTokenPairs takes the first entries verbatim.
func frequentTokenPairs(v stats.Value) []stats.Pair {
	if v.Kind != stats.KindPairs {
		return nil
	}
	pairs := slices.Clone(v.Pairs)
	if len(pairs) > consts.TopFrequentTokens {
		pairs = pairs[:consts.TopFrequentTokens]
	}
	return pairs
}

// distributionPairs sorts the temporal distributions ascending by bucket key
// (chronological strings sort correctly) and all others descending by count.
func distributionPairs(v stats.Value, key string) []stats.Pair {
	if v.Kind != stats.KindCounts {
		return nil
	}
	pairs := slices.Clone(v.Pairs)
	if key == stats.StatTimeDistribution || key == stats.StatDecadeDistribution {
		slices.SortFunc(pairs, func(a, b stats.Pair) int {
			return cmp.Compare(a.Label, b.Label)
		})
	} else {
		slices.SortStableFunc(pairs, func(a, b stats.Pair) int {
			return cmp.Compare(b.Count, a.Count)
		})
	}
	return pairs
}

var titleCaser = cases.Title(language.Und)

// Title returns the display title for a statistic key: the override when one
// exists, otherwise the key with underscores replaced by spaces and each word
// capitalized.
func Title(key string) string {
	if name, ok := displayNames[key]; ok {
		return name
	}
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}
