package stats

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	mstats "github.com/montanaflynn/stats"

	"github.com/histtext/insights/consts"
)

// Document is one record of a query result as submitted for analysis.
type Document struct {
	ID       string            `json:"id,omitempty"`
	Fields   map[string]string `json:"fields"`
	Date     string            `json:"date,omitempty"`     // ISO date or bare year
	Language string            `json:"language,omitempty"` // ISO 639 code
}

// Options controls which fields Compute analyzes.
type Options struct {
	TextField   string   `json:"textField,omitempty"`   // main text field, defaults to "text"
	FacetFields []string `json:"facetFields,omitempty"` // categorical fields, each becomes distribution_over_<field>
}

// Report is the ingest payload: one query execution's documents.
type Report struct {
	QueryID   string     `json:"queryId"`
	Documents []Document `json:"documents"`
	Options   Options    `json:"options"`
}

// Overview holds the non-chartable corpus-level scalars.
type Overview struct {
	DocumentCount      int     `json:"document_count"`
	TokenCount         int     `json:"token_count"`
	DistinctWords      int     `json:"distinct_words"`
	MeanTokensPerDoc   float64 `json:"mean_tokens_per_doc"`
	MedianTokensPerDoc float64 `json:"median_tokens_per_doc"`
	StdDevTokensPerDoc float64 `json:"std_dev_tokens_per_doc"`
}

var wordRegex = regexp.MustCompile(`[\p{L}\p{N}']+`)

const punctuationMarks = `.,;:!?-'"()[]`

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "he": true, "in": true,
	"is": true, "it": true, "its": true, "of": true, "on": true, "or": true,
	"that": true, "the": true, "to": true, "was": true, "were": true,
	"which": true, "with": true,
}

// Compute derives the full statistics bag from a query result's documents.
// Empty lists are omitted from the bag rather than stored empty.
func Compute(docs []Document, opts Options) Bag {
	bag := Bag{}
	if len(docs) == 0 {
		return bag
	}
	textField := opts.TextField
	if textField == "" {
		textField = "text"
	}

	words := map[string]float64{}
	bigrams := map[string]float64{}
	trigrams := map[string]float64{}
	lengths := map[int]float64{}
	punctuation := map[string]float64{}
	languages := map[string]float64{}
	years := map[string]float64{}
	decades := map[string]float64{}
	fieldPresent := map[string]int{}
	fieldSeen := map[string]bool{}
	facets := make(map[string]map[string]float64, len(opts.FacetFields))
	for _, f := range opts.FacetFields {
		facets[f] = map[string]float64{}
	}

	var tokensPerDoc []float64
	var tokenCount int

	for _, doc := range docs {
		text := doc.Fields[textField]
		tokens := wordRegex.FindAllString(strings.ToLower(text), -1)
		tokensPerDoc = append(tokensPerDoc, float64(len(tokens)))
		tokenCount += len(tokens)

		for i, tok := range tokens {
			lengths[len([]rune(tok))]++
			if !stopwords[tok] {
				words[tok]++
			}
			if i+1 < len(tokens) {
				bigrams[tok+" "+tokens[i+1]]++
			}
			if i+2 < len(tokens) {
				trigrams[tok+" "+tokens[i+1]+" "+tokens[i+2]]++
			}
		}
		for _, r := range text {
			if strings.ContainsRune(punctuationMarks, r) {
				punctuation[string(r)]++
			}
		}

		if doc.Language != "" {
			languages[doc.Language]++
		}
		if year, ok := parseYear(doc.Date); ok {
			years[strconv.Itoa(year)]++
			decades[fmt.Sprintf("%ds", year/10*10)]++
		}

		for name, value := range doc.Fields {
			fieldSeen[name] = true
			if strings.TrimSpace(value) != "" {
				fieldPresent[name]++
			}
		}
		for _, f := range opts.FacetFields {
			if v := strings.TrimSpace(doc.Fields[f]); v != "" {
				facets[f][v]++
			}
		}
	}

	bag[StatCorpusOverview] = ScalarValue(overview(docs, tokensPerDoc, tokenCount, len(words)))
	putPairs(bag, StatMostFrequentWords, topPairs(words, consts.ComputedTokenEntries))
	putPairs(bag, StatMostFrequentBigrams, topPairs(bigrams, consts.ComputedTokenEntries))
	putPairs(bag, StatMostFrequentTrigrams, topPairs(trigrams, consts.ComputedTokenEntries))
	putPairs(bag, StatWordLengths, lengthPairs(lengths))
	putPairs(bag, StatPunctuation, topPairs(punctuation, len(punctuation)))
	putCounts(bag, StatLanguages, topPairs(languages, len(languages)))
	putCounts(bag, StatFieldCompleteness, completenessPairs(fieldSeen, fieldPresent, len(docs)))
	putCounts(bag, StatTimeDistribution, topPairs(years, len(years)))
	putCounts(bag, StatDecadeDistribution, topPairs(decades, len(decades)))
	for _, f := range opts.FacetFields {
		putCounts(bag, DistributionPrefix+f, topPairs(facets[f], len(facets[f])))
	}
	return bag
}

func overview(docs []Document, tokensPerDoc []float64, tokenCount, distinct int) Overview {
	mean, _ := mstats.Mean(tokensPerDoc)
	median, _ := mstats.Median(tokensPerDoc)
	stdDev, _ := mstats.StandardDeviation(tokensPerDoc)
	return Overview{
		DocumentCount:      len(docs),
		TokenCount:         tokenCount,
		DistinctWords:      distinct,
		MeanTokensPerDoc:   mean,
		MedianTokensPerDoc: median,
		StdDevTokensPerDoc: stdDev,
	}
}

func putPairs(bag Bag, key string, pairs []Pair) {
	if len(pairs) > 0 {
		bag[key] = PairsValue(pairs)
	}
}

func putCounts(bag Bag, key string, pairs []Pair) {
	if len(pairs) > 0 {
		bag[key] = CountsValue(pairs)
	}
}

// topPairs returns the top n entries sorted by count descending, ties broken
// by label ascending so results are deterministic across runs.
func topPairs(m map[string]float64, n int) []Pair {
	pairs := make([]Pair, 0, len(m))
	for k, v := range m {
		pairs = append(pairs, Pair{Label: k, Count: v})
	}
	slices.SortFunc(pairs, func(a, b Pair) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	if n < len(pairs) {
		pairs = pairs[:n]
	}
	return pairs
}

func lengthPairs(lengths map[int]float64) []Pair {
	keys := make([]int, 0, len(lengths))
	for l := range lengths {
		keys = append(keys, l)
	}
	slices.Sort(keys)
	pairs := make([]Pair, len(keys))
	for i, l := range keys {
		pairs[i] = Pair{Label: strconv.Itoa(l), Count: lengths[l]}
	}
	return pairs
}

func completenessPairs(seen map[string]bool, present map[string]int, total int) []Pair {
	pct := make(map[string]float64, len(seen))
	for name := range seen {
		pct[name] = float64(present[name]) / float64(total) * 100
	}
	return topPairs(pct, len(pct))
}

// parseYear extracts a 4-digit year from an ISO date or bare year string.
func parseYear(date string) (int, bool) {
	if len(date) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year == 0 {
		return 0, false
	}
	return year, true
}
