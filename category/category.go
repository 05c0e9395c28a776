// Package category partitions a statistics bag into the fixed semantic
// groups used for navigation and display.
package category

import (
	"slices"
	"strings"

	"github.com/histtext/insights/stats"
)

// Category is a named grouping of related statistic keys. MemberKeys keeps
// its declared order; flattened navigation depends on it.
type Category struct {
	Key        string   `json:"key"`
	Title      string   `json:"title"`
	ColorToken string   `json:"colorToken"`
	MemberKeys []string `json:"memberKeys"`
}

// Category keys, in declaration order.
const (
	Overview           = "overview"
	Content            = "content"
	Language           = "language"
	Metadata           = "metadata"
	Temporal           = "temporal"
	OtherDistributions = "other_distributions"
)

// definitions lists the five static categories. The sixth (other
// distributions) is computed per bag by prefix-scanning its keys.
var definitions = []Category{
	{
		Key:        Overview,
		Title:      "Overview",
		ColorToken: "blue",
		MemberKeys: []string{stats.StatCorpusOverview},
	},
	{
		Key:        Content,
		Title:      "Content",
		ColorToken: "green",
		MemberKeys: []string{
			stats.StatMostFrequentWords,
			stats.StatMostFrequentBigrams,
			stats.StatMostFrequentTrigrams,
			stats.StatWordLengths,
			stats.StatPunctuation,
		},
	},
	{
		Key:        Language,
		Title:      "Language",
		ColorToken: "purple",
		MemberKeys: []string{stats.StatLanguages},
	},
	{
		Key:        Metadata,
		Title:      "Metadata",
		ColorToken: "orange",
		MemberKeys: []string{stats.StatFieldCompleteness},
	},
	{
		Key:        Temporal,
		Title:      "Temporal",
		ColorToken: "red",
		MemberKeys: []string{
			stats.StatTimeDistribution,
			stats.StatDecadeDistribution,
		},
	},
}

// Classify partitions the bag into populated categories, preserving
// declaration order. Categories with no populated member are dropped; member
// lists are filtered to the keys actually present. An empty bag yields an
// empty result.
func Classify(bag stats.Bag) []Category {
	var result []Category
	for _, def := range definitions {
		if c, ok := populated(def, bag); ok {
			result = append(result, c)
		}
	}
	other := Category{
		Key:        OtherDistributions,
		Title:      "Other Distributions",
		ColorToken: "teal",
		MemberKeys: otherDistributionKeys(bag),
	}
	if c, ok := populated(other, bag); ok {
		result = append(result, c)
	}
	return result
}

func populated(def Category, bag stats.Bag) (Category, bool) {
	var members []string
	for _, key := range def.MemberKeys {
		if bag.Has(key) {
			members = append(members, key)
		}
	}
	if len(members) == 0 {
		return Category{}, false
	}
	def.MemberKeys = members
	return def, true
}

// otherDistributionKeys scans the bag for distribution_over_* keys not
// already claimed by the temporal category, sorted for a stable order.
func otherDistributionKeys(bag stats.Bag) []string {
	var keys []string
	for key := range bag {
		if !strings.HasPrefix(key, stats.DistributionPrefix) {
			continue
		}
		if key == stats.StatTimeDistribution || key == stats.StatDecadeDistribution {
			continue
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
