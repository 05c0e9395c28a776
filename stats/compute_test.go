package stats_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/histtext/insights/stats"
)

var _ = Describe("Compute", func() {
	docs := []stats.Document{
		{
			ID: "d1",
			Fields: map[string]string{
				"text":  "the tea trade flourished. tea merchants thrived.",
				"title": "Tea Trade",
				"genre": "news",
			},
			Language: "zh",
			Date:     "1901-05-04",
		},
		{
			ID: "d2",
			Fields: map[string]string{
				"text":  "silk and tea!",
				"title": "",
				"genre": "news",
			},
			Language: "zh",
			Date:     "1912-01-01",
		},
	}
	opts := stats.Options{FacetFields: []string{"genre"}}

	It("returns an empty bag for no documents", func() {
		Expect(stats.Compute(nil, stats.Options{})).To(BeEmpty())
	})

	It("counts word frequencies excluding stopwords", func() {
		bag := stats.Compute(docs, opts)
		v := bag[stats.StatMostFrequentWords]
		Expect(v.Kind).To(Equal(stats.KindPairs))
		Expect(v.Pairs[0]).To(Equal(stats.Pair{Label: "tea", Count: 3}))
		for _, p := range v.Pairs {
			Expect(p.Label).NotTo(Equal("the"))
			Expect(p.Label).NotTo(Equal("and"))
		}
	})

	It("counts bigrams and trigrams over the raw token stream", func() {
		bag := stats.Compute(docs, opts)
		Expect(bag[stats.StatMostFrequentBigrams].Pairs).To(ContainElement(stats.Pair{Label: "tea trade", Count: 1}))
		Expect(bag[stats.StatMostFrequentTrigrams].Pairs).To(ContainElement(stats.Pair{Label: "the tea trade", Count: 1}))
	})

	It("builds the word length distribution ascending by length", func() {
		bag := stats.Compute(docs, opts)
		v := bag[stats.StatWordLengths]
		Expect(v.Kind).To(Equal(stats.KindPairs))
		// the, tea, tea, and, tea are the 3-char tokens
		Expect(v.Pairs[0]).To(Equal(stats.Pair{Label: "3", Count: 5}))
	})

	It("counts punctuation marks, most common first", func() {
		bag := stats.Compute(docs, opts)
		v := bag[stats.StatPunctuation]
		Expect(v.Kind).To(Equal(stats.KindPairs))
		Expect(v.Pairs).To(Equal([]stats.Pair{
			{Label: ".", Count: 2},
			{Label: "!", Count: 1},
		}))
	})

	It("counts detected languages", func() {
		bag := stats.Compute(docs, opts)
		v := bag[stats.StatLanguages]
		Expect(v.Kind).To(Equal(stats.KindCounts))
		Expect(v.Pairs).To(Equal([]stats.Pair{{Label: "zh", Count: 2}}))
	})

	It("reports field completeness as percentages", func() {
		bag := stats.Compute(docs, opts)
		v := bag[stats.StatFieldCompleteness]
		Expect(v.Kind).To(Equal(stats.KindCounts))
		Expect(v.Pairs).To(Equal([]stats.Pair{
			{Label: "genre", Count: 100},
			{Label: "text", Count: 100},
			{Label: "title", Count: 50},
		}))
	})

	It("buckets documents by year and decade", func() {
		bag := stats.Compute(docs, opts)
		Expect(bag[stats.StatTimeDistribution].Pairs).To(ConsistOf(
			stats.Pair{Label: "1901", Count: 1},
			stats.Pair{Label: "1912", Count: 1},
		))
		Expect(bag[stats.StatDecadeDistribution].Pairs).To(ConsistOf(
			stats.Pair{Label: "1900s", Count: 1},
			stats.Pair{Label: "1910s", Count: 1},
		))
	})

	It("builds a distribution for each facet field", func() {
		bag := stats.Compute(docs, opts)
		v := bag[stats.DistributionPrefix+"genre"]
		Expect(v.Kind).To(Equal(stats.KindCounts))
		Expect(v.Pairs).To(Equal([]stats.Pair{{Label: "news", Count: 2}}))
	})

	It("skips temporal statistics when no document has a date", func() {
		undated := []stats.Document{
			{Fields: map[string]string{"text": "tea"}},
		}
		bag := stats.Compute(undated, stats.Options{})
		Expect(bag.Has(stats.StatTimeDistribution)).To(BeFalse())
		Expect(bag.Has(stats.StatDecadeDistribution)).To(BeFalse())
		Expect(bag.Has(stats.StatLanguages)).To(BeFalse())
	})

	It("computes corpus overview scalars", func() {
		bag := stats.Compute(docs, opts)
		v := bag[stats.StatCorpusOverview]
		Expect(v.Kind).To(Equal(stats.KindScalar))

		var overview stats.Overview
		Expect(json.Unmarshal(v.Raw, &overview)).To(Succeed())
		Expect(overview.DocumentCount).To(Equal(2))
		Expect(overview.TokenCount).To(Equal(10))
		Expect(overview.DistinctWords).To(Equal(6))
		Expect(overview.MeanTokensPerDoc).To(Equal(5.0))
		Expect(overview.MedianTokensPerDoc).To(Equal(5.0))
	})

	It("honors a custom text field", func() {
		custom := []stats.Document{
			{Fields: map[string]string{"body": "porcelain porcelain", "text": "ignored"}},
		}
		bag := stats.Compute(custom, stats.Options{TextField: "body"})
		Expect(bag[stats.StatMostFrequentWords].Pairs[0]).To(Equal(stats.Pair{Label: "porcelain", Count: 2}))
	})
})
