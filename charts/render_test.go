package charts

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/histtext/insights/db"
	"github.com/histtext/insights/stats"
)

var _ = Describe("Rendering", func() {
	var tempDir string
	var dbConn *sql.DB
	var router chi.Router

	testBag := stats.Bag{
		stats.StatCorpusOverview: stats.ScalarValue(map[string]int{"document_count": 3}),
		stats.StatMostFrequentWords: stats.PairsValue([]stats.Pair{
			{Label: "tea", Count: 12},
			{Label: "silk", Count: 7},
		}),
		stats.StatWordLengths: stats.PairsValue([]stats.Pair{
			{Label: "3", Count: 5},
			{Label: "4", Count: 2},
		}),
		stats.StatLanguages: stats.CountsValue([]stats.Pair{
			{Label: "zh", Count: 2},
			{Label: "en", Count: 1},
		}),
		stats.StatTimeDistribution: stats.CountsValue([]stats.Pair{
			{Label: "1901", Count: 1},
			{Label: "1912", Count: 2},
		}),
	}

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "charts-test")
		Expect(err).NotTo(HaveOccurred())

		dbConn, err = db.OpenDB(filepath.Join(tempDir, "test.db"))
		Expect(err).NotTo(HaveOccurred())

		router = chi.NewRouter()
		router.Get("/charts/{id}", ChartsHandler(dbConn))
	})

	AfterEach(func() {
		dbConn.Close()
		os.RemoveAll(tempDir)
	})

	Describe("ChartsHandler", func() {
		It("returns 404 when no data is available", func() {
			req := httptest.NewRequest(http.MethodGet, "/charts/q-missing", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(w.Body.String()).To(ContainSubstring("No data available"))
		})

		It("returns HTML with one chart per chartable statistic", func() {
			err := db.SaveSnapshot(dbConn, "q1", testBag, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/charts/q1", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal("text/html"))
			body := w.Body.String()
			Expect(body).To(ContainSubstring("echarts"))
			Expect(body).To(ContainSubstring("Most Frequent Words"))
			Expect(body).To(ContainSubstring("Word Lengths"))
			Expect(body).To(ContainSubstring("Detected Languages"))
			Expect(body).To(ContainSubstring("Documents per Year"))
			// corpus_overview is not chartable and must not appear
			Expect(body).NotTo(ContainSubstring("Corpus Overview"))
		})

		It("serves the latest snapshot of the query", func() {
			old := stats.Bag{
				stats.StatLanguages: stats.CountsValue([]stats.Pair{{Label: "xx", Count: 1}}),
			}
			err := db.SaveSnapshot(dbConn, "q1", old, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
			Expect(err).NotTo(HaveOccurred())
			err = db.SaveSnapshot(dbConn, "q1", testBag, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/charts/q1", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("ZH"))
			Expect(w.Body.String()).NotTo(ContainSubstring("XX"))
		})
	})

	Describe("ExportChartsJSON", func() {
		var outputDir string

		BeforeEach(func() {
			outputDir = filepath.Join(tempDir, "chartdata")
		})

		It("does nothing when no snapshots exist", func() {
			err := ExportChartsJSON(dbConn, outputDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = os.Stat(filepath.Join(outputDir, "charts.json"))
			Expect(os.IsNotExist(err)).To(BeTrue())
		})

		It("exports one entry per query with its chart configurations", func() {
			err := db.SaveSnapshot(dbConn, "q1", testBag, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
			Expect(err).NotTo(HaveOccurred())
			other := stats.Bag{
				stats.StatLanguages: stats.CountsValue([]stats.Pair{{Label: "fr", Count: 3}}),
			}
			err = db.SaveSnapshot(dbConn, "q2", other, time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC))
			Expect(err).NotTo(HaveOccurred())

			err = ExportChartsJSON(dbConn, outputDir)
			Expect(err).NotTo(HaveOccurred())

			data, err := os.ReadFile(filepath.Join(outputDir, "charts.json"))
			Expect(err).NotTo(HaveOccurred())

			var output struct {
				LastUpdated string `json:"lastUpdated"`
				Queries     []struct {
					ID     string `json:"id"`
					Charts []struct {
						Key     string         `json:"key"`
						Title   string         `json:"title"`
						Options map[string]any `json:"options"`
					} `json:"charts"`
				} `json:"queries"`
			}
			err = json.Unmarshal(data, &output)
			Expect(err).NotTo(HaveOccurred())
			Expect(output.LastUpdated).NotTo(BeEmpty())
			Expect(output.Queries).To(HaveLen(2))
			Expect(output.Queries[0].ID).To(Equal("q1"))
			Expect(output.Queries[1].ID).To(Equal("q2"))

			// q1: words, bigrams none, word lengths, languages, time; overview excluded
			keys := make([]string, len(output.Queries[0].Charts))
			for i, c := range output.Queries[0].Charts {
				keys[i] = c.Key
			}
			Expect(keys).To(Equal([]string{
				stats.StatMostFrequentWords,
				stats.StatWordLengths,
				stats.StatLanguages,
				stats.StatTimeDistribution,
			}))
			Expect(output.Queries[0].Charts[0].Options).NotTo(BeEmpty())

			Expect(output.Queries[1].Charts).To(HaveLen(1))
			Expect(output.Queries[1].Charts[0].Title).To(Equal("Detected Languages"))
		})
	})
})
