//go:build dev

package main

import (
	"database/sql"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/histtext/insights/charts"
	"github.com/histtext/insights/consts"
)

func registerDevRoutes(r chi.Router, dbConn *sql.DB) {
	dataFolder := os.Getenv("DATA_FOLDER")

	// Static files for exported chart data
	chartDataDir := filepath.Join(dataFolder, consts.ChartDataDir)
	r.Handle("/chartdata/*", http.StripPrefix("/chartdata/", http.FileServer(http.Dir(chartDataDir))))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(dataFolder, consts.WebIndexPath))
	})

	// Server-rendered charts page (no rate limiting)
	r.Get("/charts/{id}", charts.ChartsHandler(dbConn))
}
