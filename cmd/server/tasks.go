package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"path/filepath"

	"github.com/histtext/insights/charts"
	"github.com/histtext/insights/consts"
	"github.com/histtext/insights/db"
)

func cleanup(_ context.Context, dbConn *sql.DB) func() {
	return func() {
		log.Print("Cleaning old data")
		if err := db.PurgeOldEntries(dbConn); err != nil {
			log.Printf("Error cleaning old data: %v", err)
		}
	}
}

func generateCharts(_ context.Context, dbConn *sql.DB) func() {
	return func() {
		log.Print("Exporting charts JSON")
		outDir := filepath.Join(os.Getenv("DATA_FOLDER"), consts.ChartDataDir)
		if err := charts.ExportChartsJSON(dbConn, outDir); err != nil {
			log.Printf("Error exporting charts JSON: %v", err)
		}
	}
}
