package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/histtext/insights/charts"
	"github.com/histtext/insights/consts"
	"github.com/histtext/insights/db"
)

func main() {
	_ = godotenv.Load()

	dataFolder := os.Getenv("DATA_FOLDER")
	if dataFolder == "" {
		dataFolder = "."
	}

	dbConn, err := db.OpenDB(filepath.Join(dataFolder, "insights.db"))
	if err != nil {
		log.Fatal(err)
	}

	chartDataDir := filepath.Join(dataFolder, consts.ChartDataDir)
	log.Printf("Generating charts.json in %s", chartDataDir)
	if err := charts.ExportChartsJSON(dbConn, chartDataDir); err != nil {
		log.Fatalf("Error exporting charts JSON: %v", err)
	}
	log.Print("Charts JSON generated successfully")
}
