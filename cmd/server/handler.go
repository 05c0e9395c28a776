package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/histtext/insights/category"
	"github.com/histtext/insights/consts"
	"github.com/histtext/insights/db"
	"github.com/histtext/insights/nav"
	"github.com/histtext/insights/stats"
)

// collectHandler ingests one query execution's documents, computes the
// statistics bag, and stores it as the query's latest snapshot.
func collectHandler(dbConn *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var report stats.Report

		err := decodeJSONBody(w, r, &report)
		if err != nil {
			var mr *malformedRequest
			if errors.As(err, &mr) {
				http.Error(w, mr.msg, mr.status)
			} else {
				log.Printf("error decoding payload: %s", err.Error())
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			}
			return
		}
		if report.QueryID == "" {
			http.Error(w, "queryId is required", http.StatusBadRequest)
			return
		}

		bag := stats.Compute(report.Documents, report.Options)
		err = db.SaveSnapshot(dbConn, report.QueryID, bag, time.Now())
		if err != nil {
			log.Printf("Error handling request: %s", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

type navigationResponse struct {
	Keys    []string `json:"keys"`
	Index   int      `json:"index"`
	Current string   `json:"current"`
	Total   int      `json:"total"`
	IsFirst bool     `json:"isFirst"`
	IsLast  bool     `json:"isLast"`
}

type statsResponse struct {
	ID         string              `json:"id"`
	Time       time.Time           `json:"time"`
	Statistics stats.Bag           `json:"statistics"`
	Categories []category.Category `json:"categories"`
	Navigation navigationResponse  `json:"navigation"`
}

// statsHandler serves the latest statistics bag for a query id, with its
// populated categories and navigation state. Optional query parameters:
// selected (statistic key) and dir (next/prev).
func statsHandler(dbConn *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		snapshot, err := db.LatestSnapshot(dbConn, id)
		if err != nil {
			log.Printf("Error loading snapshot %s: %v", id, err)
			http.Error(w, "Failed to load data", http.StatusInternalServerError)
			return
		}
		if snapshot == nil {
			http.Error(w, "No data available", http.StatusNotFound)
			return
		}

		categories := category.Classify(snapshot.Bag)
		selected := r.URL.Query().Get("selected")
		state := nav.NewState(categories, snapshot.Bag, selected)
		if selected == "" && state.Total() > 0 {
			state.Index = 0
		}
		switch r.URL.Query().Get("dir") {
		case "next":
			state = state.Navigate(nav.Next)
		case "prev":
			state = state.Navigate(nav.Prev)
		}

		resp := statsResponse{
			ID:         id,
			Time:       snapshot.Time,
			Statistics: snapshot.Bag,
			Categories: categories,
			Navigation: navigationResponse{
				Keys:    state.Keys,
				Index:   state.Index,
				Current: state.Current(),
				Total:   state.Total(),
				IsFirst: state.IsFirst(),
				IsLast:  state.IsLast(),
			},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Printf("Error encoding response: %v", err)
		}
	}
}

// chartsJSONHandler serves the pre-generated charts.json file.
func chartsJSONHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(os.Getenv("DATA_FOLDER"), consts.ChartDataDir, consts.ChartsJSONFile)
		if _, err := os.Stat(path); err != nil {
			http.Error(w, "No data available", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, path)
	}
}
