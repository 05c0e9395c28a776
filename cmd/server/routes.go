//go:build !dev

package main

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
)

// Dev-only routes are compiled in with the "dev" build tag; see dev.go.
func registerDevRoutes(_ chi.Router, _ *sql.DB) {}
