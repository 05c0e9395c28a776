package main

import (
	"crypto/subtle"
	"net/http"
	"os"
	"strings"

	"github.com/histtext/insights/consts"
)

// apiKeyMiddleware protects a route with the API_KEY env var. When API_KEY is
// unset the route is open. The key is accepted as a Bearer token or as a
// query parameter.
func apiKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := os.Getenv("API_KEY")
		if apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		provided := strings.TrimPrefix(r.Header.Get("Authorization"), consts.AuthHeaderPrefix)
		if provided == "" {
			provided = r.URL.Query().Get(consts.APIKeyQueryParam)
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) == 1 {
			next.ServeHTTP(w, r)
			return
		}

		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
	})
}
