// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api assembles the REST surface of a harvest node.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	farmingapi "github.com/harvestlabs/harvest/api/farming"
	"github.com/harvestlabs/harvest/metrics"
	"github.com/harvestlabs/harvest/runtime"
)

// New assembles the http handler exposing the runtime, with CORS,
// compression and request metrics applied.
func New(rt *runtime.Runtime, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()
	router.Use(metricsMiddleware)
	farmingapi.New(rt).Mount(router, "/farming")
	if h := metrics.HTTPHandler(); h != nil {
		router.PathPrefix("/metrics").Handler(h)
	}

	handler := handlers.CompressHandler(router)
	return handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
	)(handler)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware records request durations labeled by route name,
// status code and method. Runs after route matching so the route name
// is available.
func metricsMiddleware(next http.Handler) http.Handler {
	duration := metrics.HistogramVec(
		"api_request_duration_ms", []string{"name", "code", "method"}, metrics.BucketHTTPReqs)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := "unknown"
		if route := mux.CurrentRoute(r); route != nil {
			if n := route.GetName(); n != "" {
				name = n
			}
		}

		rec := &statusRecorder{w, http.StatusOK}
		started := time.Now()
		next.ServeHTTP(rec, r)

		duration.ObserveWithLabels(time.Since(started).Milliseconds(), map[string]string{
			"name":   name,
			"code":   strconv.Itoa(rec.status),
			"method": r.Method,
		})
	})
}
