package serve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"

	log "github.com/sirupsen/logrus"

	logger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ComputeServer hosts the HTTP surface of one compute node: a chi
// router plus the worker count its sampling routes fan out over.
type ComputeServer struct {
	NumWorkers int
	Router     *chi.Mux
}

// New builds a ComputeServer. The worker count defaults to
// runtime.NumCPU() and can be overridden with a positive argument.
func New(workers ...int) *ComputeServer {
	numWorkers := runtime.NumCPU()
	if len(workers) > 0 && workers[0] > 0 {
		numWorkers = workers[0]
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Logger("router", log.StandardLogger()))
	r.Use(middleware.Recoverer)
	// readiness probe used by cluster clients
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())
	return &ComputeServer{numWorkers, r}
}

func Launch(s *ComputeServer, targetPort int) {
	addr := fmt.Sprintf(":%d", targetPort)
	log.Infof("▶️  Starting server on %s", addr)
	// ListenAndServe blocks until an error occurs (e.g. port already in use).
	if err := http.ListenAndServe(addr, s.Router); err != nil {
		log.Fatalf("❌  Server failed: %v", err)
	}
}

// CreateRoutes registers a JSON POST handler at path that decodes the
// request body into T, invokes fn under the request context, and
// encodes the returned R.
func CreateRoutes[T any, R any](
	r *chi.Mux,
	path string,
	fn func(ctx context.Context, req T) (R, error),
) {
	r.Post(path, func(w http.ResponseWriter, r *http.Request) {
		var req T
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}

		res, err := fn(r.Context(), req)
		if err != nil {
			http.Error(w, "processing error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(res); err != nil {
			http.Error(w, "encode error: "+err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
