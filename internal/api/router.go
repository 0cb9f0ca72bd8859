package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/api/handlers"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/logger"
)

// Handlers groups everything the router serves
type Handlers struct {
	Leaderboard *handlers.LeaderboardHandler
	Assessment  *handlers.AssessmentHandler
	// Stream upgrades /ws/leaderboard; nil disables the route
	Stream http.Handler
	// Checks are run by /health, keyed by dependency name
	Checks map[string]HealthCheck
}

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

const healthTimeout = 2 * time.Second

// NewRouter creates and configures the HTTP router
func NewRouter(h Handlers, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler(h.Checks, log)).Methods(http.MethodGet)

	// Routes sit on the root router: mux reports a method mismatch inside a
	// subrouter as not found
	r.HandleFunc("/api/leaderboard", h.Leaderboard.GetBoard).Methods(http.MethodGet)
	r.HandleFunc("/api/leaderboard/users", h.Leaderboard.GetUsers).Methods(http.MethodGet)
	r.HandleFunc("/api/leaderboard/teams", h.Leaderboard.GetTeams).Methods(http.MethodGet)
	r.HandleFunc("/api/leaderboard/snapshot", h.Leaderboard.Snapshot).Methods(http.MethodPost)

	// Generation endpoints
	if h.Assessment != nil {
		r.HandleFunc("/api/assessment", h.Assessment.Generate).Methods(http.MethodPost)
		r.HandleFunc("/api/concept-map", h.Assessment.ConceptMap).Methods(http.MethodPost)
	}

	if h.Stream != nil {
		r.Handle("/ws/leaderboard", h.Stream).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	})

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status; any failing check answers 503
func healthCheckHandler(checks map[string]HealthCheck, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]string{
			"status":  "ok",
			"service": "questboard-api",
		}
		code := http.StatusOK

		for name, check := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			err := check(ctx)
			cancel()

			if err != nil {
				log.WithError(err).WithField("check", name).Warn("Health check failed")
				body[name] = "unavailable"
				body["status"] = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			body[name] = "ok"
		}

		respondJSON(w, code, body)
	}
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack hands the connection to the websocket upgrader
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					respondJSON(w, http.StatusInternalServerError, map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
