// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package scheduler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/graveyard/internal/task"
	gwebsocket "github.com/tomtom215/graveyard/internal/websocket"
)

// chiMiddleware adapts the teacher's http.HandlerFunc-shaped middleware to
// Chi's func(http.Handler) http.Handler, the same bridge the teacher's
// router uses (internal/api/chi_router.go).
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// taskSubmission is the §6 "Task input to Scheduler" HTTP POST payload:
// the Scheduler instantiates one task per (task_name, account) pair.
type taskSubmission struct {
	Tasks    []string `json:"tasks"`
	Accounts []int64  `json:"accounts"`
	Priority bool     `json:"priority"`
}

// Router builds the chi.Router exposing the task-submission POST
// endpoint, the worker-status GET endpoint, the websocket upgrade route,
// and the Prometheus /metrics endpoint (§6).
func (s *Scheduler) Router(middlewareFuncs ...func(http.HandlerFunc) http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}))
	for _, mw := range middlewareFuncs {
		r.Use(chiMiddleware(mw))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/tasks", s.handleSubmitTasks)
		r.Get("/workers", s.handleWorkerStatus)
	})
	r.Get("/ws", s.handleWebSocket)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Scheduler) handleSubmitTasks(w http.ResponseWriter, r *http.Request) {
	var sub taskSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var rejected []string
	for _, name := range sub.Tasks {
		for _, accountID := range sub.Accounts {
			t, err := task.ByName(name, accountID)
			if err != nil {
				rejected = append(rejected, name)
				continue
			}
			s.AddTask(t, sub.Priority)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if len(rejected) > 0 {
		w.WriteHeader(http.StatusBadRequest)
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"queued_depth": s.QueueDepth(),
		"rejected":     rejected,
	})
}

func (s *Scheduler) handleWorkerStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Status())
}

func (s *Scheduler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := gwebsocket.NewClient(s.hub, conn)
	s.hub.Register <- client
	client.Start()
}
