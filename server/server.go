// Copyright 2025 The TaskStream Authors
// SPDX-License-Identifier: Apache-2.0

// Package server wires the event queue manager, the executor pipeline and the
// SSE stream handler into one HTTP server.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/gorilla/mux"

	"github.com/taskstream/taskstream/server/event"
	"github.com/taskstream/taskstream/server/executor"
	"github.com/taskstream/taskstream/server/handler"
	"github.com/taskstream/taskstream/server/metrics"
	"github.com/taskstream/taskstream/server/task"
)

// DefaultAddr is the default listen address.
const DefaultAddr = ":8080"

// Server serves the task event stream over HTTP.
type Server struct {
	addr        string
	logger      *slog.Logger
	queueSize   int
	eventWait   time.Duration
	heartbeat   time.Duration
	store       task.Store
	newExecutor func() executor.Executor

	router     *mux.Router
	httpServer *http.Server
}

// New creates a server. With no options it serves the built-in research
// pipeline on [DefaultAddr] with in-memory queues and no persistence.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		addr:      DefaultAddr,
		queueSize: event.DefaultQueueSize,
		eventWait: event.DefaultWaitTimeout,
		heartbeat: handler.DefaultHeartbeat,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.newExecutor == nil {
		s.newExecutor = func() executor.Executor { return executor.NewPipeline() }
	}

	streamHandler, err := handler.NewStreamHandler(handler.StreamConfig{
		Manager:     event.NewInMemoryManager(s.queueSize),
		NewExecutor: s.newExecutor,
		Store:       s.store,
		Logger:      s.logger.With("component", "stream"),
		WaitTimeout: s.eventWait,
		Heartbeat:   s.heartbeat,
	})
	if err != nil {
		return nil, err
	}

	s.router = mux.NewRouter()
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.Handle("/stream", streamHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the server's root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// ListenAndServe serves until Shutdown is called or the listener fails.
func (s *Server) ListenAndServe() error {
	s.logger.Info("server listening", "addr", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for open streams to finish
// until the context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]any{
		"name": "taskstream",
		"endpoints": map[string]string{
			"stream":  "/stream?query=<text>",
			"health":  "/healthz",
			"metrics": "/metrics",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.MarshalWrite(w, payload); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}
