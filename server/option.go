// Copyright 2025 The TaskStream Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"log/slog"
	"time"

	"github.com/taskstream/taskstream/server/executor"
	"github.com/taskstream/taskstream/server/task"
)

// Option represents an option for configuring the [Server].
type Option func(*Server)

// WithAddr sets the listen address for the [Server].
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithLogger sets the [*slog.Logger] for the [Server].
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithQueueSize sets the per-task event queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Server) {
		s.queueSize = size
	}
}

// WithEventWait sets the bounded wait between event deliveries on a stream.
func WithEventWait(d time.Duration) Option {
	return func(s *Server) {
		s.eventWait = d
	}
}

// WithHeartbeat sets the interval between SSE keep-alive comments.
func WithHeartbeat(d time.Duration) Option {
	return func(s *Server) {
		s.heartbeat = d
	}
}

// WithStore sets the [task.Store] used to persist finished task records.
func WithStore(store task.Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithExecutorFactory sets the factory producing one executor per stream.
func WithExecutorFactory(factory func() executor.Executor) Option {
	return func(s *Server) {
		s.newExecutor = factory
	}
}
