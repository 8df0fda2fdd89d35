// Copyright 2025 The TaskStream Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-json-experiment/json"

	"github.com/taskstream/taskstream"
	"github.com/taskstream/taskstream/server/event"
	"github.com/taskstream/taskstream/server/executor"
	"github.com/taskstream/taskstream/server/metrics"
	"github.com/taskstream/taskstream/server/task"
)

// ErrorEventName is the wire event emitted when the bridge cannot continue
// a stream. Every stream ends with either the end event or this one.
const ErrorEventName = "error"

// DefaultQuery seeds the producer when the client omits the query parameter.
const DefaultQuery = "Analyze the latest market trends"

// DefaultHeartbeat is the default interval between SSE keep-alive comments.
const DefaultHeartbeat = 30 * time.Second

// StreamConfig holds the collaborators for a StreamHandler.
type StreamConfig struct {
	Manager     event.Manager
	NewExecutor func() executor.Executor
	Store       task.Store // optional
	Logger      *slog.Logger
	WaitTimeout time.Duration
	Heartbeat   time.Duration
}

// StreamHandler is the transport bridge: it starts a producer for each
// request, drains the shared event queue, and re-encodes every internal
// event as one named SSE event.
type StreamHandler struct {
	manager     event.Manager
	newExecutor func() executor.Executor
	store       task.Store
	logger      *slog.Logger
	waitTimeout time.Duration
	heartbeat   time.Duration
}

// NewStreamHandler creates a stream handler.
func NewStreamHandler(config StreamConfig) (*StreamHandler, error) {
	if config.Manager == nil {
		return nil, fmt.Errorf("queue manager cannot be nil")
	}
	if config.NewExecutor == nil {
		return nil, fmt.Errorf("executor factory cannot be nil")
	}

	h := &StreamHandler{
		manager:     config.Manager,
		newExecutor: config.NewExecutor,
		store:       config.Store,
		logger:      config.Logger,
		waitTimeout: config.WaitTimeout,
		heartbeat:   config.Heartbeat,
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.waitTimeout <= 0 {
		h.waitTimeout = event.DefaultWaitTimeout
	}
	if h.heartbeat <= 0 {
		h.heartbeat = DefaultHeartbeat
	}
	return h, nil
}

// ServeHTTP implements http.Handler for the streaming endpoint.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		query = DefaultQuery
	}

	req := executor.NewRequest(query)
	logger := h.logger.With("task_id", req.TaskID, "context_id", req.ContextID)

	queue, err := h.manager.Get(req.TaskID)
	if err != nil {
		http.Error(w, "failed to create event queue", http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := h.manager.Close(req.TaskID); err != nil {
			logger.Warn("failed to close task queue", "error", err)
		}
	}()

	updater, err := task.NewUpdater(task.UpdaterConfig{
		TaskID:    req.TaskID,
		ContextID: req.ContextID,
		Queue:     queue,
	})
	if err != nil {
		http.Error(w, "failed to create task updater", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // disable nginx buffering
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	metrics.StreamStarted()
	outcome := metrics.OutcomeError
	defer func() { metrics.StreamFinished(outcome) }()

	ctx := r.Context()
	execCtx, cancelExec := context.WithCancel(ctx)
	defer cancelExec()

	consumer := event.NewConsumer(queue)
	consumer.SetWaitTimeout(h.waitTimeout)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := executor.Run(execCtx, h.newExecutor(), req, queue, updater); err != nil {
			consumer.SetProducerError(err)
		}
	}()
	consumer.WatchProducer(done)

	logger.Info("stream opened", "query", query)
	outcome = h.drain(ctx, w, flusher, consumer.ConsumeAll(ctx), logger)

	if outcome == metrics.OutcomeDisconnected {
		cancelExec()
		if !updater.IsTerminal() {
			if err := updater.Cancel(context.WithoutCancel(ctx), "client disconnected"); err != nil {
				logger.Debug("cancel after disconnect failed", "error", err)
			}
		}
	}

	<-done
	if err := consumer.ProducerError(); err != nil {
		logger.Warn("producer finished with error", "error", err)
	}
	h.saveRecord(context.WithoutCancel(ctx), updater, logger)
	logger.Info("stream closed", "outcome", outcome, "state", updater.CurrentState())
}

// drain forwards events until the stream terminates and returns the outcome.
func (h *StreamHandler) drain(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, events <-chan taskstream.Event, logger *slog.Logger) string {
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return metrics.OutcomeDisconnected

		case <-ticker.C:
			h.writeComment(w, flusher, "heartbeat")

		case ev, ok := <-events:
			if !ok {
				// Drain loop stopped without the sentinel: the producer
				// exited without terminating the task. Never leave the
				// client hanging without a verdict.
				h.writeErrorEvent(w, flusher, "stream terminated unexpectedly")
				return metrics.OutcomeError
			}

			switch ev.(type) {
			case *taskstream.EndOfStreamEvent:
				if err := h.writeEvent(w, flusher, string(taskstream.EventKindEndOfStream), struct{}{}); err != nil {
					return metrics.OutcomeDisconnected
				}
				metrics.EventForwarded(string(taskstream.EventKindEndOfStream))
				return metrics.OutcomeCompleted

			case *taskstream.StatusEvent, *taskstream.ContentEvent, *taskstream.ArtifactEvent:
				kind := string(ev.GetEventKind())
				if err := h.writeEvent(w, flusher, kind, ev); err != nil {
					if errors.Is(err, errEncoding) {
						logger.Error("event encoding failed", "kind", kind, "error", err)
						return metrics.OutcomeError
					}
					logger.Debug("client write failed", "error", err)
					return metrics.OutcomeDisconnected
				}
				metrics.EventForwarded(kind)

			default:
				// An event kind the wire protocol cannot express. Emit the
				// distinguished error event and stop instead of crashing
				// the stream.
				logger.Error("unroutable event", "event", fmt.Sprintf("%T", ev))
				h.writeErrorEvent(w, flusher, "internal error: unroutable event")
				return metrics.OutcomeError
			}
		}
	}
}

// errEncoding distinguishes a payload that cannot be encoded from a failed
// client write.
var errEncoding = errors.New("event encoding failed")

// writeEvent writes one named SSE event with a JSON payload.
func (h *StreamHandler) writeEvent(w http.ResponseWriter, flusher http.Flusher, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		h.writeErrorEvent(w, flusher, "internal error: event encoding failed")
		return fmt.Errorf("%w: %v", errEncoding, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// writeErrorEvent writes the distinguished error event, best effort.
func (h *StreamHandler) writeErrorEvent(w http.ResponseWriter, flusher http.Flusher, message string) {
	data, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ErrorEventName, data)
	flusher.Flush()
}

// writeComment writes an SSE comment line, used for keep-alive.
func (h *StreamHandler) writeComment(w http.ResponseWriter, flusher http.Flusher, comment string) {
	fmt.Fprintf(w, ": %s\n\n", comment)
	flusher.Flush()
}

// saveRecord persists the task's final snapshot when a store is configured.
func (h *StreamHandler) saveRecord(ctx context.Context, updater task.Updater, logger *slog.Logger) {
	if h.store == nil {
		return
	}
	record := &task.Record{
		TaskID:    updater.GetTaskID(),
		ContextID: updater.GetContextID(),
		State:     updater.CurrentState(),
		Artifacts: updater.ArtifactCount(),
	}
	if err := h.store.Save(ctx, record); err != nil {
		logger.Warn("failed to save task record", "error", err)
	}
}
