// Copyright 2025 The TaskStream Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"testing"

	"github.com/taskstream/taskstream"
	"github.com/taskstream/taskstream/server/event"
)

func newTestUpdater(t *testing.T) (*LifecycleUpdater, *event.Queue) {
	t.Helper()

	queue, err := event.NewQueue(32)
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}
	updater, err := NewUpdater(UpdaterConfig{
		TaskID:    "t1",
		ContextID: "c1",
		Queue:     queue,
	})
	if err != nil {
		t.Fatalf("NewUpdater() error = %v", err)
	}
	return updater, queue
}

func drainQueue(t *testing.T, queue *event.Queue) []taskstream.Event {
	t.Helper()

	ctx := context.Background()
	var events []taskstream.Event
	for {
		ev, err := queue.Dequeue(ctx, true)
		if err != nil {
			if errors.Is(err, event.ErrQueueEmpty) || errors.Is(err, event.ErrQueueClosed) {
				return events
			}
			t.Fatalf("Dequeue() error = %v", err)
		}
		events = append(events, ev)
	}
}

func TestNewUpdater(t *testing.T) {
	t.Parallel()

	queue, err := event.NewQueue(8)
	if err != nil {
		t.Fatalf("NewQueue() error = %v", err)
	}

	tests := map[string]struct {
		config  UpdaterConfig
		wantErr bool
	}{
		"valid": {
			config: UpdaterConfig{TaskID: "t", ContextID: "c", Queue: queue},
		},
		"missing task ID": {
			config:  UpdaterConfig{ContextID: "c", Queue: queue},
			wantErr: true,
		},
		"missing context ID": {
			config:  UpdaterConfig{TaskID: "t", Queue: queue},
			wantErr: true,
		},
		"missing queue": {
			config:  UpdaterConfig{TaskID: "t", ContextID: "c"},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			updater, err := NewUpdater(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewUpdater() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && updater.CurrentState() != taskstream.TaskStatePending {
				t.Errorf("initial state = %s, want pending", updater.CurrentState())
			}
		})
	}
}

func TestUpdater_CompleteEmitsOrderedStream(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	updater, queue := newTestUpdater(t)

	if err := updater.StartWork(ctx, ""); err != nil {
		t.Fatalf("StartWork() error = %v", err)
	}
	if err := queue.Enqueue(ctx, taskstream.NewAgentTextEvent("t1", "c1", "hi")); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if err := updater.Complete(ctx, ""); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	events := drainQueue(t, queue)
	wantKinds := []taskstream.EventKind{
		taskstream.EventKindStatus,
		taskstream.EventKindContent,
		taskstream.EventKindStatus,
		taskstream.EventKindEndOfStream,
	}
	if len(events) != len(wantKinds) {
		t.Fatalf("got %d events, want %d", len(events), len(wantKinds))
	}
	for i, kind := range wantKinds {
		if events[i].GetEventKind() != kind {
			t.Errorf("event %d kind = %s, want %s", i, events[i].GetEventKind(), kind)
		}
	}

	first := events[0].(*taskstream.StatusEvent)
	if first.State != taskstream.TaskStateWorking {
		t.Errorf("first status state = %s, want working", first.State)
	}
	third := events[2].(*taskstream.StatusEvent)
	if third.State != taskstream.TaskStateCompleted {
		t.Errorf("terminal status state = %s, want completed", third.State)
	}

	if !queue.IsClosed() {
		t.Error("queue should be closed after Complete")
	}
	if updater.CurrentState() != taskstream.TaskStateCompleted {
		t.Errorf("state = %s, want completed", updater.CurrentState())
	}
}

func TestUpdater_FailEmitsErrorContent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	updater, queue := newTestUpdater(t)

	if err := updater.StartWork(ctx, ""); err != nil {
		t.Fatalf("StartWork() error = %v", err)
	}
	if err := updater.Fail(ctx, "pipeline exploded"); err != nil {
		t.Fatalf("Fail() error = %v", err)
	}

	events := drainQueue(t, queue)
	wantKinds := []taskstream.EventKind{
		taskstream.EventKindStatus,
		taskstream.EventKindStatus,
		taskstream.EventKindContent,
		taskstream.EventKindEndOfStream,
	}
	if len(events) != len(wantKinds) {
		t.Fatalf("got %d events, want %d", len(events), len(wantKinds))
	}
	for i, kind := range wantKinds {
		if events[i].GetEventKind() != kind {
			t.Errorf("event %d kind = %s, want %s", i, events[i].GetEventKind(), kind)
		}
	}

	failed := events[1].(*taskstream.StatusEvent)
	if failed.State != taskstream.TaskStateFailed {
		t.Errorf("terminal status state = %s, want failed", failed.State)
	}
	errContent := events[2].(*taskstream.ContentEvent)
	if errContent.Role != taskstream.RoleSystem {
		t.Errorf("error content role = %s, want system", errContent.Role)
	}
	if got := taskstream.TextContent(errContent.Parts, ""); got != "Error: pipeline exploded" {
		t.Errorf("error content = %q", got)
	}
}

func TestUpdater_FailWithoutMessage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	updater, queue := newTestUpdater(t)

	if err := updater.Fail(ctx, ""); err != nil {
		t.Fatalf("Fail() error = %v", err)
	}

	events := drainQueue(t, queue)
	if len(events) != 2 {
		t.Fatalf("got %d events, want status + sentinel", len(events))
	}
	if events[0].GetEventKind() != taskstream.EventKindStatus {
		t.Errorf("first event kind = %s, want status", events[0].GetEventKind())
	}
	if !taskstream.IsFinalEvent(events[1]) {
		t.Errorf("second event should be the sentinel")
	}
}

func TestUpdater_ArtifactsAreIndependentlyAddressable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	updater, queue := newTestUpdater(t)

	if err := updater.AddArtifact(ctx, "summary", "done", map[string]any{}); err != nil {
		t.Fatalf("AddArtifact() error = %v", err)
	}
	if err := updater.AddArtifact(ctx, "summary", "done", map[string]any{}); err != nil {
		t.Fatalf("AddArtifact() error = %v", err)
	}
	if err := updater.Complete(ctx, ""); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if updater.ArtifactCount() != 2 {
		t.Errorf("ArtifactCount() = %d, want 2", updater.ArtifactCount())
	}

	events := drainQueue(t, queue)
	var artifacts []*taskstream.ArtifactEvent
	for _, ev := range events {
		if a, ok := ev.(*taskstream.ArtifactEvent); ok {
			artifacts = append(artifacts, a)
		}
	}
	if len(artifacts) != 2 {
		t.Fatalf("got %d artifact events, want 2", len(artifacts))
	}
	for i, a := range artifacts {
		if a.ArtifactID != "summary" {
			t.Errorf("artifact %d ID = %q, want summary", i, a.ArtifactID)
		}
	}
}

func TestUpdater_RejectsIllegalTransitions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := map[string]struct {
		run func(t *testing.T, u *LifecycleUpdater) error
	}{
		"update after complete": {
			run: func(t *testing.T, u *LifecycleUpdater) error {
				if err := u.Complete(ctx, ""); err != nil {
					t.Fatalf("Complete() error = %v", err)
				}
				return u.UpdateStatus(ctx, taskstream.TaskStateWorking, "")
			},
		},
		"complete twice": {
			run: func(t *testing.T, u *LifecycleUpdater) error {
				if err := u.Complete(ctx, ""); err != nil {
					t.Fatalf("Complete() error = %v", err)
				}
				return u.Complete(ctx, "")
			},
		},
		"fail after complete": {
			run: func(t *testing.T, u *LifecycleUpdater) error {
				if err := u.Complete(ctx, ""); err != nil {
					t.Fatalf("Complete() error = %v", err)
				}
				return u.Fail(ctx, "boom")
			},
		},
		"cancel after fail": {
			run: func(t *testing.T, u *LifecycleUpdater) error {
				if err := u.Fail(ctx, ""); err != nil {
					t.Fatalf("Fail() error = %v", err)
				}
				return u.Cancel(ctx, "")
			},
		},
		"back to pending after working": {
			run: func(t *testing.T, u *LifecycleUpdater) error {
				if err := u.StartWork(ctx, ""); err != nil {
					t.Fatalf("StartWork() error = %v", err)
				}
				return u.UpdateStatus(ctx, taskstream.TaskStatePending, "")
			},
		},
		"artifact after terminal": {
			run: func(t *testing.T, u *LifecycleUpdater) error {
				if err := u.Complete(ctx, ""); err != nil {
					t.Fatalf("Complete() error = %v", err)
				}
				return u.AddArtifact(ctx, "late", "x", nil)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			updater, _ := newTestUpdater(t)
			err := tt.run(t, updater)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("error = %v, want ErrInvalidTransition", err)
			}
			var invalid InvalidTransitionError
			if !errors.As(err, &invalid) {
				t.Errorf("error %v is not an InvalidTransitionError", err)
			}
		})
	}
}

func TestUpdater_LegalTransitions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := map[string]struct {
		run func(u *LifecycleUpdater) error
	}{
		"pending to working": {
			run: func(u *LifecycleUpdater) error {
				return u.StartWork(ctx, "")
			},
		},
		"working repeated": {
			run: func(u *LifecycleUpdater) error {
				if err := u.StartWork(ctx, ""); err != nil {
					return err
				}
				return u.StartWork(ctx, "still going")
			},
		},
		"cancel straight from pending": {
			run: func(u *LifecycleUpdater) error {
				return u.Cancel(ctx, "aborted before start")
			},
		},
		"fail straight from pending": {
			run: func(u *LifecycleUpdater) error {
				return u.Fail(ctx, "never started")
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			updater, _ := newTestUpdater(t)
			if err := tt.run(updater); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestUpdater_RejectsUnknownState(t *testing.T) {
	t.Parallel()

	updater, _ := newTestUpdater(t)
	err := updater.UpdateStatus(context.Background(), taskstream.TaskState("exploded"), "")
	if err == nil {
		t.Fatal("expected error for unknown state")
	}
	var updaterErr UpdaterError
	if !errors.As(err, &updaterErr) {
		t.Errorf("error %v is not an UpdaterError", err)
	}
}

func TestUpdater_StateSequenceNonDecreasing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	updater, queue := newTestUpdater(t)

	_ = updater.StartWork(ctx, "")
	_ = updater.StartWork(ctx, "")
	_ = updater.Complete(ctx, "")
	// Post-terminal attempts are rejected and emit nothing.
	_ = updater.StartWork(ctx, "")
	_ = updater.Fail(ctx, "late")

	var states []taskstream.TaskState
	for _, ev := range drainQueue(t, queue) {
		if st, ok := ev.(*taskstream.StatusEvent); ok {
			states = append(states, st.State)
		}
	}

	terminalSeen := false
	for i, state := range states {
		if terminalSeen {
			t.Fatalf("state %s observed after terminal state at index %d", state, i)
		}
		if state.IsTerminal() {
			terminalSeen = true
		}
	}
	if !terminalSeen {
		t.Error("no terminal state observed")
	}
}
