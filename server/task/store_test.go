// Copyright 2025 The TaskStream Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/taskstream/taskstream"
)

func TestInMemoryStore_SaveAndGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore()

	record := &Record{
		TaskID:    "t1",
		ContextID: "c1",
		State:     taskstream.TaskStateCompleted,
		Artifacts: 2,
	}
	if err := store.Save(ctx, record); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	ignoreTimes := cmpopts.IgnoreFields(Record{}, "CreatedAt", "UpdatedAt")
	if diff := cmp.Diff(record, got, ignoreTimes); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps should be set on save")
	}
}

func TestInMemoryStore_GetNotFound(t *testing.T) {
	t.Parallel()

	store := NewInMemoryStore()
	_, err := store.Get(context.Background(), "missing")

	var notFound RecordNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Get() error = %v, want RecordNotFoundError", err)
	}
}

func TestInMemoryStore_SaveValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore()

	if err := store.Save(ctx, nil); err == nil {
		t.Error("Save(nil) should fail")
	}
	if err := store.Save(ctx, &Record{}); err == nil {
		t.Error("Save() without task ID should fail")
	}
}

func TestInMemoryStore_UpdatePreservesCreatedAt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore()

	if err := store.Save(ctx, &Record{TaskID: "t1", ContextID: "c1", State: taskstream.TaskStatePending}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	first, err := store.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	time.Sleep(time.Millisecond)
	if err := store.Save(ctx, &Record{TaskID: "t1", ContextID: "c1", State: taskstream.TaskStateCompleted}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	second, err := store.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Error("CreatedAt should be preserved across updates")
	}
	if second.State != taskstream.TaskStateCompleted {
		t.Errorf("state = %s, want completed", second.State)
	}
}

func TestInMemoryStore_ListAndCount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore()

	records := []*Record{
		{TaskID: "t1", ContextID: "c1", State: taskstream.TaskStateCompleted, CreatedAt: time.Unix(1, 0)},
		{TaskID: "t2", ContextID: "c1", State: taskstream.TaskStateFailed, CreatedAt: time.Unix(2, 0)},
		{TaskID: "t3", ContextID: "c2", State: taskstream.TaskStateCancelled, CreatedAt: time.Unix(3, 0)},
	}
	for _, r := range records {
		if err := store.Save(ctx, r); err != nil {
			t.Fatalf("Save(%s) error = %v", r.TaskID, err)
		}
	}

	tests := map[string]struct {
		contextID string
		limit     int
		offset    int
		wantIDs   []string
	}{
		"all records": {
			wantIDs: []string{"t1", "t2", "t3"},
		},
		"filtered by context": {
			contextID: "c1",
			wantIDs:   []string{"t1", "t2"},
		},
		"with limit": {
			limit:   2,
			wantIDs: []string{"t1", "t2"},
		},
		"with offset": {
			offset:  1,
			wantIDs: []string{"t2", "t3"},
		},
		"offset past end": {
			offset:  10,
			wantIDs: nil,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := store.List(ctx, tt.contextID, tt.limit, tt.offset)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			var ids []string
			for _, r := range got {
				ids = append(ids, r.TaskID)
			}
			if diff := cmp.Diff(tt.wantIDs, ids); diff != "" {
				t.Errorf("List() IDs mismatch (-want +got):\n%s", diff)
			}
		})
	}

	total, err := store.Count(ctx, "")
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if total != 3 {
		t.Errorf("Count() = %d, want 3", total)
	}
	filtered, err := store.Count(ctx, "c2")
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if filtered != 1 {
		t.Errorf("Count(c2) = %d, want 1", filtered)
	}
}

func TestInMemoryStore_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore()

	if err := store.Save(ctx, &Record{TaskID: "t1", ContextID: "c1"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete(ctx, "t1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var notFound RecordNotFoundError
	if err := store.Delete(ctx, "t1"); !errors.As(err, &notFound) {
		t.Errorf("second Delete() error = %v, want RecordNotFoundError", err)
	}
}

func TestInMemoryStore_SaveAfterClose(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore()

	if err := store.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := store.Save(ctx, &Record{TaskID: "t1"}); err == nil {
		t.Error("Save() after Close() should fail")
	}
}
