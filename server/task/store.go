// Copyright 2025 The TaskStream Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"time"

	"github.com/taskstream/taskstream"
)

// Record is a persisted snapshot of a task: its identity, the lifecycle
// state it reached, and how many artifacts it delivered. The live event
// stream itself is never persisted.
type Record struct {
	TaskID    string               `gorm:"column:task_id;primaryKey" json:"task_id"`
	ContextID string               `gorm:"column:context_id;index" json:"context_id"`
	State     taskstream.TaskState `gorm:"column:state" json:"state"`
	Artifacts int                  `gorm:"column:artifacts" json:"artifacts"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// TableName returns the database table name for task records.
func (Record) TableName() string {
	return "task_records"
}

// Store persists task records. Implementations must be safe for concurrent
// use.
type Store interface {
	// Initialize prepares the backend (creates tables, indexes).
	Initialize(ctx context.Context) error

	// Save inserts or updates a record keyed by its task ID.
	Save(ctx context.Context, record *Record) error

	// Get retrieves the record for a task.
	// Returns RecordNotFoundError if no record exists.
	Get(ctx context.Context, taskID string) (*Record, error)

	// List returns records, optionally filtered by context ID, in creation
	// order. A limit of 0 means no limit.
	List(ctx context.Context, contextID string, limit, offset int) ([]*Record, error)

	// Count returns the number of records, optionally filtered by context ID.
	Count(ctx context.Context, contextID string) (int64, error)

	// Delete removes the record for a task.
	// Returns RecordNotFoundError if no record exists.
	Delete(ctx context.Context, taskID string) error

	// Close shuts down the backend.
	Close(ctx context.Context) error
}
