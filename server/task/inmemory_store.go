// Copyright 2025 The TaskStream Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// InMemoryStore is a map-backed Store for tests and single-process servers.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
	closed  bool
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string]*Record),
	}
}

// Initialize prepares the store. It is a no-op for the in-memory backend.
func (s *InMemoryStore) Initialize(ctx context.Context) error {
	return nil
}

// Save inserts or updates a record keyed by its task ID.
func (s *InMemoryStore) Save(ctx context.Context, record *Record) error {
	if record == nil {
		return NewStoreError("save", "", fmt.Errorf("record cannot be nil"))
	}
	if record.TaskID == "" {
		return NewStoreError("save", "", fmt.Errorf("record task ID cannot be empty"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreError("save", record.TaskID, fmt.Errorf("store is closed"))
	}

	now := time.Now().UTC()
	clone := *record
	if existing, ok := s.records[record.TaskID]; ok {
		clone.CreatedAt = existing.CreatedAt
	} else if clone.CreatedAt.IsZero() {
		clone.CreatedAt = now
	}
	clone.UpdatedAt = now
	s.records[record.TaskID] = &clone
	return nil
}

// Get retrieves the record for a task.
func (s *InMemoryStore) Get(ctx context.Context, taskID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[taskID]
	if !ok {
		return nil, NewRecordNotFoundError(taskID)
	}
	clone := *record
	return &clone, nil
}

// List returns records, optionally filtered by context ID, in creation order.
func (s *InMemoryStore) List(ctx context.Context, contextID string, limit, offset int) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*Record
	for _, record := range s.records {
		if contextID != "" && record.ContextID != contextID {
			continue
		}
		clone := *record
		records = append(records, &clone)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].TaskID < records[j].TaskID
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	if offset > len(records) {
		offset = len(records)
	}
	records = records[offset:]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}

// Count returns the number of records, optionally filtered by context ID.
func (s *InMemoryStore) Count(ctx context.Context, contextID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if contextID == "" {
		return int64(len(s.records)), nil
	}
	var n int64
	for _, record := range s.records {
		if record.ContextID == contextID {
			n++
		}
	}
	return n, nil
}

// Delete removes the record for a task.
func (s *InMemoryStore) Delete(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[taskID]; !ok {
		return NewRecordNotFoundError(taskID)
	}
	delete(s.records, taskID)
	return nil
}

// Close shuts down the store.
func (s *InMemoryStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.records = make(map[string]*Record)
	return nil
}
