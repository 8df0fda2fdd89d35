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

package event

import "sync"

// Manager tracks the live event queue for each task.
type Manager interface {
	// Get returns the queue for a task, creating it if necessary.
	Get(taskID string) (*Queue, error)
	// Close closes and forgets the queue for a task.
	Close(taskID string) error
	// CloseAll closes every managed queue.
	CloseAll() error
}

// InMemoryManager is the in-process Manager implementation.
type InMemoryManager struct {
	mu      sync.RWMutex
	queues  map[string]*Queue
	maxSize int
}

var _ Manager = (*InMemoryManager)(nil)

// NewInMemoryManager creates a manager whose queues have the given capacity.
// A capacity of 0 selects DefaultQueueSize.
func NewInMemoryManager(queueSize int) *InMemoryManager {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &InMemoryManager{
		queues:  make(map[string]*Queue),
		maxSize: queueSize,
	}
}

// Get returns the queue for a task, creating it if necessary.
func (m *InMemoryManager) Get(taskID string) (*Queue, error) {
	m.mu.RLock()
	queue, ok := m.queues[taskID]
	m.mu.RUnlock()
	if ok {
		return queue, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if queue, ok = m.queues[taskID]; ok {
		return queue, nil
	}

	queue, err := NewQueue(m.maxSize)
	if err != nil {
		return nil, err
	}
	m.queues[taskID] = queue
	return queue, nil
}

// Close closes and forgets the queue for a task. Closing an unknown task is
// a no-op.
func (m *InMemoryManager) Close(taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	queue, ok := m.queues[taskID]
	if !ok {
		return nil
	}
	delete(m.queues, taskID)
	return queue.Close()
}

// CloseAll closes every managed queue.
func (m *InMemoryManager) CloseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for taskID, queue := range m.queues {
		if err := queue.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(m.queues, taskID)
	}
	return firstErr
}

// Len returns the number of managed queues.
func (m *InMemoryManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.queues)
}
