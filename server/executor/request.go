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

package executor

import (
	"fmt"

	"github.com/taskstream/taskstream"
)

// Request is the execution context for one task: its immutable identity and
// the query that seeds the producer's input.
type Request struct {
	TaskID    string
	ContextID string
	Query     string
}

// NewRequest creates a request with generated task and context IDs.
func NewRequest(query string) *Request {
	return &Request{
		TaskID:    taskstream.NewTaskID(),
		ContextID: taskstream.NewContextID(),
		Query:     query,
	}
}

// Validate ensures the request carries a complete identity.
func (r *Request) Validate() error {
	if r == nil {
		return fmt.Errorf("request cannot be nil")
	}
	if r.TaskID == "" {
		return fmt.Errorf("request task ID cannot be empty")
	}
	if r.ContextID == "" {
		return fmt.Errorf("request context ID cannot be empty")
	}
	return nil
}
