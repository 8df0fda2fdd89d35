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
	"context"
	"fmt"

	"github.com/taskstream/taskstream/server/event"
	"github.com/taskstream/taskstream/server/task"
)

// Executor runs the processing steps for one task. Implementations must call
// the updater's StartWork before emitting content and must terminate through
// exactly one of Complete or Fail. Returning an error without terminating is
// tolerated: Run routes it into the Fail path.
type Executor interface {
	Execute(ctx context.Context, req *Request, queue *event.Queue, updater task.Updater) error
}

// Run executes an executor inside the recovery boundary. Any panic or error
// that escapes the executor is converted into a terminal failed status so
// the event stream always reaches its sentinel, and the original failure is
// returned to the caller.
//
// Terminal events are enqueued on a context detached from cancellation:
// when the failure is the cancellation itself, the stream must still be
// sealed.
func Run(ctx context.Context, exec Executor, req *Request, queue *event.Queue, updater task.Updater) (err error) {
	if err := req.Validate(); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("executor panic: %v", r)
			failTask(ctx, updater, err)
		}
	}()

	if err := exec.Execute(ctx, req, queue, updater); err != nil {
		failTask(ctx, updater, err)
		return err
	}

	if !updater.IsTerminal() {
		err := fmt.Errorf("executor returned without terminating task %s", req.TaskID)
		failTask(ctx, updater, err)
		return err
	}
	return nil
}

func failTask(ctx context.Context, updater task.Updater, cause error) {
	if updater.IsTerminal() {
		return
	}
	// Best effort: the queue may already be closed or the failure may race
	// an external cancellation.
	_ = updater.Fail(context.WithoutCancel(ctx), cause.Error())
}
