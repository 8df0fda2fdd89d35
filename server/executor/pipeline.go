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
	"strings"
	"time"

	"github.com/taskstream/taskstream"
	"github.com/taskstream/taskstream/server/event"
	"github.com/taskstream/taskstream/server/task"
)

// Pipeline is the reference executor: a research step and a summary step,
// each announcing itself with a system message and streaming its result
// word by word as assistant content, with the summary also delivered as an
// addressable artifact.
type Pipeline struct {
	// ChunkDelay optionally paces word-by-word streaming. Zero means no
	// artificial pacing; tests rely on that.
	ChunkDelay time.Duration
}

var _ Executor = (*Pipeline)(nil)

// NewPipeline creates a pipeline with no chunk pacing.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Execute runs the pipeline steps and completes the task.
func (p *Pipeline) Execute(ctx context.Context, req *Request, queue *event.Queue, updater task.Updater) error {
	if err := updater.StartWork(ctx, ""); err != nil {
		return err
	}

	if err := p.research(ctx, req, queue, updater); err != nil {
		return err
	}
	if err := p.summarize(ctx, req, queue, updater); err != nil {
		return err
	}

	return updater.Complete(ctx, "")
}

func (p *Pipeline) research(ctx context.Context, req *Request, queue *event.Queue, updater task.Updater) error {
	if err := updater.StartWork(ctx, "research"); err != nil {
		return err
	}
	if err := p.notify(ctx, req, queue, "Researching: "+req.Query); err != nil {
		return err
	}
	return p.streamWords(ctx, req, queue, "Research complete")
}

func (p *Pipeline) summarize(ctx context.Context, req *Request, queue *event.Queue, updater task.Updater) error {
	if err := updater.StartWork(ctx, "summary"); err != nil {
		return err
	}
	if err := p.notify(ctx, req, queue, "Creating summary"); err != nil {
		return err
	}

	const summary = "Final summary complete"
	if err := p.streamWords(ctx, req, queue, summary); err != nil {
		return err
	}
	return updater.AddArtifact(ctx, "summary", summary, map[string]any{"type": "summary"})
}

// notify emits a system-role progress message.
func (p *Pipeline) notify(ctx context.Context, req *Request, queue *event.Queue, text string) error {
	ev := taskstream.NewContentEvent(req.TaskID, req.ContextID, taskstream.RoleSystem,
		taskstream.Parts{taskstream.NewTextPart(text)})
	return queue.Enqueue(ctx, ev)
}

// streamWords emits one assistant content event per word, each carrying a
// trailing space so the client can concatenate chunks verbatim.
func (p *Pipeline) streamWords(ctx context.Context, req *Request, queue *event.Queue, text string) error {
	for _, word := range strings.Fields(text) {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev := taskstream.NewAgentTextEvent(req.TaskID, req.ContextID, word+" ")
		if err := queue.Enqueue(ctx, ev); err != nil {
			return err
		}
		if p.ChunkDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.ChunkDelay):
			}
		}
	}
	return nil
}
