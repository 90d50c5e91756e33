// Copyright 2026 The gpukit Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package task

import (
	"fmt"

	"github.com/gpukit/oit/mem"
	"github.com/gpukit/oit/profiler"
	"github.com/gpukit/oit/renderer"
)

// Task is one stage of the frame pipeline. Prepare must not record GPU
// commands; Execute must not allocate persistent resources.
type Task interface {
	Prepare(ctx *Context)
	Execute(ctx *Context)
}

// Scheduler owns the frame loop: a fixed task list, the resource registry,
// and the frame arena. It is not safe for concurrent use; a frame either
// completes its prepare/execute pair or is abandoned by the caller.
type Scheduler struct {
	executor renderer.Executor
	registry *renderer.Registry
	arena    *mem.Arena
	profiler profiler.Group
	tasks    []Task
	frame    uint64
}

func NewScheduler(executor renderer.Executor, tasks ...Task) *Scheduler {
	return &Scheduler{
		executor: executor,
		registry: renderer.NewRegistry(),
		arena:    mem.NewArena(),
		profiler: profiler.Nop(),
		tasks:    tasks,
	}
}

// Registry returns the resource registry shared by all tasks.
func (s *Scheduler) Registry() *renderer.Registry { return s.registry }

// SetProfiler installs a profiler for frame phase timing. Nil disables
// profiling.
func (s *Scheduler) SetProfiler(p profiler.Group) {
	if p == nil {
		p = profiler.Nop()
	}
	s.profiler = p
}

// AddTask appends a task to the end of the pipeline.
func (s *Scheduler) AddTask(t Task) {
	s.tasks = append(s.tasks, t)
}

// RunFrame executes one frame: prepare phase in task order, resource
// flush, execute phase in task order, submission.
func (s *Scheduler) RunFrame() error {
	s.arena.Reset()
	s.frame++

	ctx := mem.Make(s.arena, Context{
		Arena:     s.arena,
		Registry:  s.registry,
		Recording: renderer.NewRecording(s.arena),
		Executor:  s.executor,
	})

	label := fmt.Sprintf("frame %d", s.frame)
	pgroup := s.profiler.Start(label)
	defer pgroup.End()

	span := pgroup.Start("prepare")
	for _, t := range s.tasks {
		t.Prepare(ctx)
	}
	s.registry.Commit(ctx.Recording)
	span.End()

	span = pgroup.Start("execute")
	for _, t := range s.tasks {
		t.Execute(ctx)
	}
	span.End()

	span = pgroup.Start("submit")
	defer span.End()
	return s.executor.Execute(s.arena, ctx.Recording, label)
}
