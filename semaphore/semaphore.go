/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package semaphore is the coordinated shutdown/fan-out primitive used by
// the worker pool to run a command (restart, shutdown) across every
// registered server concurrently and block until they have all finished,
// without waiting longer than the caller's context allows.
package semaphore

import (
	"context"
	"sync"
	"sync/atomic"

	xsemaphore "golang.org/x/sync/semaphore"
)

// Sem bounds (optionally) and tracks a batch of concurrent workers spawned
// from a single call site: NewWorker before spawning a goroutine,
// DeferWorker in that goroutine's cleanup, WaitAll in the caller to block
// until every spawned worker has called DeferWorker.
type Sem interface {
	// NewWorker reserves a slot for one more worker, blocking if the
	// semaphore was constructed with a positive max and it is exhausted.
	NewWorker() error

	// DeferWorker releases the slot reserved by a prior NewWorker call.
	// Calling it more times than NewWorker was called is a no-op.
	DeferWorker()

	// DeferMain releases any main-goroutine-held state. Pair with the
	// semaphore's construction in the caller's own defer.
	DeferMain()

	// WaitAll blocks until every spawned worker has called DeferWorker,
	// or until the semaphore's context is done.
	WaitAll() error
}

type sem struct {
	ctx     context.Context
	wg      sync.WaitGroup
	w       *xsemaphore.Weighted
	pending int64
}

// NewSemaphoreWithContext returns a Sem bound to ctx. max <= 0 means
// unbounded concurrency (only the WaitGroup tracks completion); max > 0
// bounds concurrent workers to max via a weighted semaphore.
func NewSemaphoreWithContext(ctx context.Context, max int64) Sem {
	s := &sem{ctx: ctx}

	if max > 0 {
		s.w = xsemaphore.NewWeighted(max)
	}

	return s
}

func (s *sem) NewWorker() error {
	if s.w != nil {
		if err := s.w.Acquire(s.ctx, 1); err != nil {
			return err
		}
	}

	atomic.AddInt64(&s.pending, 1)
	s.wg.Add(1)
	return nil
}

func (s *sem) DeferWorker() {
	for {
		cur := atomic.LoadInt64(&s.pending)
		if cur <= 0 {
			return
		}
		if atomic.CompareAndSwapInt64(&s.pending, cur, cur-1) {
			break
		}
	}

	if s.w != nil {
		s.w.Release(1)
	}

	s.wg.Done()
}

func (s *sem) DeferMain() {}

func (s *sem) WaitAll() error {
	done := make(chan struct{})

	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-s.ctx.Done():
		return ErrorContextDone.Error(s.ctx.Err())
	}
}
