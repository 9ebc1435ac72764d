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

// Package server is the listening-port worker pool and process scaffold
// of spec.md §4.7/§4.8: Pool fans accepted connections out to bounded
// concurrent sessions across one or more bound endpoints, and Server
// wires a Pool together with signal handling and an ordered shutdown of
// every registered part.
package server

import (
	"context"
	"crypto/tls"
	"encoding/binary"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/sabouaram/htcore/logger"
	"github.com/sabouaram/htcore/router"
	"github.com/sabouaram/htcore/semaphore"
	"github.com/sabouaram/htcore/session"
	"github.com/sabouaram/htcore/status"
	"github.com/sabouaram/htcore/stream"
)

// entry is one bound endpoint a Pool accepts connections on, per spec.md
// §4.7's "one or more entry records". tls is nil for a plain endpoint.
type entry struct {
	listener net.Listener
	tls      *tls.Config
}

// Pool is the listener + fixed-capacity worker pool of spec.md §4.7: any
// number of bound endpoints share a single concurrency budget, translated
// from the origin's idle-worker-list/need-counter bookkeeping onto a
// semaphore.Sem-bounded accept loop per entry. Popping an idle worker and
// handing it an `async_accept` becomes "acquire a semaphore slot, then
// call Accept"; a worker finishing a session and calling back to
// `do_idle` becomes the accept loop's next semaphore acquisition
// succeeding once that session's goroutine releases its slot.
type Pool struct {
	name   string
	router *router.Router
	log    logger.Logger
	metric *poolMetrics

	// BodyLimit and Stopping are copied onto every Session this pool
	// creates; see session.Session's fields of the same name.
	BodyLimit int64
	Stopping  func() bool

	concurrency int64

	mu      sync.Mutex
	entries []entry
}

// NewPool returns a Pool with no bound endpoints yet and a shared budget
// of concurrency simultaneously running sessions across all of them.
// concurrency <= 0 means unbounded. name identifies the pool in its
// published metrics and in a status registry it is registered into.
func NewPool(name string, concurrency int64, r *router.Router, log logger.Logger) *Pool {
	return &Pool{
		name:        name,
		router:      r,
		log:         log,
		concurrency: concurrency,
		metric:      newPoolMetrics(prometheus.DefaultRegisterer, name),
	}
}

// Name, Release and Health implement status.Component, so a Server can
// register a Pool directly into its status registry alongside its other
// parts.
func (p *Pool) Name() string { return p.name }

func (p *Pool) Release() (version string, hash string) { return "", "" }

// Health reports an error naming the pool unhealthy once it has no
// endpoints left to accept connections on.
func (p *Pool) Health(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.entries) == 0 {
		return ErrorNoListeners.Error()
	}
	return nil
}

var _ status.Component = (*Pool)(nil)

// Add registers ln as an entry the pool's Serve call will accept
// connections from. tlsConfig may be nil for a plain endpoint.
func (p *Pool) Add(ln net.Listener, tlsConfig *tls.Config) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, entry{listener: ln, tls: tlsConfig})
}

// Close closes every registered endpoint's listener, unblocking any
// in-progress Accept so Serve's accept loops can observe ctx and return.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var first error
	for _, e := range p.entries {
		if err := e.listener.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Serve runs every entry's accept loop concurrently until ctx is done or
// every loop has stopped, and only returns once all of them have (spec.md
// §4.7's "cancel every worker's stream and cancel each acceptor;
// in-flight completions finish and report cancelled" — Close plus ctx
// cancellation is this translation's equivalent cancellation signal).
func (p *Pool) Serve(ctx context.Context) error {
	p.mu.Lock()
	entries := append([]entry(nil), p.entries...)
	p.mu.Unlock()

	if len(entries) == 0 {
		return ErrorNoListeners.Error()
	}

	sem := semaphore.NewSemaphoreWithContext(ctx, p.concurrency)

	g, gCtx := errgroup.WithContext(ctx)
	for _, e := range entries {
		e := e
		g.Go(func() error {
			return p.acceptLoop(gCtx, e, sem)
		})
	}
	return g.Wait()
}

// acceptLoop implements spec.md §4.7's accept loop for one entry: while a
// semaphore slot (the translation of "an idle worker and need > 0") is
// available, accept one connection and hand it to a freshly spawned
// goroutine running a session to completion; on an accept error after
// ctx is done, the loop ends cleanly rather than reporting an error.
func (p *Pool) acceptLoop(ctx context.Context, e entry, sem semaphore.Sem) error {
	for {
		if err := sem.NewWorker(); err != nil {
			return nil
		}

		conn, err := e.listener.Accept()
		if err != nil {
			sem.DeferWorker()
			p.metric.acceptErrors.Inc()
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		p.metric.acceptsTotal.Inc()
		connID := uuid.New()
		go func() {
			defer sem.DeferWorker()
			p.serveConn(ctx, conn, e.tls, connID)
		}()
	}
}

func (p *Pool) serveConn(ctx context.Context, conn net.Conn, tlsConfig *tls.Config, id uuid.UUID) {
	defer conn.Close()

	var bs stream.ByteStream
	if tlsConfig != nil {
		bs = stream.NewTLS(tls.Server(conn, tlsConfig))
	} else {
		bs = stream.NewPlain(conn)
	}

	log := p.log
	if log != nil {
		log = log.Clone()
		log.SetFields(logger.Fields{"session_id": id.String()})
	}

	p.metric.activeSessions.Inc()
	defer p.metric.activeSessions.Dec()

	// the high 8 bytes of the uuid fold down to a uint64 for Session's
	// own opaque identifier; the full uuid travels separately as a log
	// field so correlating a session across log lines doesn't depend on
	// the two never colliding.
	sess := session.New(binary.BigEndian.Uint64(id[:8]), bs, p.router, log)
	sess.BodyLimit = p.BodyLimit
	sess.Stopping = p.Stopping

	if err := sess.Run(ctx); err != nil && log != nil {
		log.CheckError(logger.WarnLevel, "session ended with error", err)
	}
}
