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

package server

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/sabouaram/htcore/atomic"
	"github.com/sabouaram/htcore/ctxstore"
	"github.com/sabouaram/htcore/logger"
	"github.com/sabouaram/htcore/status"
)

// ShutdownGrace is how long Server waits after the first SIGINT/SIGTERM
// before forcing a stop, per spec.md §4.8: "start a 30-second timer;
// on second signal or timer expiry, stop every part".
const ShutdownGrace = 30 * time.Second

// Part is a component the Server owns and shuts down in reverse
// registration order once a stop is triggered, per spec.md §4.8's "call
// stop() on every registered part in reverse order". Pool satisfies
// this with its Close method.
type Part interface {
	Close() error
}

// Server is the process scaffold of spec.md §4.8: a services registry
// parts can look each other up through, a Pool of listening ports, and
// signal/timer-driven shutdown sequencing. It plays the role the origin
// gives its io_context-owning server object, with ctxstore.Config taking
// the place of the origin's services map and atomic.Value taking the
// place of its is_stopping/is_stopped flags.
type Server struct {
	services ctxstore.Config[string]
	status   status.RouteStatus
	log      logger.Logger

	isStopping atomic.Value[bool]
	isStopped  atomic.Value[bool]

	mu    sync.Mutex
	parts []Part

	stopOnce sync.Once
	stopped  chan struct{}
}

// New returns a Server with an empty services registry, ready to accept
// registered Parts before Run is called.
func New(ctx context.Context, log logger.Logger) *Server {
	return &Server{
		services:   ctxstore.New[string](ctx),
		status:     status.New(),
		log:        log,
		isStopping: atomic.NewValue[bool](),
		isStopped:  atomic.NewValue[bool](),
		stopped:    make(chan struct{}),
	}
}

// Status returns the server's health/status registry; a Part that also
// implements status.Component is registered into it automatically by
// Register, so a status.Handler mounted on it reports every part's
// health without extra wiring.
func (srv *Server) Status() status.RouteStatus {
	return srv.status
}

// Services returns the server's services registry, so a Part's
// constructor can look up another already-registered Part by name
// before its own registration (spec.md §4.8's services registry).
func (srv *Server) Services() ctxstore.Config[string] {
	return srv.services
}

// Register adds p to the set of Parts Stop shuts down, in the reverse of
// registration order, once a shutdown is triggered. name is stored in
// the services registry alongside p so later Parts can look it up.
func (srv *Server) Register(name string, p Part) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.parts = append(srv.parts, p)
	srv.services.Store(name, p)

	if c, ok := p.(status.Component); ok {
		srv.status.ComponentNew(name, c)
	}
}

// Stopping reports whether the server has begun shutting down. A Pool
// given it copies it onto every Session it starts, and each Session
// checks it once per exchange, per spec.md §4.7's drain behavior.
func (srv *Server) Stopping() bool {
	return srv.isStopping.Load()
}

// Stopped reports whether Stop has finished closing every registered
// Part.
func (srv *Server) Stopped() bool {
	return srv.isStopped.Load()
}

// Run installs a SIGINT/SIGTERM handler and blocks until the server has
// fully stopped, per spec.md §4.8: the first signal begins a graceful
// drain with a ShutdownGrace timer running in parallel; a second signal,
// or the timer expiring first, forces Stop. Run returns once Stop has
// closed every registered Part.
func (srv *Server) Run(ctx context.Context) error {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
			srv.Stop()
			return
		}

		srv.isStopping.Store(true)
		if srv.log != nil {
			srv.log.Info("shutdown signal received, draining connections")
		}

		timer := time.NewTimer(ShutdownGrace)
		defer timer.Stop()

		select {
		case <-sigCh:
			if srv.log != nil {
				srv.log.Warning("second shutdown signal received, forcing stop")
			}
		case <-timer.C:
			if srv.log != nil {
				srv.log.Warning("shutdown grace period elapsed, forcing stop")
			}
		}
		srv.Stop()
	}()

	<-srv.stopped
	return nil
}

// Stop closes every registered Part in the reverse of its registration
// order and marks the server stopped. It is safe to call concurrently
// and more than once; only the first call does the work.
func (srv *Server) Stop() error {
	var merr *multierror.Error
	srv.stopOnce.Do(func() {
		srv.isStopping.Store(true)

		srv.mu.Lock()
		parts := append([]Part(nil), srv.parts...)
		srv.mu.Unlock()

		for i := len(parts) - 1; i >= 0; i-- {
			if cerr := parts[i].Close(); cerr != nil {
				merr = multierror.Append(merr, cerr)
			}
		}

		srv.isStopped.Store(true)
		close(srv.stopped)
	})
	return merr.ErrorOrNil()
}
