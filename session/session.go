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

// Package session drives one HTTP/1 connection end to end, per spec.md
// §4.6: read a request's headers, dispatch it through a router.Router,
// write the resulting response, and either loop for the next pipelined
// exchange (keep-alive) or close. A goroutine runs one Session's Run to
// completion; Detach/Resume let a handler suspend that loop to wait on
// something asynchronous (a downstream call, a timer) without blocking
// the goroutine forever, mirroring the origin http_stream's do_detach
// and resumer::operator() but collapsed onto Go's one-goroutine-per-
// connection model instead of asio's executor/work-guard machinery.
package session

import (
	"context"
	"net/url"
	"sync"
	"time"

	errcode "github.com/sabouaram/htcore/errors"
	"github.com/sabouaram/htcore/ioops"
	"github.com/sabouaram/htcore/logger"
	"github.com/sabouaram/htcore/message"
	"github.com/sabouaram/htcore/router"
	"github.com/sabouaram/htcore/stream"
)

// action is what Run should do once serveOne (or Resume) returns.
type action uint8

const (
	actionClose action = iota
	actionKeepAlive
	actionDetached
)

// pendingExchange is the in-flight request/response state a Detach call
// suspends; Resume picks it back up.
type pendingExchange struct {
	reqParser message.RequestParser
	req       *message.Request
	res       *message.Response
	started   time.Time
}

// Session owns one connection's request/response loop. It is not safe
// for concurrent use except for Resume, which is expected to be called
// from whatever goroutine completes the asynchronous work a handler
// detached for (spec.md §4.6's "Resume" paragraph).
type Session struct {
	id     uint64
	stream stream.ByteStream
	router *router.Router
	log    logger.Logger

	// BodyLimit bounds how many unread request body bytes Run will drain
	// before reusing a connection for the next pipelined request; zero
	// means unlimited. A handler that read the body itself via
	// body.ReadStream is unaffected by this.
	BodyLimit int64

	// Stopping, if set, is polled once per exchange; when it reports
	// true the session forces a 503 Service Unavailable with
	// Connection: close instead of dispatching, per spec.md §4.7's
	// graceful-shutdown drain.
	Stopping func() bool

	// detachMu/detachCond guard detacher/pending against the race spec.md
	// §5's Ordering guarantees section calls out explicitly: a handler
	// may capture the Session (via SessionFrom) and hand it to a
	// goroutine that calls Resume before this session's own goroutine
	// has finished storing the Detacher that Dispatch just returned.
	// Resume waits on the condition instead of racing a bare nil check.
	detachMu   sync.Mutex
	detachCond *sync.Cond
	detacher   *router.Detacher
	pending    pendingExchange
}

// New returns a Session ready to Run over s. id is an opaque identifier
// used only for logging (a connection counter, typically).
func New(id uint64, s stream.ByteStream, r *router.Router, log logger.Logger) *Session {
	sess := &Session{id: id, stream: s, router: r, log: log}
	sess.detachCond = sync.NewCond(&sess.detachMu)
	return sess
}

func (s *Session) ID() uint64 { return s.id }

// Detached reports whether the session is currently suspended on a
// handler's Detach, waiting for Resume.
func (s *Session) Detached() bool {
	s.detachMu.Lock()
	defer s.detachMu.Unlock()
	return s.detacher != nil
}

// Run drives the connection through IDLE -> READ_HEADERS -> ROUTING ->
// (SEND | DETACHED) -> KEEP_ALIVE? IDLE : CLOSE, per spec.md §4.6, until
// the connection closes or a handler detaches. On detach, Run returns
// nil without closing the stream; the caller (or whoever completes the
// detached work) must eventually call Resume, whose return value
// governs the rest of the connection's lifetime the same way Run's does.
func (s *Session) Run(ctx context.Context) error {
	for {
		act, err := s.serveOne(ctx)
		switch act {
		case actionKeepAlive:
			continue
		case actionDetached:
			return nil
		default:
			_ = s.stream.Close()
			return err
		}
	}
}

// Resume continues a dispatch that previously detached, substituting ec
// for the detached handler's outcome (spec.md §4.5's resume paragraph:
// nil continues as Next, non-nil switches the resumed traversal into
// error mode). Once the resumed response is written, Resume handles the
// connection itself: on close it closes the stream and returns nil, on
// keep-alive it calls Run to serve the next request and returns Run's
// result, and if the resumed dispatch detaches again it returns nil.
func (s *Session) Resume(ctx context.Context, ec error) error {
	s.detachMu.Lock()
	for s.detacher == nil {
		s.detachCond.Wait()
	}
	d := s.detacher
	p := s.pending
	s.detacher = nil
	s.detachMu.Unlock()

	result, next, derr := d.Resume(ctx, ec)

	act := s.respond(ctx, p.reqParser, p.req, p.res, p.started, result, next, derr)
	switch act {
	case actionDetached:
		return nil
	case actionKeepAlive:
		return s.Run(ctx)
	default:
		_ = s.stream.Close()
		return nil
	}
}

// serveOne runs exactly one request/response exchange: read a request's
// headers, validate its target, dispatch it, and respond.
func (s *Session) serveOne(ctx context.Context) (action, error) {
	reqParser := message.NewRequestParser()

	if n, err := ioops.ReadHeader(ctx, s.stream, reqParser); err != nil {
		// A failure before any byte of the next request arrived (a
		// client EOF, typically) is an ordinary connection close, not
		// an error worth propagating; a failure after some bytes
		// arrived is a genuinely malformed request.
		if n == 0 {
			return actionClose, nil
		}
		return actionClose, err
	}

	req := reqParser.Get()
	started := time.Now()

	if s.Stopping != nil && s.Stopping() {
		res := message.NewResponse()
		s.writeStatus(ctx, res, 503, "Service Unavailable")
		s.logAccess(req, res, started)
		return actionClose, nil
	}

	if _, err := url.ParseRequestURI(req.Target); err != nil {
		res := message.NewResponse()
		s.log.CheckError(logger.WarnLevel, "malformed request target", ErrorMalformedURL.Error())
		s.writeStatus(ctx, res, 400, "Bad Request")
		s.logAccess(req, res, started)
		return actionClose, nil
	}

	res := message.NewResponse()
	dctx := withSession(withIO(ctx, s.stream, reqParser), s)

	result, detacher, derr := s.router.Dispatch(dctx, req, res)

	act := s.respond(ctx, reqParser, req, res, started, result, detacher, derr)
	return act, nil
}

// respond maps one dispatch outcome to the wire (or to a stored
// pendingExchange, on Detach) and decides the next action, per the
// origin's do_respond.
func (s *Session) respond(ctx context.Context, reqParser message.RequestParser, req *message.Request, res *message.Response, started time.Time, result router.Result, detacher *router.Detacher, derr error) action {
	switch result {
	case router.Detach:
		s.detachMu.Lock()
		s.detacher = detacher
		s.pending = pendingExchange{reqParser: reqParser, req: req, res: res, started: started}
		s.detachMu.Unlock()
		s.detachCond.Broadcast()
		return actionDetached

	case router.Close:
		if derr == nil {
			return actionClose
		}
		if errcode.IsCode(derr, router.ErrorNoMatchingRoute) {
			s.writeStatus(ctx, res, 404, "Not Found")
		} else {
			s.log.CheckError(logger.ErrorLevel, "request dispatch failed", derr)
			s.writeStatus(ctx, res, 500, "Internal Server Error")
		}
		s.logAccess(req, res, started)
		return actionClose

	case router.Complete:
		// the handler drove its own serializer/stream and already sent
		// everything; nothing left for the session to write.
		s.logAccess(req, res, started)

	case router.Send:
		if err := s.write(ctx, res); err != nil {
			return actionClose
		}
		s.logAccess(req, res, started)

	default:
		// Next/NextRoute escaping Dispatch is a dispatcher bug, not a
		// client error; respond safely rather than hanging the
		// connection on a response that never gets written.
		s.writeStatus(ctx, res, 500, "Internal Server Error")
		s.logAccess(req, res, started)
	}

	if !s.drainBody(ctx, reqParser) {
		return actionClose
	}
	if !s.keepAlive(req, res) {
		return actionClose
	}
	return actionKeepAlive
}

func (s *Session) write(ctx context.Context, res *message.Response) error {
	sr := message.NewResponseSerializer()
	if err := sr.Start(res, res.Body); err != nil {
		return err
	}
	_, err := ioops.Write(ctx, s.stream, sr)
	return err
}

func (s *Session) writeStatus(ctx context.Context, res *message.Response, code int, reason string) {
	res.StatusCode = code
	res.Reason = reason
	res.Header.Set("Connection", "close")
	_ = s.write(ctx, res)
}

// drainBody consumes whatever request body a handler left unread, so the
// bytes of this request don't get parsed as the start of the next one
// on a kept-alive connection. It reports false if the body could not be
// fully drained (a transport error, or BodyLimit exceeded), in which
// case the connection must not be reused.
func (s *Session) drainBody(ctx context.Context, p message.RequestParser) bool {
	if p.IsComplete() {
		return true
	}

	var drained int64
	for !p.IsComplete() {
		body := p.PullBody()
		if len(body) > 0 {
			drained += int64(len(body))
			p.ConsumeBody(len(body))
			if s.BodyLimit > 0 && drained > s.BodyLimit {
				return false
			}
			continue
		}
		if _, err := ioops.ReadSome(ctx, s.stream, p); err != nil {
			return false
		}
	}
	return true
}

func (s *Session) keepAlive(req *message.Request, res *message.Response) bool {
	if !req.Keep {
		return false
	}
	if res.Header.Get("Connection") == "close" {
		return false
	}
	return true
}

func (s *Session) logAccess(req *message.Request, res *message.Response, started time.Time) {
	if s.log == nil {
		return
	}
	s.log.Access(logger.AccessEntry{
		Method:     req.Method,
		Path:       req.Target,
		RemoteAddr: s.stream.RemoteAddr(),
		StatusCode: res.StatusCode,
		BytesSent:  int64(len(res.Body)),
		Duration:   time.Since(started),
	})
}
