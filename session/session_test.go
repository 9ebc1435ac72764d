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

package session_test

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/htcore/logger"
	"github.com/sabouaram/htcore/message"
	"github.com/sabouaram/htcore/router"
	"github.com/sabouaram/htcore/session"
	"github.com/sabouaram/htcore/stream"
)

func quietLogger() logger.Logger {
	l := logger.New(context.Background())
	l.SetLevel(logger.NilLevel)
	return l
}

func newTestSession(r *router.Router) (*session.Session, net.Conn) {
	client, server := net.Pipe()
	DeferCleanup(func() { _ = client.Close() })

	s := session.New(1, stream.NewPlain(server), r, quietLogger())
	return s, client
}

func readStatusLine(r *bufio.Reader) string {
	line, err := r.ReadString('\n')
	Expect(err).NotTo(HaveOccurred())
	return strings.TrimRight(line, "\r\n")
}

var _ = Describe("Session", func() {
	It("handles a single request then closes on Connection: close", func() {
		r := router.New()
		_ = r.Handle("GET", "/hi", func(ctx context.Context, req *message.Request, res *message.Response, c router.Captures) (router.Result, error) {
			res.StatusCode = 200
			res.Body = []byte("hello")
			return router.Send, nil
		})

		s, client := newTestSession(r)

		done := make(chan error, 1)
		go func() { done <- s.Run(context.Background()) }()

		_, err := client.Write([]byte("GET /hi HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n"))
		Expect(err).NotTo(HaveOccurred())

		br := bufio.NewReader(client)
		Expect(readStatusLine(br)).To(Equal("HTTP/1.1 200 OK"))

		Eventually(done, 2*time.Second).Should(Receive(BeNil()))
	})

	It("pipelines two keep-alive requests over one connection", func() {
		r := router.New()
		var hits int
		_ = r.Handle("GET", "/ping", func(ctx context.Context, req *message.Request, res *message.Response, c router.Captures) (router.Result, error) {
			hits++
			res.StatusCode = 200
			res.Body = []byte("pong")
			return router.Send, nil
		})

		s, client := newTestSession(r)

		done := make(chan error, 1)
		go func() { done <- s.Run(context.Background()) }()

		req := "GET /ping HTTP/1.1\r\nHost: x\r\n\r\n"
		_, err := client.Write([]byte(req + req))
		Expect(err).NotTo(HaveOccurred())

		br := bufio.NewReader(client)
		for i := 0; i < 2; i++ {
			Expect(readStatusLine(br)).To(Equal("HTTP/1.1 200 OK"), "request %d", i)
			for {
				line, herr := br.ReadString('\n')
				Expect(herr).NotTo(HaveOccurred())
				if strings.TrimRight(line, "\r\n") == "" {
					break
				}
			}
			body := make([]byte, 4)
			_, err := io.ReadFull(br, body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(Equal("pong"))
		}

		_ = client.Close()
		Eventually(done, 2*time.Second).Should(Receive())

		Expect(hits).To(Equal(2))
	})

	It("responds 404 for an unmatched route", func() {
		r := router.New()

		s, client := newTestSession(r)

		done := make(chan error, 1)
		go func() { done <- s.Run(context.Background()) }()

		_, err := client.Write([]byte("GET /nowhere HTTP/1.1\r\nHost: x\r\n\r\n"))
		Expect(err).NotTo(HaveOccurred())

		br := bufio.NewReader(client)
		Expect(readStatusLine(br)).To(Equal("HTTP/1.1 404 Not Found"))

		Eventually(done, 2*time.Second).Should(Receive())
	})

	It("forces a 503 and skips the handler when stopping", func() {
		r := router.New()
		var ran bool
		_ = r.Handle("GET", "/hi", func(ctx context.Context, req *message.Request, res *message.Response, c router.Captures) (router.Result, error) {
			ran = true
			return router.Send, nil
		})

		s, client := newTestSession(r)
		s.Stopping = func() bool { return true }

		done := make(chan error, 1)
		go func() { done <- s.Run(context.Background()) }()

		_, err := client.Write([]byte("GET /hi HTTP/1.1\r\nHost: x\r\n\r\n"))
		Expect(err).NotTo(HaveOccurred())

		br := bufio.NewReader(client)
		Expect(readStatusLine(br)).To(Equal("HTTP/1.1 503 Service Unavailable"))
		Expect(ran).To(BeFalse())

		Eventually(done, 2*time.Second).Should(Receive())
	})

	It("allows a handler to resume asynchronously via SessionFrom", func() {
		r := router.New()
		_ = r.Handle("GET", "/async",
			func(ctx context.Context, req *message.Request, res *message.Response, c router.Captures) (router.Result, error) {
				sess, ok := session.SessionFrom(ctx)
				Expect(ok).To(BeTrue(), "SessionFrom: session not found in context")
				// simulate a downstream call completing on its own goroutine,
				// racing to call Resume before this handler's own Dispatch
				// call has even returned.
				go func() { _ = sess.Resume(context.Background(), nil) }()
				return router.Detach, nil
			},
			func(ctx context.Context, req *message.Request, res *message.Response, c router.Captures) (router.Result, error) {
				res.StatusCode = 200
				res.Body = []byte("async-done")
				return router.Send, nil
			},
		)

		s, client := newTestSession(r)

		done := make(chan error, 1)
		go func() { done <- s.Run(context.Background()) }()

		_, err := client.Write([]byte("GET /async HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n"))
		Expect(err).NotTo(HaveOccurred())

		br := bufio.NewReader(client)
		Expect(readStatusLine(br)).To(Equal("HTTP/1.1 200 OK"))

		Eventually(done, 2*time.Second).Should(Receive(BeNil()))
	})

	It("sends the response once an explicit Detach is Resumed", func() {
		r := router.New()
		// the first handler models an async step (an auth check, a downstream
		// call) that detaches; the second only runs once Resume fast-forwards
		// past it, and is the one that actually produces the response — a
		// detaching handler is normally middleware-shaped rather than itself
		// the terminal handler.
		_ = r.Handle("GET", "/slow",
			func(ctx context.Context, req *message.Request, res *message.Response, c router.Captures) (router.Result, error) {
				return router.Detach, nil
			},
			func(ctx context.Context, req *message.Request, res *message.Response, c router.Captures) (router.Result, error) {
				res.StatusCode = 200
				res.Body = []byte("done")
				return router.Send, nil
			},
		)

		s, client := newTestSession(r)

		done := make(chan error, 1)
		go func() { done <- s.Run(context.Background()) }()

		_, err := client.Write([]byte("GET /slow HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n"))
		Expect(err).NotTo(HaveOccurred())

		// Run returns promptly on Detach, per its documented contract: the
		// goroutine-per-connection loop doesn't block waiting for Resume,
		// it just stops touching the stream until Resume is called.
		Eventually(done, 2*time.Second).Should(Receive(BeNil()))
		Expect(s.Detached()).To(BeTrue())

		resumeDone := make(chan error, 1)
		go func() { resumeDone <- s.Resume(context.Background(), nil) }()

		br := bufio.NewReader(client)
		Expect(readStatusLine(br)).To(Equal("HTTP/1.1 200 OK"))

		Eventually(resumeDone, 2*time.Second).Should(Receive(BeNil()))
	})
})
