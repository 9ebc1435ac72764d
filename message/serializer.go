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

package message

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Serializer is the external contract the composed write operations
// (ioops) are built against, per spec.md §6.1: Prepare supplies the next
// sequence of already-serialized wire bytes, Consume records how many
// were written, and IsDone reports whether the whole message has been
// handed off.
//
// Prepare returning (nil, nil) is valid and means "nothing ready to send
// this round, but not done" — the streaming case while a StreamHandle's
// caller has not yet committed more body input. Composed write
// operations treat that as a zero-progress round, not an error.
type Serializer interface {
	Reset()
	Prepare() ([]byte, error)
	Consume(n int)
	IsDone() bool
}

// StreamHandle is the stream-serializer handle spec.md §6.1 describes
// for body-write capacity: Prepare returns a buffer to copy body input
// into, Commit pushes the first n bytes of it into the serializer
// (chunk-encoding them if the response is chunked), and Close signals
// end-of-body.
type StreamHandle interface {
	Prepare() []byte
	Commit(n int)
	Close() error
	Capacity() int
	IsOpen() bool
}

// ResponseSerializer serializes a Response, used server-side to write
// the HTTP session's reply.
type ResponseSerializer interface {
	Serializer
	// Start serializes res with an already-fully-known body.
	Start(res *Response, body []byte) error
	// StartStream serializes res's status-line/headers and returns a
	// StreamHandle for streaming the body in pieces.
	StartStream(res *Response) (StreamHandle, error)
}

const streamHandleWindow = 64 * 1024

type responseSerializer struct {
	wire      []byte
	pos       int
	streaming bool
	closed    bool
}

func NewResponseSerializer() ResponseSerializer {
	return &responseSerializer{}
}

func (s *responseSerializer) Reset() {
	*s = responseSerializer{}
}

func (s *responseSerializer) Start(res *Response, body []byte) error {
	if res.Header == nil {
		res.Header = make(http.Header)
	}
	res.Length = int64(len(body))
	res.Chunked = false
	res.Header.Set("Content-Length", strconv.Itoa(len(body)))

	s.wire = append(s.wire, renderHead(res)...)
	s.wire = append(s.wire, body...)
	return nil
}

func (s *responseSerializer) StartStream(res *Response) (StreamHandle, error) {
	if res.Header == nil {
		res.Header = make(http.Header)
	}

	if res.Length < 0 {
		res.Chunked = true
		res.Header.Set("Transfer-Encoding", "chunked")
		res.Header.Del("Content-Length")
	} else {
		res.Header.Set("Content-Length", strconv.FormatInt(res.Length, 10))
	}

	s.wire = append(s.wire, renderHead(res)...)
	s.streaming = true

	return &streamHandle{serializer: s, chunked: res.Chunked, remaining: res.Length}, nil
}

func (s *responseSerializer) Prepare() ([]byte, error) {
	if s.pos >= len(s.wire) {
		return nil, nil
	}
	return s.wire[s.pos:], nil
}

func (s *responseSerializer) Consume(n int) {
	if n <= 0 {
		return
	}
	if s.pos+n > len(s.wire) {
		n = len(s.wire) - s.pos
	}
	s.pos += n
}

func (s *responseSerializer) IsDone() bool {
	return s.pos >= len(s.wire) && (!s.streaming || s.closed)
}

func (s *responseSerializer) append(p []byte) {
	s.wire = append(s.wire, p...)
}

type streamHandle struct {
	serializer *responseSerializer
	chunked    bool
	remaining  int64 // only meaningful when !chunked
	in         []byte
}

func (h *streamHandle) Capacity() int {
	if h.chunked {
		return streamHandleWindow
	}
	if h.remaining < int64(streamHandleWindow) {
		return int(h.remaining)
	}
	return streamHandleWindow
}

func (h *streamHandle) Prepare() []byte {
	n := h.Capacity()
	if cap(h.in) < n {
		h.in = make([]byte, n)
	}
	return h.in[:n]
}

func (h *streamHandle) Commit(n int) {
	if n <= 0 {
		return
	}
	data := h.in[:n]

	if h.chunked {
		h.serializer.append([]byte(fmt.Sprintf("%x\r\n", n)))
		h.serializer.append(data)
		h.serializer.append([]byte("\r\n"))
	} else {
		h.serializer.append(data)
		h.remaining -= int64(n)
	}
}

func (h *streamHandle) Close() error {
	if h.serializer.closed {
		return nil
	}
	if h.chunked {
		h.serializer.append([]byte("0\r\n\r\n"))
	}
	h.serializer.closed = true
	return nil
}

func (h *streamHandle) IsOpen() bool {
	return !h.serializer.closed
}

func renderHead(res *Response) []byte {
	var b strings.Builder

	reason := res.Reason
	if reason == "" {
		reason = http.StatusText(res.StatusCode)
	}

	fmt.Fprintf(&b, "%s %d %s\r\n", protoOrDefault(res.Proto), res.StatusCode, reason)

	if res.Header.Get("Date") == "" {
		res.Header.Set("Date", HTTPDate())
	}
	if res.Header.Get("Server") == "" {
		res.Header.Set("Server", "htcore")
	}

	for k, vs := range res.Header {
		for _, v := range vs {
			fmt.Fprintf(&b, "%s: %s\r\n", k, v)
		}
	}
	b.WriteString("\r\n")

	return []byte(b.String())
}

func protoOrDefault(p string) string {
	if p == "" {
		return "HTTP/1.1"
	}
	return p
}
