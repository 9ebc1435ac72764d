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

// Package stream defines ByteStream, the minimal asynchronous byte-stream
// abstraction the composed read/write operations (ioops), the body
// adapters (body), and the HTTP session (session) are all built against.
// Two concrete implementations are provided: a plain TCP variant and a
// TLS-layered variant, selected per listening endpoint.
package stream

import (
	"context"
	"io"
)

// ByteStream is a handle supporting cancellable, non-blocking-shaped
// read/write against an underlying connection. It deliberately mirrors
// net.Conn's Read/Write shape but threads a context through every call so
// composed operations can poll for cooperative cancellation at the
// parse/read (or serialize/write) boundary, per the session's single-
// reader/single-writer discipline.
//
// A goroutine-per-connection model (one goroutine runs one session to
// completion) stands in for the origin's multi-executor asio model: each
// ByteStream is only ever used by the single goroutine that owns its
// session, so there is no concurrent-call guarantee to enforce here.
type ByteStream interface {
	// ReadSome reads at least one byte into buf, or returns an error.
	// It returns (0, io.EOF) exactly at end of stream, and (0, ctx.Err())
	// if ctx is already done when it is called. Otherwise ctx's deadline,
	// if any, becomes the connection's read deadline, so a read still
	// waiting when it passes fails with the connection's timeout error;
	// cancelling ctx does not interrupt a read that is already waiting.
	ReadSome(ctx context.Context, buf []byte) (int, error)

	// WriteSome writes at least one byte from buf, or returns an error.
	// A short write (n < len(buf)) with a nil error is valid; composed
	// write operations loop until the buffer is drained.
	WriteSome(ctx context.Context, buf []byte) (int, error)

	// Close closes the underlying connection. Any ReadSome/WriteSome
	// blocked on it returns promptly with an error.
	Close() error

	// LocalAddr and RemoteAddr identify the two ends of the connection,
	// used for access logging and admin/SSL endpoint classification.
	LocalAddr() string
	RemoteAddr() string

	// IsTLS reports whether this stream is TLS-layered, mirroring the
	// origin's tagged plain/TLS stream variant (see DESIGN.md's Open
	// Question resolution: modeled here as a plain interface with two
	// concrete implementations rather than a closed sum type).
	IsTLS() bool
}

// Closer is satisfied by every ByteStream; exported so callers that only
// need teardown don't need the full interface.
type Closer interface {
	io.Closer
}
