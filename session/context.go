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

package session

import (
	"context"

	"github.com/sabouaram/htcore/message"
	"github.com/sabouaram/htcore/stream"
)

type ioContextKey struct{}

type sessionContextKey struct{}

type ioHandles struct {
	stream stream.ByteStream
	parser message.RequestParser
}

// withIO attaches the session's stream and request parser to ctx so a
// route handler can read the request body (via body.ReadStream) or
// drive its own streaming response (via a fresh message.Serializer and
// body.WriteStream) without the router.Handler signature having to
// carry them explicitly.
func withIO(ctx context.Context, s stream.ByteStream, p message.RequestParser) context.Context {
	return context.WithValue(ctx, ioContextKey{}, ioHandles{stream: s, parser: p})
}

// StreamFrom returns the session's underlying byte stream, for a handler
// that wants to drive its own read or write operations directly (for
// example to stream a large response body and return router.Complete).
func StreamFrom(ctx context.Context) (stream.ByteStream, bool) {
	h, ok := ctx.Value(ioContextKey{}).(ioHandles)
	return h.stream, ok
}

// ParserFrom returns the session's request parser, so a handler can pull
// the request body through body.NewReadStream(stream, parser, limit),
// with stream taken from StreamFrom(ctx).
func ParserFrom(ctx context.Context) (message.RequestParser, bool) {
	h, ok := ctx.Value(ioContextKey{}).(ioHandles)
	return h.parser, ok
}

// withSession attaches the owning *Session to ctx so a handler that is
// about to return router.Detach can capture it and call Resume later,
// from whatever goroutine completes the asynchronous work.
func withSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// SessionFrom returns the Session driving the current request, letting a
// handler hold onto it across a Detach/Resume boundary.
func SessionFrom(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(*Session)
	return s, ok
}
