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

// Package ioops is the composed read/write operations that drive a
// message.Parser or message.Serializer to a completion condition against
// a stream.ByteStream. Each exported function runs to completion on the
// calling goroutine (the goroutine-per-connection translation of the
// origin's asio composed operations) rather than returning an
// intermediate "would block" state.
package ioops

import (
	"context"
	"io"

	"github.com/sabouaram/htcore/message"
	"github.com/sabouaram/htcore/stream"
)

// condition is the completion predicate a read loop drives the parser
// toward: got_header for ReadHeader/ReadSome, is_complete for Read.
type condition func(message.Parser) bool

func gotHeader(p message.Parser) bool { return p.GotHeader() }
func isComplete(p message.Parser) bool { return p.IsComplete() }

// ReadHeader reads from s into p until p.GotHeader() is true or a fatal
// error occurs. It first lets p parse what it already buffers: if that
// completes the whole message, it returns 0 without reading. Otherwise
// it issues at least one read against s before returning — even a p that
// already has its header parsed and only lacks body bytes costs one read
// call here (see DESIGN.md's Open Question decisions).
func ReadHeader(ctx context.Context, s stream.ByteStream, p message.Parser) (int, error) {
	return readUntil(ctx, s, p, gotHeader)
}

// ReadSome reads from s into p until p.GotHeader() is true or a fatal
// error occurs — the same completion predicate as ReadHeader today,
// kept as a distinct entry point for callers that mean "make some
// progress, ideally past the header" rather than "block until the
// header is in hand".
func ReadSome(ctx context.Context, s stream.ByteStream, p message.Parser) (int, error) {
	return readUntil(ctx, s, p, gotHeader)
}

// Read reads from s into p until p.IsComplete() (the full message,
// including body, has been parsed) or a fatal error occurs.
func Read(ctx context.Context, s stream.ByteStream, p message.Parser) (int, error) {
	return readUntil(ctx, s, p, isComplete)
}

func readUntil(ctx context.Context, s stream.ByteStream, p message.Parser, cond condition) (int, error) {
	total := 0

	for {
		for {
			err := p.Parse()
			if err == nil {
				return total, nil
			}

			if message.IsNeedMoreInput(err) {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return total, ctxErr
				}
				if total != 0 && cond(p) {
					return total, nil
				}
				break
			}

			return total, err
		}

		n, err := s.ReadSome(ctx, p.Prepare())
		if err != nil {
			if err == io.EOF && n == 0 {
				p.CommitEOF()
				continue
			}
			return total, err
		}

		p.Commit(n)
		total += n
	}
}
