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

// Package body implements the byte-stream adapters spec.md §4.3/§4.4
// describe: ReadStream exposes a message.Parser's body as a plain
// io.Reader-shaped ReadSome, and WriteStream exposes a
// message.StreamHandle's body input the same way for writes, including
// the deferred-error rule for transport failures that occur after bytes
// were already committed.
package body

import (
	"context"
	"io"

	"github.com/sabouaram/htcore/ioops"
	"github.com/sabouaram/htcore/message"
	"github.com/sabouaram/htcore/stream"
)

// ReadStream wraps (stream, parser) per spec.md §4.3. Parser ownership
// remains with the caller; closing or discarding a ReadStream never
// resets the parser underneath it.
type ReadStream struct {
	stream stream.ByteStream
	parser message.Parser
	limit  int64 // 0 means unlimited

	seen     int64
	exceeded bool
}

// NewReadStream returns a ReadStream over an already-started parser. With
// a non-zero limit, the ReadSome call whose bytes take the delivered total
// past limit still returns those bytes, and every later call returns
// ErrorBodyLimitExceeded.
func NewReadStream(s stream.ByteStream, p message.Parser, limit int64) *ReadStream {
	return &ReadStream{stream: s, parser: p, limit: limit}
}

// ReadSome implements spec.md §4.3's per-call semantics: drive reads
// until the header (and at least one body-parse attempt) completes, then
// deliver whatever body bytes are currently buffered.
func (r *ReadStream) ReadSome(ctx context.Context, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	if r.exceeded {
		return 0, ErrorBodyLimitExceeded.Error()
	}

	if !r.parser.GotHeader() {
		if _, err := ioops.ReadHeader(ctx, r.stream, r.parser); err != nil {
			return 0, err
		}
	}

	for {
		available := r.parser.PullBody()
		if len(available) == 0 {
			if r.parser.IsComplete() {
				return 0, io.EOF
			}
			if _, err := ioops.ReadSome(ctx, r.stream, r.parser); err != nil {
				return 0, err
			}
			continue
		}

		n := copy(buf, available)
		r.parser.ConsumeBody(n)
		r.seen += int64(n)

		if r.limit > 0 && r.seen > r.limit {
			r.exceeded = true
		}

		return n, nil
	}
}
