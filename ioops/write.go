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

package ioops

import (
	"context"

	"github.com/sabouaram/htcore/message"
	"github.com/sabouaram/htcore/stream"
)

// WriteSome issues at most one underlying stream write, per spec.md
// §4.2: it calls sr.Prepare(); on error it returns immediately without
// touching the stream. Otherwise it writes whatever was prepared (which
// may be empty if the serializer has nothing ready this round but is not
// yet done — see message.Serializer) and consumes however many bytes the
// stream accepted, even if the write itself failed partway through.
func WriteSome(ctx context.Context, s stream.ByteStream, sr message.Serializer) (int, error) {
	buf, err := sr.Prepare()
	if err != nil {
		return 0, err
	}
	if len(buf) == 0 {
		return 0, nil
	}

	n, err := s.WriteSome(ctx, buf)
	sr.Consume(n)
	return n, err
}

// Write repeatedly invokes WriteSome until sr.IsDone() or an error
// occurs, returning the total bytes written.
func Write(ctx context.Context, s stream.ByteStream, sr message.Serializer) (int, error) {
	total := 0

	for !sr.IsDone() {
		n, err := WriteSome(ctx, s, sr)
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return total, ctxErr
			}
		}
	}

	return total, nil
}
