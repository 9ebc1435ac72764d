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

package body

import (
	"context"

	"github.com/sabouaram/htcore/ioops"
	"github.com/sabouaram/htcore/message"
	"github.com/sabouaram/htcore/stream"
)

// WriteStream wraps (stream, serializer, handle) per spec.md §4.4.
type WriteStream struct {
	stream stream.ByteStream
	ser    message.Serializer
	handle message.StreamHandle

	savedErr error
}

// NewWriteStream returns a WriteStream over a serializer already started
// via StartStream, and the StreamHandle it returned.
func NewWriteStream(s stream.ByteStream, ser message.Serializer, h message.StreamHandle) *WriteStream {
	return &WriteStream{stream: s, ser: ser, handle: h}
}

// WriteSome implements spec.md §4.4's per-call semantics and deferred
// error rule: a transport error that occurs after bytes were already
// committed is suppressed on this call — the op completes (n, nil) — and
// surfaced on the next call to WriteSome or Close instead.
func (w *WriteStream) WriteSome(ctx context.Context, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	if w.savedErr != nil {
		err := w.savedErr
		w.savedErr = nil
		return 0, err
	}

	for {
		dst := w.handle.Prepare()
		n := copy(dst, buf)
		w.handle.Commit(n)

		_, err := ioops.WriteSome(ctx, w.stream, w.ser)
		if err != nil {
			if n != 0 {
				w.savedErr = err
				return n, nil
			}
			return 0, err
		}

		if n != 0 {
			return n, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
	}
}

// Close sets the stream handle to done and drains the serializer to
// completion. A saved error from a prior WriteSome preempts both.
func (w *WriteStream) Close(ctx context.Context) error {
	if w.savedErr != nil {
		err := w.savedErr
		w.savedErr = nil
		return err
	}

	if err := w.handle.Close(); err != nil {
		return err
	}

	_, err := ioops.Write(ctx, w.stream, w.ser)
	return err
}
