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

package stream

import (
	"context"
	"net"
	"time"
)

// deadlined is satisfied by net.Conn and tls.Conn.
type deadlined interface {
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

func applyDeadline(d deadlined, ctx context.Context, read bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var deadline time.Time
	if dl, ok := ctx.Deadline(); ok {
		deadline = dl
	}

	if read {
		return d.SetReadDeadline(deadline)
	}
	return d.SetWriteDeadline(deadline)
}

func readWithDeadline(ctx context.Context, conn net.Conn, buf []byte) (int, error) {
	if err := applyDeadline(conn, ctx, true); err != nil {
		return 0, err
	}
	return conn.Read(buf)
}

func writeWithDeadline(ctx context.Context, conn net.Conn, buf []byte) (int, error) {
	if err := applyDeadline(conn, ctx, false); err != nil {
		return 0, err
	}
	return conn.Write(buf)
}
