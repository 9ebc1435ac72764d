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
)

type plainStream struct {
	conn net.Conn
}

// NewPlain wraps a plain (non-TLS) net.Conn as a ByteStream.
func NewPlain(conn net.Conn) ByteStream {
	return &plainStream{conn: conn}
}

func (s *plainStream) ReadSome(ctx context.Context, buf []byte) (int, error) {
	return readWithDeadline(ctx, s.conn, buf)
}

func (s *plainStream) WriteSome(ctx context.Context, buf []byte) (int, error) {
	return writeWithDeadline(ctx, s.conn, buf)
}

func (s *plainStream) Close() error {
	return s.conn.Close()
}

func (s *plainStream) LocalAddr() string  { return s.conn.LocalAddr().String() }
func (s *plainStream) RemoteAddr() string { return s.conn.RemoteAddr().String() }
func (s *plainStream) IsTLS() bool        { return false }
