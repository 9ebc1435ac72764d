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
	"crypto/tls"
	"errors"
	"io"
	"net"
)

type tlsStream struct {
	conn *tls.Conn
}

// NewTLS wraps a *tls.Conn as a ByteStream. The handshake is not performed
// here; call Handshake (or let the first ReadSome/WriteSome trigger the
// lazy handshake tls.Conn already performs) before use.
func NewTLS(conn *tls.Conn) ByteStream {
	return &tlsStream{conn: conn}
}

func (s *tlsStream) ReadSome(ctx context.Context, buf []byte) (int, error) {
	n, err := readWithDeadline(ctx, s.conn, buf)
	return n, downgradeTruncated(err)
}

func (s *tlsStream) WriteSome(ctx context.Context, buf []byte) (int, error) {
	n, err := writeWithDeadline(ctx, s.conn, buf)
	return n, downgradeTruncated(err)
}

func (s *tlsStream) Close() error {
	return s.conn.Close()
}

func (s *tlsStream) LocalAddr() string  { return s.conn.LocalAddr().String() }
func (s *tlsStream) RemoteAddr() string { return s.conn.RemoteAddr().String() }
func (s *tlsStream) IsTLS() bool        { return true }

// downgradeTruncated turns a peer closing the TLS record layer without a
// close_notify alert into a plain io.EOF, matching the origin's treatment
// of stream_truncated-at-shutdown as EOF-equivalent (spec §7).
func downgradeTruncated(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return io.EOF
	}

	var netErr *net.OpError
	if errors.As(err, &netErr) && netErr.Err != nil && netErr.Err.Error() == "use of closed network connection" {
		return io.EOF
	}

	return err
}
