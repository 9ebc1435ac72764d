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

// Package httpclient is the simple GET client of SPEC_FULL §6: a thin
// convenience wrapper over ioops' composed read/write operations and
// message's request serializer/response parser, for a caller that just
// wants a response body without standing up a session or router. It is
// grounded on the same composed-operation contract the server side
// uses, not on net/http, so a single request/response codec serves both
// directions of this module.
package httpclient

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/sabouaram/htcore/ioops"
	"github.com/sabouaram/htcore/message"
	"github.com/sabouaram/htcore/stream"
)

// Client issues one request per call, opening a fresh connection each
// time; it does not pool or reuse connections (that is what burl's
// interactive mode and a real keep-alive-aware client would add on top).
type Client struct {
	// DialTimeout bounds how long dialing the target takes; zero means
	// no timeout beyond ctx's own deadline.
	DialTimeout time.Duration

	// TLSConfig is used for https:// targets; a nil value uses Go's
	// default client configuration (InsecureSkipVerify is never forced
	// on here).
	TLSConfig *tls.Config
}

// New returns a Client with reasonable defaults.
func New() *Client {
	return &Client{DialTimeout: 10 * time.Second}
}

// Get issues a GET request against target and returns the fully-buffered
// response. The connection is closed before Get returns.
func (c *Client) Get(ctx context.Context, target string) (*message.Response, error) {
	return c.Do(ctx, "GET", target, nil)
}

// Do issues a method request against target, writing body (if non-nil)
// as a fully-buffered request body, and returns the fully-buffered
// response.
func (c *Client) Do(ctx context.Context, method, target string, body []byte) (*message.Response, error) {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return nil, ErrorInvalidURL.Error(err)
	}

	bs, err := c.dial(ctx, u)
	if err != nil {
		return nil, err
	}
	defer bs.Close()

	req := &message.Request{
		Method: method,
		Target: requestTarget(u),
		Proto:  "HTTP/1.1",
		Header: defaultHeader(u),
		Host:   u.Host,
		Keep:   false,
		Length: int64(len(body)),
	}

	sr := message.NewRequestSerializer()
	if err := sr.Start(req, body); err != nil {
		return nil, err
	}
	if _, err := ioops.Write(ctx, bs, sr); err != nil {
		return nil, err
	}

	rp := message.NewResponseParser()
	if _, err := ioops.Read(ctx, bs, rp); err != nil {
		return nil, err
	}

	res := rp.Get()
	res.Body = append(res.Body, rp.PullBody()...)
	return res, nil
}

func (c *Client) dial(ctx context.Context, u *url.URL) (stream.ByteStream, error) {
	host := u.Host
	dialer := &net.Dialer{Timeout: c.DialTimeout}

	switch u.Scheme {
	case "http", "":
		if u.Port() == "" {
			host = net.JoinHostPort(u.Hostname(), "80")
		}
		conn, err := dialer.DialContext(ctx, "tcp", host)
		if err != nil {
			return nil, err
		}
		return stream.NewPlain(conn), nil

	case "https":
		if u.Port() == "" {
			host = net.JoinHostPort(u.Hostname(), "443")
		}
		conn, err := tls.DialWithDialer(dialer, "tcp", host, c.TLSConfig)
		if err != nil {
			return nil, err
		}
		return stream.NewTLS(conn), nil

	default:
		return nil, ErrorUnsupportedScheme.Error()
	}
}

func requestTarget(u *url.URL) string {
	if u.RawQuery == "" {
		if u.Path == "" {
			return "/"
		}
		return u.Path
	}
	return u.Path + "?" + u.RawQuery
}

func defaultHeader(u *url.URL) http.Header {
	h := make(http.Header)
	h.Set("Host", u.Host)
	h.Set("User-Agent", "htcore-httpclient/1.0")
	h.Set("Connection", "close")
	return h
}
