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

// Package message is the concrete HTTP/1 wire codec that plays the role
// of an external "Parser/Serializer contract": the composed read/write
// operations in ioops, and the body adapters in body, are written only
// against the Parser/Serializer interfaces here, never against this
// package's concrete types directly.
package message

import "net/http"

// Request is the decoded request-line plus headers a RequestParser
// exposes once GotHeader() is true.
type Request struct {
	Method  string
	Target  string
	Proto   string
	Header  http.Header
	Host    string
	Keep    bool  // keep-alive negotiated from Connection/Proto
	Length  int64 // Content-Length, or -1 if chunked/unknown
	Chunked bool

	// BasePath is the portion of Target's path already consumed by the
	// chain of mounted routers leading to the handler currently running
	// ("" at the top level). Path is what remains after BasePath. A
	// handler mounted at "/api" serving "/api/users" sees
	// BasePath="/api", Path="/users". The router sets both immediately
	// before invoking a handler or descending into a mounted sub-router;
	// they are only meaningful during that call.
	BasePath string
	Path     string
}

// Response is the status-line plus headers a ResponseSerializer (or, on
// the client side, a ResponseParser) carries. Body is the convenience
// path for a small, fully-buffered body: a caller driving a
// ResponseSerializer through Start passes it directly. A handler that
// needs to stream a large or chunked body builds its own serializer and
// StreamHandle instead (see session.StreamFrom) and leaves Body nil.
type Response struct {
	StatusCode int
	Reason     string
	Proto      string
	Header     http.Header
	Keep       bool
	Length     int64
	Chunked    bool
	Body       []byte
}

// NewResponse returns a Response with an initialized Header map and the
// fixed HTTP/1.1 proto, ready for a handler to set StatusCode/Header/body.
func NewResponse() *Response {
	return &Response{
		Proto:  "HTTP/1.1",
		Header: make(http.Header),
		Length: -1,
	}
}
