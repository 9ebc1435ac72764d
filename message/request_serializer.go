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

package message

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// RequestSerializer serializes a Request, used client-side by httpclient,
// jsonrpc and burl to write an outgoing request.
type RequestSerializer interface {
	Serializer
	Start(req *Request, body []byte) error
}

type requestSerializer struct {
	wire []byte
	pos  int
}

func NewRequestSerializer() RequestSerializer {
	return &requestSerializer{}
}

func (s *requestSerializer) Reset() {
	*s = requestSerializer{}
}

func (s *requestSerializer) Start(req *Request, body []byte) error {
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	if req.Proto == "" {
		req.Proto = "HTTP/1.1"
	}

	req.Length = int64(len(body))
	req.Chunked = false
	req.Header.Set("Content-Length", strconv.Itoa(len(body)))
	if req.Host != "" && req.Header.Get("Host") == "" {
		req.Header.Set("Host", req.Host)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\r\n", req.Method, req.Target, req.Proto)
	for k, vs := range req.Header {
		for _, v := range vs {
			fmt.Fprintf(&b, "%s: %s\r\n", k, v)
		}
	}
	b.WriteString("\r\n")

	s.wire = append(s.wire, []byte(b.String())...)
	s.wire = append(s.wire, body...)

	return nil
}

func (s *requestSerializer) Prepare() ([]byte, error) {
	if s.pos >= len(s.wire) {
		return nil, nil
	}
	return s.wire[s.pos:], nil
}

func (s *requestSerializer) Consume(n int) {
	if n <= 0 {
		return
	}
	if s.pos+n > len(s.wire) {
		n = len(s.wire) - s.pos
	}
	s.pos += n
}

func (s *requestSerializer) IsDone() bool {
	return s.pos >= len(s.wire)
}
