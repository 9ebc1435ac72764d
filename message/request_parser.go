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
	"bufio"
	"bytes"
	"net/http"
	"net/textproto"
	"strings"

	"golang.org/x/net/http/httpguts"
)

type requestParser struct {
	bodyState
	req *Request
}

// NewRequestParser returns a RequestParser ready to decode one request
// per Start call; Reset/Start it again to decode the next request on a
// keep-alive connection.
func NewRequestParser() RequestParser {
	p := &requestParser{}
	p.Start()
	return p
}

func (p *requestParser) Reset() {
	p.bodyState.reset()
	p.req = nil
}

func (p *requestParser) Start() {
	p.bodyState.reset()
	p.req = &Request{Length: -1}
}

func (p *requestParser) Get() *Request { return p.req }

func (p *requestParser) Parse() error {
	if p.complete {
		return nil
	}

	if !p.gotHeader {
		idx := p.headerEnd()
		if idx < 0 {
			if p.eof {
				return ErrorMalformedHeader.Error()
			}
			return ErrorNeedMoreInput.Error()
		}

		header := p.buf[p.pos : p.pos+idx]
		if err := p.parseStartAndHeader(header); err != nil {
			return err
		}

		p.pos += idx + 4
		p.gotHeader = true

		length, chunked, keep := applyFraming(headerValues(p.req.Header), p.req.Proto, true)
		p.req.Length, p.req.Chunked, p.req.Keep = length, chunked, keep
		p.bodyState.length, p.bodyState.chunked = length, chunked

		if length == 0 && !chunked {
			p.complete = true
			return nil
		}
	}

	if err := p.decodeBody(); err != nil {
		return err
	}

	if !p.complete {
		return ErrorNeedMoreInput.Error()
	}

	return nil
}

func (p *requestParser) parseStartAndHeader(raw []byte) error {
	tr := textproto.NewReader(bufio.NewReader(bytes.NewReader(raw)))

	line, err := tr.ReadLine()
	if err != nil {
		return ErrorMalformedStartLine.Error()
	}

	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return ErrorMalformedStartLine.Error()
	}

	p.req.Method, p.req.Target, p.req.Proto = parts[0], parts[1], parts[2]

	mh, err := tr.ReadMIMEHeader()
	if _, bad := err.(textproto.ProtocolError); bad || (err != nil && len(mh) == 0) {
		return ErrorMalformedHeader.Error()
	}

	for k, vs := range mh {
		if !httpguts.ValidHeaderFieldName(k) {
			return ErrorMalformedHeader.Error()
		}
		for _, v := range vs {
			if !httpguts.ValidHeaderFieldValue(v) {
				return ErrorMalformedHeader.Error()
			}
		}
	}

	p.req.Header = http.Header(mh)
	p.req.Host = p.req.Header.Get("Host")

	return nil
}

func headerValues(h http.Header) headerGetter {
	return headerAdapter{h}
}

type headerAdapter struct{ h http.Header }

func (a headerAdapter) Get(key string) string { return a.h.Get(key) }
