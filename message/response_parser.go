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
	"strconv"
	"strings"
)

type responseParser struct {
	bodyState
	res *Response
}

// NewResponseParser returns a ResponseParser, used client-side (burl,
// httpclient, jsonrpc) to decode a server's response.
func NewResponseParser() ResponseParser {
	p := &responseParser{}
	p.Start()
	return p
}

func (p *responseParser) Reset() {
	p.bodyState.reset()
	p.res = nil
}

func (p *responseParser) Start() {
	p.bodyState.reset()
	p.res = &Response{Length: -1}
}

func (p *responseParser) Get() *Response { return p.res }

func (p *responseParser) Parse() error {
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
		if err := p.parseStatusAndHeader(header); err != nil {
			return err
		}

		p.pos += idx + 4
		p.gotHeader = true

		length, chunked, keep := applyFraming(headerValues(p.res.Header), p.res.Proto, false)
		if noBodyStatus(p.res.StatusCode) {
			length, chunked = 0, false
		}
		p.res.Length, p.res.Chunked, p.res.Keep = length, chunked, keep
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

// noBodyStatus reports statuses that per RFC 9110 never carry a body
// regardless of framing headers present.
func noBodyStatus(code int) bool {
	return code == 204 || code == 304 || (code >= 100 && code < 200)
}

func (p *responseParser) parseStatusAndHeader(raw []byte) error {
	tr := textproto.NewReader(bufio.NewReader(bytes.NewReader(raw)))

	line, err := tr.ReadLine()
	if err != nil {
		return ErrorMalformedStartLine.Error()
	}

	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 {
		return ErrorMalformedStartLine.Error()
	}

	code, err := strconv.Atoi(parts[1])
	if err != nil {
		return ErrorMalformedStartLine.Error()
	}

	p.res.Proto = parts[0]
	p.res.StatusCode = code
	if len(parts) == 3 {
		p.res.Reason = parts[2]
	}

	mh, err := tr.ReadMIMEHeader()
	if err != nil && len(mh) == 0 {
		return ErrorMalformedHeader.Error()
	}

	p.res.Header = http.Header(mh)

	return nil
}
