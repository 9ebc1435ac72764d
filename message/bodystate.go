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
	"bytes"
	"strconv"
	"strings"
)

const minPrepareSize = 4096

// bodyState is the incremental buffer/body-framing machinery shared by
// the request and response parsers: accumulating raw wire bytes via
// Prepare/Commit, locating the header terminator, and then decoding
// either a Content-Length-bounded body, a chunked body, or a
// read-until-EOF body into a separately buffered, pull-able byte slice.
type bodyState struct {
	buf []byte
	pos int // bytes before pos in buf are fully consumed (header + chunk framing)

	body []byte // decoded, buffered, not-yet-consumed-by-caller body bytes

	gotHeader bool
	complete  bool
	eof       bool

	length         int64 // Content-Length; -1 means chunked or read-until-EOF
	chunked        bool
	chunkRemaining int64 // -1 means "need to read a chunk-size line"

	totalAppended int64 // total bytes ever appended to body, across ConsumeBody calls
}

func (b *bodyState) reset() {
	b.buf = b.buf[:0]
	b.pos = 0
	b.body = b.body[:0]
	b.gotHeader = false
	b.complete = false
	b.eof = false
	b.length = -1
	b.chunked = false
	b.chunkRemaining = -1
	b.totalAppended = 0
}

func (b *bodyState) Prepare() []byte {
	b.compact()

	if cap(b.buf)-len(b.buf) < minPrepareSize {
		grown := make([]byte, len(b.buf), len(b.buf)+minPrepareSize)
		copy(grown, b.buf)
		b.buf = grown
	}

	return b.buf[len(b.buf):cap(b.buf)]
}

func (b *bodyState) Commit(n int) {
	b.buf = b.buf[:len(b.buf)+n]
}

func (b *bodyState) CommitEOF() {
	b.eof = true
}

func (b *bodyState) GotHeader() bool { return b.gotHeader }
func (b *bodyState) IsComplete() bool { return b.complete }

func (b *bodyState) PullBody() []byte { return b.body }

func (b *bodyState) ConsumeBody(n int) {
	if n <= 0 {
		return
	}
	if n > len(b.body) {
		n = len(b.body)
	}
	b.body = b.body[n:]
}

// compact drops fully-consumed leading bytes so buf does not grow
// without bound across a long-lived connection's many requests.
func (b *bodyState) compact() {
	if b.pos == 0 {
		return
	}
	n := copy(b.buf, b.buf[b.pos:])
	b.buf = b.buf[:n]
	b.pos = 0
}

// headerEnd reports the index of the \r\n\r\n terminator in the
// unconsumed portion of buf, or -1 if not yet present.
func (b *bodyState) headerEnd() int {
	return bytes.Index(b.buf[b.pos:], []byte("\r\n\r\n"))
}

// applyFraming derives length/chunked from already-parsed headers. When
// neither Transfer-Encoding nor Content-Length is present, requests have
// no body (RFC 9110 §8.6) while responses are read until the connection
// closes (RFC 9112 §6.3); noBodyDefault selects which rule applies.
func applyFraming(header headerGetter, proto string, noBodyDefault bool) (length int64, chunked bool, keep bool) {
	te := header.Get("Transfer-Encoding")
	if strings.EqualFold(te, "chunked") {
		chunked = true
		length = -1
	} else if cl := header.Get("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(strings.TrimSpace(cl), 10, 64); err == nil && n >= 0 {
			length = n
		} else {
			length = 0
		}
	} else if noBodyDefault {
		length = 0
	} else {
		length = -1
	}

	conn := header.Get("Connection")
	if strings.EqualFold(proto, "HTTP/1.1") {
		keep = !strings.EqualFold(conn, "close")
	} else {
		keep = strings.EqualFold(conn, "keep-alive")
	}

	return length, chunked, keep
}

type headerGetter interface {
	Get(key string) string
}

// decodeBody advances the body portion of the state machine once the
// header has been parsed and length/chunked are known. It never blocks;
// it consumes whatever is currently buffered, marks the message complete
// once the body is done, and returns a non-nil error only for a framing
// fault.
func (b *bodyState) decodeBody() error {
	if b.complete {
		return nil
	}

	if b.chunked {
		return b.decodeChunked()
	}

	return b.decodeLengthOrEOF()
}

func (b *bodyState) decodeLengthOrEOF() error {
	avail := b.buf[b.pos:]

	if b.length < 0 {
		// read-until-EOF body (no Content-Length, not chunked)
		b.body = append(b.body, avail...)
		b.totalAppended += int64(len(avail))
		b.pos += len(avail)
		if b.eof {
			b.complete = true
		}
		return nil
	}

	need := b.length - b.totalAppended
	take := int64(len(avail))
	if take > need {
		take = need
	}
	if take > 0 {
		b.body = append(b.body, avail[:take]...)
		b.totalAppended += take
		b.pos += int(take)
	}

	if b.totalAppended >= b.length {
		b.complete = true
	} else if b.eof {
		return ErrorFraming.Error()
	}

	return nil
}

func (b *bodyState) decodeChunked() error {
	for {
		if b.chunkRemaining == 0 {
			// the zero-length last chunk was already read; only the
			// trailer section remains
			return b.decodeTrailer()
		}

		if b.chunkRemaining < 0 {
			idx := bytes.Index(b.buf[b.pos:], []byte("\r\n"))
			if idx < 0 {
				if b.eof {
					return ErrorFraming.Error()
				}
				return nil
			}

			line := b.buf[b.pos : b.pos+idx]
			if si := bytes.IndexByte(line, ';'); si >= 0 {
				line = line[:si]
			}

			n, err := strconv.ParseInt(strings.TrimSpace(string(line)), 16, 64)
			if err != nil || n < 0 {
				return ErrorFraming.Error()
			}

			b.pos += idx + 2
			b.chunkRemaining = n

			if n == 0 {
				return b.decodeTrailer()
			}
		}

		avail := b.buf[b.pos:]
		if int64(len(avail)) < b.chunkRemaining+2 {
			if b.eof {
				return ErrorFraming.Error()
			}
			return nil
		}

		b.body = append(b.body, avail[:b.chunkRemaining]...)
		b.totalAppended += b.chunkRemaining
		b.pos += int(b.chunkRemaining) + 2
		b.chunkRemaining = -1
	}
}

// decodeTrailer skips an (ignored) trailer section following the final
// zero-length chunk, ending the message once the blank line is seen.
func (b *bodyState) decodeTrailer() error {
	rest := b.buf[b.pos:]

	if bytes.HasPrefix(rest, []byte("\r\n")) {
		b.pos += 2
		b.complete = true
		return nil
	}

	idx := bytes.Index(rest, []byte("\r\n\r\n"))
	if idx < 0 {
		if b.eof {
			return ErrorFraming.Error()
		}
		return nil
	}

	b.pos += idx + 4
	b.complete = true
	return nil
}
