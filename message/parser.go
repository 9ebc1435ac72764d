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

// Parser is the external contract the composed read operations (ioops)
// and the body read stream adapter (body) are built against, per
// spec.md §6.1. It is a state machine:
//
//	reset -> start -> needs_more | got_header | body_available | complete
//
// Between start and complete, Prepare returns a writable buffer region,
// Commit records bytes written into it, and Parse advances state.
type Parser interface {
	Reset()
	Start()

	// Parse advances the state machine. It returns ErrorNeedMoreInput
	// (checked with IsNeedMoreInput) when no further progress is
	// possible without more bytes from the stream; any other non-nil
	// error is fatal to the message.
	Parse() error

	// Prepare returns a writable region the caller should fill via the
	// underlying stream's ReadSome, then report back via Commit.
	Prepare() []byte
	Commit(n int)

	// CommitEOF signals stream end-of-file to the parser; a subsequent
	// Parse may yield either completion (if the framing allows a body
	// that ends at EOF) or a framing error.
	CommitEOF()

	GotHeader() bool
	IsComplete() bool

	// PullBody returns the currently buffered, not-yet-consumed body
	// bytes; ConsumeBody marks the first n of them as delivered.
	PullBody() []byte
	ConsumeBody(n int)
}

// RequestParser additionally exposes the decoded request once GotHeader
// is true.
type RequestParser interface {
	Parser
	Get() *Request
}

// ResponseParser additionally exposes the decoded response once
// GotHeader is true.
type ResponseParser interface {
	Parser
	Get() *Response
}
