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
	errcode "github.com/sabouaram/htcore/errors"
)

// Error taxonomy exposed by the Parser/Serializer contract (spec.md §6.1):
// need-more-input is non-fatal underflow recovered by reading more (§7);
// the rest are fatal framing/size/transport-shaped failures.
const (
	ErrorNeedMoreInput errcode.CodeError = iota + errcode.MinPkgMessage
	ErrorBodyTooLarge
	ErrorFraming
	ErrorMalformedHeader
	ErrorMalformedStartLine
)

func init() {
	errcode.RegisterIdFctMessage(ErrorNeedMoreInput, getMessage)
}

func getMessage(code errcode.CodeError) (message string) {
	switch code {
	case ErrorNeedMoreInput:
		return "parser needs more input bytes to make progress"
	case ErrorBodyTooLarge:
		return "message body exceeds the configured size limit"
	case ErrorFraming:
		return "message framing is invalid (conflicting or malformed length headers)"
	case ErrorMalformedHeader:
		return "malformed header field"
	case ErrorMalformedStartLine:
		return "malformed request-line or status-line"
	}

	return ""
}

// IsNeedMoreInput reports whether err itself carries the non-fatal
// need-more-input code a caller should recover from by reading more;
// parent errors are not inspected.
func IsNeedMoreInput(err error) bool {
	ce, ok := err.(errcode.Error)
	return ok && ce.IsCode(ErrorNeedMoreInput)
}
