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
	"time"
)

// httpDateLayout is the IMF-fixdate format mandated by RFC 9110 §5.6.7,
// e.g. "Sat, 11 Oct 2025 02:12:34 GMT". Go's time package has no named
// constant for it: time.RFC1123 writes the zone abbreviation ("UTC" for
// a UTC time) instead of the literal "GMT" HTTP requires.
const httpDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// HTTPDate formats the current time per RFC 9110 §5.6.7 for use in a
// Date response header.
func HTTPDate() string {
	return time.Now().UTC().Format(httpDateLayout)
}

// ErrorBody renders a minimal HTML error body for code, using
// http.StatusText(code) when reason is empty. Session's own 400/404/500/503
// responses do not use it; they are sent with no body.
func ErrorBody(code int, reason string) []byte {
	if reason == "" {
		reason = http.StatusText(code)
	}
	return []byte(fmt.Sprintf(
		"<html><head><title>%d %s</title></head><body><h1>%d %s</h1></body></html>",
		code, reason, code, reason,
	))
}
