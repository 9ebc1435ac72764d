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

// Package router compiles URL patterns and dispatches requests against
// them in declaration order, including cooperative detach/resume
// suspension and sub-router composition via Mount.
package router

// Result is the control action a Handler returns, a "route-dispatch
// result" enum. It is a genuine Go sum type (this module's own Open
// Question resolution, see DESIGN.md) rather than an error-code-shaped
// value, since Go has no error_code/custom-category mechanism to
// overload the way the origin does.
type Result uint8

const (
	// Next means the handler declined; the caller tries the next entry
	// in the current layer, then the next matching layer.
	Next Result = iota
	// NextRoute means skip the remaining entries in this layer and
	// resume evaluation at the next matching layer.
	NextRoute
	// Send means the handler produced a response; the caller transmits
	// it then proceeds to the next request (or closes).
	Send
	// Complete means the handler fully transmitted its own response;
	// no further handlers run and nothing more is sent on its behalf.
	Complete
	// Detach means the handler took ownership of the session; the
	// caller performs no further I/O on it.
	Detach
	// Close means the handler requests the connection be closed once
	// any in-flight response finishes.
	Close
)

func (r Result) String() string {
	switch r {
	case Next:
		return "next"
	case NextRoute:
		return "next_route"
	case Send:
		return "send"
	case Complete:
		return "complete"
	case Detach:
		return "detach"
	case Close:
		return "close"
	default:
		return "unknown"
	}
}
