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

package jsonrpc

import (
	errcode "github.com/sabouaram/htcore/errors"
)

const (
	ErrorServerFault errcode.CodeError = iota + errcode.MinPkgJSONRPC
	ErrorMismatchedID
	ErrorMalformedResponse
)

func init() {
	errcode.RegisterIdFctMessage(ErrorServerFault, getMessage)
}

func getMessage(code errcode.CodeError) (message string) {
	switch code {
	case ErrorServerFault:
		return "jsonrpc server returned an error response"
	case ErrorMismatchedID:
		return "jsonrpc response id does not match the request id"
	case ErrorMalformedResponse:
		return "jsonrpc response is not valid JSON-RPC 2.0"
	}

	return ""
}
