/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package errors

// Per-package error code ranges. Each package that registers codes via
// RegisterIdFctMessage reserves a 100-wide block so codes never collide
// across packages.
const (
	MinPkgCertificates = 100
	MinPkgConfig       = 200
	MinPkgCtxStore     = 300
	MinPkgLogger       = 400
	MinPkgSemaphore    = 500
	MinPkgStatus       = 600
	MinPkgStream       = 700
	MinPkgMessage      = 800
	MinPkgIOOps        = 900
	MinPkgBody         = 1000
	MinPkgRouter       = 1100
	MinPkgSession      = 1200
	MinPkgServer       = 1300
	MinPkgHTTPClient   = 1400
	MinPkgJSONRPC      = 1500
	MinPkgBurl         = 1600

	MinAvailable = 2000
)
