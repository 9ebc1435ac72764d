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

package router

import "strings"

// matchResult is what a successful match against one candidate pattern
// produces: the path prefix it consumed and the named captures along
// the way.
type matchResult struct {
	consumed string
	captures map[string]string
}

// matchOne attempts pattern against path (the request target's path as
// received; no percent-decoding is applied, so escapes are compared
// literally), returning ok=false on a mismatch with no side effects.
func matchOne(p pattern, path string) (matchResult, bool) {
	rest := path
	captures := map[string]string{}

	for i := 0; i < len(p.segments); i++ {
		seg := p.segments[i]

		rest = strings.TrimPrefix(rest, "/")

		switch seg.kind {
		case segLiteral:
			if !strings.HasPrefix(rest, seg.literal) {
				return matchResult{}, false
			}
			after := rest[len(seg.literal):]
			if len(after) > 0 && after[0] != '/' {
				return matchResult{}, false
			}
			rest = after

		case segParam:
			end := strings.IndexByte(rest, '/')
			var tok string
			if end < 0 {
				tok = rest
				rest = ""
			} else {
				tok = rest[:end]
				rest = rest[end:]
			}
			if tok == "" && seg.modifier != '?' && seg.modifier != '*' {
				return matchResult{}, false
			}
			if tok != "" && seg.constraint != nil && !seg.constraint.MatchString(tok) {
				return matchResult{}, false
			}
			captures[seg.name] = tok

		case segWildcard:
			// a wildcard consumes the remainder of the path, including
			// further "/"-separated segments.
			tok := rest
			if tok == "" && seg.modifier != '?' && seg.modifier != '*' {
				return matchResult{}, false
			}
			captures[seg.name] = tok
			rest = ""
		}
	}

	if p.exact {
		if rest != "" && rest != "/" {
			return matchResult{}, false
		}
	}

	consumed := path
	if rest != "" {
		consumed = strings.TrimSuffix(path, rest)
	}

	return matchResult{consumed: consumed, captures: captures}, true
}

// matchAny tries every compiled candidate of a route (the expansion of
// its optional groups) in order, returning the first that matches.
func matchAny(candidates []pattern, path string) (matchResult, bool) {
	for _, p := range candidates {
		if m, ok := matchOne(p, path); ok {
			return m, true
		}
	}
	return matchResult{}, false
}
