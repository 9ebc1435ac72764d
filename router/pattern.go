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

import (
	"regexp"
	"strings"
)

// segKind distinguishes the three segment shapes a pattern can contain.
type segKind uint8

const (
	segLiteral segKind = iota
	segParam           // ":name(constraint)?modifier"
	segWildcard        // "*name?modifier"
)

type segment struct {
	kind       segKind
	literal    string
	name       string
	constraint *regexp.Regexp
	modifier   byte // 0, '?', '*', '+'
}

// pattern is one compiled candidate produced by expanding a route
// string's optional groups; exact reports whether the pattern must
// consume the entire path (no further layers may continue matching
// a trailing remainder) versus acting as a prefix/middleware match.
type pattern struct {
	segments []segment
	exact    bool
	raw      string
}

// compilePattern parses route into one or more candidate patterns: a
// route with no `{...}` optional groups yields exactly one; each group
// doubles the candidate count (included vs. omitted), expanding
// combinatorially.
func compilePattern(route string) ([]pattern, error) {
	variants, err := expandOptionalGroups(route)
	if err != nil {
		return nil, err
	}

	out := make([]pattern, 0, len(variants))
	for _, v := range variants {
		segs, err := parseSegments(v)
		if err != nil {
			return nil, err
		}
		out = append(out, pattern{segments: segs, exact: true, raw: route})
	}
	return out, nil
}

// expandOptionalGroups walks route once, replacing each balanced `{...}`
// span with, in turn, its contents and the empty string, producing the
// cartesian product of every group's included/omitted state.
func expandOptionalGroups(route string) ([]string, error) {
	start := strings.IndexByte(route, '{')
	if start < 0 {
		return []string{route}, nil
	}

	depth := 1
	end := -1
	for i := start + 1; i < len(route); i++ {
		switch route[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end = i
			}
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		return nil, ErrorPatternSyntax.Error()
	}

	prefix := route[:start]
	inner := route[start+1 : end]
	suffix := route[end+1:]

	innerVariants, err := expandOptionalGroups(inner)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, iv := range innerVariants {
		withGroup, err := expandOptionalGroups(prefix + iv + suffix)
		if err != nil {
			return nil, err
		}
		out = append(out, withGroup...)
	}
	without, err := expandOptionalGroups(prefix + suffix)
	if err != nil {
		return nil, err
	}
	out = append(out, without...)

	return out, nil
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '_'
}

func isUnreserved(c byte) bool {
	return c != '/'
}

func parseSegments(route string) ([]segment, error) {
	var segs []segment

	s := route
	for len(s) > 0 {
		if s[0] != '/' {
			return nil, ErrorPatternSyntax.Error()
		}
		s = s[1:]
		if len(s) == 0 {
			break // trailing slash
		}

		end := strings.IndexByte(s, '/')
		var piece string
		if end < 0 {
			piece = s
			s = ""
		} else {
			piece = s[:end]
			s = s[end:]
		}

		seg, err := parseSegment(piece)
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}

	return segs, nil
}

func parseSegment(piece string) (segment, error) {
	if len(piece) == 0 {
		return segment{}, ErrorPatternSyntax.Error()
	}

	if piece[0] != ':' && piece[0] != '*' {
		for i := 0; i < len(piece); i++ {
			if !isUnreserved(piece[i]) {
				return segment{}, ErrorPatternSyntax.Error()
			}
		}
		return segment{kind: segLiteral, literal: piece}, nil
	}

	kind := segParam
	if piece[0] == '*' {
		kind = segWildcard
	}

	rest := piece[1:]
	if len(rest) == 0 || !isIdentStart(rest[0]) {
		return segment{}, ErrorPatternSyntax.Error()
	}

	i := 1
	for i < len(rest) && isIdentChar(rest[i]) {
		i++
	}
	name := rest[:i]
	rest = rest[i:]

	var constraint *regexp.Regexp
	if len(rest) > 0 && rest[0] == '(' {
		closeIdx := strings.IndexByte(rest, ')')
		if closeIdx < 0 {
			return segment{}, ErrorPatternSyntax.Error()
		}
		expr := rest[1:closeIdx]
		re, err := regexp.Compile("^(?:" + expr + ")$")
		if err != nil {
			return segment{}, ErrorPatternSyntax.Error()
		}
		constraint = re
		rest = rest[closeIdx+1:]
	}

	var modifier byte
	if len(rest) == 1 && (rest[0] == '?' || rest[0] == '*' || rest[0] == '+') {
		modifier = rest[0]
		rest = ""
	}

	if len(rest) != 0 {
		return segment{}, ErrorPatternSyntax.Error()
	}

	return segment{kind: kind, name: name, constraint: constraint, modifier: modifier}, nil
}
