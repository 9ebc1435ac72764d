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

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// codedErr is the concrete type behind every Error this package hands out:
// a numeric code, a message, zero or more parents, and the call frame that
// created it.
type codedErr struct {
	code    uint16
	msg     string
	parents []Error
	frame   runtime.Frame
}

// sameAs compares two codedErr values field group by field group (trace,
// then message, then code): the first group where at least one side is
// non-empty decides the result, an asymmetric empty meaning "not equal".
// Two errors with nothing set in any group (no trace, no message, code
// zero on both) are not considered equal.
func (e *codedErr) sameAs(other *codedErr) bool {
	if e == nil || other == nil {
		return false
	}

	if eq, decided := xorCompare(e.GetTrace(), other.GetTrace()); decided {
		return eq
	}

	if eq, decided := xorCompare(e.Error(), other.Error()); decided {
		return eq
	}

	cs, cd := e.Code(), other.Code()
	if cs > 0 || cd > 0 {
		return cs == cd
	}

	return false
}

// xorCompare reports (equal, decided) for a pair of strings: decided is
// true as soon as either side is non-empty — both non-empty compares by
// fold, exactly one non-empty is a mismatch. Decided is false only when
// both are empty, telling the caller to fall through to the next group.
func xorCompare(a, b string) (equal bool, decided bool) {
	ea, eb := a != "", b != ""
	switch {
	case ea && eb:
		return strings.EqualFold(a, b), true
	case ea || eb:
		return false, true
	default:
		return false, false
	}
}

func (e *codedErr) Is(err error) bool {
	if err == nil {
		return false
	}

	if other, ok := err.(*codedErr); ok {
		return e.sameAs(other)
	}
	return e.IsError(err)
}

func (e *codedErr) Add(parent ...error) {
	for _, v := range parent {
		if v == nil {
			continue
		}

		if other, ok := v.(*codedErr); ok {
			// prevent circular addition
			if e.IsError(other) {
				for _, gp := range other.parents {
					e.Add(gp)
				}
			} else {
				e.parents = append(e.parents, other)
			}
			continue
		}

		if wrapped, ok := v.(Error); ok {
			e.parents = append(e.parents, wrapped)
			continue
		}

		e.parents = append(e.parents, &codedErr{
			code: 0,
			msg:  v.Error(),
		})
	}
}

func (e *codedErr) IsCode(code CodeError) bool {
	return e.code == code.Uint16()
}

func (e *codedErr) IsError(err error) bool {
	return strings.EqualFold(e.msg, err.Error())
}

func (e *codedErr) HasCode(code CodeError) bool {
	if e.IsCode(code) {
		return true
	}

	for _, p := range e.parents {
		if p.HasCode(code) {
			return true
		}
	}

	return false
}

func (e *codedErr) GetCode() CodeError {
	return CodeError(e.code)
}

func (e *codedErr) GetParentCode() []CodeError {
	res := []CodeError{e.GetCode()}
	for _, p := range e.parents {
		res = append(res, p.GetParentCode()...)
	}

	return unicCodeSlice(res)
}

func (e *codedErr) HasError(err error) bool {
	if e.IsError(err) {
		return true
	}

	for _, p := range e.parents {
		if p.IsError(err) || p.HasError(err) {
			return true
		}
	}

	return false
}

func (e *codedErr) HasParent() bool {
	return len(e.parents) > 0
}

func (e *codedErr) GetParent(withMainError bool) []error {
	res := make([]error, 0, len(e.parents)+1)

	if withMainError {
		res = append(res, &codedErr{
			code:  e.code,
			msg:   e.msg,
			frame: e.frame,
		})
	}

	for _, p := range e.parents {
		res = append(res, p.GetParent(true)...)
	}

	return res
}

func (e *codedErr) SetParent(parent ...error) {
	e.parents = make([]Error, 0)
	e.Add(parent...)
}

func (e *codedErr) Map(fct FuncMap) bool {
	if !fct(e) {
		return false
	}

	for _, p := range e.parents {
		if !p.Map(fct) {
			return false
		}
	}

	return true
}

func (e *codedErr) ContainsString(s string) bool {
	if strings.Contains(e.msg, s) {
		return true
	}

	for _, p := range e.parents {
		if p.ContainsString(s) {
			return true
		}
	}

	return false
}

func (e *codedErr) Code() uint16 {
	return e.code
}

func (e *codedErr) CodeSlice() []uint16 {
	res := []uint16{e.Code()}

	for _, p := range e.parents {
		if c := p.Code(); c > 0 {
			res = append(res, c)
		}
	}

	return res
}

func (e *codedErr) Error() string {
	return modeError.error(e)
}

func (e *codedErr) StringError() string {
	return e.msg
}

func (e *codedErr) StringErrorSlice() []string {
	res := []string{e.StringError()}

	for _, p := range e.parents {
		res = append(res, p.Error())
	}

	return res
}

func (e *codedErr) GetError() error {
	//nolint goerr113
	return errors.New(e.msg)
}

func (e *codedErr) GetErrorSlice() []error {
	res := []error{e.GetError()}

	for _, p := range e.parents {
		if p == nil {
			continue
		}
		res = append(res, p.GetErrorSlice()...)
	}

	return res
}

func (e *codedErr) Unwrap() []error {
	if len(e.parents) < 1 {
		return nil
	}

	res := make([]error, 0, len(e.parents))
	for _, p := range e.parents {
		if p == nil {
			continue
		}
		res = append(res, p)
	}

	return res
}

func (e *codedErr) GetTrace() string {
	switch {
	case e.frame.File != "":
		return fmt.Sprintf("%s#%d", filterPath(e.frame.File), e.frame.Line)
	case e.frame.Function != "":
		return fmt.Sprintf("%s#%d", e.frame.Function, e.frame.Line)
	default:
		return ""
	}
}

func (e *codedErr) GetTraceSlice() []string {
	res := []string{e.GetTrace()}

	for _, p := range e.parents {
		if t := p.GetTrace(); t != "" {
			res = append(res, t)
		}
	}

	return res
}

func (e *codedErr) CodeError(pattern string) string {
	if pattern == "" {
		pattern = defaultPattern
	}
	return fmt.Sprintf(pattern, e.Code(), e.StringError())
}

func (e *codedErr) CodeErrorSlice(pattern string) []string {
	res := []string{e.CodeError(pattern)}

	for _, p := range e.parents {
		res = append(res, p.CodeError(pattern))
	}

	return res
}

func (e *codedErr) CodeErrorTrace(pattern string) string {
	if pattern == "" {
		pattern = defaultPatternTrace
	}

	return fmt.Sprintf(pattern, e.Code(), e.StringError(), e.GetTrace())
}

func (e *codedErr) CodeErrorTraceSlice(pattern string) []string {
	res := []string{e.CodeErrorTrace(pattern)}

	for _, p := range e.parents {
		res = append(res, p.CodeErrorTrace(pattern))
	}

	return res
}

func (e *codedErr) Return(r Return) {
	e.ReturnError(r.SetError)
	e.ReturnParent(r.AddParent)
}

func (e *codedErr) ReturnError(f ReturnError) {
	if e.frame.File != "" {
		f(int(e.code), e.msg, e.frame.File, e.frame.Line)
	} else {
		f(int(e.code), e.msg, e.frame.Function, e.frame.Line)
	}
}

func (e *codedErr) ReturnParent(f ReturnError) {
	for _, p := range e.parents {
		p.ReturnError(f)
		p.ReturnParent(f)
	}
}
