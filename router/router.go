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
	"context"
	"strings"

	errcode "github.com/sabouaram/htcore/errors"
	"github.com/sabouaram/htcore/message"
)

// Captures holds the named parameters a matched pattern extracted from
// a request path (the ":name"/"*name" segments of §6.2's pattern syntax).
type Captures map[string]string

// Handler is one entry in a layer. It receives the captures produced by
// its layer's match and returns a Result describing what the dispatcher
// should do next, or a non-nil error to enter error mode.
type Handler func(ctx context.Context, req *message.Request, res *message.Response, c Captures) (Result, error)

type entry struct {
	method  string // "" matches any method, "unknown acts as all"
	handler Handler

	// sub, when non-nil, makes this entry a mounted sub-router rather
	// than an ordinary handler: dispatch descends into sub instead of
	// calling handler. See Mount.
	sub *Router
}

// span is how many global dispatch positions this entry occupies: 1 for
// an ordinary handler, or the mounted sub-router's own total for a
// mount, so a parent router can treat an entire mounted router as a
// single sized unit when skipping layers and fast-forwarding on resume.
func (e entry) span() int {
	if e.sub != nil {
		return e.sub.handlerCount()
	}
	return 1
}

// layer is one registered path (plus its handlers), either middleware
// (isRoute==false, prefix match) or a route (isRoute==true, exact match).
type layer struct {
	candidates []pattern
	isRoute    bool
	entries    []entry
}

// handlerCount is how many global dispatch positions this layer
// occupies, used both to skip a non-matching layer and to fast-forward
// past already-executed layers on resume.
func (l layer) handlerCount() int {
	n := 0
	for _, e := range l.entries {
		n += e.span()
	}
	return n
}

// Router holds an ordered list of layers and dispatches requests
// against them, implementing a layered, resumable traversal. A Router
// may itself be mounted into another Router (see Mount), in which case
// it participates in the parent's traversal as a single entry sized by
// handlerCount.
type Router struct {
	layers []layer
}

// New returns an empty Router.
func New() *Router {
	return &Router{}
}

// handlerCount is the router's total span across all its layers: how
// many global dispatch positions it occupies once mounted into a parent.
func (r *Router) handlerCount() int {
	n := 0
	for _, l := range r.layers {
		n += l.handlerCount()
	}
	return n
}

// Use registers middleware: handlers that run for any method whose
// request path has the given prefix. Matching is non-exact (end==false),
// so the matched prefix is consumed into base_path and handlers see the
// remainder.
func (r *Router) Use(path string, handlers ...Handler) error {
	return r.add(path, false, "", handlers)
}

// Handle registers a route: handlers that run only when the request's
// full path exactly matches pattern (end==true) and the method matches
// (method=="" matches any method).
func (r *Router) Handle(method, path string, handlers ...Handler) error {
	return r.add(path, true, method, handlers)
}

// Mount registers sub as a single, prefix-matched entry at path: once
// path matches, sub's own layers run against the remainder, with
// req.BasePath/req.Path updated to reflect the prefix sub consumed. sub
// occupies exactly sub.handlerCount() positions in the parent's global
// dispatch numbering, so resume fast-forwards over (or into) it as one
// unit rather than flattening its layers into the parent's.
//
// A mounted sub-router that reaches the end of its own layers without a
// match (ErrorNoMatchingRoute) does not close the dispatch: the parent
// treats that outcome as Next and keeps walking its own later layers,
// the way an Express-style sub-router falls through to its siblings.
func (r *Router) Mount(path string, sub *Router) error {
	candidates, err := compilePattern(path)
	if err != nil {
		return err
	}
	for i := range candidates {
		candidates[i].exact = false
	}

	r.layers = append(r.layers, layer{
		candidates: candidates,
		isRoute:    false,
		entries:    []entry{{sub: sub}},
	})
	return nil
}

func (r *Router) add(path string, isRoute bool, method string, handlers []Handler) error {
	candidates, err := compilePattern(path)
	if err != nil {
		return err
	}
	for i := range candidates {
		candidates[i].exact = isRoute
	}

	entries := make([]entry, len(handlers))
	for i, h := range handlers {
		entries[i] = entry{method: method, handler: h}
	}

	r.layers = append(r.layers, layer{candidates: candidates, isRoute: isRoute, entries: entries})
	return nil
}

// dispatchState carries the traversal cursor across a Dispatch call and,
// if the handler at resumeAt detaches, across the later Resume call
// that continues it.
type dispatchState struct {
	resumeAt  int // 0 on a fresh dispatch; >0 while fast-forwarding to a resume point
	errorMode bool
	err       error
	path      string
	basePath  string // accumulated prefix consumed by ancestor mounts
}

// Dispatch walks the router's layers in declaration order against
// req's method and path, invoking matching handlers until one returns
// a terminal Result (Send, Complete, Close, Detach) or an unrecovered
// error reaches the end of the layers.
func (r *Router) Dispatch(ctx context.Context, req *message.Request, res *message.Response) (Result, *Detacher, error) {
	st := &dispatchState{path: requestPath(req)}
	return r.doDispatch(ctx, req, res, st)
}

func requestPath(req *message.Request) string {
	target := req.Target
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		target = target[:i]
	}
	return target
}

// joinBasePath appends a middleware layer's or mount's consumed prefix
// onto the accumulated base path of its ancestors.
func joinBasePath(base, consumed string) string {
	consumed = strings.TrimSuffix(consumed, "/")
	if consumed == "" {
		return base
	}
	return strings.TrimSuffix(base, "/") + consumed
}

// remainderPath returns what is left of path once consumed (the layer's
// matched prefix) has been stripped, always starting with "/".
func remainderPath(path, consumed string) string {
	rem := strings.TrimPrefix(path, consumed)
	if rem == "" {
		return "/"
	}
	if !strings.HasPrefix(rem, "/") {
		rem = "/" + rem
	}
	return rem
}

func (r *Router) doDispatch(ctx context.Context, req *message.Request, res *message.Response, st *dispatchState) (Result, *Detacher, error) {
	globalIdx := 0
	originalPath := st.path

	for li := range r.layers {
		l := r.layers[li]

		if st.errorMode && l.isRoute {
			globalIdx += l.handlerCount()
			continue
		}

		// Each layer matches against the path as seen at this router's
		// own level. A middleware layer's consumed prefix moves into
		// req.BasePath and its entries (a mount included) see the
		// remainder as req.Path; a route layer's entries see this
		// router's own base_path/path.
		m, ok := matchAny(l.candidates, originalPath)
		if !ok {
			globalIdx += l.handlerCount()
			continue
		}

		if l.isRoute {
			req.BasePath = st.basePath
			req.Path = originalPath
		} else {
			req.BasePath = joinBasePath(st.basePath, m.consumed)
			req.Path = remainderPath(originalPath, m.consumed)
		}

	entries:
		for ei := range l.entries {
			e := l.entries[ei]
			idx := globalIdx
			span := e.span()
			globalIdx += span

			if idx+span <= st.resumeAt {
				if e.sub == nil && idx+span == st.resumeAt && st.err != nil {
					// this is the handler that previously detached;
					// treat its outcome as though it had just returned
					// st.err, per the resume contract.
					st.errorMode = true
				}
				continue
			}
			st.resumeAt = 0

			if e.method == errorHandlerMethod {
				if !st.errorMode {
					continue
				}
			} else {
				if st.errorMode {
					continue
				}
				if e.method != "" && e.method != req.Method {
					continue
				}
			}

			if e.sub != nil {
				childBase := joinBasePath(st.basePath, m.consumed)
				childPath := remainderPath(originalPath, m.consumed)
				req.BasePath = childBase
				req.Path = childPath

				childSt := &dispatchState{basePath: childBase, path: childPath}
				result, detacher, err := e.sub.doDispatch(ctx, req, res, childSt)

				req.BasePath = st.basePath
				req.Path = originalPath

				if detacher != nil {
					return Detach, newSubDetacher(r, req, res, idx+span, st.basePath, detacher), nil
				}
				if err != nil && !errcode.IsCode(err, ErrorNoMatchingRoute) {
					st.errorMode = true
					st.err = err
					continue
				}
				if err == nil {
					switch result {
					case Next, NextRoute:
						// mounts are never isRoute, so NextRoute behaves
						// like Next: fall through to this router's next
						// layer.
						continue
					default: // Send, Complete, Close
						return result, nil, nil
					}
				}
				// ErrorNoMatchingRoute: none of sub's own routes matched
				// the remainder; keep walking this router's later layers.
				continue
			}

			result, err := e.handler(ctx, req, res, m.captures)
			if err != nil {
				st.errorMode = true
				st.err = err
				continue
			}

			switch result {
			case Next:
				continue
			case NextRoute:
				if !l.isRoute {
					// programming error; treat as Next rather than
					// panicking mid-traversal.
					continue
				}
				break entries
			case Detach:
				return Detach, newDetacher(r, req, res, idx+1, st.basePath), nil
			default: // Send, Complete, Close
				return result, nil, nil
			}
		}
	}

	if st.errorMode {
		return Close, nil, st.err
	}
	return Close, nil, ErrorNoMatchingRoute.Error()
}

// errorHandlerMethod is a sentinel entry.method value reserved for
// explicit error handlers, which run only while errorMode is active.
const errorHandlerMethod = "\x00error"

// HandleError registers an error handler: it only runs once a prior
// handler in this dispatch has returned a non-nil error, and may
// downgrade the error by returning Send/Complete/Close. Error handlers
// are registered non-exact (like middleware) since ordinary route
// layers are skipped outright once error mode is active and so could
// never host one.
func (r *Router) HandleError(path string, handlers ...Handler) error {
	return r.add(path, false, errorHandlerMethod, handlers)
}
