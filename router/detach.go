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
	"sync"

	errcode "github.com/sabouaram/htcore/errors"
	"github.com/sabouaram/htcore/message"
)

// Detacher is returned to a session when a handler returns Detach. It
// captures the traversal position so a later call to Resume continues
// do_dispatch from the handler immediately following the one that
// detached. A Detacher may be resumed exactly once; resuming it again
// is a programming error (mirroring the origin's detacher::owner, which
// asserts on reuse in debug builds and is undefined behavior in
// release).
//
// When a handler inside a mounted sub-router detaches, the Detacher
// returned to the parent's caller wraps the child's own Detacher in
// child: resuming it first resumes the child, and only once the
// child's own dispatch settles (without detaching again) does the
// parent router continue past the mount.
type Detacher struct {
	router   *Router
	req      *message.Request
	res      *message.Response
	resumeAt int
	basePath string

	child *Detacher

	mu      sync.Mutex
	resumed bool
}

func newDetacher(r *Router, req *message.Request, res *message.Response, resumeAt int, basePath string) *Detacher {
	return &Detacher{router: r, req: req, res: res, resumeAt: resumeAt, basePath: basePath}
}

// newSubDetacher wraps child (a Detacher belonging to a mounted
// sub-router) so resuming it resumes child first; resumeAt is where r's
// own traversal continues, just past the whole mounted entry, once
// child finally settles.
func newSubDetacher(r *Router, req *message.Request, res *message.Response, resumeAt int, basePath string, child *Detacher) *Detacher {
	return &Detacher{router: r, req: req, res: res, resumeAt: resumeAt, basePath: basePath, child: child}
}

// Resume continues the dispatch that previously detached. ec, if
// non-nil, is treated as though the detached handler had itself
// returned that error, switching the resumed traversal into error
// mode; ec == nil continues as though the handler had returned Next.
func (d *Detacher) Resume(ctx context.Context, ec error) (Result, *Detacher, error) {
	d.mu.Lock()
	if d.resumed {
		d.mu.Unlock()
		return Close, nil, ErrorNotDetached.Error()
	}
	d.resumed = true
	d.mu.Unlock()

	if d.child != nil {
		result, childDetacher, err := d.child.Resume(ctx, ec)
		if childDetacher != nil {
			return Detach, newSubDetacher(d.router, d.req, d.res, d.resumeAt, d.basePath, childDetacher), nil
		}

		var resumeErr error
		if err != nil && !errcode.IsCode(err, ErrorNoMatchingRoute) {
			resumeErr = err
		} else if err == nil && result != Next && result != NextRoute {
			return result, nil, nil
		}

		st := &dispatchState{resumeAt: d.resumeAt, basePath: d.basePath, path: remainderPath(requestPath(d.req), d.basePath), err: resumeErr}
		return d.router.doDispatch(ctx, d.req, d.res, st)
	}

	st := &dispatchState{
		resumeAt: d.resumeAt,
		basePath: d.basePath,
		path:     remainderPath(requestPath(d.req), d.basePath),
		err:      ec,
	}
	return d.router.doDispatch(ctx, d.req, d.res, st)
}
