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

package status

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"
)

type registry struct {
	mu sync.RWMutex
	m  map[string]Component
}

func newRegistry() *registry {
	return &registry{m: make(map[string]Component)}
}

func (r *registry) ComponentNew(key string, c Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[key] = c
}

func (r *registry) ComponentDelete(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, key)
}

func (r *registry) Walk(fct func(key string, c Component)) {
	r.mu.RLock()
	keys := make([]string, 0, len(r.m))
	snap := make(map[string]Component, len(r.m))
	for k, c := range r.m {
		keys = append(keys, k)
		snap[k] = c
	}
	r.mu.RUnlock()

	sort.Strings(keys)

	for _, k := range keys {
		fct(k, snap[k])
	}
}

func (r *registry) Global(ctx context.Context) error {
	var result *multierror.Error

	r.Walk(func(key string, c Component) {
		if c == nil {
			return
		}
		if err := c.Health(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", key, err))
		}
	})

	if result == nil {
		return nil
	}

	return result.ErrorOrNil()
}
