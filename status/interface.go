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

// Package status is the health/status reporting registry shared by the
// listening-port worker pool and the server scaffold: a part of the
// server that implements Component (the listening Pool does) is
// registered as a named Component, and the registry renders the aggregate
// state as a single JSON status page.
package status

import "context"

// FctMessage formats a human-readable message for a component given its
// current error state (nil meaning healthy).
type FctMessage func(name string, err error) string

// Component is anything that can report its own name, version info, and
// current health.
type Component interface {
	Name() string
	Release() (version string, hash string)
	Health(ctx context.Context) error
}

// RouteStatus is the registry every component reports into. Implementations
// must be safe for concurrent ComponentNew/ComponentDelete/Handler calls.
type RouteStatus interface {
	// ComponentNew registers (or replaces) a component under key.
	ComponentNew(key string, c Component)

	// ComponentDelete removes a previously registered component.
	ComponentDelete(key string)

	// Walk calls fct for every registered component, keyed by its
	// registration key.
	Walk(fct func(key string, c Component))

	// Global reports the aggregate health: nil if every component is
	// healthy, otherwise an aggregate error naming the failing parts.
	Global(ctx context.Context) error
}

func New() RouteStatus {
	return newRegistry()
}
