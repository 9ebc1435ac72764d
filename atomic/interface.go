/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

// Package atomic wraps sync/atomic.Value and sync.Map behind typed,
// generic interfaces, with an empty-value-to-default substitution layer
// that plain sync/atomic doesn't offer: a Store of the zero value of T
// falls back to a configured default instead of overwriting whatever was
// there with nothing useful to read back.
package atomic

import (
	"sync/atomic"
)

// Value is a typed, concurrency-safe cell for one value of type T, with
// independently configurable fallbacks for an empty Load and an empty
// Store.
type Value[T any] interface {
	// SetDefaultLoad sets the value Load returns in place of the zero
	// value of T. Call before the first Load that should see it.
	SetDefaultLoad(def T)
	// SetDefaultStore sets the value substituted whenever Store,
	// Swap or CompareAndSwap is given the zero value of T.
	SetDefaultStore(def T)

	Load() (val T)
	Store(val T)
	Swap(new T) (old T)
	CompareAndSwap(old, new T) (swapped bool)
}

// Map is an any-valued concurrency-safe map keyed by K, backed by a
// sync.Map.
type Map[K comparable] interface {
	Load(key K) (value any, ok bool)
	Store(key K, value any)
	LoadOrStore(key K, value any) (actual any, loaded bool)
	LoadAndDelete(key K) (value any, loaded bool)
	Delete(key K)
	Swap(key K, value any) (previous any, loaded bool)
	CompareAndSwap(key K, old, new any) bool
	CompareAndDelete(key K, old any) (deleted bool)
	Range(f func(key K, value any) bool)
}

// MapTyped is Map with a statically typed value V instead of any,
// avoiding a cast at every call site.
type MapTyped[K comparable, V any] interface {
	Load(key K) (value V, ok bool)
	Store(key K, value V)
	LoadOrStore(key K, value V) (actual V, loaded bool)
	LoadAndDelete(key K) (value V, loaded bool)
	Delete(key K)
	Swap(key K, value V) (previous V, loaded bool)
	CompareAndSwap(key K, old, new V) bool
	CompareAndDelete(key K, old V) (deleted bool)
	Range(f func(key K, value V) bool)
}

// NewValue returns a Value[T] whose default load and store values are
// both the zero value of T.
func NewValue[T any]() Value[T] {
	var zero T
	return NewValueDefault[T](zero, zero)
}

// NewValueDefault returns a Value[T] with explicit default load/store
// values, set before first use.
func NewValueDefault[T any](load, store T) Value[T] {
	o := &val[T]{
		live:    new(atomic.Value),
		onLoad:  new(atomic.Value),
		onStore: new(atomic.Value),
	}
	o.SetDefaultLoad(load)
	o.SetDefaultStore(store)
	return o
}

// NewMapAny returns an empty Map keyed by K, backed by a sync.Map.
func NewMapAny[K comparable]() Map[K] {
	return &untypedMap[K]{}
}

// NewMapTyped returns an empty MapTyped keyed by K with values of V.
func NewMapTyped[K comparable, V any]() MapTyped[K, V] {
	return &typedMap[K, V]{m: NewMapAny[K]()}
}
