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

package atomic

import "sync/atomic"

// val backs Value[T]: three independent sync/atomic.Value cells, one for
// the live value and one each for the configured load/store fallbacks,
// so reconfiguring a fallback never races with a concurrent Load/Store
// of the live value.
type val[T any] struct {
	live  *atomic.Value
	onLoad  *atomic.Value
	onStore *atomic.Value
}

func (o *val[T]) SetDefaultLoad(def T) {
	o.onLoad.Store(newDefault[T](def))
}

func (o *val[T]) SetDefaultStore(def T) {
	o.onStore.Store(newDefault[T](def))
}

func (o *val[T]) fallback(cell *atomic.Value) T {
	d, ok := Cast[defaultValue[T]](cell.Load())
	if !ok {
		var zero T
		return zero
	}
	return d.GetDefault()
}

func (o *val[T]) Load() T {
	v, ok := Cast[T](o.live.Load())
	if !ok {
		return o.fallback(o.onLoad)
	}
	return v
}

func (o *val[T]) Store(in T) {
	if IsEmpty[T](in) {
		in = o.fallback(o.onStore)
	}
	o.live.Store(in)
}

func (o *val[T]) Swap(next T) T {
	if IsEmpty[T](next) {
		next = o.fallback(o.onStore)
	}
	prev, ok := Cast[T](o.live.Swap(next))
	if !ok {
		return o.fallback(o.onLoad)
	}
	return prev
}

func (o *val[T]) CompareAndSwap(old, next T) bool {
	if IsEmpty[T](old) {
		old = o.fallback(o.onStore)
	}
	if IsEmpty[T](next) {
		next = o.fallback(o.onStore)
	}
	return o.live.CompareAndSwap(old, next)
}
