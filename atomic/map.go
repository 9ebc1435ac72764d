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

import "sync"

// untypedMap is Map backed directly by a sync.Map; a Range callback that
// pulls a key out whose stored value no longer casts to K (left behind
// by a concurrent writer using a different key type against the same
// map, a misuse this type can't prevent at compile time) drops that
// entry instead of calling back with a zero key.
type untypedMap[K comparable] struct {
	m sync.Map
}

func (o *untypedMap[K]) Load(key K) (value any, ok bool) {
	return o.m.Load(key)
}

func (o *untypedMap[K]) Store(key K, value any) {
	o.m.Store(key, value)
}

func (o *untypedMap[K]) LoadOrStore(key K, value any) (actual any, loaded bool) {
	return o.m.LoadOrStore(key, value)
}

func (o *untypedMap[K]) LoadAndDelete(key K) (value any, loaded bool) {
	return o.m.LoadAndDelete(key)
}

func (o *untypedMap[K]) Delete(key K) {
	o.m.Delete(key)
}

func (o *untypedMap[K]) Swap(key K, value any) (previous any, loaded bool) {
	return o.m.Swap(key, value)
}

func (o *untypedMap[K]) CompareAndSwap(key K, old, new any) bool {
	return o.m.CompareAndSwap(key, old, new)
}

func (o *untypedMap[K]) CompareAndDelete(key K, old any) (deleted bool) {
	return o.m.CompareAndDelete(key, old)
}

func (o *untypedMap[K]) Range(f func(key K, value any) bool) {
	o.m.Range(func(rawKey, value any) bool {
		k, ok := Cast[K](rawKey)
		if !ok {
			o.m.Delete(rawKey)
			return true
		}
		return f(k, value)
	})
}

// typedMap layers value-type assertions over an untyped Map so callers
// never see a raw any; a value whose stored type has drifted is treated
// as absent and removed, same as untypedMap.Range does for keys.
type typedMap[K comparable, V any] struct {
	m Map[K]
}

func (o *typedMap[K, V]) asTyped(raw any, ok bool) (V, bool) {
	if !ok {
		var zero V
		return zero, false
	}
	return Cast[V](raw)
}

func (o *typedMap[K, V]) Load(key K) (value V, ok bool) {
	return o.asTyped(o.m.Load(key))
}

func (o *typedMap[K, V]) Store(key K, value V) {
	o.m.Store(key, value)
}

func (o *typedMap[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	return o.asTyped(o.m.LoadOrStore(key, value))
}

func (o *typedMap[K, V]) LoadAndDelete(key K) (value V, loaded bool) {
	return o.asTyped(o.m.LoadAndDelete(key))
}

func (o *typedMap[K, V]) Delete(key K) {
	o.m.Delete(key)
}

func (o *typedMap[K, V]) Swap(key K, value V) (previous V, loaded bool) {
	return o.asTyped(o.m.Swap(key, value))
}

func (o *typedMap[K, V]) CompareAndSwap(key K, old, new V) bool {
	return o.m.CompareAndSwap(key, old, new)
}

func (o *typedMap[K, V]) CompareAndDelete(key K, old V) (deleted bool) {
	return o.m.CompareAndDelete(key, old)
}

func (o *typedMap[K, V]) Range(f func(key K, value V) bool) {
	o.m.Range(func(key K, rawValue any) bool {
		v, ok := Cast[V](rawValue)
		if !ok {
			o.m.Delete(key)
			return true
		}
		return f(key, v)
	})
}
