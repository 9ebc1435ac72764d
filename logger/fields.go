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

package logger

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Fields is a set of structured key/value pairs attached to every entry
// emitted by a Logger until replaced with SetFields.
type Fields map[string]interface{}

func (f Fields) Clone() Fields {
	n := make(Fields, len(f))
	for k, v := range f {
		n[k] = v
	}
	return n
}

func (f Fields) Merge(o Fields) Fields {
	n := f.Clone()
	for k, v := range o {
		n[k] = v
	}
	return n
}

func (f Fields) logrus() logrus.Fields {
	n := make(logrus.Fields, len(f))
	for k, v := range f {
		n[k] = v
	}
	return n
}

type fieldStore struct {
	mu sync.RWMutex
	f  Fields
}

func newFieldStore() *fieldStore {
	return &fieldStore{f: make(Fields)}
}

func (s *fieldStore) Get() Fields {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.f.Clone()
}

func (s *fieldStore) Set(f Fields) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.f = f.Clone()
}
