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
	"context"
	"log"
	"sync"

	"github.com/sirupsen/logrus"
)

type lgr struct {
	mu  sync.RWMutex
	ctx context.Context
	lr  *logrus.Logger
	lvl Level
	fld *fieldStore
}

func newLogrusLogger(ctx context.Context) *lgr {
	lr := logrus.New()
	lr.SetLevel(InfoLevel.logrus())
	lr.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return &lgr{
		ctx: ctx,
		lr:  lr,
		lvl: InfoLevel,
		fld: newFieldStore(),
	}
}

func (l *lgr) Write(p []byte) (int, error) {
	l.lr.Out.Write(p)
	return len(p), nil
}

func (l *lgr) Close() error {
	return nil
}

func (l *lgr) SetLevel(lvl Level) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lvl = lvl
	l.lr.SetLevel(lvl.logrus())
}

func (l *lgr) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.lvl
}

func (l *lgr) SetFields(f Fields) {
	l.fld.Set(f)
}

func (l *lgr) GetFields() Fields {
	return l.fld.Get()
}

func (l *lgr) Clone() Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := newLogrusLogger(l.ctx)
	n.lvl = l.lvl
	n.lr.SetLevel(l.lvl.logrus())
	n.fld.Set(l.fld.Get())
	return n
}

func (l *lgr) entry() *logrus.Entry {
	return l.lr.WithFields(l.fld.Get().logrus())
}

func (l *lgr) Debug(msg string, args ...interface{}) {
	if l.GetLevel() == NilLevel {
		return
	}
	l.entry().Debugf(msg, args...)
}

func (l *lgr) Info(msg string, args ...interface{}) {
	if l.GetLevel() == NilLevel {
		return
	}
	l.entry().Infof(msg, args...)
}

func (l *lgr) Warning(msg string, args ...interface{}) {
	if l.GetLevel() == NilLevel {
		return
	}
	l.entry().Warnf(msg, args...)
}

func (l *lgr) Error(msg string, args ...interface{}) {
	if l.GetLevel() == NilLevel {
		return
	}
	l.entry().Errorf(msg, args...)
}

func (l *lgr) Fatal(msg string, args ...interface{}) {
	l.entry().Fatalf(msg, args...)
}

func (l *lgr) Panic(msg string, args ...interface{}) {
	l.entry().Panicf(msg, args...)
}

func (l *lgr) Entry(lvl Level, msg string, args ...interface{}) Entry {
	e := newEntry(lvl, msg, l.fld.Get())

	switch lvl {
	case DebugLevel:
		l.Debug(msg, args...)
	case InfoLevel:
		l.Info(msg, args...)
	case WarnLevel:
		l.Warning(msg, args...)
	case ErrorLevel:
		l.Error(msg, args...)
	case FatalLevel:
		l.Fatal(msg, args...)
	case PanicLevel:
		l.Panic(msg, args...)
	}

	return e
}

func (l *lgr) CheckError(lvl Level, msg string, err error) error {
	if err == nil {
		return nil
	}
	l.Entry(lvl, msg+": %s", err)
	return err
}

func (l *lgr) Access(a AccessEntry) {
	l.lr.WithFields(l.fld.Get().Merge(a.Fields()).logrus()).Info("access")
}

func (l *lgr) GetStdLogger() StdLogger {
	return log.New(l.lr.Writer(), "", 0)
}
