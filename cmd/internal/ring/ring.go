// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ring implements a fixed size log of recent values.
package ring

// Log holds the most recent values pushed to it, discarding the oldest
// when full.
type Log[T any] struct {
	data []T
	next int
	full bool
}

func NewLog[T any](n int) *Log[T] {
	return &Log[T]{data: make([]T, n)}
}

// Len returns the number of values held.
func (l *Log[T]) Len() int {
	if l.full {
		return len(l.data)
	}
	return l.next
}

// Push adds v, overwriting the oldest value if the log is full.
func (l *Log[T]) Push(v T) {
	if len(l.data) == 0 {
		return
	}
	l.data[l.next] = v
	l.next++
	if l.next == len(l.data) {
		l.next = 0
		l.full = true
	}
}

// Items returns the held values, newest first.
func (l *Log[T]) Items() []T {
	n := l.Len()
	items := make([]T, n)
	for i := range items {
		j := l.next - 1 - i
		if j < 0 {
			j += len(l.data)
		}
		items[i] = l.data[j]
	}
	return items
}
