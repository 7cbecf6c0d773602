// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

// InterceptWith arranges for fn to be called on every log entry, including
// entries below the stderr threshold. The returned function removes the
// interceptor. Interceptors run with the logger lock held and must not log.
func InterceptWith(fn func(Entry)) (cleanup func()) {
	logging.mu.Lock()
	defer logging.mu.Unlock()
	id := logging.mu.nextID
	logging.mu.nextID++
	logging.mu.interceptors[id] = fn
	return func() {
		logging.mu.Lock()
		defer logging.mu.Unlock()
		delete(logging.mu.interceptors, id)
	}
}
