// File: workers/dispatcher.go
package workers

import (
	"sync"
)

// SenderDispatcher runs background work with single-flight-per-sender
// semantics: tasks queued under the same key execute one at a time in
// enqueue order, while tasks for different keys run fully in parallel.
// There is no global lock across senders; the dispatcher mutex only guards
// the queue map.
type SenderDispatcher struct {
	mu     sync.Mutex
	queues map[string]*senderQueue
}

type senderQueue struct {
	tasks   []func()
	running bool
}

func NewSenderDispatcher() *SenderDispatcher {
	return &SenderDispatcher{queues: make(map[string]*senderQueue)}
}

// Dispatch enqueues task under key and returns immediately. A draining
// goroutine is started for the key if one is not already running.
func (d *SenderDispatcher) Dispatch(key string, task func()) {
	d.mu.Lock()
	q, ok := d.queues[key]
	if !ok {
		q = &senderQueue{}
		d.queues[key] = q
	}
	q.tasks = append(q.tasks, task)
	if !q.running {
		q.running = true
		go d.drain(key, q)
	}
	d.mu.Unlock()
}

func (d *SenderDispatcher) drain(key string, q *senderQueue) {
	for {
		d.mu.Lock()
		if len(q.tasks) == 0 {
			q.running = false
			delete(d.queues, key)
			d.mu.Unlock()
			return
		}
		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		d.mu.Unlock()

		task()
	}
}
