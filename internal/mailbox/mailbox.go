// Package mailbox implements the unbounded, multi-producer/single-consumer
// FIFO queues used to pass instructions between the UI event loop and the
// background worker.
//
// A queue has any number of Sender handles and exactly one Receiver. Sending
// never blocks. Receiving never blocks either: TryRecv reports ErrEmpty when
// nothing is queued and ErrDisconnected once every Sender has been closed and
// the queue has been drained.
package mailbox

import (
	"errors"
	"sync"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

var (
	// ErrEmpty is returned by TryRecv when no message is currently queued.
	ErrEmpty = errors.New("mailbox: empty")
	// ErrDisconnected is returned by TryRecv once all senders are gone, and by
	// Send once the receiver is gone.
	ErrDisconnected = errors.New("mailbox: disconnected")
)

type queue[T any] struct {
	mu             sync.Mutex
	items          *linkedlistqueue.Queue
	senders        int
	receiverClosed bool
}

// Sender is one producer handle. Clone it for every additional producer and
// Close each handle when its owner is done with it.
type Sender[T any] struct {
	q      *queue[T]
	closed bool // guarded by q.mu
}

// Receiver is the single consumer handle of a queue.
type Receiver[T any] struct {
	q *queue[T]
}

// New creates a queue and returns its first sender and its receiver.
func New[T any]() (*Sender[T], *Receiver[T]) {
	q := &queue[T]{items: linkedlistqueue.New(), senders: 1}
	return &Sender[T]{q: q}, &Receiver[T]{q: q}
}

// Send enqueues msg. It fails with ErrDisconnected when the receiver has been
// closed or when this handle was already closed.
func (s *Sender[T]) Send(msg T) error {
	if s == nil {
		return ErrDisconnected
	}
	s.q.mu.Lock()
	defer s.q.mu.Unlock()
	if s.closed || s.q.receiverClosed {
		return ErrDisconnected
	}
	s.q.items.Enqueue(msg)
	return nil
}

// Clone returns a new sender handle for the same queue. Cloning a closed
// handle yields another closed handle.
func (s *Sender[T]) Clone() *Sender[T] {
	s.q.mu.Lock()
	defer s.q.mu.Unlock()
	if s.closed {
		return &Sender[T]{q: s.q, closed: true}
	}
	s.q.senders++
	return &Sender[T]{q: s.q}
}

// Close drops this handle. Closing twice is a no-op.
func (s *Sender[T]) Close() {
	if s == nil {
		return
	}
	s.q.mu.Lock()
	defer s.q.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.q.senders--
}

// TryRecv dequeues the oldest message without blocking. Messages already
// queued are still delivered after the last sender closes; ErrDisconnected is
// only reported once the queue is empty.
func (r *Receiver[T]) TryRecv() (T, error) {
	var zero T
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	if v, ok := r.q.items.Dequeue(); ok {
		return v.(T), nil
	}
	if r.q.senders <= 0 {
		return zero, ErrDisconnected
	}
	return zero, ErrEmpty
}

// Len reports the number of queued messages.
func (r *Receiver[T]) Len() int {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	return r.q.items.Size()
}

// Close drops the receiver; subsequent sends fail and queued messages are
// discarded.
func (r *Receiver[T]) Close() {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	r.q.receiverClosed = true
	r.q.items.Clear()
}
