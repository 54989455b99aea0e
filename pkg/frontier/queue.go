// Package frontier implements the max-priority queue of partial ladders
// that drives the best-first search.
package frontier

import (
	"errors"
	"fmt"
	"strings"

	"wiki_ladder/pkg/ladder"
)

// InitialCapacity is the number of usable slots a new queue starts with.
const InitialCapacity = 10

// ErrEmptyQueue is returned by Dequeue when the queue holds no entries.
var ErrEmptyQueue = errors.New("frontier: dequeue from empty queue")

// Entry is a queued path and its priority.
type Entry struct {
	Path     ladder.Path
	Priority int
}

// PathQueue is a concrete-typed binary max-heap of paths.
// Slots are 1-indexed: slot 0 is never used, live entries occupy
// slots[1..size], and the parent of slot i is i/2.
// Equal-priority children are resolved in favour of the left child.
//
// A PathQueue is not safe for concurrent use.
type PathQueue struct {
	slots []Entry
	size  int
}

// New returns an empty queue with InitialCapacity usable slots.
func New() *PathQueue {
	return NewWithCapacity(InitialCapacity)
}

// NewWithCapacity returns an empty queue with room for capacity entries
// before the first growth.
func NewWithCapacity(capacity int) *PathQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &PathQueue{slots: make([]Entry, capacity+1)}
}

// Len returns the number of live entries.
func (q *PathQueue) Len() int { return q.size }

// IsEmpty reports whether the queue has no live entries.
func (q *PathQueue) IsEmpty() bool { return q.size == 0 }

// Cap returns the number of entries the queue can hold before growing.
func (q *PathQueue) Cap() int { return len(q.slots) - 1 }

// Enqueue inserts path with the given priority.
func (q *PathQueue) Enqueue(path ladder.Path, priority int) {
	if q.size == q.Cap() {
		q.grow()
	}
	q.size++
	q.slots[q.size] = Entry{Path: path, Priority: priority}
	q.siftUp(q.size)
}

// Dequeue removes and returns the highest-priority path.
func (q *PathQueue) Dequeue() (ladder.Path, error) {
	e, err := q.DequeueEntry()
	if err != nil {
		return ladder.Path{}, err
	}
	return e.Path, nil
}

// DequeueEntry is Dequeue returning the priority alongside the path.
func (q *PathQueue) DequeueEntry() (Entry, error) {
	if q.size == 0 {
		return Entry{}, ErrEmptyQueue
	}
	top := q.slots[1]
	q.slots[1] = q.slots[q.size]
	q.slots[q.size] = Entry{}
	q.size--
	if q.size > 1 {
		q.siftDown(1)
	}
	return top, nil
}

// PeekPriority returns the priority of the root entry.
func (q *PathQueue) PeekPriority() (int, error) {
	if q.size == 0 {
		return 0, ErrEmptyQueue
	}
	return q.slots[1].Priority, nil
}

// String renders the live entries in slot order, e.g.
// "{[Milkshake Barley] (20), [Milkshake Milk] (14)}".
func (q *PathQueue) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i := 1; i <= q.size; i++ {
		if i > 1 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s (%d)", q.slots[i].Path, q.slots[i].Priority)
	}
	b.WriteByte('}')
	return b.String()
}

// grow doubles the usable capacity. Live slots keep their positions.
func (q *PathQueue) grow() {
	slots := make([]Entry, 2*q.Cap()+1)
	copy(slots[1:], q.slots[1:q.size+1])
	q.slots = slots
}

func (q *PathQueue) siftUp(i int) {
	for i > 1 {
		parent := i / 2
		if q.slots[i].Priority <= q.slots[parent].Priority {
			break
		}
		q.slots[i], q.slots[parent] = q.slots[parent], q.slots[i]
		i = parent
	}
}

func (q *PathQueue) siftDown(i int) {
	for {
		largest := i
		left := 2 * i
		right := left + 1
		if left <= q.size && q.slots[left].Priority > q.slots[largest].Priority {
			largest = left
		}
		// Strict comparison against the current winner keeps left on ties.
		if right <= q.size && q.slots[right].Priority > q.slots[largest].Priority {
			largest = right
		}
		if largest == i {
			break
		}
		q.slots[i], q.slots[largest] = q.slots[largest], q.slots[i]
		i = largest
	}
}
