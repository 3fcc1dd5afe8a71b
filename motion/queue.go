package motion

import "fmt"

// EntryID is a stable handle to a queue slot. It stays valid until the entry
// is popped or the queue is cleared.
type EntryID int32

// QueueEntry is a pending motion: a candidate record plus the speed it was
// requested at and an optional one-shot start time.
type QueueEntry struct {
	Record           Playback
	Speed            float64
	HasStartOverride bool
	StartOverride    int32
}

type queueSlot struct {
	entry QueueEntry
	next  int32 // slot index + 1, 0 = end of list
	used  bool
}

// Queue is a FIFO of pending motions backed by a slot arena. Released slots
// are reused, so steady-state playback does not allocate.
type Queue struct {
	slots []queueSlot
	free  []int32
	head  int32 // slot index + 1, 0 = empty
	tail  int32
	n     int
}

// Len returns the number of pending entries.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return q.n
}

// Empty reports whether nothing is pending.
func (q *Queue) Empty() bool {
	return q.Len() == 0
}

// Push appends an entry to the tail.
func (q *Queue) Push(e QueueEntry) EntryID {
	var idx int32
	if n := len(q.free); n > 0 {
		idx = q.free[n-1]
		q.free = q.free[:n-1]
	} else {
		q.slots = append(q.slots, queueSlot{})
		idx = int32(len(q.slots) - 1)
	}
	q.slots[idx] = queueSlot{entry: e, used: true}
	if q.tail != 0 {
		q.slots[q.tail-1].next = idx + 1
	} else {
		q.head = idx + 1
	}
	q.tail = idx + 1
	q.n++
	return EntryID(idx)
}

// Head returns the oldest entry, the next candidate for promotion.
func (q *Queue) Head() (*QueueEntry, bool) {
	if q == nil || q.head == 0 {
		return nil, false
	}
	return &q.slots[q.head-1].entry, true
}

// Tail returns the most recently appended entry.
func (q *Queue) Tail() (*QueueEntry, bool) {
	if q == nil || q.tail == 0 {
		return nil, false
	}
	return &q.slots[q.tail-1].entry, true
}

// Get returns the entry behind id while it is still queued.
func (q *Queue) Get(id EntryID) (*QueueEntry, bool) {
	if q == nil || id < 0 || int(id) >= len(q.slots) || !q.slots[id].used {
		return nil, false
	}
	return &q.slots[id].entry, true
}

// PopHead removes and returns the oldest entry. It reports false on an empty
// queue.
func (q *Queue) PopHead() (QueueEntry, bool) {
	if q == nil || q.head == 0 {
		return QueueEntry{}, false
	}
	idx := q.head - 1
	s := q.slots[idx]
	q.head = s.next
	if q.head == 0 {
		q.tail = 0
	}
	q.slots[idx] = queueSlot{}
	q.free = append(q.free, idx)
	q.n--
	return s.entry, true
}

// Clear releases every entry.
func (q *Queue) Clear() {
	if q == nil {
		return
	}
	for i := range q.slots {
		q.slots[i] = queueSlot{}
	}
	q.free = q.free[:0]
	for i := len(q.slots) - 1; i >= 0; i-- {
		q.free = append(q.free, int32(i))
	}
	q.head, q.tail, q.n = 0, 0, 0
}

// Entries returns a copy of the pending entries in FIFO order.
func (q *Queue) Entries() []QueueEntry {
	if q == nil || q.n == 0 {
		return nil
	}
	out := make([]QueueEntry, 0, q.n)
	for i := q.head; i != 0; i = q.slots[i-1].next {
		out = append(out, q.slots[i-1].entry)
	}
	return out
}

// Check verifies the list links against the node count and the free list.
func (q *Queue) Check() error {
	if q == nil {
		return nil
	}
	count := 0
	var last int32
	for i := q.head; i != 0; i = q.slots[i-1].next {
		if i < 0 || int(i) > len(q.slots) {
			return fmt.Errorf("motion: queue link %d out of range", i)
		}
		if !q.slots[i-1].used {
			return fmt.Errorf("motion: queue links released slot %d", i-1)
		}
		count++
		if count > len(q.slots) {
			return fmt.Errorf("motion: queue cycle detected")
		}
		last = i
	}
	if count != q.n {
		return fmt.Errorf("motion: queue length %d, linked %d", q.n, count)
	}
	if last != q.tail {
		return fmt.Errorf("motion: queue tail %d, last linked %d", q.tail, last)
	}
	if count+len(q.free) != len(q.slots) {
		return fmt.Errorf("motion: %d linked + %d free != %d slots", count, len(q.free), len(q.slots))
	}
	return nil
}
