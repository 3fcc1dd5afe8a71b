package motion

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func queueNames(q *Queue) []string {
	var names []string
	for _, e := range q.Entries() {
		names = append(names, e.Record.Motion.Name())
	}
	return names
}

func entryFor(name string) QueueEntry {
	d := testMotion(name, PostureStand, PostureStand)
	return QueueEntry{Record: newPlayback(d, 1), Speed: 1}
}

func TestQueueFIFO(t *testing.T) {
	var q Queue
	require.True(t, q.Empty())

	for _, n := range []string{"a", "b", "c"} {
		q.Push(entryFor(n))
	}
	require.Equal(t, 3, q.Len())
	require.Equal(t, []string{"a", "b", "c"}, queueNames(&q))

	head, ok := q.Head()
	require.True(t, ok)
	require.Equal(t, "a", head.Record.Motion.Name())
	tail, ok := q.Tail()
	require.True(t, ok)
	require.Equal(t, "c", tail.Record.Motion.Name())

	e, ok := q.PopHead()
	require.True(t, ok)
	require.Equal(t, "a", e.Record.Motion.Name())
	require.Equal(t, []string{"b", "c"}, queueNames(&q))
	require.NoError(t, q.Check())
}

func TestQueueReusesReleasedSlots(t *testing.T) {
	var q Queue
	q.Push(entryFor("a"))
	q.Push(entryFor("b"))
	_, _ = q.PopHead()
	q.Push(entryFor("c"))

	require.Len(t, q.slots, 2)
	require.Equal(t, []string{"b", "c"}, queueNames(&q))
	require.NoError(t, q.Check())

	for i := 0; i < 10; i++ {
		_, _ = q.PopHead()
		q.Push(entryFor("x"))
	}
	require.Len(t, q.slots, 2)
	require.NoError(t, q.Check())
}

func TestQueueClear(t *testing.T) {
	var q Queue
	for _, n := range []string{"a", "b", "c"} {
		q.Push(entryFor(n))
	}
	q.Clear()
	require.True(t, q.Empty())
	_, ok := q.Head()
	require.False(t, ok)
	_, ok = q.Tail()
	require.False(t, ok)
	require.NoError(t, q.Check())

	q.Clear()
	require.NoError(t, q.Check())

	q.Push(entryFor("d"))
	require.Equal(t, []string{"d"}, queueNames(&q))
	require.NoError(t, q.Check())
}

func TestQueueGet(t *testing.T) {
	var q Queue
	id := q.Push(entryFor("a"))
	e, ok := q.Get(id)
	require.True(t, ok)
	require.Equal(t, "a", e.Record.Motion.Name())

	_, _ = q.PopHead()
	_, ok = q.Get(id)
	require.False(t, ok)
	_, ok = q.Get(EntryID(42))
	require.False(t, ok)
}

func TestQueuePopEmpty(t *testing.T) {
	var q Queue
	_, ok := q.PopHead()
	require.False(t, ok)

	var nilQueue *Queue
	require.Equal(t, 0, nilQueue.Len())
	require.Nil(t, nilQueue.Entries())
	require.NoError(t, nilQueue.Check())
}

func TestQueueCheckDetectsBadCount(t *testing.T) {
	var q Queue
	q.Push(entryFor("a"))
	q.n = 2
	require.Error(t, q.Check())
}
