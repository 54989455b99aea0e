package frontier

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiki_ladder/pkg/ladder"
)

// checkHeap fails the test if any live non-root slot outranks its parent.
func checkHeap(t *testing.T, q *PathQueue) {
	t.Helper()
	for i := 2; i <= q.size; i++ {
		if q.slots[i/2].Priority < q.slots[i].Priority {
			t.Fatalf("heap violated at %d: parent %d < child %d", i, q.slots[i/2].Priority, q.slots[i].Priority)
		}
	}
	for i := q.size + 1; i < len(q.slots); i++ {
		if !q.slots[i].Path.IsEmpty() {
			t.Fatalf("slot %d beyond size %d still holds %s", i, q.size, q.slots[i].Path)
		}
	}
}

func TestPathQueueOrder(t *testing.T) {
	q := New()
	q.Enqueue(ladder.New("a"), 30)
	q.Enqueue(ladder.New("b"), 10)
	q.Enqueue(ladder.New("c"), 20)

	got, err := q.DequeueEntry()
	require.NoError(t, err)
	assert.Equal(t, 30, got.Priority)
	assert.Equal(t, "a", got.Path.Last())

	got, err = q.DequeueEntry()
	require.NoError(t, err)
	assert.Equal(t, "c", got.Path.Last())

	got, err = q.DequeueEntry()
	require.NoError(t, err)
	assert.Equal(t, "b", got.Path.Last())

	assert.True(t, q.IsEmpty())
}

func TestPathQueueEmpty(t *testing.T) {
	q := New()
	_, err := q.Dequeue()
	assert.ErrorIs(t, err, ErrEmptyQueue)

	q.Enqueue(ladder.New("a"), 1)
	_, err = q.Dequeue()
	require.NoError(t, err)

	_, err = q.Dequeue()
	if !errors.Is(err, ErrEmptyQueue) {
		t.Fatalf("drained Dequeue err = %v, want ErrEmptyQueue", err)
	}
	_, err = q.PeekPriority()
	assert.ErrorIs(t, err, ErrEmptyQueue)
}

func TestPathQueueGrowth(t *testing.T) {
	q := New()
	require.Equal(t, InitialCapacity, q.Cap())

	for i := 0; i < 15; i++ {
		q.Enqueue(ladder.New(string(rune('a'+i))), i%7)
		checkHeap(t, q)
	}
	assert.Equal(t, 15, q.Len())
	assert.Equal(t, 2*InitialCapacity, q.Cap())

	seen := make(map[string]int)
	for !q.IsEmpty() {
		p, err := q.Dequeue()
		require.NoError(t, err)
		seen[p.Last()]++
		checkHeap(t, q)
	}
	assert.Len(t, seen, 15)
	for id, n := range seen {
		assert.Equalf(t, 1, n, "%s dequeued %d times", id, n)
	}
}

func TestPathQueueRandomAgainstSort(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	q := New()

	var want []int
	for i := 0; i < 500; i++ {
		p := rng.Intn(50)
		want = append(want, p)
		q.Enqueue(ladder.New("n"), p)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(want)))

	for i, w := range want {
		e, err := q.DequeueEntry()
		require.NoError(t, err)
		if e.Priority != w {
			t.Fatalf("dequeue %d: priority %d, want %d", i, e.Priority, w)
		}
	}
}

func TestPathQueueInterleaved(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	q := NewWithCapacity(2)
	live := 0
	for i := 0; i < 2000; i++ {
		if live > 0 && rng.Intn(3) == 0 {
			before, err := q.PeekPriority()
			require.NoError(t, err)
			e, err := q.DequeueEntry()
			require.NoError(t, err)
			require.Equal(t, before, e.Priority)
			live--
		} else {
			q.Enqueue(ladder.New("n"), rng.Intn(100))
			live++
		}
		checkHeap(t, q)
		require.Equal(t, live, q.Len())
	}
}

func TestPathQueueLeftChildWinsTies(t *testing.T) {
	q := New()
	q.Enqueue(ladder.New("root"), 9)
	q.Enqueue(ladder.New("left"), 5)
	q.Enqueue(ladder.New("right"), 5)
	q.Enqueue(ladder.New("tail"), 1)

	_, err := q.Dequeue()
	require.NoError(t, err)
	// tail moved to the root and sank past the tied children via the left one.
	assert.Equal(t, "left", q.slots[1].Path.Last())
	assert.Equal(t, "tail", q.slots[2].Path.Last())
	assert.Equal(t, "right", q.slots[3].Path.Last())
}

func TestPathQueueEntriesIndependent(t *testing.T) {
	q := New()
	base := ladder.New("A")
	q.Enqueue(base.Append("B"), 1)
	q.Enqueue(base.Append("C"), 2)

	first, err := q.Dequeue()
	require.NoError(t, err)
	second, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, first.IDs())
	assert.Equal(t, []string{"A", "B"}, second.IDs())
}

func TestPathQueueString(t *testing.T) {
	q := New()
	assert.Equal(t, "{}", q.String())
	q.Enqueue(ladder.FromIDs("Milkshake", "Barley"), 20)
	q.Enqueue(ladder.FromIDs("Milkshake", "Milk"), 14)
	assert.Equal(t, "{[Milkshake Barley] (20), [Milkshake Milk] (14)}", q.String())
}
