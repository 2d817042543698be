package debounce

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBurstCollapsesToLastCall(t *testing.T) {
	d := New(30 * time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	var got []int
	for i := 1; i <= 5; i++ {
		v := i
		d.Trigger("img", func() {
			mu.Lock()
			got = append(got, v)
			mu.Unlock()
		})
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{5}, got)
}

func TestKeysAreIndependent(t *testing.T) {
	d := New(time.Hour)
	defer d.Stop()

	var a, b atomic.Int32
	d.Trigger("a", func() { a.Add(1) })
	d.Trigger("b", func() { b.Add(1) })
	d.Trigger("a", func() { a.Add(10) })
	assert.Equal(t, 2, d.Pending())

	d.Flush()
	assert.Equal(t, int32(10), a.Load())
	assert.Equal(t, int32(1), b.Load())
	assert.Zero(t, d.Pending())
}

func TestCancel(t *testing.T) {
	d := New(time.Hour)
	defer d.Stop()

	var calls atomic.Int32
	d.Trigger("a", func() { calls.Add(1) })
	assert.True(t, d.Cancel("a"))
	assert.False(t, d.Cancel("a"))

	d.Flush()
	assert.Zero(t, calls.Load())
}

func TestStopRejectsNewCalls(t *testing.T) {
	d := New(time.Millisecond)

	var calls atomic.Int32
	d.Trigger("a", func() { calls.Add(1) })
	d.Stop()
	d.Trigger("a", func() { calls.Add(1) })
	d.Flush()

	assert.LessOrEqual(t, calls.Load(), int32(1))
	assert.Zero(t, d.Pending())
}
