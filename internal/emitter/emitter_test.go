package emitter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luciancaetano/censusstream"
)

func TestEmitCallsListenersInOrder(t *testing.T) {
	t.Parallel()

	r := New(nil)
	var got []int
	r.On("Death", func(censusstream.Event) { got = append(got, 1) })
	r.On("Death", func(censusstream.Event) { got = append(got, 2) })
	r.On("PlayerLogin", func(censusstream.Event) { got = append(got, 99) })

	called := r.Emit(censusstream.Event{Name: "Death"})

	assert.Equal(t, 2, called)
	assert.Equal(t, []int{1, 2}, got)
}

func TestEmitWithoutListeners(t *testing.T) {
	t.Parallel()

	r := New(nil)
	assert.Equal(t, 0, r.Emit(censusstream.Event{Name: "nobody"}))
}

func TestOnce(t *testing.T) {
	t.Parallel()

	r := New(nil)
	calls := 0
	r.Once(censusstream.EventOpen, func(censusstream.Event) { calls++ })

	r.Emit(censusstream.Event{Name: censusstream.EventOpen})
	r.Emit(censusstream.Event{Name: censusstream.EventOpen})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, r.Count(censusstream.EventOpen))
}

func TestOff(t *testing.T) {
	t.Parallel()

	r := New(nil)
	calls := 0
	id := r.On("data", func(censusstream.Event) { calls++ })
	other := r.On("data", func(censusstream.Event) {})
	require.NotEqual(t, id, other)

	r.Off("data", id)
	r.Off("data", "does-not-exist")
	r.Emit(censusstream.Event{Name: "data"})

	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, r.Count("data"))
}

func TestListenerCanRegisterDuringEmit(t *testing.T) {
	t.Parallel()

	r := New(nil)
	lateCalls := 0
	r.On("data", func(censusstream.Event) {
		r.On("data", func(censusstream.Event) { lateCalls++ })
	})

	r.Emit(censusstream.Event{Name: "data"})
	assert.Equal(t, 0, lateCalls, "listeners added during an emit wait for the next one")

	r.Emit(censusstream.Event{Name: "data"})
	assert.Equal(t, 1, lateCalls)
}

func TestOnceRemovedByEarlierListener(t *testing.T) {
	t.Parallel()

	r := New(nil)
	var onceID censusstream.ListenerID
	calls := 0
	r.On("close", func(censusstream.Event) { r.Off("close", onceID) })
	onceID = r.Once("close", func(censusstream.Event) { calls++ })

	r.Emit(censusstream.Event{Name: "close"})
	assert.Equal(t, 0, calls)
}

func TestNilListenerIgnored(t *testing.T) {
	t.Parallel()

	r := New(nil)
	id := r.On("data", nil)
	assert.NotEmpty(t, id)
	assert.Equal(t, 0, r.Count("data"))
}

func TestPanicRecovered(t *testing.T) {
	t.Parallel()

	var recovered []any
	r := New(func(name string, rec any) {
		assert.Equal(t, "Death", name)
		recovered = append(recovered, rec)
	})

	after := false
	r.On("Death", func(censusstream.Event) { panic("boom") })
	r.On("Death", func(censusstream.Event) { after = true })

	assert.Equal(t, 2, r.Emit(censusstream.Event{Name: "Death"}))
	assert.Equal(t, []any{"boom"}, recovered)
	assert.True(t, after)
}

func TestConcurrentRegistration(t *testing.T) {
	t.Parallel()

	r := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			id := r.On("data", func(censusstream.Event) {})
			r.Off("data", id)
		}()
		go func() {
			defer wg.Done()
			r.Emit(censusstream.Event{Name: "data"})
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, r.Count("data"))
}
