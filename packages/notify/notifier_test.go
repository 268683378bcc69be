package notify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCenter_Post(t *testing.T) {
	c := NewCenter()

	var got []Event
	c.Subscribe(AccountSuspended, func(e Event) { got = append(got, e) })

	c.Post(AccountSuspended)
	c.Post(Event("other"))

	assert.Equal(t, []Event{AccountSuspended}, got)
}

func TestCenter_Unsubscribe(t *testing.T) {
	c := NewCenter()

	calls := 0
	unsubscribe := c.Subscribe(AccountSuspended, func(Event) { calls++ })
	assert.Equal(t, 1, c.Observers(AccountSuspended))

	unsubscribe()
	unsubscribe()
	c.Post(AccountSuspended)

	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, c.Observers(AccountSuspended))
}

func TestCenter_MultipleObservers(t *testing.T) {
	c := NewCenter()

	var first, second int
	c.Subscribe(AccountSuspended, func(Event) { first++ })
	unsubscribe := c.Subscribe(AccountSuspended, func(Event) { second++ })

	c.Post(AccountSuspended)
	unsubscribe()
	c.Post(AccountSuspended)

	assert.Equal(t, 2, first)
	assert.Equal(t, 1, second)
}

func TestCenter_ConcurrentPost(t *testing.T) {
	c := NewCenter()

	var mu sync.Mutex
	count := 0
	c.Subscribe(AccountSuspended, func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Post(AccountSuspended)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, count)
}
