package room

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/wordchain-go/internal/model"
)

func TestKeyedLockerSerializesSameKey(t *testing.T) {
	locker := newKeyedLocker()

	var active, maxActive int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.Lock("abc")
			defer unlock()

			n := atomic.AddInt32(&active, 1)
			for {
				m := atomic.LoadInt32(&maxActive)
				if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
					break
				}
			}
			atomic.AddInt32(&active, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxActive)
	assert.Equal(t, 0, locker.size())
}

func TestKeyedLockerIndependentKeys(t *testing.T) {
	locker := newKeyedLocker()

	unlockA := locker.Lock(model.GameID("a"))
	done := make(chan struct{})
	go func() {
		unlock := locker.Lock(model.GameID("b"))
		unlock()
		close(done)
	}()
	<-done

	assert.Equal(t, 1, locker.size())
	unlockA()
	assert.Equal(t, 0, locker.size())
}
