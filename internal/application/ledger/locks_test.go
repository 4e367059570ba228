package ledger

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_ClavesDistintasNoSeBloquean(t *testing.T) {
	k := NewKeyedMutex()
	unlockA := k.Lock("a")

	done := make(chan struct{})
	go func() {
		unlockB := k.Lock("b")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("la cuenta b quedó bloqueada por la cuenta a")
	}
	unlockA()
	assert.Equal(t, 0, k.size())
}

func TestKeyedMutex_MismaClaveSerializa(t *testing.T) {
	k := NewKeyedMutex()
	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock("acc")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, counter)
	assert.Equal(t, 0, k.size())
}
