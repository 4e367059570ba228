package ledger

import "sync"

// KeyedMutex un mutex por clave (cuenta). Claves distintas nunca comparten candado;
// las entradas se liberan cuando nadie las espera.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex crea el conjunto de candados vacío.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: map[string]*keyedLock{}}
}

// Lock bloquea la clave y devuelve la función que la libera.
func (k *KeyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// size claves con candado vivo (tests).
func (k *KeyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
