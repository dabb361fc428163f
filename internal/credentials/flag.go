package credentials

import "sync"

// Flag is an observable boolean. Watchers receive the current value on
// subscription and the latest value after every change.
type Flag struct {
	mu       sync.Mutex
	value    bool
	watchers map[int]chan bool
	next     int
}

func NewFlag(initial bool) *Flag {
	return &Flag{value: initial, watchers: make(map[int]chan bool)}
}

func (f *Flag) Value() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Set stores v and notifies watchers when the value changes. It never blocks.
func (f *Flag) Set(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.value == v {
		return
	}
	f.value = v
	for _, ch := range f.watchers {
		offer(ch, v)
	}
}

// Watch subscribes to the flag. The returned channel has room for a single
// value; a watcher that falls behind only ever sees the most recent one.
// Call cancel to unsubscribe; the channel is closed afterwards.
func (f *Flag) Watch() (<-chan bool, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan bool, 1)
	ch <- f.value
	id := f.next
	f.next++
	f.watchers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.watchers, id)
			close(ch)
		})
	}
	return ch, cancel
}

// offer replaces any pending value in ch with v.
func offer(ch chan bool, v bool) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
