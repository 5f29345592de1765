package channel

import "sync"

// FakePort is a test double that delivers typed bytes one per Poll and
// records echoes.
type FakePort struct {
	mu     sync.Mutex
	in     []byte
	echoed []byte

	// EchoError, if set, will be returned by Echo.
	EchoError error
}

// Type queues s for delivery.
func (f *FakePort) Type(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.in = append(f.in, s...)
}

// Poll returns the next typed byte.
func (f *FakePort) Poll() (byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.in) == 0 {
		return 0, false
	}
	b := f.in[0]
	f.in = f.in[1:]
	return b, true
}

// Echo records b.
func (f *FakePort) Echo(b byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.EchoError != nil {
		return f.EchoError
	}
	f.echoed = append(f.echoed, b)
	return nil
}

// Echoed returns everything echoed so far.
func (f *FakePort) Echoed() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return string(f.echoed)
}

// Pending returns the number of typed bytes not yet polled.
func (f *FakePort) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.in)
}
