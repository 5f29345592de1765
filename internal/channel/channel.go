// Package channel provides the character streams a passcode can be typed on:
// the serial UART and the process console. A background reader feeds each
// stream's bytes into a buffer that the main loop polls without blocking.
package channel

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sweeney/access-console/internal/logger"
)

// BufferSize is the number of received bytes held before new ones are dropped.
const BufferSize = 64

// retryDelay is how long the reader waits after a transient read error.
const retryDelay = 100 * time.Millisecond

// ErrClosed is returned by Echo after Close.
var ErrClosed = errors.New("channel: closed")

// Stream turns a blocking reader and writer into a polled channel.
type Stream struct {
	name string
	r    io.Reader
	w    io.Writer
	log  *logger.Logger

	// EOF on a serial port with a read timeout only means no data yet.
	retryEOF bool

	rx      chan byte
	dropped atomic.Int64

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewStream creates a Stream and starts its reader goroutine.
func NewStream(name string, r io.Reader, w io.Writer, l *logger.Logger) *Stream {
	return newStream(name, r, w, false, l)
}

func newStream(name string, r io.Reader, w io.Writer, retryEOF bool, l *logger.Logger) *Stream {
	if l == nil {
		l = logger.Discard()
	}
	s := &Stream{
		name:     name,
		r:        r,
		w:        w,
		log:      l,
		retryEOF: retryEOF,
		rx:       make(chan byte, BufferSize),
		done:     make(chan struct{}),
	}
	go s.readLoop()
	return s
}

func (s *Stream) readLoop() {
	defer close(s.done)
	buf := make([]byte, 16)
	for {
		n, err := s.r.Read(buf)
		for _, b := range buf[:n] {
			select {
			case s.rx <- b:
			default:
				s.dropped.Add(1)
			}
		}
		if err == nil {
			continue
		}
		if s.isClosed() {
			return
		}
		if errors.Is(err, io.EOF) && !s.retryEOF {
			s.log.Infof("%s: input closed", s.name)
			return
		}
		if !errors.Is(err, io.EOF) {
			s.log.Warnf("%s: read: %v", s.name, err)
		}
		time.Sleep(retryDelay)
	}
}

// Name returns the stream's label.
func (s *Stream) Name() string {
	return s.name
}

// Poll returns the next received byte without blocking.
func (s *Stream) Poll() (byte, bool) {
	select {
	case b := <-s.rx:
		return b, true
	default:
		return 0, false
	}
}

// Echo writes b back to the sender.
func (s *Stream) Echo(b byte) error {
	if s.isClosed() {
		return ErrClosed
	}
	if s.w == nil {
		return nil
	}
	if _, err := s.w.Write([]byte{b}); err != nil {
		return fmt.Errorf("%s: echo: %w", s.name, err)
	}
	return nil
}

// Dropped returns how many bytes were lost to a full buffer.
func (s *Stream) Dropped() int64 {
	return s.dropped.Load()
}

// Done is closed when the reader goroutine exits.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Close stops the stream and closes the underlying reader if it can be
// closed. Blocking readers that cannot be closed (stdin) keep their
// goroutine until the process exits.
func (s *Stream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if c, ok := s.r.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("%s: close: %w", s.name, err)
		}
	}
	return nil
}

func (s *Stream) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
