package sampler

import "sync"

// FrameSource supplies the most recent video frame, if any. A source that has
// produced no frame yet is not an error; the sampler just skips the tick.
type FrameSource interface {
	// Frame returns the latest frame and whether one is available.
	Frame() ([]byte, bool)
	// Close releases the source. Further Put/Frame calls are no-ops.
	Close() error
}

// FrameBuffer is a FrameSource fed over the wire: the websocket handler puts
// each incoming frame and the sampler reads whatever is newest. Only the
// latest frame is kept.
type FrameBuffer struct {
	mu     sync.Mutex
	frame  []byte
	closed bool
}

// NewFrameBuffer returns an empty, open buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// Put replaces the buffered frame. Frames arriving after Close are dropped.
func (b *FrameBuffer) Put(frame []byte) {
	if len(frame) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.frame = frame
}

// Frame returns the newest frame, or false when none has arrived yet.
func (b *FrameBuffer) Frame() ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || b.frame == nil {
		return nil, false
	}
	return b.frame, true
}

// Close drops the buffered frame and rejects future ones. Safe to call more
// than once.
func (b *FrameBuffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.frame = nil
	return nil
}

// Closed reports whether the buffer has been released.
func (b *FrameBuffer) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
