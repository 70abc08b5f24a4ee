package pool

import (
	"io"
	"sync"
)

// Default sizes for pooled stream buffers.
const (
	StreamBufferDefaultSize  = 1024 * 4        // 4KiB
	StreamBufferMaxThreshold = 1024 * 1024 * 4 // 4MiB
)

// ByteBuffer is an append-only byte buffer used to assemble wire streams.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer but keeps its memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the number of bytes written.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// MustWrite appends data, growing the buffer if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// WriteByte appends a single byte. It never fails.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)
	return nil
}

// Grow ensures room for requiredBytes more bytes without reallocating.
//
// Small buffers grow by StreamBufferDefaultSize, larger ones by a quarter of
// their capacity, and always by at least requiredBytes.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	if cap(bb.B)-len(bb.B) >= requiredBytes {
		return
	}

	growBy := StreamBufferDefaultSize
	if cap(bb.B) > 4*StreamBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends data, growing the buffer as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// Detach returns a copy of the contents that stays valid after the buffer is
// returned to its pool.
func (bb *ByteBuffer) Detach() []byte {
	out := make([]byte, len(bb.B))
	copy(out, bb.B)

	return out
}

// ByteBufferPool is a sync.Pool of ByteBuffers that drops buffers grown past
// maxThreshold so one huge stream does not pin memory.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool whose new buffers have defaultSize capacity.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns bb to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var streamPool = NewByteBufferPool(StreamBufferDefaultSize, StreamBufferMaxThreshold)

// GetStreamBuffer retrieves a ByteBuffer from the default stream pool.
func GetStreamBuffer() *ByteBuffer {
	return streamPool.Get()
}

// PutStreamBuffer returns a ByteBuffer to the default stream pool.
func PutStreamBuffer(bb *ByteBuffer) {
	streamPool.Put(bb)
}
