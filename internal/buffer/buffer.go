// Package buffer provides the resizable byte region the stream reader fills
// from a source and the request parser drains from the front.
package buffer

// Buffer holds Len() valid bytes at the start of a backing array of Cap() bytes.
type Buffer struct {
	data []byte
	n    int
}

// New returns an empty buffer with the given capacity (at least 1).
func New(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{data: make([]byte, capacity)}
}

func (b *Buffer) Len() int { return b.n }

func (b *Buffer) Cap() int { return len(b.data) }

// Available is the number of free bytes after the valid region.
func (b *Buffer) Available() int { return len(b.data) - b.n }

// Bytes returns the valid region. It aliases the buffer and is only good
// until the next mutating call.
func (b *Buffer) Bytes() []byte { return b.data[:b.n] }

// Free returns the writable tail, capped at max bytes when max > 0.
// Bytes written there become valid after Commit.
func (b *Buffer) Free(max int) []byte {
	tail := b.data[b.n:]
	if max > 0 && len(tail) > max {
		tail = tail[:max]
	}
	return tail
}

// Commit marks n more bytes of the free tail as valid.
func (b *Buffer) Commit(n int) {
	if n < 0 || n > b.Available() {
		panic("buffer: commit out of range")
	}
	b.n += n
}

// Append copies p after the valid region, growing as needed.
func (b *Buffer) Append(p []byte) {
	for b.Available() < len(p) {
		b.grow()
	}
	b.n += copy(b.data[b.n:], p)
}

// Consume drops the first n valid bytes and moves the rest to the front.
func (b *Buffer) Consume(n int) {
	if n <= 0 {
		return
	}
	if n > b.n {
		n = b.n
	}
	copy(b.data, b.data[n:b.n])
	b.n -= n
}

// GrowIfNeeded doubles the capacity when fewer than lowWater bytes are free,
// and reports whether it grew.
func (b *Buffer) GrowIfNeeded(lowWater int) bool {
	if lowWater < 1 {
		lowWater = 1
	}
	if b.Available() >= lowWater {
		return false
	}
	for b.Available() < lowWater {
		b.grow()
	}
	return true
}

func (b *Buffer) grow() {
	next := make([]byte, 2*len(b.data))
	copy(next, b.data[:b.n])
	b.data = next
}
