// Package buffer implements a bounded arena for owned copies of values, which may arrive
// split across multiple input chunks and therefore can't be referenced zero-copy.
package buffer

// Buffer is a single slice hosting non-interrelated byte sequences (segments). A segment
// is written streamingly and sealed by Finish. Sealed segments stay valid until Clear,
// even if the underlying memory grows.
type Buffer struct {
	memory  []byte
	begin   int
	maxSize int
}

func New(initialSize, maxSize int) Buffer {
	return Buffer{
		memory:  make([]byte, 0, initialSize),
		maxSize: maxSize,
	}
}

// Append writes data into the current segment, unless the total amount of occupied
// memory exceeds the limit. In that case nothing is written and false is returned.
func (b *Buffer) Append(elements []byte) (ok bool) {
	if len(b.memory)+len(elements) > b.maxSize {
		return false
	}

	b.memory = append(b.memory, elements...)
	return true
}

// Preview returns the current segment without sealing it.
func (b *Buffer) Preview() []byte {
	return b.memory[b.begin:]
}

// Finish seals the current segment and returns it. The capacity of the returned slice
// is clipped, so appending to it never corrupts the following segments.
func (b *Buffer) Finish() []byte {
	segment := b.memory[b.begin:len(b.memory):len(b.memory)]
	b.begin = len(b.memory)

	return segment
}

// Clear resets the buffer, so old segments may be overridden by new ones.
func (b *Buffer) Clear() {
	b.begin = 0
	b.memory = b.memory[:0]
}
