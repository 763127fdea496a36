package analysis

// SmoothingBuffer keeps the most recent N samples of a noisy measurement and
// exposes their mean. Analyzers use it to damp single-frame jitter in joint
// angles before comparing against thresholds.
type SmoothingBuffer struct {
	values   []float64
	capacity int
}

// NewSmoothingBuffer returns a buffer holding at most capacity samples.
// Capacities below one are clamped to one.
func NewSmoothingBuffer(capacity int) *SmoothingBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &SmoothingBuffer{
		values:   make([]float64, 0, capacity),
		capacity: capacity,
	}
}

// Push appends a sample, evicting the oldest when the buffer is full.
func (b *SmoothingBuffer) Push(v float64) {
	if len(b.values) == b.capacity {
		copy(b.values, b.values[1:])
		b.values = b.values[:len(b.values)-1]
	}
	b.values = append(b.values, v)
}

// Average returns the mean of the buffered samples, or 0 when empty.
func (b *SmoothingBuffer) Average() float64 {
	if len(b.values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range b.values {
		sum += v
	}
	return sum / float64(len(b.values))
}

// Len returns the number of buffered samples.
func (b *SmoothingBuffer) Len() int { return len(b.values) }

// Clear discards all buffered samples.
func (b *SmoothingBuffer) Clear() { b.values = b.values[:0] }
