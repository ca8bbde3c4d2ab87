package dedupe

// defaultMaxSize matches the dedupe_size config default.
const defaultMaxSize = 50000

// Option configures the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize bounds remembered job ids and idempotency keys; the oldest
// entry is evicted first. Values <= 0 disable eviction.
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}
