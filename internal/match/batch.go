// internal/match/batch.go
package match

import "sync"

// DefaultBatchSize is the number of haystack entries handed to one Matcher.
const DefaultBatchSize = 1_000_000

// Batch is a bounded run of haystack hashes in file order.
type Batch struct {
	Seq    int
	Hashes []string

	pool *BatchPool
}

// Len returns the number of hashes in the batch.
func (b *Batch) Len() int { return len(b.Hashes) }

// Full reports whether the batch reached its pool's size.
func (b *Batch) Full() bool { return b.pool != nil && len(b.Hashes) >= b.pool.size }

// Add appends one hash.
func (b *Batch) Add(h string) { b.Hashes = append(b.Hashes, h) }

// Release drops the hashes and hands the backing array back for reuse.
// The batch must not be used afterwards.
func (b *Batch) Release() {
	if b.pool != nil {
		b.pool.put(b)
	}
}

// BatchPool recycles batch backing arrays so that steady-state dispatch does
// not allocate a fresh million-entry slice per chunk.
type BatchPool struct {
	pool sync.Pool
	size int
}

// NewBatchPool returns a pool of batches holding at most size hashes.
func NewBatchPool(size int) *BatchPool {
	if size <= 0 {
		size = DefaultBatchSize
	}
	return &BatchPool{size: size}
}

// Size is the maximum batch length.
func (p *BatchPool) Size() int { return p.size }

// Get returns an empty batch tagged with seq.
func (p *BatchPool) Get(seq int) *Batch {
	if v := p.pool.Get(); v != nil {
		b := v.(*Batch)
		b.Seq = seq
		return b
	}
	return &Batch{Seq: seq, Hashes: make([]string, 0, p.size), pool: p}
}

func (p *BatchPool) put(b *Batch) {
	clear(b.Hashes)
	b.Hashes = b.Hashes[:0]
	p.pool.Put(b)
}
