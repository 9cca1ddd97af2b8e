package mdextra

import (
	"context"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps automatic sizing.
	MaxPoolSize = 16
)

// FormatterFactory builds one pooled Formatter.
type FormatterFactory func() (*Formatter, error)

// FormatterPool hands out up to size Formatters for parallel batch work.
// Formatters are built lazily by the factory, so each worker can carry its
// own macro resolver.
type FormatterPool struct {
	size    int
	factory FormatterFactory
	sem     chan *Formatter
	mu      sync.Mutex
	created int
	closed  bool
}

// NewFormatterPool creates a pool of at most n Formatters built by factory.
func NewFormatterPool(n int, factory FormatterFactory) *FormatterPool {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	return &FormatterPool{
		size:    n,
		factory: factory,
		sem:     make(chan *Formatter, n),
	}
}

// Acquire returns an idle Formatter, builds a new one while the pool is
// below capacity, or waits for a Release. It fails when ctx ends, the
// pool is closed, or the factory fails.
func (p *FormatterPool) Acquire(ctx context.Context) (*Formatter, error) {
	select {
	case f, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return f, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		f, err := p.factory()
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}
		return f, nil
	}
	p.mu.Unlock()

	select {
	case f, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return f, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns f to the pool. Releasing into a closed pool drops f.
func (p *FormatterPool) Release(f *Formatter) {
	if f == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.sem <- f:
	default:
	}
}

// Close stops the pool. Waiting and later Acquire calls get ErrPoolClosed.
func (p *FormatterPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.sem)
}

// Size returns the pool capacity.
func (p *FormatterPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size. An explicit worker count wins;
// otherwise GOMAXPROCS (container-aware with automaxprocs) is used,
// clamped to [MinPoolSize, MaxPoolSize].
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}
	return min(max(runtime.GOMAXPROCS(0), MinPoolSize), MaxPoolSize)
}
