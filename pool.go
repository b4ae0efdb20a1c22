package agentreport

import (
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one renderer is available.
	MinPoolSize = 1

	// MaxPoolSize caps renderers; beyond this, goldmark throughput is
	// limited by allocation pressure rather than parallelism.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for the watcher and resolver goroutines.
	cpuDivisor = 2
)

// RendererPool bounds the number of concurrent renders. Renderers are
// created lazily on first acquire to avoid startup cost when a batch
// turns out smaller than the pool.
type RendererPool struct {
	size    int
	opts    []RendererOption
	sem     chan *Renderer
	mu      sync.Mutex
	created int
}

// NewRendererPool creates a pool with capacity for n Renderer instances,
// each built with the given options.
func NewRendererPool(n int, opts ...RendererOption) *RendererPool {
	if n < 1 {
		n = 1
	}

	return &RendererPool{
		size: n,
		opts: opts,
		sem:  make(chan *Renderer, n),
	}
}

// Acquire gets a renderer from the pool, creating one if needed.
// Blocks if all renderers are in use.
func (p *RendererPool) Acquire() *Renderer {
	// Try to get an existing renderer (non-blocking)
	select {
	case r := <-p.sem:
		return r
	default:
	}

	// Check if we can create a new renderer
	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()
		return NewRenderer(p.opts...)
	}
	p.mu.Unlock()

	// All renderers created, wait for one to be released
	return <-p.sem
}

// Release returns a renderer to the pool.
func (p *RendererPool) Release(r *Renderer) {
	p.sem <- r
}

// Size returns the pool capacity.
func (p *RendererPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
