package pathutil

import "sync"

const (
	defaultSegments = 8  // value paths are rarely deeper
	maxSegments     = 64 // larger builders are left to the GC
)

var builderPool = sync.Pool{
	New: func() any {
		return &PathBuilder{segments: make([]string, 0, defaultSegments)}
	},
}

// Get returns an empty PathBuilder from the pool.
func Get() *PathBuilder {
	p := builderPool.Get().(*PathBuilder)
	p.Reset()
	return p
}

// Put returns p to the pool. Nil and oversized builders are dropped.
func Put(p *PathBuilder) {
	if p == nil || cap(p.segments) > maxSegments {
		return
	}
	builderPool.Put(p)
}
