package pathutil

import (
	"strconv"
	"strings"
)

// PathBuilder builds value paths such as "body.tags[0].name" incrementally.
// Segments are pushed and popped while a value is walked; the string form is
// only produced when String is called, which normally happens once when a
// validation error is reported.
type PathBuilder struct {
	segments []string
	length   int // length of String(), kept for a single allocation
}

// Push appends a named segment, joined with a dot.
func (p *PathBuilder) Push(segment string) {
	p.segments = append(p.segments, segment)
	if len(p.segments) > 1 {
		p.length++
	}
	p.length += len(segment)
}

// PushIndex appends an element index: "[0]", "[1]", etc.
func (p *PathBuilder) PushIndex(i int) {
	seg := "[" + strconv.Itoa(i) + "]"
	p.segments = append(p.segments, seg)
	p.length += len(seg)
}

// Pop removes the last segment. It is a no-op on an empty builder.
func (p *PathBuilder) Pop() {
	if len(p.segments) == 0 {
		return
	}
	last := p.segments[len(p.segments)-1]
	p.segments = p.segments[:len(p.segments)-1]
	p.length -= len(last)
	if len(p.segments) > 0 && !isIndex(last) {
		p.length--
	}
}

// Reset clears the builder for reuse.
func (p *PathBuilder) Reset() {
	p.segments = p.segments[:0]
	p.length = 0
}

// String materializes the path.
func (p *PathBuilder) String() string {
	if len(p.segments) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(p.length)
	b.WriteString(p.segments[0])
	for _, seg := range p.segments[1:] {
		if !isIndex(seg) {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

func isIndex(seg string) bool {
	return len(seg) > 0 && seg[0] == '['
}
