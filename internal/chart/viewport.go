package chart

import (
	"sync"
	"time"
)

// DefaultDebounce is the viewport settle window. Resize streams
// collapse to one notification per settle.
const DefaultDebounce = 120 * time.Millisecond

// Viewport tracks the container width and debounces resize bursts.
// Subscribers observe the settled width; renders are re-run by the
// host, never by the viewport itself.
type Viewport struct {
	mu        sync.Mutex
	debounce  time.Duration
	width     int
	target    int
	timer     *time.Timer
	subs      map[int]func(int)
	nextSubID int
	closed    bool
}

// NewViewport returns a viewport with the given settle window.
// A non-positive debounce uses DefaultDebounce.
func NewViewport(debounce time.Duration) *Viewport {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Viewport{
		debounce: debounce,
		width:    MinContainerWidth,
		target:   MinContainerWidth,
		subs:     make(map[int]func(int)),
	}
}

// SetWidth records a new container width, clamped to the render
// minimum. Repeated calls within the settle window replace the pending
// target; a width equal to the settled one is a no-op.
func (v *Viewport) SetWidth(width int) {
	if width < MinContainerWidth {
		width = MinContainerWidth
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	if width == v.target {
		return
	}
	v.target = width
	if v.timer != nil {
		v.timer.Stop()
	}
	v.timer = time.AfterFunc(v.debounce, v.settle)
}

func (v *Viewport) settle() {
	v.mu.Lock()
	if v.closed || v.target == v.width {
		v.mu.Unlock()
		return
	}
	v.width = v.target
	width := v.width
	subs := make([]func(int), 0, len(v.subs))
	for _, fn := range v.subs {
		subs = append(subs, fn)
	}
	v.mu.Unlock()

	for _, fn := range subs {
		fn(width)
	}
}

// Width returns the settled width.
func (v *Viewport) Width() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width
}

// Subscribe registers fn for settled-width changes and returns its
// cancel. Callbacks run outside the viewport lock.
func (v *Viewport) Subscribe(fn func(width int)) (cancel func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := v.nextSubID
	v.nextSubID++
	if !v.closed {
		v.subs[id] = fn
	}
	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.subs, id)
	}
}

// Close stops the pending settle and drops all subscribers. Further
// SetWidth calls are ignored.
func (v *Viewport) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	v.subs = make(map[int]func(int))
}
