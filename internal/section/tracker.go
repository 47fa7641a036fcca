package section

import (
	"context"
	"sync"
)

// Rect is where one section currently sits, relative to the viewport top.
// Top is negative once the section has scrolled above the viewport.
type Rect struct {
	Key    Key     `json:"key"`
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// Frame is one geometry sample of the page, taken on scroll or resize.
//
// Sections missing from a frame are not mounted yet. That is not an error;
// they are considered again as soon as a later frame includes them.
type Frame struct {
	ViewportHeight float64 `json:"viewportHeight"`
	HeaderOffset   float64 `json:"headerOffset"`
	ScrollY        float64 `json:"scrollY"`
	Sections       []Rect  `json:"sections"`
}

// Tracker maintains the "active section": the visible section that takes up
// the most room in the viewport below the fixed header.
//
// STATE:
// The active key is always one of the visible keys. It starts at the first
// visible section and only changes when a frame is observed or the visible
// set is replaced. There is no terminal state; the tracker lives as long as
// the page view that owns it.
//
// SUBSCRIPTIONS:
// Each subscriber gets a channel with a buffer of one. When a subscriber is
// slow, the pending value is replaced by the newer one, so a reader is never
// more than one change behind and the tracker never blocks on a reader.
// Close releases every subscriber; call it when the page view goes away.
type Tracker struct {
	mu      sync.Mutex
	visible []Descriptor
	active  Key
	last    *Frame

	subs   map[int]chan Key
	nextID int
	closed bool
}

// NewTracker returns a tracker whose initial active section is the first of
// visible.
func NewTracker(visible []Descriptor) *Tracker {
	t := &Tracker{subs: make(map[int]chan Key)}
	t.visible = append([]Descriptor(nil), visible...)
	if len(t.visible) > 0 {
		t.active = t.visible[0].Key
	}
	return t
}

// Active returns the current active key.
func (t *Tracker) Active() Key {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Observe evaluates one frame and returns the resulting active key.
//
// The section with the largest visible height inside the band between the
// header and the bottom of the viewport wins. Ties go to the higher
// intersection ratio, then to catalog order. Hidden sections are ignored
// even if the frame reports them. When nothing intersects the band the
// previous value is kept.
func (t *Tracker) Observe(f Frame) Key {
	t.mu.Lock()
	defer t.mu.Unlock()

	frame := f
	t.last = &frame
	t.evaluateLocked()
	return t.active
}

// SetVisible replaces the visible set, e.g. when the record finished loading
// after tracking started. The last observed frame is re-scanned so sections
// that just became visible can take over immediately.
func (t *Tracker) SetVisible(visible []Descriptor) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.visible = append([]Descriptor(nil), visible...)
	if indexOf(t.visible, t.active) < 0 {
		next := Key("")
		if len(t.visible) > 0 {
			next = t.visible[0].Key
		}
		t.setActiveLocked(next)
	}
	if t.last != nil {
		t.evaluateLocked()
	}
}

func (t *Tracker) evaluateLocked() {
	f := t.last
	bandTop := f.HeaderOffset
	bandBottom := f.ViewportHeight
	if bandBottom <= bandTop {
		return
	}

	best := -1
	var bestVisible, bestRatio float64
	for _, r := range f.Sections {
		order := indexOf(t.visible, r.Key)
		if order < 0 || r.Height <= 0 {
			continue
		}
		visible := min(r.Top+r.Height, bandBottom) - max(r.Top, bandTop)
		if visible <= 0 {
			continue
		}
		ratio := visible / r.Height

		switch {
		case best < 0,
			visible > bestVisible,
			visible == bestVisible && ratio > bestRatio,
			visible == bestVisible && ratio == bestRatio && order < best:
			best, bestVisible, bestRatio = order, visible, ratio
		}
	}

	if best >= 0 {
		t.setActiveLocked(t.visible[best].Key)
	}
}

func (t *Tracker) setActiveLocked(k Key) {
	if k == t.active {
		return
	}
	t.active = k
	for _, ch := range t.subs {
		select {
		case ch <- k:
		default:
			// Replace the stale pending value.
			select {
			case <-ch:
			default:
			}
			ch <- k
		}
	}
}

// Subscribe returns a channel of active-key changes and a function that
// cancels the subscription. The current value is delivered first. The
// channel is closed on cancel or Close; cancel is safe to call twice.
func (t *Tracker) Subscribe() (<-chan Key, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan Key, 1)
	if t.closed {
		close(ch)
		return ch, func() {}
	}

	id := t.nextID
	t.nextID++
	t.subs[id] = ch
	if t.active != "" {
		ch <- t.active
	}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			if c, ok := t.subs[id]; ok {
				delete(t.subs, id)
				close(c)
			}
		})
	}
}

// Run feeds frames into Observe until ctx is done or frames is closed.
func (t *Tracker) Run(ctx context.Context, frames <-chan Frame) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-frames:
			if !ok {
				return nil
			}
			t.Observe(f)
		}
	}
}

// Close releases every subscriber. Later Subscribe calls get a closed
// channel.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.closed = true
	for id, ch := range t.subs {
		delete(t.subs, id)
		close(ch)
	}
}
