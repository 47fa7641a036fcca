package section

import (
	"errors"
	"math"
	"sync"
)

// ErrUnknownSection is returned when navigating to a section that is not in
// the visible set.
var ErrUnknownSection = errors.New("section: unknown or hidden section")

// DefaultHeaderOffset is the height of the fixed page header, in CSS pixels.
const DefaultHeaderOffset = 80

// scrollTolerance is how close (in pixels) the viewport must already be to
// the target for a navigation to be skipped.
const scrollTolerance = 0.5

// Scroller moves the viewport.
type Scroller interface {
	// ScrollY is the current vertical scroll offset of the document.
	ScrollY() float64
	// SmoothScrollTo starts an animated scroll to y.
	SmoothScrollTo(y float64)
}

// Layout maps a section to its top edge in document coordinates.
type Layout map[Key]float64

// LayoutFromFrame converts the viewport-relative rectangles of f into
// document coordinates.
func LayoutFromFrame(f Frame) Layout {
	l := make(Layout, len(f.Sections))
	for _, r := range f.Sections {
		l[r.Key] = f.ScrollY + r.Top
	}
	return l
}

// Navigator scrolls the page to a section, leaving room for the header.
type Navigator struct {
	scroller     Scroller
	headerOffset float64

	mu      sync.Mutex
	visible []Descriptor
	layout  Layout
}

// NewNavigator returns a Navigator for the given visible sections. A
// negative headerOffset is treated as zero.
func NewNavigator(s Scroller, visible []Descriptor, headerOffset float64) *Navigator {
	return &Navigator{
		scroller:     s,
		headerOffset: math.Max(0, headerOffset),
		visible:      append([]Descriptor(nil), visible...),
		layout:       Layout{},
	}
}

// SetVisible replaces the set of sections that can be navigated to.
func (n *Navigator) SetVisible(visible []Descriptor) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.visible = append([]Descriptor(nil), visible...)
}

// SetLayout records where the sections currently are.
func (n *Navigator) SetLayout(l Layout) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.layout = l
}

// Target returns the scroll offset that aligns key with the bottom of the
// header.
func (n *Navigator) Target(key Key) (float64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.targetLocked(key)
}

func (n *Navigator) targetLocked(key Key) (float64, error) {
	if indexOf(n.visible, key) < 0 {
		return 0, ErrUnknownSection
	}
	top, ok := n.layout[key]
	if !ok {
		// Visible but not laid out yet.
		return 0, ErrUnknownSection
	}
	return math.Max(0, top-n.headerOffset), nil
}

// NavigateTo smooth-scrolls to key. It does nothing when the viewport is
// already within half a pixel of the target, so repeated calls settle on
// the same position as a single one.
func (n *Navigator) NavigateTo(key Key) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	target, err := n.targetLocked(key)
	if err != nil {
		return err
	}
	if math.Abs(n.scroller.ScrollY()-target) < scrollTolerance {
		return nil
	}
	n.scroller.SmoothScrollTo(target)
	return nil
}
