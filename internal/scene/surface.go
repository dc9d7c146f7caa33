// Package scene holds a retained SVG scene graph and the positional
// enter/update/exit join used to bind data sequences to its elements.
//
// A Surface is not safe for concurrent use; callers serialise redraws.
package scene

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// NoDataPattern is the id of the hatch pattern used for empty buckets
const NoDataPattern = "noDataStripes"

// Handler receives the datum and index bound to an element when an event fires
type Handler func(datum any, index int)

// Element is a single drawn shape
type Element struct {
	Tag      string
	attrs    map[string]string
	datum    any
	index    int
	handlers map[string]Handler
}

func newElement(tag string) *Element {
	return &Element{
		Tag:      tag,
		attrs:    make(map[string]string),
		handlers: make(map[string]Handler),
	}
}

// Attr returns the value of an attribute
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// Attrs returns a copy of the element attributes
func (e *Element) Attrs() map[string]string {
	out := make(map[string]string, len(e.attrs))
	for k, v := range e.attrs {
		out[k] = v
	}
	return out
}

// AttrNames returns attribute names with class first, the rest sorted
func (e *Element) AttrNames() []string {
	names := make([]string, 0, len(e.attrs))
	for k := range e.attrs {
		if k != "class" {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	if _, ok := e.attrs["class"]; ok {
		names = append([]string{"class"}, names...)
	}
	return names
}

// Classes returns the space separated class list
func (e *Element) Classes() []string {
	return strings.Fields(e.attrs["class"])
}

// HasClass reports whether the element carries the class
func (e *Element) HasClass(class string) bool {
	for _, c := range e.Classes() {
		if c == class {
			return true
		}
	}
	return false
}

// Hidden reports whether the element is excluded from drawing
func (e *Element) Hidden() bool {
	return e.attrs["display"] == "none"
}

// Datum returns the bound datum
func (e *Element) Datum() any { return e.datum }

// Index returns the position of the bound datum in its sequence
func (e *Element) Index() int { return e.index }

// Handles reports whether a handler is attached for the event
func (e *Element) Handles(event string) bool {
	_, ok := e.handlers[event]
	return ok
}

// Pattern is a hatch fill declared in the surface defs
type Pattern struct {
	ID          string
	Size        float64
	Angle       float64
	Stroke      string
	StrokeWidth float64
}

// Surface is the drawing target: a canvas size, defs and ordered elements
type Surface struct {
	Width    float64
	Height   float64
	Patterns []Pattern
	elements []*Element
}

// NewSurface creates an empty surface with the no-data hatch pattern declared
func NewSurface(width, height float64) *Surface {
	return &Surface{
		Width:  width,
		Height: height,
		Patterns: []Pattern{
			{ID: NoDataPattern, Size: 4, Angle: 45, Stroke: "#B3B3B3", StrokeWidth: 1.5},
		},
	}
}

// Elements returns all elements in document order
func (s *Surface) Elements() []*Element {
	out := make([]*Element, len(s.elements))
	copy(out, s.elements)
	return out
}

// Len returns the number of elements on the surface
func (s *Surface) Len() int {
	return len(s.elements)
}

// SelectAll returns elements matching any of the selectors, in document order.
// Selectors take the form "tag.class", ".class" or "tag".
func (s *Surface) SelectAll(selectors ...string) []*Element {
	parsed := parseSelectors(selectors)
	var out []*Element
	for _, el := range s.elements {
		for _, sel := range parsed {
			if sel.matches(el) {
				out = append(out, el)
				break
			}
		}
	}
	return out
}

// RemoveAll detaches every element matching the selectors and returns the count
func (s *Surface) RemoveAll(selectors ...string) int {
	return s.remove(s.SelectAll(selectors...))
}

// Dispatch fires an event on an element. It returns false when no handler is attached.
func (s *Surface) Dispatch(el *Element, event string) bool {
	h, ok := el.handlers[event]
	if !ok || h == nil {
		return false
	}
	h(el.datum, el.index)
	return true
}

func (s *Surface) append(el *Element) {
	s.elements = append(s.elements, el)
}

func (s *Surface) remove(nodes []*Element) int {
	if len(nodes) == 0 {
		return 0
	}
	drop := make(map[*Element]struct{}, len(nodes))
	for _, n := range nodes {
		drop[n] = struct{}{}
	}
	kept := s.elements[:0]
	removed := 0
	for _, el := range s.elements {
		if _, ok := drop[el]; ok {
			removed++
			continue
		}
		kept = append(kept, el)
	}
	for i := len(kept); i < len(s.elements); i++ {
		s.elements[i] = nil
	}
	s.elements = kept
	return removed
}

// NodeState is a comparable copy of one element
type NodeState struct {
	Tag   string
	Index int
	Attrs map[string]string
}

// Snapshot copies every element's tag, index and attributes
func (s *Surface) Snapshot() []NodeState {
	out := make([]NodeState, 0, len(s.elements))
	for _, el := range s.elements {
		out = append(out, NodeState{Tag: el.Tag, Index: el.index, Attrs: el.Attrs()})
	}
	return out
}

type selector struct {
	tag   string
	class string
}

func (sel selector) matches(el *Element) bool {
	if sel.tag != "" && sel.tag != el.Tag {
		return false
	}
	if sel.class != "" && !el.HasClass(sel.class) {
		return false
	}
	return true
}

func parseSelectors(selectors []string) []selector {
	var out []selector
	for _, raw := range selectors {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			tag, class, _ := strings.Cut(part, ".")
			out = append(out, selector{tag: tag, class: class})
		}
	}
	return out
}

// FormatNumber renders a coordinate rounded to three decimals
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
