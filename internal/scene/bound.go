package scene

// Bound is a set of nodes whose datum type is T
type Bound[T any] struct {
	surface *Surface
	nodes   []*Element
}

// Len returns the number of nodes
func (b *Bound[T]) Len() int { return len(b.nodes) }

// Nodes returns the underlying elements
func (b *Bound[T]) Nodes() []*Element {
	out := make([]*Element, len(b.nodes))
	copy(out, b.nodes)
	return out
}

func (b *Bound[T]) datum(el *Element) T {
	d, _ := el.datum.(T)
	return d
}

// Attr sets an attribute computed from each node's datum and index
func (b *Bound[T]) Attr(name string, fn func(d T, i int) string) *Bound[T] {
	for _, el := range b.nodes {
		el.attrs[name] = fn(b.datum(el), el.index)
	}
	return b
}

// AttrFloat sets a numeric attribute computed from each node's datum and index
func (b *Bound[T]) AttrFloat(name string, fn func(d T, i int) float64) *Bound[T] {
	for _, el := range b.nodes {
		el.attrs[name] = FormatNumber(fn(b.datum(el), el.index))
	}
	return b
}

// AttrConst sets the same attribute value on every node
func (b *Bound[T]) AttrConst(name, value string) *Bound[T] {
	for _, el := range b.nodes {
		el.attrs[name] = value
	}
	return b
}

// Class sets the class attribute from each node's datum
func (b *Bound[T]) Class(fn func(d T, i int) string) *Bound[T] {
	return b.Attr("class", fn)
}

// ClassConst sets the same class on every node
func (b *Bound[T]) ClassConst(class string) *Bound[T] {
	return b.AttrConst("class", class)
}

// RemoveAttr deletes attributes from every node
func (b *Bound[T]) RemoveAttr(names ...string) *Bound[T] {
	for _, el := range b.nodes {
		for _, n := range names {
			delete(el.attrs, n)
		}
	}
	return b
}

// Filter returns the nodes whose datum satisfies keep
func (b *Bound[T]) Filter(keep func(d T, i int) bool) *Bound[T] {
	match, _ := b.Partition(keep)
	return match
}

// Partition splits the nodes by predicate
func (b *Bound[T]) Partition(pred func(d T, i int) bool) (match, rest *Bound[T]) {
	match = &Bound[T]{surface: b.surface}
	rest = &Bound[T]{surface: b.surface}
	for _, el := range b.nodes {
		if pred(b.datum(el), el.index) {
			match.nodes = append(match.nodes, el)
		} else {
			rest.nodes = append(rest.nodes, el)
		}
	}
	return match, rest
}

// On attaches an event handler. A nil fn detaches it.
func (b *Bound[T]) On(event string, fn func(d T, i int)) *Bound[T] {
	for _, el := range b.nodes {
		if fn == nil {
			delete(el.handlers, event)
			continue
		}
		el.handlers[event] = func(d any, i int) {
			v, _ := d.(T)
			fn(v, i)
		}
	}
	return b
}

// Merge returns the union of two bound sets, b first
func (b *Bound[T]) Merge(other *Bound[T]) *Bound[T] {
	out := &Bound[T]{surface: b.surface}
	out.nodes = append(out.nodes, b.nodes...)
	out.nodes = append(out.nodes, other.nodes...)
	return out
}

// Call runs fn with the bound set and returns it for chaining
func (b *Bound[T]) Call(fn func(*Bound[T])) *Bound[T] {
	fn(b)
	return b
}
