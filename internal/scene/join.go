package scene

// Join is the result of binding a data sequence to the elements of a selection.
// Nodes and data are matched by position.
type Join[T any] struct {
	surface *Surface
	data    []T
	update  []*Element
	enter   []int
	exit    []*Element
}

// Bind matches data against the elements selected by selectors
func Bind[T any](s *Surface, data []T, selectors ...string) *Join[T] {
	nodes := s.SelectAll(selectors...)
	j := &Join[T]{surface: s, data: data}
	for i := range data {
		if i < len(nodes) {
			nodes[i].datum = data[i]
			nodes[i].index = i
			j.update = append(j.update, nodes[i])
			continue
		}
		j.enter = append(j.enter, i)
	}
	if len(nodes) > len(data) {
		j.exit = nodes[len(data):]
	}
	return j
}

// Update returns the nodes that already had a counterpart in the data
func (j *Join[T]) Update() *Bound[T] {
	return &Bound[T]{surface: j.surface, nodes: j.update}
}

// Enter returns the data items that have no node yet
func (j *Join[T]) Enter() *Pending[T] {
	return &Pending[T]{surface: j.surface, data: j.data, indexes: j.enter}
}

// Exit returns the nodes that no longer have data
func (j *Join[T]) Exit() *Exit {
	return &Exit{surface: j.surface, nodes: j.exit}
}

// Pending holds entered data awaiting nodes
type Pending[T any] struct {
	surface *Surface
	data    []T
	indexes []int
}

// Len returns the number of entered data items
func (p *Pending[T]) Len() int { return len(p.indexes) }

// Append creates one node per entered datum and attaches it to the surface
func (p *Pending[T]) Append(tag string) *Bound[T] {
	b := &Bound[T]{surface: p.surface}
	for _, i := range p.indexes {
		el := newElement(tag)
		el.datum = p.data[i]
		el.index = i
		p.surface.append(el)
		b.nodes = append(b.nodes, el)
	}
	return b
}

// Exit holds stale nodes
type Exit struct {
	surface *Surface
	nodes   []*Element
}

// Len returns the number of stale nodes
func (x *Exit) Len() int { return len(x.nodes) }

// Remove detaches the stale nodes from the surface
func (x *Exit) Remove() int {
	return x.surface.remove(x.nodes)
}

// Reconcile binds data to the selected category, runs build over updated and
// entered nodes, and removes the rest. The category ends with len(data) nodes.
func Reconcile[T any](s *Surface, data []T, tag string, build func(*Bound[T]), selectors ...string) *Bound[T] {
	j := Bind(s, data, selectors...)

	// update existing
	updated := j.Update()
	build(updated)

	// add new ones
	entered := j.Enter().Append(tag)
	build(entered)

	// remove old ones
	j.Exit().Remove()

	return updated.Merge(entered)
}
