package colpath

import "iter"

// Node is a path-indexed tree node. The root has depth -1 and no name, so
// the depth of any other node equals the depth of its path.
type Node[T any] struct {
	name     string
	depth    int
	data     T
	parent   *Node[T]
	children []*Node[T]
	index    map[string]*Node[T]
}

// NewRoot creates an empty tree.
func NewRoot[T any]() *Node[T] {
	return &Node[T]{depth: -1, index: map[string]*Node[T]{}}
}

func (n *Node[T]) Name() string { return n.name }
func (n *Node[T]) Depth() int { return n.depth }
func (n *Node[T]) Data() T { return n.data }
func (n *Node[T]) SetData(data T) { n.data = data }
func (n *Node[T]) Parent() *Node[T] { return n.parent }
func (n *Node[T]) IsRoot() bool { return n.parent == nil }
func (n *Node[T]) Children() []*Node[T] { return n.children }

// Child returns the direct child with the given name, or nil.
func (n *Node[T]) Child(name string) *Node[T] { return n.index[name] }

// AddChild appends a child. Adding an existing name replaces its data.
func (n *Node[T]) AddChild(name string, data T) *Node[T] {
	if c, ok := n.index[name]; ok {
		c.data = data
		return c
	}
	c := &Node[T]{
		name:   name,
		depth:  n.depth + 1,
		data:   data,
		parent: n,
		index:  map[string]*Node[T]{},
	}
	n.children = append(n.children, c)
	n.index[name] = c
	return c
}

// GetOrPut returns the named child, creating it with the zero value if absent.
func (n *Node[T]) GetOrPut(name string) *Node[T] {
	if c, ok := n.index[name]; ok {
		return c
	}
	var zero T
	return n.AddChild(name, zero)
}

// GetOrPutPath walks path from n, creating missing nodes.
func (n *Node[T]) GetOrPutPath(path Path) *Node[T] {
	cur := n
	for _, name := range path {
		cur = cur.GetOrPut(name)
	}
	return cur
}

// Get returns the node at path relative to n, or nil.
func (n *Node[T]) Get(path Path) *Node[T] {
	cur := n
	for _, name := range path {
		cur = cur.index[name]
		if cur == nil {
			return nil
		}
	}
	return cur
}

// PathFromRoot returns the names from the root down to n.
func (n *Node[T]) PathFromRoot() Path {
	p := make(Path, n.depth+1)
	for cur := n; cur != nil && !cur.IsRoot(); cur = cur.parent {
		p[cur.depth] = cur.name
	}
	return p
}

// DFS walks the subtree in pre-order, n included. Nodes satisfying yield are
// produced; children are visited only when enter accepts the node.
func (n *Node[T]) DFS(enter, yield func(*Node[T]) bool) iter.Seq[*Node[T]] {
	return func(out func(*Node[T]) bool) {
		var walk func(*Node[T]) bool
		walk = func(node *Node[T]) bool {
			if yield(node) && !out(node) {
				return false
			}
			if enter(node) {
				for _, c := range node.children {
					if !walk(c) {
						return false
					}
				}
			}
			return true
		}
		walk(n)
	}
}

// TopDFS yields the top-most nodes satisfying yield, skipping their subtrees.
func (n *Node[T]) TopDFS(yield func(*Node[T]) bool) iter.Seq[*Node[T]] {
	return n.DFS(func(node *Node[T]) bool { return !yield(node) }, yield)
}

// Descendants yields every node below n in pre-order.
func (n *Node[T]) Descendants() iter.Seq[*Node[T]] {
	return func(out func(*Node[T]) bool) {
		for node := range n.DFS(always[T], always[T]) {
			if node == n {
				continue
			}
			if !out(node) {
				return
			}
		}
	}
}

func always[T any](*Node[T]) bool { return true }
