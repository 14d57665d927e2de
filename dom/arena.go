package dom

// Arena owns every node of one document. Nodes are created by the tree
// builder and never freed individually; the whole Arena is discarded
// together when the document is dropped.
type Arena struct {
	nodes []Node
}

// NewArena creates an Arena containing only the Document node at DocumentID.
func NewArena() *Arena {
	a := &Arena{nodes: make([]Node, 0, 256)}
	a.nodes = append(a.nodes, Node{
		Kind:        DocumentNode,
		Parent:      NoNode,
		FirstChild:  NoNode,
		LastChild:   NoNode,
		PrevSibling: NoNode,
		NextSibling: NoNode,
	})
	return a
}

// Node returns a pointer to the node identified by id. The pointer is
// valid only until the next allocation on this Arena (append may move
// the backing array).
func (a *Arena) Node(id NodeID) *Node {
	return &a.nodes[id]
}

// Len reports how many nodes the arena holds, including the Document.
func (a *Arena) Len() int { return len(a.nodes) }

func (a *Arena) alloc(n Node) NodeID {
	n.Parent = NoNode
	n.FirstChild = NoNode
	n.LastChild = NoNode
	n.PrevSibling = NoNode
	n.NextSibling = NoNode
	a.nodes = append(a.nodes, n)
	return NodeID(len(a.nodes) - 1)
}

// NewElement allocates an unattached Element node with the given
// ASCII-lowercased local name.
func (a *Arena) NewElement(localName string) NodeID {
	return a.alloc(Node{Kind: ElementNode, LocalName: localName})
}

// NewElementNS allocates an unattached foreign-content Element node.
func (a *Arena) NewElementNS(localName, namespace string) NodeID {
	return a.alloc(Node{Kind: ElementNode, LocalName: localName, Namespace: namespace})
}

// NewText allocates an unattached Text node.
func (a *Arena) NewText(data string) NodeID {
	return a.alloc(Node{Kind: TextNode, Data: data})
}

// NewComment allocates an unattached Comment node.
func (a *Arena) NewComment(data string) NodeID {
	return a.alloc(Node{Kind: CommentNode, Data: data})
}

// AppendChild appends child to the end of parent's child list. If child
// is already attached elsewhere, callers must Remove it first.
func (a *Arena) AppendChild(parent, child NodeID) {
	p := a.Node(parent)
	c := a.Node(child)
	c.Parent = parent
	c.PrevSibling = NoNode
	c.NextSibling = NoNode
	if p.LastChild == NoNode {
		p.FirstChild = child
	} else {
		a.Node(p.LastChild).NextSibling = child
		c.PrevSibling = p.LastChild
	}
	p.LastChild = child
}

// InsertBefore inserts child immediately before reference in parent's
// child list. If reference is NoNode, child is appended.
func (a *Arena) InsertBefore(parent, child, reference NodeID) {
	if reference == NoNode {
		a.AppendChild(parent, child)
		return
	}
	p := a.Node(parent)
	ref := a.Node(reference)
	c := a.Node(child)
	c.Parent = parent
	c.NextSibling = reference
	c.PrevSibling = ref.PrevSibling
	if ref.PrevSibling != NoNode {
		a.Node(ref.PrevSibling).NextSibling = child
	} else {
		p.FirstChild = child
	}
	ref.PrevSibling = child
}

// Remove detaches id from its parent and both siblings. It does not
// recursively detach descendants; they remain reachable from id.
func (a *Arena) Remove(id NodeID) {
	n := a.Node(id)
	if n.PrevSibling != NoNode {
		a.Node(n.PrevSibling).NextSibling = n.NextSibling
	} else if n.Parent != NoNode {
		a.Node(n.Parent).FirstChild = n.NextSibling
	}
	if n.NextSibling != NoNode {
		a.Node(n.NextSibling).PrevSibling = n.PrevSibling
	} else if n.Parent != NoNode {
		a.Node(n.Parent).LastChild = n.PrevSibling
	}
	n.Parent = NoNode
	n.PrevSibling = NoNode
	n.NextSibling = NoNode
}

// Children returns the handles of id's children in document order.
func (a *Arena) Children(id NodeID) []NodeID {
	var out []NodeID
	for c := a.Node(id).FirstChild; c != NoNode; c = a.Node(c).NextSibling {
		out = append(out, c)
	}
	return out
}

// Walk calls fn for every node in the subtree rooted at id, in document
// (pre-)order, including id itself.
func (a *Arena) Walk(id NodeID, fn func(NodeID)) {
	fn(id)
	for c := a.Node(id).FirstChild; c != NoNode; c = a.Node(c).NextSibling {
		a.Walk(c, fn)
	}
}

// Coherent verifies the tree's structural invariants: every child
// appears exactly once in its parent's list, sibling links agree, and
// the Document has no parent. It is intended for use by tests.
func (a *Arena) Coherent() bool {
	for id := 1; id < len(a.nodes); id++ {
		n := &a.nodes[id]
		if n.Parent == NoNode {
			continue // detached subtree root, not necessarily an error
		}
		found := false
		var prev NodeID = NoNode
		for c := a.Node(n.Parent).FirstChild; c != NoNode; c = a.Node(c).NextSibling {
			if a.Node(c).PrevSibling != prev {
				return false
			}
			if c == NodeID(id) {
				found = true
			}
			prev = c
		}
		if !found {
			return false
		}
	}
	if a.Node(DocumentID).Parent != NoNode {
		return false
	}
	return true
}
