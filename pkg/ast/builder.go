package ast

// AppendChild appends a child node to a parent.
// It maintains the parent/child/sibling relationships correctly.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}

	// Remove from previous parent if any.
	if child.Parent != nil {
		RemoveChild(child.Parent, child)
	}

	child.Parent = parent
	child.Prev = parent.LastChild
	child.Next = nil

	if parent.LastChild != nil {
		parent.LastChild.Next = child
	} else {
		parent.FirstChild = child
	}

	parent.LastChild = child
	parent.invalidate()
}

// InsertBefore inserts newNode before sibling.
// sibling must have a parent.
func InsertBefore(sibling, newNode *Node) {
	if sibling == nil || newNode == nil || sibling.Parent == nil {
		return
	}

	parent := sibling.Parent

	if newNode.Parent != nil {
		RemoveChild(newNode.Parent, newNode)
	}

	newNode.Parent = parent
	newNode.Prev = sibling.Prev
	newNode.Next = sibling

	if sibling.Prev != nil {
		sibling.Prev.Next = newNode
	} else {
		parent.FirstChild = newNode
	}

	sibling.Prev = newNode
	parent.invalidate()
}

// InsertAt inserts child so that it ends up at position index among parent's
// children. An index equal to the child count appends.
func InsertAt(parent, child *Node, index int) {
	if parent == nil || child == nil {
		return
	}
	if at := parent.ChildAt(index); at != nil && at != child {
		InsertBefore(at, child)
		return
	}
	AppendChild(parent, child)
}

// RemoveChild removes a child from its parent.
func RemoveChild(parent, child *Node) {
	if parent == nil || child == nil || child.Parent != parent {
		return
	}

	if child.Prev != nil {
		child.Prev.Next = child.Next
	} else {
		parent.FirstChild = child.Next
	}

	if child.Next != nil {
		child.Next.Prev = child.Prev
	} else {
		parent.LastChild = child.Prev
	}

	child.Parent = nil
	child.Prev = nil
	child.Next = nil
	parent.invalidate()
}

// ReplaceChild replaces oldChild with newChild in the tree.
func ReplaceChild(parent, oldChild, newChild *Node) {
	if parent == nil || oldChild == nil || newChild == nil {
		return
	}

	if oldChild.Parent != parent {
		return
	}

	if newChild.Parent != nil {
		RemoveChild(newChild.Parent, newChild)
	}

	newChild.Parent = parent
	newChild.Prev = oldChild.Prev
	newChild.Next = oldChild.Next

	if oldChild.Prev != nil {
		oldChild.Prev.Next = newChild
	} else {
		parent.FirstChild = newChild
	}

	if oldChild.Next != nil {
		oldChild.Next.Prev = newChild
	} else {
		parent.LastChild = newChild
	}

	oldChild.Parent = nil
	oldChild.Prev = nil
	oldChild.Next = nil
	parent.invalidate()
}

// Expand attaches the parsed children of a collapsed lazy node.
// The children must cover exactly the node's text; Expand returns false and
// leaves the node untouched otherwise.
func Expand(lazy *Node, children []*Node) bool {
	if lazy == nil || !lazy.IsCollapsed() {
		return false
	}

	total := 0
	for _, child := range children {
		total += child.TextLength()
	}
	if total != len(lazy.text) {
		return false
	}

	for _, child := range children {
		AppendChild(lazy, child)
	}
	lazy.text = ""
	lazy.invalidate()

	return true
}
