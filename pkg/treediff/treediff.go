// Package treediff computes a small edit script that turns an existing tree
// into the shape of a newly parsed one. It is generic over both node types so
// the old side can be a persistent tree while the new side is a flyweight view.
package treediff

import (
	"context"
	"fmt"
)

// ThreeState is the result of a shallow deep-equality test.
type ThreeState uint8

const (
	// Unsure means the nodes must be compared by hash or by their children.
	Unsure ThreeState = iota

	// Yes means the subtrees are known to be equal.
	Yes

	// No means the subtrees are known to differ.
	No
)

func (s ThreeState) String() string {
	switch s {
	case Yes:
		return "YES"
	case No:
		return "NO"
	default:
		return "UNSURE"
	}
}

// OldTree exposes the children of the tree being patched.
type OldTree[O any] interface {
	Children(node O) []O
	IsLeaf(node O) bool
}

// NewTree exposes the children of the freshly parsed tree.
// Child slices are handed back through DisposeChildren once the diff no longer
// needs them, so implementations may pool the nodes.
type NewTree[N any] interface {
	Children(node N) []N
	DisposeChildren(nodes []N)
	IsLeaf(node N) bool
}

// Comparator decides how old and new nodes relate without walking subtrees.
type Comparator[O, N any] interface {
	DeepEqual(oldNode O, newNode N) ThreeState
	TypesEqual(oldNode O, newNode N) bool
	HashesEqual(oldNode O, newNode N) bool
}

// ChangeBuilder receives the edits. New nodes are only valid for the duration
// of the call.
type ChangeBuilder[O, N any] interface {
	NodeDeleted(oldParent O, oldNode O)
	NodeInserted(oldParent O, newNode N, index int)
	NodeReplaced(oldNode O, newNode N)
}

// Diff reports the edits that make oldRoot match newRoot.
// For each parent, deletions are reported before insertions and insertion
// indexes are final positions in increasing order. The context is checked once
// per composite node; a cancelled diff may have reported some edits already.
func Diff[O, N any](
	ctx context.Context,
	oldTree OldTree[O],
	newTree NewTree[N],
	oldRoot O,
	newRoot N,
	cmp Comparator[O, N],
	out ChangeBuilder[O, N],
) error {
	d := &differ[O, N]{ctx: ctx, old: oldTree, new: newTree, cmp: cmp, out: out}
	return d.build(oldRoot, newRoot)
}

type differ[O, N any] struct {
	ctx context.Context
	old OldTree[O]
	new NewTree[N]
	cmp Comparator[O, N]
	out ChangeBuilder[O, N]
}

func (d *differ[O, N]) build(oldNode O, newNode N) error {
	if err := d.ctx.Err(); err != nil {
		return fmt.Errorf("diff cancelled: %w", err)
	}

	oldKids := d.old.Children(oldNode)
	newKids := d.new.Children(newNode)
	defer d.new.DisposeChildren(newKids)

	start := 0
	for start < len(oldKids) && start < len(newKids) {
		matched, err := d.matchAndDescend(oldKids[start], newKids[start])
		if err != nil {
			return err
		}
		if !matched {
			break
		}
		start++
	}

	oldEnd, newEnd := len(oldKids), len(newKids)
	for oldEnd > start && newEnd > start {
		matched, err := d.matchAndDescend(oldKids[oldEnd-1], newKids[newEnd-1])
		if err != nil {
			return err
		}
		if !matched {
			break
		}
		oldEnd--
		newEnd--
	}

	oldMid := oldKids[start:oldEnd]
	newMid := newKids[start:newEnd]
	paired := min(len(oldMid), len(newMid))

	for i := range paired {
		o, n := oldMid[i], newMid[i]
		if d.cmp.TypesEqual(o, n) {
			state := d.cmp.DeepEqual(o, n)
			if state == Yes {
				continue
			}
			if state == Unsure && !d.old.IsLeaf(o) && !d.new.IsLeaf(n) {
				if err := d.build(o, n); err != nil {
					return err
				}
				continue
			}
		}
		d.out.NodeReplaced(o, n)
	}

	for i := paired; i < len(oldMid); i++ {
		d.out.NodeDeleted(oldNode, oldMid[i])
	}
	for i := paired; i < len(newMid); i++ {
		d.out.NodeInserted(oldNode, newMid[i], start+i)
	}

	return nil
}

// matchAndDescend reports whether the pair can be kept in place. Kept pairs
// whose equality is only probable are diffed recursively.
func (d *differ[O, N]) matchAndDescend(o O, n N) (bool, error) {
	if !d.cmp.TypesEqual(o, n) {
		return false, nil
	}

	switch d.cmp.DeepEqual(o, n) {
	case Yes:
		return true, nil
	case No:
		return false, nil
	case Unsure:
	}

	if !d.cmp.HashesEqual(o, n) {
		return false, nil
	}
	if d.old.IsLeaf(o) || d.new.IsLeaf(n) {
		return true, nil
	}

	return true, d.build(o, n)
}
