package core

import "fmt"

// State tracks a context node through its lifetime. Transitions only
// move forward: Uninitialized to Active on construction, Active to
// Destroyed when the last reference is released.
type State int32

// Context node states.
const (
	StateUninitialized State = iota
	StateActive
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// node is the shared ownership bookkeeping embedded in every context.
// A node holds one counted reference on its parent for as long as it
// is Active, which forces native release order to run strictly from
// leaf to root no matter in which order holders drop their references.
//
// Counting is not synchronized: context bring-up and teardown are
// single threaded by contract.
type node struct {
	name    string
	parent  *node
	refs    int
	state   State
	release func()
}

// activate transitions the node to Active: it takes a counted
// reference on the parent (which must itself be Active) and installs
// the release closure that frees the node's native resource. The
// closure runs while the parent is still Active.
func (n *node) activate(parent *node, name string, release func()) {
	if n.state != StateUninitialized {
		panic(fmt.Sprintf("core: %s context activated twice", name))
	}
	if parent != nil {
		parent.Retain()
		n.parent = parent
	}
	n.name = name
	n.release = release
	n.refs = 1
	n.state = StateActive
}

// Retain adds a counted reference to the context. Every Retain must be
// balanced by exactly one Release.
func (n *node) Retain() {
	if n.state != StateActive {
		panic(fmt.Sprintf("core: retain of %s context in %s state", n.name, n.state))
	}
	n.refs++
}

// Release drops one counted reference. When the count reaches zero the
// node frees its native resource, becomes Destroyed, and only then
// releases its reference on the parent. Releasing a context that is
// not Active is a programming error.
func (n *node) Release() {
	if n.state != StateActive {
		panic(fmt.Sprintf("core: release of %s context in %s state", n.name, n.state))
	}
	n.refs--
	if n.refs > 0 {
		return
	}
	if n.release != nil {
		n.release()
	}
	n.state = StateDestroyed
	if n.parent != nil {
		n.parent.Release()
	}
}

// State returns the node's lifecycle state.
func (n *node) State() State {
	return n.state
}
