package trigon

// IDestructable is implemented by every wrapper that owns a Vulkan object.
type IDestructable interface {
	Destroy()
}

type teardownEntry struct {
	name string
	fn   func()
}

// Teardown is an explicit LIFO stack of destructors. Construction pushes
// each object as it is acquired; Unwind pops and runs the destructors in
// exact reverse acquisition order, which is precisely the order the
// objects' parent/child dependencies require. An object held only to keep
// a sibling alive is released the same way - whoever was pushed later goes
// first.
//
// The stack also makes partial initialization safe: a constructor that
// fails midway calls Unwind on whatever has been pushed so far before
// surfacing the error, so no backend object leaks.
type Teardown struct {
	entries []teardownEntry
}

// Push records a destructor under a name (the name only matters for
// debugging and tests).
func (t *Teardown) Push(name string, fn func()) {
	t.entries = append(t.entries, teardownEntry{name: name, fn: fn})
}

// PushDestructable records a wrapper's Destroy method.
func (t *Teardown) PushDestructable(name string, d IDestructable) {
	t.Push(name, d.Destroy)
}

// Len returns the number of pending destructors.
func (t *Teardown) Len() int {
	return len(t.entries)
}

// Mark returns a position that a later UnwindTo can rewind to. Used to
// release only the swapchain-dependent tail of the graph on recreation.
func (t *Teardown) Mark() int {
	return len(t.entries)
}

// UnwindTo pops and runs destructors until only mark entries remain.
func (t *Teardown) UnwindTo(mark int) {
	if mark < 0 {
		mark = 0
	}
	for len(t.entries) > mark {
		e := t.entries[len(t.entries)-1]
		t.entries = t.entries[:len(t.entries)-1]
		e.fn()
	}
}

// Unwind releases everything, newest first.
func (t *Teardown) Unwind() {
	t.UnwindTo(0)
}
