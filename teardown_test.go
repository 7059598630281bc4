package trigon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordedDestroy struct {
	log  *[]string
	name string
}

func (r *recordedDestroy) Destroy() {
	*r.log = append(*r.log, r.name)
}

func TestTeardownReverseOrder(t *testing.T) {
	var log []string
	var td Teardown

	for _, name := range []string{"instance", "surface", "device", "swapchain"} {
		n := name
		td.Push(n, func() { log = append(log, n) })
	}

	td.Unwind()

	assert.Equal(t, []string{"swapchain", "device", "surface", "instance"}, log)
	assert.Equal(t, 0, td.Len())
}

func TestTeardownDestructable(t *testing.T) {
	var log []string
	var td Teardown

	td.PushDestructable("a", &recordedDestroy{log: &log, name: "a"})
	td.PushDestructable("b", &recordedDestroy{log: &log, name: "b"})
	td.Unwind()

	assert.Equal(t, []string{"b", "a"}, log)
}

func TestTeardownPartialUnwind(t *testing.T) {
	var log []string
	var td Teardown

	td.Push("instance", func() { log = append(log, "instance") })
	td.Push("device", func() { log = append(log, "device") })

	mark := td.Mark()

	td.Push("swapchain", func() { log = append(log, "swapchain") })
	td.Push("views", func() { log = append(log, "views") })
	td.Push("framebuffers", func() { log = append(log, "framebuffers") })

	// only entries above the mark go, newest first
	td.UnwindTo(mark)
	assert.Equal(t, []string{"framebuffers", "views", "swapchain"}, log)
	assert.Equal(t, mark, td.Len())

	// the stack is reusable after a partial unwind
	td.Push("swapchain2", func() { log = append(log, "swapchain2") })
	td.Unwind()
	assert.Equal(t, []string{"framebuffers", "views", "swapchain", "swapchain2", "device", "instance"}, log)
}

func TestTeardownUnwindIsIdempotent(t *testing.T) {
	var calls int
	var td Teardown

	td.Push("once", func() { calls++ })
	td.Unwind()
	td.Unwind()

	assert.Equal(t, 1, calls)
}
