package trigon

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer records every call the loop makes, in order, and can be
// scripted to report staleness or errors at particular steps. It models
// the per-slot fence handshake: WaitFrame only succeeds on a signaled
// fence and resets it, SubmitFrame only accepts a reset fence and signals
// it, and RecreateTargets leaves fence state alone, mirroring sync objects
// that survive a swapchain rebuild.
type fakeRenderer struct {
	lag   int
	calls []string

	// fenceReset marks slots whose fence has been reset and not yet
	// re-signaled by a submit
	fenceReset map[int]bool

	staleAcquires int
	stalePresents int
	acquireErr    error
	recreateErr   error
	nextImage     int
}

func (f *fakeRenderer) FrameLag() int { return f.lag }

func (f *fakeRenderer) WaitFrame(slot int) error {
	f.calls = append(f.calls, "wait")
	if f.fenceReset == nil {
		f.fenceReset = make(map[int]bool)
	}
	if f.fenceReset[slot] {
		return fmt.Errorf("slot %d: waiting on a fence nothing will signal", slot)
	}
	f.fenceReset[slot] = true
	return nil
}

func (f *fakeRenderer) AcquireImage(slot int) (int, bool, error) {
	f.calls = append(f.calls, "acquire")
	if f.acquireErr != nil {
		return 0, false, f.acquireErr
	}
	if f.staleAcquires > 0 {
		f.staleAcquires--
		return 0, true, nil
	}
	image := f.nextImage
	f.nextImage = (f.nextImage + 1) % 3
	return image, false, nil
}

func (f *fakeRenderer) RecordFrame(slot, image int) error {
	f.calls = append(f.calls, "record")
	return nil
}

func (f *fakeRenderer) SubmitFrame(slot, image int) error {
	f.calls = append(f.calls, "submit")
	if !f.fenceReset[slot] {
		return fmt.Errorf("slot %d: submitting a fence that is still signaled", slot)
	}
	f.fenceReset[slot] = false
	return nil
}

func (f *fakeRenderer) PresentFrame(slot, image int) (bool, error) {
	f.calls = append(f.calls, "present")
	if f.stalePresents > 0 {
		f.stalePresents--
		return true, nil
	}
	return false, nil
}

func (f *fakeRenderer) RecreateTargets() error {
	f.calls = append(f.calls, "recreate")
	return f.recreateErr
}

func (f *fakeRenderer) WaitIdle() error {
	f.calls = append(f.calls, "waitidle")
	return nil
}

func TestDrawFrameOrdering(t *testing.T) {
	f := &fakeRenderer{lag: 2}
	loop := NewFrameLoop(f)

	require.NoError(t, loop.DrawFrame())

	// the fence wait must come before anything touches the command buffer
	assert.Equal(t, []string{"wait", "acquire", "record", "submit", "present"}, f.calls)
	assert.Equal(t, FrameIdle, loop.State())
}

func TestDrawFrameSlotRotation(t *testing.T) {
	f := &fakeRenderer{lag: 2}
	loop := NewFrameLoop(f)

	assert.Equal(t, 0, loop.Slot())
	require.NoError(t, loop.DrawFrame())
	assert.Equal(t, 1, loop.Slot())
	require.NoError(t, loop.DrawFrame())
	assert.Equal(t, 0, loop.Slot())
}

func TestRunDrainsExactlyOnce(t *testing.T) {
	f := &fakeRenderer{lag: 2}
	loop := NewFrameLoop(f)

	frames := 0
	polls := 0
	err := loop.Run(func() bool { return frames == 3 }, func() { polls++; frames++ })
	require.NoError(t, err)

	waits := 0
	for _, c := range f.calls {
		if c == "waitidle" {
			waits++
		}
	}
	assert.Equal(t, 1, waits)
	assert.Equal(t, "waitidle", f.calls[len(f.calls)-1])
	assert.Equal(t, 3, polls)
	assert.Equal(t, FrameDraining, loop.State())
}

func TestStaleAcquireRecreatesAndRetries(t *testing.T) {
	f := &fakeRenderer{lag: 2, staleAcquires: 1}
	loop := NewFrameLoop(f)

	require.NoError(t, loop.DrawFrame())

	// the iteration still submits, so the slot's fence gets re-signaled
	assert.Equal(t, []string{"wait", "acquire", "recreate", "acquire", "record", "submit", "present"}, f.calls)
}

func TestStaleAcquireKeepsFenceHandshake(t *testing.T) {
	f := &fakeRenderer{lag: 2, staleAcquires: 1}
	loop := NewFrameLoop(f)

	// the recreated targets share the slot's fence: the iteration that
	// recreated must still submit against the reset fence, and every
	// following frame must find its fence signaled again
	frames := 0
	err := loop.Run(func() bool { return frames == 4 }, func() { frames++ })
	require.NoError(t, err)

	recreates := 0
	for _, c := range f.calls {
		if c == "recreate" {
			recreates++
		}
	}
	assert.Equal(t, 1, recreates)
}

func TestStaleAcquireTwiceFails(t *testing.T) {
	f := &fakeRenderer{lag: 2, staleAcquires: 2}
	loop := NewFrameLoop(f)

	assert.Error(t, loop.DrawFrame())
}

func TestStalePresentRecreates(t *testing.T) {
	f := &fakeRenderer{lag: 2, stalePresents: 1}
	loop := NewFrameLoop(f)

	require.NoError(t, loop.DrawFrame())

	// the submitted frame retires normally; only the targets rebuild
	assert.Equal(t, []string{"wait", "acquire", "record", "submit", "present", "recreate"}, f.calls)
	assert.Equal(t, 1, loop.Slot())
}

func TestDrawFrameErrorAbortsIteration(t *testing.T) {
	boom := errors.New("device lost")
	f := &fakeRenderer{lag: 2, acquireErr: boom}
	loop := NewFrameLoop(f)

	err := loop.DrawFrame()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	// nothing past the failed step ran
	assert.Equal(t, []string{"wait", "acquire"}, f.calls)
	// the slot does not advance on a failed frame
	assert.Equal(t, 0, loop.Slot())
}

func TestDrawFrameErrorNamesFailedStep(t *testing.T) {
	boom := errors.New("device lost")
	f := &fakeRenderer{lag: 2, acquireErr: boom}
	loop := NewFrameLoop(f)

	err := loop.DrawFrame()
	require.Error(t, err)
	assert.Contains(t, err.Error(), FrameImageAcquired.String())
	assert.NotContains(t, err.Error(), FrameWaitingOnFence.String())
}

func TestRecreateFailurePropagates(t *testing.T) {
	boom := errors.New("surface gone")
	f := &fakeRenderer{lag: 2, staleAcquires: 1, recreateErr: boom}
	loop := NewFrameLoop(f)

	assert.ErrorIs(t, loop.DrawFrame(), boom)
}

func TestFrameStateString(t *testing.T) {
	assert.Equal(t, "Idle", FrameIdle.String())
	assert.Equal(t, "Draining", FrameDraining.String())
	assert.NotEmpty(t, FrameState(99).String())
}
