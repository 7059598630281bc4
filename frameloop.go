package trigon

import (
	"fmt"
)

// FrameState tracks where a frame iteration is in its lifecycle. States
// advance strictly in order; a failed transition aborts the loop.
type FrameState int

const (
	FrameIdle FrameState = iota
	FrameWaitingOnFence
	FrameImageAcquired
	FrameRecording
	FrameSubmitted
	FramePresenting
	FrameDraining
)

func (s FrameState) String() string {
	switch s {
	case FrameIdle:
		return "Idle"
	case FrameWaitingOnFence:
		return "WaitingOnFence"
	case FrameImageAcquired:
		return "ImageAcquired"
	case FrameRecording:
		return "Recording"
	case FrameSubmitted:
		return "Submitted"
	case FramePresenting:
		return "Presenting"
	case FrameDraining:
		return "Draining"
	}
	return fmt.Sprintf("FrameState(%d)", int(s))
}

// FrameRenderer is the per-frame contract FrameLoop drives. GraphicsApp is
// the Vulkan-backed implementation; tests substitute their own to verify
// call ordering without a device.
type FrameRenderer interface {
	// FrameLag returns the number of in-flight frame slots.
	FrameLag() int

	// WaitFrame blocks until the slot's previous submission has retired
	// and resets the slot's fence. After WaitFrame returns, the slot's
	// command buffer is safe to reset.
	WaitFrame(slot int) error

	// AcquireImage requests the next presentable image, arranging for the
	// slot's image-acquired semaphore to signal when it is ready. A true
	// stale result means the surface no longer matches the swapchain.
	AcquireImage(slot int) (image int, stale bool, err error)

	// RecordFrame resets and re-records the slot's command buffer to draw
	// into the given image.
	RecordFrame(slot, image int) error

	// SubmitFrame submits the slot's command buffer, waiting on the
	// image-acquired semaphore and signaling the render-complete
	// semaphore plus the slot's fence.
	SubmitFrame(slot, image int) error

	// PresentFrame queues the image for display once the render-complete
	// semaphore signals, reporting surface staleness.
	PresentFrame(slot, image int) (stale bool, err error)

	// RecreateTargets rebuilds everything invalidated by a stale surface.
	RecreateTargets() error

	// WaitIdle blocks until the device has drained all in-flight work.
	WaitIdle() error
}

// FrameLoop drives one FrameRenderer through the
// wait / acquire / record / submit / present cycle, rotating through the
// renderer's frame slots. It is strictly single threaded: one loop, one
// renderer, no locking - all ordering guarantees come from the renderer's
// fences and semaphores.
type FrameLoop struct {
	Renderer FrameRenderer

	slot  int
	state FrameState
}

func NewFrameLoop(r FrameRenderer) *FrameLoop {
	return &FrameLoop{Renderer: r}
}

// State reports the loop's current frame state.
func (l *FrameLoop) State() FrameState {
	return l.state
}

// Slot reports the in-flight slot the next frame will use.
func (l *FrameLoop) Slot() int {
	return l.slot
}

// DrawFrame runs one full frame iteration. Failure of any step aborts the
// frame and propagates; there is no partial-frame retry.
func (l *FrameLoop) DrawFrame() error {

	l.state = FrameWaitingOnFence
	if err := l.Renderer.WaitFrame(l.slot); err != nil {
		return fmt.Errorf("frame %s: %w", l.state, err)
	}

	l.state = FrameImageAcquired
	image, stale, err := l.Renderer.AcquireImage(l.slot)
	if err != nil {
		return fmt.Errorf("frame %s: %w", l.state, err)
	}
	if stale {
		// a stale acquire delivered no image and left the slot's
		// semaphore unsignaled, and the sync objects survive recreation,
		// so re-acquiring lets this iteration's submit re-signal the
		// already-reset fence
		if err := l.Renderer.RecreateTargets(); err != nil {
			return fmt.Errorf("frame %s: %w", l.state, err)
		}
		image, stale, err = l.Renderer.AcquireImage(l.slot)
		if err != nil {
			return fmt.Errorf("frame %s: %w", l.state, err)
		}
		if stale {
			return fmt.Errorf("frame %s: surface stale immediately after swapchain recreation", l.state)
		}
	}

	l.state = FrameRecording
	if err := l.Renderer.RecordFrame(l.slot, image); err != nil {
		return fmt.Errorf("frame %s: %w", l.state, err)
	}

	l.state = FrameSubmitted
	if err := l.Renderer.SubmitFrame(l.slot, image); err != nil {
		return fmt.Errorf("frame %s: %w", l.state, err)
	}

	l.state = FramePresenting
	stale, err = l.Renderer.PresentFrame(l.slot, image)
	if err != nil {
		return fmt.Errorf("frame %s: %w", l.state, err)
	}
	if stale {
		// the frame already submitted and will retire normally; only the
		// targets need rebuilding before the next iteration
		if err := l.Renderer.RecreateTargets(); err != nil {
			return fmt.Errorf("frame %s: %w", l.state, err)
		}
	}

	l.state = FrameIdle
	l.slot = (l.slot + 1) % l.Renderer.FrameLag()

	return nil
}

// Run drives frames until shouldClose reports true, calling poll once per
// iteration to service the window system's event queue. On close it drains
// the device exactly once so teardown can proceed safely, then returns.
func (l *FrameLoop) Run(shouldClose func() bool, poll func()) error {
	for !shouldClose() {
		if poll != nil {
			poll()
		}
		if err := l.DrawFrame(); err != nil {
			return err
		}
	}
	return l.Drain()
}

// Drain performs the single device-idle wait that makes destruction of
// GPU-visible objects safe. Must run before any destructor.
func (l *FrameLoop) Drain() error {
	l.state = FrameDraining
	return l.Renderer.WaitIdle()
}
