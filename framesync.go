package trigon

import (
	"fmt"
)

// FrameSync is the coordination set for one in-flight frame slot:
//
//   - ImageAcquired signals when the presentation engine hands over a
//     drawable image; the GPU waits on it before writing color output.
//   - RenderComplete signals when rendering retires; presentation waits
//     on it.
//   - InFlight signals when the whole submission retires; the CPU waits on
//     it before resetting the slot's command buffer.
//
// InFlight starts signaled so a slot's first frame does not deadlock.
type FrameSync struct {
	ImageAcquired  *Semaphore
	RenderComplete *Semaphore
	InFlight       *Fence
}

func (d *Device) CreateFrameSync() (*FrameSync, error) {
	var fs FrameSync
	var err error

	fs.ImageAcquired, err = d.CreateSemaphore()
	if err != nil {
		return nil, fmt.Errorf("error creating image-acquired semaphore: %w", err)
	}

	fs.RenderComplete, err = d.CreateSemaphore()
	if err != nil {
		fs.ImageAcquired.Destroy()
		return nil, fmt.Errorf("error creating render-complete semaphore: %w", err)
	}

	fs.InFlight, err = d.CreateFence(true)
	if err != nil {
		fs.RenderComplete.Destroy()
		fs.ImageAcquired.Destroy()
		return nil, fmt.Errorf("error creating frame fence: %w", err)
	}

	return &fs, nil
}

func (fs *FrameSync) Destroy() {
	fs.InFlight.Destroy()
	fs.RenderComplete.Destroy()
	fs.ImageAcquired.Destroy()
}
