package trigon

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

type Queue struct {
	Device      *Device
	QueueFamily *QueueFamily
	VKQueue     vk.Queue
}

func (q *Queue) WaitIdle() error {
	return vk.Error(vk.QueueWaitIdle(q.VKQueue))
}

// Submit hands one recorded command buffer to the queue. Execution waits on
// waitSem at waitStage, signals signalSem when rendering completes, and
// signals fence when the whole submission retires - which is what makes it
// safe to reset and re-record the buffer from the CPU side.
func (q *Queue) Submit(buffer *CommandBuffer, waitSem *Semaphore, waitStage vk.PipelineStageFlagBits, signalSem *Semaphore, fence *Fence) error {

	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{waitSem.VKSemaphore},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(waitStage)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{buffer.VKCommandBuffer},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{signalSem.VKSemaphore},
	}

	var f vk.Fence = vk.NullFence
	if fence != nil {
		f = fence.VKFence
	}

	err := vk.Error(vk.QueueSubmit(q.VKQueue, 1, []vk.SubmitInfo{submitInfo}, f))
	if err != nil {
		return fmt.Errorf("error submitting to queue: %w", err)
	}

	return nil
}

// Present asks the presentation engine to display the acquired image once
// waitSem signals. The bool result reports that the surface has gone stale
// (out of date or suboptimal) and the swapchain must be recreated before
// the next frame.
func (q *Queue) Present(swapchain *Swapchain, imageIndex uint32, waitSem *Semaphore) (bool, error) {

	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{waitSem.VKSemaphore},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{swapchain.VKSwapchain},
		PImageIndices:      []uint32{imageIndex},
	}

	res := vk.QueuePresent(q.VKQueue, &presentInfo)
	if res == vk.ErrorOutOfDate || res == vk.Suboptimal {
		return true, nil
	}
	return false, vk.Error(res)
}

func (q *Queue) String() string {
	return fmt.Sprintf("{Device: %s QueueFamily: %s}", q.Device.String(), q.QueueFamily.String())
}
