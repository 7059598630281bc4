package trigon

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// Swapchain owns the chain of drawable images negotiated with a window
// surface.
type Swapchain struct {
	Extent      vk.Extent2D
	Format      vk.Format
	Device      *Device
	VKSwapchain vk.Swapchain
}

// ChooseSurfaceFormat picks the pixel format for the swapchain: the 32-bit
// BGRA sRGB format in the sRGB-nonlinear color space when offered, else the
// first format with that color space, else whatever comes first. Pure
// function of its input; repeated calls return the same result.
func ChooseSurfaceFormat(formats VKSurfaceFormats) vk.SurfaceFormat {
	srgb := formats.Filter(func(f vk.SurfaceFormat) bool {
		return f.ColorSpace == vk.ColorspaceSrgbNonlinear
	})

	for _, f := range srgb {
		if f.Format == vk.FormatB8g8r8a8Srgb {
			return f
		}
	}
	if len(srgb) > 0 {
		return srgb[0]
	}
	return formats[0]
}

// ChoosePresentMode prefers mailbox, where a queued frame is replaced by a
// newer one instead of blocking, and falls back to FIFO, the only mode the
// backend guarantees.
func ChoosePresentMode(modes VKPresentModes) vk.PresentMode {
	if len(modes.Filter(vk.PresentModeMailbox)) > 0 {
		return vk.PresentModeMailbox
	}
	return vk.PresentModeFifo
}

// ChooseSwapExtent resolves the pixel size of the swapchain images. Normally
// the surface dictates it; when the surface reports the "undefined" sentinel
// (high-DPI window systems do this) the window framebuffer size is used,
// clamped to the surface's declared bounds.
func ChooseSwapExtent(caps *vk.SurfaceCapabilities, fbWidth, fbHeight int) vk.Extent2D {
	if caps.CurrentExtent.Width != vk.MaxUint32 {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clampUint32(uint32(fbWidth), caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clampUint32(uint32(fbHeight), caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// ChooseImageCount asks for one image more than the surface's minimum so
// the application is never stuck waiting on the presentation engine, capped
// at the surface maximum when one is declared (zero means unbounded).
func ChooseImageCount(caps *vk.SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount != 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

func clampUint32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type CreateSwapchainOptions struct {
	OldSwapchain *Swapchain

	// FramebufferSize is the window framebuffer size in pixels, consulted
	// only when the surface does not dictate an extent.
	FramebufferSize vk.Extent2D
}

// CreateSwapchain negotiates a swapchain with the surface using the
// Choose* policies above.
func (d *Device) CreateSwapchain(surface vk.Surface, graphicsQueue, presentQueue *Queue, options *CreateSwapchainOptions) (*Swapchain, error) {

	modes, err := d.PhysicalDevice.GetSurfacePresentModes(surface)
	if err != nil {
		return nil, err
	}
	if len(modes) == 0 {
		return nil, fmt.Errorf("surface reports no present modes")
	}
	presentMode := ChoosePresentMode(modes)

	formats, err := d.PhysicalDevice.GetSurfaceFormats(surface)
	if err != nil {
		return nil, err
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("surface reports no formats")
	}
	format := ChooseSurfaceFormat(formats)

	caps, err := d.PhysicalDevice.GetSurfaceCapabilities(surface)
	if err != nil {
		return nil, err
	}

	var fbSize vk.Extent2D
	if options != nil {
		fbSize = options.FramebufferSize
	}
	swapchainSize := ChooseSwapExtent(caps, int(fbSize.Width), int(fbSize.Height))
	imageCount := ChooseImageCount(caps)

	createInfo := &vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface,
		MinImageCount:    imageCount,
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      swapchainSize,
		PresentMode:      presentMode,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageArrayLayers: 1,
		Clipped:          vk.True,
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		OldSwapchain:     vk.NullSwapchain,
	}

	if options != nil && options.OldSwapchain != nil {
		createInfo.OldSwapchain = options.OldSwapchain.VKSwapchain
	}

	if graphicsQueue.QueueFamily.Index != presentQueue.QueueFamily.Index {
		createInfo.QueueFamilyIndexCount = 2
		createInfo.PQueueFamilyIndices = []uint32{uint32(graphicsQueue.QueueFamily.Index), uint32(presentQueue.QueueFamily.Index)}
		createInfo.ImageSharingMode = vk.SharingModeConcurrent
	} else {
		createInfo.ImageSharingMode = vk.SharingModeExclusive
	}

	var swapchain vk.Swapchain
	err = vk.Error(vk.CreateSwapchain(d.VKDevice, createInfo, nil, &swapchain))
	if err != nil {
		return nil, fmt.Errorf("error creating swapchain: %w", err)
	}

	var ret Swapchain
	ret.VKSwapchain = swapchain
	ret.Device = d
	ret.Extent = swapchainSize
	ret.Format = format.Format

	return &ret, nil
}

func (s *Swapchain) Destroy() {
	vk.DestroySwapchain(s.Device.VKDevice, s.VKSwapchain, nil)
}

// GetImages returns the drawable images owned by the swapchain. The images
// themselves belong to the presentation engine and are never destroyed by
// the application.
func (s *Swapchain) GetImages() ([]*Image, error) {
	var imageCount uint32
	err := vk.Error(vk.GetSwapchainImages(s.Device.VKDevice, s.VKSwapchain, &imageCount, nil))
	if err != nil {
		return nil, err
	}

	swapchainImages := make([]vk.Image, imageCount)
	err = vk.Error(vk.GetSwapchainImages(s.Device.VKDevice, s.VKSwapchain, &imageCount, swapchainImages))

	ret := make([]*Image, imageCount)
	for i := range swapchainImages {
		ret[i] = &Image{}
		ret[i].Device = s.Device
		ret[i].VKImage = swapchainImages[i]
		ret[i].VKFormat = s.Format
	}

	return ret, err
}

// AcquireNextImage blocks until the presentation engine hands over the next
// drawable image, signaling sem once the image is actually safe to render
// to. The bool result reports that the surface is out of date: no image was
// delivered and sem stays unsignaled, so the caller must recreate the
// swapchain and acquire again. A suboptimal acquire is not stale - an image
// was delivered and sem has a pending signal, so it must be rendered and
// presented; the matching present reports the staleness and triggers the
// rebuild afterwards.
func (s *Swapchain) AcquireNextImage(timeout uint64, sem *Semaphore) (uint32, bool, error) {
	var imageIndex uint32
	res := vk.AcquireNextImage(s.Device.VKDevice, s.VKSwapchain, timeout, sem.VKSemaphore, vk.NullFence, &imageIndex)
	if res == vk.ErrorOutOfDate {
		return imageIndex, true, nil
	}
	if res == vk.Suboptimal {
		return imageIndex, false, nil
	}
	return imageIndex, false, vk.Error(res)
}
