package trigon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestChooseSurfaceFormat(t *testing.T) {
	preferred := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorspaceSrgbNonlinear}
	unorm := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorspaceSrgbNonlinear}
	other := vk.SurfaceFormat{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpace(1)}

	// preferred format wins regardless of position
	got := ChooseSurfaceFormat(VKSurfaceFormats{other, unorm, preferred})
	assert.Equal(t, preferred, got)

	// no preferred format: first sRGB-nonlinear entry
	got = ChooseSurfaceFormat(VKSurfaceFormats{other, unorm})
	assert.Equal(t, unorm, got)

	// nothing in the sRGB-nonlinear space: first entry
	got = ChooseSurfaceFormat(VKSurfaceFormats{other})
	assert.Equal(t, other, got)

	// an HDR format after the preferred one never wins
	hdr := vk.SurfaceFormat{Format: vk.FormatR16g16b16a16Sfloat, ColorSpace: vk.ColorSpace(1000104002)}
	got = ChooseSurfaceFormat(VKSurfaceFormats{preferred, hdr})
	assert.Equal(t, preferred, got)
}

func TestChooseSurfaceFormatIdempotent(t *testing.T) {
	formats := VKSurfaceFormats{
		{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorspaceSrgbNonlinear},
		{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorspaceSrgbNonlinear},
	}

	first := ChooseSurfaceFormat(formats)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ChooseSurfaceFormat(formats))
	}
}

func TestChoosePresentMode(t *testing.T) {
	got := ChoosePresentMode(VKPresentModes{vk.PresentModeFifo, vk.PresentModeMailbox})
	assert.Equal(t, vk.PresentModeMailbox, got)

	got = ChoosePresentMode(VKPresentModes{vk.PresentModeFifo, vk.PresentModeImmediate})
	assert.Equal(t, vk.PresentModeFifo, got)

	// FIFO is the fallback even when the surface lists nothing useful
	got = ChoosePresentMode(VKPresentModes{})
	assert.Equal(t, vk.PresentModeFifo, got)
}

func TestChooseSwapExtent(t *testing.T) {
	caps := &vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: 640, Height: 480},
		MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: vk.Extent2D{Width: 4096, Height: 4096},
	}

	// surface dictates the extent when it reports a concrete one
	got := ChooseSwapExtent(caps, 9000, 50)
	assert.Equal(t, vk.Extent2D{Width: 640, Height: 480}, got)

	// undefined sentinel: the framebuffer size is clamped per dimension
	caps.CurrentExtent = vk.Extent2D{Width: vk.MaxUint32, Height: vk.MaxUint32}

	got = ChooseSwapExtent(caps, 9000, 50)
	assert.Equal(t, vk.Extent2D{Width: 4096, Height: 50}, got)

	got = ChooseSwapExtent(caps, 0, 0)
	assert.Equal(t, vk.Extent2D{Width: 1, Height: 1}, got)

	got = ChooseSwapExtent(caps, 800, 600)
	assert.Equal(t, vk.Extent2D{Width: 800, Height: 600}, got)
}

func TestChooseImageCount(t *testing.T) {
	// min+1 when the maximum allows it
	count := ChooseImageCount(&vk.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 8})
	assert.Equal(t, uint32(3), count)

	// capped at the maximum
	count = ChooseImageCount(&vk.SurfaceCapabilities{MinImageCount: 3, MaxImageCount: 3})
	assert.Equal(t, uint32(3), count)

	// zero maximum means unbounded
	count = ChooseImageCount(&vk.SurfaceCapabilities{MinImageCount: 4, MaxImageCount: 0})
	assert.Equal(t, uint32(5), count)
}
