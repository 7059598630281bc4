package trigon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestDeviceTypeScore(t *testing.T) {
	discrete := deviceTypeScore(vk.PhysicalDeviceTypeDiscreteGpu)
	integrated := deviceTypeScore(vk.PhysicalDeviceTypeIntegratedGpu)
	virtual := deviceTypeScore(vk.PhysicalDeviceTypeVirtualGpu)
	cpu := deviceTypeScore(vk.PhysicalDeviceTypeCpu)
	other := deviceTypeScore(vk.PhysicalDeviceTypeOther)

	assert.Greater(t, discrete, integrated)
	assert.Greater(t, integrated, virtual)
	assert.Greater(t, virtual, cpu)
	assert.Greater(t, cpu, other)
}

func TestPresentModesFilter(t *testing.T) {
	modes := VKPresentModes{vk.PresentModeFifo, vk.PresentModeMailbox, vk.PresentModeFifo}

	assert.Len(t, modes.Filter(vk.PresentModeFifo), 2)
	assert.Len(t, modes.Filter(vk.PresentModeMailbox), 1)
	assert.Empty(t, modes.Filter(vk.PresentModeImmediate))
}

func TestSurfaceFormatsFilter(t *testing.T) {
	formats := VKSurfaceFormats{
		{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorspaceSrgbNonlinear},
		{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorspaceSrgbNonlinear},
	}

	srgb := formats.Filter(func(f vk.SurfaceFormat) bool {
		return f.Format == vk.FormatB8g8r8a8Srgb
	})
	assert.Len(t, srgb, 1)
	assert.Equal(t, vk.FormatB8g8r8a8Srgb, srgb[0].Format)
}
