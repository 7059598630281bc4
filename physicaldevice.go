package trigon

import (
	"errors"
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// ErrNoSuitableDevice is returned when no enumerated adapter can both draw
// and present to the requested surface.
var ErrNoSuitableDevice = errors.New("no suitable GPU device found")

type VKPresentModes []vk.PresentMode

func (v VKPresentModes) Filter(f vk.PresentMode) VKPresentModes {
	ret := make(VKPresentModes, 0)
	for _, s := range v {
		if f == s {
			ret = append(ret, s)
		}
	}
	return ret
}

type VKSurfaceFormats []vk.SurfaceFormat

func (v VKSurfaceFormats) Filter(f func(f vk.SurfaceFormat) bool) VKSurfaceFormats {
	ret := make(VKSurfaceFormats, 0)
	for _, s := range v {
		if f(s) {
			ret = append(ret, s)
		}
	}
	return ret
}

type PhysicalDevice struct {
	DeviceName                 string
	VKPhysicalDevice           vk.PhysicalDevice
	VKPhysicalDeviceProperties vk.PhysicalDeviceProperties
}

func (p *PhysicalDevice) String() string {
	return p.DeviceName
}

func (p *PhysicalDevice) GetSurfacePresentModes(surface vk.Surface) (VKPresentModes, error) {
	var count uint32
	err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(p.VKPhysicalDevice, surface, &count, nil))
	if err != nil {
		return nil, err
	}

	f := make([]vk.PresentMode, count)
	err = vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(p.VKPhysicalDevice, surface, &count, f))
	if err != nil {
		return nil, err
	}

	return f, nil
}

func (p *PhysicalDevice) GetSurfaceFormats(surface vk.Surface) (VKSurfaceFormats, error) {
	var count uint32
	err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(p.VKPhysicalDevice, surface, &count, nil))
	if err != nil {
		return nil, err
	}

	f := make([]vk.SurfaceFormat, count)
	err = vk.Error(vk.GetPhysicalDeviceSurfaceFormats(p.VKPhysicalDevice, surface, &count, f))
	if err != nil {
		return nil, err
	}

	for i := range f {
		f[i].Deref()
	}

	return f, nil
}

func (p *PhysicalDevice) GetSurfaceCapabilities(surface vk.Surface) (*vk.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(p.VKPhysicalDevice, surface, &caps))
	if err != nil {
		return nil, err
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()

	return &caps, nil
}

func (p *PhysicalDevice) QueueFamilies() (QueueFamilySlice, error) {
	var queueFamilyCount uint32

	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &queueFamilyCount, nil)

	if queueFamilyCount == 0 {
		return nil, nil
	}

	queues := make([]vk.QueueFamilyProperties, queueFamilyCount)

	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &queueFamilyCount, queues)

	ret := make([]*QueueFamily, queueFamilyCount)
	for i, queue := range queues {
		ret[i] = &QueueFamily{Index: i, PhysicalDevice: p, VKQueueFamilyProperties: queue}
		ret[i].VKQueueFamilyProperties.Deref()
	}

	return ret, nil
}

func (p *PhysicalDevice) SupportedExtensions() ([]string, error) {
	var count uint32
	err := vk.Error(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, nil))
	if err != nil {
		return nil, err
	}

	ext := make([]vk.ExtensionProperties, count)

	err = vk.Error(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, ext))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, count)
	for _, e := range ext {
		e.Deref()
		names = append(names, vk.ToString(e.ExtensionName[:]))
	}
	return names, nil
}

// HasExtension reports whether the device offers the named extension.
func (p *PhysicalDevice) HasExtension(name string) (bool, error) {
	exts, err := p.SupportedExtensions()
	if err != nil {
		return false, err
	}
	for _, e := range exts {
		if e == name {
			return true, nil
		}
	}
	return false, nil
}

// deviceTypeScore ranks adapters for selection. Discrete beats integrated
// beats everything else; enumeration order breaks ties.
func deviceTypeScore(t vk.PhysicalDeviceType) int {
	switch t {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return 4
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return 3
	case vk.PhysicalDeviceTypeVirtualGpu:
		return 2
	case vk.PhysicalDeviceTypeCpu:
		return 1
	}
	return 0
}

// suitableForSurface reports whether the adapter can draw and present to
// the surface: a graphics-capable queue family, a present-capable family
// (possibly the same one), the swapchain extension, and at least one
// surface format and present mode.
func (p *PhysicalDevice) suitableForSurface(surface vk.Surface) (bool, error) {
	families, err := p.QueueFamilies()
	if err != nil {
		return false, fmt.Errorf("unable to load device queue families: %w", err)
	}
	if len(families.FilterGraphics()) == 0 || len(families.FilterPresent(surface)) == 0 {
		return false, nil
	}

	ok, err := p.HasExtension("VK_KHR_swapchain")
	if err != nil || !ok {
		return ok, err
	}

	formats, err := p.GetSurfaceFormats(surface)
	if err != nil {
		return false, err
	}
	modes, err := p.GetSurfacePresentModes(surface)
	if err != nil {
		return false, err
	}
	return len(formats) > 0 && len(modes) > 0, nil
}

// SelectPhysicalDevice picks the adapter to use for the given surface. Of
// the adapters that can both draw and present, the one with the best device
// type wins (discrete > integrated > virtual > CPU); enumeration order
// breaks ties. Returns ErrNoSuitableDevice when nothing qualifies.
func SelectPhysicalDevice(devices []*PhysicalDevice, surface vk.Surface) (*PhysicalDevice, error) {
	var best *PhysicalDevice
	bestScore := -1

	for _, p := range devices {
		ok, err := p.suitableForSurface(surface)
		if err != nil {
			return nil, fmt.Errorf("error probing device '%s': %w", p.DeviceName, err)
		}
		if !ok {
			continue
		}
		if score := deviceTypeScore(p.VKPhysicalDeviceProperties.DeviceType); score > bestScore {
			best = p
			bestScore = score
		}
	}

	if best == nil {
		return nil, ErrNoSuitableDevice
	}
	return best, nil
}
