package trigon

import (
	vk "github.com/vulkan-go/vulkan"
)

// Framebuffer binds one swapchain image view to a render pass at a fixed
// extent. The view and render pass references are held for lifetime only -
// the framebuffer must be destroyed before either of them, and trigon
// never mutates them through it.
type Framebuffer struct {
	Device        *Device
	Extent        vk.Extent2D
	View          *ImageView
	RenderPass    *RenderPass
	VKFramebuffer vk.Framebuffer
}

func (d *Device) CreateFramebuffer(renderPass *RenderPass, view *ImageView, extent vk.Extent2D) (*Framebuffer, error) {
	createInfo := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      renderPass.VKRenderPass,
		Layers:          1,
		AttachmentCount: 1,
		PAttachments:    []vk.ImageView{view.VKImageView},
		Width:           extent.Width,
		Height:          extent.Height,
	}

	var fb vk.Framebuffer
	err := vk.Error(vk.CreateFramebuffer(d.VKDevice, &createInfo, nil, &fb))
	if err != nil {
		return nil, err
	}

	var ret Framebuffer
	ret.Device = d
	ret.Extent = extent
	ret.View = view
	ret.RenderPass = renderPass
	ret.VKFramebuffer = fb

	return &ret, nil
}

func (f *Framebuffer) Destroy() {
	vk.DestroyFramebuffer(f.Device.VKDevice, f.VKFramebuffer, nil)
	f.VKFramebuffer = vk.NullFramebuffer
}
