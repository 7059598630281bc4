package trigon

import (
	"fmt"

	"github.com/vulkan-go/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// GraphicsApp owns the whole graph of Vulkan objects needed to draw into a
// window and implements FrameRenderer on top of it. Construction is
// strictly bottom-up (instance, surface, device, then the
// swapchain-dependent tail); every acquisition is pushed onto a teardown
// stack so destruction - full, partial after a failed Init, or the
// swapchain tail alone on recreation - always runs in exact reverse order.
//
// See https://vulkan-tutorial.com/ for a walkthrough of what this
// sequence of objects does.
type GraphicsApp struct {
	Config Config
	App    *App

	Window    *glfw.Window
	VKSurface vk.Surface

	Instance       *Instance
	PhysicalDevice *PhysicalDevice
	Device         *Device

	GraphicsQueue *Queue
	PresentQueue  *Queue

	VertexShader   *ShaderModule
	FragmentShader *ShaderModule
	PipelineLayout *PipelineLayout
	PipelineCache  *PipelineCache
	CommandPool    *CommandPool
	CommandBuffers []*CommandBuffer
	Frames         []*FrameSync

	// the swapchain-dependent tail, rebuilt whenever the surface goes stale
	Swapchain           *Swapchain
	SwapchainImageViews []*ImageView
	RenderPass          *RenderPass
	Pipeline            *GraphicsPipeline
	Framebuffers        []*Framebuffer

	teardown    Teardown
	targetsMark int
}

// NewGraphicsApp creates an app from the given config; nothing touches the
// backend until Init.
func NewGraphicsApp(config Config) *GraphicsApp {
	config.setDefaults()
	return &GraphicsApp{
		Config: config,
		App: &App{
			Name:       config.AppName,
			EngineName: "trigon",
			Version:    Version{0, 1, 0},
			APIVersion: Version{1, 1, 0},
		},
	}
}

// Init constructs the full ownership graph against the given window. If any
// step fails, everything already constructed is released in reverse order
// before the error is returned.
func (p *GraphicsApp) Init(window *glfw.Window) (err error) {
	if p.Instance != nil {
		return fmt.Errorf("app already initialized")
	}
	p.Window = window

	defer func() {
		if err != nil {
			p.teardown.Unwind()
		}
	}()

	for _, ext := range window.GetRequiredInstanceExtensions() {
		p.App.EnableExtension(ext)
	}

	if p.Config.Validation {
		if verr := p.App.EnableValidation(); verr != nil {
			// validation is diagnostics, not a capability the app needs
			Logger().Warn("validation unavailable", "err", verr)
			p.Config.Validation = false
		}
	}

	p.Instance, err = p.App.CreateInstance()
	if err != nil {
		return fmt.Errorf("error creating instance: %w", err)
	}
	p.teardown.Push("instance", func() { p.Instance.Destroy(); p.Instance = nil })

	if p.Config.Validation {
		if err = p.Instance.SetupDebugReport(); err != nil {
			return err
		}
	}

	surface, err := window.CreateWindowSurface(p.Instance.VKInstance, nil)
	if err != nil {
		return fmt.Errorf("error creating window surface: %w", err)
	}
	p.VKSurface = vk.SurfaceFromPointer(surface)
	p.teardown.Push("surface", func() {
		vk.DestroySurface(p.Instance.VKInstance, p.VKSurface, nil)
		p.VKSurface = vk.NullSurface
	})

	physicalDevices, err := p.Instance.PhysicalDevices()
	if err != nil {
		return fmt.Errorf("error getting devices: %w", err)
	}

	p.PhysicalDevice, err = SelectPhysicalDevice(physicalDevices, p.VKSurface)
	if err != nil {
		return err
	}
	Logger().Info("selected GPU", "device", p.PhysicalDevice.DeviceName)

	if err = p.createDeviceAndQueues(); err != nil {
		return err
	}
	p.teardown.Push("device", func() { p.Device.Destroy(); p.Device = nil })

	p.VertexShader, err = p.Device.LoadShaderModuleFromFile(p.Config.VertexShaderPath)
	if err != nil {
		return err
	}
	p.teardown.PushDestructable("vertex shader", p.VertexShader)

	p.FragmentShader, err = p.Device.LoadShaderModuleFromFile(p.Config.FragmentShaderPath)
	if err != nil {
		return err
	}
	p.teardown.PushDestructable("fragment shader", p.FragmentShader)

	p.PipelineLayout, err = p.Device.CreatePipelineLayout()
	if err != nil {
		return fmt.Errorf("error creating pipeline layout: %w", err)
	}
	p.teardown.PushDestructable("pipeline layout", p.PipelineLayout)

	p.PipelineCache, err = p.Device.CreatePipelineCache()
	if err != nil {
		return fmt.Errorf("error creating pipeline cache: %w", err)
	}
	p.teardown.PushDestructable("pipeline cache", p.PipelineCache)

	p.CommandPool, err = p.Device.CreateCommandPool(p.GraphicsQueue.QueueFamily)
	if err != nil {
		return fmt.Errorf("error creating command pool: %w", err)
	}
	p.teardown.PushDestructable("command pool", p.CommandPool)

	p.CommandBuffers, err = p.CommandPool.AllocateBuffers(p.Config.Lag)
	if err != nil {
		return err
	}
	p.teardown.Push("command buffers", func() {
		p.CommandPool.FreeBuffers(p.CommandBuffers)
		p.CommandBuffers = nil
	})

	p.Frames = make([]*FrameSync, p.Config.Lag)
	for i := range p.Frames {
		var fs *FrameSync
		fs, err = p.Device.CreateFrameSync()
		if err != nil {
			return err
		}
		p.Frames[i] = fs
		p.teardown.PushDestructable(fmt.Sprintf("frame sync %d", i), fs)
	}
	p.teardown.Push("frame syncs", func() { p.Frames = nil })

	p.targetsMark = p.teardown.Mark()

	if err = p.createTargets(); err != nil {
		return err
	}

	return nil
}

func (p *GraphicsApp) createDeviceAndQueues() error {
	queues, err := p.PhysicalDevice.QueueFamilies()
	if err != nil {
		return fmt.Errorf("unable to load device queue families: %w", err)
	}

	gqueues := queues.FilterGraphicsAndPresent(p.VKSurface)

	var families QueueFamilySlice
	if len(gqueues) > 0 {
		// single family that can both draw and present
		families = QueueFamilySlice{gqueues[0]}
	} else {
		gq := queues.FilterGraphics()
		pq := queues.FilterPresent(p.VKSurface)
		if len(gq) == 0 || len(pq) == 0 {
			return ErrNoSuitableDevice
		}
		families = QueueFamilySlice{gq[0], pq[0]}
	}

	ldevice, err := p.PhysicalDevice.CreateLogicalDeviceWithOptions(families, &CreateDeviceOptions{
		EnabledExtensions: []string{"VK_KHR_swapchain"},
	})
	if err != nil {
		return err
	}
	p.Device = ldevice

	p.GraphicsQueue = ldevice.GetQueue(families[0])
	if len(families) == 1 {
		p.PresentQueue = p.GraphicsQueue
	} else {
		p.PresentQueue = ldevice.GetQueue(families[1])
	}

	return nil
}

// createTargets builds the swapchain-dependent tail of the ownership graph:
// swapchain, image views, render pass, pipeline and framebuffers, in that
// order, each pushed onto the teardown stack above targetsMark. Command
// buffers and frame sync sets live below the mark and survive recreation:
// a fence or semaphore must never be destroyed while a submitted frame can
// still signal it.
func (p *GraphicsApp) createTargets() error {
	fbWidth, fbHeight := p.Window.GetFramebufferSize()

	swapchain, err := p.Device.CreateSwapchain(p.VKSurface, p.GraphicsQueue, p.PresentQueue, &CreateSwapchainOptions{
		FramebufferSize: vk.Extent2D{Width: uint32(fbWidth), Height: uint32(fbHeight)},
	})
	if err != nil {
		return err
	}
	p.Swapchain = swapchain
	p.teardown.Push("swapchain", func() { p.Swapchain.Destroy(); p.Swapchain = nil })

	images, err := swapchain.GetImages()
	if err != nil {
		return err
	}

	p.SwapchainImageViews = make([]*ImageView, len(images))
	for i, image := range images {
		view, err := image.CreateImageView()
		if err != nil {
			return err
		}
		p.SwapchainImageViews[i] = view
		p.teardown.PushDestructable(fmt.Sprintf("image view %d", i), view)
	}
	p.teardown.Push("image views", func() { p.SwapchainImageViews = nil })

	p.RenderPass, err = p.Device.CreateRenderPass(swapchain.Format)
	if err != nil {
		return fmt.Errorf("error creating render pass: %w", err)
	}
	p.teardown.PushDestructable("render pass", p.RenderPass)

	config := p.Device.CreateGraphicsPipelineConfig().
		AddShaderStage(p.VertexShader, vk.ShaderStageVertexBit, "main").
		AddShaderStage(p.FragmentShader, vk.ShaderStageFragmentBit, "main").
		SetPipelineLayout(p.PipelineLayout)

	p.Pipeline, err = p.Device.CreateGraphicsPipeline(p.PipelineCache, config, p.RenderPass, swapchain.Extent)
	if err != nil {
		return fmt.Errorf("error creating graphics pipeline: %w", err)
	}
	p.teardown.PushDestructable("pipeline", p.Pipeline)

	p.Framebuffers = make([]*Framebuffer, len(p.SwapchainImageViews))
	for i, view := range p.SwapchainImageViews {
		fb, err := p.Device.CreateFramebuffer(p.RenderPass, view, swapchain.Extent)
		if err != nil {
			return err
		}
		p.Framebuffers[i] = fb
		p.teardown.PushDestructable(fmt.Sprintf("framebuffer %d", i), fb)
	}
	p.teardown.Push("framebuffers", func() { p.Framebuffers = nil })

	return nil
}

// FrameLag returns the number of in-flight frame slots.
func (p *GraphicsApp) FrameLag() int {
	return p.Config.Lag
}

// WaitFrame blocks until the slot's fence signals, then resets it. This is
// the gate that keeps the CPU from re-recording a command buffer the GPU
// is still executing.
func (p *GraphicsApp) WaitFrame(slot int) error {
	if err := p.Frames[slot].InFlight.Wait(UnboundedWait); err != nil {
		return err
	}
	return p.Frames[slot].InFlight.Reset()
}

// AcquireImage requests the next presentable image, signaling the slot's
// image-acquired semaphore when the presentation engine releases it.
func (p *GraphicsApp) AcquireImage(slot int) (int, bool, error) {
	idx, stale, err := p.Swapchain.AcquireNextImage(UnboundedWait, p.Frames[slot].ImageAcquired)
	return int(idx), stale, err
}

// RecordFrame resets the slot's command buffer and records the fixed draw:
// begin the render pass against the acquired image's framebuffer with the
// configured clear color, bind the pipeline, draw 3 vertices / 1 instance,
// end.
func (p *GraphicsApp) RecordFrame(slot, image int) error {
	cmd := p.CommandBuffers[slot]

	if err := cmd.Reset(); err != nil {
		return err
	}
	if err := cmd.BeginOneTime(); err != nil {
		return err
	}

	cmd.CmdBeginRenderPass(p.Framebuffers[image], p.Config.ClearColor)
	cmd.CmdBindGraphicsPipeline(p.Pipeline)
	cmd.CmdDraw(3, 1, 0, 0)
	cmd.CmdEndRenderPass()

	return cmd.End()
}

// SubmitFrame submits the slot's command buffer: wait on image-acquired at
// the color-attachment-output stage, signal render-complete and the slot's
// fence on retirement.
func (p *GraphicsApp) SubmitFrame(slot, image int) error {
	fs := p.Frames[slot]
	return p.GraphicsQueue.Submit(p.CommandBuffers[slot],
		fs.ImageAcquired, vk.PipelineStageColorAttachmentOutputBit,
		fs.RenderComplete, fs.InFlight)
}

// PresentFrame queues the image for display once render-complete signals.
func (p *GraphicsApp) PresentFrame(slot, image int) (bool, error) {
	return p.PresentQueue.Present(p.Swapchain, uint32(image), p.Frames[slot].RenderComplete)
}

// RecreateTargets tears down the swapchain-dependent tail in reverse order
// and rebuilds it against the surface's current state. Called when acquire
// or present reports staleness (resize, display change).
func (p *GraphicsApp) RecreateTargets() error {
	p.Device.WaitIdle()
	p.teardown.UnwindTo(p.targetsMark)

	if err := p.createTargets(); err != nil {
		p.teardown.UnwindTo(p.targetsMark)
		return fmt.Errorf("error recreating swapchain: %w", err)
	}

	Logger().Info("swapchain recreated",
		"width", p.Swapchain.Extent.Width, "height", p.Swapchain.Extent.Height)
	return nil
}

// WaitIdle blocks until the device drains.
func (p *GraphicsApp) WaitIdle() error {
	p.Device.WaitIdle()
	return nil
}

// Run drives the frame loop until shouldClose reports true, calling poll
// once per iteration. The loop drains the device before returning, so
// Destroy is safe immediately after.
func (p *GraphicsApp) Run(shouldClose func() bool, poll func()) error {
	return NewFrameLoop(p).Run(shouldClose, poll)
}

// Destroy releases every live object in exact reverse construction order.
// Safe to call after a failed Init (everything is already released) and
// idempotent.
func (p *GraphicsApp) Destroy() {
	if p.Device != nil {
		p.Device.WaitIdle()
	}
	p.teardown.Unwind()
}
