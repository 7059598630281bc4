package trigon

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// GraphicsPipelineConfig describes, once, how vertex data becomes pixels.
// The triangle pipeline consumes no vertex buffers - the three vertices are
// synthesized inside the vertex stage - so there is no vertex input state
// to declare beyond the triangle-list topology.
type GraphicsPipelineConfig struct {
	Device       *Device
	ShaderStages []vk.PipelineShaderStageCreateInfo
	Layout       *PipelineLayout

	// CullMode defaults to back-face culling.
	CullMode vk.CullModeFlagBits
	// FrontFace defaults to clockwise, matching vertex winding that the
	// vertex stage emits in Vulkan's y-down clip space.
	FrontFace vk.FrontFace
}

func (d *Device) CreateGraphicsPipelineConfig() *GraphicsPipelineConfig {
	return &GraphicsPipelineConfig{
		Device:    d,
		CullMode:  vk.CullModeBackBit,
		FrontFace: vk.FrontFaceClockwise,
	}
}

// AddShaderStage appends one stage built from an already-created module.
func (g *GraphicsPipelineConfig) AddShaderStage(module *ShaderModule, stage vk.ShaderStageFlagBits, entryPoint string) *GraphicsPipelineConfig {
	if g.ShaderStages == nil {
		g.ShaderStages = make([]vk.PipelineShaderStageCreateInfo, 0, 2)
	}
	g.ShaderStages = append(g.ShaderStages, module.VKPipelineShaderStageCreateInfo(stage, entryPoint))
	return g
}

// SetPipelineLayout sets the pipeline layout
func (g *GraphicsPipelineConfig) SetPipelineLayout(layout *PipelineLayout) *GraphicsPipelineConfig {
	g.Layout = layout
	return g
}

// VKGraphicsPipelineCreateInfo produces the fixed-function configuration:
// full-extent viewport and scissor, fill rasterization, no depth test,
// single-sample, blending disabled.
func (g *GraphicsPipelineConfig) VKGraphicsPipelineCreateInfo(renderPass *RenderPass, extent vk.Extent2D) (vk.GraphicsPipelineCreateInfo, error) {

	if len(g.ShaderStages) != 2 {
		return vk.GraphicsPipelineCreateInfo{}, fmt.Errorf("pipeline requires exactly a vertex and a fragment stage, have %d", len(g.ShaderStages))
	}

	var vertexInputState = vk.PipelineVertexInputStateCreateInfo{}
	vertexInputState.SType = vk.StructureTypePipelineVertexInputStateCreateInfo

	var inputAssemblyState = vk.PipelineInputAssemblyStateCreateInfo{}
	inputAssemblyState.SType = vk.StructureTypePipelineInputAssemblyStateCreateInfo
	inputAssemblyState.Topology = vk.PrimitiveTopologyTriangleList
	inputAssemblyState.PrimitiveRestartEnable = vk.False

	viewport := vk.Viewport{
		X: 0, Y: 0,
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}

	scissor := vk.Rect2D{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: extent,
	}

	var viewportState = vk.PipelineViewportStateCreateInfo{}
	viewportState.SType = vk.StructureTypePipelineViewportStateCreateInfo
	viewportState.ViewportCount = 1
	viewportState.PViewports = []vk.Viewport{viewport}
	viewportState.ScissorCount = 1
	viewportState.PScissors = []vk.Rect2D{scissor}

	var rasterState = vk.PipelineRasterizationStateCreateInfo{}
	rasterState.SType = vk.StructureTypePipelineRasterizationStateCreateInfo
	rasterState.DepthClampEnable = vk.False
	rasterState.RasterizerDiscardEnable = vk.False
	rasterState.PolygonMode = vk.PolygonModeFill
	rasterState.LineWidth = 1.0
	rasterState.CullMode = vk.CullModeFlags(g.CullMode)
	rasterState.FrontFace = g.FrontFace
	rasterState.DepthBiasEnable = vk.False

	var multisampleState = vk.PipelineMultisampleStateCreateInfo{}
	multisampleState.SType = vk.StructureTypePipelineMultisampleStateCreateInfo
	multisampleState.SampleShadingEnable = vk.False
	multisampleState.RasterizationSamples = vk.SampleCount1Bit

	// pass-through: write all channels, no blending
	blendAttachments := []vk.PipelineColorBlendAttachmentState{{
		ColorWriteMask: vk.ColorComponentFlags(vk.ColorComponentRBit | vk.ColorComponentGBit | vk.ColorComponentBBit | vk.ColorComponentABit),
		BlendEnable:    vk.False,
	}}

	var colorBlendState = vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		AttachmentCount: uint32(len(blendAttachments)),
		PAttachments:    blendAttachments,
	}

	var pipelineLayout vk.PipelineLayout
	if g.Layout != nil {
		pipelineLayout = g.Layout.VKPipelineLayout
	}

	createInfo := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(g.ShaderStages)),
		PStages:             g.ShaderStages,
		PVertexInputState:   &vertexInputState,
		PInputAssemblyState: &inputAssemblyState,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterState,
		PMultisampleState:   &multisampleState,
		PColorBlendState:    &colorBlendState,
		Layout:              pipelineLayout,
		RenderPass:          renderPass.VKRenderPass,
		Subpass:             0,
	}

	return createInfo, nil
}

type PipelineCache struct {
	Device          *Device
	VKPipelineCache vk.PipelineCache
}

func (d *Device) CreatePipelineCache() (*PipelineCache, error) {
	var pipelineCacheCreate = vk.PipelineCacheCreateInfo{}
	pipelineCacheCreate.SType = vk.StructureTypePipelineCacheCreateInfo

	var pipelineCache vk.PipelineCache

	err := vk.Error(vk.CreatePipelineCache(d.VKDevice, &pipelineCacheCreate, nil, &pipelineCache))
	if err != nil {
		return nil, err
	}

	var ret PipelineCache
	ret.Device = d
	ret.VKPipelineCache = pipelineCache
	return &ret, nil
}

func (p *PipelineCache) Destroy() {
	vk.DestroyPipelineCache(p.Device.VKDevice, p.VKPipelineCache, nil)
}

// GraphicsPipeline is the compiled pipeline plus the render pass it is
// compatible with. The render pass reference is non-owning: the pipeline
// must be destroyed before it.
type GraphicsPipeline struct {
	Device     *Device
	RenderPass *RenderPass
	VKPipeline vk.Pipeline
}

// CreateGraphicsPipeline compiles the configured pipeline against the given
// render pass through the device's pipeline cache.
func (d *Device) CreateGraphicsPipeline(cache *PipelineCache, config *GraphicsPipelineConfig, renderPass *RenderPass, extent vk.Extent2D) (*GraphicsPipeline, error) {

	createInfo, err := config.VKGraphicsPipelineCreateInfo(renderPass, extent)
	if err != nil {
		return nil, fmt.Errorf("error generating graphics pipeline config: %w", err)
	}

	var vkCache vk.PipelineCache
	if cache != nil {
		vkCache = cache.VKPipelineCache
	}

	pipelines := make([]vk.Pipeline, 1)
	err = vk.Error(vk.CreateGraphicsPipelines(d.VKDevice, vkCache,
		1,
		[]vk.GraphicsPipelineCreateInfo{createInfo},
		nil,
		pipelines))

	if err != nil {
		return nil, err
	}

	var ret GraphicsPipeline
	ret.Device = d
	ret.RenderPass = renderPass
	ret.VKPipeline = pipelines[0]

	return &ret, nil
}

func (g *GraphicsPipeline) Destroy() {
	vk.DestroyPipeline(g.Device.VKDevice, g.VKPipeline, nil)
	g.VKPipeline = vk.NullPipeline
}
