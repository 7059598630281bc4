package trigon

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Config carries the runtime choices that used to hide behind build-time
// constants. The zero value is usable; Init fills in defaults.
type Config struct {
	// AppName names the application to the backend and titles the window.
	AppName string `toml:"app_name"`

	// Width and Height are the initial window size in screen coordinates.
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// Validation enables the Khronos validation layer and routes its
	// diagnostics through the package logger. A runtime value so tests and
	// tools can toggle it per case.
	Validation bool `toml:"validation"`

	// FrameLag is the number of frames allowed in flight; each gets its
	// own command buffer and FrameSync set.
	Lag int `toml:"frame_lag"`

	// ClearColor is the RGBA color the attachment clears to each frame.
	// The all-zero value means unset and becomes opaque black, so a fully
	// transparent clear is not expressible; nothing reads the alpha
	// channel anyway, the swapchain composites opaque.
	ClearColor [4]float32 `toml:"clear_color"`

	// VertexShaderPath and FragmentShaderPath locate the SPIR-V blobs for
	// the two pipeline stages.
	VertexShaderPath   string `toml:"vertex_shader"`
	FragmentShaderPath string `toml:"fragment_shader"`
}

const (
	defaultWidth  = 800
	defaultHeight = 600
	defaultLag    = 2
)

func (c *Config) setDefaults() {
	if c.AppName == "" {
		c.AppName = "trigon"
	}
	if c.Width <= 0 {
		c.Width = defaultWidth
	}
	if c.Height <= 0 {
		c.Height = defaultHeight
	}
	if c.Lag <= 0 {
		c.Lag = defaultLag
	}
	// default clear is opaque black, which is ClearColor's zero value
	// except for alpha
	if c.ClearColor == ([4]float32{}) {
		c.ClearColor = [4]float32{0, 0, 0, 1}
	}
	if c.VertexShaderPath == "" {
		c.VertexShaderPath = "shaders/vert.spv"
	}
	if c.FragmentShaderPath == "" {
		c.FragmentShaderPath = "shaders/frag.spv"
	}
}

// LoadConfig reads a TOML config file. Missing keys keep their defaults.
func LoadConfig(path string) (Config, error) {
	var c Config
	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := toml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("error parsing config '%s': %w", path, err)
	}
	return c, nil
}
