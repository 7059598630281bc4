package trigon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	var c Config
	c.setDefaults()

	assert.Equal(t, "trigon", c.AppName)
	assert.Equal(t, 800, c.Width)
	assert.Equal(t, 600, c.Height)
	assert.Equal(t, 2, c.Lag)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, c.ClearColor)
	assert.Equal(t, "shaders/vert.spv", c.VertexShaderPath)
	assert.Equal(t, "shaders/frag.spv", c.FragmentShaderPath)
	assert.False(t, c.Validation)
}

func TestConfigDefaultsKeepExplicitValues(t *testing.T) {
	c := Config{AppName: "demo", Width: 1024, Height: 768, Lag: 3}
	c.setDefaults()

	assert.Equal(t, "demo", c.AppName)
	assert.Equal(t, 1024, c.Width)
	assert.Equal(t, 768, c.Height)
	assert.Equal(t, 3, c.Lag)
}

func TestConfigClearColorZeroMeansUnset(t *testing.T) {
	c := Config{ClearColor: [4]float32{0, 0, 0, 0}}
	c.setDefaults()
	assert.Equal(t, [4]float32{0, 0, 0, 1}, c.ClearColor)

	// any non-zero component marks the value as set
	c = Config{ClearColor: [4]float32{0, 0, 0, 0.5}}
	c.setDefaults()
	assert.Equal(t, [4]float32{0, 0, 0, 0.5}, c.ClearColor)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trigon.toml")
	data := `
app_name = "demo"
width = 1280
height = 720
validation = true
frame_lag = 3
clear_color = [0.1, 0.2, 0.3, 1.0]
vertex_shader = "assets/tri.vert.spv"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "demo", c.AppName)
	assert.Equal(t, 1280, c.Width)
	assert.Equal(t, 720, c.Height)
	assert.True(t, c.Validation)
	assert.Equal(t, 3, c.Lag)
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1.0}, c.ClearColor)
	assert.Equal(t, "assets/tri.vert.spv", c.VertexShaderPath)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadConfigBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("width = ["), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
