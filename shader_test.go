package trigon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateShaderModuleRejectsBadLengths(t *testing.T) {
	d := &Device{}

	_, err := d.CreateShaderModule(nil)
	assert.ErrorIs(t, err, ErrInvalidShaderCode)

	_, err = d.CreateShaderModule([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidShaderCode)

	_, err = d.CreateShaderModule(make([]byte, 17))
	assert.ErrorIs(t, err, ErrInvalidShaderCode)
}

func TestLoadShaderModuleFromFileMissing(t *testing.T) {
	d := &Device{}

	_, err := d.LoadShaderModuleFromFile(filepath.Join(t.TempDir(), "missing.spv"))
	assert.Error(t, err)
}

func TestLoadShaderModuleFromFileBadBlob(t *testing.T) {
	d := &Device{}

	path := filepath.Join(t.TempDir(), "truncated.spv")
	require.NoError(t, os.WriteFile(path, []byte{0x03, 0x02, 0x23}, 0o644))

	_, err := d.LoadShaderModuleFromFile(path)
	assert.ErrorIs(t, err, ErrInvalidShaderCode)
}

func TestSliceUint32(t *testing.T) {
	words := sliceUint32([]byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00})
	require.Len(t, words, 2)
	// SPIR-V magic, little-endian
	assert.Equal(t, uint32(0x07230203), words[0])
	assert.Equal(t, uint32(0x00010000), words[1])
}
