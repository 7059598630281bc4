package trigon

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestReportLevel(t *testing.T) {
	cases := []struct {
		flags vk.DebugReportFlagBits
		level slog.Level
	}{
		{vk.DebugReportDebugBit, slog.LevelDebug},
		{vk.DebugReportInformationBit, slog.LevelInfo},
		{vk.DebugReportWarningBit, slog.LevelWarn},
		{vk.DebugReportPerformanceWarningBit, slog.LevelWarn},
		{vk.DebugReportErrorBit, slog.LevelError},
	}

	for _, c := range cases {
		assert.Equal(t, c.level, reportLevel(vk.DebugReportFlags(c.flags)), "flags 0x%x", c.flags)
	}
}

func TestReportLevelUnknownSeverityPanics(t *testing.T) {
	assert.Panics(t, func() { reportLevel(0) })
	assert.Panics(t, func() { reportLevel(vk.DebugReportFlags(1 << 30)) })
}

func TestReportCategory(t *testing.T) {
	assert.Equal(t, "performance", reportCategory(vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit)))
	assert.Equal(t, "validation", reportCategory(vk.DebugReportFlags(vk.DebugReportWarningBit)))
	assert.Equal(t, "validation", reportCategory(vk.DebugReportFlags(vk.DebugReportErrorBit)))
	assert.Equal(t, "general", reportCategory(vk.DebugReportFlags(vk.DebugReportInformationBit)))
	assert.Equal(t, "general", reportCategory(vk.DebugReportFlags(vk.DebugReportDebugBit)))
}
