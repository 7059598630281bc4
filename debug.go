package trigon

import (
	"context"
	"fmt"
	"log/slog"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// reportLevel maps the severity bits of a debug report 1:1 to slog levels.
// The backend only ever sets one severity bit per message; a message whose
// bits we do not recognize indicates a programming error somewhere (ours or
// a layer's), so it panics rather than guessing a level.
func reportLevel(flags vk.DebugReportFlags) slog.Level {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportDebugBit) != 0:
		return slog.LevelDebug
	case flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0:
		return slog.LevelInfo
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		return slog.LevelWarn
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		return slog.LevelWarn
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return slog.LevelError
	}
	panic(fmt.Sprintf("trigon: unrecognized debug report severity 0x%x", flags))
}

// reportCategory labels a message for the logging sink.
func reportCategory(flags vk.DebugReportFlags) string {
	if flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0 {
		return "performance"
	}
	if flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportErrorBit) != 0 {
		return "validation"
	}
	return "general"
}

// forwardDebugReport is the callback registered with the backend. It is
// invoked synchronously on the calling thread, so no locking is involved.
func forwardDebugReport(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, layerPrefix string,
	message string, userData unsafe.Pointer) vk.Bool32 {

	Logger().Log(context.Background(), reportLevel(flags), message,
		"category", reportCategory(flags),
		"layer", layerPrefix,
		"code", messageCode)

	return vk.Bool32(vk.False)
}

// SetupDebugReport registers the package debug callback on the instance.
// It reports everything the layers emit; filtering is the logger's job.
func (i *Instance) SetupDebugReport() error {
	var callback vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(i.VKInstance, &vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(vk.DebugReportDebugBit | vk.DebugReportInformationBit |
			vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit | vk.DebugReportErrorBit),
		PfnCallback: forwardDebugReport,
	}, nil, &callback)
	if err := vk.Error(ret); err != nil {
		return fmt.Errorf("error creating debug report callback: %w", err)
	}
	i.debugCallback = callback
	return nil
}

func (i *Instance) destroyDebugReport() {
	if i.debugCallback != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(i.VKInstance, i.debugCallback, nil)
		i.debugCallback = vk.NullDebugReportCallback
	}
}
