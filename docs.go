/*
Package trigon wraps just enough of the Vulkan graphics API for Go to
open a window, negotiate a swapchain, build one fixed-function graphics
pipeline and present frames. Vulkan is a very powerful but verbose API: it
hands the application full control over device selection, object lifetimes
and per-frame synchronization, and in exchange does almost nothing on the
application's behalf.

This package concentrates on the two parts of that contract which are easy
to get subtly wrong and hard to debug when you do:

# Resource lifetimes

Every Vulkan object is created against a parent (the instance owns the
surface, the device owns the swapchain, the swapchain's images back the
framebuffers, and so on) and must be destroyed before that parent, after the
GPU has finished with it. trigon records every construction on an explicit
teardown stack (see Teardown) and releases objects by popping it, so
destruction always happens in exact reverse construction order - including
when construction itself fails partway through.

# Frame pacing

A command buffer must not be re-recorded while the GPU may still be
executing it, a swapchain image must not be rendered to before the
presentation engine has released it, and an image must not be presented
before rendering to it has finished. Those three rules are enforced by one
fence and two semaphores per in-flight frame slot (see FrameSync) driven
through a fixed wait / acquire / record / submit / present cycle (see
FrameLoop and GraphicsApp).

Like the native API, the wrappers here expose their underlying Vulkan
handles in fields prefixed with VK, so an application is never boxed in by
what this package chooses to wrap.

A minimal application:

	app := trigon.NewGraphicsApp(trigon.Config{AppName: "triangle", Validation: true})
	if err := app.Init(window); err != nil {
		// partially constructed state has already been released
		log.Fatal(err)
	}
	defer app.Destroy()
	err := app.Run(window.ShouldClose, glfw.PollEvents)
*/
package trigon
