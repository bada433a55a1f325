package app

import (
	"context"

	"campus3d/core"
)

// WindowPresenter presents frames to a GLFW window. With vsync enabled the
// buffer swap waits for the display refresh.
type WindowPresenter struct {
	Window *core.Window
}

func (p WindowPresenter) Present(ctx context.Context) error {
	p.Window.SwapBuffers()
	p.Window.PollEvents()
	if p.Window.ShouldClose() || p.Window.IsKeyPressed(core.KeyEscape) {
		return ErrStopped
	}
	return ctx.Err()
}
