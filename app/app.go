// Package app drives the frame loop: it owns the scene, camera, controls and
// renderer of one window and hands them to every callback.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"campus3d/scene"
)

// ErrStopped is returned by a Presenter when the loop should end, for example
// because the window was closed.
var ErrStopped = errors.New("render loop stopped")

// Drawer renders a scene onto a resizable surface.
type Drawer interface {
	Render(s *scene.Scene, cam *scene.Camera) error
	SetSize(width, height int)
}

// Controller advances camera controls once per frame.
type Controller interface {
	Update() bool
}

// Presenter shows the finished frame and blocks until the next one may start.
type Presenter interface {
	Present(ctx context.Context) error
}

type viewportSetter interface {
	SetViewport(width, height int)
}

// Context is the state shared by the frame loop and the resize listener.
type Context struct {
	Scene    *scene.Scene
	Camera   *scene.Camera
	Controls Controller
	Drawer   Drawer

	Width  int
	Height int

	frames uint64
}

// NewContext wires the parts together and sizes them to width x height. The
// controls get the same size until ResizeWindow says otherwise.
func NewContext(s *scene.Scene, cam *scene.Camera, controls Controller, drawer Drawer, width, height int) *Context {
	c := &Context{
		Scene:    s,
		Camera:   cam,
		Controls: controls,
		Drawer:   drawer,
	}
	c.Resize(width, height)
	c.ResizeWindow(width, height)
	return c
}

// Resize updates the camera aspect and projection and the drawing surface
// to a framebuffer of width x height pixels. Calling it again with the same
// size changes nothing. Non-positive sizes, as reported for a minimised
// window, are ignored.
func (c *Context) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Width, c.Height = width, height
	c.Camera.SetAspect(width, height)
	c.Camera.UpdateProjectionMatrix()
	c.Drawer.SetSize(width, height)
}

// ResizeWindow tells the controls the window size in the units pointer
// positions arrive in. On HiDPI displays this is smaller than the
// framebuffer passed to Resize.
func (c *Context) ResizeWindow(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if v, ok := c.Controls.(viewportSetter); ok {
		v.SetViewport(width, height)
	}
}

// Frame advances the controls and draws the scene once.
func (c *Context) Frame() error {
	c.Controls.Update()
	if err := c.Drawer.Render(c.Scene, c.Camera); err != nil {
		return fmt.Errorf("frame %d: %w", c.frames, err)
	}
	c.frames++
	return nil
}

// FrameCount reports how many frames have been drawn.
func (c *Context) FrameCount() uint64 {
	return c.frames
}

// Run draws and presents frames in order until ctx is cancelled or the
// presenter returns ErrStopped, both of which end the loop without error.
// A render or present failure ends it with that error.
func (c *Context) Run(ctx context.Context, presenter Presenter) error {
	slog.Debug("render loop started", "width", c.Width, "height", c.Height)
	defer func() {
		slog.Debug("render loop finished", "frames", c.frames)
	}()

	for ctx.Err() == nil {
		if err := c.Frame(); err != nil {
			return err
		}
		if err := presenter.Present(ctx); err != nil {
			if errors.Is(err, ErrStopped) || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("present: %w", err)
		}
	}
	return nil
}
