package controls

import "campus3d/core"

// InputSource is the part of a window an Orbit listens to.
type InputSource interface {
	SetMouseButtonCallback(cb core.MouseButtonCallback)
	SetCursorPosCallback(cb core.CursorPosCallback)
	SetScrollCallback(cb core.ScrollCallback)
}

// Bind forwards pointer and scroll input from src to o.
func Bind(src InputSource, o *Orbit) {
	src.SetMouseButtonCallback(func(button int, pressed bool, x, y float64) {
		if pressed {
			o.PointerDown(button, x, y)
		} else {
			o.PointerUp()
		}
	})
	src.SetCursorPosCallback(o.PointerMove)
	src.SetScrollCallback(func(xoff, yoff float64) {
		o.Scroll(yoff)
	})
}
