package viewer

import (
	"github.com/Carmen-Shannon/oxy-pano/common"
)

func (v *viewer) attachInput() {
	v.input.SetMouseDownCallback(v.onMouseDown)
	v.input.SetMouseUpCallback(v.onMouseUp)
	v.input.SetMouseMoveCallback(v.onMouseMove)
	v.input.SetScrollCallback(v.onScroll)
	v.input.SetKeyDownCallback(v.onKeyDown)
}

func (v *viewer) detachInput() {
	v.input.SetMouseDownCallback(nil)
	v.input.SetMouseUpCallback(nil)
	v.input.SetMouseMoveCallback(nil)
	v.input.SetScrollCallback(nil)
	v.input.SetKeyDownCallback(nil)
	if c, ok := v.input.(cursorSource); ok {
		c.SetHandCursor(false)
	}
}

// surfaceSize returns the current surface size, or ok=false when not mounted.
func (v *viewer) surfaceSize() (width, height int, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted {
		return 0, 0, false
	}
	width, height = v.renderer.SurfaceSize()
	return width, height, true
}

// onMouseDown routes a press: buttons run their command, the minimap swallows it, anything else
// starts a rotation drag.
func (v *viewer) onMouseDown(x, y float32) {
	w, h, ok := v.surfaceSize()
	if !ok {
		return
	}
	if v.panel.Click(x, y, w, h) {
		return
	}
	if v.minimap.Viewport(w, h).Contains(x, y) {
		return
	}
	v.controller.BeginDrag(x, y)
}

func (v *viewer) onMouseUp(x, y float32) {
	v.controller.EndDrag()
}

func (v *viewer) onMouseMove(x, y float32) {
	w, h, ok := v.surfaceSize()
	if !ok {
		return
	}
	v.controller.DragTo(x, y)

	c, isCursor := v.input.(cursorSource)
	if !isCursor {
		return
	}
	_, overButton := v.panel.HitTest(x, y, w, h)
	v.mu.Lock()
	changed := overButton != v.handCursor
	v.handCursor = overButton
	v.mu.Unlock()
	if changed {
		c.SetHandCursor(overButton)
	}
}

func (v *viewer) onScroll(delta float32) {
	if !v.Mounted() {
		return
	}
	v.controller.Dolly(delta)
}

func (v *viewer) onKeyDown(keyCode uint32) {
	if !v.Mounted() {
		return
	}
	switch keyCode {
	case common.KeyLeft:
		v.controller.OrbitLeft()
	case common.KeyRight:
		v.controller.OrbitRight()
	case common.KeyUp:
		v.controller.OrbitUp()
	case common.KeyDown:
		v.controller.OrbitDown()
	case common.KeyEqual, common.KeyKPAdd:
		v.controller.ZoomIn()
	case common.KeyMinus, common.KeyKPSubtract:
		v.controller.ZoomOut()
	case common.KeyR:
		v.controller.Reset()
	case common.KeySpace:
		on := v.controller.ToggleAutoRotate()
		v.logger.Debugf("auto rotate %t", on)
	}
}
