// Package controls implements the on-screen button bar of the viewer: zoom in, zoom out, reset and
// the auto-rotate toggle.
package controls

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/model"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-pano/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Commands is the set of view commands the buttons are bound to. camera.OrbitController
// satisfies it.
type Commands interface {
	ZoomIn()
	ZoomOut()
	Reset()
	// ToggleAutoRotate flips idle rotation and returns the new state.
	ToggleAutoRotate() bool
	AutoRotate() bool
}

var _ Commands = camera.OrbitController(nil)

// Action identifies a button.
type Action int

const (
	ActionZoomIn Action = iota
	ActionZoomOut
	ActionReset
	ActionAutoRotate
)

func (a Action) String() string {
	switch a {
	case ActionZoomIn:
		return "zoom in"
	case ActionZoomOut:
		return "zoom out"
	case ActionReset:
		return "reset"
	case ActionAutoRotate:
		return "auto rotate"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Button is the resolved layout of one control.
type Button struct {
	Action Action
	Label  string
	Rect   common.Rect
	// Active is set on the auto-rotate button while idle rotation is on.
	Active bool
}

const (
	// BottomOffset is the distance between the bottom surface edge and the button bar.
	BottomOffset = 20
	// ButtonMargin is the margin around every button.
	ButtonMargin = 4
	// ButtonGap is the gap between neighbouring button margins.
	ButtonGap = 8
	// PaddingX and PaddingY are the label insets inside a button.
	PaddingX = 16
	PaddingY = 8
)

var (
	// BackgroundColor is the button fill color.
	BackgroundColor = common.Color{R: 0, G: 0, B: 0, A: 1}
	// ActiveColor is the fill color of the auto-rotate button while rotation is on.
	ActiveColor = common.ColorFromRGBA8(0, 128, 0, 1)
)

const backgroundOpacity = 0.5

type button struct {
	action     Action
	label      string
	labelWidth int

	background model.Model
	text       model.Model
}

type panel struct {
	mu       *sync.Mutex
	commands Commands

	buttons []*button
	scene   scene.Scene
	camera  camera.OrthographicCamera

	logger common.Logger
}

// Panel is the button bar centred at the bottom of the surface. Buttons are drawn in a pixel
// space overlay pass after the minimap.
type Panel interface {
	// Layout resolves the button rectangles for a surface size.
	//
	// Parameters:
	//   - surfaceWidth: the surface width in pixels
	//   - surfaceHeight: the surface height in pixels
	//
	// Returns:
	//   - []Button: the buttons in display order
	Layout(surfaceWidth, surfaceHeight int) []Button

	// HitTest finds the button under a pointer position.
	//
	// Parameters:
	//   - x, y: the pointer position in surface pixels
	//   - surfaceWidth, surfaceHeight: the surface size in pixels
	//
	// Returns:
	//   - Action: the button action
	//   - bool: true if a button was hit
	HitTest(x, y float32, surfaceWidth, surfaceHeight int) (Action, bool)

	// Click runs the command of the button under the pointer, if any.
	//
	// Returns:
	//   - bool: true if the click landed on a button
	Click(x, y float32, surfaceWidth, surfaceHeight int) bool

	// Run executes the command bound to an action.
	Run(action Action)

	// InitGPU creates the button quads and label textures on the renderer.
	InitGPU(r renderer.Renderer) error

	// Draw renders the buttons over the current frame in their own pass.
	Draw(r renderer.Renderer) error

	// Release frees the panel's GPU resources. Safe to call more than once.
	Release(r renderer.Renderer)
}

var _ Panel = &panel{}

// NewPanel creates the four-button control bar bound to the given commands.
//
// Parameters:
//   - commands: the view commands the buttons trigger
//   - options: a variadic list of PanelBuilderOption functions
//
// Returns:
//   - Panel: the configured panel
func NewPanel(commands Commands, options ...PanelBuilderOption) Panel {
	p := &panel{
		mu:       &sync.Mutex{},
		commands: commands,
		camera:   camera.NewOrthographicCamera(camera.WithOrthographicClipPlanes(0.1, 10)),
		logger:   common.NewNopLogger(),
	}
	for _, opt := range options {
		opt(p)
	}

	defs := []struct {
		action Action
		label  string
	}{
		{ActionZoomIn, "+"},
		{ActionZoomOut, "-"},
		{ActionReset, "Reset"},
		{ActionAutoRotate, "Auto Rotate"},
	}

	models := make([]model.Model, 0, len(defs)*2)
	for _, d := range defs {
		tex := rasterizeLabel(d.label)
		b := &button{
			action:     d.action,
			label:      d.label,
			labelWidth: int(tex.Width),
			background: model.NewModel(model.NewQuadMesh(),
				material.NewMaterial(
					material.WithName(d.label+" background"),
					material.WithColor(BackgroundColor),
					material.WithTransparency(backgroundOpacity),
					material.WithSide(material.SideDouble),
				),
				model.WithLabel(d.label+" Button"),
			),
			text: model.NewModel(model.NewQuadMesh(),
				material.NewMaterial(
					material.WithName(d.label+" label"),
					material.WithTexture(tex),
					material.WithSampler(labelSampler),
					material.WithTransparency(1),
					material.WithSide(material.SideDouble),
				),
				model.WithLabel(d.label+" Label"),
			),
		}
		p.buttons = append(p.buttons, b)
		models = append(models, b.background, b.text)
	}
	p.scene = scene.NewScene("Controls", scene.WithModels(models...))
	return p
}

func (p *panel) Layout(surfaceWidth, surfaceHeight int) []Button {
	height := labelHeight + 2*PaddingY

	total := 0
	for i, b := range p.buttons {
		total += b.labelWidth + 2*PaddingX
		if i > 0 {
			total += ButtonGap + 2*ButtonMargin
		}
	}

	x := (surfaceWidth - total) / 2
	y := surfaceHeight - BottomOffset - ButtonMargin - height
	active := p.commands != nil && p.commands.AutoRotate()

	out := make([]Button, 0, len(p.buttons))
	for _, b := range p.buttons {
		width := b.labelWidth + 2*PaddingX
		out = append(out, Button{
			Action: b.action,
			Label:  b.label,
			Rect:   common.Rect{X: x, Y: y, Width: width, Height: height},
			Active: b.action == ActionAutoRotate && active,
		})
		x += width + ButtonGap + 2*ButtonMargin
	}
	return out
}

func (p *panel) HitTest(x, y float32, surfaceWidth, surfaceHeight int) (Action, bool) {
	for _, b := range p.Layout(surfaceWidth, surfaceHeight) {
		if b.Rect.Contains(x, y) {
			return b.Action, true
		}
	}
	return 0, false
}

func (p *panel) Click(x, y float32, surfaceWidth, surfaceHeight int) bool {
	action, ok := p.HitTest(x, y, surfaceWidth, surfaceHeight)
	if !ok {
		return false
	}
	p.Run(action)
	return true
}

func (p *panel) Run(action Action) {
	if p.commands == nil {
		return
	}
	switch action {
	case ActionZoomIn:
		p.commands.ZoomIn()
	case ActionZoomOut:
		p.commands.ZoomOut()
	case ActionReset:
		p.commands.Reset()
	case ActionAutoRotate:
		on := p.commands.ToggleAutoRotate()
		p.logger.Debugf("auto rotate %t", on)
	}
}

func (p *panel) InitGPU(r renderer.Renderer) error {
	if err := p.scene.InitGPU(r); err != nil {
		return fmt.Errorf("controls: %w", err)
	}
	return nil
}

func (p *panel) Draw(r renderer.Renderer) error {
	w, h := r.SurfaceSize()
	p.arrange(w, h)

	if err := r.BeginPass(renderer.Target{Label: "Controls"}); err != nil {
		return fmt.Errorf("controls: %w", err)
	}
	defer r.EndPass()
	return p.scene.Draw(r, p.camera)
}

// arrange moves the quads onto the current layout and frames the surface in pixels, y down.
func (p *panel) arrange(surfaceWidth, surfaceHeight int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.camera.SetBounds(0, float32(surfaceWidth), 0, float32(surfaceHeight))
	for i, lb := range p.Layout(surfaceWidth, surfaceHeight) {
		b := p.buttons[i]
		rect := lb.Rect
		b.background.SetPosition(mgl32.Vec3{float32(rect.X), float32(rect.Y), 0})
		b.background.SetScale(mgl32.Vec3{float32(rect.Width), float32(rect.Height), 1})
		b.text.SetPosition(mgl32.Vec3{float32(rect.X + PaddingX), float32(rect.Y + PaddingY), 0})
		b.text.SetScale(mgl32.Vec3{float32(b.labelWidth), labelHeight, 1})

		if lb.Active {
			b.background.Material().SetColor(ActiveColor)
		} else {
			b.background.Material().SetColor(BackgroundColor)
		}
	}
}

func (p *panel) Release(r renderer.Renderer) {
	p.scene.Release(r)
}
