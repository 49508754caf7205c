package game

import (
	"fmt"
	"math"

	"springsim/internal/physics"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Theme colors, indigo on near-black
var (
	colorBgDark    = rl.NewColor(10, 10, 15, 255)
	colorBgPanel   = rl.NewColor(18, 18, 24, 235)
	colorBgElement = rl.NewColor(28, 28, 38, 255)
	colorBgHover   = rl.NewColor(38, 38, 52, 255)
	colorAccent    = rl.NewColor(108, 99, 255, 255)

	colorTextPrimary   = rl.NewColor(255, 255, 255, 255)
	colorTextSecondary = rl.NewColor(200, 200, 208, 255)
	colorTextMuted     = rl.NewColor(119, 119, 119, 255)
)

const maxSubsteps = 16

func initPanelStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorBgDark))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorBgElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(colorBgHover))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorTextSecondary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(colorTextPrimary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(colorTextPrimary))

	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(50, 50, 65, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 14)
}

// Panel edits the environment options while the simulation runs
type Panel struct {
	Bounds  rl.Rectangle
	Visible bool
}

func NewPanel(screenWidth int) *Panel {
	const w = 220
	return &Panel{
		Bounds: rl.Rectangle{X: float32(screenWidth - w - 10), Y: 10, Width: w, Height: 380},
	}
}

func (p *Panel) Toggle() {
	p.Visible = !p.Visible
}

// Captures reports whether the mouse is over the visible panel, in which
// case clicks belong to the panel rather than the simulation.
func (p *Panel) Captures(mouse rl.Vector2) bool {
	return p.Visible && rl.CheckCollisionPointRec(mouse, p.Bounds)
}

func (p *Panel) Draw(g *Game) {
	if !p.Visible {
		return
	}

	env := g.World.Env
	opts := env.Options()

	rl.DrawRectangleRec(p.Bounds, colorBgPanel)
	rl.DrawRectangleLinesEx(p.Bounds, 1, colorAccent)

	x := p.Bounds.X + 12
	y := p.Bounds.Y + 10
	rl.DrawText("Simulation (F1)", int32(x), int32(y), 16, colorTextPrimary)
	y += 26

	f := opts.Features
	check := func(label string, v bool) bool {
		v = gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 14, Height: 14}, label, v)
		y += 20
		return v
	}
	f.Accelerate = check("Accelerate", f.Accelerate)
	f.Move = check("Move", f.Move)
	f.Drag = check("Drag", f.Drag)
	f.Bounce = check("Bounce", f.Bounce)
	f.Collide = check("Collide", f.Collide)
	f.Attract = check("Attract", f.Attract)
	f.Combine = check("Combine", f.Combine)
	if f != opts.Features {
		env.SetFeatures(f)
	}

	y += 4
	reference := check("Reference pairing", opts.Pairing == physics.PairReference)
	if reference != (opts.Pairing == physics.PairReference) {
		if reference {
			env.SetPairing(physics.PairReference)
		} else {
			env.SetPairing(physics.PairOnce)
		}
	}

	sliderW := p.Bounds.Width - 24 - 40
	slider := func(label, value string, v, min, max float32) float32 {
		y += 6
		rl.DrawText(label, int32(x), int32(y), 12, colorTextMuted)
		y += 14
		v = gui.Slider(rl.Rectangle{X: x, Y: y, Width: sliderW, Height: 14}, "", value, v, min, max)
		y += 18
		return v
	}

	acc := opts.Acceleration
	angle := slider("Gravity angle", fmt.Sprintf("%.2f", acc.Angle), float32(acc.Angle), 0, 2*math.Pi)
	magnitude := slider("Gravity magnitude", fmt.Sprintf("%.2f", acc.Magnitude), float32(acc.Magnitude), 0, 3)
	if angle != float32(acc.Angle) || magnitude != float32(acc.Magnitude) {
		env.SetAcceleration(physics.Vector{Angle: float64(angle), Magnitude: float64(magnitude)})
	}

	substeps := slider("Substeps", fmt.Sprintf("%d", g.Substeps), float32(g.Substeps), 1, maxSubsteps)
	g.Substeps = int(math.Round(float64(substeps)))
}
