package game

import (
	"strconv"

	"springsim/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type Renderer struct {
	Background  rl.Color
	SpringColor rl.Color
	LineColor   rl.Color
	SelectColor rl.Color
	// Joints below this index get their index drawn above them
	LabelCount int
}

func NewRenderer() *Renderer {
	return &Renderer{
		Background:  rl.Black,
		SpringColor: rl.White,
		LineColor:   rl.Gray,
		SelectColor: rl.NewColor(167, 139, 250, 255),
		LabelCount:  4,
	}
}

// Draw renders lines, joints, then springs from their cached endpoints
func (r *Renderer) Draw(w *world.World) {
	env := w.Env

	for _, l := range env.Lines() {
		rl.DrawLineEx(
			rl.Vector2{X: float32(l.StartX), Y: float32(l.StartY)},
			rl.Vector2{X: float32(l.EndX), Y: float32(l.EndY)},
			float32(l.Width),
			r.LineColor,
		)
	}

	for i := 0; i < env.JointCount(); i++ {
		j := env.Joint(i)
		h := env.Handle(i)
		x, y := int32(j.X), int32(j.Y)

		rl.DrawCircle(x, y, float32(j.Size), rl.ColorFromHSV(w.Hue(h), 1, 1))
		if h == w.Selected {
			rl.DrawCircleLines(x, y, float32(j.Size)+3, r.SelectColor)
		}
	}

	for _, s := range env.Springs() {
		rl.DrawLine(int32(s.PosA[0]), int32(s.PosA[1]), int32(s.PosB[0]), int32(s.PosB[1]), r.SpringColor)
	}

	for i := 0; i < env.JointCount() && i < r.LabelCount; i++ {
		j := env.Joint(i)
		rl.DrawText(strconv.Itoa(i), int32(j.X)-10, int32(j.Y)-30, 20, rl.White)
	}
}
