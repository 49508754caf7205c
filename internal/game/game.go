package game

import (
	"fmt"
	"log"
	"time"

	"springsim/internal/audio"
	"springsim/internal/physics"
	"springsim/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type Config struct {
	FPS      int
	Substeps int
	Muted    bool
}

type Game struct {
	World    *world.World
	Renderer *Renderer
	Panel    *Panel
	Substeps int
	Paused   bool

	cfg Config

	// Frame timing (ms)
	updateMs float64
	drawMs   float64
}

func New(w *world.World, cfg Config) *Game {
	return &Game{
		World:    w,
		Renderer: NewRenderer(),
		Panel:    NewPanel(w.Env.Options().Width),
		Substeps: cfg.Substeps,
		cfg:      cfg,
	}
}

func (g *Game) Run() {
	opts := g.World.Env.Options()
	rl.InitWindow(int32(opts.Width), int32(opts.Height), "springsim - "+g.World.Name)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(g.cfg.FPS))
	initPanelStyle()

	if err := audio.Init(); err != nil {
		log.Printf("Audio: %v, running silent", err)
	} else {
		defer audio.Close()
		audio.SetMuted(g.cfg.Muted)
		audio.Attach(g.World.Env)
	}

	g.World.Env.OnMerge.AddListener(func(m physics.Merge) {
		g.World.Forget(m.Absorbed)
	})

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}
}

func (g *Game) Update() {
	updateStart := time.Now()

	mouse := rl.GetMousePosition()
	mx, my := float64(mouse.X), float64(mouse.Y)
	overPanel := g.Panel.Captures(mouse)

	if rl.IsMouseButtonDown(rl.MouseRightButton) && !overPanel {
		g.World.Spawn()
	}
	if rl.IsMouseButtonDown(rl.MouseLeftButton) && !overPanel {
		g.World.Grab(mx, my)
		g.World.Drag(mx, my)
	}

	if rl.IsKeyPressed(rl.KeyDelete) {
		g.World.RemoveSelected()
	}
	if rl.IsKeyPressed(rl.KeyF1) {
		g.Panel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyM) {
		audio.SetMuted(!audio.Muted())
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.Paused = !g.Paused
	}

	if !g.Paused {
		g.World.Step(float64(rl.GetFrameTime()), g.Substeps)
	}

	g.updateMs = float64(time.Since(updateStart).Microseconds()) / 1000.0
}

func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(g.Renderer.Background)

	drawStart := time.Now()
	g.Renderer.Draw(g.World)
	g.drawMs = float64(time.Since(drawStart).Microseconds()) / 1000.0

	g.DrawUI()
	g.Panel.Draw(g)
	rl.EndDrawing()
}

func (g *Game) DrawUI() {
	env := g.World.Env

	selected := "none"
	if i, ok := env.IndexOf(g.World.Selected); ok {
		selected = fmt.Sprintf("%d", i)
	}

	rl.DrawText("selected joint: "+selected, 0, 0, 20, rl.White)
	rl.DrawFPS(0, 20)
	rl.DrawText(fmt.Sprintf("%.4f", rl.GetFrameTime()), 0, 40, 20, rl.Blue)
	rl.DrawText(fmt.Sprintf("%d", env.JointCount()), 0, 60, 20, rl.Red)

	status := fmt.Sprintf("%s pairing, %d substeps, update %.2f ms, draw %.2f ms",
		env.Options().Pairing, g.Substeps, g.updateMs, g.drawMs)
	if g.Paused {
		status += ", paused"
	}
	if audio.Available() && audio.Muted() {
		status += ", muted"
	}
	rl.DrawText(status, 0, 84, 14, rl.DarkGray)

	rl.DrawText("RMB spawn  LMB drag  Del remove  Space pause  M mute  F1 panel",
		0, int32(rl.GetScreenHeight())-20, 14, rl.DarkGray)
}
