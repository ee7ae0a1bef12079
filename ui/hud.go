package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/landonWcummings/landoncummings.com-sub000/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title    string
	Level    string
	Mode     string
	Tick     int
	Deaths   int
	FPS      int32
	Finished bool
	Status   string
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Level: %s | Mode: %s", data.Level, data.Mode),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Deaths: %d | FPS: %d", data.Tick, data.Deaths, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	status := data.Status
	if data.Finished {
		status = "FINISHED"
	}
	if status != "" {
		rl.DrawText(status, 10, 75, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// TrainingData is a snapshot of a running or finished search.
type TrainingData struct {
	Representation string
	Record         telemetry.GenerationRecord
	MaxGenerations int
	HorizonTicks   int
	Perf           telemetry.PerfStats
	Outcome        string
}

// TrainingPanel renders evolution progress.
type TrainingPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewTrainingPanel creates a new training panel.
func NewTrainingPanel(x, y, width int32) *TrainingPanel {
	return &TrainingPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (p *TrainingPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the panel and returns the Y below it.
func (p *TrainingPanel) Draw(data TrainingData) int32 {
	r := p.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	inner := p.width - padding*2

	r.DrawPanel(p.x, p.y, p.width, lineHeight*11+padding*2)

	x := p.x + padding
	y := r.DrawSectionHeader(x, p.y+padding, "Training ("+data.Representation+")")

	rec := data.Record
	y = r.DrawLabelValue(x, y, "Generation", fmt.Sprintf("%d / %d", rec.Generation, data.MaxGenerations))
	y = r.DrawLabelValue(x, y, "Best fitness", fmt.Sprintf("%.1f", rec.BestFitness))
	y = r.DrawLabelValue(x, y, "Mean fitness", fmt.Sprintf("%.1f (sd %.1f)", rec.MeanFitness, rec.StdFitness))
	y = r.DrawLabelValue(x, y, "Best distance", fmt.Sprintf("%d", rec.BestDistance))
	y = r.DrawLabelValue(x, y, "Evaluations", fmt.Sprintf("%d", rec.CumulativeEvaluations))

	horizon := float32(0)
	if data.HorizonTicks > 0 {
		horizon = float32(rec.ExposedHorizon) / float32(data.HorizonTicks)
	}
	y = r.DrawBar(x, y, "Horizon", horizon, inner)

	if data.Perf.GenerationsPerSecond > 0 {
		y = r.DrawLabelValue(x, y, "Gen/s", fmt.Sprintf("%.1f", data.Perf.GenerationsPerSecond))
		y = r.DrawLabelValue(x, y, "Avg gen", data.Perf.AvgGeneration.Round(time.Microsecond).String())
	}
	if data.Outcome != "" {
		y = r.DrawLabelValue(x, y, "Outcome", data.Outcome)
	}
	return y
}
