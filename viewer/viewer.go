// Package viewer hosts play, training and replay in a raylib window.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/landonWcummings/landoncummings.com-sub000/camera"
	"github.com/landonWcummings/landoncummings.com-sub000/config"
	"github.com/landonWcummings/landoncummings.com-sub000/evolve"
	"github.com/landonWcummings/landoncummings.com-sub000/game"
	"github.com/landonWcummings/landoncummings.com-sub000/genome"
	"github.com/landonWcummings/landoncummings.com-sub000/level"
	"github.com/landonWcummings/landoncummings.com-sub000/renderer"
	"github.com/landonWcummings/landoncummings.com-sub000/storage"
	"github.com/landonWcummings/landoncummings.com-sub000/telemetry"
	"github.com/landonWcummings/landoncummings.com-sub000/ui"
)

// perfEvery is how often, in generations, perf.csv gets a row.
const perfEvery = 10

const controlsLegend = "Arrows/WASD: move | Space: jump | Wheel: zoom | F: follow | G: grid | N: network | R: restart"

// Options configures a viewer.
type Options struct {
	Config    *config.Config
	Level     *level.Level
	Solution  *genome.Genome // replayed on start when set
	Store     *storage.Store // optional; solutions are loaded from and saved to it
	OutputDir string         // optional training telemetry directory
}

// trainResult is handed from the training goroutine to the UI loop.
type trainResult struct {
	result evolve.Result
	err    error
}

// Viewer owns the window state. Simulation runs on the UI goroutine,
// except training, which runs in its own goroutine and reports progress
// through mu.
type Viewer struct {
	cfg    *config.Config
	lv     *level.Level
	params game.Params
	course *game.Course
	store  *storage.Store
	outDir string

	cam           *camera.Camera
	levelRenderer *renderer.LevelRenderer
	hud           *ui.HUD
	toolbar       *ui.Toolbar
	trainingPanel *ui.TrainingPanel

	session  *game.Session
	solution *genome.Genome
	speed    float32
	follow   bool
	network  bool
	status   string

	// Training state
	mu        sync.Mutex
	training  bool
	latest    telemetry.GenerationRecord
	perf      telemetry.PerfStats
	outcome   string
	cancel    context.CancelFunc
	trainDone chan trainResult
}

// New builds a viewer. The window must already be open.
func New(opts Options) (*Viewer, error) {
	if opts.Config == nil || opts.Level == nil {
		return nil, errors.New("viewer: config and level are required")
	}
	params := game.NewParams(opts.Config)
	course, err := game.NewCourse(opts.Level.Grid, params)
	if err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}

	screenW := float32(opts.Config.Screen.Width)
	screenH := float32(opts.Config.Screen.Height)
	v := &Viewer{
		cfg:           opts.Config,
		lv:            opts.Level,
		params:        params,
		course:        course,
		store:         opts.Store,
		outDir:        opts.OutputDir,
		cam:           camera.New(screenW, screenH, float32(course.Grid.WorldWidth()), float32(course.Grid.WorldHeight())),
		levelRenderer: renderer.NewLevelRenderer(),
		hud:           ui.NewHUD(),
		toolbar:       ui.NewToolbar(screenW-410, 10),
		trainingPanel: ui.NewTrainingPanel(screenW-260, 90, 250),
		solution:      opts.Solution,
		speed:         1,
		trainDone:     make(chan trainResult, 1),
	}

	if v.solution == nil && v.store != nil {
		v.loadBestSolution()
	}
	if v.solution != nil {
		v.startReplay()
	} else {
		v.startPlay()
	}

	slog.Info("viewer ready", "level", opts.Level.Name, "course", course.String(), "has_solution", v.solution != nil)
	return v, nil
}

func (v *Viewer) loadBestSolution() {
	sol, ok, err := v.store.BestSolution(context.Background(), level.Hash(v.lv.Grid))
	if err != nil {
		slog.Warn("loading stored solution failed", "error", err)
		return
	}
	if ok {
		v.solution = sol.Genome
		slog.Info("loaded stored solution", "id", sol.ID, "ticks", sol.Ticks, "representation", sol.Representation)
	}
}

func (v *Viewer) startPlay() {
	v.session = game.NewPlaySession(v.course, KeyboardInput{}, v.cfg.Replay.MaxCatchUpTicks)
	v.status = ""
}

func (v *Viewer) startReplay() {
	if v.solution == nil {
		return
	}
	v.session = game.NewReplaySession(v.course, v.solution, v.cfg.Training.HorizonTicks, v.cfg.Replay.MaxCatchUpTicks)
	v.status = ""
}

// startTraining launches the evolution engine in a goroutine.
func (v *Viewer) startTraining() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.training {
		return
	}

	settings, err := evolve.NewSettings(v.cfg)
	if err != nil {
		v.status = err.Error()
		return
	}
	eng, err := evolve.New(v.lv.Grid, v.params, settings)
	if err != nil {
		v.status = err.Error()
		return
	}
	out, err := telemetry.NewOutputManager(v.outDir)
	if err != nil {
		slog.Warn("telemetry output disabled", "error", err)
		out = nil
	}
	if err := out.WriteConfig(v.cfg); err != nil {
		slog.Warn("writing config snapshot failed", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	v.training = true
	v.latest = telemetry.GenerationRecord{}
	v.outcome = ""
	v.status = "Training"

	slog.Info("training started", "representation", settings.Representation.String(), "population", settings.PopulationSize)

	go func() {
		defer eng.Close()
		defer out.Close()

		res, err := eng.Run(ctx, func(rec telemetry.GenerationRecord) {
			perf := eng.Perf()
			v.mu.Lock()
			v.latest = rec
			v.perf = perf
			v.mu.Unlock()
			if err := out.WriteGeneration(rec); err != nil {
				slog.Warn("writing generation failed", "error", err)
			}
			if rec.Generation%perfEvery == 0 {
				if err := out.WritePerf(perf, rec.Generation); err != nil {
					slog.Warn("writing perf failed", "error", err)
				}
			}
		})
		if res.Solution != nil {
			if err := out.WriteSolution(res.Solution); err != nil {
				slog.Warn("writing solution failed", "error", err)
			}
		}
		v.trainDone <- trainResult{result: res, err: err}
	}()
}

func (v *Viewer) stopTraining() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
	}
}

// pollTraining collects a finished run without blocking.
func (v *Viewer) pollTraining() {
	select {
	case done := <-v.trainDone:
		v.mu.Lock()
		v.training = false
		v.outcome = done.result.Outcome.String()
		v.cancel = nil
		v.mu.Unlock()

		var infeasible *evolve.InfeasibleLevelError
		switch {
		case errors.As(done.err, &infeasible):
			v.status = "Infeasible: " + infeasible.Error()
			slog.Warn("training infeasible", "generations", infeasible.Generations, "evaluations", infeasible.Evaluations)
		case done.err != nil:
			v.status = "Stopped"
			slog.Info("training stopped", "error", done.err)
		case done.result.Outcome == evolve.Success:
			slog.Info("training succeeded",
				"generations", done.result.Generations,
				"evaluations", done.result.Evaluations,
				"elapsed", done.result.Elapsed,
			)
			v.solution = done.result.Solution
			v.saveSolution(done.result)
			v.startReplay()
		default:
			v.status = "Stopped"
		}
	default:
	}
}

func (v *Viewer) saveSolution(res evolve.Result) {
	if v.store == nil {
		return
	}
	ticks, ok, err := game.TicksToFinish(v.lv.Grid, res.Solution, v.params, v.cfg.Training.HorizonTicks)
	if err != nil || !ok {
		slog.Warn("solution did not replay to the finish", "error", err)
		return
	}
	id, err := v.store.SaveSolution(context.Background(), storage.Solution{
		LevelHash:      level.Hash(v.lv.Grid),
		LevelName:      v.lv.Name,
		Representation: res.Solution.Kind.String(),
		Generations:    res.Generations,
		Evaluations:    res.Evaluations,
		Ticks:          ticks,
		Genome:         res.Solution,
	})
	if err != nil {
		slog.Warn("saving solution failed", "error", err)
		return
	}
	slog.Info("solution saved", "id", id, "ticks", ticks)
}

// Update handles input and advances the session by the frame time.
func (v *Viewer) Update() {
	v.pollTraining()

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		v.cam.Pan(-d.X, -d.Y)
	}
	if rl.IsKeyPressed(rl.KeyF) {
		v.follow = !v.follow
	}
	if rl.IsKeyPressed(rl.KeyG) {
		v.levelRenderer.ShowGrid = !v.levelRenderer.ShowGrid
	}
	if rl.IsKeyPressed(rl.KeyN) {
		v.network = !v.network
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if v.session.Mode() == game.ModeReplay {
			v.startReplay()
		} else {
			v.startPlay()
		}
	}
	if rl.IsWindowResized() {
		w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
		v.cam.Resize(w, h)
		v.toolbar.SetPosition(w-410, 10)
		v.trainingPanel.SetPosition(int32(w)-260, 90)
	}

	v.session.Advance(float64(rl.GetFrameTime() * v.speed))

	if v.follow {
		a := v.session.Frame().Actor
		v.cam.Follow(float32(a.X), float32(a.Y))
	}
}

// Draw renders the current frame. Toolbar clicks are handled here since
// raygui reports them while drawing.
func (v *Viewer) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(renderer.ColorBackground)

	frame := v.session.Frame()
	v.levelRenderer.DrawFrame(frame, v.cam)

	v.hud.Draw(ui.HUDData{
		Title:    "Platformer Solver",
		Level:    v.lv.Name,
		Mode:     frame.Mode.String(),
		Tick:     frame.Tick,
		Deaths:   frame.Deaths,
		FPS:      rl.GetFPS(),
		Finished: frame.Finished,
		Status:   v.status,
	})
	v.hud.DrawControls(int32(rl.GetScreenHeight()), controlsLegend)

	v.mu.Lock()
	training := v.training
	data := ui.TrainingData{
		Representation: v.cfg.Training.Representation,
		Record:         v.latest,
		MaxGenerations: v.cfg.Training.MaxGenerations,
		HorizonTicks:   v.cfg.Training.HorizonTicks,
		Perf:           v.perf,
		Outcome:        v.outcome,
	}
	v.mu.Unlock()
	if training || data.Outcome != "" {
		v.trainingPanel.Draw(data)
	}

	if v.network {
		v.drawNetwork()
	}

	switch v.toolbar.Draw(ui.ToolbarState{Training: training, HasSolution: v.solution != nil}) {
	case ui.CommandPlay:
		v.startPlay()
	case ui.CommandTrain:
		v.startTraining()
	case ui.CommandReplay:
		v.startReplay()
	case ui.CommandStop:
		v.stopTraining()
	}
	if v.session.Mode() == game.ModeReplay {
		v.speed = v.toolbar.SpeedSlider(v.speed)
	}

	rl.EndDrawing()
}

// drawNetwork shows the replayed policy's activations for the next tick.
func (v *Viewer) drawNetwork() {
	gen := v.session.Genome()
	if gen == nil || gen.Kind != genome.NeuralPolicy {
		return
	}
	obs := v.session.Observation()
	in := obs.Vector()
	act := gen.Policy.ForwardWithCapture(&in)

	h := int32(rl.GetScreenHeight())
	rl.DrawRectangle(10, h-300, 320, 260, rl.Color{R: 20, G: 25, B: 30, A: 220})
	renderer.DrawNetworkDiagram(70, h-290, 250, 240, gen.Policy, &act)
}

// Unload stops any running training and waits for it to exit.
func (v *Viewer) Unload() {
	v.mu.Lock()
	training := v.training
	v.mu.Unlock()
	if !training {
		return
	}
	v.stopTraining()
	<-v.trainDone
}
