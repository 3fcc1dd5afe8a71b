package main

import (
	"encoding/json"
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"

	"github.com/milk9111/motionseq/common"
	"github.com/milk9111/motionseq/config"
	"github.com/milk9111/motionseq/logging"
	"github.com/milk9111/motionseq/script"
	"github.com/milk9111/motionseq/sim"
)

const (
	groundY     = common.BaseHeight * 3 / 4
	actorWidth  = 20
	cameraDecay = 0.1
)

// Screen height per posture; actors are drawn as boxes standing on the ground.
var postureHeights = map[string]float32{
	"stand":   40,
	"crouch":  26,
	"sit":     22,
	"prone":   10,
	"on_back": 10,
	"scuba":   14,
}

var quickKeys = map[ebiten.Key]string{
	ebiten.Key1: "idle",
	ebiten.Key2: "walk",
	ebiten.Key3: "jump",
	ebiten.Key4: "crouch",
	ebiten.Key5: "crawl",
	ebiten.Key6: "hit",
	ebiten.Key7: "knockdown",
}

type Game struct {
	frames int

	sim      *sim.Simulation
	actors   []string
	selected int
	paused   bool
	debug    bool
	ui       *SequenceUI
	boxes    map[string]Rect

	// clipboardOK is false when no system clipboard is available.
	clipboardOK bool

	camX float32
}

func NewGame(cfg config.Config, debug bool) (*Game, error) {
	s, err := sim.Load(cfg, "viewer")
	if err != nil {
		return nil, err
	}
	g := &Game{
		sim:   s,
		debug: debug,
		boxes: map[string]Rect{},
	}
	if err := clipboard.Init(); err != nil {
		log := logging.WithComponent("viewer")
		log.Warn().Err(err).Msg("clipboard unavailable, snapshot copy disabled")
	} else {
		g.clipboardOK = true
	}
	for _, a := range s.Snapshot().Actors {
		g.actors = append(g.actors, a.Name)
	}
	g.ui = NewSequenceUI(g, s.Sequencer().Catalog().Names())
	g.ui.SetActor(g.selectedActor())
	return g, nil
}

func (g *Game) selectedActor() string {
	if len(g.actors) == 0 {
		return ""
	}
	return g.actors[g.selected%len(g.actors)]
}

func (g *Game) selectActor(i int) {
	if len(g.actors) == 0 {
		return
	}
	g.selected = (i + len(g.actors)) % len(g.actors)
	g.ui.SetActor(g.selectedActor())
}

func (g *Game) request(sequence string, opts script.RequestOptions) {
	actor := g.selectedActor()
	ok := g.sim.Request(actor, sequence, opts)
	log := logging.WithComponent("viewer")
	log.Debug().
		Str("actor", actor).
		Str(logging.FieldSequence, sequence).
		Bool("accepted", ok).
		Msg("sequence requested")
}

// copySnapshot puts the selected actor's controller state on the clipboard
// as JSON.
func (g *Game) copySnapshot() {
	if !g.clipboardOK {
		return
	}
	for _, a := range g.sim.Snapshot().Actors {
		if a.Name != g.selectedActor() {
			continue
		}
		data, err := json.MarshalIndent(a, "", "  ")
		if err != nil {
			log := logging.WithComponent("viewer")
			log.Error().Err(err).Msg("encode snapshot")
			return
		}
		clipboard.Write(clipboard.FmtText, data)
		return
	}
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.ui.Update()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.selectActor(g.selected + 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copySnapshot()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		for i, name := range g.actors {
			if r, ok := g.boxes[name]; ok && r.Contains(float32(x), float32(y)) {
				g.selectActor(i)
				break
			}
		}
	}
	for key, seq := range quickKeys {
		if inpututil.IsKeyJustPressed(key) {
			g.request(seq, script.RequestOptions{Dedupe: ebiten.IsKeyPressed(ebiten.KeyShift)})
		}
	}

	if _, err := g.sim.Step(); err != nil {
		return err
	}

	for _, a := range g.sim.Snapshot().Actors {
		if a.Name == g.selectedActor() {
			g.camX = common.Lerp(g.camX, float32(a.Position[0]), cameraDecay)
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)
	vector.StrokeLine(screen, 0, groundY, common.BaseWidth, groundY, 2, colornames.Lightgrey, false)

	frame := g.sim.Snapshot()
	selected := g.selectedActor()
	for _, a := range frame.Actors {
		h, ok := postureHeights[a.Controller.Posture]
		if !ok {
			h = postureHeights["stand"]
		}
		x := float32(a.Position[0]) - g.camX + common.BaseWidth/2 - actorWidth/2
		y := groundY - h - common.Clamp(float32(a.Position[2]), -groundY, groundY)
		box := Rect{X: x, Y: y, Width: actorWidth, Height: h}
		g.boxes[a.Name] = box

		fill := color.Color(colornames.Steelblue)
		if a.Name == selected {
			fill = colornames.Orange
		}
		vector.FillRect(screen, box.X, box.Y, box.Width, box.Height, fill, false)
		if a.Controller.Idle {
			vector.StrokeRect(screen, box.X, box.Y, box.Width, box.Height, 1, colornames.White, false)
		}
		ebitenutil.DebugPrintAt(screen, a.Name, int(box.X), int(box.Y)-16)
	}

	ebitenutil.DebugPrint(screen, g.status(frame))

	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) status(frame sim.Frame) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tick: %d    FPS: %.2f    [tab] actor  [1-7] request  [c] copy  [esc] sequences\n", frame.Tick, ebiten.ActualFPS())
	for _, a := range frame.Actors {
		if !g.debug && a.Name != g.selectedActor() {
			continue
		}
		c := a.Controller
		fmt.Fprintf(&b, "%s: posture=%s target=%s idle=%t\n", a.Name, c.Posture, c.Target, c.Idle)
		if c.Active != nil {
			fmt.Fprintf(&b, "  active %s frame=%d clock=%d/%d reps=%d\n",
				c.Active.Motion, c.Active.Frame, c.Active.ClockTicks, c.Active.DurationTicks, c.Active.RemainingRepeats)
		}
		for _, p := range c.Pending {
			fmt.Fprintf(&b, "  queued %s speed=%.2f\n", p.Motion, p.Speed)
		}
	}
	for _, e := range frame.Events {
		fmt.Fprintf(&b, "event %s %s %s\n", e.Actor, e.Type, e.Name)
	}
	return b.String()
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
