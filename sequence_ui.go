package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/motionseq/common"
	"github.com/milk9111/motionseq/script"
)

const sequenceColumns = 4

// SequenceUI is the pause overlay listing every catalog sequence. Clicking a
// sequence requests it on the selected actor with the toggled options.
type SequenceUI struct {
	ui    *ebitenui.UI
	title *widget.Text
	opts  script.RequestOptions
}

func NewSequenceUI(g *Game, sequences []string) *SequenceUI {
	s := &SequenceUI{}

	panelImg := imageui.NewNineSliceColor(color.NRGBA{A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	checkedImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x2a, G: 0x6f, B: 0x3a, A: 255})

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	centered := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	s.title = widget.NewText(
		widget.TextOpts.Text("Paused", &face, white),
		widget.TextOpts.WidgetOpts(centered),
	)

	toggle := func(label string, set func(bool)) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: checkedImg}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(120, 24)),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				set(args.Button.State() == widget.WidgetChecked)
			}),
		)
	}
	options := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(8),
		)),
		widget.ContainerOpts.WidgetOpts(centered),
	)
	options.AddChild(toggle("dedupe", func(v bool) { s.opts.Dedupe = v }))
	options.AddChild(toggle("force clear", func(v bool) { s.opts.ForceClear = v }))
	options.AddChild(toggle("skip transition", func(v bool) { s.opts.SkipTransition = v }))

	grid := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewGridLayout(
			widget.GridLayoutOpts.Columns(sequenceColumns),
			widget.GridLayoutOpts.Spacing(6, 6),
		)),
		widget.ContainerOpts.WidgetOpts(centered),
	)
	for _, name := range sequences {
		grid.AddChild(widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: checkedImg}),
			widget.ButtonOpts.Text(name, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(140, 28)),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				g.request(name, s.opts)
			}),
		))
	}

	resumeBtn := widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
		widget.ButtonOpts.Text("Resume", &face, btnTextColor),
		widget.ButtonOpts.WidgetOpts(centered),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			g.paused = false
		}),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/2, common.BaseHeight/2),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(s.title)
	panel.AddChild(options)
	panel.AddChild(grid)
	panel.AddChild(resumeBtn)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)

	s.ui = &ebitenui.UI{Container: root}
	return s
}

// SetActor updates the title with the actor requests go to.
func (s *SequenceUI) SetActor(name string) {
	s.title.Label = "Paused: requests go to " + name
}

func (s *SequenceUI) Update() { s.ui.Update() }

func (s *SequenceUI) Draw(screen *ebiten.Image) { s.ui.Draw(screen) }
