package ui

import (
	"image/color"

	"LocalSketch/internal/export"
	"LocalSketch/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Palette is the row of quick pen colours.
var Palette = []color.Color{
	color.Black,
	color.NRGBA{R: 255, A: 255},
	color.NRGBA{G: 255, A: 255},
	color.NRGBA{B: 255, A: 255},
	color.NRGBA{R: 255, G: 255, A: 255},
}

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(32, 32))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// Tools holds the toolbar widgets so their state can follow the engine.
type Tools struct {
	board  *Board
	win    fyne.Window
	format export.Format

	Bar    fyne.CanvasObject
	Slider *widget.Slider
}

// NewToolbar builds the tool row: pen/eraser, fill, export, pen colours,
// background colour and stroke width.
func NewToolbar(board *Board, win fyne.Window, format export.Format) *Tools {
	t := &Tools{board: board, win: win, format: format}
	t.Bar = t.build()
	return t
}

func (t *Tools) build() fyne.CanvasObject {
	engine := t.board.Engine

	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), t.SelectPen),
		widget.NewToolbarAction(theme.ContentClearIcon(), t.SelectEraser),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ColorPaletteIcon(), t.Fill),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), t.showExport),
	)

	// --- Color Palette ---
	colorBox := container.NewHBox()
	for _, c := range Palette {
		colorBox.Add(newColorSwatch(c, t.SetPenColor))
	}
	penPicker := widget.NewButtonWithIcon("", theme.MoreHorizontalIcon(), func() {
		t.pickColor("Pen colour", t.SetPenColor)
	})
	bgPicker := widget.NewButton("Background", func() {
		t.pickColor("Background colour", t.SetBackgroundColor)
	})

	// --- Stroke Width Slider ---
	t.Slider = widget.NewSlider(1.0, 50.0)
	t.Slider.SetValue(float64(engine.Style().StrokeWidth))
	t.Slider.OnChanged = func(val float64) {
		engine.SetStrokeWidth(float32(val))
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), t.Slider)

	// --- Assemble everything ---
	return container.NewHBox(
		widget.NewLabel("Tool:"),
		tb,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colorBox,
		penPicker,
		bgPicker,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		layout.NewSpacer(),
	)
}

func (t *Tools) SelectPen() {
	t.board.Engine.SetTool(state.ToolPen)
	t.board.SetStatus("Pen")
}

func (t *Tools) SelectEraser() {
	t.board.Engine.SetTool(state.ToolEraser)
	t.board.SetStatus("Eraser")
}

// SetPenColor also switches back to the pen.
func (t *Tools) SetPenColor(c color.Color) {
	t.board.Engine.SetPenColor(c)
	t.board.Engine.SetTool(state.ToolPen)
	t.board.SetStatus("Pen " + state.ColorString(c))
}

// SetBackgroundColor changes the colour used by fill and the eraser. It
// does not repaint the surface; Fill does.
func (t *Tools) SetBackgroundColor(c color.Color) {
	t.board.Engine.SetBackgroundColor(c)
	t.board.SetStatus("Background " + state.ColorString(c))
}

func (t *Tools) Fill() {
	t.board.Engine.FillBackground()
	t.board.raster.Refresh()
}

func (t *Tools) pickColor(title string, picked func(color.Color)) {
	picker := dialog.NewColorPicker(title, "", picked, t.win)
	picker.Advanced = true
	picker.Show()
}

func (t *Tools) showExport() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.win)
			return
		}
		if writer == nil {
			return // cancelled
		}
		if err := t.board.ExportTo(writer, t.format); err != nil {
			dialog.ShowError(err, t.win)
		}
	}, t.win)
	d.SetFileName(t.board.Persist.FileName(t.format))
	d.Show()
}
