package ui

import (
	"context"
	"fmt"
	"image"
	"log"

	"LocalSketch/internal/export"
	"LocalSketch/internal/input"
	"LocalSketch/internal/persist"
	"LocalSketch/internal/state"
	"LocalSketch/internal/surface"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// Board shows the surface and feeds pointer and touch input to the
// engine. It mounts the surface on its first layout and keeps it until
// Teardown.
type Board struct {
	widget.BaseWidget
	Engine    *state.Engine
	Persist   *persist.Manager
	surface   *surface.Surface
	raster    *canvas.Raster
	statusBar *widget.Label

	active   bool
	lastMove *fyne.Position
}

var _ fyne.Widget = (*Board)(nil)
var _ fyne.Draggable = (*Board)(nil)
var _ desktop.Mouseable = (*Board)(nil)
var _ desktop.Hoverable = (*Board)(nil)
var _ mobile.Touchable = (*Board)(nil)

func NewBoard(style state.Style, m *persist.Manager) *Board {
	b := &Board{
		Persist:   m,
		surface:   m.Surface,
		statusBar: widget.NewLabel("Ready"),
	}
	b.Engine = state.NewEngine(m.Surface, style)
	b.Engine.OnCommit = func() {
		m.MarkDirty()
		if err := m.Save(); err != nil {
			b.SetStatus("Autosave failed, drawing is not being saved")
		}
	}
	b.raster = canvas.NewRaster(b.draw)
	b.raster.ScaleMode = canvas.ImageScalePixels
	b.raster.SetMinSize(fyne.NewSize(300, 300))
	b.ExtendBaseWidget(b)
	return b
}

func (b *Board) draw(w, h int) image.Image {
	if img := b.surface.Image(); img != nil {
		return img
	}
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func (b *Board) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(b.raster)
}

func (b *Board) StatusBar() *widget.Label { return b.statusBar }

func (b *Board) SetStatus(text string) {
	fyne.Do(func() {
		b.statusBar.SetText(text)
	})
}

// Resize mounts the surface the first time the board gets a real size.
// fyne lays new content out at its minimum size before the window size is
// applied, so later size changes are expected right after mounting; they
// re-initialize the surface through the persistence manager.
func (b *Board) Resize(size fyne.Size) {
	b.BaseWidget.Resize(size)
	w, h := int(size.Width), int(size.Height)
	if w <= 0 || h <= 0 {
		return
	}
	if cw, ch := b.surface.Size(); cw == w && ch == h {
		return
	}
	if !b.surface.Ready() {
		b.mount(w, h)
		return
	}

	b.Persist.Resize(w, h, b.Engine.Style().BackgroundColor)
	b.raster.Refresh()
}

func (b *Board) mount(w, h int) {
	b.surface.Init(w, h)
	b.surface.Fill(b.Engine.Style().BackgroundColor)
	if b.Persist.Restore() {
		b.SetStatus("Restored previous drawing")
	}
	b.Persist.Start(context.Background())
	b.active = true
	log.Printf("[UI] Surface mounted at %dx%d", w, h)
	b.raster.Refresh()
}

// ExportTo writes the surface to writer. The format follows the file
// extension the user chose, falling back to def.
func (b *Board) ExportTo(writer fyne.URIWriteCloser, def export.Format) error {
	defer func() {
		if err := writer.Close(); err != nil {
			log.Printf("[UI] Error closing writer: %v", err)
		}
	}()

	format := def
	if f, err := export.ParseFormat(writer.URI().Extension()); err == nil {
		format = f
	}
	if err := b.Persist.Export(writer, format); err != nil {
		log.Printf("[UI] Export failed: %v", err)
		b.SetStatus("Error exporting drawing")
		return err
	}
	b.SetStatus(fmt.Sprintf("Exported %s", writer.URI().Name()))
	log.Printf("[UI] Exported %s as %s", writer.URI(), format)
	return nil
}

// Teardown stops autosave, saves once more and stops accepting input.
func (b *Board) Teardown() {
	if !b.active {
		return
	}
	b.active = false
	b.Engine.Release()
	b.Persist.Stop()
	if err := b.Persist.Save(); err != nil {
		log.Printf("[UI] Final save failed: %v", err)
	}
	log.Println("[UI] Board torn down")
}

func (b *Board) bounds() input.Bounds {
	if !b.active {
		return input.Bounds{}
	}
	pos := fyne.CurrentApp().Driver().AbsolutePositionForObject(b)
	size := b.Size()
	return input.Bounds{Left: pos.X, Top: pos.Y, Width: size.Width, Height: size.Height}
}

func (b *Board) dispatch(ev input.Event) {
	input.Dispatch(b.Engine, ev, b.bounds())
	b.raster.Refresh()
}

func pointer(kind input.Kind, abs fyne.Position) input.Event {
	return input.Event{Kind: kind, Pointer: &input.Position{X: abs.X, Y: abs.Y}}
}

func (b *Board) press(ev input.Event) {
	b.lastMove = nil
	if b.active {
		b.Persist.MarkDirty()
	}
	b.dispatch(ev)
}

// move drops repeats of the previous position, which fyne reports when
// both the hover and drag paths fire for the same motion.
func (b *Board) move(abs fyne.Position) {
	if b.Engine.State() == state.Idle {
		return
	}
	if b.lastMove != nil && *b.lastMove == abs {
		return
	}
	b.lastMove = &abs
	b.dispatch(pointer(input.Move, abs))
}

func (b *Board) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.press(pointer(input.Down, e.AbsolutePosition))
}

func (b *Board) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.dispatch(input.Event{Kind: input.Up})
}

func (b *Board) Dragged(e *fyne.DragEvent) {
	b.move(e.AbsolutePosition)
}

func (b *Board) DragEnd() {
	b.dispatch(input.Event{Kind: input.Up})
}

func (b *Board) MouseIn(*desktop.MouseEvent) {}

func (b *Board) MouseMoved(e *desktop.MouseEvent) {
	b.move(e.AbsolutePosition)
}

func (b *Board) MouseOut() {
	b.dispatch(input.Event{Kind: input.Leave})
}

func (b *Board) TouchDown(e *mobile.TouchEvent) {
	b.press(input.Event{Kind: input.Down, Touches: []input.Position{{X: e.AbsolutePosition.X, Y: e.AbsolutePosition.Y}}})
}

func (b *Board) TouchUp(*mobile.TouchEvent) {
	b.dispatch(input.Event{Kind: input.Up})
}

func (b *Board) TouchCancel(*mobile.TouchEvent) {
	b.dispatch(input.Event{Kind: input.Leave})
}
