package persist

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"LocalSketch/internal/export"
	"LocalSketch/internal/state"
	"LocalSketch/internal/store"
	"LocalSketch/internal/surface"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

func drawnSurface(t *testing.T) *surface.Surface {
	t.Helper()
	s := surface.New()
	s.Init(64, 48)
	s.Fill(white)
	s.RenderSegment(state.Point{X: 4, Y: 4}, state.Point{X: 60, Y: 40}, color.NRGBA{R: 0xc0, B: 0x40, A: 0xff}, 6)
	s.RenderSegment(state.Point{X: 60, Y: 40}, state.Point{X: 10, Y: 44}, color.NRGBA{G: 0x80, A: 0xff}, 3.5)
	return s
}

func blankSurface(w, h int) *surface.Surface {
	s := surface.New()
	s.Init(w, h)
	s.Fill(white)
	return s
}

// brokenStore fails every call.
type brokenStore struct{ saves atomic.Int32 }

var errBroken = errors.New("disk on fire")

func (b *brokenStore) Load(string) (string, error) { return "", errBroken }
func (b *brokenStore) Save(string, string) error {
	b.saves.Add(1)
	return errBroken
}

// countingStore counts saves.
type countingStore struct {
	*store.Memory
	saves atomic.Int32
}

func (c *countingStore) Save(key, value string) error {
	c.saves.Add(1)
	return c.Memory.Save(key, value)
}

func TestSaveRestoreRoundTrip(t *testing.T) {
	st := store.NewMemory()
	src := drawnSurface(t)
	require.NoError(t, NewManager(src, st).Save())

	dst := blankSurface(64, 48)
	assert.True(t, NewManager(dst, st).Restore())
	assert.Equal(t, src.Image().Pix, dst.Image().Pix)
}

func TestSaveOverwrites(t *testing.T) {
	st := store.NewMemory()
	m := NewManager(drawnSurface(t), st)
	require.NoError(t, m.Save())
	first, _ := st.Load(DefaultKey)

	m.Surface.Fill(white)
	require.NoError(t, m.Save())
	second, _ := st.Load(DefaultKey)
	assert.NotEqual(t, first, second)

	dst := blankSurface(64, 48)
	dst.Fill(color.NRGBA{A: 0xff})
	require.True(t, NewManager(dst, st).Restore())
	assert.Equal(t, m.Surface.Image().Pix, dst.Image().Pix)
}

func TestResizeRepaintsRestoredSnapshot(t *testing.T) {
	st := store.NewMemory()
	src := drawnSurface(t)
	require.NoError(t, NewManager(src, st).Save())

	// Laid out small first, then at full size.
	m := NewManager(blankSurface(30, 20), st)
	require.True(t, m.Restore())
	m.Resize(64, 48, white)
	assert.Equal(t, src.Image().Pix, m.Surface.Image().Pix)

	m.MarkDirty()
	m.Resize(10, 10, white)
	m.Resize(64, 48, white)
	assert.Equal(t, white, color.NRGBAModel.Convert(m.Surface.Image().At(40, 30)))
}

func TestSaveSkippedUntilModified(t *testing.T) {
	src := store.NewMemory()
	require.NoError(t, NewManager(drawnSurface(t), src).Save())
	snapshot, err := src.Load(DefaultKey)
	require.NoError(t, err)

	st := &countingStore{Memory: store.NewMemory()}
	require.NoError(t, st.Memory.Save(DefaultKey, snapshot))
	m := NewManager(blankSurface(20, 20), st)
	require.True(t, m.Restore())

	require.NoError(t, m.Save())
	assert.Zero(t, st.saves.Load())
	stored, _ := st.Load(DefaultKey)
	assert.Equal(t, snapshot, stored)

	m.MarkDirty()
	require.NoError(t, m.Save())
	assert.Equal(t, int32(1), st.saves.Load())
}

func TestResizeWithoutRestoreKeepsPixels(t *testing.T) {
	s := drawnSurface(t)
	before := s.Image()
	m := NewManager(s, store.NewMemory())
	m.Resize(80, 60, white)

	after := m.Surface.Image()
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			require.Equal(t, before.RGBAAt(x, y), after.RGBAAt(x, y), "pixel (%d,%d)", x, y)
		}
	}
	assert.Equal(t, white, color.NRGBAModel.Convert(after.At(70, 55)))
}

func TestRestoreWithoutSnapshot(t *testing.T) {
	s := blankSurface(10, 10)
	before := s.Image()
	assert.False(t, NewManager(s, store.NewMemory()).Restore())
	assert.Equal(t, before.Pix, s.Image().Pix)
}

func TestRestoreCorruptSnapshot(t *testing.T) {
	st := store.NewMemory()
	require.NoError(t, st.Save(DefaultKey, "data:image/png;base64,bm90IGEgcG5n"))

	s := blankSurface(10, 10)
	before := s.Image()
	assert.False(t, NewManager(s, st).Restore())
	assert.Equal(t, before.Pix, s.Image().Pix)
}

func TestStorageFailuresAreNotFatal(t *testing.T) {
	s := drawnSurface(t)
	before := s.Image()
	m := NewManager(s, &brokenStore{})

	assert.ErrorIs(t, m.Save(), errBroken)
	assert.False(t, m.Restore())
	assert.Equal(t, before.Pix, s.Image().Pix)
}

func TestSizeLimitedStore(t *testing.T) {
	m := NewManager(drawnSurface(t), store.Limit{Store: store.NewMemory(), MaxBytes: 16})
	assert.ErrorIs(t, m.Save(), store.ErrTooLarge)
}

func TestUninitializedSurface(t *testing.T) {
	st := &countingStore{Memory: store.NewMemory()}
	m := NewManager(surface.New(), st)

	assert.NoError(t, m.Save())
	assert.Zero(t, st.saves.Load())
	assert.False(t, m.Restore())
	assert.ErrorIs(t, m.Export(&bytes.Buffer{}, export.PNG), surface.ErrUninitialized)
	_, err := m.ExportFile(t.TempDir(), export.PNG)
	assert.ErrorIs(t, err, surface.ErrUninitialized)
}

func TestAutosave(t *testing.T) {
	st := &countingStore{Memory: store.NewMemory()}
	m := NewManager(drawnSurface(t), st)
	m.Interval = 10 * time.Millisecond

	m.Start(context.Background())
	assert.Eventually(t, func() bool { return st.saves.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	m.Stop()

	n := st.saves.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, n, st.saves.Load())

	_, err := st.Load(DefaultKey)
	assert.NoError(t, err)
}

func TestAutosaveStopsWithContext(t *testing.T) {
	st := &countingStore{Memory: store.NewMemory()}
	m := NewManager(drawnSurface(t), st)
	m.Interval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	assert.Eventually(t, func() bool { return st.saves.Load() >= 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	m.Stop()

	n := st.saves.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, st.saves.Load())
}

func TestAutosaveSurvivesBrokenStore(t *testing.T) {
	st := &brokenStore{}
	m := NewManager(drawnSurface(t), st)
	m.Interval = 5 * time.Millisecond

	m.Start(context.Background())
	assert.Eventually(t, func() bool { return st.saves.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	m.Stop()
}

func TestStopWithoutStart(t *testing.T) {
	m := NewManager(surface.New(), store.NewMemory())
	assert.NotPanics(t, m.Stop)
}

func TestExportDoesNotMutate(t *testing.T) {
	s := drawnSurface(t)
	before := s.Image()
	m := NewManager(s, store.NewMemory())

	var buf bytes.Buffer
	require.NoError(t, m.Export(&buf, export.PNG))
	assert.Equal(t, before.Pix, s.Image().Pix)

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			want := before.RGBAAt(x, y)
			got := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			require.Equal(t, want, got, "pixel (%d,%d)", x, y)
		}
	}
}

func TestExportUnknownFormat(t *testing.T) {
	m := NewManager(drawnSurface(t), store.NewMemory())
	assert.ErrorIs(t, m.Export(&bytes.Buffer{}, export.Format("gif")), export.ErrUnknownFormat)
}

func TestExportFile(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(drawnSurface(t), store.NewMemory())

	for _, f := range export.Formats {
		path, err := m.ExportFile(dir, f)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "drawing"+f.Ext()), path)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}
}
