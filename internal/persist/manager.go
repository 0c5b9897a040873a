// Package persist saves the surface to a Store on a timer and on demand,
// restores it at startup, and produces export artifacts.
package persist

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"LocalSketch/internal/export"
	"LocalSketch/internal/store"
	"LocalSketch/internal/surface"
)

const (
	DefaultKey        = "savedDrawing"
	DefaultInterval   = 5 * time.Second
	DefaultExportName = "drawing"
)

// Manager owns the snapshot lifecycle for one Surface. Storage failures
// are logged and returned but never stop drawing.
type Manager struct {
	Surface    *surface.Surface
	Store      store.Store
	Key        string
	Interval   time.Duration
	ExportName string

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	// restored is the snapshot Restore applied, held until MarkDirty so a
	// Resize can paint it again in full.
	restored image.Image
}

func NewManager(s *surface.Surface, st store.Store) *Manager {
	return &Manager{
		Surface:    s,
		Store:      st,
		Key:        DefaultKey,
		Interval:   DefaultInterval,
		ExportName: DefaultExportName,
	}
}

// Save writes the current surface under Key, replacing the previous
// snapshot. An uninitialized surface is skipped, and so is a surface that
// has not changed since Restore: the store already holds that snapshot,
// possibly larger than the surface is now.
func (m *Manager) Save() error {
	if m.pristine() {
		return nil
	}
	img := m.Surface.Image()
	if img == nil {
		return nil
	}
	value, err := export.DataURL(img)
	if err != nil {
		log.Printf("[PERSIST] Encode failed: %v", err)
		return err
	}
	if err := m.Store.Save(m.Key, value); err != nil {
		log.Printf("[PERSIST] Save of %q failed: %v", m.Key, err)
		return fmt.Errorf("could not save snapshot: %w", err)
	}
	return nil
}

// Restore composites the stored snapshot onto the surface. It reports
// whether a snapshot was applied; a missing or unreadable one leaves the
// surface as it was.
func (m *Manager) Restore() bool {
	if !m.Surface.Ready() {
		return false
	}
	value, err := m.Store.Load(m.Key)
	if errors.Is(err, store.ErrNotFound) {
		log.Printf("[PERSIST] No snapshot under %q", m.Key)
		return false
	}
	if err != nil {
		log.Printf("[PERSIST] Load of %q failed: %v", m.Key, err)
		return false
	}
	img, err := export.DecodeDataURL(value)
	if err != nil {
		log.Printf("[PERSIST] Ignoring snapshot: %v", err)
		return false
	}
	if err := m.Surface.Composite(img); err != nil {
		log.Printf("[PERSIST] Composite failed: %v", err)
		return false
	}
	m.mu.Lock()
	m.restored = img
	m.mu.Unlock()
	log.Printf("[PERSIST] Restored %dx%d snapshot", img.Bounds().Dx(), img.Bounds().Dy())
	return true
}

// MarkDirty records that the surface is about to diverge from the restored
// snapshot. Later saves write the surface and Resize keeps its pixels.
func (m *Manager) MarkDirty() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restored = nil
}

func (m *Manager) pristine() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.restored != nil
}

// Resize re-initializes the surface at width x height on bg. While the
// surface is still the restored snapshot, that snapshot is painted again
// at the origin; otherwise the current pixels are kept.
func (m *Manager) Resize(width, height int, bg color.Color) {
	m.mu.Lock()
	snap := m.restored
	m.mu.Unlock()
	m.Surface.Reinit(width, height, bg, snap)
	log.Printf("[PERSIST] Surface resized to %dx%d", width, height)
}

// Start runs the autosave loop until ctx is done or Stop is called.
// Calling Start while the loop runs restarts it.
func (m *Manager) Start(ctx context.Context) {
	m.Stop()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	m.mu.Lock()
	m.cancel, m.done = cancel, done
	m.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(m.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = m.Save()
			}
		}
	}()
	log.Printf("[PERSIST] Autosave every %s", m.Interval)
}

// Stop ends the autosave loop and waits for it to exit. It is safe to
// call when the loop is not running.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Println("[PERSIST] Autosave stopped")
}

// Export encodes the surface in format f. The surface is not modified.
func (m *Manager) Export(w io.Writer, f export.Format) error {
	img := m.Surface.Image()
	if img == nil {
		return surface.ErrUninitialized
	}
	if err := export.Encode(w, img, f); err != nil {
		return fmt.Errorf("could not export %s: %w", f, err)
	}
	return nil
}

// FileName is the name offered for a download in format f.
func (m *Manager) FileName(f export.Format) string {
	return export.FileName(m.ExportName, f)
}

// ExportFile writes the export into dir and returns its path.
func (m *Manager) ExportFile(dir string, f export.Format) (string, error) {
	if !m.Surface.Ready() {
		return "", surface.ErrUninitialized
	}
	path := filepath.Join(dir, m.FileName(f))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("could not create %s: %w", path, err)
	}
	if err := m.Export(file, f); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("could not write %s: %w", path, err)
	}
	log.Printf("[PERSIST] Exported %s", path)
	return path, nil
}
