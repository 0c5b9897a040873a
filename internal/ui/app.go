package ui

import (
	"fmt"
	"log"

	"LocalSketch/internal/config"
	"LocalSketch/internal/persist"
	"LocalSketch/internal/store"
	"LocalSketch/internal/surface"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
)

const AppID = "io.localsketch.app"

// OpenStore builds the snapshot store named by cfg.
func OpenStore(cfg config.Storage, prefs fyne.Preferences) (store.Store, error) {
	var st store.Store
	switch cfg.Backend {
	case "preferences":
		st = store.NewPreferences(prefs)
	case "file":
		f, err := store.NewFiles(cfg.Dir)
		if err != nil {
			return nil, err
		}
		st = f
	case "memory":
		st = store.NewMemory()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if cfg.MaxBytes > 0 {
		st = store.Limit{Store: st, MaxBytes: cfg.MaxBytes}
	}
	return st, nil
}

// NewManager wires a fresh surface to st with the configured cadence and names.
func NewManager(cfg config.Config, st store.Store) *persist.Manager {
	m := persist.NewManager(surface.New(), st)
	m.Key = cfg.Storage.Key
	m.Interval = cfg.Autosave.Interval
	m.ExportName = cfg.Export.Name
	return m
}

// Build lays out the board and toolbar in win.
func Build(cfg config.Config, a fyne.App, win fyne.Window) (*Board, *Tools, error) {
	style, err := cfg.InitialStyle()
	if err != nil {
		return nil, nil, err
	}
	st, err := OpenStore(cfg.Storage, a.Preferences())
	if err != nil {
		return nil, nil, err
	}
	board := NewBoard(style, NewManager(cfg, st))
	tools := NewToolbar(board, win, cfg.ExportFormat())

	win.SetContent(container.NewBorder(tools.Bar, board.StatusBar(), nil, nil, board))
	win.SetOnClosed(board.Teardown)
	return board, tools, nil
}

func RunApp(cfg config.Config) error {
	myApp := app.NewWithID(AppID)
	myWindow := myApp.NewWindow(cfg.Window.Title)
	myWindow.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))

	if _, _, err := Build(cfg, myApp, myWindow); err != nil {
		return err
	}
	log.Printf("[UI] Starting with %s storage", cfg.Storage.Backend)
	myWindow.ShowAndRun()
	return nil
}
