// Package config loads engine settings from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/core"
	"github.com/hubastard/grove/engine/logger"
)

const FileName = "grove.toml"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Window Window `toml:"window"`
	GUI    GUI    `toml:"gui"`
}

type Window struct {
	Title      string       `toml:"title"`
	Width      int          `toml:"width"`
	Height     int          `toml:"height"`
	VSync      bool         `toml:"vsync"`
	ClearColor colors.Color `toml:"clear_color"`
}

// GUI holds the runtime options of the GUI manager.
type GUI struct {
	// Forces a mesh boundary between widgets even when materials match.
	SeparateMeshesByWidget bool `toml:"separate_meshes_by_widget"`
	// Pointer travel in pixels above which a held press becomes a drag.
	DragDistance float32 `toml:"drag_distance"`
	// Seconds between caret visibility toggles.
	CaretBlinkInterval float64      `toml:"caret_blink_interval"`
	CaretColor         colors.Color `toml:"caret_color"`
	TextSelectionColor colors.Color `toml:"text_selection_color"`
	// Transient mesh heap budget.
	MeshHeapVertices int `toml:"mesh_heap_vertices"`
	MeshHeapIndices  int `toml:"mesh_heap_indices"`
}

func Default() Config {
	return Config{
		Window: Window{
			Title:      "Grove GUI",
			Width:      1280,
			Height:     720,
			VSync:      true,
			ClearColor: colors.DarkGray,
		},
		GUI: DefaultGUI(),
	}
}

func DefaultGUI() GUI {
	return GUI{
		SeparateMeshesByWidget: false,
		DragDistance:           3,
		CaretBlinkInterval:     0.5,
		CaretColor:             colors.Caret,
		TextSelectionColor:     colors.Selection,
		MeshHeapVertices:       1 << 16,
		MeshHeapIndices:        (1 << 16) * 6 / 4,
	}
}

func (c Config) Validate() error {
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	return c.GUI.Validate()
}

func (g GUI) Validate() error {
	if g.DragDistance < 0 {
		return fmt.Errorf("%w: drag_distance %v is negative", ErrInvalid, g.DragDistance)
	}
	if g.CaretBlinkInterval <= 0 {
		return fmt.Errorf("%w: caret_blink_interval %v must be positive", ErrInvalid, g.CaretBlinkInterval)
	}
	if g.MeshHeapVertices <= 0 || g.MeshHeapIndices <= 0 {
		return fmt.Errorf("%w: mesh heap budget %d/%d must be positive", ErrInvalid, g.MeshHeapVertices, g.MeshHeapIndices)
	}
	return nil
}

// Core returns the window settings in the form core.Run expects.
func (c Config) Core() core.Config {
	return core.Config{
		Title:      c.Window.Title,
		Width:      c.Window.Width,
		Height:     c.Window.Height,
		VSync:      c.Window.VSync,
		ClearColor: c.Window.ClearColor,
	}
}

// Decode reads TOML from r on top of the defaults, so a file only needs the
// keys it wants to change.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the config at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Logf("config", "%s not found, using defaults", path)
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	logger.Logf("config", "loaded %s", path)
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg Config) error {
	var buffer bytes.Buffer
	if err := toml.NewEncoder(&buffer).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	return os.WriteFile(path, buffer.Bytes(), 0o644)
}
