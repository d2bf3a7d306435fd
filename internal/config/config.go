// Package config loads chantier settings. Sources are layered: built-in
// defaults, then a TOML or YAML file, then CHANTIER_* environment variables.
// Command-line flags are applied last by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexanderramin/chantier/internal/llm"
	"github.com/alexanderramin/chantier/internal/timeline"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DirName is the per-user data directory under $HOME.
const DirName = ".chantier"

type Config struct {
	DBPath  string `toml:"db_path" yaml:"db_path"`
	Log     bool   `toml:"log" yaml:"log"`
	LogFile string `toml:"log_file" yaml:"log_file"`
	// Watch refreshes the open timeline when another process writes the
	// database.
	Watch        bool              `toml:"watch" yaml:"watch"`
	Timeline     TimelineConfig    `toml:"timeline" yaml:"timeline"`
	StatusColors map[string]string `toml:"status_colors" yaml:"status_colors"`
	LLM          LLMConfig         `toml:"llm" yaml:"llm"`
}

type TimelineConfig struct {
	DefaultZoom    string         `toml:"default_zoom" yaml:"default_zoom"`
	DefaultView    string         `toml:"default_view" yaml:"default_view"`
	InlineSpanDays int            `toml:"inline_span_days" yaml:"inline_span_days"`
	LabelWidth     int            `toml:"label_width" yaml:"label_width"`
	Terminal       GeometryConfig `toml:"terminal" yaml:"terminal"`
	SVG            GeometryConfig `toml:"svg" yaml:"svg"`
	Windows        WindowsConfig  `toml:"windows" yaml:"windows"`
}

type GeometryConfig struct {
	DayWidths      ZoomWidths `toml:"day_widths" yaml:"day_widths"`
	BaseRowHeight  int        `toml:"base_row_height" yaml:"base_row_height"`
	ChildRowHeight int        `toml:"child_row_height" yaml:"child_row_height"`
	HandleWidth    int        `toml:"handle_width" yaml:"handle_width"`
}

type ZoomWidths struct {
	Coarse int `toml:"coarse" yaml:"coarse"`
	Medium int `toml:"medium" yaml:"medium"`
	Fine   int `toml:"fine" yaml:"fine"`
}

type WindowsConfig struct {
	Coarse Margin `toml:"coarse" yaml:"coarse"`
	Medium Margin `toml:"medium" yaml:"medium"`
	Fine   Margin `toml:"fine" yaml:"fine"`
}

// Margin is a look-back/look-ahead in months around the focus month.
type Margin struct {
	Back  int `toml:"back" yaml:"back"`
	Ahead int `toml:"ahead" yaml:"ahead"`
}

type LLMConfig struct {
	Enabled    bool   `toml:"enabled" yaml:"enabled"`
	Endpoint   string `toml:"endpoint" yaml:"endpoint"`
	Model      string `toml:"model" yaml:"model"`
	TimeoutMs  int    `toml:"timeout_ms" yaml:"timeout_ms"`
	MaxRetries int    `toml:"max_retries" yaml:"max_retries"`
	LogCalls   bool   `toml:"log_calls" yaml:"log_calls"`
}

// Default returns the built-in configuration rooted at home.
func Default(home string) *Config {
	term, svg := timeline.TerminalGeometry(), timeline.PixelGeometry()
	llmDefaults := llm.DefaultConfig()
	return &Config{
		DBPath:  filepath.Join(home, DirName, "chantier.db"),
		LogFile: filepath.Join(home, DirName, "chantier.log"),
		Watch:   true,
		Timeline: TimelineConfig{
			DefaultZoom:    string(timeline.ZoomMedium),
			DefaultView:    string(timeline.ViewAll),
			InlineSpanDays: timeline.DefaultInlineSpanDays,
			LabelWidth:     24,
			Terminal:       geometryConfig(term),
			SVG:            geometryConfig(svg),
			Windows: WindowsConfig{
				Coarse: margin(term.Window(timeline.ZoomCoarse)),
				Medium: margin(term.Window(timeline.ZoomMedium)),
				Fine:   margin(term.Window(timeline.ZoomFine)),
			},
		},
		LLM: LLMConfig{
			Enabled:    llmDefaults.Enabled,
			Endpoint:   llmDefaults.Endpoint,
			Model:      llmDefaults.Model,
			TimeoutMs:  llmDefaults.TimeoutMs,
			MaxRetries: llmDefaults.MaxRetries,
		},
	}
}

// DefaultPath returns the config file looked up when none is named:
// config.toml in the data directory, or config.yaml if only that exists.
func DefaultPath(home string) string {
	dir := filepath.Join(home, DirName)
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(dir, "config.toml")
}

// Load builds the configuration. An explicit path (argument or
// CHANTIER_CONFIG) must exist; the default path may be absent.
func Load(path string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("finding home directory: %w", err)
	}
	return LoadFrom(home, path)
}

// LoadFrom is Load with an explicit home directory.
func LoadFrom(home, path string) (*Config, error) {
	cfg := Default(home)

	explicit := path != ""
	if !explicit {
		if env := os.Getenv("CHANTIER_CONFIG"); env != "" {
			path, explicit = env, true
		} else {
			path = DefaultPath(home)
		}
	}

	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// mergeFile decodes the file over cfg, so keys it omits keep their current
// values.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = toml.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CHANTIER_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("CHANTIER_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("CHANTIER_LOG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Log = b
		}
	}
	if v := os.Getenv("CHANTIER_WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Watch = b
		}
	}
}

// Validate rejects values the timeline cannot work with.
func (c *Config) Validate() error {
	if _, err := timeline.ParseZoom(c.Timeline.DefaultZoom); err != nil {
		return err
	}
	if _, err := timeline.ParseViewMode(c.Timeline.DefaultView); err != nil {
		return err
	}
	if c.Timeline.InlineSpanDays < 1 {
		return fmt.Errorf("timeline.inline_span_days must be at least 1, got %d", c.Timeline.InlineSpanDays)
	}
	for name, g := range map[string]GeometryConfig{"terminal": c.Timeline.Terminal, "svg": c.Timeline.SVG} {
		w := g.DayWidths
		if w.Coarse < 1 || w.Medium < 1 || w.Fine < 1 {
			return fmt.Errorf("timeline.%s.day_widths must all be at least 1", name)
		}
		if g.BaseRowHeight < 1 || g.ChildRowHeight < 1 {
			return fmt.Errorf("timeline.%s row heights must be at least 1", name)
		}
	}
	for _, m := range []Margin{c.Timeline.Windows.Coarse, c.Timeline.Windows.Medium, c.Timeline.Windows.Fine} {
		if m.Back < 0 || m.Ahead < 0 {
			return fmt.Errorf("timeline.windows margins must not be negative")
		}
	}
	return nil
}

func (c *Config) Zoom() timeline.Zoom {
	z, _ := timeline.ParseZoom(c.Timeline.DefaultZoom)
	return z
}

func (c *Config) ViewMode() timeline.ViewMode {
	m, _ := timeline.ParseViewMode(c.Timeline.DefaultView)
	return m
}

func (c *Config) TerminalGeometry() timeline.Geometry {
	return c.geometry(c.Timeline.Terminal)
}

func (c *Config) SVGGeometry() timeline.Geometry {
	return c.geometry(c.Timeline.SVG)
}

func (c *Config) geometry(g GeometryConfig) timeline.Geometry {
	w := c.Timeline.Windows
	return timeline.Geometry{
		DayWidths: map[timeline.Zoom]int{
			timeline.ZoomCoarse: g.DayWidths.Coarse,
			timeline.ZoomMedium: g.DayWidths.Medium,
			timeline.ZoomFine:   g.DayWidths.Fine,
		},
		Windows: map[timeline.Zoom]timeline.WindowMargin{
			timeline.ZoomCoarse: {Back: w.Coarse.Back, Ahead: w.Coarse.Ahead},
			timeline.ZoomMedium: {Back: w.Medium.Back, Ahead: w.Medium.Ahead},
			timeline.ZoomFine:   {Back: w.Fine.Back, Ahead: w.Fine.Ahead},
		},
		BaseRowHeight:  g.BaseRowHeight,
		ChildRowHeight: g.ChildRowHeight,
		HandleWidth:    g.HandleWidth,
	}
}

// LLMSettings returns the assistant configuration: file values over the
// package defaults, then CHANTIER_LLM_* variables.
func (c *Config) LLMSettings() llm.LLMConfig {
	cfg := llm.DefaultConfig()
	cfg.Enabled = c.LLM.Enabled
	cfg.LogCalls = c.LLM.LogCalls
	if c.LLM.Endpoint != "" {
		cfg.Endpoint = c.LLM.Endpoint
	}
	if c.LLM.Model != "" {
		cfg.Model = c.LLM.Model
	}
	if c.LLM.TimeoutMs > 0 {
		cfg.TimeoutMs = c.LLM.TimeoutMs
	}
	if c.LLM.MaxRetries >= 0 {
		cfg.MaxRetries = c.LLM.MaxRetries
	}
	return llm.ApplyEnv(cfg)
}

func geometryConfig(g timeline.Geometry) GeometryConfig {
	return GeometryConfig{
		DayWidths: ZoomWidths{
			Coarse: g.DayWidth(timeline.ZoomCoarse),
			Medium: g.DayWidth(timeline.ZoomMedium),
			Fine:   g.DayWidth(timeline.ZoomFine),
		},
		BaseRowHeight:  g.BaseRowHeight,
		ChildRowHeight: g.ChildRowHeight,
		HandleWidth:    g.HandleWidth,
	}
}

func margin(m timeline.WindowMargin) Margin {
	return Margin{Back: m.Back, Ahead: m.Ahead}
}
