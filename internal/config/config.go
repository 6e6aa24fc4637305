// Package config handles configuration loading and defaults for the todo app.
// Configuration is read once at startup from ~/.config/todo-tui/config.toml
// (or $TODO_CONFIG) and passed explicitly to the components that need it.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"todo/internal/fsutil"
	"todo/internal/priority"
	"todo/internal/theme"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Config holds the user settings. These are the only two recognized options.
type Config struct {
	// PriorityMode selects letter (A-Z) or number (0-9) priorities.
	PriorityMode priority.Mode `toml:"priorityMode" yaml:"priorityMode" validate:"required,oneof=letter number"`

	// Theme names one of the built-in color themes.
	Theme string `toml:"theme" yaml:"theme" validate:"required,theme"`
}

// validate is a single instance of Validate, it caches struct info
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("theme", func(fl validator.FieldLevel) bool {
		return theme.Exists(fl.Field().String())
	})
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		PriorityMode: priority.Letter,
		Theme:        theme.Default,
	}
}

// Validate checks both options.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// Read decodes the config file at path over the defaults. A missing file
// yields the defaults. Files ending in .yaml or .yml are decoded as YAML,
// anything else as TOML.
func Read(fs afero.Fs, path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := fsutil.ReadFileIfExists(fs, path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		_, err = toml.Decode(string(data), cfg)
	}
	if err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads the configuration and never fails: unreadable files fall back
// to the defaults, and an invalid option falls back to its own default.
// Each fallback is logged as a warning.
func Load(fs afero.Fs, path string, logger *log.Logger) *Config {
	cfg, err := Read(fs, path)
	if err != nil {
		warn(logger, "Failed to load config, using defaults", "err", err)
		return Default()
	}

	if err := cfg.Validate(); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			warn(logger, "Invalid config, using defaults", "err", err)
			return Default()
		}
		def := Default()
		for _, fe := range verrs {
			switch fe.StructField() {
			case "PriorityMode":
				warn(logger, "Invalid priorityMode, using default", "value", fe.Value(), "default", def.PriorityMode)
				cfg.PriorityMode = def.PriorityMode
			case "Theme":
				warn(logger, "Unknown theme, using default", "value", fe.Value(), "default", def.Theme)
				cfg.Theme = def.Theme
			}
		}
	}
	return cfg
}

const tomlHeader = `# Todo TUI Configuration
# priorityMode: "letter" (A-Z) or "number" (0-9)
# theme: ` + "catppuccin, dracula, nord, gruvbox, tokyoNight, solarized, oneDark, monokai" + `

`

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(fs afero.Fs, path string) error {
	if path == "" {
		return nil
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid config: %w", err)
	}

	// Create config directory if it doesn't exist
	if err := fs.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	var buf bytes.Buffer
	if isYAML(path) {
		data, err := yaml.Marshal(c)
		if err != nil {
			return err
		}
		buf.Write(data)
	} else {
		buf.WriteString(tomlHeader)
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return err
		}
	}

	return fsutil.WriteFileAtomic(fs, path, buf.Bytes(), 0600)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func warn(logger *log.Logger, msg string, keyvals ...interface{}) {
	if logger == nil {
		return
	}
	logger.Warn(msg, keyvals...)
}
