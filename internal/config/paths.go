package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// EnvTodoFile overrides the todo file location.
	EnvTodoFile = "TODO_FILE"
	// EnvConfigFile overrides the config file location.
	EnvConfigFile = "TODO_CONFIG"

	appDirName = "todo-tui"
)

// Paths are the resolved file locations for one run.
type Paths struct {
	TodoFile   string
	ConfigFile string
}

// Env is the slice of the process environment that path resolution reads.
type Env struct {
	Getenv  func(string) string
	HomeDir func() (string, error)
}

// OSEnv reads the real process environment.
func OSEnv() Env {
	return Env{Getenv: os.Getenv, HomeDir: os.UserHomeDir}
}

// ResolvePaths fills in file locations. Explicit values win, then the
// TODO_FILE / TODO_CONFIG variables, then ~/todo.txt and the XDG config
// directory (~/.config/todo-tui/config.toml).
func ResolvePaths(env Env, todoFile, configFile string) Paths {
	home := ""
	if env.HomeDir != nil {
		if h, err := env.HomeDir(); err == nil {
			home = h
		}
	}
	getenv := env.Getenv
	if getenv == nil {
		getenv = func(string) string { return "" }
	}

	if todoFile == "" {
		todoFile = getenv(EnvTodoFile)
	}
	if todoFile == "" {
		todoFile = filepath.Join(home, "todo.txt")
	}

	if configFile == "" {
		configFile = getenv(EnvConfigFile)
	}
	if configFile == "" {
		configFile = filepath.Join(configDir(getenv, home), "config.toml")
	}

	return Paths{
		TodoFile:   ExpandHome(todoFile, home),
		ConfigFile: ExpandHome(configFile, home),
	}
}

// configDir returns the configuration directory path (XDG compliant).
func configDir(getenv func(string) string, home string) string {
	// Check XDG_CONFIG_HOME first
	if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	return filepath.Join(home, ".config", appDirName)
}

// ExpandHome expands a leading ~ to home.
func ExpandHome(path, home string) string {
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		trimmed := strings.TrimPrefix(path, "~/")
		trimmed = strings.TrimPrefix(trimmed, `~\`)
		return filepath.Join(home, trimmed)
	}
	return path
}

// Dir returns the directory holding the config file; backups and logs live
// beside it.
func (p Paths) Dir() string {
	return filepath.Dir(p.ConfigFile)
}
