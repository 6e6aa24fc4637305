package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fakeEnv(vars map[string]string, home string) Env {
	return Env{
		Getenv: func(k string) string { return vars[k] },
		HomeDir: func() (string, error) {
			if home == "" {
				return "", errors.New("no home")
			}
			return home, nil
		},
	}
}

func TestResolvePathsDefaults(t *testing.T) {
	p := ResolvePaths(fakeEnv(nil, "/home/me"), "", "")
	assert.Equal(t, filepath.Join("/home/me", "todo.txt"), p.TodoFile)
	assert.Equal(t, filepath.Join("/home/me", ".config", "todo-tui", "config.toml"), p.ConfigFile)
	assert.Equal(t, filepath.Join("/home/me", ".config", "todo-tui"), p.Dir())
}

func TestResolvePathsEnv(t *testing.T) {
	env := fakeEnv(map[string]string{
		"TODO_FILE":       "~/notes/todo.txt",
		"XDG_CONFIG_HOME": "/xdg",
	}, "/home/me")
	p := ResolvePaths(env, "", "")
	assert.Equal(t, filepath.Join("/home/me", "notes", "todo.txt"), p.TodoFile)
	assert.Equal(t, filepath.Join("/xdg", "todo-tui", "config.toml"), p.ConfigFile)

	env = fakeEnv(map[string]string{"TODO_CONFIG": "/etc/todo.toml"}, "/home/me")
	assert.Equal(t, "/etc/todo.toml", ResolvePaths(env, "", "").ConfigFile)
}

func TestResolvePathsExplicitWins(t *testing.T) {
	env := fakeEnv(map[string]string{"TODO_FILE": "/env/todo.txt"}, "/home/me")
	p := ResolvePaths(env, "/flag/todo.txt", "/flag/config.toml")
	assert.Equal(t, "/flag/todo.txt", p.TodoFile)
	assert.Equal(t, "/flag/config.toml", p.ConfigFile)
}

func TestExpandHome(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"~", "/home/me"},
		{"~/todo.txt", filepath.Join("/home/me", "todo.txt")},
		{"/abs/todo.txt", "/abs/todo.txt"},
		{"rel/todo.txt", "rel/todo.txt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpandHome(tt.in, "/home/me"), tt.in)
	}
	assert.Equal(t, "~/x", ExpandHome("~/x", ""))
}
