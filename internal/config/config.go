// Package config loads the shell configuration for the taskorg binary.
//
// The configuration is a single JSON file:
//
//	{
//	  "logging": {"level": "debug"},
//	  "scenario": "events.jsonl",
//	  "strict": true,
//	  "queueSize": 1024,
//	  "listeners": {
//	    "fullscreen": true,
//	    "lua": {"script": "pip.lua", "modes": ["pinned", "freeform"]}
//	  }
//	}
//
// Every field is optional; Default() supplies the baseline. Unknown fields
// are ignored so configs can be shared with newer builds.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/dshills/taskorg/internal/logging"
	"github.com/dshills/taskorg/internal/task"
)

// ErrInvalidConfig indicates the config file failed validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// ValidationError describes one invalid config value.
type ValidationError struct {
	// Path is the dot-separated path to the invalid value.
	Path string

	// Message describes what's wrong.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Path, e.Message)
}

// Is allows errors.Is to match ValidationError with ErrInvalidConfig.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// LuaListener configures the optional Lua-scripted listener.
type LuaListener struct {
	// Script is the path to the listener script.
	Script string

	// Modes are the windowing modes the listener binds.
	Modes []task.WindowingMode
}

// Config is the shell configuration.
type Config struct {
	// LogLevel is the minimum log level.
	LogLevel logging.Level

	// Scenario is the path of the JSON-lines event file to replay.
	// Empty means read events from stdin.
	Scenario string

	// Strict makes protocol violations fatal instead of logged.
	Strict bool

	// QueueSize is the serial executor's queue capacity.
	QueueSize int

	// Fullscreen enables the built-in fullscreen listener.
	Fullscreen bool

	// Lua configures the optional Lua listener; nil disables it.
	Lua *LuaListener
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		LogLevel:   logging.LevelInfo,
		QueueSize:  1024,
		Fullscreen: true,
	}
}

// Load reads and validates a config file. An empty path yields Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates and decodes config JSON.
func Parse(data []byte) (Config, error) {
	if !gjson.ValidBytes(data) {
		return Config{}, &ValidationError{Path: "(root)", Message: "not valid JSON"}
	}

	cfg := Default()
	root := gjson.ParseBytes(data)

	if v := root.Get("logging.level"); v.Exists() {
		cfg.LogLevel = logging.ParseLevel(v.String())
	}
	if v := root.Get("scenario"); v.Exists() {
		cfg.Scenario = v.String()
	}
	if v := root.Get("strict"); v.Exists() {
		cfg.Strict = v.Bool()
	}
	if v := root.Get("queueSize"); v.Exists() {
		size := int(v.Int())
		if size <= 0 {
			return Config{}, &ValidationError{Path: "queueSize", Message: "must be positive"}
		}
		cfg.QueueSize = size
	}
	if v := root.Get("listeners.fullscreen"); v.Exists() {
		cfg.Fullscreen = v.Bool()
	}

	if v := root.Get("listeners.lua"); v.Exists() {
		lua, err := parseLua(v)
		if err != nil {
			return Config{}, err
		}
		cfg.Lua = lua
	}

	return cfg, nil
}

func parseLua(v gjson.Result) (*LuaListener, error) {
	script := v.Get("script").String()
	if script == "" {
		return nil, &ValidationError{Path: "listeners.lua.script", Message: "required"}
	}

	modesVal := v.Get("modes")
	if !modesVal.Exists() || len(modesVal.Array()) == 0 {
		return nil, &ValidationError{Path: "listeners.lua.modes", Message: "at least one mode required"}
	}

	var modes []task.WindowingMode
	var badModes []string
	modesVal.ForEach(func(_, name gjson.Result) bool {
		mode, ok := task.ParseWindowingMode(name.String())
		if !ok {
			badModes = append(badModes, name.String())
			return true
		}
		modes = append(modes, mode)
		return true
	})
	if len(badModes) > 0 {
		return nil, &ValidationError{
			Path:    "listeners.lua.modes",
			Message: fmt.Sprintf("unrecognized modes: %s", strings.Join(badModes, ", ")),
		}
	}

	return &LuaListener{Script: script, Modes: modes}, nil
}
