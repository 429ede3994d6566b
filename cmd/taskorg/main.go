// Package main is the entry point for the taskorg shell.
//
// It replays a JSON-lines stream of task lifecycle events through the
// organizer on a serial executor, with the built-in fullscreen listener
// and an optional Lua-scripted listener attached.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dshills/taskorg/internal/config"
	"github.com/dshills/taskorg/internal/executor"
	"github.com/dshills/taskorg/internal/listener/fullscreen"
	"github.com/dshills/taskorg/internal/listener/luascript"
	"github.com/dshills/taskorg/internal/logging"
	"github.com/dshills/taskorg/internal/organizer"
	"github.com/dshills/taskorg/internal/task"
	"github.com/dshills/taskorg/internal/wire"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

const stopTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

type options struct {
	configPath string
	scenario   string
	logLevel   string
	strict     bool
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Flags override the config file.
	if opts.scenario != "" {
		cfg.Scenario = opts.scenario
	}
	if opts.logLevel != "" {
		cfg.LogLevel = logging.ParseLevel(opts.logLevel)
	}
	if opts.strict {
		cfg.Strict = true
	}

	log := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Output: os.Stderr,
		Prefix: "taskorg",
	})

	org := organizer.New(organizer.WithLogger(log))

	if cfg.Fullscreen {
		fs := fullscreen.New(log)
		if err := org.AddListener(fs, task.WindowingModeFullscreen); err != nil {
			fmt.Fprintf(os.Stderr, "Error: fullscreen listener: %v\n", err)
			return 1
		}
	}

	if cfg.Lua != nil {
		scripted, err := luascript.New(cfg.Lua.Script, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer scripted.Close()
		if err := org.AddListener(scripted, cfg.Lua.Modes...); err != nil {
			fmt.Fprintf(os.Stderr, "Error: lua listener: %v\n", err)
			return 1
		}
	}

	serial := executor.NewSerial(
		executor.WithQueueSize(cfg.QueueSize),
		executor.WithPanicHandler(func(r any, stack []byte) {
			log.Error("listener panic contained: %v\n%s", r, stack)
		}),
	)
	if err := serial.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		if err := serial.Stop(ctx); err != nil && !errors.Is(err, executor.ErrNotRunning) {
			log.Warn("executor stop: %v", err)
		}
	}()

	in, closeIn, err := openScenario(cfg.Scenario)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeIn()

	if err := replay(in, org, serial, log, cfg.Strict); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	printStats(org, serial)
	return 0
}

// replay feeds each event line through the serial executor, preserving
// arrival order and keeping every organizer call on one goroutine.
func replay(in io.Reader, org *organizer.Organizer, serial *executor.Serial, log *logging.Logger, strict bool) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		ev, err := wire.Decode(line)
		if err != nil {
			if strict {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			log.Warn("line %d skipped: %v", lineNo, err)
			continue
		}

		var applyErr error
		err = serial.ExecuteBlocking(context.Background(), func() {
			applyErr = wire.Apply(org, ev)
		})
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if applyErr != nil {
			if strict {
				return fmt.Errorf("line %d: %w", lineNo, applyErr)
			}
			log.Warn("line %d: %v", lineNo, applyErr)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read events: %w", err)
	}
	return nil
}

func openScenario(path string) (io.Reader, func(), error) {
	if path == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open scenario: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func printStats(org *organizer.Organizer, serial *executor.Serial) {
	stats := org.Stats()
	fmt.Printf("events: appeared=%d infoChanged=%d vanished=%d backPressed=%d\n",
		stats.Appeared, stats.InfoChanged, stats.Vanished, stats.BackPressed)
	fmt.Printf("routing: modeChanges=%d backfilled=%d dropped=%d violations=%d\n",
		stats.ModeChanges, stats.Backfilled, stats.Dropped, stats.Violations)
	fmt.Printf("state: tasks=%d listeners=%d jobs=%d panics=%d\n",
		stats.Tasks, stats.Listeners, serial.Executed(), serial.Panicked())
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.scenario, "scenario", "", "JSON-lines event file to replay (default stdin)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.strict, "strict", false, "Fail on malformed events and protocol violations")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "taskorg - shell task organizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: taskorg [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  taskorg -scenario events.jsonl         Replay a recorded session\n")
		fmt.Fprintf(os.Stderr, "  generator | taskorg -strict            Route a live stream, failing fast\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("taskorg %s (%s)\n", version, commit)
		os.Exit(0)
	}

	return opts
}
