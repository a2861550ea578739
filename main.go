//go:build linux

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// main starts the chord daemon and blocks reading the grabbed keyboard.
func main() {
	flags := initFlags()
	flag.Usage = usage
	flag.Parse()

	if flag.Arg(0) == "version" || flags.version {
		fmt.Printf("%s %s, built on %s (commit: %s)\n", name, version, date, commit)
		return
	}

	if flags.help {
		flag.Usage()
		return
	}

	if flag.NArg() > 0 {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(flags))
}

// run wires the devices, config and engine together and returns the process
// exit code. Every resource acquired here is released before it returns.
func run(flags *Flags) int {
	logFile, err := setupLogging(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		return 1
	}
	if logFile != nil {
		defer logFile.Close() //nolint:errcheck
	}

	logger.Info("Starting chord daemon...")

	reg := platformRegistry()
	configPath := configPathFrom(flags)
	cfg, err := loadConfig(configPath, reg)
	if err != nil {
		logger.Error("Failed to load config", "path", configPath, "err", err)
		return 1
	}

	path, ok, err := selectDevice(flags)
	if err != nil {
		logger.Error("No input device", "err", err)
		return 1
	}
	if !ok {
		return 0
	}

	input, err := openInput(path)
	if err != nil {
		logger.Error("Failed to open input device", "err", err)
		return 1
	}
	defer func() {
		if err := input.Release(); err != nil {
			logger.Error("Failed to release input device", "err", err)
		}
	}()

	output, err := createOutput(append(input.KeyCapabilities(), cfg.Keys()...))
	if err != nil {
		logger.Error("Failed to create output device", "err", err)
		return 1
	}
	defer output.Close() //nolint:errcheck

	var notify *notifier
	if flags.notify {
		if notify, err = newNotifier(); err != nil {
			logger.Warn("Desktop notifications disabled", "err", err)
		}
		defer notify.Close()
	}

	// Handle graceful shutdown on Ctrl+C and SIGTERM. Releasing the device
	// makes the pending read fail, which ends the loop.
	var stopping atomic.Bool
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, unix.SIGTERM)
	defer signal.Stop(interrupt)
	go func() {
		sig := <-interrupt
		logger.Info("Exiting...", "signal", sig.String())
		stopping.Store(true)
		input.Release() //nolint:errcheck
	}()

	// Start config file watcher
	var reloads <-chan *Config
	if !flags.noWatch {
		watcher, ch, err := startConfigWatcher(configPath, reg)
		if err != nil {
			logger.Warn("Config watcher disabled", "err", err)
		} else {
			defer watcher.Close() //nolint:errcheck
			reloads = ch
		}
	}

	if err := input.Grab(); err != nil {
		logger.Error("Failed to grab input device", "err", err)
		return 1
	}
	notify.Notify("Chorded keyboard active", input.Name())

	err = runLoop(NewChordEngine(cfg, output), input, reloads)
	notify.Notify("Chorded keyboard stopped", input.Name())
	switch {
	case errors.Is(err, ErrSessionEnd):
		logger.Info("Exit chord received")
		return 0
	case stopping.Load():
		return 0
	default:
		logger.Error("Event loop stopped", "err", err)
		return 1
	}
}

// selectDevice returns the device given on the command line or asks the user
// to pick one of the detected keyboards.
//
// Returns:
//   - string: The device path.
//   - bool: False if the user declined to choose.
//   - error: errNoKeyboards if nothing can be offered.
func selectDevice(flags *Flags) (string, bool, error) {
	if flags.device != "" {
		return flags.device, true, nil
	}
	keyboards, err := findKeyboards()
	if err != nil {
		return "", false, err
	}
	if len(keyboards) == 0 {
		return "", false, errNoKeyboards
	}
	fmt.Printf("Found %d keyboard device(s)\n", len(keyboards))

	names := make([]string, len(keyboards))
	for i, kb := range keyboards {
		names[i] = kb.Name
	}
	i, ok := chooseDevice(os.Stdin, os.Stdout, names)
	if !ok {
		return "", false, nil
	}
	return keyboards[i].Path, true, nil
}
