package main

import (
	"flag"
	"fmt"
	"os"
)

// https://goreleaser.com/cookbooks/using-main.version/
var (
	name    = "chordkb"
	version string
	date    string
	commit  string
)

// flags
type Flags struct {
	help    bool
	version bool
	debug   bool
	notify  bool
	noWatch bool
	path    string
	device  string
	logPath string
}

// default config file path containing the chord bindings
const DEFAULT_CONFIG_PATH = "default.toml"

// takes precedence over DEFAULT_CONFIG_PATH above
const CHORDKB_CONFIG_VAR = "CHORDKB_CONFIG"

func initFlags() *Flags {
	flags := &Flags{}
	flag.StringVar(&flags.path, "f", DEFAULT_CONFIG_PATH, "")
	flag.StringVar(&flags.path, "file", DEFAULT_CONFIG_PATH, "specify config file path")
	flag.StringVar(&flags.device, "d", "", "")
	flag.StringVar(&flags.device, "device", "", "input device path, skips the selection prompt")
	flag.StringVar(&flags.logPath, "l", "", "")
	flag.StringVar(&flags.logPath, "log", "", "log to file instead of stdout")
	flag.BoolVar(&flags.notify, "n", false, "")
	flag.BoolVar(&flags.notify, "notify", false, "show desktop notifications")
	flag.BoolVar(&flags.noWatch, "no-watch", false, "disable config hot reload")
	flag.BoolVar(&flags.debug, "debug", false, "log every key event")
	flag.BoolVar(&flags.help, "?", false, "")
	flag.BoolVar(&flags.help, "help", false, "displays this help message")
	flag.BoolVar(&flags.version, "v", false, "")
	flag.BoolVar(&flags.version, "version", false, "print version and exit")
	return flags
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: "+name+` [OPTIONS]

Grabs a physical keyboard and turns chords (keys held together, then released)
into single key presses on a virtual keyboard. Keys that are not part of a chord
are remapped or passed through. The bindings are defined in a TOML or YAML config
file (hot-reload supported).

OPTIONS:

  -f, --file path
        specify config file path (default 'default.toml', env CHORDKB_CONFIG)
  -d, --device path
        input device path, e.g. /dev/input/event3 (default: ask)
  -l, --log path
        log to file instead of stdout
  -n, --notify
        show desktop notifications when the session starts and ends
      --no-watch
        disable config hot reload
      --debug
        log every key event
  -?, --help
        display this help message
  -v, --version
        print version and exit`)
}

// configPathFrom returns the config path from the environment, falling back
// to the flag value with environment variables expanded.
func configPathFrom(flags *Flags) string {
	if p := os.Getenv(CHORDKB_CONFIG_VAR); p != "" {
		return p
	}
	return os.ExpandEnv(flags.path)
}
