package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Config holds the lookup tables compiled from a config document. It is never
// modified after compileConfig returns.
type Config struct {
	// Participants maps each chord participant to its single-bit mask.
	Participants map[KeyID]ChordMask
	// Remap rewrites non-participant keys 1:1.
	Remap map[KeyID]KeyID
	// Chords maps a completed chord to the keys it emits.
	Chords map[ChordMask]Binding
	// Components maps output.keys entries to their bit, for reading chord specs.
	Components map[KeyID]ChordMask

	// names renders keys in log output; nil falls back to numeric codes.
	names *KeyRegistry
}

func emptyConfig() *Config {
	return &Config{
		Participants: map[KeyID]ChordMask{},
		Remap:        map[KeyID]KeyID{},
		Chords:       map[ChordMask]Binding{},
		Components:   map[KeyID]ChordMask{},
	}
}

// Keys returns every key the config may emit, for declaring output device
// capabilities. The exit key is excluded.
func (c *Config) Keys() []KeyID {
	seen := make(map[KeyID]bool)
	var keys []KeyID
	add := func(k KeyID) {
		if k != ExitKey && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for _, to := range c.Remap {
		add(to)
	}
	for _, b := range c.Chords {
		for _, k := range b {
			add(k)
		}
	}
	return keys
}

// Diagnostic describes a config entry that was skipped or overridden.
type Diagnostic struct {
	Section string
	Entry   string
	Reason  error
	// Override is set when the entry was applied over an earlier one
	// rather than skipped.
	Override bool
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s[%s]: %v", d.Section, d.Entry, d.Reason)
}

// shouldReloadConfig reports whether an fsnotify event warrants a config reload.
//
// Parameters:
//   - configPath: Cleaned absolute path to the config file.
//   - configBase: Base filename of the config file.
//   - event: Filesystem event to evaluate.
//
// Returns:
//   - bool: True if the event should trigger a reload.
func shouldReloadConfig(configPath, configBase string, event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Clean(event.Name)
	if name == configPath {
		return true
	}
	// Some editors write via temp + rename, resulting in partial paths.
	if filepath.Base(name) == configBase {
		return true
	}
	return false
}

// loadConfig reads and compiles the config file at path. A missing file yields
// an empty config, so every key passes through.
//
// Parameters:
//   - path: Path to a TOML or YAML config file.
//   - reg: Registry used to resolve key names.
//
// Returns:
//   - *Config: The compiled tables.
//   - error: Non-nil if the file exists but cannot be read, parsed or validated.
func loadConfig(path string, reg *KeyRegistry) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("No config found, passing all keys through", "path", path)
		cfg := emptyConfig()
		cfg.names = reg
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %w", err)
	}
	doc, err := parseDocument(data, isYAML(path))
	if err != nil {
		return nil, err
	}
	cfg, diags := compileConfig(doc, reg)
	for _, d := range diags {
		msg := "Skipping config entry"
		if d.Override {
			msg = "Overriding config entry"
		}
		logger.Warn(msg, "section", d.Section, "entry", d.Entry, "reason", d.Reason)
	}
	logger.Info("Loaded config",
		"path", path,
		"participants", len(cfg.Participants),
		"remaps", len(cfg.Remap),
		"chords", len(cfg.Chords),
	)
	return cfg, nil
}

// compileConfig turns a document into lookup tables. Entries that cannot be
// resolved are skipped and reported; the rest of the document still compiles.
//
// Parameters:
//   - doc: Decoded document.
//   - reg: Registry used to resolve key names.
//
// Returns:
//   - *Config: The compiled tables.
//   - []Diagnostic: One entry per skipped or overridden entry, in document order.
func compileConfig(doc *Document, reg *KeyRegistry) (*Config, []Diagnostic) {
	cfg := emptyConfig()
	cfg.names = reg
	var diags []Diagnostic
	report := func(section, entry string, reason error) {
		diags = append(diags, Diagnostic{Section: section, Entry: entry, Reason: reason})
	}
	override := func(section, entry string, reason error) {
		diags = append(diags, Diagnostic{Section: section, Entry: entry, Reason: reason, Override: true})
	}

	// 1. Participants: declaration order fixes the bit.
	for i, name := range doc.InputKeys {
		entry := fmt.Sprintf("%d:%s", i, name)
		if i >= maxParticipants {
			report(sectionInputKeys, entry, fmt.Errorf("more than %d chord keys", maxParticipants))
			continue
		}
		id, err := resolveKey(reg, name)
		if err != nil {
			report(sectionInputKeys, entry, err)
			continue
		}
		if id == ExitKey {
			report(sectionInputKeys, entry, fmt.Errorf("%w %q", errUnknownKey, name))
			continue
		}
		if _, dup := cfg.Participants[id]; dup {
			report(sectionInputKeys, entry, errors.New("duplicate key, keeping first position"))
			continue
		}
		cfg.Participants[id] = ChordMask(1) << i
	}

	// 2. Remaps for keys outside the chord set.
	for _, r := range doc.Remap {
		from, err := resolveKey(reg, r.From)
		if err != nil {
			report(sectionInputRemap, r.From, err)
			continue
		}
		to, err := resolveKey(reg, r.To)
		if err != nil {
			report(sectionInputRemap, r.From, err)
			continue
		}
		switch {
		case from == ExitKey || to == ExitKey:
			report(sectionInputRemap, r.From, errors.New("EXIT cannot be remapped"))
			continue
		case cfg.Participants[from] != 0:
			report(sectionInputRemap, r.From, errors.New("key is a chord key"))
			continue
		}
		if _, dup := cfg.Remap[from]; dup {
			override(sectionInputRemap, r.From, errors.New("overrides earlier remap"))
		}
		cfg.Remap[from] = to
	}

	// 3. Single-key chords and the component table.
	for i, name := range doc.OutputKeys {
		entry := fmt.Sprintf("%d:%s", i, name)
		if i >= maxParticipants {
			report(sectionOutputKeys, entry, fmt.Errorf("more than %d chord keys", maxParticipants))
			continue
		}
		id, err := resolveKey(reg, name)
		if err != nil {
			report(sectionOutputKeys, entry, err)
			continue
		}
		bit := ChordMask(1) << i
		cfg.Chords[bit] = Binding{id}
		if _, dup := cfg.Components[id]; !dup && id != ExitKey {
			cfg.Components[id] = bit
		}
	}

	// 4. Multi-key chords. Later entries win over earlier ones for the same mask.
	// Without output.keys the chord letters name input.keys directly.
	var fallback map[KeyID]ChordMask
	if len(doc.OutputKeys) == 0 {
		fallback = cfg.Participants
	}
	for _, c := range doc.Chords {
		chord, err := parseChordSpec(reg, c.Spec, cfg.Components, fallback)
		if err != nil {
			report(sectionOutputChords, c.Spec, err)
			continue
		}
		if len(c.Outputs) == 0 {
			report(sectionOutputChords, c.Spec, errors.New("no output keys"))
			continue
		}
		b, err := parseBinding(reg, c.Outputs)
		if err != nil {
			report(sectionOutputChords, c.Spec, err)
			continue
		}
		if _, dup := cfg.Chords[chord]; dup {
			override(sectionOutputChords, c.Spec, fmt.Errorf("overrides earlier binding for mask %#x", uint64(chord)))
		}
		cfg.Chords[chord] = b
	}
	return cfg, diags
}
